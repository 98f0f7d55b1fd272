package models

type News struct {
	Title       BilingualText `json:"title"`
	Content     BilingualText `json:"content"`
	ImageURL    string        `json:"imageUrl,omitempty"`
	PublishedAt string        `json:"publishedAt,omitempty"`
}
