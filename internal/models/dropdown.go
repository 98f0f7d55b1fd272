package models

type Brand struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type CarModel struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Year int    `json:"year,omitempty"`
}
