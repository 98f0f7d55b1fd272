package schemas

import (
	"dealer-admin/internal/common/validation"
	"dealer-admin/internal/models"
)

var NotificationSchema = validation.JSONSchema{
	Name: "notification",
	Type: "object",
	Properties: map[string]validation.Property{
		"title":   validation.Bilingual("notification title"),
		"message": validation.Bilingual("notification body"),
		"date": {
			Type:          "string",
			TrimSpace:     true,
			EmptyAsAbsent: true,
			Format:        "date",
		},
		"type": {
			Type:          "string",
			EmptyAsAbsent: true,
			Enum: []string{
				string(models.NotificationGeneral),
				string(models.NotificationOffer),
				string(models.NotificationReservation),
				string(models.NotificationTestDrive),
			},
		},
	},
	Required: []string{"title", "message", "date", "type"},
}

var TestDriveStatusSchema = validation.JSONSchema{
	Name: "test-drive-status",
	Type: "object",
	Properties: map[string]validation.Property{
		"status": {
			Type:          "string",
			TrimSpace:     true,
			EmptyAsAbsent: true,
			Enum:          models.TestDriveStatuses,
		},
	},
	Required: []string{"status"},
}

var NewsSchema = validation.JSONSchema{
	Name: "news",
	Type: "object",
	Properties: map[string]validation.Property{
		"title":   validation.Bilingual("headline"),
		"content": validation.Bilingual("article body"),
		"imageUrl": {
			Type:          "string",
			TrimSpace:     true,
			EmptyAsAbsent: true,
			Format:        "url",
		},
		"publishedAt": {
			Type:          "string",
			TrimSpace:     true,
			EmptyAsAbsent: true,
			Format:        "date",
		},
	},
	Required: []string{"title", "content"},
}
