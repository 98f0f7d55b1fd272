// internal/models/notification.go
package models

type NotificationType string

const (
	NotificationGeneral     NotificationType = "general"
	NotificationOffer       NotificationType = "offer"
	NotificationReservation NotificationType = "reservation"
	NotificationTestDrive   NotificationType = "test_drive"
)

type Notification struct {
	ID      string           `json:"id"`
	Title   BilingualText    `json:"title"`
	Message BilingualText    `json:"message"`
	Date    string           `json:"date"`
	Type    NotificationType `json:"type"`
}
