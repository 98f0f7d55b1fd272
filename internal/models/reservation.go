// internal/models/reservation.go
package models

import "time"

type ReservationStatus string

const (
	ReservationPending   ReservationStatus = "pending"
	ReservationConfirmed ReservationStatus = "confirmed"
	ReservationCancelled ReservationStatus = "cancelled"
	ReservationCompleted ReservationStatus = "completed"
)

type UserRef struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone,omitempty"`
}

type Payment struct {
	Method        string  `json:"method"`
	Amount        float64 `json:"amount"`
	Currency      string  `json:"currency"`
	Status        string  `json:"status"`
	TransactionID string  `json:"transactionId,omitempty"`
}

// Reservation is read-only from the admin portal.
type Reservation struct {
	ID        string            `json:"id"`
	Car       CarRef            `json:"car"`
	User      UserRef           `json:"user"`
	Payment   Payment           `json:"payment"`
	Status    ReservationStatus `json:"status"`
	CreatedAt time.Time         `json:"createdAt"`
}
