package models

import (
	"time"

	"github.com/gocql/gocql"
)

// Payment représente l'encaissement associé à une réservation.
type Payment struct {
	BookingID gocql.UUID `json:"booking_id"`
	PaymentID gocql.UUID `json:"payment_id"`
	Amount    float64    `json:"amount"`
	Status    string     `json:"status"` // paid, canceled
	CreatedAt time.Time  `json:"created_at"`
}
