package models

import (
	"time"

	"github.com/gocql/gocql"
)

// Statuts possibles d'une réservation
const (
	BookingStatusPending   = "pending"
	BookingStatusConfirmed = "confirmed"
	BookingStatusCompleted = "completed"
	BookingStatusCancelled = "cancelled"
	BookingStatusPast      = "past"
	BookingStatusRefund    = "refund"
)

// Méthodes de paiement
const (
	PaymentMethodCard = "card"
	PaymentMethodCash = "cash"
)

// Booking représente une réservation (prestation coiffeur) et son paiement.
// ProviderTier et StripeAccountID sont normalisés depuis la table providers
// dès la lecture, avant toute logique métier.
type Booking struct {
	ID              gocql.UUID `json:"booking_id"`
	ClientID        string     `json:"client_id"`
	ProviderID      gocql.UUID `json:"provider_id"`
	TotalPrice      float64    `json:"total_price"`
	PaymentMethod   string     `json:"payment_method"` // card, cash
	PaymentIntentID string     `json:"payment_intent_id,omitempty"`
	Status          string     `json:"status"`
	ProviderTier    string     `json:"provider_tier,omitempty"`
	StripeAccountID string     `json:"-"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       *time.Time `json:"updated_at,omitempty"`
}
