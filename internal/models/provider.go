package models

import (
	"time"

	"github.com/gocql/gocql"
)

// Provider représente un coiffeur partenaire de la plateforme.
// StripeAccountID est son compte connecté Stripe (destination des transferts).
type Provider struct {
	ID               gocql.UUID `json:"provider_id"`
	Name             string     `json:"name"`
	Email            string     `json:"email"`
	SubscriptionTier string     `json:"subscription_tier"` // basic, premium...
	StripeAccountID  string     `json:"stripe_account_id,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
}
