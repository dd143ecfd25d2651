package models

import "time"

// CommissionRate représente le pourcentage retenu par la plateforme
// pour un niveau d'abonnement donné (0–100).
type CommissionRate struct {
	Tier       string     `json:"tier"`
	Percentage float64    `json:"percentage"`
	UpdatedAt  *time.Time `json:"updated_at,omitempty"`
}
