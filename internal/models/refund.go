package models

import (
	"time"

	"github.com/gocql/gocql"
)

// Politique de gestion de la commission lors d'un remboursement
type CommissionPolicy string

const (
	PolicyKeepPlatformCommission CommissionPolicy = "keep_platform_commission"
	PolicyRefundAll              CommissionPolicy = "refund_all"
)

// Portée du remboursement par rapport au prix total de la réservation
type RefundScope string

const (
	RefundScopePartial RefundScope = "partial"
	RefundScopeFull    RefundScope = "full"
)

// Statuts remontés par Stripe pour un remboursement
const (
	RefundStatusSucceeded = "succeeded"
	RefundStatusPending   = "pending"
)

// RefundLedgerEntry est l'enregistrement immuable d'un remboursement :
// une ligne par tentative ayant atteint Stripe, jamais modifiée ni supprimée.
type RefundLedgerEntry struct {
	BookingID              gocql.UUID       `json:"booking_id"`
	RefundID               string           `json:"refund_id"`
	PaymentIntentID        string           `json:"payment_intent_id"`
	Amount                 float64          `json:"amount"`
	Scope                  RefundScope      `json:"scope"` // partial, full
	CommissionHandling     CommissionPolicy `json:"commission_handling"`
	PlatformAmountKept     float64          `json:"platform_amount_kept"`
	ProviderAmountReversed float64          `json:"provider_amount_reversed"`
	Reason                 string           `json:"reason,omitempty"`
	Status                 string           `json:"status"` // succeeded, pending
	AdminID                string           `json:"admin_id"`
	CreatedAt              time.Time        `json:"created_at"`
}
