package services

import (
	"context"
	"fmt"
	"log"
	"math"
	"time"

	"salonova_back_end/internal/models"
)

// ProcessorRefund est le résultat d'un remboursement côté Stripe
type ProcessorRefund struct {
	ID     string
	Status string // succeeded, pending
}

// ProcessorTransfer est un transfert vers le compte connecté d'un coiffeur
type ProcessorTransfer struct {
	ID            string
	AmountCents   int64
	TransferGroup string
	Metadata      map[string]string
}

// ProcessorReversal est le résultat d'une annulation (partielle) de transfert
type ProcessorReversal struct {
	ID          string
	AmountCents int64
}

// PaymentProcessor est l'interface étroite vers Stripe. Le moteur ne
// connaît que ces trois opérations, ce qui permet de le tester sans
// compte Stripe.
type PaymentProcessor interface {
	CreateRefund(ctx context.Context, paymentIntentID string, amountCents int64, reverseTransfer bool, metadata map[string]string) (*ProcessorRefund, error)
	ListTransfers(ctx context.Context, destinationAccountID string) ([]ProcessorTransfer, error)
	CreateTransferReversal(ctx context.Context, transferID string, amountCents int64, metadata map[string]string) (*ProcessorReversal, error)
}

// BookingStore lit les réservations et applique la transition de statut
// vers refund. MarkRefunded doit être conditionnel côté base
// (UPDATE ... IF status != 'refund'), jamais un read-then-write applicatif.
type BookingStore interface {
	GetBooking(ctx context.Context, bookingID string) (*models.Booking, error)
	MarkRefunded(ctx context.Context, bookingID string) (bool, error)
}

// CommissionStore retourne le taux (0–100) pour un tier d'abonnement.
// found = false si aucun taux n'est configuré pour ce tier.
type CommissionStore interface {
	GetRateForTier(ctx context.Context, tier string) (rate float64, found bool, err error)
}

// LedgerStore est le grand livre append-only des remboursements
type LedgerStore interface {
	AppendEntry(ctx context.Context, entry models.RefundLedgerEntry) error
	ListByBooking(ctx context.Context, bookingID string) ([]models.RefundLedgerEntry, error)
}

// PaymentStore marque l'encaissement d'une réservation comme annulé
type PaymentStore interface {
	CancelPayment(ctx context.Context, bookingID string) error
}

// AdminStore vérifie l'appartenance à la table admins
type AdminStore interface {
	IsAdmin(ctx context.Context, userID string) (bool, error)
}

// RefundLock sérialise les remboursements concurrents d'une même réservation
type RefundLock interface {
	Acquire(ctx context.Context, bookingID string) (bool, error)
	Release(ctx context.Context, bookingID string)
}

// RefundRequest est la demande de remboursement d'un admin
type RefundRequest struct {
	BookingID string
	AdminID   string
	Amount    *float64 // nil = remboursement intégral
	Policy    models.CommissionPolicy
	Reason    string
}

// RefundResult est la ventilation renvoyée à l'appelant
type RefundResult struct {
	RefundID               string             `json:"refund_id,omitempty"`
	Status                 string             `json:"status,omitempty"`
	Amount                 float64            `json:"amount"`
	Scope                  models.RefundScope `json:"scope"`
	PlatformAmountKept     float64            `json:"platform_amount_kept"`
	ProviderAmountReversed float64            `json:"provider_amount_reversed"`
}

// RefundEngine convertit une demande de remboursement en ventilation
// client / plateforme / coiffeur, l'exécute une seule fois contre Stripe
// et l'enregistre durablement.
type RefundEngine struct {
	bookings  BookingStore
	rates     CommissionStore
	ledger    LedgerStore
	payments  PaymentStore
	admins    AdminStore
	locks     RefundLock
	processor PaymentProcessor
}

func NewRefundEngine(bookings BookingStore, rates CommissionStore, ledger LedgerStore, payments PaymentStore, admins AdminStore, locks RefundLock, processor PaymentProcessor) *RefundEngine {
	return &RefundEngine{
		bookings:  bookings,
		rates:     rates,
		ledger:    ledger,
		payments:  payments,
		admins:    admins,
		locks:     locks,
		processor: processor,
	}
}

// Engine est l'instance globale branchée sur Scylla/Redis/Stripe,
// initialisée au démarrage du serveur
var Engine *RefundEngine

// InitRefundEngine branche le moteur sur les implémentations réelles
func InitRefundEngine() {
	Engine = NewRefundEngine(
		ScyllaBookingStore{},
		ScyllaCommissionStore{},
		ScyllaLedgerStore{},
		ScyllaPaymentStore{},
		ScyllaAdminStore{},
		RedisRefundLock{},
		StripeProcessor{},
	)
	log.Println("✅ Moteur de remboursement initialisé")
}

// toCents convertit un montant décimal en centimes (arrondi au centime)
func toCents(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

func fromCents(cents int64) float64 {
	return float64(cents) / 100
}

// splitRefund ventile le montant remboursé en centimes.
// Invariant : kept + reversed == refundCents, exactement.
func splitRefund(refundCents int64, ratePercent float64, policy models.CommissionPolicy) (keptCents, reversedCents int64) {
	if policy == models.PolicyRefundAll {
		return 0, refundCents
	}
	kept := int64(math.Round(float64(refundCents) * ratePercent / 100))
	return kept, refundCents - kept
}

// validateRefundable applique les préconditions, dans l'ordre, avant
// tout appel Stripe
func validateRefundable(booking *models.Booking, amount *float64) error {
	if booking.PaymentMethod != models.PaymentMethodCard {
		return ErrNotCardPayment
	}
	if booking.PaymentIntentID == "" {
		return ErrNoPaymentIntent
	}
	if booking.Status == models.BookingStatusRefund {
		return ErrAlreadyRefunded
	}
	if booking.Status == models.BookingStatusCancelled {
		return ErrBookingCancelled
	}
	if amount != nil {
		cents := toCents(*amount)
		if cents <= 0 || cents > toCents(booking.TotalPrice) {
			return ErrInvalidAmount
		}
	}
	return nil
}

// ProcessRefund exécute le pipeline complet :
// validation → ventilation → remboursement Stripe → annulation partielle
// du transfert si applicable → grand livre → statut réservation/paiement.
//
// Une fois l'appel Stripe parti, les échecs de persistance sont loggés
// mais jamais remontés : l'argent a bougé, le grand livre et les logs
// font foi. Aucun retry automatique, jamais.
func (e *RefundEngine) ProcessRefund(ctx context.Context, req RefundRequest) (*RefundResult, error) {
	// Garde obligatoire : revérifier que l'appelant est bien admin,
	// même si le middleware l'a déjà fait
	isAdmin, err := e.admins.IsAdmin(ctx, req.AdminID)
	if err != nil {
		return nil, fmt.Errorf("vérification administrateur: %w", err)
	}
	if !isAdmin {
		return nil, ErrNotAdmin
	}

	// Verrou par réservation : deux demandes simultanées ne doivent
	// jamais atteindre Stripe toutes les deux
	acquired, err := e.locks.Acquire(ctx, req.BookingID)
	if err != nil {
		return nil, fmt.Errorf("acquisition du verrou de remboursement: %w", err)
	}
	if !acquired {
		return nil, ErrRefundInProgress
	}
	defer e.locks.Release(ctx, req.BookingID)

	booking, err := e.bookings.GetBooking(ctx, req.BookingID)
	if err != nil {
		return nil, err
	}

	if err := validateRefundable(booking, req.Amount); err != nil {
		return nil, err
	}

	totalCents := toCents(booking.TotalPrice)
	refundCents := totalCents
	if req.Amount != nil {
		refundCents = toCents(*req.Amount)
	}

	scope := models.RefundScopeFull
	if refundCents != totalCents {
		scope = models.RefundScopePartial
	}

	// Taux de commission du tier ACTUEL du coiffeur, pas celui en
	// vigueur lors de l'encaissement. Comportement hérité, conservé
	// volontairement : à revoir si les tiers changent en cours de mois.
	rate, found, err := e.rates.GetRateForTier(ctx, booking.ProviderTier)
	if err != nil {
		return nil, fmt.Errorf("lecture du taux de commission: %w", err)
	}
	if !found {
		rate = 0
	}

	keptCents, reversedCents := splitRefund(refundCents, rate, req.Policy)

	metadata := map[string]string{
		"booking_id": req.BookingID,
		"admin_id":   req.AdminID,
	}

	// reverse_transfer uniquement en refund_all : Stripe récupère alors
	// lui-même l'intégralité du transfert vers le compte connecté
	reverseTransfer := req.Policy == models.PolicyRefundAll

	stripeRefund, err := e.processor.CreateRefund(ctx, booking.PaymentIntentID, refundCents, reverseTransfer, metadata)
	if err != nil {
		return nil, &ProcessorError{Err: err}
	}
	log.Printf("💰 Remboursement Stripe créé: %s (%.2f€) pour réservation %s", stripeRefund.ID, fromCents(refundCents), req.BookingID)

	// En keep_platform_commission, récupérer uniquement la part nette du
	// coiffeur, sans toucher à la commission déjà encaissée
	if req.Policy == models.PolicyKeepPlatformCommission && reversedCents > 0 {
		e.reverseProviderShare(ctx, booking, reversedCents, metadata)
	}

	entry := models.RefundLedgerEntry{
		BookingID:              booking.ID,
		RefundID:               stripeRefund.ID,
		PaymentIntentID:        booking.PaymentIntentID,
		Amount:                 fromCents(refundCents),
		Scope:                  scope,
		CommissionHandling:     req.Policy,
		PlatformAmountKept:     fromCents(keptCents),
		ProviderAmountReversed: fromCents(reversedCents),
		Reason:                 req.Reason,
		Status:                 stripeRefund.Status,
		AdminID:                req.AdminID,
		CreatedAt:              time.Now(),
	}

	if err := e.ledger.AppendEntry(ctx, entry); err != nil {
		log.Printf("⚠️ Erreur écriture grand livre pour réservation %s (refund Stripe %s): %v", req.BookingID, stripeRefund.ID, err)
	}

	applied, err := e.bookings.MarkRefunded(ctx, req.BookingID)
	if err != nil {
		log.Printf("⚠️ Erreur mise à jour statut réservation %s: %v", req.BookingID, err)
	} else if !applied {
		log.Printf("⚠️ Statut de la réservation %s déjà passé à refund par ailleurs", req.BookingID)
	}

	if err := e.payments.CancelPayment(ctx, req.BookingID); err != nil {
		log.Printf("⚠️ Erreur annulation paiement pour réservation %s: %v", req.BookingID, err)
	}

	log.Printf("✅ Remboursement traité: réservation %s, gardé plateforme %.2f€, repris coiffeur %.2f€", req.BookingID, fromCents(keptCents), fromCents(reversedCents))

	return &RefundResult{
		RefundID:               stripeRefund.ID,
		Status:                 stripeRefund.Status,
		Amount:                 fromCents(refundCents),
		Scope:                  scope,
		PlatformAmountKept:     fromCents(keptCents),
		ProviderAmountReversed: fromCents(reversedCents),
	}, nil
}

// reverseProviderShare localise le transfert d'origine vers le compte
// connecté et en annule exactement la part nette du coiffeur.
//
// Échec souple : si aucun transfert ne correspond (ou si Stripe refuse
// l'annulation alors que le remboursement est déjà parti), on logge et on
// continue — le grand livre enregistre la ventilation calculée, la
// réconciliation se fait manuellement via le dashboard Stripe.
func (e *RefundEngine) reverseProviderShare(ctx context.Context, booking *models.Booking, reversedCents int64, metadata map[string]string) {
	bookingID := booking.ID.String()

	if booking.StripeAccountID == "" {
		log.Printf("⚠️ Pas de compte connecté pour la réservation %s, annulation de transfert ignorée", bookingID)
		return
	}

	transfers, err := e.processor.ListTransfers(ctx, booking.StripeAccountID)
	if err != nil {
		log.Printf("❌ Erreur listing transferts pour %s: %v", booking.StripeAccountID, err)
		return
	}

	var target *ProcessorTransfer
	for i := range transfers {
		t := &transfers[i]
		if t.Metadata["booking_id"] == bookingID || t.TransferGroup == bookingID {
			target = t
			break
		}
	}

	if target == nil {
		log.Printf("⚠️ Aucun transfert trouvé pour la réservation %s sur %s, part coiffeur non reprise", bookingID, booking.StripeAccountID)
		return
	}

	reversal, err := e.processor.CreateTransferReversal(ctx, target.ID, reversedCents, metadata)
	if err != nil {
		log.Printf("❌ Erreur annulation partielle du transfert %s (%.2f€): %v", target.ID, fromCents(reversedCents), err)
		return
	}

	log.Printf("✅ Transfert %s annulé partiellement: %s (%.2f€)", target.ID, reversal.ID, fromCents(reversal.AmountCents))
}

// PreviewRefund calcule la ventilation sans appeler Stripe ni rien
// écrire, pour l'écran de confirmation du dashboard.
func (e *RefundEngine) PreviewRefund(ctx context.Context, req RefundRequest) (*RefundResult, error) {
	isAdmin, err := e.admins.IsAdmin(ctx, req.AdminID)
	if err != nil {
		return nil, fmt.Errorf("vérification administrateur: %w", err)
	}
	if !isAdmin {
		return nil, ErrNotAdmin
	}

	booking, err := e.bookings.GetBooking(ctx, req.BookingID)
	if err != nil {
		return nil, err
	}

	if err := validateRefundable(booking, req.Amount); err != nil {
		return nil, err
	}

	totalCents := toCents(booking.TotalPrice)
	refundCents := totalCents
	if req.Amount != nil {
		refundCents = toCents(*req.Amount)
	}

	scope := models.RefundScopeFull
	if refundCents != totalCents {
		scope = models.RefundScopePartial
	}

	rate, found, err := e.rates.GetRateForTier(ctx, booking.ProviderTier)
	if err != nil {
		return nil, fmt.Errorf("lecture du taux de commission: %w", err)
	}
	if !found {
		rate = 0
	}

	keptCents, reversedCents := splitRefund(refundCents, rate, req.Policy)

	return &RefundResult{
		Amount:                 fromCents(refundCents),
		Scope:                  scope,
		PlatformAmountKept:     fromCents(keptCents),
		ProviderAmountReversed: fromCents(reversedCents),
	}, nil
}

// ListRefunds retourne les lignes du grand livre pour une réservation
func (e *RefundEngine) ListRefunds(ctx context.Context, bookingID string) ([]models.RefundLedgerEntry, error) {
	return e.ledger.ListByBooking(ctx, bookingID)
}
