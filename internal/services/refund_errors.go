package services

import "errors"

// Erreurs métier du moteur de remboursement. Toutes sont levées avant
// le moindre appel Stripe, sauf ProcessorError.
var (
	ErrBookingNotFound  = errors.New("réservation introuvable")
	ErrNotCardPayment   = errors.New("seuls les paiements par carte peuvent être remboursés via Stripe")
	ErrNoPaymentIntent  = errors.New("aucun paiement Stripe associé à cette réservation")
	ErrAlreadyRefunded  = errors.New("réservation déjà remboursée")
	ErrBookingCancelled = errors.New("réservation annulée, remboursement impossible")
	ErrInvalidAmount    = errors.New("montant de remboursement invalide")
	ErrNotAdmin         = errors.New("accès réservé aux administrateurs")
	ErrRefundInProgress = errors.New("un remboursement est déjà en cours pour cette réservation")
)

// ProcessorError enveloppe toute erreur Stripe, sans interprétation.
// Jamais réessayé automatiquement : un double appel risquerait un
// double remboursement. L'admin doit vérifier l'état dans le dashboard
// Stripe avant toute nouvelle tentative.
type ProcessorError struct {
	Err error
}

func (e *ProcessorError) Error() string {
	return "erreur Stripe: " + e.Err.Error()
}

func (e *ProcessorError) Unwrap() error {
	return e.Err
}
