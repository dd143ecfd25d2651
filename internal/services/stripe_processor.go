package services

import (
	"context"

	"github.com/stripe/stripe-go/v83"
	"github.com/stripe/stripe-go/v83/refund"
	"github.com/stripe/stripe-go/v83/transfer"
	"github.com/stripe/stripe-go/v83/transferreversal"

	"salonova_back_end/internal/models"
)

// StripeProcessor implémente PaymentProcessor avec le SDK Stripe.
// La clé est posée globalement au démarrage (stripe.Key dans main).
type StripeProcessor struct{}

func (StripeProcessor) CreateRefund(ctx context.Context, paymentIntentID string, amountCents int64, reverseTransfer bool, metadata map[string]string) (*ProcessorRefund, error) {
	params := &stripe.RefundParams{
		PaymentIntent: stripe.String(paymentIntentID),
		Amount:        stripe.Int64(amountCents),
		Metadata:      metadata,
	}
	if reverseTransfer {
		params.ReverseTransfer = stripe.Bool(true)
	}
	params.Context = ctx

	r, err := refund.New(params)
	if err != nil {
		return nil, err
	}

	// Stripe peut répondre succeeded ou pending selon le moyen de
	// paiement ; tout le reste est traité comme pending
	status := models.RefundStatusPending
	if r.Status == stripe.RefundStatusSucceeded {
		status = models.RefundStatusSucceeded
	}

	return &ProcessorRefund{ID: r.ID, Status: status}, nil
}

func (StripeProcessor) ListTransfers(ctx context.Context, destinationAccountID string) ([]ProcessorTransfer, error) {
	params := &stripe.TransferListParams{
		Destination: stripe.String(destinationAccountID),
	}
	params.Context = ctx

	var transfers []ProcessorTransfer
	iter := transfer.List(params)
	for iter.Next() {
		t := iter.Transfer()
		transfers = append(transfers, ProcessorTransfer{
			ID:            t.ID,
			AmountCents:   t.Amount,
			TransferGroup: t.TransferGroup,
			Metadata:      t.Metadata,
		})
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}

	return transfers, nil
}

func (StripeProcessor) CreateTransferReversal(ctx context.Context, transferID string, amountCents int64, metadata map[string]string) (*ProcessorReversal, error) {
	params := &stripe.TransferReversalParams{
		ID:       stripe.String(transferID),
		Amount:   stripe.Int64(amountCents),
		Metadata: metadata,
	}
	params.Context = ctx

	rev, err := transferreversal.New(params)
	if err != nil {
		return nil, err
	}

	return &ProcessorReversal{ID: rev.ID, AmountCents: rev.Amount}, nil
}
