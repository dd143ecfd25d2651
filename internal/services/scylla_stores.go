package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gocql/gocql"

	"salonova_back_end/internal/cache"
	"salonova_back_end/internal/database"
	"salonova_back_end/internal/models"
)

// Implémentations ScyllaDB/Redis des dépendances du moteur.

type ScyllaBookingStore struct{}

// GetBooking lit la réservation puis son coiffeur, et normalise le tout
// en un seul enregistrement (tier + compte Stripe inclus) avant de
// rendre la main à la logique métier.
func (ScyllaBookingStore) GetBooking(ctx context.Context, bookingID string) (*models.Booking, error) {
	id, err := gocql.ParseUUID(bookingID)
	if err != nil {
		return nil, ErrBookingNotFound
	}

	session, err := database.GetBookingsSession()
	if err != nil {
		return nil, fmt.Errorf("connexion bookings: %w", err)
	}

	booking := models.Booking{ID: id}

	q := database.GetPreparedGetBookingByID()
	if q == nil {
		q = session.Query(`SELECT client_id, provider_id, total_price, payment_method, payment_intent_id, status, created_at, updated_at
			FROM bookings WHERE booking_id = ?`)
	}
	err = q.Bind(id).WithContext(ctx).Scan(
		&booking.ClientID, &booking.ProviderID, &booking.TotalPrice,
		&booking.PaymentMethod, &booking.PaymentIntentID, &booking.Status,
		&booking.CreatedAt, &booking.UpdatedAt)
	if errors.Is(err, gocql.ErrNotFound) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lecture réservation: %w", err)
	}

	qp := database.GetPreparedGetProviderByID()
	if qp == nil {
		qp = session.Query("SELECT subscription_tier, stripe_account_id FROM providers WHERE provider_id = ?")
	}
	err = qp.Bind(booking.ProviderID).WithContext(ctx).Scan(&booking.ProviderTier, &booking.StripeAccountID)
	if err != nil && !errors.Is(err, gocql.ErrNotFound) {
		return nil, fmt.Errorf("lecture coiffeur: %w", err)
	}

	return &booking, nil
}

// MarkRefunded passe le statut à refund par une transaction légère :
// la condition est vérifiée au moment de l'écriture, pas de la lecture.
func (ScyllaBookingStore) MarkRefunded(ctx context.Context, bookingID string) (bool, error) {
	id, err := gocql.ParseUUID(bookingID)
	if err != nil {
		return false, ErrBookingNotFound
	}

	session, err := database.GetBookingsSession()
	if err != nil {
		return false, fmt.Errorf("connexion bookings: %w", err)
	}

	var previousStatus string
	applied, err := session.Query(
		"UPDATE bookings SET status = ?, updated_at = ? WHERE booking_id = ? IF status != ?",
		models.BookingStatusRefund, time.Now(), id, models.BookingStatusRefund,
	).WithContext(ctx).ScanCAS(&previousStatus)
	if err != nil {
		return false, fmt.Errorf("mise à jour statut réservation: %w", err)
	}

	return applied, nil
}

type ScyllaCommissionStore struct{}

func (ScyllaCommissionStore) GetRateForTier(ctx context.Context, tier string) (float64, bool, error) {
	if tier == "" {
		return 0, false, nil
	}

	if rate, ok := cache.GetCommissionRateFromCache(ctx, tier); ok {
		return rate, true, nil
	}

	session, err := database.GetBillingSession()
	if err != nil {
		return 0, false, fmt.Errorf("connexion billing: %w", err)
	}

	var percentage float64
	err = session.Query("SELECT percentage FROM commission_rates WHERE tier = ?", tier).
		WithContext(ctx).Scan(&percentage)
	if errors.Is(err, gocql.ErrNotFound) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("lecture taux de commission: %w", err)
	}

	cache.SetCommissionRateInCache(ctx, tier, percentage)
	return percentage, true, nil
}

type ScyllaLedgerStore struct{}

// AppendEntry insère une ligne du grand livre. Append-only : aucune
// requête UPDATE ou DELETE n'existe sur refund_ledger.
func (ScyllaLedgerStore) AppendEntry(ctx context.Context, entry models.RefundLedgerEntry) error {
	session, err := database.GetBillingSession()
	if err != nil {
		return fmt.Errorf("connexion billing: %w", err)
	}

	q := database.GetPreparedInsertLedgerEntry()
	if q == nil {
		q = session.Query(`INSERT INTO refund_ledger (booking_id, refund_id, payment_intent_id, amount, scope, commission_handling, platform_amount_kept, provider_amount_reversed, reason, status, admin_id, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	}

	return q.Bind(
		entry.BookingID, entry.RefundID, entry.PaymentIntentID,
		entry.Amount, string(entry.Scope), string(entry.CommissionHandling),
		entry.PlatformAmountKept, entry.ProviderAmountReversed,
		entry.Reason, entry.Status, entry.AdminID, entry.CreatedAt,
	).WithContext(ctx).Exec()
}

func (ScyllaLedgerStore) ListByBooking(ctx context.Context, bookingID string) ([]models.RefundLedgerEntry, error) {
	id, err := gocql.ParseUUID(bookingID)
	if err != nil {
		return nil, ErrBookingNotFound
	}

	session, err := database.GetBillingSession()
	if err != nil {
		return nil, fmt.Errorf("connexion billing: %w", err)
	}

	iter := session.Query(`SELECT refund_id, payment_intent_id, amount, scope, commission_handling, platform_amount_kept, provider_amount_reversed, reason, status, admin_id, created_at
		FROM refund_ledger WHERE booking_id = ?`, id).WithContext(ctx).Iter()

	var entries []models.RefundLedgerEntry
	var entry models.RefundLedgerEntry
	var scope, handling string

	for iter.Scan(&entry.RefundID, &entry.PaymentIntentID, &entry.Amount,
		&scope, &handling, &entry.PlatformAmountKept, &entry.ProviderAmountReversed,
		&entry.Reason, &entry.Status, &entry.AdminID, &entry.CreatedAt) {
		entry.BookingID = id
		entry.Scope = models.RefundScope(scope)
		entry.CommissionHandling = models.CommissionPolicy(handling)
		entries = append(entries, entry)
	}

	if err := iter.Close(); err != nil {
		return nil, fmt.Errorf("lecture grand livre: %w", err)
	}

	return entries, nil
}

type ScyllaPaymentStore struct{}

func (ScyllaPaymentStore) CancelPayment(ctx context.Context, bookingID string) error {
	id, err := gocql.ParseUUID(bookingID)
	if err != nil {
		return ErrBookingNotFound
	}

	session, err := database.GetBookingsSession()
	if err != nil {
		return fmt.Errorf("connexion bookings: %w", err)
	}

	return session.Query("UPDATE payments_by_booking SET status = ? WHERE booking_id = ?", "canceled", id).
		WithContext(ctx).Exec()
}

type ScyllaAdminStore struct{}

func (ScyllaAdminStore) IsAdmin(ctx context.Context, userID string) (bool, error) {
	session, err := database.GetUsersSession()
	if err != nil {
		return false, fmt.Errorf("connexion users: %w", err)
	}

	var adminID string
	err = session.Query("SELECT admin_id FROM admins WHERE admin_id = ?", userID).
		WithContext(ctx).Scan(&adminID)
	if errors.Is(err, gocql.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("lecture table admins: %w", err)
	}

	return true, nil
}

// RedisRefundLock pose le verrou SETNX par réservation
type RedisRefundLock struct{}

func (RedisRefundLock) Acquire(ctx context.Context, bookingID string) (bool, error) {
	return cache.AcquireRefundLock(ctx, bookingID)
}

func (RedisRefundLock) Release(ctx context.Context, bookingID string) {
	cache.ReleaseRefundLock(ctx, bookingID)
}
