package cache

import (
	"context"
	"time"

	"salonova_back_end/internal/database"
)

const (
	// TTL du verrou : largement supérieur à la durée d'un appel Stripe,
	// mais borné pour ne pas bloquer une réservation après un crash
	RefundLockTTL = 30 * time.Second
)

// AcquireRefundLock pose un verrou SETNX pour une réservation.
// Retourne false si un remboursement est déjà en cours.
func AcquireRefundLock(ctx context.Context, bookingID string) (bool, error) {
	return database.Redis.SetNX(ctx, "refund:lock:"+bookingID, "1", RefundLockTTL).Result()
}

// ReleaseRefundLock libère le verrou d'une réservation
func ReleaseRefundLock(ctx context.Context, bookingID string) {
	database.Redis.Del(ctx, "refund:lock:"+bookingID)
}
