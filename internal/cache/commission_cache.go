package cache

import (
	"context"
	"strconv"
	"time"

	"salonova_back_end/internal/database"
)

const (
	CommissionCacheTTL = 10 * time.Minute
)

// GetCommissionRateFromCache récupère le taux de commission d'un tier depuis Redis
func GetCommissionRateFromCache(ctx context.Context, tier string) (float64, bool) {
	data, err := database.Redis.Get(ctx, "commission:"+tier).Result()
	if err != nil {
		return 0, false
	}

	rate, err := strconv.ParseFloat(data, 64)
	if err != nil {
		return 0, false
	}
	return rate, true
}

// SetCommissionRateInCache met en cache le taux de commission d'un tier
func SetCommissionRateInCache(ctx context.Context, tier string, rate float64) {
	database.Redis.Set(ctx, "commission:"+tier, strconv.FormatFloat(rate, 'f', -1, 64), CommissionCacheTTL)
}

// InvalidateCommissionCache invalide le taux en cache pour un tier
func InvalidateCommissionCache(ctx context.Context, tier string) {
	database.Redis.Del(ctx, "commission:"+tier)
}
