package postgres

import (
	"context"
	"fmt"
	"time"

	"swapMarket/business/feed"
	"swapMarket/domain"
	"swapMarket/pkg/metrics"

	"gorm.io/gorm"
)

// SubscriptionRepository derives owner visibility boosts from active subscriptions.
type SubscriptionRepository struct {
	DB *gorm.DB
}

var _ feed.BoostRepository = (*SubscriptionRepository)(nil)

func NewSubscriptionRepository(db *gorm.DB) *SubscriptionRepository {
	return &SubscriptionRepository{DB: db}
}

func (r *SubscriptionRepository) ActiveBoosts(ctx context.Context, now time.Time) (map[uint]float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	start := time.Now()
	var rows []domain.Subscription
	err := r.DB.WithContext(ctx).
		Select("user_id, tier").
		Where("status = ? AND expires_at > ?", domain.SubscriptionStatusActive, now).
		Find(&rows).Error
	metrics.ObserveStoreQuery("subscriptions", "active_boosts", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to load active subscriptions: %w", err)
	}

	return boostsFromSubscriptions(rows), nil
}

// boostsFromSubscriptions keeps the best tier when an owner has several.
// Multipliers of 1 are left out; a missing owner already means no boost.
func boostsFromSubscriptions(rows []domain.Subscription) map[uint]float64 {
	boosts := make(map[uint]float64, len(rows))
	for _, s := range rows {
		m := s.Tier.BoostMultiplier()
		if m <= 1 {
			continue
		}
		if m > boosts[s.UserID] {
			boosts[s.UserID] = m
		}
	}
	return boosts
}
