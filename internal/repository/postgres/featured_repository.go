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

type FeaturedRepository struct {
	DB *gorm.DB
}

var _ feed.FeaturedRepository = (*FeaturedRepository)(nil)

func NewFeaturedRepository(db *gorm.DB) *FeaturedRepository {
	return &FeaturedRepository{DB: db}
}

// ListFeatured returns entries that were live at query time. Expiry is
// checked again at rank time since the result is cached.
func (r *FeaturedRepository) ListFeatured(ctx context.Context) ([]domain.FeaturedListing, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	start := time.Now()
	var rows []domain.FeaturedListing
	err := r.DB.WithContext(ctx).
		Where("expires_at IS NULL OR expires_at > ?", time.Now()).
		Order("priority DESC").
		Find(&rows).Error
	metrics.ObserveStoreQuery("featured_listings", "list", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to list featured listings: %w", err)
	}

	return rows, nil
}
