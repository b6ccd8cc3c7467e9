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

// above this many ids the NOT IN list is skipped; the ledger subquery and
// the service-side re-check still exclude them
const maxInlineExclusions = 1000

type ListingRepository struct {
	DB *gorm.DB
}

var _ feed.CandidateStore = (*ListingRepository)(nil)

func NewListingRepository(db *gorm.DB) *ListingRepository {
	return &ListingRepository{DB: db}
}

func (r *ListingRepository) FetchCandidates(ctx context.Context, q feed.CandidateQuery) ([]domain.Listing, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	start := time.Now()
	var listings []domain.Listing

	err := r.candidateScope(r.DB.WithContext(ctx), q).Find(&listings).Error
	metrics.ObserveStoreQuery("listings", "fetch_candidates", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch candidates: %w", err)
	}

	return listings, nil
}

func (r *ListingRepository) candidateScope(db *gorm.DB, q feed.CandidateQuery) *gorm.DB {
	db = db.Model(&domain.Listing{}).
		Where("status = ?", domain.ListingStatusActive).
		Where("owner_id <> ?", q.ViewerID).
		Where("NOT EXISTS (SELECT 1 FROM swipe_decisions sd WHERE sd.listing_id = listings.id AND sd.viewer_id = ?)", q.ViewerID)

	if len(q.Categories) > 0 {
		db = db.Where("LOWER(category) IN ?", q.Categories)
	}
	if q.Kind != "" {
		db = db.Where("kind = ?", q.Kind)
	}
	// services carry no condition
	if len(q.Conditions) > 0 {
		db = db.Where("(kind <> ? OR LOWER(condition) IN ?)", domain.ListingKindGood, q.Conditions)
	}
	if q.MinPrice != nil {
		db = db.Where("price >= ?", *q.MinPrice)
	}
	if q.MaxPrice != nil {
		db = db.Where("price <= ?", *q.MaxPrice)
	}
	if q.Location != "" {
		db = db.Where("location = ?", q.Location)
	}
	if n := len(q.ExcludeIDs); n > 0 && n <= maxInlineExclusions {
		db = db.Where("id NOT IN ?", q.ExcludeIDs)
	}

	db = db.Order(orderBy(q.Sort))
	if q.Limit > 0 {
		db = db.Limit(q.Limit)
	}
	return db
}

func orderBy(sort feed.SortOrder) string {
	switch sort {
	case feed.SortOldest:
		return "created_at ASC, id ASC"
	case feed.SortPriceAsc:
		return "price ASC, created_at DESC, id DESC"
	case feed.SortPriceDesc:
		return "price DESC, created_at DESC, id DESC"
	default:
		return "created_at DESC, id DESC"
	}
}
