package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"swapMarket/business/feed"
	"swapMarket/domain"
	"swapMarket/pkg/metrics"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SwipeRepository is the durable decision ledger. The unique index on
// (viewer_id, listing_id) is what keeps two tabs from double-recording.
type SwipeRepository struct {
	DB *gorm.DB
}

var _ feed.SwipeLedger = (*SwipeRepository)(nil)

func NewSwipeRepository(db *gorm.DB) *SwipeRepository {
	return &SwipeRepository{DB: db}
}

func (r *SwipeRepository) RecordSwipe(
	ctx context.Context,
	viewerID uint,
	listingID uint64,
	decision domain.Decision,
	counterOfferID *uint64,
) (string, error) {

	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("context error: %w", err)
	}

	row := domain.SwipeDecision{
		ID:                    uuid.NewString(),
		ViewerID:              viewerID,
		ListingID:             listingID,
		Decision:              decision,
		CounterOfferListingID: counterOfferID,
	}

	start := time.Now()
	result := r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "viewer_id"}, {Name: "listing_id"}},
			DoNothing: true,
		}).
		Create(&row)
	metrics.ObserveStoreQuery("swipe_decisions", "record", start, result.Error)

	if err := recordOutcome(result.Error, result.RowsAffected); err != nil {
		return "", err
	}
	return row.ID, nil
}

// recordOutcome maps the insert result. With ON CONFLICT DO NOTHING a losing
// concurrent insert affects no rows instead of failing.
func recordOutcome(err error, rowsAffected int64) error {
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return feed.ErrDuplicateDecision
		}
		return fmt.Errorf("failed to record swipe: %w", err)
	}
	if rowsAffected == 0 {
		return feed.ErrDuplicateDecision
	}
	return nil
}

func (r *SwipeRepository) DeleteSwipe(ctx context.Context, decisionID string, viewerID uint) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	start := time.Now()
	result := r.DB.WithContext(ctx).
		Where("id = ? AND viewer_id = ?", decisionID, viewerID).
		Delete(&domain.SwipeDecision{})
	metrics.ObserveStoreQuery("swipe_decisions", "delete", start, result.Error)

	if result.Error != nil {
		return fmt.Errorf("failed to delete swipe: %w", result.Error)
	}
	if result.RowsAffected > 0 {
		return nil
	}

	// nothing deleted: tell a foreign decision apart from a missing one
	var owner domain.SwipeDecision
	err := r.DB.WithContext(ctx).Select("viewer_id").Where("id = ?", decisionID).First(&owner).Error
	return missingOutcome(err)
}

// missingOutcome classifies a delete that matched no row by the follow-up
// lookup on the decision id alone: a row there belongs to someone else.
func missingOutcome(lookupErr error) error {
	if lookupErr != nil {
		if errors.Is(lookupErr, gorm.ErrRecordNotFound) {
			return feed.ErrDecisionNotFound
		}
		return fmt.Errorf("failed to find swipe: %w", lookupErr)
	}
	return feed.ErrDecisionOwnership
}

func (r *SwipeRepository) DecidedListingIDs(ctx context.Context, viewerID uint) ([]uint64, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	start := time.Now()
	var ids []uint64
	err := r.DB.WithContext(ctx).
		Model(&domain.SwipeDecision{}).
		Where("viewer_id = ?", viewerID).
		Pluck("listing_id", &ids).Error
	metrics.ObserveStoreQuery("swipe_decisions", "decided_ids", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to load swipe history: %w", err)
	}

	return ids, nil
}
