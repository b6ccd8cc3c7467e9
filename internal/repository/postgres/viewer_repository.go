package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"swapMarket/business/feed"
	"swapMarket/domain"
	"swapMarket/pkg/metrics"

	"gorm.io/gorm"
)

// ViewerRepository reads the viewer-side ranking signals from the
// "users" and "user_favorite_categories" tables.
type ViewerRepository struct {
	DB *gorm.DB
}

// Compile-time check that the struct implements the interface.
var _ feed.ViewerRepository = (*ViewerRepository)(nil)

func NewViewerRepository(db *gorm.DB) *ViewerRepository {
	return &ViewerRepository{DB: db}
}

func (r *ViewerRepository) FavoriteCategories(ctx context.Context, viewerID uint) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	start := time.Now()
	var categories []string
	err := r.DB.WithContext(ctx).
		Model(&domain.FavoriteCategory{}).
		Where("user_id = ?", viewerID).
		Order("priority ASC, category ASC").
		Pluck("category", &categories).Error
	metrics.ObserveStoreQuery("user_favorite_categories", "list", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to load favorite categories: %w", err)
	}

	return categories, nil
}

// AccountKind returns "" when the user row is missing or the column is null.
func (r *ViewerRepository) AccountKind(ctx context.Context, viewerID uint) (domain.AccountKind, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("context error: %w", err)
	}

	var row struct {
		AccountKind sql.NullString `gorm:"column:account_kind"`
	}

	start := time.Now()
	err := r.DB.WithContext(ctx).
		Model(&domain.User{}).
		Select("account_kind").
		Where("id = ?", viewerID).
		Scan(&row).Error
	metrics.ObserveStoreQuery("users", "account_kind", start, err)
	if err != nil {
		return "", fmt.Errorf("failed to load account kind: %w", err)
	}

	if !row.AccountKind.Valid {
		return "", nil
	}
	return domain.AccountKind(row.AccountKind.String), nil
}
