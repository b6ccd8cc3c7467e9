package domain

import "time"

// FeaturedListing is a paid or admin-granted placement. A nil ExpiresAt never expires.
type FeaturedListing struct {
	ListingID uint64     `gorm:"column:listing_id;primaryKey" json:"listing_id"`
	Priority  int        `gorm:"column:priority;not null;default:0" json:"priority"`
	ExpiresAt *time.Time `gorm:"column:expires_at" json:"expires_at,omitempty"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (FeaturedListing) TableName() string {
	return "featured_listings"
}

func (f FeaturedListing) IsLive(now time.Time) bool {
	return f.ExpiresAt == nil || f.ExpiresAt.After(now)
}
