package domain

import "time"

type SubscriptionTier string

const (
	SubscriptionTierBasic   SubscriptionTier = "basic"
	SubscriptionTierPlus    SubscriptionTier = "plus"
	SubscriptionTierPremium SubscriptionTier = "premium"
)

const SubscriptionStatusActive = "active"

var tierBoosts = map[SubscriptionTier]float64{
	SubscriptionTierBasic:   1.0,
	SubscriptionTierPlus:    1.5,
	SubscriptionTierPremium: 2.0,
}

type Subscription struct {
	ID        uint             `gorm:"primaryKey" json:"id"`
	UserID    uint             `gorm:"column:user_id;not null;index" json:"user_id"`
	Tier      SubscriptionTier `gorm:"column:tier;type:text;not null" json:"tier"`
	Status    string           `gorm:"column:status;type:text;not null" json:"status"`
	ExpiresAt time.Time        `gorm:"column:expires_at" json:"expires_at"`
	CreatedAt time.Time        `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Subscription) TableName() string {
	return "subscriptions"
}

// BoostMultiplier maps a tier to its visibility multiplier. Unknown tiers get 1.
func (t SubscriptionTier) BoostMultiplier() float64 {
	if m, ok := tierBoosts[t]; ok {
		return m
	}
	return 1.0
}
