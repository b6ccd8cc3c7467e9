package domain

import (
	"time"
)

// CREATE TABLE public.swipe_decisions (
//     id                       UUID PRIMARY KEY,
//     viewer_id                BIGINT NOT NULL,
//     listing_id               BIGINT NOT NULL,
//     decision                 TEXT NOT NULL,
//     counter_offer_listing_id BIGINT,
//     created_at               TIMESTAMPTZ DEFAULT NOW(),
//     UNIQUE (viewer_id, listing_id)
// );

type Decision string

const (
	DecisionLike    Decision = "like"
	DecisionDislike Decision = "dislike"
)

func (d Decision) Valid() bool {
	return d == DecisionLike || d == DecisionDislike
}

type SwipeDecision struct {
	ID                    string    `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	ViewerID              uint      `gorm:"column:viewer_id;not null;uniqueIndex:ux_swipe_viewer_listing" json:"viewer_id"`
	ListingID             uint64    `gorm:"column:listing_id;not null;uniqueIndex:ux_swipe_viewer_listing" json:"listing_id"`
	Decision              Decision  `gorm:"column:decision;type:text;not null" json:"decision"`
	CounterOfferListingID *uint64   `gorm:"column:counter_offer_listing_id" json:"counter_offer_listing_id,omitempty"`
	CreatedAt             time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (SwipeDecision) TableName() string {
	return "swipe_decisions"
}

// SwipeEvent is published after a decision is persisted or undone.
type SwipeEvent struct {
	DecisionID            string    `json:"decision_id"`
	ViewerID              uint      `json:"viewer_id"`
	ListingID             uint64    `json:"listing_id"`
	Decision              Decision  `json:"decision"`
	CounterOfferListingID *uint64   `json:"counter_offer_listing_id,omitempty"`
	OccurredAt            time.Time `json:"occurred_at"`
}
