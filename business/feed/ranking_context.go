package feed

import (
	"strings"
	"time"

	"swapMarket/domain"
)

type FeaturedEntry struct {
	Priority  int        `json:"priority"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

func (e FeaturedEntry) LiveAt(now time.Time) bool {
	return e.ExpiresAt == nil || e.ExpiresAt.After(now)
}

// RankingContext is a read-only snapshot of the signals the ranker consumes.
// Missing entries always mean "no boost".
type RankingContext struct {
	Now                time.Time
	Featured           map[uint64]FeaturedEntry
	Boosts             map[uint]float64
	FavoriteCategories []string
	AccountKind        domain.AccountKind
	// Partial is set when at least one signal fell back to its neutral value.
	Partial bool
}

// FeaturedPriority returns the priority of a live featured entry. Expired entries are inert.
func (rc RankingContext) FeaturedPriority(listingID uint64) (int, bool) {
	e, ok := rc.Featured[listingID]
	if !ok || !e.LiveAt(rc.Now) {
		return 0, false
	}
	return e.Priority, true
}

// BoostFor returns the owner's visibility multiplier, never below 1.
func (rc RankingContext) BoostFor(ownerID uint) float64 {
	m, ok := rc.Boosts[ownerID]
	if !ok || m < 1 {
		return 1
	}
	return m
}

// favoriteIndex maps lowercased category to its position in the favorites list.
// The first occurrence wins when a category is listed twice.
func (rc RankingContext) favoriteIndex() map[string]int {
	idx := make(map[string]int, len(rc.FavoriteCategories))
	for i, c := range rc.FavoriteCategories {
		c = strings.ToLower(strings.TrimSpace(c))
		if c == "" {
			continue
		}
		if _, ok := idx[c]; !ok {
			idx[c] = i
		}
	}
	return idx
}

// PreferredKind is services for company viewers and goods for person viewers.
func (rc RankingContext) PreferredKind() (domain.ListingKind, bool) {
	switch rc.AccountKind {
	case domain.AccountKindCompany:
		return domain.ListingKindService, true
	case domain.AccountKindPerson:
		return domain.ListingKindGood, true
	default:
		return "", false
	}
}

// NeutralContext carries no personalization at all.
func NeutralContext(now time.Time) RankingContext {
	return RankingContext{
		Now:      now,
		Featured: map[uint64]FeaturedEntry{},
		Boosts:   map[uint]float64{},
	}
}
