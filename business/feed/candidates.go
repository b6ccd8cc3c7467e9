package feed

import (
	"context"
	"strings"

	"swapMarket/domain"
)

// CandidateQuery is the store-side half of a feed build. Nil bounds and
// empty sets are omitted from the predicate.
type CandidateQuery struct {
	ViewerID   uint
	Categories []string
	Conditions []string
	Kind       domain.ListingKind
	MinPrice   *float64
	MaxPrice   *float64
	Location   string
	ExcludeIDs []uint64
	Sort       SortOrder
	Limit      int
}

// CandidateStore returns active listings not owned by the viewer that match the query.
type CandidateStore interface {
	FetchCandidates(ctx context.Context, q CandidateQuery) ([]domain.Listing, error)
}

// BuildCandidateQuery translates a normalized filter into the primary store query.
// Free text is never pushed down; see applyQuery.
func BuildCandidateQuery(filter FilterSpec, viewerID uint, history *SwipeHistory, cfg Config) CandidateQuery {
	q := CandidateQuery{
		ViewerID:   viewerID,
		Location:   filter.Location,
		ExcludeIDs: history.IDs(),
		Sort:       filter.Sort,
		Limit:      cfg.CandidateLimit,
	}

	if filter.HasCategoryRestriction() {
		q.Categories = append([]string(nil), filter.Categories...)
	}
	if len(filter.Conditions) > 0 {
		q.Conditions = append([]string(nil), filter.Conditions...)
	}
	if kind, ok := filter.ListingKind(); ok {
		q.Kind = kind
	}

	q.MinPrice, q.MaxPrice = priceBounds(filter, cfg.PriceCeiling)

	if q.Sort == "" {
		q.Sort = SortNewest
	}

	return q
}

// priceBounds drops the default bounds (0 and the ceiling) so unpriced and
// high-priced listings are not excluded by accident.
func priceBounds(filter FilterSpec, ceiling float64) (*float64, *float64) {
	var minPrice, maxPrice *float64
	if filter.MinPrice > 0 {
		v := filter.MinPrice
		minPrice = &v
	}
	if filter.MaxPrice > 0 && filter.MaxPrice < ceiling {
		v := filter.MaxPrice
		maxPrice = &v
	}
	return minPrice, maxPrice
}

// applyQuery is the free-text post filter.
func applyQuery(listings []domain.Listing, filter FilterSpec) []domain.Listing {
	if filter.Query == "" {
		return listings
	}
	out := make([]domain.Listing, 0, len(listings))
	for _, l := range listings {
		if filter.MatchesQuery(l) {
			out = append(out, l)
		}
	}
	return out
}

// Matches applies the query predicate in memory, the way the store does.
// ExcludeIDs, Sort and Limit are not considered.
func (q CandidateQuery) Matches(l domain.Listing) bool {
	if l.OwnerID == q.ViewerID || !l.IsActive() {
		return false
	}
	if len(q.Categories) > 0 && !containsFold(q.Categories, l.Category) {
		return false
	}
	if q.Kind != "" && l.Kind != q.Kind {
		return false
	}
	if len(q.Conditions) > 0 && l.Kind == domain.ListingKindGood {
		if l.Condition == nil || !containsFold(q.Conditions, *l.Condition) {
			return false
		}
	}
	if q.MinPrice != nil && l.Price < *q.MinPrice {
		return false
	}
	if q.MaxPrice != nil && l.Price > *q.MaxPrice {
		return false
	}
	if q.Location != "" && l.Location != q.Location {
		return false
	}
	return true
}

func containsFold(set []string, v string) bool {
	v = strings.ToLower(v)
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
