package feed

import "swapMarket/domain"

// needsFallback: the primary list came back empty while the viewer had an
// explicit category or kind restriction. A free-text-only filter never widens.
func needsFallback(filter FilterSpec, primary []domain.Listing) bool {
	if len(primary) > 0 {
		return false
	}
	return filter.HasCategoryRestriction() || filter.HasKindRestriction()
}

// BuildFallbackQuery drops categories, conditions and free text. Kind, price
// and location survive, history stays excluded and order is recency only.
func BuildFallbackQuery(filter FilterSpec, viewerID uint, history *SwipeHistory, cfg Config) CandidateQuery {
	q := CandidateQuery{
		ViewerID:   viewerID,
		Location:   filter.Location,
		ExcludeIDs: history.IDs(),
		Sort:       SortNewest,
		Limit:      cfg.FallbackLimit,
	}
	if kind, ok := filter.ListingKind(); ok {
		q.Kind = kind
	}
	q.MinPrice, q.MaxPrice = priceBounds(filter, cfg.PriceCeiling)
	return q
}

// widen post-processes the fallback rows. The limit holds even when the
// store ignores the query limit.
func widen(rows []domain.Listing, viewerID uint, history *SwipeHistory, limit int) []domain.Listing {
	out := filterEligible(rows, viewerID, history)
	if limit >= 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
