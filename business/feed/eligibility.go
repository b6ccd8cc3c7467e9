package feed

import "swapMarket/domain"

// filterEligible re-checks what the store should already have excluded:
// own listings, non-active listings, decided listings and repeated ids.
// Input order is preserved.
func filterEligible(listings []domain.Listing, viewerID uint, history *SwipeHistory) []domain.Listing {
	seen := make(map[uint64]struct{}, len(listings))
	out := make([]domain.Listing, 0, len(listings))
	for _, l := range listings {
		if l.OwnerID == viewerID || !l.IsActive() {
			continue
		}
		if history.Contains(l.ID) {
			continue
		}
		if _, dup := seen[l.ID]; dup {
			continue
		}
		seen[l.ID] = struct{}{}
		out = append(out, l)
	}
	return out
}
