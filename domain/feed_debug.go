package domain

// RankedCandidate exposes the tier keys the ranker used for one listing.
type RankedCandidate struct {
	ListingID        uint64      `json:"listing_id"`
	Position         int         `json:"position"`
	Category         string      `json:"category"`
	Kind             ListingKind `json:"kind"`
	FavoriteIndex    int         `json:"favorite_index"`    // -1 when not a favorite or tier disabled
	Featured         bool        `json:"featured"`          // live featured entry
	FeaturedPriority int         `json:"featured_priority"` // 0 when not featured
	Boost            float64     `json:"boost"`
	KindPreferred    bool        `json:"kind_preferred"`
}
