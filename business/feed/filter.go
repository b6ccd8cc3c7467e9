package feed

import (
	"fmt"
	"sort"
	"strings"

	"swapMarket/domain"
)

type KindFilter string

const (
	KindAll     KindFilter = "all"
	KindGood    KindFilter = "good"
	KindService KindFilter = "service"
)

type SortOrder string

const (
	SortNewest    SortOrder = "newest"
	SortOldest    SortOrder = "oldest"
	SortPriceAsc  SortOrder = "price_asc"
	SortPriceDesc SortOrder = "price_desc"
)

// FilterSpec is the query a viewer has selected for one feed instance.
// Treat it as immutable once normalized; changing any field means a new feed build.
type FilterSpec struct {
	Location   string     `json:"location"`
	MinPrice   float64    `json:"min_price"`
	MaxPrice   float64    `json:"max_price"`
	Categories []string   `json:"categories"`
	Conditions []string   `json:"conditions"`
	Kind       KindFilter `json:"kind"`
	Query      string     `json:"query"`
	Sort       SortOrder  `json:"sort"`
}

func DefaultFilter(priceCeiling float64) FilterSpec {
	return FilterSpec{
		MinPrice:   0,
		MaxPrice:   priceCeiling,
		Categories: []string{},
		Conditions: []string{},
		Kind:       KindAll,
		Sort:       SortNewest,
	}
}

// Normalize returns a cleaned copy: sets are lowercased and deduplicated,
// prices clamped into [0, ceiling], unknown enums replaced by defaults.
func (f FilterSpec) Normalize(priceCeiling float64) FilterSpec {
	out := FilterSpec{
		Location:   strings.TrimSpace(f.Location),
		Categories: normalizeSet(f.Categories),
		Conditions: normalizeSet(f.Conditions),
		Query:      strings.TrimSpace(f.Query),
		Kind:       KindFilter(strings.ToLower(strings.TrimSpace(string(f.Kind)))),
		Sort:       SortOrder(strings.ToLower(strings.TrimSpace(string(f.Sort)))),
	}

	switch out.Kind {
	case KindAll, KindGood, KindService:
	default:
		out.Kind = KindAll
	}

	switch out.Sort {
	case SortNewest, SortOldest, SortPriceAsc, SortPriceDesc:
	default:
		out.Sort = SortNewest
	}

	minPrice, maxPrice := f.MinPrice, f.MaxPrice
	if maxPrice <= 0 || maxPrice > priceCeiling {
		maxPrice = priceCeiling
	}
	if minPrice < 0 {
		minPrice = 0
	}
	if minPrice > priceCeiling {
		minPrice = priceCeiling
	}
	if minPrice > maxPrice {
		minPrice, maxPrice = maxPrice, minPrice
	}
	out.MinPrice = minPrice
	out.MaxPrice = maxPrice

	return out
}

func normalizeSet(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, v := range in {
		v = strings.ToLower(strings.TrimSpace(v))
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

func (f FilterSpec) HasCategoryRestriction() bool {
	return len(f.Categories) > 0
}

func (f FilterSpec) HasKindRestriction() bool {
	return f.Kind != "" && f.Kind != KindAll
}

// IsDefaultFeed reports the general feed: no category set and kind unrestricted.
func (f FilterSpec) IsDefaultFeed() bool {
	return !f.HasCategoryRestriction() && !f.HasKindRestriction()
}

// ListingKind maps the kind filter to a store value; ok is false for "all".
func (f FilterSpec) ListingKind() (domain.ListingKind, bool) {
	switch f.Kind {
	case KindGood:
		return domain.ListingKindGood, true
	case KindService:
		return domain.ListingKindService, true
	default:
		return "", false
	}
}

// MatchesQuery is a case-insensitive substring match over title and description.
// An empty query matches everything.
func (f FilterSpec) MatchesQuery(l domain.Listing) bool {
	q := strings.ToLower(strings.TrimSpace(f.Query))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(l.Title), q) ||
		strings.Contains(strings.ToLower(l.Description), q)
}

// Key is a stable fingerprint used in logs and traces.
func (f FilterSpec) Key() string {
	return fmt.Sprintf("loc=%s|price=%g-%g|cat=%s|cond=%s|kind=%s|q=%s|sort=%s",
		f.Location,
		f.MinPrice, f.MaxPrice,
		strings.Join(f.Categories, ","),
		strings.Join(f.Conditions, ","),
		f.Kind,
		strings.ToLower(f.Query),
		f.Sort,
	)
}
