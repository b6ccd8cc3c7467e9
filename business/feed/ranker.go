package feed

import (
	"sort"
	"strings"

	"swapMarket/domain"
)

// tiers records which ranking tiers a filter leaves switched on.
type tiers struct {
	favorite bool
	featured bool
	boost    bool
	kind     bool
}

// activeTiers applies the personalization guards. Affinity and paid tiers must
// never reorder a feed the viewer restricted explicitly.
func activeTiers(filter FilterSpec) tiers {
	defaultFeed := filter.IsDefaultFeed()
	return tiers{
		favorite: !filter.HasCategoryRestriction(),
		featured: defaultFeed,
		boost:    defaultFeed,
		kind:     defaultFeed,
	}
}

type rankKey struct {
	favIdx           int
	featured         bool
	featuredPriority int
	boost            float64
	kindPreferred    bool
}

func buildKeys(candidates []domain.Listing, t tiers, rc RankingContext) []rankKey {
	favs := rc.favoriteIndex()
	preferred, hasPreferred := rc.PreferredKind()

	keys := make([]rankKey, len(candidates))
	for i, l := range candidates {
		k := rankKey{favIdx: -1, boost: 1}
		if t.favorite {
			if idx, ok := favs[strings.ToLower(l.Category)]; ok {
				k.favIdx = idx
			}
		}
		if t.featured {
			k.featuredPriority, k.featured = rc.FeaturedPriority(l.ID)
		}
		if t.boost {
			k.boost = rc.BoostFor(l.OwnerID)
		}
		if t.kind && hasPreferred {
			k.kindPreferred = l.Kind == preferred
		}
		keys[i] = k
	}
	return keys
}

// less compares tier by tier; each tier only breaks ties of the previous one.
// Disabled tiers carry neutral keys and never decide.
func (a rankKey) less(b rankKey) bool {
	aFav, bFav := a.favIdx >= 0, b.favIdx >= 0
	if aFav != bFav {
		return aFav
	}
	if aFav && a.favIdx != b.favIdx {
		return a.favIdx < b.favIdx
	}

	if a.featured != b.featured {
		return a.featured
	}
	if a.featured && a.featuredPriority != b.featuredPriority {
		return a.featuredPriority > b.featuredPriority
	}

	if a.boost != b.boost {
		return a.boost > b.boost
	}

	if a.kindPreferred != b.kindPreferred {
		return a.kindPreferred
	}

	// residual: keep the store's sort order
	return false
}

// Rank orders candidates for presentation. It is pure and stable: the
// input slice is not modified and equal keys keep their input order.
func Rank(candidates []domain.Listing, filter FilterSpec, rc RankingContext) []domain.Listing {
	keys := buildKeys(candidates, activeTiers(filter), rc)

	order := make([]int, len(candidates))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return keys[order[i]].less(keys[order[j]])
	})

	out := make([]domain.Listing, len(candidates))
	for pos, idx := range order {
		out[pos] = candidates[idx]
	}
	return out
}

// Explain reports the tier keys of an already ranked slice, in order.
func Explain(ranked []domain.Listing, filter FilterSpec, rc RankingContext) []domain.RankedCandidate {
	return explain(ranked, activeTiers(filter), rc)
}

func explain(ranked []domain.Listing, t tiers, rc RankingContext) []domain.RankedCandidate {
	keys := buildKeys(ranked, t, rc)
	out := make([]domain.RankedCandidate, 0, len(ranked))
	for i, l := range ranked {
		k := keys[i]
		out = append(out, domain.RankedCandidate{
			ListingID:        l.ID,
			Position:         i,
			Category:         l.Category,
			Kind:             l.Kind,
			FavoriteIndex:    k.favIdx,
			Featured:         k.featured,
			FeaturedPriority: k.featuredPriority,
			Boost:            k.boost,
			KindPreferred:    k.kindPreferred,
		})
	}
	return out
}
