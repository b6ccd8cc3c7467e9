package feed

import (
	"testing"
	"time"

	"swapMarket/domain"

	"github.com/stretchr/testify/assert"
)

func TestRank_FavoriteCategoriesOrderDefaultFeed(t *testing.T) {
	a := listing(1, 10, domain.ListingKindGood, "books")
	b := listing(2, 11, domain.ListingKindGood, "electronics")
	c := listing(3, 12, domain.ListingKindGood, "sports")

	rc := NeutralContext(baseTime)
	rc.FavoriteCategories = []string{"sports", "books"}

	got := Rank([]domain.Listing{a, b, c}, DefaultFilter(1000), rc)

	assert.Equal(t, []uint64{3, 1, 2}, ids(got))
}

func TestRank_ExpiredFeaturedIsInert(t *testing.T) {
	expired := baseTime.Add(-time.Hour)
	live := baseTime.Add(time.Hour)

	y := listing(1, 10, domain.ListingKindGood, "books")
	x := listing(2, 11, domain.ListingKindGood, "books")

	rc := NeutralContext(baseTime)
	rc.Featured = map[uint64]FeaturedEntry{
		x.ID: {Priority: 5, ExpiresAt: &live},
		y.ID: {Priority: 10, ExpiresAt: &expired},
	}

	got := Rank([]domain.Listing{y, x}, DefaultFilter(1000), rc)

	assert.Equal(t, []uint64{2, 1}, ids(got))
}

func TestRank_FeaturedPriorityHigherFirst(t *testing.T) {
	l1 := listing(1, 10, domain.ListingKindGood, "books")
	l2 := listing(2, 11, domain.ListingKindGood, "books")
	l3 := listing(3, 12, domain.ListingKindGood, "books")

	rc := NeutralContext(baseTime)
	rc.Featured = map[uint64]FeaturedEntry{
		l2.ID: {Priority: 1},
		l3.ID: {Priority: 7},
	}

	got := Rank([]domain.Listing{l1, l2, l3}, DefaultFilter(1000), rc)

	assert.Equal(t, []uint64{3, 2, 1}, ids(got))
}

func TestRank_FavoritesOutrankFeatured(t *testing.T) {
	fav := listing(1, 10, domain.ListingKindGood, "sports")
	featured := listing(2, 11, domain.ListingKindGood, "books")

	rc := NeutralContext(baseTime)
	rc.FavoriteCategories = []string{"sports"}
	rc.Featured = map[uint64]FeaturedEntry{featured.ID: {Priority: 100}}

	got := Rank([]domain.Listing{featured, fav}, DefaultFilter(1000), rc)

	assert.Equal(t, []uint64{1, 2}, ids(got))
}

func TestRank_BoostThenAccountKind(t *testing.T) {
	goodPlain := listing(1, 10, domain.ListingKindGood, "books")
	servicePlain := listing(2, 11, domain.ListingKindService, "repairs")
	goodPremium := listing(3, 12, domain.ListingKindGood, "books")

	rc := NeutralContext(baseTime)
	rc.Boosts = map[uint]float64{12: 2.0, 10: 0.5}
	rc.AccountKind = domain.AccountKindCompany

	got := Rank([]domain.Listing{goodPlain, servicePlain, goodPremium}, DefaultFilter(1000), rc)

	// premium owner first, then the service for a company viewer; 0.5 clamps to 1
	assert.Equal(t, []uint64{3, 2, 1}, ids(got))
}

func TestRank_PersonViewerPrefersGoods(t *testing.T) {
	svc := listing(1, 10, domain.ListingKindService, "repairs")
	good := listing(2, 11, domain.ListingKindGood, "books")

	rc := NeutralContext(baseTime)
	rc.AccountKind = domain.AccountKindPerson

	got := Rank([]domain.Listing{svc, good}, DefaultFilter(1000), rc)

	assert.Equal(t, []uint64{2, 1}, ids(got))
}

func TestRank_CategoryRestrictionDisablesPersonalization(t *testing.T) {
	in := []domain.Listing{
		listing(1, 10, domain.ListingKindService, "books"),
		listing(2, 11, domain.ListingKindGood, "sports"),
		listing(3, 12, domain.ListingKindGood, "books"),
	}

	rc := NeutralContext(baseTime)
	rc.FavoriteCategories = []string{"sports"}
	rc.Featured = map[uint64]FeaturedEntry{3: {Priority: 9}}
	rc.Boosts = map[uint]float64{12: 2}
	rc.AccountKind = domain.AccountKindPerson

	filter := DefaultFilter(1000)
	filter.Categories = []string{"books", "sports"}

	got := Rank(in, filter, rc)

	assert.Equal(t, []uint64{1, 2, 3}, ids(got))
}

func TestRank_KindRestrictionKeepsOnlyFavoriteTier(t *testing.T) {
	in := []domain.Listing{
		listing(1, 10, domain.ListingKindGood, "books"),
		listing(2, 11, domain.ListingKindGood, "toys"),
		listing(3, 12, domain.ListingKindGood, "sports"),
	}

	rc := NeutralContext(baseTime)
	rc.FavoriteCategories = []string{"sports"}
	rc.Featured = map[uint64]FeaturedEntry{2: {Priority: 9}}
	rc.Boosts = map[uint]float64{10: 2}

	filter := DefaultFilter(1000)
	filter.Kind = KindGood

	got := Rank(in, filter, rc)

	// favorite tier still applies; featured and boost are off
	assert.Equal(t, []uint64{3, 1, 2}, ids(got))
}

func TestRank_StableAndPure(t *testing.T) {
	in := []domain.Listing{
		listing(5, 10, domain.ListingKindGood, "a"),
		listing(4, 11, domain.ListingKindGood, "b"),
		listing(9, 12, domain.ListingKindGood, "c"),
	}
	snapshot := append([]domain.Listing(nil), in...)

	got := Rank(in, DefaultFilter(1000), NeutralContext(baseTime))

	assert.Equal(t, []uint64{5, 4, 9}, ids(got))
	assert.Equal(t, snapshot, in)
}

func TestRank_EmptyContextNeverFails(t *testing.T) {
	in := []domain.Listing{listing(1, 10, domain.ListingKindGood, "a")}

	got := Rank(in, DefaultFilter(1000), RankingContext{})

	assert.Equal(t, []uint64{1}, ids(got))
	assert.Empty(t, Rank(nil, DefaultFilter(1000), RankingContext{}))
}

func TestExplain_ReportsTierKeys(t *testing.T) {
	fav := listing(1, 10, domain.ListingKindService, "sports")
	plain := listing(2, 11, domain.ListingKindGood, "books")

	rc := NeutralContext(baseTime)
	rc.FavoriteCategories = []string{"sports"}
	rc.Featured = map[uint64]FeaturedEntry{2: {Priority: 3}}
	rc.Boosts = map[uint]float64{11: 1.5}
	rc.AccountKind = domain.AccountKindCompany

	out := Explain([]domain.Listing{fav, plain}, DefaultFilter(1000), rc)

	assert.Len(t, out, 2)
	assert.Equal(t, 0, out[0].FavoriteIndex)
	assert.True(t, out[0].KindPreferred)
	assert.Equal(t, -1, out[1].FavoriteIndex)
	assert.True(t, out[1].Featured)
	assert.Equal(t, 3, out[1].FeaturedPriority)
	assert.Equal(t, 1.5, out[1].Boost)
	assert.Equal(t, 1, out[1].Position)
}
