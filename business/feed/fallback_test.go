package feed

import (
	"testing"

	"swapMarket/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNeedsFallback(t *testing.T) {
	some := []domain.Listing{listing(1, 2, domain.ListingKindGood, "books")}

	categories := DefaultFilter(1000)
	categories.Categories = []string{"electronics"}

	kind := DefaultFilter(1000)
	kind.Kind = KindService

	textOnly := DefaultFilter(1000)
	textOnly.Query = "unicorn"

	assert.True(t, needsFallback(categories, nil))
	assert.True(t, needsFallback(kind, nil))
	assert.False(t, needsFallback(categories, some))
	assert.False(t, needsFallback(DefaultFilter(1000), nil))
	assert.False(t, needsFallback(textOnly, nil))
}

func TestBuildFallbackQuery_RelaxesCategoryAndText(t *testing.T) {
	cfg := testConfig()
	filter := FilterSpec{
		Location:   "Astana",
		MinPrice:   50,
		MaxPrice:   cfg.PriceCeiling,
		Categories: []string{"electronics"},
		Conditions: []string{"used"},
		Kind:       KindGood,
		Query:      "camera",
		Sort:       SortPriceAsc,
	}.Normalize(cfg.PriceCeiling)

	q := BuildFallbackQuery(filter, 4, NewSwipeHistory(9), cfg)

	assert.Nil(t, q.Categories)
	assert.Nil(t, q.Conditions)
	assert.Equal(t, domain.ListingKindGood, q.Kind)
	assert.Equal(t, "Astana", q.Location)
	require.NotNil(t, q.MinPrice)
	assert.Equal(t, 50.0, *q.MinPrice)
	assert.Nil(t, q.MaxPrice)
	assert.Equal(t, SortNewest, q.Sort)
	assert.Equal(t, cfg.FallbackLimit, q.Limit)
	assert.Equal(t, []uint64{9}, q.ExcludeIDs)
}

func TestWiden_BoundedAndExcludesHistory(t *testing.T) {
	rows := make([]domain.Listing, 0, 30)
	for i := uint64(1); i <= 30; i++ {
		rows = append(rows, listing(i, 2, domain.ListingKindGood, "books"))
	}

	out := widen(rows, 1, NewSwipeHistory(1, 2, 3), 20)

	assert.Len(t, out, 20)
	assert.Equal(t, uint64(4), out[0].ID)
	for _, l := range out {
		assert.NotContains(t, []uint64{1, 2, 3}, l.ID)
	}
}
