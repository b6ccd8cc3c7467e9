package feed

import (
	"context"
	"errors"
	"testing"
	"time"

	"swapMarket/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockFeaturedRepo struct{ mock.Mock }

func (m *mockFeaturedRepo) ListFeatured(ctx context.Context) ([]domain.FeaturedListing, error) {
	args := m.Called(ctx)
	rows, _ := args.Get(0).([]domain.FeaturedListing)
	return rows, args.Error(1)
}

type slowBoostRepo struct {
	delay  time.Duration
	boosts map[uint]float64
}

func (r slowBoostRepo) ActiveBoosts(ctx context.Context, now time.Time) (map[uint]float64, error) {
	select {
	case <-time.After(r.delay):
		return r.boosts, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

type mockViewerRepo struct{ mock.Mock }

func (m *mockViewerRepo) FavoriteCategories(ctx context.Context, viewerID uint) ([]string, error) {
	args := m.Called(ctx, viewerID)
	cats, _ := args.Get(0).([]string)
	return cats, args.Error(1)
}

func (m *mockViewerRepo) AccountKind(ctx context.Context, viewerID uint) (domain.AccountKind, error) {
	args := m.Called(ctx, viewerID)
	return args.Get(0).(domain.AccountKind), args.Error(1)
}

type mapCache struct {
	featured  map[uint64]FeaturedEntry
	boosts    map[uint]float64
	favorites map[uint][]string
	sets      int
}

func newMapCache() *mapCache {
	return &mapCache{favorites: make(map[uint][]string)}
}

func (c *mapCache) GetFeatured(ctx context.Context) (map[uint64]FeaturedEntry, bool, error) {
	return c.featured, c.featured != nil, nil
}

func (c *mapCache) SetFeatured(ctx context.Context, entries map[uint64]FeaturedEntry, ttl time.Duration) error {
	c.featured = entries
	c.sets++
	return nil
}

func (c *mapCache) GetBoosts(ctx context.Context) (map[uint]float64, bool, error) {
	return c.boosts, c.boosts != nil, nil
}

func (c *mapCache) SetBoosts(ctx context.Context, boosts map[uint]float64, ttl time.Duration) error {
	c.boosts = boosts
	c.sets++
	return nil
}

func (c *mapCache) GetFavorites(ctx context.Context, viewerID uint) ([]string, bool, error) {
	cats, ok := c.favorites[viewerID]
	return cats, ok, nil
}

func (c *mapCache) SetFavorites(ctx context.Context, viewerID uint, categories []string, ttl time.Duration) error {
	c.favorites[viewerID] = categories
	c.sets++
	return nil
}

func TestContextLoader_LoadsAllSignals(t *testing.T) {
	featuredRepo := new(mockFeaturedRepo)
	viewerRepo := new(mockViewerRepo)

	featuredRepo.On("ListFeatured", mock.Anything).
		Return([]domain.FeaturedListing{{ListingID: 5, Priority: 3}}, nil).Once()
	viewerRepo.On("FavoriteCategories", mock.Anything, uint(1)).Return([]string{"sports"}, nil).Once()
	viewerRepo.On("AccountKind", mock.Anything, uint(1)).Return(domain.AccountKindCompany, nil)

	cache := newMapCache()
	loader := NewContextLoader(featuredRepo, slowBoostRepo{boosts: map[uint]float64{9: 2}}, viewerRepo, cache, testConfig())
	loader.now = func() time.Time { return baseTime }

	rc := loader.Load(context.Background(), 1)

	assert.False(t, rc.Partial)
	assert.Equal(t, baseTime, rc.Now)
	p, ok := rc.FeaturedPriority(5)
	assert.True(t, ok)
	assert.Equal(t, 3, p)
	assert.Equal(t, 2.0, rc.BoostFor(9))
	assert.Equal(t, []string{"sports"}, rc.FavoriteCategories)
	assert.Equal(t, domain.AccountKindCompany, rc.AccountKind)
	assert.Equal(t, 3, cache.sets)

	// second load is served from cache
	rc = loader.Load(context.Background(), 1)
	assert.Equal(t, []string{"sports"}, rc.FavoriteCategories)

	featuredRepo.AssertExpectations(t)
	viewerRepo.AssertExpectations(t)
}

func TestContextLoader_SlowBoostsDefaultToOne(t *testing.T) {
	viewerRepo := new(mockViewerRepo)
	viewerRepo.On("FavoriteCategories", mock.Anything, uint(1)).Return([]string{}, nil)
	viewerRepo.On("AccountKind", mock.Anything, uint(1)).Return(domain.AccountKindPerson, nil)

	featuredRepo := new(mockFeaturedRepo)
	featuredRepo.On("ListFeatured", mock.Anything).Return([]domain.FeaturedListing{}, nil)

	cfg := testConfig()
	cfg.BoostFetchTimeout = 10 * time.Millisecond
	loader := NewContextLoader(featuredRepo, slowBoostRepo{delay: time.Second, boosts: map[uint]float64{9: 2}}, viewerRepo, nil, cfg)

	start := time.Now()
	rc := loader.Load(context.Background(), 1)

	assert.Less(t, time.Since(start), 500*time.Millisecond)
	assert.True(t, rc.Partial)
	assert.Equal(t, 1.0, rc.BoostFor(9))
	assert.Equal(t, domain.AccountKindPerson, rc.AccountKind)
}

func TestContextLoader_FailuresDegradeToNeutral(t *testing.T) {
	viewerRepo := new(mockViewerRepo)
	viewerRepo.On("FavoriteCategories", mock.Anything, uint(1)).Return(nil, errors.New("timeout"))
	viewerRepo.On("AccountKind", mock.Anything, uint(1)).Return(domain.AccountKind(""), errors.New("timeout"))

	featuredRepo := new(mockFeaturedRepo)
	featuredRepo.On("ListFeatured", mock.Anything).Return(nil, errors.New("timeout"))

	loader := NewContextLoader(featuredRepo, nil, viewerRepo, nil, testConfig())

	rc := loader.Load(context.Background(), 1)

	assert.True(t, rc.Partial)
	assert.Empty(t, rc.Featured)
	assert.Empty(t, rc.FavoriteCategories)
	_, ok := rc.PreferredKind()
	assert.False(t, ok)
}
