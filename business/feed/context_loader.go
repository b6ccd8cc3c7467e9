package feed

import (
	"context"
	"time"

	"swapMarket/domain"
	"swapMarket/pkg/logger"

	"golang.org/x/sync/errgroup"
)

type FeaturedRepository interface {
	ListFeatured(ctx context.Context) ([]domain.FeaturedListing, error)
}

type BoostRepository interface {
	ActiveBoosts(ctx context.Context, now time.Time) (map[uint]float64, error)
}

type ViewerRepository interface {
	FavoriteCategories(ctx context.Context, viewerID uint) ([]string, error)
	AccountKind(ctx context.Context, viewerID uint) (domain.AccountKind, error)
}

// RankingCache holds the short-lived ranking signals. A miss returns ok=false.
type RankingCache interface {
	GetFeatured(ctx context.Context) (map[uint64]FeaturedEntry, bool, error)
	SetFeatured(ctx context.Context, entries map[uint64]FeaturedEntry, ttl time.Duration) error
	GetBoosts(ctx context.Context) (map[uint]float64, bool, error)
	SetBoosts(ctx context.Context, boosts map[uint]float64, ttl time.Duration) error
	GetFavorites(ctx context.Context, viewerID uint) ([]string, bool, error)
	SetFavorites(ctx context.Context, viewerID uint, categories []string, ttl time.Duration) error
}

type ContextLoader struct {
	featuredRepo FeaturedRepository
	boostRepo    BoostRepository
	viewerRepo   ViewerRepository
	cache        RankingCache
	cfg          Config
	now          func() time.Time
}

func NewContextLoader(
	featuredRepo FeaturedRepository,
	boostRepo BoostRepository,
	viewerRepo ViewerRepository,
	cache RankingCache,
	cfg Config,
) *ContextLoader {
	return &ContextLoader{
		featuredRepo: featuredRepo,
		boostRepo:    boostRepo,
		viewerRepo:   viewerRepo,
		cache:        cache,
		cfg:          cfg.withDefaults(),
		now:          time.Now,
	}
}

// Load assembles the viewer's ranking context. It never fails: each signal
// that cannot be fetched degrades to its neutral value and marks the
// context Partial. The boost fetch is bounded by BoostFetchTimeout.
func (l *ContextLoader) Load(ctx context.Context, viewerID uint) RankingContext {
	rc := NeutralContext(l.now())

	var (
		featured    map[uint64]FeaturedEntry
		boosts      map[uint]float64
		favorites   []string
		accountKind domain.AccountKind

		featuredErr, boostErr, favoritesErr, kindErr error
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		featured, featuredErr = l.loadFeatured(gctx)
		return nil
	})
	g.Go(func() error {
		bctx, cancel := context.WithTimeout(gctx, l.cfg.BoostFetchTimeout)
		defer cancel()
		boosts, boostErr = l.loadBoosts(bctx, rc.Now)
		return nil
	})
	g.Go(func() error {
		favorites, favoritesErr = l.loadFavorites(gctx, viewerID)
		return nil
	})
	g.Go(func() error {
		if l.viewerRepo == nil {
			return nil
		}
		accountKind, kindErr = l.viewerRepo.AccountKind(gctx, viewerID)
		return nil
	})

	_ = g.Wait()

	tid := logger.TraceID(ctx)

	if featuredErr != nil {
		rc.Partial = true
		FeedContextDegradedTotal.WithLabelValues("featured").Inc()
		logger.Warn("feed_context_featured_degraded", "trace_id", tid, "error", featuredErr)
	} else if featured != nil {
		rc.Featured = featured
	}

	if boostErr != nil {
		rc.Partial = true
		FeedContextDegradedTotal.WithLabelValues("boosts").Inc()
		logger.Warn("feed_context_boosts_degraded", "trace_id", tid, "error", boostErr)
	} else if boosts != nil {
		rc.Boosts = boosts
	}

	if favoritesErr != nil {
		rc.Partial = true
		FeedContextDegradedTotal.WithLabelValues("favorites").Inc()
		logger.Warn("feed_context_favorites_degraded", "trace_id", tid, "viewer_id", viewerID, "error", favoritesErr)
	} else {
		rc.FavoriteCategories = favorites
	}

	if kindErr != nil {
		rc.Partial = true
		FeedContextDegradedTotal.WithLabelValues("account_kind").Inc()
		logger.Warn("feed_context_account_kind_degraded", "trace_id", tid, "viewer_id", viewerID, "error", kindErr)
	} else {
		rc.AccountKind = accountKind
	}

	logger.Debug("feed_context_loaded",
		"trace_id", tid,
		"viewer_id", viewerID,
		"featured", len(rc.Featured),
		"boosts", len(rc.Boosts),
		"favorites", len(rc.FavoriteCategories),
		"account_kind", rc.AccountKind,
		"partial", rc.Partial,
	)

	return rc
}

// loadFeatured keeps expired entries too; the ranker ignores them at rank time.
func (l *ContextLoader) loadFeatured(ctx context.Context) (map[uint64]FeaturedEntry, error) {
	if l.cache != nil {
		if entries, ok, err := l.cache.GetFeatured(ctx); err == nil && ok {
			return entries, nil
		}
	}
	if l.featuredRepo == nil {
		return map[uint64]FeaturedEntry{}, nil
	}

	rows, err := l.featuredRepo.ListFeatured(ctx)
	if err != nil {
		return nil, err
	}

	entries := make(map[uint64]FeaturedEntry, len(rows))
	for _, r := range rows {
		entries[r.ListingID] = FeaturedEntry{Priority: r.Priority, ExpiresAt: r.ExpiresAt}
	}

	if l.cache != nil {
		if err := l.cache.SetFeatured(ctx, entries, l.cfg.ContextTTL); err != nil {
			logger.Debug("feed_context_cache_set_failed", "signal", "featured", "error", err)
		}
	}
	return entries, nil
}

func (l *ContextLoader) loadBoosts(ctx context.Context, now time.Time) (map[uint]float64, error) {
	if l.cache != nil {
		if boosts, ok, err := l.cache.GetBoosts(ctx); err == nil && ok {
			return boosts, nil
		}
	}
	if l.boostRepo == nil {
		return map[uint]float64{}, nil
	}

	boosts, err := l.boostRepo.ActiveBoosts(ctx, now)
	if err != nil {
		return nil, err
	}

	if l.cache != nil {
		if err := l.cache.SetBoosts(ctx, boosts, l.cfg.ContextTTL); err != nil {
			logger.Debug("feed_context_cache_set_failed", "signal", "boosts", "error", err)
		}
	}
	return boosts, nil
}

func (l *ContextLoader) loadFavorites(ctx context.Context, viewerID uint) ([]string, error) {
	if l.cache != nil {
		if cats, ok, err := l.cache.GetFavorites(ctx, viewerID); err == nil && ok {
			return cats, nil
		}
	}
	if l.viewerRepo == nil {
		return nil, nil
	}

	cats, err := l.viewerRepo.FavoriteCategories(ctx, viewerID)
	if err != nil {
		return nil, err
	}

	if l.cache != nil {
		if err := l.cache.SetFavorites(ctx, viewerID, cats, l.cfg.ContextTTL); err != nil {
			logger.Debug("feed_context_cache_set_failed", "signal", "favorites", "error", err)
		}
	}
	return cats, nil
}
