package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"swapMarket/business/feed"

	"github.com/redis/go-redis/v9"
)

const (
	featuredKey        = "feed:ctx:featured"
	boostsKey          = "feed:ctx:boosts"
	favoritesKeyFormat = "feed:ctx:favorites:%d"
)

// RankingCache stores ranking signals as JSON with a short TTL.
type RankingCache struct {
	client *redis.Client
}

var _ feed.RankingCache = (*RankingCache)(nil)

func NewRankingCache(client *redis.Client) *RankingCache {
	return &RankingCache{
		client: client,
	}
}

func (c *RankingCache) GetFeatured(ctx context.Context) (map[uint64]feed.FeaturedEntry, bool, error) {
	var entries map[uint64]feed.FeaturedEntry
	ok, err := c.getJSON(ctx, featuredKey, &entries)
	return entries, ok, err
}

func (c *RankingCache) SetFeatured(ctx context.Context, entries map[uint64]feed.FeaturedEntry, ttl time.Duration) error {
	return c.setJSON(ctx, featuredKey, entries, ttl)
}

func (c *RankingCache) GetBoosts(ctx context.Context) (map[uint]float64, bool, error) {
	var boosts map[uint]float64
	ok, err := c.getJSON(ctx, boostsKey, &boosts)
	return boosts, ok, err
}

func (c *RankingCache) SetBoosts(ctx context.Context, boosts map[uint]float64, ttl time.Duration) error {
	return c.setJSON(ctx, boostsKey, boosts, ttl)
}

func (c *RankingCache) GetFavorites(ctx context.Context, viewerID uint) ([]string, bool, error) {
	var categories []string
	ok, err := c.getJSON(ctx, fmt.Sprintf(favoritesKeyFormat, viewerID), &categories)
	return categories, ok, err
}

func (c *RankingCache) SetFavorites(ctx context.Context, viewerID uint, categories []string, ttl time.Duration) error {
	if categories == nil {
		categories = []string{}
	}
	return c.setJSON(ctx, fmt.Sprintf(favoritesKeyFormat, viewerID), categories, ttl)
}

// InvalidateViewer drops the cached favorites of one viewer.
func (c *RankingCache) InvalidateViewer(ctx context.Context, viewerID uint) error {
	if err := c.client.Del(ctx, fmt.Sprintf(favoritesKeyFormat, viewerID)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate favorites: %w", err)
	}
	return nil
}

func (c *RankingCache) getJSON(ctx context.Context, key string, dst interface{}) (bool, error) {
	val, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("failed to get %s from Redis: %w", key, err)
	}

	if err := json.Unmarshal(val, dst); err != nil {
		return false, fmt.Errorf("failed to unmarshal %s: %w", key, err)
	}
	return true, nil
}

func (c *RankingCache) setJSON(ctx context.Context, key string, v interface{}, ttl time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", key, err)
	}

	if err := c.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store %s in Redis: %w", key, err)
	}
	return nil
}
