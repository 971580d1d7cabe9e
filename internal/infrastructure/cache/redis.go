package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"lomba-pmr/internal/config"
	domain "lomba-pmr/internal/domain/competition"
)

// StandingsCache keeps rendered leaderboard snapshots in Redis so standings
// pages do not recompute on every poll.
type StandingsCache struct {
	client *redis.Client
}

// NewStandingsCache connects to Redis using the cache configuration.
func NewStandingsCache(cfg *config.CacheConfig) *StandingsCache {
	rdb := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return &StandingsCache{client: rdb}
}

func standingsKey(eventKey string, category domain.Category) string {
	return fmt.Sprintf("standings:%s:%s", eventKey, category)
}

// Get unmarshals a cached snapshot into dest. The second return is false on
// a cache miss.
func (c *StandingsCache) Get(ctx context.Context, eventKey string, category domain.Category, dest interface{}) (bool, error) {
	val, err := c.client.Get(ctx, standingsKey(eventKey, category)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("failed to get standings from cache: %w", err)
	}
	if err := json.Unmarshal([]byte(val), dest); err != nil {
		return false, fmt.Errorf("invalid standings payload in cache: %w", err)
	}
	return true, nil
}

// Set stores a snapshot with a TTL.
func (c *StandingsCache) Set(ctx context.Context, eventKey string, category domain.Category, value interface{}, ttl time.Duration) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal standings: %w", err)
	}
	if err := c.client.Set(ctx, standingsKey(eventKey, category), payload, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set standings in cache: %w", err)
	}
	return nil
}

// Invalidate drops the snapshot for one (event, category) scope.
func (c *StandingsCache) Invalidate(ctx context.Context, eventKey string, category domain.Category) error {
	return c.client.Del(ctx, standingsKey(eventKey, category)).Err()
}

// Ping checks connectivity for health reporting.
func (c *StandingsCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
