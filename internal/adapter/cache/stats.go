// Package cache keeps per-user dashboard stats in Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"fleet-schedule-backend/internal/finance"
	"fleet-schedule-backend/pkg/date"

	"github.com/redis/go-redis/v9"
)

// one entry per user; the as-of day is stored next to the stats so a
// request for another day is a miss
type statsEntry struct {
	AsOf  string                 `json:"as_of"`
	Stats finance.DashboardStats `json:"stats"`
}

type StatsCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewStatsCache(rdb *redis.Client, ttl time.Duration) *StatsCache {
	return &StatsCache{rdb: rdb, ttl: ttl}
}

func StatsKey(userID string) string { return "stats:dashboard:" + userID }

// Get returns nil, nil on a miss.
func (c *StatsCache) Get(ctx context.Context, userID string, asOf time.Time) (*finance.DashboardStats, error) {
	raw, err := c.rdb.Get(ctx, StatsKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("stats cache get: %w", err)
	}

	var e statsEntry
	if err := json.Unmarshal(raw, &e); err != nil {
		// unreadable entries are treated as a miss and overwritten on Set
		return nil, nil
	}
	if e.AsOf != date.Of(asOf).String() {
		return nil, nil
	}
	return &e.Stats, nil
}

func (c *StatsCache) Set(ctx context.Context, userID string, asOf time.Time, stats finance.DashboardStats) error {
	raw, err := json.Marshal(statsEntry{AsOf: date.Of(asOf).String(), Stats: stats})
	if err != nil {
		return err
	}
	if err := c.rdb.Set(ctx, StatsKey(userID), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("stats cache set: %w", err)
	}
	return nil
}

func (c *StatsCache) Invalidate(ctx context.Context, userID string) error {
	if err := c.rdb.Del(ctx, StatsKey(userID)).Err(); err != nil {
		return fmt.Errorf("stats cache invalidate: %w", err)
	}
	return nil
}
