package cache

import (
	"context"
	"testing"
	"time"

	"fleet-schedule-backend/internal/finance"
	"fleet-schedule-backend/pkg/money"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCache(t *testing.T, ttl time.Duration) (*StatsCache, *miniredis.Miniredis) {
	t.Helper()
	s := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: s.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewStatsCache(rdb, ttl), s
}

var (
	monday  = time.Date(2024, 6, 3, 9, 30, 0, 0, time.UTC)
	tuesday = time.Date(2024, 6, 4, 0, 0, 0, 0, time.UTC)
	stats   = finance.DashboardStats{
		TotalCompanies:    2,
		TotalVehicles:     5,
		TotalActiveLoans:  3,
		TotalDebt:         money.MustParse("123456.78"),
		MonthlyPayments:   money.MustParse("2100.00"),
		TotalAssetValue:   money.MustParse("99000.10"),
		TotalPaymentsYear: money.MustParse("25200.00"),
	}
)

func TestStatsCache_MissThenHit(t *testing.T) {
	c, _ := newCache(t, time.Minute)
	ctx := context.Background()

	got, err := c.Get(ctx, "u1", monday)
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, c.Set(ctx, "u1", monday, stats))

	// same calendar day, different clock time
	got, err = c.Get(ctx, "u1", time.Date(2024, 6, 3, 23, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, stats, *got)

	other, err := c.Get(ctx, "u2", monday)
	require.NoError(t, err)
	assert.Nil(t, other)
}

func TestStatsCache_OtherDayIsMiss(t *testing.T) {
	c, _ := newCache(t, time.Minute)
	ctx := context.Background()
	require.NoError(t, c.Set(ctx, "u1", monday, stats))

	got, err := c.Get(ctx, "u1", tuesday)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestStatsCache_TTLAndInvalidate(t *testing.T) {
	c, s := newCache(t, 30*time.Second)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "u1", monday, stats))
	assert.Equal(t, 30*time.Second, s.TTL(StatsKey("u1")))

	require.NoError(t, c.Invalidate(ctx, "u1"))
	assert.False(t, s.Exists(StatsKey("u1")))

	// invalidating a missing key is fine
	require.NoError(t, c.Invalidate(ctx, "nobody"))

	require.NoError(t, c.Set(ctx, "u1", monday, stats))
	s.FastForward(31 * time.Second)
	got, err := c.Get(ctx, "u1", monday)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestStatsCache_CorruptEntryIsMiss(t *testing.T) {
	c, s := newCache(t, time.Minute)
	require.NoError(t, s.Set(StatsKey("u1"), "{not json"))

	got, err := c.Get(context.Background(), "u1", monday)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestStatsCache_RedisDown(t *testing.T) {
	c, s := newCache(t, time.Minute)
	s.Close()

	_, err := c.Get(context.Background(), "u1", monday)
	assert.Error(t, err)
	assert.Error(t, c.Invalidate(context.Background(), "u1"))
}
