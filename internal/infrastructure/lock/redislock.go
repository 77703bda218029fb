// Package lock serializes work across replicas with Redis locks.
package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fleet-schedule-backend/internal/domain"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
)

type RedisLocker struct {
	client *redislock.Client
	ttl    time.Duration
	retry  redislock.RetryStrategy
}

// NewRedisLocker holds each lock for at most ttl. Acquire retries for up to
// wait before reporting the key as busy; wait 0 means a single attempt.
func NewRedisLocker(rdb *redis.Client, ttl, wait time.Duration) *RedisLocker {
	l := &RedisLocker{client: redislock.New(rdb), ttl: ttl}
	if wait > 0 {
		l.retry = redislock.LimitRetry(redislock.LinearBackoff(50*time.Millisecond), int(wait/(50*time.Millisecond)))
	}
	return l
}

// Acquire takes key or returns domain.ErrLoanBusy when another holder has it.
func (l *RedisLocker) Acquire(ctx context.Context, key string) (func(context.Context) error, error) {
	var opts *redislock.Options
	if l.retry != nil {
		opts = &redislock.Options{RetryStrategy: l.retry}
	}

	lk, err := l.client.Obtain(ctx, key, l.ttl, opts)
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, fmt.Errorf("lock %s: %w", key, domain.ErrLoanBusy)
	}
	if err != nil {
		return nil, fmt.Errorf("lock %s: %w", key, err)
	}

	return func(ctx context.Context) error {
		err := lk.Release(ctx)
		if errors.Is(err, redislock.ErrLockNotHeld) {
			// expired under us; nothing left to release
			return nil
		}
		return err
	}, nil
}
