package middleware

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"fleet-schedule-backend/pkg/id"
)

const idempKeyPrefix = "idemp"

var errCorruptEntry = errors.New("corrupt idempotency entry")

func bodyHash(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

func nowUTC() time.Time { return time.Now().UTC() }

// buildKey scopes a client key to the route and the caller. Keys that
// differ only in case are the same key.
func buildKey(method, path, userID, idemKey string) string {
	return strings.Join([]string{idempKeyPrefix, strings.ToLower(method), path, userID, strings.ToLower(idemKey)}, ":")
}

// validIdempotencyKey accepts canonical 36-char UUIDs of any case.
func validIdempotencyKey(k string) bool {
	return len(k) == 36 && id.IsUUID(k)
}

// provisionalSet claims key for an in-flight request. false means another
// request holds or has completed it.
func provisionalSet(ctx context.Context, rdb *redis.Client, key string, entry idempEntry) (bool, error) {
	payload, err := json.Marshal(entry)
	if err != nil {
		return false, err
	}
	return rdb.SetNX(ctx, key, payload, provisionalLockTTL).Result()
}

func loadEntry(ctx context.Context, rdb *redis.Client, key string) (idempEntry, error) {
	var e idempEntry
	v, err := rdb.Get(ctx, key).Bytes()
	if err != nil {
		return e, err
	}
	if err := json.Unmarshal(v, &e); err != nil {
		return idempEntry{}, fmt.Errorf("%w %s: %v", errCorruptEntry, key, err)
	}
	return e, nil
}

func saveFinal(ctx context.Context, rdb *redis.Client, key string, entry idempEntry, ttl time.Duration) error {
	payload, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	return rdb.Set(ctx, key, payload, ttl).Err()
}

func releaseKey(ctx context.Context, rdb *redis.Client, key string) error {
	return rdb.Del(ctx, key).Err()
}
