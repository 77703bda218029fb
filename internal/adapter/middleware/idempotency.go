package middleware

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const (
	HeaderIdempotencyKey = "Idempotency-Key"
	HeaderReplayed       = "Idempotent-Replayed"

	// in-progress marker lifetime; a crashed handler frees the key after this
	provisionalLockTTL = 60 * time.Second
)

type idempEntry struct {
	InProgress bool      `json:"in_progress"`
	Code       int       `json:"code"`
	Body       []byte    `json:"body"`
	BodySHA256 string    `json:"body_sha256"`
	Key        string    `json:"key"`
	CreatedAt  time.Time `json:"created_at"`
}

type respRecorder struct {
	w    http.ResponseWriter
	buf  *bytes.Buffer
	code int
}

func (r *respRecorder) Header() http.Header { return r.w.Header() }
func (r *respRecorder) Write(b []byte) (int, error) {
	if r.buf != nil {
		r.buf.Write(b)
	}
	return r.w.Write(b)
}
func (r *respRecorder) WriteHeader(statusCode int) { r.code = statusCode; r.w.WriteHeader(statusCode) }

// Idempotency replays stored responses for repeated Idempotency-Key values.
// Keys are scoped by method, route and the authenticated user, so it must
// run after Auth. 5xx responses are not stored and the client may retry.
func Idempotency(rdb *redis.Client, ttl time.Duration, log logrus.FieldLogger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			method := req.Method

			switch method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				return next(c)
			}

			idemKey := strings.TrimSpace(req.Header.Get(HeaderIdempotencyKey))
			if idemKey == "" {
				return c.JSON(http.StatusBadRequest, map[string]string{"error": "missing " + HeaderIdempotencyKey})
			}
			if !validIdempotencyKey(idemKey) {
				return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid " + HeaderIdempotencyKey + " format"})
			}
			userID := UserID(c)
			if userID == "" {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthenticated"})
			}

			var body []byte
			if req.Body != nil {
				b, err := io.ReadAll(req.Body)
				if err != nil {
					log.WithError(err).Warn("idempotency: read request body")
					return c.JSON(http.StatusBadRequest, map[string]string{"error": "unreadable request body"})
				}
				body = b
			}
			req.Body = io.NopCloser(bytes.NewBuffer(body))
			bhash := bodyHash(body)

			key := buildKey(method, c.Path(), userID, idemKey)
			ctx, cancel := context.WithTimeout(req.Context(), 2*time.Second)
			defer cancel()

			entry := idempEntry{InProgress: true, BodySHA256: bhash, Key: idemKey, CreatedAt: nowUTC()}
			ok, cur, err := claim(ctx, rdb, key, entry)
			if err != nil {
				log.WithError(err).WithField("key", key).Error("idempotency: claim key")
				return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": "idempotency store unavailable"})
			}
			if !ok {
				if cur.BodySHA256 != "" && cur.BodySHA256 != bhash {
					return c.JSON(http.StatusUnprocessableEntity, map[string]string{"error": HeaderIdempotencyKey + " reused with different body"})
				}
				if !cur.InProgress && cur.Code != 0 && len(cur.Body) > 0 {
					c.Response().Header().Set(HeaderReplayed, "true")
					return c.Blob(cur.Code, echo.MIMEApplicationJSON, cur.Body)
				}
				return c.JSON(http.StatusConflict, map[string]string{"error": "request is already in progress"})
			}

			rec := &respRecorder{w: c.Response().Writer, buf: &bytes.Buffer{}, code: http.StatusOK}
			c.Response().Writer = rec
			if err := next(c); err != nil {
				c.Error(err)
			}

			// the request context may be done by now
			sctx, scancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer scancel()

			if rec.code >= http.StatusInternalServerError {
				if err := releaseKey(sctx, rdb, key); err != nil {
					log.WithError(err).WithField("key", key).Warn("idempotency: release after failure")
				}
				return nil
			}

			final := idempEntry{
				Code:       rec.code,
				Body:       rec.buf.Bytes(),
				BodySHA256: bhash,
				Key:        idemKey,
				CreatedAt:  nowUTC(),
			}
			if err := saveFinal(sctx, rdb, key, final, ttl); err != nil {
				log.WithError(err).WithField("key", key).Warn("idempotency: save final")
			}
			return nil
		}
	}
}

// claim reserves key for this request. When the key is taken it returns the
// stored entry instead. A key that expires between the two calls is claimed
// once more rather than reported as in progress.
func claim(ctx context.Context, rdb *redis.Client, key string, entry idempEntry) (bool, idempEntry, error) {
	for attempt := 0; attempt < 2; attempt++ {
		ok, err := provisionalSet(ctx, rdb, key, entry)
		if err != nil || ok {
			return ok, idempEntry{}, err
		}
		cur, err := loadEntry(ctx, rdb, key)
		switch {
		case err == nil:
			return false, cur, nil
		case errors.Is(err, redis.Nil):
			continue
		case errors.Is(err, errCorruptEntry):
			// held until it expires
			return false, idempEntry{InProgress: true}, nil
		default:
			return false, idempEntry{}, err
		}
	}
	return false, idempEntry{InProgress: true}, nil
}
