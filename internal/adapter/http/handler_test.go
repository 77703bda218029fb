package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type healthBody struct {
	Status string            `json:"status"`
	Time   string            `json:"time"`
	Deps   map[string]string `json:"deps"`
}

func callHealth(t *testing.T, h *Handler) (*httptest.ResponseRecorder, healthBody) {
	t.Helper()
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/health", nil), rec)
	require.NoError(t, h.Health(c))

	var body healthBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return rec, body
}

func TestHealth_ReturnsOKWithRFC3339NanoUTC(t *testing.T) {
	start := time.Now().UTC()
	rec, body := callHealth(t, NewHandler(nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(strings.ToLower(rec.Header().Get(echo.HeaderContentType)), "application/json"))
	assert.Equal(t, "ok", body.Status)
	assert.Nil(t, body.Deps)

	parsed, err := time.Parse(time.RFC3339Nano, body.Time)
	require.NoError(t, err)
	assert.Equal(t, time.UTC, parsed.Location())
	assert.False(t, parsed.Before(start.Add(-2*time.Second)))
	assert.False(t, parsed.After(time.Now().UTC().Add(2*time.Second)))
}

func TestHealth_ReportsDependencies(t *testing.T) {
	up := func(context.Context) error { return nil }
	down := func(context.Context) error { return errors.New("refused") }

	rec, body := callHealth(t, NewHandler(map[string]Pinger{"mysql": up, "redis": up}))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]string{"mysql": "up", "redis": "up"}, body.Deps)

	rec, body = callHealth(t, NewHandler(map[string]Pinger{"mysql": up, "redis": down}))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "degraded", body.Status)
	assert.Equal(t, "down", body.Deps["redis"])
}
