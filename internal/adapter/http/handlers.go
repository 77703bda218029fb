package http

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// Pinger reports whether a backing store is reachable.
type Pinger func(ctx context.Context) error

type Handler struct {
	checks map[string]Pinger
}

// NewHandler takes named dependency checks for /health; none means the
// process itself is the only thing reported.
func NewHandler(checks map[string]Pinger) *Handler { return &Handler{checks: checks} }

func (h *Handler) Health(c echo.Context) error {
	status, code := "ok", http.StatusOK
	deps := make(map[string]string, len(h.checks))

	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()
	for name, ping := range h.checks {
		if err := ping(ctx); err != nil {
			deps[name] = "down"
			status, code = "degraded", http.StatusServiceUnavailable
			continue
		}
		deps[name] = "up"
	}

	body := map[string]any{
		"status": status,
		"time":   time.Now().UTC().Format(time.RFC3339Nano),
	}
	if len(deps) > 0 {
		body["deps"] = deps
	}
	return c.JSON(code, body)
}
