package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Pinger reports whether a dependency is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingerFunc adapts a function to Pinger
type PingerFunc func(ctx context.Context) error

func (f PingerFunc) Ping(ctx context.Context) error { return f(ctx) }

// HealthHandler reports agent liveness plus the state of its dependencies
type HealthHandler struct {
	checks  map[string]Pinger
	boardID func() string
	timeout time.Duration
}

// NewHealthHandler creates a HealthHandler. boardID may be nil.
func NewHealthHandler(checks map[string]Pinger, boardID func() string) *HealthHandler {
	return &HealthHandler{checks: checks, boardID: boardID, timeout: 2 * time.Second}
}

// Health returns 200 when every check passes and 503 otherwise.
// GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	status := "ok"
	code := http.StatusOK
	results := make(map[string]string, len(h.checks))
	for name, p := range h.checks {
		if err := p.Ping(ctx); err != nil {
			results[name] = err.Error()
			status = "degraded"
			code = http.StatusServiceUnavailable
			continue
		}
		results[name] = "ok"
	}

	body := gin.H{"status": status, "checks": results}
	if h.boardID != nil {
		body["active_board"] = h.boardID()
	}
	c.JSON(code, body)
}
