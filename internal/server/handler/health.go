package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/alanyoungcy/perpcost/internal/engine"
)

// HealthHandler serves the health-check endpoint.
type HealthHandler struct {
	agg       *engine.Aggregator
	startedAt time.Time
	logger    *slog.Logger
}

// NewHealthHandler creates a HealthHandler with the provided logger.
func NewHealthHandler(agg *engine.Aggregator, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{
		agg:       agg,
		startedAt: time.Now().UTC(),
		logger:    logHandler(logger, "health"),
	}
}

// HealthCheck responds with a simple JSON status indicating the server is alive.
// GET /api/health
func (h *HealthHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":         "ok",
		"venues":         len(h.agg.Venues()),
		"uptime_seconds": int64(time.Since(h.startedAt).Seconds()),
		"timestamp":      time.Now().UTC().Format(time.RFC3339),
	})
}
