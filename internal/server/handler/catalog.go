package handler

import (
	"log/slog"
	"net/http"

	"github.com/alanyoungcy/perpcost/internal/domain"
	"github.com/alanyoungcy/perpcost/internal/engine"
	"github.com/alanyoungcy/perpcost/internal/refdata"
)

// CatalogHandler serves the static reference data: supported assets and
// configured venues.
type CatalogHandler struct {
	agg    *engine.Aggregator
	logger *slog.Logger
}

// NewCatalogHandler creates a CatalogHandler.
func NewCatalogHandler(agg *engine.Aggregator, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{
		agg:    agg,
		logger: logHandler(logger, "catalog"),
	}
}

// assetEntry is the API shape for one catalog asset.
type assetEntry struct {
	Asset    domain.Asset              `json:"asset"`
	Category domain.Category           `json:"category"`
	Venues   []domain.VenueID          `json:"venues"`
	Tickers  map[domain.VenueID]string `json:"tickers"`
}

// ListAssets returns the supported assets with their venue tickers.
// GET /api/assets
func (h *CatalogHandler) ListAssets(w http.ResponseWriter, r *http.Request) {
	configs := refdata.Assets()
	out := make([]assetEntry, 0, len(configs))
	for _, cfg := range configs {
		out = append(out, assetEntry{
			Asset:    cfg.Asset,
			Category: cfg.Category,
			Venues:   cfg.Venues(),
			Tickers:  cfg.Tickers,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"assets": out})
}

// ListVenues returns the venues with a configured adapter.
// GET /api/venues
func (h *CatalogHandler) ListVenues(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"venues": h.agg.Venues()})
}
