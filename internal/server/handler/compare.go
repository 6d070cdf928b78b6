package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/alanyoungcy/perpcost/internal/domain"
	"github.com/alanyoungcy/perpcost/internal/engine"
)

// CompareHandler serves execution-cost comparisons.
type CompareHandler struct {
	agg    *engine.Aggregator
	logger *slog.Logger
}

// NewCompareHandler creates a CompareHandler backed by the given aggregator.
func NewCompareHandler(agg *engine.Aggregator, logger *slog.Logger) *CompareHandler {
	return &CompareHandler{
		agg:    agg,
		logger: logHandler(logger, "compare"),
	}
}

// Compare runs a comparison for one asset and order size.
// GET /api/compare?asset=GOLD&size=10000&venues=hyperliquid,lighter&volume=0
func (h *CompareHandler) Compare(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	asset := q.Get("asset")
	if asset == "" {
		writeError(w, http.StatusBadRequest, "missing asset parameter")
		return
	}

	sizeStr := q.Get("size")
	if sizeStr == "" {
		writeError(w, http.StatusBadRequest, "missing size parameter")
		return
	}
	size, err := strconv.ParseFloat(sizeStr, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid size parameter")
		return
	}

	var venues []domain.VenueID
	if v := q.Get("venues"); v != "" {
		for _, name := range strings.Split(v, ",") {
			name = strings.TrimSpace(strings.ToLower(name))
			if name != "" {
				venues = append(venues, domain.VenueID(name))
			}
		}
	}

	result, err := h.agg.Compare(r.Context(), asset, size, venues)
	if err != nil {
		var invalid *domain.InvalidInputError
		if errors.As(err, &invalid) {
			writeError(w, http.StatusBadRequest, invalid.Error())
			return
		}
		h.logger.ErrorContext(r.Context(), "comparison failed",
			slog.String("asset", asset),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "comparison failed")
		return
	}

	writeJSON(w, http.StatusOK, result)
}
