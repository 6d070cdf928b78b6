// Package service contains the coordination layer between the cost engine and
// the delivery surfaces (WebSocket hub, notification channels).
package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/alanyoungcy/perpcost/internal/domain"
	"github.com/alanyoungcy/perpcost/internal/engine"
	"github.com/alanyoungcy/perpcost/internal/notify"
)

// ResultPublisher receives every comparison result produced by the watch loop.
// The WebSocket hub implements it; a nil publisher disables publishing.
type ResultPublisher interface {
	Publish(result domain.ComparisonResult)
}

// WatchConfig holds the periodic comparison loop parameters.
type WatchConfig struct {
	Interval      time.Duration
	Assets        []string
	OrderSizesUsd []float64
}

// WatchService runs comparisons for a fixed set of asset/size combinations on
// an interval, publishes every result, and raises alerts when the cheapest
// venue changes or a whole run fails.
type WatchService struct {
	agg       *engine.Aggregator
	notifier  *notify.Notifier
	publisher ResultPublisher
	cfg       WatchConfig
	logger    *slog.Logger

	mu       sync.Mutex
	lastBest map[string]domain.VenueID // asset|size -> previous cheapest venue
}

// NewWatchService creates a WatchService. publisher may be nil when no hub is
// running (watch mode without the HTTP server).
func NewWatchService(
	agg *engine.Aggregator,
	notifier *notify.Notifier,
	publisher ResultPublisher,
	cfg WatchConfig,
	logger *slog.Logger,
) *WatchService {
	return &WatchService{
		agg:       agg,
		notifier:  notifier,
		publisher: publisher,
		cfg:       cfg,
		logger:    logger.With(slog.String("component", "watch_service")),
		lastBest:  make(map[string]domain.VenueID),
	}
}

// Run executes one comparison sweep immediately and then on every interval
// tick until the context is cancelled.
func (s *WatchService) Run(ctx context.Context) error {
	if len(s.cfg.Assets) == 0 || len(s.cfg.OrderSizesUsd) == 0 {
		return fmt.Errorf("watch_service: no assets or order sizes configured")
	}

	s.logger.InfoContext(ctx, "watch loop starting",
		slog.Duration("interval", s.cfg.Interval),
		slog.Any("assets", s.cfg.Assets),
		slog.Any("order_sizes_usd", s.cfg.OrderSizesUsd),
	)

	s.RunOnce(ctx)

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.RunOnce(ctx)
		}
	}
}

// RunOnce sweeps every configured asset/size combination once. Failures of
// individual combinations are logged and do not stop the sweep.
func (s *WatchService) RunOnce(ctx context.Context) {
	for _, asset := range s.cfg.Assets {
		for _, size := range s.cfg.OrderSizesUsd {
			result, err := s.agg.Compare(ctx, asset, size, nil)
			if err != nil {
				s.logger.ErrorContext(ctx, "watch comparison failed",
					slog.String("asset", asset),
					slog.Float64("order_size_usd", size),
					slog.String("error", err.Error()),
				)
				continue
			}
			s.handleResult(ctx, result)
		}
	}
}

// handleResult publishes the result and raises the configured alerts.
func (s *WatchService) handleResult(ctx context.Context, result domain.ComparisonResult) {
	if s.publisher != nil {
		s.publisher.Publish(result)
	}

	key := fmt.Sprintf("%s|%.0f", result.Asset, result.OrderSizeUsd)

	best := result.Best()
	if best == nil {
		s.logger.WarnContext(ctx, "all venues failed",
			slog.String("asset", string(result.Asset)),
			slog.Float64("order_size_usd", result.OrderSizeUsd),
			slog.Int("failures", len(result.Failures)),
		)
		title, message := notify.FormatAllFailed(result)
		if err := s.notifier.Notify(ctx, notify.EventAllVenuesFailed, title, message); err != nil {
			s.logger.WarnContext(ctx, "all-failed alert delivery failed",
				slog.String("error", err.Error()),
			)
		}
		// Forget the previous best so recovery counts as a change.
		s.mu.Lock()
		delete(s.lastBest, key)
		s.mu.Unlock()
		return
	}

	s.mu.Lock()
	prev, seen := s.lastBest[key]
	s.lastBest[key] = best.Venue
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "comparison swept",
		slog.String("asset", string(result.Asset)),
		slog.Float64("order_size_usd", result.OrderSizeUsd),
		slog.String("best_venue", string(best.Venue)),
		slog.Float64("best_cost_usd", best.TotalCostUsd),
		slog.Int("venues", len(result.Costs)),
		slog.Int("failures", len(result.Failures)),
	)

	if !seen || prev == best.Venue {
		return
	}

	title, message := notify.FormatBestVenueChange(prev, result)
	if err := s.notifier.Notify(ctx, notify.EventBestVenueChange, title, message); err != nil {
		s.logger.WarnContext(ctx, "best-venue alert delivery failed",
			slog.String("error", err.Error()),
		)
	}
}
