package venue

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/alanyoungcy/perpcost/internal/domain"
)

// CachedAdapter wraps an Adapter with a snapshot cache. A fresh cached
// snapshot short-circuits the venue call; fetch results are written back with
// the configured TTL. Cache failures are logged and degrade to a direct
// fetch, never to a request failure.
type CachedAdapter struct {
	inner  domain.Adapter
	cache  domain.SnapshotCache
	ttl    time.Duration
	logger *slog.Logger
}

// NewCachedAdapter wraps inner with cache. The TTL should match the
// aggregator's freshness window so cache hits can never be stale.
func NewCachedAdapter(inner domain.Adapter, cache domain.SnapshotCache, ttl time.Duration, logger *slog.Logger) *CachedAdapter {
	return &CachedAdapter{
		inner:  inner,
		cache:  cache,
		ttl:    ttl,
		logger: logger.With("component", "venue_cache", "venue", inner.Venue()),
	}
}

// Venue implements domain.Adapter.
func (c *CachedAdapter) Venue() domain.VenueID { return c.inner.Venue() }

// Fetch implements domain.Adapter with cache-first semantics.
func (c *CachedAdapter) Fetch(ctx context.Context, ticker string) (domain.MarketSnapshot, error) {
	snap, err := c.cache.Get(ctx, c.inner.Venue(), ticker)
	if err == nil {
		return snap, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		c.logger.WarnContext(ctx, "snapshot cache read failed", "ticker", ticker, "error", err)
	}

	snap, err = c.inner.Fetch(ctx, ticker)
	if err != nil {
		return domain.MarketSnapshot{}, err
	}

	if err := c.cache.Set(ctx, c.inner.Venue(), ticker, snap, c.ttl); err != nil {
		c.logger.WarnContext(ctx, "snapshot cache write failed", "ticker", ticker, "error", err)
	}
	return snap, nil
}
