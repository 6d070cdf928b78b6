package venue

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alanyoungcy/perpcost/internal/domain"
)

type memCache struct {
	entries map[string]domain.MarketSnapshot
	sets    int
}

func newMemCache() *memCache {
	return &memCache{entries: make(map[string]domain.MarketSnapshot)}
}

func (m *memCache) Set(_ context.Context, venue domain.VenueID, ticker string, snap domain.MarketSnapshot, _ time.Duration) error {
	m.entries[string(venue)+":"+ticker] = snap
	m.sets++
	return nil
}

func (m *memCache) Get(_ context.Context, venue domain.VenueID, ticker string) (domain.MarketSnapshot, error) {
	snap, ok := m.entries[string(venue)+":"+ticker]
	if !ok {
		return domain.MarketSnapshot{}, domain.ErrNotFound
	}
	return snap, nil
}

type countingAdapter struct {
	calls int
	snap  domain.MarketSnapshot
}

func (c *countingAdapter) Venue() domain.VenueID { return domain.VenueHyperliquid }

func (c *countingAdapter) Fetch(context.Context, string) (domain.MarketSnapshot, error) {
	c.calls++
	return c.snap, nil
}

func TestCachedAdapter_SecondFetchHitsCache(t *testing.T) {
	inner := &countingAdapter{
		snap: domain.NewOracleSnapshot(
			domain.VenueHyperliquid, "",
			domain.OracleQuote{Price: 100, SpreadBps: 2},
			time.Now(),
		),
	}
	cache := newMemCache()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	c := NewCachedAdapter(inner, cache, 30*time.Second, logger)

	snap1, err := c.Fetch(context.Background(), "PAXG")
	require.NoError(t, err)
	snap2, err := c.Fetch(context.Background(), "PAXG")
	require.NoError(t, err)

	assert.Equal(t, 1, inner.calls)
	assert.Equal(t, 1, cache.sets)
	assert.Equal(t, snap1.Oracle.Price, snap2.Oracle.Price)
}

func TestCachedAdapter_DistinctTickersMiss(t *testing.T) {
	inner := &countingAdapter{
		snap: domain.NewOracleSnapshot(
			domain.VenueHyperliquid, "",
			domain.OracleQuote{Price: 100},
			time.Now(),
		),
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	c := NewCachedAdapter(inner, newMemCache(), 30*time.Second, logger)

	_, err := c.Fetch(context.Background(), "PAXG")
	require.NoError(t, err)
	_, err = c.Fetch(context.Background(), "AAPL")
	require.NoError(t, err)

	assert.Equal(t, 2, inner.calls)
}
