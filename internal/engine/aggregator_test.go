package engine

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alanyoungcy/perpcost/internal/domain"
)

// stubAdapter returns a canned snapshot or error for one venue.
type stubAdapter struct {
	venue domain.VenueID
	fetch func(ctx context.Context, ticker string) (domain.MarketSnapshot, error)
}

func (s stubAdapter) Venue() domain.VenueID { return s.venue }

func (s stubAdapter) Fetch(ctx context.Context, ticker string) (domain.MarketSnapshot, error) {
	return s.fetch(ctx, ticker)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func oracleAdapter(venue domain.VenueID, spreadBps float64) domain.Adapter {
	return stubAdapter{venue: venue, fetch: func(_ context.Context, _ string) (domain.MarketSnapshot, error) {
		return domain.NewOracleSnapshot(venue, "EURUSD", domain.OracleQuote{Price: 1.09, SpreadBps: spreadBps}, time.Now()), nil
	}}
}

func failingAdapter(venue domain.VenueID, err error) domain.Adapter {
	return stubAdapter{venue: venue, fetch: func(_ context.Context, _ string) (domain.MarketSnapshot, error) {
		return domain.MarketSnapshot{}, err
	}}
}

func TestCompare_RanksAscendingByTotalCost(t *testing.T) {
	// EURUSD fee context: ostium 3 bps open + $0.10 flat (one-sided spread),
	// avantis 3+3 bps (one-sided), gtrade 3+3 bps (round-trip doubling).
	agg := New([]domain.Adapter{
		oracleAdapter(domain.VenueOstium, 2),  // 2+3 bps + $0.10 => $5.10 at $10k
		oracleAdapter(domain.VenueAvantis, 0), // 0+6 bps        => $6.00 at $10k
		oracleAdapter(domain.VenueGTrade, 10), // 2*10+6 bps     => $26.00 at $10k
	}, Options{}, discardLogger())

	res, err := agg.Compare(context.Background(), "EURUSD", 10_000, nil)
	require.NoError(t, err)
	require.Empty(t, res.Failures)
	require.Len(t, res.Costs, 3)

	wantOrder := []domain.VenueID{domain.VenueOstium, domain.VenueAvantis, domain.VenueGTrade}
	for i, want := range wantOrder {
		assert.Equal(t, want, res.Costs[i].Venue)
	}
	for i := 1; i < len(res.Costs); i++ {
		assert.LessOrEqual(t, res.Costs[i-1].TotalCostUsd, res.Costs[i].TotalCostUsd)
	}
}

func TestCompare_ReportsSavingsOverRunnerUp(t *testing.T) {
	agg := New([]domain.Adapter{
		oracleAdapter(domain.VenueOstium, 2),  // $5.10 at $10k
		oracleAdapter(domain.VenueAvantis, 0), // $6.00 at $10k
	}, Options{}, discardLogger())

	res, err := agg.Compare(context.Background(), "EURUSD", 10_000, nil)
	require.NoError(t, err)
	require.Len(t, res.Costs, 2)

	assert.InDelta(t, 0.90, res.SavingsUsd, 1e-9)
	assert.InDelta(t, 0.90, res.SavingsBps, 1e-9)
}

func TestCompare_NoSavingsWithSingleVenue(t *testing.T) {
	agg := New([]domain.Adapter{oracleAdapter(domain.VenueOstium, 2)}, Options{}, discardLogger())

	res, err := agg.Compare(context.Background(), "EURUSD", 10_000, nil)
	require.NoError(t, err)
	require.Len(t, res.Costs, 1)
	assert.Zero(t, res.SavingsUsd)
	assert.Zero(t, res.SavingsBps)
}

func TestCompare_EmptyVenueListSkipsNonListingVenues(t *testing.T) {
	// Hyperliquid does not list SILVER. With no explicit venue filter it is
	// simply out of scope, not a failure entry.
	agg := New([]domain.Adapter{
		failingAdapter(domain.VenueHyperliquid, errors.New("unused")),
		oracleAdapter(domain.VenueOstium, 2),
	}, Options{}, discardLogger())

	res, err := agg.Compare(context.Background(), "SILVER", 10_000, nil)
	require.NoError(t, err)

	assert.Empty(t, res.Failures)
	require.Len(t, res.Costs, 1)
	assert.Equal(t, domain.VenueOstium, res.Costs[0].Venue)
}

func TestCompare_TieBrokenByVenueName(t *testing.T) {
	// Avantis with zero spread and gtrade with zero spread both cost exactly
	// 6 bps in fees on EURUSD.
	agg := New([]domain.Adapter{
		oracleAdapter(domain.VenueGTrade, 0),
		oracleAdapter(domain.VenueAvantis, 0),
	}, Options{}, discardLogger())

	res, err := agg.Compare(context.Background(), "EURUSD", 10_000, nil)
	require.NoError(t, err)
	require.Len(t, res.Costs, 2)

	assert.InDelta(t, res.Costs[0].TotalCostUsd, res.Costs[1].TotalCostUsd, 1e-9)
	assert.Equal(t, domain.VenueAvantis, res.Costs[0].Venue)
	assert.Equal(t, domain.VenueGTrade, res.Costs[1].Venue)
}

func TestCompare_AllVenuesFailingStillReturnsResult(t *testing.T) {
	boom := errors.New("connection refused")
	agg := New([]domain.Adapter{
		failingAdapter(domain.VenueHyperliquid, boom),
		failingAdapter(domain.VenueLighter, boom),
		failingAdapter(domain.VenueOstium, boom),
	}, Options{}, discardLogger())

	res, err := agg.Compare(context.Background(), "GOLD", 100_000, nil)
	require.NoError(t, err)

	assert.Empty(t, res.Costs)
	require.Len(t, res.Failures, 3)
	for _, f := range res.Failures {
		assert.Contains(t, f.Reason, "connection refused")
	}
}

func TestCompare_PartialFailureKeepsSurvivors(t *testing.T) {
	agg := New([]domain.Adapter{
		oracleAdapter(domain.VenueOstium, 2),
		failingAdapter(domain.VenueAvantis, errors.New("http 503")),
	}, Options{}, discardLogger())

	res, err := agg.Compare(context.Background(), "GOLD", 100_000, nil)
	require.NoError(t, err)

	require.Len(t, res.Costs, 1)
	assert.Equal(t, domain.VenueOstium, res.Costs[0].Venue)
	require.Len(t, res.Failures, 1)
	assert.Equal(t, domain.VenueAvantis, res.Failures[0].Venue)
}

func TestCompare_StaleSnapshotBecomesFailure(t *testing.T) {
	stale := stubAdapter{venue: domain.VenueOstium, fetch: func(_ context.Context, _ string) (domain.MarketSnapshot, error) {
		return domain.NewOracleSnapshot(domain.VenueOstium, "GOLD", domain.OracleQuote{Price: 2400, SpreadBps: 3}, time.Now().Add(-5*time.Minute)), nil
	}}
	agg := New([]domain.Adapter{stale}, Options{FreshnessWindow: 30 * time.Second}, discardLogger())

	res, err := agg.Compare(context.Background(), "GOLD", 10_000, nil)
	require.NoError(t, err)

	assert.Empty(t, res.Costs)
	require.Len(t, res.Failures, 1)
	assert.Contains(t, res.Failures[0].Reason, "stale")
}

func TestCompare_InsufficientLiquidityBecomesFailure(t *testing.T) {
	thin := stubAdapter{venue: domain.VenueHyperliquid, fetch: func(_ context.Context, _ string) (domain.MarketSnapshot, error) {
		return domain.NewOrderbookSnapshot(domain.VenueHyperliquid, "GOLD",
			[]domain.PriceLevel{{Price: 2399, Size: 1}},
			[]domain.PriceLevel{{Price: 2401, Size: 1}},
			time.Now()), nil
	}}
	agg := New([]domain.Adapter{thin}, Options{}, discardLogger())

	res, err := agg.Compare(context.Background(), "GOLD", 10_000_000, nil)
	require.NoError(t, err)

	assert.Empty(t, res.Costs)
	require.Len(t, res.Failures, 1)
	assert.Contains(t, res.Failures[0].Reason, "insufficient liquidity")
}

func TestCompare_InvalidRequestFailsFast(t *testing.T) {
	fetched := false
	spy := stubAdapter{venue: domain.VenueOstium, fetch: func(_ context.Context, _ string) (domain.MarketSnapshot, error) {
		fetched = true
		return domain.MarketSnapshot{}, errors.New("should not be called")
	}}
	agg := New([]domain.Adapter{spy}, Options{}, discardLogger())

	var inputErr *domain.InvalidInputError

	_, err := agg.Compare(context.Background(), "DOGECOIN", 10_000, nil)
	assert.ErrorAs(t, err, &inputErr)

	_, err = agg.Compare(context.Background(), "GOLD", 0, nil)
	assert.ErrorAs(t, err, &inputErr)

	_, err = agg.Compare(context.Background(), "GOLD", 10_000, []domain.VenueID{"binance"})
	assert.ErrorAs(t, err, &inputErr)

	assert.False(t, fetched)
}

func TestCompare_VenueNotListingAssetBecomesFailure(t *testing.T) {
	// Vertex does not list GOLD; requesting it explicitly must not abort the
	// comparison.
	agg := New([]domain.Adapter{
		oracleAdapter(domain.VenueOstium, 2),
		failingAdapter(domain.VenueVertex, errors.New("unused")),
	}, Options{}, discardLogger())

	res, err := agg.Compare(context.Background(), "GOLD", 10_000,
		[]domain.VenueID{domain.VenueOstium, domain.VenueVertex})
	require.NoError(t, err)

	require.Len(t, res.Costs, 1)
	require.Len(t, res.Failures, 1)
	assert.Equal(t, domain.VenueVertex, res.Failures[0].Venue)
	assert.Contains(t, res.Failures[0].Reason, "does not list")
}

func TestCompare_SlowVenueHitsFetchTimeout(t *testing.T) {
	slow := stubAdapter{venue: domain.VenueAvantis, fetch: func(ctx context.Context, _ string) (domain.MarketSnapshot, error) {
		<-ctx.Done()
		return domain.MarketSnapshot{}, ctx.Err()
	}}
	agg := New([]domain.Adapter{
		slow,
		oracleAdapter(domain.VenueOstium, 2),
	}, Options{FetchTimeout: 20 * time.Millisecond}, discardLogger())

	start := time.Now()
	res, err := agg.Compare(context.Background(), "GOLD", 10_000, nil)
	require.NoError(t, err)

	// The slow venue is bounded by its own timeout, not by the others.
	assert.Less(t, time.Since(start), 2*time.Second)
	require.Len(t, res.Costs, 1)
	require.Len(t, res.Failures, 1)
	assert.Equal(t, domain.VenueAvantis, res.Failures[0].Venue)
}

func TestCompare_CaseInsensitiveAssetLookup(t *testing.T) {
	agg := New([]domain.Adapter{oracleAdapter(domain.VenueOstium, 2)}, Options{}, discardLogger())

	res, err := agg.Compare(context.Background(), "gold", 10_000, nil)
	require.NoError(t, err)
	assert.Equal(t, domain.Asset("GOLD"), res.Asset)
}
