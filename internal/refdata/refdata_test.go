package refdata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alanyoungcy/perpcost/internal/domain"
)

func TestAssetByName_CaseInsensitive(t *testing.T) {
	cfg, err := AssetByName(" gold ")
	require.NoError(t, err)
	assert.Equal(t, domain.Asset("GOLD"), cfg.Asset)
	assert.Equal(t, domain.CategoryGold, cfg.Category)
}

func TestAssetByName_Unknown(t *testing.T) {
	_, err := AssetByName("DOGE")
	var invalid *domain.InvalidInputError
	require.ErrorAs(t, err, &invalid)
}

func TestCatalog_TickerDivergences(t *testing.T) {
	gold, err := AssetByName("GOLD")
	require.NoError(t, err)

	hl, ok := gold.Ticker(domain.VenueHyperliquid)
	require.True(t, ok)
	assert.Equal(t, "PAXG", hl)

	lt, ok := gold.Ticker(domain.VenueLighter)
	require.True(t, ok)
	assert.Equal(t, "XAU", lt)

	os, ok := gold.Ticker(domain.VenueOstium)
	require.True(t, ok)
	assert.Equal(t, "XAUUSD", os)

	_, ok = gold.Ticker(domain.VenueVertex)
	assert.False(t, ok, "vertex does not list gold")

	googl, err := AssetByName("GOOGL")
	require.NoError(t, err)
	osTicker, _ := googl.Ticker(domain.VenueOstium)
	assert.Equal(t, "GOOG", osTicker)
	hlTicker, _ := googl.Ticker(domain.VenueHyperliquid)
	assert.Equal(t, "GOOGL", hlTicker)
}

func TestAssets_SortedAndComplete(t *testing.T) {
	assets := Assets()
	require.NotEmpty(t, assets)
	for i := 1; i < len(assets); i++ {
		assert.Less(t, string(assets[i-1].Asset), string(assets[i].Asset))
	}
	for _, cfg := range assets {
		assert.NotEmpty(t, cfg.Tickers, "asset %s has no venues", cfg.Asset)
	}
}

func TestSchedule_PerVenueShape(t *testing.T) {
	hl, err := Schedule(domain.VenueHyperliquid, domain.CategoryGold)
	require.NoError(t, err)
	assert.True(t, hl.Orderbook)
	assert.NotEmpty(t, hl.Tiers)
	assert.InDelta(t, 0.00045, hl.OpenFeeRate, 1e-12)

	lt, err := Schedule(domain.VenueLighter, domain.CategoryEquities)
	require.NoError(t, err)
	assert.Zero(t, lt.OpenFeeRate)
	assert.Zero(t, lt.CloseFeeRate)

	os, err := Schedule(domain.VenueOstium, domain.CategorySilver)
	require.NoError(t, err)
	assert.InDelta(t, 0.0015, os.OpenFeeRate, 1e-12)
	assert.Zero(t, os.CloseFeeRate)
	assert.Equal(t, 0.10, os.FlatFeeUsd)
	assert.True(t, os.OneSidedSpread)

	av, err := Schedule(domain.VenueAvantis, domain.CategoryForexMajor)
	require.NoError(t, err)
	assert.InDelta(t, 0.0003, av.OpenFeeRate, 1e-12)
	assert.InDelta(t, 0.0003, av.CloseFeeRate, 1e-12)
	assert.True(t, av.OneSidedSpread)

	gt, err := Schedule(domain.VenueGTrade, domain.CategoryGold)
	require.NoError(t, err)
	assert.False(t, gt.OneSidedSpread)
}

func TestSchedule_UnknownVenue(t *testing.T) {
	_, err := Schedule(domain.VenueID("binance"), domain.CategoryGold)
	var invalid *domain.InvalidInputError
	require.ErrorAs(t, err, &invalid)
}

func TestSchedule_TierResolution(t *testing.T) {
	hl, err := Schedule(domain.VenueHyperliquid, domain.CategoryGold)
	require.NoError(t, err)

	open, _ := hl.Resolve(0)
	assert.InDelta(t, 0.00045, open, 1e-12)

	open, _ = hl.Resolve(30_000_000)
	assert.InDelta(t, 0.00035, open, 1e-12)

	open, _ = hl.Resolve(500_000_000)
	assert.InDelta(t, 0.00030, open, 1e-12)
}
