package domain

import "sort"

// Asset is the logical identifier for a tradeable instrument, e.g. "GOLD",
// "EURUSD", "AAPL". The same asset trades under different tickers on
// different venues.
type Asset string

// Category groups assets for per-venue fee lookup. Oracle venues price their
// fees by instrument class rather than per ticker.
type Category string

const (
	CategoryEquities   Category = "equities"
	CategoryIndices    Category = "indices"
	CategoryForexMajor Category = "forex_major"
	CategoryGold       Category = "gold"
	CategorySilver     Category = "silver"
)

// AssetConfig maps a logical asset to its venue-native tickers. A venue
// missing from Tickers does not list the asset.
type AssetConfig struct {
	Asset    Asset
	Category Category
	Tickers  map[VenueID]string
}

// Ticker returns the venue-native ticker for the given venue, and whether the
// venue lists this asset at all.
func (c AssetConfig) Ticker(v VenueID) (string, bool) {
	t, ok := c.Tickers[v]
	return t, ok
}

// Venues returns the venues that list this asset, sorted for determinism.
func (c AssetConfig) Venues() []VenueID {
	out := make([]VenueID, 0, len(c.Tickers))
	for v := range c.Tickers {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
