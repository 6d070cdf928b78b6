// Package refdata holds the static reference data for the comparison
// service: the catalog of supported assets with their venue-native tickers,
// and the per-venue fee schedules. Both are compile-time tables; venues
// publish fee changes rarely enough that a redeploy is acceptable.
package refdata

import (
	"sort"
	"strings"

	"github.com/alanyoungcy/perpcost/internal/domain"
)

// catalog maps each logical asset to its venue tickers. A venue absent from
// an entry does not list that asset. Tickers differ per venue: gold trades as
// PAXG on Hyperliquid, XAU on Lighter, and XAUUSD on the oracle venues.
var catalog = map[domain.Asset]domain.AssetConfig{
	"GOLD": {
		Asset:    "GOLD",
		Category: domain.CategoryGold,
		Tickers: map[domain.VenueID]string{
			domain.VenueHyperliquid: "PAXG",
			domain.VenueLighter:     "XAU",
			domain.VenueParadex:     "XAU-USD-PERP",
			domain.VenueOstium:      "XAUUSD",
			domain.VenueAvantis:     "XAUUSD",
			domain.VenueGTrade:      "XAU/USD",
		},
	},
	"SILVER": {
		Asset:    "SILVER",
		Category: domain.CategorySilver,
		Tickers: map[domain.VenueID]string{
			domain.VenueLighter: "XAG",
			domain.VenueParadex: "XAG-USD-PERP",
			domain.VenueOstium:  "XAGUSD",
			domain.VenueAvantis: "XAGUSD",
			domain.VenueGTrade:  "XAG/USD",
		},
	},
	"AAPL":  equity("AAPL"),
	"MSFT":  equity("MSFT"),
	"GOOGL": googl(),
	"AMZN":  equity("AMZN"),
	"META":  equity("META"),
	"TSLA":  equity("TSLA"),
	"NVDA":  equity("NVDA"),
	"HOOD":  equity("HOOD"),
	"SPY": {
		Asset:    "SPY",
		Category: domain.CategoryIndices,
		Tickers: map[domain.VenueID]string{
			domain.VenueHyperliquid: "SPY",
			domain.VenueLighter:     "SPY",
			domain.VenueOstium:      "SPY",
			domain.VenueAvantis:     "SPYUSD",
			domain.VenueGTrade:      "SPY/USD",
		},
	},
	"QQQ": {
		Asset:    "QQQ",
		Category: domain.CategoryIndices,
		Tickers: map[domain.VenueID]string{
			domain.VenueHyperliquid: "QQQ",
			domain.VenueLighter:     "QQQ",
			domain.VenueOstium:      "QQQ",
			domain.VenueAvantis:     "QQQUSD",
			domain.VenueGTrade:      "QQQ/USD",
		},
	},
	"EURUSD": forex("EURUSD", "EUR-USD-PERP", "EUR-PERP_USDC", "EUR/USD"),
	"USDJPY": forex("USDJPY", "USD-JPY-PERP", "JPY-PERP_USDC", "USD/JPY"),
	"GBPUSD": forex("GBPUSD", "GBP-USD-PERP", "GBP-PERP_USDC", "GBP/USD"),
}

// equity builds the common catalog entry for US stocks, which trade under the
// same ticker everywhere that lists them.
func equity(sym string) domain.AssetConfig {
	return domain.AssetConfig{
		Asset:    domain.Asset(sym),
		Category: domain.CategoryEquities,
		Tickers: map[domain.VenueID]string{
			domain.VenueHyperliquid: sym,
			domain.VenueLighter:     sym,
			domain.VenueOstium:      sym,
			domain.VenueAvantis:     sym,
			domain.VenueGTrade:      sym + "/USD",
		},
	}
}

// googl is the one stock whose ticker diverges: GOOGL on Hyperliquid and
// Lighter, GOOG on Ostium and Avantis.
func googl() domain.AssetConfig {
	return domain.AssetConfig{
		Asset:    "GOOGL",
		Category: domain.CategoryEquities,
		Tickers: map[domain.VenueID]string{
			domain.VenueHyperliquid: "GOOGL",
			domain.VenueLighter:     "GOOGL",
			domain.VenueOstium:      "GOOG",
			domain.VenueAvantis:     "GOOG",
			domain.VenueGTrade:      "GOOG/USD",
		},
	}
}

// forex builds a major forex pair entry.
func forex(sym, paradexTicker, vertexTicker, gtradeTicker string) domain.AssetConfig {
	return domain.AssetConfig{
		Asset:    domain.Asset(sym),
		Category: domain.CategoryForexMajor,
		Tickers: map[domain.VenueID]string{
			domain.VenueHyperliquid: sym,
			domain.VenueLighter:     sym,
			domain.VenueParadex:     paradexTicker,
			domain.VenueVertex:      vertexTicker,
			domain.VenueOstium:      sym,
			domain.VenueAvantis:     sym,
			domain.VenueGTrade:      gtradeTicker,
		},
	}
}

// Assets returns all supported asset configs sorted by name.
func Assets() []domain.AssetConfig {
	out := make([]domain.AssetConfig, 0, len(catalog))
	for _, cfg := range catalog {
		out = append(out, cfg)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Asset < out[j].Asset })
	return out
}

// AssetByName looks up an asset config by its (case-insensitive) logical
// name. Unknown assets yield an InvalidInputError.
func AssetByName(name string) (domain.AssetConfig, error) {
	cfg, ok := catalog[domain.Asset(strings.ToUpper(strings.TrimSpace(name)))]
	if !ok {
		return domain.AssetConfig{}, domain.Invalidf("unknown asset %q", name)
	}
	return cfg, nil
}
