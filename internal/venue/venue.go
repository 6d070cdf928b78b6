// Package venue hosts the per-exchange market data adapters and the helpers
// they share. Each sub-package owns one venue's wire format and translates it
// into a normalized domain.MarketSnapshot; nothing above this layer knows how
// any venue encodes its data.
package venue

import (
	"sort"

	"github.com/alanyoungcy/perpcost/internal/domain"
)

// CleanBids drops non-positive levels, sorts by descending price, and merges
// entries at the same price into one level.
func CleanBids(levels []domain.PriceLevel) []domain.PriceLevel {
	out := cleanLevels(levels)
	sort.Slice(out, func(i, j int) bool { return out[i].Price > out[j].Price })
	return mergeLevels(out)
}

// CleanAsks drops non-positive levels, sorts by ascending price, and merges
// entries at the same price into one level.
func CleanAsks(levels []domain.PriceLevel) []domain.PriceLevel {
	out := cleanLevels(levels)
	sort.Slice(out, func(i, j int) bool { return out[i].Price < out[j].Price })
	return mergeLevels(out)
}

func cleanLevels(levels []domain.PriceLevel) []domain.PriceLevel {
	out := make([]domain.PriceLevel, 0, len(levels))
	for _, lvl := range levels {
		if lvl.Price <= 0 || lvl.Size <= 0 {
			continue
		}
		out = append(out, lvl)
	}
	return out
}

// mergeLevels collapses adjacent same-price levels, summing sizes. APIs that
// return individual resting orders rather than an aggregated ladder (Lighter's
// orderBookOrders) routinely carry several orders at one price, and the depth
// walk expects strictly monotonic prices.
func mergeLevels(levels []domain.PriceLevel) []domain.PriceLevel {
	if len(levels) < 2 {
		return levels
	}
	out := levels[:1]
	for _, lvl := range levels[1:] {
		if lvl.Price == out[len(out)-1].Price {
			out[len(out)-1].Size += lvl.Size
			continue
		}
		out = append(out, lvl)
	}
	return out
}
