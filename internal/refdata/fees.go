package refdata

import (
	"github.com/alanyoungcy/perpcost/internal/domain"
)

// bps converts basis points to a fraction of notional.
func bps(v float64) float64 { return v / 10_000 }

// hyperliquidTiers is the taker fee ladder by trailing 14-day volume.
var hyperliquidTiers = []domain.FeeTier{
	{MinVolumeUsd: 0, OpenRate: bps(4.5), CloseRate: bps(4.5)},
	{MinVolumeUsd: 5_000_000, OpenRate: bps(4.0), CloseRate: bps(4.0)},
	{MinVolumeUsd: 25_000_000, OpenRate: bps(3.5), CloseRate: bps(3.5)},
	{MinVolumeUsd: 100_000_000, OpenRate: bps(3.0), CloseRate: bps(3.0)},
}

// paradexTiers is the taker fee ladder by trailing 30-day volume.
var paradexTiers = []domain.FeeTier{
	{MinVolumeUsd: 0, OpenRate: bps(3.0), CloseRate: bps(3.0)},
	{MinVolumeUsd: 50_000_000, OpenRate: bps(2.5), CloseRate: bps(2.5)},
	{MinVolumeUsd: 200_000_000, OpenRate: bps(2.0), CloseRate: bps(2.0)},
}

// ostiumOpenFee is the per-category opening fee in bps. Closing is free; a
// flat $0.10 oracle fee is charged per trade on top.
var ostiumOpenFee = map[domain.Category]float64{
	domain.CategoryEquities:   5,
	domain.CategoryIndices:    5,
	domain.CategoryForexMajor: 3,
	domain.CategoryGold:       3,
	domain.CategorySilver:     15,
}

// avantisFees is the fixed-fee table: open/close bps per category.
var avantisFees = map[domain.Category][2]float64{
	domain.CategoryEquities:   {6, 0},
	domain.CategoryIndices:    {6, 0},
	domain.CategoryForexMajor: {3, 3},
	domain.CategoryGold:       {6, 0},
	domain.CategorySilver:     {6.35, 0},
}

// gtradeFees is the open/close bps table per category.
var gtradeFees = map[domain.Category][2]float64{
	domain.CategoryEquities:   {5, 5},
	domain.CategoryIndices:    {5, 5},
	domain.CategoryForexMajor: {3, 3},
	domain.CategoryGold:       {4, 4},
	domain.CategorySilver:     {6, 6},
}

// Schedule returns the fee schedule for the given venue and asset category.
// Unknown venues yield an InvalidInputError.
func Schedule(venue domain.VenueID, category domain.Category) (domain.FeeSchedule, error) {
	switch venue {
	case domain.VenueHyperliquid:
		return domain.FeeSchedule{
			Venue:        venue,
			OpenFeeRate:  bps(4.5),
			CloseFeeRate: bps(4.5),
			Tiers:        hyperliquidTiers,
			Orderbook:    true,
		}, nil
	case domain.VenueLighter:
		// Zero taker fees during the points season.
		return domain.FeeSchedule{Venue: venue, Orderbook: true}, nil
	case domain.VenueParadex:
		return domain.FeeSchedule{
			Venue:        venue,
			OpenFeeRate:  bps(3.0),
			CloseFeeRate: bps(3.0),
			Tiers:        paradexTiers,
			Orderbook:    true,
		}, nil
	case domain.VenueVertex:
		return domain.FeeSchedule{
			Venue:        venue,
			OpenFeeRate:  bps(2.0),
			CloseFeeRate: bps(2.0),
			Orderbook:    true,
		}, nil
	case domain.VenueOstium:
		return domain.FeeSchedule{
			Venue:          venue,
			OpenFeeRate:    bps(ostiumOpenFee[category]),
			CloseFeeRate:   0,
			FlatFeeUsd:     0.10,
			OneSidedSpread: true,
		}, nil
	case domain.VenueAvantis:
		f := avantisFees[category]
		return domain.FeeSchedule{
			Venue:          venue,
			OpenFeeRate:    bps(f[0]),
			CloseFeeRate:   bps(f[1]),
			OneSidedSpread: true,
		}, nil
	case domain.VenueGTrade:
		f := gtradeFees[category]
		return domain.FeeSchedule{
			Venue:        venue,
			OpenFeeRate:  bps(f[0]),
			CloseFeeRate: bps(f[1]),
		}, nil
	default:
		return domain.FeeSchedule{}, domain.Invalidf("unknown venue %q", venue)
	}
}
