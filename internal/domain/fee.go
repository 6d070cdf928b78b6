package domain

// FeeTier is one rung of a volume-tiered fee ladder. A caller whose trailing
// volume is at least MinVolumeUsd qualifies for the tier's rates.
type FeeTier struct {
	MinVolumeUsd float64
	OpenRate     float64
	CloseRate    float64
}

// FeeSchedule holds the static fee rules of a single venue for one asset
// category. Rates are fractions of notional (0.00045 = 4.5 bps).
type FeeSchedule struct {
	Venue        VenueID
	OpenFeeRate  float64
	CloseFeeRate float64
	// Tiers, when present, override the base rates by trailing volume.
	// Ordered ascending by MinVolumeUsd; the highest qualifying tier wins.
	Tiers []FeeTier
	// FlatFeeUsd is a fixed per-trade charge added on open (Ostium's oracle
	// fee), independent of notional.
	FlatFeeUsd float64
	// OneSidedSpread marks venues that charge their spread on entry only, so
	// the round-trip doubling does not apply.
	OneSidedSpread bool
	// Orderbook selects the cost algorithm: depth walk when true, analytic
	// spread model when false.
	Orderbook bool
}

// Resolve returns the open and close fee rates for a caller with the given
// trailing volume. With no tiers the base rates apply. A zero or negative
// volume (no volume context supplied) selects the lowest tier.
func (f FeeSchedule) Resolve(trailingVolumeUsd float64) (openRate, closeRate float64) {
	if len(f.Tiers) == 0 {
		return f.OpenFeeRate, f.CloseFeeRate
	}
	best := f.Tiers[0]
	for _, t := range f.Tiers[1:] {
		if trailingVolumeUsd >= t.MinVolumeUsd {
			best = t
		}
	}
	return best.OpenRate, best.CloseRate
}
