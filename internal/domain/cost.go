package domain

import "time"

// ExecutionCost is the unified cost breakdown for executing a round-trip
// trade of a given notional on one venue. It is immutable once computed and
// directly comparable across venues.
//
// Invariant: TotalCostUsd = SlippagePct*OrderSizeUsd + SpreadCostUsd +
// OpenFeeUsd + CloseFeeUsd.
type ExecutionCost struct {
	Venue          VenueID `json:"venue"`
	Asset          Asset   `json:"asset"`
	OrderSizeUsd   float64 `json:"order_size_usd"`
	SlippagePct    float64 `json:"slippage_pct"`
	SlippageUsd    float64 `json:"slippage_usd"`
	SpreadCostUsd  float64 `json:"spread_cost_usd"`
	OpenFeeUsd     float64 `json:"open_fee_usd"`
	CloseFeeUsd    float64 `json:"close_fee_usd"`
	TotalCostUsd   float64 `json:"total_cost_usd"`
	EffectivePrice float64 `json:"effective_price"`
}

// TotalCostBps expresses the total cost relative to notional in basis points.
func (c ExecutionCost) TotalCostBps() float64 {
	if c.OrderSizeUsd <= 0 {
		return 0
	}
	return c.TotalCostUsd / c.OrderSizeUsd * 10_000
}

// VenueFailure records one venue that could not contribute a cost entry.
type VenueFailure struct {
	Venue  VenueID `json:"venue"`
	Reason string  `json:"reason"`
}

// ComparisonResult is the outcome of one comparison request: successful cost
// entries ranked ascending by total cost (ties broken by venue name), plus a
// failure entry per venue that could not be costed. It is built once per
// request and discarded after the response is sent.
type ComparisonResult struct {
	Asset        Asset           `json:"asset"`
	OrderSizeUsd float64         `json:"order_size_usd"`
	Costs        []ExecutionCost `json:"costs"`
	Failures     []VenueFailure  `json:"failures"`

	// SavingsUsd and SavingsBps report how much cheaper the best venue is
	// than the runner-up. Zero when fewer than two venues succeeded.
	SavingsUsd float64 `json:"savings_usd,omitempty"`
	SavingsBps float64 `json:"savings_bps,omitempty"`

	GeneratedAt time.Time `json:"generated_at"`
}

// Best returns the cheapest venue's cost entry, or nil when no venue
// succeeded.
func (r ComparisonResult) Best() *ExecutionCost {
	if len(r.Costs) == 0 {
		return nil
	}
	return &r.Costs[0]
}
