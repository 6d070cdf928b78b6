// Package engine implements the cost-normalization core: it turns
// heterogeneous market snapshots plus venue fee schedules into directly
// comparable execution costs, and fans comparison requests out across venues.
package engine

import (
	"fmt"
	"math"

	"github.com/alanyoungcy/perpcost/internal/domain"
)

// fillToleranceUsd is the unfilled notional below which a depth walk still
// counts as fully filled. Absorbs float rounding on deep books.
const fillToleranceUsd = 1.0

// ComputeOpts carries optional per-caller context for a cost computation.
type ComputeOpts struct {
	// TrailingVolumeUsd is the caller's trailing volume on the venue, used
	// for fee-tier resolution. Zero means no volume context: the base tier
	// applies.
	TrailingVolumeUsd float64
}

// Compute calculates the execution cost of a round-trip trade of
// orderSizeUsd notional against the given snapshot and fee schedule.
//
// Orderbook snapshots are costed by walking both sides of the depth ladder
// and averaging the buy and sell slippage (round-trip proxy). Oracle
// snapshots are costed analytically from their spread parameters; they have
// no depth limit, so insufficient liquidity can only occur on orderbook
// venues.
func Compute(snap domain.MarketSnapshot, sched domain.FeeSchedule, orderSizeUsd float64, opts ComputeOpts) (domain.ExecutionCost, error) {
	if orderSizeUsd <= 0 {
		return domain.ExecutionCost{}, domain.Invalidf("order size must be positive, got %v", orderSizeUsd)
	}
	if err := snap.Validate(); err != nil {
		return domain.ExecutionCost{}, domain.NewFetchError(snap.Venue, err)
	}

	openRate, closeRate := sched.Resolve(opts.TrailingVolumeUsd)
	cost := domain.ExecutionCost{
		Venue:        snap.Venue,
		Asset:        snap.Asset,
		OrderSizeUsd: orderSizeUsd,
		OpenFeeUsd:   orderSizeUsd*openRate + sched.FlatFeeUsd,
		CloseFeeUsd:  orderSizeUsd * closeRate,
	}

	switch snap.Kind {
	case domain.SnapshotOrderbook:
		if err := costOrderbook(&cost, snap, orderSizeUsd); err != nil {
			return domain.ExecutionCost{}, err
		}
	case domain.SnapshotOracle:
		costOracle(&cost, snap, sched, orderSizeUsd)
	default:
		return domain.ExecutionCost{}, fmt.Errorf("engine: unsupported snapshot kind %q", snap.Kind)
	}

	cost.SlippageUsd = cost.SlippagePct * orderSizeUsd
	cost.TotalCostUsd = cost.SlippageUsd + cost.SpreadCostUsd + cost.OpenFeeUsd + cost.CloseFeeUsd
	return cost, nil
}

// costOrderbook fills the slippage fields by walking the ask side (buy) and
// the bid side (sell) and averaging the two directions. The spread is already
// captured by the walk, so SpreadCostUsd stays zero.
func costOrderbook(cost *domain.ExecutionCost, snap domain.MarketSnapshot, orderSizeUsd float64) error {
	book := snap.Book
	mid := book.MidPrice
	if mid <= 0 {
		// One or both sides empty: nothing can be filled.
		return &domain.InsufficientLiquidityError{
			Venue:        snap.Venue,
			Side:         "buy",
			RequestedUsd: orderSizeUsd,
			ShortfallUsd: orderSizeUsd,
		}
	}

	buyEff, shortfall := walkNotional(book.Asks, orderSizeUsd)
	if shortfall > fillToleranceUsd {
		return &domain.InsufficientLiquidityError{
			Venue:        snap.Venue,
			Side:         "buy",
			RequestedUsd: orderSizeUsd,
			ShortfallUsd: shortfall,
		}
	}
	sellEff, shortfall := walkNotional(book.Bids, orderSizeUsd)
	if shortfall > fillToleranceUsd {
		return &domain.InsufficientLiquidityError{
			Venue:        snap.Venue,
			Side:         "sell",
			RequestedUsd: orderSizeUsd,
			ShortfallUsd: shortfall,
		}
	}

	buySlip := (buyEff - mid) / mid
	sellSlip := (mid - sellEff) / mid
	cost.SlippagePct = (buySlip + sellSlip) / 2
	cost.EffectivePrice = buyEff
	return nil
}

// costOracle fills the spread-cost fields analytically. The skew is charged
// to the disadvantaged direction only, so averaging the two directions adds
// half of it to the symmetric half-spread. The per-side cost is doubled for
// the round trip unless the venue charges its spread on entry only.
func costOracle(cost *domain.ExecutionCost, snap domain.MarketSnapshot, sched domain.FeeSchedule, orderSizeUsd float64) {
	q := snap.Oracle
	perSideBps := q.SpreadBps + q.SkewBps/2

	spreadCost := orderSizeUsd * perSideBps / 10_000
	if !sched.OneSidedSpread {
		spreadCost *= 2
	}

	cost.SpreadCostUsd = spreadCost
	cost.SlippagePct = 0
	cost.EffectivePrice = q.Price * (1 + perSideBps/10_000)
}

// walkNotional consumes depth levels in order until the requested notional is
// filled, returning the notional-weighted average fill price and any unfilled
// remainder. An empty ladder returns the full notional as shortfall.
func walkNotional(levels []domain.PriceLevel, notionalUsd float64) (effectivePrice, shortfallUsd float64) {
	remaining := notionalUsd
	var filledQty, filledUsd float64

	for _, lvl := range levels {
		if remaining <= 0 {
			break
		}
		levelValue := lvl.Price * lvl.Size
		take := math.Min(remaining, levelValue)
		filledQty += take / lvl.Price
		filledUsd += take
		remaining -= take
	}

	if filledQty == 0 {
		return 0, remaining
	}
	return filledUsd / filledQty, remaining
}
