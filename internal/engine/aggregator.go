package engine

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/alanyoungcy/perpcost/internal/domain"
	"github.com/alanyoungcy/perpcost/internal/refdata"
)

// Options configures an Aggregator.
type Options struct {
	// FreshnessWindow is the maximum accepted snapshot age. Older snapshots
	// are treated as fetch failures (StaleDataError), never silently used.
	FreshnessWindow time.Duration
	// FetchTimeout bounds each venue fetch so one slow venue cannot stall
	// the whole comparison.
	FetchTimeout time.Duration
	// TrailingVolumeUsd is the caller's 30-day trailing volume, used for
	// fee-tier resolution on tiered venues. Zero selects the base tier.
	TrailingVolumeUsd float64
}

// DefaultOptions returns the aggregator defaults used when config omits them.
func DefaultOptions() Options {
	return Options{
		FreshnessWindow: 30 * time.Second,
		FetchTimeout:    10 * time.Second,
	}
}

// Aggregator fans one comparison request out across venue adapters, costs
// each venue's snapshot independently, and ranks the results. Per-venue
// failures are captured as values; only an invalid request itself is an
// error.
type Aggregator struct {
	adapters map[domain.VenueID]domain.Adapter
	opts     Options
	logger   *slog.Logger
	now      func() time.Time
}

// New creates an Aggregator over the given adapters. Zero option fields fall
// back to DefaultOptions.
func New(adapters []domain.Adapter, opts Options, logger *slog.Logger) *Aggregator {
	def := DefaultOptions()
	if opts.FreshnessWindow <= 0 {
		opts.FreshnessWindow = def.FreshnessWindow
	}
	if opts.FetchTimeout <= 0 {
		opts.FetchTimeout = def.FetchTimeout
	}

	byID := make(map[domain.VenueID]domain.Adapter, len(adapters))
	for _, a := range adapters {
		byID[a.Venue()] = a
	}
	return &Aggregator{
		adapters: byID,
		opts:     opts,
		logger:   logger.With(slog.String("component", "aggregator")),
		now:      time.Now,
	}
}

// Venues returns the venue IDs this aggregator has adapters for, sorted.
func (a *Aggregator) Venues() []domain.VenueID {
	out := make([]domain.VenueID, 0, len(a.adapters))
	for _, v := range domain.AllVenues() {
		if _, ok := a.adapters[v]; ok {
			out = append(out, v)
		}
	}
	return out
}

// venueOutcome is the per-venue result of one fan-out pipeline.
type venueOutcome struct {
	cost    domain.ExecutionCost
	failure *domain.VenueFailure
}

// Compare fetches, normalizes, and costs the asset on every requested venue
// concurrently, then ranks the successful entries ascending by total cost.
//
// An empty venue list means every configured venue that lists the asset.
// Unknown assets, non-positive sizes, and unknown venue IDs fail fast with
// InvalidInputError before any fetch. Everything that goes wrong past that
// point is downgraded to a failure entry, so a comparison with zero
// successful venues still returns a well-formed result.
func (a *Aggregator) Compare(ctx context.Context, asset string, orderSizeUsd float64, venues []domain.VenueID) (domain.ComparisonResult, error) {
	cfg, err := refdata.AssetByName(asset)
	if err != nil {
		return domain.ComparisonResult{}, err
	}
	if orderSizeUsd <= 0 {
		return domain.ComparisonResult{}, domain.Invalidf("order size must be positive, got %v", orderSizeUsd)
	}
	for _, v := range venues {
		if !domain.KnownVenue(v) {
			return domain.ComparisonResult{}, domain.Invalidf("unknown venue %q", v)
		}
	}
	if len(venues) == 0 {
		// Empty means every configured venue listing the asset. Venues that
		// never list it are out of scope, not failures.
		for _, v := range a.Venues() {
			if _, ok := cfg.Ticker(v); ok {
				venues = append(venues, v)
			}
		}
	}

	outcomes := make([]venueOutcome, len(venues))
	var wg sync.WaitGroup
	for i, venue := range venues {
		wg.Add(1)
		go func(i int, venue domain.VenueID) {
			defer wg.Done()
			outcomes[i] = a.costVenue(ctx, cfg, venue, orderSizeUsd)
		}(i, venue)
	}
	wg.Wait()

	result := domain.ComparisonResult{
		Asset:        cfg.Asset,
		OrderSizeUsd: orderSizeUsd,
		GeneratedAt:  a.now().UTC(),
	}
	for _, out := range outcomes {
		if out.failure != nil {
			result.Failures = append(result.Failures, *out.failure)
			continue
		}
		result.Costs = append(result.Costs, out.cost)
	}

	// Deterministic ranking regardless of fetch completion order.
	sort.Slice(result.Costs, func(i, j int) bool {
		ci, cj := result.Costs[i], result.Costs[j]
		if ci.TotalCostUsd != cj.TotalCostUsd {
			return ci.TotalCostUsd < cj.TotalCostUsd
		}
		return ci.Venue < cj.Venue
	})
	sort.Slice(result.Failures, func(i, j int) bool {
		return result.Failures[i].Venue < result.Failures[j].Venue
	})
	if len(result.Costs) >= 2 {
		result.SavingsUsd = result.Costs[1].TotalCostUsd - result.Costs[0].TotalCostUsd
		result.SavingsBps = result.SavingsUsd / orderSizeUsd * 10_000
	}

	a.logger.DebugContext(ctx, "comparison complete",
		slog.String("asset", string(cfg.Asset)),
		slog.Float64("order_size_usd", orderSizeUsd),
		slog.Int("succeeded", len(result.Costs)),
		slog.Int("failed", len(result.Failures)),
	)
	return result, nil
}

// costVenue runs the fetch → staleness check → compute pipeline for a single
// venue, converting every failure into a VenueFailure value.
func (a *Aggregator) costVenue(ctx context.Context, cfg domain.AssetConfig, venue domain.VenueID, orderSizeUsd float64) venueOutcome {
	fail := func(err error) venueOutcome {
		a.logger.DebugContext(ctx, "venue excluded from comparison",
			slog.String("venue", string(venue)),
			slog.String("asset", string(cfg.Asset)),
			slog.String("error", err.Error()),
		)
		return venueOutcome{failure: &domain.VenueFailure{Venue: venue, Reason: err.Error()}}
	}

	adapter, ok := a.adapters[venue]
	if !ok {
		return fail(domain.NewFetchError(venue, domain.ErrNotFound))
	}
	ticker, ok := cfg.Ticker(venue)
	if !ok {
		return fail(domain.Invalidf("%s does not list %s", venue, cfg.Asset))
	}
	sched, err := refdata.Schedule(venue, cfg.Category)
	if err != nil {
		return fail(err)
	}

	fetchCtx, cancel := context.WithTimeout(ctx, a.opts.FetchTimeout)
	defer cancel()

	snap, err := adapter.Fetch(fetchCtx, ticker)
	if err != nil {
		return fail(domain.NewFetchError(venue, err))
	}
	// Adapters only know venue tickers; stamp the logical asset here.
	snap.Asset = cfg.Asset
	if age := snap.Age(a.now()); age > a.opts.FreshnessWindow {
		return fail(&domain.StaleDataError{Venue: venue, Age: age, MaxAge: a.opts.FreshnessWindow})
	}

	cost, err := Compute(snap, sched, orderSizeUsd, ComputeOpts{TrailingVolumeUsd: a.opts.TrailingVolumeUsd})
	if err != nil {
		return fail(err)
	}
	return venueOutcome{cost: cost}
}
