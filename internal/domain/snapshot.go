package domain

import (
	"fmt"
	"time"
)

// SnapshotKind tags which MarketSnapshot variant is populated.
type SnapshotKind string

const (
	// SnapshotOrderbook is a depth-ladder snapshot from a central-limit
	// orderbook venue.
	SnapshotOrderbook SnapshotKind = "orderbook"
	// SnapshotOracle is a price+spread snapshot from an oracle-priced venue.
	SnapshotOracle SnapshotKind = "oracle"
)

// PriceLevel is a single price+size entry in a depth ladder.
type PriceLevel struct {
	Price float64 `json:"price"`
	Size  float64 `json:"size"` // base units resting at this price
}

// BookDepth holds the depth ladder of an orderbook venue. Bids are sorted by
// descending price, asks by ascending price. A side with no resting orders is
// an empty slice, never a fabricated level.
type BookDepth struct {
	Bids     []PriceLevel `json:"bids"`
	Asks     []PriceLevel `json:"asks"`
	MidPrice float64      `json:"mid_price"`
}

// OracleQuote holds the pricing parameters of an oracle venue: a reference
// price plus a half-spread applied symmetrically on both sides, and an
// optional skew charged to the disadvantaged direction only.
type OracleQuote struct {
	Price     float64 `json:"price"`
	SpreadBps float64 `json:"spread_bps"`
	SkewBps   float64 `json:"skew_bps,omitempty"`
}

// MarketSnapshot is the normalized market state the cost engine operates on.
// It is a tagged variant: exactly one of Book or Oracle is set, selected by
// Kind. Snapshots are read-only once produced.
type MarketSnapshot struct {
	Venue     VenueID      `json:"venue"`
	Asset     Asset        `json:"asset"`
	Kind      SnapshotKind `json:"kind"`
	Book      *BookDepth   `json:"book,omitempty"`
	Oracle    *OracleQuote `json:"oracle,omitempty"`
	Timestamp time.Time    `json:"timestamp"`
}

// NewOrderbookSnapshot builds an orderbook snapshot. Bids must already be
// sorted descending and asks ascending; the mid price is derived from the
// best bid and ask when both sides have depth.
func NewOrderbookSnapshot(venue VenueID, asset Asset, bids, asks []PriceLevel, ts time.Time) MarketSnapshot {
	var mid float64
	if len(bids) > 0 && len(asks) > 0 {
		mid = (bids[0].Price + asks[0].Price) / 2
	}
	return MarketSnapshot{
		Venue:     venue,
		Asset:     asset,
		Kind:      SnapshotOrderbook,
		Book:      &BookDepth{Bids: bids, Asks: asks, MidPrice: mid},
		Timestamp: ts,
	}
}

// NewOracleSnapshot builds an oracle snapshot.
func NewOracleSnapshot(venue VenueID, asset Asset, quote OracleQuote, ts time.Time) MarketSnapshot {
	return MarketSnapshot{
		Venue:     venue,
		Asset:     asset,
		Kind:      SnapshotOracle,
		Oracle:    &quote,
		Timestamp: ts,
	}
}

// Age returns how old the snapshot is relative to now.
func (s MarketSnapshot) Age(now time.Time) time.Duration {
	return now.Sub(s.Timestamp)
}

// Validate checks the snapshot invariants: the variant payload matches Kind,
// depth ladders are strictly monotonic, and all sizes are positive.
func (s MarketSnapshot) Validate() error {
	switch s.Kind {
	case SnapshotOrderbook:
		if s.Book == nil || s.Oracle != nil {
			return fmt.Errorf("snapshot %s/%s: orderbook kind with wrong payload", s.Venue, s.Asset)
		}
		if err := validateSide(s.Book.Bids, false); err != nil {
			return fmt.Errorf("snapshot %s/%s: bids: %w", s.Venue, s.Asset, err)
		}
		if err := validateSide(s.Book.Asks, true); err != nil {
			return fmt.Errorf("snapshot %s/%s: asks: %w", s.Venue, s.Asset, err)
		}
		return nil
	case SnapshotOracle:
		if s.Oracle == nil || s.Book != nil {
			return fmt.Errorf("snapshot %s/%s: oracle kind with wrong payload", s.Venue, s.Asset)
		}
		if s.Oracle.Price <= 0 {
			return fmt.Errorf("snapshot %s/%s: non-positive oracle price %v", s.Venue, s.Asset, s.Oracle.Price)
		}
		if s.Oracle.SpreadBps < 0 || s.Oracle.SkewBps < 0 {
			return fmt.Errorf("snapshot %s/%s: negative spread parameters", s.Venue, s.Asset)
		}
		return nil
	default:
		return fmt.Errorf("snapshot %s/%s: unknown kind %q", s.Venue, s.Asset, s.Kind)
	}
}

// validateSide checks one depth side for positive sizes and strictly
// monotonic prices (ascending for asks, descending for bids).
func validateSide(levels []PriceLevel, ascending bool) error {
	for i, lvl := range levels {
		if lvl.Price <= 0 {
			return fmt.Errorf("level %d: non-positive price %v", i, lvl.Price)
		}
		if lvl.Size <= 0 {
			return fmt.Errorf("level %d: non-positive size %v", i, lvl.Size)
		}
		if i == 0 {
			continue
		}
		prev := levels[i-1].Price
		if ascending && lvl.Price <= prev {
			return fmt.Errorf("level %d: price %v not strictly ascending", i, lvl.Price)
		}
		if !ascending && lvl.Price >= prev {
			return fmt.Errorf("level %d: price %v not strictly descending", i, lvl.Price)
		}
	}
	return nil
}
