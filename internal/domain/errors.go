package domain

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrNotFound is returned by caches and lookups when no entry exists.
	ErrNotFound = errors.New("not found")
)

// FetchError wraps a network/API failure, a venue-reported error, or a
// malformed payload from a venue adapter.
type FetchError struct {
	Venue VenueID
	Err   error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.Venue, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// NewFetchError wraps err as a FetchError for the given venue. If err is
// already a FetchError it is returned unchanged.
func NewFetchError(venue VenueID, err error) error {
	var fe *FetchError
	if errors.As(err, &fe) {
		return err
	}
	return &FetchError{Venue: venue, Err: err}
}

// StaleDataError marks a snapshot older than the configured freshness window.
type StaleDataError struct {
	Venue  VenueID
	Age    time.Duration
	MaxAge time.Duration
}

func (e *StaleDataError) Error() string {
	return fmt.Sprintf("stale data from %s: snapshot is %s old (max %s)", e.Venue, e.Age.Round(time.Millisecond), e.MaxAge)
}

// InsufficientLiquidityError means the requested notional could not be filled
// by the available orderbook depth. ShortfallUsd is the unfilled remainder.
type InsufficientLiquidityError struct {
	Venue        VenueID
	Side         string // "buy" or "sell"
	RequestedUsd float64
	ShortfallUsd float64
}

func (e *InsufficientLiquidityError) Error() string {
	return fmt.Sprintf("insufficient liquidity on %s: %s side short $%.2f of $%.2f requested",
		e.Venue, e.Side, e.ShortfallUsd, e.RequestedUsd)
}

// InvalidInputError marks a request that is invalid before any fetch is
// attempted (non-positive size, unknown asset or venue). It aborts the whole
// comparison.
type InvalidInputError struct {
	Reason string
}

func (e *InvalidInputError) Error() string {
	return "invalid input: " + e.Reason
}

// Invalidf builds an InvalidInputError from a format string.
func Invalidf(format string, args ...any) error {
	return &InvalidInputError{Reason: fmt.Sprintf(format, args...)}
}
