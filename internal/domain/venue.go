package domain

import "context"

// VenueID identifies one of the supported perpetual-futures venues.
type VenueID string

const (
	VenueHyperliquid VenueID = "hyperliquid"
	VenueLighter     VenueID = "lighter"
	VenueParadex     VenueID = "paradex"
	VenueVertex      VenueID = "vertex"
	VenueOstium      VenueID = "ostium"
	VenueAvantis     VenueID = "avantis"
	VenueGTrade      VenueID = "gtrade"
)

// AllVenues returns every supported venue in deterministic (alphabetical)
// order.
func AllVenues() []VenueID {
	return []VenueID{
		VenueAvantis,
		VenueGTrade,
		VenueHyperliquid,
		VenueLighter,
		VenueOstium,
		VenueParadex,
		VenueVertex,
	}
}

// KnownVenue reports whether id is one of the supported venues.
func KnownVenue(id VenueID) bool {
	for _, v := range AllVenues() {
		if v == id {
			return true
		}
	}
	return false
}

// Adapter fetches current market data for a single venue. Each implementation
// owns its venue's wire format entirely; the normalized MarketSnapshot is the
// only thing the rest of the system depends on.
type Adapter interface {
	// Venue returns the venue this adapter serves.
	Venue() VenueID
	// Fetch retrieves the current market state for the venue-native ticker.
	Fetch(ctx context.Context, ticker string) (MarketSnapshot, error)
}
