package domain

import (
	"context"
	"time"
)

// SnapshotCache stores recently fetched market snapshots so repeated
// comparisons inside the freshness window do not hammer venue APIs. Entries
// are keyed by venue and venue-native ticker. Get returns ErrNotFound when no
// entry exists or the entry has expired.
type SnapshotCache interface {
	Set(ctx context.Context, venue VenueID, ticker string, snap MarketSnapshot, ttl time.Duration) error
	Get(ctx context.Context, venue VenueID, ticker string) (MarketSnapshot, error)
}

// RateLimiter limits request rates per key, e.g. per client IP on the API.
type RateLimiter interface {
	// Allow reports whether a request for key is permitted under a sliding
	// window of `limit` requests per `window`, counting the request if so.
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}
