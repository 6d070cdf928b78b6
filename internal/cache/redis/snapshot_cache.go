package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/alanyoungcy/perpcost/internal/domain"
)

// SnapshotCache implements domain.SnapshotCache using plain JSON values with
// a TTL. Expiry is delegated to Redis: an expired entry simply reads as
// missing, so the TTL doubles as the freshness window.
//
// Key schema:
//
//	snap:{venue}:{ticker} - JSON-encoded domain.MarketSnapshot
type SnapshotCache struct {
	rdb *redis.Client
}

// NewSnapshotCache creates a SnapshotCache backed by the given Client.
func NewSnapshotCache(c *Client) *SnapshotCache {
	return &SnapshotCache{rdb: c.Underlying()}
}

func snapshotKey(venue domain.VenueID, ticker string) string {
	return "snap:" + string(venue) + ":" + ticker
}

// Set stores a snapshot with the given TTL.
func (sc *SnapshotCache) Set(ctx context.Context, venue domain.VenueID, ticker string, snap domain.MarketSnapshot, ttl time.Duration) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("redis: encode snapshot %s/%s: %w", venue, ticker, err)
	}
	if err := sc.rdb.Set(ctx, snapshotKey(venue, ticker), data, ttl).Err(); err != nil {
		return fmt.Errorf("redis: set snapshot %s/%s: %w", venue, ticker, err)
	}
	return nil
}

// Get retrieves a cached snapshot. It returns domain.ErrNotFound when the key
// does not exist or has expired.
func (sc *SnapshotCache) Get(ctx context.Context, venue domain.VenueID, ticker string) (domain.MarketSnapshot, error) {
	data, err := sc.rdb.Get(ctx, snapshotKey(venue, ticker)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.MarketSnapshot{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.MarketSnapshot{}, fmt.Errorf("redis: get snapshot %s/%s: %w", venue, ticker, err)
	}

	var snap domain.MarketSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return domain.MarketSnapshot{}, fmt.Errorf("redis: decode snapshot %s/%s: %w", venue, ticker, err)
	}
	return snap, nil
}

// Compile-time interface check.
var _ domain.SnapshotCache = (*SnapshotCache)(nil)
