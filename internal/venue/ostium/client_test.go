package ostium

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alanyoungcy/perpcost/internal/domain"
)

func newFeedServer(body string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/PricePublish/latest-prices" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(body))
	}))
}

func TestFetch_DerivesHalfSpread(t *testing.T) {
	srv := newFeedServer(`[
		{"pair": "XAU/USD", "bid": 2649.0, "mid": 2650.0, "ask": 2651.0, "isMarketOpen": true, "timestamp": 1700000000000},
		{"pair": "EUR/USD", "bid": 1.08, "mid": 1.0801, "ask": 1.0802, "isMarketOpen": true}
	]`)
	defer srv.Close()

	c := NewClient(srv.URL)
	snap, err := c.Fetch(context.Background(), "XAUUSD")
	require.NoError(t, err)

	assert.Equal(t, domain.VenueOstium, snap.Venue)
	assert.Equal(t, domain.SnapshotOracle, snap.Kind)
	require.NotNil(t, snap.Oracle)
	assert.Equal(t, 2650.0, snap.Oracle.Price)
	// (2651-2649)/2 / 2650 * 10000
	assert.InDelta(t, 3.7735, snap.Oracle.SpreadBps, 1e-3)
	assert.Equal(t, int64(1700000000000), snap.Timestamp.UnixMilli())
	require.NoError(t, snap.Validate())
}

func TestFetch_ClosedMarket(t *testing.T) {
	srv := newFeedServer(`[
		{"pair": "AAPL/USD", "bid": 230.1, "mid": 230.2, "ask": 230.3, "isMarketOpen": false}
	]`)
	defer srv.Close()

	c := NewClient(srv.URL)
	_, err := c.Fetch(context.Background(), "AAPLUSD")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "closed")
}

func TestFetch_MissingPair(t *testing.T) {
	srv := newFeedServer(`[]`)
	defer srv.Close()

	c := NewClient(srv.URL)
	_, err := c.Fetch(context.Background(), "XAUUSD")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no feed entry")
}

func TestFetch_MidDerivedWhenAbsent(t *testing.T) {
	srv := newFeedServer(`[
		{"pair": "EUR/USD", "bid": 1.0800, "mid": 0, "ask": 1.0802, "isMarketOpen": true}
	]`)
	defer srv.Close()

	c := NewClient(srv.URL)
	snap, err := c.Fetch(context.Background(), "EURUSD")
	require.NoError(t, err)
	assert.InDelta(t, 1.0801, snap.Oracle.Price, 1e-9)
}
