package gtrade

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
		if r.URL.Path != "/trading-variables" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(body))
	}))
}

func TestFetch_MapsSpreadAndSkew(t *testing.T) {
	srv := newFeedServer(`{"pairs": [
		{"from": "XAU", "to": "USD", "price": 2650.0, "spreadP": 0.03, "oiLong": 300, "oiShort": 100}
	]}`)
	defer srv.Close()

	c := NewClient(srv.URL)
	snap, err := c.Fetch(context.Background(), "XAU/USD")
	require.NoError(t, err)

	assert.Equal(t, domain.VenueGTrade, snap.Venue)
	require.NotNil(t, snap.Oracle)
	assert.Equal(t, 2650.0, snap.Oracle.Price)
	assert.InDelta(t, 3.0, snap.Oracle.SpreadBps, 1e-9)
	// |300-100|/400 = 0.5 imbalance, half the skew cap.
	assert.InDelta(t, 2.5, snap.Oracle.SkewBps, 1e-9)
	require.NoError(t, snap.Validate())
}

func TestFetch_BalancedBookHasNoSkew(t *testing.T) {
	srv := newFeedServer(`{"pairs": [
		{"from": "EUR", "to": "USD", "price": 1.08, "spreadP": 0.01, "oiLong": 50, "oiShort": 50}
	]}`)
	defer srv.Close()

	c := NewClient(srv.URL)
	snap, err := c.Fetch(context.Background(), "EUR/USD")
	require.NoError(t, err)
	assert.Zero(t, snap.Oracle.SkewBps)
}

func TestFetch_BareSymbolQuotesAgainstUSD(t *testing.T) {
	srv := newFeedServer(`{"pairs": [
		{"from": "AAPL", "to": "USD", "price": 230.0, "spreadP": 0.05, "oiLong": 0, "oiShort": 0}
	]}`)
	defer srv.Close()

	c := NewClient(srv.URL)
	snap, err := c.Fetch(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Equal(t, 230.0, snap.Oracle.Price)
	assert.Zero(t, snap.Oracle.SkewBps)
}

func TestFetch_UnknownPair(t *testing.T) {
	srv := newFeedServer(`{"pairs": []}`)
	defer srv.Close()

	c := NewClient(srv.URL)
	_, err := c.Fetch(context.Background(), "XAU/USD")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no pair")
}
