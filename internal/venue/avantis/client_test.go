package avantis

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
		if r.URL.Path != "/pairs" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(body))
	}))
}

func TestFetch_ConvertsSpreadPercentToBps(t *testing.T) {
	srv := newFeedServer(`{"pairs": [
		{"from": "XAU", "to": "USD", "price": 2650.0, "spreadP": 0.0},
		{"from": "AAPL", "to": "USD", "price": 230.0, "spreadP": 0.06}
	]}`)
	defer srv.Close()

	c := NewClient(srv.URL)
	snap, err := c.Fetch(context.Background(), "AAPL")
	require.NoError(t, err)

	assert.Equal(t, domain.VenueAvantis, snap.Venue)
	require.NotNil(t, snap.Oracle)
	assert.Equal(t, 230.0, snap.Oracle.Price)
	assert.InDelta(t, 6.0, snap.Oracle.SpreadBps, 1e-9)
	require.NoError(t, snap.Validate())
}

func TestFetch_ZeroSpreadPair(t *testing.T) {
	srv := newFeedServer(`{"pairs": [
		{"from": "XAU", "to": "USD", "price": 2650.0, "spreadP": 0.0}
	]}`)
	defer srv.Close()

	c := NewClient(srv.URL)
	snap, err := c.Fetch(context.Background(), "XAUUSD")
	require.NoError(t, err)
	assert.Zero(t, snap.Oracle.SpreadBps)
}

func TestFetch_UnknownPair(t *testing.T) {
	srv := newFeedServer(`{"pairs": []}`)
	defer srv.Close()

	c := NewClient(srv.URL)
	_, err := c.Fetch(context.Background(), "XAUUSD")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no pair")
}
