package lighter

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alanyoungcy/perpcost/internal/domain"
)

func newFeedServer(t *testing.T, detailCalls *atomic.Int64) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/orderBookDetails":
			if detailCalls != nil {
				detailCalls.Add(1)
			}
			w.Write([]byte(`{"order_book_details": [
				{"symbol": "XAU", "market_id": 42, "status": "active"},
				{"symbol": "FROZEN", "market_id": 43, "status": "frozen"}
			]}`))
		case "/orderBookOrders":
			require.Equal(t, "42", r.URL.Query().Get("market_id"))
			// Resting orders arrive unsorted.
			w.Write([]byte(`{
				"bids": [
					{"price": "2649.0", "remaining_base_amount": "1.5"},
					{"price": "2650.0", "remaining_base_amount": "2.0"}
				],
				"asks": [
					{"price": "2652.0", "remaining_base_amount": "3.0"},
					{"price": "2651.0", "remaining_base_amount": "1.0"}
				]
			}`))
		default:
			http.NotFound(w, r)
		}
	}))
}

func TestFetch_ResolvesMarketAndSortsBook(t *testing.T) {
	srv := newFeedServer(t, nil)
	defer srv.Close()

	c := NewClient(srv.URL)
	snap, err := c.Fetch(context.Background(), "XAU")
	require.NoError(t, err)

	assert.Equal(t, domain.VenueLighter, snap.Venue)
	require.NotNil(t, snap.Book)
	assert.Equal(t, 2650.0, snap.Book.Bids[0].Price)
	assert.Equal(t, 2651.0, snap.Book.Asks[0].Price)
	require.NoError(t, snap.Validate())
}

func TestFetch_AggregatesOrdersAtSamePrice(t *testing.T) {
	// orderBookOrders returns individual resting orders, so a busy book has
	// several entries per price. The snapshot must carry one level per price
	// or Validate rejects the ladder.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/orderBookDetails":
			w.Write([]byte(`{"order_book_details": [{"symbol": "XAU", "market_id": 42, "status": "active"}]}`))
		case "/orderBookOrders":
			w.Write([]byte(`{
				"bids": [
					{"price": "2650.0", "remaining_base_amount": "1.0"},
					{"price": "2650.0", "remaining_base_amount": "2.0"}
				],
				"asks": [
					{"price": "2651.0", "remaining_base_amount": "0.5"},
					{"price": "2651.0", "remaining_base_amount": "0.5"},
					{"price": "2652.0", "remaining_base_amount": "3.0"}
				]
			}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	snap, err := c.Fetch(context.Background(), "XAU")
	require.NoError(t, err)
	require.NoError(t, snap.Validate())

	require.Len(t, snap.Book.Bids, 1)
	assert.Equal(t, 3.0, snap.Book.Bids[0].Size)
	require.Len(t, snap.Book.Asks, 2)
	assert.Equal(t, domain.PriceLevel{Price: 2651.0, Size: 1.0}, snap.Book.Asks[0])
}

func TestFetch_CachesMarketID(t *testing.T) {
	var detailCalls atomic.Int64
	srv := newFeedServer(t, &detailCalls)
	defer srv.Close()

	c := NewClient(srv.URL)
	_, err := c.Fetch(context.Background(), "XAU")
	require.NoError(t, err)
	_, err = c.Fetch(context.Background(), "xau")
	require.NoError(t, err)

	assert.Equal(t, int64(1), detailCalls.Load())
}

func TestFetch_InactiveMarket(t *testing.T) {
	srv := newFeedServer(t, nil)
	defer srv.Close()

	c := NewClient(srv.URL)
	_, err := c.Fetch(context.Background(), "FROZEN")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "frozen")
}

func TestFetch_UnknownSymbol(t *testing.T) {
	srv := newFeedServer(t, nil)
	defer srv.Close()

	c := NewClient(srv.URL)
	_, err := c.Fetch(context.Background(), "NOPE")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no market for symbol")
}
