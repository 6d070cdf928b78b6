package venue

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/alanyoungcy/perpcost/internal/domain"
)

type fakeAdapter struct {
	id  domain.VenueID
	tag string
}

func (f fakeAdapter) Venue() domain.VenueID { return f.id }

func (f fakeAdapter) Fetch(context.Context, string) (domain.MarketSnapshot, error) {
	return domain.MarketSnapshot{}, nil
}

func TestCleanBids_SortsDescendingAndDropsJunk(t *testing.T) {
	in := []domain.PriceLevel{
		{Price: 99.0, Size: 1},
		{Price: 101.0, Size: 0},
		{Price: 100.0, Size: 2},
		{Price: -1.0, Size: 5},
	}
	out := CleanBids(in)
	assert.Equal(t, []domain.PriceLevel{
		{Price: 100.0, Size: 2},
		{Price: 99.0, Size: 1},
	}, out)
}

func TestCleanAsks_MergesOrdersAtSamePrice(t *testing.T) {
	// Two resting orders at 100.1, as Lighter returns them on a busy book.
	in := []domain.PriceLevel{
		{Price: 100.1, Size: 50},
		{Price: 100.1, Size: 50},
		{Price: 100.2, Size: 50},
	}
	out := CleanAsks(in)
	assert.Equal(t, []domain.PriceLevel{
		{Price: 100.1, Size: 100},
		{Price: 100.2, Size: 50},
	}, out)
}

func TestCleanBids_MergesOrdersAtSamePrice(t *testing.T) {
	in := []domain.PriceLevel{
		{Price: 99.8, Size: 10},
		{Price: 99.9, Size: 5},
		{Price: 99.9, Size: 7},
	}
	out := CleanBids(in)
	assert.Equal(t, []domain.PriceLevel{
		{Price: 99.9, Size: 12},
		{Price: 99.8, Size: 10},
	}, out)
}

func TestCleanAsks_SortsAscending(t *testing.T) {
	in := []domain.PriceLevel{
		{Price: 102.0, Size: 1},
		{Price: 100.5, Size: 2},
	}
	out := CleanAsks(in)
	assert.Equal(t, 100.5, out[0].Price)
	assert.Equal(t, 102.0, out[1].Price)
}

func TestRegistry_LaterAdapterWins(t *testing.T) {
	a := fakeAdapter{id: domain.VenueHyperliquid, tag: "rest"}
	b := fakeAdapter{id: domain.VenueHyperliquid, tag: "feed"}

	r := NewRegistry(a, b)
	got, ok := r.Get(domain.VenueHyperliquid)
	assert.True(t, ok)
	assert.Equal(t, "feed", got.(fakeAdapter).tag)
	assert.Len(t, r.All(), 1)
}
