package venue

import (
	"github.com/alanyoungcy/perpcost/internal/domain"
)

// Registry holds the configured venue adapters keyed by venue ID.
type Registry struct {
	adapters map[domain.VenueID]domain.Adapter
}

// NewRegistry builds a Registry from the given adapters. A later adapter for
// the same venue replaces an earlier one, which lets the wiring layer swap a
// REST adapter for a live-feed one.
func NewRegistry(adapters ...domain.Adapter) *Registry {
	r := &Registry{adapters: make(map[domain.VenueID]domain.Adapter, len(adapters))}
	for _, a := range adapters {
		r.adapters[a.Venue()] = a
	}
	return r
}

// Register adds or replaces the adapter for its venue.
func (r *Registry) Register(a domain.Adapter) {
	r.adapters[a.Venue()] = a
}

// Get returns the adapter for a venue, if configured.
func (r *Registry) Get(v domain.VenueID) (domain.Adapter, bool) {
	a, ok := r.adapters[v]
	return a, ok
}

// All returns every configured adapter in deterministic venue order.
func (r *Registry) All() []domain.Adapter {
	out := make([]domain.Adapter, 0, len(r.adapters))
	for _, v := range domain.AllVenues() {
		if a, ok := r.adapters[v]; ok {
			out = append(out, a)
		}
	}
	return out
}
