package chat

import (
	"fmt"
	"sort"
)

// Registry maps provider IDs to their clients. It is populated once at
// startup and never mutated afterwards, so concurrent readers need no
// locking. What is registered here defines which providers this deployment
// supports.
type Registry struct {
	clients map[ProviderID]Client
}

// NewRegistry builds a Registry from the given clients.
func NewRegistry(clients map[ProviderID]Client) *Registry {
	// defensive copy so the caller cannot mutate the internal map.
	cs := make(map[ProviderID]Client, len(clients))
	for id, c := range clients {
		cs[id] = c
	}
	return &Registry{clients: cs}
}

// Get returns the client registered for id. A provider that is recognized
// but not wired in this deployment returns ErrUnsupportedProvider naming it.
func (r *Registry) Get(id ProviderID) (Client, error) {
	c, ok := r.clients[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedProvider, id)
	}
	return c, nil
}

// Has reports whether a client is registered for id.
func (r *Registry) Has(id ProviderID) bool {
	_, ok := r.clients[id]
	return ok
}

// IDs returns the registered provider IDs in sorted order (for log and
// error context).
func (r *Registry) IDs() []ProviderID {
	out := make([]ProviderID, 0, len(r.clients))
	for id := range r.clients {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
