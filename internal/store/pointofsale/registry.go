package pointofsale

import "sync"

// Registry owns one Store per register id.
type Registry struct {
	mu       sync.Mutex
	stores   map[string]*Store
	orders   OrderSubmitter
	currency string
}

func NewRegistry(orders OrderSubmitter, currency string) *Registry {
	return &Registry{stores: make(map[string]*Store), orders: orders, currency: currency}
}

// Store returns the store for registerID, creating it on first use.
func (r *Registry) Store(registerID string) *Store {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.stores[registerID]
	if !ok {
		s = New(r.orders, r.currency)
		r.stores[registerID] = s
	}
	return s
}

// Lookup returns the store for registerID without creating one.
func (r *Registry) Lookup(registerID string) (*Store, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.stores[registerID]
	return s, ok
}
