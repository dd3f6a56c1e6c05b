// Package search holds the storefront search query of one customer.
package search

import (
	"strings"
	"sync"

	"bookstore-storefront/internal/store"
)

type Store struct {
	mu       sync.Mutex
	query    string
	notifier store.Notifier[string]
}

func New() *Store {
	return &Store{}
}

// SetQuery stores q with surrounding whitespace removed and notifies listeners
// when the stored value changes.
func (s *Store) SetQuery(q string) {
	q = strings.TrimSpace(q)
	s.mu.Lock()
	changed := s.query != q
	s.query = q
	s.mu.Unlock()

	if changed {
		s.notifier.Notify(q)
	}
}

func (s *Store) Query() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.query
}

func (s *Store) Clear() {
	s.SetQuery("")
}

func (s *Store) Subscribe(fn func(string)) func() {
	return s.notifier.Subscribe(fn)
}
