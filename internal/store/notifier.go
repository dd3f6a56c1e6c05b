// Package store holds the in-process state containers behind the storefront:
// the point-of-sale transaction, the signed-in customer's cart and the search
// query. Each container owns its state and publishes snapshots to listeners.
package store

import "sync"

// Notifier fans a value out to subscribed listeners in subscription order.
// Callers must invoke Notify outside of their own locks.
type Notifier[T any] struct {
	mu        sync.Mutex
	nextID    uint64
	listeners []listener[T]
}

type listener[T any] struct {
	id uint64
	fn func(T)
}

// Subscribe registers fn and returns a function that removes it. Calling the
// returned function more than once is a no-op.
func (n *Notifier[T]) Subscribe(fn func(T)) func() {
	n.mu.Lock()
	n.nextID++
	id := n.nextID
	n.listeners = append(n.listeners, listener[T]{id: id, fn: fn})
	n.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { n.remove(id) })
	}
}

func (n *Notifier[T]) remove(id uint64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	for i, l := range n.listeners {
		if l.id == id {
			n.listeners = append(n.listeners[:i:i], n.listeners[i+1:]...)
			return
		}
	}
}

// Notify calls every listener registered at the time of the call.
func (n *Notifier[T]) Notify(v T) {
	n.mu.Lock()
	fns := make([]func(T), len(n.listeners))
	for i, l := range n.listeners {
		fns[i] = l.fn
	}
	n.mu.Unlock()

	for _, fn := range fns {
		fn(v)
	}
}

// Len reports how many listeners are registered.
func (n *Notifier[T]) Len() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.listeners)
}
