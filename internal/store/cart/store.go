// Package cart holds the signed-in customer's cart and mirrors it into
// session storage after every change.
package cart

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"bookstore-storefront/internal/domain"
	"bookstore-storefront/internal/store"
)

type cartService interface {
	GetOrCreateActive(ctx context.Context, customerID, currency string) (*domain.Cart, error)
	AddItem(ctx context.Context, customerID, cartID, bookID string, quantity int) (*domain.Cart, error)
	UpdateQuantity(ctx context.Context, customerID, cartID, bookID string, quantity int) (*domain.Cart, error)
	RemoveItem(ctx context.Context, customerID, cartID, bookID string) (*domain.Cart, error)
}

type mirror interface {
	SetJSON(ctx context.Context, customerID, key string, v any) error
	Delete(ctx context.Context, customerID string, keys ...string) error
}

// State is what listeners receive after each change.
type State struct {
	CartID     string            `json:"cartId,omitempty"`
	Items      []domain.CartItem `json:"items"`
	TotalCents int64             `json:"totalCents"`
}

type Store struct {
	mu         sync.Mutex
	customerID string
	currency   string
	cart       *domain.Cart
	svc        cartService
	mirror     mirror
	logger     *logrus.Logger
	notifier   store.Notifier[State]
}

func New(customerID, currency string, svc cartService, mirror mirror, logger *logrus.Logger) *Store {
	if currency == "" {
		currency = "USD"
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Store{customerID: customerID, currency: currency, svc: svc, mirror: mirror, logger: logger}
}

func (s *Store) Subscribe(fn func(State)) func() {
	return s.notifier.Subscribe(fn)
}

// InitializeCart loads the customer's active cart, creating one when missing.
func (s *Store) InitializeCart(ctx context.Context) (State, error) {
	cart, err := s.svc.GetOrCreateActive(ctx, s.customerID, s.currency)
	if err != nil {
		return State{}, err
	}
	return s.apply(ctx, cart), nil
}

func (s *Store) AddItem(ctx context.Context, bookID string, quantity int) (State, error) {
	return s.change(ctx, func(cartID string) (*domain.Cart, error) {
		return s.svc.AddItem(ctx, s.customerID, cartID, bookID, quantity)
	})
}

// UpdateQuantity sets the quantity of bookID; zero removes the line.
func (s *Store) UpdateQuantity(ctx context.Context, bookID string, quantity int) (State, error) {
	return s.change(ctx, func(cartID string) (*domain.Cart, error) {
		return s.svc.UpdateQuantity(ctx, s.customerID, cartID, bookID, quantity)
	})
}

func (s *Store) RemoveItem(ctx context.Context, bookID string) (State, error) {
	return s.change(ctx, func(cartID string) (*domain.Cart, error) {
		return s.svc.RemoveItem(ctx, s.customerID, cartID, bookID)
	})
}

// Items returns the cart lines in insertion order.
func (s *Store) Items() []domain.CartItem {
	return s.State().Items
}

func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return stateOf(s.cart)
}

// SignOutCleanup forgets the cart and removes the mirrored cart and the last
// visited page from session storage.
func (s *Store) SignOutCleanup(ctx context.Context) error {
	s.mu.Lock()
	s.cart = nil
	s.mu.Unlock()

	err := s.mirror.Delete(ctx, s.customerID, domain.SessionKeyCart, domain.SessionKeyLastVisitedPage)
	s.notifier.Notify(State{Items: []domain.CartItem{}})
	return err
}

func (s *Store) change(ctx context.Context, fn func(cartID string) (*domain.Cart, error)) (State, error) {
	s.mu.Lock()
	cart := s.cart
	s.mu.Unlock()

	if cart == nil {
		if _, err := s.InitializeCart(ctx); err != nil {
			return State{}, err
		}
		s.mu.Lock()
		cart = s.cart
		s.mu.Unlock()
	}

	updated, err := fn(cart.ID)
	if err != nil {
		return State{}, err
	}
	return s.apply(ctx, updated), nil
}

func (s *Store) apply(ctx context.Context, cart *domain.Cart) State {
	s.mu.Lock()
	s.cart = cart
	st := stateOf(cart)
	s.mu.Unlock()

	if err := s.mirror.SetJSON(ctx, s.customerID, domain.SessionKeyCart, cart); err != nil {
		s.logger.WithError(err).WithField("customer_id", s.customerID).Warn("cart mirror write failed")
	}
	s.notifier.Notify(st)
	return st
}

func stateOf(cart *domain.Cart) State {
	if cart == nil {
		return State{Items: []domain.CartItem{}}
	}
	items := make([]domain.CartItem, len(cart.Items))
	copy(items, cart.Items)
	return State{CartID: cart.ID, Items: items, TotalCents: cart.TotalCents()}
}
