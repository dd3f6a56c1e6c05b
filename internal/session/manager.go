package session

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"bookstore-storefront/internal/domain"
	cartstore "bookstore-storefront/internal/store/cart"
	"bookstore-storefront/internal/store/search"
)

// CartService is the cart workflow each Session's cart store runs through.
type CartService interface {
	GetOrCreateActive(ctx context.Context, customerID, currency string) (*domain.Cart, error)
	AddItem(ctx context.Context, customerID, cartID, bookID string, quantity int) (*domain.Cart, error)
	UpdateQuantity(ctx context.Context, customerID, cartID, bookID string, quantity int) (*domain.Cart, error)
	RemoveItem(ctx context.Context, customerID, cartID, bookID string) (*domain.Cart, error)
}

// Session bundles the stores of one signed-in customer.
type Session struct {
	CustomerID string
	Search     *search.Store
	Cart       *cartstore.Store
	storage    *Storage
}

// RecordVisit remembers path as the customer's last visited page.
func (s *Session) RecordVisit(ctx context.Context, path string) error {
	return s.storage.Set(ctx, s.CustomerID, domain.SessionKeyLastVisitedPage, path)
}

func (s *Session) LastVisitedPage(ctx context.Context) (string, bool, error) {
	return s.storage.Get(ctx, s.CustomerID, domain.SessionKeyLastVisitedPage)
}

// Manager owns one Session per signed-in customer.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session
	storage  *Storage
	carts    CartService
	currency string
	logger   *logrus.Logger
}

func NewManager(storage *Storage, carts CartService, currency string, logger *logrus.Logger) *Manager {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Manager{
		sessions: make(map[string]*Session),
		storage:  storage,
		carts:    carts,
		currency: currency,
		logger:   logger,
	}
}

// Get returns the session for customerID, creating it on first use.
func (m *Manager) Get(customerID string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[customerID]; ok {
		return s
	}
	s := &Session{
		CustomerID: customerID,
		Search:     search.New(),
		Cart:       cartstore.New(customerID, m.currency, m.carts, m.storage, m.logger),
		storage:    m.storage,
	}
	m.sessions[customerID] = s
	m.logger.WithField("customer_id", customerID).Debug("session opened")
	return s
}

// End runs the sign-out cleanup for customerID and forgets its session.
func (m *Manager) End(ctx context.Context, customerID string) error {
	m.mu.Lock()
	s, ok := m.sessions[customerID]
	delete(m.sessions, customerID)
	m.mu.Unlock()

	if !ok {
		return m.storage.Delete(ctx, customerID, domain.SessionKeyCart, domain.SessionKeyLastVisitedPage)
	}
	s.Search.Clear()
	return s.Cart.SignOutCleanup(ctx)
}

// Active reports how many sessions are open.
func (m *Manager) Active() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}
