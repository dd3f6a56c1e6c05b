// Package pointofsale keeps the open sale of one register terminal and
// submits it as an order when the cashier completes it.
package pointofsale

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"bookstore-storefront/internal/domain"
	"bookstore-storefront/internal/store"
)

var (
	// ErrNoActiveTransaction is returned by mutations issued before InitializeTransaction.
	ErrNoActiveTransaction = errors.New("no active transaction")
	// ErrCompletionInFlight is returned while CompleteTransaction is submitting the order.
	ErrCompletionInFlight = errors.New("transaction completion in progress")
	// ErrEmptyTransaction is returned when completing a transaction without items.
	ErrEmptyTransaction = errors.New("transaction has no items")
)

// OrderSubmitter persists a completed transaction as an order.
type OrderSubmitter interface {
	Create(ctx context.Context, o domain.Order) (*domain.Order, error)
}

// Snapshot is the observable state of a Store.
type Snapshot struct {
	Transaction *domain.Transaction `json:"transaction"`
	ItemCount   int                 `json:"itemCount"`
	TotalCents  int64               `json:"totalCents"`
	Completing  bool                `json:"completing"`
}

// DetailsPatch carries the order detail fields to overwrite; nil fields are kept.
type DetailsPatch struct {
	CustomerID      *string                 `json:"customerId,omitempty"`
	ShippingAddress *domain.ShippingAddress `json:"shippingAddress,omitempty"`
	PaymentMethodID *string                 `json:"paymentMethodId,omitempty"`
	Notes           *string                 `json:"notes,omitempty"`
}

type Store struct {
	mu         sync.Mutex
	tx         *domain.Transaction
	completing bool
	currency   string
	orders     OrderSubmitter
	notifier   store.Notifier[Snapshot]
	now        func() time.Time
}

func New(orders OrderSubmitter, currency string) *Store {
	if currency == "" {
		currency = "USD"
	}
	return &Store{orders: orders, currency: currency, now: time.Now}
}

// Subscribe registers fn for every state change and returns its unsubscribe func.
func (s *Store) Subscribe(fn func(Snapshot)) func() {
	return s.notifier.Subscribe(fn)
}

// InitializeTransaction opens a fresh transaction, discarding any open one.
func (s *Store) InitializeTransaction() (string, error) {
	s.mu.Lock()
	if s.completing {
		s.mu.Unlock()
		return "", ErrCompletionInFlight
	}
	s.tx = &domain.Transaction{
		ID:        uuid.NewString(),
		Items:     []domain.LineItem{},
		Currency:  s.currency,
		StartedAt: s.now().UTC(),
	}
	id := s.tx.ID
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.notifier.Notify(snap)
	return id, nil
}

// AddItem appends item, or raises the quantity of the line for the same book.
// The first price recorded for a book is kept.
func (s *Store) AddItem(item domain.LineItem) error {
	if item.Quantity < 1 {
		return domain.ErrInvalidQuantity
	}
	if item.BookID == "" {
		return fmt.Errorf("%w: book id required", domain.ErrValidation)
	}
	return s.mutate(func(tx *domain.Transaction) error {
		for i := range tx.Items {
			if tx.Items[i].BookID == item.BookID {
				tx.Items[i].Quantity += item.Quantity
				return nil
			}
		}
		tx.Items = append(tx.Items, item)
		return nil
	})
}

// RemoveItem drops the line for itemID. Unknown ids are ignored.
func (s *Store) RemoveItem(itemID string) error {
	return s.mutate(func(tx *domain.Transaction) error {
		tx.Items = removeLine(tx.Items, itemID)
		return nil
	})
}

// UpdateQuantity sets the quantity of a line; zero removes it.
func (s *Store) UpdateQuantity(itemID string, quantity int) error {
	if quantity < 0 {
		return domain.ErrInvalidQuantity
	}
	return s.mutate(func(tx *domain.Transaction) error {
		for i := range tx.Items {
			if tx.Items[i].BookID != itemID {
				continue
			}
			if quantity == 0 {
				tx.Items = removeLine(tx.Items, itemID)
			} else {
				tx.Items[i].Quantity = quantity
			}
			return nil
		}
		return domain.ErrNotFound
	})
}

func (s *Store) UpdateOrderDetails(patch DetailsPatch) error {
	return s.mutate(func(tx *domain.Transaction) error {
		d := &tx.Details
		if patch.CustomerID != nil {
			d.CustomerID = patch.CustomerID
		}
		if patch.ShippingAddress != nil {
			d.ShippingAddress = patch.ShippingAddress
		}
		if patch.PaymentMethodID != nil {
			d.PaymentMethodID = patch.PaymentMethodID
		}
		if patch.Notes != nil {
			d.Notes = *patch.Notes
		}
		return nil
	})
}

// ItemCount is the sum of line quantities, zero without a transaction.
func (s *Store) ItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tx == nil {
		return 0
	}
	return s.tx.ItemCount()
}

// Total is the sum of line totals in cents, zero without a transaction.
func (s *Store) Total() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tx == nil {
		return 0
	}
	return s.tx.TotalCents()
}

func (s *Store) CurrentTransactionID() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tx == nil {
		return "", false
	}
	return s.tx.ID, true
}

func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// ClearTransaction discards the open transaction without submitting it.
func (s *Store) ClearTransaction() error {
	s.mu.Lock()
	if s.completing {
		s.mu.Unlock()
		return ErrCompletionInFlight
	}
	s.tx = nil
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.notifier.Notify(snap)
	return nil
}

// CompleteTransaction submits the open transaction as a pending order. While
// the submission runs every other mutation fails with ErrCompletionInFlight.
// On success the transaction is cleared; on failure it stays open for retry.
func (s *Store) CompleteTransaction(ctx context.Context) (*domain.Order, error) {
	s.mu.Lock()
	if s.completing {
		s.mu.Unlock()
		return nil, ErrCompletionInFlight
	}
	if s.tx == nil {
		s.mu.Unlock()
		return nil, ErrNoActiveTransaction
	}
	if len(s.tx.Items) == 0 {
		s.mu.Unlock()
		return nil, ErrEmptyTransaction
	}
	s.completing = true
	order := buildOrder(*s.tx)
	txID := s.tx.ID
	snap := s.snapshotLocked()
	s.mu.Unlock()
	s.notifier.Notify(snap)

	created, err := s.orders.Create(ctx, order)

	s.mu.Lock()
	s.completing = false
	if err == nil && s.tx != nil && s.tx.ID == txID {
		s.tx = nil
	}
	snap = s.snapshotLocked()
	s.mu.Unlock()
	s.notifier.Notify(snap)

	if err != nil {
		return nil, fmt.Errorf("submit order for transaction %s: %w", txID, err)
	}
	return created, nil
}

func (s *Store) mutate(fn func(tx *domain.Transaction) error) error {
	s.mu.Lock()
	if s.completing {
		s.mu.Unlock()
		return ErrCompletionInFlight
	}
	if s.tx == nil {
		s.mu.Unlock()
		return ErrNoActiveTransaction
	}
	if err := fn(s.tx); err != nil {
		s.mu.Unlock()
		return err
	}
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.notifier.Notify(snap)
	return nil
}

func (s *Store) snapshotLocked() Snapshot {
	snap := Snapshot{Completing: s.completing}
	if s.tx == nil {
		return snap
	}
	tx := *s.tx
	tx.Items = append([]domain.LineItem(nil), s.tx.Items...)
	snap.Transaction = &tx
	snap.ItemCount = tx.ItemCount()
	snap.TotalCents = tx.TotalCents()
	return snap
}

func removeLine(items []domain.LineItem, bookID string) []domain.LineItem {
	out := items[:0]
	for _, it := range items {
		if it.BookID != bookID {
			out = append(out, it)
		}
	}
	return out
}

func buildOrder(tx domain.Transaction) domain.Order {
	order := domain.Order{
		CustomerID:       tx.Details.CustomerID,
		TransactionID:    tx.ID,
		Status:           domain.OrderStatusPending,
		Currency:         tx.Currency,
		PaymentMethodID:  tx.Details.PaymentMethodID,
		ShippingAddress:  tx.Details.ShippingAddress,
		Notes:            tx.Details.Notes,
		TotalAmountCents: tx.TotalCents(),
		Items:            make([]domain.OrderItem, 0, len(tx.Items)),
	}
	for _, it := range tx.Items {
		order.Items = append(order.Items, domain.OrderItem{
			BookID:             it.BookID,
			Title:              it.Title,
			Quantity:           it.Quantity,
			OriginalPriceCents: it.UnitPriceCents * int64(it.Quantity),
			FinalPriceCents:    it.TotalCents(),
			DiscountPercentage: it.DiscountPercentage,
		})
	}
	return order
}
