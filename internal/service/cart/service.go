package cart

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"bookstore-storefront/internal/domain"
	cartrepo "bookstore-storefront/internal/repository/cart"
)

type Service struct {
	repo     cartRepo
	bookRepo bookRepo
}

type cartRepo interface {
	Create(ctx context.Context, in cartrepo.CreateCartInput) (*domain.Cart, error)
	GetByID(ctx context.Context, id string) (*domain.Cart, error)
	GetActiveByCustomer(ctx context.Context, customerID string) (*domain.Cart, error)
	AddItem(ctx context.Context, cartID string, book domain.Book, quantity int) error
	ChangeItemQuantity(ctx context.Context, cartID, bookID string, quantity int) error
	RemoveItem(ctx context.Context, cartID, bookID string) error
	Clear(ctx context.Context, cartID string) error
}

type bookRepo interface {
	GetByID(ctx context.Context, id string) (*domain.Book, error)
}

func New(repo cartRepo, bookRepo bookRepo) *Service {
	return &Service{repo: repo, bookRepo: bookRepo}
}

func validationErr(msg string) error {
	return fmt.Errorf("%w: %s", domain.ErrValidation, msg)
}

func (s *Service) Create(ctx context.Context, customerID, currency string) (*domain.Cart, error) {
	if strings.TrimSpace(customerID) == "" {
		return nil, validationErr("customerId required")
	}
	if strings.TrimSpace(currency) == "" {
		return nil, validationErr("currency required")
	}
	return s.repo.Create(ctx, cartrepo.CreateCartInput{
		CustomerID: customerID,
		Currency:   strings.ToUpper(strings.TrimSpace(currency)),
	})
}

func (s *Service) GetActive(ctx context.Context, customerID string) (*domain.Cart, error) {
	return s.repo.GetActiveByCustomer(ctx, customerID)
}

// GetOrCreateActive returns the customer's active cart, creating an empty one
// in currency when none exists.
func (s *Service) GetOrCreateActive(ctx context.Context, customerID, currency string) (*domain.Cart, error) {
	cart, err := s.repo.GetActiveByCustomer(ctx, customerID)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	return s.Create(ctx, customerID, currency)
}

// AddItem adds quantity copies of bookID to the cart at the book's current price.
func (s *Service) AddItem(ctx context.Context, customerID, cartID, bookID string, quantity int) (*domain.Cart, error) {
	bookID = strings.TrimSpace(bookID)
	if bookID == "" {
		return nil, validationErr("bookId required")
	}
	if quantity <= 0 {
		return nil, domain.ErrInvalidQuantity
	}
	if err := s.checkOwner(ctx, customerID, cartID); err != nil {
		return nil, err
	}
	if s.bookRepo == nil {
		return nil, errors.New("book repository unavailable")
	}
	book, err := s.bookRepo.GetByID(ctx, bookID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.AddItem(ctx, cartID, *book, quantity); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, cartID)
}

// UpdateQuantity sets the quantity of bookID in the cart; zero removes the line.
func (s *Service) UpdateQuantity(ctx context.Context, customerID, cartID, bookID string, quantity int) (*domain.Cart, error) {
	if strings.TrimSpace(bookID) == "" {
		return nil, validationErr("bookId required")
	}
	if quantity < 0 {
		return nil, domain.ErrInvalidQuantity
	}
	if err := s.checkOwner(ctx, customerID, cartID); err != nil {
		return nil, err
	}
	if err := s.repo.ChangeItemQuantity(ctx, cartID, bookID, quantity); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, cartID)
}

func (s *Service) RemoveItem(ctx context.Context, customerID, cartID, bookID string) (*domain.Cart, error) {
	if err := s.checkOwner(ctx, customerID, cartID); err != nil {
		return nil, err
	}
	if err := s.repo.RemoveItem(ctx, cartID, bookID); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, cartID)
}

func (s *Service) Clear(ctx context.Context, customerID, cartID string) (*domain.Cart, error) {
	if err := s.checkOwner(ctx, customerID, cartID); err != nil {
		return nil, err
	}
	if err := s.repo.Clear(ctx, cartID); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, cartID)
}

// checkOwner hides carts of other customers behind ErrNotFound.
func (s *Service) checkOwner(ctx context.Context, customerID, cartID string) error {
	cart, err := s.repo.GetByID(ctx, cartID)
	if err != nil {
		return err
	}
	if cart.CustomerID != customerID {
		return domain.ErrNotFound
	}
	return nil
}
