package cart

import (
	"context"

	"bookstore-storefront/internal/domain"
)

type CreateCartInput struct {
	CustomerID string
	Currency   string
}

type Repository interface {
	Create(ctx context.Context, in CreateCartInput) (*domain.Cart, error)
	GetByID(ctx context.Context, id string) (*domain.Cart, error)
	GetActiveByCustomer(ctx context.Context, customerID string) (*domain.Cart, error)
	AddItem(ctx context.Context, cartID string, book domain.Book, quantity int) error
	ChangeItemQuantity(ctx context.Context, cartID, bookID string, quantity int) error
	RemoveItem(ctx context.Context, cartID, bookID string) error
	Clear(ctx context.Context, cartID string) error
}
