package order

import (
	"context"

	"bookstore-storefront/internal/domain"
)

type Repository interface {
	// Create stores the order and its items atomically and returns it with ids filled in.
	Create(ctx context.Context, o domain.Order) (*domain.Order, error)
	GetByID(ctx context.Context, id string) (*domain.Order, error)
}
