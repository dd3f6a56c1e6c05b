package book

import (
	"context"

	"bookstore-storefront/internal/domain"
)

type Repository interface {
	GetByID(ctx context.Context, id string) (*domain.Book, error)
	Search(ctx context.Context, query string, limit int) ([]domain.Book, error)
	Upsert(ctx context.Context, b domain.Book) (*domain.Book, error)
}
