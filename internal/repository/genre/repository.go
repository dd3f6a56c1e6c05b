package genre

import (
	"context"

	"bookstore-storefront/internal/domain"
)

type Repository interface {
	List(ctx context.Context) ([]domain.Genre, error)
	Upsert(ctx context.Context, g domain.Genre) (*domain.Genre, error)
}
