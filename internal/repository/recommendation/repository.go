package recommendation

import (
	"context"

	"bookstore-storefront/internal/domain"
)

type Repository interface {
	ListByCustomer(ctx context.Context, customerID string) ([]domain.Recommendation, error)
}
