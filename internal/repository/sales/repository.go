package sales

import (
	"context"

	"bookstore-storefront/internal/domain"
)

// Repository reads aggregated sales rows through the rls_fetch_sales_data procedure.
type Repository interface {
	Fetch(ctx context.Context, startDate, endDate string) ([]domain.SalesRecord, error)
}
