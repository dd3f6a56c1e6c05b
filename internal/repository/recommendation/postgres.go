package recommendation

import (
	"context"

	"bookstore-storefront/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) ListByCustomer(ctx context.Context, customerID string) ([]domain.Recommendation, error) {
	rows, err := r.pool.Query(ctx, `
SELECT id::text, product_name, recommendation_reason
FROM recommendations
WHERE customer_id::text = $1
ORDER BY created_at DESC
`, customerID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Recommendation, error) {
		var rec domain.Recommendation
		err := row.Scan(&rec.ID, &rec.ProductName, &rec.RecommendationReason)
		return rec, err
	})
}
