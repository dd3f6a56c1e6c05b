package genre

import (
	"context"

	"bookstore-storefront/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) List(ctx context.Context) ([]domain.Genre, error) {
	rows, err := r.pool.Query(ctx, `SELECT id::text, key, name, created_at FROM genres ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Genre
	for rows.Next() {
		var g domain.Genre
		if err := rows.Scan(&g.ID, &g.Key, &g.Name, &g.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Upsert keeps the existing name when the incoming one is blank.
func (r *postgresRepo) Upsert(ctx context.Context, g domain.Genre) (*domain.Genre, error) {
	const q = `
INSERT INTO genres (key, name)
VALUES ($1, COALESCE(NULLIF($2, ''), $1))
ON CONFLICT (key) DO UPDATE
SET name = COALESCE(NULLIF(EXCLUDED.name, EXCLUDED.key), genres.name)
RETURNING id::text, name, created_at
`
	out := domain.Genre{Key: g.Key}
	if err := r.pool.QueryRow(ctx, q, g.Key, g.Name).Scan(&out.ID, &out.Name, &out.CreatedAt); err != nil {
		return nil, err
	}
	return &out, nil
}
