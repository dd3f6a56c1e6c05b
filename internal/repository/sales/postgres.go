package sales

import (
	"context"
	"io"

	"bookstore-storefront/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *logrus.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *logrus.Logger) Repository {
	if logger == nil {
		logger = logrus.New()
		logger.SetOutput(io.Discard)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

func (r *postgresRepo) Fetch(ctx context.Context, startDate, endDate string) ([]domain.SalesRecord, error) {
	rows, err := r.pool.Query(ctx, `SELECT * FROM rls_fetch_sales_data($1, $2)`, startDate, endDate)
	if err != nil {
		r.logger.Errorf("sales repo: rls_fetch_sales_data start=%s end=%s error=%v", startDate, endDate, err)
		return nil, err
	}
	maps, err := pgx.CollectRows(rows, pgx.RowToMap)
	if err != nil {
		r.logger.Errorf("sales repo: rls_fetch_sales_data rows start=%s end=%s error=%v", startDate, endDate, err)
		return nil, err
	}
	out := make([]domain.SalesRecord, 0, len(maps))
	for _, m := range maps {
		out = append(out, domain.SalesRecord(m))
	}
	r.logger.Debugf("sales repo: rls_fetch_sales_data start=%s end=%s count=%d", startDate, endDate, len(out))
	return out, nil
}
