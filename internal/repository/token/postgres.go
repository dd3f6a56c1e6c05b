package token

import (
	"context"
	"errors"
	"io"
	"time"

	"bookstore-storefront/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
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

func (r *postgresRepo) Create(ctx context.Context, t Token) error {
	const q = `
INSERT INTO tokens (token, customer_id, kind, expires_at)
VALUES ($1, $2, $3, $4)
`
	if _, err := r.pool.Exec(ctx, q, t.Token, t.CustomerID, t.Kind, t.ExpiresAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			r.logger.Warnf("token repo: create customer_id=%s kind=%s collided", t.CustomerID, t.Kind)
			return domain.ErrAlreadyExists
		}
		r.logger.Errorf("token repo: create customer_id=%s error=%v", t.CustomerID, err)
		return err
	}
	r.logger.Debugf("token repo: issued customer_id=%s kind=%s expires_at=%s", t.CustomerID, t.Kind, t.ExpiresAt.UTC().Format(time.RFC3339))
	return nil
}

// Get returns the stored token row; expiry is checked by the caller.
func (r *postgresRepo) Get(ctx context.Context, token string) (*Token, error) {
	const q = `
SELECT t.token, t.customer_id::text, t.kind, t.expires_at, t.created_at
FROM tokens t
WHERE t.token = $1
`
	rows, err := r.pool.Query(ctx, q, token)
	if err != nil {
		r.logger.Errorf("token repo: get error=%v", err)
		return nil, err
	}
	out, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByPos[Token])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Errorf("token repo: scan error=%v", err)
		return nil, err
	}
	return &out, nil
}

func (r *postgresRepo) Delete(ctx context.Context, token string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM tokens WHERE token = $1`, token)
	if err != nil {
		r.logger.Errorf("token repo: delete error=%v", err)
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	r.logger.Debugf("token repo: revoked rows=%d", cmd.RowsAffected())
	return nil
}
