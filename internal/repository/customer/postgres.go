package customer

import (
	"context"
	"errors"
	"io"
	"strings"

	"bookstore-storefront/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
)

const customerColumns = `id::text, email, password_hash, first_name, last_name, phone, created_at`

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *logrus.Logger
}

// NewPostgres returns a Repository backed by Postgres.
func NewPostgres(pool *pgxpool.Pool, logger *logrus.Logger) Repository {
	if logger == nil {
		logger = logrus.New()
		logger.SetOutput(io.Discard)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

func (r *postgresRepo) Create(ctx context.Context, c domain.Customer) (*domain.Customer, error) {
	q := `
INSERT INTO customers (email, password_hash, first_name, last_name, phone)
VALUES ($1, $2, $3, $4, $5)
RETURNING ` + customerColumns
	out, err := scanCustomer(r.pool.QueryRow(ctx, q,
		strings.ToLower(c.Email),
		c.PasswordHash,
		c.FirstName,
		c.LastName,
		c.Phone,
	))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			r.logger.Infof("customer repo: create email=%s already exists", c.Email)
			return nil, domain.ErrAlreadyExists
		}
		r.logger.Errorf("customer repo: create email=%s error=%v", c.Email, err)
		return nil, err
	}
	r.logger.Infof("customer repo: created id=%s", out.ID)
	return out, nil
}

func (r *postgresRepo) GetByEmail(ctx context.Context, email string) (*domain.Customer, error) {
	q := `SELECT ` + customerColumns + ` FROM customers WHERE lower(email) = lower($1) LIMIT 1`
	c, err := scanCustomer(r.pool.QueryRow(ctx, q, strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Customer, error) {
	q := `SELECT ` + customerColumns + ` FROM customers WHERE id::text = $1`
	c, err := scanCustomer(r.pool.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

func (r *postgresRepo) FetchAll(ctx context.Context) ([]domain.CustomerRecord, error) {
	rows, err := r.pool.Query(ctx, `SELECT * FROM rls_fetch_customers()`)
	if err != nil {
		r.logger.Errorf("customer repo: rls_fetch_customers error=%v", err)
		return nil, err
	}
	maps, err := pgx.CollectRows(rows, pgx.RowToMap)
	if err != nil {
		r.logger.Errorf("customer repo: rls_fetch_customers rows error=%v", err)
		return nil, err
	}
	out := make([]domain.CustomerRecord, 0, len(maps))
	for _, m := range maps {
		out = append(out, domain.CustomerRecord(m))
	}
	r.logger.Debugf("customer repo: rls_fetch_customers count=%d", len(out))
	return out, nil
}

func scanCustomer(row pgx.Row) (*domain.Customer, error) {
	var c domain.Customer
	if err := row.Scan(&c.ID, &c.Email, &c.PasswordHash, &c.FirstName, &c.LastName, &c.Phone, &c.CreatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}
