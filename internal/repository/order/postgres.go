package order

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

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

func (r *postgresRepo) Create(ctx context.Context, o domain.Order) (*domain.Order, error) {
	if !o.Status.Valid() {
		return nil, fmt.Errorf("order repo: invalid status %q", o.Status)
	}
	var shipping []byte
	if o.ShippingAddress != nil {
		data, err := json.Marshal(o.ShippingAddress)
		if err != nil {
			return nil, err
		}
		shipping = data
	}

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	out := o
	const insertOrder = `
INSERT INTO orders (customer_id, transaction_id, status, total_amount_cents, currency, payment_method_id, shipping_address, notes)
VALUES ($1, NULLIF($2, ''), $3, $4, $5, $6, $7, $8)
RETURNING id::text, created_at
`
	if err := tx.QueryRow(ctx, insertOrder,
		o.CustomerID, o.TransactionID, string(o.Status), o.TotalAmountCents, o.Currency,
		o.PaymentMethodID, shipping, o.Notes,
	).Scan(&out.ID, &out.CreatedAt); err != nil {
		mapped := mapWriteError(err)
		if mapped != err {
			r.logger.Warnf("order repo: create transaction_id=%s rejected: %v", o.TransactionID, mapped)
			return nil, mapped
		}
		r.logger.Errorf("order repo: create transaction_id=%s error=%v", o.TransactionID, err)
		return nil, err
	}

	out.Items = make([]domain.OrderItem, 0, len(o.Items))
	for i, item := range o.Items {
		item.OrderID = out.ID
		if err := tx.QueryRow(ctx, `
INSERT INTO order_items (order_id, book_id, title, quantity, original_price_cents, final_price_cents, discount_percentage, position)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING id::text
`, out.ID, item.BookID, item.Title, item.Quantity, item.OriginalPriceCents, item.FinalPriceCents, item.DiscountPercentage, i).Scan(&item.ID); err != nil {
			r.logger.Errorf("order repo: insert item book_id=%s error=%v", item.BookID, err)
			return nil, mapWriteError(err)
		}
		out.Items = append(out.Items, item)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	r.logger.Infof("order repo: created id=%s items=%d total_cents=%d", out.ID, len(out.Items), out.TotalAmountCents)
	return &out, nil
}

// mapWriteError turns constraint failures caused by caller input into domain
// errors. A duplicate transaction id is ErrAlreadyExists; a malformed or
// unknown customer, payment method or book id is ErrValidation.
func mapWriteError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case "23505":
		return domain.ErrAlreadyExists
	case "22P02":
		return fmt.Errorf("%w: malformed id: %s", domain.ErrValidation, pgErr.Message)
	case "23503":
		return fmt.Errorf("%w: unknown reference %s", domain.ErrValidation, pgErr.ConstraintName)
	}
	return err
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	const q = `
SELECT id::text, customer_id::text, COALESCE(transaction_id, ''), status, total_amount_cents, currency,
       payment_method_id::text, shipping_address, notes, created_at
FROM orders
WHERE id::text = $1
`
	var (
		o        domain.Order
		status   string
		shipping []byte
	)
	err := r.pool.QueryRow(ctx, q, id).Scan(
		&o.ID, &o.CustomerID, &o.TransactionID, &status, &o.TotalAmountCents, &o.Currency,
		&o.PaymentMethodID, &shipping, &o.Notes, &o.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	o.Status = domain.OrderStatus(status)
	if len(shipping) > 0 {
		var addr domain.ShippingAddress
		if err := json.Unmarshal(shipping, &addr); err != nil {
			return nil, fmt.Errorf("decode shipping address: %w", err)
		}
		o.ShippingAddress = &addr
	}

	rows, err := r.pool.Query(ctx, `
SELECT id::text, order_id::text, book_id::text, title, quantity, original_price_cents, final_price_cents, discount_percentage
FROM order_items
WHERE order_id = $1
ORDER BY position ASC
`, o.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	o.Items = []domain.OrderItem{}
	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.BookID, &item.Title, &item.Quantity,
			&item.OriginalPriceCents, &item.FinalPriceCents, &item.DiscountPercentage); err != nil {
			return nil, err
		}
		o.Items = append(o.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &o, nil
}
