package cart

import (
	"context"
	"errors"

	"bookstore-storefront/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const cartColumns = `id::text, customer_id::text, currency, state, created_at, updated_at`

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) Create(ctx context.Context, in CreateCartInput) (*domain.Cart, error) {
	q := `
INSERT INTO carts (customer_id, currency, state)
VALUES ($1, $2, 'active')
RETURNING ` + cartColumns
	var cart domain.Cart
	if err := r.pool.QueryRow(ctx, q, in.CustomerID, in.Currency).Scan(
		&cart.ID,
		&cart.CustomerID,
		&cart.Currency,
		&cart.State,
		&cart.CreatedAt,
		&cart.UpdatedAt,
	); err != nil {
		return nil, err
	}
	cart.Items = []domain.CartItem{}
	return &cart, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Cart, error) {
	return r.fetchCart(ctx, `SELECT `+cartColumns+` FROM carts WHERE id::text = $1`, id)
}

func (r *postgresRepo) GetActiveByCustomer(ctx context.Context, customerID string) (*domain.Cart, error) {
	return r.fetchCart(ctx, `
SELECT `+cartColumns+`
FROM carts
WHERE customer_id::text = $1 AND state = 'active'
ORDER BY created_at DESC
LIMIT 1
`, customerID)
}

// AddItem merges into an existing line for the same book, keeping its original price.
func (r *postgresRepo) AddItem(ctx context.Context, cartID string, book domain.Book, quantity int) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var existingQty int
	err = tx.QueryRow(ctx, `
SELECT quantity
FROM cart_items
WHERE cart_id = $1 AND book_id = $2
FOR UPDATE
`, cartID, book.ID).Scan(&existingQty)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return err
	}

	if err == nil {
		if _, err := tx.Exec(ctx, `
UPDATE cart_items
SET quantity = $1
WHERE cart_id = $2 AND book_id = $3
`, existingQty+quantity, cartID, book.ID); err != nil {
			return err
		}
	} else {
		if _, err := tx.Exec(ctx, `
INSERT INTO cart_items (cart_id, book_id, title, unit_price_cents, discounted_price_cents, discount_percentage, is_on_promotion, quantity)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
`, cartID, book.ID, book.Title, book.PriceCents, book.DiscountedPriceCents, book.DiscountPercentage, book.IsOnPromotion, quantity); err != nil {
			return err
		}
	}

	if err := touchCart(ctx, tx, cartID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// ChangeItemQuantity sets the quantity of a line; zero or less removes it.
func (r *postgresRepo) ChangeItemQuantity(ctx context.Context, cartID, bookID string, quantity int) error {
	if quantity <= 0 {
		return r.RemoveItem(ctx, cartID, bookID)
	}
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	cmd, err := tx.Exec(ctx, `
UPDATE cart_items
SET quantity = $1
WHERE cart_id = $2 AND book_id::text = $3
`, quantity, cartID, bookID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	if err := touchCart(ctx, tx, cartID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *postgresRepo) RemoveItem(ctx context.Context, cartID, bookID string) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	cmd, err := tx.Exec(ctx, `DELETE FROM cart_items WHERE cart_id = $1 AND book_id::text = $2`, cartID, bookID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	if err := touchCart(ctx, tx, cartID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *postgresRepo) Clear(ctx context.Context, cartID string) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM cart_items WHERE cart_id = $1`, cartID); err != nil {
		return err
	}
	if err := touchCart(ctx, tx, cartID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *postgresRepo) fetchCart(ctx context.Context, cartQuery string, args ...interface{}) (*domain.Cart, error) {
	var cart domain.Cart
	err := r.pool.QueryRow(ctx, cartQuery, args...).Scan(
		&cart.ID,
		&cart.CustomerID,
		&cart.Currency,
		&cart.State,
		&cart.CreatedAt,
		&cart.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	const itemsQuery = `
SELECT id::text, cart_id::text, book_id::text, title, unit_price_cents, discounted_price_cents,
       discount_percentage, is_on_promotion, quantity, created_at
FROM cart_items
WHERE cart_id = $1
ORDER BY created_at ASC, id ASC
`
	rows, err := r.pool.Query(ctx, itemsQuery, cart.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cart.Items = []domain.CartItem{}
	for rows.Next() {
		var item domain.CartItem
		if err := rows.Scan(
			&item.ID,
			&item.CartID,
			&item.BookID,
			&item.Title,
			&item.UnitPriceCents,
			&item.DiscountedPriceCents,
			&item.DiscountPercentage,
			&item.IsOnPromotion,
			&item.Quantity,
			&item.CreatedAt,
		); err != nil {
			return nil, err
		}
		cart.Items = append(cart.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &cart, nil
}

func touchCart(ctx context.Context, tx pgx.Tx, cartID string) error {
	_, err := tx.Exec(ctx, `UPDATE carts SET updated_at = now() WHERE id = $1`, cartID)
	return err
}
