package book

import (
	"context"
	"errors"
	"io"
	"strings"

	"bookstore-storefront/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
)

const bookColumns = `
b.id::text, COALESCE(b.isbn, ''), b.title, b.author, COALESCE(b.description, ''), b.price_cents,
b.discounted_price_cents, b.discount_percentage, b.is_on_promotion, b.currency, b.cover_url,
b.google_books_id, b.created_at,
COALESCE((SELECT array_agg(g.key ORDER BY g.key) FROM book_genres bg JOIN genres g ON g.id = bg.genre_id WHERE bg.book_id = b.id), '{}')
`

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

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Book, error) {
	q := `SELECT ` + bookColumns + ` FROM books b WHERE b.id::text = $1`
	b, err := scanBook(r.pool.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debugf("book repo: get id=%s not found", id)
			return nil, domain.ErrNotFound
		}
		r.logger.Errorf("book repo: get id=%s error=%v", id, err)
		return nil, err
	}
	r.logger.Debugf("book repo: get id=%s title=%q", id, b.Title)
	return b, nil
}

func (r *postgresRepo) Search(ctx context.Context, query string, limit int) ([]domain.Book, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	pattern := "%" + escapeLike(strings.TrimSpace(query)) + "%"
	q := `SELECT ` + bookColumns + `
FROM books b
WHERE b.title ILIKE $1 OR b.author ILIKE $1 OR COALESCE(b.isbn, '') ILIKE $1
ORDER BY b.title ASC
LIMIT $2`
	rows, err := r.pool.Query(ctx, q, pattern, limit)
	if err != nil {
		r.logger.Errorf("book repo: search query=%q error=%v", query, err)
		return nil, err
	}
	defer rows.Close()

	var result []domain.Book
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *b)
	}
	if err := rows.Err(); err != nil {
		r.logger.Errorf("book repo: search rows query=%q error=%v", query, err)
		return nil, err
	}
	r.logger.Debugf("book repo: search query=%q count=%d", query, len(result))
	return result, nil
}

// Upsert inserts or updates a book keyed by ISBN and replaces its genre links.
func (r *postgresRepo) Upsert(ctx context.Context, b domain.Book) (*domain.Book, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	const q = `
INSERT INTO books (isbn, title, author, description, price_cents, discounted_price_cents,
                   discount_percentage, is_on_promotion, currency, cover_url, google_books_id)
VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, $7, $8, $9, $10, $11)
ON CONFLICT (isbn) DO UPDATE SET
    title = EXCLUDED.title,
    author = EXCLUDED.author,
    description = EXCLUDED.description,
    price_cents = EXCLUDED.price_cents,
    discounted_price_cents = EXCLUDED.discounted_price_cents,
    discount_percentage = EXCLUDED.discount_percentage,
    is_on_promotion = EXCLUDED.is_on_promotion,
    currency = EXCLUDED.currency,
    cover_url = EXCLUDED.cover_url,
    google_books_id = EXCLUDED.google_books_id
RETURNING id::text, created_at
`
	res := b
	if err := tx.QueryRow(ctx, q,
		b.ISBN, b.Title, b.Author, b.Description, b.PriceCents, b.DiscountedPriceCents,
		b.DiscountPercentage, b.IsOnPromotion, b.Currency, b.CoverURL, b.GoogleBooksID,
	).Scan(&res.ID, &res.CreatedAt); err != nil {
		r.logger.Errorf("book repo: upsert isbn=%s error=%v", b.ISBN, err)
		return nil, err
	}

	if _, err := tx.Exec(ctx, `DELETE FROM book_genres WHERE book_id = $1`, res.ID); err != nil {
		return nil, err
	}
	for _, key := range b.Genres {
		if _, err := tx.Exec(ctx, `
INSERT INTO book_genres (book_id, genre_id)
SELECT $1::uuid, id FROM genres WHERE key = $2
ON CONFLICT DO NOTHING
`, res.ID, key); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	r.logger.Infof("book repo: upserted isbn=%s id=%s", res.ISBN, res.ID)
	return &res, nil
}

func scanBook(row pgx.Row) (*domain.Book, error) {
	var b domain.Book
	if err := row.Scan(
		&b.ID,
		&b.ISBN,
		&b.Title,
		&b.Author,
		&b.Description,
		&b.PriceCents,
		&b.DiscountedPriceCents,
		&b.DiscountPercentage,
		&b.IsOnPromotion,
		&b.Currency,
		&b.CoverURL,
		&b.GoogleBooksID,
		&b.CreatedAt,
		&b.Genres,
	); err != nil {
		return nil, err
	}
	return &b, nil
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
