package seed

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"
)

// DemoEmail and DemoPassword sign in as the seeded customer.
const (
	DemoEmail    = "reader@example.com"
	DemoPassword = "bookworm-demo-1"
)

type genreSeed struct {
	Key  string
	Name string
}

type bookSeed struct {
	ISBN               string
	Title              string
	Author             string
	Description        string
	PriceCents         int64
	DiscountedCents    *int64
	DiscountPercentage *float64
	GoogleBooksID      string
	Genres             []string
}

type recommendationSeed struct {
	ProductName string
	Reason      string
}

func cents(v int64) *int64       { return &v }
func percent(v float64) *float64 { return &v }

var genres = []genreSeed{
	{Key: "fiction", Name: "Fiction"},
	{Key: "science-fiction", Name: "Science Fiction"},
	{Key: "history", Name: "History"},
	{Key: "programming", Name: "Programming"},
}

var books = []bookSeed{
	{
		ISBN:          "9780441172719",
		Title:         "Dune",
		Author:        "Frank Herbert",
		Description:   "A desert planet, a noble family and the spice that holds an empire together.",
		PriceCents:    1899,
		GoogleBooksID: "B1hSG45JCX4C",
		Genres:        []string{"fiction", "science-fiction"},
	},
	{
		ISBN:               "9780134190440",
		Title:              "The Go Programming Language",
		Author:             "Alan A. A. Donovan, Brian W. Kernighan",
		Description:        "The authoritative resource for writing clear and idiomatic Go.",
		PriceCents:         4499,
		DiscountedCents:    cents(3599),
		DiscountPercentage: percent(20),
		GoogleBooksID:      "SJHvCgAAQBAJ",
		Genres:             []string{"programming"},
	},
	{
		ISBN:          "9780062316097",
		Title:         "Sapiens",
		Author:        "Yuval Noah Harari",
		Description:   "A brief history of humankind.",
		PriceCents:    2499,
		GoogleBooksID: "1EiJAwAAQBAJ",
		Genres:        []string{"history"},
	},
	{
		ISBN:               "9780553293357",
		Title:              "Foundation",
		Author:             "Isaac Asimov",
		PriceCents:         1599,
		DiscountedCents:    cents(1199),
		DiscountPercentage: percent(25),
		Genres:             []string{"fiction", "science-fiction"},
	},
}

var recommendations = []recommendationSeed{
	{ProductName: "Foundation", Reason: "Readers of Dune often pick this up next"},
	{ProductName: "The Go Programming Language", Reason: "Currently on promotion"},
}

// Apply inserts catalogue and demo customer data for manual testing. It is
// idempotent via ON CONFLICT. bookSaved, when set, runs with the id of every
// upserted book.
func Apply(ctx context.Context, pool *pgxpool.Pool, bookSaved func(ctx context.Context, bookID string) error) error {
	for _, g := range genres {
		if err := upsertGenre(ctx, pool, g); err != nil {
			return fmt.Errorf("upsert genre %s: %w", g.Key, err)
		}
	}

	for _, b := range books {
		id, err := upsertBook(ctx, pool, b)
		if err != nil {
			return fmt.Errorf("upsert book %s: %w", b.ISBN, err)
		}
		if bookSaved != nil {
			if err := bookSaved(ctx, id); err != nil {
				return fmt.Errorf("after saving book %s: %w", b.ISBN, err)
			}
		}
	}

	customerID, err := ensureCustomer(ctx, pool)
	if err != nil {
		return fmt.Errorf("ensure demo customer: %w", err)
	}

	for _, r := range recommendations {
		if err := ensureRecommendation(ctx, pool, customerID, r); err != nil {
			return fmt.Errorf("recommendation %q: %w", r.ProductName, err)
		}
	}
	return nil
}

func upsertGenre(ctx context.Context, pool *pgxpool.Pool, g genreSeed) error {
	const q = `
INSERT INTO genres (key, name)
VALUES ($1, $2)
ON CONFLICT (key) DO UPDATE SET name = EXCLUDED.name
`
	_, err := pool.Exec(ctx, q, g.Key, g.Name)
	return err
}

func upsertBook(ctx context.Context, pool *pgxpool.Pool, b bookSeed) (string, error) {
	const q = `
INSERT INTO books (isbn, title, author, description, price_cents, discounted_price_cents,
                   discount_percentage, is_on_promotion, currency, google_books_id)
VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, $7, $8, 'USD', $9)
ON CONFLICT (isbn) DO UPDATE
SET title = EXCLUDED.title,
    author = EXCLUDED.author,
    description = EXCLUDED.description,
    price_cents = EXCLUDED.price_cents,
    discounted_price_cents = EXCLUDED.discounted_price_cents,
    discount_percentage = EXCLUDED.discount_percentage,
    is_on_promotion = EXCLUDED.is_on_promotion,
    google_books_id = EXCLUDED.google_books_id
RETURNING id::text
`
	var id string
	if err := pool.QueryRow(ctx, q,
		b.ISBN, b.Title, b.Author, b.Description, b.PriceCents,
		b.DiscountedCents, b.DiscountPercentage, b.DiscountedCents != nil, b.GoogleBooksID,
	).Scan(&id); err != nil {
		return "", err
	}

	for _, key := range b.Genres {
		if _, err := pool.Exec(ctx, `
INSERT INTO book_genres (book_id, genre_id)
SELECT $1::uuid, id FROM genres WHERE key = $2
ON CONFLICT DO NOTHING
`, id, key); err != nil {
			return "", fmt.Errorf("link genre %s: %w", key, err)
		}
	}
	return id, nil
}

func ensureCustomer(ctx context.Context, pool *pgxpool.Pool) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	const q = `
INSERT INTO customers (email, password_hash, first_name, last_name)
VALUES ($1, $2, 'Demo', 'Reader')
ON CONFLICT ((lower(email))) DO UPDATE SET password_hash = EXCLUDED.password_hash
RETURNING id::text
`
	var id string
	if err := pool.QueryRow(ctx, q, DemoEmail, string(hash)).Scan(&id); err != nil {
		return "", err
	}
	return id, nil
}

// recommendations has no natural key, so skip rows already present.
func ensureRecommendation(ctx context.Context, pool *pgxpool.Pool, customerID string, r recommendationSeed) error {
	const q = `
INSERT INTO recommendations (customer_id, product_name, recommendation_reason)
SELECT $1::uuid, $2::text, $3::text
WHERE NOT EXISTS (
    SELECT 1 FROM recommendations WHERE customer_id = $1::uuid AND product_name = $2::text
)
`
	_, err := pool.Exec(ctx, q, customerID, r.ProductName, r.Reason)
	return err
}
