package sales

import (
	"context"
	"os"
	"testing"
	"time"

	"bookstore-storefront/internal/domain"
	"bookstore-storefront/internal/migrate"
	orderrepo "bookstore-storefront/internal/repository/order"
	"github.com/jackc/pgx/v5/pgxpool"
)

func TestPostgres_FetchSalesThroughRPC(t *testing.T) {
	ctx := context.Background()
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	defer pool.Close()

	if _, err := migrate.Apply(ctx, pool); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	if _, err := pool.Exec(ctx, `TRUNCATE order_items, orders, cart_items, carts, book_genres, books, tokens, customers RESTART IDENTITY CASCADE`); err != nil {
		t.Fatalf("truncate tables: %v", err)
	}

	var bookID string
	if err := pool.QueryRow(ctx, `INSERT INTO books (isbn, title, price_cents) VALUES ('s-1', 'Sales Book', 1000) RETURNING id::text`).Scan(&bookID); err != nil {
		t.Fatalf("insert book: %v", err)
	}

	orders := orderrepo.NewPostgres(pool, nil)
	created, err := orders.Create(ctx, domain.Order{
		TransactionID:    "tx-1",
		Status:           domain.OrderStatusPending,
		TotalAmountCents: 2000,
		Currency:         "USD",
		Items: []domain.OrderItem{
			{BookID: bookID, Title: "Sales Book", Quantity: 2, OriginalPriceCents: 1000, FinalPriceCents: 2000},
		},
	})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	if _, err := orders.Create(ctx, domain.Order{TransactionID: "tx-1", Status: domain.OrderStatusPending, Currency: "USD"}); err != domain.ErrAlreadyExists {
		t.Fatalf("expected duplicate transaction to be rejected, got %v", err)
	}

	today := time.Now().UTC().Format("2006-01-02")
	repo := NewPostgres(pool, nil)
	rows, err := repo.Fetch(ctx, today, today)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 sales row, got %d", len(rows))
	}
	if rows[0]["total_amount_cents"] != int64(2000) {
		t.Fatalf("unexpected row %+v", rows[0])
	}

	got, err := orders.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if len(got.Items) != 1 || got.Items[0].Quantity != 2 {
		t.Fatalf("unexpected order %+v", got)
	}
}
