package cart

import (
	"context"
	"errors"
	"os"
	"testing"

	"bookstore-storefront/internal/domain"
	"bookstore-storefront/internal/migrate"
	"github.com/jackc/pgx/v5/pgxpool"
)

func TestPostgres_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()

	if _, err := migrate.Apply(ctx, pool); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	resetTables(ctx, t, pool)
	customerID := insertCustomer(ctx, t, pool)

	repo := NewPostgres(pool)
	created, err := repo.Create(ctx, CreateCartInput{CustomerID: customerID, Currency: "USD"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.CustomerID != customerID || created.Currency != "USD" || created.State != "active" {
		t.Fatalf("unexpected cart %+v", created)
	}

	active, err := repo.GetActiveByCustomer(ctx, customerID)
	if err != nil {
		t.Fatalf("GetActiveByCustomer: %v", err)
	}
	if active.ID != created.ID {
		t.Fatalf("expected active cart %s, got %s", created.ID, active.ID)
	}
}

func TestPostgres_ItemsKeepInsertionOrder(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()

	if _, err := migrate.Apply(ctx, pool); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	resetTables(ctx, t, pool)
	customerID := insertCustomer(ctx, t, pool)
	b1 := insertBook(ctx, t, pool, "isbn-1", "Zebra Tales", 1000)
	b2 := insertBook(ctx, t, pool, "isbn-2", "Apple Stories", 500)

	repo := NewPostgres(pool)
	cart, err := repo.Create(ctx, CreateCartInput{CustomerID: customerID, Currency: "USD"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := repo.AddItem(ctx, cart.ID, b1, 1); err != nil {
		t.Fatalf("AddItem b1: %v", err)
	}
	if err := repo.AddItem(ctx, cart.ID, b2, 2); err != nil {
		t.Fatalf("AddItem b2: %v", err)
	}
	if err := repo.AddItem(ctx, cart.ID, b1, 2); err != nil {
		t.Fatalf("AddItem b1 again: %v", err)
	}

	reloaded, err := repo.GetByID(ctx, cart.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if len(reloaded.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(reloaded.Items))
	}
	if reloaded.Items[0].BookID != b1.ID || reloaded.Items[0].Quantity != 3 {
		t.Fatalf("expected merged first item, got %+v", reloaded.Items[0])
	}
	if reloaded.Items[1].BookID != b2.ID {
		t.Fatalf("expected second item b2, got %+v", reloaded.Items[1])
	}
	if reloaded.TotalCents() != 4000 {
		t.Fatalf("expected total 4000, got %d", reloaded.TotalCents())
	}

	if err := repo.ChangeItemQuantity(ctx, cart.ID, b1.ID, 0); err != nil {
		t.Fatalf("ChangeItemQuantity to 0: %v", err)
	}
	if err := repo.RemoveItem(ctx, cart.ID, b1.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found after removal, got %v", err)
	}
	if err := repo.Clear(ctx, cart.ID); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	empty, err := repo.GetByID(ctx, cart.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if len(empty.Items) != 0 {
		t.Fatalf("expected empty cart, got %+v", empty.Items)
	}
}

func insertCustomer(ctx context.Context, t *testing.T, pool *pgxpool.Pool) string {
	t.Helper()
	var id string
	if err := pool.QueryRow(ctx, `INSERT INTO customers (email, password_hash) VALUES ('cart@example.com', 'x') RETURNING id::text`).Scan(&id); err != nil {
		t.Fatalf("insert customer: %v", err)
	}
	return id
}

func insertBook(ctx context.Context, t *testing.T, pool *pgxpool.Pool, isbn, title string, price int64) domain.Book {
	t.Helper()
	b := domain.Book{ISBN: isbn, Title: title, PriceCents: price, Currency: "USD"}
	if err := pool.QueryRow(ctx, `INSERT INTO books (isbn, title, price_cents) VALUES ($1, $2, $3) RETURNING id::text`, isbn, title, price).Scan(&b.ID); err != nil {
		t.Fatalf("insert book: %v", err)
	}
	return b
}

func testPool(ctx context.Context, t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	return pool
}

func resetTables(ctx context.Context, t *testing.T, pool *pgxpool.Pool) {
	t.Helper()
	if _, err := pool.Exec(ctx, `TRUNCATE order_items, orders, cart_items, carts, book_genres, books, tokens, customers RESTART IDENTITY CASCADE`); err != nil {
		t.Fatalf("truncate tables: %v", err)
	}
}
