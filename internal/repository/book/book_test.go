package book

import (
	"context"
	"os"
	"testing"

	"bookstore-storefront/internal/domain"
	"bookstore-storefront/internal/migrate"
	"github.com/jackc/pgx/v5/pgxpool"
)

func TestPostgres_UpsertGetSearch(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()

	if _, err := migrate.Apply(ctx, pool); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	resetTables(ctx, t, pool)

	if _, err := pool.Exec(ctx, `INSERT INTO genres (key, name) VALUES ('fiction', 'Fiction')`); err != nil {
		t.Fatalf("insert genre: %v", err)
	}

	repo := NewPostgres(pool, nil)
	discounted := int64(899)
	created, err := repo.Upsert(ctx, domain.Book{
		ISBN:                 "9780000000001",
		Title:                "The Long Shelf",
		Author:               "A. Reader",
		PriceCents:           1299,
		DiscountedPriceCents: &discounted,
		Currency:             "USD",
		Genres:               []string{"fiction"},
	})
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if created.ID == "" {
		t.Fatalf("expected id to be set")
	}

	got, err := repo.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Title != "The Long Shelf" || got.EffectivePriceCents() != 899 || len(got.Genres) != 1 {
		t.Fatalf("unexpected book %+v", got)
	}

	updated, err := repo.Upsert(ctx, domain.Book{ISBN: "9780000000001", Title: "The Longer Shelf", PriceCents: 1499, Currency: "USD"})
	if err != nil {
		t.Fatalf("Upsert update: %v", err)
	}
	if updated.ID != created.ID {
		t.Fatalf("expected same id after update")
	}

	found, err := repo.Search(ctx, "longer", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(found) != 1 || found[0].ID != created.ID {
		t.Fatalf("unexpected search result %+v", found)
	}

	if _, err := repo.GetByID(ctx, "00000000-0000-0000-0000-000000000000"); err != domain.ErrNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestEscapeLike(t *testing.T) {
	if got := escapeLike(`50%_off\`); got != `50\%\_off\\` {
		t.Fatalf("unexpected escape %q", got)
	}
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
	if _, err := pool.Exec(ctx, `TRUNCATE order_items, orders, cart_items, carts, book_genres, books, genres, tokens, customers RESTART IDENTITY CASCADE`); err != nil {
		t.Fatalf("truncate tables: %v", err)
	}
}
