package importer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"bookstore-storefront/internal/domain"
)

type stubBookRepo struct {
	items []domain.Book
	err   error
}

type stubGenreRepo struct {
	items []domain.Genre
}

func (s *stubBookRepo) Upsert(_ context.Context, b domain.Book) (*domain.Book, error) {
	if s.err != nil {
		return nil, s.err
	}
	b.ID = "id-" + b.ISBN
	s.items = append(s.items, b)
	return &b, nil
}

func (s *stubGenreRepo) Upsert(_ context.Context, g domain.Genre) (*domain.Genre, error) {
	s.items = append(s.items, g)
	return &g, nil
}

func TestCSVImporter_Run(t *testing.T) {
	csvData := `isbn,title,author,description,price_cents,discounted_price_cents,discount_percentage,currency,cover_url,google_books_id,genres
978-0441172719,Dune,Frank Herbert,Spice,1899,,,,https://img/dune.jpg,B1hSG45JCX4C,Fiction;Science Fiction
,,,,,,,,,,Classics
9780553293357,Foundation,Isaac Asimov,,1599,1199,25,eur,,,science fiction`

	books := &stubBookRepo{}
	genres := &stubGenreRepo{}
	imp := NewCSVImporter(strings.NewReader(csvData), books, genres, "usd")

	count, err := imp.Run(context.Background())
	if err != nil {
		t.Fatalf("import run: %v", err)
	}
	if count != 2 || len(books.items) != 2 {
		t.Fatalf("expected 2 books imported, got %d (%d saved)", count, len(books.items))
	}

	dune := books.items[0]
	if dune.ISBN != "9780441172719" || dune.Title != "Dune" || dune.PriceCents != 1899 || dune.Currency != "USD" {
		t.Fatalf("unexpected first book: %+v", dune)
	}
	if dune.IsOnPromotion || dune.DiscountedPriceCents != nil {
		t.Fatalf("expected no discount on first book: %+v", dune)
	}
	if len(dune.Genres) != 3 || dune.Genres[0] != "fiction" || dune.Genres[1] != "science-fiction" || dune.Genres[2] != "classics" {
		t.Fatalf("expected continuation genre to be appended, got %v", dune.Genres)
	}

	foundation := books.items[1]
	if foundation.DiscountedPriceCents == nil || *foundation.DiscountedPriceCents != 1199 || !foundation.IsOnPromotion {
		t.Fatalf("expected discount on second book: %+v", foundation)
	}
	if foundation.DiscountPercentage == nil || *foundation.DiscountPercentage != 25 || foundation.Currency != "EUR" {
		t.Fatalf("unexpected discount fields: %+v", foundation)
	}

	// science-fiction is written once even though two books carry it.
	if len(genres.items) != 3 {
		t.Fatalf("expected 3 genre upserts, got %d: %+v", len(genres.items), genres.items)
	}
}

func TestCSVImporter_RejectsBadRows(t *testing.T) {
	tests := map[string]string{
		"missing title":     "isbn,title,price_cents\n123,,100",
		"negative price":    "isbn,title,price_cents\n123,T,-5",
		"not a number":      "isbn,title,price_cents\n123,T,ten",
		"discount too high": "isbn,title,price_cents,discounted_price_cents\n123,T,100,200",
		"bad percentage":    "isbn,title,price_cents,discount_percentage\n123,T,100,150",
		"no isbn column":    "title,price_cents\nT,100",
	}
	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			imp := NewCSVImporter(strings.NewReader(data), &stubBookRepo{}, &stubGenreRepo{}, "")
			if _, err := imp.Run(context.Background()); !errors.Is(err, domain.ErrValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestCSVImporter_StopsOnWriteError(t *testing.T) {
	data := "isbn,title,price_cents\n1,A,100\n2,B,200"
	boom := errors.New("boom")
	imp := NewCSVImporter(strings.NewReader(data), &stubBookRepo{err: boom}, &stubGenreRepo{}, "")

	count, err := imp.Run(context.Background())
	if !errors.Is(err, boom) {
		t.Fatalf("expected write error, got %v", err)
	}
	if count != 0 {
		t.Fatalf("expected nothing imported, got %d", count)
	}
}

func TestCSVImporter_OnBookSaved(t *testing.T) {
	data := "isbn,title,price_cents\n1,A,100\n2,B,200"
	imp := NewCSVImporter(strings.NewReader(data), &stubBookRepo{}, &stubGenreRepo{}, "")

	var saved []string
	imp.OnBookSaved(func(_ context.Context, b *domain.Book) error {
		saved = append(saved, b.ID)
		return nil
	})
	if _, err := imp.Run(context.Background()); err != nil {
		t.Fatalf("import run: %v", err)
	}
	if len(saved) != 2 || saved[0] != "id-1" || saved[1] != "id-2" {
		t.Fatalf("expected callback per saved book, got %v", saved)
	}

	boom := errors.New("cache down")
	imp = NewCSVImporter(strings.NewReader(data), &stubBookRepo{}, &stubGenreRepo{}, "")
	imp.OnBookSaved(func(context.Context, *domain.Book) error { return boom })
	if _, err := imp.Run(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("expected callback error, got %v", err)
	}
}
