package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"bookstore-storefront/internal/domain"
	genresvc "bookstore-storefront/internal/service/genre"
)

type BookWriter interface {
	Upsert(ctx context.Context, b domain.Book) (*domain.Book, error)
}

type GenreWriter interface {
	Upsert(ctx context.Context, g domain.Genre) (*domain.Genre, error)
}

// CSVImporter reads catalogue CSV files and inserts/updates books keyed by ISBN.
//
// Expected headers: isbn, title, author, description, price_cents,
// discounted_price_cents, discount_percentage, currency, cover_url,
// google_books_id, genres. Genres are separated by ';'. A row with an empty
// isbn carries extra genres for the book above it.
type CSVImporter struct {
	reader   *csv.Reader
	books    BookWriter
	genres   GenreWriter
	currency string
	seen     map[string]bool
	onSaved  func(ctx context.Context, b *domain.Book) error
}

func NewCSVImporter(r io.Reader, books BookWriter, genres GenreWriter, currency string) *CSVImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas
	if currency == "" {
		currency = "USD"
	}
	return &CSVImporter{
		reader:   csvr,
		books:    books,
		genres:   genres,
		currency: strings.ToUpper(currency),
		seen:     map[string]bool{},
	}
}

// OnBookSaved registers fn to run after every successful book upsert, e.g.
// to drop cached copies of the row. An error from fn fails the run.
func (i *CSVImporter) OnBookSaved(fn func(ctx context.Context, b *domain.Book) error) {
	i.onSaved = fn
}

type csvRow struct {
	line       int
	book       domain.Book
	genreNames []string
}

// Run parses CSV rows and upserts one book per isbn row. It returns the
// number of books written before any error.
func (i *CSVImporter) Run(ctx context.Context) (int, error) {
	headers, err := i.reader.Read()
	if err != nil {
		return 0, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)
	if _, ok := index["isbn"]; !ok {
		return 0, fmt.Errorf("%w: missing isbn column", domain.ErrValidation)
	}

	var (
		current  *csvRow
		imported int
		line     = 1
	)

	for {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return imported, fmt.Errorf("read row: %w", err)
		}
		line++

		row, err := parseRow(record, index, line)
		if err != nil {
			return imported, err
		}
		if row == nil {
			continue
		}

		if row.book.ISBN != "" {
			if current != nil {
				if err := i.save(ctx, current); err != nil {
					return imported, err
				}
				imported++
			}
			current = row
			continue
		}

		if current != nil {
			current.genreNames = append(current.genreNames, row.genreNames...)
		}
	}

	if current != nil {
		if err := i.save(ctx, current); err != nil {
			return imported, err
		}
		imported++
	}

	return imported, nil
}

func (i *CSVImporter) save(ctx context.Context, row *csvRow) error {
	b := row.book
	if b.Title == "" || b.PriceCents <= 0 {
		return fmt.Errorf("%w: line %d: isbn %q needs a title and a positive price", domain.ErrValidation, row.line, b.ISBN)
	}
	if b.DiscountedPriceCents != nil && *b.DiscountedPriceCents > b.PriceCents {
		return fmt.Errorf("%w: line %d: discounted price above list price for isbn %q", domain.ErrValidation, row.line, b.ISBN)
	}
	if b.Currency == "" {
		b.Currency = i.currency
	}
	b.IsOnPromotion = b.DiscountedPriceCents != nil

	keys := make([]string, 0, len(row.genreNames))
	for _, name := range row.genreNames {
		key := genresvc.Key(name)
		if key == "" || contains(keys, key) {
			continue
		}
		if !i.seen[key] {
			if _, err := i.genres.Upsert(ctx, domain.Genre{Key: key, Name: name}); err != nil {
				return fmt.Errorf("upsert genre %q: %w", key, err)
			}
			i.seen[key] = true
		}
		keys = append(keys, key)
	}
	b.Genres = keys

	saved, err := i.books.Upsert(ctx, b)
	if err != nil {
		return fmt.Errorf("upsert book %q: %w", b.ISBN, err)
	}
	if i.onSaved != nil {
		if err := i.onSaved(ctx, saved); err != nil {
			return fmt.Errorf("after saving book %q: %w", b.ISBN, err)
		}
	}
	return nil
}

func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	return idx
}

func parseRow(record []string, index map[string]int, line int) (*csvRow, error) {
	isbn := strings.ReplaceAll(pick(record, index, "isbn"), "-", "")
	genres := splitGenres(pick(record, index, "genres"))

	if isbn == "" && len(genres) == 0 {
		return nil, nil
	}
	row := &csvRow{line: line, genreNames: genres}
	if isbn == "" {
		return row, nil
	}

	price, err := parseCents(pick(record, index, "price_cents"))
	if err != nil {
		return nil, fmt.Errorf("%w: line %d: price_cents: %v", domain.ErrValidation, line, err)
	}

	row.book = domain.Book{
		ISBN:          isbn,
		Title:         pick(record, index, "title"),
		Author:        pick(record, index, "author"),
		Description:   pick(record, index, "description"),
		PriceCents:    price,
		Currency:      strings.ToUpper(pick(record, index, "currency")),
		CoverURL:      pick(record, index, "cover_url"),
		GoogleBooksID: pick(record, index, "google_books_id"),
	}

	if v := pick(record, index, "discounted_price_cents"); v != "" {
		discounted, err := parseCents(v)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: discounted_price_cents: %v", domain.ErrValidation, line, err)
		}
		row.book.DiscountedPriceCents = &discounted
	}
	if v := pick(record, index, "discount_percentage"); v != "" {
		pct, err := strconv.ParseFloat(v, 64)
		if err != nil || pct < 0 || pct > 100 {
			return nil, fmt.Errorf("%w: line %d: discount_percentage %q", domain.ErrValidation, line, v)
		}
		row.book.DiscountPercentage = &pct
	}
	return row, nil
}

func parseCents(v string) (int64, error) {
	if v == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fmt.Errorf("negative amount %d", n)
	}
	return n, nil
}

func splitGenres(v string) []string {
	if v == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(v, ";") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

func pick(record []string, index map[string]int, key string) string {
	pos, ok := index[key]
	if !ok || pos >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[pos])
}
