package api

import (
	"context"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookstore-storefront/internal/domain"
	"bookstore-storefront/internal/remote"
)

type stubBookRepo struct {
	book *domain.Book
	err  error
}

func (s stubBookRepo) GetByID(ctx context.Context, id string) (*domain.Book, error) {
	return s.book, s.err
}

type stubVolumes struct {
	details domain.BookDetails
	err     error
	calls   int
}

func (s *stubVolumes) GetVolume(ctx context.Context, id string) (domain.BookDetails, error) {
	s.calls++
	return s.details, s.err
}

type stubCustomers struct {
	rows []domain.CustomerRecord
	err  error
}

func (s stubCustomers) FetchAll(ctx context.Context) ([]domain.CustomerRecord, error) {
	return s.rows, s.err
}

type stubSales struct {
	calls      int
	start, end string
}

func (s *stubSales) Fetch(ctx context.Context, start, end string) ([]domain.SalesRecord, error) {
	s.calls++
	s.start, s.end = start, end
	return []domain.SalesRecord{{"total_amount_cents": int64(1500)}}, nil
}

type stubRecommendations struct {
	recs []domain.Recommendation
}

func (s stubRecommendations) ListByCustomer(ctx context.Context, customerID string) ([]domain.Recommendation, error) {
	return s.recs, nil
}

func TestBooks_FromDatabase(t *testing.T) {
	books := NewBooks(stubBookRepo{book: &domain.Book{ID: "b1", Title: "Dune", PriceCents: 1000}}, &stubVolumes{}, nil)

	res := books.FromDatabase(context.Background(), "b1")
	require.True(t, res.IsOk())
	assert.Equal(t, "Dune", res.Value().Title)
}

func TestBooks_FromDatabaseNotFoundKeepsCause(t *testing.T) {
	logger, hook := logtest.NewNullLogger()
	books := NewBooks(stubBookRepo{err: domain.ErrNotFound}, &stubVolumes{}, logger)

	res := books.FromDatabase(context.Background(), "missing")
	require.False(t, res.IsOk())
	assert.True(t, errors.Is(res.Err(), domain.ErrNotFound))
	assert.True(t, remote.IsRemote(res.Err()))

	require.Len(t, hook.Entries, 1)
	assert.Equal(t, logrus.ErrorLevel, hook.LastEntry().Level)
	assert.Equal(t, OpBookFromDatabase, hook.LastEntry().Data["op"])
}

func TestBooks_DetailsSingleCall(t *testing.T) {
	volumes := &stubVolumes{details: domain.BookDetails{ID: "vol", Title: "Dune"}}
	books := NewBooks(stubBookRepo{}, volumes, nil)

	res := books.Details(context.Background(), "vol")
	require.True(t, res.IsOk())
	assert.Equal(t, "Dune", res.Value().Title)
	assert.Equal(t, 1, volumes.calls)
}

func TestCustomers_FetchAllFailureIsDistinguishable(t *testing.T) {
	logger, hook := logtest.NewNullLogger()
	cause := errors.New("permission denied for function rls_fetch_customers")
	customers := NewCustomers(stubCustomers{err: cause}, logger)

	res := customers.FetchAll(context.Background())
	require.False(t, res.IsOk())

	var re *remote.Error
	require.True(t, errors.As(res.Err(), &re))
	assert.Equal(t, OpCustomersFetchAll, re.Op)
	assert.ErrorIs(t, res.Err(), cause)
	assert.Nil(t, res.Value())
	assert.Len(t, hook.Entries, 1)
}

func TestCustomers_FetchAllEmptyIsSuccess(t *testing.T) {
	customers := NewCustomers(stubCustomers{rows: []domain.CustomerRecord{}}, nil)

	res := customers.FetchAll(context.Background())
	require.True(t, res.IsOk())
	assert.Empty(t, res.Value())
}

func TestSales_FetchValidatesDates(t *testing.T) {
	cases := []struct {
		name, start, end string
	}{
		{"bad start", "2024/01/01", "2024-01-31"},
		{"bad end", "2024-01-01", "31-01-2024"},
		{"reversed", "2024-02-01", "2024-01-31"},
		{"empty", "", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := &stubSales{}
			res := NewSales(repo, nil).Fetch(context.Background(), tc.start, tc.end)
			require.False(t, res.IsOk())
			assert.ErrorIs(t, res.Err(), domain.ErrValidation)
			assert.Equal(t, 0, repo.calls)
		})
	}
}

func TestSales_FetchPassesRangeThrough(t *testing.T) {
	repo := &stubSales{}
	res := NewSales(repo, nil).Fetch(context.Background(), "2024-01-01", "2024-01-01")
	require.True(t, res.IsOk())
	assert.Equal(t, 1, repo.calls)
	assert.Equal(t, "2024-01-01", repo.start)
	assert.Equal(t, int64(1500), res.Value()[0]["total_amount_cents"])
}

func TestRecommendations_ForCustomer(t *testing.T) {
	recs := []domain.Recommendation{{ID: "r1", ProductName: "Dune", RecommendationReason: "Liked sci-fi"}}
	res := NewRecommendations(stubRecommendations{recs: recs}, nil).ForCustomer(context.Background(), "c1")
	require.True(t, res.IsOk())
	assert.Equal(t, recs, res.Value())
}
