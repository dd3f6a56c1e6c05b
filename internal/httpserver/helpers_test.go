package httpserver

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"bookstore-storefront/internal/domain"
	"bookstore-storefront/internal/remote"
	customersvc "bookstore-storefront/internal/service/customer"
	"bookstore-storefront/internal/session"
	"bookstore-storefront/internal/store/pointofsale"
)

func logDiscard() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

type stubCustomerAuthSvc struct {
	customer   *domain.Customer
	loginErr   error
	signErr    error
	signedOut  []string
	validToken string
}

func (s *stubCustomerAuthSvc) Signup(_ context.Context, _ customersvc.SignupInput) (*domain.Customer, error) {
	return s.customer, s.signErr
}

func (s *stubCustomerAuthSvc) Login(_ context.Context, _, _ string) (*domain.Customer, string, error) {
	return s.customer, "access", s.loginErr
}

func (s *stubCustomerAuthSvc) LookupByToken(_ context.Context, token string) (*domain.Customer, error) {
	if s.customer == nil || token != s.validToken {
		return nil, customersvc.ErrInvalidToken
	}
	return s.customer, nil
}

func (s *stubCustomerAuthSvc) SignOut(_ context.Context, token string) error {
	s.signedOut = append(s.signedOut, token)
	return nil
}

func (s *stubCustomerAuthSvc) AccessTTLSeconds() int {
	return 3600
}

type stubBookService struct {
	books     []domain.Book
	lastQuery string
}

func (s *stubBookService) Search(_ context.Context, query string, _ int) ([]domain.Book, error) {
	s.lastQuery = query
	return s.books, nil
}

type stubGenreService struct{}

func (stubGenreService) List(_ context.Context) ([]domain.Genre, error) {
	return []domain.Genre{{ID: "g1", Key: "fantasy", Name: "Fantasy"}}, nil
}

type stubBookQuery struct {
	books map[string]domain.Book
}

func (s stubBookQuery) Get(_ context.Context, id string) remote.Result[domain.Book] {
	b, ok := s.books[id]
	if !ok {
		return remote.Err[domain.Book]("books.fromDatabase", domain.ErrNotFound)
	}
	return remote.Ok(b)
}

type stubDetailsQuery struct {
	err error
}

func (s stubDetailsQuery) Get(_ context.Context, id string) remote.Result[domain.BookDetails] {
	if s.err != nil {
		return remote.Err[domain.BookDetails]("books.details", s.err)
	}
	return remote.Ok(domain.BookDetails{ID: id, Title: "Dune", PageCount: 412})
}

type stubCarts struct {
	cart *domain.Cart
}

func (s *stubCarts) GetOrCreateActive(_ context.Context, customerID, currency string) (*domain.Cart, error) {
	if s.cart == nil {
		s.cart = &domain.Cart{ID: "cart-1", CustomerID: customerID, Currency: currency}
	}
	return s.cart, nil
}

func (s *stubCarts) AddItem(_ context.Context, _, _, bookID string, quantity int) (*domain.Cart, error) {
	if quantity <= 0 {
		return nil, domain.ErrInvalidQuantity
	}
	s.cart.Items = append(s.cart.Items, domain.CartItem{BookID: bookID, Quantity: quantity, UnitPriceCents: 1000})
	return s.cart, nil
}

func (s *stubCarts) UpdateQuantity(_ context.Context, _, _, bookID string, quantity int) (*domain.Cart, error) {
	for i := range s.cart.Items {
		if s.cart.Items[i].BookID == bookID {
			s.cart.Items[i].Quantity = quantity
			return s.cart, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *stubCarts) RemoveItem(_ context.Context, _, _, bookID string) (*domain.Cart, error) {
	items := s.cart.Items[:0]
	for _, it := range s.cart.Items {
		if it.BookID != bookID {
			items = append(items, it)
		}
	}
	s.cart.Items = items
	return s.cart, nil
}

type stubOrders struct {
	created []domain.Order
	err     error
}

func (s *stubOrders) Create(_ context.Context, o domain.Order) (*domain.Order, error) {
	if s.err != nil {
		return nil, s.err
	}
	o.ID = "order-1"
	s.created = append(s.created, o)
	return &o, nil
}

type stubCustomersAPI struct {
	err error
}

func (s stubCustomersAPI) FetchAll(_ context.Context) remote.Result[[]domain.CustomerRecord] {
	if s.err != nil {
		return remote.Err[[]domain.CustomerRecord]("customers.fetchAll", s.err)
	}
	return remote.Ok([]domain.CustomerRecord{{"id": "c1", "email": "a@example.com"}})
}

type stubSalesAPI struct{}

func (stubSalesAPI) Fetch(_ context.Context, start, end string) remote.Result[[]domain.SalesRecord] {
	if start > end {
		return remote.Err[[]domain.SalesRecord]("sales.fetch", domain.ErrValidation)
	}
	return remote.Ok([]domain.SalesRecord{{"total_amount_cents": 2000}})
}

type stubRecommendationsAPI struct{}

func (stubRecommendationsAPI) ForCustomer(_ context.Context, customerID string) remote.Result[[]domain.Recommendation] {
	return remote.Ok([]domain.Recommendation{{ID: "r1", ProductName: "Dune", RecommendationReason: "for " + customerID}})
}

type testEnv struct {
	router    *gin.Engine
	auth      *stubCustomerAuthSvc
	books     *stubBookService
	orders    *stubOrders
	registers *pointofsale.Registry
	sessions  *session.Manager
	storage   *session.Storage
	mr        *miniredis.Miniredis
}

func discount(v int64) *int64 { return &v }

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	storage := session.NewStorage(client, time.Hour)
	sessions := session.NewManager(storage, &stubCarts{}, "USD", logDiscard())
	orders := &stubOrders{}
	env := &testEnv{
		auth: &stubCustomerAuthSvc{
			customer:   &domain.Customer{ID: "cust-id", Email: "me@example.com"},
			validToken: "token",
		},
		books:     &stubBookService{books: []domain.Book{{ID: "B1", Title: "Dune"}}},
		orders:    orders,
		registers: pointofsale.NewRegistry(orders, "USD"),
		sessions:  sessions,
		storage:   storage,
		mr:        mr,
	}

	router, err := buildRouter(logDiscard(), Deps{
		CustomerSvc: env.auth,
		BookSvc:     env.books,
		GenreSvc:    stubGenreService{},
		Books: stubBookQuery{books: map[string]domain.Book{
			"B1": {ID: "B1", Title: "Dune", PriceCents: 1000, GoogleBooksID: "vol-1"},
			"B2": {ID: "B2", Title: "Emma", PriceCents: 1000, DiscountedPriceCents: discount(700)},
		}},
		BookDetails:     stubDetailsQuery{},
		Sessions:        sessions,
		Registers:       env.registers,
		Customers:       stubCustomersAPI{},
		Sales:           stubSalesAPI{},
		Recommendations: stubRecommendationsAPI{},
		ReadyChecks: map[string]ReadyCheck{
			"redis": func(ctx context.Context) error { return client.Ping(ctx).Err() },
		},
	})
	if err != nil {
		t.Fatalf("build router: %v", err)
	}
	env.router = router
	return env
}

func (e *testEnv) do(method, path, body string, authed bool) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed {
		req.Header.Set("Authorization", "Bearer token")
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func expectStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("expected %d, got %d body=%s", want, rec.Code, rec.Body.String())
	}
}

var errBoom = errors.New("boom")
