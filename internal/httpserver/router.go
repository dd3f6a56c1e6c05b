package httpserver

import (
	"context"
	"errors"
	"io"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"bookstore-storefront/internal/domain"
	"bookstore-storefront/internal/remote"
	customersvc "bookstore-storefront/internal/service/customer"
	"bookstore-storefront/internal/session"
	"bookstore-storefront/internal/store/pointofsale"
)

type customerService interface {
	Signup(ctx context.Context, in customersvc.SignupInput) (*domain.Customer, error)
	Login(ctx context.Context, email, password string) (*domain.Customer, string, error)
	LookupByToken(ctx context.Context, token string) (*domain.Customer, error)
	SignOut(ctx context.Context, token string) error
	AccessTTLSeconds() int
}

type bookService interface {
	Search(ctx context.Context, query string, limit int) ([]domain.Book, error)
}

type genreService interface {
	List(ctx context.Context) ([]domain.Genre, error)
}

type bookQuery interface {
	Get(ctx context.Context, id string) remote.Result[domain.Book]
}

type bookDetailsQuery interface {
	Get(ctx context.Context, volumeID string) remote.Result[domain.BookDetails]
}

type sessionManager interface {
	Get(customerID string) *session.Session
	End(ctx context.Context, customerID string) error
}

type registerRegistry interface {
	Store(registerID string) *pointofsale.Store
	Lookup(registerID string) (*pointofsale.Store, bool)
}

type customersAPI interface {
	FetchAll(ctx context.Context) remote.Result[[]domain.CustomerRecord]
}

type salesAPI interface {
	Fetch(ctx context.Context, start, end string) remote.Result[[]domain.SalesRecord]
}

type recommendationsAPI interface {
	ForCustomer(ctx context.Context, customerID string) remote.Result[[]domain.Recommendation]
}

// Deps collects everything the router needs.
type Deps struct {
	CustomerSvc        customerService
	BookSvc            bookService
	GenreSvc           genreService
	Books              bookQuery
	BookDetails        bookDetailsQuery
	Sessions           sessionManager
	Registers          registerRegistry
	Customers          customersAPI
	Sales              salesAPI
	Recommendations    recommendationsAPI
	ReadyChecks        map[string]ReadyCheck
	CORSAllowedOrigins []string
}

func (d Deps) validate() error {
	switch {
	case d.CustomerSvc == nil:
		return errors.New("customer service is required")
	case d.BookSvc == nil, d.GenreSvc == nil:
		return errors.New("book and genre services are required")
	case d.Books == nil, d.BookDetails == nil:
		return errors.New("book queries are required")
	case d.Sessions == nil:
		return errors.New("session manager is required")
	case d.Registers == nil:
		return errors.New("register registry is required")
	case d.Customers == nil, d.Sales == nil, d.Recommendations == nil:
		return errors.New("crm apis are required")
	}
	return nil
}

type handlers struct {
	logger *logrus.Logger
	deps   Deps
}

// buildRouter wires routes for the API.
func buildRouter(logger *logrus.Logger, deps Deps) (*gin.Engine, error) {
	if err := deps.validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logrus.New()
		logger.SetOutput(io.Discard)
	}
	h := &handlers{logger: logger, deps: deps}

	router := gin.New()
	router.Use(requestLogger(logger), gin.Recovery())
	if len(deps.CORSAllowedOrigins) > 0 {
		cfg := cors.DefaultConfig()
		cfg.AllowOrigins = deps.CORSAllowedOrigins
		cfg.AllowHeaders = append(cfg.AllowHeaders, "Authorization")
		router.Use(cors.New(cfg))
	}

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(deps.ReadyChecks))

	auth := router.Group("/auth")
	auth.POST("/signup", h.signup)
	auth.POST("/login", h.login)
	auth.POST("/signout", h.requireCustomer(), h.signout)

	books := router.Group("/books", h.identifyCustomer(), h.recordVisit())
	books.GET("/:id", h.getBook)
	books.GET("/:id/details", h.getBookDetails)
	router.GET("/genres", h.listGenres)

	me := router.Group("/me", h.requireCustomer(), h.recordVisit())
	me.GET("", h.getMe)
	me.GET("/search", h.getSearch)
	me.PUT("/search", h.putSearch)
	me.DELETE("/search", h.deleteSearch)
	me.GET("/search/results", h.searchResults)
	me.GET("/cart", h.getCart)
	me.POST("/cart/items", h.addCartItem)
	me.PATCH("/cart/items/:bookId", h.updateCartItem)
	me.DELETE("/cart/items/:bookId", h.removeCartItem)

	reg := router.Group("/registers/:registerId/transaction")
	reg.POST("", h.initializeTransaction)
	reg.GET("", h.getTransaction)
	reg.DELETE("", h.clearTransaction)
	reg.POST("/items", h.addTransactionItem)
	reg.PATCH("/items/:itemId", h.updateTransactionItem)
	reg.DELETE("/items/:itemId", h.removeTransactionItem)
	reg.PATCH("/details", h.updateTransactionDetails)
	reg.POST("/complete", h.completeTransaction)

	crm := router.Group("/crm", h.requireCustomer())
	crm.GET("/customers", h.crmCustomers)
	crm.GET("/sales", h.crmSales)
	crm.GET("/customers/:customerId/recommendations", h.crmRecommendations)

	return router, nil
}
