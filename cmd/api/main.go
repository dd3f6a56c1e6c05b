package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"bookstore-storefront/internal/api"
	"bookstore-storefront/internal/config"
	"bookstore-storefront/internal/db"
	"bookstore-storefront/internal/googlebooks"
	"bookstore-storefront/internal/httpserver"
	"bookstore-storefront/internal/logging"
	"bookstore-storefront/internal/query"
	bookrepo "bookstore-storefront/internal/repository/book"
	cartrepo "bookstore-storefront/internal/repository/cart"
	customerrepo "bookstore-storefront/internal/repository/customer"
	genrerepo "bookstore-storefront/internal/repository/genre"
	orderrepo "bookstore-storefront/internal/repository/order"
	recommendationrepo "bookstore-storefront/internal/repository/recommendation"
	salesrepo "bookstore-storefront/internal/repository/sales"
	tokenrepo "bookstore-storefront/internal/repository/token"
	booksvc "bookstore-storefront/internal/service/book"
	cartsvc "bookstore-storefront/internal/service/cart"
	customersvc "bookstore-storefront/internal/service/customer"
	genresvc "bookstore-storefront/internal/service/genre"
	"bookstore-storefront/internal/session"
	"bookstore-storefront/internal/store/pointofsale"
)

const currency = "USD"

func main() {
	cfg := config.Load()
	logger := logging.New("api", cfg.LogLevel)

	ctx := context.Background()
	dbpool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.WithError(err).Fatal("connect to db")
	}
	defer dbpool.Close()

	redisClient, err := db.ConnectRedis(ctx, cfg.RedisURL)
	if err != nil {
		logger.WithError(err).Fatal("connect to redis")
	}
	defer redisClient.Close()

	bookRepo := bookrepo.NewPostgres(dbpool, logger)
	cartRepo := cartrepo.NewPostgres(dbpool)
	customerRepo := customerrepo.NewPostgres(dbpool, logger)
	genreRepo := genrerepo.NewPostgres(dbpool)
	orderRepo := orderrepo.NewPostgres(dbpool, logger)
	salesRepo := salesrepo.NewPostgres(dbpool, logger)
	recommendationRepo := recommendationrepo.NewPostgres(dbpool)
	tokenRepo := tokenrepo.NewPostgres(dbpool, logger)

	customerService := customersvc.New(customerRepo, tokenRepo, cfg.SessionTTL)
	cartService := cartsvc.New(cartRepo, bookRepo)
	bookService := booksvc.New(bookRepo)
	genreService := genresvc.New(genreRepo)

	volumes, err := googlebooks.New(cfg.GoogleBooksBaseURL,
		googlebooks.WithAPIKey(cfg.GoogleBooksAPIKey),
		googlebooks.WithTimeout(cfg.GoogleBooksTimeout),
	)
	if err != nil {
		logger.WithError(err).Fatal("init google books client")
	}
	booksAPI := api.NewBooks(bookRepo, volumes, logger)

	cache := query.NewRedisCache(redisClient, "query")
	storage := session.NewStorage(redisClient, cfg.SessionTTL)

	srv, err := httpserver.New(cfg.HTTPAddr, logger, httpserver.Deps{
		CustomerSvc:     customerService,
		BookSvc:         bookService,
		GenreSvc:        genreService,
		Books:           query.BookQuery(booksAPI, cache, cfg.QueryCacheTTL, logger),
		BookDetails:     query.BookDetailsQuery(booksAPI, cache, cfg.QueryCacheTTL, logger),
		Sessions:        session.NewManager(storage, cartService, currency, logger),
		Registers:       pointofsale.NewRegistry(orderRepo, currency),
		Customers:       api.NewCustomers(customerRepo, logger),
		Sales:           api.NewSales(salesRepo, logger),
		Recommendations: api.NewRecommendations(recommendationRepo, logger),
		ReadyChecks: map[string]httpserver.ReadyCheck{
			"postgres": dbpool.Ping,
			"redis": func(ctx context.Context) error {
				return redisClient.Ping(ctx).Err()
			},
		},
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
	})
	if err != nil {
		logger.WithError(err).Fatal("init server")
	}

	serverErr := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.WithField("signal", sig.String()).Info("shutting down")
	case err := <-serverErr:
		logger.WithError(err).Error("server error")
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.WithError(err).Error("graceful shutdown failed")
	} else {
		logger.Info("server stopped")
	}
}
