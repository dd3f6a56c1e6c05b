package main

import (
	"context"

	"bookstore-storefront/internal/config"
	"bookstore-storefront/internal/db"
	"bookstore-storefront/internal/logging"
	"bookstore-storefront/internal/query"
	"bookstore-storefront/internal/seed"
)

func main() {
	cfg := config.Load()
	logger := logging.New("seed", cfg.LogLevel)

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.WithError(err).Fatal("connect db")
	}
	defer pool.Close()

	var bookSaved func(ctx context.Context, bookID string) error
	if redisClient, err := db.ConnectRedis(ctx, cfg.RedisURL); err != nil {
		logger.WithError(err).Warn("redis unavailable, cached books expire by ttl")
	} else {
		defer redisClient.Close()
		cache := query.NewRedisCache(redisClient, "query")
		bookSaved = func(ctx context.Context, bookID string) error {
			return query.InvalidateBook(ctx, cache, bookID)
		}
	}

	if err := seed.Apply(ctx, pool, bookSaved); err != nil {
		logger.WithError(err).Fatal("seed apply")
	}

	logger.WithField("email", seed.DemoEmail).Info("seed applied")
}
