package main

import (
	"context"
	"flag"

	"bookstore-storefront/internal/config"
	"bookstore-storefront/internal/db"
	"bookstore-storefront/internal/logging"
	"bookstore-storefront/internal/migrate"
)

func main() {
	var down bool
	flag.BoolVar(&down, "down", false, "Revert the most recent migration instead of applying all")
	flag.Parse()

	cfg := config.Load()
	logger := logging.New("migrate", cfg.LogLevel)

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.WithError(err).Fatal("connect db")
	}
	defer pool.Close()

	if down {
		if err := migrate.Rollback(ctx, pool); err != nil {
			logger.WithError(err).Fatal("rollback migration")
		}
		logger.Info("rolled back one migration")
		return
	}

	version, err := migrate.Apply(ctx, pool)
	if err != nil {
		logger.WithError(err).Fatal("apply migrations")
	}
	logger.WithField("version", version).Info("migrations applied")
}
