package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"bookstore-storefront/internal/config"
	"bookstore-storefront/internal/db"
	"bookstore-storefront/internal/domain"
	"bookstore-storefront/internal/importer"
	"bookstore-storefront/internal/logging"
	"bookstore-storefront/internal/query"
	bookrepo "bookstore-storefront/internal/repository/book"
	genrerepo "bookstore-storefront/internal/repository/genre"
	genresvc "bookstore-storefront/internal/service/genre"
)

func main() {
	var (
		filePath string
		currency string
	)
	flag.StringVar(&filePath, "file", "", "Path to the book catalogue CSV")
	flag.StringVar(&currency, "currency", "USD", "Currency for rows without one")
	flag.Parse()

	if filePath == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg := config.Load()
	logger := logging.New("importer", cfg.LogLevel)
	ctx := context.Background()

	pool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.WithError(err).Fatal("connect db")
	}
	defer pool.Close()

	f, err := os.Open(filePath)
	if err != nil {
		logger.WithError(err).Fatal("open file")
	}
	defer f.Close()

	imp := importer.NewCSVImporter(f,
		bookrepo.NewPostgres(pool, logger),
		genresvc.New(genrerepo.NewPostgres(pool)),
		currency,
	)

	// The api process caches book rows; drop stale copies so new prices show up at once.
	if redisClient, err := db.ConnectRedis(ctx, cfg.RedisURL); err != nil {
		logger.WithError(err).Warn("redis unavailable, cached books expire by ttl")
	} else {
		defer redisClient.Close()
		cache := query.NewRedisCache(redisClient, "query")
		imp.OnBookSaved(func(ctx context.Context, b *domain.Book) error {
			return query.InvalidateBook(ctx, cache, b.ID)
		})
	}

	start := time.Now()
	count, err := imp.Run(ctx)
	if err != nil {
		logger.WithError(err).WithField("imported", count).Fatal("import failed")
	}

	logger.WithFields(logrus.Fields{
		"imported": count,
		"file":     filePath,
		"took":     time.Since(start).Truncate(time.Millisecond).String(),
	}).Info("import finished")
}
