// Package query memoizes remote reads keyed by identifier. Results are cached
// aside in a Cache and concurrent misses for one key share a single fetch.
package query

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"bookstore-storefront/internal/domain"
	"bookstore-storefront/internal/remote"
)

// Query caches successful fetch results for ttl. Failures are never cached.
type Query[T any] struct {
	name   string
	cache  Cache
	ttl    time.Duration
	fetch  func(ctx context.Context, key string) remote.Result[T]
	logger *logrus.Logger
	sfg    singleflight.Group
}

func New[T any](name string, cache Cache, ttl time.Duration, fetch func(ctx context.Context, key string) remote.Result[T], logger *logrus.Logger) *Query[T] {
	if logger == nil {
		logger = logrus.New()
		logger.SetOutput(io.Discard)
	}
	return &Query[T]{name: name, cache: cache, ttl: ttl, fetch: fetch, logger: logger}
}

// Get returns the cached value for key or fetches it. The shared fetch is
// detached from any one caller's cancellation; each caller stops waiting
// when its own ctx is done.
func (q *Query[T]) Get(ctx context.Context, key string) remote.Result[T] {
	ch := q.sfg.DoChan(key, func() (any, error) {
		fetchCtx := context.WithoutCancel(ctx)
		if cached, ok := q.lookup(fetchCtx, key); ok {
			return remote.Ok(cached), nil
		}
		res := q.fetch(fetchCtx, key)
		if res.IsOk() {
			q.store(fetchCtx, key, res.Value())
		}
		return res, nil
	})
	select {
	case r := <-ch:
		return r.Val.(remote.Result[T])
	case <-ctx.Done():
		return remote.Err[T](q.name, ctx.Err())
	}
}

// Invalidate drops the cached value for key so the next Get refetches.
func (q *Query[T]) Invalidate(ctx context.Context, key string) error {
	if q.cache == nil {
		return nil
	}
	return q.cache.Delete(ctx, q.cacheKey(key))
}

func (q *Query[T]) lookup(ctx context.Context, key string) (T, bool) {
	var zero T
	if q.cache == nil {
		return zero, false
	}
	data, err := q.cache.Get(ctx, q.cacheKey(key))
	if err != nil {
		if !errors.Is(err, ErrCacheMiss) {
			q.logger.WithError(err).WithFields(logrus.Fields{"query": q.name, "key": key}).Warn("query cache get failed")
		}
		return zero, false
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		q.logger.WithError(err).WithFields(logrus.Fields{"query": q.name, "key": key}).Warn("query cache entry unreadable")
		return zero, false
	}
	return v, true
}

func (q *Query[T]) store(ctx context.Context, key string, v T) {
	if q.cache == nil {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		q.logger.WithError(err).WithField("query", q.name).Warn("query result not encodable")
		return
	}
	if err := q.cache.Set(ctx, q.cacheKey(key), data, q.ttl); err != nil {
		q.logger.WithError(err).WithFields(logrus.Fields{"query": q.name, "key": key}).Warn("query cache set failed")
	}
}

func (q *Query[T]) cacheKey(key string) string {
	return q.name + ":" + key
}

type bookSource interface {
	FromDatabase(ctx context.Context, id string) remote.Result[domain.Book]
	Details(ctx context.Context, volumeID string) remote.Result[domain.BookDetails]
}

const bookQueryName = "book"

// BookQuery caches database book rows by book id.
func BookQuery(src bookSource, cache Cache, ttl time.Duration, logger *logrus.Logger) *Query[domain.Book] {
	return New[domain.Book](bookQueryName, cache, ttl, src.FromDatabase, logger)
}

// InvalidateBook drops the BookQuery entry for bookID. Writers outside the
// api process call it after changing a book row.
func InvalidateBook(ctx context.Context, cache Cache, bookID string) error {
	if cache == nil || bookID == "" {
		return nil
	}
	return cache.Delete(ctx, bookQueryName+":"+bookID)
}

// BookDetailsQuery caches Google Books metadata by volume id.
func BookDetailsQuery(src bookSource, cache Cache, ttl time.Duration, logger *logrus.Logger) *Query[domain.BookDetails] {
	return New[domain.BookDetails]("bookDetails", cache, ttl, src.Details, logger)
}
