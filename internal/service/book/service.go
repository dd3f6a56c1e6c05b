package book

import (
	"context"
	"strings"

	"bookstore-storefront/internal/domain"
	bookrepo "bookstore-storefront/internal/repository/book"
)

const (
	defaultSearchLimit = 20
	maxSearchLimit     = 100
)

type Service struct {
	repo bookrepo.Repository
}

func New(repo bookrepo.Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Book, error) {
	return s.repo.GetByID(ctx, id)
}

// Search matches query against title, author and isbn. A blank query returns
// no rows rather than the whole catalogue.
func (s *Service) Search(ctx context.Context, query string, limit int) ([]domain.Book, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []domain.Book{}, nil
	}
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	if limit > maxSearchLimit {
		limit = maxSearchLimit
	}
	return s.repo.Search(ctx, query, limit)
}

func (s *Service) Upsert(ctx context.Context, b domain.Book) (*domain.Book, error) {
	return s.repo.Upsert(ctx, b)
}
