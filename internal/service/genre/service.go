package genre

import (
	"context"
	"fmt"
	"strings"

	"bookstore-storefront/internal/domain"
	"bookstore-storefront/internal/repository/genre"
)

type Service struct {
	repo genre.Repository
}

func New(repo genre.Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context) ([]domain.Genre, error) {
	return s.repo.List(ctx)
}

// Upsert stores g under a normalized key derived from its name when no key is set.
func (s *Service) Upsert(ctx context.Context, g domain.Genre) (*domain.Genre, error) {
	g.Name = strings.TrimSpace(g.Name)
	if g.Name == "" {
		return nil, fmt.Errorf("%w: genre name required", domain.ErrValidation)
	}
	if strings.TrimSpace(g.Key) == "" {
		g.Key = Key(g.Name)
	}
	return s.repo.Upsert(ctx, g)
}

// Key turns a display name into a lower-case dashed genre key.
func Key(name string) string {
	fields := strings.Fields(strings.ToLower(name))
	return strings.Join(fields, "-")
}
