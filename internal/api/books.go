package api

import (
	"context"

	"github.com/sirupsen/logrus"

	"bookstore-storefront/internal/domain"
	"bookstore-storefront/internal/remote"
)

const (
	OpBookFromDatabase = "books.fromDatabase"
	OpBookDetails      = "books.details"
)

type bookRepo interface {
	GetByID(ctx context.Context, id string) (*domain.Book, error)
}

type volumeClient interface {
	GetVolume(ctx context.Context, volumeID string) (domain.BookDetails, error)
}

// Books fetches catalogue rows from the database and enrichment from Google Books.
type Books struct {
	repo    bookRepo
	volumes volumeClient
	logger  *logrus.Logger
}

func NewBooks(repo bookRepo, volumes volumeClient, logger *logrus.Logger) *Books {
	return &Books{repo: repo, volumes: volumes, logger: orDiscard(logger)}
}

// FromDatabase loads one book row by id.
func (b *Books) FromDatabase(ctx context.Context, id string) remote.Result[domain.Book] {
	book, err := b.repo.GetByID(ctx, id)
	var v domain.Book
	if err == nil && book != nil {
		v = *book
	}
	return finish(b.logger, OpBookFromDatabase, v, err, logrus.Fields{"book_id": id})
}

// Details loads third-party metadata for a Google Books volume id.
func (b *Books) Details(ctx context.Context, volumeID string) remote.Result[domain.BookDetails] {
	details, err := b.volumes.GetVolume(ctx, volumeID)
	return finish(b.logger, OpBookDetails, details, err, logrus.Fields{"volume_id": volumeID})
}
