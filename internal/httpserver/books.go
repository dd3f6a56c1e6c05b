package httpserver

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"bookstore-storefront/internal/domain"
)

func (h *handlers) getBook(c *gin.Context) {
	book, err := h.deps.Books.Get(c.Request.Context(), c.Param("id")).Get()
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, book)
}

// getBookDetails resolves the book's Google Books volume and returns its metadata.
func (h *handlers) getBookDetails(c *gin.Context) {
	ctx := c.Request.Context()
	book, err := h.deps.Books.Get(ctx, c.Param("id")).Get()
	if err != nil {
		h.writeError(c, err)
		return
	}
	if book.GoogleBooksID == "" {
		h.writeError(c, fmt.Errorf("book %s has no external volume: %w", book.ID, domain.ErrNotFound))
		return
	}
	details, err := h.deps.BookDetails.Get(ctx, book.GoogleBooksID).Get()
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"book": book, "details": details})
}

func (h *handlers) listGenres(c *gin.Context) {
	genres, err := h.deps.GenreSvc.List(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": genres, "count": len(genres)})
}
