package domain

import "time"

// Book is a catalogue entry sold by the store.
type Book struct {
	ID                   string    `json:"id"`
	ISBN                 string    `json:"isbn,omitempty"`
	Title                string    `json:"title"`
	Author               string    `json:"author,omitempty"`
	Description          string    `json:"description,omitempty"`
	PriceCents           int64     `json:"priceCents"`
	DiscountedPriceCents *int64    `json:"discountedPriceCents,omitempty"`
	DiscountPercentage   *float64  `json:"discountPercentage,omitempty"`
	IsOnPromotion        bool      `json:"isOnPromotion"`
	Currency             string    `json:"currency"`
	CoverURL             string    `json:"coverUrl,omitempty"`
	GoogleBooksID        string    `json:"googleBooksId,omitempty"`
	Genres               []string  `json:"genres,omitempty"`
	CreatedAt            time.Time `json:"createdAt"`
}

// EffectivePriceCents is the discounted price when one is set, else the list price.
func (b Book) EffectivePriceCents() int64 {
	if b.DiscountedPriceCents != nil {
		return *b.DiscountedPriceCents
	}
	return b.PriceCents
}

// BookDetails is the metadata returned by the third-party book detail API.
type BookDetails struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Subtitle      string   `json:"subtitle,omitempty"`
	Authors       []string `json:"authors,omitempty"`
	Publisher     string   `json:"publisher,omitempty"`
	PublishedDate string   `json:"publishedDate,omitempty"`
	Description   string   `json:"description,omitempty"`
	PageCount     int      `json:"pageCount,omitempty"`
	Categories    []string `json:"categories,omitempty"`
	Language      string   `json:"language,omitempty"`
	ThumbnailURL  string   `json:"thumbnailUrl,omitempty"`
	ISBN13        string   `json:"isbn13,omitempty"`
}

type Genre struct {
	ID        string    `json:"id"`
	Key       string    `json:"key"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}
