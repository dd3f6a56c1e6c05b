package googlebooks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"bookstore-storefront/internal/domain"
)

// DefaultBaseURL is the public Google Books API root.
const DefaultBaseURL = "https://www.googleapis.com/books/v1"

// HTTPError represents a non-2xx response from the volumes endpoint.
type HTTPError struct {
	StatusCode int
	Body       []byte
}

func (e *HTTPError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("google books: status=%d body=%s", e.StatusCode, string(e.Body))
}

// Is lets a 404 match domain.ErrNotFound.
func (e *HTTPError) Is(target error) bool {
	return e != nil && e.StatusCode == http.StatusNotFound && target == domain.ErrNotFound
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the HTTP client used for requests.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.httpClient = h
		}
	}
}

// WithAPIKey attaches the key query parameter to every request.
func WithAPIKey(key string) Option {
	return func(c *Client) {
		c.apiKey = strings.TrimSpace(key)
	}
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// Client fetches volume metadata from Google Books.
type Client struct {
	baseURL    *url.URL
	apiKey     string
	httpClient *http.Client
}

func New(baseURL string, opts ...Option) (*Client, error) {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	parsed, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("google books: invalid base URL: %w", err)
	}
	c := &Client{
		baseURL:    parsed,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

type volumeResponse struct {
	ID         string     `json:"id"`
	VolumeInfo volumeInfo `json:"volumeInfo"`
}

type volumeInfo struct {
	Title               string   `json:"title"`
	Subtitle            string   `json:"subtitle"`
	Authors             []string `json:"authors"`
	Publisher           string   `json:"publisher"`
	PublishedDate       string   `json:"publishedDate"`
	Description         string   `json:"description"`
	PageCount           int      `json:"pageCount"`
	Categories          []string `json:"categories"`
	Language            string   `json:"language"`
	IndustryIdentifiers []struct {
		Type       string `json:"type"`
		Identifier string `json:"identifier"`
	} `json:"industryIdentifiers"`
	ImageLinks struct {
		SmallThumbnail string `json:"smallThumbnail"`
		Thumbnail      string `json:"thumbnail"`
	} `json:"imageLinks"`
}

// GetVolume loads a single volume by its Google Books id.
func (c *Client) GetVolume(ctx context.Context, volumeID string) (domain.BookDetails, error) {
	volumeID = strings.TrimSpace(volumeID)
	if volumeID == "" {
		return domain.BookDetails{}, errors.New("google books: volume id is required")
	}

	endpoint := *c.baseURL
	endpoint.Path = strings.TrimRight(endpoint.Path, "/") + "/volumes/" + url.PathEscape(volumeID)
	if c.apiKey != "" {
		q := endpoint.Query()
		q.Set("key", c.apiKey)
		endpoint.RawQuery = q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return domain.BookDetails{}, fmt.Errorf("google books: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.BookDetails{}, fmt.Errorf("google books: request volume: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		return domain.BookDetails{}, &HTTPError{StatusCode: resp.StatusCode, Body: body}
	}

	var payload volumeResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return domain.BookDetails{}, fmt.Errorf("google books: decode volume: %w", err)
	}
	return payload.toDetails(), nil
}

func (v volumeResponse) toDetails() domain.BookDetails {
	info := v.VolumeInfo
	details := domain.BookDetails{
		ID:            v.ID,
		Title:         info.Title,
		Subtitle:      info.Subtitle,
		Authors:       info.Authors,
		Publisher:     info.Publisher,
		PublishedDate: info.PublishedDate,
		Description:   info.Description,
		PageCount:     info.PageCount,
		Categories:    info.Categories,
		Language:      info.Language,
		ThumbnailURL:  info.ImageLinks.Thumbnail,
	}
	if details.ThumbnailURL == "" {
		details.ThumbnailURL = info.ImageLinks.SmallThumbnail
	}
	for _, id := range info.IndustryIdentifiers {
		if id.Type == "ISBN_13" {
			details.ISBN13 = id.Identifier
			break
		}
	}
	return details
}
