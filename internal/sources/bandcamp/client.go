// Package bandcamp provides a minimal client for Bandcamp's public search
// endpoint.
package bandcamp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Item is one search match. Bandcamp mixes bands, albums, and tracks in a
// single result list; Type distinguishes them ("b", "a", "t").
type Item struct {
	Type        string `json:"type"`
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	BandName    string `json:"band_name"`
	AlbumName   string `json:"album_name"`
	ItemURLPath string `json:"item_url_path"`
	ArtID       int64  `json:"art_id"`
}

// Response models the search payload.
type Response struct {
	Auto struct {
		Results []Item `json:"results"`
	} `json:"auto"`
}

// Searcher defines the Bandcamp operations the adapter uses.
type Searcher interface {
	Search(ctx context.Context, query string, limit int) ([]Item, error)
}

// Client provides access to Bandcamp's public search API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

var _ Searcher = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// New creates a Bandcamp client.
func New(baseURL string, opts ...Option) *Client {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		baseURL = "https://bandcamp.com"
	}
	client := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// Search runs a public search, returning track items first.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]Item, error) {
	if limit <= 0 {
		limit = 5
	}
	body, err := json.Marshal(map[string]any{
		"search_text":   query,
		"search_filter": "t",
		"full_page":     false,
	})
	if err != nil {
		return nil, fmt.Errorf("encode bandcamp request: %w", err)
	}

	endpoint := c.baseURL + "/api/bcsearch_public_api/1/autocomplete_elastic"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build bandcamp request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("bandcamp request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("bandcamp status %d", resp.StatusCode)
	}

	var payload Response
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode bandcamp response: %w", err)
	}

	items := payload.Auto.Results
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

// ArtworkURL renders the cover image URL for an art ID, or empty when the
// item has no artwork.
func ArtworkURL(artID int64) string {
	if artID == 0 {
		return ""
	}
	return fmt.Sprintf("https://f4.bcbits.com/img/a%d_10.jpg", artID)
}
