// Package discogs provides a minimal client for the Discogs database search
// API.
package discogs

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// SearchResult is a single Discogs release match. Title carries the combined
// "Artist - Title" form Discogs uses for release search results.
type SearchResult struct {
	ID         int64    `json:"id"`
	Title      string   `json:"title"`
	Year       string   `json:"year"`
	Label      []string `json:"label"`
	CatNo      string   `json:"catno"`
	Genre      []string `json:"genre"`
	Style      []string `json:"style"`
	Format     []string `json:"format"`
	Country    string   `json:"country"`
	Thumb      string   `json:"thumb"`
	CoverImage string   `json:"cover_image"`
	URI        string   `json:"uri"`
}

// Response models the paginated search payload.
type Response struct {
	Results []SearchResult `json:"results"`
}

// Searcher defines the Discogs operations the adapter uses.
type Searcher interface {
	SearchReleases(ctx context.Context, query string, limit int) (*Response, error)
}

// Client provides access to the Discogs API.
type Client struct {
	baseURL    string
	token      string
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

// New creates a Discogs client. The token may be empty; unauthenticated
// requests get a tighter upstream rate limit but still work.
func New(baseURL, token string, opts ...Option) *Client {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		baseURL = "https://api.discogs.com"
	}
	client := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      strings.TrimSpace(token),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// SearchReleases runs a release database search.
func (c *Client) SearchReleases(ctx context.Context, query string, limit int) (*Response, error) {
	if limit <= 0 {
		limit = 5
	}
	params := url.Values{}
	params.Set("q", query)
	params.Set("type", "release")
	params.Set("per_page", strconv.Itoa(limit))
	endpoint := c.baseURL + "/database/search?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build discogs request: %w", err)
	}
	req.Header.Set("User-Agent", "trackdig/dev")
	if c.token != "" {
		req.Header.Set("Authorization", "Discogs token="+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("discogs request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("discogs status %d", resp.StatusCode)
	}

	var payload Response
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode discogs response: %w", err)
	}
	return &payload, nil
}
