// Package beatport provides a minimal client for the Beatport catalog
// search API.
package beatport

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

// Named is a {name} object, the shape Beatport uses for artists, genres,
// keys, and labels.
type Named struct {
	Name string `json:"name"`
}

// Price is a localized price for a purchasable track.
type Price struct {
	Code  string  `json:"code"`
	Value float64 `json:"value"`
}

// Release carries the release a track belongs to.
type Release struct {
	Name  string `json:"name"`
	Label Named  `json:"label"`
	Image struct {
		URI string `json:"uri"`
	} `json:"image"`
}

// Track is a single Beatport track search match.
type Track struct {
	ID            int64   `json:"id"`
	Name          string  `json:"name"`
	MixName       string  `json:"mix_name"`
	Artists       []Named `json:"artists"`
	Remixers      []Named `json:"remixers"`
	BPM           float64 `json:"bpm"`
	Key           Named   `json:"key"`
	Genre         Named   `json:"genre"`
	SubGenre      Named   `json:"sub_genre"`
	LengthMS      int     `json:"length_ms"`
	ISRC          string  `json:"isrc"`
	CatalogNumber string  `json:"catalog_number"`
	PublishDate   string  `json:"publish_date"`
	Price         Price   `json:"price"`
	Release       Release `json:"release"`
	URL           string  `json:"url"`
}

// Response models the paginated track search payload.
type Response struct {
	Tracks []Track `json:"tracks"`
	Count  int     `json:"count"`
}

// Searcher defines the Beatport operations the adapter uses.
type Searcher interface {
	SearchTracks(ctx context.Context, query string, limit int) (*Response, error)
}

// Client provides access to the Beatport API.
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

// New creates a Beatport client.
func New(baseURL, token string, opts ...Option) *Client {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		baseURL = "https://api.beatport.com/v4"
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

// SearchTracks runs a catalog track search.
func (c *Client) SearchTracks(ctx context.Context, query string, limit int) (*Response, error) {
	if limit <= 0 {
		limit = 5
	}
	params := url.Values{}
	params.Set("q", query)
	params.Set("per_page", strconv.Itoa(limit))
	endpoint := c.baseURL + "/catalog/search/tracks?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build beatport request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("beatport request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("beatport status %d", resp.StatusCode)
	}

	var payload Response
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode beatport response: %w", err)
	}
	return &payload, nil
}
