// Package musicbrainz provides a minimal client for the MusicBrainz
// recording search API.
package musicbrainz

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// ArtistCredit is one credited artist on a recording.
type ArtistCredit struct {
	Name string `json:"name"`
}

// LabelInfo carries the label attached to a release.
type LabelInfo struct {
	CatalogNumber string `json:"catalog-number"`
	Label         struct {
		Name string `json:"name"`
	} `json:"label"`
}

// Release is one release a recording appears on.
type Release struct {
	ID        string      `json:"id"`
	Title     string      `json:"title"`
	Date      string      `json:"date"`
	Country   string      `json:"country"`
	LabelInfo []LabelInfo `json:"label-info"`
	Barcode   string      `json:"barcode"`
}

// Recording is a single MusicBrainz recording search match.
type Recording struct {
	ID               string         `json:"id"`
	Score            int            `json:"score"`
	Title            string         `json:"title"`
	Length           int            `json:"length"`
	FirstReleaseDate string         `json:"first-release-date"`
	ArtistCredit     []ArtistCredit `json:"artist-credit"`
	ISRCs            []string       `json:"isrcs"`
	Releases         []Release      `json:"releases"`
	Tags             []struct {
		Name string `json:"name"`
	} `json:"tags"`
}

// Response models the recording search payload.
type Response struct {
	Count      int         `json:"count"`
	Recordings []Recording `json:"recordings"`
}

// Searcher defines the MusicBrainz operations the adapter uses.
type Searcher interface {
	SearchRecordings(ctx context.Context, query string, limit int) (*Response, error)
}

// Client provides access to the MusicBrainz web service.
type Client struct {
	baseURL    string
	userAgent  string
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

// New creates a MusicBrainz client. The user agent is mandatory: MusicBrainz
// rejects anonymous clients.
func New(baseURL, userAgent string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		baseURL = "https://musicbrainz.org/ws/2"
	}
	userAgent = strings.TrimSpace(userAgent)
	if userAgent == "" {
		return nil, errors.New("musicbrainz user agent required")
	}
	client := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		userAgent:  userAgent,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// SearchRecordings runs a Lucene-syntax recording search.
func (c *Client) SearchRecordings(ctx context.Context, query string, limit int) (*Response, error) {
	if limit <= 0 {
		limit = 5
	}
	endpoint := fmt.Sprintf("%s/recording?query=%s&limit=%s&fmt=json",
		c.baseURL, url.QueryEscape(query), strconv.Itoa(limit))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build musicbrainz request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("musicbrainz request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("musicbrainz status %d", resp.StatusCode)
	}

	var payload Response
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode musicbrainz response: %w", err)
	}
	return &payload, nil
}
