// Package spotify wraps the Spotify Web API client with client-credentials
// authentication and the track search call the engine needs.
package spotify

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2/clientcredentials"
)

// Searcher defines the Spotify operations the adapter uses.
type Searcher interface {
	SearchTracks(ctx context.Context, query string, limit int) ([]spotify.FullTrack, error)
}

// Client holds a long-lived authenticated Spotify API client. The underlying
// oauth2 transport refreshes the client-credentials token automatically.
type Client struct {
	api *spotify.Client
}

var _ Searcher = (*Client)(nil)

// New creates an authenticated client from application credentials.
func New(ctx context.Context, clientID, clientSecret string) (*Client, error) {
	clientID = strings.TrimSpace(clientID)
	clientSecret = strings.TrimSpace(clientSecret)
	if clientID == "" || clientSecret == "" {
		return nil, errors.New("spotify client credentials required")
	}
	config := &clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     spotifyauth.TokenURL,
	}
	httpClient := config.Client(ctx)
	return &Client{api: spotify.New(httpClient)}, nil
}

// NewFromAPI wraps an existing API client (used in tests).
func NewFromAPI(api *spotify.Client) *Client {
	return &Client{api: api}
}

// SearchTracks runs a track search.
func (c *Client) SearchTracks(ctx context.Context, query string, limit int) ([]spotify.FullTrack, error) {
	if limit <= 0 {
		limit = 5
	}
	result, err := c.api.Search(ctx, query, spotify.SearchTypeTrack, spotify.Limit(limit))
	if err != nil {
		return nil, fmt.Errorf("spotify search: %w", err)
	}
	if result.Tracks == nil {
		return nil, nil
	}
	return result.Tracks.Tracks, nil
}
