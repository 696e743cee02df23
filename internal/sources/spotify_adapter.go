package sources

import (
	"context"
	"fmt"

	zspotify "github.com/zmb3/spotify/v2"

	"trackdig/internal/queryparse"
	"trackdig/internal/sources/spotify"
	"trackdig/internal/track"
)

// SpotifyAdapter maps Spotify track search results into canonical
// candidates.
type SpotifyAdapter struct {
	client spotify.Searcher
}

var _ Searcher = (*SpotifyAdapter)(nil)

// NewSpotifyAdapter wraps a Spotify client.
func NewSpotifyAdapter(client spotify.Searcher) *SpotifyAdapter {
	return &SpotifyAdapter{client: client}
}

func (a *SpotifyAdapter) Source() string { return "spotify" }

// BuildQuery uses Spotify's field filter syntax when the intent carries both
// halves, and plain terms otherwise.
func (a *SpotifyAdapter) BuildQuery(intent queryparse.Intent) string {
	if intent.Artist != "" && intent.Title != "" {
		return fmt.Sprintf("track:%q artist:%q", intent.Title, intent.Artist)
	}
	return intent.SearchTerms()
}

func (a *SpotifyAdapter) Search(ctx context.Context, query string, maxResults int) ([]Candidate, error) {
	tracks, err := a.client.SearchTracks(ctx, query, maxResults)
	if err != nil {
		return nil, err
	}
	candidates := make([]Candidate, 0, len(tracks))
	for _, t := range tracks {
		candidates = append(candidates, spotifyCandidate(t))
	}
	return candidates, nil
}

func spotifyCandidate(t zspotify.FullTrack) Candidate {
	candidate := Candidate{
		Title:       t.Name,
		Album:       t.Album.Name,
		ReleaseDate: t.Album.ReleaseDate,
		TrackNumber: int(t.TrackNumber),
		DurationMS:  int(t.Duration),
		ISRC:        t.ExternalIDs["isrc"],
		UPC:         t.ExternalIDs["upc"],
		SourceID:    t.ID.String(),
		URL:         t.ExternalURLs["spotify"],
		Quality:     track.QualityHigh,
		Format:      "ogg",
	}
	if len(t.Artists) > 0 {
		candidate.Artist = t.Artists[0].Name
		for _, artist := range t.Artists[1:] {
			candidate.FeaturedArtists = append(candidate.FeaturedArtists, artist.Name)
		}
	}
	if t.Popularity > 0 {
		candidate.Features = map[string]float64{
			"popularity": float64(t.Popularity) / 100.0,
		}
	}
	for i, image := range t.Album.Images {
		candidate.Artwork = append(candidate.Artwork, track.Artwork{
			URL:      image.URL,
			Width:    int(image.Width),
			Height:   int(image.Height),
			Priority: i,
		})
	}
	return candidate
}
