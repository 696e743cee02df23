package sources

import (
	"context"
	"strconv"
	"strings"

	"trackdig/internal/queryparse"
	"trackdig/internal/sources/discogs"
	"trackdig/internal/track"
)

// DiscogsAdapter maps Discogs release search results into canonical
// candidates.
type DiscogsAdapter struct {
	client discogs.Searcher
}

var _ Searcher = (*DiscogsAdapter)(nil)

// NewDiscogsAdapter wraps a Discogs client.
func NewDiscogsAdapter(client discogs.Searcher) *DiscogsAdapter {
	return &DiscogsAdapter{client: client}
}

func (a *DiscogsAdapter) Source() string { return "discogs" }

// BuildQuery uses plain terms; Discogs tokenizes its own query syntax.
func (a *DiscogsAdapter) BuildQuery(intent queryparse.Intent) string {
	return intent.SearchTerms()
}

func (a *DiscogsAdapter) Search(ctx context.Context, query string, maxResults int) ([]Candidate, error) {
	resp, err := a.client.SearchReleases(ctx, query, maxResults)
	if err != nil {
		return nil, err
	}
	candidates := make([]Candidate, 0, len(resp.Results))
	for _, result := range resp.Results {
		candidates = append(candidates, discogsCandidate(result))
	}
	return candidates, nil
}

func discogsCandidate(result discogs.SearchResult) Candidate {
	candidate := Candidate{
		ReleaseDate:   result.Year,
		CatalogNumber: result.CatNo,
		SourceID:      strconv.FormatInt(result.ID, 10),
		URL:           "https://www.discogs.com" + result.URI,
	}

	// Release search titles come back as "Artist - Title".
	artist, title := splitDiscogsTitle(result.Title)
	candidate.Artist = artist
	candidate.Title = title
	candidate.Album = title

	if len(result.Label) > 0 {
		candidate.Label = result.Label[0]
	}
	if len(result.Genre) > 0 {
		candidate.Genre = result.Genre[0]
	}
	candidate.SubGenres = append(candidate.SubGenres, result.Style...)
	if len(result.Format) > 0 {
		candidate.Format = result.Format[0]
	}
	if result.CoverImage != "" {
		candidate.Artwork = append(candidate.Artwork, track.Artwork{URL: result.CoverImage, Priority: 1})
	}
	return candidate
}

func splitDiscogsTitle(combined string) (artist, title string) {
	parts := strings.SplitN(combined, " - ", 2)
	if len(parts) == 2 {
		return strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
	}
	return "", strings.TrimSpace(combined)
}
