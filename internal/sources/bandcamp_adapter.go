package sources

import (
	"context"
	"strconv"

	"trackdig/internal/queryparse"
	"trackdig/internal/sources/bandcamp"
	"trackdig/internal/track"
)

// BandcampAdapter maps Bandcamp search results into canonical candidates.
// Bandcamp supplies little technical metadata but is a reliable lossless
// purchase channel for independent releases.
type BandcampAdapter struct {
	client bandcamp.Searcher
}

var _ Searcher = (*BandcampAdapter)(nil)

// NewBandcampAdapter wraps a Bandcamp client.
func NewBandcampAdapter(client bandcamp.Searcher) *BandcampAdapter {
	return &BandcampAdapter{client: client}
}

func (a *BandcampAdapter) Source() string { return "bandcamp" }

// BuildQuery uses plain terms; Bandcamp search has no field syntax.
func (a *BandcampAdapter) BuildQuery(intent queryparse.Intent) string {
	return intent.SearchTerms()
}

func (a *BandcampAdapter) Search(ctx context.Context, query string, maxResults int) ([]Candidate, error) {
	items, err := a.client.Search(ctx, query, maxResults)
	if err != nil {
		return nil, err
	}
	candidates := make([]Candidate, 0, len(items))
	for _, item := range items {
		if item.Type != "t" {
			continue
		}
		candidates = append(candidates, bandcampCandidate(item))
	}
	return candidates, nil
}

func bandcampCandidate(item bandcamp.Item) Candidate {
	candidate := Candidate{
		Title:    item.Name,
		Artist:   item.BandName,
		Album:    item.AlbumName,
		SourceID: strconv.FormatInt(item.ID, 10),
		URL:      item.ItemURLPath,
		Quality:  track.QualityLossless,
		Format:   "flac",
	}
	if art := bandcamp.ArtworkURL(item.ArtID); art != "" {
		candidate.Artwork = append(candidate.Artwork, track.Artwork{URL: art, Priority: 2})
	}
	return candidate
}
