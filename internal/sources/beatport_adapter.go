package sources

import (
	"context"
	"strconv"

	"trackdig/internal/queryparse"
	"trackdig/internal/sources/beatport"
	"trackdig/internal/track"
)

// BeatportAdapter maps Beatport track search results into canonical
// candidates. Beatport is the strongest source for DJ-relevant fields (BPM,
// key, genre) and drives the purchase acquisition option.
type BeatportAdapter struct {
	client beatport.Searcher
}

var _ Searcher = (*BeatportAdapter)(nil)

// NewBeatportAdapter wraps a Beatport client.
func NewBeatportAdapter(client beatport.Searcher) *BeatportAdapter {
	return &BeatportAdapter{client: client}
}

func (a *BeatportAdapter) Source() string { return "beatport" }

// BuildQuery uses plain terms including the mix qualifier, which Beatport
// indexes as part of the track name.
func (a *BeatportAdapter) BuildQuery(intent queryparse.Intent) string {
	return intent.SearchTerms()
}

func (a *BeatportAdapter) Search(ctx context.Context, query string, maxResults int) ([]Candidate, error) {
	resp, err := a.client.SearchTracks(ctx, query, maxResults)
	if err != nil {
		return nil, err
	}
	candidates := make([]Candidate, 0, len(resp.Tracks))
	for _, t := range resp.Tracks {
		candidates = append(candidates, beatportCandidate(t))
	}
	return candidates, nil
}

func beatportCandidate(t beatport.Track) Candidate {
	candidate := Candidate{
		Title:         t.Name,
		MixName:       t.MixName,
		Album:         t.Release.Name,
		Label:         t.Release.Label.Name,
		CatalogNumber: t.CatalogNumber,
		ReleaseDate:   t.PublishDate,
		Genre:         t.Genre.Name,
		DurationMS:    t.LengthMS,
		BPM:           t.BPM,
		Key:           t.Key.Name,
		ISRC:          t.ISRC,
		SourceID:      strconv.FormatInt(t.ID, 10),
		URL:           t.URL,
		Price:         t.Price.Value,
		Currency:      t.Price.Code,
		Quality:       track.QualityLossless,
		Format:        "flac",
	}
	if len(t.Artists) > 0 {
		candidate.Artist = t.Artists[0].Name
		for _, artist := range t.Artists[1:] {
			candidate.FeaturedArtists = append(candidate.FeaturedArtists, artist.Name)
		}
	}
	for _, remixer := range t.Remixers {
		candidate.Remixers = append(candidate.Remixers, remixer.Name)
	}
	if t.SubGenre.Name != "" {
		candidate.SubGenres = append(candidate.SubGenres, t.SubGenre.Name)
	}
	if t.Release.Image.URI != "" {
		candidate.Artwork = append(candidate.Artwork, track.Artwork{URL: t.Release.Image.URI, Priority: 1})
	}
	return candidate
}
