package sources

import (
	"context"
	"fmt"
	"strings"

	"trackdig/internal/queryparse"
	"trackdig/internal/sources/musicbrainz"
)

// MusicBrainzAdapter maps MusicBrainz recording search results into
// canonical candidates.
type MusicBrainzAdapter struct {
	client musicbrainz.Searcher
}

var _ Searcher = (*MusicBrainzAdapter)(nil)

// NewMusicBrainzAdapter wraps a MusicBrainz client.
func NewMusicBrainzAdapter(client musicbrainz.Searcher) *MusicBrainzAdapter {
	return &MusicBrainzAdapter{client: client}
}

func (a *MusicBrainzAdapter) Source() string { return "musicbrainz" }

// BuildQuery renders the intent into MusicBrainz's Lucene query syntax.
func (a *MusicBrainzAdapter) BuildQuery(intent queryparse.Intent) string {
	var clauses []string
	if intent.Artist != "" {
		clauses = append(clauses, fmt.Sprintf("artist:%q", intent.Artist))
	}
	if intent.Title != "" {
		clauses = append(clauses, fmt.Sprintf("recording:%q", intent.Title))
	}
	if len(clauses) == 0 {
		return intent.SearchTerms()
	}
	return strings.Join(clauses, " AND ")
}

func (a *MusicBrainzAdapter) Search(ctx context.Context, query string, maxResults int) ([]Candidate, error) {
	resp, err := a.client.SearchRecordings(ctx, query, maxResults)
	if err != nil {
		return nil, err
	}
	candidates := make([]Candidate, 0, len(resp.Recordings))
	for _, rec := range resp.Recordings {
		candidates = append(candidates, musicbrainzCandidate(rec))
	}
	return candidates, nil
}

func musicbrainzCandidate(rec musicbrainz.Recording) Candidate {
	candidate := Candidate{
		Title:       rec.Title,
		DurationMS:  rec.Length,
		ReleaseDate: rec.FirstReleaseDate,
		SourceID:    rec.ID,
		URL:         "https://musicbrainz.org/recording/" + rec.ID,
	}
	if len(rec.ArtistCredit) > 0 {
		candidate.Artist = rec.ArtistCredit[0].Name
		for _, credit := range rec.ArtistCredit[1:] {
			candidate.FeaturedArtists = append(candidate.FeaturedArtists, credit.Name)
		}
	}
	if len(rec.ISRCs) > 0 {
		candidate.ISRC = rec.ISRCs[0]
	}
	if len(rec.Releases) > 0 {
		release := rec.Releases[0]
		candidate.Album = release.Title
		candidate.UPC = release.Barcode
		if candidate.ReleaseDate == "" {
			candidate.ReleaseDate = release.Date
		}
		if len(release.LabelInfo) > 0 {
			candidate.Label = release.LabelInfo[0].Label.Name
			candidate.CatalogNumber = release.LabelInfo[0].CatalogNumber
		}
	}
	for _, tag := range rec.Tags {
		candidate.Tags = append(candidate.Tags, tag.Name)
	}
	return candidate
}
