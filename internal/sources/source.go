package sources

import (
	"context"
	"time"

	"trackdig/internal/queryparse"
	"trackdig/internal/track"
)

// Candidate is one source's answer for a query, already converted into the
// canonical field shape. Zero values mean the source did not supply the
// field.
type Candidate struct {
	Title           string             `json:"title,omitempty"`
	Artist          string             `json:"artist,omitempty"`
	Album           string             `json:"album,omitempty"`
	MixName         string             `json:"mix_name,omitempty"`
	Remixers        []string           `json:"remixers,omitempty"`
	FeaturedArtists []string           `json:"featured_artists,omitempty"`
	Label           string             `json:"label,omitempty"`
	CatalogNumber   string             `json:"catalog_number,omitempty"`
	ReleaseDate     string             `json:"release_date,omitempty"`
	TrackNumber     int                `json:"track_number,omitempty"`
	Genre           string             `json:"genre,omitempty"`
	SubGenres       []string           `json:"sub_genres,omitempty"`
	Tags            []string           `json:"tags,omitempty"`
	DurationMS      int                `json:"duration_ms,omitempty"`
	BPM             float64            `json:"bpm,omitempty"`
	Key             string             `json:"key,omitempty"`
	Format          string             `json:"format,omitempty"`
	Quality         track.AudioQuality `json:"quality,omitempty"`
	ISRC            string             `json:"isrc,omitempty"`
	UPC             string             `json:"upc,omitempty"`
	SourceID        string             `json:"source_id,omitempty"`
	URL             string             `json:"url,omitempty"`
	Price           float64            `json:"price,omitempty"`
	Currency        string             `json:"currency,omitempty"`
	Features        map[string]float64 `json:"features,omitempty"`
	Artwork         []track.Artwork    `json:"artwork,omitempty"`
}

// Searcher is the narrow contract every platform adapter implements. New
// sources are added by adding new implementations, never by branching on
// source names inside shared code.
type Searcher interface {
	// Source returns the stable source name used in config, caching, and
	// reliability tables.
	Source() string
	// BuildQuery renders the parsed intent into this source's preferred
	// query syntax.
	BuildQuery(intent queryparse.Intent) string
	// Search runs the query and converts the native response into canonical
	// candidates.
	Search(ctx context.Context, query string, maxResults int) ([]Candidate, error)
}

// Result is one source's collected answer. Owned exclusively by the
// collector that produced it; read-only afterward.
type Result struct {
	Source      string        `json:"source"`
	Success     bool          `json:"success"`
	Err         string        `json:"error,omitempty"`
	Candidates  []Candidate   `json:"candidates,omitempty"`
	Confidence  float64       `json:"confidence"`
	Query       string        `json:"query"`
	ResultCount int           `json:"result_count"`
	FetchedAt   time.Time     `json:"fetched_at"`
	CacheHit    bool          `json:"cache_hit"`
	Elapsed     time.Duration `json:"elapsed"`
}

// Best returns the top-ranked candidate, or nil when the result is empty.
func (r *Result) Best() *Candidate {
	if r == nil || len(r.Candidates) == 0 {
		return nil
	}
	return &r.Candidates[0]
}

// Usable reports whether the result carries at least one candidate with a
// title or artist worth merging.
func (r *Result) Usable() bool {
	if r == nil || !r.Success {
		return false
	}
	best := r.Best()
	return best != nil && (best.Title != "" || best.Artist != "")
}
