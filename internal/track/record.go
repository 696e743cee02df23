package track

import (
	"encoding/json"
	"strings"
	"time"
)

// SourceAttribution records one source's contribution to a merged record.
// Read-only once attached.
type SourceAttribution struct {
	Source     string          `json:"source"`
	SourceID   string          `json:"source_id,omitempty"`
	URL        string          `json:"url,omitempty"`
	FetchedAt  time.Time       `json:"fetched_at"`
	Confidence float64         `json:"confidence"`
	Raw        json.RawMessage `json:"raw,omitempty"`
}

// Artwork is one cover-art candidate. Lists of Artwork are kept ordered by
// priority, then resolution.
type Artwork struct {
	URL      string `json:"url"`
	Width    int    `json:"width,omitempty"`
	Height   int    `json:"height,omitempty"`
	Priority int    `json:"priority"`
}

// Record is the canonical reconciled description of one track.
type Record struct {
	// Identification.
	Title           string   `json:"title"`
	Artist          string   `json:"artist"`
	Album           string   `json:"album,omitempty"`
	MixName         string   `json:"mix_name,omitempty"`
	FeaturedArtists []string `json:"featured_artists,omitempty"`
	Remixers        []string `json:"remixers,omitempty"`
	Producers       []string `json:"producers,omitempty"`
	Composers       []string `json:"composers,omitempty"`

	// Release info.
	Label         string `json:"label,omitempty"`
	CatalogNumber string `json:"catalog_number,omitempty"`
	ReleaseDate   string `json:"release_date,omitempty"`
	TrackNumber   int    `json:"track_number,omitempty"`
	DiscNumber    int    `json:"disc_number,omitempty"`

	// Classification.
	Genre     string   `json:"genre,omitempty"`
	SubGenres []string `json:"sub_genres,omitempty"`
	Tags      []string `json:"tags,omitempty"`

	// Technical.
	DurationMS int          `json:"duration_ms,omitempty"`
	BPM        float64      `json:"bpm,omitempty"`
	Key        string       `json:"key,omitempty"`
	KeyCamelot string       `json:"key_camelot,omitempty"`
	KeyOpenKey string       `json:"key_open_key,omitempty"`
	Bitrate    int          `json:"bitrate,omitempty"`
	SampleRate int          `json:"sample_rate,omitempty"`
	Format     string       `json:"format,omitempty"`
	Quality    AudioQuality `json:"quality"`

	// Identifiers.
	ISRC      string            `json:"isrc,omitempty"`
	UPC       string            `json:"upc,omitempty"`
	SourceIDs map[string]string `json:"source_ids,omitempty"`

	// Audio feature scores, each in [0,1], keyed by feature name
	// (energy, danceability, valence, ...).
	Features map[string]float64 `json:"features,omitempty"`

	Attributions []SourceAttribution `json:"attributions,omitempty"`
	Artwork      []Artwork           `json:"artwork,omitempty"`

	Status     Status  `json:"status"`
	Confidence float64 `json:"confidence"`
}

// confidenceFieldWeights drives the present-field component of the record
// confidence. Heavier fields matter more to downstream consumers.
var confidenceFieldWeights = []struct {
	weight  float64
	present func(*Record) bool
}{
	{5, func(r *Record) bool { return r.Title != "" }},
	{5, func(r *Record) bool { return r.Artist != "" }},
	{4, func(r *Record) bool { return r.BPM > 0 }},
	{4, func(r *Record) bool { return r.Key != "" }},
	{3, func(r *Record) bool { return r.Genre != "" }},
	{3, func(r *Record) bool { return r.DurationMS > 0 }},
	{2, func(r *Record) bool { return r.Album != "" }},
	{2, func(r *Record) bool { return r.ReleaseDate != "" }},
	{2, func(r *Record) bool { return r.ISRC != "" }},
	{1, func(r *Record) bool { return r.Label != "" }},
	{1, func(r *Record) bool { return len(r.Artwork) > 0 }},
}

// RecomputeConfidence derives the record confidence deterministically from
// present-field weights, contributing source count, and the supplied
// agreement score in [0,1]. Confidence is never set any other way.
func (r *Record) RecomputeConfidence(agreement float64) {
	var present, total float64
	for _, field := range confidenceFieldWeights {
		total += field.weight
		if field.present(r) {
			present += field.weight
		}
	}
	fieldScore := 0.0
	if total > 0 {
		fieldScore = present / total
	}

	sourceScore := float64(len(r.Attributions)) / 3.0
	if sourceScore > 1 {
		sourceScore = 1
	}
	agreement = clamp01(agreement)

	r.Confidence = clamp01(0.5*fieldScore + 0.2*sourceScore + 0.3*agreement)
}

// SetKey populates the canonical, Camelot, and Open Key notations from a raw
// key string. Unparseable input stores the raw value with empty alternates.
func (r *Record) SetKey(raw string) {
	key, ok := ParseKey(raw)
	if !ok {
		r.Key = strings.TrimSpace(raw)
		r.KeyCamelot = ""
		r.KeyOpenKey = ""
		return
	}
	r.Key = key.String()
	r.KeyCamelot = key.Camelot()
	r.KeyOpenKey = key.OpenKey()
}

// AttributedSources returns the distinct source names that contributed.
func (r *Record) AttributedSources() []string {
	seen := make(map[string]struct{}, len(r.Attributions))
	names := make([]string, 0, len(r.Attributions))
	for _, attr := range r.Attributions {
		if _, ok := seen[attr.Source]; ok {
			continue
		}
		seen[attr.Source] = struct{}{}
		names = append(names, attr.Source)
	}
	return names
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
