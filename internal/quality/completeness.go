package quality

import "trackdig/internal/track"

// fieldImportance drives the completeness score. Five tiers: critical 5,
// high 4, medium 3, low 2, minimal 1.
var fieldImportance = []struct {
	name    string
	weight  float64
	present func(*track.Record) bool
}{
	{"title", 5, func(r *track.Record) bool { return r.Title != "" }},
	{"artist", 5, func(r *track.Record) bool { return r.Artist != "" }},
	{"bpm", 4, func(r *track.Record) bool { return r.BPM > 0 }},
	{"key", 4, func(r *track.Record) bool { return r.Key != "" }},
	{"genre", 4, func(r *track.Record) bool { return r.Genre != "" }},
	{"duration_ms", 3, func(r *track.Record) bool { return r.DurationMS > 0 }},
	{"album", 3, func(r *track.Record) bool { return r.Album != "" }},
	{"release_date", 3, func(r *track.Record) bool { return r.ReleaseDate != "" }},
	{"label", 2, func(r *track.Record) bool { return r.Label != "" }},
	{"isrc", 2, func(r *track.Record) bool { return r.ISRC != "" }},
	{"mix_name", 2, func(r *track.Record) bool { return r.MixName != "" }},
	{"catalog_number", 1, func(r *track.Record) bool { return r.CatalogNumber != "" }},
	{"sub_genres", 1, func(r *track.Record) bool { return len(r.SubGenres) > 0 }},
	{"artwork", 1, func(r *track.Record) bool { return len(r.Artwork) > 0 }},
}

// criticalFields are reported first in recommendations when missing.
var criticalFields = map[string]bool{"title": true, "artist": true}

// djFields matter for harmonic and tempo mixing.
var djFields = map[string]bool{"bpm": true, "key": true, "genre": true}

// completeness returns the weighted present-field ratio plus the list of
// missing field names, heaviest first.
func completeness(record *track.Record) (float64, []string) {
	var present, total float64
	var missing []string
	for _, field := range fieldImportance {
		total += field.weight
		if field.present(record) {
			present += field.weight
		} else {
			missing = append(missing, field.name)
		}
	}
	if total == 0 {
		return 0, nil
	}
	return present / total, missing
}
