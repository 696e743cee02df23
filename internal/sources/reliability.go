package sources

// Static reliability weights. These are plain keyed configuration data: the
// only place in the engine where per-source knowledge is allowed to live
// outside an adapter implementation.

// sourceReliability is the overall trust weight per source, in [0,1].
var sourceReliability = map[string]float64{
	"musicbrainz": 0.92,
	"spotify":     0.90,
	"beatport":    0.88,
	"discogs":     0.85,
	"bandcamp":    0.78,
}

// fieldReliability overrides the overall weight for fields a source is
// particularly strong or weak on. Beatport curates BPM and key by hand;
// MusicBrainz is the canonical registry for release dates and ISRCs;
// Discogs is strongest on physical release metadata.
var fieldReliability = map[string]map[string]float64{
	"bpm": {
		"beatport": 0.97,
		"spotify":  0.80,
		"bandcamp": 0.40,
	},
	"key": {
		"beatport": 0.96,
		"spotify":  0.75,
	},
	"duration_ms": {
		"spotify":     0.95,
		"musicbrainz": 0.92,
		"beatport":    0.90,
	},
	"genre": {
		"beatport": 0.93,
		"discogs":  0.90,
		"spotify":  0.70,
	},
	"release_date": {
		"musicbrainz": 0.96,
		"discogs":     0.92,
		"beatport":    0.88,
	},
	"label": {
		"discogs":     0.94,
		"musicbrainz": 0.90,
	},
	"catalog_number": {
		"discogs":  0.95,
		"beatport": 0.90,
	},
	"isrc": {
		"musicbrainz": 0.97,
		"spotify":     0.94,
	},
}

// Reliability returns the overall trust weight for a source. Unknown sources
// get a conservative default.
func Reliability(source string) float64 {
	if weight, ok := sourceReliability[source]; ok {
		return weight
	}
	return 0.5
}

// FieldReliability returns the field-specific trust weight for a source,
// falling back to the source's overall weight.
func FieldReliability(source, field string) float64 {
	if perSource, ok := fieldReliability[field]; ok {
		if weight, ok := perSource[source]; ok {
			return weight
		}
	}
	return Reliability(source)
}
