package track

// ConflictKind categorizes a field-level disagreement between sources.
type ConflictKind string

const (
	ConflictBPM         ConflictKind = "bpm_mismatch"
	ConflictKey         ConflictKind = "key_mismatch"
	ConflictDuration    ConflictKind = "duration_mismatch"
	ConflictGenre       ConflictKind = "genre_mismatch"
	ConflictReleaseDate ConflictKind = "release_date_mismatch"
)

// ConflictValue is one source's claim for a conflicted field.
type ConflictValue struct {
	Source string `json:"source"`
	Value  string `json:"value"`
}

// Conflict records a field where sources disagreed beyond tolerance, along
// with how the disagreement was resolved. Created only by the merger.
type Conflict struct {
	Field      string          `json:"field"`
	Kind       ConflictKind    `json:"kind"`
	Values     []ConflictValue `json:"values"`
	Resolved   string          `json:"resolved"`
	Rationale  string          `json:"rationale"`
	Confidence float64         `json:"confidence"`
}
