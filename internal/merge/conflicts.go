package merge

import (
	"fmt"
	"math"
	"strconv"

	"trackdig/internal/sources"
	"trackdig/internal/track"
)

const (
	bpmTolerance        = 2.0
	durationToleranceMS = 2000
)

// detectConflicts compares the designated fields across all candidates and
// records a conflict for each field where at least one pair disagrees beyond
// tolerance. The returned conflicts are unresolved.
func (m *Merger) detectConflicts(candidates []candidate) []track.Conflict {
	var conflicts []track.Conflict

	if values := bpmClaims(candidates); disagrees(values, func(a, b claim) bool {
		return bpmEquivalent(parseBPM(a.value), parseBPM(b.value))
	}) {
		conflicts = append(conflicts, newConflict("bpm", track.ConflictBPM, values))
	}

	if values := fieldClaims(candidates, func(c sources.Candidate) string { return c.Key }); disagrees(values, func(a, b claim) bool {
		return track.EquivalentKeys(a.value, b.value)
	}) {
		conflicts = append(conflicts, newConflict("key", track.ConflictKey, values))
	}

	if values := durationClaims(candidates); disagrees(values, func(a, b claim) bool {
		return durationEquivalent(parseDuration(a.value), parseDuration(b.value))
	}) {
		conflicts = append(conflicts, newConflict("duration_ms", track.ConflictDuration, values))
	}

	if values := fieldClaims(candidates, func(c sources.Candidate) string { return c.Genre }); disagrees(values, func(a, b claim) bool {
		return similarity(a.value, b.value) >= m.thresholds.TitleSimilarity
	}) {
		conflicts = append(conflicts, newConflict("genre", track.ConflictGenre, values))
	}

	if values := fieldClaims(candidates, func(c sources.Candidate) string { return c.ReleaseDate }); disagrees(values, func(a, b claim) bool {
		return datesAgree(a.value, b.value)
	}) {
		conflicts = append(conflicts, newConflict("release_date", track.ConflictReleaseDate, values))
	}

	return conflicts
}

// resolveConflict picks the claim from the source with the highest
// field-specific reliability weight and records the rationale.
func (m *Merger) resolveConflict(conflict *track.Conflict) {
	var bestSource, bestValue string
	bestWeight := -1.0
	for _, value := range conflict.Values {
		if weight := sources.FieldReliability(value.Source, conflict.Field); weight > bestWeight {
			bestWeight = weight
			bestSource = value.Source
			bestValue = value.Value
		}
	}
	conflict.Resolved = bestValue
	conflict.Rationale = fmt.Sprintf("%s carries the highest %s reliability (%.2f)", bestSource, conflict.Field, bestWeight)
	conflict.Confidence = bestWeight
}

type claim struct {
	source string
	value  string
}

func fieldClaims(candidates []candidate, get func(sources.Candidate) string) []claim {
	var claims []claim
	for _, c := range candidates {
		if value := get(c.best); value != "" {
			claims = append(claims, claim{source: c.source, value: value})
		}
	}
	return claims
}

func bpmClaims(candidates []candidate) []claim {
	var claims []claim
	for _, c := range candidates {
		if c.best.BPM > 0 {
			claims = append(claims, claim{source: c.source, value: formatBPM(c.best.BPM)})
		}
	}
	return claims
}

func durationClaims(candidates []candidate) []claim {
	var claims []claim
	for _, c := range candidates {
		if c.best.DurationMS > 0 {
			claims = append(claims, claim{source: c.source, value: strconv.Itoa(c.best.DurationMS)})
		}
	}
	return claims
}

// disagrees reports whether any pair of claims fails the field's equivalence
// rule. Fewer than two claims can never conflict.
func disagrees(claims []claim, equivalent func(a, b claim) bool) bool {
	for i := 0; i < len(claims); i++ {
		for j := i + 1; j < len(claims); j++ {
			if !equivalent(claims[i], claims[j]) {
				return true
			}
		}
	}
	return false
}

func newConflict(field string, kind track.ConflictKind, claims []claim) track.Conflict {
	values := make([]track.ConflictValue, 0, len(claims))
	for _, c := range claims {
		values = append(values, track.ConflictValue{Source: c.source, Value: c.value})
	}
	return track.Conflict{Field: field, Kind: kind, Values: values}
}

// bpmEquivalent allows the exact value within tolerance and half/double time
// within the same tolerance, so 130 and 65 never conflict.
func bpmEquivalent(a, b float64) bool {
	if a <= 0 || b <= 0 {
		return true
	}
	if math.Abs(a-b) <= bpmTolerance {
		return true
	}
	return math.Abs(a-2*b) <= bpmTolerance || math.Abs(2*a-b) <= bpmTolerance
}

func durationEquivalent(a, b int) bool {
	if a <= 0 || b <= 0 {
		return true
	}
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	return diff < durationToleranceMS
}

// datesAgree tolerates differing precision: "2009" agrees with "2009-09-07".
func datesAgree(a, b string) bool {
	if a == b {
		return true
	}
	if len(a) > len(b) {
		a, b = b, a
	}
	return len(a) >= 4 && b[:len(a)] == a
}

func formatBPM(bpm float64) string {
	return strconv.FormatFloat(bpm, 'f', -1, 64)
}

func parseBPM(value string) float64 {
	bpm, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0
	}
	return bpm
}

func parseDuration(value string) int {
	ms, err := strconv.Atoi(value)
	if err != nil {
		return 0
	}
	return ms
}
