package quality

import (
	"fmt"
	"strconv"
	"time"

	"trackdig/internal/track"
)

const (
	minPlausibleBPM = 60.0
	maxPlausibleBPM = 200.0
	minDurationMS   = 10_000
	maxDurationMS   = 4 * 60 * 60 * 1000
	earliestYear    = 1900
)

// validity returns the fraction of range-constrained fields that pass their
// rule, counting only fields that are actually present. Failures append to
// the report's issue list. A record with no checkable fields scores 1.
func validity(record *track.Record, report *track.QualityReport) float64 {
	var checked, passed int

	if record.BPM > 0 {
		checked++
		if record.BPM >= minPlausibleBPM && record.BPM <= maxPlausibleBPM {
			passed++
		} else {
			report.Issues = append(report.Issues, fmt.Sprintf("bpm %.1f outside plausible range [%.0f, %.0f]", record.BPM, minPlausibleBPM, maxPlausibleBPM))
		}
	}

	if record.DurationMS > 0 {
		checked++
		if record.DurationMS >= minDurationMS && record.DurationMS <= maxDurationMS {
			passed++
		} else {
			report.Issues = append(report.Issues, fmt.Sprintf("duration %dms is implausible", record.DurationMS))
		}
	}

	if record.ReleaseDate != "" {
		checked++
		if year, ok := releaseYear(record.ReleaseDate); ok && year >= earliestYear && year <= time.Now().Year()+1 {
			passed++
		} else {
			report.Issues = append(report.Issues, fmt.Sprintf("release date %q has an implausible year", record.ReleaseDate))
		}
	}

	for name, score := range record.Features {
		checked++
		if score >= 0 && score <= 1 {
			passed++
		} else {
			report.Issues = append(report.Issues, fmt.Sprintf("feature %s=%.2f outside [0, 1]", name, score))
		}
	}

	if checked == 0 {
		return 1
	}
	return float64(passed) / float64(checked)
}

func releaseYear(date string) (int, bool) {
	if len(date) < 4 {
		return 0, false
	}
	year, err := strconv.Atoi(date[:4])
	if err != nil {
		return 0, false
	}
	return year, true
}
