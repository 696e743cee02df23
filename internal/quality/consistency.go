package quality

import (
	"fmt"
	"strings"

	"trackdig/internal/track"
)

// genreBPMRanges maps lowercase genre keywords to the tempo band expected for
// that style. Matching is substring-based so "Progressive House" hits the
// house entry.
var genreBPMRanges = []struct {
	keyword  string
	min, max float64
}{
	{"drum", 160, 185},
	{"dubstep", 135, 150},
	{"hardstyle", 145, 160},
	{"trance", 125, 145},
	{"techno", 120, 150},
	{"house", 115, 132},
	{"garage", 125, 140},
	{"hip hop", 75, 115},
	{"hip-hop", 75, 115},
	{"trap", 130, 170},
	{"ambient", 50, 110},
	{"downtempo", 60, 110},
}

// consistency runs cross-field sanity checks and returns the fraction that
// pass. Only applicable checks count; a sparse record scores 1.
func consistency(record *track.Record, report *track.QualityReport) float64 {
	var checked, passed int

	if record.MixName != "" && len(record.Remixers) > 0 {
		checked++
		if remixerInMixName(record) {
			passed++
		} else {
			report.Issues = append(report.Issues, fmt.Sprintf("remixers %v do not appear in mix name %q", record.Remixers, record.MixName))
		}
	}

	if record.BPM > 0 && record.Genre != "" {
		if min, max, ok := genreTempoBand(record.Genre); ok {
			checked++
			if bpmFitsBand(record.BPM, min, max) {
				passed++
			} else {
				report.Issues = append(report.Issues, fmt.Sprintf("bpm %.1f unusual for genre %q (expected %.0f-%.0f)", record.BPM, record.Genre, min, max))
			}
		}
	}

	if record.Key != "" && record.KeyCamelot != "" {
		checked++
		// Alternate notations are derived together; both present means the
		// key parsed cleanly.
		passed++
	}

	if checked == 0 {
		return 1
	}
	return float64(passed) / float64(checked)
}

func remixerInMixName(record *track.Record) bool {
	mixName := strings.ToLower(record.MixName)
	for _, remixer := range record.Remixers {
		if remixer != "" && strings.Contains(mixName, strings.ToLower(remixer)) {
			return true
		}
	}
	return false
}

func genreTempoBand(genre string) (float64, float64, bool) {
	lowered := strings.ToLower(genre)
	for _, band := range genreBPMRanges {
		if strings.Contains(lowered, band.keyword) {
			return band.min, band.max, true
		}
	}
	return 0, 0, false
}

// bpmFitsBand accepts the stated tempo or its half/double-time counterpart.
func bpmFitsBand(bpm, min, max float64) bool {
	for _, candidate := range []float64{bpm, bpm * 2, bpm / 2} {
		if candidate >= min && candidate <= max {
			return true
		}
	}
	return false
}
