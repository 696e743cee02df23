package quality

import (
	"fmt"

	"trackdig/internal/track"
)

const maxRecommendations = 5

// recommend builds a bounded, prioritized list of follow-up actions: missing
// critical fields first, then the DJ-relevant technical fields, then broader
// evidence gathering, then quality upgrades.
func (a *Assessor) recommend(record *track.Record, report *track.QualityReport) []string {
	var recs []string
	add := func(rec string) {
		if len(recs) < maxRecommendations {
			recs = append(recs, rec)
		}
	}

	for _, field := range report.MissingFields {
		if criticalFields[field] {
			add(fmt.Sprintf("locate the missing %s before trusting this record", field))
		}
	}
	for _, field := range report.MissingFields {
		if djFields[field] {
			add(fmt.Sprintf("query a tempo/key authority for the missing %s", field))
		}
	}

	if report.SourceCount < a.thresholds.MinSources {
		add(fmt.Sprintf("only %d source(s) contributed; query additional sources for corroboration", report.SourceCount))
	}

	minTier := track.ParseQuality(a.thresholds.MinAudioQuality)
	if minTier == track.QualityUnknown {
		minTier = track.QualityHigh
	}
	if !report.AudioQuality.AtLeast(minTier) {
		subject := "this track"
		if record.Title != "" {
			subject = fmt.Sprintf("%q", record.Title)
		}
		add(fmt.Sprintf("best available quality for %s is %s; look for a %s or better copy", subject, report.AudioQuality, minTier))
	}

	return recs
}
