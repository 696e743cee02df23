package quality

import (
	"fmt"
	"log/slog"

	"trackdig/internal/config"
	"trackdig/internal/logging"
	"trackdig/internal/sources"
	"trackdig/internal/track"
)

// Assessor scores merged records against the configured quality gates.
type Assessor struct {
	thresholds config.Thresholds
	logger     *slog.Logger
}

func New(thresholds config.Thresholds, logger *slog.Logger) *Assessor {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Assessor{
		thresholds: thresholds,
		logger:     logger.With(logging.String(logging.FieldComponent, "quality")),
	}
}

// Assess produces the quality report for a merged record. The audio tier is
// taken from the best acquisition option when options are supplied, otherwise
// inferred from the quality hints the sources embedded in the record.
func (a *Assessor) Assess(record *track.Record, conflicts []track.Conflict, options []track.AcquisitionOption) *track.QualityReport {
	report := &track.QualityReport{
		SourceCount: len(record.AttributedSources()),
	}

	report.Completeness, report.MissingFields = completeness(record)
	report.Validity = validity(record, report)
	report.Consistency = consistency(record, report)
	report.AudioQuality = audioTier(record, options)

	for _, conflict := range conflicts {
		report.Issues = append(report.Issues, fmt.Sprintf("%s disagreement resolved via %s", conflict.Field, conflict.Rationale))
	}

	report.Confidence = a.confidence(record, report)
	report.MeetsRequirements = a.meetsRequirements(report)
	report.Recommendations = a.recommend(record, report)

	a.logger.Debug("record assessed",
		logging.Float64("completeness", report.Completeness),
		logging.Float64("validity", report.Validity),
		logging.Float64("consistency", report.Consistency),
		logging.Float64("confidence", report.Confidence),
		logging.Bool("meets_requirements", report.MeetsRequirements))
	return report
}

// confidence blends the component scores with the average reliability of the
// contributing sources, minus small penalties for noisy or thin evidence.
func (a *Assessor) confidence(record *track.Record, report *track.QualityReport) float64 {
	avgReliability := 0.0
	if names := record.AttributedSources(); len(names) > 0 {
		for _, name := range names {
			avgReliability += sources.Reliability(name)
		}
		avgReliability /= float64(len(names))
	}

	confidence := 0.3*report.Completeness + 0.2*report.Validity + 0.2*report.Consistency + 0.3*avgReliability
	if len(report.Issues) > 5 {
		confidence -= 0.05
	}
	if report.SourceCount < 2 {
		confidence -= 0.1
	}
	if confidence < 0 {
		return 0
	}
	if confidence > 1 {
		return 1
	}
	return confidence
}

func (a *Assessor) meetsRequirements(report *track.QualityReport) bool {
	if report.SourceCount < a.thresholds.MinSources {
		return false
	}
	if report.Completeness < a.thresholds.MinCompleteness {
		return false
	}
	if report.Confidence < a.thresholds.MinConfidence {
		return false
	}
	minTier := track.ParseQuality(a.thresholds.MinAudioQuality)
	if minTier == track.QualityUnknown {
		minTier = track.QualityHigh
	}
	return report.AudioQuality.AtLeast(minTier)
}

// audioTier prefers the best acquisition option's tier, falling back to the
// merged record's own quality hint.
func audioTier(record *track.Record, options []track.AcquisitionOption) track.AudioQuality {
	best := track.QualityUnknown
	for _, option := range options {
		if option.Quality > best {
			best = option.Quality
		}
	}
	if best != track.QualityUnknown {
		return best
	}
	if record.Quality != track.QualityUnknown {
		return record.Quality
	}
	return track.QualityFromBitrate(record.Bitrate)
}
