package track

import (
	"fmt"
	"strings"
)

// AudioQuality is an ordered audio fidelity tier.
type AudioQuality int

const (
	QualityUnknown AudioQuality = iota
	QualityLow
	QualityMedium
	QualityHigh
	QualityLossless
)

var qualityNames = map[AudioQuality]string{
	QualityUnknown:  "unknown",
	QualityLow:      "low",
	QualityMedium:   "medium",
	QualityHigh:     "high",
	QualityLossless: "lossless",
}

// ParseQuality maps a case-insensitive tier name to its AudioQuality value.
// Unrecognized names map to QualityUnknown.
func ParseQuality(raw string) AudioQuality {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "low":
		return QualityLow
	case "medium", "standard":
		return QualityMedium
	case "high", "hq":
		return QualityHigh
	case "lossless", "flac", "cd":
		return QualityLossless
	default:
		return QualityUnknown
	}
}

// QualityFromBitrate infers a tier from an encoded bitrate in kbps. Zero
// means unknown; 1411 is the CD lossless rate.
func QualityFromBitrate(kbps int) AudioQuality {
	switch {
	case kbps <= 0:
		return QualityUnknown
	case kbps >= 1000:
		return QualityLossless
	case kbps >= 320:
		return QualityHigh
	case kbps >= 192:
		return QualityMedium
	default:
		return QualityLow
	}
}

func (q AudioQuality) String() string {
	if name, ok := qualityNames[q]; ok {
		return name
	}
	return "unknown"
}

// AtLeast reports whether q meets or exceeds the other tier.
func (q AudioQuality) AtLeast(other AudioQuality) bool {
	return q >= other
}

// MarshalText implements encoding.TextMarshaler.
func (q AudioQuality) MarshalText() ([]byte, error) {
	return []byte(q.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (q *AudioQuality) UnmarshalText(text []byte) error {
	parsed := ParseQuality(string(text))
	if parsed == QualityUnknown && string(text) != "" && string(text) != "unknown" {
		return fmt.Errorf("unrecognized audio quality %q", string(text))
	}
	*q = parsed
	return nil
}

// QualityReport captures the assessor's verdict on a merged record.
// Immutable once produced.
type QualityReport struct {
	AudioQuality      AudioQuality `json:"audio_quality"`
	Completeness      float64      `json:"completeness"`
	Validity          float64      `json:"validity"`
	Consistency       float64      `json:"consistency"`
	Confidence        float64      `json:"confidence"`
	SourceCount       int          `json:"source_count"`
	MissingFields     []string     `json:"missing_fields,omitempty"`
	Issues            []string     `json:"issues,omitempty"`
	Recommendations   []string     `json:"recommendations,omitempty"`
	MeetsRequirements bool         `json:"meets_requirements"`
}
