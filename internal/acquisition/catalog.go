package acquisition

import (
	"strings"

	"trackdig/internal/track"
)

// capability is the static description of what one source can deliver.
type capability struct {
	acquisitionType      track.AcquisitionType
	quality              track.AudioQuality
	formats              []string
	requiresSubscription bool
	regionRestricted     bool
	typicalPrice         float64
	currency             string
	// electronicOnly marks stores whose catalog is effectively limited to
	// electronic music, used by the availability probe for unqueried sources.
	electronicOnly bool
}

// catalog is the static per-source capability table. Adding a source to the
// engine means adding a row here, never branching on the name elsewhere.
var catalog = map[string]capability{
	"beatport": {
		acquisitionType: track.AcquisitionPurchase,
		quality:         track.QualityLossless,
		formats:         []string{"flac", "wav", "aiff", "mp3"},
		typicalPrice:    2.49,
		currency:        "USD",
		electronicOnly:  true,
	},
	"bandcamp": {
		acquisitionType: track.AcquisitionPurchase,
		quality:         track.QualityLossless,
		formats:         []string{"flac", "wav", "mp3"},
		typicalPrice:    1.50,
		currency:        "USD",
	},
	"spotify": {
		acquisitionType:      track.AcquisitionStream,
		quality:              track.QualityHigh,
		formats:              []string{"ogg"},
		requiresSubscription: true,
		regionRestricted:     true,
	},
	"discogs": {
		acquisitionType:  track.AcquisitionPhysical,
		quality:          track.QualityLossless,
		formats:          []string{"vinyl", "cd"},
		regionRestricted: true,
		typicalPrice:     12.00,
		currency:         "USD",
	},
	"soulseek": {
		acquisitionType: track.AcquisitionPeerNetwork,
		quality:         track.QualityLossless,
		formats:         []string{"flac", "mp3"},
	},
}

// electronicKeywords drives the availability probe for purchase-only
// electronic stores that were not queried during research.
var electronicKeywords = []string{
	"house", "techno", "trance", "electro", "drum", "dubstep", "garage",
	"hardstyle", "breakbeat", "edm", "dance",
}

func looksElectronic(genre string, subGenres []string) bool {
	haystack := strings.ToLower(genre + " " + strings.Join(subGenres, " "))
	for _, keyword := range electronicKeywords {
		if strings.Contains(haystack, keyword) {
			return true
		}
	}
	return false
}
