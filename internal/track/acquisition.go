package track

import "sort"

// AcquisitionType is one way of obtaining a track.
type AcquisitionType string

const (
	AcquisitionPurchase    AcquisitionType = "purchase"
	AcquisitionDownload    AcquisitionType = "download"
	AcquisitionStream      AcquisitionType = "stream"
	AcquisitionPhysical    AcquisitionType = "physical"
	AcquisitionPeerNetwork AcquisitionType = "peer_network"
)

// Priority orders acquisition types for ranking: purchase beats download,
// download beats streaming and physical media, peer networks rank last.
func (t AcquisitionType) Priority() int {
	switch t {
	case AcquisitionPurchase:
		return 4
	case AcquisitionDownload:
		return 3
	case AcquisitionStream, AcquisitionPhysical:
		return 2
	case AcquisitionPeerNetwork:
		return 1
	default:
		return 0
	}
}

// Availability describes whether an option is believed obtainable right now.
type Availability string

const (
	AvailabilityConfirmed Availability = "confirmed"
	AvailabilityLikely    Availability = "likely"
	AvailabilityUnknown   Availability = "unknown"
)

// AcquisitionOption is one concrete way to obtain the track.
type AcquisitionOption struct {
	Source               string          `json:"source"`
	Type                 AcquisitionType `json:"type"`
	Quality              AudioQuality    `json:"quality"`
	Formats              []string        `json:"formats,omitempty"`
	Price                float64         `json:"price,omitempty"`
	Currency             string          `json:"currency,omitempty"`
	URL                  string          `json:"url,omitempty"`
	RequiresSubscription bool            `json:"requires_subscription"`
	RegionRestricted     bool            `json:"region_restricted"`
	Availability         Availability    `json:"availability"`
}

// SortOptions orders options by quality descending, then type priority
// descending, then price ascending. The slice is sorted in place.
func SortOptions(options []AcquisitionOption) {
	sort.SliceStable(options, func(i, j int) bool {
		if options[i].Quality != options[j].Quality {
			return options[i].Quality > options[j].Quality
		}
		if pi, pj := options[i].Type.Priority(), options[j].Type.Priority(); pi != pj {
			return pi > pj
		}
		return options[i].Price < options[j].Price
	})
}
