package track

import "testing"

func TestSortOptionsQualityBeatsType(t *testing.T) {
	options := []AcquisitionOption{
		{Source: "spotify", Type: AcquisitionStream, Quality: QualityMedium},
		{Source: "beatport", Type: AcquisitionPurchase, Quality: QualityLossless, Price: 2.49, Currency: "USD"},
	}
	SortOptions(options)
	if options[0].Source != "beatport" {
		t.Fatalf("lossless purchase should rank first, got %s", options[0].Source)
	}
}

func TestSortOptionsTypePriorityBreaksQualityTies(t *testing.T) {
	options := []AcquisitionOption{
		{Source: "soulseek", Type: AcquisitionPeerNetwork, Quality: QualityLossless},
		{Source: "bandcamp", Type: AcquisitionPurchase, Quality: QualityLossless, Price: 1.00},
		{Source: "archive", Type: AcquisitionDownload, Quality: QualityLossless},
	}
	SortOptions(options)
	if options[0].Type != AcquisitionPurchase || options[1].Type != AcquisitionDownload || options[2].Type != AcquisitionPeerNetwork {
		t.Fatalf("unexpected order: %s, %s, %s", options[0].Type, options[1].Type, options[2].Type)
	}
}

func TestSortOptionsPriceBreaksFullTies(t *testing.T) {
	options := []AcquisitionOption{
		{Source: "beatport", Type: AcquisitionPurchase, Quality: QualityLossless, Price: 2.49},
		{Source: "bandcamp", Type: AcquisitionPurchase, Quality: QualityLossless, Price: 1.00},
	}
	SortOptions(options)
	if options[0].Source != "bandcamp" {
		t.Fatalf("cheaper purchase should rank first, got %s", options[0].Source)
	}
}

func TestQualityParsingAndOrdering(t *testing.T) {
	if !QualityLossless.AtLeast(QualityHigh) {
		t.Fatal("lossless should satisfy a high requirement")
	}
	if QualityMedium.AtLeast(QualityHigh) {
		t.Fatal("medium should not satisfy a high requirement")
	}
	if got := ParseQuality("FLAC"); got != QualityLossless {
		t.Fatalf("ParseQuality(FLAC) = %v", got)
	}
	if got := QualityFromBitrate(320); got != QualityHigh {
		t.Fatalf("QualityFromBitrate(320) = %v", got)
	}
	if got := QualityFromBitrate(1411); got != QualityLossless {
		t.Fatalf("QualityFromBitrate(1411) = %v", got)
	}
}
