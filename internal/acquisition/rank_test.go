package acquisition

import (
	"testing"

	"trackdig/internal/config"
	"trackdig/internal/sources"
	"trackdig/internal/track"
)

func newTestRanker(prefs config.Acquisition) *Ranker {
	return New(prefs, nil)
}

func usableResult(source string, best sources.Candidate) sources.Result {
	return sources.Result{
		Source:      source,
		Success:     true,
		Candidates:  []sources.Candidate{best},
		ResultCount: 1,
	}
}

func TestPurchaseLosslessOutranksMediumStream(t *testing.T) {
	ranker := newTestRanker(config.Acquisition{})
	record := &track.Record{Title: "Strobe", Artist: "deadmau5"}
	options := ranker.Rank(record, []sources.Result{
		usableResult("spotify", sources.Candidate{Title: "Strobe", Artist: "deadmau5", Quality: track.QualityMedium}),
		usableResult("beatport", sources.Candidate{Title: "Strobe", Artist: "deadmau5", Price: 2.49, Currency: "USD"}),
	})
	if len(options) == 0 {
		t.Fatal("expected options")
	}
	first := options[0]
	if first.Type != track.AcquisitionPurchase || first.Quality != track.QualityLossless {
		t.Fatalf("lossless purchase should rank first, got %+v", first)
	}
	var beatport, spotify *track.AcquisitionOption
	for i := range options {
		switch options[i].Source {
		case "beatport":
			beatport = &options[i]
		case "spotify":
			spotify = &options[i]
		}
	}
	if beatport == nil || spotify == nil {
		t.Fatalf("expected both queried sources in %+v", options)
	}
	if beatport.Price != 2.49 {
		t.Fatalf("live price should win over the typical price, got %v", beatport.Price)
	}
	if beatport.Availability != track.AvailabilityConfirmed {
		t.Fatalf("queried source is confirmed, got %q", beatport.Availability)
	}
	if spotify.Quality != track.QualityMedium {
		t.Fatalf("live quality hint should lower the static tier, got %v", spotify.Quality)
	}
	if options[len(options)-1].Source != "spotify" {
		t.Fatalf("the medium stream should rank last, got %+v", options)
	}
}

func TestPhysicalAndPeerNetworkAreOptIn(t *testing.T) {
	record := &track.Record{Title: "Strobe", Artist: "deadmau5", Genre: "Progressive House"}
	results := []sources.Result{
		usableResult("discogs", sources.Candidate{Title: "Strobe", Artist: "deadmau5"}),
	}

	options := newTestRanker(config.Acquisition{}).Rank(record, results)
	for _, option := range options {
		if option.Type == track.AcquisitionPhysical || option.Type == track.AcquisitionPeerNetwork {
			t.Fatalf("disabled option type leaked through: %+v", option)
		}
	}

	options = newTestRanker(config.Acquisition{IncludePhysical: true, IncludePeerNetwork: true}).Rank(record, results)
	var physical, peer bool
	for _, option := range options {
		if option.Type == track.AcquisitionPhysical {
			physical = true
		}
		if option.Type == track.AcquisitionPeerNetwork {
			peer = true
		}
	}
	if !physical || !peer {
		t.Fatalf("enabled types should appear, got %+v", options)
	}
}

func TestElectronicProbeGatesBeatport(t *testing.T) {
	ranker := newTestRanker(config.Acquisition{})

	// A folk record should not be offered on an electronic-only store the
	// run never queried.
	folk := &track.Record{Title: "The Boxer", Artist: "Simon & Garfunkel", Genre: "Folk"}
	for _, option := range ranker.Rank(folk, nil) {
		if option.Source == "beatport" {
			t.Fatalf("beatport probe should skip non-electronic records: %+v", option)
		}
	}

	house := &track.Record{Title: "Strobe", Artist: "deadmau5", Genre: "Progressive House"}
	var probed *track.AcquisitionOption
	for _, option := range ranker.Rank(house, nil) {
		if option.Source == "beatport" {
			probed = &option
			break
		}
	}
	if probed == nil {
		t.Fatal("electronic record should probe beatport")
	}
	if probed.Availability != track.AvailabilityLikely {
		t.Fatalf("unqueried probe is only likely, got %q", probed.Availability)
	}
}

func TestPriceCeilingFiltersOptions(t *testing.T) {
	ranker := newTestRanker(config.Acquisition{MaxPrice: 2.00})
	record := &track.Record{Title: "Strobe", Artist: "deadmau5"}
	options := ranker.Rank(record, []sources.Result{
		usableResult("beatport", sources.Candidate{Title: "Strobe", Artist: "deadmau5", Price: 2.49}),
		usableResult("bandcamp", sources.Candidate{Title: "Strobe", Artist: "deadmau5", Price: 1.00}),
	})
	for _, option := range options {
		if option.Price > 2.00 {
			t.Fatalf("price ceiling violated: %+v", option)
		}
	}
}

func TestQualityPreferenceKeepsBestTier(t *testing.T) {
	ranker := newTestRanker(config.Acquisition{PreferredQuality: "lossless"})
	record := &track.Record{Title: "Strobe", Artist: "deadmau5"}
	options := ranker.Rank(record, []sources.Result{
		usableResult("spotify", sources.Candidate{Title: "Strobe", Artist: "deadmau5"}),
		usableResult("bandcamp", sources.Candidate{Title: "Strobe", Artist: "deadmau5"}),
	})
	if len(options) == 0 {
		t.Fatal("expected the lossless option to survive")
	}
	for _, option := range options {
		if !option.Quality.AtLeast(track.QualityLossless) {
			t.Fatalf("preference filter leaked a lower tier: %+v", option)
		}
	}
}

func TestUnqueriedProbeOrderIsDeterministic(t *testing.T) {
	ranker := newTestRanker(config.Acquisition{IncludePhysical: true, IncludePeerNetwork: true})
	record := &track.Record{Title: "Strobe", Artist: "deadmau5", Genre: "Techno"}
	first := ranker.Rank(record, nil)
	second := ranker.Rank(record, nil)
	if len(first) != len(second) {
		t.Fatalf("option count changed between runs: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].Source != second[i].Source {
			t.Fatalf("ranking order not deterministic at %d: %q vs %q", i, first[i].Source, second[i].Source)
		}
	}
}
