package research

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"

	"trackdig/internal/config"
	"trackdig/internal/queryparse"
	"trackdig/internal/sources"
	"trackdig/internal/track"
)

type fakeSearcher struct {
	name       string
	candidates []sources.Candidate
	err        error
	block      bool
	calls      atomic.Int32
}

func (f *fakeSearcher) Source() string { return f.name }

func (f *fakeSearcher) BuildQuery(intent queryparse.Intent) string {
	return intent.SearchTerms()
}

func (f *fakeSearcher) Search(ctx context.Context, query string, maxResults int) ([]sources.Candidate, error) {
	f.calls.Add(1)
	if f.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.candidates, nil
}

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Research.RetryBackoffMillis = 1
	cfg.Research.RecordHistory = false
	return &cfg
}

func newTestOrchestrator(cfg *config.Config, searchers ...sources.Searcher) *Orchestrator {
	collectors := make([]*sources.Collector, 0, len(searchers))
	for _, searcher := range searchers {
		collectors = append(collectors, sources.NewCollector(searcher, nil, config.Source{}, cfg.Research, nil))
	}
	return New(cfg, collectors, nil, nil)
}

func fullCandidate() sources.Candidate {
	return sources.Candidate{
		Title:       "Strobe",
		Artist:      "deadmau5",
		Album:       "For Lack of a Better Name",
		Label:       "mau5trap",
		ReleaseDate: "2009-09-22",
		Genre:       "Progressive House",
		DurationMS:  634000,
		BPM:         128,
		Key:         "C#m",
		ISRC:        "CAN130900162",
		Quality:     track.QualityLossless,
	}
}

func TestResearchSolvesCorroboratedTrack(t *testing.T) {
	beatport := &fakeSearcher{name: "beatport", candidates: []sources.Candidate{fullCandidate()}}
	spotify := &fakeSearcher{name: "spotify", candidates: []sources.Candidate{fullCandidate()}}
	orchestrator := newTestOrchestrator(testConfig(), beatport, spotify)

	outcome := orchestrator.Research(context.Background(), "deadmau5 - Strobe")
	if !outcome.Solved {
		t.Fatalf("expected solved run, reason %q", outcome.Reason)
	}
	if outcome.Metadata == nil {
		t.Fatal("solved run must carry metadata")
	}
	if outcome.Metadata.Status != track.StatusSolved {
		t.Fatalf("status = %q", outcome.Metadata.Status)
	}
	if outcome.Metadata.KeyCamelot != "12A" {
		t.Fatalf("camelot = %q", outcome.Metadata.KeyCamelot)
	}
	if outcome.Confidence < 0.7 {
		t.Fatalf("confidence = %v", outcome.Confidence)
	}
	if outcome.Report == nil || !outcome.Report.MeetsRequirements {
		t.Fatalf("report = %+v", outcome.Report)
	}
	if len(outcome.Options) == 0 {
		t.Fatal("solved run must offer acquisition options")
	}
	if outcome.RunID == "" {
		t.Fatal("every run gets an id")
	}
	if outcome.Reason == "" {
		t.Fatal("every outcome carries a reason")
	}
}

func TestResearchReportsIdentityMismatch(t *testing.T) {
	a := &fakeSearcher{name: "spotify", candidates: []sources.Candidate{{Title: "Midnight City", Artist: "Artist X"}}}
	b := &fakeSearcher{name: "musicbrainz", candidates: []sources.Candidate{{Title: "Midnight City", Artist: "Someone Else"}}}
	orchestrator := newTestOrchestrator(testConfig(), a, b)

	outcome := orchestrator.Research(context.Background(), "Midnight City")
	if outcome.Solved {
		t.Fatal("conflicting identities must not solve")
	}
	if !strings.Contains(outcome.Reason, "identity mismatch") {
		t.Fatalf("reason should mention the identity mismatch, got %q", outcome.Reason)
	}
	if outcome.Metadata != nil {
		t.Fatal("no partial merge after identity failure")
	}
}

func TestResearchReportsInsufficientData(t *testing.T) {
	down := &fakeSearcher{name: "spotify", err: errors.New("status 503")}
	empty := &fakeSearcher{name: "musicbrainz"}
	orchestrator := newTestOrchestrator(testConfig(), down, empty)

	outcome := orchestrator.Research(context.Background(), "deadmau5 - Strobe")
	if outcome.Solved {
		t.Fatal("a run without usable data must not solve")
	}
	if !strings.Contains(outcome.Reason, "no source returned usable data") {
		t.Fatalf("reason = %q", outcome.Reason)
	}
	// The failed source is still reported, with its error attached.
	var sawFailure bool
	for _, result := range outcome.Sources {
		if result.Source == "spotify" && !result.Success && result.Err != "" {
			sawFailure = true
		}
	}
	if !sawFailure {
		t.Fatalf("failed source should appear in the outcome, got %+v", outcome.Sources)
	}
}

func TestResearchEarlyStopSkipsRemainingWaves(t *testing.T) {
	cfg := testConfig()
	cfg.Research.WaveSize = 1

	first := &fakeSearcher{name: "beatport", candidates: []sources.Candidate{fullCandidate()}}
	second := &fakeSearcher{name: "spotify", candidates: []sources.Candidate{fullCandidate()}}
	third := &fakeSearcher{name: "musicbrainz", candidates: []sources.Candidate{fullCandidate()}}
	orchestrator := newTestOrchestrator(cfg, first, second, third)

	outcome := orchestrator.Research(context.Background(), "deadmau5 - Strobe (Club Remix)")
	if !outcome.Solved {
		t.Fatalf("expected solved run, reason %q", outcome.Reason)
	}
	if got := third.calls.Load(); got != 0 {
		t.Fatalf("third wave should be skipped after early stop, got %d calls", got)
	}
}

func TestResearchEarlyStopDisabledRunsAllWaves(t *testing.T) {
	cfg := testConfig()
	cfg.Research.WaveSize = 1
	cfg.Research.EarlyStop = false

	first := &fakeSearcher{name: "beatport", candidates: []sources.Candidate{fullCandidate()}}
	second := &fakeSearcher{name: "spotify", candidates: []sources.Candidate{fullCandidate()}}
	third := &fakeSearcher{name: "musicbrainz", candidates: []sources.Candidate{fullCandidate()}}
	orchestrator := newTestOrchestrator(cfg, first, second, third)

	orchestrator.Research(context.Background(), "deadmau5 - Strobe")
	if got := third.calls.Load(); got == 0 {
		t.Fatal("with early stop disabled every wave runs")
	}
}

func TestResearchRejectsBlankQuery(t *testing.T) {
	beatport := &fakeSearcher{name: "beatport", candidates: []sources.Candidate{fullCandidate()}}
	orchestrator := newTestOrchestrator(testConfig(), beatport)

	outcome := orchestrator.Research(context.Background(), "   ")
	if outcome.Solved {
		t.Fatal("a blank query must not solve")
	}
	if !strings.Contains(outcome.Reason, "query failed validation") {
		t.Fatalf("reason = %q", outcome.Reason)
	}
	if got := beatport.calls.Load(); got != 0 {
		t.Fatalf("a blank query must not reach any source, got %d calls", got)
	}
}

func TestResearchTimedOutCollectorBecomesFailedResult(t *testing.T) {
	cfg := testConfig()
	cfg.Research.WaveSize = 2
	cfg.Research.CollectorTimeoutSeconds = 1

	beatport := &fakeSearcher{name: "beatport", candidates: []sources.Candidate{fullCandidate()}}
	spotify := &fakeSearcher{name: "spotify", block: true}
	musicbrainz := &fakeSearcher{name: "musicbrainz", candidates: []sources.Candidate{fullCandidate()}}
	bandcamp := &fakeSearcher{name: "bandcamp", candidates: []sources.Candidate{fullCandidate()}}
	discogs := &fakeSearcher{name: "discogs", candidates: []sources.Candidate{fullCandidate()}}
	orchestrator := newTestOrchestrator(cfg, beatport, spotify, musicbrainz, bandcamp, discogs)

	outcome := orchestrator.Research(context.Background(), "deadmau5 - Strobe (Club Remix)")

	var slow, waveMate *sources.Result
	for i := range outcome.Sources {
		switch outcome.Sources[i].Source {
		case "spotify":
			slow = &outcome.Sources[i]
		case "beatport":
			waveMate = &outcome.Sources[i]
		}
	}
	if slow == nil {
		t.Fatal("timed-out collector must still settle into the wave results")
	}
	if slow.Success {
		t.Fatal("a collector past its deadline cannot report success")
	}
	if !strings.Contains(slow.Err, "timeout") {
		t.Fatalf("deadline failure should classify as timeout, got %q", slow.Err)
	}
	if waveMate == nil || !waveMate.Success {
		t.Fatal("the slow collector must not drag down its wave mate")
	}
	if !outcome.Solved {
		t.Fatalf("expected corroborated run to solve despite one timeout, reason %q", outcome.Reason)
	}
	if got := discogs.calls.Load(); got != 0 {
		t.Fatalf("successes around the timeout still trigger early stop, got %d discogs calls", got)
	}
}

func TestResearchDiscoveredButNotSolved(t *testing.T) {
	// Both contributing sources lack a high-quality acquisition route and
	// the folk genre blocks the electronic store probe.
	candidate := fullCandidate()
	candidate.Genre = "Folk"
	candidate.Quality = track.QualityLossless

	mb := &fakeSearcher{name: "musicbrainz", candidates: []sources.Candidate{candidate}}
	discogs := &fakeSearcher{name: "discogs", candidates: []sources.Candidate{candidate}}
	orchestrator := newTestOrchestrator(testConfig(), mb, discogs)

	outcome := orchestrator.Research(context.Background(), "deadmau5 - Strobe")
	if outcome.Solved {
		t.Fatal("no high-quality acquisition means not solved")
	}
	if !strings.Contains(outcome.Reason, "discovered, not solved") {
		t.Fatalf("reason = %q", outcome.Reason)
	}
	if outcome.Metadata == nil || outcome.Metadata.Status != track.StatusDiscovered {
		t.Fatalf("metadata should survive as discovered, got %+v", outcome.Metadata)
	}
}

func TestResearchOneFailingSourceDoesNotAbort(t *testing.T) {
	good := &fakeSearcher{name: "beatport", candidates: []sources.Candidate{fullCandidate()}}
	alsoGood := &fakeSearcher{name: "spotify", candidates: []sources.Candidate{fullCandidate()}}
	down := &fakeSearcher{name: "bandcamp", err: errors.New("connection refused")}
	orchestrator := newTestOrchestrator(testConfig(), good, alsoGood, down)

	outcome := orchestrator.Research(context.Background(), "deadmau5 - Strobe")
	if !outcome.Solved {
		t.Fatalf("two healthy sources should still solve, reason %q", outcome.Reason)
	}
}

func TestBuildPlanPrioritizesByGenreHint(t *testing.T) {
	available := []string{"spotify", "musicbrainz", "discogs", "beatport", "bandcamp"}

	plan := buildPlan("Charlotte de Witte - Formula (Techno Mix)", available, 3)
	if plan.GenreHint != "electronic" {
		t.Fatalf("hint = %q", plan.GenreHint)
	}
	if plan.Order[0] != "beatport" {
		t.Fatalf("electronic queries should lead with beatport, got %v", plan.Order)
	}
	if len(plan.Waves) != 2 || len(plan.Waves[0]) != 3 || len(plan.Waves[1]) != 2 {
		t.Fatalf("waves = %v", plan.Waves)
	}

	plan = buildPlan("Simon & Garfunkel - The Boxer", available, 3)
	if plan.GenreHint != "" {
		t.Fatalf("no keyword should mean no hint, got %q", plan.GenreHint)
	}
	if plan.Order[0] != "spotify" {
		t.Fatalf("default order should be preserved, got %v", plan.Order)
	}
}

func TestBuildPlanKeepsUnknownSourcesAtTail(t *testing.T) {
	plan := buildPlan("some techno track", []string{"spotify", "custom-source", "beatport"}, 10)
	if plan.Order[0] != "beatport" {
		t.Fatalf("order = %v", plan.Order)
	}
	if plan.Order[len(plan.Order)-1] != "custom-source" {
		t.Fatalf("unlisted sources belong at the tail, got %v", plan.Order)
	}
}
