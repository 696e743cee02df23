package sources

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"trackdig/internal/cache"
	"trackdig/internal/config"
	"trackdig/internal/logging"
	"trackdig/internal/queryparse"
	"trackdig/internal/services"
)

type fakeSearcher struct {
	name       string
	candidates []Candidate
	errs       []error
	calls      int
}

func (f *fakeSearcher) Source() string { return f.name }

func (f *fakeSearcher) BuildQuery(intent queryparse.Intent) string {
	return intent.SearchTerms()
}

func (f *fakeSearcher) Search(ctx context.Context, query string, maxResults int) ([]Candidate, error) {
	f.calls++
	if len(f.errs) > 0 {
		err := f.errs[0]
		f.errs = f.errs[1:]
		if err != nil {
			return nil, err
		}
	}
	return f.candidates, nil
}

func testResearchConfig() config.Research {
	research := config.Default().Research
	research.RetryBackoffMillis = 1
	return research
}

func testCacheStore(t *testing.T) *cache.Store {
	t.Helper()
	cfg := config.Default()
	dir := t.TempDir()
	cfg.Paths.DataDir = dir
	cfg.Paths.LogDir = dir
	store, err := cache.Open(&cfg)
	if err != nil {
		t.Fatalf("open cache: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestCollectSingleExactMatchScoresHigh(t *testing.T) {
	searcher := &fakeSearcher{
		name:       "beatport",
		candidates: []Candidate{{Title: "Strobe", Artist: "deadmau5", BPM: 128}},
	}
	collector := NewCollector(searcher, nil, config.Source{}, testResearchConfig(), logging.NewNop())

	result := collector.Collect(context.Background(), queryparse.Parse("deadmau5 - Strobe"))
	if !result.Success {
		t.Fatalf("expected success, got error %q", result.Err)
	}
	if result.ResultCount != 1 {
		t.Fatalf("result count = %d", result.ResultCount)
	}
	if result.Confidence <= 0.7 || result.Confidence > 1 {
		t.Fatalf("single exact match should score high, got %v", result.Confidence)
	}
}

func TestCollectAmbiguousResultsScoreLower(t *testing.T) {
	exact := &fakeSearcher{name: "beatport", candidates: []Candidate{{Title: "Strobe", Artist: "deadmau5"}}}
	ambiguous := &fakeSearcher{name: "beatport", candidates: []Candidate{
		{Title: "Strobe", Artist: "deadmau5"},
		{Title: "Strobe (Radio Edit)", Artist: "deadmau5"},
		{Title: "Strobe Light", Artist: "Someone"},
	}}
	research := testResearchConfig()
	intent := queryparse.Parse("deadmau5 - Strobe")

	one := NewCollector(exact, nil, config.Source{}, research, logging.NewNop()).Collect(context.Background(), intent)
	many := NewCollector(ambiguous, nil, config.Source{}, research, logging.NewNop()).Collect(context.Background(), intent)
	if many.Confidence >= one.Confidence {
		t.Fatalf("ambiguous result set should score lower: %v vs %v", many.Confidence, one.Confidence)
	}
}

func TestCollectMismatchedTitlePenalized(t *testing.T) {
	matched := &fakeSearcher{name: "discogs", candidates: []Candidate{{Title: "Strobe", Artist: "deadmau5"}}}
	mismatched := &fakeSearcher{name: "discogs", candidates: []Candidate{{Title: "Something Else Entirely", Artist: "Another Band"}}}
	research := testResearchConfig()
	intent := queryparse.Parse("deadmau5 - Strobe")

	good := NewCollector(matched, nil, config.Source{}, research, logging.NewNop()).Collect(context.Background(), intent)
	bad := NewCollector(mismatched, nil, config.Source{}, research, logging.NewNop()).Collect(context.Background(), intent)
	if bad.Confidence >= good.Confidence {
		t.Fatalf("mismatched candidate should be penalized: %v vs %v", bad.Confidence, good.Confidence)
	}
}

func TestCollectRetriesTransientFailures(t *testing.T) {
	searcher := &fakeSearcher{
		name:       "musicbrainz",
		candidates: []Candidate{{Title: "Strobe", Artist: "deadmau5"}},
		errs:       []error{errors.New("status 503"), errors.New("status 503"), nil},
	}
	collector := NewCollector(searcher, nil, config.Source{}, testResearchConfig(), logging.NewNop())

	result := collector.Collect(context.Background(), queryparse.Parse("deadmau5 - Strobe"))
	if !result.Success {
		t.Fatalf("expected retry to recover, got %q", result.Err)
	}
	if searcher.calls != 3 {
		t.Fatalf("expected 3 attempts, got %d", searcher.calls)
	}
}

func TestCollectExhaustedRetriesNeverPanics(t *testing.T) {
	searcher := &fakeSearcher{
		name: "bandcamp",
		errs: []error{errors.New("boom"), errors.New("boom"), errors.New("boom")},
	}
	collector := NewCollector(searcher, nil, config.Source{}, testResearchConfig(), logging.NewNop())

	result := collector.Collect(context.Background(), queryparse.Parse("anything"))
	if result.Success {
		t.Fatal("expected failure after exhausted retries")
	}
	if result.Confidence != 0 {
		t.Fatalf("failed result must carry zero confidence, got %v", result.Confidence)
	}
	if result.Err == "" {
		t.Fatal("failed result must carry the error message")
	}
	if !strings.Contains(result.Err, services.ErrSourceFailure.Error()) {
		t.Fatalf("exhausted retries must classify as a source failure, got %q", result.Err)
	}
	if searcher.calls != 3 {
		t.Fatalf("expected exactly max retries attempts, got %d", searcher.calls)
	}
}

func TestCollectLogsRunAnnotationsFromContext(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	searcher := &fakeSearcher{
		name:       "beatport",
		candidates: []Candidate{{Title: "Strobe", Artist: "deadmau5"}},
	}
	collector := NewCollector(searcher, nil, config.Source{}, testResearchConfig(), logger)

	ctx := services.WithRunID(context.Background(), "run-42")
	ctx = services.WithPhase(ctx, "searching")
	collector.Collect(ctx, queryparse.Parse("deadmau5 - Strobe"))

	out := buf.String()
	for _, want := range []string{`"run_id":"run-42"`, `"phase":"searching"`, `"source":"beatport"`} {
		if !strings.Contains(out, want) {
			t.Fatalf("log output missing %s:\n%s", want, out)
		}
	}
}

func TestCollectUsesCacheOnSecondCall(t *testing.T) {
	store := testCacheStore(t)
	searcher := &fakeSearcher{
		name:       "spotify",
		candidates: []Candidate{{Title: "Strobe", Artist: "deadmau5"}},
	}
	src := config.Source{CacheTTLMinutes: 10}
	collector := NewCollector(searcher, store, src, testResearchConfig(), logging.NewNop())
	intent := queryparse.Parse("deadmau5 - Strobe")

	first := collector.Collect(context.Background(), intent)
	if first.CacheHit {
		t.Fatal("first call must miss the cache")
	}
	second := collector.Collect(context.Background(), intent)
	if !second.CacheHit {
		t.Fatal("second call should hit the cache")
	}
	if searcher.calls != 1 {
		t.Fatalf("cache hit must skip the network call, got %d calls", searcher.calls)
	}
	if second.Confidence != first.Confidence {
		t.Fatalf("cached result should score identically: %v vs %v", second.Confidence, first.Confidence)
	}
}

func TestCollectEmptyResultIsSuccessWithZeroConfidence(t *testing.T) {
	searcher := &fakeSearcher{name: "spotify"}
	collector := NewCollector(searcher, nil, config.Source{}, testResearchConfig(), logging.NewNop())

	result := collector.Collect(context.Background(), queryparse.Parse("deadmau5 - Strobe"))
	if !result.Success {
		t.Fatal("empty result set is not a failure")
	}
	if result.Confidence != 0 {
		t.Fatalf("no candidates means zero confidence, got %v", result.Confidence)
	}
	if result.Usable() {
		t.Fatal("empty result must not be usable for merging")
	}
}

func TestReliabilityTables(t *testing.T) {
	if Reliability("musicbrainz") <= Reliability("bandcamp") {
		t.Fatal("musicbrainz should outrank bandcamp overall")
	}
	if Reliability("unknown-source") != 0.5 {
		t.Fatalf("unknown sources should get the conservative default, got %v", Reliability("unknown-source"))
	}
	if FieldReliability("beatport", "bpm") <= FieldReliability("spotify", "bpm") {
		t.Fatal("beatport should be the BPM authority")
	}
	// Fallback to the overall weight when no field entry exists.
	if FieldReliability("discogs", "bpm") != Reliability("discogs") {
		t.Fatal("missing field entry should fall back to overall reliability")
	}
}
