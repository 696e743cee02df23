package sources

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"trackdig/internal/cache"
	"trackdig/internal/config"
	"trackdig/internal/logging"
	"trackdig/internal/queryparse"
	"trackdig/internal/services"
)

const baseConfidence = 0.8

// Collector wraps one source adapter with caching, rate limiting, retries,
// and per-result confidence scoring. One instance per source.
type Collector struct {
	searcher   Searcher
	store      *cache.Store
	limiter    *rate.Limiter
	ttl        time.Duration
	maxResults int
	maxRetries int
	backoff    time.Duration
	logger     *slog.Logger
}

// NewCollector builds a collector for the given adapter. The cache store may
// be nil, which disables caching entirely.
func NewCollector(searcher Searcher, store *cache.Store, src config.Source, research config.Research, logger *slog.Logger) *Collector {
	if logger == nil {
		logger = logging.NewNop()
	}
	limiter := rate.NewLimiter(rate.Inf, 1)
	if src.RateLimitMillis > 0 {
		interval := time.Duration(src.RateLimitMillis) * time.Millisecond
		limiter = rate.NewLimiter(rate.Every(interval), 1)
	}
	return &Collector{
		searcher:   searcher,
		store:      store,
		limiter:    limiter,
		ttl:        time.Duration(src.CacheTTLMinutes) * time.Minute,
		maxResults: research.MaxResults,
		maxRetries: research.MaxRetries,
		backoff:    time.Duration(research.RetryBackoffMillis) * time.Millisecond,
		logger:     logger.With(logging.String(logging.FieldComponent, "collector")),
	}
}

// Source returns the wrapped adapter's source name.
func (c *Collector) Source() string {
	return c.searcher.Source()
}

// Collect runs one search for the parsed intent. It never returns an error:
// a source that fails after all retries yields a failed Result with
// confidence 0 so one bad source can never abort the research run.
func (c *Collector) Collect(ctx context.Context, intent queryparse.Intent) Result {
	// Pick up the run annotations the orchestrator placed on ctx and add this
	// collector's source so every log line carries run_id, phase, and source.
	ctx = services.WithSource(ctx, c.Source())
	logger := logging.WithContext(ctx, c.logger)

	query := c.searcher.BuildQuery(intent)
	started := time.Now()
	result := Result{
		Source:    c.Source(),
		Query:     query,
		FetchedAt: started.UTC(),
	}

	if candidates, ok := c.cachedCandidates(ctx, query); ok {
		result.Success = true
		result.CacheHit = true
		result.Candidates = candidates
		result.ResultCount = len(candidates)
		result.Confidence = c.scoreConfidence(intent, candidates)
		result.Elapsed = time.Since(started)
		logger.Debug("cache hit", logging.String("query", query), logging.Int("results", len(candidates)))
		return result
	}

	candidates, err := c.searchWithRetries(ctx, logger, query)
	result.Elapsed = time.Since(started)
	if err != nil {
		result.Err = err.Error()
		logger.Warn("source collection failed",
			logging.String("query", query),
			logging.Int("attempts", c.maxRetries),
			logging.Error(err))
		return result
	}

	result.Success = true
	result.Candidates = candidates
	result.ResultCount = len(candidates)
	result.Confidence = c.scoreConfidence(intent, candidates)
	c.storeCandidates(ctx, logger, query, candidates)

	logger.Info("source collected",
		logging.String("query", query),
		logging.Int("results", len(candidates)),
		logging.Float64("confidence", result.Confidence),
		logging.Duration("elapsed", result.Elapsed))
	return result
}

func (c *Collector) searchWithRetries(ctx context.Context, logger *slog.Logger, query string) ([]Candidate, error) {
	var lastErr error
	delay := c.backoff
	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
		candidates, err := c.searcher.Search(ctx, query, c.maxResults)
		if err == nil {
			return candidates, nil
		}
		lastErr = err
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, services.Wrap(services.ErrTimeout, "collector", "search", c.Source(), err)
		}
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		logger.Debug("search attempt failed",
			logging.Int("attempt", attempt),
			logging.Error(err))
		if attempt < c.maxRetries {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
			delay *= 2
		}
	}
	return nil, services.Wrap(services.ErrSourceFailure, "collector", "search", "retries exhausted", lastErr)
}

func (c *Collector) cachedCandidates(ctx context.Context, query string) ([]Candidate, bool) {
	if c.store == nil || c.ttl <= 0 {
		return nil, false
	}
	payload, err := c.store.Get(ctx, c.Source(), query)
	if err != nil {
		return nil, false
	}
	var candidates []Candidate
	if err := json.Unmarshal(payload, &candidates); err != nil {
		return nil, false
	}
	return candidates, true
}

func (c *Collector) storeCandidates(ctx context.Context, logger *slog.Logger, query string, candidates []Candidate) {
	if c.store == nil || c.ttl <= 0 {
		return
	}
	payload, err := json.Marshal(candidates)
	if err != nil {
		return
	}
	if err := c.store.Put(ctx, c.Source(), query, payload, c.ttl); err != nil {
		logger.Debug("cache write failed", logging.Error(err))
	}
}

// scoreConfidence implements the per-result confidence model: base weight x
// source reliability x result-count factor x match-quality factor.
func (c *Collector) scoreConfidence(intent queryparse.Intent, candidates []Candidate) float64 {
	if len(candidates) == 0 {
		return 0
	}

	countFactor := 1.0
	if n := len(candidates); n > 1 {
		// A unique hit is unambiguous; more hits mean more ambiguity.
		countFactor = 1.0 / (1.0 + 0.15*float64(n-1))
	}

	confidence := baseConfidence * Reliability(c.Source()) * countFactor * matchQuality(intent, candidates[0])
	if confidence > 1 {
		confidence = 1
	}
	return confidence
}

func matchQuality(intent queryparse.Intent, best Candidate) float64 {
	wantTitle := strings.ToLower(intent.Title)
	wantArtist := strings.ToLower(intent.Artist)
	gotTitle := strings.ToLower(best.Title)
	gotArtist := strings.ToLower(best.Artist)

	factor := 1.0
	if wantTitle != "" {
		if strings.Contains(gotTitle, wantTitle) || strings.Contains(wantTitle, gotTitle) {
			factor *= 1.2
		} else {
			factor *= 0.6
		}
	}
	if wantArtist != "" && gotArtist != "" {
		if strings.Contains(gotArtist, wantArtist) || strings.Contains(wantArtist, gotArtist) {
			factor *= 1.1
		} else {
			factor *= 0.7
		}
	}
	return factor
}
