package research

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"trackdig/internal/acquisition"
	"trackdig/internal/cache"
	"trackdig/internal/config"
	"trackdig/internal/logging"
	"trackdig/internal/merge"
	"trackdig/internal/quality"
	"trackdig/internal/queryparse"
	"trackdig/internal/services"
	"trackdig/internal/sources"
	"trackdig/internal/track"
)

// Orchestrator runs the full research state machine for one query at a time:
// Planning, Searching, Analyzing, Validating, Resolving, then Completed or
// Failed.
type Orchestrator struct {
	cfg        *config.Config
	collectors map[string]*sources.Collector
	order      []string
	merger     *merge.Merger
	assessor   *quality.Assessor
	ranker     *acquisition.Ranker
	store      *cache.Store
	logger     *slog.Logger
}

// New wires the orchestrator from built collectors. The cache store is used
// only for run history and may be nil.
func New(cfg *config.Config, collectors []*sources.Collector, store *cache.Store, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = logging.NewNop()
	}
	byName := make(map[string]*sources.Collector, len(collectors))
	order := make([]string, 0, len(collectors))
	for _, collector := range collectors {
		byName[collector.Source()] = collector
		order = append(order, collector.Source())
	}
	return &Orchestrator{
		cfg:        cfg,
		collectors: byName,
		order:      order,
		merger:     merge.New(cfg.Thresholds, logger),
		assessor:   quality.New(cfg.Thresholds, logger),
		ranker:     acquisition.New(cfg.Acquisition, logger),
		store:      store,
		logger:     logger.With(logging.String(logging.FieldComponent, "research")),
	}
}

// Research resolves one free-text query into an outcome. It never returns an
// error: every failure mode produces an unsolved outcome with a
// human-readable reason.
func (o *Orchestrator) Research(ctx context.Context, query string) *Outcome {
	runID := uuid.NewString()
	ctx = services.WithRunID(ctx, runID)
	logger := logging.WithContext(ctx, o.logger)

	rctx := newContext(runID, query)
	logger.Info("research started", logging.String("query", query))

	if strings.TrimSpace(query) == "" {
		err := services.Wrap(services.ErrValidation, "research", "parse_query", "empty query", nil)
		rctx.Phase = PhaseFailed
		rctx.Reason = services.FailureReason(err)
		logger.Warn("research failed", logging.Error(err))
		return o.finish(ctx, rctx, logger)
	}

	o.plan(rctx, logger)
	o.search(services.WithPhase(ctx, string(PhaseSearching)), rctx, logger)

	if err := o.analyze(ctx, rctx, logger); err != nil {
		return o.finish(ctx, rctx, logger)
	}
	o.validate(rctx, logger)
	o.resolve(rctx, logger)
	o.decide(rctx)

	return o.finish(ctx, rctx, logger)
}

func (o *Orchestrator) plan(rctx *Context, logger *slog.Logger) {
	rctx.Phase = PhasePlanning
	rctx.Intent = queryparse.Parse(rctx.Query)
	rctx.Plan = buildPlan(rctx.Query, o.order, o.cfg.Research.WaveSize)
	logger.Debug("plan built",
		logging.String(logging.FieldPhase, string(rctx.Phase)),
		logging.String("genre_hint", rctx.Plan.GenreHint),
		logging.Int("sources", len(rctx.Plan.Order)),
		logging.Int("waves", len(rctx.Plan.Waves)))
}

// search runs the plan's waves in order. Within a wave collectors run
// concurrently; their results arrive over a channel and only this goroutine
// writes them to the blackboard. After each wave the early-stop rule may
// skip the remaining waves.
func (o *Orchestrator) search(ctx context.Context, rctx *Context, logger *slog.Logger) {
	rctx.Phase = PhaseSearching
	for i, wave := range rctx.Plan.Waves {
		o.runWave(ctx, rctx, wave)
		logger.Debug("wave finished",
			logging.String(logging.FieldPhase, string(rctx.Phase)),
			logging.Int("wave", i+1),
			logging.Int("succeeded", rctx.successCount()))

		if o.cfg.Research.EarlyStop && rctx.successCount() >= 2 && rctx.hasFullIdentity() {
			if i+1 < len(rctx.Plan.Waves) {
				logger.Info("early stop: enough corroborated identity",
					logging.Int("waves_skipped", len(rctx.Plan.Waves)-i-1))
			}
			return
		}
	}
}

func (o *Orchestrator) runWave(ctx context.Context, rctx *Context, wave []string) {
	waveCtx := ctx
	if budget := time.Duration(o.cfg.Research.WaveBudgetSeconds) * time.Second; budget > 0 {
		var cancel context.CancelFunc
		waveCtx, cancel = context.WithTimeout(ctx, budget)
		defer cancel()
	}

	results := make(chan sources.Result, len(wave))
	g, gctx := errgroup.WithContext(waveCtx)
	for _, name := range wave {
		collector, ok := o.collectors[name]
		if !ok {
			continue
		}
		g.Go(func() error {
			callCtx := gctx
			if timeout := time.Duration(o.cfg.Research.CollectorTimeoutSeconds) * time.Second; timeout > 0 {
				var cancel context.CancelFunc
				callCtx, cancel = context.WithTimeout(gctx, timeout)
				defer cancel()
			}
			// Collect never errors: a timed-out or failing source comes
			// back as a failed result and must not cancel its wave mates.
			results <- collector.Collect(callCtx, rctx.Intent)
			return nil
		})
	}
	go func() {
		_ = g.Wait()
		close(results)
	}()
	for result := range results {
		rctx.Results[result.Source] = result
	}
}

func (o *Orchestrator) analyze(ctx context.Context, rctx *Context, logger *slog.Logger) error {
	rctx.Phase = PhaseAnalyzing
	record, conflicts, err := o.merger.Merge(rctx.orderedResults())
	if err != nil {
		rctx.Phase = PhaseFailed
		rctx.Reason = services.FailureReason(err)
		logger.Warn("research failed",
			logging.String(logging.FieldPhase, string(PhaseAnalyzing)),
			logging.Error(err))
		return err
	}
	rctx.Record = record
	rctx.Conflicts = conflicts
	return nil
}

func (o *Orchestrator) validate(rctx *Context, logger *slog.Logger) {
	rctx.Phase = PhaseValidating
	rctx.Report = o.assessor.Assess(rctx.Record, rctx.Conflicts, nil)
	logger.Debug("record validated",
		logging.String(logging.FieldPhase, string(rctx.Phase)),
		logging.Float64("completeness", rctx.Report.Completeness),
		logging.Float64("confidence", rctx.Report.Confidence))
}

func (o *Orchestrator) resolve(rctx *Context, logger *slog.Logger) {
	rctx.Phase = PhaseResolving
	rctx.Options = o.ranker.Rank(rctx.Record, rctx.orderedResults())
	logger.Debug("acquisition resolved",
		logging.String(logging.FieldPhase, string(rctx.Phase)),
		logging.Int("options", len(rctx.Options)))
}

// decide renders the final verdict: solved requires both a record that meets
// the quality thresholds and at least one high-quality way to obtain it.
func (o *Orchestrator) decide(rctx *Context) {
	rctx.Confidence = rctx.Report.Confidence

	bestTier := track.QualityUnknown
	for _, option := range rctx.Options {
		if option.Quality > bestTier {
			bestTier = option.Quality
		}
	}

	switch {
	case rctx.Report.MeetsRequirements && bestTier.AtLeast(track.QualityHigh):
		rctx.Solved = true
		rctx.Phase = PhaseCompleted
		rctx.Record.Status = track.StatusSolved
		rctx.Reason = fmt.Sprintf("solved: %d sources agree at %.0f%% confidence with a %s acquisition available",
			rctx.Report.SourceCount, rctx.Confidence*100, bestTier)
	case rctx.Report.MeetsRequirements:
		rctx.Phase = PhaseCompleted
		rctx.Record.Status = track.StatusDiscovered
		rctx.Reason = "discovered, not solved: metadata verified but no high-quality acquisition option was found"
	default:
		rctx.Phase = PhaseCompleted
		rctx.Record.Status = track.StatusDiscovered
		reason := "quality thresholds not met"
		if len(rctx.Report.Recommendations) > 0 {
			reason = fmt.Sprintf("%s: %s", reason, rctx.Report.Recommendations[0])
		}
		rctx.Reason = reason
	}
}

// finish converts the blackboard into the public outcome and records the run
// in history. All branches land here, so the caller always gets a structured
// result.
func (o *Orchestrator) finish(ctx context.Context, rctx *Context, logger *slog.Logger) *Outcome {
	outcome := &Outcome{
		RunID:      rctx.RunID,
		Query:      rctx.Query,
		Solved:     rctx.Solved,
		Metadata:   rctx.Record,
		Report:     rctx.Report,
		Options:    rctx.Options,
		Conflicts:  rctx.Conflicts,
		Confidence: rctx.Confidence,
		Reason:     rctx.Reason,
		Sources:    rctx.orderedResults(),
		Elapsed:    time.Since(rctx.Started),
	}

	if o.cfg.Research.RecordHistory && o.store != nil {
		row := cache.HistoryRow{
			RunID:      rctx.RunID,
			Query:      rctx.Query,
			Solved:     rctx.Solved,
			Confidence: rctx.Confidence,
			Reason:     rctx.Reason,
			Sources:    rctx.successCount(),
			Duration:   outcome.Elapsed,
		}
		if err := o.store.RecordRun(ctx, row); err != nil {
			logger.Warn("history write failed", logging.Error(err))
		}
	}

	logger.Info("research finished",
		logging.Bool("solved", outcome.Solved),
		logging.Float64("confidence", outcome.Confidence),
		logging.String("reason", outcome.Reason),
		logging.Duration("elapsed", outcome.Elapsed))
	return outcome
}
