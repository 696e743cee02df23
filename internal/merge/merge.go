package merge

import (
	"log/slog"
	"sort"
	"strings"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"

	"trackdig/internal/config"
	"trackdig/internal/logging"
	"trackdig/internal/services"
	"trackdig/internal/sources"
	"trackdig/internal/track"
)

// candidate pairs one source's best answer with the collector result it came
// from. The merger only ever looks at the top candidate per source.
type candidate struct {
	source     string
	confidence float64
	best       sources.Candidate
	result     *sources.Result
}

// Merger reconciles collected source results into one canonical record.
type Merger struct {
	thresholds config.Thresholds
	logger     *slog.Logger
}

func New(thresholds config.Thresholds, logger *slog.Logger) *Merger {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Merger{
		thresholds: thresholds,
		logger:     logger.With(logging.String(logging.FieldComponent, "merger")),
	}
}

// Merge validates identity across the usable results, detects and resolves
// field conflicts, and builds the merged record. The returned conflicts are
// fully resolved. Identity failures and empty input come back as tagged
// errors; no partial merge is ever attempted after an identity failure.
func (m *Merger) Merge(results []sources.Result) (*track.Record, []track.Conflict, error) {
	candidates := usableCandidates(results)
	if len(candidates) == 0 {
		return nil, nil, services.Wrap(services.ErrInsufficientData, "merge", "collect_candidates", "no source returned a usable candidate", nil)
	}

	if err := m.validateIdentity(candidates); err != nil {
		return nil, nil, err
	}

	conflicts := m.detectConflicts(candidates)
	for i := range conflicts {
		m.resolveConflict(&conflicts[i])
	}

	record := m.mergeFields(candidates, conflicts)
	record.Status = track.StatusResearching
	record.RecomputeConfidence(m.agreementScore(candidates, conflicts))

	m.logger.Debug("merged record",
		logging.Int("sources", len(candidates)),
		logging.Int("conflicts", len(conflicts)),
		logging.Float64("confidence", record.Confidence))
	return record, conflicts, nil
}

// usableCandidates extracts the best candidate per successful source, ordered
// by collector confidence so the most trusted source wins first-non-empty
// merges. Order is deterministic: ties break on source name.
func usableCandidates(results []sources.Result) []candidate {
	candidates := make([]candidate, 0, len(results))
	for i := range results {
		result := &results[i]
		if !result.Usable() {
			continue
		}
		candidates = append(candidates, candidate{
			source:     result.Source,
			confidence: result.Confidence,
			best:       *result.Best(),
			result:     result,
		})
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].confidence != candidates[j].confidence {
			return candidates[i].confidence > candidates[j].confidence
		}
		return candidates[i].source < candidates[j].source
	})
	return candidates
}

// agreementScore feeds the record confidence: pairwise title agreement minus
// a per-conflict penalty plus a small diversity bonus per extra source.
func (m *Merger) agreementScore(candidates []candidate, conflicts []track.Conflict) float64 {
	agreement := 1.0
	if pairs := pairwiseTitleAgreement(candidates); pairs >= 0 {
		agreement = pairs
	}
	agreement -= 0.1 * float64(len(conflicts))
	if n := len(candidates); n > 1 {
		bonus := 0.05 * float64(n-1)
		if bonus > 0.1 {
			bonus = 0.1
		}
		agreement += bonus
	}
	if agreement < 0 {
		return 0
	}
	if agreement > 1 {
		return 1
	}
	return agreement
}

// pairwiseTitleAgreement averages title similarity across all candidate
// pairs. Returns -1 when fewer than two titled candidates exist.
func pairwiseTitleAgreement(candidates []candidate) float64 {
	var total float64
	var pairs int
	for i := 0; i < len(candidates); i++ {
		for j := i + 1; j < len(candidates); j++ {
			a, b := candidates[i].best.Title, candidates[j].best.Title
			if a == "" || b == "" {
				continue
			}
			total += similarity(a, b)
			pairs++
		}
	}
	if pairs == 0 {
		return -1
	}
	return total / float64(pairs)
}

// similarity is the shared fuzzy comparison for identity checks and list
// de-duplication. Inputs are normalized before scoring.
func similarity(a, b string) float64 {
	a, b = normalize(a), normalize(b)
	if a == b {
		return 1
	}
	return strutil.Similarity(a, b, metrics.NewJaroWinkler())
}

func normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
