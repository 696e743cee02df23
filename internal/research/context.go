package research

import (
	"time"

	"trackdig/internal/queryparse"
	"trackdig/internal/sources"
	"trackdig/internal/track"
)

// Phase is one step of the research state machine.
type Phase string

const (
	PhasePlanning   Phase = "planning"
	PhaseSearching  Phase = "searching"
	PhaseAnalyzing  Phase = "analyzing"
	PhaseValidating Phase = "validating"
	PhaseResolving  Phase = "resolving"
	PhaseCompleted  Phase = "completed"
	PhaseFailed     Phase = "failed"
)

// Context is the blackboard for one research run. It is created per query,
// mutated only by the orchestrator goroutine (collector results arrive over
// a channel, never by direct writes), read once by the caller, and then
// discarded. It is never persisted.
type Context struct {
	RunID   string
	Query   string
	Intent  queryparse.Intent
	Plan    Plan
	Started time.Time
	Phase   Phase

	// Results holds one entry per collector that ran, keyed by source name.
	Results map[string]sources.Result

	Record    *track.Record
	Conflicts []track.Conflict
	Report    *track.QualityReport
	Options   []track.AcquisitionOption

	Solved     bool
	Confidence float64
	Reason     string
}

func newContext(runID, query string) *Context {
	return &Context{
		RunID:   runID,
		Query:   query,
		Started: time.Now(),
		Phase:   PhasePlanning,
		Results: make(map[string]sources.Result),
	}
}

// orderedResults returns the collected results in plan order so downstream
// components see a deterministic sequence.
func (c *Context) orderedResults() []sources.Result {
	results := make([]sources.Result, 0, len(c.Results))
	for _, name := range c.Plan.Order {
		if result, ok := c.Results[name]; ok {
			results = append(results, result)
		}
	}
	return results
}

// successCount reports how many sources returned a successful result.
func (c *Context) successCount() int {
	n := 0
	for _, result := range c.Results {
		if result.Success {
			n++
		}
	}
	return n
}

// hasFullIdentity reports whether any collected result supplies both a title
// and an artist, the early-stop requirement.
func (c *Context) hasFullIdentity() bool {
	for _, result := range c.Results {
		if !result.Success {
			continue
		}
		if best := result.Best(); best != nil && best.Title != "" && best.Artist != "" {
			return true
		}
	}
	return false
}

// Outcome is the engine's public result shape. Every run produces one; the
// engine never leaks an error across this boundary.
type Outcome struct {
	RunID      string                    `json:"run_id"`
	Query      string                    `json:"query"`
	Solved     bool                      `json:"solved"`
	Metadata   *track.Record             `json:"metadata,omitempty"`
	Report     *track.QualityReport      `json:"quality_report,omitempty"`
	Options    []track.AcquisitionOption `json:"acquisition_options,omitempty"`
	Conflicts  []track.Conflict          `json:"conflicts,omitempty"`
	Confidence float64                   `json:"confidence"`
	Reason     string                    `json:"reason"`
	Sources    []sources.Result          `json:"sources,omitempty"`
	Elapsed    time.Duration             `json:"elapsed"`
}
