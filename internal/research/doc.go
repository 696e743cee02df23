// Package research drives a full metadata research run: it plans source
// waves, fans collectors out in parallel, merges and assesses the collected
// answers, ranks acquisition options, and renders the solved decision. The
// run's shared state lives on a blackboard context that only the
// orchestrator goroutine writes, so concurrent collectors never touch
// shared memory directly.
package research
