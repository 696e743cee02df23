// Package services defines shared utilities consumed by the research
// orchestrator and the per-source collectors.
//
// Key responsibilities:
//   - Context helpers that stamp run IDs, source names, and orchestrator
//     phases for logging and tracing.
//   - Structured error markers plus the Wrap helper that translate failures
//     into consistent run outcomes (identity conflict vs insufficient data vs
//     internal error).
//
// Use these helpers when wiring new research components so operational
// behaviour (error handling, observability, retries) stays uniform across the
// engine.
package services
