// Package logging assembles the structured slog loggers used across the
// research engine.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so component code can
// automatically tag log lines with run IDs, source names, and orchestrator
// phases. The package also provides a no-op logger for tests and wiring code
// that cannot fail.
//
// Prefer these constructors over hand-rolled slog setup so every component
// emits data with the same shape as the rest of the system.
package logging
