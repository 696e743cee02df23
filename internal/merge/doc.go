// Package merge reconciles per-source candidates into one canonical track
// record. It validates that all sources describe the same track, detects and
// resolves field-level conflicts using per-field reliability weights, and
// produces a merged record with a deterministic confidence score.
package merge
