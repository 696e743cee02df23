// Package quality scores a merged track record for completeness, validity,
// and cross-field consistency, then decides whether the record clears the
// configured thresholds for a solved run.
package quality
