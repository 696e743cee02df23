// Package track defines the canonical track record and its supporting value
// types: source attributions, field conflicts, quality reports, acquisition
// options, and musical key notation.
//
// Everything here is pure data plus invariants. Behaviour (collecting,
// merging, scoring, ranking) lives in the packages that operate on these
// types.
package track
