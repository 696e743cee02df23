// Package cache provides the SQLite-backed TTL response cache shared by all
// source collectors, plus the research run history table.
//
// The cache is read-through: concurrent misses for the same query may each
// hit the upstream source. That duplication is accepted; correctness only
// requires that a stored entry is never served past its TTL.
package cache
