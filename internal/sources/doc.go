// Package sources defines the per-source search contract, the collector
// that wraps each adapter with caching, rate limiting, retries, and
// confidence scoring, and the static reliability tables.
//
// Each external platform lives in its own subpackage as a typed API client;
// the adapters in this package convert native responses into the canonical
// candidate shape. Adding a source means adding a client, an adapter, and a
// registry entry, never branching inside shared logic.
package sources
