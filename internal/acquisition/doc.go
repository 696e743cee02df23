// Package acquisition enumerates and ranks the concrete ways a researched
// track can be obtained, combining a static per-source capability table with
// the live signals the collectors returned.
package acquisition
