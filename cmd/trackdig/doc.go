// Package main hosts the trackdig CLI entrypoint and command graph.
//
// The Cobra-based command tree turns terminal invocations into research
// runs, cache maintenance, configuration scaffolding, and run-history
// queries. It centralizes configuration resolution, environment loading, and
// structured logging setup so subcommands stay declarative.
//
// Keep this package lean: new functionality belongs in the internal packages
// first, surfaced here through dedicated commands or flags.
package main
