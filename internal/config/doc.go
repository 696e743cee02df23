// Package config loads, validates, and normalizes the TOML configuration for
// the research engine and its CLI.
//
// Configuration resolves in order: an explicit --config path, then
// ~/.config/trackdig/config.toml, then ./trackdig.toml, finally built-in
// defaults. Credential fields are expanded from the environment so secrets
// never need to live in the file itself.
package config
