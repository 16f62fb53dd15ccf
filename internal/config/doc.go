// Package config loads, normalizes, and validates shelver's TOML
// configuration.
//
// Load resolves the config file (explicit flag, ~/.config/shelver/config.toml,
// or ./shelver.toml), decodes it over the repository defaults, expands ~ in
// path fields, and validates the result. Downstream packages receive a fully
// normalized *Config and never re-check defaults.
package config
