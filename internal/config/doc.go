// Package config loads, normalizes, and validates gearrack configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and derives the per-user cache root when no
// explicit directory is configured. The Config type centralizes every knob the
// plugin core and CLI need so cache, preset, and remote settings are
// discovered in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
