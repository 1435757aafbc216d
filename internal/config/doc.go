// Package config loads, normalizes, and validates cinetag configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours the CINETAG_TAGS_DIR environment
// fallback. The Config type centralizes every knob the exporter and CLI need,
// so the tags root, history database, and log directory are discovered in one
// pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical engine names, and clear validation errors.
package config
