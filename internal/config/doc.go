// Package config loads and validates passpack configuration.
//
// Configuration lives in a single TOML file. Load applies repository defaults,
// decodes the file when present, expands and normalizes every path field, and
// validates the result so the rest of the system can treat the returned Config
// as resolved, read-only input. Project entries (archive password, document
// template, ticket field overrides) are checked at load time; malformed
// entries fail Load rather than surfacing mid-pipeline.
package config
