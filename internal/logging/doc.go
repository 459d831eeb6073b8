// Package logging assembles the structured slog loggers used across passpack.
//
// It owns the console/JSON handler plumbing, centralizes level parsing, and
// exposes context-aware helpers so pipeline code can automatically tag log
// lines with ticket IDs, stages, and run correlation IDs. The package also
// provides a no-op logger for tests and wiring code that cannot fail.
//
// Prefer these constructors over hand-rolled slog setup so new components
// emit data with the same shape as the rest of the system.
package logging
