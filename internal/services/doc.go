// Package services defines shared utilities consumed by the pipeline stages
// and external integrations.
//
// Key responsibilities:
//   - Context helpers that stamp ticket IDs, stage names, and run correlation
//     identifiers for logging and auditing.
//   - Structured error markers plus the Wrap helper that classify failures
//     (external tool, validation, configuration) consistently across stages.
//
// Use these helpers when wiring new stage logic so operational behaviour
// (error handling, observability) stays uniform across the pipeline.
package services
