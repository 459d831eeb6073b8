// Package pipeline sequences the per-ticket artifact lifecycle: secret
// generation, rendering, visual splitting, credential resolution, document
// embedding, encrypted packaging, delivery to the tracker, and unconditional
// destruction of sensitive artifacts.
//
// Failures are isolated per ticket; the run loop never aborts because one
// ticket failed. The single run-fatal condition is an unavailable secure
// random source. Cleanup of the ticket's working directory and archive is
// the universal terminal action on every exit path.
package pipeline
