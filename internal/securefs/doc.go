// Package securefs enforces the filesystem lifecycle rules for sensitive
// pipeline artifacts: owner-only permissions on everything the pipeline
// creates, a writability probe with temp-dir fallback for the output root,
// and unconditional destruction of per-ticket working directories and
// archives once a ticket run ends.
//
// Permission tightening is best-effort. On bind-mounted or foreign-owned
// paths chmod may fail without the files being at risk, so those failures
// never abort a ticket.
package securefs
