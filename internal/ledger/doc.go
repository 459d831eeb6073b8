// Package ledger journals per-ticket pipeline outcomes to SQLite so that
// credential resolution and delivery results stay auditable after the
// sensitive artifacts themselves have been destroyed. Each row records the
// run correlation id, the ticket, its project key, and how the ticket ended
// (completed, escalated, escalation_failed, failed).
package ledger
