package ledger

import "time"

// Outcome is the terminal state of one ticket's pipeline run.
type Outcome string

const (
	// OutcomeCompleted means the archive was uploaded and all local
	// artifacts destroyed.
	OutcomeCompleted Outcome = "completed"
	// OutcomeEscalated means the project was unmapped and an escalation
	// issue was created in its place.
	OutcomeEscalated Outcome = "escalated"
	// OutcomeEscalationFailed means escalation was required but the
	// escalation issue could not be created.
	OutcomeEscalationFailed Outcome = "escalation_failed"
	// OutcomeFailed means the ticket's pipeline aborted.
	OutcomeFailed Outcome = "failed"
)

// Entry is one journaled ticket outcome.
type Entry struct {
	ID         int64
	RunID      string
	TicketID   int
	ProjectKey string
	Outcome    Outcome
	Detail     string
	CreatedAt  time.Time
}
