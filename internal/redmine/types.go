package redmine

import "strings"

// Ticket is the pipeline's view of a tracker issue. ProjectKey is empty when
// no project association could be determined for the ticket.
type Ticket struct {
	ID         int
	ProjectKey string
}

// ArchiveContentType is the MIME type attached archives are declared with.
const ArchiveContentType = "application/x-7z-compressed"

// Upload references a previously uploaded attachment by token.
type Upload struct {
	Token       string `json:"token"`
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
}

// IssueUpdate carries the fields the pipeline sets when resolving a ticket.
// Zero-valued ids are omitted from the request.
type IssueUpdate struct {
	Notes        string
	StatusID     int
	AssignedToID int
	CategoryID   int
	Uploads      []Upload
}

// IssueCreate carries the fields for escalation-issue creation. Extra holds
// arbitrary additional issue fields from per-project configuration.
type IssueCreate struct {
	ProjectID    int
	Subject      string
	Description  string
	AssignedToID int
	CategoryID   int
	Extra        map[string]any
}

// ValidationError reports a tracker-side field rejection (HTTP 422).
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	if len(e.Messages) == 0 {
		return "tracker validation failed"
	}
	return "tracker validation failed: " + strings.Join(e.Messages, "; ")
}

// ConcernsAssignee reports whether any rejection message refers to the
// assignee field. The tracker localizes messages, so both the English and
// Italian tokens are recognized.
func (e *ValidationError) ConcernsAssignee() bool {
	for _, msg := range e.Messages {
		lower := strings.ToLower(msg)
		if strings.Contains(lower, "assigned") || strings.Contains(lower, "assegnato") {
			return true
		}
	}
	return false
}
