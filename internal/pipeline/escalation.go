package pipeline

import (
	"context"
	"strconv"
	"strings"

	"passpack/internal/ledger"
	"passpack/internal/logging"
	"passpack/internal/redmine"
	"passpack/internal/services"
)

// escalate raises a tracker issue for an identified-but-unmapped project and
// skips packaging for the ticket. Already-produced secret artifacts are
// cleaned by the caller's deferred cleanup. Escalation failures never abort
// the run; they are logged distinctly and reflected in the exit code.
func (r *Runner) escalate(ctx context.Context, ticket redmine.Ticket) ticketResult {
	logger := logging.WithContext(ctx, r.logger).With(
		logging.String(logging.FieldProject, ticket.ProjectKey))

	create, err := r.buildEscalation(ticket)
	if err != nil {
		logger.Error("escalation issue not created: configuration invalid", logging.Error(err))
		return ticketResult{outcome: ledger.OutcomeEscalationFailed, detail: err.Error()}
	}

	issueID, err := r.tracker.CreateIssue(ctx, create)
	if err != nil {
		logger.Error("escalation issue creation failed, skipping ticket", logging.Error(err))
		return ticketResult{outcome: ledger.OutcomeEscalationFailed, detail: err.Error()}
	}

	logger.Info("project not in configuration: escalation issue created, skipping ticket",
		logging.Int("escalation_issue", issueID))
	return ticketResult{
		outcome: ledger.OutcomeEscalated,
		detail:  "escalation issue #" + strconv.Itoa(issueID),
	}
}

// buildEscalation assembles the escalation issue from the report config and
// the project's ticket-param overrides. Overrides win over the report
// defaults field by field.
func (r *Runner) buildEscalation(ticket redmine.Ticket) (redmine.IssueCreate, error) {
	report := r.cfg.Report
	params, _ := r.cfg.TicketParamsFor(ticket.ProjectKey)

	projectID := params.ProjectID
	if projectID == 0 {
		projectID = report.ProjectID
	}
	assigneeID := params.AssignedToID
	if assigneeID == 0 {
		assigneeID = report.AssignedToID
	}
	categoryID := params.CategoryID
	if categoryID == 0 {
		categoryID = report.CategoryID
	}

	if projectID == 0 {
		return redmine.IssueCreate{}, services.Wrap(services.ErrConfiguration,
			"escalation", "build issue",
			"no escalation project configured (report_missing_project.project_id or a per-project override)", nil)
	}
	// The tracker needs at least one routing field to place the issue.
	if categoryID == 0 && assigneeID == 0 {
		return redmine.IssueCreate{}, services.Wrap(services.ErrConfiguration,
			"escalation", "build issue",
			"either category_id or assigned_to_id must be configured", nil)
	}

	return redmine.IssueCreate{
		ProjectID:    projectID,
		Subject:      interpolate(report.Subject, ticket),
		Description:  interpolate(report.Description, ticket),
		AssignedToID: assigneeID,
		CategoryID:   categoryID,
		Extra:        params.Extra,
	}, nil
}

func interpolate(template string, ticket redmine.Ticket) string {
	out := strings.ReplaceAll(template, "{project}", ticket.ProjectKey)
	return strings.ReplaceAll(out, "{ticket}", strconv.Itoa(ticket.ID))
}
