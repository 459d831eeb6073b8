package pipeline

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"passpack/internal/logging"
	"passpack/internal/redmine"
	"passpack/internal/services"
)

// deliver uploads the archive and transitions the ticket to the resolved
// status. When the tracker rejects the update specifically because the
// configured assignee is invalid for the ticket's project, the update is
// retried exactly once without the reassignment; any other rejection, or a
// second failure, is fatal to the ticket. The retry routes around a known
// per-project membership inconsistency, not transient network failure.
func (r *Runner) deliver(ctx context.Context, ticket redmine.Ticket, archivePath string) error {
	logger := logging.WithContext(ctx, r.logger)

	token, err := r.tracker.UploadAttachment(ctx, archivePath)
	if err != nil {
		return services.Wrap(services.ErrTransient, "deliver", "upload archive", "", err)
	}

	params, _ := r.cfg.TicketParamsFor(ticket.ProjectKey)
	assigneeID := r.cfg.Tracker.AssignToID
	if params.AssignedToID > 0 {
		assigneeID = params.AssignedToID
	}

	archiveName := filepath.Base(archivePath)
	update := redmine.IssueUpdate{
		Notes:        fmt.Sprintf("Automated: attached %s. Closing ticket.", archiveName),
		StatusID:     r.cfg.Tracker.ResolvedStatusID,
		AssignedToID: assigneeID,
		CategoryID:   params.CategoryID,
		Uploads: []redmine.Upload{{
			Token:       token,
			Filename:    archiveName,
			ContentType: redmine.ArchiveContentType,
		}},
	}

	err = r.tracker.UpdateIssue(ctx, ticket.ID, update)
	if err == nil {
		return nil
	}

	var validation *redmine.ValidationError
	if errors.As(err, &validation) && validation.ConcernsAssignee() && update.AssignedToID > 0 {
		logger.Warn("assignee invalid for project, retrying update without reassignment",
			logging.Int("assignee", update.AssignedToID))
		update.AssignedToID = 0
		if retryErr := r.tracker.UpdateIssue(ctx, ticket.ID, update); retryErr != nil {
			return services.Wrap(services.ErrValidation, "deliver", "update ticket",
				"retry without reassignment failed", retryErr)
		}
		return nil
	}
	if errors.As(err, &validation) {
		return services.Wrap(services.ErrValidation, "deliver", "update ticket", "", err)
	}
	return services.Wrap(services.ErrTransient, "deliver", "update ticket", "", err)
}
