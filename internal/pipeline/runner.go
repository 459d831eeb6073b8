package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"passpack/internal/archive"
	"passpack/internal/config"
	"passpack/internal/credentials"
	"passpack/internal/docgen"
	"passpack/internal/ledger"
	"passpack/internal/logging"
	"passpack/internal/redmine"
	"passpack/internal/secrets"
	"passpack/internal/securefs"
	"passpack/internal/services"
	"passpack/internal/vsplit"
)

// Deps carries the collaborators a Runner needs. Config, Tracker, Splitter,
// Embedder, and Archiver are required; Ledger and Logger are optional.
type Deps struct {
	Config   *config.Config
	Tracker  redmine.Client
	Splitter vsplit.Client
	Embedder docgen.Client
	Archiver archive.Archiver
	Ledger   *ledger.Store
	Logger   *slog.Logger
	RunID    string
}

// Runner drives the per-ticket pipeline.
type Runner struct {
	cfg      *config.Config
	tracker  redmine.Client
	splitter vsplit.Client
	embedder docgen.Client
	archiver archive.Archiver
	resolver *credentials.Resolver
	renderer *secrets.Renderer
	ledger   *ledger.Store
	logger   *slog.Logger
	runID    string
}

// New constructs a Runner with initialized dependencies.
func New(deps Deps) (*Runner, error) {
	if deps.Config == nil || deps.Tracker == nil || deps.Splitter == nil ||
		deps.Embedder == nil || deps.Archiver == nil {
		return nil, errors.New("pipeline requires config, tracker, splitter, embedder, and archiver")
	}
	logger := deps.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Runner{
		cfg:      deps.Config,
		tracker:  deps.Tracker,
		splitter: deps.Splitter,
		embedder: deps.Embedder,
		archiver: deps.Archiver,
		resolver: credentials.NewResolver(deps.Config),
		renderer: secrets.NewRenderer(deps.Config.Secret.FontPath, logger),
		ledger:   deps.Ledger,
		logger:   logger,
		runID:    deps.RunID,
	}, nil
}

// Summary tallies ticket outcomes for one run.
type Summary struct {
	Completed          int
	Escalated          int
	EscalationFailures int
	Failed             int
}

// Processed returns the number of tickets the run handled.
func (s Summary) Processed() int {
	return s.Completed + s.Escalated + s.EscalationFailures + s.Failed
}

type ticketResult struct {
	outcome ledger.Outcome
	detail  string
}

// Run processes the given ticket ids, or every new ticket assigned to the
// current user when ids is empty. Per-ticket failures are absorbed into the
// summary; the returned error covers run-level conditions only.
func (r *Runner) Run(ctx context.Context, ticketIDs []int) (Summary, error) {
	ctx = services.WithRunID(ctx, r.runID)
	logger := logging.WithContext(ctx, r.logger)

	tickets, err := r.collectTickets(ctx, ticketIDs, logger)
	if err != nil {
		return Summary{}, err
	}

	// The writability probe runs once, before any ticket.
	outputRoot, err := securefs.ResolveWritableRoot(r.cfg.Paths.OutputDir, logger)
	if err != nil {
		return Summary{}, fmt.Errorf("resolve output root: %w", err)
	}

	var summary Summary
	for _, ticket := range tickets {
		result, fatal := r.processTicket(ctx, outputRoot, ticket)
		r.recordOutcome(ctx, ticket, result, logger)
		switch result.outcome {
		case ledger.OutcomeCompleted:
			summary.Completed++
		case ledger.OutcomeEscalated:
			summary.Escalated++
		case ledger.OutcomeEscalationFailed:
			summary.EscalationFailures++
		case ledger.OutcomeFailed:
			summary.Failed++
		}
		if fatal != nil {
			return summary, fatal
		}
	}

	logger.Info("run finished",
		logging.Int("completed", summary.Completed),
		logging.Int("escalated", summary.Escalated),
		logging.Int("escalation_failures", summary.EscalationFailures),
		logging.Int("failed", summary.Failed))
	return summary, nil
}

func (r *Runner) collectTickets(ctx context.Context, ticketIDs []int, logger *slog.Logger) ([]redmine.Ticket, error) {
	if len(ticketIDs) == 0 {
		tickets, err := r.tracker.ListNewAssigned(ctx)
		if err != nil {
			return nil, fmt.Errorf("fetch tickets: %w", err)
		}
		logger.Info("fetched new tickets assigned to current user", logging.Int("count", len(tickets)))
		return tickets, nil
	}
	// Manual mode: no project association is known for explicit ids, so
	// credential resolution takes the use-default path.
	tickets := make([]redmine.Ticket, 0, len(ticketIDs))
	for _, id := range ticketIDs {
		tickets = append(tickets, redmine.Ticket{ID: id})
	}
	logger.Info("running in manual mode", logging.Int("count", len(tickets)))
	return tickets, nil
}

// processTicket walks one ticket through the pipeline. The second return
// value is non-nil only for run-fatal conditions (secure random source
// unavailable); everything else is absorbed into the ticket result.
func (r *Runner) processTicket(parent context.Context, outputRoot string, ticket redmine.Ticket) (result ticketResult, fatal error) {
	ctx := services.WithTicketID(parent, ticket.ID)
	logger := logging.WithContext(ctx, r.logger)
	if ticket.ProjectKey != "" {
		logger = logger.With(logging.String(logging.FieldProject, ticket.ProjectKey))
	}

	workDir := filepath.Join(outputRoot, fmt.Sprintf("ticket_%d", ticket.ID))
	archivePath := ""
	defer func() {
		if err := securefs.Cleanup(workDir, archivePath); err != nil {
			logger.Warn("sensitive artifact cleanup incomplete", logging.Error(err))
		}
	}()

	if err := securefs.EnsureSecureDir(workDir); err != nil {
		return r.failTicket(logger, "create working directory", err), nil
	}

	secret, err := secrets.Generate(r.cfg.Secret.Length)
	if err != nil {
		// No entropy source means no ticket can be processed safely.
		wrapped := services.Wrap(services.ErrTransient, "secret", "generate", "", err)
		return r.failTicket(logger, "generate secret", wrapped), wrapped
	}
	secretFile := filepath.Join(workDir, fmt.Sprintf("ticket_%d_password.txt", ticket.ID))
	if err := os.WriteFile(secretFile, []byte(secret), securefs.FileMode); err != nil {
		return r.failTicket(logger, "write secret file", err), nil
	}
	if err := securefs.EnsureSecureFile(secretFile); err != nil {
		return r.failTicket(logger, "tighten secret file", err), nil
	}

	baseImage, err := r.renderer.Render(secret, workDir, ticket.ID)
	if err != nil {
		return r.failTicket(logger, "render secret image", err), nil
	}

	shareA, _, err := r.splitter.Split(ctx, baseImage)
	if err != nil {
		wrapped := services.Wrap(services.ErrExternalTool, "split", "visual secret sharing", "", err)
		return r.failTicket(logger, "split secret image", wrapped), nil
	}
	if err := securefs.EnsureSecureTree(workDir); err != nil {
		return r.failTicket(logger, "tighten share images", err), nil
	}

	resolution := r.resolver.Resolve(ticket.ProjectKey)
	logger.Debug("credentials resolved", logging.String("outcome", string(resolution.Outcome)))
	if resolution.Outcome == credentials.OutcomeEscalate {
		return r.escalate(ctx, ticket), nil
	}

	docPath := filepath.Join(workDir, fmt.Sprintf("ticket_%d.docx", ticket.ID))
	if err := r.embedder.Render(ctx, resolution.Template, shareA, docPath); err != nil {
		wrapped := services.Wrap(services.ErrExternalTool, "document", "embed share image", "", err)
		return r.failTicket(logger, "render document", wrapped), nil
	}

	if err := securefs.EnsureSecureTree(workDir); err != nil {
		return r.failTicket(logger, "tighten working directory", err), nil
	}

	archivePath, err = r.archiver.Create(ctx, workDir, ticket.ID, resolution.Password)
	if err != nil {
		wrapped := services.Wrap(services.ErrExternalTool, "archive", "create encrypted container", "", err)
		return r.failTicket(logger, "create archive", wrapped), nil
	}
	if err := securefs.EnsureSecureFile(archivePath); err != nil {
		return r.failTicket(logger, "tighten archive", err), nil
	}

	if err := r.deliver(ctx, ticket, archivePath); err != nil {
		return r.failTicket(logger, "deliver archive", err), nil
	}

	logger.Info("ticket completed: archive uploaded and local artifacts removed")
	return ticketResult{outcome: ledger.OutcomeCompleted}, nil
}

func (r *Runner) failTicket(logger *slog.Logger, operation string, err error) ticketResult {
	logger.Error("ticket failed", logging.String("operation", operation), logging.Error(err))
	return ticketResult{
		outcome: ledger.OutcomeFailed,
		detail:  fmt.Sprintf("%s: %v", operation, err),
	}
}

func (r *Runner) recordOutcome(ctx context.Context, ticket redmine.Ticket, result ticketResult, logger *slog.Logger) {
	if r.ledger == nil {
		return
	}
	entry := ledger.Entry{
		RunID:      r.runID,
		TicketID:   ticket.ID,
		ProjectKey: ticket.ProjectKey,
		Outcome:    result.outcome,
		Detail:     result.detail,
	}
	if err := r.ledger.Record(ctx, entry); err != nil {
		logger.Warn("ledger entry not recorded", logging.Error(err))
	}
}
