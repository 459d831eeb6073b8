package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"passpack/internal/archive"
	"passpack/internal/docgen"
	"passpack/internal/ledger"
	"passpack/internal/logging"
	"passpack/internal/pipeline"
	"passpack/internal/redmine"
	"passpack/internal/vsplit"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var ticketIDs []int

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Process tickets: generate, split, package, upload, destroy",
		Long: "Processes each ticket through the artifact pipeline: generate a one-time " +
			"secret, split its rendered image into two visual shares, embed one share " +
			"into the project's document template, package everything into an encrypted " +
			"archive, attach it to the ticket, and destroy all local artifacts.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			logger, err := logging.New(logging.Options{
				Level:  cfg.Logging.Level,
				Format: resolveLogFormat(cfg.Logging.Format),
				LogDir: cfg.Paths.LogDir,
			})
			if err != nil {
				return err
			}

			// One run at a time per host; concurrent runs would race on
			// working directories under the shared output root.
			lock := flock.New(filepath.Join(cfg.Paths.LogDir, "passpack.lock"))
			locked, err := lock.TryLock()
			if err != nil {
				return fmt.Errorf("acquire run lock: %w", err)
			}
			if !locked {
				return fmt.Errorf("another passpack run is already in progress")
			}
			defer func() {
				_ = lock.Unlock()
			}()

			store, err := ledger.Open(filepath.Join(cfg.Paths.LogDir, "ledger.db"))
			if err != nil {
				return fmt.Errorf("open run ledger: %w", err)
			}
			defer store.Close()

			tracker := redmine.NewHTTPClient(cfg.Tracker.URL, cfg.Tracker.APIKey,
				time.Duration(cfg.Tracker.RequestTimeout)*time.Second)

			runner, err := pipeline.New(pipeline.Deps{
				Config:   cfg,
				Tracker:  tracker,
				Splitter: vsplit.NewCLI(vsplit.WithBinary(cfg.Visual.Tool)),
				Embedder: docgen.NewCLI(docgen.WithBinary(cfg.Document.Tool)),
				Archiver: archive.NewCLI(archive.WithBinary(cfg.Archive.Tool)),
				Ledger:   store,
				Logger:   logger,
				RunID:    uuid.NewString(),
			})
			if err != nil {
				return err
			}

			summary, err := runner.Run(cmd.Context(), ticketIDs)
			printSummary(cmd, summary)
			if err != nil {
				return err
			}
			if summary.EscalationFailures > 0 {
				return fmt.Errorf("%d ticket(s) required escalation but the escalation issue could not be created",
					summary.EscalationFailures)
			}
			return nil
		},
	}

	cmd.Flags().IntSliceVar(&ticketIDs, "ticket-id", nil, "Process only the given ticket ids (repeatable)")
	return cmd
}

// resolveLogFormat turns the "auto" config value into a concrete handler
// choice based on whether stderr is a terminal.
func resolveLogFormat(format string) string {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "auto":
		if isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd()) {
			return "console"
		}
		return "json"
	default:
		return format
	}
}

func printSummary(cmd *cobra.Command, summary pipeline.Summary) {
	rows := [][]string{
		{"completed", strconv.Itoa(summary.Completed)},
		{"escalated", strconv.Itoa(summary.Escalated)},
		{"escalation failures", strconv.Itoa(summary.EscalationFailures)},
		{"failed", strconv.Itoa(summary.Failed)},
	}
	cmd.Println(renderTable([]string{"Outcome", "Tickets"}, rows, []columnAlignment{alignLeft, alignRight}))
	cmd.Printf("Processed %d ticket(s)\n", summary.Processed())
}
