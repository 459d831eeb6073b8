package ledger_test

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"passpack/internal/ledger"
)

func openStore(t *testing.T, path string) *ledger.Store {
	t.Helper()
	store, err := ledger.Open(path)
	if err != nil {
		t.Fatalf("open ledger: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestRecordAndRecent(t *testing.T) {
	store := openStore(t, filepath.Join(t.TempDir(), "ledger.db"))
	ctx := context.Background()

	entries := []ledger.Entry{
		{RunID: "run-1", TicketID: 42, ProjectKey: "alpha", Outcome: ledger.OutcomeCompleted, Detail: "archive uploaded"},
		{RunID: "run-1", TicketID: 7, ProjectKey: "beta", Outcome: ledger.OutcomeEscalated, Detail: "escalation issue #77"},
		{RunID: "run-2", TicketID: 9, Outcome: ledger.OutcomeFailed, Detail: "visual split failed"},
	}
	for _, entry := range entries {
		if err := store.Record(ctx, entry); err != nil {
			t.Fatalf("Record(%+v) failed: %v", entry, err)
		}
	}

	recent, err := store.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(recent) != 3 {
		t.Fatalf("got %d entries, want 3", len(recent))
	}
	// Most recent first.
	if recent[0].TicketID != 9 || recent[2].TicketID != 42 {
		t.Fatalf("unexpected order: %d, %d, %d",
			recent[0].TicketID, recent[1].TicketID, recent[2].TicketID)
	}
	if recent[1].Outcome != ledger.OutcomeEscalated || recent[1].Detail != "escalation issue #77" {
		t.Fatalf("entry = %+v", recent[1])
	}
	if recent[0].CreatedAt.IsZero() {
		t.Fatal("created_at not round-tripped")
	}
}

func TestRecentHonorsLimit(t *testing.T) {
	store := openStore(t, filepath.Join(t.TempDir(), "ledger.db"))
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		entry := ledger.Entry{RunID: "run", TicketID: i, Outcome: ledger.OutcomeCompleted}
		if err := store.Record(ctx, entry); err != nil {
			t.Fatalf("Record failed: %v", err)
		}
	}

	recent, err := store.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("got %d entries, want 2", len(recent))
	}
	if recent[0].TicketID != 5 || recent[1].TicketID != 4 {
		t.Fatalf("unexpected entries: %+v", recent)
	}
}

func TestRecordValidatesEntry(t *testing.T) {
	store := openStore(t, filepath.Join(t.TempDir(), "ledger.db"))
	ctx := context.Background()

	if err := store.Record(ctx, ledger.Entry{Outcome: ledger.OutcomeCompleted}); err == nil {
		t.Fatal("expected error without ticket id")
	}
	if err := store.Record(ctx, ledger.Entry{TicketID: 1}); err == nil {
		t.Fatal("expected error without outcome")
	}
}

func TestRecordPreservesExplicitTimestamp(t *testing.T) {
	store := openStore(t, filepath.Join(t.TempDir(), "ledger.db"))
	ctx := context.Background()

	when := time.Date(2026, time.March, 4, 5, 6, 7, 0, time.UTC)
	entry := ledger.Entry{RunID: "run", TicketID: 1, Outcome: ledger.OutcomeCompleted, CreatedAt: when}
	if err := store.Record(ctx, entry); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	recent, err := store.Recent(ctx, 1)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if !recent[0].CreatedAt.Equal(when) {
		t.Fatalf("created_at = %v, want %v", recent[0].CreatedAt, when)
	}
}

func TestReopenExistingDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.db")
	ctx := context.Background()

	first, err := ledger.Open(path)
	if err != nil {
		t.Fatalf("first open: %v", err)
	}
	entry := ledger.Entry{RunID: "run", TicketID: 1, Outcome: ledger.OutcomeCompleted}
	if err := first.Record(ctx, entry); err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	second := openStore(t, path)
	recent, err := second.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(recent) != 1 {
		t.Fatalf("entries lost across reopen: %d", len(recent))
	}
}

func TestOpenRejectsFutureSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.db")
	store, err := ledger.Open(path)
	if err != nil {
		t.Fatalf("open ledger: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	// Force the recorded version forward to simulate a newer database.
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open raw db: %v", err)
	}
	if _, err := db.Exec("UPDATE schema_version SET version = 999"); err != nil {
		t.Fatalf("bump schema version: %v", err)
	}
	if err := db.Close(); err != nil {
		t.Fatalf("close raw db: %v", err)
	}

	_, err = ledger.Open(path)
	if !errors.Is(err, ledger.ErrSchemaMismatch) {
		t.Fatalf("error = %v, want ErrSchemaMismatch", err)
	}
}
