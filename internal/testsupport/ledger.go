package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"passpack/internal/config"
	"passpack/internal/ledger"
)

// MustOpenLedger opens a ledger.Store for tests and registers cleanup.
func MustOpenLedger(t testing.TB, cfg *config.Config) *ledger.Store {
	t.Helper()

	if err := os.MkdirAll(cfg.Paths.LogDir, 0o755); err != nil {
		t.Fatalf("mkdir log dir: %v", err)
	}
	store, err := ledger.Open(filepath.Join(cfg.Paths.LogDir, "ledger.db"))
	if err != nil {
		t.Fatalf("open ledger: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}
