package archive

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

var commandContext = exec.CommandContext

// Extension is the container suffix for produced archives.
const Extension = ".7z"

// Archiver defines encrypted packaging behaviour.
type Archiver interface {
	Create(ctx context.Context, workDir string, ticketID int, password string) (string, error)
}

// Option configures the CLI archiver.
type Option func(*CLI)

// WithBinary overrides the default compressor binary.
func WithBinary(binary string) Option {
	return func(c *CLI) {
		if binary != "" {
			c.binary = binary
		}
	}
}

// CLI wraps the command-line 7z compressor.
type CLI struct {
	binary string
}

// NewCLI constructs a CLI archiver using defaults.
func NewCLI(opts ...Option) *CLI {
	cli := &CLI{binary: "7z"}
	for _, opt := range opts {
		opt(cli)
	}
	return cli
}

// Create collects the regular files directly inside workDir into an
// encrypted container named ticket_<id>.7z placed next to workDir. It fails
// when the directory holds no files and leaves no partial archive behind on
// compressor failure.
func (c *CLI) Create(ctx context.Context, workDir string, ticketID int, password string) (string, error) {
	if password == "" {
		return "", errors.New("archive password required")
	}
	entries, err := os.ReadDir(workDir)
	if err != nil {
		return "", fmt.Errorf("read working directory: %w", err)
	}
	files := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.Type().IsRegular() {
			files = append(files, filepath.Join(workDir, entry.Name()))
		}
	}
	if len(files) == 0 {
		return "", fmt.Errorf("no files in %s to archive", workDir)
	}

	archivePath := filepath.Join(filepath.Dir(workDir), fmt.Sprintf("ticket_%d%s", ticketID, Extension))

	// Bare -p makes 7z prompt for the password on stdin instead of taking
	// it from argv; new archives prompt twice for confirmation.
	args := append([]string{"a", "-t7z", "-p", archivePath}, files...)
	cmd := commandContext(ctx, c.binary, args...)
	cmd.Stdin = strings.NewReader(password + "\n" + password + "\n")
	if output, err := cmd.CombinedOutput(); err != nil {
		_ = os.Remove(archivePath)
		return "", fmt.Errorf("compressor failed: %w: %s", err, string(output))
	}
	return archivePath, nil
}

var _ Archiver = (*CLI)(nil)
