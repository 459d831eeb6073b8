package vsplit

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
)

var commandContext = exec.CommandContext

const (
	// ShareAName is the share embedded into the rendered document.
	ShareAName = "Password_A.png"
	// ShareBName is the counterpart share; it is packaged but otherwise unused.
	ShareBName = "Password_B.png"
)

// Client defines visual secret-sharing behaviour.
type Client interface {
	Split(ctx context.Context, baseImagePath string) (shareA, shareB string, err error)
}

// Option configures the CLI client.
type Option func(*CLI)

// WithBinary overrides the default tool binary.
func WithBinary(binary string) Option {
	return func(c *CLI) {
		if binary != "" {
			c.binary = binary
		}
	}
}

// CLI wraps the command-line visual splitter.
type CLI struct {
	binary string
}

// NewCLI constructs a CLI client using defaults.
func NewCLI(opts ...Option) *CLI {
	cli := &CLI{binary: "visual-split"}
	for _, opt := range opts {
		opt(cli)
	}
	return cli
}

// Split runs the splitter against the rendered secret image and returns the
// paths of the two produced shares. The tool runs with the image's directory
// as its working directory and is handed only the image filename.
func (c *CLI) Split(ctx context.Context, baseImagePath string) (string, string, error) {
	if baseImagePath == "" {
		return "", "", errors.New("base image path required")
	}
	workDir := filepath.Dir(baseImagePath)

	cmd := commandContext(ctx, c.binary, filepath.Base(baseImagePath))
	cmd.Dir = workDir
	if output, err := cmd.CombinedOutput(); err != nil {
		return "", "", fmt.Errorf("visual split failed: %w: %s", err, string(output))
	}

	shareA := filepath.Join(workDir, ShareAName)
	shareB := filepath.Join(workDir, ShareBName)
	for _, share := range []string{shareA, shareB} {
		if _, err := os.Stat(share); err != nil {
			return "", "", fmt.Errorf("visual split produced no %s: %w", filepath.Base(share), err)
		}
	}
	return shareA, shareB, nil
}

var _ Client = (*CLI)(nil)
