package docgen

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
)

var commandContext = exec.CommandContext

// Client defines document embedding behaviour.
type Client interface {
	Render(ctx context.Context, templatePath, imagePath, outputPath string) error
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

// CLI wraps the command-line document embedder.
type CLI struct {
	binary string
}

// NewCLI constructs a CLI client using defaults.
func NewCLI(opts ...Option) *CLI {
	cli := &CLI{binary: "mkdocx"}
	for _, opt := range opts {
		opt(cli)
	}
	return cli
}

// Render embeds the share image into the template and writes the result to
// outputPath. A non-zero exit is a hard failure for the ticket.
func (c *CLI) Render(ctx context.Context, templatePath, imagePath, outputPath string) error {
	if templatePath == "" {
		return errors.New("template path required")
	}
	if imagePath == "" {
		return errors.New("image path required")
	}
	if outputPath == "" {
		return errors.New("output path required")
	}

	args := []string{"--template", templatePath, "--image", imagePath, "--out", outputPath}
	cmd := commandContext(ctx, c.binary, args...)
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("document render failed: %w: %s", err, string(output))
	}
	if _, err := os.Stat(outputPath); err != nil {
		return fmt.Errorf("document render produced no output: %w", err)
	}
	return nil
}

var _ Client = (*CLI)(nil)
