package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Tracker contains connection and update settings for the issue tracker.
type Tracker struct {
	URL              string `toml:"url"`
	APIKey           string `toml:"api_key"`
	AssignToID       int    `toml:"assign_to_id"`
	ResolvedStatusID int    `toml:"resolved_status_id"`
	RequestTimeout   int    `toml:"request_timeout"`
}

// Paths contains directory configuration.
type Paths struct {
	OutputDir string `toml:"output_dir"`
	LogDir    string `toml:"log_dir"`
}

// Archive contains settings for the encrypted container step.
type Archive struct {
	DefaultPassword string `toml:"default_password"`
	Tool            string `toml:"tool"`
}

// Secret contains settings for secret generation and rendering.
type Secret struct {
	Length   int    `toml:"length"`
	FontPath string `toml:"font_path"`
}

// Visual contains settings for the external visual secret-sharing tool.
type Visual struct {
	Tool string `toml:"tool"`
}

// Document contains settings for the external document embedder.
type Document struct {
	Tool     string `toml:"tool"`
	Template string `toml:"template"`
}

// Report configures where escalation issues for unmapped projects are routed.
type Report struct {
	ProjectID    int    `toml:"project_id"`
	AssignedToID int    `toml:"assigned_to_id"`
	CategoryID   int    `toml:"category_id"`
	Subject      string `toml:"subject"`
	Description  string `toml:"description"`
}

// TicketParams carries per-project issue field overrides. They apply both to
// escalation-issue creation and to the final resolve/assign update.
type TicketParams struct {
	ProjectID    int            `toml:"project_id"`
	CategoryID   int            `toml:"category_id"`
	AssignedToID int            `toml:"assigned_to_id"`
	Extra        map[string]any `toml:"extra"`
}

// Project describes one configured tracker project.
type Project struct {
	Password string       `toml:"password"`
	Template string       `toml:"docx_template"`
	Ticket   TicketParams `toml:"ticket"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for passpack.
type Config struct {
	Tracker  Tracker            `toml:"redmine"`
	Paths    Paths              `toml:"paths"`
	Archive  Archive            `toml:"archive"`
	Secret   Secret             `toml:"secret"`
	Visual   Visual             `toml:"visual"`
	Document Document           `toml:"document"`
	Report   Report             `toml:"report_missing_project"`
	Projects map[string]Project `toml:"projects"`
	Logging  Logging            `toml:"logging"`
}

// SampleConfig returns the embedded annotated sample configuration.
func SampleConfig() string {
	return sampleConfig
}

// DefaultConfigPath returns the absolute path to the default configuration
// file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/passpack/config.toml")
}

// TicketParamsFor returns the per-project ticket overrides for the given
// project key, when configured.
func (c *Config) TicketParamsFor(projectKey string) (TicketParams, bool) {
	project, ok := c.Projects[projectKey]
	if !ok {
		return TicketParams{}, false
	}
	return project.Ticket, true
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized. The second return value
// is the resolved path, the third reports whether a file was found there.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		if _, err := os.Stat(expanded); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("passpack.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}
	return defaultPath, false, nil
}
