package testsupport

import (
	"path/filepath"
	"testing"

	"passpack/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Tracker.URL = "http://tracker.test"
	cfg.Tracker.APIKey = "test"
	cfg.Archive.DefaultPassword = "default-pw"
	cfg.Paths.OutputDir = filepath.Join(base, "output")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Document.Template = filepath.Join(base, "template.docx")
	cfg.Secret.FontPath = filepath.Join(base, "missing-font.ttf")

	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// WithProject registers a project entry on the test config.
func WithProject(key string, project config.Project) ConfigOption {
	return func(cfg *config.Config) {
		if cfg.Projects == nil {
			cfg.Projects = map[string]config.Project{}
		}
		cfg.Projects[key] = project
	}
}

// WithReport sets the escalation report configuration.
func WithReport(report config.Report) ConfigOption {
	return func(cfg *config.Config) {
		subject := cfg.Report.Subject
		description := cfg.Report.Description
		cfg.Report = report
		if cfg.Report.Subject == "" {
			cfg.Report.Subject = subject
		}
		if cfg.Report.Description == "" {
			cfg.Report.Description = description
		}
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.OutputDir)
}
