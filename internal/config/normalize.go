package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	c.Tracker.URL = strings.TrimRight(strings.TrimSpace(c.Tracker.URL), "/")
	c.Tracker.APIKey = strings.TrimSpace(c.Tracker.APIKey)

	pathFields := []*string{
		&c.Paths.OutputDir,
		&c.Paths.LogDir,
		&c.Secret.FontPath,
		&c.Document.Template,
	}
	for _, field := range pathFields {
		expanded, err := expandPath(*field)
		if err != nil {
			return err
		}
		*field = expanded
	}

	normalized := make(map[string]Project, len(c.Projects))
	for key, project := range c.Projects {
		trimmed := strings.TrimSpace(key)
		if trimmed == "" {
			return fmt.Errorf("projects: empty project key")
		}
		if project.Template != "" {
			expanded, err := expandPath(project.Template)
			if err != nil {
				return fmt.Errorf("projects.%s.docx_template: %w", trimmed, err)
			}
			project.Template = expanded
		}
		normalized[trimmed] = project
	}
	c.Projects = normalized

	return nil
}

// expandPath resolves a leading ~ against the current user's home directory
// and makes the result absolute.
func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", nil
	}
	if trimmed == "~" || strings.HasPrefix(trimmed, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	abs, err := filepath.Abs(trimmed)
	if err != nil {
		return "", fmt.Errorf("resolve path %q: %w", path, err)
	}
	return abs, nil
}
