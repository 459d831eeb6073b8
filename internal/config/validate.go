package config

import (
	"errors"
	"fmt"
	"strings"
)

// reservedExtraFields are ticket fields with typed counterparts; allowing them
// in the extra map would silently shadow the typed values at issue creation.
var reservedExtraFields = map[string]struct{}{
	"project_id":     {},
	"category_id":    {},
	"assigned_to_id": {},
	"subject":        {},
	"description":    {},
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateTracker(); err != nil {
		return err
	}
	if err := c.validateArchive(); err != nil {
		return err
	}
	if err := c.validateSecret(); err != nil {
		return err
	}
	if err := c.validateTools(); err != nil {
		return err
	}
	if err := c.validateProjects(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateTracker() error {
	if c.Tracker.URL == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/passpack/config.toml"
		}
		return fmt.Errorf("redmine.url is required; edit %s (create with 'passpack config init')", defaultPath)
	}
	if c.Tracker.APIKey == "" {
		return errors.New("redmine.api_key is required")
	}
	if c.Tracker.ResolvedStatusID <= 0 {
		return errors.New("redmine.resolved_status_id must be a positive status id")
	}
	if c.Tracker.AssignToID < 0 {
		return errors.New("redmine.assign_to_id must not be negative")
	}
	if c.Tracker.RequestTimeout <= 0 {
		return errors.New("redmine.request_timeout must be positive")
	}
	return nil
}

func (c *Config) validateArchive() error {
	if strings.TrimSpace(c.Archive.Tool) == "" {
		return errors.New("archive.tool must be set")
	}
	if c.Archive.DefaultPassword == "" {
		return errors.New("archive.default_password is required")
	}
	return nil
}

func (c *Config) validateSecret() error {
	if c.Secret.Length < 1 {
		return errors.New("secret.length must be at least 1")
	}
	return nil
}

func (c *Config) validateTools() error {
	if strings.TrimSpace(c.Visual.Tool) == "" {
		return errors.New("visual.tool must be set")
	}
	if strings.TrimSpace(c.Document.Tool) == "" {
		return errors.New("document.tool must be set")
	}
	if strings.TrimSpace(c.Document.Template) == "" {
		return errors.New("document.template must be set")
	}
	return nil
}

func (c *Config) validateProjects() error {
	for key, project := range c.Projects {
		if err := validateTicketParams(key, project.Ticket); err != nil {
			return err
		}
	}
	return nil
}

func validateTicketParams(projectKey string, params TicketParams) error {
	if params.ProjectID < 0 || params.CategoryID < 0 || params.AssignedToID < 0 {
		return fmt.Errorf("projects.%s.ticket: ids must not be negative", projectKey)
	}
	for field := range params.Extra {
		if _, reserved := reservedExtraFields[field]; reserved {
			return fmt.Errorf("projects.%s.ticket.extra: field %q must be set through its dedicated key", projectKey, field)
		}
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch strings.ToLower(strings.TrimSpace(c.Logging.Format)) {
	case "", "auto", "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	return nil
}
