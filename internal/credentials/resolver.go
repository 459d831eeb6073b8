package credentials

import (
	"strings"

	"passpack/internal/config"
)

// Outcome classifies how a project key resolved.
type Outcome string

const (
	// OutcomeUseDefault applies when the ticket has no project association.
	OutcomeUseDefault Outcome = "use-default"
	// OutcomeUseProject applies when the project has a configured password.
	OutcomeUseProject Outcome = "use-project"
	// OutcomeEscalate applies when the project is identified but unmapped;
	// the caller must raise an escalation issue and skip packaging.
	OutcomeEscalate Outcome = "escalate"
)

// Resolution is the result of resolving one ticket's project key. Password
// and Template are empty when Outcome is OutcomeEscalate.
type Resolution struct {
	Outcome  Outcome
	Password string
	Template string
}

// Resolver holds the project credential maps, built once from validated
// configuration.
type Resolver struct {
	passwords       map[string]string
	templates       map[string]string
	defaultPassword string
	defaultTemplate string
}

// NewResolver derives the credential maps from configuration. Only projects
// with a non-empty password count as mapped; a project entry that omits the
// password still escalates.
func NewResolver(cfg *config.Config) *Resolver {
	passwords := make(map[string]string, len(cfg.Projects))
	templates := make(map[string]string, len(cfg.Projects))
	for key, project := range cfg.Projects {
		if project.Password != "" {
			passwords[key] = project.Password
		}
		if project.Template != "" {
			templates[key] = project.Template
		}
	}
	return &Resolver{
		passwords:       passwords,
		templates:       templates,
		defaultPassword: cfg.Archive.DefaultPassword,
		defaultTemplate: cfg.Document.Template,
	}
}

// Resolve maps a project key to the archive password and document template
// for one ticket. The mapped password wins even when it equals the default.
func (r *Resolver) Resolve(projectKey string) Resolution {
	projectKey = strings.TrimSpace(projectKey)
	if projectKey == "" {
		return Resolution{
			Outcome:  OutcomeUseDefault,
			Password: r.defaultPassword,
			Template: r.defaultTemplate,
		}
	}
	if password, ok := r.passwords[projectKey]; ok {
		template := r.templates[projectKey]
		if template == "" {
			template = r.defaultTemplate
		}
		return Resolution{
			Outcome:  OutcomeUseProject,
			Password: password,
			Template: template,
		}
	}
	return Resolution{Outcome: OutcomeEscalate}
}
