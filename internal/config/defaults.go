package config

const (
	defaultOutputDir         = "~/.local/share/passpack/output"
	defaultLogDir            = "~/.local/share/passpack/logs"
	defaultArchiveTool       = "7z"
	defaultSecretLength      = 12
	defaultFontPath          = "/usr/share/fonts/truetype/dejavu/DejaVuSerif.ttf"
	defaultVisualTool        = "visual-split"
	defaultDocumentTool      = "mkdocx"
	defaultDocumentTemplate  = "~/.config/passpack/template.docx"
	defaultResolvedStatusID  = 3
	defaultRequestTimeout    = 30
	defaultLogFormat         = "auto"
	defaultLogLevel          = "info"
	defaultReportSubject     = "Missing configuration for project {project}"
	defaultReportDescription = "Project {project} (ticket {ticket}) has no entry in the packaging configuration."
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Tracker: Tracker{
			ResolvedStatusID: defaultResolvedStatusID,
			RequestTimeout:   defaultRequestTimeout,
		},
		Paths: Paths{
			OutputDir: defaultOutputDir,
			LogDir:    defaultLogDir,
		},
		Archive: Archive{
			Tool: defaultArchiveTool,
		},
		Secret: Secret{
			Length:   defaultSecretLength,
			FontPath: defaultFontPath,
		},
		Visual: Visual{
			Tool: defaultVisualTool,
		},
		Document: Document{
			Tool:     defaultDocumentTool,
			Template: defaultDocumentTemplate,
		},
		Report: Report{
			Subject:     defaultReportSubject,
			Description: defaultReportDescription,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
