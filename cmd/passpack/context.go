package main

import (
	"github.com/spf13/cobra"

	"passpack/internal/config"
)

// annotationSkipConfig marks commands that must work without a valid
// configuration file (for example "config init").
const annotationSkipConfig = "passpack_skip_config"

// commandContext shares lazily loaded configuration between commands.
type commandContext struct {
	configFlag *string

	cfg        *config.Config
	configPath string
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

// ensureConfig loads and caches the configuration for this invocation.
func (c *commandContext) ensureConfig() (*config.Config, error) {
	if c.cfg != nil {
		return c.cfg, nil
	}
	path := ""
	if c.configFlag != nil {
		path = *c.configFlag
	}
	cfg, resolvedPath, _, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	c.cfg = cfg
	c.configPath = resolvedPath
	return cfg, nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for current := cmd; current != nil; current = current.Parent() {
		if current.Annotations[annotationSkipConfig] == "true" {
			return true
		}
	}
	return false
}
