package doctor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/camai/camai/internal/config"
	"github.com/camai/camai/internal/errors"
)

// ConfigFileCheck verifies that a config file exists. Running on defaults
// is allowed, so a missing file only warns.
type ConfigFileCheck struct {
	ConfigPath string // Explicit path, or empty to search
	FixDir     string // Where Fix writes a default config; "." when empty
}

func (c *ConfigFileCheck) Name() string     { return "config_file" }
func (c *ConfigFileCheck) Category() string { return CategoryConfig }

func (c *ConfigFileCheck) Run(ctx context.Context) CheckResult {
	path, err := config.Find(c.ConfigPath)
	if err != nil {
		return CheckResult{
			Status:     StatusFail,
			Message:    fmt.Sprintf("Error finding config: %s", errors.Summary(err)),
			Suggestion: "Check the --config path, or run 'camai config init' to create a config",
		}
	}

	if path == "" {
		return CheckResult{
			Status:     StatusWarn,
			Message:    "No config file found, using defaults and CAMAI_* environment",
			Suggestion: "Run 'camai config init' to create a .camai.yaml config file",
			Fixable:    true,
		}
	}

	return CheckResult{
		Status:  StatusPass,
		Message: fmt.Sprintf("Config file: %s", path),
	}
}

// Fix writes the default config when none exists.
func (c *ConfigFileCheck) Fix() error {
	if path, err := config.Find(c.ConfigPath); err != nil || path != "" {
		return err
	}
	dir := c.FixDir
	if dir == "" {
		dir = "."
	}
	target := filepath.Join(dir, config.ConfigFileName)
	if _, err := os.Stat(target); err == nil {
		return nil
	}
	return config.Write(target, config.DefaultConfig())
}

// ConfigSchemaCheck loads the effective config (file, .env and environment)
// and validates it.
type ConfigSchemaCheck struct {
	ConfigPath string
}

func (c *ConfigSchemaCheck) Name() string     { return "config_schema" }
func (c *ConfigSchemaCheck) Category() string { return CategoryConfig }

func (c *ConfigSchemaCheck) Run(ctx context.Context) CheckResult {
	cfg, path, err := config.Resolve(c.ConfigPath)
	if err != nil {
		return CheckResult{
			Status:     StatusFail,
			Message:    fmt.Sprintf("Failed to load config: %s", errors.Summary(err)),
			Suggestion: "Check the YAML syntax in your config file",
		}
	}

	if err := config.Validate(cfg); err != nil {
		suggestion := "Fix the configuration errors in your .camai.yaml"
		if cerr, ok := errors.As(err); ok && cerr.Suggestion != "" {
			suggestion = cerr.Suggestion
		}
		return CheckResult{
			Status:     StatusFail,
			Message:    fmt.Sprintf("Schema error: %s", errors.Summary(err)),
			Suggestion: suggestion,
		}
	}

	source := "defaults"
	if path != "" {
		source = filepath.Base(path)
	}
	return CheckResult{
		Status:  StatusPass,
		Message: fmt.Sprintf("Schema valid (%s), backend %s", source, cfg.API.BaseURL),
	}
}

func (c *ConfigSchemaCheck) Fix() error {
	return nil // Schema issues require manual intervention
}
