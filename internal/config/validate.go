package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/camai/camai/internal/errors"
)

// validColorModes lists accepted values for output.color.
var validColorModes = map[string]bool{
	"auto":   true,
	"always": true,
	"never":  true,
}

// validLogLevels lists accepted values for logging.level.
var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Validate checks the config for errors and returns a structured error for
// the first problem found.
func Validate(cfg *Config) error {
	if cfg.Version > CurrentConfigVersion {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("This config is from the future (version %d, but camai only knows up to %d)", cfg.Version, CurrentConfigVersion),
			"Upgrade camai to read this config")
	}

	if err := validateAPI(cfg.API); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, err.Error(), "Check the 'api' section in your .camai.yaml.")
	}

	if err := validateDashboard(cfg.Dashboard); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, err.Error(), "Check the 'dashboard' section in your .camai.yaml.")
	}

	if !validLogLevels[strings.ToLower(cfg.Logging.Level)] {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Unknown log level '%s'", cfg.Logging.Level),
			"Use one of: debug, info, warn, error")
	}

	if !validColorModes[cfg.Output.Color] {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Unknown color mode '%s'", cfg.Output.Color),
			"Use one of: auto, always, never")
	}

	return nil
}

func validateAPI(api APIConfig) error {
	if api.BaseURL == "" {
		return fmt.Errorf("api.base_url is empty")
	}
	u, err := url.Parse(api.BaseURL)
	if err != nil {
		return fmt.Errorf("api.base_url %q is not a URL: %v", api.BaseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("api.base_url %q must start with http:// or https://", api.BaseURL)
	}
	if u.Host == "" {
		return fmt.Errorf("api.base_url %q has no host", api.BaseURL)
	}
	if api.Timeout <= 0 {
		return fmt.Errorf("api.timeout must be positive, got %s", api.Timeout)
	}
	return nil
}

func validateDashboard(d DashboardConfig) error {
	if d.PollInterval < MinPollInterval {
		return fmt.Errorf("dashboard.poll_interval %s is below the %s minimum", d.PollInterval, MinPollInterval)
	}
	if d.AlertWindow <= 0 {
		return fmt.Errorf("dashboard.alert_window must be positive, got %s", d.AlertWindow)
	}
	if d.HistogramHours < 1 || d.HistogramHours > MaxHistogramHours {
		return fmt.Errorf("dashboard.histogram_hours must be between 1 and %d, got %d", MaxHistogramHours, d.HistogramHours)
	}
	if d.RecentLogs < 0 {
		return fmt.Errorf("dashboard.recent_logs cannot be negative, got %d", d.RecentLogs)
	}
	return nil
}
