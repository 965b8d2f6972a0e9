package config

import "time"

// CurrentConfigVersion is the schema version for the config file.
// Increment when making breaking changes to the config structure.
const CurrentConfigVersion = 1

// Config represents the complete .camai.yaml configuration file.
type Config struct {
	Version   int             `yaml:"version" mapstructure:"version"`
	API       APIConfig       `yaml:"api" mapstructure:"api"`
	Dashboard DashboardConfig `yaml:"dashboard" mapstructure:"dashboard"`
	Logging   LoggingConfig   `yaml:"logging" mapstructure:"logging"`
	Output    OutputConfig    `yaml:"output" mapstructure:"output"`
	Bridge    BridgeConfig    `yaml:"bridge" mapstructure:"bridge"`
}

// APIConfig points the console at the Camai backend.
type APIConfig struct {
	// BaseURL is the backend root, e.g. http://127.0.0.1:5000.
	// Also used when rendering webhook commands.
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`

	// Timeout bounds every request, including image uploads.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// DashboardConfig controls the TUI and the stats aggregation.
type DashboardConfig struct {
	// PollInterval is how often the Logs tab re-fetches /logs while visible.
	PollInterval time.Duration `yaml:"poll_interval" mapstructure:"poll_interval"`

	// AlertWindow is the look-back window for the alert counter.
	AlertWindow time.Duration `yaml:"alert_window" mapstructure:"alert_window"`

	// HistogramHours is the number of hourly buckets in the alert chart.
	HistogramHours int `yaml:"histogram_hours" mapstructure:"histogram_hours"`

	// RecentLogs is the size of the "latest logs" feed.
	RecentLogs int `yaml:"recent_logs" mapstructure:"recent_logs"`
}

// LoggingConfig controls the rotating log file.
type LoggingConfig struct {
	Dir   string `yaml:"dir" mapstructure:"dir"`
	Level string `yaml:"level" mapstructure:"level"`
}

// OutputConfig controls terminal output formatting.
type OutputConfig struct {
	// Color mode: "auto", "always", or "never".
	// "auto" disables color when output is piped.
	Color string `yaml:"color" mapstructure:"color"`
}

// BridgeConfig controls where downloaded bridge scripts are written.
type BridgeConfig struct {
	Dir string `yaml:"dir" mapstructure:"dir"`
}

// Defaults shared by DefaultConfig and the viper defaults.
const (
	DefaultBaseURL        = "http://127.0.0.1:5000"
	DefaultTimeout        = 30 * time.Second
	DefaultPollInterval   = 5 * time.Second
	DefaultAlertWindow    = 24 * time.Hour
	DefaultHistogramHours = 5
	DefaultRecentLogs     = 5
	DefaultLogDir         = "~/.camai/logs"
	DefaultLogLevel       = "info"
	DefaultColor          = "auto"
	DefaultBridgeDir      = "."

	// MinPollInterval keeps the Logs tab from hammering the backend.
	MinPollInterval = 500 * time.Millisecond
	// MaxHistogramHours keeps hour-of-day labels unique.
	MaxHistogramHours = 24
)

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Version: CurrentConfigVersion,
		API: APIConfig{
			BaseURL: DefaultBaseURL,
			Timeout: DefaultTimeout,
		},
		Dashboard: DashboardConfig{
			PollInterval:   DefaultPollInterval,
			AlertWindow:    DefaultAlertWindow,
			HistogramHours: DefaultHistogramHours,
			RecentLogs:     DefaultRecentLogs,
		},
		Logging: LoggingConfig{
			Dir:   DefaultLogDir,
			Level: DefaultLogLevel,
		},
		Output: OutputConfig{
			Color: DefaultColor,
		},
		Bridge: BridgeConfig{
			Dir: DefaultBridgeDir,
		},
	}
}
