package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/camai/camai/internal/errors"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	// ConfigFileName is the default config file name.
	ConfigFileName = ".camai.yaml"
	// GlobalConfigDir is the directory for global config.
	GlobalConfigDir = ".config/camai"
	// GlobalConfigFile is the global config file name.
	GlobalConfigFile = "config.yaml"
	// EnvPrefix prefixes environment overrides (CAMAI_API_BASE_URL, ...).
	EnvPrefix = "CAMAI"
	// DotEnvFile is read from the working directory when present.
	DotEnvFile = ".env"
)

// Load reads config from the specified path.
func Load(path string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		if os.IsNotExist(err) {
			return nil, errors.WrapWithCode(err, errors.ErrConfig,
				"Config file not found",
				"Run 'camai config init' to create a config file, or specify one with --config")
		}
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to read config file",
			"Check the file exists and is valid YAML")
	}

	return parseConfig(v, path)
}

// Find locates the config file using the search order:
// 1. Explicit path (from --config flag)
// 2. .camai.yaml in current directory
// 3. .camai.yaml in parent directories (stops at git root or home)
// 4. ~/.config/camai/config.yaml (global defaults)
//
// Returns the path to the config file, or empty string if not found.
func Find(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			if os.IsNotExist(err) {
				return "", errors.WrapWithCode(err, errors.ErrConfig,
					"Specified config file not found: "+explicit,
					"Check the path is correct")
			}
			return "", errors.WrapWithCode(err, errors.ErrConfig,
				"Cannot access config file: "+explicit,
				"Check file permissions")
		}
		return explicit, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", errors.WrapWithCode(err, errors.ErrConfig,
			"Cannot determine current directory",
			"Check directory permissions")
	}

	localConfig := filepath.Join(cwd, ConfigFileName)
	if _, err := os.Stat(localConfig); err == nil {
		return localConfig, nil
	}

	home, _ := os.UserHomeDir()
	dir := cwd
	for {
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		if home != "" && parent == home {
			break
		}
		dir = parent

		configPath := filepath.Join(dir, ConfigFileName)
		if _, err := os.Stat(configPath); err == nil {
			return configPath, nil
		}

		// Stop at git root
		if _, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
			break
		}
	}

	if home != "" {
		globalConfig := filepath.Join(home, GlobalConfigDir, GlobalConfigFile)
		if _, err := os.Stat(globalConfig); err == nil {
			return globalConfig, nil
		}
	}

	return "", nil
}

// Resolve finds and loads the config, falling back to defaults (plus
// environment overrides) when no file exists. The returned path is empty
// when defaults were used.
func Resolve(explicit string) (*Config, string, error) {
	if err := LoadDotEnv(DotEnvFile); err != nil {
		return nil, "", err
	}

	path, err := Find(explicit)
	if err != nil {
		return nil, "", err
	}

	if path == "" {
		cfg, err := parseConfig(newViper(), "environment")
		return cfg, "", err
	}

	cfg, err := Load(path)
	return cfg, path, err
}

// LoadOrDefault loads config from the found path, or returns defaults if not found.
func LoadOrDefault() (*Config, error) {
	cfg, _, err := Resolve("")
	return cfg, err
}

// LoadDotEnv seeds the process environment from a dotenv file. Variables
// already set in the environment win. A missing file is not an error.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to read "+path,
			"Check the file uses KEY=value lines")
	}
	return nil
}

// newViper returns a viper instance with defaults and CAMAI_ env overrides.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

// parseConfig converts viper config to our Config struct with defaults merged in.
func parseConfig(v *viper.Viper, source string) (*Config, error) {
	cfg := DefaultConfig()

	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Invalid config format",
			"Check the YAML syntax in "+source)
	}

	cfg.API.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.API.BaseURL), "/")
	cfg.Logging.Dir = ExpandTilde(cfg.Logging.Dir)
	cfg.Bridge.Dir = ExpandTilde(cfg.Bridge.Dir)

	return cfg, nil
}

// setDefaults registers every key so env overrides and Unmarshal see them.
func setDefaults(v *viper.Viper) {
	v.SetDefault("version", CurrentConfigVersion)
	v.SetDefault("api.base_url", DefaultBaseURL)
	v.SetDefault("api.timeout", DefaultTimeout.String())
	v.SetDefault("dashboard.poll_interval", DefaultPollInterval.String())
	v.SetDefault("dashboard.alert_window", DefaultAlertWindow.String())
	v.SetDefault("dashboard.histogram_hours", DefaultHistogramHours)
	v.SetDefault("dashboard.recent_logs", DefaultRecentLogs)
	v.SetDefault("logging.dir", DefaultLogDir)
	v.SetDefault("logging.level", DefaultLogLevel)
	v.SetDefault("output.color", DefaultColor)
	v.SetDefault("bridge.dir", DefaultBridgeDir)
}
