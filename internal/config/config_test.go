package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/camai/camai/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, CurrentConfigVersion, cfg.Version)
	assert.Equal(t, "http://127.0.0.1:5000", cfg.API.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.API.Timeout)
	assert.Equal(t, 5*time.Second, cfg.Dashboard.PollInterval)
	assert.Equal(t, 24*time.Hour, cfg.Dashboard.AlertWindow)
	assert.Equal(t, 5, cfg.Dashboard.HistogramHours)
	assert.Equal(t, 5, cfg.Dashboard.RecentLogs)
	assert.Equal(t, "auto", cfg.Output.Color)
	require.NoError(t, Validate(cfg))
}

func TestLoad_MergesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFileName)
	writeFile(t, path, `
api:
  base_url: http://camai.local:8080/
dashboard:
  poll_interval: 10s
  histogram_hours: 12
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://camai.local:8080", cfg.API.BaseURL, "trailing slash is trimmed")
	assert.Equal(t, 10*time.Second, cfg.Dashboard.PollInterval)
	assert.Equal(t, 12, cfg.Dashboard.HistogramHours)
	assert.Equal(t, 24*time.Hour, cfg.Dashboard.AlertWindow, "unset keys keep defaults")
	assert.Equal(t, DefaultTimeout, cfg.API.Timeout)
}

func TestLoad_EnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFileName)
	writeFile(t, path, "api:\n  base_url: http://from-file:5000\n")
	t.Setenv("CAMAI_API_BASE_URL", "http://from-env:5000")
	t.Setenv("CAMAI_DASHBOARD_RECENT_LOGS", "9")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://from-env:5000", cfg.API.BaseURL)
	assert.Equal(t, 9, cfg.Dashboard.RecentLogs)
}

func TestLoad_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		require.Error(t, err)
		assert.True(t, errors.IsCode(err, errors.ErrConfig))
	})

	t.Run("invalid yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), ConfigFileName)
		writeFile(t, path, "api: [unclosed")
		_, err := Load(path)
		require.Error(t, err)
		assert.True(t, errors.IsCode(err, errors.ErrConfig))
	})
}

func TestFind(t *testing.T) {
	t.Run("explicit path", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "custom.yaml")
		writeFile(t, path, "version: 1\n")

		found, err := Find(path)
		require.NoError(t, err)
		assert.Equal(t, path, found)
	})

	t.Run("explicit path missing", func(t *testing.T) {
		_, err := Find(filepath.Join(t.TempDir(), "missing.yaml"))
		require.Error(t, err)
	})

	t.Run("current directory", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, ConfigFileName), "version: 1\n")
		t.Chdir(dir)

		found, err := Find("")
		require.NoError(t, err)
		assert.Equal(t, ConfigFileName, filepath.Base(found))
	})

	t.Run("parent directory stops at git root", func(t *testing.T) {
		root := t.TempDir()
		require.NoError(t, os.MkdirAll(filepath.Join(root, ".git"), 0755))
		writeFile(t, filepath.Join(root, ConfigFileName), "version: 1\n")
		nested := filepath.Join(root, "a", "b")
		require.NoError(t, os.MkdirAll(nested, 0755))
		t.Chdir(nested)

		found, err := Find("")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(root, ConfigFileName), evalSymlinks(t, found, root))
	})
}

// evalSymlinks normalises temp dirs that live behind symlinks (macOS /var).
func evalSymlinks(t *testing.T, found, root string) string {
	t.Helper()
	realRoot, err := filepath.EvalSymlinks(root)
	require.NoError(t, err)
	realFound, err := filepath.EvalSymlinks(found)
	require.NoError(t, err)
	rel, err := filepath.Rel(realRoot, realFound)
	require.NoError(t, err)
	return filepath.Join(root, rel)
}

func TestResolve_DotEnvAndDefaults(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", dir)
	writeFile(t, filepath.Join(dir, DotEnvFile), "CAMAI_DASHBOARD_HISTOGRAM_HOURS=8\n")
	t.Cleanup(func() { os.Unsetenv("CAMAI_DASHBOARD_HISTOGRAM_HOURS") })

	cfg, path, err := Resolve("")
	require.NoError(t, err)

	assert.Empty(t, path, "no config file, defaults used")
	assert.Equal(t, 8, cfg.Dashboard.HistogramHours)
	assert.Equal(t, DefaultBaseURL, cfg.API.BaseURL)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults are valid", func(*Config) {}, ""},
		{"future version", func(c *Config) { c.Version = 99 }, "from the future"},
		{"empty base url", func(c *Config) { c.API.BaseURL = "" }, "api.base_url is empty"},
		{"bad scheme", func(c *Config) { c.API.BaseURL = "ftp://x" }, "must start with http"},
		{"no host", func(c *Config) { c.API.BaseURL = "http://" }, "has no host"},
		{"zero timeout", func(c *Config) { c.API.Timeout = 0 }, "api.timeout"},
		{"poll too fast", func(c *Config) { c.Dashboard.PollInterval = 100 * time.Millisecond }, "below the 500ms minimum"},
		{"zero window", func(c *Config) { c.Dashboard.AlertWindow = 0 }, "alert_window"},
		{"too many hours", func(c *Config) { c.Dashboard.HistogramHours = 25 }, "between 1 and 24"},
		{"no hours", func(c *Config) { c.Dashboard.HistogramHours = 0 }, "between 1 and 24"},
		{"negative feed", func(c *Config) { c.Dashboard.RecentLogs = -1 }, "recent_logs"},
		{"bad level", func(c *Config) { c.Logging.Level = "loud" }, "Unknown log level"},
		{"bad color", func(c *Config) { c.Output.Color = "sometimes" }, "Unknown color mode"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)

			err := Validate(cfg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.True(t, errors.IsCode(err, errors.ErrConfig))
		})
	}
}

func TestWriteAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFileName)
	cfg := DefaultConfig()
	cfg.Dashboard.PollInterval = 7 * time.Second

	require.NoError(t, Write(path, cfg))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "poll_interval: 7s")
	assert.Contains(t, string(data), "# camai console configuration")

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 7*time.Second, loaded.Dashboard.PollInterval)
}

func TestSetValue(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFileName)
	writeFile(t, path, `# keep me
api:
  base_url: http://old:5000 # inline
dashboard:
  poll_interval: 5s
`)

	require.NoError(t, SetValue(path, "api.base_url", "http://new:5000"))
	require.NoError(t, SetValue(path, "output.color", "never"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	s := string(data)
	assert.Contains(t, s, "# keep me")
	assert.Contains(t, s, "http://new:5000")
	assert.NotContains(t, s, "http://old:5000")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "never", cfg.Output.Color)

	err = SetValue(path, "api", "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is a section")
}

func TestExpandTilde(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, "", ExpandTilde(""))
	assert.Equal(t, home, ExpandTilde("~"))
	assert.Equal(t, filepath.Join(home, ".camai/logs"), ExpandTilde("~/.camai/logs"))
	assert.Equal(t, "/abs/path", ExpandTilde("/abs/path"))
}
