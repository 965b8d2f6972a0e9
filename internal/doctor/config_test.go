package doctor

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/camai/camai/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Chdir(dir)
	return dir
}

func TestConfigFileCheck(t *testing.T) {
	t.Run("explicit path missing", func(t *testing.T) {
		check := &ConfigFileCheck{ConfigPath: filepath.Join(t.TempDir(), "nonexistent.yaml")}
		result := check.Run(context.Background())
		assert.Equal(t, StatusFail, result.Status)
	})

	t.Run("config found", func(t *testing.T) {
		cfgPath := filepath.Join(t.TempDir(), ".camai.yaml")
		require.NoError(t, os.WriteFile(cfgPath, []byte("version: 1\napi:\n  base_url: http://cam:5000\n"), 0o644))

		result := (&ConfigFileCheck{ConfigPath: cfgPath}).Run(context.Background())
		assert.Equal(t, StatusPass, result.Status, result.Message)
		assert.Contains(t, result.Message, cfgPath)
	})

	t.Run("no config warns and fix writes defaults", func(t *testing.T) {
		dir := isolate(t)
		check := &ConfigFileCheck{FixDir: dir}

		result := check.Run(context.Background())
		assert.Equal(t, StatusWarn, result.Status)
		assert.True(t, result.Fixable)

		require.NoError(t, check.Fix())
		cfg, err := config.Load(filepath.Join(dir, config.ConfigFileName))
		require.NoError(t, err)
		assert.Equal(t, config.DefaultBaseURL, cfg.API.BaseURL)

		assert.Equal(t, StatusPass, check.Run(context.Background()).Status)
	})

	t.Run("name and category", func(t *testing.T) {
		check := &ConfigFileCheck{}
		assert.Equal(t, "config_file", check.Name())
		assert.Equal(t, CategoryConfig, check.Category())
	})
}

func TestConfigSchemaCheck(t *testing.T) {
	tests := []struct {
		name    string
		content string
		status  CheckStatus
		message string
	}{
		{"valid schema", "version: 1\napi:\n  base_url: http://cam:5000\n", StatusPass, "backend http://cam:5000"},
		{"bad color", "version: 1\noutput:\n  color: rainbow\n", StatusFail, "Unknown color mode"},
		{"from the future", "version: 99\n", StatusFail, "from the future"},
		{"broken yaml", "api: [unclosed\n", StatusFail, "Failed to load config"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfgPath := filepath.Join(t.TempDir(), "camai.yaml")
			require.NoError(t, os.WriteFile(cfgPath, []byte(tc.content), 0o644))

			result := (&ConfigSchemaCheck{ConfigPath: cfgPath}).Run(context.Background())
			assert.Equal(t, tc.status, result.Status, result.Message)
			assert.Contains(t, result.Message, tc.message)
		})
	}

	t.Run("defaults when no file", func(t *testing.T) {
		isolate(t)
		result := (&ConfigSchemaCheck{}).Run(context.Background())
		assert.Equal(t, StatusPass, result.Status)
		assert.Contains(t, result.Message, "defaults")
	})
}
