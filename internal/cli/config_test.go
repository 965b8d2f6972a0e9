package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/camai/camai/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigInit(t *testing.T) {
	isolate(t)

	res := runCLI(t, "config", "init", "--url", "http://10.0.0.5:5000")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "Wrote "+config.ConfigFileName)

	cfg, err := config.Load(config.ConfigFileName)
	require.NoError(t, err)
	assert.Equal(t, "http://10.0.0.5:5000", cfg.API.BaseURL)

	res = runCLI(t, "config", "init")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "already exists")

	res = runCLI(t, "config", "init", "--force")
	require.Equal(t, 0, res.code, res.stderr)
	cfg, err = config.Load(config.ConfigFileName)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultBaseURL, cfg.API.BaseURL)
}

func TestConfigInit_Global(t *testing.T) {
	home := isolate(t)

	res := runCLI(t, "--json", "config", "init", "--global")
	require.Equal(t, 0, res.code, res.stdout)

	var out map[string]string
	res.data(t, &out)
	want := filepath.Join(home, config.GlobalConfigDir, config.GlobalConfigFile)
	assert.Equal(t, want, out["path"])
	assert.FileExists(t, want)
}

func TestConfigInit_RejectsBadURL(t *testing.T) {
	isolate(t)

	res := runCLI(t, "--json", "config", "init", "--url", "ftp://camera")
	assert.Equal(t, 1, res.code)
	env := res.envelope(t)
	require.NotNil(t, env.Error)
	assert.Equal(t, ErrCodeConfigInvalid, env.Error.Code)
	assert.NoFileExists(t, config.ConfigFileName)
}

func TestConfigShow(t *testing.T) {
	isolate(t)

	res := runCLI(t, "config", "show")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "# source: defaults")
	assert.Contains(t, res.stdout, "base_url: "+config.DefaultBaseURL)

	require.Equal(t, 0, runCLI(t, "config", "init").code)
	res = runCLI(t, "--json", "--api-url", "http://override:9000/", "config", "show")
	require.Equal(t, 0, res.code, res.stdout)

	var out ConfigShowOutput
	res.data(t, &out)
	assert.Contains(t, out.Path, config.ConfigFileName)
	api, ok := out.Config["api"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "http://override:9000", api["base_url"])
}

func TestConfigSet(t *testing.T) {
	isolate(t)

	res := runCLI(t, "config", "set", "api.base_url", "http://10.0.0.9:5000")
	assert.Equal(t, 1, res.code, "no file yet")
	assert.Contains(t, res.stderr, "camai config init")

	require.Equal(t, 0, runCLI(t, "config", "init").code)

	res = runCLI(t, "config", "set", "dashboard.poll_interval", "10s")
	require.Equal(t, 0, res.code, res.stderr)
	cfg, err := config.Load(config.ConfigFileName)
	require.NoError(t, err)
	assert.Equal(t, "10s", cfg.Dashboard.PollInterval.String())
}

func TestConfigSet_RollsBackInvalidValue(t *testing.T) {
	isolate(t)
	require.Equal(t, 0, runCLI(t, "config", "init").code)

	before, err := os.ReadFile(config.ConfigFileName)
	require.NoError(t, err)

	res := runCLI(t, "--json", "config", "set", "dashboard.poll_interval", "1ms")
	assert.Equal(t, 1, res.code)
	env := res.envelope(t)
	require.NotNil(t, env.Error)
	assert.Contains(t, env.Error.Message, "left unchanged")

	after, err := os.ReadFile(config.ConfigFileName)
	require.NoError(t, err)
	assert.Equal(t, string(before), string(after))
}

func TestBootstrap_InvalidConfig(t *testing.T) {
	isolate(t)
	require.NoError(t, os.WriteFile(config.ConfigFileName, []byte("api:\n  timeout: -5s\n"), 0o644))

	res := runCLI(t, "--json", "monitors", "list")
	assert.Equal(t, 1, res.code)
	env := res.envelope(t)
	require.NotNil(t, env.Error)
	assert.Equal(t, ErrCodeConfigInvalid, env.Error.Code)
}
