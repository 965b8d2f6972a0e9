package cli

import (
	"bytes"
	"encoding/json"
	"net/http"
	"os"
	"testing"

	"github.com/camai/camai/internal/config"
	"github.com/camai/camai/internal/doctor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, baseURL string) {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.API.BaseURL = baseURL
	cfg.Logging.Dir = t.TempDir()
	cfg.Bridge.Dir = t.TempDir()
	require.NoError(t, config.Write(config.ConfigFileName, cfg))
}

func findCheck(out DoctorOutput, name string) (doctor.CheckResult, bool) {
	for _, cat := range out.Categories {
		for _, r := range cat.Results {
			if r.Name == name {
				return r, true
			}
		}
	}
	return doctor.CheckResult{}, false
}

func TestDoctor_AllClear(t *testing.T) {
	isolate(t)
	b := newTestBackend(t, true)
	writeConfig(t, b.url)

	res := runCLI(t, "--json", "doctor")
	require.Equal(t, 0, res.code, res.stdout)

	out := doctorReport(t, res)
	assert.True(t, out.Summary.AllClear)
	assert.Zero(t, out.Summary.Fail)

	names := make([]string, 0, len(out.Categories))
	for _, c := range out.Categories {
		names = append(names, c.Name)
	}
	assert.Equal(t, doctor.Categories, names)

	data, ok := findCheck(out, "backend_data")
	require.True(t, ok)
	assert.Contains(t, data.Message, "3 monitors")
}

func TestDoctor_BackendDown(t *testing.T) {
	isolate(t)
	writeConfig(t, "http://127.0.0.1:1")

	res := runCLI(t, "--json", "doctor")
	assert.Equal(t, 1, res.code)

	env := res.envelope(t)
	assert.False(t, env.Success)
	require.NotNil(t, env.Error)
	assert.Equal(t, ErrCodeCommandFailed, env.Error.Code)
	assert.NotNil(t, env.Error.Details)
}

func TestDoctor_BackendErrors(t *testing.T) {
	isolate(t)
	b := newTestBackend(t, true)
	b.srv.SetFault(http.MethodGet, "/logs", http.StatusInternalServerError)
	writeConfig(t, b.url)

	res := runCLI(t, "doctor")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stdout, "Diagnostic report")
	assert.Contains(t, res.stdout, "issue")
}

func TestDoctor_RunsWithBrokenConfig(t *testing.T) {
	isolate(t)
	require.NoError(t, os.WriteFile(config.ConfigFileName, []byte("api: [not, a, map]\n"), 0o644))

	res := runCLI(t, "doctor")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stdout, "Diagnostic report")
}

func TestDoctor_FixCreatesConfig(t *testing.T) {
	isolate(t)
	b := newTestBackend(t, true)

	before := doctorReport(t, runCLI(t, "--json", "--api-url", b.url, "doctor"))
	file, ok := findCheck(before, "config_file")
	require.True(t, ok)
	assert.Equal(t, doctor.StatusWarn, file.Status)
	assert.True(t, file.Fixable)

	after := doctorReport(t, runCLI(t, "--json", "--api-url", b.url, "doctor", "--fix"))
	file, ok = findCheck(after, "config_file")
	require.True(t, ok)
	assert.Equal(t, doctor.StatusPass, file.Status)
	assert.FileExists(t, config.ConfigFileName)

	logDir, ok := findCheck(after, "log_dir")
	require.True(t, ok)
	assert.Equal(t, doctor.StatusPass, logDir.Status)
}

// doctorReport reads the report from data, or from error details when a
// check failed.
func doctorReport(t *testing.T, res cliResult) DoctorOutput {
	t.Helper()
	var env struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
		Error   *struct {
			Details json.RawMessage `json:"details"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &env), res.stdout)

	raw := env.Data
	if !env.Success {
		require.NotNil(t, env.Error)
		raw = env.Error.Details
	}
	var out DoctorOutput
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}

func TestBuildDoctorOutput(t *testing.T) {
	results := []doctor.CheckResult{
		{Name: "log_dir", Category: doctor.CategoryFiles, Status: doctor.StatusWarn, Fixable: true},
		{Name: "config_file", Category: doctor.CategoryConfig, Status: doctor.StatusPass},
		{Name: "backend_health", Category: doctor.CategoryBackend, Status: doctor.StatusFail},
	}

	out := buildDoctorOutput(results)
	require.Len(t, out.Categories, 3)
	assert.Equal(t, doctor.CategoryConfig, out.Categories[0].Name)
	assert.Equal(t, doctor.CategoryBackend, out.Categories[1].Name)
	assert.Equal(t, doctor.CategoryFiles, out.Categories[2].Name)
	assert.Equal(t, SummaryOutput{Pass: 1, Warn: 1, Fail: 1, Fixable: 1}, out.Summary)
}

func TestRenderDoctorText(t *testing.T) {
	plainOutput(t)
	oldFix := doctorFix
	doctorFix = false
	t.Cleanup(func() { doctorFix = oldFix })

	var buf bytes.Buffer
	renderDoctorText(&buf, []doctor.CheckResult{
		{Name: "config_file", Category: doctor.CategoryConfig, Status: doctor.StatusPass, Message: "Found .camai.yaml"},
		{Name: "log_dir", Category: doctor.CategoryFiles, Status: doctor.StatusWarn, Message: "Missing ~/.camai/logs", Fixable: true},
	})

	out := buf.String()
	assert.Contains(t, out, "Found .camai.yaml")
	assert.Contains(t, out, "Missing ~/.camai/logs")
	assert.Contains(t, out, "--fix")
}
