package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/camai/camai/internal/mockserver"
	"github.com/camai/camai/internal/ui"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
)

// cliResult is one run of the command tree.
type cliResult struct {
	code   int
	stdout string
	stderr string
}

// envelope mirrors JSONEnvelope with the payload left raw.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *JSONError      `json:"error"`
}

func (r cliResult) envelope(t *testing.T) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal([]byte(r.stdout), &env), "stdout: %s", r.stdout)
	return env
}

func (r cliResult) data(t *testing.T, v interface{}) {
	t.Helper()
	env := r.envelope(t)
	require.True(t, env.Success, "command failed: %+v", env.Error)
	require.NoError(t, json.Unmarshal(env.Data, v))
}

// isolate points HOME and the working directory at empty temp dirs so no
// real config is picked up.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Chdir(t.TempDir())
	return home
}

// testBackend is the mock backend on an httptest server.
type testBackend struct {
	srv   *mockserver.Server
	store *mockserver.Store
	url   string
	now   time.Time
}

func newTestBackend(t *testing.T, seed bool) *testBackend {
	t.Helper()
	fixed := time.Date(2026, 3, 14, 10, 30, 0, 0, time.Local)

	store := mockserver.NewStore()
	store.SetClock(func() time.Time { return fixed })
	if seed {
		mockserver.Seed(store)
	}
	srv := mockserver.NewServer(nil, store)
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)

	oldNow := now
	now = func() time.Time { return fixed }
	t.Cleanup(func() { now = oldNow })

	return &testBackend{srv: srv, store: store, url: ts.URL, now: fixed}
}

// runCLI runs args through the real root command with flags reset.
func runCLI(t *testing.T, args ...string) cliResult {
	t.Helper()
	resetCommandState(rootCmd)
	profile := lipgloss.ColorProfile()
	t.Cleanup(func() {
		resetCommandState(rootCmd)
		lipgloss.SetColorProfile(profile)
	})

	var stdout, stderr bytes.Buffer
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	code := run(ctx, args, &stdout, &stderr)
	return cliResult{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

// plainOutput renders lipgloss styles without escape codes for the rest of
// the test.
func plainOutput(t *testing.T) {
	t.Helper()
	profile := lipgloss.ColorProfile()
	ui.DisableColors()
	t.Cleanup(func() { lipgloss.SetColorProfile(profile) })
}

// runAgainst runs args with --api-url pointing at b.
func runAgainst(t *testing.T, b *testBackend, args ...string) cliResult {
	t.Helper()
	return runCLI(t, append([]string{"--api-url", b.url}, args...)...)
}

// resetCommandState puts every flag in the tree back to its default and
// drops each command's context. Cobra commands are package globals, so
// values and the previous run's cancelled context leak between runs
// otherwise.
func resetCommandState(cmd *cobra.Command) {
	machineMode = false
	current = nil
	stdinIsTerminal = func() bool { return false }

	var walk func(c *cobra.Command)
	walk = func(c *cobra.Command) {
		c.SetContext(nil)
		for _, fs := range []*pflag.FlagSet{c.Flags(), c.PersistentFlags()} {
			fs.VisitAll(func(f *pflag.Flag) {
				if sv, ok := f.Value.(pflag.SliceValue); ok {
					_ = sv.Replace(nil)
				} else {
					_ = f.Value.Set(f.DefValue)
				}
				f.Changed = false
			})
		}
		for _, sub := range c.Commands() {
			walk(sub)
		}
	}
	walk(cmd)
}
