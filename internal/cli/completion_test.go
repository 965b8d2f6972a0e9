package cli

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompletion(t *testing.T) {
	tests := []struct {
		shell string
		want  []string
	}{
		{"bash", []string{"# bash completion V2 for camai", "__camai_debug"}},
		{"zsh", []string{"#compdef camai", "_camai()"}},
		{"fish", []string{"fish completion for camai", "complete -c camai"}},
		{"powershell", []string{"Register-ArgumentCompleter"}},
	}

	for _, tt := range tests {
		t.Run(tt.shell, func(t *testing.T) {
			isolate(t)
			res := runCLI(t, "completion", tt.shell)
			require.Equal(t, 0, res.code, res.stderr)
			for _, want := range tt.want {
				assert.Contains(t, res.stdout, want)
			}
		})
	}
}

func TestCompletion_InvalidShell(t *testing.T) {
	isolate(t)

	res := runCLI(t, "completion", "tcsh")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "tcsh")
}

func TestCompletion_IgnoresBrokenConfig(t *testing.T) {
	isolate(t)
	require.NoError(t, writeFile(".camai.yaml", "{{{"))

	res := runCLI(t, "completion", "bash")
	assert.Equal(t, 0, res.code, res.stderr)
}

func TestCommandTree(t *testing.T) {
	want := []string{"completion", "config", "dashboard", "doctor", "logs", "mock-backend", "monitors", "stats", "version"}

	var got []string
	for _, c := range rootCmd.Commands() {
		if c.Name() != "help" {
			got = append(got, c.Name())
		}
	}
	assert.ElementsMatch(t, want, got)

	for _, c := range rootCmd.Commands() {
		assert.NotEmpty(t, strings.TrimSpace(c.Short), c.Name())
	}
}
