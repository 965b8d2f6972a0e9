package cli

import (
	"testing"

	"github.com/camai/camai/internal/domain"
	"github.com/camai/camai/internal/stats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatsCommand_JSON(t *testing.T) {
	isolate(t)
	b := newTestBackend(t, true)

	res := runAgainst(t, b, "--json", "stats")
	require.Equal(t, 0, res.code, res.stdout)

	var s stats.Summary
	res.data(t, &s)
	assert.Equal(t, "24h", s.WindowLabel)
	assert.Equal(t, 2, s.AlertsInWindow)
	assert.Equal(t, 3, s.ActiveMonitors)
	assert.Equal(t, 2, s.ByStatus[domain.StatusOK])
	assert.Equal(t, 1, s.ByStatus[domain.StatusAlert])
	assert.Equal(t, 5, s.TotalLogs)
	assert.Len(t, s.Recent, 5)

	require.Len(t, s.Histogram, 5)
	last := s.Histogram[len(s.Histogram)-1]
	assert.Equal(t, 10, last.Hour)
	assert.Equal(t, 2, last.Count)
	assert.Equal(t, 2, stats.Total(s.Histogram))
}

func TestStatsCommand_Overrides(t *testing.T) {
	isolate(t)
	b := newTestBackend(t, true)

	res := runAgainst(t, b, "--json", "stats", "--window", "1m", "--hours", "12", "--recent", "0")
	require.Equal(t, 0, res.code, res.stdout)

	var s stats.Summary
	res.data(t, &s)
	assert.Equal(t, 1, s.AlertsInWindow, "only the detector failure is under a minute old")
	assert.Len(t, s.Histogram, 12)
	assert.Empty(t, s.Recent)
}

func TestStatsCommand_Invalid(t *testing.T) {
	isolate(t)
	b := newTestBackend(t, true)

	for _, args := range [][]string{
		{"--hours", "25"},
		{"--hours", "-3"},
		{"--window", "0s"},
		{"--window", "yesterday"},
	} {
		res := runAgainst(t, b, append([]string{"--json", "stats"}, args...)...)
		assert.Equal(t, 1, res.code, args)
		env := res.envelope(t)
		require.NotNil(t, env.Error)
		assert.Equal(t, ErrCodeValidation, env.Error.Code, args)
	}
}

func TestStatsCommand_Text(t *testing.T) {
	isolate(t)
	b := newTestBackend(t, true)

	res := runAgainst(t, b, "stats")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "Alerts (24h)")
	assert.Contains(t, res.stdout, "OK 2 · ALERT 1")
	assert.Contains(t, res.stdout, "Alerts per hour (last 5 hours)")
	assert.Contains(t, res.stdout, "Latest logs")
	assert.Contains(t, res.stdout, "Safety Gate 3")
}

func TestStatusBreakdown(t *testing.T) {
	tests := []struct {
		name string
		by   map[domain.MonitorStatus]int
		want string
	}{
		{"empty", nil, ""},
		{"known order", map[domain.MonitorStatus]int{domain.StatusAlert: 1, domain.StatusOK: 4}, "OK 4 · ALERT 1"},
		{"offline", map[domain.MonitorStatus]int{domain.StatusOffline: 2}, "OFFLINE 2"},
		{"unknown statuses sorted last", map[domain.MonitorStatus]int{
			domain.StatusOK: 1,
			"PAUSED":        2,
			"":              1,
		}, "OK 1 · UNKNOWN 1 · PAUSED 2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, statusBreakdown(tt.by))
		})
	}
}
