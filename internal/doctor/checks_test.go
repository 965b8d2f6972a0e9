package doctor

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckStatus_String(t *testing.T) {
	tests := []struct {
		status   CheckStatus
		expected string
	}{
		{StatusPass, "pass"},
		{StatusWarn, "warn"},
		{StatusFail, "fail"},
		{CheckStatus(99), "unknown"},
	}

	for _, tc := range tests {
		t.Run(tc.expected, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.status.String())
		})
	}
}

func TestCheckResult_JSONStatusIsAWord(t *testing.T) {
	out, err := json.Marshal(CheckResult{Name: "x", Status: StatusWarn})
	require.NoError(t, err)
	assert.Contains(t, string(out), `"status":"warn"`)
}

// mockCheck is a test implementation of Check.
type mockCheck struct {
	name     string
	category string
	result   CheckResult
	fixErr   error
	fixCalls int
}

func (m *mockCheck) Name() string                        { return m.name }
func (m *mockCheck) Category() string                    { return m.category }
func (m *mockCheck) Run(ctx context.Context) CheckResult { return m.result }
func (m *mockCheck) Fix() error {
	m.fixCalls++
	return m.fixErr
}

func TestRunAll(t *testing.T) {
	checks := []Check{
		&mockCheck{name: "check1", category: "TEST", result: CheckResult{Status: StatusPass, Message: "OK"}},
		&mockCheck{name: "check2", category: "TEST", result: CheckResult{Name: "custom", Status: StatusFail, Message: "Failed"}},
	}

	results := RunAll(context.Background(), checks)

	require.Len(t, results, 2)
	assert.Equal(t, StatusPass, results[0].Status)
	assert.Equal(t, "check1", results[0].Name, "name filled from the check")
	assert.Equal(t, "TEST", results[0].Category)
	assert.Equal(t, StatusFail, results[1].Status)
	assert.Equal(t, "custom", results[1].Name)
}

func TestRunAllParallel_PreservesOrder(t *testing.T) {
	checks := []Check{
		&mockCheck{name: "check1", category: "A", result: CheckResult{Status: StatusPass}},
		&mockCheck{name: "check2", category: "B", result: CheckResult{Status: StatusWarn}},
		&mockCheck{name: "check3", category: "A", result: CheckResult{Status: StatusFail}},
	}

	results := RunAllParallel(context.Background(), checks)

	require.Len(t, results, 3)
	assert.Equal(t, StatusPass, results[0].Status)
	assert.Equal(t, StatusWarn, results[1].Status)
	assert.Equal(t, StatusFail, results[2].Status)

	grouped := GroupByCategory(results)
	assert.Len(t, grouped["A"], 2)
	assert.Len(t, grouped["B"], 1)
	assert.Equal(t, "check3", grouped["A"][1].Name)
}

func TestCountByStatus(t *testing.T) {
	counts := CountByStatus([]CheckResult{
		{Status: StatusPass},
		{Status: StatusPass},
		{Status: StatusWarn},
		{Status: StatusFail},
	})

	assert.Equal(t, 2, counts[StatusPass])
	assert.Equal(t, 1, counts[StatusWarn])
	assert.Equal(t, 1, counts[StatusFail])
}

func TestHasFailuresAndIssues(t *testing.T) {
	tests := []struct {
		name     string
		results  []CheckResult
		failures bool
		issues   bool
	}{
		{"all pass", []CheckResult{{Status: StatusPass}, {Status: StatusPass}}, false, false},
		{"with warn", []CheckResult{{Status: StatusPass}, {Status: StatusWarn}}, false, true},
		{"with fail", []CheckResult{{Status: StatusPass}, {Status: StatusFail}}, true, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.failures, HasFailures(tc.results))
			assert.Equal(t, tc.issues, HasIssues(tc.results))
		})
	}
}

func TestFixableCount(t *testing.T) {
	results := []CheckResult{
		{Status: StatusPass, Fixable: true},  // Pass, not counted
		{Status: StatusFail, Fixable: true},  // Counted
		{Status: StatusFail, Fixable: false}, // Not counted
		{Status: StatusWarn, Fixable: true},  // Counted
	}

	assert.Equal(t, 2, FixableCount(results))
}

func TestSummary(t *testing.T) {
	tests := []struct {
		name    string
		results []CheckResult
		want    string
	}{
		{"all good", []CheckResult{{Status: StatusPass}}, "Everything looks good"},
		{"one issue", []CheckResult{{Status: StatusFail}}, "1 issue found"},
		{"multiple issues", []CheckResult{{Status: StatusFail}, {Status: StatusWarn}}, "2 issues found"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Summary(tc.results))
		})
	}
}
