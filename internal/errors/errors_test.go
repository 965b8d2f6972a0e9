package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorCodes(t *testing.T) {
	codes := []string{
		ErrConfig,
		ErrAPI,
		ErrHTTP,
		ErrDecode,
		ErrScan,
		ErrValidation,
		ErrExec,
	}

	seen := make(map[string]bool)
	for _, code := range codes {
		assert.NotEmpty(t, code, "error code should not be empty")
		assert.False(t, seen[code], "error code %q should be unique", code)
		seen[code] = true
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		name       string
		code       string
		message    string
		suggestion string
	}{
		{
			name:       "config error",
			code:       ErrConfig,
			message:    "Invalid configuration in .camai.yaml",
			suggestion: "Check your configuration file syntax",
		},
		{
			name:       "api error",
			code:       ErrAPI,
			message:    "Backend unreachable",
			suggestion: "Is the Camai backend running?",
		},
		{
			name:       "validation error",
			code:       ErrValidation,
			message:    "Monitor name is required",
			suggestion: "Pass --name",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.code, tt.message, tt.suggestion)

			require.NotNil(t, err)
			assert.Equal(t, tt.code, err.Code)
			assert.Equal(t, tt.message, err.Message)
			assert.Equal(t, tt.suggestion, err.Suggestion)
			assert.Nil(t, err.Cause)
		})
	}
}

func TestErrorFormatting(t *testing.T) {
	tests := []struct {
		name          string
		err           *Error
		expectedParts []string
		notExpected   []string
	}{
		{
			name:          "message and suggestion",
			err:           New(ErrConfig, "Invalid configuration", "Check .camai.yaml syntax"),
			expectedParts: []string{"✗ Invalid configuration", "Check .camai.yaml syntax"},
		},
		{
			name:          "with cause",
			err:           WrapWithCode(fmt.Errorf("connection refused"), ErrAPI, "Backend unreachable", "Start the backend"),
			expectedParts: []string{"Backend unreachable", "connection refused", "Start the backend"},
		},
		{
			name:          "no suggestion",
			err:           Wrap(fmt.Errorf("boom"), "Request failed"),
			expectedParts: []string{"Request failed", "boom"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := tt.err.Error()
			for _, part := range tt.expectedParts {
				assert.Contains(t, s, part)
			}
			for _, part := range tt.notExpected {
				assert.NotContains(t, s, part)
			}
		})
	}
}

func TestWrap_DefaultsToAPICode(t *testing.T) {
	err := Wrap(fmt.Errorf("dial tcp: refused"), "Backend unreachable")
	assert.Equal(t, ErrAPI, err.Code)
	assert.True(t, IsCode(err, ErrAPI))
}

func TestUnwrap(t *testing.T) {
	cause := fmt.Errorf("root cause")
	err := WrapWithCode(cause, ErrDecode, "Bad JSON", "")

	assert.True(t, errors.Is(err, cause))
	assert.Equal(t, cause, err.Unwrap())
}

func TestIsCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code string
		want bool
	}{
		{"nil error", nil, ErrAPI, false},
		{"plain error", fmt.Errorf("x"), ErrAPI, false},
		{"matching code", New(ErrHTTP, "404", ""), ErrHTTP, true},
		{"different code", New(ErrHTTP, "404", ""), ErrAPI, false},
		{"wrapped by fmt", fmt.Errorf("ctx: %w", New(ErrScan, "no image", "")), ErrScan, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsCode(tt.err, tt.code))
		})
	}
}

func TestSummary(t *testing.T) {
	assert.Equal(t, "", Summary(nil))
	assert.Equal(t, "plain", Summary(fmt.Errorf("plain")))
	assert.Equal(t, "Backend unreachable: refused",
		Summary(Wrap(fmt.Errorf("refused"), "Backend unreachable")))

	// Summary never spans lines for structured errors
	s := Summary(New(ErrConfig, "Bad config", "Fix it"))
	assert.False(t, strings.Contains(s, "\n"))
}
