package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShellQuote(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"simple", "'simple'"},
		{"with space", "'with space'"},
		{"with'quote", "'with'\\''quote'"},
		{"", "''"},
		{"$variable", "'$variable'"},
		{"$(command)", "'$(command)'"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, ShellQuote(tt.input))
		})
	}
}

func TestShellWord(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"bridge_Gate_3.py", "bridge_Gate_3.py"},
		{"./bridges/bridge_m1.py", "./bridges/bridge_m1.py"},
		{"/tmp/My Bridges/bridge.py", "'/tmp/My Bridges/bridge.py'"},
		{"it's.py", "'it'\\''s.py'"},
		{"", "''"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, ShellWord(tt.input))
		})
	}
}
