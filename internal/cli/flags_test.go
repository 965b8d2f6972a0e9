package cli

import (
	"testing"
	"time"

	"github.com/camai/camai/internal/dashboard"
	"github.com/camai/camai/internal/domain"
	"github.com/camai/camai/internal/errors"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDuration(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		want    time.Duration
		wantErr bool
	}{
		{"empty string returns zero", "", 0, false},
		{"valid seconds", "5s", 5 * time.Second, false},
		{"valid minutes", "2m", 2 * time.Minute, false},
		{"valid milliseconds", "500ms", 500 * time.Millisecond, false},
		{"valid complex duration", "1m30s", 90 * time.Second, false},
		{"bare number", "5", 0, true},
		{"word", "fast", 0, true},
		{"negative", "-5s", 0, true},
		{"zero", "0s", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDuration("window", tt.value)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsCode(err, errors.ErrValidation))
				assert.Contains(t, err.Error(), "--window")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func newMonitorFlagCmd(d *dashboard.MonitorFormData) *cobra.Command {
	cmd := &cobra.Command{Use: "test", RunE: func(*cobra.Command, []string) error { return nil }}
	AddMonitorFlags(cmd, d)
	return cmd
}

func TestAddMonitorFlags_Defaults(t *testing.T) {
	d := &dashboard.MonitorFormData{}
	cmd := newMonitorFlagCmd(d)
	require.NoError(t, cmd.ParseFlags(nil))

	assert.Equal(t, string(domain.TypeQuantifier), d.Type)
	assert.Equal(t, domain.SourceRTSP, d.Source)
	assert.Equal(t, domain.DefaultConnectionURL, d.ConnectionURL)
	assert.Equal(t, domain.FormatInterval(domain.DefaultInterval), d.Interval)
	assert.False(t, monitorFlagsChanged(cmd.Flags()))
}

func TestMonitorFlagsChanged(t *testing.T) {
	for _, name := range monitorFlagNames {
		t.Run(name, func(t *testing.T) {
			cmd := newMonitorFlagCmd(&dashboard.MonitorFormData{})
			require.NoError(t, cmd.ParseFlags([]string{"--" + name, "1"}))
			assert.True(t, monitorFlagsChanged(cmd.Flags()))
		})
	}
}

func TestOverlayMonitorFlags(t *testing.T) {
	src := &dashboard.MonitorFormData{}
	cmd := newMonitorFlagCmd(src)
	require.NoError(t, cmd.ParseFlags([]string{"--interval", "10", "--integrations", "Email"}))

	base := &dashboard.MonitorFormData{
		Name:          "Dock",
		Type:          string(domain.TypeDetector),
		Source:        domain.SourceRTSP,
		ConnectionURL: "rtsp://dock/stream",
		Interval:      "5",
		Rule:          "Forklift present",
		Integrations:  []string{"WhatsApp", "Excel Sheet"},
	}
	overlayMonitorFlags(cmd.Flags(), base, src)

	assert.Equal(t, "Dock", base.Name)
	assert.Equal(t, string(domain.TypeDetector), base.Type, "unset flags keep the monitor's value, not the flag default")
	assert.Equal(t, "rtsp://dock/stream", base.ConnectionURL)
	assert.Equal(t, "10", base.Interval)
	assert.Equal(t, []string{"Email"}, base.Integrations)
}

func TestParseMonitorInput(t *testing.T) {
	d := &dashboard.MonitorFormData{
		Name:     "Gate",
		Type:     "detector",
		Source:   domain.SourceUploadInterval,
		Interval: "0.5",
		Rule:     "Hard hats on",
	}
	in, err := parseMonitorInput(d)
	require.NoError(t, err)
	assert.Equal(t, domain.TypeDetector, in.Type)
	assert.Equal(t, 0.5, in.Interval)

	d.Name = " "
	_, err = parseMonitorInput(d)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrValidation))
}
