// Package webhook renders the integration instructions for a monitor: how an
// external system triggers it and where its bridge script lives.
package webhook

import (
	"fmt"
	"strings"

	"github.com/camai/camai/internal/domain"
)

// SampleImage is the placeholder filename used in the upload example.
const SampleImage = "photo.jpg"

// Descriptor holds the rendered trigger instructions for one monitor.
type Descriptor struct {
	MonitorID     string `json:"monitor_id"`
	MonitorName   string `json:"monitor_name"`
	TriggerURL    string `json:"trigger_url"`
	BridgeURL     string `json:"bridge_url"`
	SignalLabel   string `json:"signal_label"`
	SignalCommand string `json:"signal_command"`
	UploadLabel   string `json:"upload_label"`
	UploadCommand string `json:"upload_command"`
}

// Describe builds the descriptor for m against the backend at baseURL.
func Describe(baseURL string, m domain.Monitor) Descriptor {
	base := strings.TrimRight(baseURL, "/")
	trigger := fmt.Sprintf("%s/monitors/%s/trigger", base, m.ID)

	camera := m.ConnectionURL
	if camera == "" {
		camera = domain.DefaultConnectionURL
	}

	return Descriptor{
		MonitorID:     m.ID,
		MonitorName:   m.Name,
		TriggerURL:    trigger,
		BridgeURL:     fmt.Sprintf("%s/monitors/%s/download-bridge", base, m.ID),
		SignalLabel:   fmt.Sprintf("Option A: Trigger Signal (Uses Camera %s)", camera),
		SignalCommand: fmt.Sprintf("curl -X POST %s", trigger),
		UploadLabel:   "Option B: Upload Image (Overridden Input)",
		UploadCommand: fmt.Sprintf(`curl -X POST -F "image=@%s" %s`, SampleImage, trigger),
	}
}

// Render formats the descriptor as plain text.
func (d Descriptor) Render() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Integration API for %s\n\n", d.MonitorName)
	fmt.Fprintf(&b, "%s\n  %s\n\n", d.SignalLabel, d.SignalCommand)
	fmt.Fprintf(&b, "%s\n  %s\n\n", d.UploadLabel, d.UploadCommand)
	fmt.Fprintf(&b, "Bridge script\n  %s\n", d.BridgeURL)
	return b.String()
}
