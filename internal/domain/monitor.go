// Package domain holds the records the Camai backend owns: monitors, log
// entries and the per-type analysis results attached to them.
package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// MonitorType selects the rule semantics and the result schema.
type MonitorType string

const (
	TypeQuantifier MonitorType = "QUANTIFIER"
	TypeDetector   MonitorType = "DETECTOR"
	TypeProcess    MonitorType = "PROCESS"
)

// MonitorTypes lists the supported types in display order.
var MonitorTypes = []MonitorType{TypeQuantifier, TypeDetector, TypeProcess}

// Label returns the form label used when picking a type.
func (t MonitorType) Label() string {
	switch t {
	case TypeQuantifier:
		return "Quantifier (Inventory)"
	case TypeDetector:
		return "Detector (Safety)"
	case TypeProcess:
		return "Process (Progress)"
	default:
		return string(t)
	}
}

// Valid reports whether t is one of the supported types.
func (t MonitorType) Valid() bool {
	for _, known := range MonitorTypes {
		if t == known {
			return true
		}
	}
	return false
}

// ParseMonitorType accepts any casing of a supported type name.
func ParseMonitorType(s string) (MonitorType, error) {
	t := MonitorType(strings.ToUpper(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", fmt.Errorf("unknown monitor type %q (want QUANTIFIER, DETECTOR or PROCESS)", s)
	}
	return t, nil
}

// MonitorStatus is the health reported by the backend.
type MonitorStatus string

const (
	StatusOK      MonitorStatus = "OK"
	StatusAlert   MonitorStatus = "ALERT"
	StatusOffline MonitorStatus = "OFFLINE"
)

// Input sources offered by the create form.
const (
	SourceRTSP           = "RTSP Stream"
	SourceUploadInterval = "Upload Interval"
	SourceEventTrigger   = "Event Trigger"
)

// Sources lists the input sources in display order.
var Sources = []string{SourceRTSP, SourceUploadInterval, SourceEventTrigger}

// Integration channels a monitor can notify.
const (
	IntegrationWhatsApp = "WhatsApp"
	IntegrationEmail    = "Email"
	IntegrationExcel    = "Excel Sheet"
)

// Integrations lists the notification channels in display order.
var Integrations = []string{IntegrationWhatsApp, IntegrationEmail, IntegrationExcel}

// Form defaults.
const (
	DefaultConnectionURL = "0"
	DefaultInterval      = 60.0
	MinInterval          = 0.1
)

// Monitor is a camera paired with a natural-language rule.
type Monitor struct {
	ID             string        `json:"id"`
	Name           string        `json:"name"`
	Type           MonitorType   `json:"type"`
	Source         string        `json:"source"`
	ConnectionURL  string        `json:"connection_url,omitempty"`
	Rule           string        `json:"rule"`
	Interval       float64       `json:"interval,omitempty"`
	Integrations   []string      `json:"integrations"`
	Status         MonitorStatus `json:"status"`
	IdealImagePath string        `json:"ideal_image_path,omitempty"`
	LastUpdate     string        `json:"last_update,omitempty"`
	ThumbnailURL   string        `json:"thumbnailUrl,omitempty"`
}

// UsesInterval reports whether the source is polled on a schedule.
func (m Monitor) UsesInterval() bool {
	return m.Source != SourceEventTrigger
}

// IntegrationList returns integrations joined for display, skipping the
// empty entries the backend produces when splitting an empty string.
func (m Monitor) IntegrationList() string {
	return strings.Join(CleanIntegrations(m.Integrations), ", ")
}

// Input returns the form field set that would recreate m.
func (m Monitor) Input() MonitorInput {
	interval := m.Interval
	if interval == 0 {
		interval = DefaultInterval
	}
	conn := m.ConnectionURL
	if conn == "" {
		conn = DefaultConnectionURL
	}
	return MonitorInput{
		Name:          m.Name,
		Type:          m.Type,
		Source:        m.Source,
		Rule:          m.Rule,
		Integrations:  CleanIntegrations(m.Integrations),
		ConnectionURL: conn,
		Interval:      interval,
	}
}

// CleanIntegrations drops blank entries and surrounding whitespace.
func CleanIntegrations(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

// MonitorInput is the field set submitted when creating or updating a monitor.
type MonitorInput struct {
	Name          string
	Type          MonitorType
	Source        string
	Rule          string
	Integrations  []string
	ConnectionURL string
	Interval      float64

	// IdealImagePath is a local file uploaded as the reference image.
	IdealImagePath string
}

// NewMonitorInput returns an input populated with the form defaults.
func NewMonitorInput() MonitorInput {
	return MonitorInput{
		Type:          TypeQuantifier,
		Source:        SourceRTSP,
		ConnectionURL: DefaultConnectionURL,
		Interval:      DefaultInterval,
	}
}

// Validate checks the fields the backend cannot do without.
func (in MonitorInput) Validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return fmt.Errorf("monitor name is required")
	}
	if !in.Type.Valid() {
		return fmt.Errorf("unknown monitor type %q", in.Type)
	}
	if in.Source == "" {
		return fmt.Errorf("input source is required")
	}
	if in.Source != SourceEventTrigger && in.Interval < MinInterval {
		return fmt.Errorf("interval must be at least %.1f minutes", MinInterval)
	}
	return nil
}

// FormatInterval renders minutes the way the backend parses them.
func FormatInterval(minutes float64) string {
	return strconv.FormatFloat(minutes, 'f', -1, 64)
}

// ParseInterval parses a minutes value typed into a form or flag.
func ParseInterval(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("interval %q is not a number", s)
	}
	if v < MinInterval {
		return 0, fmt.Errorf("interval must be at least %.1f minutes (0.5 = 30 seconds)", MinInterval)
	}
	return v, nil
}
