package dashboard

import (
	"fmt"
	"os"
	"strings"

	"github.com/camai/camai/internal/domain"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/huh"
)

// MonitorFormData holds the create/edit form fields as the form edits them.
type MonitorFormData struct {
	Name          string
	Type          string
	Source        string
	ConnectionURL string
	Interval      string
	Rule          string
	Integrations  []string
	IdealImage    string
}

// NewMonitorFormData returns form defaults, or the fields of m when editing.
func NewMonitorFormData(m *domain.Monitor) *MonitorFormData {
	in := domain.NewMonitorInput()
	if m != nil {
		in = m.Input()
	}
	return &MonitorFormData{
		Name:          in.Name,
		Type:          string(in.Type),
		Source:        in.Source,
		ConnectionURL: in.ConnectionURL,
		Interval:      domain.FormatInterval(in.Interval),
		Rule:          in.Rule,
		Integrations:  in.Integrations,
	}
}

// Input converts the form fields into a validated MonitorInput. Fields the
// chosen source hides are submitted with their defaults.
func (d *MonitorFormData) Input() (domain.MonitorInput, error) {
	in := domain.NewMonitorInput()
	in.Name = strings.TrimSpace(d.Name)
	in.Source = d.Source
	in.Rule = strings.TrimSpace(d.Rule)
	in.Integrations = domain.CleanIntegrations(d.Integrations)
	in.IdealImagePath = strings.TrimSpace(d.IdealImage)

	typ, err := domain.ParseMonitorType(d.Type)
	if err != nil {
		return in, err
	}
	in.Type = typ

	if d.Source == domain.SourceRTSP && strings.TrimSpace(d.ConnectionURL) != "" {
		in.ConnectionURL = strings.TrimSpace(d.ConnectionURL)
	}
	if d.Source != domain.SourceEventTrigger {
		if in.Interval, err = domain.ParseInterval(d.Interval); err != nil {
			return in, err
		}
	}
	return in, in.Validate()
}

// ScanFormData holds the test scan form fields.
type ScanFormData struct {
	Mode       string
	Rule       string
	Image      string
	IdealImage string
}

// NewScanFormData seeds a test scan from a monitor's type and rule.
func NewScanFormData(m *domain.Monitor) *ScanFormData {
	d := &ScanFormData{Mode: string(domain.TypeQuantifier)}
	if m != nil {
		d.Mode = string(m.Type)
		d.Rule = m.Rule
		d.IdealImage = m.IdealImagePath
		if _, err := os.Stat(d.IdealImage); err != nil {
			d.IdealImage = ""
		}
	}
	return d
}

// formKeyMap lets Esc abort a form embedded in the dashboard.
func formKeyMap() *huh.KeyMap {
	km := huh.NewDefaultKeyMap()
	km.Quit = key.NewBinding(key.WithKeys("esc", "ctrl+c"), key.WithHelp("esc", "cancel"))
	return km
}

// MonitorForm builds the create/edit form. Connection URL is asked only for
// RTSP streams and the interval is skipped for event-triggered monitors.
func MonitorForm(d *MonitorFormData, title string) *huh.Form {
	typeOptions := make([]huh.Option[string], 0, len(domain.MonitorTypes))
	for _, t := range domain.MonitorTypes {
		typeOptions = append(typeOptions, huh.NewOption(t.Label(), string(t)))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(title).
				Description("Monitor name").
				Placeholder("Warehouse Shelf A").
				Value(&d.Name).
				Validate(required("monitor name")),
			huh.NewSelect[string]().
				Title("Monitor type").
				Options(typeOptions...).
				Value(&d.Type),
			huh.NewSelect[string]().
				Title("Input source").
				Options(huh.NewOptions(domain.Sources...)...).
				Value(&d.Source),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Connection URL").
				Description("RTSP URL or webcam index").
				Placeholder("rtsp://camera.local/stream or 0").
				Value(&d.ConnectionURL),
		).WithHideFunc(func() bool { return d.Source != domain.SourceRTSP }),
		huh.NewGroup(
			huh.NewInput().
				Title("Interval (minutes)").
				Description("How often the camera is analysed; 0.5 = 30 seconds").
				Value(&d.Interval).
				Validate(func(s string) error {
					_, err := domain.ParseInterval(s)
					return err
				}),
		).WithHideFunc(func() bool { return d.Source == domain.SourceEventTrigger }),
		huh.NewGroup(
			huh.NewText().
				Title("Rule").
				Description("What the model should check, in plain language").
				Placeholder("Count the boxes on each shelf; alert below 10").
				Lines(4).
				Value(&d.Rule),
			huh.NewMultiSelect[string]().
				Title("Integrations").
				Options(huh.NewOptions(domain.Integrations...)...).
				Value(&d.Integrations),
			huh.NewInput().
				Title("Ideal image (optional)").
				Description("Path to a reference photo of the expected state").
				Value(&d.IdealImage).
				Validate(optionalFile),
		),
	).WithKeyMap(formKeyMap()).WithShowHelp(true)
}

// ScanForm builds the test scan form.
func ScanForm(d *ScanFormData) *huh.Form {
	typeOptions := make([]huh.Option[string], 0, len(domain.MonitorTypes))
	for _, t := range domain.MonitorTypes {
		typeOptions = append(typeOptions, huh.NewOption(t.Label(), string(t)))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Test scan").
				Description("Mode").
				Options(typeOptions...).
				Value(&d.Mode),
			huh.NewText().
				Title("Rule").
				Lines(3).
				Value(&d.Rule),
			huh.NewInput().
				Title("Image").
				Description("Path to the photo to analyse").
				Value(&d.Image).
				Validate(requiredFile),
			huh.NewInput().
				Title("Ideal image (optional)").
				Value(&d.IdealImage).
				Validate(optionalFile),
		),
	).WithKeyMap(formKeyMap()).WithShowHelp(true)
}

// ConfirmDeleteForm asks before deleting a monitor.
func ConfirmDeleteForm(name string, confirm *bool) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Delete monitor %q?", name)).
				Description("It is removed from this view even if the backend call fails").
				Affirmative("Delete").
				Negative("Cancel").
				Value(confirm),
		),
	).WithKeyMap(formKeyMap())
}

// TriggerForm asks for an optional image to send with an external trigger.
func TriggerForm(name string, image *string) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(fmt.Sprintf("Trigger %s", name)).
				Description("Image to upload; leave empty to capture from the camera").
				Value(image).
				Validate(optionalFile),
		),
	).WithKeyMap(formKeyMap())
}

func required(what string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", what)
		}
		return nil
	}
}

func requiredFile(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("an image is required")
	}
	return optionalFile(s)
}

func optionalFile(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	info, err := os.Stat(s)
	if err != nil {
		return fmt.Errorf("cannot read %s", s)
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", s)
	}
	return nil
}
