package ui

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// SpinnerFrames is the frame set used by the dashboard spinner.
var SpinnerFrames = spinner.Spinner{
	Frames: []string{"◐", "◓", "◑", "◒"},
	FPS:    time.Second / 10,
}

// Loader is a Bubble Tea spinner with a label, shown while a backend call
// is in flight. The zero value is idle.
type Loader struct {
	spinner spinner.Model
	Label   string
	Active  bool
	Started time.Time
}

// NewLoader creates an idle loader.
func NewLoader() Loader {
	sp := spinner.New()
	sp.Spinner = SpinnerFrames
	sp.Style = lipgloss.NewStyle().Foreground(ColorNeonCyan)
	return Loader{spinner: sp}
}

// Start shows the loader with label and returns the first tick.
func (l *Loader) Start(label string) tea.Cmd {
	l.Label = label
	l.Active = true
	l.Started = time.Now()
	return l.spinner.Tick
}

// Stop hides the loader.
func (l *Loader) Stop() {
	l.Active = false
}

// Update advances the animation while active.
func (l Loader) Update(msg tea.Msg) (Loader, tea.Cmd) {
	if !l.Active {
		return l, nil
	}
	if tick, ok := msg.(spinner.TickMsg); ok {
		var cmd tea.Cmd
		l.spinner, cmd = l.spinner.Update(tick)
		return l, cmd
	}
	return l, nil
}

// View renders "◐ Label..." while active and nothing otherwise.
func (l Loader) View() string {
	if !l.Active {
		return ""
	}
	return l.spinner.View() + " " + l.Label + "..."
}
