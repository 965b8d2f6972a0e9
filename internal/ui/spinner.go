package ui

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// SpinnerState represents the current state of a spinner.
type SpinnerState int

const (
	SpinnerPending SpinnerState = iota
	SpinnerInProgress
	SpinnerSuccess
	SpinnerFailed
)

var spinnerFrames = []string{"⣾", "⣽", "⣻", "⢿", "⡿", "⣟", "⣯", "⣷"}

// Spinner is a line-based progress indicator for CLI commands that wait on
// the backend, such as a test scan.
type Spinner struct {
	mu       sync.Mutex
	w        io.Writer
	label    string
	state    SpinnerState
	frame    int
	start    time.Time
	stop     chan struct{}
	done     chan struct{}
	lastLine int
}

// NewSpinner creates a spinner writing to w.
func NewSpinner(w io.Writer, label string) *Spinner {
	return &Spinner{w: w, label: label}
}

// Start begins animating. Calling Start twice is a no-op.
func (s *Spinner) Start() {
	s.mu.Lock()
	if s.state == SpinnerInProgress {
		s.mu.Unlock()
		return
	}
	s.state = SpinnerInProgress
	s.start = time.Now()
	s.stop = make(chan struct{})
	s.done = make(chan struct{})
	s.mu.Unlock()

	s.draw()
	go s.animate()
}

// Success stops the spinner with a check mark.
func (s *Spinner) Success() { s.finish(SpinnerSuccess) }

// Fail stops the spinner with a cross.
func (s *Spinner) Fail() { s.finish(SpinnerFailed) }

// State returns the current state.
func (s *Spinner) State() SpinnerState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Spinner) finish(state SpinnerState) {
	s.mu.Lock()
	running := s.state == SpinnerInProgress
	s.mu.Unlock()
	if running {
		close(s.stop)
		<-s.done
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state

	symbol, color := SymbolComplete, ColorSuccess
	if state == SpinnerFailed {
		symbol, color = SymbolFail, ColorError
	}
	s.clear()
	fmt.Fprintf(s.w, "%s %s %s\n",
		lipgloss.NewStyle().Foreground(color).Render(symbol),
		s.label,
		MutedStyle().Render(FormatDuration(time.Since(s.start))))
}

func (s *Spinner) animate() {
	ticker := time.NewTicker(80 * time.Millisecond)
	defer ticker.Stop()
	defer close(s.done)

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.mu.Lock()
			s.frame = (s.frame + 1) % len(spinnerFrames)
			s.mu.Unlock()
			s.draw()
		}
	}
}

func (s *Spinner) draw() {
	s.mu.Lock()
	defer s.mu.Unlock()
	color := GradientColors[(s.frame/2)%len(GradientColors)]
	line := lipgloss.NewStyle().Foreground(color).Render(spinnerFrames[s.frame]) + " " + s.label + "..."
	s.clear()
	fmt.Fprint(s.w, line)
	s.lastLine = lipgloss.Width(line)
}

// clear erases the previous frame. Callers hold mu.
func (s *Spinner) clear() {
	if s.lastLine > 0 {
		fmt.Fprint(s.w, "\r"+strings.Repeat(" ", s.lastLine)+"\r")
		s.lastLine = 0
	}
}

// FormatDuration formats a duration for display (e.g., "0.3s", "1.2s").
func FormatDuration(d time.Duration) string {
	secs := d.Seconds()
	if secs < 0.1 {
		return fmt.Sprintf("%.2fs", secs)
	}
	return fmt.Sprintf("%.1fs", secs)
}
