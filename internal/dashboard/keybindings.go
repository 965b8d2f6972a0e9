package dashboard

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Tab identifies one of the dashboard pages.
type Tab int

const (
	TabDashboard Tab = iota
	TabCameras
	TabLogs
	TabSettings
)

// Tabs lists the tabs in display order.
var Tabs = []Tab{TabDashboard, TabCameras, TabLogs, TabSettings}

// String returns the tab title.
func (t Tab) String() string {
	switch t {
	case TabDashboard:
		return "Dashboard"
	case TabCameras:
		return "Cameras"
	case TabLogs:
		return "Logs"
	case TabSettings:
		return "Settings"
	default:
		return "Dashboard"
	}
}

// Next cycles to the following tab.
func (t Tab) Next() Tab {
	return Tab((int(t) + 1) % len(Tabs))
}

// Prev cycles to the preceding tab.
func (t Tab) Prev() Tab {
	return Tab((int(t) + len(Tabs) - 1) % len(Tabs))
}

// Key bindings as constants for consistency.
const (
	KeyQuit        = "q"
	KeyQuitAlt     = "ctrl+c"
	KeyNextTab     = "tab"
	KeyPrevTab     = "shift+tab"
	KeyRefresh     = "r"
	KeySelectPrev  = "up"
	KeySelectPrevK = "k"
	KeySelectNext  = "down"
	KeySelectNextJ = "j"
	KeyNew         = "n"
	KeyEdit        = "e"
	KeyDelete      = "d"
	KeyTestScan    = "t"
	KeyTrigger     = "x"
	KeyWebhook     = "w"
	KeyBridge      = "b"
	KeyAlertsOnly  = "a"
	KeyClose       = "esc"
	KeyToggleHelp  = "?"
)

var tabKeys = map[string]Tab{
	"1": TabDashboard,
	"2": TabCameras,
	"3": TabLogs,
	"4": TabSettings,
}

// HandleKeyMsg processes keyboard input outside of forms.
// Returns true if the key was handled, false otherwise.
func (m *Model) HandleKeyMsg(msg tea.KeyMsg) (bool, tea.Cmd) {
	key := msg.String()

	// Help toggle takes priority
	if key == KeyToggleHelp {
		m.showHelp = !m.showHelp
		return true, nil
	}

	if key == KeyClose {
		switch {
		case m.showHelp:
			m.showHelp = false
		case m.overlay != nil:
			m.overlay = nil
		}
		return true, nil
	}

	// An open overlay swallows everything but quit
	if m.overlay != nil && key != KeyQuitAlt {
		if key == KeyQuit {
			m.overlay = nil
		}
		return true, nil
	}

	if tab, ok := tabKeys[key]; ok {
		return true, m.switchTab(tab)
	}

	switch key {
	case KeyQuit, KeyQuitAlt:
		m.quitting = true
		m.stopPolling()
		return true, tea.Quit

	case KeyNextTab:
		return true, m.switchTab(m.tab.Next())

	case KeyPrevTab:
		return true, m.switchTab(m.tab.Prev())

	case KeyRefresh:
		return true, m.refresh()

	case KeySelectPrev, KeySelectPrevK, KeySelectNext, KeySelectNextJ:
		return true, m.scroll(msg)

	case KeyNew:
		m.tab = TabCameras
		return true, m.openCreateForm()

	case KeyAlertsOnly:
		if m.tab == TabLogs {
			m.alertsOnly = !m.alertsOnly
			m.updateLogViewport()
			return true, nil
		}
	}

	if m.tab != TabCameras {
		return false, nil
	}

	// Actions on the selected monitor
	switch key {
	case KeyEdit:
		return true, m.openEditForm()
	case KeyDelete:
		return true, m.openDeleteForm()
	case KeyTestScan:
		return true, m.openScanForm()
	case KeyTrigger:
		return true, m.openTriggerForm()
	case KeyWebhook:
		m.showWebhook()
		return true, nil
	case KeyBridge:
		return true, m.downloadBridge()
	}

	return false, nil
}
