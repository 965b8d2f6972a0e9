package dashboard

import (
	"context"
	"time"

	"github.com/camai/camai/internal/api"
	"github.com/camai/camai/internal/config"
	"github.com/camai/camai/internal/domain"
	"github.com/camai/camai/internal/errors"
	"github.com/camai/camai/internal/logger"
	"github.com/camai/camai/internal/state"
	"github.com/camai/camai/internal/ui"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
)

// Client is the backend surface the dashboard uses beyond the store.
type Client interface {
	state.Backend
	Ping(ctx context.Context) error
	TriggerScan(ctx context.Context, req api.ScanRequest) (domain.Result, error)
	TriggerMonitor(ctx context.Context, id string, image *api.Upload) (api.TriggerResponse, error)
	DownloadBridge(ctx context.Context, id, dir string) (string, error)
	BaseURL() string
}

// Options configures a Model.
type Options struct {
	Config  *config.Config
	Logger  logger.Logger
	Version string
	Now     func() time.Time
}

// Model is the Bubble Tea model for the Camai console.
type Model struct {
	client  Client
	store   *state.Store
	cfg     *config.Config
	log     logger.Logger
	now     func() time.Time
	version string

	tab        Tab
	width      int
	height     int
	quitting   bool
	showHelp   bool
	alertsOnly bool

	table         table.Model
	logView       viewport.Model
	viewportReady bool
	loader        ui.Loader

	online     bool
	pinged     bool
	lastUpdate time.Time
	status     string
	statusErr  bool

	// Logs tab polling. Ticks carry the generation that scheduled them;
	// leaving the tab bumps pollGen so stale ticks die out.
	pollGen int
	polling bool

	overlay *overlay
	form    *huh.Form
	pending *pendingForm
}

// overlay is a modal text box (webhook commands, scan results).
type overlay struct {
	title string
	body  string
}

type formKind int

const (
	formCreate formKind = iota + 1
	formEdit
	formDelete
	formScan
	formTrigger
)

// pendingForm holds the values a huh form writes into. It lives on the
// heap so the form's pointers survive Model copies.
type pendingForm struct {
	kind    formKind
	monitor domain.Monitor
	data    *MonitorFormData
	scan    *ScanFormData
	confirm bool
	image   string
}

// loadedMsg reports a full reload of monitors and logs.
type loadedMsg struct {
	err  error
	time time.Time
}

// pingMsg reports the backend health check.
type pingMsg struct {
	err error
}

// logsMsg reports a log refresh. gen is the poll generation that asked for
// it, or noGeneration for one-off refreshes.
type logsMsg struct {
	gen  int
	err  error
	time time.Time
}

// logTickMsg asks for the next poll of generation gen.
type logTickMsg struct {
	gen int
}

type monitorSavedMsg struct {
	monitor domain.Monitor
	created bool
	err     error
}

type monitorDeletedMsg struct {
	monitor domain.Monitor
	err     error
}

type scanDoneMsg struct {
	mode   domain.MonitorType
	result domain.Result
	err    error
}

type triggerDoneMsg struct {
	monitor domain.Monitor
	resp    api.TriggerResponse
	err     error
}

type bridgeDoneMsg struct {
	path string
	err  error
}

const noGeneration = -1

// Layout: header, tab bar, status line and footer around the body.
const chromeHeight = 7

// cameraColumns is the monitor table layout.
var cameraColumns = []ui.TableColumn{
	{Title: "Name", Width: 22},
	{Title: "Type", Width: 11},
	{Title: "Source", Width: 15},
	{Title: "Status", Width: 9},
	{Title: "Interval", Width: 9},
	{Title: "Integrations", Width: 22},
	{Title: "Last update", Width: 20},
}

// NewModel creates the dashboard over store, using client for the calls
// the store does not cover.
func NewModel(client Client, store *state.Store, opts Options) Model {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	log := opts.Logger
	if log == nil {
		log = logger.Noop()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	t := ui.NewTable(cameraColumns, nil, 10)
	t.Focus()

	m := Model{
		client:  client,
		store:   store,
		cfg:     cfg,
		log:     log,
		now:     now,
		version: opts.Version,
		tab:     TabDashboard,
		table:   t,
		logView: viewport.New(80, 10),
		loader:  ui.NewLoader(),
	}
	m.syncTable()
	return m
}

// Init loads monitors and logs and checks backend health.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.loader.Start("Loading monitors"),
		m.loadCmd(),
		m.pingCmd(),
	)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.form != nil {
			return m.updateForm(msg)
		}
		handled, cmd := m.HandleKeyMsg(msg)
		if handled {
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		if m.form != nil {
			return m.updateForm(msg)
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.loader, cmd = m.loader.Update(msg)
		return m, cmd

	case loadedMsg:
		m.loader.Stop()
		m.lastUpdate = msg.time
		m.syncTable()
		m.updateLogViewport()
		if msg.err != nil {
			m.log.Warn("load failed: %v", msg.err)
			m.setError("%s", errors.Summary(msg.err))
			return m, nil
		}
		m.setStatus("Loaded %d monitors and %d log entries", len(m.store.Monitors()), len(m.store.Logs()))

	case pingMsg:
		m.pinged = true
		m.online = msg.err == nil
		if msg.err != nil {
			m.log.Warn("health check failed: %v", msg.err)
		}

	case logsMsg:
		m.updateLogViewport()
		if msg.err != nil {
			m.log.Warn("log refresh failed: %v", msg.err)
			if m.tab == TabLogs {
				m.setError("%s", errors.Summary(msg.err))
			}
		} else {
			m.lastUpdate = msg.time
		}
		if msg.gen == m.pollGen && m.polling {
			return m, m.logTickCmd(msg.gen)
		}

	case logTickMsg:
		if msg.gen != m.pollGen || !m.polling {
			return m, nil
		}
		return m, m.fetchLogsCmd(msg.gen)

	case monitorSavedMsg:
		m.loader.Stop()
		m.syncTable()
		m.selectMonitor(msg.monitor.ID)
		verb := "Updated"
		if msg.created {
			verb = "Created"
		}
		if msg.err != nil {
			m.log.Error("%s %s only locally: %v", verb, msg.monitor.Name, msg.err)
			m.setError("%s %s locally; backend said: %s", verb, msg.monitor.Name, errors.Summary(msg.err))
			return m, nil
		}
		m.setStatus("%s %s", verb, msg.monitor.Name)

	case monitorDeletedMsg:
		m.loader.Stop()
		m.syncTable()
		m.setStatus("Deleted %s", msg.monitor.Name)

	case scanDoneMsg:
		m.loader.Stop()
		if msg.err != nil {
			m.setError("%s", errors.Summary(msg.err))
			return m, nil
		}
		m.overlay = &overlay{
			title: "Test scan: " + string(msg.result.Kind),
			body:  RenderResult(msg.result, m.overlayWidth()),
		}
		m.setStatus("Scan finished")

	case triggerDoneMsg:
		m.loader.Stop()
		if msg.err != nil {
			m.setError("%s", errors.Summary(msg.err))
			return m, nil
		}
		body := RenderResult(msg.resp.Result, m.overlayWidth())
		if msg.resp.Message != "" {
			body = LabelStyle.Render(msg.resp.Message) + "\n\n" + body
		}
		m.overlay = &overlay{title: "Triggered " + msg.monitor.Name, body: body}
		m.setStatus("Trigger recorded as log %s", msg.resp.LogID)
		return m, m.fetchLogsCmd(noGeneration)

	case bridgeDoneMsg:
		m.loader.Stop()
		if msg.err != nil {
			m.setError("%s", errors.Summary(msg.err))
			return m, nil
		}
		m.setStatus("Bridge script saved to %s", msg.path)

	default:
		if m.form != nil {
			return m.updateForm(msg)
		}
	}

	cmd := m.updateActiveWidget(msg)
	return m, cmd
}

// updateActiveWidget forwards unhandled input to the focused widget.
func (m *Model) updateActiveWidget(msg tea.Msg) tea.Cmd {
	if _, ok := msg.(tea.KeyMsg); !ok || m.overlay != nil || m.showHelp {
		return nil
	}
	var cmd tea.Cmd
	switch m.tab {
	case TabCameras:
		m.table, cmd = m.table.Update(msg)
	case TabLogs:
		m.logView, cmd = m.logView.Update(msg)
	}
	return cmd
}

// scroll moves the table cursor or the log viewport.
func (m *Model) scroll(msg tea.KeyMsg) tea.Cmd {
	return m.updateActiveWidget(msg)
}

// View renders the current tab, or the open form or overlay.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.showHelp {
		return m.renderHelpOverlay()
	}
	return m.renderDashboard()
}

// resize fits the table and log viewport to the window.
func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height

	bodyHeight := height - chromeHeight
	if bodyHeight < 3 {
		bodyHeight = 3
	}
	m.table.SetHeight(bodyHeight)
	m.table.SetWidth(width)

	if !m.viewportReady {
		m.logView = viewport.New(width, bodyHeight)
		m.viewportReady = true
	} else {
		m.logView.Width = width
		m.logView.Height = bodyHeight
	}
	m.updateLogViewport()
}

// switchTab changes tab and starts or stops the Logs poller.
func (m *Model) switchTab(tab Tab) tea.Cmd {
	if tab == m.tab {
		return nil
	}
	if m.tab == TabLogs {
		m.stopPolling()
	}
	m.tab = tab
	if tab == TabLogs {
		return m.startPolling()
	}
	return nil
}

// startPolling opens a new poll generation and fetches immediately.
func (m *Model) startPolling() tea.Cmd {
	m.pollGen++
	m.polling = true
	m.updateLogViewport()
	return m.fetchLogsCmd(m.pollGen)
}

// stopPolling invalidates every pending tick.
func (m *Model) stopPolling() {
	if m.polling {
		m.pollGen++
	}
	m.polling = false
}

// refresh reloads everything and re-checks health.
func (m *Model) refresh() tea.Cmd {
	return tea.Batch(m.loader.Start("Reloading"), m.loadCmd(), m.pingCmd())
}

// syncTable rebuilds the monitor table from the store, keeping the cursor
// in range.
func (m *Model) syncTable() {
	monitors := m.store.Monitors()
	rows := make([]table.Row, 0, len(monitors))
	for _, mon := range monitors {
		interval := "-"
		if mon.UsesInterval() && mon.Interval > 0 {
			interval = domain.FormatInterval(mon.Interval) + "m"
		}
		rows = append(rows, table.Row{
			mon.Name,
			string(mon.Type),
			mon.Source,
			StatusIndicator(mon.Status) + " " + string(mon.Status),
			interval,
			mon.IntegrationList(),
			mon.LastUpdate,
		})
	}
	m.table.SetRows(rows)
	switch c := m.table.Cursor(); {
	case c < 0 && len(rows) > 0:
		m.table.SetCursor(0)
	case c >= len(rows):
		m.table.SetCursor(max(len(rows)-1, 0))
	}
}

// selectMonitor moves the cursor to the monitor with id, if present.
func (m *Model) selectMonitor(id string) {
	for i, mon := range m.store.Monitors() {
		if mon.ID == id {
			m.table.SetCursor(i)
			return
		}
	}
}

// SelectedMonitor returns the monitor under the table cursor.
func (m Model) SelectedMonitor() (domain.Monitor, bool) {
	monitors := m.store.Monitors()
	c := m.table.Cursor()
	if c < 0 || c >= len(monitors) {
		return domain.Monitor{}, false
	}
	return monitors[c], true
}

// updateLogViewport re-renders the log feed into the viewport.
func (m *Model) updateLogViewport() {
	m.logView.SetContent(m.renderLogFeed())
}

// setStatus shows an informational message on the status line.
func (m *Model) setStatus(format string, args ...interface{}) {
	m.status = sprintf(format, args...)
	m.statusErr = false
}

// setError shows an error on the status line.
func (m *Model) setError(format string, args ...interface{}) {
	m.status = sprintf(format, args...)
	m.statusErr = true
}

// Tab returns the active tab.
func (m Model) Tab() Tab {
	return m.tab
}

// Status returns the status line text and whether it reports an error.
func (m Model) Status() (string, bool) {
	return m.status, m.statusErr
}

// Online reports whether the last health check succeeded.
func (m Model) Online() bool {
	return m.online
}

// SecondsSinceUpdate returns how long ago data last arrived.
func (m Model) SecondsSinceUpdate() int {
	if m.lastUpdate.IsZero() {
		return 0
	}
	return int(m.now().Sub(m.lastUpdate).Seconds())
}

func (m Model) overlayWidth() int {
	if m.width == 0 {
		return 80
	}
	return clamp(m.width-10, 40, 120)
}
