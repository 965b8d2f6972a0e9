package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/camai/camai/internal/api"
	"github.com/camai/camai/internal/config"
	"github.com/camai/camai/internal/domain"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
)

// callContext bounds one backend call by the configured API timeout.
func (m Model) callContext() (context.Context, context.CancelFunc) {
	timeout := m.cfg.API.Timeout
	if timeout <= 0 {
		timeout = api.DefaultTimeout
	}
	return context.WithTimeout(context.Background(), timeout)
}

func (m Model) loadCmd() tea.Cmd {
	store, now := m.store, m.now
	return func() tea.Msg {
		ctx, cancel := m.callContext()
		defer cancel()
		err := store.Load(ctx)
		return loadedMsg{err: err, time: now()}
	}
}

func (m Model) pingCmd() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := m.callContext()
		defer cancel()
		return pingMsg{err: client.Ping(ctx)}
	}
}

func (m Model) fetchLogsCmd(gen int) tea.Cmd {
	store, now := m.store, m.now
	return func() tea.Msg {
		ctx, cancel := m.callContext()
		defer cancel()
		err := store.RefreshLogs(ctx)
		return logsMsg{gen: gen, err: err, time: now()}
	}
}

func (m Model) logTickCmd(gen int) tea.Cmd {
	interval := m.cfg.Dashboard.PollInterval
	if interval < config.MinPollInterval {
		interval = config.MinPollInterval
	}
	return tea.Tick(interval, func(time.Time) tea.Msg {
		return logTickMsg{gen: gen}
	})
}

func (m Model) saveCmd(id string, in domain.MonitorInput) tea.Cmd {
	store := m.store
	return func() tea.Msg {
		ctx, cancel := m.callContext()
		defer cancel()
		if id == "" {
			mon, err := store.CreateMonitor(ctx, in)
			return monitorSavedMsg{monitor: mon, created: true, err: err}
		}
		mon, err := store.UpdateMonitor(ctx, id, in)
		return monitorSavedMsg{monitor: mon, err: err}
	}
}

func (m Model) deleteCmd(mon domain.Monitor) tea.Cmd {
	store := m.store
	return func() tea.Msg {
		ctx, cancel := m.callContext()
		defer cancel()
		return monitorDeletedMsg{monitor: mon, err: store.DeleteMonitor(ctx, mon.ID)}
	}
}

func (m Model) scanCmd(d ScanFormData) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := m.callContext()
		defer cancel()
		mode, result, err := RunScan(ctx, client, d)
		return scanDoneMsg{mode: mode, result: result, err: err}
	}
}

func (m Model) triggerCmd(mon domain.Monitor, imagePath string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := m.callContext()
		defer cancel()
		resp, err := RunTrigger(ctx, client, mon.ID, imagePath)
		return triggerDoneMsg{monitor: mon, resp: resp, err: err}
	}
}

func (m Model) bridgeCmd(mon domain.Monitor) tea.Cmd {
	client, dir := m.client, m.cfg.Bridge.Dir
	return func() tea.Msg {
		ctx, cancel := m.callContext()
		defer cancel()
		path, err := client.DownloadBridge(ctx, mon.ID, dir)
		return bridgeDoneMsg{path: path, err: err}
	}
}

// openForm shows f until it completes or aborts.
func (m *Model) openForm(f *huh.Form, p *pendingForm) tea.Cmd {
	if m.width > 0 {
		f = f.WithWidth(clamp(m.width-8, 40, 100))
	}
	m.form = f
	m.pending = p
	m.overlay = nil
	return f.Init()
}

func (m *Model) openCreateForm() tea.Cmd {
	p := &pendingForm{kind: formCreate, data: NewMonitorFormData(nil)}
	return m.openForm(MonitorForm(p.data, "New monitor"), p)
}

func (m *Model) openEditForm() tea.Cmd {
	mon, ok := m.requireSelection()
	if !ok {
		return nil
	}
	p := &pendingForm{kind: formEdit, monitor: mon, data: NewMonitorFormData(&mon)}
	return m.openForm(MonitorForm(p.data, "Edit "+mon.Name), p)
}

func (m *Model) openDeleteForm() tea.Cmd {
	mon, ok := m.requireSelection()
	if !ok {
		return nil
	}
	p := &pendingForm{kind: formDelete, monitor: mon}
	return m.openForm(ConfirmDeleteForm(mon.Name, &p.confirm), p)
}

func (m *Model) openScanForm() tea.Cmd {
	var seed *domain.Monitor
	if mon, ok := m.SelectedMonitor(); ok {
		seed = &mon
	}
	p := &pendingForm{kind: formScan, scan: NewScanFormData(seed)}
	return m.openForm(ScanForm(p.scan), p)
}

func (m *Model) openTriggerForm() tea.Cmd {
	mon, ok := m.requireSelection()
	if !ok {
		return nil
	}
	p := &pendingForm{kind: formTrigger, monitor: mon}
	return m.openForm(TriggerForm(mon.Name, &p.image), p)
}

func (m *Model) requireSelection() (domain.Monitor, bool) {
	mon, ok := m.SelectedMonitor()
	if !ok {
		m.setError("No monitor selected. Press n to create one")
	}
	return mon, ok
}

// updateForm routes msg to the open form and acts on completion.
func (m Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	fm, cmd := m.form.Update(msg)
	if f, ok := fm.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		p := m.pending
		m.closeForm()
		return m, m.submit(p)
	case huh.StateAborted:
		m.closeForm()
		m.setStatus("Cancelled")
		return m, nil
	}
	return m, cmd
}

func (m *Model) closeForm() {
	m.form = nil
	m.pending = nil
}

// submit runs the action a completed form asked for.
func (m *Model) submit(p *pendingForm) tea.Cmd {
	switch p.kind {
	case formCreate, formEdit:
		in, err := p.data.Input()
		if err != nil {
			m.setError("Not saved: %v", err)
			return nil
		}
		if p.kind == formCreate {
			return tea.Batch(m.loader.Start("Creating "+in.Name), m.saveCmd("", in))
		}
		return tea.Batch(m.loader.Start("Saving "+in.Name), m.saveCmd(p.monitor.ID, in))

	case formDelete:
		if !p.confirm {
			m.setStatus("Kept %s", p.monitor.Name)
			return nil
		}
		return tea.Batch(m.loader.Start("Deleting "+p.monitor.Name), m.deleteCmd(p.monitor))

	case formScan:
		return tea.Batch(m.loader.Start("Analysing image"), m.scanCmd(*p.scan))

	case formTrigger:
		return tea.Batch(m.loader.Start("Triggering "+p.monitor.Name), m.triggerCmd(p.monitor, p.image))
	}
	return nil
}

func (m *Model) downloadBridge() tea.Cmd {
	mon, ok := m.requireSelection()
	if !ok {
		return nil
	}
	return tea.Batch(m.loader.Start("Downloading bridge for "+mon.Name), m.bridgeCmd(mon))
}

func sprintf(format string, args ...interface{}) string {
	if len(args) == 0 {
		return format
	}
	return fmt.Sprintf(format, args...)
}
