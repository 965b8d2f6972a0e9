// Package state holds the console's canonical copy of monitors and logs and
// is the single entry point for every mutation the user can trigger.
package state

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/camai/camai/internal/domain"
	"github.com/camai/camai/internal/logger"
	"github.com/google/uuid"
	"go.uber.org/multierr"
)

// Backend is the subset of the API client the store needs.
type Backend interface {
	ListMonitors(ctx context.Context) ([]domain.Monitor, error)
	ListLogs(ctx context.Context) ([]domain.LogEntry, error)
	CreateMonitor(ctx context.Context, in domain.MonitorInput) (domain.Monitor, error)
	UpdateMonitor(ctx context.Context, id string, in domain.MonitorInput) (domain.Monitor, error)
	DeleteMonitor(ctx context.Context, id string) error
}

// Store is safe for concurrent use. Readers always get copies.
type Store struct {
	mu       sync.RWMutex
	monitors []domain.Monitor
	logs     []domain.LogEntry
	loaded   time.Time

	backend Backend
	log     logger.Logger
	newID   func() string
	now     func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the store's logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator replaces the fallback id generator.
func WithIDGenerator(gen func() string) Option {
	return func(s *Store) { s.newID = gen }
}

// New returns an empty store backed by b.
func New(b Backend, opts ...Option) *Store {
	s := &Store{
		monitors: []domain.Monitor{},
		logs:     []domain.LogEntry{},
		backend:  b,
		log:      logger.Noop(),
		newID:    FallbackID,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FallbackID returns "m-" followed by 9 random characters, the id given to
// monitors that only exist locally because the backend call failed.
func FallbackID() string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "m-" + id[:9]
}

// Load fetches monitors and logs. Both requests are attempted; whatever
// succeeded is cached and the failures are combined.
func (s *Store) Load(ctx context.Context) error {
	monErr := s.RefreshMonitors(ctx)
	logErr := s.RefreshLogs(ctx)
	if monErr == nil && logErr == nil {
		s.mu.Lock()
		s.loaded = s.now()
		s.mu.Unlock()
	}
	return multierr.Combine(monErr, logErr)
}

// LoadedAt reports when Load last fully succeeded.
func (s *Store) LoadedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// RefreshMonitors replaces the cached monitors with the backend's list.
func (s *Store) RefreshMonitors(ctx context.Context) error {
	monitors, err := s.backend.ListMonitors(ctx)
	if err != nil {
		s.log.Warn("fetching monitors failed: %v", err)
		return err
	}
	s.SetMonitors(monitors)
	return nil
}

// RefreshLogs replaces the cached logs. The last response to arrive wins.
func (s *Store) RefreshLogs(ctx context.Context) error {
	logs, err := s.backend.ListLogs(ctx)
	if err != nil {
		s.log.Warn("fetching logs failed: %v", err)
		return err
	}
	s.SetLogs(logs)
	return nil
}

// SetMonitors replaces the cached monitors.
func (s *Store) SetMonitors(monitors []domain.Monitor) {
	cp := make([]domain.Monitor, len(monitors))
	copy(cp, monitors)
	s.mu.Lock()
	s.monitors = cp
	s.mu.Unlock()
}

// SetLogs replaces the cached logs.
func (s *Store) SetLogs(logs []domain.LogEntry) {
	cp := make([]domain.LogEntry, len(logs))
	copy(cp, logs)
	s.mu.Lock()
	s.logs = cp
	s.mu.Unlock()
}

// Monitors returns a copy of the cached monitors in display order.
func (s *Store) Monitors() []domain.Monitor {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Monitor, len(s.monitors))
	copy(out, s.monitors)
	return out
}

// Monitor looks up a cached monitor by id.
func (s *Store) Monitor(id string) (domain.Monitor, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, m := range s.monitors {
		if m.ID == id {
			return m, true
		}
	}
	return domain.Monitor{}, false
}

// Logs returns a copy of the cached logs, newest first.
func (s *Store) Logs() []domain.LogEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.LogEntry, len(s.logs))
	copy(out, s.logs)
	return out
}

// CreateMonitor submits in and appends the backend's record. When the call
// fails a local record is appended instead and the error is returned with
// it, so the list stays usable offline.
func (s *Store) CreateMonitor(ctx context.Context, in domain.MonitorInput) (domain.Monitor, error) {
	m, err := s.backend.CreateMonitor(ctx, in)
	if err != nil {
		s.log.Warn("create %q failed, keeping a local record: %v", in.Name, err)
		m = s.fallback(s.newID(), in)
	}

	s.mu.Lock()
	s.monitors = append(s.monitors, m)
	s.mu.Unlock()
	return m, err
}

// UpdateMonitor submits in for id and replaces the cached record in place.
// On failure the cached record is replaced by a local one built from in.
func (s *Store) UpdateMonitor(ctx context.Context, id string, in domain.MonitorInput) (domain.Monitor, error) {
	m, err := s.backend.UpdateMonitor(ctx, id, in)
	if err != nil {
		s.log.Warn("update %s failed, keeping local edits: %v", id, err)
		m = s.fallback(id, in)
		if prev, ok := s.Monitor(id); ok {
			m.IdealImagePath = prev.IdealImagePath
			m.ThumbnailURL = prev.ThumbnailURL
		}
	}

	s.mu.Lock()
	for i := range s.monitors {
		if s.monitors[i].ID == id {
			s.monitors[i] = m
			break
		}
	}
	s.mu.Unlock()
	return m, err
}

// DeleteMonitor asks the backend to delete id and drops it from the cache
// whatever the outcome. A failed request is logged and returned but never
// rolled back.
func (s *Store) DeleteMonitor(ctx context.Context, id string) error {
	err := s.backend.DeleteMonitor(ctx, id)
	if err != nil {
		s.log.Warn("delete %s failed on the backend: %v", id, err)
	}

	s.mu.Lock()
	kept := make([]domain.Monitor, 0, len(s.monitors))
	for _, m := range s.monitors {
		if m.ID != id {
			kept = append(kept, m)
		}
	}
	s.monitors = kept
	s.mu.Unlock()
	return err
}

func (s *Store) fallback(id string, in domain.MonitorInput) domain.Monitor {
	return domain.Monitor{
		ID:            id,
		Name:          in.Name,
		Type:          in.Type,
		Source:        in.Source,
		ConnectionURL: in.ConnectionURL,
		Rule:          in.Rule,
		Interval:      in.Interval,
		Integrations:  append([]string(nil), in.Integrations...),
		Status:        domain.StatusOK,
		LastUpdate:    s.now().In(time.Local).Format("2006-01-02T15:04:05.000000"),
	}
}
