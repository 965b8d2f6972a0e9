// Package mockserver is an in-memory stand-in for the Camai backend. It
// serves the same REST surface so the console can be exercised without a
// camera, a model or the Python service.
package mockserver

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/camai/camai/internal/domain"
	"github.com/google/uuid"
)

// MaxLogs is how many log entries the backend keeps.
const MaxLogs = 100

// Store holds monitors and logs. It is safe for concurrent use.
type Store struct {
	mu       sync.RWMutex
	monitors []domain.Monitor
	logs     []domain.LogEntry // newest first

	newID func() string
	now   func() time.Time
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		monitors: []domain.Monitor{},
		logs:     []domain.LogEntry{},
		newID:    func() string { return uuid.NewString() },
		now:      time.Now,
	}
}

// SetClock replaces the time source.
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// Monitors returns a copy of all monitors in creation order.
func (s *Store) Monitors() []domain.Monitor {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Monitor, len(s.monitors))
	copy(out, s.monitors)
	return out
}

// Monitor looks up one monitor by id.
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

// Create assigns an id, status OK and last update, then appends m.
func (s *Store) Create(m domain.Monitor) domain.Monitor {
	s.mu.Lock()
	defer s.mu.Unlock()
	m.ID = s.newID()
	m.Status = domain.StatusOK
	m.LastUpdate = isoformat(s.now())
	s.monitors = append(s.monitors, m)
	return m
}

// Update applies fn to monitor id in place. It reports false when the id
// is unknown.
func (s *Store) Update(id string, fn func(*domain.Monitor)) (domain.Monitor, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.monitors {
		if s.monitors[i].ID == id {
			fn(&s.monitors[i])
			return s.monitors[i], true
		}
	}
	return domain.Monitor{}, false
}

// Delete removes monitor id. Unknown ids are not an error.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.monitors[:0]
	for _, m := range s.monitors {
		if m.ID != id {
			kept = append(kept, m)
		}
	}
	s.monitors = kept
}

// Logs returns a copy of the log feed, newest first.
func (s *Store) Logs() []domain.LogEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.LogEntry, len(s.logs))
	copy(out, s.logs)
	return out
}

// AppendLog records a result for m, trimming the feed to MaxLogs, and
// marks the monitor ALERT or OK from the result.
func (s *Store) AppendLog(m domain.Monitor, result json.RawMessage, imageURL string) domain.LogEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry := domain.NewLogEntry(s.newID(), m.ID, m.Name, m.Type, s.now(), string(result))
	entry.ImageURL = imageURL

	s.logs = append([]domain.LogEntry{entry}, s.logs...)
	if len(s.logs) > MaxLogs {
		s.logs = s.logs[:MaxLogs]
	}

	for i := range s.monitors {
		if s.monitors[i].ID == m.ID {
			s.monitors[i].LastUpdate = entry.RawTimestamp
			s.monitors[i].Status = domain.StatusOK
			if entry.IsAlert() {
				s.monitors[i].Status = domain.StatusAlert
			}
		}
	}
	return entry
}

func isoformat(t time.Time) string {
	return t.In(time.Local).Format("2006-01-02T15:04:05.000000")
}
