package state

import (
	"context"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/camai/camai/internal/api"
	"github.com/camai/camai/internal/domain"
	"github.com/camai/camai/internal/logger"
	"github.com/camai/camai/internal/mockserver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBackedStore(t *testing.T, opts ...Option) (*Store, *mockserver.Server) {
	t.Helper()
	ms := mockserver.NewStore()
	mockserver.Seed(ms)
	srv := mockserver.NewServer(nil, ms)
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)

	s := New(api.NewClient(ts.URL), opts...)
	require.NoError(t, s.Load(context.Background()))
	return s, srv
}

func ids(monitors []domain.Monitor) []string {
	out := make([]string, len(monitors))
	for i, m := range monitors {
		out[i] = m.ID
	}
	return out
}

// fakeBackend fails every mutation with err.
type fakeBackend struct {
	monitors []domain.Monitor
	logs     []domain.LogEntry
	err      error
}

func (f *fakeBackend) ListMonitors(context.Context) ([]domain.Monitor, error) {
	return f.monitors, f.err
}
func (f *fakeBackend) ListLogs(context.Context) ([]domain.LogEntry, error) { return f.logs, f.err }
func (f *fakeBackend) CreateMonitor(context.Context, domain.MonitorInput) (domain.Monitor, error) {
	return domain.Monitor{}, f.err
}
func (f *fakeBackend) UpdateMonitor(context.Context, string, domain.MonitorInput) (domain.Monitor, error) {
	return domain.Monitor{}, f.err
}
func (f *fakeBackend) DeleteMonitor(context.Context, string) error { return f.err }

func TestFallbackID(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		id := FallbackID()
		require.Len(t, id, 11)
		assert.True(t, strings.HasPrefix(id, "m-"))
		assert.False(t, seen[id])
		seen[id] = true
	}
}

func TestLoad(t *testing.T) {
	s, _ := newBackedStore(t)
	assert.Equal(t, []string{"m1", "m2", "m3"}, ids(s.Monitors()))
	assert.Len(t, s.Logs(), 5)
	assert.False(t, s.LoadedAt().IsZero())
}

func TestLoad_PartialFailure(t *testing.T) {
	boom := stderrors.New("boom")
	s := New(&fakeBackend{err: boom})

	err := s.Load(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, s.Monitors())
	assert.True(t, s.LoadedAt().IsZero())
}

func TestCreateMonitor_AppendsOnce(t *testing.T) {
	s, srv := newBackedStore(t)

	in := domain.NewMonitorInput()
	in.Name = "Dock 1"

	m, err := s.CreateMonitor(context.Background(), in)
	require.NoError(t, err)

	monitors := s.Monitors()
	require.Len(t, monitors, 4)
	assert.Equal(t, m, monitors[3])
	assert.Equal(t, "Dock 1", m.Name)

	count := 0
	for _, mm := range monitors {
		if mm.Name == "Dock 1" {
			count++
		}
	}
	assert.Equal(t, 1, count)

	_, onBackend := srv.Store.Monitor(m.ID)
	assert.True(t, onBackend, "canonical id comes from the backend")
}

func TestCreateMonitor_FallbackOnFailure(t *testing.T) {
	fixed := time.Date(2025, 3, 1, 9, 0, 0, 0, time.Local)
	buf := logger.NewBufferLogger()
	s := New(&fakeBackend{err: stderrors.New("connection refused")},
		WithLogger(buf),
		WithClock(func() time.Time { return fixed }),
		WithIDGenerator(func() string { return "m-abcdefghi" }))

	in := domain.NewMonitorInput()
	in.Name = "Dock 2"
	in.Integrations = []string{domain.IntegrationEmail}

	m, err := s.CreateMonitor(context.Background(), in)
	require.Error(t, err)
	assert.Equal(t, "m-abcdefghi", m.ID)
	assert.Equal(t, domain.StatusOK, m.Status)
	assert.Equal(t, "2025-03-01T09:00:00.000000", m.LastUpdate)
	assert.Equal(t, []string{"Email"}, m.Integrations)
	assert.Equal(t, []domain.Monitor{m}, s.Monitors())
	assert.True(t, buf.HasLevel("warn"))
}

func TestUpdateMonitor_ReplacesInPlace(t *testing.T) {
	s, _ := newBackedStore(t)

	current, ok := s.Monitor("m2")
	require.True(t, ok)
	in := current.Input()
	in.Rule = "Hard hats and vests"

	m, err := s.UpdateMonitor(context.Background(), "m2", in)
	require.NoError(t, err)
	assert.Equal(t, "Hard hats and vests", m.Rule)

	monitors := s.Monitors()
	assert.Equal(t, []string{"m1", "m2", "m3"}, ids(monitors))
	assert.Equal(t, "Hard hats and vests", monitors[1].Rule)
}

func TestUpdateMonitor_FallbackKeepsPosition(t *testing.T) {
	s, srv := newBackedStore(t)
	srv.SetFault(http.MethodPut, "/monitors/m1", http.StatusInternalServerError)

	in := domain.NewMonitorInput()
	in.Name = "Renamed"

	m, err := s.UpdateMonitor(context.Background(), "m1", in)
	require.Error(t, err)
	assert.Equal(t, "m1", m.ID)
	assert.Equal(t, domain.StatusOK, m.Status)

	monitors := s.Monitors()
	assert.Equal(t, []string{"m1", "m2", "m3"}, ids(monitors))
	assert.Equal(t, "Renamed", monitors[0].Name)
}

func TestDeleteMonitor(t *testing.T) {
	tests := []struct {
		name    string
		fault   int
		wantErr bool
	}{
		{"backend succeeds", 0, false},
		{"backend fails", http.StatusInternalServerError, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, srv := newBackedStore(t)
			if tt.fault != 0 {
				srv.SetFault(http.MethodDelete, "/monitors/m2", tt.fault)
			}

			err := s.DeleteMonitor(context.Background(), "m2")
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, []string{"m1", "m3"}, ids(s.Monitors()), "only m2 is removed")
		})
	}

	t.Run("unknown id leaves the list alone", func(t *testing.T) {
		s, _ := newBackedStore(t)
		require.NoError(t, s.DeleteMonitor(context.Background(), "ghost"))
		assert.Len(t, s.Monitors(), 3)
	})
}

func TestRefreshLogs_LastWriteWins(t *testing.T) {
	s, srv := newBackedStore(t)

	m, _ := srv.Store.Monitor("m1")
	srv.Store.AppendLog(m, mockserver.CannedResult(domain.TypeQuantifier, ""), "")
	require.NoError(t, s.RefreshLogs(context.Background()))
	assert.Len(t, s.Logs(), 6)

	s.SetLogs(nil)
	assert.Empty(t, s.Logs())
}

func TestConcurrentAccess(t *testing.T) {
	s := New(&fakeBackend{})
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _ = s.CreateMonitor(context.Background(), domain.MonitorInput{Name: "x"})
		}()
		go func() {
			defer wg.Done()
			_ = s.Monitors()
			_ = s.Logs()
		}()
	}
	wg.Wait()
	assert.Len(t, s.Monitors(), 20)
}

func TestReadersGetCopies(t *testing.T) {
	s := New(&fakeBackend{})
	s.SetMonitors([]domain.Monitor{{ID: "a", Name: "A"}})

	got := s.Monitors()
	got[0].Name = "mutated"
	assert.Equal(t, "A", s.Monitors()[0].Name)
}
