package mockserver

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/camai/camai/internal/domain"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

const maxUpload = 32 << 20

// Server serves the backend REST surface from a Store.
type Server struct {
	Logger *zap.Logger
	Store  *Store

	// PublicURL overrides the API address embedded in bridge scripts.
	PublicURL string

	// Latency delays every response.
	Latency time.Duration

	mu     sync.Mutex
	faults map[string]int
}

// NewServer returns a server over store. A nil logger discards output.
func NewServer(l *zap.Logger, store *Store) *Server {
	if l == nil {
		l = zap.NewNop()
	}
	return &Server{Logger: l, Store: store, faults: make(map[string]int)}
}

// SetFault makes every request to method+path answer status with an
// {error} body. A zero status clears the fault.
func (s *Server) SetFault(method, path string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := method + " " + path
	if status == 0 {
		delete(s.faults, key)
		return
	}
	s.faults[key] = status
}

func (s *Server) fault(r *http.Request) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.faults[r.Method+" "+r.URL.Path]
}

// Router builds the chi handler.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(cors.AllowAll().Handler)
	r.Use(s.requestLog)
	r.Use(s.faultInjector)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("Camai Backend is Running"))
	})

	r.Get("/monitors", s.handleListMonitors)
	r.Post("/monitors", s.handleCreateMonitor)
	r.Put("/monitors/{id}", s.handleUpdateMonitor)
	r.Delete("/monitors/{id}", s.handleDeleteMonitor)
	r.Get("/monitors/{id}/download-bridge", s.handleDownloadBridge)
	r.Post("/monitors/{id}/trigger", s.handleTrigger)

	r.Get("/logs", s.handleListLogs)
	r.Post("/trigger-scan", s.handleTriggerScan)
	r.Post("/test-rule", s.handleTestRule)

	return r
}

// ListenAndServe serves on addr until ctx is canceled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.Logger.Info("mock_backend_listen", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func (s *Server) requestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		if s.Latency > 0 {
			select {
			case <-time.After(s.Latency):
			case <-r.Context().Done():
				return
			}
		}
		next.ServeHTTP(ww, r)
		s.Logger.Info("http_request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

func (s *Server) faultInjector(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if status := s.fault(r); status != 0 {
			writeError(w, status, fmt.Sprintf("injected fault: %d", status))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// parseForm accepts multipart and urlencoded bodies, and empty ones.
func parseForm(r *http.Request) error {
	err := r.ParseMultipartForm(maxUpload)
	if stderrors.Is(err, http.ErrNotMultipart) {
		return r.ParseForm()
	}
	return err
}

// readFile returns the named upload, or nil when absent or empty.
func readFile(r *http.Request, field string) ([]byte, error) {
	if r.MultipartForm == nil {
		return nil, nil
	}
	f, hdr, err := r.FormFile(field)
	if stderrors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()
	if hdr.Filename == "" {
		return nil, nil
	}
	return io.ReadAll(f)
}

func (s *Server) handleListMonitors(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Store.Monitors())
}

func (s *Server) handleCreateMonitor(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(r); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	interval := domain.DefaultInterval
	if v := r.FormValue("interval"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("could not convert string to float: '%s'", v))
			return
		}
		interval = f
	}

	conn := domain.DefaultConnectionURL
	if _, ok := r.Form["connection_url"]; ok {
		conn = r.FormValue("connection_url")
	}

	m := domain.Monitor{
		Name:          r.FormValue("name"),
		Type:          domain.MonitorType(r.FormValue("type")),
		Source:        r.FormValue("source"),
		ConnectionURL: conn,
		Rule:          r.FormValue("rule"),
		Interval:      interval,
		Integrations:  strings.Split(r.FormValue("integrations"), ","),
	}

	ideal, err := readFile(r, "ideal_image")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	created := s.Store.Create(m)
	if ideal != nil {
		created, _ = s.Store.Update(created.ID, func(m *domain.Monitor) {
			m.IdealImagePath = "static/references/ref_" + m.ID + ".jpg"
		})
	}

	s.Logger.Info("monitor_created",
		zap.String("id", created.ID),
		zap.String("name", created.Name),
		zap.String("type", string(created.Type)),
	)
	writeJSON(w, http.StatusOK, created)
}

func (s *Server) handleUpdateMonitor(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := parseForm(r); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var interval *float64
	if _, ok := r.Form["interval"]; ok {
		v := r.FormValue("interval")
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("could not convert string to float: '%s'", v))
			return
		}
		interval = &f
	}

	updated, ok := s.Store.Update(id, func(m *domain.Monitor) {
		setIfPresent(r, "name", &m.Name)
		if v, present := formValue(r, "type"); present {
			m.Type = domain.MonitorType(v)
		}
		setIfPresent(r, "source", &m.Source)
		setIfPresent(r, "connection_url", &m.ConnectionURL)
		setIfPresent(r, "rule", &m.Rule)
		if interval != nil {
			m.Interval = *interval
		}
		if v, present := formValue(r, "integrations"); present {
			m.Integrations = strings.Split(v, ",")
		}
	})
	if !ok {
		writeError(w, http.StatusNotFound, "Not found")
		return
	}
	s.Logger.Info("monitor_updated", zap.String("id", id))
	writeJSON(w, http.StatusOK, updated)
}

func formValue(r *http.Request, key string) (string, bool) {
	if _, ok := r.Form[key]; !ok {
		return "", false
	}
	return r.FormValue(key), true
}

func setIfPresent(r *http.Request, key string, dst *string) {
	if v, ok := formValue(r, key); ok {
		*dst = v
	}
}

func (s *Server) handleDeleteMonitor(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.Store.Delete(id)
	s.Logger.Info("monitor_deleted", zap.String("id", id))
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) handleListLogs(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Store.Logs())
}

func (s *Server) handleTriggerScan(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(r); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	img, err := readFile(r, "image")
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if img == nil {
		writeError(w, http.StatusBadRequest, "No image uploaded")
		return
	}

	mode := r.FormValue("mode")
	if mode == "" {
		mode = string(domain.TypeQuantifier)
	}
	kind := domain.MonitorType(mode)
	if !kind.Valid() {
		writeJSON(w, http.StatusOK, map[string]interface{}{})
		return
	}

	s.Logger.Info("trigger_scan", zap.String("mode", mode), zap.Int("image_bytes", len(img)))
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(CannedResult(kind, r.FormValue("rule")))
}

func (s *Server) handleTrigger(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	m, ok := s.Store.Monitor(id)
	if !ok {
		writeError(w, http.StatusNotFound, "Monitor not found")
		return
	}
	if err := parseForm(r); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	img, err := readFile(r, "image")
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	source := "upload"
	if img == nil {
		if m.ConnectionURL == "" {
			writeError(w, http.StatusBadRequest, "No image provided and camera capture failed")
			return
		}
		source = "camera " + m.ConnectionURL
	}

	result := CannedResult(m.Type, m.Rule)
	entry := s.Store.AppendLog(m, result, "")

	s.Logger.Info("external_trigger",
		zap.String("monitor_id", id),
		zap.String("frame_source", source),
		zap.Bool("alert", entry.IsAlert()),
	)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Scan completed",
		"result":  json.RawMessage(result),
		"log_id":  entry.ID,
	})
}

func (s *Server) handleTestRule(w http.ResponseWriter, r *http.Request) {
	rule := "No rule provided"
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		var body map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&body); err == nil {
			if v, ok := body["rule"].(string); ok {
				rule = v
			}
		}
	} else if err := parseForm(r); err == nil && r.FormValue("rule") != "" {
		rule = r.FormValue("rule")
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status":        "success",
		"message":       "Backend is ready",
		"received_rule": rule,
	})
}
