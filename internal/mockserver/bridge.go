package mockserver

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"
	"text/template"

	"github.com/camai/camai/internal/domain"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

var bridgeTemplate = template.Must(template.New("bridge").Parse(`import time
import sys

import cv2
import requests

MONITOR_ID = "{{.ID}}"
API_URL = "{{.APIURL}}"
INTERVAL = {{.Interval}} * 60  # minutes to seconds
SOURCE_ID = "{{.Source}}"


def run_bridge():
    print(f"Bridge started for monitor {MONITOR_ID}, target {API_URL}, every {INTERVAL}s")
    try:
        src = int(SOURCE_ID)
    except ValueError:
        src = SOURCE_ID

    while True:
        cap = cv2.VideoCapture(src)
        if not cap.isOpened():
            print("Failed to open camera. Retrying in 10s...")
            time.sleep(10)
            continue
        ok, frame = cap.read()
        cap.release()
        if ok:
            _, buffer = cv2.imencode(".jpg", frame)
            url = f"{API_URL}/monitors/{MONITOR_ID}/trigger"
            files = {"image": ("snap.jpg", buffer.tobytes(), "image/jpeg")}
            try:
                res = requests.post(url, files=files)
                print(res.status_code, res.text)
            except Exception as e:
                print(f"Network error: {e}")
        time.sleep(INTERVAL)


if __name__ == "__main__":
    run_bridge()
`))

type bridgeParams struct {
	ID       string
	APIURL   string
	Interval string
	Source   string
}

// BridgeFilename is the download name for a monitor's bridge script.
func BridgeFilename(name string) string {
	return "bridge_" + strings.ReplaceAll(name, " ", "_") + ".py"
}

func (s *Server) handleDownloadBridge(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	m, ok := s.Store.Monitor(id)
	if !ok {
		writeError(w, http.StatusNotFound, "Monitor not found")
		return
	}

	apiURL := strings.TrimRight(s.PublicURL, "/")
	if apiURL == "" {
		scheme := "http"
		if r.TLS != nil {
			scheme = "https"
		}
		apiURL = scheme + "://" + r.Host
	}

	interval := m.Interval
	if interval == 0 {
		interval = domain.DefaultInterval
	}
	source := m.ConnectionURL
	if source == "" {
		source = domain.DefaultConnectionURL
	}

	var buf bytes.Buffer
	if err := bridgeTemplate.Execute(&buf, bridgeParams{
		ID:       m.ID,
		APIURL:   apiURL,
		Interval: domain.FormatInterval(interval),
		Source:   source,
	}); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.Logger.Info("bridge_download", zap.String("monitor_id", id))
	w.Header().Set("Content-Type", "text/x-python")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", BridgeFilename(m.Name)))
	_, _ = w.Write(buf.Bytes())
}
