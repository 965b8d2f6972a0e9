package mockserver

import (
	"encoding/json"
	"time"

	"github.com/camai/camai/internal/domain"
)

// DemoMonitors are the three monitors the demo backend starts with.
func DemoMonitors() []domain.Monitor {
	return []domain.Monitor{
		{
			ID:            "m1",
			Name:          "Warehouse Shelf A",
			Type:          domain.TypeQuantifier,
			Source:        domain.SourceRTSP,
			ConnectionURL: "rtsp://camera-01/stream",
			Rule:          "Count boxes on Shelf A. Alert if < 50.",
			Interval:      domain.DefaultInterval,
			Integrations:  []string{domain.IntegrationExcel},
			Status:        domain.StatusOK,
		},
		{
			ID:            "m2",
			Name:          "Safety Gate 3",
			Type:          domain.TypeDetector,
			Source:        domain.SourceEventTrigger,
			ConnectionURL: domain.DefaultConnectionURL,
			Rule:          "Ensure all personnel are wearing hard hats.",
			Interval:      domain.DefaultInterval,
			Integrations:  []string{domain.IntegrationWhatsApp, domain.IntegrationEmail},
			Status:        domain.StatusAlert,
		},
		{
			ID:            "m3",
			Name:          "Assembly Line 4",
			Type:          domain.TypeProcess,
			Source:        domain.SourceRTSP,
			ConnectionURL: "rtsp://camera-02/stream",
			Rule:          "Track assembly progress of Unit X-99.",
			Interval:      0.5,
			Integrations:  []string{domain.IntegrationEmail},
			Status:        domain.StatusOK,
		},
	}
}

type demoLog struct {
	id      string
	monitor int
	ago     time.Duration
	result  interface{}
}

var demoLogs = []demoLog{
	{"l1", 0, 15 * time.Second, quantifierResult("OK",
		section("Top Rack", 45, 50, "OK"),
		section("Mid Rack", 32, 30, "OK"),
		section("Bottom Rack", 12, 10, "OK"))},
	{"l2", 1, 25 * time.Second, detectorResult("FAIL",
		detection("Person Detected", true, 0.98, "One worker visible at the gate"),
		detection("Vest Visible", true, 0.91, "High-visibility vest on torso"),
		detection("Hard Hat Visible", false, 0.87, "No helmet on the worker's head"))},
	{"l3", 2, 50 * time.Second, processResult("Unit X-99", "Component Installation", 75, nil,
		"Installing circuit board module")},
	{"l4", 0, 2*time.Minute + 8*time.Second, quantifierResult("ATTENTION_NEEDED",
		section("Top Rack", 4, 50, "LOW"),
		section("Mid Rack", 30, 30, "OK"),
		section("Bottom Rack", 10, 10, "OK"))},
	{"l5", 2, 2*time.Minute + 35*time.Second, processResult("Unit X-99", "Chassis Prep", 40, nil,
		"Cleaning surface for bonding")},
}

// Seed loads the demo monitors and logs, with log timestamps relative to
// the store's clock.
func Seed(s *Store) {
	monitors := DemoMonitors()

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.monitors = append(s.monitors, monitors...)
	for _, d := range demoLogs {
		m := monitors[d.monitor]
		raw, _ := json.Marshal(d.result)
		entry := domain.NewLogEntry(d.id, m.ID, m.Name, m.Type, now.Add(-d.ago), string(raw))
		s.logs = append(s.logs, entry)
	}
	for i := range s.monitors {
		s.monitors[i].LastUpdate = isoformat(now)
	}
}
