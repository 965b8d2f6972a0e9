// Package stats derives the dashboard's summary numbers from monitors and
// logs. Every function is pure: callers pass "now" explicitly.
package stats

import (
	"fmt"
	"time"

	"github.com/camai/camai/internal/domain"
)

// HourBucket is one bar of the hourly alert histogram.
type HourBucket struct {
	Label string `json:"label"`
	Hour  int    `json:"hour"`
	Count int    `json:"count"`
}

// AlertsInWindow counts alerting logs whose timestamp falls between
// now-window and now, both ends inclusive. Logs with no parseable timestamp
// or with a timestamp after now are never counted.
func AlertsInWindow(logs []domain.LogEntry, now time.Time, window time.Duration) int {
	start := now.Add(-window)
	count := 0
	for _, l := range logs {
		if !l.HasTimestamp() {
			continue
		}
		if l.Timestamp.Before(start) || l.Timestamp.After(now) {
			continue
		}
		if l.IsAlert() {
			count++
		}
	}
	return count
}

// HourlyAlertHistogram returns hourCount buckets ending at now's hour,
// oldest first. Buckets are keyed by hour-of-day only, so an alert from the
// same hour on an earlier day lands in that bucket too.
func HourlyAlertHistogram(logs []domain.LogEntry, now time.Time, hourCount int) []HourBucket {
	if hourCount <= 0 {
		return []HourBucket{}
	}

	buckets := make([]HourBucket, hourCount)
	index := make(map[int]int, hourCount)
	for i := 0; i < hourCount; i++ {
		h := now.Add(-time.Duration(hourCount-1-i) * time.Hour).Hour()
		buckets[i] = HourBucket{Label: fmt.Sprintf("%d:00", h), Hour: h}
		// More than 24 buckets would repeat an hour; the newest keeps it.
		index[h] = i
	}

	loc := now.Location()
	for _, l := range logs {
		if !l.HasTimestamp() || !l.IsAlert() {
			continue
		}
		if i, ok := index[l.Timestamp.In(loc).Hour()]; ok {
			buckets[i].Count++
		}
	}
	return buckets
}

// Options tunes Summarize.
type Options struct {
	Window         time.Duration
	HistogramHours int
	RecentLogs     int
}

// DefaultOptions mirrors the dashboard defaults: 24h alerts, 5 hour chart,
// 5 latest logs.
func DefaultOptions() Options {
	return Options{
		Window:         24 * time.Hour,
		HistogramHours: 5,
		RecentLogs:     5,
	}
}

// Summary is everything the Dashboard tab and `camai stats` display.
type Summary struct {
	GeneratedAt    time.Time                    `json:"generated_at"`
	Window         time.Duration                `json:"-"`
	WindowLabel    string                       `json:"window"`
	AlertsInWindow int                          `json:"alerts_in_window"`
	ActiveMonitors int                          `json:"active_monitors"`
	ByStatus       map[domain.MonitorStatus]int `json:"by_status"`
	ByType         map[domain.MonitorType]int   `json:"by_type"`
	TotalLogs      int                          `json:"total_logs"`
	Histogram      []HourBucket                 `json:"histogram"`
	Recent         []domain.LogEntry            `json:"recent"`
}

// Summarize computes the dashboard summary. Recent holds the first
// opts.RecentLogs entries as given; the backend returns logs newest first.
func Summarize(monitors []domain.Monitor, logs []domain.LogEntry, now time.Time, opts Options) Summary {
	s := Summary{
		GeneratedAt:    now,
		Window:         opts.Window,
		WindowLabel:    formatWindow(opts.Window),
		AlertsInWindow: AlertsInWindow(logs, now, opts.Window),
		ActiveMonitors: len(monitors),
		ByStatus:       make(map[domain.MonitorStatus]int),
		ByType:         make(map[domain.MonitorType]int),
		TotalLogs:      len(logs),
		Histogram:      HourlyAlertHistogram(logs, now, opts.HistogramHours),
	}

	for _, m := range monitors {
		s.ByStatus[m.Status]++
		s.ByType[m.Type]++
	}

	n := opts.RecentLogs
	if n < 0 {
		n = 0
	}
	if n > len(logs) {
		n = len(logs)
	}
	s.Recent = make([]domain.LogEntry, n)
	copy(s.Recent, logs[:n])

	return s
}

// MaxCount returns the tallest histogram bar.
func MaxCount(buckets []HourBucket) int {
	highest := 0
	for _, b := range buckets {
		if b.Count > highest {
			highest = b.Count
		}
	}
	return highest
}

// Total sums the histogram.
func Total(buckets []HourBucket) int {
	total := 0
	for _, b := range buckets {
		total += b.Count
	}
	return total
}

func formatWindow(d time.Duration) string {
	if d > 0 && d%time.Hour == 0 {
		return fmt.Sprintf("%dh", int(d/time.Hour))
	}
	return d.String()
}
