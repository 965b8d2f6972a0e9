package doctor

import (
	"context"
	"fmt"
	"time"

	"github.com/camai/camai/internal/domain"
	"github.com/camai/camai/internal/errors"
	"github.com/camai/camai/internal/util"
)

// Backend is the part of the API client the backend checks need.
type Backend interface {
	Ping(ctx context.Context) error
	ListMonitors(ctx context.Context) ([]domain.Monitor, error)
	ListLogs(ctx context.Context) ([]domain.LogEntry, error)
	BaseURL() string
}

const defaultCheckTimeout = 5 * time.Second

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		d = defaultCheckTimeout
	}
	return context.WithTimeout(ctx, d)
}

// BackendHealthCheck calls GET / and expects the health banner.
type BackendHealthCheck struct {
	Client  Backend
	Timeout time.Duration
}

func (c *BackendHealthCheck) Name() string     { return "backend_health" }
func (c *BackendHealthCheck) Category() string { return CategoryBackend }

func (c *BackendHealthCheck) Run(ctx context.Context) CheckResult {
	ctx, cancel := withTimeout(ctx, c.Timeout)
	defer cancel()

	start := time.Now()
	if err := c.Client.Ping(ctx); err != nil {
		suggestion := "Start the backend, or run 'camai mock-backend' for a local stand-in"
		if errors.IsCode(err, errors.ErrHTTP) || errors.IsCode(err, errors.ErrDecode) {
			suggestion = "Check api.base_url points at the Camai backend and not another service"
		}
		return CheckResult{
			Status:     StatusFail,
			Message:    fmt.Sprintf("Backend at %s is not responding: %s", c.Client.BaseURL(), errors.Summary(err)),
			Suggestion: suggestion,
		}
	}

	return CheckResult{
		Status:  StatusPass,
		Message: fmt.Sprintf("Backend online at %s (%s)", c.Client.BaseURL(), time.Since(start).Round(time.Millisecond)),
	}
}

func (c *BackendHealthCheck) Fix() error { return nil }

// BackendDataCheck fetches monitors and logs to prove both decode.
type BackendDataCheck struct {
	Client  Backend
	Timeout time.Duration
}

func (c *BackendDataCheck) Name() string     { return "backend_data" }
func (c *BackendDataCheck) Category() string { return CategoryBackend }

func (c *BackendDataCheck) Run(ctx context.Context) CheckResult {
	ctx, cancel := withTimeout(ctx, c.Timeout)
	defer cancel()

	monitors, err := c.Client.ListMonitors(ctx)
	if err != nil {
		return dataFailure("monitors", err)
	}
	logs, err := c.Client.ListLogs(ctx)
	if err != nil {
		return dataFailure("logs", err)
	}

	undated := 0
	for _, l := range logs {
		if !l.HasTimestamp() {
			undated++
		}
	}

	msg := util.Count(len(monitors), "monitor", "monitors") + ", " + util.Count(len(logs), "log entry", "log entries")
	if undated > 0 {
		return CheckResult{
			Status:     StatusWarn,
			Message:    fmt.Sprintf("%s (%d with unreadable timestamps)", msg, undated),
			Suggestion: "Entries without a timestamp are left out of alert counts and the hourly chart",
		}
	}
	return CheckResult{Status: StatusPass, Message: msg}
}

func (c *BackendDataCheck) Fix() error { return nil }

func dataFailure(what string, err error) CheckResult {
	suggestion := "Check the backend log for the failing request"
	if errors.IsCode(err, errors.ErrDecode) {
		suggestion = "The backend answered with unexpected JSON; check it matches this console's version"
	}
	return CheckResult{
		Status:     StatusFail,
		Message:    fmt.Sprintf("Could not list %s: %s", what, errors.Summary(err)),
		Suggestion: suggestion,
	}
}
