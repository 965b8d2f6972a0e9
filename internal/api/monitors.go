package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/camai/camai/internal/domain"
)

// ListMonitors returns every monitor the backend knows about.
func (c *Client) ListMonitors(ctx context.Context) ([]domain.Monitor, error) {
	var monitors []domain.Monitor
	if err := c.getJSON(ctx, "/monitors", &monitors); err != nil {
		return nil, err
	}
	if monitors == nil {
		monitors = []domain.Monitor{}
	}
	return monitors, nil
}

// CreateMonitor submits in as a new monitor and returns the backend's
// canonical record. A non-empty IdealImagePath is uploaded as ideal_image.
func (c *Client) CreateMonitor(ctx context.Context, in domain.MonitorInput) (domain.Monitor, error) {
	return c.submitMonitor(ctx, http.MethodPost, "/monitors", in)
}

// UpdateMonitor replaces the fields of monitor id.
func (c *Client) UpdateMonitor(ctx context.Context, id string, in domain.MonitorInput) (domain.Monitor, error) {
	return c.submitMonitor(ctx, http.MethodPut, monitorPath(id), in)
}

// DeleteMonitor removes monitor id. The response body is ignored.
func (c *Client) DeleteMonitor(ctx context.Context, id string) error {
	return c.send(ctx, http.MethodDelete, monitorPath(id), nil, nil)
}

func (c *Client) submitMonitor(ctx context.Context, method, path string, in domain.MonitorInput) (domain.Monitor, error) {
	var ideal *Upload
	if in.IdealImagePath != "" {
		up, f, err := OpenUpload(in.IdealImagePath)
		if err != nil {
			return domain.Monitor{}, err
		}
		defer f.Close()
		ideal = up
	}

	var m domain.Monitor
	if err := c.send(ctx, method, path, monitorForm(in, ideal).apply, &m); err != nil {
		return domain.Monitor{}, err
	}
	return m, nil
}

func monitorPath(id string) string {
	return "/monitors/" + url.PathEscape(id)
}
