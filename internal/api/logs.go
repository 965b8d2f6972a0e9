package api

import (
	"context"

	"github.com/camai/camai/internal/domain"
)

// ListLogs returns the backend's log feed, newest first. Entries with a
// malformed result or timestamp are kept; see domain.LogEntry.
func (c *Client) ListLogs(ctx context.Context) ([]domain.LogEntry, error) {
	var logs []domain.LogEntry
	if err := c.getJSON(ctx, "/logs", &logs); err != nil {
		return nil, err
	}
	if logs == nil {
		logs = []domain.LogEntry{}
	}
	return logs, nil
}
