package api

import (
	"context"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/camai/camai/internal/errors"
)

// BridgePath returns the download path of a monitor's bridge script.
func BridgePath(id string) string {
	return monitorPath(id) + "/download-bridge"
}

// DownloadBridge saves monitor id's bridge script into dir and returns the
// written path. The filename comes from Content-Disposition.
func (c *Client) DownloadBridge(ctx context.Context, id, dir string) (string, error) {
	resp, err := c.do(ctx, http.MethodGet, BridgePath(id), nil)
	if err != nil {
		return "", err
	}

	name := bridgeFilename(resp.Header().Get("Content-Disposition"), id)
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("Can't create %s", dir),
			"Pick a writable directory with --output or bridge.dir")
	}

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, resp.Body(), 0o755); err != nil {
		return "", errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("Can't write %s", path),
			"Pick a writable directory with --output or bridge.dir")
	}
	return path, nil
}

// bridgeFilename extracts a safe filename from a Content-Disposition value.
func bridgeFilename(disposition, id string) string {
	fallback := filepath.Base("bridge_" + id + ".py")
	if disposition == "" {
		return fallback
	}
	_, params, err := mime.ParseMediaType(disposition)
	if err != nil {
		return fallback
	}
	name := filepath.Base(strings.TrimSpace(params["filename"]))
	if name == "" || name == "." || name == string(filepath.Separator) {
		return fallback
	}
	return name
}
