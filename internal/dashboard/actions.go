package dashboard

import (
	"context"
	"strings"

	"github.com/camai/camai/internal/api"
	"github.com/camai/camai/internal/domain"
)

// Scanner runs one-off rule tests.
type Scanner interface {
	TriggerScan(ctx context.Context, req api.ScanRequest) (domain.Result, error)
}

// Triggerer runs a monitor once.
type Triggerer interface {
	TriggerMonitor(ctx context.Context, id string, image *api.Upload) (api.TriggerResponse, error)
}

// RunScan opens the images named in d and submits the test scan. The mode
// is returned even when the scan fails so callers can label the error.
func RunScan(ctx context.Context, client Scanner, d ScanFormData) (domain.MonitorType, domain.Result, error) {
	mode, err := domain.ParseMonitorType(d.Mode)
	if err != nil {
		return "", domain.Result{}, err
	}
	img, f, err := api.OpenUpload(strings.TrimSpace(d.Image))
	if err != nil {
		return mode, domain.Result{}, err
	}
	defer f.Close()

	req := api.ScanRequest{Mode: mode, Rule: d.Rule, Image: img}
	if path := strings.TrimSpace(d.IdealImage); path != "" {
		ideal, g, err := api.OpenUpload(path)
		if err != nil {
			return mode, domain.Result{}, err
		}
		defer g.Close()
		req.IdealImage = ideal
	}

	result, err := client.TriggerScan(ctx, req)
	return mode, result, err
}

// RunTrigger triggers monitor id, uploading imagePath when it is set.
func RunTrigger(ctx context.Context, client Triggerer, id, imagePath string) (api.TriggerResponse, error) {
	var image *api.Upload
	if path := strings.TrimSpace(imagePath); path != "" {
		up, f, err := api.OpenUpload(path)
		if err != nil {
			return api.TriggerResponse{}, err
		}
		defer f.Close()
		image = up
	}
	return client.TriggerMonitor(ctx, id, image)
}
