package api

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"

	"github.com/camai/camai/internal/domain"
	"github.com/camai/camai/internal/errors"
)

// ScanRequest is a one-off rule test against an uploaded image.
type ScanRequest struct {
	Mode       domain.MonitorType
	Rule       string
	Image      *Upload
	IdealImage *Upload // optional reference image, QUANTIFIER only
}

// TriggerScan posts the request to /trigger-scan and returns the analysis.
// A backend {"error": ...} reply becomes an ErrScan error carrying that text.
func (c *Client) TriggerScan(ctx context.Context, req ScanRequest) (domain.Result, error) {
	if req.Image == nil || req.Image.Reader == nil {
		return domain.Result{}, errors.New(errors.ErrValidation,
			"A test image is required",
			"Pass --image with the path to a camera snapshot")
	}

	f := newForm()
	f.field("mode", string(req.Mode))
	f.field("rule", req.Rule)
	f.file("image", req.Image)
	f.file("ideal_image", req.IdealImage)

	var raw json.RawMessage
	if err := c.send(ctx, http.MethodPost, "/trigger-scan", f.apply, &raw); err != nil {
		return domain.Result{}, asScanErr(err, "Test scan failed")
	}
	if msg := embeddedError(raw); msg != "" {
		return domain.Result{}, scanErr(msg, "Test scan failed")
	}
	return domain.DecodeResult(req.Mode, raw), nil
}

// TriggerResponse is the reply to an external trigger.
type TriggerResponse struct {
	Success bool          `json:"success"`
	Message string        `json:"message"`
	Result  domain.Result `json:"result"`
	LogID   string        `json:"log_id"`
}

// UnmarshalJSON decodes the result payload, inferring its kind.
func (t *TriggerResponse) UnmarshalJSON(data []byte) error {
	var aux struct {
		Success bool            `json:"success"`
		Message string          `json:"message"`
		Result  json.RawMessage `json:"result"`
		LogID   string          `json:"log_id"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	t.Success = aux.Success
	t.Message = aux.Message
	t.LogID = aux.LogID
	t.Result = domain.DecodeResult("", aux.Result)
	return nil
}

// TriggerMonitor runs monitor id once. With a nil image the backend grabs a
// frame from the monitor's configured camera.
func (c *Client) TriggerMonitor(ctx context.Context, id string, image *Upload) (TriggerResponse, error) {
	f := newForm()
	f.file("image", image)

	var resp TriggerResponse
	if err := c.send(ctx, http.MethodPost, monitorPath(id)+"/trigger", f.apply, &resp); err != nil {
		return TriggerResponse{}, asScanErr(err, fmt.Sprintf("Trigger for monitor %s failed", id))
	}
	return resp, nil
}

// asScanErr recodes an HTTP failure that carried a backend {error} message.
func asScanErr(err error, message string) error {
	var se *StatusError
	if stderrors.As(err, &se) && se.Message != "" {
		return errors.WrapWithCode(se, errors.ErrScan, message, scanSuggestion)
	}
	return err
}

func scanErr(msg, message string) error {
	return errors.WrapWithCode(stderrors.New(msg), errors.ErrScan, message, scanSuggestion)
}

const scanSuggestion = "Check the image and rule, then try again. The backend log has the full trace"

func embeddedError(raw json.RawMessage) string {
	var eb errorBody
	if json.Unmarshal(raw, &eb) != nil {
		return ""
	}
	return eb.Error
}
