// Package api is the HTTP client for the Camai backend REST surface:
// monitor CRUD, the log feed, trigger scans, external triggers and bridge
// script downloads.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/camai/camai/internal/errors"
	"github.com/camai/camai/internal/logger"
)

// DefaultTimeout bounds a single request when no timeout option is given.
const DefaultTimeout = 30 * time.Second

// maxErrorBody caps how much of a failed response is kept for messages.
const maxErrorBody = 4 << 10

// HealthBanner is the body the backend answers GET / with.
const HealthBanner = "Camai Backend is Running"

// Client talks to one backend. It is safe for concurrent use.
type Client struct {
	baseURL string
	rest    *resty.Client
	log     logger.Logger
}

type settings struct {
	httpClient *http.Client
	timeout    time.Duration
	log        logger.Logger
}

// Option configures a Client.
type Option func(*settings)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(s *settings) {
		if hc != nil {
			s.httpClient = hc
		}
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(s *settings) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l logger.Logger) Option {
	return func(s *settings) {
		if l != nil {
			s.log = l
		}
	}
}

// NewClient returns a client for the backend at baseURL. Requests are never
// retried.
func NewClient(baseURL string, opts ...Option) *Client {
	s := settings{log: logger.Noop()}
	for _, opt := range opts {
		opt(&s)
	}

	var rc *resty.Client
	if s.httpClient != nil {
		rc = resty.NewWithClient(s.httpClient)
	} else {
		rc = resty.New()
		if s.timeout == 0 {
			s.timeout = DefaultTimeout
		}
	}
	if s.timeout > 0 {
		rc.SetTimeout(s.timeout)
	}

	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	rc.SetBaseURL(base).
		SetHeader("Accept", "application/json").
		SetLogger(restyLogger{s.log})

	return &Client{baseURL: base, rest: rc, log: s.log}
}

// BaseURL returns the normalized backend address.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// URL joins path onto the base URL.
func (c *Client) URL(path string) string {
	return c.baseURL + path
}

// StatusError is the cause attached to ErrHTTP and ErrScan errors when the
// backend answered with a non-success status.
type StatusError struct {
	StatusCode int
	Message    string // the backend's {"error": ...} value, if any
	Body       string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
	}
	if e.Body != "" {
		return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Body)
	}
	return fmt.Sprintf("HTTP %d", e.StatusCode)
}

// errorBody is the shape of every failure response the backend writes.
type errorBody struct {
	Error string `json:"error"`
}

// Ping checks GET / and reports whether the backend identified itself.
func (c *Client) Ping(ctx context.Context) error {
	resp, err := c.do(ctx, http.MethodGet, "/", nil)
	if err != nil {
		return err
	}
	if !strings.Contains(resp.String(), HealthBanner) {
		return errors.New(errors.ErrDecode,
			fmt.Sprintf("%s answered, but it does not look like a Camai backend", c.baseURL),
			"Check that api.base_url points at the Camai backend")
	}
	return nil
}

// do sends one request and turns transport failures and non-2xx statuses
// into structured errors. prepare may add a body to the request.
func (c *Client) do(ctx context.Context, method, path string, prepare func(*resty.Request)) (*resty.Response, error) {
	req := c.rest.R().SetContext(ctx)
	if prepare != nil {
		prepare(req)
	}

	start := time.Now()
	resp, err := req.Execute(method, path)
	if err != nil {
		c.log.Debug("%s %s failed after %s: %v", method, path, time.Since(start), err)
		return nil, errors.WrapWithCode(err, errors.ErrAPI,
			fmt.Sprintf("Can't reach the Camai backend at %s", c.baseURL),
			"Is the backend running? Check api.base_url or run: camai doctor")
	}
	c.log.Debug("%s %s -> %d in %s", method, path, resp.StatusCode(), time.Since(start))

	if !resp.IsSuccess() {
		return nil, c.statusErr(method, path, resp)
	}
	return resp, nil
}

func (c *Client) statusErr(method, path string, resp *resty.Response) error {
	raw := resp.Body()
	if len(raw) > maxErrorBody {
		raw = raw[:maxErrorBody]
	}
	se := &StatusError{StatusCode: resp.StatusCode(), Body: strings.TrimSpace(string(raw))}

	var eb errorBody
	if json.Unmarshal(raw, &eb) == nil {
		se.Message = eb.Error
	}

	suggestion := "Check the backend logs for details"
	if resp.StatusCode() == http.StatusNotFound {
		suggestion = "The monitor may have been deleted. Refresh the list with: camai monitors list"
	}
	return errors.WrapWithCode(se, errors.ErrHTTP,
		fmt.Sprintf("%s %s was rejected by the backend", method, path),
		suggestion)
}

func (c *Client) decodeErr(err error, path string) error {
	return errors.WrapWithCode(err, errors.ErrDecode,
		fmt.Sprintf("Unexpected response from %s", path),
		"The backend and camai may be out of sync. Check the backend version")
}

// getJSON fetches path and decodes the body into out.
func (c *Client) getJSON(ctx context.Context, path string, out interface{}) error {
	return c.send(ctx, http.MethodGet, path, nil, out)
}

// send issues method on path and decodes the response into out. out may be
// nil when the response body is ignored.
func (c *Client) send(ctx context.Context, method, path string, prepare func(*resty.Request), out interface{}) error {
	resp, err := c.do(ctx, method, path, prepare)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return c.decodeErr(err, path)
	}
	return nil
}

// restyLogger routes resty's own warnings into the camai logger.
type restyLogger struct {
	l logger.Logger
}

func (r restyLogger) Errorf(format string, v ...interface{}) { r.l.Error(format, v...) }
func (r restyLogger) Warnf(format string, v ...interface{})  { r.l.Warn(format, v...) }
func (r restyLogger) Debugf(format string, v ...interface{}) { r.l.Debug(format, v...) }
