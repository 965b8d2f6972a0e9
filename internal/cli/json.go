package cli

import (
	"encoding/json"
	"io"
	"strings"

	"github.com/camai/camai/internal/errors"
)

// Machine mode flag - when true, outputs JSON and suppresses human-friendly decorations
var machineMode bool

// MachineMode returns true if machine-readable output is enabled
func MachineMode() bool {
	return machineMode
}

// JSONEnvelope wraps command output in a consistent structure for machine parsing.
// All --json output should use this envelope.
type JSONEnvelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *JSONError  `json:"error,omitempty"`
}

// JSONError provides structured error information for machine parsing.
type JSONError struct {
	Code       string      `json:"code"`
	Message    string      `json:"message"`
	Suggestion string      `json:"suggestion,omitempty"`
	Details    interface{} `json:"details,omitempty"`
}

// Error codes for machine-readable output.
// Scripts branch on these rather than on message text.
const (
	ErrCodeBackendUnreachable = "BACKEND_UNREACHABLE"
	ErrCodeHTTP               = "HTTP_ERROR"
	ErrCodeDecode             = "DECODE_ERROR"
	ErrCodeScanFailed         = "SCAN_FAILED"
	ErrCodeConfigNotFound     = "CONFIG_NOT_FOUND"
	ErrCodeConfigInvalid      = "CONFIG_INVALID"
	ErrCodeValidation         = "VALIDATION_FAILED"
	ErrCodeCommandFailed      = "COMMAND_FAILED"
	ErrCodeUnknown            = "UNKNOWN"
)

// WriteJSONSuccess writes a successful response with data to the writer.
func WriteJSONSuccess(w io.Writer, data interface{}) error {
	return writeJSONEnvelope(w, JSONEnvelope{
		Success: true,
		Data:    data,
	})
}

// WriteJSONError writes an error response to the writer.
func WriteJSONError(w io.Writer, code, message, suggestion string, details interface{}) error {
	return writeJSONEnvelope(w, JSONEnvelope{
		Success: false,
		Error: &JSONError{
			Code:       code,
			Message:    message,
			Suggestion: suggestion,
			Details:    details,
		},
	})
}

// WriteJSONFromError converts a Go error to a JSON error response.
func WriteJSONFromError(w io.Writer, err error) error {
	return writeJSONEnvelope(w, JSONEnvelope{
		Success: false,
		Error:   ErrorToJSON(err),
	})
}

// writeJSONEnvelope writes the envelope with consistent formatting.
func writeJSONEnvelope(w io.Writer, env JSONEnvelope) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(env)
}

// ErrorToJSON converts a Go error to a JSONError with appropriate code mapping.
func ErrorToJSON(err error) *JSONError {
	if err == nil {
		return nil
	}

	if cErr, ok := errors.As(err); ok {
		out := &JSONError{
			Code:       mapErrorCode(cErr.Code, cErr.Message),
			Message:    cErr.Message,
			Suggestion: cErr.Suggestion,
		}
		if cErr.Cause != nil {
			out.Details = map[string]interface{}{"cause": cErr.Cause.Error()}
		}
		return out
	}

	// Flag and argument errors come straight from cobra
	if isUsageError(err) {
		return &JSONError{
			Code:       ErrCodeValidation,
			Message:    err.Error(),
			Suggestion: "Run 'camai --help' for usage",
		}
	}

	return &JSONError{
		Code:    ErrCodeUnknown,
		Message: err.Error(),
	}
}

// mapErrorCode maps internal error codes to machine-readable codes.
func mapErrorCode(internalCode, message string) string {
	switch internalCode {
	case errors.ErrAPI:
		return ErrCodeBackendUnreachable
	case errors.ErrHTTP:
		return ErrCodeHTTP
	case errors.ErrDecode:
		return ErrCodeDecode
	case errors.ErrScan:
		return ErrCodeScanFailed
	case errors.ErrConfig:
		// Distinguish between not found and invalid
		msgLower := strings.ToLower(message)
		if strings.Contains(msgLower, "not found") || strings.Contains(msgLower, "couldn't find") {
			return ErrCodeConfigNotFound
		}
		return ErrCodeConfigInvalid
	case errors.ErrValidation:
		return ErrCodeValidation
	case errors.ErrExec:
		return ErrCodeCommandFailed
	}

	return ErrCodeUnknown
}
