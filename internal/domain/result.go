package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Result is the analysis payload attached to a log entry or returned by a
// scan. It is a tagged union keyed by Kind: exactly one of Quantifier,
// Detector or Process is set when the payload decoded cleanly. Raw always
// holds the original JSON so malformed payloads can still be shown.
type Result struct {
	Kind       MonitorType
	Quantifier *QuantifierResult
	Detector   *DetectorResult
	Process    *ProcessResult
	Raw        json.RawMessage

	// DecodeErr is set when Raw did not match the Kind's schema.
	DecodeErr error

	signals alertSignals
}

// QuantifierResult counts or estimates stock per section.
type QuantifierResult struct {
	Class         string    `json:"class"`
	Timestamp     string    `json:"timestamp"`
	OverallStatus string    `json:"overall_status"`
	Sections      []Section `json:"sections"`
}

// Section is one shelf compartment or spatial region.
type Section struct {
	SectionID       string  `json:"section_id"`
	DetectedContent string  `json:"detected_content"`
	Strategy        string  `json:"strategy"`
	IdealValue      float64 `json:"ideal_value"`
	CurrentValue    float64 `json:"current_value"`
	Unit            string  `json:"unit"`
	Status          string  `json:"status"`
}

// DetectorResult is a pass/fail compliance check.
type DetectorResult struct {
	Class            string      `json:"class"`
	Timestamp        string      `json:"timestamp"`
	ComplianceStatus string      `json:"compliance_status"`
	Detections       []Detection `json:"detections"`
}

// Detection is one rule evaluated against the image.
type Detection struct {
	RuleChecked string  `json:"rule_checked"`
	IsCompliant bool    `json:"is_compliant"`
	Confidence  float64 `json:"confidence"`
	Evidence    string  `json:"evidence"`
}

// ProcessResult tracks progress through a multi-stage process.
type ProcessResult struct {
	Class              string   `json:"class"`
	ProcessName        string   `json:"process_name"`
	CurrentStage       string   `json:"current_stage"`
	ProgressPercentage float64  `json:"progress_percentage"`
	AnomaliesDetected  []string `json:"anomalies_detected"`
	VisualReasoning    string   `json:"visual_reasoning"`
}

// Status values that carry alert meaning.
const (
	OverallOK         = "OK"
	OverallAttention  = "ATTENTION_NEEDED"
	CompliancePass    = "PASS"
	ComplianceFail    = "FAIL"
	ProcessClassLabel = "PROCESS_MONITOR"
)

// alertSignals are the three fields the alert predicate reads. They are
// extracted from Raw independently of Kind so the predicate stays total.
type alertSignals struct {
	hasOverall    bool
	overallStatus string
	compliance    string
	anomalies     int
}

// DecodeResult builds a Result from a raw payload. It never fails: schema
// mismatches are recorded in DecodeErr and only disable the typed view.
// An unknown kind is inferred from the payload shape.
func DecodeResult(kind MonitorType, raw json.RawMessage) Result {
	r := Result{Kind: kind, Raw: raw}
	if isNull(raw) {
		return r
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		r.DecodeErr = fmt.Errorf("result is not a JSON object: %w", err)
		return r
	}
	r.signals = extractSignals(fields)

	if !r.Kind.Valid() {
		r.Kind = inferKind(fields)
	}

	switch r.Kind {
	case TypeQuantifier:
		var q QuantifierResult
		if err := json.Unmarshal(raw, &q); err != nil {
			r.DecodeErr = err
		} else {
			r.Quantifier = &q
		}
	case TypeDetector:
		var d DetectorResult
		if err := json.Unmarshal(raw, &d); err != nil {
			r.DecodeErr = err
		} else {
			r.Detector = &d
		}
	case TypeProcess:
		var p ProcessResult
		if err := json.Unmarshal(raw, &p); err != nil {
			r.DecodeErr = err
		} else {
			r.Process = &p
		}
	default:
		r.DecodeErr = fmt.Errorf("cannot tell which monitor type produced this result")
	}
	return r
}

// IsAlert reports whether the result needs operator attention: a present
// overall_status other than OK, a FAIL compliance status, or a non-empty
// anomalies list. Missing or malformed fields never count.
func (r Result) IsAlert() bool {
	s := r.signals
	return (s.hasOverall && s.overallStatus != OverallOK) ||
		s.compliance == ComplianceFail ||
		s.anomalies > 0
}

// Headline returns the status word shown next to a result: the overall or
// compliance status, or the progress percentage for processes.
func (r Result) Headline() string {
	switch {
	case r.Quantifier != nil:
		return r.Quantifier.OverallStatus
	case r.Detector != nil:
		return r.Detector.ComplianceStatus
	case r.Process != nil:
		return fmt.Sprintf("%s %.0f%%", r.Process.CurrentStage, r.Process.ProgressPercentage)
	case r.signals.hasOverall:
		return r.signals.overallStatus
	case r.signals.compliance != "":
		return r.signals.compliance
	default:
		return "UNKNOWN"
	}
}

// Empty reports whether the result carried no payload at all.
func (r Result) Empty() bool {
	return isNull(r.Raw)
}

// PrettyRaw returns the raw payload indented for display.
func (r Result) PrettyRaw() string {
	if isNull(r.Raw) {
		return "{}"
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, r.Raw, "", "  "); err != nil {
		return string(r.Raw)
	}
	return buf.String()
}

// MarshalJSON emits the raw payload unchanged.
func (r Result) MarshalJSON() ([]byte, error) {
	if isNull(r.Raw) {
		return []byte("null"), nil
	}
	return r.Raw, nil
}

func extractSignals(fields map[string]json.RawMessage) alertSignals {
	var s alertSignals
	if raw, ok := fields["overall_status"]; ok && !isNull(raw) {
		var v string
		if json.Unmarshal(raw, &v) == nil {
			s.hasOverall = true
			s.overallStatus = v
		}
	}
	if raw, ok := fields["compliance_status"]; ok {
		var v string
		if json.Unmarshal(raw, &v) == nil {
			s.compliance = v
		}
	}
	if raw, ok := fields["anomalies_detected"]; ok {
		var v []json.RawMessage
		if json.Unmarshal(raw, &v) == nil {
			s.anomalies = len(v)
		}
	}
	return s
}

func inferKind(fields map[string]json.RawMessage) MonitorType {
	var class string
	if raw, ok := fields["class"]; ok {
		_ = json.Unmarshal(raw, &class)
	}
	switch class {
	case string(TypeQuantifier):
		return TypeQuantifier
	case string(TypeDetector):
		return TypeDetector
	case string(TypeProcess), ProcessClassLabel:
		return TypeProcess
	}
	if _, ok := fields["sections"]; ok {
		return TypeQuantifier
	}
	if _, ok := fields["detections"]; ok {
		return TypeDetector
	}
	if _, ok := fields["progress_percentage"]; ok {
		return TypeProcess
	}
	return ""
}

func isNull(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}
