package mockserver

import (
	"encoding/json"
	"strings"

	"github.com/camai/camai/internal/domain"
)

func section(id string, current, ideal float64, status string) domain.Section {
	return domain.Section{
		SectionID:       id,
		DetectedContent: "cardboard boxes",
		Strategy:        "COUNT",
		IdealValue:      ideal,
		CurrentValue:    current,
		Unit:            "units",
		Status:          status,
	}
}

func quantifierResult(overall string, sections ...domain.Section) domain.QuantifierResult {
	return domain.QuantifierResult{
		Class:         string(domain.TypeQuantifier),
		OverallStatus: overall,
		Sections:      sections,
	}
}

func detection(rule string, ok bool, confidence float64, evidence string) domain.Detection {
	return domain.Detection{RuleChecked: rule, IsCompliant: ok, Confidence: confidence, Evidence: evidence}
}

func detectorResult(status string, detections ...domain.Detection) domain.DetectorResult {
	return domain.DetectorResult{
		Class:            string(domain.TypeDetector),
		ComplianceStatus: status,
		Detections:       detections,
	}
}

func processResult(name, stage string, progress float64, anomalies []string, reasoning string) domain.ProcessResult {
	if anomalies == nil {
		anomalies = []string{}
	}
	return domain.ProcessResult{
		Class:              domain.ProcessClassLabel,
		ProcessName:        name,
		CurrentStage:       stage,
		ProgressPercentage: progress,
		AnomaliesDetected:  anomalies,
		VisualReasoning:    reasoning,
	}
}

// CannedResult is the analysis the mock returns for a scan. Rules that
// mention "alert" or "fail" produce an alerting result so both paths of
// the console can be exercised.
func CannedResult(kind domain.MonitorType, rule string) json.RawMessage {
	lower := strings.ToLower(rule)
	alert := strings.Contains(lower, "alert") || strings.Contains(lower, "fail")

	var v interface{}
	switch kind {
	case domain.TypeDetector:
		status, ok := domain.CompliancePass, true
		if alert {
			status, ok = domain.ComplianceFail, false
		}
		v = detectorResult(status, detection(firstLine(rule), ok, 0.9, "Simulated detection"))
	case domain.TypeProcess:
		var anomalies []string
		if alert {
			anomalies = []string{"Simulated anomaly"}
		}
		v = processResult("Simulated process", "Inspection", 60, anomalies, "Simulated reasoning")
	default:
		overall, status, current := domain.OverallOK, "OK", 50.0
		if alert {
			overall, status, current = domain.OverallAttention, "LOW", 12
		}
		v = quantifierResult(overall, section("Section 1", current, 50, status))
	}

	raw, _ := json.Marshal(v)
	return raw
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	if s == "" {
		return "Rule"
	}
	return s
}
