package domain

import (
	"encoding/json"
	"strings"
	"time"
)

// LogEntry is one recorded evaluation of a monitor. Entries are immutable
// once the backend writes them.
type LogEntry struct {
	ID          string      `json:"id"`
	MonitorID   string      `json:"monitor_id"`
	MonitorName string      `json:"monitor_name"`
	Type        MonitorType `json:"type"`
	ImageURL    string      `json:"image_url,omitempty"`
	Result      Result      `json:"result"`

	// Timestamp is the parsed form of RawTimestamp; zero when unparseable.
	Timestamp    time.Time `json:"-"`
	RawTimestamp string    `json:"timestamp"`
}

// UnmarshalJSON decodes the entry and its type-dependent result. A
// malformed result or timestamp never fails the decode.
func (l *LogEntry) UnmarshalJSON(data []byte) error {
	type alias LogEntry
	var aux struct {
		alias
		Result json.RawMessage `json:"result"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*l = LogEntry(aux.alias)
	l.Result = DecodeResult(l.Type, aux.Result)
	l.Timestamp, _ = ParseTimestamp(l.RawTimestamp)
	return nil
}

// HasTimestamp reports whether the entry's timestamp parsed.
func (l LogEntry) HasTimestamp() bool {
	return !l.Timestamp.IsZero()
}

// IsAlert applies the alert predicate to the entry's result.
func (l LogEntry) IsAlert() bool {
	return l.Result.IsAlert()
}

// DisplayType returns the declared type, falling back to the inferred one.
func (l LogEntry) DisplayType() MonitorType {
	if l.Type.Valid() {
		return l.Type
	}
	return l.Result.Kind
}

// timestampLayouts are tried in order. The backend writes Python
// isoformat() in local time without an offset.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
}

// ParseTimestamp parses the ISO-8601 variants the backend emits. Values
// without an offset are read in local time.
func ParseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// NewLogEntry builds an entry from a JSON result payload, formatting the
// timestamp the way the backend does.
func NewLogEntry(id, monitorID, monitorName string, typ MonitorType, ts time.Time, result string) LogEntry {
	raw := ts.In(time.Local).Format("2006-01-02T15:04:05.000000")
	return LogEntry{
		ID:           id,
		MonitorID:    monitorID,
		MonitorName:  monitorName,
		Type:         typ,
		Result:       DecodeResult(typ, json.RawMessage(result)),
		Timestamp:    mustParse(raw),
		RawTimestamp: raw,
	}
}

func mustParse(s string) time.Time {
	t, _ := ParseTimestamp(s)
	return t
}
