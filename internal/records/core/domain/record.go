package domain

import (
	"fmt"
	"strings"
	"time"
)

// Categorical attribute names carried by market records.
const (
	AttrChannel      = "channel"
	AttrProcessGroup = "process_group"
	AttrMarketRole   = "market_role"
	AttrErrorType    = "error_type"
	AttrErrorClass   = "error_class"
)

// ValueResponseTimeMS is the numeric value reported by response-time records.
const ValueResponseTimeMS = "response_time_ms"

// PeriodLayout is the layout of a reporting period key ("2024-05").
const PeriodLayout = "2006-01"

// Record is one usage, error or response-time event as delivered by the
// record store. Records are never modified after they are produced.
type Record struct {
	Timestamp  string             `json:"timestamp"` // ISO-8601
	Count      *float64           `json:"count,omitempty"`
	Attributes map[string]string  `json:"attributes,omitempty"` // channel, process_group, market_role, ...
	Values     map[string]float64 `json:"values,omitempty"`     // response_time_ms, ...

	Period    string `json:"period,omitempty"` // "YYYY-MM", set by the store
	DedupeKey string `json:"dedupe_key,omitempty"`
}

// Weight is the amount the record contributes to a total.
func (r Record) Weight() float64 {
	if r.Count == nil {
		return 1
	}
	return *r.Count
}

// Attribute returns the trimmed attribute value; empty values count as missing.
func (r Record) Attribute(name string) (string, bool) {
	v, ok := r.Attributes[name]
	if !ok {
		return "", false
	}
	v = strings.TrimSpace(v)
	if v == "" {
		return "", false
	}
	return v, true
}

// Value returns a numeric value such as the response time.
func (r Record) Value(name string) (float64, bool) {
	v, ok := r.Values[name]
	return v, ok
}

// Time parses the record timestamp, reading values without an offset as UTC.
func (r Record) Time() (time.Time, error) {
	return ParseTimestamp(r.Timestamp)
}

// TimeIn parses the record timestamp, reading values without an offset as
// wall clock time in loc.
func (r Record) TimeIn(loc *time.Location) (time.Time, error) {
	return ParseTimestampIn(r.Timestamp, loc)
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseTimestamp accepts the timestamp shapes found in exported market data.
// Values without an offset are read as UTC.
func ParseTimestamp(s string) (time.Time, error) {
	return ParseTimestampIn(s, time.UTC)
}

// ParseTimestampIn is ParseTimestamp with values that carry no offset read
// in loc. A nil loc means UTC.
func ParseTimestampIn(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse timestamp: %q", s)
}

// PeriodOf returns the reporting period key for t in UTC.
func PeriodOf(t time.Time) string {
	return t.UTC().Format(PeriodLayout)
}
