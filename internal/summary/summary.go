// Package summary turns a raw daily usage export into the persisted Summary
// record consumed by the dashboard.
package summary

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/fakeyudi/pulse/internal/metrics"
)

// DefaultOutputPath is where the most recent Summary is written, relative to
// the working directory.
const DefaultOutputPath = "data/latest_metrics.json"

// TimestampLayout is the ISO-8601 local-time layout of Summary.Timestamp.
const TimestampLayout = "2006-01-02T15:04:05.000000"

// HoursPerDay is the length of a default hourly distribution.
const HoursPerDay = 24

// RawInput is the usage export produced upstream. Absent or null fields
// decode to their zero values; Normalize fills in the defaults.
type RawInput struct {
	Apps               metrics.UsageRecord `json:"apps"`
	Pickups            float64             `json:"pickups"`
	HourlyDistribution []float64           `json:"hourly_distribution"`
	Flow               []FlowEdge          `json:"flow"`
}

// Normalize replaces missing collections with their defaults: an empty app
// map, 24 zero hours and an empty flow list.
func (r *RawInput) Normalize() {
	if r.Apps == nil {
		r.Apps = metrics.UsageRecord{}
	}
	if r.HourlyDistribution == nil {
		r.HourlyDistribution = make([]float64, HoursPerDay)
	}
	if r.Flow == nil {
		r.Flow = []FlowEdge{}
	}
}

// Summary is the derived daily record. Field order matches the on-disk key order.
type Summary struct {
	Timestamp          string              `json:"timestamp"`
	TotalDurationSec   float64             `json:"total_duration_sec"`
	Pickups            float64             `json:"pickups"`
	Entropy            float64             `json:"entropy"`
	HourlyDistribution []float64           `json:"hourly_distribution"`
	Flow               []FlowEdge          `json:"flow"`
	Apps               metrics.UsageRecord `json:"apps"`
}

// Time parses Timestamp in the local zone.
func (s *Summary) Time() (time.Time, error) {
	return time.ParseInLocation(TimestampLayout, s.Timestamp, time.Local)
}

// FlowEdge is a weighted transition between two apps or contexts. It is
// carried through for visualisation only.
type FlowEdge struct {
	Source string
	Target string
	Value  float64
}

// MarshalJSON encodes the edge as a [source, target, value] triple.
func (e FlowEdge) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{e.Source, e.Target, e.Value})
}

// UnmarshalJSON accepts either a [source, target, value] triple or an
// object with source, target and value keys.
func (e *FlowEdge) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	if len(data) > 0 && data[0] == '{' {
		var obj struct {
			Source string  `json:"source"`
			Target string  `json:"target"`
			Value  float64 `json:"value"`
		}
		if err := json.Unmarshal(data, &obj); err != nil {
			return err
		}
		*e = FlowEdge{Source: obj.Source, Target: obj.Target, Value: obj.Value}
		return nil
	}

	var parts []json.RawMessage
	if err := json.Unmarshal(data, &parts); err != nil {
		return err
	}
	if len(parts) != 3 {
		return fmt.Errorf("flow edge: want 3 elements, got %d", len(parts))
	}
	var edge FlowEdge
	if err := json.Unmarshal(parts[0], &edge.Source); err != nil {
		return fmt.Errorf("flow edge source: %w", err)
	}
	if err := json.Unmarshal(parts[1], &edge.Target); err != nil {
		return fmt.Errorf("flow edge target: %w", err)
	}
	if err := json.Unmarshal(parts[2], &edge.Value); err != nil {
		return fmt.Errorf("flow edge value: %w", err)
	}
	*e = edge
	return nil
}

// FormatDuration renders seconds as "HHh MMm", e.g. 20520 → "05h 42m".
func FormatDuration(seconds float64) string {
	total := int64(seconds)
	if total < 0 {
		total = 0
	}
	return fmt.Sprintf("%02dh %02dm", total/3600, (total%3600)/60)
}
