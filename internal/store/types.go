// Package store provides SQLite persistence for behaviorwatch reports,
// metric history, baselines and suggestions.
package store

import (
	"time"

	"github.com/blackwell-systems/behaviorwatch/internal/analyzer"
)

// Report kinds.
const (
	KindFinalize  = "finalize"
	KindRecompute = "recompute"
)

// ReportRecord is a stored engine report plus the context it was computed in.
type ReportRecord struct {
	ID         int64            `json:"id"`
	SessionID  string           `json:"session_id"`
	Kind       string           `json:"kind"`
	ComputedAt time.Time        `json:"computed_at"`
	RangeStart time.Time        `json:"range_start"`
	RangeEnd   time.Time        `json:"range_end"`
	DurationMs int64            `json:"duration_ms"`
	EventCount int              `json:"event_count"`
	Version    string           `json:"version"`
	Report     *analyzer.Report `json:"report"`
}

// MetricRow is a generic metric name-value pair used in queries.
type MetricRow struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// MetricPoint is one value of a metric in its report's context.
type MetricPoint struct {
	ReportID   int64     `json:"report_id"`
	SessionID  string    `json:"session_id"`
	ComputedAt time.Time `json:"computed_at"`
	Value      float64   `json:"value"`
}

// BaselineRecord is a saved baseline.Processor state.
type BaselineRecord struct {
	ID        int64     `json:"id"`
	Window    int       `json:"window"`
	Data      []byte    `json:"data"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Suggestion is a stored recommendation tied to the report that raised it.
type Suggestion struct {
	ID          int64   `json:"id"`
	ReportID    int64   `json:"report_id"`
	Category    string  `json:"category"`
	Priority    int     `json:"priority"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	ImpactScore float64 `json:"impact_score"`
	Status      string  `json:"status"`
}

// ReportDiff represents the comparison between two reports.
type ReportDiff struct {
	Previous *ReportRecord `json:"previous"`
	Current  *ReportRecord `json:"current"`
	Deltas   []MetricDelta `json:"deltas"`
}

// MetricDelta represents the change in a single metric between reports.
type MetricDelta struct {
	Name      string  `json:"name"`
	Previous  float64 `json:"previous"`
	Current   float64 `json:"current"`
	Delta     float64 `json:"delta"`
	Direction string  `json:"direction"` // "improved", "regressed", "unchanged"
}

// NewReportRecord describes a report computed over [start, end] of a session.
func NewReportRecord(kind, sessionID string, start, end time.Time, eventCount int, r *analyzer.Report) *ReportRecord {
	return &ReportRecord{
		SessionID:  sessionID,
		Kind:       kind,
		RangeStart: start,
		RangeEnd:   end,
		DurationMs: end.UnixMilli() - start.UnixMilli(),
		EventCount: eventCount,
		Report:     r,
	}
}
