package store

import (
	"github.com/blackwell-systems/behaviorwatch/internal/analyzer"
)

// ReportMetrics flattens the scalar values of a report into named metrics,
// in display order.
func ReportMetrics(r *analyzer.Report) []MetricRow {
	b, ty, n := r.Behavioral, r.Typing, r.Notification

	var focusMs int64
	for _, blk := range b.DeepFocusBlocks {
		focusMs += blk.DurationMs
	}

	return []MetricRow{
		{"behavioral_distraction_score", b.DistractionScore},
		{"focus_hint", b.FocusHint},
		{"interaction_intensity", b.InteractionIntensity},
		{"task_switch_rate", b.TaskSwitchRate},
		{"task_switch_cost", b.TaskSwitchCost},
		{"idle_time_ratio", b.IdleTimeRatio},
		{"active_time_ratio", b.ActiveTimeRatio},
		{"notification_load", b.NotificationLoad},
		{"burstiness", b.Burstiness},
		{"fragmented_idle_ratio", b.FragmentedIdleRatio},
		{"scroll_jitter_rate", b.ScrollJitterRate},
		{"deep_focus_blocks", float64(len(b.DeepFocusBlocks))},
		{"deep_focus_minutes", float64(focusMs) / 60000},
		{"notification_count", float64(n.NotificationCount)},
		{"notification_ignore_rate", n.NotificationIgnoreRate},
		{"notification_clustering_index", n.NotificationClusteringIndex},
		{"call_count", float64(n.CallCount)},
		{"typing_session_count", float64(ty.TypingSessionCount)},
		{"average_typing_speed", ty.AverageTypingSpeed},
		{"active_typing_ratio", ty.ActiveTypingRatio},
		{"correction_rate", ty.CorrectionRate},
		{"clipboard_activity_rate", ty.ClipboardActivityRate},
	}
}

// metricDirection maps metric names to whether higher values are better.
// Metrics missing from the map are treated as higher-is-better.
var metricDirection = map[string]bool{
	"behavioral_distraction_score":  false,
	"focus_hint":                    true,
	"interaction_intensity":         true,
	"task_switch_rate":              false,
	"task_switch_cost":              false,
	"idle_time_ratio":               false,
	"active_time_ratio":             true,
	"notification_load":             false,
	"burstiness":                    false,
	"fragmented_idle_ratio":         false,
	"scroll_jitter_rate":            false,
	"deep_focus_blocks":             true,
	"deep_focus_minutes":            true,
	"notification_count":            false,
	"notification_ignore_rate":      false,
	"notification_clustering_index": true,
	"call_count":                    false,
	"typing_session_count":          true,
	"average_typing_speed":          true,
	"active_typing_ratio":           true,
	"correction_rate":               false,
	"clipboard_activity_rate":       false,
}

// HigherIsBetter reports the preferred direction of a metric.
func HigherIsBetter(name string) bool {
	higher, known := metricDirection[name]
	if !known {
		return true
	}
	return higher
}

// CompareReports computes per-metric deltas from prev to curr.
func CompareReports(prev, curr *ReportRecord) *ReportDiff {
	diff := &ReportDiff{Previous: prev, Current: curr}
	if prev == nil || curr == nil || prev.Report == nil || curr.Report == nil {
		return diff
	}

	prevMap := make(map[string]float64)
	for _, m := range ReportMetrics(prev.Report) {
		prevMap[m.Name] = m.Value
	}

	for _, m := range ReportMetrics(curr.Report) {
		prevVal := prevMap[m.Name]
		delta := m.Value - prevVal

		direction := "unchanged"
		if delta != 0 {
			if (delta > 0) == HigherIsBetter(m.Name) {
				direction = "improved"
			} else {
				direction = "regressed"
			}
		}

		diff.Deltas = append(diff.Deltas, MetricDelta{
			Name:      m.Name,
			Previous:  prevVal,
			Current:   m.Value,
			Delta:     delta,
			Direction: direction,
		})
	}
	return diff
}
