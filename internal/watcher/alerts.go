package watcher

import (
	"fmt"
	"time"

	"github.com/blackwell-systems/behaviorwatch/internal/baseline"
)

// Compare detects notable changes between two watch states and returns alerts.
// prev is nil for the first session seen.
func Compare(prev, curr *WatchState, th Thresholds) []Alert {
	if curr == nil || curr.Report == nil {
		return nil
	}
	var alerts []Alert

	alerts = append(alerts, compareCritical(curr, th)...)
	alerts = append(alerts, compareWarning(prev, curr, th)...)
	alerts = append(alerts, compareInfo(prev, curr, th)...)

	return alerts
}

// compareCritical detects critical-level changes.
func compareCritical(curr *WatchState, th Thresholds) []Alert {
	var alerts []Alert
	b := curr.Report.Behavioral

	if th.Distraction > 0 && b.DistractionScore > th.Distraction {
		alerts = append(alerts, Alert{
			Level:   "critical",
			Title:   "High distraction",
			Message: fmt.Sprintf("Session %s scored %.2f (threshold %.2f)", curr.SessionID, b.DistractionScore, th.Distraction),
			Time:    time.Now(),
		})
	}
	return alerts
}

// compareWarning detects warning-level changes.
func compareWarning(prev, curr *WatchState, th Thresholds) []Alert {
	var alerts []Alert
	now := time.Now()
	b := curr.Report.Behavioral

	// Focus dropped sharply since the previous session.
	if prev != nil && prev.Report != nil && th.FocusDrop > 0 {
		drop := prev.Report.Behavioral.FocusHint - b.FocusHint
		if drop >= th.FocusDrop {
			alerts = append(alerts, Alert{
				Level:   "warning",
				Title:   "Focus dropped",
				Message: fmt.Sprintf("Focus hint fell from %.2f to %.2f in session %s", prev.Report.Behavioral.FocusHint, b.FocusHint, curr.SessionID),
				Time:    now,
			})
		}
	}

	// Notification load crossed the threshold.
	if th.NotificationLoad > 0 && b.NotificationLoad >= th.NotificationLoad {
		wasBelow := prev == nil || prev.Report == nil || prev.Report.Behavioral.NotificationLoad < th.NotificationLoad
		if wasBelow {
			alerts = append(alerts, Alert{
				Level:   "warning",
				Title:   "Notification load spike",
				Message: fmt.Sprintf("%d notifications pushed load to %.2f in session %s", curr.Report.Notification.NotificationCount, b.NotificationLoad, curr.SessionID),
				Time:    now,
			})
		}
	}

	// Metrics outside the user's usual range. The focus hint mirrors the
	// distraction score and is not reported separately.
	for _, ma := range curr.Assessment.Deviations() {
		if ma.Metric == baseline.FocusHint {
			continue
		}
		alerts = append(alerts, Alert{
			Level:   "warning",
			Title:   fmt.Sprintf("Baseline deviation: %s", ma.Metric),
			Message: fmt.Sprintf("%s at %.3f vs baseline %.3f (z=%+.1f over %d sessions)", ma.Deviation, ma.Value, ma.Mean, ma.ZScore, ma.Samples),
			Time:    now,
		})
	}

	return alerts
}

// compareInfo detects informational changes.
func compareInfo(prev, curr *WatchState, th Thresholds) []Alert {
	var alerts []Alert
	now := time.Now()
	b := curr.Report.Behavioral

	alerts = append(alerts, Alert{
		Level:   "info",
		Title:   fmt.Sprintf("Session analyzed: %s", curr.SessionID),
		Message: fmt.Sprintf("%.0fmin, distraction %.2f, focus %.2f", curr.Minutes, b.DistractionScore, b.FocusHint),
		Time:    now,
	})

	if n := len(b.DeepFocusBlocks); n > 0 {
		var total int64
		for _, blk := range b.DeepFocusBlocks {
			total += blk.DurationMs
		}
		alerts = append(alerts, Alert{
			Level:   "info",
			Title:   "Deep focus achieved",
			Message: fmt.Sprintf("%d block(s) totalling %.1f min in session %s", n, float64(total)/60000, curr.SessionID),
			Time:    now,
		})
	}

	// Focus improved by at least as much as a warning-level drop.
	if prev != nil && prev.Report != nil && th.FocusDrop > 0 {
		gain := b.FocusHint - prev.Report.Behavioral.FocusHint
		if gain >= th.FocusDrop {
			alerts = append(alerts, Alert{
				Level:   "info",
				Title:   "Focus improved",
				Message: fmt.Sprintf("Focus hint rose from %.2f to %.2f", prev.Report.Behavioral.FocusHint, b.FocusHint),
				Time:    now,
			})
		}
	}

	return alerts
}
