package analyzer

import (
	"github.com/blackwell-systems/behaviorwatch/internal/event"
)

// AnalyzeInterruptions summarizes notification and call events. Other event
// kinds are ignored, so the full session event list can be passed.
func AnalyzeInterruptions(events []event.Event) NotificationSummary {
	var summary NotificationSummary
	var notifications []event.Event

	for _, e := range events {
		p, ok := e.Interruption()
		if !ok {
			continue
		}
		ignored := p.Action == event.ActionIgnored
		switch e.Kind {
		case event.KindNotification:
			summary.NotificationCount++
			if ignored {
				summary.NotificationIgnored++
			}
			notifications = append(notifications, e)
		case event.KindCall:
			summary.CallCount++
			if ignored {
				summary.CallIgnored++
			}
		}
	}

	summary.NotificationIgnoreRate = IgnoreRate(summary.NotificationIgnored, summary.NotificationCount)
	summary.NotificationClusteringIndex = ClusteringIndex(notifications)
	return summary
}

// IgnoreRate returns ignored/count, or 0 when count is 0.
func IgnoreRate(ignored, count int) float64 {
	return ratio(float64(ignored), float64(count))
}

// ClusteringIndex measures the temporal regularity of events as
// clamp(1 - cv/10, 0, 1), where cv is the coefficient of variation of the
// intervals between consecutive events. Fewer than two events yields 0.
func ClusteringIndex(events []event.Event) float64 {
	if len(events) < 2 {
		return 0
	}
	sorted := event.SortByTime(events)
	intervals := make([]float64, 0, len(sorted)-1)
	for i := 1; i < len(sorted); i++ {
		intervals = append(intervals, float64(sorted[i].UnixMilli()-sorted[i-1].UnixMilli()))
	}

	m := mean(intervals)
	cv := 0.0
	if m != 0 {
		cv = stddev(intervals, m) / m
	}
	return clamp01(1 - cv/10)
}
