package analyzer

import (
	"github.com/blackwell-systems/behaviorwatch/internal/event"
)

// AnalyzeScroll counts direction reversals between adjacent scroll events, in
// the order given. Non-scroll events are skipped.
func AnalyzeScroll(events []event.Event) ScrollAnalysis {
	var result ScrollAnalysis
	var prev event.Direction

	for _, e := range events {
		s, ok := e.Scroll()
		if !ok {
			continue
		}
		if result.ScrollCount > 0 && s.Direction != prev {
			result.DirectionReversals++
		}
		prev = s.Direction
		result.ScrollCount++
	}

	if result.ScrollCount < 2 {
		return ScrollAnalysis{ScrollCount: result.ScrollCount}
	}
	denom := result.ScrollCount - 1
	if denom < 1 {
		denom = 1
	}
	result.JitterRate = clamp01(float64(result.DirectionReversals) / float64(denom))
	return result
}
