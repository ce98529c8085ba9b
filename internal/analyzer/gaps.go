package analyzer

import (
	"github.com/blackwell-systems/behaviorwatch/internal/event"
)

// gap is the interval between two consecutive events.
type gap struct {
	ms     float64
	typing bool // either endpoint is a typing event
}

// consecutiveGaps returns the gaps between consecutive events, which must
// already be sorted by timestamp.
func consecutiveGaps(sorted []event.Event) []gap {
	if len(sorted) < 2 {
		return nil
	}
	gaps := make([]gap, 0, len(sorted)-1)
	for i := 1; i < len(sorted); i++ {
		prev, cur := sorted[i-1], sorted[i]
		gaps = append(gaps, gap{
			ms:     float64(cur.UnixMilli() - prev.UnixMilli()),
			typing: prev.Kind == event.KindTyping || cur.Kind == event.KindTyping,
		})
	}
	return gaps
}

// AnalyzeGaps computes idle time, idle fragmentation, and burstiness for an
// event list over a session of durationMs. Events are sorted defensively.
func AnalyzeGaps(events []event.Event, durationMs int64, opts Options) GapAnalysis {
	var result GapAnalysis
	if len(events) < 2 {
		return result
	}

	gaps := consecutiveGaps(event.SortByTime(events))
	idle := float64(opts.idleMs())

	for _, g := range gaps {
		if g.ms > idle {
			result.IdleTimeMs += g.ms - idle
			result.IdleGapCount++
		}
	}

	dur := float64(durationMs)
	result.IdleTimeRatio = clamp01(ratio(result.IdleTimeMs, dur))
	if frag := ratio(float64(result.IdleGapCount), dur/1000); frag > 0 {
		result.FragmentedIdleRatio = frag
	}
	result.Burstiness = burstiness(gaps)

	return result
}

// burstiness computes the Barabási burstiness index of the gap set, mapped
// from [-1, 1] onto [0, 1].
//
// Gaps touching a typing event are capped at the largest non-typing gap so a
// long pause spanning a typing session does not dominate the variance.
func burstiness(gaps []gap) float64 {
	if len(gaps) == 0 {
		return 0
	}

	capMs := 0.0
	for _, g := range gaps {
		if !g.typing && g.ms > capMs {
			capMs = g.ms
		}
	}

	values := make([]float64, len(gaps))
	for i, g := range gaps {
		v := g.ms
		if g.typing && capMs > 0 && v > capMs {
			v = capMs
		}
		values[i] = v
	}

	m := mean(values)
	sd := stddev(values, m)
	if m == 0 || sd == 0 {
		return 0
	}

	raw := (sd - m) / (sd + m)
	return clamp01((raw + 1) / 2)
}

// Burstiness returns the burstiness index of the events' inter-event gaps.
func Burstiness(events []event.Event) float64 {
	return burstiness(consecutiveGaps(event.SortByTime(events)))
}
