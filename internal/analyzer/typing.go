package analyzer

import (
	"github.com/blackwell-systems/behaviorwatch/internal/event"
)

// AggregateTyping rolls up the typing events of a session. totalEvents is the
// session's event count and durationMs its length; both feed the ratios.
func AggregateTyping(events []event.Event, totalEvents int, durationMs int64, opts Options) TypingSummary {
	summary := TypingSummary{TypingMetrics: []TypingMetric{}}

	var (
		taps, speed, duration, interval float64
		cadence, burst, gapRatio        float64
		backspaces, clipboard           int
	)

	for _, e := range events {
		p, ok := e.Typing()
		if !ok {
			continue
		}
		summary.TypingSessionCount++
		summary.TypingMetrics = append(summary.TypingMetrics, toTypingMetric(p))

		taps += float64(p.TapCount)
		speed += p.TypingSpeed
		duration += p.DurationSeconds
		interval += p.MeanInterTapIntervalMs
		cadence += p.CadenceStability
		burst += p.Burstiness
		gapRatio += p.GapRatio
		backspaces += p.BackspaceCount
		clipboard += p.CopyCount + p.PasteCount + p.CutCount
		if p.DeepTyping {
			summary.DeepTypingBlocks++
		}
	}

	n := float64(summary.TypingSessionCount)
	if n == 0 {
		return summary
	}

	summary.AverageKeystrokesPerSession = taps / n
	summary.AverageTypingSessionDuration = duration / n
	summary.AverageTypingSpeed = speed / n
	summary.AverageTypingGap = interval / n
	summary.AverageInterTapInterval = interval / n
	summary.TypingCadenceStability = cadence / n
	summary.BurstinessOfTyping = burst / n
	summary.TypingFragmentation = gapRatio / n
	summary.TotalTypingDuration = duration
	summary.ActiveTypingRatio = clamp01(ratio(duration*1000, float64(durationMs)))
	summary.TypingContribution = ratio(n, float64(totalEvents))

	summary.CorrectionRate = normalizeTypingRate(float64(backspaces), taps, n, durationMs, opts.Normalization)
	summary.ClipboardActivityRate = normalizeTypingRate(float64(clipboard), taps, n, durationMs, opts.Normalization)

	return summary
}

// normalizeTypingRate divides count by the denominator selected by mode.
// Per-keystroke rates are fractions and are clamped to [0, 1].
func normalizeTypingRate(count, keystrokes, sessions float64, durationMs int64, mode Normalization) float64 {
	switch mode {
	case PerTypingSession:
		return ratio(count, sessions)
	case PerMinute:
		return ratio(count, float64(durationMs)/60000)
	default:
		return clamp01(ratio(count, keystrokes))
	}
}

func toTypingMetric(p event.TypingPayload) TypingMetric {
	return TypingMetric{
		TapCount:               p.TapCount,
		TypingSpeed:            p.TypingSpeed,
		DurationSeconds:        p.DurationSeconds,
		MeanInterTapIntervalMs: p.MeanInterTapIntervalMs,
		CadenceStability:       p.CadenceStability,
		GapCount:               p.GapCount,
		GapRatio:               p.GapRatio,
		Burstiness:             p.Burstiness,
		DeepTyping:             p.DeepTyping,
		BackspaceCount:         p.BackspaceCount,
		CopyCount:              p.CopyCount,
		PasteCount:             p.PasteCount,
		CutCount:               p.CutCount,
		StartAt:                p.StartAt,
		EndAt:                  p.EndAt,
	}
}
