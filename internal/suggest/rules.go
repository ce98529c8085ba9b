package suggest

import (
	"fmt"

	"github.com/blackwell-systems/behaviorwatch/internal/analyzer"
	"github.com/blackwell-systems/behaviorwatch/internal/baseline"
)

// Rule thresholds.
const (
	notificationLoadThreshold = 0.6
	ignoreRateThreshold       = 0.5
	minIgnoredNotifications   = 5
	clusteringThreshold       = 0.9
	minClusteredNotifications = 3
	taskSwitchThreshold       = 0.5
	fragmentedIdleThreshold   = 0.01
	idleRatioThreshold        = 0.4
	scrollJitterThreshold     = 0.5
	minScrollsForJitter       = 10
	deepFocusMinutes          = 10.0
	correctionRateThreshold   = 0.15
	clipboardRateThreshold    = 0.1
)

// NotificationOverload fires when notifications arrive fast enough to
// saturate the load index.
func NotificationOverload(ctx *AnalysisContext) []Suggestion {
	b, n := ctx.Report.Behavioral, ctx.Report.Notification
	if b.NotificationLoad < notificationLoadThreshold {
		return nil
	}
	return []Suggestion{{
		Category: "notifications",
		Priority: PriorityHigh,
		Title:    "Reduce notification volume",
		Description: fmt.Sprintf(
			"%d notifications in %.0f minutes put notification load at %.2f. "+
				"Enable a focus mode or move non-urgent apps to a scheduled summary.",
			n.NotificationCount, ctx.SessionMinutes, b.NotificationLoad,
		),
		ImpactScore: ComputeImpact(ctx.SessionMinutes, b.NotificationLoad, 0.3, 1.0),
	}}
}

// IgnoredNotifications fires when most notifications are dismissed unread.
func IgnoredNotifications(ctx *AnalysisContext) []Suggestion {
	n := ctx.Report.Notification
	if n.NotificationCount < minIgnoredNotifications || n.NotificationIgnoreRate < ignoreRateThreshold {
		return nil
	}
	return []Suggestion{{
		Category: "notifications",
		Priority: PriorityMedium,
		Title:    "Mute notifications you ignore",
		Description: fmt.Sprintf(
			"%d of %d notifications (%.0f%%) were ignored. "+
				"Their sources interrupt without being useful; mute or silence them.",
			n.NotificationIgnored, n.NotificationCount, n.NotificationIgnoreRate*100,
		),
		ImpactScore: ComputeImpact(ctx.SessionMinutes, n.NotificationIgnoreRate, 0.2, 0.5),
	}}
}

// ClusteredNotifications fires when notifications arrive at a steady
// cadence, which batching can replace.
func ClusteredNotifications(ctx *AnalysisContext) []Suggestion {
	n := ctx.Report.Notification
	if n.NotificationCount < minClusteredNotifications || n.NotificationClusteringIndex < clusteringThreshold {
		return nil
	}
	return []Suggestion{{
		Category: "notifications",
		Priority: PriorityLow,
		Title:    "Batch regular notifications",
		Description: fmt.Sprintf(
			"Notifications arrived at a regular cadence (clustering index %.2f). "+
				"Delivering them as one digest would remove %d separate interruptions.",
			n.NotificationClusteringIndex, n.NotificationCount-1,
		),
		ImpactScore: ComputeImpact(ctx.SessionMinutes, n.NotificationClusteringIndex, 0.1, 1.0),
	}}
}

// FrequentTaskSwitching fires when app switches dominate the session.
func FrequentTaskSwitching(ctx *AnalysisContext) []Suggestion {
	b := ctx.Report.Behavioral
	if b.TaskSwitchRate < taskSwitchThreshold {
		return nil
	}
	return []Suggestion{{
		Category: "focus",
		Priority: PriorityHigh,
		Title:    "Cut down on app switching",
		Description: fmt.Sprintf(
			"Task switch rate is %.2f with about %.1fs between switches. "+
				"Group related work into one app or window and close the others.",
			b.TaskSwitchRate, b.TaskSwitchCost/1000,
		),
		ImpactScore: ComputeImpact(ctx.SessionMinutes, b.TaskSwitchRate, 0.4, 2.0),
	}}
}

// FragmentedIdle fires when the session is broken up by many idle gaps or
// dominated by idle time.
func FragmentedIdle(ctx *AnalysisContext) []Suggestion {
	b := ctx.Report.Behavioral
	if b.FragmentedIdleRatio < fragmentedIdleThreshold && b.IdleTimeRatio < idleRatioThreshold {
		return nil
	}
	severity := b.IdleTimeRatio
	if frag := b.FragmentedIdleRatio * 100; frag > severity {
		severity = min(frag, 1)
	}
	return []Suggestion{{
		Category: "pacing",
		Priority: PriorityMedium,
		Title:    "Work in fewer, longer stretches",
		Description: fmt.Sprintf(
			"Idle time made up %.0f%% of the session across frequent pauses "+
				"(%.3f idle gaps per second). Short, planned breaks fragment attention less.",
			b.IdleTimeRatio*100, b.FragmentedIdleRatio,
		),
		ImpactScore: ComputeImpact(ctx.SessionMinutes, severity, 0.2, 1.5),
	}}
}

// ScrollJitter fires when scrolling keeps reversing direction, a sign of
// searching rather than reading.
func ScrollJitter(ctx *AnalysisContext) []Suggestion {
	b := ctx.Report.Behavioral
	if b.ScrollJitterRate < scrollJitterThreshold {
		return nil
	}
	return []Suggestion{{
		Category: "navigation",
		Priority: PriorityLow,
		Title:    "Use search instead of scrolling back and forth",
		Description: fmt.Sprintf(
			"%.0f%% of consecutive scrolls reversed direction. "+
				"Jumping straight to content with search or bookmarks avoids the hunt.",
			b.ScrollJitterRate*100,
		),
		ImpactScore: ComputeImpact(ctx.SessionMinutes, b.ScrollJitterRate, 0.1, 1.0),
	}}
}

// NoDeepFocus fires when a session of meaningful length contains no
// deep-focus block at all.
func NoDeepFocus(ctx *AnalysisContext) []Suggestion {
	b := ctx.Report.Behavioral
	if ctx.SessionMinutes < deepFocusMinutes || len(b.DeepFocusBlocks) > 0 {
		return nil
	}
	return []Suggestion{{
		Category: "focus",
		Priority: PriorityHigh,
		Title:    "Protect a block of uninterrupted time",
		Description: fmt.Sprintf(
			"None of the %.0f minutes reached two minutes of uninterrupted engagement. "+
				"Silence notifications and stay in one app for a short block.",
			ctx.SessionMinutes,
		),
		ImpactScore: ComputeImpact(ctx.SessionMinutes, b.DistractionScore, 0.5, 2.0),
	}}
}

// keystrokeRates reports whether the typing rates are per-keystroke
// fractions, the only scale the typing thresholds apply to.
func keystrokeRates(ctx *AnalysisContext) bool {
	return ctx.Normalization == "" || ctx.Normalization == analyzer.PerKeystroke
}

// HighCorrectionRate fires when a large share of keystrokes are backspaces.
func HighCorrectionRate(ctx *AnalysisContext) []Suggestion {
	ty := ctx.Report.Typing
	if ty.TypingSessionCount == 0 || !keystrokeRates(ctx) || ty.CorrectionRate < correctionRateThreshold {
		return nil
	}
	return []Suggestion{{
		Category: "typing",
		Priority: PriorityLow,
		Title:    "Slow down to reduce corrections",
		Description: fmt.Sprintf(
			"%.0f%% of keystrokes were corrections across %d typing sessions. "+
				"Typing while distracted increases errors; finish one thought before switching.",
			ty.CorrectionRate*100, ty.TypingSessionCount,
		),
		ImpactScore: ComputeImpact(ctx.SessionMinutes*ty.ActiveTypingRatio, ty.CorrectionRate, 0.3, 1.0),
	}}
}

// ClipboardHeavy fires when typing is dominated by copy, cut and paste.
func ClipboardHeavy(ctx *AnalysisContext) []Suggestion {
	ty := ctx.Report.Typing
	if ty.TypingSessionCount == 0 || !keystrokeRates(ctx) || ty.ClipboardActivityRate < clipboardRateThreshold {
		return nil
	}
	return []Suggestion{{
		Category: "typing",
		Priority: PriorityLow,
		Title:    "Consider templates for repeated text",
		Description: fmt.Sprintf(
			"Clipboard actions made up %.0f%% of keystrokes. "+
				"Snippets or text replacements can stand in for repeated copy and paste.",
			ty.ClipboardActivityRate*100,
		),
		ImpactScore: ComputeImpact(ctx.SessionMinutes*ty.ActiveTypingRatio, ty.ClipboardActivityRate, 0.2, 1.0),
	}}
}

// worseWhen maps each baseline metric to the deviation that counts as a
// regression. Metrics absent from the map are not judged.
var worseWhen = map[baseline.Metric]baseline.Deviation{
	baseline.DistractionScore:     baseline.Elevated,
	baseline.FocusHint:            baseline.Reduced,
	baseline.IdleTimeRatio:        baseline.Elevated,
	baseline.FragmentedIdleRatio:  baseline.Elevated,
	baseline.NotificationLoad:     baseline.Elevated,
	baseline.TaskSwitchRate:       baseline.Elevated,
	baseline.ScrollJitterRate:     baseline.Elevated,
	baseline.InteractionIntensity: baseline.Reduced,
}

// BaselineRegression fires for each metric that deviates from the user's own
// baseline in the unfavourable direction.
func BaselineRegression(ctx *AnalysisContext) []Suggestion {
	if ctx.Assessment == nil {
		return nil
	}
	// FocusHint mirrors DistractionScore, so only one of them is reported.
	reported := make(map[baseline.Metric]bool)

	var suggestions []Suggestion
	for _, ma := range ctx.Assessment.Deviations() {
		bad, judged := worseWhen[ma.Metric]
		if !judged || ma.Deviation != bad {
			continue
		}
		if ma.Metric == baseline.FocusHint && reported[baseline.DistractionScore] {
			continue
		}
		reported[ma.Metric] = true

		z := ma.ZScore
		if z < 0 {
			z = -z
		}
		suggestions = append(suggestions, Suggestion{
			Category: "baseline",
			Priority: PriorityMedium,
			Title:    fmt.Sprintf("%s is %s compared with your usual sessions", ma.Metric, ma.Deviation),
			Description: fmt.Sprintf(
				"This session's %s of %.3f is %.1f standard deviations from your "+
					"baseline mean of %.3f over %d sessions.",
				ma.Metric, ma.Value, z, ma.Mean, ma.Samples,
			),
			ImpactScore: ComputeImpact(ctx.SessionMinutes, min(z/4, 1), 0.25, 1.0),
		})
	}
	return suggestions
}
