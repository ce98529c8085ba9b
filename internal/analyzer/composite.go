package analyzer

import "math"

// ComputeComposite combines the analyzer outputs into the saturating rates,
// switch cost, active time, distraction/focus pair, and interaction intensity.
func ComputeComposite(in CompositeInput, opts Options) CompositeScores {
	var out CompositeScores

	durMs := float64(in.DurationMs)
	durSec := durMs / 1000

	if rate := ratio(float64(in.NotificationCount), durSec); rate > 0 {
		out.NotificationLoad = 1 - math.Exp(-rate/opts.NotificationLambda)
	}
	if raw := ratio(float64(in.AppSwitchCount), durSec); raw > 0 {
		out.TaskSwitchRate = 1 - math.Exp(-raw/opts.SwitchMu)
	}
	if in.AppSwitchCount > 0 {
		capMs := float64(opts.SwitchCostCap.Milliseconds())
		out.TaskSwitchCostMs = clamp(durMs/float64(in.AppSwitchCount), 0, capMs)
	}

	if durMs > 0 {
		idleMs := in.Gaps.IdleTimeRatio * durMs
		out.ActiveTimeRatio = math.Max(0, math.Min(1, (durMs-idleMs-out.TaskSwitchCostMs)/durMs))
	}

	w := opts.Weights
	out.DistractionScore = clamp01(
		w.TaskSwitch*out.TaskSwitchRate +
			w.Notification*out.NotificationLoad +
			w.Fragmentation*in.Gaps.FragmentedIdleRatio +
			w.ScrollJitter*in.ScrollJitterRate,
	)
	out.FocusHint = 1 - out.DistractionScore

	interruptions := in.NotificationCount + in.CallCount + in.AppSwitchCount
	plain := float64(in.TotalEvents - interruptions - in.TypingEventCount)
	if durSec > 0 {
		out.InteractionIntensity = math.Max(0, (plain+in.TypingDurationSeconds/10)/durSec)
	}

	return out
}
