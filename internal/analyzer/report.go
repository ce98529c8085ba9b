package analyzer

import (
	"fmt"
	"time"

	"github.com/blackwell-systems/behaviorwatch/internal/event"
)

// Engine runs the analyzers with a fixed set of options. The zero value is
// not usable; construct with NewEngine.
type Engine struct {
	opts Options
}

// NewEngine returns an Engine after validating opts.
func NewEngine(opts Options) (*Engine, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("engine options: %w", err)
	}
	return &Engine{opts: opts}, nil
}

// Options returns the engine's configuration.
func (eng *Engine) Options() Options {
	return eng.opts
}

// SessionSource resolves session ids to immutable snapshots. Active sessions
// must be returned with EndTime set to the snapshot time.
type SessionSource interface {
	Lookup(id string) (event.Session, bool)
}

var defaultEngine = &Engine{opts: DefaultOptions()}

// Finalize analyzes a complete session with the default options.
func Finalize(s event.Session) (*Report, error) {
	return defaultEngine.Finalize(s)
}

// Recompute analyzes a sub-range of a session with the default options.
func Recompute(s event.Session, start, end time.Time) (*Report, error) {
	return defaultEngine.Recompute(s, start, end)
}

// Finalize runs every analyzer over the session's events in
// [StartTime, EndTime] and its duration. Events outside the bounds are
// ignored. The session must have an end time. The result depends only on
// the session value.
func (eng *Engine) Finalize(s event.Session) (*Report, error) {
	if s.Active() {
		return nil, fmt.Errorf("finalizing %q: %w", s.ID, ErrSessionActive)
	}
	return eng.analyze(s.Between(s.StartTime, s.EndTime), s.StartTime, s.EndTime), nil
}

// Recompute analyzes the events of s that fall in [start, end], inclusive,
// as if they formed a standalone session of duration end - start. The range
// may exceed the session bounds by at most the configured tolerance.
func (eng *Engine) Recompute(s event.Session, start, end time.Time) (*Report, error) {
	if s.Active() {
		return nil, fmt.Errorf("recomputing %q: %w", s.ID, ErrSessionActive)
	}

	tol := eng.opts.RangeTolerance.Milliseconds()
	lo, hi := start.UnixMilli(), end.UnixMilli()
	if hi < lo ||
		lo < s.StartTime.UnixMilli()-tol ||
		hi > s.EndTime.UnixMilli()+tol {
		return nil, &RangeError{
			SessionID:      s.ID,
			RequestedStart: start,
			RequestedEnd:   end,
			SessionStart:   s.StartTime,
			SessionEnd:     s.EndTime,
			Tolerance:      eng.opts.RangeTolerance,
		}
	}

	sub := event.Session{
		ID:        s.ID,
		StartTime: start.Truncate(time.Millisecond),
		EndTime:   end.Truncate(time.Millisecond),
		Events:    s.Between(start, end),
	}
	return eng.Finalize(sub)
}

// RecomputeSession looks up a session by id and recomputes a sub-range of it.
func (eng *Engine) RecomputeSession(src SessionSource, id string, start, end time.Time) (*Report, error) {
	s, ok := src.Lookup(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return eng.Recompute(s, start, end)
}

// analyze is the shared pipeline behind Finalize and Recompute.
func (eng *Engine) analyze(events []event.Event, start, end time.Time) *Report {
	opts := eng.opts
	sorted := event.SortByTime(events)
	durationMs := end.UnixMilli() - start.UnixMilli()

	gaps := AnalyzeGaps(sorted, durationMs, opts)
	interruptions := AnalyzeInterruptions(sorted)
	scroll := AnalyzeScroll(sorted)
	typing := AggregateTyping(sorted, len(sorted), durationMs, opts)

	composite := ComputeComposite(CompositeInput{
		DurationMs:            durationMs,
		TotalEvents:           len(sorted),
		NotificationCount:     interruptions.NotificationCount,
		CallCount:             interruptions.CallCount,
		AppSwitchCount:        event.CountKind(sorted, event.KindAppSwitch),
		TypingEventCount:      typing.TypingSessionCount,
		TypingDurationSeconds: typing.TotalTypingDuration,
		Gaps:                  gaps,
		ScrollJitterRate:      scroll.JitterRate,
	}, opts)

	return &Report{
		Behavioral: BehavioralMetrics{
			InteractionIntensity: composite.InteractionIntensity,
			TaskSwitchRate:       composite.TaskSwitchRate,
			TaskSwitchCost:       composite.TaskSwitchCostMs,
			IdleTimeRatio:        gaps.IdleTimeRatio,
			ActiveTimeRatio:      composite.ActiveTimeRatio,
			NotificationLoad:     composite.NotificationLoad,
			Burstiness:           gaps.Burstiness,
			DistractionScore:     composite.DistractionScore,
			FocusHint:            composite.FocusHint,
			FragmentedIdleRatio:  gaps.FragmentedIdleRatio,
			ScrollJitterRate:     scroll.JitterRate,
			DeepFocusBlocks:      DeepFocusBlocks(sorted, start, end, opts),
		},
		Typing:       typing,
		Notification: interruptions,
	}
}
