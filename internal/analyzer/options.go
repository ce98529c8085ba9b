package analyzer

import (
	"fmt"
	"math"
	"time"
)

// Normalization selects the denominator for typing correction and clipboard rates.
type Normalization string

const (
	// PerKeystroke divides by the total keystroke (tap) count across typing sessions.
	PerKeystroke Normalization = "per_keystroke"
	// PerTypingSession divides by the number of typing sessions.
	PerTypingSession Normalization = "per_session"
	// PerMinute divides by the behavioral session duration in minutes.
	PerMinute Normalization = "per_minute"
)

// Weights are the coefficients of the behavioral distraction score.
type Weights struct {
	TaskSwitch    float64 `json:"task_switch"`
	Notification  float64 `json:"notification"`
	Fragmentation float64 `json:"fragmentation"`
	ScrollJitter  float64 `json:"scroll_jitter"`
}

// Sum returns the total of all weights.
func (w Weights) Sum() float64 {
	return w.TaskSwitch + w.Notification + w.Fragmentation + w.ScrollJitter
}

// Options holds every tunable used by the engine. DefaultOptions returns the
// values every implementation must use to produce identical reports.
type Options struct {
	IdleThreshold      time.Duration
	DeepFocusMin       time.Duration
	RangeTolerance     time.Duration
	SwitchCostCap      time.Duration
	NotificationLambda float64 // events per second
	SwitchMu           float64 // switches per second
	Weights            Weights
	Normalization      Normalization
}

// Defaults for Options.
const (
	DefaultIdleThreshold  = 30 * time.Second
	DefaultDeepFocusMin   = 120 * time.Second
	DefaultRangeTolerance = 1 * time.Second
	DefaultSwitchCostCap  = 10 * time.Second
)

// DefaultWeights are the standard distraction score coefficients.
var DefaultWeights = Weights{
	TaskSwitch:    0.35,
	Notification:  0.30,
	Fragmentation: 0.20,
	ScrollJitter:  0.15,
}

// DefaultOptions returns the reference engine configuration.
func DefaultOptions() Options {
	return Options{
		IdleThreshold:      DefaultIdleThreshold,
		DeepFocusMin:       DefaultDeepFocusMin,
		RangeTolerance:     DefaultRangeTolerance,
		SwitchCostCap:      DefaultSwitchCostCap,
		NotificationLambda: 1.0 / 60.0,
		SwitchMu:           1.0 / 30.0,
		Weights:            DefaultWeights,
		Normalization:      PerKeystroke,
	}
}

// Validate checks that the options can produce well-defined results.
func (o Options) Validate() error {
	if o.IdleThreshold <= 0 {
		return fmt.Errorf("idle threshold must be positive, got %s", o.IdleThreshold)
	}
	if o.DeepFocusMin <= 0 {
		return fmt.Errorf("deep focus minimum must be positive, got %s", o.DeepFocusMin)
	}
	if o.RangeTolerance < 0 {
		return fmt.Errorf("range tolerance must not be negative, got %s", o.RangeTolerance)
	}
	if o.SwitchCostCap <= 0 {
		return fmt.Errorf("switch cost cap must be positive, got %s", o.SwitchCostCap)
	}
	if o.NotificationLambda <= 0 || o.SwitchMu <= 0 {
		return fmt.Errorf("rate constants must be positive (lambda=%g, mu=%g)", o.NotificationLambda, o.SwitchMu)
	}
	if math.Abs(o.Weights.Sum()-1) > 1e-6 {
		return fmt.Errorf("distraction weights must sum to 1, got %g", o.Weights.Sum())
	}
	switch o.Normalization {
	case PerKeystroke, PerTypingSession, PerMinute:
	default:
		return fmt.Errorf("unknown normalization %q", o.Normalization)
	}
	return nil
}

func (o Options) idleMs() int64 {
	return o.IdleThreshold.Milliseconds()
}
