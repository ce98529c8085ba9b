// Package baseline keeps rolling per-metric history across sessions and
// scores each new report against it.
package baseline

import (
	"encoding/json"
	"fmt"
	"math"
	"sync"

	"github.com/blackwell-systems/behaviorwatch/internal/analyzer"
)

// FormatVersion is written into saved baselines.
const FormatVersion = 1

// Defaults for NewProcessor.
const (
	DefaultWindow     = 20
	DefaultZThreshold = 2.0
)

// Metric names a tracked report value.
type Metric string

const (
	DistractionScore     Metric = "behavioral_distraction_score"
	FocusHint            Metric = "focus_hint"
	Burstiness           Metric = "burstiness"
	IdleTimeRatio        Metric = "idle_time_ratio"
	FragmentedIdleRatio  Metric = "fragmented_idle_ratio"
	NotificationLoad     Metric = "notification_load"
	TaskSwitchRate       Metric = "task_switch_rate"
	ScrollJitterRate     Metric = "scroll_jitter_rate"
	InteractionIntensity Metric = "interaction_intensity"
	TypingSpeed          Metric = "average_typing_speed"
)

// Tracked lists every metric a Processor keeps history for, in report order.
var Tracked = []Metric{
	DistractionScore,
	FocusHint,
	Burstiness,
	IdleTimeRatio,
	FragmentedIdleRatio,
	NotificationLoad,
	TaskSwitchRate,
	ScrollJitterRate,
	InteractionIntensity,
	TypingSpeed,
}

// Values extracts the tracked metrics from a report.
func Values(r *analyzer.Report) map[Metric]float64 {
	b := r.Behavioral
	return map[Metric]float64{
		DistractionScore:     b.DistractionScore,
		FocusHint:            b.FocusHint,
		Burstiness:           b.Burstiness,
		IdleTimeRatio:        b.IdleTimeRatio,
		FragmentedIdleRatio:  b.FragmentedIdleRatio,
		NotificationLoad:     b.NotificationLoad,
		TaskSwitchRate:       b.TaskSwitchRate,
		ScrollJitterRate:     b.ScrollJitterRate,
		InteractionIntensity: b.InteractionIntensity,
		TypingSpeed:          r.Typing.AverageTypingSpeed,
	}
}

// Deviation labels a value relative to its baseline.
type Deviation string

const (
	Typical  Deviation = "typical"
	Elevated Deviation = "elevated"
	Reduced  Deviation = "reduced"
)

// MetricAssessment is one metric's value scored against prior sessions.
type MetricAssessment struct {
	Metric    Metric    `json:"metric"`
	Value     float64   `json:"value"`
	Mean      float64   `json:"baseline_mean"`
	StdDev    float64   `json:"baseline_stddev"`
	ZScore    float64   `json:"z_score"`
	Samples   int       `json:"samples"`
	Deviation Deviation `json:"deviation"`
}

// Assessment is the result of processing one report.
type Assessment struct {
	Metrics []MetricAssessment `json:"metrics"`
	// SessionsSeen is the number of reports processed before this one.
	SessionsSeen int `json:"sessions_seen"`
}

// Get returns the assessment for m.
func (a Assessment) Get(m Metric) (MetricAssessment, bool) {
	for _, ma := range a.Metrics {
		if ma.Metric == m {
			return ma, true
		}
	}
	return MetricAssessment{}, false
}

// Deviations returns the metrics not labelled typical.
func (a Assessment) Deviations() []MetricAssessment {
	var out []MetricAssessment
	for _, ma := range a.Metrics {
		if ma.Deviation != Typical {
			out = append(out, ma)
		}
	}
	return out
}

// Processor scores reports against a rolling window of previous sessions.
// It is safe for concurrent use.
type Processor struct {
	mu         sync.Mutex
	window     int
	zThreshold float64
	sessions   int
	history    map[Metric][]float64
}

// NewProcessor returns a processor keeping the last window sessions per
// metric. Non-positive arguments select the defaults.
func NewProcessor(window int, zThreshold float64) *Processor {
	if window < 1 {
		window = DefaultWindow
	}
	if zThreshold <= 0 {
		zThreshold = DefaultZThreshold
	}
	return &Processor{
		window:     window,
		zThreshold: zThreshold,
		history:    make(map[Metric][]float64),
	}
}

// Window returns the number of sessions retained per metric.
func (p *Processor) Window() int {
	return p.window
}

// Sessions returns how many reports have been processed or loaded.
func (p *Processor) Sessions() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.sessions
}

// Process scores r against the current history and then records r's values,
// evicting the oldest when the window is full.
func (p *Processor) Process(r *analyzer.Report) Assessment {
	p.mu.Lock()
	defer p.mu.Unlock()

	values := Values(r)
	a := Assessment{
		Metrics:      make([]MetricAssessment, 0, len(Tracked)),
		SessionsSeen: p.sessions,
	}
	for _, m := range Tracked {
		a.Metrics = append(a.Metrics, p.score(m, values[m]))
	}

	for _, m := range Tracked {
		h := append(p.history[m], values[m])
		if len(h) > p.window {
			h = h[len(h)-p.window:]
		}
		p.history[m] = h
	}
	p.sessions++
	return a
}

func (p *Processor) score(m Metric, v float64) MetricAssessment {
	prior := p.history[m]
	ma := MetricAssessment{Metric: m, Value: v, Samples: len(prior), Deviation: Typical}
	if len(prior) == 0 {
		return ma
	}
	ma.Mean = mean(prior)
	ma.StdDev = stddev(prior, ma.Mean)
	if len(prior) < 2 || ma.StdDev == 0 {
		return ma
	}
	ma.ZScore = (v - ma.Mean) / ma.StdDev
	switch {
	case ma.ZScore >= p.zThreshold:
		ma.Deviation = Elevated
	case ma.ZScore <= -p.zThreshold:
		ma.Deviation = Reduced
	}
	return ma
}

// Reset drops all history.
func (p *Processor) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.history = make(map[Metric][]float64)
	p.sessions = 0
}

type savedBaselines struct {
	Version  int                  `json:"version"`
	Window   int                  `json:"window"`
	Sessions int                  `json:"sessions"`
	History  map[Metric][]float64 `json:"history"`
}

// Save serializes the history as JSON.
func (p *Processor) Save() ([]byte, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return json.Marshal(savedBaselines{
		Version:  FormatVersion,
		Window:   p.window,
		Sessions: p.sessions,
		History:  p.history,
	})
}

// Load replaces the history with previously saved data. Histories longer
// than the processor's window keep only their most recent values. Unknown
// metrics are dropped.
func (p *Processor) Load(data []byte) error {
	var saved savedBaselines
	if err := json.Unmarshal(data, &saved); err != nil {
		return fmt.Errorf("decoding baselines: %w", err)
	}
	if saved.Version != FormatVersion {
		return fmt.Errorf("unsupported baseline version %d", saved.Version)
	}

	history := make(map[Metric][]float64, len(Tracked))
	for _, m := range Tracked {
		h := saved.History[m]
		if len(h) > p.window {
			h = h[len(h)-p.window:]
		}
		for _, v := range h {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("baseline %s contains a non-finite value", m)
			}
		}
		if len(h) > 0 {
			history[m] = append([]float64(nil), h...)
		}
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.history = history
	p.sessions = saved.Sessions
	return nil
}

// History returns a copy of the retained values for m, oldest first.
func (p *Processor) History(m Metric) []float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]float64(nil), p.history[m]...)
}

func mean(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func stddev(values []float64, m float64) float64 {
	var ss float64
	for _, v := range values {
		d := v - m
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(values)))
}
