package watcher

import (
	"strings"
	"testing"

	"github.com/blackwell-systems/behaviorwatch/internal/analyzer"
	"github.com/blackwell-systems/behaviorwatch/internal/baseline"
)

func stateWith(id string, mutate func(b *analyzer.BehavioralMetrics)) *WatchState {
	r := &analyzer.Report{}
	r.Behavioral.FocusHint = 1
	r.Behavioral.DeepFocusBlocks = []analyzer.FocusBlock{}
	if mutate != nil {
		mutate(&r.Behavioral)
	}
	return &WatchState{SessionID: id, Minutes: 30, Report: r}
}

func levels(alerts []Alert) map[string]int {
	out := make(map[string]int)
	for _, a := range alerts {
		out[a.Level]++
	}
	return out
}

func TestCompare_NilCurrent(t *testing.T) {
	if got := Compare(nil, nil, testThresholds); got != nil {
		t.Errorf("expected nil, got %v", got)
	}
	if got := Compare(nil, &WatchState{}, testThresholds); got != nil {
		t.Errorf("expected nil for state without report, got %v", got)
	}
}

func TestCompare_FirstSessionOnlyInfo(t *testing.T) {
	alerts := Compare(nil, stateWith("s1", nil), testThresholds)
	if len(alerts) != 1 || alerts[0].Level != "info" {
		t.Fatalf("expected a single info alert, got %+v", alerts)
	}
	if alerts[0].Title != "Session analyzed: s1" {
		t.Errorf("Title = %q", alerts[0].Title)
	}
}

func TestCompare_DistractionThreshold(t *testing.T) {
	tests := []struct {
		name  string
		score float64
		want  int
	}{
		{"below", 0.5, 0},
		{"at threshold", 0.7, 0},
		{"above", 0.71, 1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			curr := stateWith("s", func(b *analyzer.BehavioralMetrics) {
				b.DistractionScore = tc.score
				b.FocusHint = 1 - tc.score
			})
			if got := levels(Compare(nil, curr, testThresholds))["critical"]; got != tc.want {
				t.Errorf("critical alerts = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestCompare_DisabledThresholds(t *testing.T) {
	prev := stateWith("a", nil)
	curr := stateWith("b", func(b *analyzer.BehavioralMetrics) {
		b.DistractionScore = 0.95
		b.FocusHint = 0.05
		b.NotificationLoad = 0.99
	})
	got := levels(Compare(prev, curr, Thresholds{}))
	if got["critical"] != 0 || got["warning"] != 0 {
		t.Errorf("zero thresholds should disable alerts, got %v", got)
	}
}

func TestCompare_FocusDropAndRecovery(t *testing.T) {
	high := stateWith("a", func(b *analyzer.BehavioralMetrics) { b.FocusHint = 0.9 })
	low := stateWith("b", func(b *analyzer.BehavioralMetrics) { b.FocusHint = 0.6 })

	down := Compare(high, low, testThresholds)
	if !hasTitle(down, "Focus dropped") {
		t.Errorf("expected focus drop warning, got %v", titles(down))
	}
	if hasTitle(down, "Focus improved") {
		t.Errorf("unexpected improvement alert, got %v", titles(down))
	}

	up := Compare(low, high, testThresholds)
	if !hasTitle(up, "Focus improved") {
		t.Errorf("expected focus improvement, got %v", titles(up))
	}

	small := stateWith("c", func(b *analyzer.BehavioralMetrics) { b.FocusHint = 0.8 })
	if got := Compare(high, small, testThresholds); hasTitle(got, "Focus dropped") {
		t.Errorf("0.1 drop should not warn, got %v", titles(got))
	}
}

func TestCompare_NotificationLoadOnlyWhenCrossing(t *testing.T) {
	loaded := func(id string) *WatchState {
		return stateWith(id, func(b *analyzer.BehavioralMetrics) { b.NotificationLoad = 0.9 })
	}
	if got := Compare(stateWith("a", nil), loaded("b"), testThresholds); !hasTitle(got, "Notification load spike") {
		t.Errorf("expected spike on crossing, got %v", titles(got))
	}
	if got := Compare(loaded("b"), loaded("c"), testThresholds); hasTitle(got, "Notification load spike") {
		t.Errorf("sustained load should not re-alert, got %v", titles(got))
	}
}

func TestCompare_BaselineDeviations(t *testing.T) {
	curr := stateWith("s", nil)
	curr.Assessment = baseline.Assessment{
		SessionsSeen: 8,
		Metrics: []baseline.MetricAssessment{
			{Metric: baseline.DistractionScore, Value: 0.6, Mean: 0.2, ZScore: 3.1, Samples: 8, Deviation: baseline.Elevated},
			{Metric: baseline.FocusHint, Value: 0.4, Mean: 0.8, ZScore: -3.1, Samples: 8, Deviation: baseline.Reduced},
			{Metric: baseline.TypingSpeed, Value: 1, Mean: 4, ZScore: -2.4, Samples: 8, Deviation: baseline.Reduced},
			{Metric: baseline.Burstiness, Value: 0.5, Mean: 0.5, Samples: 8, Deviation: baseline.Typical},
		},
	}
	var deviations []Alert
	for _, a := range Compare(nil, curr, testThresholds) {
		if strings.HasPrefix(a.Title, "Baseline deviation") {
			deviations = append(deviations, a)
		}
	}
	if len(deviations) != 2 {
		t.Fatalf("expected 2 deviation alerts, got %v", titles(deviations))
	}
	if deviations[0].Title != "Baseline deviation: behavioral_distraction_score" {
		t.Errorf("first deviation = %q", deviations[0].Title)
	}
	if !strings.Contains(deviations[1].Message, "reduced") || !strings.Contains(deviations[1].Message, "z=-2.4") {
		t.Errorf("unexpected message %q", deviations[1].Message)
	}
}

func TestCompare_DeepFocusSummary(t *testing.T) {
	curr := stateWith("s", func(b *analyzer.BehavioralMetrics) {
		b.DeepFocusBlocks = []analyzer.FocusBlock{{DurationMs: 180000}, {DurationMs: 150000}}
	})
	var found bool
	for _, a := range Compare(nil, curr, testThresholds) {
		if a.Title == "Deep focus achieved" {
			found = true
			if !strings.Contains(a.Message, "2 block(s) totalling 5.5 min") {
				t.Errorf("unexpected message %q", a.Message)
			}
		}
	}
	if !found {
		t.Error("missing deep focus alert")
	}
}
