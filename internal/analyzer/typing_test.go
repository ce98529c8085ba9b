package analyzer

import (
	"testing"

	"github.com/blackwell-systems/behaviorwatch/internal/event"
)

func typingFixture() []event.Event {
	return []event.Event{
		tap(0),
		typing(1000, event.TypingPayload{
			TapCount: 100, TypingSpeed: 5, DurationSeconds: 30,
			MeanInterTapIntervalMs: 300, CadenceStability: 0.8, Burstiness: 0.4,
			GapRatio: 0.1, DeepTyping: true,
			BackspaceCount: 10, CopyCount: 2, PasteCount: 2, CutCount: 1,
		}),
		tap(40000),
		swipe(50000),
		typing(60000, event.TypingPayload{
			TapCount: 50, TypingSpeed: 1, DurationSeconds: 10,
			MeanInterTapIntervalMs: 200, CadenceStability: 0.6, Burstiness: 0.2,
			GapRatio: 0.3, BackspaceCount: 5,
		}),
		tap(80000),
		tap(90000),
		tap(100000),
	}
}

func TestAggregateTyping_NoTypingEvents(t *testing.T) {
	got := AggregateTyping([]event.Event{tap(0), tap(1000)}, 2, 60000, DefaultOptions())
	if got.TypingSessionCount != 0 {
		t.Errorf("TypingSessionCount = %d, want 0", got.TypingSessionCount)
	}
	if got.TypingMetrics == nil || len(got.TypingMetrics) != 0 {
		t.Errorf("TypingMetrics = %v, want empty non-nil", got.TypingMetrics)
	}
	if got.AverageTypingSpeed != 0 || got.ActiveTypingRatio != 0 || got.CorrectionRate != 0 {
		t.Errorf("expected zero averages, got %+v", got)
	}
}

func TestAggregateTyping_Averages(t *testing.T) {
	events := typingFixture()
	got := AggregateTyping(events, len(events), 200000, DefaultOptions())

	checks := []struct {
		name      string
		got, want float64
	}{
		{"AverageKeystrokesPerSession", got.AverageKeystrokesPerSession, 75},
		{"AverageTypingSessionDuration", got.AverageTypingSessionDuration, 20},
		{"AverageTypingSpeed", got.AverageTypingSpeed, 3},
		{"AverageTypingGap", got.AverageTypingGap, 250},
		{"AverageInterTapInterval", got.AverageInterTapInterval, 250},
		{"TypingCadenceStability", got.TypingCadenceStability, 0.7},
		{"BurstinessOfTyping", got.BurstinessOfTyping, 0.3},
		{"TypingFragmentation", got.TypingFragmentation, 0.2},
		{"TotalTypingDuration", got.TotalTypingDuration, 40},
		{"ActiveTypingRatio", got.ActiveTypingRatio, 0.2},
		{"TypingContribution", got.TypingContribution, 0.25},
		{"CorrectionRate", got.CorrectionRate, 0.1},
		{"ClipboardActivityRate", got.ClipboardActivityRate, 5.0 / 150.0},
	}
	for _, c := range checks {
		if !approxEqual(c.got, c.want) {
			t.Errorf("%s = %v, want %v", c.name, c.got, c.want)
		}
	}
	if got.TypingSessionCount != 2 {
		t.Errorf("TypingSessionCount = %d, want 2", got.TypingSessionCount)
	}
	if got.DeepTypingBlocks != 1 {
		t.Errorf("DeepTypingBlocks = %d, want 1", got.DeepTypingBlocks)
	}
	if len(got.TypingMetrics) != 2 || got.TypingMetrics[0].TapCount != 100 || got.TypingMetrics[1].TapCount != 50 {
		t.Errorf("TypingMetrics not passed through in order: %+v", got.TypingMetrics)
	}
}

func TestAggregateTyping_Normalization(t *testing.T) {
	events := typingFixture()
	tests := []struct {
		mode           Normalization
		wantCorrection float64
		wantClipboard  float64
	}{
		{PerKeystroke, 0.1, 5.0 / 150.0},
		{PerTypingSession, 7.5, 2.5},
		{PerMinute, 4.5, 1.5},
	}
	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			opts := DefaultOptions()
			opts.Normalization = tt.mode
			got := AggregateTyping(events, len(events), 200000, opts)
			if !approxEqual(got.CorrectionRate, tt.wantCorrection) {
				t.Errorf("CorrectionRate = %v, want %v", got.CorrectionRate, tt.wantCorrection)
			}
			if !approxEqual(got.ClipboardActivityRate, tt.wantClipboard) {
				t.Errorf("ClipboardActivityRate = %v, want %v", got.ClipboardActivityRate, tt.wantClipboard)
			}
		})
	}
}

func TestAggregateTyping_ActiveRatioClamped(t *testing.T) {
	events := []event.Event{typing(0, event.TypingPayload{TapCount: 10, DurationSeconds: 90})}
	got := AggregateTyping(events, 1, 60000, DefaultOptions())
	if got.ActiveTypingRatio != 1 {
		t.Errorf("ActiveTypingRatio = %v, want 1", got.ActiveTypingRatio)
	}
}
