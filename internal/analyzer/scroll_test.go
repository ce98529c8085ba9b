package analyzer

import (
	"testing"

	"github.com/blackwell-systems/behaviorwatch/internal/event"
)

func TestAnalyzeScroll(t *testing.T) {
	alternating := make([]event.Event, 0, 10)
	steady := make([]event.Event, 0, 10)
	for i := int64(0); i < 10; i++ {
		dir := event.DirectionUp
		if i%2 == 1 {
			dir = event.DirectionDown
		}
		alternating = append(alternating, scroll(i*1000, dir))
		steady = append(steady, scroll(i*1000, event.DirectionDown))
	}

	tests := []struct {
		name          string
		events        []event.Event
		wantReversals int
		wantRate      float64
	}{
		{"alternating", alternating, 9, 1.0},
		{"same direction", steady, 0, 0.0},
		{"single scroll", alternating[:1], 0, 0},
		{"no scrolls", []event.Event{tap(0), tap(1000)}, 0, 0},
		{
			name: "non-scroll events between scrolls",
			events: []event.Event{
				scroll(0, event.DirectionUp), tap(500),
				scroll(1000, event.DirectionUp), tap(1500),
				scroll(2000, event.DirectionLeft),
			},
			wantReversals: 1,
			wantRate:      0.5,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AnalyzeScroll(tt.events)
			if got.DirectionReversals != tt.wantReversals {
				t.Errorf("DirectionReversals = %d, want %d", got.DirectionReversals, tt.wantReversals)
			}
			if !approxEqual(got.JitterRate, tt.wantRate) {
				t.Errorf("JitterRate = %v, want %v", got.JitterRate, tt.wantRate)
			}
		})
	}
}
