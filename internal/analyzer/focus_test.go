package analyzer

import (
	"testing"

	"github.com/blackwell-systems/behaviorwatch/internal/event"
)

func focusBlocks(durationMs int64, events []event.Event) []FocusBlock {
	return DeepFocusBlocks(event.SortByTime(events), base, at(durationMs), DefaultOptions())
}

type span struct{ from, to int64 }

func spans(blocks []FocusBlock) []span {
	out := make([]span, 0, len(blocks))
	for _, b := range blocks {
		out = append(out, span{b.StartAt.Sub(base).Milliseconds(), b.EndAt.Sub(base).Milliseconds()})
	}
	return out
}

func TestDeepFocusBlocks(t *testing.T) {
	withNotification := append(taps(0, 150000, 10000), notification(160000, event.ActionIgnored))
	withNotification = append(withNotification, taps(170000, 400000, 10000)...)

	withIdle := append(taps(0, 20000, 10000), taps(160000, 300000, 10000)...)

	withSwitch := append(taps(0, 130000, 10000), appSwitch(135000))
	withSwitch = append(withSwitch, taps(200000, 250000, 10000)...)

	tests := []struct {
		name       string
		durationMs int64
		events     []event.Event
		want       []span
	}{
		{
			name:       "continuous engagement spans the session",
			durationMs: 300000,
			events:     taps(0, 300000, 10000),
			want:       []span{{0, 300000}},
		},
		{
			name:       "notification splits and the next block starts at it",
			durationMs: 400000,
			events:     withNotification,
			want:       []span{{0, 150000}, {160000, 400000}},
		},
		{
			name:       "idle gap drops the short leading block",
			durationMs: 300000,
			events:     withIdle,
			// The event that ends the gap only breaks; the block starts at the next one.
			want: []span{{170000, 300000}},
		},
		{
			name:       "app switch breaks and short tail is dropped",
			durationMs: 250000,
			events:     withSwitch,
			want:       []span{{0, 130000}},
		},
		{
			name:       "tail within idle threshold extends to session end",
			durationMs: 220000,
			events:     taps(0, 200000, 10000),
			want:       []span{{0, 220000}},
		},
		{
			name:       "tail beyond idle threshold stops at last event",
			durationMs: 500000,
			events:     taps(0, 200000, 10000),
			want:       []span{{0, 200000}},
		},
		{
			name:       "first event after a long lead-in does not anchor at session start",
			durationMs: 300000,
			events:     taps(40000, 300000, 10000),
			want:       []span{{50000, 300000}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := spans(focusBlocks(tt.durationMs, tt.events))
			if len(got) != len(tt.want) {
				t.Fatalf("got %d blocks %v, want %v", len(got), got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("block %d = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestDeepFocusBlocks_ShortSessionIsEmptyNotNil(t *testing.T) {
	got := focusBlocks(60000, taps(0, 60000, 10000))
	if got == nil {
		t.Fatal("expected empty non-nil slice")
	}
	if len(got) != 0 {
		t.Errorf("expected no blocks, got %v", spans(got))
	}
}

func TestDeepFocusBlocks_Invariants(t *testing.T) {
	events := append(taps(0, 200000, 5000), notification(205000, event.ActionOpened))
	events = append(events, taps(210000, 400000, 5000)...)
	events = append(events, call(420000, event.ActionAnswered))
	events = append(events, taps(425000, 700000, 7000)...)

	blocks := focusBlocks(700000, events)
	if len(blocks) < 2 {
		t.Fatalf("expected at least 2 blocks, got %d", len(blocks))
	}
	for i, b := range blocks {
		if b.DurationMs < DefaultDeepFocusMin.Milliseconds() {
			t.Errorf("block %d too short: %dms", i, b.DurationMs)
		}
		if b.DurationMs != b.EndAt.Sub(b.StartAt).Milliseconds() {
			t.Errorf("block %d duration %d disagrees with bounds", i, b.DurationMs)
		}
		if i > 0 && b.StartAt.Before(blocks[i-1].EndAt) {
			t.Errorf("block %d overlaps block %d", i, i-1)
		}
	}
}
