package analyzer

import (
	"math"
	"time"

	"github.com/blackwell-systems/behaviorwatch/internal/event"
)

var base = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

func at(ms int64) time.Time {
	return base.Add(time.Duration(ms) * time.Millisecond)
}

func tap(ms int64) event.Event {
	return event.Must(event.KindTap, at(ms), nil)
}

func swipe(ms int64) event.Event {
	return event.Must(event.KindSwipe, at(ms), nil)
}

func scroll(ms int64, dir event.Direction) event.Event {
	return event.Must(event.KindScroll, at(ms), event.ScrollPayload{Velocity: 1, Direction: dir})
}

func notification(ms int64, action event.Action) event.Event {
	return event.Must(event.KindNotification, at(ms), event.InterruptionPayload{Action: action})
}

func call(ms int64, action event.Action) event.Event {
	return event.Must(event.KindCall, at(ms), event.InterruptionPayload{Action: action})
}

func appSwitch(ms int64) event.Event {
	return event.Must(event.KindAppSwitch, at(ms), nil)
}

func typing(ms int64, p event.TypingPayload) event.Event {
	return event.Must(event.KindTyping, at(ms), p)
}

// taps returns tap events from fromMs to toMs inclusive, every stepMs.
func taps(fromMs, toMs, stepMs int64) []event.Event {
	var out []event.Event
	for ms := fromMs; ms <= toMs; ms += stepMs {
		out = append(out, tap(ms))
	}
	return out
}

func session(durationMs int64, events ...event.Event) event.Session {
	return event.Session{
		ID:        "test-session",
		StartTime: base,
		EndTime:   at(durationMs),
		Events:    events,
	}
}

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}
