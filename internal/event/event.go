// Package event defines the typed interaction events and the session container
// consumed by the behavioral metrics engine.
package event

import (
	"fmt"
	"time"
)

// Kind identifies the type of an interaction event.
type Kind string

const (
	KindTap          Kind = "tap"
	KindScroll       Kind = "scroll"
	KindSwipe        Kind = "swipe"
	KindTyping       Kind = "typing"
	KindNotification Kind = "notification"
	KindCall         Kind = "call"
	KindAppSwitch    Kind = "app_switch"
)

// Kinds lists every supported event kind.
var Kinds = []Kind{
	KindTap, KindScroll, KindSwipe, KindTyping,
	KindNotification, KindCall, KindAppSwitch,
}

// Valid reports whether k is a known event kind.
func (k Kind) Valid() bool {
	for _, known := range Kinds {
		if k == known {
			return true
		}
	}
	return false
}

// Event is a single timestamped, typed, content-free interaction record.
// Events are immutable once created; the payload type always matches Kind.
type Event struct {
	ID        string
	SessionID string
	Timestamp time.Time
	Kind      Kind
	Payload   Payload
}

// New creates an event of the given kind. A nil payload is replaced by the
// zero payload for the kind. The timestamp is truncated to millisecond precision.
func New(kind Kind, at time.Time, payload Payload) (Event, error) {
	if !kind.Valid() {
		return Event{}, fmt.Errorf("unknown event kind %q", kind)
	}
	if payload == nil {
		payload = zeroPayload(kind)
	}
	if err := checkPayload(kind, payload); err != nil {
		return Event{}, err
	}
	return Event{
		Timestamp: at.Truncate(time.Millisecond),
		Kind:      kind,
		Payload:   payload,
	}, nil
}

// Must is like New but panics on error. Intended for tests and literals.
func Must(kind Kind, at time.Time, payload Payload) Event {
	e, err := New(kind, at, payload)
	if err != nil {
		panic(err)
	}
	return e
}

// UnixMilli returns the event timestamp in milliseconds since the epoch.
func (e Event) UnixMilli() int64 {
	return e.Timestamp.UnixMilli()
}

// IsInterruption reports whether the event breaks sustained engagement:
// notifications, calls, and app switches.
func (e Event) IsInterruption() bool {
	switch e.Kind {
	case KindNotification, KindCall, KindAppSwitch:
		return true
	}
	return false
}

// Tap returns the tap payload if the event is a tap.
func (e Event) Tap() (TapPayload, bool) {
	p, ok := e.Payload.(TapPayload)
	return p, ok && e.Kind == KindTap
}

// Scroll returns the scroll payload if the event is a scroll.
func (e Event) Scroll() (ScrollPayload, bool) {
	p, ok := e.Payload.(ScrollPayload)
	return p, ok && e.Kind == KindScroll
}

// Typing returns the typing session payload if the event is a typing event.
func (e Event) Typing() (TypingPayload, bool) {
	p, ok := e.Payload.(TypingPayload)
	return p, ok && e.Kind == KindTyping
}

// Interruption returns the action payload for notification and call events.
func (e Event) Interruption() (InterruptionPayload, bool) {
	p, ok := e.Payload.(InterruptionPayload)
	return p, ok && (e.Kind == KindNotification || e.Kind == KindCall)
}
