package event

import (
	"fmt"
	"time"
)

// Payload is the kind-specific data carried by an event. The set of
// implementations is closed; each event kind has exactly one payload type.
type Payload interface {
	payloadKind() Kind
}

// Direction is the dominant direction of a scroll gesture.
type Direction string

const (
	DirectionUp    Direction = "up"
	DirectionDown  Direction = "down"
	DirectionLeft  Direction = "left"
	DirectionRight Direction = "right"
)

// Valid reports whether d is a known direction.
func (d Direction) Valid() bool {
	switch d {
	case DirectionUp, DirectionDown, DirectionLeft, DirectionRight:
		return true
	}
	return false
}

// Action is the outcome tag for notification and call events.
type Action string

const (
	ActionReceived Action = "received"
	ActionOpened   Action = "opened"
	ActionAnswered Action = "answered"
	ActionIgnored  Action = "ignored"
)

// Valid reports whether a is a known action.
func (a Action) Valid() bool {
	switch a {
	case ActionReceived, ActionOpened, ActionAnswered, ActionIgnored:
		return true
	}
	return false
}

// TapPayload is carried by tap events.
type TapPayload struct {
	LongPress bool `json:"long_press"`
}

// ScrollPayload is carried by scroll events.
type ScrollPayload struct {
	Velocity  float64   `json:"velocity"`
	Direction Direction `json:"direction"`
}

// SwipePayload is carried by swipe events. Swipes are counted only.
type SwipePayload struct{}

// AppSwitchPayload is carried by app_switch events. Presence is all that matters.
type AppSwitchPayload struct{}

// InterruptionPayload is carried by notification and call events.
type InterruptionPayload struct {
	Action Action `json:"action"`
}

// TypingPayload holds one completed typing session, pre-aggregated by the
// per-field collector upstream of the engine.
type TypingPayload struct {
	TapCount               int       `json:"tap_count"`
	TypingSpeed            float64   `json:"typing_speed"`
	DurationSeconds        float64   `json:"duration_seconds"`
	MeanInterTapIntervalMs float64   `json:"mean_inter_tap_interval_ms"`
	CadenceStability       float64   `json:"cadence_stability"`
	GapCount               int       `json:"gap_count"`
	GapRatio               float64   `json:"gap_ratio"`
	Burstiness             float64   `json:"burstiness"`
	DeepTyping             bool      `json:"deep_typing"`
	BackspaceCount         int       `json:"backspace_count"`
	CopyCount              int       `json:"copy_count"`
	PasteCount             int       `json:"paste_count"`
	CutCount               int       `json:"cut_count"`
	StartAt                time.Time `json:"start_at"`
	EndAt                  time.Time `json:"end_at"`
}

func (TapPayload) payloadKind() Kind       { return KindTap }
func (ScrollPayload) payloadKind() Kind    { return KindScroll }
func (SwipePayload) payloadKind() Kind     { return KindSwipe }
func (AppSwitchPayload) payloadKind() Kind { return KindAppSwitch }
func (TypingPayload) payloadKind() Kind    { return KindTyping }

// InterruptionPayload serves both notification and call events.
func (InterruptionPayload) payloadKind() Kind { return KindNotification }

// zeroPayload returns the empty payload value for a kind.
func zeroPayload(kind Kind) Payload {
	switch kind {
	case KindTap:
		return TapPayload{}
	case KindScroll:
		return ScrollPayload{}
	case KindSwipe:
		return SwipePayload{}
	case KindTyping:
		return TypingPayload{}
	case KindNotification, KindCall:
		return InterruptionPayload{Action: ActionReceived}
	case KindAppSwitch:
		return AppSwitchPayload{}
	}
	return nil
}

// checkPayload verifies that the payload type and its enum fields agree with kind.
func checkPayload(kind Kind, p Payload) error {
	want := kind
	if kind == KindCall {
		want = KindNotification
	}
	if p.payloadKind() != want {
		return fmt.Errorf("payload %T does not match event kind %q", p, kind)
	}
	switch v := p.(type) {
	case ScrollPayload:
		if !v.Direction.Valid() {
			return fmt.Errorf("invalid scroll direction %q", v.Direction)
		}
	case InterruptionPayload:
		if !v.Action.Valid() {
			return fmt.Errorf("invalid %s action %q", kind, v.Action)
		}
	}
	return nil
}
