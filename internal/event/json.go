package event

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// wireEvent is the on-the-wire shape of an event.
type wireEvent struct {
	ID        string          `json:"event_id,omitempty"`
	SessionID string          `json:"session_id,omitempty"`
	Timestamp Timestamp       `json:"timestamp"`
	Kind      Kind            `json:"type"`
	Metrics   json.RawMessage `json:"metrics,omitempty"`
}

// MarshalJSON encodes the event as {event_id, session_id, timestamp, type, metrics}.
func (e Event) MarshalJSON() ([]byte, error) {
	w := wireEvent{
		ID:        e.ID,
		SessionID: e.SessionID,
		Timestamp: Timestamp(e.Timestamp),
		Kind:      e.Kind,
	}
	if e.Payload != nil {
		data, err := json.Marshal(e.Payload)
		if err != nil {
			return nil, err
		}
		w.Metrics = data
	}
	return json.Marshal(w)
}

// UnmarshalJSON decodes an event, dispatching the metrics payload on type.
func (e *Event) UnmarshalJSON(data []byte) error {
	var w wireEvent
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	if !w.Kind.Valid() {
		return fmt.Errorf("unknown event type %q", w.Kind)
	}

	payload, err := decodePayload(w.Kind, w.Metrics)
	if err != nil {
		return fmt.Errorf("decoding %s metrics: %w", w.Kind, err)
	}

	ev, err := New(w.Kind, time.Time(w.Timestamp), payload)
	if err != nil {
		return err
	}
	ev.ID = w.ID
	ev.SessionID = w.SessionID
	*e = ev
	return nil
}

func decodePayload(kind Kind, raw json.RawMessage) (Payload, error) {
	if len(bytes.TrimSpace(raw)) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		raw = json.RawMessage(`{}`)
	}
	switch kind {
	case KindTap:
		var p TapPayload
		err := json.Unmarshal(raw, &p)
		return p, err
	case KindScroll:
		var p ScrollPayload
		err := json.Unmarshal(raw, &p)
		return p, err
	case KindSwipe:
		return SwipePayload{}, nil
	case KindTyping:
		var p TypingPayload
		err := json.Unmarshal(raw, &p)
		return p, err
	case KindNotification, KindCall:
		p := InterruptionPayload{Action: ActionReceived}
		err := json.Unmarshal(raw, &p)
		return p, err
	case KindAppSwitch:
		return AppSwitchPayload{}, nil
	}
	return nil, fmt.Errorf("unknown event type %q", kind)
}

// Timestamp is a time.Time that decodes from either an RFC3339 string or an
// integer count of unix milliseconds, and encodes as RFC3339 with milliseconds.
type Timestamp time.Time

const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

// MarshalJSON implements json.Marshaler.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Time(t).UTC().Format(timestampLayout))
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*t = Timestamp{}
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		parsed, err := time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return fmt.Errorf("parsing timestamp %q: %w", s, err)
		}
		*t = Timestamp(parsed.Truncate(time.Millisecond))
		return nil
	}
	ms, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return fmt.Errorf("parsing timestamp %s: %w", data, err)
	}
	*t = Timestamp(time.UnixMilli(ms).UTC())
	return nil
}
