package event

import (
	"encoding/json"
	"slices"
	"time"
)

// Session is a bounded interval of application usage and the events that
// accumulated during it. EndTime is zero while the session is active.
//
// The engine only ever sees a Clone of a session, never the live value owned
// by the ingestion layer.
type Session struct {
	ID        string
	StartTime time.Time
	EndTime   time.Time
	Events    []Event

	// EventCount and AppSwitchCount are running counters maintained by the
	// ingestion layer as events are appended.
	EventCount     int
	AppSwitchCount int
}

// Active reports whether the session has not been ended yet.
func (s Session) Active() bool {
	return s.EndTime.IsZero()
}

// Duration returns EndTime - StartTime, or 0 for an active session.
func (s Session) Duration() time.Duration {
	if s.Active() {
		return 0
	}
	return s.EndTime.Sub(s.StartTime)
}

// DurationMs returns the session duration in whole milliseconds.
func (s Session) DurationMs() int64 {
	if s.Active() {
		return 0
	}
	return s.EndTime.UnixMilli() - s.StartTime.UnixMilli()
}

// Clone returns a deep copy of the session suitable for handing to the engine.
func (s Session) Clone() Session {
	out := s
	out.Events = slices.Clone(s.Events)
	return out
}

// Sorted returns a copy of the events ordered by timestamp. The sort is stable,
// so events sharing a timestamp keep their insertion order.
func (s Session) Sorted() []Event {
	return SortByTime(s.Events)
}

// Between returns the events whose timestamps fall in [start, end], inclusive,
// in their original order.
func (s Session) Between(start, end time.Time) []Event {
	lo, hi := start.UnixMilli(), end.UnixMilli()
	var out []Event
	for _, e := range s.Events {
		ts := e.UnixMilli()
		if ts >= lo && ts <= hi {
			out = append(out, e)
		}
	}
	return out
}

// SortByTime returns a stably sorted copy of events by timestamp.
func SortByTime(events []Event) []Event {
	sorted := slices.Clone(events)
	slices.SortStableFunc(sorted, func(a, b Event) int {
		return a.Timestamp.Compare(b.Timestamp)
	})
	return sorted
}

// CountKind returns the number of events of the given kind.
func CountKind(events []Event, kind Kind) int {
	n := 0
	for _, e := range events {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

// wireSession is the on-disk shape of a session.
type wireSession struct {
	ID             string     `json:"session_id"`
	StartTime      Timestamp  `json:"start_time"`
	EndTime        *Timestamp `json:"end_time,omitempty"`
	EventCount     int        `json:"event_count,omitempty"`
	AppSwitchCount int        `json:"app_switch_count,omitempty"`
	Events         []Event    `json:"events"`
}

// MarshalJSON encodes the session; end_time is omitted while active.
func (s Session) MarshalJSON() ([]byte, error) {
	w := wireSession{
		ID:             s.ID,
		StartTime:      Timestamp(s.StartTime),
		EventCount:     s.EventCount,
		AppSwitchCount: s.AppSwitchCount,
		Events:         s.Events,
	}
	if w.Events == nil {
		w.Events = []Event{}
	}
	if !s.Active() {
		end := Timestamp(s.EndTime)
		w.EndTime = &end
	}
	return json.Marshal(w)
}

// UnmarshalJSON decodes a session. The counters are always derived from the
// events; stored values are ignored.
func (s *Session) UnmarshalJSON(data []byte) error {
	var w wireSession
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	out := Session{
		ID:             w.ID,
		StartTime:      time.Time(w.StartTime),
		Events:         w.Events,
		EventCount:     len(w.Events),
		AppSwitchCount: CountKind(w.Events, KindAppSwitch),
	}
	if w.EndTime != nil {
		out.EndTime = time.Time(*w.EndTime)
	}
	for i := range out.Events {
		if out.Events[i].SessionID == "" {
			out.Events[i].SessionID = out.ID
		}
	}
	*s = out
	return nil
}
