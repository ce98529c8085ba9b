// Package ingest owns mutable session state. Producers push typed events into
// the Store; the metrics engine only ever receives immutable snapshots.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/blackwell-systems/behaviorwatch/internal/event"
	"github.com/google/uuid"
)

var (
	// ErrSessionActive is returned by Start when a session is already current.
	ErrSessionActive = errors.New("a session is already active")

	// ErrNoActiveSession is returned when an operation needs a current session.
	ErrNoActiveSession = errors.New("no active session")

	// ErrSessionNotFound is returned for unknown session ids.
	ErrSessionNotFound = errors.New("session not found")
)

// Store is the single writer for session state. Exactly one session is
// current for ingestion; ended sessions are archived until discarded.
type Store struct {
	mu       sync.Mutex
	current  *event.Session
	archived map[string]*event.Session
	now      func() time.Time
}

// Status is a point-in-time view of ingestion counters.
type Status struct {
	CurrentSessionID string    `json:"current_session_id,omitempty"`
	StartedAt        time.Time `json:"started_at,omitempty"`
	EventCount       int       `json:"event_count"`
	AppSwitchCount   int       `json:"app_switch_count"`
	ArchivedSessions int       `json:"archived_sessions"`
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{
		archived: make(map[string]*event.Session),
		now:      time.Now,
	}
}

// SetClock overrides the time source used for snapshots of active sessions.
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// Start begins a new current session and returns its id. An empty id is
// replaced with a random UUID.
func (s *Store) Start(id string, at time.Time) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current != nil {
		return "", fmt.Errorf("starting %q: %w (current: %s)", id, ErrSessionActive, s.current.ID)
	}
	if id == "" {
		id = uuid.NewString()
	}
	if _, exists := s.archived[id]; exists {
		return "", fmt.Errorf("session %q already exists", id)
	}

	s.current = &event.Session{
		ID:        id,
		StartTime: at.Truncate(time.Millisecond),
	}
	return id, nil
}

// Append adds an event to the current session, stamping the session id and
// assigning an event id when the producer left it empty.
func (s *Store) Append(e event.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return ErrNoActiveSession
	}
	if e.Payload == nil || !e.Kind.Valid() {
		return fmt.Errorf("rejecting malformed %q event", e.Kind)
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	e.SessionID = s.current.ID

	s.current.Events = append(s.current.Events, e)
	s.current.EventCount++
	if e.Kind == event.KindAppSwitch {
		s.current.AppSwitchCount++
	}
	return nil
}

// End closes the current session at the given time, archives it, and returns
// an immutable snapshot.
func (s *Store) End(at time.Time) (event.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return event.Session{}, ErrNoActiveSession
	}
	at = at.Truncate(time.Millisecond)
	if at.Before(s.current.StartTime) {
		return event.Session{}, fmt.Errorf("end %s precedes start %s",
			at.Format(time.RFC3339), s.current.StartTime.Format(time.RFC3339))
	}

	s.current.EndTime = at
	ended := s.current
	s.archived[ended.ID] = ended
	s.current = nil
	return ended.Clone(), nil
}

// Current returns a snapshot of the current session.
func (s *Store) Current() (event.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return event.Session{}, ErrNoActiveSession
	}
	return s.current.Clone(), nil
}

// Snapshot returns a deep copy of the session with the given id, current or
// archived. An active session is frozen at the store clock's current time.
func (s *Store) Snapshot(id string) (event.Session, error) {
	snap, ok := s.Lookup(id)
	if !ok {
		return event.Session{}, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return snap, nil
}

// Lookup is like Snapshot but reports absence with a bool.
func (s *Store) Lookup(id string) (event.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current != nil && s.current.ID == id {
		snap := s.current.Clone()
		snap.EndTime = s.now().Truncate(time.Millisecond)
		if snap.EndTime.Before(snap.StartTime) {
			snap.EndTime = snap.StartTime
		}
		return snap, true
	}
	if sess, ok := s.archived[id]; ok {
		return sess.Clone(), true
	}
	return event.Session{}, false
}

// Discard drops an archived session once the caller has consumed it.
func (s *Store) Discard(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.archived[id]; !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	delete(s.archived, id)
	return nil
}

// Status returns ingestion counters. Hosts that want periodic status call it
// from their own scheduler.
func (s *Store) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := Status{ArchivedSessions: len(s.archived)}
	if s.current != nil {
		st.CurrentSessionID = s.current.ID
		st.StartedAt = s.current.StartTime
		st.EventCount = s.current.EventCount
		st.AppSwitchCount = s.current.AppSwitchCount
	}
	return st
}

// Consume appends every event received on ch to the current session until ch
// is closed or ctx is cancelled. The first append error stops consumption.
func (s *Store) Consume(ctx context.Context, ch <-chan event.Event) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case e, ok := <-ch:
			if !ok {
				return nil
			}
			if err := s.Append(e); err != nil {
				return fmt.Errorf("appending %s event: %w", e.Kind, err)
			}
		}
	}
}
