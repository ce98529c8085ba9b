package ingest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/blackwell-systems/behaviorwatch/internal/event"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

func TestStart_GeneratesID(t *testing.T) {
	s := NewStore()
	id, err := s.Start("", t0)
	require.NoError(t, err)
	assert.Len(t, id, 36)

	_, err = s.Start("second", t0)
	assert.ErrorIs(t, err, ErrSessionActive)
}

func TestAppend_CountersAndStamping(t *testing.T) {
	s := NewStore()
	_, err := s.Start("s1", t0)
	require.NoError(t, err)

	require.NoError(t, s.Append(event.Must(event.KindTap, t0.Add(time.Second), nil)))
	require.NoError(t, s.Append(event.Must(event.KindAppSwitch, t0.Add(2*time.Second), nil)))

	st := s.Status()
	assert.Equal(t, "s1", st.CurrentSessionID)
	assert.Equal(t, 2, st.EventCount)
	assert.Equal(t, 1, st.AppSwitchCount)

	cur, err := s.Current()
	require.NoError(t, err)
	for _, e := range cur.Events {
		assert.Equal(t, "s1", e.SessionID)
		assert.NotEmpty(t, e.ID)
	}
}

func TestAppend_NoSession(t *testing.T) {
	s := NewStore()
	err := s.Append(event.Must(event.KindTap, t0, nil))
	assert.ErrorIs(t, err, ErrNoActiveSession)
}

func TestEnd_ArchivesSnapshot(t *testing.T) {
	s := NewStore()
	_, err := s.Start("s1", t0)
	require.NoError(t, err)
	require.NoError(t, s.Append(event.Must(event.KindTap, t0.Add(time.Second), nil)))

	snap, err := s.End(t0.Add(time.Minute))
	require.NoError(t, err)
	assert.False(t, snap.Active())
	assert.Equal(t, int64(60000), snap.DurationMs())

	// Mutating the returned snapshot must not leak into the store.
	snap.Events[0] = event.Must(event.KindSwipe, t0, nil)
	again, err := s.Snapshot("s1")
	require.NoError(t, err)
	assert.Equal(t, event.KindTap, again.Events[0].Kind)

	_, err = s.Current()
	assert.ErrorIs(t, err, ErrNoActiveSession)
}

func TestEnd_BeforeStart(t *testing.T) {
	s := NewStore()
	_, err := s.Start("s1", t0)
	require.NoError(t, err)
	_, err = s.End(t0.Add(-time.Second))
	assert.Error(t, err)
}

func TestLookup_ActiveFrozenAtClock(t *testing.T) {
	s := NewStore()
	s.SetClock(func() time.Time { return t0.Add(5 * time.Minute) })
	_, err := s.Start("live", t0)
	require.NoError(t, err)

	snap, ok := s.Lookup("live")
	require.True(t, ok)
	assert.Equal(t, t0.Add(5*time.Minute), snap.EndTime)

	_, ok = s.Lookup("missing")
	assert.False(t, ok)

	_, err = s.Snapshot("missing")
	assert.True(t, errors.Is(err, ErrSessionNotFound))
}

func TestDiscard(t *testing.T) {
	s := NewStore()
	_, err := s.Start("s1", t0)
	require.NoError(t, err)
	_, err = s.End(t0.Add(time.Second))
	require.NoError(t, err)

	require.NoError(t, s.Discard("s1"))
	assert.ErrorIs(t, s.Discard("s1"), ErrSessionNotFound)
}

func TestConsume_UntilClosed(t *testing.T) {
	s := NewStore()
	_, err := s.Start("s1", t0)
	require.NoError(t, err)

	ch := make(chan event.Event, 3)
	for i := 0; i < 3; i++ {
		ch <- event.Must(event.KindTap, t0.Add(time.Duration(i)*time.Second), nil)
	}
	close(ch)

	require.NoError(t, s.Consume(context.Background(), ch))
	assert.Equal(t, 3, s.Status().EventCount)
}

func TestConsume_Cancelled(t *testing.T) {
	s := NewStore()
	_, err := s.Start("s1", t0)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = s.Consume(ctx, make(chan event.Event))
	assert.ErrorIs(t, err, context.Canceled)
}
