package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/blackwell-systems/behaviorwatch/internal/analyzer"
	"github.com/blackwell-systems/behaviorwatch/internal/event"
	"github.com/blackwell-systems/behaviorwatch/internal/store"
)

var base = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

// tapSession is a five-minute session with a tap every ten seconds.
func tapSession(id string) event.Session {
	s := event.Session{ID: id, StartTime: base, EndTime: base.Add(5 * time.Minute)}
	for ms := int64(0); ms <= 300000; ms += 10000 {
		s.Events = append(s.Events, event.Must(event.KindTap, base.Add(time.Duration(ms)*time.Millisecond), nil))
	}
	return s
}

func finalizeForTest(t *testing.T, s event.Session) *analyzer.Report {
	t.Helper()
	r, err := analyzer.Finalize(s)
	require.NoError(t, err)
	return r
}

func openTestDB(t *testing.T) *store.DB {
	t.Helper()
	db, err := store.OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}
