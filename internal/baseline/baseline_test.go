package baseline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blackwell-systems/behaviorwatch/internal/analyzer"
)

func reportWith(distraction, speed float64) *analyzer.Report {
	r := &analyzer.Report{}
	r.Behavioral.DistractionScore = distraction
	r.Behavioral.FocusHint = 1 - distraction
	r.Typing.AverageTypingSpeed = speed
	return r
}

func TestNewProcessor_Defaults(t *testing.T) {
	p := NewProcessor(0, 0)
	assert.Equal(t, DefaultWindow, p.Window())
	assert.Equal(t, DefaultZThreshold, p.zThreshold)
}

func TestProcess_FirstSessionIsTypical(t *testing.T) {
	p := NewProcessor(5, 2)
	a := p.Process(reportWith(0.4, 3))

	assert.Equal(t, 0, a.SessionsSeen)
	require.Len(t, a.Metrics, len(Tracked))
	for _, ma := range a.Metrics {
		assert.Equal(t, Typical, ma.Deviation, ma.Metric)
		assert.Zero(t, ma.ZScore)
		assert.Zero(t, ma.Samples)
	}
	assert.Equal(t, 1, p.Sessions())
}

func TestProcess_ZScoreAndLabels(t *testing.T) {
	p := NewProcessor(10, 2)
	// distraction history 0.2, 0.4: mean 0.3, stddev 0.1
	p.Process(reportWith(0.2, 4))
	p.Process(reportWith(0.4, 4))

	a := p.Process(reportWith(0.6, 4))
	d, ok := a.Get(DistractionScore)
	require.True(t, ok)
	assert.InDelta(t, 0.3, d.Mean, 1e-12)
	assert.InDelta(t, 0.1, d.StdDev, 1e-12)
	assert.InDelta(t, 3.0, d.ZScore, 1e-9)
	assert.Equal(t, Elevated, d.Deviation)
	assert.Equal(t, 2, d.Samples)

	f, ok := a.Get(FocusHint)
	require.True(t, ok)
	assert.Equal(t, Reduced, f.Deviation)

	// Constant history has zero spread, so no deviation is reported.
	s, ok := a.Get(TypingSpeed)
	require.True(t, ok)
	assert.Zero(t, s.ZScore)
	assert.Equal(t, Typical, s.Deviation)

	devs := a.Deviations()
	assert.Len(t, devs, 2)
}

func TestProcess_WindowEvictsOldest(t *testing.T) {
	p := NewProcessor(3, 2)
	for _, v := range []float64{0.1, 0.2, 0.3, 0.4, 0.5} {
		p.Process(reportWith(v, 1))
	}
	assert.Equal(t, []float64{0.3, 0.4, 0.5}, p.History(DistractionScore))
	assert.Equal(t, 5, p.Sessions())
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	p := NewProcessor(4, 2)
	p.Process(reportWith(0.2, 3))
	p.Process(reportWith(0.3, 5))

	data, err := p.Save()
	require.NoError(t, err)

	q := NewProcessor(4, 2)
	require.NoError(t, q.Load(data))
	assert.Equal(t, p.History(DistractionScore), q.History(DistractionScore))
	assert.Equal(t, p.History(TypingSpeed), q.History(TypingSpeed))
	assert.Equal(t, 2, q.Sessions())

	// Both processors score the next report identically.
	next := reportWith(0.9, 1)
	assert.Equal(t, p.Process(next), q.Process(next))
}

func TestLoad_TrimsToSmallerWindow(t *testing.T) {
	p := NewProcessor(5, 2)
	for _, v := range []float64{0.1, 0.2, 0.3, 0.4, 0.5} {
		p.Process(reportWith(v, 1))
	}
	data, err := p.Save()
	require.NoError(t, err)

	q := NewProcessor(2, 2)
	require.NoError(t, q.Load(data))
	assert.Equal(t, []float64{0.4, 0.5}, q.History(DistractionScore))
}

func TestLoad_Errors(t *testing.T) {
	p := NewProcessor(3, 2)
	assert.Error(t, p.Load([]byte("not json")))
	assert.Error(t, p.Load([]byte(`{"version": 99, "window": 3, "history": {}}`)))
}

func TestReset(t *testing.T) {
	p := NewProcessor(3, 2)
	p.Process(reportWith(0.5, 1))
	p.Reset()
	assert.Zero(t, p.Sessions())
	assert.Empty(t, p.History(DistractionScore))
}
