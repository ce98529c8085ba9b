package app

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blackwell-systems/behaviorwatch/internal/baseline"
	"github.com/blackwell-systems/behaviorwatch/internal/eventlog"
	"github.com/blackwell-systems/behaviorwatch/internal/store"
)

// testWorkspace writes a config pointing the database and inbox into a
// temp dir, plus two session logs.
func testWorkspace(t *testing.T) (cfgPath, dbPath string, sessions []string) {
	t.Helper()
	dir := t.TempDir()
	dbPath = filepath.Join(dir, "data", "behaviorwatch.db")
	cfgPath = filepath.Join(dir, "config.yaml")
	cfg := fmt.Sprintf("inbox_dir: %s\ndb_path: %s\noutput:\n  color: false\n",
		filepath.Join(dir, "inbox"), dbPath)
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0o644))

	for _, id := range []string{"first", "second"} {
		path := filepath.Join(dir, id+".jsonl")
		require.NoError(t, eventlog.WriteSessionFile(path, tapSession(id)))
		sessions = append(sessions, path)
	}
	return cfgPath, dbPath, sessions
}

func execute(t *testing.T, args ...string) error {
	t.Helper()
	t.Cleanup(func() {
		flagJSON, flagConfig = false, ""
		reportSave, recomputeSave = false, false
		recomputeFrom, recomputeTo = "", ""
		trackCompare = 1
	})
	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}

func TestTrack_EndToEnd(t *testing.T) {
	cfgPath, dbPath, sessions := testWorkspace(t)

	require.NoError(t, execute(t, "track", sessions[0], "--config", cfgPath, "--json"))
	require.NoError(t, execute(t, "track", sessions[1], "--config", cfgPath, "--json"))

	db, err := store.Open(dbPath)
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	reports, err := db.ListReports(10)
	require.NoError(t, err)
	require.Len(t, reports, 2)
	assert.Equal(t, "second", reports[0].SessionID)
	assert.Equal(t, "first", reports[1].SessionID)

	proc := baseline.NewProcessor(0, 0)
	require.NoError(t, db.RestoreProcessor(proc))
	assert.Equal(t, 2, proc.Sessions())

	points, err := db.MetricHistory("focus_hint", 5)
	require.NoError(t, err)
	assert.Len(t, points, 2)
}

func TestReportAndRecompute_Save(t *testing.T) {
	cfgPath, dbPath, sessions := testWorkspace(t)

	require.NoError(t, execute(t, "report", sessions[0], sessions[1], "--config", cfgPath, "--save", "--json"))
	require.NoError(t, execute(t, "recompute", sessions[0], "--from", "1m", "--to", "3m",
		"--config", cfgPath, "--save", "--json"))

	db, err := store.Open(dbPath)
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	latest, err := db.GetLatestReport()
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, store.KindRecompute, latest.Kind)
	assert.Equal(t, int64(120000), latest.DurationMs)
	assert.Equal(t, 13, latest.EventCount)

	reports, err := db.ListReports(10)
	require.NoError(t, err)
	assert.Len(t, reports, 3)
}

func TestRecompute_OutOfRange(t *testing.T) {
	cfgPath, _, sessions := testWorkspace(t)
	err := execute(t, "recompute", sessions[0], "--from=-1m", "--config", cfgPath, "--json")
	assert.Error(t, err)
}

func TestReport_MissingFile(t *testing.T) {
	cfgPath, _, _ := testWorkspace(t)
	err := execute(t, "report", filepath.Join(t.TempDir(), "nope.jsonl"), "--config", cfgPath)
	assert.Error(t, err)
}
