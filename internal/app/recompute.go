package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/behaviorwatch/internal/analyzer"
	"github.com/blackwell-systems/behaviorwatch/internal/eventlog"
	"github.com/blackwell-systems/behaviorwatch/internal/store"
)

var (
	recomputeFrom string
	recomputeTo   string
	recomputeSave bool
)

var recomputeCmd = &cobra.Command{
	Use:   "recompute <file>",
	Short: "Compute a report for part of a session",
	Long: `Recompute the report over a sub-range of an ended session. Bounds are
RFC3339 timestamps, unix milliseconds, or offsets from the session start
such as 90s or 5m. A missing bound defaults to the session edge.

Examples:
  behaviorwatch recompute session.jsonl --from 5m --to 20m
  behaviorwatch recompute session.jsonl --from 2026-03-02T09:15:00Z`,
	Args: cobra.ExactArgs(1),
	RunE: runRecompute,
}

func init() {
	recomputeCmd.Flags().StringVar(&recomputeFrom, "from", "", "Range start (RFC3339, unix ms, or offset like 90s)")
	recomputeCmd.Flags().StringVar(&recomputeTo, "to", "", "Range end (RFC3339, unix ms, or offset like 10m)")
	recomputeCmd.Flags().BoolVar(&recomputeSave, "save", false, "Store the report in the database")
	rootCmd.AddCommand(recomputeCmd)
}

func runRecompute(cmd *cobra.Command, args []string) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}

	s, err := eventlog.ParseSessionFile(args[0])
	if err != nil {
		return err
	}
	from, err := analyzer.ParseBound(recomputeFrom, s.StartTime, s.StartTime)
	if err != nil {
		return fmt.Errorf("--from: %w", err)
	}
	to, err := analyzer.ParseBound(recomputeTo, s.StartTime, s.EndTime)
	if err != nil {
		return fmt.Errorf("--to: %w", err)
	}

	r, err := e.engine.Recompute(*s, from, to)
	if err != nil {
		return err
	}
	sr := sessionReport{
		Path:       args[0],
		SessionID:  s.ID,
		RangeStart: from,
		RangeEnd:   to,
		EventCount: len(s.Between(from, to)),
		Report:     r,
	}

	if recomputeSave {
		db, err := e.openDB()
		if err != nil {
			return err
		}
		defer func() { _ = db.Close() }()
		if sr.ReportID, err = saveReport(db, store.KindRecompute, sr); err != nil {
			return err
		}
	}

	if flagJSON {
		return writeJSON(sr)
	}
	renderReport(sr)
	return nil
}
