package app

import (
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/blackwell-systems/behaviorwatch/internal/analyzer"
	"github.com/blackwell-systems/behaviorwatch/internal/eventlog"
	"github.com/blackwell-systems/behaviorwatch/internal/store"
)

var reportSave bool

var reportCmd = &cobra.Command{
	Use:   "report <file>...",
	Short: "Compute reports for session logs",
	Long: `Compute the behavioral report for each ended session log (.json, .jsonl
or .yaml). Files are analyzed in parallel; results print in argument order.

Examples:
  behaviorwatch report morning.jsonl
  behaviorwatch report ~/.config/behaviorwatch/inbox/*.jsonl --save
  behaviorwatch report session.json --json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runReport,
}

func init() {
	reportCmd.Flags().BoolVar(&reportSave, "save", false, "Store the reports in the database")
	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}

	reports, err := finalizeFiles(e.engine, args)
	if err != nil {
		return err
	}

	if reportSave {
		db, err := e.openDB()
		if err != nil {
			return err
		}
		defer func() { _ = db.Close() }()
		for i := range reports {
			id, err := saveReport(db, store.KindFinalize, reports[i])
			if err != nil {
				return err
			}
			reports[i].ReportID = id
			e.logger.Debug("report saved", "id", id, "session", reports[i].SessionID)
		}
	}

	if flagJSON {
		return writeJSON(reports)
	}
	for i, sr := range reports {
		if i > 0 {
			fmt.Println()
		}
		renderReport(sr)
	}
	return nil
}

// finalizeFiles parses and finalizes every path concurrently. The first
// failure cancels the rest.
func finalizeFiles(engine *analyzer.Engine, paths []string) ([]sessionReport, error) {
	out := make([]sessionReport, len(paths))
	var g errgroup.Group
	g.SetLimit(8)
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			sr, err := finalizeFile(engine, path)
			if err != nil {
				return err
			}
			out[i] = sr
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func finalizeFile(engine *analyzer.Engine, path string) (sessionReport, error) {
	s, err := eventlog.ParseSessionFile(path)
	if err != nil {
		return sessionReport{}, err
	}
	r, err := engine.Finalize(*s)
	if err != nil {
		return sessionReport{}, fmt.Errorf("%s: %w", path, err)
	}
	return sessionReport{
		Path:       path,
		SessionID:  s.ID,
		RangeStart: s.StartTime,
		RangeEnd:   s.EndTime,
		EventCount: len(s.Between(s.StartTime, s.EndTime)),
		Report:     r,
	}, nil
}

func saveReport(db *store.DB, kind string, sr sessionReport) (int64, error) {
	rec := store.NewReportRecord(kind, sr.SessionID, sr.RangeStart, sr.RangeEnd, sr.EventCount, sr.Report)
	rec.Version = appVersion
	id, err := db.SaveReport(rec)
	if err != nil {
		return 0, fmt.Errorf("saving report for %s: %w", sr.SessionID, err)
	}
	return id, nil
}
