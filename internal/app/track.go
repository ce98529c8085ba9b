package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/behaviorwatch/internal/baseline"
	"github.com/blackwell-systems/behaviorwatch/internal/output"
	"github.com/blackwell-systems/behaviorwatch/internal/store"
	"github.com/blackwell-systems/behaviorwatch/internal/suggest"
)

var trackCompare int

var trackCmd = &cobra.Command{
	Use:   "track <file>",
	Short: "Store a report and compare it with the previous one",
	Long: `Finalize a session log, store the report, and compare it against a
previous stored report with trend arrows. The session is scored against
your rolling baseline, which is then updated. Suggestions are stored and
open suggestions whose trigger no longer fires are resolved.`,
	Args: cobra.ExactArgs(1),
	RunE: runTrack,
}

func init() {
	trackCmd.Flags().IntVar(&trackCompare, "compare", 1, "Compare against Nth previous report (1 = most recent)")
	rootCmd.AddCommand(trackCmd)
}

type trackResult struct {
	Session     sessionReport        `json:"session"`
	Diff        *store.ReportDiff    `json:"diff,omitempty"`
	Assessment  baseline.Assessment  `json:"assessment"`
	Suggestions []suggest.Suggestion `json:"suggestions"`
	Resolved    []string             `json:"resolved,omitempty"`
}

func runTrack(cmd *cobra.Command, args []string) error {
	if trackCompare < 1 {
		return fmt.Errorf("--compare must be >= 1, got %d", trackCompare)
	}
	e, err := loadEnv()
	if err != nil {
		return err
	}
	db, err := e.openDB()
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	sr, err := finalizeFile(e.engine, args[0])
	if err != nil {
		return err
	}

	// Look up the comparison target before this report shifts the offsets.
	prev, err := db.GetReportN(trackCompare)
	if err != nil {
		return fmt.Errorf("loading previous report: %w", err)
	}

	if sr.ReportID, err = saveReport(db, store.KindFinalize, sr); err != nil {
		return err
	}
	curr, err := db.GetReport(sr.ReportID)
	if err != nil {
		return fmt.Errorf("reloading report: %w", err)
	}

	res := trackResult{Session: sr}
	if prev != nil {
		res.Diff = store.CompareReports(prev, curr)
	}

	proc := e.newProcessor()
	if err := db.RestoreProcessor(proc); err != nil {
		return err
	}
	res.Assessment = proc.Process(sr.Report)
	if err := db.SaveProcessor(proc); err != nil {
		return err
	}

	res.Suggestions = suggest.NewEngine().Run(&suggest.AnalysisContext{
		Report:         sr.Report,
		Assessment:     &res.Assessment,
		SessionMinutes: sr.minutes(),
		Normalization:  e.engine.Options().Normalization,
	})
	if res.Resolved, err = syncSuggestions(db, sr.ReportID, res.Suggestions); err != nil {
		return err
	}
	e.logger.Debug("session tracked", "report", sr.ReportID,
		"suggestions", len(res.Suggestions), "resolved", len(res.Resolved))

	if flagJSON {
		return writeJSON(res)
	}

	renderReport(sr)
	fmt.Println()
	renderDiff(res.Diff)
	fmt.Println()
	renderAssessment(&res.Assessment)
	fmt.Println()
	renderSuggestions(res.Suggestions)
	for _, title := range res.Resolved {
		fmt.Println(" " + output.StyleSuccess.Render("Resolved: "+title))
	}
	return nil
}

// syncSuggestions stores newly raised suggestions and resolves open ones
// that the current report no longer triggers. It returns resolved titles.
func syncSuggestions(db *store.DB, reportID int64, raised []suggest.Suggestion) ([]string, error) {
	open, err := db.GetOpenSuggestions()
	if err != nil {
		return nil, fmt.Errorf("loading open suggestions: %w", err)
	}

	firing := make(map[string]bool, len(raised))
	for _, s := range raised {
		firing[s.Title] = true
	}
	alreadyOpen := make(map[string]bool, len(open))
	var resolved []string
	for _, s := range open {
		if firing[s.Title] {
			alreadyOpen[s.Title] = true
			continue
		}
		if err := db.ResolveSuggestion(s.ID); err != nil {
			return nil, fmt.Errorf("resolving suggestion %d: %w", s.ID, err)
		}
		resolved = append(resolved, s.Title)
	}

	for _, s := range raised {
		if alreadyOpen[s.Title] {
			continue
		}
		rec := &store.Suggestion{
			ReportID:    reportID,
			Category:    s.Category,
			Priority:    s.Priority,
			Title:       s.Title,
			Description: s.Description,
			ImpactScore: s.ImpactScore,
		}
		if err := db.InsertSuggestion(rec); err != nil {
			return nil, fmt.Errorf("inserting suggestion: %w", err)
		}
	}
	return resolved, nil
}

func renderDiff(diff *store.ReportDiff) {
	fmt.Println(output.Section("Changes"))
	fmt.Println()
	if diff == nil || diff.Previous == nil {
		fmt.Println(" " + output.StyleMuted.Render("No earlier report to compare against."))
		return
	}
	fmt.Printf(" Compared with report #%d (%s, %s)\n\n", diff.Previous.ID, diff.Previous.SessionID,
		diff.Previous.ComputedAt.Local().Format("2006-01-02 15:04"))

	tbl := output.NewTable("Metric", "Previous", "Current", "Trend")
	for _, d := range diff.Deltas {
		tbl.AddRow(d.Name, formatMetric(d.Previous), formatMetric(d.Current),
			output.TrendArrow(d.Delta, store.HigherIsBetter(d.Name)))
	}
	tbl.Print()
}

func formatMetric(v float64) string {
	if v == float64(int64(v)) && (v >= 10 || v <= -10) {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.3f", v)
}
