package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/behaviorwatch/internal/analyzer"
	"github.com/blackwell-systems/behaviorwatch/internal/output"
	"github.com/blackwell-systems/behaviorwatch/internal/store"
)

var (
	historyMetric string
	historyN      int
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show stored reports or one metric over time",
	Long: `List the most recent stored reports, or with --metric show how a single
metric moved across them, oldest first.

Examples:
  behaviorwatch history
  behaviorwatch history --metric focus_hint -n 20`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().StringVar(&historyMetric, "metric", "", "Metric name to trend (e.g. behavioral_distraction_score)")
	historyCmd.Flags().IntVarP(&historyN, "limit", "n", 10, "Number of reports")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	if historyN < 1 {
		return fmt.Errorf("-n must be >= 1, got %d", historyN)
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

	if historyMetric != "" {
		return runMetricHistory(db, historyMetric, historyN)
	}

	reports, err := db.ListReports(historyN)
	if err != nil {
		return fmt.Errorf("listing reports: %w", err)
	}
	if flagJSON {
		if reports == nil {
			reports = []store.ReportRecord{}
		}
		return writeJSON(reports)
	}

	fmt.Println(output.Section("Stored reports"))
	fmt.Println()
	if len(reports) == 0 {
		fmt.Println(" No reports yet. Run 'behaviorwatch track <file>' to store one.")
		return nil
	}
	tbl := output.NewTable("ID", "Session", "Kind", "Computed", "Minutes", "Distraction", "Focus blocks")
	for _, r := range reports {
		tbl.AddRow(
			fmt.Sprintf("%d", r.ID),
			r.SessionID,
			r.Kind,
			r.ComputedAt.Local().Format("2006-01-02 15:04"),
			fmt.Sprintf("%.1f", float64(r.DurationMs)/60000),
			fmt.Sprintf("%.2f", r.Report.Behavioral.DistractionScore),
			fmt.Sprintf("%d", len(r.Report.Behavioral.DeepFocusBlocks)),
		)
	}
	tbl.Print()
	return nil
}

func runMetricHistory(db *store.DB, name string, n int) error {
	if !knownMetric(name) {
		return fmt.Errorf("unknown metric %q", name)
	}
	points, err := db.MetricHistory(name, n)
	if err != nil {
		return fmt.Errorf("loading %s history: %w", name, err)
	}
	if flagJSON {
		if points == nil {
			points = []store.MetricPoint{}
		}
		return writeJSON(points)
	}

	fmt.Println(output.Section(name))
	fmt.Println()
	if len(points) == 0 {
		fmt.Println(" No stored values.")
		return nil
	}
	higher := store.HigherIsBetter(name)
	tbl := output.NewTable("Report", "Session", "Computed", "Value", "Trend")
	for i, p := range points {
		trend := ""
		if i > 0 {
			trend = output.TrendArrow(p.Value-points[i-1].Value, higher)
		}
		tbl.AddRow(
			fmt.Sprintf("#%d", p.ReportID),
			p.SessionID,
			p.ComputedAt.Local().Format("2006-01-02 15:04"),
			formatMetric(p.Value),
			trend,
		)
	}
	tbl.Print()
	return nil
}

// knownMetric reports whether name is one of the flattened report metrics.
func knownMetric(name string) bool {
	for _, m := range store.ReportMetrics(&analyzer.Report{}) {
		if m.Name == name {
			return true
		}
	}
	return false
}
