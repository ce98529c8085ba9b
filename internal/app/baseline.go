package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/behaviorwatch/internal/baseline"
	"github.com/blackwell-systems/behaviorwatch/internal/output"
)

var baselineCmd = &cobra.Command{
	Use:   "baseline",
	Short: "Show or reset the rolling baseline",
}

var baselineShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the per-metric baseline",
	Args:  cobra.NoArgs,
	RunE:  runBaselineShow,
}

var baselineResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Forget all baseline history",
	Args:  cobra.NoArgs,
	RunE:  runBaselineReset,
}

func init() {
	baselineCmd.AddCommand(baselineShowCmd, baselineResetCmd)
	rootCmd.AddCommand(baselineCmd)
}

// baselineSummary is one metric's retained history, summarized.
type baselineSummary struct {
	Metric  baseline.Metric `json:"metric"`
	Samples int             `json:"samples"`
	Mean    float64         `json:"mean"`
	Min     float64         `json:"min"`
	Max     float64         `json:"max"`
}

func runBaselineShow(cmd *cobra.Command, args []string) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}
	db, err := e.openDB()
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	proc := e.newProcessor()
	if err := db.RestoreProcessor(proc); err != nil {
		return err
	}

	summaries := summarizeBaseline(proc)
	if flagJSON {
		return writeJSON(map[string]any{
			"window":   proc.Window(),
			"sessions": proc.Sessions(),
			"metrics":  summaries,
		})
	}

	fmt.Println(output.Section("Baseline"))
	fmt.Println()
	fmt.Println(output.KeyValue("Window", fmt.Sprintf("%d sessions", proc.Window())))
	fmt.Println(output.KeyValue("Sessions seen", fmt.Sprintf("%d", proc.Sessions())))
	fmt.Println()
	if proc.Sessions() == 0 {
		fmt.Println(" No sessions recorded. Run 'behaviorwatch track <file>' to build one.")
		return nil
	}
	tbl := output.NewTable("Metric", "Samples", "Mean", "Min", "Max")
	for _, s := range summaries {
		tbl.AddRow(string(s.Metric), fmt.Sprintf("%d", s.Samples),
			fmt.Sprintf("%.3f", s.Mean), fmt.Sprintf("%.3f", s.Min), fmt.Sprintf("%.3f", s.Max))
	}
	tbl.Print()
	return nil
}

func summarizeBaseline(p *baseline.Processor) []baselineSummary {
	out := make([]baselineSummary, 0, len(baseline.Tracked))
	for _, m := range baseline.Tracked {
		values := p.History(m)
		s := baselineSummary{Metric: m, Samples: len(values)}
		for i, v := range values {
			s.Mean += v
			if i == 0 || v < s.Min {
				s.Min = v
			}
			if i == 0 || v > s.Max {
				s.Max = v
			}
		}
		if len(values) > 0 {
			s.Mean /= float64(len(values))
		}
		out = append(out, s)
	}
	return out
}

func runBaselineReset(cmd *cobra.Command, args []string) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}
	db, err := e.openDB()
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	if err := db.ResetBaseline(); err != nil {
		return fmt.Errorf("resetting baseline: %w", err)
	}
	fmt.Println(output.StyleSuccess.Render("Baseline reset."))
	return nil
}
