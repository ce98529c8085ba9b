package app

import (
	"github.com/spf13/cobra"

	"github.com/blackwell-systems/behaviorwatch/internal/baseline"
	"github.com/blackwell-systems/behaviorwatch/internal/suggest"
)

var suggestLimit int

var suggestCmd = &cobra.Command{
	Use:   "suggest <file>",
	Short: "Ranked recommendations for a session",
	Long: `Finalize a session log and print improvement suggestions ranked by
impact. When a baseline is stored, the session is also scored against it;
the stored baseline is not modified.`,
	Args: cobra.ExactArgs(1),
	RunE: runSuggest,
}

func init() {
	suggestCmd.Flags().IntVar(&suggestLimit, "limit", 0, "Show at most N suggestions (0 = all)")
	rootCmd.AddCommand(suggestCmd)
}

type suggestResult struct {
	SessionID   string               `json:"session_id"`
	Assessment  *baseline.Assessment `json:"assessment,omitempty"`
	Suggestions []suggest.Suggestion `json:"suggestions"`
}

func runSuggest(cmd *cobra.Command, args []string) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}
	sr, err := finalizeFile(e.engine, args[0])
	if err != nil {
		return err
	}

	assessment, err := e.assess(sr)
	if err != nil {
		return err
	}

	suggestions := suggest.NewEngine().Run(&suggest.AnalysisContext{
		Report:         sr.Report,
		Assessment:     assessment,
		SessionMinutes: sr.minutes(),
		Normalization:  e.engine.Options().Normalization,
	})
	if suggestLimit > 0 && len(suggestions) > suggestLimit {
		suggestions = suggestions[:suggestLimit]
	}
	if suggestions == nil {
		suggestions = []suggest.Suggestion{}
	}

	if flagJSON {
		return writeJSON(suggestResult{SessionID: sr.SessionID, Assessment: assessment, Suggestions: suggestions})
	}
	renderSuggestions(suggestions)
	return nil
}

// assess scores sr against the stored baseline without saving. It returns
// nil when no database or baseline exists yet.
func (e *env) assess(sr sessionReport) (*baseline.Assessment, error) {
	db, err := e.openDB()
	if err != nil {
		e.logger.Warn("baseline unavailable", "err", err)
		return nil, nil
	}
	defer func() { _ = db.Close() }()

	proc := e.newProcessor()
	if err := db.RestoreProcessor(proc); err != nil {
		return nil, err
	}
	if proc.Sessions() == 0 {
		return nil, nil
	}
	a := proc.Process(sr.Report)
	return &a, nil
}
