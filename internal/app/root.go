// Package app contains the Cobra command tree for behaviorwatch.
package app

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var appVersion = "dev"

// SetVersion sets the application version (called from main with ldflags value).
func SetVersion(v string) {
	appVersion = v
	rootCmd.Version = v
}

var (
	flagNoColor bool
	flagJSON    bool
	flagVerbose bool
	flagConfig  string
)

var rootCmd = &cobra.Command{
	Use:   "behaviorwatch",
	Short: "Attention and focus metrics from interaction event logs",
	Long: `behaviorwatch derives normalized behavioral indices from the interaction
events recorded during a usage session: distraction and focus, notification
load, task switching, idle fragmentation, scroll jitter, deep-focus blocks
and typing cadence. Reports can be stored, compared over time and scored
against your own rolling baseline.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("behaviorwatch", appVersion)
		fmt.Println()
		fmt.Println("Use a subcommand:")
		fmt.Println("  record     Capture events from stdin into a session log")
		fmt.Println("  report     Compute reports for session logs")
		fmt.Println("  recompute  Compute a report for part of a session")
		fmt.Println("  track      Store a report and compare it with the previous one")
		fmt.Println("  history    Show stored reports or one metric over time")
		fmt.Println("  suggest    Ranked recommendations for a session")
		fmt.Println("  baseline   Show or reset the rolling baseline")
		fmt.Println("  watch      Analyze sessions as they land in the inbox")
		fmt.Println("  mcp        Serve the engine over MCP stdio")
		return nil
	},
}

// Execute is the entry point called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file path (default: ~/.config/behaviorwatch/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "Output as JSON")
	rootCmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "Enable debug logging on stderr")
}
