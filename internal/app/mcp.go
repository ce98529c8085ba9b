package app

import (
	"context"
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/behaviorwatch/internal/mcp"
)

var mcpNoStore bool

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the engine over MCP stdio",
	Long: `Start a Model Context Protocol stdio server exposing the metrics engine:

  finalize_session    Report for an ended session log
  recompute_range     Report for a sub-range of a session log
  get_latest_report   Most recent stored report
  get_recent_reports  Last N stored reports
  get_suggestions     Ranked suggestions for a session log

Add to an MCP client configuration:
  {"mcpServers":{"behaviorwatch":{"command":"behaviorwatch","args":["mcp"]}}}`,
	Args: cobra.NoArgs,
	RunE: runMCP,
}

func init() {
	mcpCmd.Flags().BoolVar(&mcpNoStore, "no-store", false, "Run without the report database")
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}

	opts := mcp.Options{
		BaselineWindow: e.cfg.Baseline.Window,
		ZThreshold:     e.cfg.Baseline.ZThreshold,
		Version:        appVersion,
		Logger:         e.logger,
	}
	if !mcpNoStore {
		db, err := e.openDB()
		if err != nil {
			e.logger.Warn("serving without report history", "err", err)
		} else {
			defer func() { _ = db.Close() }()
			opts.DB = db
		}
	}

	ctx, stop := signalContext()
	defer stop()

	srv := mcp.NewServer(e.engine, opts)
	err = srv.Run(ctx, os.Stdin, os.Stdout)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
