package app

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/blackwell-systems/behaviorwatch/internal/analyzer"
	"github.com/blackwell-systems/behaviorwatch/internal/baseline"
	"github.com/blackwell-systems/behaviorwatch/internal/config"
	"github.com/blackwell-systems/behaviorwatch/internal/output"
	"github.com/blackwell-systems/behaviorwatch/internal/store"
)

// env bundles what most commands need.
type env struct {
	cfg    *config.Config
	engine *analyzer.Engine
	logger *slog.Logger
}

// newLogger writes structured logs to w at info level, or debug with --verbose.
func newLogger(w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	if flagVerbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// loadEnv reads the configuration, applies color settings and builds the engine.
func loadEnv() (*env, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	output.ConfigureColor(flagNoColor, cfg.Output.Color)

	engine, err := analyzer.NewEngine(cfg.EngineOptions())
	if err != nil {
		return nil, err
	}
	logger := newLogger(os.Stderr)
	logger.Debug("config loaded", "db", cfg.DBPath, "inbox", cfg.InboxDir,
		"normalization", cfg.Engine.Normalization)
	return &env{cfg: cfg, engine: engine, logger: logger}, nil
}

func (e *env) openDB() (*store.DB, error) {
	db, err := store.Open(e.cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	return db, nil
}

// newProcessor returns a baseline processor sized from the configuration.
func (e *env) newProcessor() *baseline.Processor {
	return baseline.NewProcessor(e.cfg.Baseline.Window, e.cfg.Baseline.ZThreshold)
}

func writeJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// signalContext is cancelled by the platform's shutdown signals.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), shutdownSignals...)
}
