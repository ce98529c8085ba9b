package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/behaviorwatch/internal/analyzer"
	"github.com/blackwell-systems/behaviorwatch/internal/baseline"
	"github.com/blackwell-systems/behaviorwatch/internal/config"
	"github.com/blackwell-systems/behaviorwatch/internal/event"
	"github.com/blackwell-systems/behaviorwatch/internal/output"
	"github.com/blackwell-systems/behaviorwatch/internal/store"
	"github.com/blackwell-systems/behaviorwatch/internal/watcher"
)

var (
	watchDir      string
	watchInterval time.Duration
	watchDaemon   bool
	watchStop     bool
	watchQuiet    bool
	watchAll      bool
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Analyze sessions as they land in the inbox",
	Long: `Watch the inbox directory for closed session logs. Each new or rewritten
file is finalized, stored, scored against the rolling baseline, and
compared with the previous session. Notable changes raise desktop
notifications and terminal alerts.

Examples:
  behaviorwatch watch                     # run in foreground (ctrl-c to stop)
  behaviorwatch watch --dir ./sessions    # watch another directory
  behaviorwatch watch --daemon            # run in background, write PID file
  behaviorwatch watch --stop              # stop the background daemon`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVar(&watchDir, "dir", "", "Inbox directory (default from config)")
	watchCmd.Flags().DurationVar(&watchInterval, "interval", time.Minute, "Fallback poll interval")
	watchCmd.Flags().BoolVar(&watchDaemon, "daemon", false, "Run in background mode (write PID file, log to file)")
	watchCmd.Flags().BoolVar(&watchStop, "stop", false, "Stop a running background daemon")
	watchCmd.Flags().BoolVar(&watchQuiet, "quiet", false, "Suppress terminal output, only send notifications")
	watchCmd.Flags().BoolVar(&watchAll, "all", false, "Also analyze sessions already in the inbox")
	rootCmd.AddCommand(watchCmd)
}

// pidFilePath returns the path to the daemon PID file.
func pidFilePath() string {
	return filepath.Join(config.ConfigDir(), "watch.pid")
}

// logFilePath returns the path to the daemon log file.
func logFilePath() string {
	return filepath.Join(config.ConfigDir(), "watch.log")
}

// storeSink persists every analyzed session and the updated baseline.
type storeSink struct {
	db        *store.DB
	processor *baseline.Processor
	logger    *slog.Logger
}

func (s *storeSink) Record(path string, sess event.Session, r *analyzer.Report, _ baseline.Assessment) error {
	id, err := saveReport(s.db, store.KindFinalize, sessionReport{
		Path:       path,
		SessionID:  sess.ID,
		RangeStart: sess.StartTime,
		RangeEnd:   sess.EndTime,
		EventCount: len(sess.Between(sess.StartTime, sess.EndTime)),
		Report:     r,
	})
	if err != nil {
		return err
	}
	if err := s.db.SaveProcessor(s.processor); err != nil {
		return fmt.Errorf("saving baseline: %w", err)
	}
	s.logger.Info("session stored", "report", id, "session", sess.ID, "path", path)
	return nil
}

func runWatch(cmd *cobra.Command, args []string) error {
	if watchStop {
		return stopDaemon()
	}
	if watchInterval < time.Second {
		return fmt.Errorf("interval must be at least 1s, got %s", watchInterval)
	}

	e, err := loadEnv()
	if err != nil {
		return err
	}
	inbox := e.cfg.InboxDir
	if watchDir != "" {
		inbox = watchDir
	}

	if watchDaemon {
		return runDaemon(e, inbox)
	}

	var alertFn func(watcher.Alert)
	if watchQuiet {
		alertFn = func(a watcher.Alert) { _ = watcher.Notify(a) }
	} else {
		fmt.Printf("behaviorwatch watching %s... (polling every %s)\n", inbox, watchInterval)
		alertFn = func(a watcher.Alert) {
			_ = watcher.Notify(a)
			printAlert(a)
		}
	}

	err = runWatcher(e, inbox, e.logger, alertFn)
	if errors.Is(err, context.Canceled) {
		if !watchQuiet {
			fmt.Println("\nStopped.")
		}
		return nil
	}
	return err
}

// runWatcher wires the store into a watcher and runs it until a shutdown
// signal arrives.
func runWatcher(e *env, inbox string, logger *slog.Logger, alertFn func(watcher.Alert)) error {
	db, err := e.openDB()
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	proc := e.newProcessor()
	if err := db.RestoreProcessor(proc); err != nil {
		return err
	}

	th := watcher.Thresholds{
		Distraction:      e.cfg.Alerts.DistractionThreshold,
		FocusDrop:        e.cfg.Alerts.FocusDrop,
		NotificationLoad: e.cfg.Alerts.NotificationLoad,
	}
	w := watcher.New(inbox, watchInterval, e.engine, proc, th, alertFn)
	w.Sink = &storeSink{db: db, processor: proc, logger: logger}
	w.Logger = logger
	if !watchAll {
		if err := w.Prime(); err != nil {
			return err
		}
	}

	ctx, stop := signalContext()
	defer stop()
	return w.Run(ctx)
}

// runDaemon sets up PID and log files, then runs the watcher. The actual
// backgrounding should be done by the caller (nohup, &, etc.) since Go
// cannot reliably fork.
func runDaemon(e *env, inbox string) error {
	if err := os.MkdirAll(config.ConfigDir(), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	if pid, err := readPID(); err == nil {
		if processExists(pid) {
			return fmt.Errorf("daemon already running (PID %d). Use --stop to stop it", pid)
		}
		_ = os.Remove(pidFilePath())
	}

	pid := os.Getpid()
	if err := os.WriteFile(pidFilePath(), []byte(strconv.Itoa(pid)), 0o644); err != nil {
		return fmt.Errorf("writing PID file: %w", err)
	}
	defer func() { _ = os.Remove(pidFilePath()) }()

	logFile, err := os.OpenFile(logFilePath(), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	defer func() { _ = logFile.Close() }()

	logger := newLogger(logFile)
	logger.Info("daemon started", "pid", pid, "inbox", inbox, "interval", watchInterval)

	alertFn := func(a watcher.Alert) {
		_ = watcher.Notify(a)
		logAlert(logger, a)
	}

	err = runWatcher(e, inbox, logger, alertFn)
	if errors.Is(err, context.Canceled) {
		logger.Info("daemon stopped")
		return nil
	}
	return err
}

// stopDaemon reads the PID file and terminates the running daemon.
func stopDaemon() error {
	pid, err := readPID()
	if err != nil {
		return fmt.Errorf("no daemon running (could not read PID file: %v)", err)
	}

	if !processExists(pid) {
		_ = os.Remove(pidFilePath())
		return fmt.Errorf("no daemon running (PID %d is not active, cleaned up stale PID file)", pid)
	}
	if err := terminate(pid); err != nil {
		return fmt.Errorf("failed to stop daemon (PID %d): %w", pid, err)
	}

	_ = os.Remove(pidFilePath())
	fmt.Printf("Stopped daemon (PID %d)\n", pid)
	return nil
}

// readPID reads the daemon PID from the PID file.
func readPID() (int, error) {
	data, err := os.ReadFile(pidFilePath())
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(strings.TrimSpace(string(data)))
}

func logAlert(logger *slog.Logger, a watcher.Alert) {
	level := slog.LevelInfo
	switch a.Level {
	case "critical":
		level = slog.LevelError
	case "warning":
		level = slog.LevelWarn
	}
	logger.Log(context.Background(), level, a.Title, "message", a.Message)
}

// printAlert formats and prints an alert to the terminal.
func printAlert(a watcher.Alert) {
	writeAlert(os.Stdout, a)
}

func writeAlert(w io.Writer, a watcher.Alert) {
	_, _ = fmt.Fprintf(w, "[%s] %s %s\n", a.Time.Format("15:04:05"), alertIcon(a.Level), a.Title)
	if a.Message != "" {
		_, _ = fmt.Fprintf(w, "         %s\n", a.Message)
	}
}

// alertIcon returns the terminal indicator for an alert level.
func alertIcon(level string) string {
	switch level {
	case "critical":
		return output.StyleError.Render("●")
	case "warning":
		return output.StyleWarning.Render("▲")
	case "info":
		return output.StyleSuccess.Render("✓")
	default:
		return " "
	}
}
