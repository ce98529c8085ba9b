// Package watcher monitors an inbox of closed session logs, analyzing each
// new session as it lands and emitting alerts on notable changes.
package watcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/blackwell-systems/behaviorwatch/internal/analyzer"
	"github.com/blackwell-systems/behaviorwatch/internal/baseline"
	"github.com/blackwell-systems/behaviorwatch/internal/event"
	"github.com/blackwell-systems/behaviorwatch/internal/eventlog"
)

// debounce coalesces bursts of file events into one check.
const debounce = 250 * time.Millisecond

// errNotRecorded marks a session the Sink rejected. Such files are retried
// on the next cycle.
var errNotRecorded = errors.New("session not recorded")

// WatchState captures the analysis of the most recently processed session.
type WatchState struct {
	Timestamp  time.Time
	Path       string
	SessionID  string
	Minutes    float64
	Report     *analyzer.Report
	Assessment baseline.Assessment
}

// Alert represents a notable event detected by the watcher.
type Alert struct {
	Level   string // "info", "warning", "critical"
	Title   string
	Message string
	Time    time.Time
}

// Thresholds control which changes raise alerts.
type Thresholds struct {
	Distraction      float64
	FocusDrop        float64
	NotificationLoad float64
}

// Sink receives every analyzed session, typically to persist it.
type Sink interface {
	Record(path string, s event.Session, r *analyzer.Report, a baseline.Assessment) error
}

// Watcher monitors a directory of session logs and emits alerts when notable
// changes are detected.
type Watcher struct {
	inbox      string
	interval   time.Duration
	engine     *analyzer.Engine
	processor  *baseline.Processor
	thresholds Thresholds
	alertFn    func(Alert) // callback for emitting alerts

	// Sink and Logger are optional.
	Sink   Sink
	Logger *slog.Logger

	mu            sync.Mutex
	seen          map[string]time.Time // path -> mod time when processed
	previous      *WatchState
	lastAlertKeys map[string]bool // dedup: suppress repeated identical alerts
}

// New creates a Watcher over the given inbox directory. A nil processor
// disables baseline tracking.
func New(inbox string, interval time.Duration, engine *analyzer.Engine, processor *baseline.Processor, thresholds Thresholds, alertFn func(Alert)) *Watcher {
	return &Watcher{
		inbox:         inbox,
		interval:      interval,
		engine:        engine,
		processor:     processor,
		thresholds:    thresholds,
		alertFn:       alertFn,
		seen:          make(map[string]time.Time),
		lastAlertKeys: make(map[string]bool),
	}
}

func (w *Watcher) logger() *slog.Logger {
	if w.Logger != nil {
		return w.Logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Prime marks every file currently in the inbox as seen without analyzing
// it, so that only sessions arriving later produce alerts.
func (w *Watcher) Prime() error {
	paths, err := eventlog.ListSessionFiles(w.inbox)
	if err != nil {
		return fmt.Errorf("listing inbox: %w", err)
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, p := range paths {
		if info, err := os.Stat(p); err == nil {
			w.seen[p] = info.ModTime()
		}
	}
	return nil
}

// Previous returns the state of the last processed session, or nil.
func (w *Watcher) Previous() *WatchState {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.previous
}

// Run watches the inbox until ctx is cancelled. File events trigger a
// debounced Check; the ticker triggers one every interval regardless, which
// also covers filesystems where notifications are unavailable.
func (w *Watcher) Run(ctx context.Context) error {
	if err := os.MkdirAll(w.inbox, 0o755); err != nil {
		return fmt.Errorf("creating inbox: %w", err)
	}

	var events <-chan fsnotify.Event
	var errs <-chan error
	fw, err := fsnotify.NewWatcher()
	if err == nil {
		defer func() { _ = fw.Close() }()
		if err = fw.Add(w.inbox); err == nil {
			events, errs = fw.Events, fw.Errors
		}
	}
	if err != nil {
		w.logger().Warn("file notifications unavailable, polling only", "inbox", w.inbox, "err", err)
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	timer := time.NewTimer(debounce)
	timer.Stop()
	defer timer.Stop()

	w.emit(w.Check())
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			w.emit(w.Check())
		case <-timer.C:
			w.emit(w.Check())
		case ev, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) {
				continue
			}
			if !eventlog.Supported(ev.Name) {
				continue
			}
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(debounce)
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			w.logger().Warn("inbox watch error", "err", err)
		}
	}
}

func (w *Watcher) emit(alerts []Alert) {
	if w.alertFn == nil {
		return
	}
	for _, a := range alerts {
		w.alertFn(a)
	}
}

// Check performs a single check cycle: every new or modified session file is
// analyzed in name order and compared against the session before it.
// Identical alerts are suppressed until the underlying data changes.
func (w *Watcher) Check() []Alert {
	w.mu.Lock()
	defer w.mu.Unlock()

	paths, err := eventlog.ListSessionFiles(w.inbox)
	if err != nil {
		return w.dedup([]Alert{{
			Level:   "warning",
			Title:   "Inbox unreadable",
			Message: fmt.Sprintf("Could not list %s: %v", w.inbox, err),
			Time:    time.Now(),
		}})
	}

	var raw []Alert
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			continue
		}
		if mod, ok := w.seen[p]; ok && !info.ModTime().After(mod) {
			continue
		}
		w.seen[p] = info.ModTime()

		curr, err := w.analyze(p)
		if errors.Is(err, errNotRecorded) {
			delete(w.seen, p)
		}
		if err != nil {
			w.logger().Warn("skipping session file", "path", p, "err", err)
			raw = append(raw, Alert{
				Level:   "warning",
				Title:   "Session file skipped",
				Message: fmt.Sprintf("%s: %v", filepath.Base(p), err),
				Time:    time.Now(),
			})
			continue
		}
		w.logger().Debug("analyzed session", "session", curr.SessionID,
			"distraction", curr.Report.Behavioral.DistractionScore)

		raw = append(raw, Compare(w.previous, curr, w.thresholds)...)
		w.previous = curr
	}
	return w.dedup(raw)
}

// dedup drops alerts identical to one raised by the previous cycle that
// raised any. Quiet cycles leave the remembered keys in place.
func (w *Watcher) dedup(raw []Alert) []Alert {
	if len(raw) == 0 {
		return nil
	}
	currentKeys := make(map[string]bool, len(raw))
	var alerts []Alert
	for _, a := range raw {
		key := a.Level + ":" + a.Title + ":" + a.Message
		if !w.lastAlertKeys[key] && !currentKeys[key] {
			alerts = append(alerts, a)
		}
		currentKeys[key] = true
	}
	w.lastAlertKeys = currentKeys
	return alerts
}

// analyze parses, finalizes and scores one session file.
func (w *Watcher) analyze(path string) (*WatchState, error) {
	s, err := eventlog.ParseSessionFile(path)
	if err != nil {
		return nil, err
	}
	r, err := w.engine.Finalize(*s)
	if err != nil {
		return nil, err
	}

	state := &WatchState{
		Timestamp: time.Now(),
		Path:      path,
		SessionID: s.ID,
		Minutes:   s.Duration().Minutes(),
		Report:    r,
	}
	// The baseline only keeps the session once the Sink has it.
	var undo []byte
	if w.processor != nil {
		if undo, err = w.processor.Save(); err != nil {
			return nil, err
		}
		state.Assessment = w.processor.Process(r)
	}
	if w.Sink != nil {
		if err := w.Sink.Record(path, *s, r, state.Assessment); err != nil {
			if undo != nil {
				if lerr := w.processor.Load(undo); lerr != nil {
					w.logger().Error("restoring baseline", "err", lerr)
				}
			}
			return nil, fmt.Errorf("%w: %s: %w", errNotRecorded, s.ID, err)
		}
	}
	return state, nil
}
