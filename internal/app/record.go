package app

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/blackwell-systems/behaviorwatch/internal/analyzer"
	"github.com/blackwell-systems/behaviorwatch/internal/event"
	"github.com/blackwell-systems/behaviorwatch/internal/eventlog"
	"github.com/blackwell-systems/behaviorwatch/internal/ingest"
	"github.com/blackwell-systems/behaviorwatch/internal/output"
)

var (
	recordSessionID string
	recordStart     string
	recordEnd       string
	recordOut       string
)

var recordCmd = &cobra.Command{
	Use:   "record [file]",
	Short: "Capture events from stdin into a session log",
	Long: `Read newline-delimited JSON events from a file or stdin, ingest them into
a new session, end it, and write the session log to the inbox where
'behaviorwatch watch' picks it up.

The session starts at --start or the first event and ends at --end or the
last event. --start also accepts an offset from the first event such as -5m,
and --end an offset from the start such as 45m.

Examples:
  collector | behaviorwatch record
  behaviorwatch record events.jsonl --session-id morning --end 30m`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRecord,
}

func init() {
	recordCmd.Flags().StringVar(&recordSessionID, "session-id", "", "Session id (default: random UUID)")
	recordCmd.Flags().StringVar(&recordStart, "start", "", "Session start (RFC3339, unix ms, or offset from the first event)")
	recordCmd.Flags().StringVar(&recordEnd, "end", "", "Session end (RFC3339, unix ms, or offset from start)")
	recordCmd.Flags().StringVar(&recordOut, "out", "", "Output file (default: <inbox>/<session-id>.jsonl)")
	rootCmd.AddCommand(recordCmd)
}

func runRecord(cmd *cobra.Command, args []string) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}

	in := io.Reader(os.Stdin)
	if len(args) == 1 {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer func() { _ = f.Close() }()
		in = f
	}

	ctx, stop := signalContext()
	defer stop()

	sess, err := recordSession(ctx, in, recordSessionID, recordStart, recordEnd)
	if err != nil {
		return err
	}

	path := recordOut
	if path == "" {
		path = filepath.Join(e.cfg.InboxDir, sess.ID+".jsonl")
	}
	if err := writeSessionAtomic(path, sess); err != nil {
		return err
	}
	e.logger.Debug("session recorded", "session", sess.ID, "events", len(sess.Events), "path", path)

	if flagJSON {
		return writeJSON(map[string]any{
			"session_id":  sess.ID,
			"path":        path,
			"start_time":  sess.StartTime,
			"end_time":    sess.EndTime,
			"event_count": len(sess.Events),
		})
	}
	fmt.Printf("%s Recorded %d events (%.1f min) to %s\n",
		output.StyleSuccess.Render("✓"), len(sess.Events), sess.Duration().Minutes(), path)
	return nil
}

// recordSession decodes events from r and streams them into an ingest store,
// returning the ended session.
func recordSession(ctx context.Context, r io.Reader, id, startFlag, endFlag string) (event.Session, error) {
	dec := newEventDecoder(r)
	first, err := dec.next()
	if errors.Is(err, io.EOF) {
		return event.Session{}, errors.New("no events on input")
	}
	if err != nil {
		return event.Session{}, err
	}

	start := first.Timestamp
	if startFlag != "" {
		if start, err = analyzer.ParseBound(startFlag, first.Timestamp, first.Timestamp); err != nil {
			return event.Session{}, fmt.Errorf("--start: %w", err)
		}
	}

	st := ingest.NewStore()
	if _, err := st.Start(id, start); err != nil {
		return event.Session{}, err
	}

	last := first.Timestamp
	ch := make(chan event.Event)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(ch)
		e := first
		for {
			if e.Timestamp.After(last) {
				last = e.Timestamp
			}
			select {
			case ch <- e:
			case <-gctx.Done():
				return gctx.Err()
			}
			var err error
			if e, err = dec.next(); errors.Is(err, io.EOF) {
				return nil
			} else if err != nil {
				return err
			}
		}
	})
	g.Go(func() error {
		return st.Consume(gctx, ch)
	})
	if err := g.Wait(); err != nil {
		return event.Session{}, err
	}
	if err := ctx.Err(); err != nil {
		return event.Session{}, err
	}

	end, err := analyzer.ParseBound(endFlag, start, last)
	if err != nil {
		return event.Session{}, fmt.Errorf("--end: %w", err)
	}
	return st.End(end)
}

// eventDecoder reads one JSON event per non-blank line.
type eventDecoder struct {
	sc   *bufio.Scanner
	line int
}

func newEventDecoder(r io.Reader) *eventDecoder {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return &eventDecoder{sc: sc}
}

func (d *eventDecoder) next() (event.Event, error) {
	for d.sc.Scan() {
		d.line++
		line := bytes.TrimSpace(d.sc.Bytes())
		if len(line) == 0 {
			continue
		}
		var e event.Event
		if err := json.Unmarshal(line, &e); err != nil {
			return event.Event{}, fmt.Errorf("line %d: %w", d.line, err)
		}
		return e, nil
	}
	if err := d.sc.Err(); err != nil {
		return event.Event{}, err
	}
	return event.Event{}, io.EOF
}

// writeSessionAtomic writes the log beside path and renames it into place
// so a watcher never reads a partial file.
func writeSessionAtomic(path string, s event.Session) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(path), err)
	}
	ext := filepath.Ext(path)
	tmp := filepath.Join(filepath.Dir(path), "."+filepath.Base(path)+".tmp"+ext)
	if err := eventlog.WriteSessionFile(tmp, s); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}
