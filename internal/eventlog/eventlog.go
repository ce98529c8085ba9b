// Package eventlog reads and writes session logs on disk. A session log holds
// one closed session: its bounds plus every event recorded during it.
package eventlog

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/blackwell-systems/behaviorwatch/internal/event"
)

// ErrUnsupportedFormat is returned for files whose extension is not a known
// session log format.
var ErrUnsupportedFormat = errors.New("unsupported session log format")

// Supported reports whether path has a session log extension.
func Supported(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonl", ".yaml", ".yml":
		return true
	}
	return false
}

// ParseSessionFile reads a single session log. The format is chosen by
// extension: .json holds a session object, .jsonl an optional header line
// followed by one event per line, and .yaml/.yml the same shape as .json.
func ParseSessionFile(path string) (*event.Session, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		return decodeSession(data)
	case ".yaml", ".yml":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		return decodeYAMLSession(data)
	case ".jsonl":
		return parseJSONL(path)
	}
	return nil, fmt.Errorf("%s: %w", path, ErrUnsupportedFormat)
}

// ParseDir reads every session log in dir. Files that fail to parse are
// skipped. A missing directory yields no sessions and no error.
func ParseDir(dir string) ([]event.Session, error) {
	paths, err := ListSessionFiles(dir)
	if err != nil {
		return nil, err
	}

	var sessions []event.Session
	for _, p := range paths {
		s, err := ParseSessionFile(p)
		if err != nil {
			continue
		}
		sessions = append(sessions, *s)
	}
	return sessions, nil
}

// ListSessionFiles returns the paths of the session logs directly inside dir,
// in name order.
func ListSessionFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var paths []string
	for _, entry := range entries {
		// Hidden files are partial writes in progress.
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") || !Supported(entry.Name()) {
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}
	return paths, nil
}

func decodeSession(data []byte) (*event.Session, error) {
	var s event.Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// decodeYAMLSession converts the YAML document to JSON so the event
// payloads go through the same typed decoder.
func decodeYAMLSession(data []byte) (*event.Session, error) {
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, errors.New("empty session document")
	}
	asJSON, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	return decodeSession(asJSON)
}

// header is the optional first line of a .jsonl log.
type header struct {
	SessionID string           `json:"session_id"`
	StartTime *event.Timestamp `json:"start_time"`
	EndTime   *event.Timestamp `json:"end_time,omitempty"`
	Type      string           `json:"type,omitempty"`
}

func parseJSONL(path string) (*event.Session, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	var (
		s         event.Session
		hasHeader bool
		lineNo    int
	)
	scanner := bufio.NewScanner(f)
	// Typing payloads can make individual lines long.
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		lineNo++
		if len(line) == 0 {
			continue
		}

		if !hasHeader && len(s.Events) == 0 {
			var h header
			if err := json.Unmarshal(line, &h); err == nil && h.Type == "" && h.StartTime != nil {
				hasHeader = true
				s.ID = h.SessionID
				s.StartTime = time.Time(*h.StartTime)
				if h.EndTime != nil {
					s.EndTime = time.Time(*h.EndTime)
				}
				continue
			}
		}

		var e event.Event
		if err := json.Unmarshal(line, &e); err != nil {
			return nil, fmt.Errorf("%s:%d: %w", path, lineNo, err)
		}
		s.Events = append(s.Events, e)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if s.ID == "" {
		s.ID = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	if !hasHeader {
		if len(s.Events) == 0 {
			return nil, fmt.Errorf("%s: no header and no events", path)
		}
		sorted := event.SortByTime(s.Events)
		s.StartTime = sorted[0].Timestamp
		s.EndTime = sorted[len(sorted)-1].Timestamp
	}

	for i := range s.Events {
		if s.Events[i].SessionID == "" {
			s.Events[i].SessionID = s.ID
		}
	}
	s.EventCount = len(s.Events)
	s.AppSwitchCount = event.CountKind(s.Events, event.KindAppSwitch)
	return &s, nil
}

// WriteSessionFile writes s to path as .json (indented session object) or
// .jsonl (header line then one event per line).
func WriteSessionFile(path string, s event.Session) error {
	var buf bytes.Buffer
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		data, err := json.MarshalIndent(s, "", "  ")
		if err != nil {
			return err
		}
		buf.Write(data)
		buf.WriteByte('\n')
	case ".jsonl":
		h := header{SessionID: s.ID}
		start := event.Timestamp(s.StartTime)
		h.StartTime = &start
		if !s.Active() {
			end := event.Timestamp(s.EndTime)
			h.EndTime = &end
		}
		enc := json.NewEncoder(&buf)
		if err := enc.Encode(h); err != nil {
			return err
		}
		for _, e := range s.Events {
			if err := enc.Encode(e); err != nil {
				return err
			}
		}
	default:
		return fmt.Errorf("%s: %w", path, ErrUnsupportedFormat)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", path, err)
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}
