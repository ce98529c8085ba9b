package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/blackwell-systems/behaviorwatch/internal/analyzer"
	"github.com/blackwell-systems/behaviorwatch/internal/baseline"
	"github.com/blackwell-systems/behaviorwatch/internal/event"
	"github.com/blackwell-systems/behaviorwatch/internal/eventlog"
	"github.com/blackwell-systems/behaviorwatch/internal/suggest"
)

// errNoStore is returned by history tools when the server has no database.
var errNoStore = errors.New("report history is not available: no database configured")

// defaultRecentN is the number of reports get_recent_reports returns by default.
const defaultRecentN = 5

// SessionReport is a report together with the session range it covers.
type SessionReport struct {
	SessionID  string           `json:"session_id"`
	RangeStart time.Time        `json:"range_start"`
	RangeEnd   time.Time        `json:"range_end"`
	DurationMs int64            `json:"duration_ms"`
	EventCount int              `json:"event_count"`
	Report     *analyzer.Report `json:"report"`
}

// StoredReport summarizes a persisted report.
type StoredReport struct {
	ID               int64     `json:"id"`
	SessionID        string    `json:"session_id"`
	Kind             string    `json:"kind"`
	ComputedAt       time.Time `json:"computed_at"`
	DurationMs       int64     `json:"duration_ms"`
	DistractionScore float64   `json:"behavioral_distraction_score"`
	FocusHint        float64   `json:"focus_hint"`
	DeepFocusBlocks  int       `json:"deep_focus_blocks"`
}

// RecentReportsResult holds the newest stored reports, newest first.
type RecentReportsResult struct {
	Reports []StoredReport `json:"reports"`
}

// SuggestionsResult holds ranked suggestions for a session.
type SuggestionsResult struct {
	SessionID   string               `json:"session_id"`
	Assessment  *baseline.Assessment `json:"assessment,omitempty"`
	Suggestions []suggest.Suggestion `json:"suggestions"`
}

var (
	noArgsSchema  = json.RawMessage(`{"type":"object","properties":{},"additionalProperties":false}`)
	pathSchema    = json.RawMessage(`{"type":"object","properties":{"path":{"type":"string","description":"Session log file (.json, .jsonl, .yaml)"}},"required":["path"],"additionalProperties":false}`)
	rangeSchema   = json.RawMessage(`{"type":"object","properties":{"path":{"type":"string","description":"Session log file (.json, .jsonl, .yaml)"},"from":{"type":"string","description":"Range start: RFC 3339, unix ms, or offset from session start such as 90s (default: session start)"},"to":{"type":"string","description":"Range end, same forms as from (default: session end)"}},"required":["path"],"additionalProperties":false}`)
	recentNSchema = json.RawMessage(`{"type":"object","properties":{"n":{"type":"integer","description":"Number of reports to return (default 5)"}},"additionalProperties":false}`)
)

// addTools registers all MCP tool handlers on s.
func addTools(s *Server) {
	s.registerTool(toolDef{
		Name:        "finalize_session",
		Description: "Compute the full behavioral report for a closed session log.",
		InputSchema: pathSchema,
		Handler:     s.handleFinalizeSession,
	})
	s.registerTool(toolDef{
		Name:        "recompute_range",
		Description: "Compute the behavioral report for a sub-range of a session log.",
		InputSchema: rangeSchema,
		Handler:     s.handleRecomputeRange,
	})
	s.registerTool(toolDef{
		Name:        "get_latest_report",
		Description: "Most recently stored report with its full metrics.",
		InputSchema: noArgsSchema,
		Handler:     s.handleGetLatestReport,
	})
	s.registerTool(toolDef{
		Name:        "get_recent_reports",
		Description: "Last N stored reports with distraction, focus and deep-focus counts.",
		InputSchema: recentNSchema,
		Handler:     s.handleGetRecentReports,
	})
	s.registerTool(toolDef{
		Name:        "get_suggestions",
		Description: "Ranked recommendations for a session log, scored against the stored baseline.",
		InputSchema: pathSchema,
		Handler:     s.handleGetSuggestions,
	})
}

type pathArgs struct {
	Path string `json:"path"`
	From string `json:"from"`
	To   string `json:"to"`
}

func decodePathArgs(args json.RawMessage) (pathArgs, error) {
	var a pathArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return a, fmt.Errorf("invalid arguments: %w", err)
	}
	if a.Path == "" {
		return a, errors.New("path is required")
	}
	return a, nil
}

// fileSource resolves a single session log for RecomputeSession.
type fileSource struct {
	session *event.Session
}

func (f fileSource) Lookup(id string) (event.Session, bool) {
	if f.session == nil || f.session.ID != id {
		return event.Session{}, false
	}
	return f.session.Clone(), true
}

func (s *Server) handleFinalizeSession(_ context.Context, args json.RawMessage) (any, error) {
	a, err := decodePathArgs(args)
	if err != nil {
		return nil, err
	}
	sess, err := eventlog.ParseSessionFile(a.Path)
	if err != nil {
		return nil, err
	}
	r, err := s.engine.Finalize(*sess)
	if err != nil {
		return nil, err
	}
	return SessionReport{
		SessionID:  sess.ID,
		RangeStart: sess.StartTime,
		RangeEnd:   sess.EndTime,
		DurationMs: sess.DurationMs(),
		EventCount: len(sess.Between(sess.StartTime, sess.EndTime)),
		Report:     r,
	}, nil
}

func (s *Server) handleRecomputeRange(_ context.Context, args json.RawMessage) (any, error) {
	a, err := decodePathArgs(args)
	if err != nil {
		return nil, err
	}
	sess, err := eventlog.ParseSessionFile(a.Path)
	if err != nil {
		return nil, err
	}
	from, err := analyzer.ParseBound(a.From, sess.StartTime, sess.StartTime)
	if err != nil {
		return nil, fmt.Errorf("from: %w", err)
	}
	to, err := analyzer.ParseBound(a.To, sess.StartTime, sess.EndTime)
	if err != nil {
		return nil, fmt.Errorf("to: %w", err)
	}

	r, err := s.engine.RecomputeSession(fileSource{session: sess}, sess.ID, from, to)
	if err != nil {
		return nil, err
	}
	return SessionReport{
		SessionID:  sess.ID,
		RangeStart: from,
		RangeEnd:   to,
		DurationMs: to.UnixMilli() - from.UnixMilli(),
		EventCount: len(sess.Between(from, to)),
		Report:     r,
	}, nil
}

func (s *Server) handleGetLatestReport(_ context.Context, _ json.RawMessage) (any, error) {
	if s.db == nil {
		return nil, errNoStore
	}
	rec, err := s.db.GetLatestReport()
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, errors.New("no reports stored yet")
	}
	return rec, nil
}

func (s *Server) handleGetRecentReports(_ context.Context, args json.RawMessage) (any, error) {
	if s.db == nil {
		return nil, errNoStore
	}
	var a struct {
		N *int `json:"n"`
	}
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, fmt.Errorf("invalid arguments: %w", err)
	}
	n := defaultRecentN
	if a.N != nil && *a.N > 0 {
		n = *a.N
	}

	records, err := s.db.ListReports(n)
	if err != nil {
		return nil, err
	}
	result := RecentReportsResult{Reports: make([]StoredReport, 0, len(records))}
	for _, rec := range records {
		sr := StoredReport{
			ID:         rec.ID,
			SessionID:  rec.SessionID,
			Kind:       rec.Kind,
			ComputedAt: rec.ComputedAt,
			DurationMs: rec.DurationMs,
		}
		if rec.Report != nil {
			sr.DistractionScore = rec.Report.Behavioral.DistractionScore
			sr.FocusHint = rec.Report.Behavioral.FocusHint
			sr.DeepFocusBlocks = len(rec.Report.Behavioral.DeepFocusBlocks)
		}
		result.Reports = append(result.Reports, sr)
	}
	return result, nil
}

func (s *Server) handleGetSuggestions(_ context.Context, args json.RawMessage) (any, error) {
	a, err := decodePathArgs(args)
	if err != nil {
		return nil, err
	}
	sess, err := eventlog.ParseSessionFile(a.Path)
	if err != nil {
		return nil, err
	}
	r, err := s.engine.Finalize(*sess)
	if err != nil {
		return nil, err
	}

	// Score against the stored baseline without recording this session.
	p, err := s.newProcessor()
	if err != nil {
		return nil, err
	}
	result := SuggestionsResult{SessionID: sess.ID}
	if p.Sessions() > 0 {
		assessment := p.Process(r)
		result.Assessment = &assessment
	}

	result.Suggestions = s.rules.Run(&suggest.AnalysisContext{
		Report:         r,
		Assessment:     result.Assessment,
		SessionMinutes: sess.Duration().Minutes(),
		Normalization:  s.engine.Options().Normalization,
	})
	if result.Suggestions == nil {
		result.Suggestions = []suggest.Suggestion{}
	}
	return result, nil
}
