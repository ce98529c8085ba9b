package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/blackwell-systems/behaviorwatch/internal/analyzer"
)

const timeLayout = time.RFC3339Nano

const reportColumns = `id, session_id, kind, computed_at, range_start, range_end,
	duration_ms, event_count, report_json, version`

// SaveReport stores rec and its flattened metrics in one transaction and
// returns the new report ID. rec.ID is set on success.
func (db *DB) SaveReport(rec *ReportRecord) (int64, error) {
	if rec.Report == nil {
		return 0, fmt.Errorf("saving report for %q: nil report", rec.SessionID)
	}
	if rec.ComputedAt.IsZero() {
		rec.ComputedAt = time.Now().UTC()
	}
	payload, err := json.Marshal(rec.Report)
	if err != nil {
		return 0, fmt.Errorf("encoding report: %w", err)
	}

	tx, err := db.conn.Begin()
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	result, err := tx.Exec(
		`INSERT INTO reports
		(session_id, kind, computed_at, range_start, range_end, duration_ms, event_count, report_json, version)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.SessionID, rec.Kind,
		rec.ComputedAt.UTC().Format(timeLayout),
		rec.RangeStart.UTC().Format(timeLayout),
		rec.RangeEnd.UTC().Format(timeLayout),
		rec.DurationMs, rec.EventCount, string(payload), rec.Version,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting report: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, err
	}

	for _, m := range ReportMetrics(rec.Report) {
		if _, err := tx.Exec(
			"INSERT INTO report_metrics (report_id, metric_name, metric_value) VALUES (?, ?, ?)",
			id, m.Name, m.Value,
		); err != nil {
			return 0, fmt.Errorf("inserting metric %s: %w", m.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	rec.ID = id
	return id, nil
}

// GetReport returns a report by ID, or nil if it does not exist.
func (db *DB) GetReport(id int64) (*ReportRecord, error) {
	row := db.conn.QueryRow("SELECT "+reportColumns+" FROM reports WHERE id = ?", id)
	return scanReport(row)
}

// GetLatestReport returns the most recent report, or nil if none exist.
func (db *DB) GetLatestReport() (*ReportRecord, error) {
	return db.GetReportN(1)
}

// GetLatestReportForSession returns the newest report for a session, or nil.
func (db *DB) GetLatestReportForSession(sessionID string) (*ReportRecord, error) {
	row := db.conn.QueryRow(
		"SELECT "+reportColumns+" FROM reports WHERE session_id = ? ORDER BY id DESC LIMIT 1",
		sessionID,
	)
	return scanReport(row)
}

// GetReportN returns the Nth most recent report (1 = latest, 2 = previous, etc.).
func (db *DB) GetReportN(n int) (*ReportRecord, error) {
	if n < 1 {
		return nil, fmt.Errorf("report offset must be >= 1, got %d", n)
	}
	row := db.conn.QueryRow(
		"SELECT "+reportColumns+" FROM reports ORDER BY id DESC LIMIT 1 OFFSET ?",
		n-1,
	)
	return scanReport(row)
}

// ListReports returns up to limit reports, newest first.
func (db *DB) ListReports(limit int) ([]ReportRecord, error) {
	rows, err := db.conn.Query(
		"SELECT "+reportColumns+" FROM reports ORDER BY id DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var records []ReportRecord
	for rows.Next() {
		rec, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}
	return records, rows.Err()
}

// GetReportMetrics returns the flattened metrics stored for a report.
func (db *DB) GetReportMetrics(reportID int64) ([]MetricRow, error) {
	rows, err := db.conn.Query(
		"SELECT metric_name, metric_value FROM report_metrics WHERE report_id = ? ORDER BY id",
		reportID,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var metrics []MetricRow
	for rows.Next() {
		var m MetricRow
		if err := rows.Scan(&m.Name, &m.Value); err != nil {
			return nil, err
		}
		metrics = append(metrics, m)
	}
	return metrics, rows.Err()
}

// MetricHistory returns the last n values of a metric, oldest first.
func (db *DB) MetricHistory(name string, n int) ([]MetricPoint, error) {
	rows, err := db.conn.Query(
		`SELECT r.id, r.session_id, r.computed_at, m.metric_value
		 FROM report_metrics m JOIN reports r ON r.id = m.report_id
		 WHERE m.metric_name = ?
		 ORDER BY r.id DESC LIMIT ?`,
		name, n,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var points []MetricPoint
	for rows.Next() {
		var p MetricPoint
		var computedAt string
		if err := rows.Scan(&p.ReportID, &p.SessionID, &computedAt, &p.Value); err != nil {
			return nil, err
		}
		p.ComputedAt, _ = time.Parse(timeLayout, computedAt)
		points = append(points, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Reverse so oldest is first.
	for i, j := 0, len(points)-1; i < j; i, j = i+1, j-1 {
		points[i], points[j] = points[j], points[i]
	}
	return points, nil
}

// DeleteReport removes a report with its metrics and suggestions.
func (db *DB) DeleteReport(id int64) error {
	_, err := db.conn.Exec("DELETE FROM reports WHERE id = ?", id)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReport(row rowScanner) (*ReportRecord, error) {
	var (
		rec                              ReportRecord
		computedAt, rangeStart, rangeEnd string
		payload                          string
	)
	err := row.Scan(&rec.ID, &rec.SessionID, &rec.Kind, &computedAt, &rangeStart, &rangeEnd,
		&rec.DurationMs, &rec.EventCount, &payload, &rec.Version)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	rec.ComputedAt, _ = time.Parse(timeLayout, computedAt)
	rec.RangeStart, _ = time.Parse(timeLayout, rangeStart)
	rec.RangeEnd, _ = time.Parse(timeLayout, rangeEnd)

	var report analyzer.Report
	if err := json.Unmarshal([]byte(payload), &report); err != nil {
		return nil, fmt.Errorf("decoding report #%d: %w", rec.ID, err)
	}
	rec.Report = &report
	return &rec, nil
}
