package store

import "fmt"

// currentSchemaVersion is the latest schema version.
const currentSchemaVersion = 1

// Migrate runs forward migrations to bring the database schema up to date.
func (db *DB) Migrate() error {
	if _, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER NOT NULL
		)
	`); err != nil {
		return fmt.Errorf("creating schema_version table: %w", err)
	}

	version := 0
	row := db.conn.QueryRow("SELECT version FROM schema_version LIMIT 1")
	if err := row.Scan(&version); err != nil {
		// Fresh database.
		version = 0
	}

	if version > currentSchemaVersion {
		return fmt.Errorf("database schema v%d is newer than this binary (v%d)", version, currentSchemaVersion)
	}
	if version < 1 {
		if err := db.migrateV1(); err != nil {
			return fmt.Errorf("migration v1: %w", err)
		}
	}

	return nil
}

// migrateV1 creates the report, metric, baseline and suggestion tables.
func (db *DB) migrateV1() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS reports (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id   TEXT NOT NULL,
			kind         TEXT NOT NULL,
			computed_at  TEXT NOT NULL,
			range_start  TEXT NOT NULL,
			range_end    TEXT NOT NULL,
			duration_ms  INTEGER NOT NULL,
			event_count  INTEGER NOT NULL,
			report_json  TEXT NOT NULL,
			version      TEXT NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS report_metrics (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			report_id    INTEGER NOT NULL REFERENCES reports(id) ON DELETE CASCADE,
			metric_name  TEXT NOT NULL,
			metric_value REAL NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS baselines (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			window_size INTEGER NOT NULL,
			data        TEXT NOT NULL,
			updated_at  TEXT NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS suggestions (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			report_id    INTEGER NOT NULL REFERENCES reports(id) ON DELETE CASCADE,
			category     TEXT NOT NULL,
			priority     INTEGER NOT NULL,
			title        TEXT NOT NULL,
			description  TEXT NOT NULL,
			impact_score REAL NOT NULL,
			status       TEXT NOT NULL DEFAULT 'open'
		)`,

		`CREATE INDEX IF NOT EXISTS idx_reports_session ON reports(session_id)`,
		`CREATE INDEX IF NOT EXISTS idx_report_metrics_report ON report_metrics(report_id)`,
		`CREATE INDEX IF NOT EXISTS idx_report_metrics_name ON report_metrics(metric_name)`,
		`CREATE INDEX IF NOT EXISTS idx_suggestions_status ON suggestions(status)`,
	}

	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("executing %q: %w", stmt[:40], err)
		}
	}

	if _, err := tx.Exec("DELETE FROM schema_version"); err != nil {
		return err
	}
	if _, err := tx.Exec("INSERT INTO schema_version (version) VALUES (?)", currentSchemaVersion); err != nil {
		return err
	}

	return tx.Commit()
}
