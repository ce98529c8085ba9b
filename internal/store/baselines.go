package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/blackwell-systems/behaviorwatch/internal/baseline"
)

// SaveBaseline replaces the stored baseline state.
func (db *DB) SaveBaseline(window int, data []byte) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec("DELETE FROM baselines"); err != nil {
		return err
	}
	if _, err := tx.Exec(
		"INSERT INTO baselines (window_size, data, updated_at) VALUES (?, ?, ?)",
		window, string(data), time.Now().UTC().Format(timeLayout),
	); err != nil {
		return err
	}
	return tx.Commit()
}

// LoadBaseline returns the stored baseline state, or nil if none was saved.
func (db *DB) LoadBaseline() (*BaselineRecord, error) {
	var (
		rec       BaselineRecord
		data      string
		updatedAt string
	)
	err := db.conn.QueryRow(
		"SELECT id, window_size, data, updated_at FROM baselines ORDER BY id DESC LIMIT 1",
	).Scan(&rec.ID, &rec.Window, &data, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	rec.Data = []byte(data)
	rec.UpdatedAt, _ = time.Parse(timeLayout, updatedAt)
	return &rec, nil
}

// ResetBaseline deletes the stored baseline state.
func (db *DB) ResetBaseline() error {
	_, err := db.conn.Exec("DELETE FROM baselines")
	return err
}

// RestoreProcessor loads the stored baseline history into p. With nothing
// stored, p is left untouched.
func (db *DB) RestoreProcessor(p *baseline.Processor) error {
	rec, err := db.LoadBaseline()
	if err != nil {
		return fmt.Errorf("loading baseline: %w", err)
	}
	if rec == nil {
		return nil
	}
	return p.Load(rec.Data)
}

// SaveProcessor stores p's current history, replacing any previous state.
func (db *DB) SaveProcessor(p *baseline.Processor) error {
	data, err := p.Save()
	if err != nil {
		return err
	}
	return db.SaveBaseline(p.Window(), data)
}
