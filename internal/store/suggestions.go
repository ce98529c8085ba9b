package store

// InsertSuggestion stores a suggestion raised by a report.
func (db *DB) InsertSuggestion(s *Suggestion) error {
	if s.Status == "" {
		s.Status = "open"
	}
	result, err := db.conn.Exec(
		`INSERT INTO suggestions
		(report_id, category, priority, title, description, impact_score, status)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		s.ReportID, s.Category, s.Priority, s.Title, s.Description,
		s.ImpactScore, s.Status,
	)
	if err != nil {
		return err
	}
	s.ID, err = result.LastInsertId()
	return err
}

// GetOpenSuggestions returns all suggestions with status "open".
func (db *DB) GetOpenSuggestions() ([]Suggestion, error) {
	rows, err := db.conn.Query(
		`SELECT id, report_id, category, priority, title, description, impact_score, status
		 FROM suggestions WHERE status = 'open' ORDER BY impact_score DESC, id`,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var suggestions []Suggestion
	for rows.Next() {
		var s Suggestion
		if err := rows.Scan(&s.ID, &s.ReportID, &s.Category, &s.Priority,
			&s.Title, &s.Description, &s.ImpactScore, &s.Status); err != nil {
			return nil, err
		}
		suggestions = append(suggestions, s)
	}
	return suggestions, rows.Err()
}

// ResolveSuggestion marks a suggestion as resolved.
func (db *DB) ResolveSuggestion(id int64) error {
	_, err := db.conn.Exec("UPDATE suggestions SET status = 'resolved' WHERE id = ?", id)
	return err
}
