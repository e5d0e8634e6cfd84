package db

import "fmt"

// migrate runs database migrations.
func (s *SQLite) migrate() error {
	query := `
		CREATE TABLE IF NOT EXISTS participants (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			name        TEXT NOT NULL UNIQUE,
			authorized  INTEGER NOT NULL DEFAULT 0,
			competences TEXT NOT NULL DEFAULT '',
			created_at  DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS busy_intervals (
			id             INTEGER PRIMARY KEY AUTOINCREMENT,
			participant_id INTEGER NOT NULL REFERENCES participants(id),
			start_datetime DATETIME NOT NULL,
			end_datetime   DATETIME NOT NULL
		);

		CREATE TABLE IF NOT EXISTS appointments (
			id             INTEGER PRIMARY KEY AUTOINCREMENT,
			guid           TEXT NOT NULL UNIQUE,
			group_guid     TEXT NOT NULL,
			participant_id INTEGER NOT NULL REFERENCES participants(id),
			title          TEXT NOT NULL,
			description    TEXT NOT NULL DEFAULT '',
			start_datetime DATETIME NOT NULL,
			end_datetime   DATETIME NOT NULL,
			created_at     DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE INDEX IF NOT EXISTS idx_busy_participant_start ON busy_intervals(participant_id, start_datetime);
		CREATE INDEX IF NOT EXISTS idx_appointments_group ON appointments(group_guid);
	`

	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}

	return nil
}
