package db

import "fmt"

// migrate runs database migrations.
func (s *SQLite) migrate() error {
	query := `
		CREATE TABLE IF NOT EXISTS slots (
			id         TEXT PRIMARY KEY,
			position   INTEGER NOT NULL,
			day        TEXT NOT NULL,
			period     REAL NOT NULL,
			class_name TEXT NOT NULL,
			subject    TEXT NOT NULL,
			teacher_id TEXT NOT NULL DEFAULT 'unknown',
			room_id    TEXT NOT NULL DEFAULT ''
		);

		CREATE INDEX IF NOT EXISTS idx_slots_position ON slots(position);
		CREATE INDEX IF NOT EXISTS idx_slots_time ON slots(day, period);

		CREATE TABLE IF NOT EXISTS periods (
			id       REAL PRIMARY KEY,
			label    TEXT NOT NULL DEFAULT '',
			is_break INTEGER NOT NULL DEFAULT 0 CHECK(is_break IN (0, 1))
		);

		CREATE TABLE IF NOT EXISTS teachers (
			id             TEXT PRIMARY KEY,
			name           TEXT NOT NULL,
			nip            TEXT NOT NULL DEFAULT '',
			subjects       TEXT NOT NULL DEFAULT '[]',
			max_hours      INTEGER NOT NULL DEFAULT 0,
			teaching_hours INTEGER NOT NULL DEFAULT 0,
			position       INTEGER NOT NULL DEFAULT 0
		);

		CREATE TABLE IF NOT EXISTS rooms (
			id       TEXT PRIMARY KEY,
			name     TEXT NOT NULL,
			type     TEXT NOT NULL DEFAULT '',
			capacity INTEGER NOT NULL DEFAULT 0,
			position INTEGER NOT NULL DEFAULT 0
		);

		CREATE TABLE IF NOT EXISTS settings (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
	`

	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("creating tables: %w", err)
	}

	return nil
}
