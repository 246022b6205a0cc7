// Package db provides SQLite storage implementation.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/javiermolinar/roster/internal/schedule"
)

const settingGridSaved = "grid_saved"

// SQLite implements schedule.Repository using SQLite.
type SQLite struct {
	db *sql.DB
}

var _ schedule.Repository = (*SQLite)(nil)

// New creates a new SQLite repository and runs migrations.
// The parent directory of path is created if needed.
func New(path string) (*SQLite, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	s := &SQLite{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// LoadSchedule returns all slots in stored order.
func (s *SQLite) LoadSchedule(ctx context.Context) ([]schedule.Slot, error) {
	query := `
		SELECT id, day, period, class_name, subject, teacher_id, room_id
		FROM slots
		ORDER BY position
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying slots: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var slots []schedule.Slot
	for rows.Next() {
		var sl schedule.Slot
		if err := rows.Scan(
			&sl.ID,
			&sl.Day,
			&sl.Period,
			&sl.ClassName,
			&sl.Subject,
			&sl.TeacherID,
			&sl.RoomID,
		); err != nil {
			return nil, fmt.Errorf("scanning slot: %w", err)
		}
		slots = append(slots, sl)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating slots: %w", err)
	}

	return slots, nil
}

// SaveSchedule replaces all stored slots in a single transaction.
func (s *SQLite) SaveSchedule(ctx context.Context, slots []schedule.Slot) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM slots`); err != nil {
		return fmt.Errorf("clearing slots: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO slots (id, position, day, period, class_name, subject, teacher_id, room_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i, sl := range slots {
		if _, err := stmt.ExecContext(ctx,
			sl.ID,
			i,
			sl.Day,
			sl.Period,
			sl.ClassName,
			sl.Subject,
			sl.TeacherID,
			sl.RoomID,
		); err != nil {
			return fmt.Errorf("inserting slot %s: %w", sl.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

// LoadPeriods returns the stored grid sorted by identifier.
// saved is false if SavePeriods was never called on this database.
func (s *SQLite) LoadPeriods(ctx context.Context) ([]schedule.Period, bool, error) {
	var flag string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, settingGridSaved).Scan(&flag)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("querying settings: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `SELECT id, label, is_break FROM periods ORDER BY id`)
	if err != nil {
		return nil, false, fmt.Errorf("querying periods: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var periods []schedule.Period
	for rows.Next() {
		var p schedule.Period
		if err := rows.Scan(&p.ID, &p.Label, &p.Break); err != nil {
			return nil, false, fmt.Errorf("scanning period: %w", err)
		}
		periods = append(periods, p)
	}
	if err := rows.Err(); err != nil {
		return nil, false, fmt.Errorf("iterating periods: %w", err)
	}

	return periods, true, nil
}

// SavePeriods replaces the stored grid and marks it as saved.
func (s *SQLite) SavePeriods(ctx context.Context, periods []schedule.Period) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM periods`); err != nil {
		return fmt.Errorf("clearing periods: %w", err)
	}

	for _, p := range periods {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO periods (id, label, is_break) VALUES (?, ?, ?)`,
			p.ID, p.Label, p.Break,
		); err != nil {
			return fmt.Errorf("inserting period %s: %w", schedule.FormatPeriodID(p.ID), err)
		}
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO settings (key, value) VALUES (?, '1')
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, settingGridSaved); err != nil {
		return fmt.Errorf("marking grid as saved: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

// Close closes the database connection.
func (s *SQLite) Close() error {
	return s.db.Close()
}
