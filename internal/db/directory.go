package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/javiermolinar/roster/internal/schedule"
)

// ListTeachers returns all teachers in insertion order.
func (s *SQLite) ListTeachers(ctx context.Context) ([]schedule.Teacher, error) {
	query := `
		SELECT id, name, nip, subjects, max_hours, teaching_hours
		FROM teachers
		ORDER BY position, id
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying teachers: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var teachers []schedule.Teacher
	for rows.Next() {
		var (
			t        schedule.Teacher
			subjects string
		)
		if err := rows.Scan(&t.ID, &t.Name, &t.NIP, &subjects, &t.MaxHours, &t.TeachingHours); err != nil {
			return nil, fmt.Errorf("scanning teacher: %w", err)
		}
		if err := json.Unmarshal([]byte(subjects), &t.Subjects); err != nil {
			return nil, fmt.Errorf("parsing subjects of teacher %s: %w", t.ID, err)
		}
		teachers = append(teachers, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating teachers: %w", err)
	}

	return teachers, nil
}

// SaveTeacher inserts a teacher or updates the one with the same ID.
// An updated teacher keeps its position in the list.
func (s *SQLite) SaveTeacher(ctx context.Context, t schedule.Teacher) error {
	subjects := t.Subjects
	if subjects == nil {
		subjects = []string{}
	}
	data, err := json.Marshal(subjects)
	if err != nil {
		return fmt.Errorf("encoding subjects: %w", err)
	}

	query := `
		INSERT INTO teachers (id, name, nip, subjects, max_hours, teaching_hours, position)
		VALUES (?, ?, ?, ?, ?, ?, (SELECT COALESCE(MAX(position), 0) + 1 FROM teachers))
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			nip = excluded.nip,
			subjects = excluded.subjects,
			max_hours = excluded.max_hours,
			teaching_hours = excluded.teaching_hours
	`
	if _, err := s.db.ExecContext(ctx, query,
		t.ID, t.Name, t.NIP, string(data), t.MaxHours, t.TeachingHours,
	); err != nil {
		return fmt.Errorf("saving teacher %s: %w", t.ID, err)
	}

	return nil
}

// ListRooms returns all rooms in insertion order.
func (s *SQLite) ListRooms(ctx context.Context) ([]schedule.Room, error) {
	query := `
		SELECT id, name, type, capacity
		FROM rooms
		ORDER BY position, id
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying rooms: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var rooms []schedule.Room
	for rows.Next() {
		var r schedule.Room
		if err := rows.Scan(&r.ID, &r.Name, &r.Type, &r.Capacity); err != nil {
			return nil, fmt.Errorf("scanning room: %w", err)
		}
		rooms = append(rooms, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating rooms: %w", err)
	}

	return rooms, nil
}

// SaveRoom inserts a room or updates the one with the same ID.
func (s *SQLite) SaveRoom(ctx context.Context, r schedule.Room) error {
	query := `
		INSERT INTO rooms (id, name, type, capacity, position)
		VALUES (?, ?, ?, ?, (SELECT COALESCE(MAX(position), 0) + 1 FROM rooms))
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			type = excluded.type,
			capacity = excluded.capacity
	`
	if _, err := s.db.ExecContext(ctx, query, r.ID, r.Name, r.Type, r.Capacity); err != nil {
		return fmt.Errorf("saving room %s: %w", r.ID, err)
	}

	return nil
}
