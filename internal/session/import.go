package session

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/javiermolinar/roster/internal/schedule"
)

// DirectoryWriter is implemented by repositories that can store teachers
// and rooms.
type DirectoryWriter interface {
	SaveTeacher(ctx context.Context, t schedule.Teacher) error
	SaveRoom(ctx context.Context, r schedule.Room) error
}

// ImportResult summarises an import.
type ImportResult struct {
	Result
	Periods  int // periods added to the grid
	Teachers int
	Rooms    int
}

// Import copies another repository into the session.
//
// Slots go through the merge, so a source lesson replaces the one held
// for the same class and time. Periods missing from the grid are added;
// existing labels are kept. Teachers and rooms are copied when the
// session repository implements DirectoryWriter.
func (s *Session) Import(ctx context.Context, src schedule.Repository) (ImportResult, error) {
	var res ImportResult

	slots, err := src.LoadSchedule(ctx)
	if err != nil {
		return res, fmt.Errorf("reading source schedule: %w", err)
	}
	periods, saved, err := src.LoadPeriods(ctx)
	if err != nil {
		return res, fmt.Errorf("reading source periods: %w", err)
	}
	teachers, err := src.ListTeachers(ctx)
	if err != nil {
		return res, fmt.Errorf("reading source teachers: %w", err)
	}
	rooms, err := src.ListRooms(ctx)
	if err != nil {
		return res, fmt.Errorf("reading source rooms: %w", err)
	}

	if saved {
		for _, p := range periods {
			if err := s.grid.AddPeriod(p); err == nil {
				res.Periods++
			}
		}
	}

	var saveErrs []error
	if res.Periods > 0 {
		saveErrs = append(saveErrs, s.savePeriods(ctx))
	}

	if w, ok := s.repo.(DirectoryWriter); ok && (len(teachers) > 0 || len(rooms) > 0) {
		for _, t := range teachers {
			if err := w.SaveTeacher(ctx, t); err != nil {
				return res, fmt.Errorf("importing teacher %s: %w", t.ID, err)
			}
			res.Teachers++
		}
		for _, r := range rooms {
			if err := w.SaveRoom(ctx, r); err != nil {
				return res, fmt.Errorf("importing room %s: %w", r.ID, err)
			}
			res.Rooms++
		}
		if err := s.reloadDirectory(ctx); err != nil {
			saveErrs = append(saveErrs, err)
		}
	}

	batch := s.ApplyBatch(ctx, slots)
	res.Merge = batch.Merge
	res.SaveErr = errors.Join(append(saveErrs, batch.SaveErr)...)

	s.log.Info("import",
		zap.Int("slots", len(slots)),
		zap.Int("periods", res.Periods),
		zap.Int("teachers", res.Teachers),
		zap.Int("rooms", res.Rooms),
	)
	return res, nil
}

// SaveTeacher stores a teacher and refreshes the directory.
func (s *Session) SaveTeacher(ctx context.Context, t schedule.Teacher) error {
	w, ok := s.repo.(DirectoryWriter)
	if !ok {
		return errors.New("repository cannot store teachers")
	}
	if err := w.SaveTeacher(ctx, t); err != nil {
		return err
	}
	return s.reloadDirectory(ctx)
}

// SaveRoom stores a room and refreshes the directory.
func (s *Session) SaveRoom(ctx context.Context, r schedule.Room) error {
	w, ok := s.repo.(DirectoryWriter)
	if !ok {
		return errors.New("repository cannot store rooms")
	}
	if err := w.SaveRoom(ctx, r); err != nil {
		return err
	}
	return s.reloadDirectory(ctx)
}

func (s *Session) reloadDirectory(ctx context.Context) error {
	teachers, err := s.repo.ListTeachers(ctx)
	if err != nil {
		return fmt.Errorf("reloading teachers: %w", err)
	}
	rooms, err := s.repo.ListRooms(ctx)
	if err != nil {
		return fmt.Errorf("reloading rooms: %w", err)
	}
	s.dir = schedule.NewDirectory(teachers, rooms)
	return nil
}
