// Package summary provides the workload report of a schedule.
package summary

import (
	"context"
	"fmt"
	"sort"

	"github.com/javiermolinar/roster/internal/conflict"
	"github.com/javiermolinar/roster/internal/schedule"
)

// TeacherLoad is the assigned hours of one teacher.
type TeacherLoad struct {
	TeacherID  string
	Name       string
	Hours      int // one per slot
	MaxHours   int // 0 means no maximum
	Overloaded bool
	Conflicts  int // slots of this teacher that take part in a conflict
}

// SubjectHours is the weekly hours of one subject in a class.
type SubjectHours struct {
	Subject string
	Hours   int
}

// ClassLoad is the assigned hours of one class.
type ClassLoad struct {
	ClassName string
	Hours     int
	Subjects  []SubjectHours // most hours first
}

// Workload aggregates a schedule.
type Workload struct {
	Teachers []TeacherLoad
	Classes  []ClassLoad

	Slots           int
	Conflicting     int // slots in at least one conflict
	UnknownTeachers int // slots whose teacher was not resolved
	Orphaned        int // slots whose period is missing from the grid or is a break row
}

// Overloaded returns the teachers above their maximum hours.
func (w *Workload) Overloaded() []TeacherLoad {
	var out []TeacherLoad
	for _, t := range w.Teachers {
		if t.Overloaded {
			out = append(out, t)
		}
	}
	return out
}

// Summarize builds the workload of slots.
//
// Directory teachers are listed in directory order, including those
// without slots, then any other teacher ID found in the slots. Classes
// follow the configured order, then other class names found.
func Summarize(slots []schedule.Slot, grid *schedule.Grid, dir *schedule.Directory, classes []string) *Workload {
	conflicts := conflict.NewIndex(slots).Conflicts()
	w := &Workload{Slots: len(slots), Conflicting: conflicts.Len()}

	hours := make(map[string]int)
	clashes := make(map[string]int)
	classHours := make(map[string]map[string]int)
	for _, s := range slots {
		hours[s.TeacherID]++
		if conflicts.Has(s.ID) {
			clashes[s.TeacherID]++
		}
		if classHours[s.ClassName] == nil {
			classHours[s.ClassName] = make(map[string]int)
		}
		classHours[s.ClassName][s.Subject]++

		if !s.HasKnownTeacher() {
			w.UnknownTeachers++
		}
		if grid != nil {
			if p, ok := grid.Get(s.Period); !ok || p.Break {
				w.Orphaned++
			}
		}
	}

	seen := make(map[string]bool)
	for _, t := range dir.Teachers() {
		seen[t.ID] = true
		w.Teachers = append(w.Teachers, TeacherLoad{
			TeacherID:  t.ID,
			Name:       t.Name,
			Hours:      hours[t.ID],
			MaxHours:   t.MaxHours,
			Overloaded: t.MaxHours > 0 && hours[t.ID] > t.MaxHours,
			Conflicts:  clashes[t.ID],
		})
	}
	var extra []string
	for id := range hours {
		if !seen[id] {
			extra = append(extra, id)
		}
	}
	sort.Strings(extra)
	for _, id := range extra {
		w.Teachers = append(w.Teachers, TeacherLoad{
			TeacherID: id,
			Name:      dir.TeacherName(id),
			Hours:     hours[id],
			Conflicts: clashes[id],
		})
	}

	for _, name := range classOrder(classes, classHours) {
		load := ClassLoad{ClassName: name}
		for subject, h := range classHours[name] {
			load.Hours += h
			load.Subjects = append(load.Subjects, SubjectHours{Subject: subject, Hours: h})
		}
		sort.Slice(load.Subjects, func(i, j int) bool {
			if load.Subjects[i].Hours != load.Subjects[j].Hours {
				return load.Subjects[i].Hours > load.Subjects[j].Hours
			}
			return load.Subjects[i].Subject < load.Subjects[j].Subject
		})
		w.Classes = append(w.Classes, load)
	}

	return w
}

func classOrder(configured []string, found map[string]map[string]int) []string {
	seen := make(map[string]bool, len(configured))
	out := make([]string, 0, len(found))
	for _, c := range configured {
		if seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	var extra []string
	for c := range found {
		if !seen[c] {
			extra = append(extra, c)
		}
	}
	sort.Strings(extra)
	return append(out, extra...)
}

// Build loads the schedule from repo and summarizes it.
// A grid that was never saved falls back to fallback.
func Build(ctx context.Context, repo schedule.Repository, fallback *schedule.Grid, classes []string) (*Workload, error) {
	slots, err := repo.LoadSchedule(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching schedule: %w", err)
	}
	grid := fallback
	periods, saved, err := repo.LoadPeriods(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching periods: %w", err)
	}
	if saved {
		grid = schedule.NewGrid(periods...)
	}
	teachers, err := repo.ListTeachers(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching teachers: %w", err)
	}

	return Summarize(slots, grid, schedule.NewDirectory(teachers, nil), classes), nil
}
