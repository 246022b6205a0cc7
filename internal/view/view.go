// Package view builds read-only projections of a schedule for display.
//
// Projections resolve teacher and room references against a directory and
// join each cell with the current conflict set. Nothing here is stored.
package view

import (
	"sort"

	"github.com/javiermolinar/roster/internal/conflict"
	"github.com/javiermolinar/roster/internal/schedule"
)

// Mode selects which entity a grid is projected for.
type Mode int

const (
	ByClass Mode = iota
	ByTeacher
	ByRoom
)

// String returns the mode name used by the CLI.
func (m Mode) String() string {
	switch m {
	case ByClass:
		return "class"
	case ByTeacher:
		return "teacher"
	case ByRoom:
		return "room"
	default:
		return "unknown"
	}
}

// Cell is one (day, period) position of a projected grid.
type Cell struct {
	Day    string
	Period schedule.Period

	// Slot is the first matching slot, nil for an empty cell.
	Slot *schedule.Slot
	// Extra counts further slots that landed in the same cell.
	Extra int

	Conflicting bool
	Title       string
	Subtitle    string
	Room        string
}

// Empty reports whether no slot occupies the cell.
func (c Cell) Empty() bool {
	return c.Slot == nil
}

// Row is one period across all days.
type Row struct {
	Period schedule.Period
	Cells  []Cell // one per day, in day order
}

// Table is a projected weekly grid.
type Table struct {
	Mode  Mode
	Key   string // class name, teacher ID or room ID
	Title string
	Days  []string
	Rows  []Row

	// Orphans are matching slots whose period is not in the grid.
	Orphans []schedule.Slot
}

// Cell returns the cell at (day, period).
func (t Table) Cell(day string, period float64) (Cell, bool) {
	for _, r := range t.Rows {
		if r.Period.ID != period {
			continue
		}
		for _, c := range r.Cells {
			if c.Day == day {
				return c, true
			}
		}
	}
	return Cell{}, false
}

// Projector derives grids from one snapshot of the schedule.
// Build a new one after every mutation.
type Projector struct {
	slots     []schedule.Slot
	grid      *schedule.Grid
	days      []string
	dir       *schedule.Directory
	conflicts conflict.Set
}

// NewProjector computes the conflict set for slots and prepares projections.
func NewProjector(slots []schedule.Slot, grid *schedule.Grid, days []string, dir *schedule.Directory) *Projector {
	return &Projector{
		slots:     slots,
		grid:      grid,
		days:      days,
		dir:       dir,
		conflicts: conflict.NewIndex(slots).Conflicts(),
	}
}

// Conflicts returns the conflict set the projections were joined with.
func (p *Projector) Conflicts() conflict.Set {
	return p.conflicts
}

// Project dispatches to the projection for mode.
func (p *Projector) Project(mode Mode, key string) Table {
	switch mode {
	case ByTeacher:
		return p.ByTeacher(key)
	case ByRoom:
		return p.ByRoom(key)
	default:
		return p.ByClass(key)
	}
}

// ByClass projects the slots of one class.
func (p *Projector) ByClass(className string) Table {
	t := p.project(ByClass, className, func(s schedule.Slot) bool {
		return s.ClassName == className
	}, func(c *Cell, s schedule.Slot) {
		c.Title = s.Subject
		c.Subtitle = p.dir.TeacherName(s.TeacherID)
	})
	t.Title = className
	return t
}

// ByTeacher projects the slots of one teacher.
func (p *Projector) ByTeacher(teacherID string) Table {
	t := p.project(ByTeacher, teacherID, func(s schedule.Slot) bool {
		return s.TeacherID == teacherID
	}, func(c *Cell, s schedule.Slot) {
		c.Title = s.ClassName
		c.Subtitle = s.Subject
	})
	t.Title = p.dir.TeacherName(teacherID)
	return t
}

// ByRoom projects the slots held in one room.
func (p *Projector) ByRoom(roomID string) Table {
	t := p.project(ByRoom, roomID, func(s schedule.Slot) bool {
		return s.HasRoom() && s.RoomID == roomID
	}, func(c *Cell, s schedule.Slot) {
		c.Title = s.ClassName
		c.Subtitle = s.Subject + " (" + p.dir.TeacherShortName(s.TeacherID) + ")"
	})
	t.Title = p.dir.RoomName(roomID)
	return t
}

func (p *Projector) project(mode Mode, key string, match func(schedule.Slot) bool, fill func(*Cell, schedule.Slot)) Table {
	type pos struct {
		day    string
		period float64
	}
	byPos := make(map[pos][]schedule.Slot)

	table := Table{Mode: mode, Key: key, Days: append([]string(nil), p.days...)}
	for _, s := range p.slots {
		if !match(s) {
			continue
		}
		if !p.grid.Has(s.Period) {
			table.Orphans = append(table.Orphans, s)
			continue
		}
		k := pos{day: s.Day, period: s.Period}
		byPos[k] = append(byPos[k], s)
	}

	for _, period := range p.grid.Periods() {
		row := Row{Period: period, Cells: make([]Cell, len(p.days))}
		for i, day := range p.days {
			cell := Cell{Day: day, Period: period}
			matched := byPos[pos{day: day, period: period.ID}]
			if period.Break && len(matched) == 0 {
				cell.Title = period.Label
			}
			// Lessons stored on a break row are still shown so they can be moved.
			if len(matched) > 0 {
				first := matched[0]
				cell.Slot = &first
				cell.Extra = len(matched) - 1
				cell.Room = p.dir.RoomName(first.RoomID)
				for _, s := range matched {
					if p.conflicts.Has(s.ID) {
						cell.Conflicting = true
					}
				}
				fill(&cell, first)
			}
			row.Cells[i] = cell
		}
		table.Rows = append(table.Rows, row)
	}
	return table
}

// ClassNames returns the configured classes followed by any other class
// found in slots, sorted.
func ClassNames(configured []string, slots []schedule.Slot) []string {
	seen := make(map[string]bool, len(configured))
	out := make([]string, 0, len(configured))
	for _, c := range configured {
		if !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	var extra []string
	for _, s := range slots {
		if !seen[s.ClassName] {
			seen[s.ClassName] = true
			extra = append(extra, s.ClassName)
		}
	}
	sort.Strings(extra)
	return append(out, extra...)
}

// TeacherIDs returns directory teachers followed by any other teacher ID
// referenced in slots, sorted.
func TeacherIDs(dir *schedule.Directory, slots []schedule.Slot) []string {
	var ids []string
	seen := make(map[string]bool)
	for _, t := range dir.Teachers() {
		if !seen[t.ID] {
			seen[t.ID] = true
			ids = append(ids, t.ID)
		}
	}
	var extra []string
	for _, s := range slots {
		if !seen[s.TeacherID] {
			seen[s.TeacherID] = true
			extra = append(extra, s.TeacherID)
		}
	}
	sort.Strings(extra)
	return append(ids, extra...)
}

// RoomIDs returns directory rooms followed by any other room ID
// referenced in slots, sorted.
func RoomIDs(dir *schedule.Directory, slots []schedule.Slot) []string {
	var ids []string
	seen := make(map[string]bool)
	for _, r := range dir.Rooms() {
		if !seen[r.ID] {
			seen[r.ID] = true
			ids = append(ids, r.ID)
		}
	}
	var extra []string
	for _, s := range slots {
		if s.HasRoom() && !seen[s.RoomID] {
			seen[s.RoomID] = true
			extra = append(extra, s.RoomID)
		}
	}
	sort.Strings(extra)
	return append(ids, extra...)
}
