// Package scheduler finds the periods where a lesson can be placed without
// double-booking its class, teacher or room.
package scheduler

import (
	"fmt"
	"strings"

	"github.com/javiermolinar/roster/internal/schedule"
)

// Scheduler answers placement questions over a fixed week and grid.
type Scheduler struct {
	days []string
	grid *schedule.Grid
}

// New creates a new Scheduler for the given school days and period grid.
func New(days []string, grid *schedule.Grid) *Scheduler {
	return &Scheduler{days: days, grid: grid}
}

// Request describes the lesson to place. Empty fields are not checked.
// schedule.UnknownTeacherID blocks like any other teacher, matching the
// conflict rules.
type Request struct {
	ClassName string
	TeacherID string
	RoomID    string
}

// Opening is a (day, period) where the request fits.
type Opening struct {
	Day    string
	Period schedule.Period
}

func (o Opening) String() string {
	return o.Day + " JP " + schedule.FormatPeriodID(o.Period.ID)
}

// Openings returns every teaching period where the request fits, by day
// then period.
func (s *Scheduler) Openings(slots []schedule.Slot, req Request) []Opening {
	busy := s.busy(slots, req)
	var out []Opening
	for _, day := range s.days {
		for _, p := range s.grid.TeachingPeriods() {
			if !busy[timeKey{day, p.ID}] {
				out = append(out, Opening{Day: day, Period: p})
			}
		}
	}
	return out
}

// NextOpening returns the first opening at or after (day, period), wrapping
// around to the start of the week.
func (s *Scheduler) NextOpening(slots []schedule.Slot, req Request, day string, period float64) (Opening, bool) {
	openings := s.Openings(slots, req)
	if len(openings) == 0 {
		return Opening{}, false
	}
	start := schedule.DayIndex(s.days, day)
	for _, o := range openings {
		i := schedule.DayIndex(s.days, o.Day)
		if i > start || (i == start && o.Period.ID >= period) {
			return o, true
		}
	}
	return openings[0], true
}

// Check reports why the request cannot go at (day, period).
// Returns an empty string if it fits.
func (s *Scheduler) Check(slots []schedule.Slot, req Request, day string, period float64) string {
	if len(s.days) > 0 && schedule.DayIndex(s.days, day) < 0 {
		return fmt.Sprintf("%s is not a school day", day)
	}
	p, ok := s.grid.Get(period)
	if !ok {
		return fmt.Sprintf("period %s is not in the grid", schedule.FormatPeriodID(period))
	}
	if p.Break {
		return fmt.Sprintf("period %s is a break", schedule.FormatPeriodID(period))
	}

	var reasons []string
	for _, sl := range slots {
		if !strings.EqualFold(sl.Day, day) || sl.Period != period {
			continue
		}
		if req.ClassName != "" && sl.ClassName == req.ClassName {
			reasons = append(reasons, fmt.Sprintf("class %s has %s", sl.ClassName, sl.Subject))
		}
		if req.TeacherID != "" && sl.TeacherID == req.TeacherID {
			reasons = append(reasons, fmt.Sprintf("teacher teaches %s", sl.ClassName))
		}
		if req.RoomID != "" && sl.RoomID == req.RoomID {
			reasons = append(reasons, fmt.Sprintf("room holds %s", sl.ClassName))
		}
	}
	return strings.Join(reasons, ", ")
}

type timeKey struct {
	day    string
	period float64
}

// busy marks every (day, period) taken by the class, teacher or room.
func (s *Scheduler) busy(slots []schedule.Slot, req Request) map[timeKey]bool {
	busy := make(map[timeKey]bool)
	for _, sl := range slots {
		taken := (req.ClassName != "" && sl.ClassName == req.ClassName) ||
			(req.TeacherID != "" && sl.TeacherID == req.TeacherID) ||
			(req.RoomID != "" && sl.RoomID == req.RoomID)
		if !taken {
			continue
		}
		day := sl.Day
		if i := schedule.DayIndex(s.days, day); i >= 0 {
			day = s.days[i]
		}
		busy[timeKey{day, sl.Period}] = true
	}
	return busy
}
