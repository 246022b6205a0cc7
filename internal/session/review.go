package session

import (
	"fmt"
	"strings"

	"github.com/javiermolinar/roster/internal/llm"
	"github.com/javiermolinar/roster/internal/schedule"
)

// Warning is a non-blocking finding about a generated or edited slot.
type Warning struct {
	Index   int    // position in the suggestion batch, -1 for single edits
	Field   string // "teacherName", "day", "period", "className", "subject", "key", "teacher"
	Message string
}

// String returns a formatted warning.
func (w Warning) String() string {
	if w.Index < 0 {
		return fmt.Sprintf("%s - %s", w.Field, w.Message)
	}
	return fmt.Sprintf("Slot %d: %s - %s", w.Index, w.Field, w.Message)
}

// FormatWarnings renders warnings one per line.
func FormatWarnings(warnings []Warning) string {
	if len(warnings) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("Review these slots:\n")
	for _, w := range warnings {
		fmt.Fprintf(&b, "- %s\n", w)
	}
	return b.String()
}

// Reviewer turns generated suggestions into slots and reports what needs
// manual correction. It never rejects a batch.
type Reviewer struct {
	grid *schedule.Grid
	days []string
	dir  *schedule.Directory
}

// NewReviewer creates a Reviewer for the given grid, school days and directory.
func NewReviewer(grid *schedule.Grid, days []string, dir *schedule.Directory) *Reviewer {
	return &Reviewer{grid: grid, days: days, dir: dir}
}

// Review converts a suggestion batch into slots.
//
// Teacher names are resolved against the directory; unresolved names
// become schedule.UnknownTeacherID. Days are stored with their configured
// casing. Entries without a class name cannot be keyed and are skipped.
// Slot IDs are "<batchID>-<index>".
func (r *Reviewer) Review(batchID string, batch []llm.Suggestion) ([]schedule.Slot, []Warning) {
	var (
		slots    []schedule.Slot
		warnings []Warning
	)

	seenKey := make(map[schedule.LessonKey]int)
	type teacherTime struct {
		teacher string
		day     string
		period  float64
	}
	seenTeacher := make(map[teacherTime]int)

	for i, s := range batch {
		className := strings.TrimSpace(s.ClassName)
		if className == "" {
			warnings = append(warnings, Warning{Index: i, Field: "className", Message: "missing class name, entry skipped"})
			continue
		}

		day := strings.TrimSpace(s.Day)
		if idx := schedule.DayIndex(r.days, day); idx >= 0 {
			day = r.days[idx]
		} else {
			warnings = append(warnings, Warning{
				Index:   i,
				Field:   "day",
				Message: fmt.Sprintf("'%s' is not a school day", s.Day),
			})
		}

		if r.grid != nil {
			if p, ok := r.grid.Get(s.Period); !ok {
				warnings = append(warnings, Warning{
					Index:   i,
					Field:   "period",
					Message: fmt.Sprintf("period %s is not in the grid", schedule.FormatPeriodID(s.Period)),
				})
			} else if p.Break {
				warnings = append(warnings, Warning{
					Index:   i,
					Field:   "period",
					Message: fmt.Sprintf("period %s is a break row", schedule.FormatPeriodID(s.Period)),
				})
			}
		}

		subject := strings.TrimSpace(s.Subject)
		if subject == "" {
			warnings = append(warnings, Warning{Index: i, Field: "subject", Message: "missing subject"})
		}

		teacherID, ok := r.dir.ResolveTeacher(s.TeacherName)
		if !ok {
			teacherID = schedule.UnknownTeacherID
			warnings = append(warnings, Warning{
				Index:   i,
				Field:   "teacherName",
				Message: fmt.Sprintf("'%s' does not match any teacher", s.TeacherName),
			})
		}

		slot := schedule.Slot{
			ID:        fmt.Sprintf("%s-%d", batchID, i),
			Day:       day,
			Period:    s.Period,
			ClassName: className,
			Subject:   subject,
			TeacherID: teacherID,
		}

		prev, dupKey := seenKey[slot.Key()]
		if dupKey {
			warnings = append(warnings, Warning{
				Index:   i,
				Field:   "key",
				Message: fmt.Sprintf("same class and time as slot %d, this one wins", prev),
			})
		}
		seenKey[slot.Key()] = i

		if slot.HasKnownTeacher() && !dupKey {
			tt := teacherTime{teacher: teacherID, day: day, period: s.Period}
			if prev, dup := seenTeacher[tt]; dup {
				warnings = append(warnings, Warning{
					Index:   i,
					Field:   "teacher",
					Message: fmt.Sprintf("teacher already teaches slot %d at this time", prev),
				})
			} else {
				seenTeacher[tt] = i
			}
		}

		slots = append(slots, slot)
	}

	return slots, warnings
}

// UnresolvedTeachers counts warnings about unknown teacher names.
func UnresolvedTeachers(warnings []Warning) int {
	n := 0
	for _, w := range warnings {
		if w.Field == "teacherName" {
			n++
		}
	}
	return n
}
