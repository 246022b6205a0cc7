// Package schedule defines the core timetable types: the period grid,
// scheduled slots, the slot store, and the merge of proposed slots.
package schedule

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Validation errors.
var (
	ErrInvalidDay     = errors.New("day is not a configured school day")
	ErrInvalidPeriod  = errors.New("period must be a number")
	ErrEmptyClass     = errors.New("class name cannot be empty")
	ErrEmptySubject   = errors.New("subject cannot be empty")
	ErrPeriodExists   = errors.New("period already exists")
	ErrPeriodNotFound = errors.New("period not found")
)

// Store errors.
var (
	ErrSlotNotFound = errors.New("slot not found")
	ErrDuplicateID  = errors.New("slot id already exists")
)

// UnknownTeacherID is stored when a teacher could not be resolved.
const UnknownTeacherID = "unknown"

// DefaultDays are the school days in display order.
var DefaultDays = []string{"Senin", "Selasa", "Rabu", "Kamis", "Jumat", "Sabtu"}

// Slot is one scheduled lesson: a class taking a subject with a teacher
// at a (day, period), optionally in a room.
// Slots are replaced as a whole, never patched field by field.
type Slot struct {
	ID        string
	Day       string
	Period    float64
	ClassName string
	Subject   string
	TeacherID string
	RoomID    string // empty means no room constraint
}

// LessonKey identifies "what class X does at this hour".
// Merges match on it instead of on ID.
type LessonKey struct {
	Day       string
	Period    float64
	ClassName string
}

// Key returns the lesson key of the slot.
func (s Slot) Key() LessonKey {
	return LessonKey{Day: s.Day, Period: s.Period, ClassName: s.ClassName}
}

// HasRoom reports whether the slot is bound to a room.
func (s Slot) HasRoom() bool {
	return s.RoomID != ""
}

// HasKnownTeacher reports whether the teacher reference was resolved.
func (s Slot) HasKnownTeacher() bool {
	return s.TeacherID != "" && s.TeacherID != UnknownTeacherID
}

// SameTime reports whether both slots occupy the same day and period.
func (s Slot) SameTime(other Slot) bool {
	return s.Day == other.Day && s.Period == other.Period
}

// String returns a short human-readable form of the slot.
func (s Slot) String() string {
	room := "-"
	if s.HasRoom() {
		room = s.RoomID
	}
	return fmt.Sprintf("%s JP %s %s %s (teacher %s, room %s)",
		s.Day, FormatPeriodID(s.Period), s.ClassName, s.Subject, s.TeacherID, room)
}

// NewID returns a fresh opaque slot identifier.
func NewID() string {
	return uuid.NewString()
}

// New creates a slot with a fresh ID.
// days lists the allowed day names; an empty list accepts any non-empty day.
// The day is stored with the casing of its entry in days.
// An empty teacherID is stored as UnknownTeacherID.
func New(days []string, day string, period float64, className, subject, teacherID, roomID string) (Slot, error) {
	day = strings.TrimSpace(day)
	if day == "" {
		return Slot{}, fmt.Errorf("%w: %q", ErrInvalidDay, day)
	}
	if len(days) > 0 {
		i := DayIndex(days, day)
		if i < 0 {
			return Slot{}, fmt.Errorf("%w: %q", ErrInvalidDay, day)
		}
		day = days[i]
	}
	className = strings.TrimSpace(className)
	if className == "" {
		return Slot{}, ErrEmptyClass
	}
	subject = strings.TrimSpace(subject)
	if subject == "" {
		return Slot{}, ErrEmptySubject
	}
	teacherID = strings.TrimSpace(teacherID)
	if teacherID == "" {
		teacherID = UnknownTeacherID
	}

	return Slot{
		ID:        NewID(),
		Day:       day,
		Period:    period,
		ClassName: className,
		Subject:   subject,
		TeacherID: teacherID,
		RoomID:    strings.TrimSpace(roomID),
	}, nil
}

// DayIndex returns the position of day in days, or -1.
// The comparison ignores case.
func DayIndex(days []string, day string) int {
	for i, d := range days {
		if strings.EqualFold(d, day) {
			return i
		}
	}
	return -1
}
