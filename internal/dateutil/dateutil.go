// Package dateutil maps calendar dates and day keywords onto the school week.
package dateutil

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/javiermolinar/roster/internal/schedule"
)

// Resolution errors.
var (
	ErrUnknownDay   = errors.New("unknown day")
	ErrNotSchoolDay = errors.New("not a school day")
)

// weekdayMap maps weekday names to time.Weekday values.
var weekdayMap = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// position returns the week position of wd with Monday as 0.
func position(wd time.Weekday) int {
	return (int(wd) + 6) % 7
}

// Weekday returns the school day that t falls on. The week starts on
// Monday, which maps to days[0].
func Weekday(days []string, t time.Time) (string, error) {
	return dayAt(days, t.Weekday())
}

func dayAt(days []string, wd time.Weekday) (string, error) {
	i := position(wd)
	if i >= len(days) {
		return "", fmt.Errorf("%w: %s", ErrNotSchoolDay, wd)
	}
	return days[i], nil
}

// NextSchoolDay returns the first school day strictly after t.
func NextSchoolDay(days []string, t time.Time) (string, error) {
	for i := 1; i <= 7; i++ {
		if day, err := Weekday(days, t.AddDate(0, 0, i)); err == nil {
			return day, nil
		}
	}
	return "", ErrNotSchoolDay
}

// ResolveDay turns user input into one of the configured days:
//   - Empty string or "today": the school day of now
//   - "tomorrow": the school day after now
//   - "next": the first school day after now, skipping weekends
//   - A configured day name such as "Senin"
//   - An English weekday name, by position in the week
//
// All inputs are case-insensitive.
// Returns ErrNotSchoolDay when the date falls outside the school week and
// ErrUnknownDay for unrecognized input.
func ResolveDay(input string, days []string, now time.Time) (string, error) {
	in := strings.ToLower(strings.TrimSpace(input))

	switch in {
	case "", "today":
		return Weekday(days, now)
	case "tomorrow":
		return Weekday(days, now.AddDate(0, 0, 1))
	case "next":
		return NextSchoolDay(days, now)
	}

	if i := schedule.DayIndex(days, in); i >= 0 {
		return days[i], nil
	}
	if wd, ok := weekdayMap[in]; ok {
		return dayAt(days, wd)
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownDay, input)
}
