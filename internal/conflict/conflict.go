// Package conflict detects double bookings in a schedule.
//
// Two slots conflict when they share a day and period and either the same
// teacher or the same non-empty room, and have different IDs. Conflicts are
// symmetric and advisory: both slots are flagged and nothing is resolved.
package conflict

import (
	"sort"

	"github.com/javiermolinar/roster/internal/schedule"
)

// Kind describes why a slot is in conflict.
type Kind uint8

const (
	Teacher Kind = 1 << iota
	Room
)

// String returns a human-readable form of the kind.
func (k Kind) String() string {
	switch k {
	case 0:
		return "none"
	case Teacher:
		return "teacher"
	case Room:
		return "room"
	case Teacher | Room:
		return "teacher+room"
	default:
		return "unknown"
	}
}

// Set maps conflicting slot IDs to the reasons they conflict.
type Set map[string]Kind

// Has reports whether the slot ID is in conflict.
func (s Set) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// Kind returns the conflict reasons for the slot ID.
func (s Set) Kind(id string) Kind {
	return s[id]
}

// IDs returns the conflicting IDs sorted.
func (s Set) IDs() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Len returns the number of conflicting slots.
func (s Set) Len() int {
	return len(s)
}

// Kinds returns why a and b conflict with each other, or 0.
func Kinds(a, b schedule.Slot) Kind {
	if a.ID == b.ID || !a.SameTime(b) {
		return 0
	}
	var k Kind
	if a.TeacherID == b.TeacherID {
		k |= Teacher
	}
	if a.HasRoom() && a.RoomID == b.RoomID {
		k |= Room
	}
	return k
}

// FindConflicts returns every slot that collides with at least one other.
// It compares all pairs; use Index for large schedules.
func FindConflicts(slots []schedule.Slot) Set {
	set := make(Set)
	for i := range slots {
		for j := i + 1; j < len(slots); j++ {
			if k := Kinds(slots[i], slots[j]); k != 0 {
				set[slots[i].ID] |= k
				set[slots[j].ID] |= k
			}
		}
	}
	return set
}

// IsSlotConflicting reports whether slot collides with any slot in slots,
// without computing the whole set. slot itself may or may not be part of
// slots.
func IsSlotConflicting(slots []schedule.Slot, slot schedule.Slot) bool {
	for _, other := range slots {
		if Kinds(slot, other) != 0 {
			return true
		}
	}
	return false
}
