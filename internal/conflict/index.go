package conflict

import "github.com/javiermolinar/roster/internal/schedule"

type timeKey struct {
	day    string
	period float64
}

type bucket struct {
	byTeacher map[string][]string
	byRoom    map[string][]string
}

// Index buckets slots by (day, period), then by teacher and by room, so
// conflicts are found without comparing every pair.
// It is a snapshot: rebuild it after the schedule changes.
type Index struct {
	buckets map[timeKey]*bucket
}

// NewIndex builds an index over slots.
func NewIndex(slots []schedule.Slot) *Index {
	idx := &Index{buckets: make(map[timeKey]*bucket)}
	for _, s := range slots {
		key := timeKey{day: s.Day, period: s.Period}
		b := idx.buckets[key]
		if b == nil {
			b = &bucket{
				byTeacher: make(map[string][]string),
				byRoom:    make(map[string][]string),
			}
			idx.buckets[key] = b
		}
		b.byTeacher[s.TeacherID] = append(b.byTeacher[s.TeacherID], s.ID)
		if s.HasRoom() {
			b.byRoom[s.RoomID] = append(b.byRoom[s.RoomID], s.ID)
		}
	}
	return idx
}

// Conflicts returns the same set as FindConflicts over the indexed slots.
func (idx *Index) Conflicts() Set {
	set := make(Set)
	for _, b := range idx.buckets {
		markGroups(set, b.byTeacher, Teacher)
		markGroups(set, b.byRoom, Room)
	}
	return set
}

// IsConflicting reports whether slot collides with an indexed slot. The
// slot need not be indexed, so a candidate can be checked before it is
// stored.
func (idx *Index) IsConflicting(slot schedule.Slot) bool {
	b := idx.buckets[timeKey{day: slot.Day, period: slot.Period}]
	if b == nil {
		return false
	}
	if hasOther(b.byTeacher[slot.TeacherID], slot.ID) {
		return true
	}
	return slot.HasRoom() && hasOther(b.byRoom[slot.RoomID], slot.ID)
}

// markGroups flags every ID in a group that holds at least two distinct IDs.
func markGroups(set Set, groups map[string][]string, kind Kind) {
	for _, ids := range groups {
		if len(ids) < 2 || !hasOther(ids, ids[0]) {
			continue
		}
		for _, id := range ids {
			set[id] |= kind
		}
	}
}

func hasOther(ids []string, id string) bool {
	for _, other := range ids {
		if other != id {
			return true
		}
	}
	return false
}
