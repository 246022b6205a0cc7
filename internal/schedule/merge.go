package schedule

import "slices"

// Superseded records a stored slot that a merge discarded.
type Superseded struct {
	Old Slot
	New Slot
}

// MergeReport summarises a merge.
type MergeReport struct {
	Replaced   int          // candidates that overwrote a different slot under their lesson key
	Appended   int          // candidates with a new lesson key
	Superseded []Superseded // every discarded slot, in processing order

	changed bool
}

// Changed reports whether the merged schedule differs from the existing one.
func (r MergeReport) Changed() bool {
	return r.changed
}

// Merge reconciles a batch of candidate slots into existing.
//
// Candidates are processed in order. A candidate replaces, in place, the
// slot that has the same (day, period, class); otherwise it is appended.
// Two candidates with the same key in one batch: the later one wins.
// A stored slot whose ID equals the candidate's ID but sits under another
// key is dropped too, so IDs stay unique.
//
// existing is not modified. Conflicts are not checked here.
func Merge(existing, batch []Slot) ([]Slot, MergeReport) {
	result := make([]Slot, len(existing), len(existing)+len(batch))
	copy(result, existing)

	var report MergeReport
	for _, candidate := range batch {
		idx := indexOfKey(result, candidate.Key())

		if dup := indexOfID(result, candidate.ID); dup >= 0 && dup != idx {
			report.Superseded = append(report.Superseded, Superseded{Old: result[dup], New: candidate})
			result = append(result[:dup], result[dup+1:]...)
			if idx > dup {
				idx--
			}
		}

		if idx >= 0 {
			if result[idx] != candidate {
				report.Superseded = append(report.Superseded, Superseded{Old: result[idx], New: candidate})
				result[idx] = candidate
				report.Replaced++
			}
			continue
		}

		result = append(result, candidate)
		report.Appended++
	}

	report.changed = !slices.Equal(result, existing)
	return result, report
}

func indexOfKey(slots []Slot, key LessonKey) int {
	for i := range slots {
		if slots[i].Key() == key {
			return i
		}
	}
	return -1
}

func indexOfID(slots []Slot, id string) int {
	for i := range slots {
		if slots[i].ID == id {
			return i
		}
	}
	return -1
}
