package schedule

import "fmt"

// Store holds the canonical list of slots in a stable order.
// It accepts writes regardless of conflicts; conflicts are derived
// from its contents by the caller. Teacher and room references are not
// checked.
type Store struct {
	slots []Slot
}

// NewStore creates a store holding a copy of slots.
// Returns ErrDuplicateID if two slots share an ID.
func NewStore(slots []Slot) (*Store, error) {
	s := &Store{}
	if err := s.ReplaceAll(slots); err != nil {
		return nil, err
	}
	return s, nil
}

// Slots returns a copy of the stored slots.
func (s *Store) Slots() []Slot {
	out := make([]Slot, len(s.slots))
	copy(out, s.slots)
	return out
}

// Len returns the number of stored slots.
func (s *Store) Len() int {
	return len(s.slots)
}

// Get returns the slot with the given ID.
func (s *Store) Get(id string) (Slot, bool) {
	if i := indexOfID(s.slots, id); i >= 0 {
		return s.slots[i], true
	}
	return Slot{}, false
}

// ReplaceAll swaps the whole content, e.g. after loading from storage.
// The store is left unchanged if slots contain duplicate IDs.
func (s *Store) ReplaceAll(slots []Slot) error {
	seen := make(map[string]struct{}, len(slots))
	for _, slot := range slots {
		if _, ok := seen[slot.ID]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicateID, slot.ID)
		}
		seen[slot.ID] = struct{}{}
	}
	s.slots = make([]Slot, len(slots))
	copy(s.slots, slots)
	return nil
}

// Append adds a single slot from a manual edit.
func (s *Store) Append(slot Slot) error {
	if indexOfID(s.slots, slot.ID) >= 0 {
		return fmt.Errorf("%w: %s", ErrDuplicateID, slot.ID)
	}
	s.slots = append(s.slots, slot)
	return nil
}

// Replace swaps the slot that has the same ID as slot.
func (s *Store) Replace(slot Slot) error {
	i := indexOfID(s.slots, slot.ID)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrSlotNotFound, slot.ID)
	}
	s.slots[i] = slot
	return nil
}

// RemoveByID deletes a slot.
func (s *Store) RemoveByID(id string) (Slot, error) {
	i := indexOfID(s.slots, id)
	if i < 0 {
		return Slot{}, fmt.Errorf("%w: %s", ErrSlotNotFound, id)
	}
	removed := s.slots[i]
	s.slots = append(s.slots[:i], s.slots[i+1:]...)
	return removed, nil
}

// UpsertBatch merges a batch of proposed slots into the store.
// See Merge for the matching rules.
func (s *Store) UpsertBatch(batch []Slot) MergeReport {
	merged, report := Merge(s.slots, batch)
	s.slots = merged
	return report
}
