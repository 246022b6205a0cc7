package schedule

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// BreakLabel is the default label given to non-integer periods.
const BreakLabel = "ISTIRAHAT"

// Period is one row of the timetable grid.
// Integer identifiers are teaching periods; non-integer ones (e.g. 4.5)
// are reserved for breaks and ceremonies inserted between them.
type Period struct {
	ID    float64
	Label string // free text, e.g. "07:00 - 07:45"
	Break bool   // non-teaching row, decided when the period is created
}

// IsFractional reports whether the period identifier is not a whole number.
func (p Period) IsFractional() bool {
	return IsFractionalID(p.ID)
}

// IsFractionalID reports whether id is not a whole number.
func IsFractionalID(id float64) bool {
	return id != math.Trunc(id)
}

// FormatPeriodID renders a period identifier without trailing zeros ("4", "4.5").
func FormatPeriodID(id float64) string {
	return strconv.FormatFloat(id, 'f', -1, 64)
}

// ParsePeriodID parses a period identifier such as "4" or "4.5".
func ParsePeriodID(s string) (float64, error) {
	id, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(id) || math.IsInf(id, 0) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidPeriod, s)
	}
	return id, nil
}

// Grid holds the set of active periods and their labels.
// It keeps no sorted view; Periods sorts on every call.
type Grid struct {
	periods map[float64]Period
}

// NewGrid creates a grid from the given periods.
// Later duplicates of an identifier are ignored.
func NewGrid(periods ...Period) *Grid {
	g := &Grid{periods: make(map[float64]Period, len(periods))}
	for _, p := range periods {
		_ = g.AddPeriod(p)
	}
	return g
}

// Add inserts a period with the given label.
// A non-integer identifier is marked as a break, and an empty label
// for it defaults to BreakLabel.
func (g *Grid) Add(id float64, label string) error {
	p := Period{ID: id, Label: label}
	if IsFractionalID(id) {
		p.Break = true
		if strings.TrimSpace(label) == "" {
			p.Label = BreakLabel
		}
	}
	return g.AddPeriod(p)
}

// AddPeriod inserts p exactly as given.
// Returns ErrPeriodExists if the identifier is already present.
func (g *Grid) AddPeriod(p Period) error {
	if g.periods == nil {
		g.periods = make(map[float64]Period)
	}
	if math.IsNaN(p.ID) || math.IsInf(p.ID, 0) {
		return ErrInvalidPeriod
	}
	if _, ok := g.periods[p.ID]; ok {
		return fmt.Errorf("%w: %s", ErrPeriodExists, FormatPeriodID(p.ID))
	}
	g.periods[p.ID] = p
	return nil
}

// Remove deletes a period. Slots that reference it are left untouched.
func (g *Grid) Remove(id float64) error {
	if _, ok := g.periods[id]; !ok {
		return fmt.Errorf("%w: %s", ErrPeriodNotFound, FormatPeriodID(id))
	}
	delete(g.periods, id)
	return nil
}

// Relabel overwrites the label of an existing period.
func (g *Grid) Relabel(id float64, label string) error {
	p, ok := g.periods[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrPeriodNotFound, FormatPeriodID(id))
	}
	p.Label = label
	g.periods[id] = p
	return nil
}

// SetBreak changes whether a period is a non-teaching row.
func (g *Grid) SetBreak(id float64, isBreak bool) error {
	p, ok := g.periods[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrPeriodNotFound, FormatPeriodID(id))
	}
	p.Break = isBreak
	g.periods[id] = p
	return nil
}

// Has reports whether the grid contains the identifier.
func (g *Grid) Has(id float64) bool {
	_, ok := g.periods[id]
	return ok
}

// Get returns the period with the given identifier.
func (g *Grid) Get(id float64) (Period, bool) {
	p, ok := g.periods[id]
	return p, ok
}

// Len returns the number of periods.
func (g *Grid) Len() int {
	return len(g.periods)
}

// Periods returns all periods sorted ascending by identifier.
func (g *Grid) Periods() []Period {
	out := make([]Period, 0, len(g.periods))
	for _, p := range g.periods {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// TeachingPeriods returns the sorted periods that are not breaks.
func (g *Grid) TeachingPeriods() []Period {
	all := g.Periods()
	out := all[:0]
	for _, p := range all {
		if !p.Break {
			out = append(out, p)
		}
	}
	return out
}

// Clone returns an independent copy of the grid.
func (g *Grid) Clone() *Grid {
	c := &Grid{periods: make(map[float64]Period, len(g.periods))}
	for id, p := range g.periods {
		c.periods[id] = p
	}
	return c
}
