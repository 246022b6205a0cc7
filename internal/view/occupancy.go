package view

import "github.com/javiermolinar/roster/internal/schedule"

// OccupancyCell lists the slots holding a room during one period.
type OccupancyCell struct {
	RoomID       string
	Period       schedule.Period
	Slots        []schedule.Slot
	DoubleBooked bool
}

// RoomRow is one room across all periods of a day.
type RoomRow struct {
	RoomID string
	Name   string
	Cells  []OccupancyCell // one per grid period, ascending
}

// Occupancy is the room usage of a single day.
type Occupancy struct {
	Day     string
	Periods []schedule.Period
	Rooms   []RoomRow
}

// DoubleBooked returns the cells with more than one occupant.
func (o Occupancy) DoubleBooked() []OccupancyCell {
	var out []OccupancyCell
	for _, r := range o.Rooms {
		for _, c := range r.Cells {
			if c.DoubleBooked {
				out = append(out, c)
			}
		}
	}
	return out
}

// Empty reports whether no room is booked during any period.
func (o Occupancy) Empty() bool {
	for _, r := range o.Rooms {
		for _, c := range r.Cells {
			if len(c.Slots) > 0 {
				return false
			}
		}
	}
	return true
}

// RoomOccupancy groups every room-bound slot of day by room, then period.
// Directory rooms come first in directory order, then unknown room IDs.
// Slots without a room are not shown.
func (p *Projector) RoomOccupancy(day string) Occupancy {
	periods := p.grid.Periods()
	occ := Occupancy{Day: day, Periods: periods}

	byRoom := make(map[string]map[float64][]schedule.Slot)
	for _, s := range p.slots {
		if s.Day != day || !s.HasRoom() {
			continue
		}
		if byRoom[s.RoomID] == nil {
			byRoom[s.RoomID] = make(map[float64][]schedule.Slot)
		}
		byRoom[s.RoomID][s.Period] = append(byRoom[s.RoomID][s.Period], s)
	}

	for _, id := range RoomIDs(p.dir, p.slots) {
		row := RoomRow{RoomID: id, Name: p.dir.RoomName(id)}
		for _, period := range periods {
			slots := byRoom[id][period.ID]
			row.Cells = append(row.Cells, OccupancyCell{
				RoomID:       id,
				Period:       period,
				Slots:        slots,
				DoubleBooked: len(slots) > 1,
			})
		}
		occ.Rooms = append(occ.Rooms, row)
	}
	return occ
}
