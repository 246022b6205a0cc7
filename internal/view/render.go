package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/charmbracelet/x/ansi"

	"github.com/javiermolinar/roster/internal/schedule"
)

// ConflictMark prefixes cells that take part in a conflict.
const ConflictMark = "!"

// PeriodHeader renders the left column of a row, e.g. "4.5 10:00 - 10:15".
func PeriodHeader(p schedule.Period) string {
	if p.Label == "" {
		return schedule.FormatPeriodID(p.ID)
	}
	return schedule.FormatPeriodID(p.ID) + " " + p.Label
}

// CellText renders a cell as a single line.
func CellText(c Cell) string {
	if c.Period.Break && c.Empty() {
		return "-"
	}
	if c.Empty() {
		return ""
	}
	var b strings.Builder
	if c.Conflicting {
		b.WriteString(ConflictMark)
	}
	b.WriteString(c.Title)
	if c.Subtitle != "" {
		b.WriteString(" / ")
		b.WriteString(c.Subtitle)
	}
	if c.Extra > 0 {
		fmt.Fprintf(&b, " +%d", c.Extra)
	}
	return b.String()
}

// RenderText renders a table with box borders and no colors.
// Cells are truncated to cellWidth when it is positive.
func RenderText(t Table, cellWidth int) string {
	headers := append([]string{"JP"}, t.Days...)
	rows := make([][]string, 0, len(t.Rows))
	for _, r := range t.Rows {
		row := []string{PeriodHeader(r.Period)}
		for _, c := range r.Cells {
			text := CellText(c)
			if c.Period.Break && c.Empty() {
				text = r.Period.Label
			}
			row = append(row, truncate(text, cellWidth))
		}
		rows = append(rows, row)
	}

	out := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...).
		String()

	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s\n", t.Mode, t.Title)
	b.WriteString(out)
	b.WriteString("\n")
	if len(t.Orphans) > 0 {
		fmt.Fprintf(&b, "%d slot(s) outside the period grid:\n", len(t.Orphans))
		for _, s := range t.Orphans {
			fmt.Fprintf(&b, "  %s\n", s)
		}
	}
	return b.String()
}

// RenderOccupancyText renders the room occupancy of one day.
// Double-booked cells list every occupant.
func RenderOccupancyText(o Occupancy, cellWidth int) string {
	headers := []string{"Room"}
	for _, p := range o.Periods {
		headers = append(headers, schedule.FormatPeriodID(p.ID))
	}

	rows := make([][]string, 0, len(o.Rooms))
	for _, r := range o.Rooms {
		row := []string{r.Name}
		for _, c := range r.Cells {
			row = append(row, truncate(OccupancyText(c), cellWidth))
		}
		rows = append(rows, row)
	}

	out := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...).
		String()

	return fmt.Sprintf("Room occupancy: %s\n%s\n", o.Day, out)
}

// OccupancyText renders the occupants of a room cell.
func OccupancyText(c OccupancyCell) string {
	if c.Period.Break && len(c.Slots) == 0 {
		return "-"
	}
	names := make([]string, len(c.Slots))
	for i, s := range c.Slots {
		names[i] = s.ClassName
	}
	text := strings.Join(names, ", ")
	if c.DoubleBooked {
		text = ConflictMark + text
	}
	return text
}

func truncate(s string, width int) string {
	if width <= 0 {
		return s
	}
	return ansi.Truncate(s, width, "…")
}
