package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/javiermolinar/roster/internal/schedule"
	"github.com/javiermolinar/roster/internal/tui/input"
	"github.com/javiermolinar/roster/internal/view"
)

// View renders the TUI.
func (m Model) View() string {
	if m.mode == ModeModal && m.modalType != ModalNone {
		return m.renderModal()
	}
	if m.loading || m.sess == nil {
		return m.place("Loading...")
	}

	sections := []string{
		m.renderHeader(),
		m.renderGrid(),
		m.renderDetail(),
		m.renderFooter(),
	}
	content := lipgloss.JoinVertical(lipgloss.Left, sections...)
	return m.styles.AppStyle.Render(content)
}

func (m Model) place(content string) string {
	if m.width <= 0 || m.height <= 0 {
		return content
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content,
		lipgloss.WithWhitespaceBackground(m.styles.colorBg))
}

func (m Model) renderHeader() string {
	tabs := make([]string, 0, screenCount)
	for s := Screen(0); s < screenCount; s++ {
		style := m.styles.TabStyle
		if s == m.screen {
			style = m.styles.TabActive
		}
		tabs = append(tabs, style.Render(s.String()))
	}

	entities := m.entities()
	title := m.table.Title
	if m.screen == ScreenOccupancy {
		title = m.occ.Day
	}
	if title == "" {
		title = "(none)"
	}
	position := ""
	if len(entities) > 0 {
		position = fmt.Sprintf(" %d/%d", m.entity+1, len(entities))
	}

	line := lipgloss.JoinHorizontal(lipgloss.Top,
		m.styles.TitleStyle.Render("roster "),
		strings.Join(tabs, ""),
		m.styles.TitleStyle.Render("  "+title),
		m.styles.SubtitleStyle.Render(position),
	)
	if n := m.sess.Conflicts().Len(); n > 0 {
		line += m.styles.ErrorStyle.Render(fmt.Sprintf(" %d conflicting ", n))
	}
	return line
}

func (m Model) renderGrid() string {
	if m.screen == ScreenOccupancy {
		return m.renderOccupancy()
	}
	if len(m.table.Rows) == 0 {
		return m.styles.HintStyle.Render("No periods in the grid. Use /period add <id>.")
	}

	w := m.colWidth
	var b strings.Builder

	header := []string{m.styles.PeriodStyle.Render("JP")}
	for _, d := range m.table.Days {
		header = append(header, m.styles.DayHeaderStyle.Width(w).Render(fit(d, w)))
	}
	b.WriteString(strings.Join(header, " "))
	b.WriteString("\n")

	start, end := m.visibleRange()
	for r := start; r < end; r++ {
		row := m.table.Rows[r]
		periodStyle := m.styles.PeriodStyle
		if row.Period.IsFractional() {
			periodStyle = m.styles.PeriodFracStyle
		}
		cells := []string{periodStyle.Render(schedule.FormatPeriodID(row.Period.ID))}
		for c, cell := range row.Cells {
			selected := r == m.cursor.Row && c == m.cursor.Col
			style := m.styles.cellStyle(tableCellKind(cell, r+c), selected, w)
			cells = append(cells, style.Render(fit(cellText(cell), w)))
		}
		b.WriteString(strings.Join(cells, " "))
		if r < end-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (m Model) renderOccupancy() string {
	if len(m.occ.Rooms) == 0 {
		return m.styles.HintStyle.Render(fmt.Sprintf("No rooms booked on %s.", m.occ.Day))
	}

	w := m.colWidth
	lead := defaultColWidth / 2
	var b strings.Builder

	header := []string{m.styles.PeriodStyle.Width(lead).Render("Room")}
	for _, p := range m.occ.Periods {
		st := m.styles.DayHeaderStyle
		if p.Break {
			st = st.Foreground(m.styles.colorFgMuted)
		}
		header = append(header, st.Width(w).Render(fit(schedule.FormatPeriodID(p.ID), w)))
	}
	b.WriteString(strings.Join(header, " "))
	b.WriteString("\n")

	start, end := m.visibleRange()
	for r := start; r < end; r++ {
		room := m.occ.Rooms[r]
		cells := []string{m.styles.PeriodStyle.Width(lead).Render(fit(room.Name, lead))}
		for c, cell := range room.Cells {
			selected := r == m.cursor.Row && c == m.cursor.Col
			style := m.styles.cellStyle(occupancyCellKind(cell), selected, w)
			cells = append(cells, style.Render(fit(view.OccupancyText(cell), w)))
		}
		b.WriteString(strings.Join(cells, " "))
		if r < end-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// visibleRange returns the grid rows that fit on screen.
func (m Model) visibleRange() (int, int) {
	start := clamp(m.scrollOffset, 0, max(0, m.rowCount()-1))
	end := min(m.rowCount(), start+m.visibleRows())
	return start, end
}

// renderDetail describes the cell under the cursor on one line.
func (m Model) renderDetail() string {
	var text string
	if c, ok := m.selectedOccupancy(); ok {
		text = fmt.Sprintf("%s, %s, period %s: %d lesson(s)", m.sess.Directory().RoomName(c.RoomID), m.occ.Day, schedule.FormatPeriodID(c.Period.ID), len(c.Slots))
	} else if c, ok := m.selectedCell(); ok {
		text = fmt.Sprintf("%s %s", c.Day, view.PeriodHeader(c.Period))
		if !c.Empty() {
			text += fmt.Sprintf(": %s", c.Slot)
			if c.Extra > 0 {
				text += fmt.Sprintf(" +%d more", c.Extra)
			}
		}
	}
	if n := len(m.table.Orphans); n > 0 && m.screen != ScreenOccupancy {
		text += fmt.Sprintf("  [%d outside the grid]", n)
	}
	width := max(0, m.width-2)
	return m.styles.DetailStyle.Width(width).Render(fit(text, max(0, width-2)))
}

func (m Model) renderFooter() string {
	var lines []string

	if m.statusMsg != "" {
		style := m.styles.StatusStyle
		if m.statusErr {
			style = m.styles.ErrorStyle
		}
		lines = append(lines, style.Render(m.statusMsg))
	} else if m.suggesting {
		lines = append(lines, m.styles.StatusStyle.Render("Asking for suggestions..."))
	} else {
		lines = append(lines, "")
	}

	if m.mode == ModePrompt {
		box := m.styles.PromptFocusedStyle.Width(max(10, m.width-4)).Render(m.prompt.View())
		lines = append(lines, box)
		if hint := m.promptHint(); hint != "" {
			lines = append(lines, m.styles.HintStyle.Render(hint))
		}
		return strings.Join(lines, "\n")
	}

	lines = append(lines, m.help.View(m.keys))
	return strings.Join(lines, "\n")
}

// promptHint lists the commands matching the prompt, or the usage of the
// command being typed.
func (m Model) promptHint() string {
	value := m.prompt.Value()
	if matches := input.Matching(value, promptCommands); len(matches) > 0 {
		names := make([]string, len(matches))
		for i, c := range matches {
			names[i] = c.Name
		}
		if len(matches) == 1 {
			return matches[0].Usage + "  " + matches[0].Description
		}
		return strings.Join(names, "  ")
	}
	name, _ := input.SplitCommand(value)
	if name == "/add" {
		return m.addUsage()
	}
	for _, c := range promptCommands {
		if c.Name == name {
			return c.Usage
		}
	}
	return ""
}

func (m Model) renderModal() string {
	var title, body, hint string
	switch m.modalType {
	case ModalInit:
		title, body, hint = "Welcome", m.initMessage(), ""
	case ModalConfirmRemove:
		title, body, hint = m.modalTitle, m.modalBody, "y remove  n cancel"
	default:
		title, body, hint = m.modalTitle, m.modalBody, "esc close  y copy"
	}

	parts := []string{
		m.styles.ModalTitleStyle.Render(title),
		"",
		m.styles.ModalBodyStyle.Render(body),
	}
	if hint != "" {
		parts = append(parts, "", m.styles.HintStyle.Render(hint))
	}
	box := m.styles.ModalStyle.Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
	return m.place(box)
}

func cellText(c view.Cell) string {
	if c.Period.Break && c.Empty() {
		return c.Period.Label
	}
	return view.CellText(c)
}

func tableCellKind(c view.Cell, parity int) cellKind {
	switch {
	case c.Period.Break && c.Empty():
		return cellBreak
	case c.Empty():
		return cellEmpty
	case c.Conflicting:
		return cellConflict
	case parity%2 == 1:
		return cellLessonAlt
	default:
		return cellLesson
	}
}

func occupancyCellKind(c view.OccupancyCell) cellKind {
	switch {
	case c.DoubleBooked:
		return cellConflict
	case len(c.Slots) > 0:
		return cellLesson
	case c.Period.Break:
		return cellBreak
	default:
		return cellEmpty
	}
}

// fit truncates s to width display cells.
func fit(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return ansi.Truncate(s, width, "…")
}
