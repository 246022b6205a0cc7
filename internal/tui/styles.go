// Package tui provides the terminal user interface for roster.
package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/javiermolinar/roster/internal/tui/theme"
)

// Column widths, recalculated from the terminal width.
const (
	defaultColWidth = 18
	minColWidth     = 8
	periodColWidth  = 6
)

// Styles holds all lipgloss styles for the TUI, derived from a theme.
type Styles struct {
	colorBg      lipgloss.Color
	colorFgMuted lipgloss.Color

	// Title bar
	TitleStyle    lipgloss.Style
	SubtitleStyle lipgloss.Style
	TabStyle      lipgloss.Style
	TabActive     lipgloss.Style

	// Grid headers
	DayHeaderStyle  lipgloss.Style
	PeriodStyle     lipgloss.Style
	PeriodFracStyle lipgloss.Style

	// Cells
	EmptyCellStyle lipgloss.Style
	LessonStyle    lipgloss.Style
	LessonAltStyle lipgloss.Style // checkerboard shade so adjacent lessons stay apart
	BreakStyle     lipgloss.Style
	ConflictStyle  lipgloss.Style
	CursorStyle    lipgloss.Style
	CursorConflict lipgloss.Style

	// Detail pane
	DetailStyle lipgloss.Style

	// Footer
	StatusStyle        lipgloss.Style
	ErrorStyle         lipgloss.Style
	PromptStyle        lipgloss.Style
	PromptFocusedStyle lipgloss.Style
	HintStyle          lipgloss.Style

	// Modal
	ModalStyle      lipgloss.Style
	ModalTitleStyle lipgloss.Style
	ModalBodyStyle  lipgloss.Style

	AppStyle lipgloss.Style
}

// NewStyles creates a new Styles instance from a theme.
func NewStyles(t *theme.Theme) *Styles {
	s := &Styles{}
	palette := theme.NewPalette(t)

	s.colorBg = palette.Bg
	s.colorFgMuted = palette.FgMuted

	s.TitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(palette.Accent).
		Background(palette.Bg)

	s.SubtitleStyle = lipgloss.NewStyle().
		Foreground(palette.FgMuted).
		Background(palette.Bg)

	s.TabStyle = lipgloss.NewStyle().
		Foreground(palette.FgMuted).
		Background(palette.Bg).
		Padding(0, 1)

	s.TabActive = s.TabStyle.
		Foreground(palette.TextOnAccent).
		Background(palette.Accent).
		Bold(true)

	s.DayHeaderStyle = lipgloss.NewStyle().
		Bold(true).
		Align(lipgloss.Center).
		Foreground(palette.Fg).
		Background(palette.Bg).
		Width(defaultColWidth)

	s.PeriodStyle = lipgloss.NewStyle().
		Foreground(palette.Accent).
		Background(palette.Bg).
		Width(periodColWidth)

	// Fractional ids are inserted break rows.
	s.PeriodFracStyle = s.PeriodStyle.
		Foreground(palette.Break)

	cell := lipgloss.NewStyle().
		Width(defaultColWidth).
		Align(lipgloss.Left)

	s.EmptyCellStyle = cell.
		Foreground(palette.FgMuted).
		Background(palette.Bg)

	s.LessonStyle = cell.
		Background(palette.LessonBg).
		Foreground(palette.TextOnLesson).
		Bold(true)

	s.LessonAltStyle = cell.
		Background(palette.LessonBgAlt).
		Foreground(palette.TextOnLesson).
		Bold(true)

	s.BreakStyle = cell.
		Background(palette.BreakBg).
		Foreground(palette.FgMuted).
		Italic(true)

	s.ConflictStyle = cell.
		Background(palette.ConflictBg).
		Foreground(palette.TextOnConflict).
		Bold(true)

	s.CursorStyle = cell.
		Background(palette.BgSelection).
		Foreground(palette.Accent).
		Bold(true)

	s.CursorConflict = cell.
		Background(palette.Conflict).
		Foreground(palette.TextOnConflict).
		Bold(true).
		Underline(true)

	s.DetailStyle = lipgloss.NewStyle().
		Foreground(palette.Fg).
		Background(palette.BgHighlight).
		Padding(0, 1)

	s.StatusStyle = lipgloss.NewStyle().
		Foreground(palette.Fg).
		Background(palette.Bg)

	s.ErrorStyle = lipgloss.NewStyle().
		Foreground(palette.TextOnWarning).
		Background(palette.Warning).
		Bold(true)

	s.PromptStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(palette.FgMuted).
		BorderBackground(palette.Bg).
		Background(palette.BgHighlight).
		Foreground(palette.Fg).
		Padding(0, 1)

	s.PromptFocusedStyle = s.PromptStyle.
		BorderForeground(palette.Accent).
		Background(palette.BgSelection).
		Bold(true)

	s.HintStyle = lipgloss.NewStyle().
		Foreground(palette.FgMuted).
		Background(palette.Bg)

	s.ModalStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(palette.Modal.Border).
		Background(palette.Modal.Bg).
		Foreground(palette.Modal.Text).
		Padding(1, 2)

	s.ModalTitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(palette.Modal.Highlight).
		Background(palette.Modal.Bg)

	s.ModalBodyStyle = lipgloss.NewStyle().
		Foreground(palette.Modal.Text).
		Background(palette.Modal.Bg)

	s.AppStyle = lipgloss.NewStyle().
		Background(palette.Bg).
		Padding(0, 1)

	return s
}

// cellStyle picks the style of a grid cell.
func (s *Styles) cellStyle(kind cellKind, selected bool, width int) lipgloss.Style {
	var st lipgloss.Style
	switch {
	case selected && kind == cellConflict:
		st = s.CursorConflict
	case selected:
		st = s.CursorStyle
	case kind == cellBreak:
		st = s.BreakStyle
	case kind == cellConflict:
		st = s.ConflictStyle
	case kind == cellLesson:
		st = s.LessonStyle
	case kind == cellLessonAlt:
		st = s.LessonAltStyle
	default:
		st = s.EmptyCellStyle
	}
	return st.Width(width).MaxWidth(width)
}

type cellKind int

const (
	cellEmpty cellKind = iota
	cellLesson
	cellLessonAlt
	cellBreak
	cellConflict
)
