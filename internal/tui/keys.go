package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/javiermolinar/roster/internal/schedule"
	"github.com/javiermolinar/roster/internal/summary"
	"github.com/javiermolinar/roster/internal/tui/commands"
	"github.com/javiermolinar/roster/internal/tui/input"
	"github.com/javiermolinar/roster/internal/view"
)

type keyMap struct {
	Left       key.Binding
	Right      key.Binding
	Up         key.Binding
	Down       key.Binding
	PageUp     key.Binding
	PageDown   key.Binding
	NextScreen key.Binding
	PrevScreen key.Binding
	NextEntity key.Binding
	PrevEntity key.Binding
	Detail     key.Binding
	Add        key.Binding
	Remove     key.Binding
	Suggest    key.Binding
	Copy       key.Binding
	Summary    key.Binding
	Prompt     key.Binding
	Help       key.Binding
	Quit       key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Left:       key.NewBinding(key.WithKeys("h", "left"), key.WithHelp("h/←", "left")),
		Right:      key.NewBinding(key.WithKeys("l", "right"), key.WithHelp("l/→", "right")),
		Up:         key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/↑", "up")),
		Down:       key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/↓", "down")),
		PageUp:     key.NewBinding(key.WithKeys("pgup", "ctrl+u"), key.WithHelp("pgup", "page up")),
		PageDown:   key.NewBinding(key.WithKeys("pgdown", "ctrl+d"), key.WithHelp("pgdn", "page down")),
		NextScreen: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next view")),
		PrevScreen: key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev view")),
		NextEntity: key.NewBinding(key.WithKeys("]", "n"), key.WithHelp("]", "next")),
		PrevEntity: key.NewBinding(key.WithKeys("[", "N"), key.WithHelp("[", "prev")),
		Detail:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "details")),
		Add:        key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add lesson")),
		Remove:     key.NewBinding(key.WithKeys("x", "d"), key.WithHelp("x", "remove")),
		Suggest:    key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "suggest")),
		Copy:       key.NewBinding(key.WithKeys("y", "c"), key.WithHelp("y", "copy grid")),
		Summary:    key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "workload")),
		Prompt:     key.NewBinding(key.WithKeys("/", ":"), key.WithHelp("/", "command")),
		Help:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextScreen, k.NextEntity, k.Add, k.Remove, k.Suggest, k.Prompt, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Left, k.Right, k.Up, k.Down, k.PageUp, k.PageDown},
		{k.NextScreen, k.PrevScreen, k.NextEntity, k.PrevEntity, k.Detail},
		{k.Add, k.Remove, k.Suggest, k.Copy, k.Summary},
		{k.Prompt, k.Help, k.Quit},
	}
}

// handleKeyMsg handles keyboard input.
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.logKeyPress(msg)

	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	switch m.mode {
	case ModePrompt:
		return m.handlePromptKeys(msg)
	case ModeModal:
		return m.handleModalKeys(msg)
	default:
		return m.handleNormalKeys(msg)
	}
}

func (m Model) logKeyPress(msg tea.KeyMsg) {
	m.log.Debug("key",
		zap.String("key", msg.String()),
		zap.Stringer("mode", m.mode),
		zap.Stringer("screen", m.screen),
		zap.Int("col", m.cursor.Col),
		zap.Int("row", m.cursor.Row),
	)
}

// handleNormalKeys handles keys in normal mode.
func (m Model) handleNormalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.loading {
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Left):
		m.cursor.Col = max(0, m.cursor.Col-1)
	case key.Matches(msg, m.keys.Right):
		m.cursor.Col = min(max(0, m.colCount()-1), m.cursor.Col+1)
	case key.Matches(msg, m.keys.Up):
		m.cursor.Row = max(0, m.cursor.Row-1)
		m.ensureCursorVisible()
	case key.Matches(msg, m.keys.Down):
		m.cursor.Row = min(max(0, m.rowCount()-1), m.cursor.Row+1)
		m.ensureCursorVisible()
	case key.Matches(msg, m.keys.PageUp):
		m.cursor.Row = max(0, m.cursor.Row-m.visibleRows())
		m.ensureCursorVisible()
	case key.Matches(msg, m.keys.PageDown):
		m.cursor.Row = min(max(0, m.rowCount()-1), m.cursor.Row+m.visibleRows())
		m.ensureCursorVisible()

	case key.Matches(msg, m.keys.NextScreen):
		m = m.switchScreen((m.screen + 1) % screenCount)
	case key.Matches(msg, m.keys.PrevScreen):
		m = m.switchScreen((m.screen + screenCount - 1) % screenCount)
	case key.Matches(msg, m.keys.NextEntity):
		m = m.shiftEntity(1)
	case key.Matches(msg, m.keys.PrevEntity):
		m = m.shiftEntity(-1)

	case key.Matches(msg, m.keys.Detail):
		return m.openDetail(), nil
	case key.Matches(msg, m.keys.Add):
		return m.openPrompt("/add ")
	case key.Matches(msg, m.keys.Remove):
		return m.confirmRemove()
	case key.Matches(msg, m.keys.Suggest):
		return m.startSuggest()
	case key.Matches(msg, m.keys.Copy):
		return m, commands.CopyText(m.gridText())
	case key.Matches(msg, m.keys.Summary):
		return m.openSummary(), nil
	case key.Matches(msg, m.keys.Prompt):
		return m.openPrompt("/")
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}

// handlePromptKeys handles keys while the command prompt is focused.
func (m Model) handlePromptKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return m.closePrompt(), nil
	case "tab":
		if value, ok := input.Complete(m.prompt.Value(), promptCommands); ok {
			m.prompt.SetValue(value)
			m.prompt.CursorEnd()
		}
		return m, nil
	case "enter":
		line := m.prompt.Value()
		m = m.closePrompt()
		return m.runPrompt(line)
	}

	var cmd tea.Cmd
	m.prompt, cmd = m.prompt.Update(msg)
	return m, cmd
}

// handleModalKeys handles keys while a modal is shown.
func (m Model) handleModalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.modalType {
	case ModalInit:
		switch msg.String() {
		case "y", "enter":
			return m.runInit()
		case "n", "q", "esc":
			return m, tea.Quit
		}
		return m, nil

	case ModalConfirmRemove:
		switch msg.String() {
		case "y", "enter":
			id := m.removeID
			m = m.closeModal()
			return m.removeSlot(id)
		case "n", "esc", "q":
			return m.closeModal(), nil
		}
		return m, nil

	default:
		switch msg.String() {
		case "esc", "enter", "q":
			return m.closeModal(), nil
		case "y", "c":
			return m, commands.CopyText(m.modalBody)
		}
		return m, nil
	}
}

func (m Model) switchScreen(s Screen) Model {
	m.screen = s
	m.entity = 0
	m.cursor = Position{}
	m.scrollOffset = 0
	m.refresh()
	return m
}

func (m Model) shiftEntity(delta int) Model {
	n := len(m.entities())
	if n == 0 {
		return m
	}
	m.entity = (m.entity + delta + n) % n
	m.refresh()
	return m
}

func (m Model) openPrompt(value string) (tea.Model, tea.Cmd) {
	m.mode = ModePrompt
	m.prompt.SetValue(value)
	m.prompt.CursorEnd()
	m.prompt.Focus()
	m.ensureCursorVisible()
	return m, textinput.Blink
}

func (m Model) closePrompt() Model {
	m.mode = ModeNormal
	m.prompt.Blur()
	m.prompt.SetValue("")
	return m
}

func (m Model) closeModal() Model {
	m.mode = ModeNormal
	m.modalType = ModalNone
	m.modalTitle = ""
	m.modalBody = ""
	m.removeID = ""
	return m
}

func (m Model) showModal(t ModalType, title, body string) Model {
	m.mode = ModeModal
	m.modalType = t
	m.modalTitle = title
	m.modalBody = body
	return m
}

// openDetail shows every slot behind the selected cell.
func (m Model) openDetail() Model {
	if m.sess == nil {
		return m
	}

	var (
		title string
		slots []schedule.Slot
	)
	if c, ok := m.selectedOccupancy(); ok {
		title = fmt.Sprintf("%s, %s, period %s", m.sess.Directory().RoomName(c.RoomID), m.occ.Day, schedule.FormatPeriodID(c.Period.ID))
		slots = c.Slots
	} else if c, ok := m.selectedCell(); ok {
		title = fmt.Sprintf("%s, period %s", c.Day, view.PeriodHeader(c.Period))
		slots = m.slotsInCell(c)
	} else {
		return m
	}

	if len(slots) == 0 {
		m.statusMsg = "Empty cell"
		m.statusErr = false
		return m
	}

	conflicts := m.sess.Conflicts()
	dir := m.sess.Directory()
	var b strings.Builder
	for _, s := range slots {
		fmt.Fprintf(&b, "%s  %s\n", s.ID, s.ClassName)
		fmt.Fprintf(&b, "  %s, %s", s.Subject, dir.TeacherName(s.TeacherID))
		if s.HasRoom() {
			fmt.Fprintf(&b, ", %s", dir.RoomName(s.RoomID))
		}
		b.WriteString("\n")
		if conflicts.Has(s.ID) {
			fmt.Fprintf(&b, "  conflict: %s\n", conflicts.Kind(s.ID))
		}
	}
	return m.showModal(ModalDetail, title, strings.TrimRight(b.String(), "\n"))
}

// slotsInCell returns every slot of the current projection at the cell.
func (m Model) slotsInCell(c view.Cell) []schedule.Slot {
	if c.Empty() {
		return nil
	}
	key := m.table.Key
	var out []schedule.Slot
	for _, s := range m.sess.Slots() {
		if s.Day != c.Day || s.Period != c.Period.ID {
			continue
		}
		switch m.table.Mode {
		case view.ByTeacher:
			if s.TeacherID != key {
				continue
			}
		case view.ByRoom:
			if s.RoomID != key {
				continue
			}
		default:
			if s.ClassName != key {
				continue
			}
		}
		out = append(out, s)
	}
	return out
}

// confirmRemove asks before removing the slot under the cursor.
func (m Model) confirmRemove() (tea.Model, tea.Cmd) {
	var target *schedule.Slot
	if c, ok := m.selectedOccupancy(); ok && len(c.Slots) > 0 {
		target = &c.Slots[0]
	} else if c, ok := m.selectedCell(); ok && !c.Empty() {
		target = c.Slot
	}
	if target == nil {
		return m.setStatus("Nothing to remove here", false)
	}
	m = m.showModal(ModalConfirmRemove, "Remove lesson?", target.String())
	m.removeID = target.ID
	return m, nil
}

func (m Model) removeSlot(id string) (tea.Model, tea.Cmd) {
	if m.sess == nil {
		return m, nil
	}
	removed, res, err := m.sess.RemoveSlot(context.Background(), id)
	if err != nil {
		return m.setStatus(err.Error(), true)
	}
	m.refresh()
	return m.reportResult(fmt.Sprintf("Removed %s %s", removed.ClassName, removed.Subject), res)
}

func (m Model) startSuggest() (tea.Model, tea.Cmd) {
	if m.sess == nil {
		return m, nil
	}
	if m.suggesting {
		return m.setStatus("Already waiting for suggestions", false)
	}
	m.suggesting = true
	m.statusMsg = "Asking for suggestions..."
	m.statusErr = false
	return m, commands.RequestSuggestions(m.sess)
}

// openSummary shows the workload report of the current schedule.
func (m Model) openSummary() Model {
	if m.sess == nil {
		return m
	}
	w := summary.Summarize(m.sess.Slots(), m.sess.Grid(), m.sess.Directory(), m.sess.Config().Schedule.Classes)
	return m.showModal(ModalReport, "Workload", strings.TrimRight(summary.FormatReport(w), "\n"))
}

// gridText renders the current screen as plain text for the clipboard.
func (m Model) gridText() string {
	if m.screen == ScreenOccupancy {
		return view.RenderOccupancyText(m.occ, 0)
	}
	return view.RenderText(m.table, 0)
}
