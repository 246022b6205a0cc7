package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/javiermolinar/roster/internal/schedule"
	"github.com/javiermolinar/roster/internal/tui/commands"
	"github.com/javiermolinar/roster/internal/tui/input"
)

var promptCommands = []input.Command{
	{Name: "/add", Usage: "/add subject | teacher [| room]", Description: "Add a lesson at the cursor"},
	{Name: "/remove", Usage: "/remove <slot id>", Description: "Remove a lesson"},
	{Name: "/suggest", Usage: "/suggest", Description: "Ask the LLM for a timetable draft"},
	{Name: "/class", Usage: "/class <name>", Description: "Show a class"},
	{Name: "/teacher", Usage: "/teacher <id or name>", Description: "Show a teacher"},
	{Name: "/room", Usage: "/room <id>", Description: "Show a room"},
	{Name: "/occupancy", Usage: "/occupancy [day]", Description: "Show room usage of a day"},
	{Name: "/period", Usage: "/period add|break|remove|relabel <id> [label]", Description: "Edit the period grid"},
	{Name: "/copy", Usage: "/copy", Description: "Copy the grid as text"},
	{Name: "/summary", Usage: "/summary", Description: "Show teacher and class workload"},
	{Name: "/reload", Usage: "/reload", Description: "Reload from the database"},
}

// addUsage returns the /add argument order of the current screen.
func (m Model) addUsage() string {
	switch m.screen {
	case ScreenTeacher:
		return "/add class | subject [| room]"
	case ScreenRoom, ScreenOccupancy:
		return "/add class | subject | teacher"
	default:
		return "/add subject | teacher [| room]"
	}
}

// runPrompt executes a command line typed into the prompt.
func (m Model) runPrompt(line string) (tea.Model, tea.Cmd) {
	name, rest := input.SplitCommand(line)
	if name == "" {
		if rest == "" {
			return m, nil
		}
		return m.setStatus("Commands start with /, press tab to complete", true)
	}
	m.log.Debug("prompt", zap.String("command", name), zap.String("args", rest))

	if m.sess == nil {
		return m.setStatus("Schedule is still loading", true)
	}

	switch name {
	case "/add":
		return m.promptAdd(rest)
	case "/remove":
		if rest == "" {
			return m.confirmRemove()
		}
		return m.removeSlot(rest)
	case "/suggest":
		return m.startSuggest()
	case "/class":
		return m.jumpTo(ScreenClass, rest)
	case "/teacher":
		return m.jumpTo(ScreenTeacher, m.resolveTeacherRef(rest))
	case "/room":
		return m.jumpTo(ScreenRoom, rest)
	case "/occupancy":
		if rest == "" {
			m = m.switchScreen(ScreenOccupancy)
			return m, nil
		}
		return m.jumpTo(ScreenOccupancy, rest)
	case "/period":
		return m.promptPeriod(rest)
	case "/copy":
		return m, commands.CopyText(m.gridText())
	case "/summary":
		return m.openSummary(), nil
	case "/reload":
		m.loading = true
		return m, commands.OpenSession(m.config, m.repo, m.sessionOptions()...)
	}
	return m.setStatus(fmt.Sprintf("Unknown command %s", name), true)
}

// promptAdd adds a lesson at the cursor. The fields depend on the screen:
// the screen already fixes the class, teacher or room.
func (m Model) promptAdd(rest string) (tea.Model, tea.Cmd) {
	fields := input.SplitFields(rest)
	field := func(i int) string {
		if i < len(fields) {
			return fields[i]
		}
		return ""
	}

	var day string
	var period schedule.Period
	var className, subject, teacher, room string

	if c, ok := m.selectedOccupancy(); ok {
		day, period = m.occ.Day, c.Period
		className, subject, teacher, room = field(0), field(1), field(2), c.RoomID
	} else if c, ok := m.selectedCell(); ok {
		day, period = c.Day, c.Period
		switch m.screen {
		case ScreenTeacher:
			className, subject, teacher, room = field(0), field(1), m.table.Key, field(2)
		case ScreenRoom:
			className, subject, teacher, room = field(0), field(1), field(2), m.table.Key
		default:
			className, subject, teacher, room = m.table.Key, field(0), field(1), field(2)
		}
	} else {
		return m.setStatus("Move the cursor to a cell first", true)
	}

	if period.Break {
		return m.setStatus(fmt.Sprintf("Period %s is a break row", schedule.FormatPeriodID(period.ID)), true)
	}
	if className == "" || subject == "" {
		return m.setStatus("Usage: "+m.addUsage(), true)
	}

	slot, res, err := m.sess.AddSlot(context.Background(), day, period.ID, className, subject, teacher, room)
	if err != nil {
		return m.setStatus(err.Error(), true)
	}
	m.refresh()
	done := fmt.Sprintf("Added %s %s", slot.ClassName, slot.Subject)
	if m.sess.Conflicting(slot) {
		done += " (double-booked)"
	}
	return m.reportResult(done, res)
}

// promptPeriod edits the grid: add, break, remove or relabel.
func (m Model) promptPeriod(rest string) (tea.Model, tea.Cmd) {
	action, args, _ := strings.Cut(rest, " ")
	idText, label, _ := strings.Cut(strings.TrimSpace(args), " ")
	label = strings.TrimSpace(label)

	id, err := schedule.ParsePeriodID(idText)
	if err != nil {
		return m.setStatus("Usage: /period add|break|remove|relabel <id> [label]", true)
	}

	ctx := context.Background()
	var res sessionResult
	switch strings.ToLower(action) {
	case "add":
		res.Result, err = m.sess.AddPeriod(ctx, id, label, false)
		res.done = "Added period " + schedule.FormatPeriodID(id)
	case "break":
		res.Result, err = m.sess.AddPeriod(ctx, id, label, true)
		res.done = "Added break " + schedule.FormatPeriodID(id)
	case "remove":
		res.Result, err = m.sess.RemovePeriod(ctx, id)
		res.done = "Removed period " + schedule.FormatPeriodID(id)
	case "relabel":
		if label == "" {
			return m.setStatus("Usage: /period relabel <id> <label>", true)
		}
		res.Result, err = m.sess.RelabelPeriod(ctx, id, label)
		res.done = "Relabeled period " + schedule.FormatPeriodID(id)
	default:
		return m.setStatus("Usage: /period add|break|remove|relabel <id> [label]", true)
	}
	if err != nil {
		return m.setStatus(err.Error(), true)
	}
	m.refresh()
	return m.reportResult(res.done, res.Result)
}

// jumpTo switches to screen and selects the entity named ref.
func (m Model) jumpTo(screen Screen, ref string) (tea.Model, tea.Cmd) {
	if ref == "" {
		m = m.switchScreen(screen)
		return m, nil
	}
	m = m.switchScreen(screen)
	for i, e := range m.entities() {
		if strings.EqualFold(e, ref) {
			m.entity = i
			m.refresh()
			return m, nil
		}
	}
	return m.setStatus(fmt.Sprintf("No %s named %q", strings.ToLower(screen.String()), ref), true)
}

// resolveTeacherRef maps a teacher name to its ID; IDs pass through.
func (m Model) resolveTeacherRef(ref string) string {
	if ref == "" || m.sess == nil {
		return ref
	}
	dir := m.sess.Directory()
	if _, ok := dir.Teacher(ref); ok {
		return ref
	}
	if id, ok := dir.ResolveTeacher(ref); ok {
		return id
	}
	return ref
}

func (m Model) setStatus(msg string, isErr bool) (tea.Model, tea.Cmd) {
	m.statusMsg = msg
	m.statusErr = isErr
	return m, commands.ClearStatusAfter()
}

// errStatus formats an error for the status line.
func errStatus(err error) string {
	var joined interface{ Unwrap() []error }
	if errors.As(err, &joined) {
		switch errs := joined.Unwrap(); {
		case len(errs) == 1:
			return errs[0].Error()
		case len(errs) > 1:
			return fmt.Sprintf("%v (+%d more)", errs[0], len(errs)-1)
		}
	}
	return err.Error()
}
