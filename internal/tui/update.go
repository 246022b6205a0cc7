package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/javiermolinar/roster/internal/session"
	"github.com/javiermolinar/roster/internal/tui/commands"
)

// sessionResult pairs a mutation result with its status line.
type sessionResult struct {
	session.Result
	done string
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.prompt.Width = max(10, msg.Width-8)
		m.colWidth = m.calculateColWidth()
		m.ensureCursorVisible()
		return m, nil

	case commands.SessionLoadedMsg:
		m.sess = msg.Session
		m.loading = false
		m.refresh()
		if msg.Err != nil {
			m.log.Warn("session_load_warning", zap.Error(msg.Err))
			return m.setStatus("Loaded with warnings: "+errStatus(msg.Err), true)
		}
		return m.setStatus(fmt.Sprintf("%d lessons loaded", len(m.sess.Slots())), false)

	case commands.SuggestionsMsg:
		m.suggesting = false
		if m.sess == nil {
			return m, nil
		}
		res := m.sess.ApplySuggestions(context.Background(), msg.Suggestions)
		m.refresh()
		done := fmt.Sprintf("Merged %d suggestions: %d replaced, %d new", res.Suggested, res.Merge.Replaced, res.Merge.Appended)
		return m.reportResult(done, res)

	case commands.CopiedMsg:
		return m.setStatus(fmt.Sprintf("Copied %d lines", msg.Lines), false)

	case commands.StatusMsg:
		return m.setStatus(msg.Msg, false)

	case commands.ClearStatusMsg:
		m.statusMsg = ""
		m.statusErr = false
		return m, nil

	case commands.ErrMsg:
		m.suggesting = false
		m.loading = false
		m.log.Warn("error", zap.Error(msg.Err))
		return m.setStatus(errStatus(msg.Err), true)
	}

	if m.mode == ModePrompt {
		var cmd tea.Cmd
		m.prompt, cmd = m.prompt.Update(msg)
		return m, cmd
	}
	return m, nil
}

// reportResult shows the outcome of a mutation. Review warnings open a
// modal; a failed save stays on the status line as a warning.
func (m Model) reportResult(done string, res session.Result) (tea.Model, tea.Cmd) {
	status := done
	if n := len(res.Merge.Superseded); n > 0 {
		status += fmt.Sprintf(", %d superseded", n)
	}
	if conflicts := m.sess.Conflicts().Len(); conflicts > 0 {
		status += fmt.Sprintf(", %d conflicting", conflicts)
	}

	isErr := false
	if res.SaveErr != nil {
		status += " (not saved: " + errStatus(res.SaveErr) + ")"
		isErr = true
	}

	if len(res.Warnings) > 0 {
		m = m.showModal(ModalReport, "Review", strings.TrimRight(session.FormatWarnings(res.Warnings), "\n"))
	}
	return m.setStatus(status, isErr)
}
