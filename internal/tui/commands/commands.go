// Package commands provides TUI command constructors and message types.
package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/roster/internal/config"
	"github.com/javiermolinar/roster/internal/llm"
	"github.com/javiermolinar/roster/internal/schedule"
	"github.com/javiermolinar/roster/internal/session"
)

// StatusTimeout is how long a status message stays visible.
const StatusTimeout = 4 * time.Second

// SessionLoadedMsg is sent when the session has been opened.
// Err is a load warning; Session is usable even when it is set.
type SessionLoadedMsg struct {
	Session *session.Session
	Err     error
}

// SuggestionsMsg carries a generated batch back to the update loop.
type SuggestionsMsg struct {
	Suggestions []llm.Suggestion
}

// SummaryMsg carries a rendered workload report.
type SummaryMsg struct {
	Text string
}

// CopiedMsg is sent after the grid was copied to the clipboard.
type CopiedMsg struct {
	Lines int
}

// ErrMsg is sent when an error occurs.
type ErrMsg struct {
	Err error
}

// StatusMsg is sent for temporary status messages.
type StatusMsg struct {
	Msg string
}

// ClearStatusMsg is sent to clear the status message.
type ClearStatusMsg struct{}

// OpenSession loads the current schedule from repo.
func OpenSession(cfg *config.Config, repo schedule.Repository, opts ...session.Option) tea.Cmd {
	return func() tea.Msg {
		sess, err := session.Open(context.Background(), cfg, repo, opts...)
		return SessionLoadedMsg{Session: sess, Err: err}
	}
}

// RequestSuggestions calls the generator off the update loop.
// The batch is merged by the receiver of SuggestionsMsg.
func RequestSuggestions(sess *session.Session) tea.Cmd {
	return func() tea.Msg {
		if sess == nil {
			return ErrMsg{Err: errors.New("no schedule loaded")}
		}
		suggestions, err := sess.RequestSuggestions(context.Background())
		if err != nil {
			return ErrMsg{Err: fmt.Errorf("suggesting: %w", err)}
		}
		return SuggestionsMsg{Suggestions: suggestions}
	}
}

// CopyText writes text to the system clipboard.
func CopyText(text string) tea.Cmd {
	return func() tea.Msg {
		if err := clipboard.WriteAll(text); err != nil {
			return ErrMsg{Err: fmt.Errorf("copying to clipboard: %w", err)}
		}
		return CopiedMsg{Lines: countLines(text)}
	}
}

// ClearStatusAfter clears the status line after StatusTimeout.
func ClearStatusAfter() tea.Cmd {
	return tea.Tick(StatusTimeout, func(time.Time) tea.Msg {
		return ClearStatusMsg{}
	})
}

func countLines(s string) int {
	n := 0
	for _, r := range s {
		if r == '\n' {
			n++
		}
	}
	if len(s) > 0 && s[len(s)-1] != '\n' {
		n++
	}
	return n
}
