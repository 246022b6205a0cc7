package tui

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/roster/internal/config"
	"github.com/javiermolinar/roster/internal/db"
	"github.com/javiermolinar/roster/internal/schedule"
	"github.com/javiermolinar/roster/internal/tui/commands"
)

// InitState records which files have to be created before the first start.
type InitState struct {
	NeedsInit     bool
	ConfigMissing bool
	DBMissing     bool
	ConfigPath    string
	DBPath        string
}

// DetectInitState looks for the config file and the database.
func DetectInitState(cfg *config.Config) (InitState, error) {
	state := InitState{ConfigPath: config.DefaultConfigPath(), DBPath: cfg.Storage.DBPath}

	var err error
	if state.ConfigMissing, err = missing(state.ConfigPath); err != nil {
		return InitState{}, fmt.Errorf("checking config path: %w", err)
	}
	if state.DBMissing, err = missing(state.DBPath); err != nil {
		return InitState{}, fmt.Errorf("checking db path: %w", err)
	}
	state.NeedsInit = state.ConfigMissing || state.DBMissing
	return state, nil
}

// missing reports whether nothing exists at path. An empty path counts as
// missing.
func missing(path string) (bool, error) {
	if path == "" {
		return true, nil
	}
	_, err := os.Stat(path)
	switch {
	case err == nil:
		return false, nil
	case errors.Is(err, fs.ErrNotExist):
		return true, nil
	default:
		return false, err
	}
}

// openRepo opens the database, creating its directory first.
func openRepo(path string) (schedule.Repository, error) {
	if path == "" {
		return nil, errors.New("db path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	repo, err := db.New(path)
	if err != nil {
		return nil, fmt.Errorf("initializing database: %w", err)
	}
	return repo, nil
}

// runInit writes the config, opens the database and starts loading the
// session. Failures stay in the init modal so the user can retry.
func (m Model) runInit() (tea.Model, tea.Cmd) {
	if m.initState.ConfigMissing {
		if err := m.config.SaveTo(m.initState.ConfigPath); err != nil {
			m.initError = fmt.Sprintf("saving config: %v", err)
			return m, nil
		}
		m.initState.ConfigMissing = false
	}
	if m.repo == nil {
		repo, err := openRepo(m.initState.DBPath)
		if err != nil {
			m.initError = err.Error()
			return m, nil
		}
		m.repo = repo
		m.initState.DBMissing = false
	}

	m.initState.NeedsInit = false
	m.initError = ""
	m = m.closeModal()
	m.loading = true
	return m, commands.OpenSession(m.config, m.repo, m.sessionOptions()...)
}

func (m Model) initMessage() string {
	var b strings.Builder
	b.WriteString("roster needs to create:\n")
	for _, f := range []struct {
		show        bool
		label, path string
	}{
		{m.initState.ConfigMissing, "config", m.initState.ConfigPath},
		{m.initState.DBMissing, "database", m.initState.DBPath},
	} {
		if f.show {
			fmt.Fprintf(&b, "  %-9s%s\n", f.label, f.path)
		}
	}
	b.WriteString("\nCreate them now? [y/n]")
	if m.initError != "" {
		b.WriteString("\n\nError: " + m.initError)
	}
	return b.String()
}
