package ui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/javiermolinar/roster/internal/config"
	"github.com/javiermolinar/roster/internal/dateutil"
	"github.com/javiermolinar/roster/internal/db"
	"github.com/javiermolinar/roster/internal/llm"
	"github.com/javiermolinar/roster/internal/logging"
	"github.com/javiermolinar/roster/internal/schedule"
	"github.com/javiermolinar/roster/internal/session"
	"github.com/javiermolinar/roster/internal/tui"
)

var (
	// Version is set at build time
	Version = "dev"
	// Commit is set at build time
	Commit = "none"
)

// App holds the CLI application state.
type App struct {
	repo     *db.SQLite
	ownsRepo bool
	config   *config.Config
	root     *cobra.Command
	debug    bool // Enable debug logging
	noColor  bool
	log      *zap.Logger
	closeLog func()

	// newClient builds the LLM client; tests replace it.
	newClient func(model string) (llm.Client, error)
	// now resolves day keywords such as "today"; tests pin it.
	now func() time.Time
}

// NewApp creates a new CLI application with the given repository and config.
// A nil repo is opened from the configured path on first use.
func NewApp(repo *db.SQLite, cfg *config.Config) *App {
	a := &App{repo: repo, config: cfg, log: zap.NewNop(), closeLog: func() {}, now: time.Now}
	a.newClient = func(model string) (llm.Client, error) {
		return llm.NewClient(a.config.LLM.Provider, model, a.config.LLM.BaseURL)
	}

	a.root = &cobra.Command{
		Use:   "roster",
		Short: "A terminal timetable editor for schools",
		Long: `Roster keeps a weekly school timetable: lessons placed by day and
period, checked for teacher and room double-bookings, and viewable per
class, teacher or room.

Run without arguments to open the interactive editor.`,
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			if a.noColor {
				DisableColor()
			}
			return a.setupLogging()
		},
		RunE: func(_ *cobra.Command, _ []string) error {
			opts := []tui.ModelOption{
				tui.WithLogger(a.log),
				tui.WithSessionOptions(a.sessionOptions("")...),
			}
			if a.repo == nil {
				// The TUI offers to create missing files itself.
				return tui.Run(nil, a.config, opts...)
			}
			return tui.Run(a.repo, a.config, opts...)
		},
	}

	// Add global flags
	a.root.PersistentFlags().BoolVar(&a.debug, "debug", false, "Enable debug logging to "+logging.DebugLogPath)
	a.root.PersistentFlags().BoolVar(&a.noColor, "no-color", false, "Disable colored output")

	a.root.AddCommand(a.versionCmd())
	a.root.AddCommand(a.configCmd())
	a.root.AddCommand(a.periodCmd())
	a.root.AddCommand(a.slotCmd())
	a.root.AddCommand(a.showCmd())
	a.root.AddCommand(a.occupancyCmd())
	a.root.AddCommand(a.conflictsCmd())
	a.root.AddCommand(a.freeCmd())
	a.root.AddCommand(a.suggestCmd())
	a.root.AddCommand(a.teacherCmd())
	a.root.AddCommand(a.roomCmd())
	a.root.AddCommand(a.summaryCmd())
	a.root.AddCommand(a.importCmd())

	return a
}

func (a *App) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "roster %s (commit: %s)\n", Version, Commit)
		},
	}
}

// Execute runs the CLI application.
func (a *App) Execute() error {
	return a.root.Execute()
}

// Close releases the database opened by the app and flushes the log.
func (a *App) Close() error {
	a.closeLog()
	a.closeLog = func() {}
	if a.ownsRepo && a.repo != nil {
		err := a.repo.Close()
		a.repo = nil
		a.ownsRepo = false
		return err
	}
	return nil
}

func (a *App) setupLogging() error {
	if !a.debug {
		return nil
	}
	logger, closeFn, err := logging.New(true, logging.DebugLogPath)
	if err != nil {
		return fmt.Errorf("opening debug log: %w", err)
	}
	a.log = logger
	a.closeLog = closeFn
	return nil
}

// ensureRepo opens the configured database if no repository was given.
func (a *App) ensureRepo() error {
	if a.repo != nil {
		return nil
	}
	path, err := resolvePath(a.config.Storage.DBPath)
	if err != nil {
		return fmt.Errorf("db path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}
	repo, err := db.New(path)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	a.repo = repo
	a.ownsRepo = true
	a.log.Debug("db_opened", zap.String("path", path))
	return nil
}

// sessionOptions wires the logger and, when a client can be built, the
// suggestion generator. model overrides the configured model.
func (a *App) sessionOptions(model string) []session.Option {
	opts := []session.Option{session.WithLogger(a.log)}
	if gen, err := a.generator(model); err == nil {
		opts = append(opts, session.WithSuggester(gen))
	} else {
		a.log.Debug("suggester_unavailable", zap.Error(err))
	}
	return opts
}

func (a *App) generator(model string) (llm.Generator, error) {
	if model == "" {
		model = a.config.LLM.Model
	}
	client, err := a.newClient(model)
	if err != nil {
		return nil, fmt.Errorf("creating LLM client: %w", err)
	}
	return llm.NewSuggester(client, a.config.LLM.Provider), nil
}

// openSession loads the current schedule. Load failures are printed as a
// warning and the session stays usable.
func (a *App) openSession(cmd *cobra.Command, opts ...session.Option) (*session.Session, error) {
	if err := a.ensureRepo(); err != nil {
		return nil, err
	}
	if len(opts) == 0 {
		opts = []session.Option{session.WithLogger(a.log)}
	}
	sess, err := session.Open(cmdContext(cmd), a.config, a.repo, opts...)
	if err != nil {
		printWarning(cmd.ErrOrStderr(), err)
	}
	return sess, nil
}

// resolveDay maps a day name or keyword ("today", "tomorrow", "next",
// English weekday names) onto the configured days.
func (a *App) resolveDay(input string, days []string) (string, error) {
	day, err := dateutil.ResolveDay(input, days, a.now())
	if err != nil {
		return "", fmt.Errorf("%w: %w", schedule.ErrInvalidDay, err)
	}
	return day, nil
}

func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// reportResult prints the warnings of a mutation and a failed save.
func reportResult(cmd *cobra.Command, res session.Result) {
	w := cmd.ErrOrStderr()
	if len(res.Warnings) > 0 {
		fmt.Fprint(w, formatWarning(session.FormatWarnings(res.Warnings)))
	}
	if res.SaveErr != nil {
		printWarning(w, fmt.Errorf("not saved: %w", res.SaveErr))
	}
}
