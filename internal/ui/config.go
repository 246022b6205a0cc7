package ui

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"github.com/javiermolinar/roster/internal/config"
	"github.com/javiermolinar/roster/internal/llm"
	"github.com/javiermolinar/roster/internal/tui/theme"
)

func (a *App) configCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "View or edit configuration",
		Long: `Interactive configuration management.

Creates the config file with default values when it does not exist,
prints the current settings and offers to edit them. Press Enter to keep
a value.

Example:
  roster config`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return editConfig(cmd.InOrStdin(), cmd.OutOrStdout(), config.DefaultConfigPath())
		},
	}
}

func editConfig(in io.Reader, out io.Writer, path string) error {
	fmt.Fprintf(out, "Config file: %s\n\n", path)

	cfg, err := config.LoadFrom(path)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintln(out, "No config file found. Creating with default values...")
		if err := cfg.SaveTo(path); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
		fmt.Fprintf(out, "Created %s\n\n", path)
	}

	if err := printConfig(out, cfg); err != nil {
		return err
	}

	p := prompter{in: bufio.NewReader(in), out: out}
	if !p.confirm("\nWould you like to edit the configuration?") {
		return nil
	}

	cfg.Schedule.Days = p.list("School days (comma-separated)", cfg.Schedule.Days)
	cfg.Schedule.Classes = p.list("Classes (comma-separated)", cfg.Schedule.Classes)
	cfg.LLM.Provider = p.choice("LLM provider", cfg.LLM.Provider, llm.Providers, func(v string) (string, bool) {
		name, err := llm.ParseProvider(v)
		return name, err == nil
	})
	cfg.LLM.Model = p.text("LLM model", cfg.LLM.Model)
	cfg.LLM.BaseURL = p.text("LLM base URL (Ollama/LM Studio)", cfg.LLM.BaseURL)
	cfg.LLM.MaxTeachers = p.count("Max teachers per suggestion", cfg.LLM.MaxTeachers)
	cfg.LLM.MaxClasses = p.count("Max classes per suggestion", cfg.LLM.MaxClasses)
	cfg.LLM.MaxPeriods = p.count("Max periods per suggestion", cfg.LLM.MaxPeriods)
	cfg.Storage.DBPath = p.text("Database path", cfg.Storage.DBPath)
	themes := theme.Available()
	cfg.UI.Theme = p.choice("UI theme", cfg.UI.Theme, themes, func(v string) (string, bool) {
		v = strings.ToLower(v)
		return v, slices.Contains(themes, v)
	})

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if err := cfg.SaveTo(path); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}
	fmt.Fprintln(out, "\nConfiguration saved!")
	return nil
}

// printConfig shows the settings the way they are stored on disk.
func printConfig(out io.Writer, cfg *config.Config) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	fmt.Fprintln(out, formatHeader("Current configuration:"))
	fmt.Fprintln(out, rule())
	_, err = out.Write(data)
	return err
}

// prompter asks line-based questions. Every answer falls back to the
// current value on an empty line or at end of input.
type prompter struct {
	in  *bufio.Reader
	out io.Writer
}

func (p prompter) ask(format string, args ...any) string {
	fmt.Fprintf(p.out, format, args...)
	line, _ := p.in.ReadString('\n')
	return strings.TrimSpace(line)
}

func (p prompter) confirm(question string) bool {
	switch strings.ToLower(p.ask("%s [y/N]: ", question)) {
	case "y", "yes":
		return true
	}
	return false
}

func (p prompter) text(label, current string) string {
	var answer string
	if current == "" {
		answer = p.ask("  %s: ", label)
	} else {
		answer = p.ask("  %s [%s]: ", label, current)
	}
	if answer == "" {
		return current
	}
	return answer
}

func (p prompter) list(label string, current []string) []string {
	answer := p.ask("  %s [%s]: ", label, strings.Join(current, ", "))
	if answer == "" {
		return current
	}
	var items []string
	for _, item := range strings.Split(answer, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

// count asks for a non-negative number until it gets one.
func (p prompter) count(label string, current int) int {
	for {
		answer := p.text(label, strconv.Itoa(current))
		if n, err := strconv.Atoi(answer); err == nil && n >= 0 {
			return n
		}
		fmt.Fprintf(p.out, "  Invalid number %q\n", answer)
	}
}

// choice asks until parse accepts the answer. An unacceptable current value
// is kept rather than looping forever on an empty input.
func (p prompter) choice(label, current string, options []string, parse func(string) (string, bool)) string {
	label = fmt.Sprintf("%s (%s)", label, strings.Join(options, ", "))
	for {
		answer := p.text(label, current)
		if v, ok := parse(answer); ok {
			return v
		}
		fmt.Fprintf(p.out, "  Invalid value %q. Options: %s\n", answer, strings.Join(options, ", "))
		if answer == current {
			return current
		}
	}
}
