// Package config loads roster settings from defaults, a TOML file and
// ROSTER_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/javiermolinar/roster/internal/llm"
	"github.com/javiermolinar/roster/internal/schedule"
)

// Config holds the application configuration.
type Config struct {
	Schedule ScheduleConfig `toml:"schedule"`
	LLM      LLMConfig      `toml:"llm"`
	Storage  StorageConfig  `toml:"storage"`
	UI       UIConfig       `toml:"ui"`
}

// UIConfig holds TUI settings.
type UIConfig struct {
	Theme string `toml:"theme"` // "mocha", "macchiato", "frappe", "latte", "light"
}

// ScheduleConfig holds the school week and the initial period grid.
type ScheduleConfig struct {
	Days    []string       `toml:"days"`    // display order, e.g. ["Senin", "Selasa", ...]
	Classes []string       `toml:"classes"` // e.g. ["X AKL 1", "X AKL 2"]
	Periods []PeriodConfig `toml:"periods"`
}

// PeriodConfig is one row of the initial grid.
type PeriodConfig struct {
	ID    float64 `toml:"id"`
	Label string  `toml:"label"`
	Break bool    `toml:"break"`
}

// LLMConfig holds LLM provider settings and the size of a suggestion request.
type LLMConfig struct {
	Provider    string `toml:"provider"` // "copilot", "gemini", "ollama", "lmstudio"
	Model       string `toml:"model"`    // e.g., "gpt-4o"
	BaseURL     string `toml:"base_url"` // e.g., "http://localhost:11434"
	MaxTeachers int    `toml:"max_teachers"`
	MaxClasses  int    `toml:"max_classes"`
	MaxPeriods  int    `toml:"max_periods"`
}

// StorageConfig holds database settings.
type StorageConfig struct {
	DBPath string `toml:"db_path"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Schedule: ScheduleConfig{
			Days:    append([]string(nil), schedule.DefaultDays...),
			Classes: defaultClasses(),
			Periods: defaultPeriods(),
		},
		LLM: LLMConfig{
			Provider:    "copilot",
			Model:       "gpt-4o",
			BaseURL:     "http://localhost:11434",
			MaxTeachers: 40,
			MaxClasses:  15,
			MaxPeriods:  8,
		},
		Storage: StorageConfig{
			DBPath: defaultDBPath(),
		},
		UI: UIConfig{
			Theme: "frappe",
		},
	}
}

func defaultClasses() []string {
	return []string{
		"X AKL 1", "X AKL 2", "X AKL 3",
		"X MPLB 1", "X MPLB 2", "X MPLB 3",
		"X PPLG 1", "X PPLG 2",
		"X TJKT 1", "X TJKT 2",
		"XI AK 1", "XI AK 2",
		"XI RPL 1", "XI RPL 2",
		"XI TKJ 1", "XI TKJ 2",
	}
}

func defaultPeriods() []PeriodConfig {
	return []PeriodConfig{
		{ID: 0, Label: "06:45 - 07:00 (Literasi)", Break: true},
		{ID: 1, Label: "07:00 - 07:45"},
		{ID: 2, Label: "07:45 - 08:30"},
		{ID: 3, Label: "08:30 - 09:15"},
		{ID: 4, Label: "09:15 - 10:00"},
		{ID: 4.5, Label: "10:00 - 10:15 (ISTIRAHAT)", Break: true},
		{ID: 5, Label: "10:15 - 11:00"},
		{ID: 6, Label: "11:00 - 11:45"},
		{ID: 7, Label: "12:30 - 13:15"},
		{ID: 8, Label: "13:15 - 14:00"},
		{ID: 9, Label: "14:00 - 14:45"},
		{ID: 10, Label: "14:45 - 15:30"},
	}
}

// baseDir returns $<xdgVar>/roster, or ~/<fallback>/roster when the
// variable is unset.
func baseDir(xdgVar, fallback string) (string, bool) {
	if dir := os.Getenv(xdgVar); dir != "" {
		return filepath.Join(dir, "roster"), true
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", false
	}
	return filepath.Join(home, fallback, "roster"), true
}

func defaultDBPath() string {
	dir, ok := baseDir("XDG_DATA_HOME", filepath.Join(".local", "share"))
	if !ok {
		return "roster.db"
	}
	return filepath.Join(dir, "roster.db")
}

// DefaultConfigPath returns $XDG_CONFIG_HOME/roster/config.toml, falling
// back to ~/.config/roster/config.toml.
func DefaultConfigPath() string {
	dir, ok := baseDir("XDG_CONFIG_HOME", ".config")
	if !ok {
		return "config.toml"
	}
	return filepath.Join(dir, "config.toml")
}

// Load loads configuration from the default path.
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigPath())
}

// LoadFrom builds the configuration in layers: defaults, then the file at
// path if there is one, then ROSTER_* environment variables. The result is
// validated.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()
	if err := cfg.mergeFile(path); err != nil {
		return nil, err
	}
	for _, o := range envOverrides {
		if v := os.Getenv(o.name); v != "" {
			o.apply(cfg, v)
		}
	}
	cfg.Storage.DBPath = expandPath(cfg.Storage.DBPath)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// mergeFile decodes the file over c. A missing file is not an error. A
// [[schedule.periods]] list in the file replaces the default grid instead
// of extending it.
func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}

	defaults := c.Schedule.Periods
	c.Schedule.Periods = nil
	if err := toml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}
	if len(c.Schedule.Periods) == 0 {
		c.Schedule.Periods = defaults
	}
	return nil
}

// envOverrides take precedence over the config file.
var envOverrides = []struct {
	name  string
	apply func(*Config, string)
}{
	{"ROSTER_DAYS", func(c *Config, v string) { c.Schedule.Days = splitList(v) }},
	{"ROSTER_CLASSES", func(c *Config, v string) { c.Schedule.Classes = splitList(v) }},
	{"ROSTER_LLM_PROVIDER", func(c *Config, v string) { c.LLM.Provider = v }},
	{"ROSTER_LLM_MODEL", func(c *Config, v string) { c.LLM.Model = v }},
	{"ROSTER_LLM_BASE_URL", func(c *Config, v string) { c.LLM.BaseURL = v }},
	{"ROSTER_DB_PATH", func(c *Config, v string) { c.Storage.DBPath = v }},
	{"ROSTER_UI_THEME", func(c *Config, v string) { c.UI.Theme = v }},
}

// splitList splits a comma separated list, dropping empty entries.
func splitList(v string) []string {
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func expandPath(path string) string {
	rest, ok := strings.CutPrefix(path, "~/")
	if !ok {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, rest)
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if len(c.Schedule.Days) == 0 {
		return errors.New("at least one school day must be configured")
	}
	seenDays := make(map[string]bool, len(c.Schedule.Days))
	for _, day := range c.Schedule.Days {
		key := strings.ToLower(strings.TrimSpace(day))
		if key == "" {
			return errors.New("school day names cannot be empty")
		}
		if seenDays[key] {
			return fmt.Errorf("duplicate school day: %s", day)
		}
		seenDays[key] = true
	}

	seenPeriods := make(map[float64]bool, len(c.Schedule.Periods))
	for _, p := range c.Schedule.Periods {
		if seenPeriods[p.ID] {
			return fmt.Errorf("duplicate period id: %s", schedule.FormatPeriodID(p.ID))
		}
		seenPeriods[p.ID] = true
	}

	if _, err := llm.ParseProvider(c.LLM.Provider); err != nil {
		return err
	}
	if c.LLM.MaxTeachers < 0 || c.LLM.MaxClasses < 0 || c.LLM.MaxPeriods < 0 {
		return errors.New("llm limits cannot be negative")
	}
	if c.Storage.DBPath == "" {
		return errors.New("db_path must be set")
	}
	return nil
}

// IsSchoolDay returns true if the given day name is configured.
func (c *Config) IsSchoolDay(day string) bool {
	return schedule.DayIndex(c.Schedule.Days, strings.TrimSpace(day)) >= 0
}

// Grid builds the period grid described by the configuration.
func (c *Config) Grid() *schedule.Grid {
	periods := make([]schedule.Period, len(c.Schedule.Periods))
	for i, p := range c.Schedule.Periods {
		periods[i] = schedule.Period{ID: p.ID, Label: p.Label, Break: p.Break}
	}
	return schedule.NewGrid(periods...)
}

// Save writes the configuration to the default path.
func (c *Config) Save() error {
	return c.SaveTo(DefaultConfigPath())
}

// SaveTo writes the configuration as TOML, creating the directory.
func (c *Config) SaveTo(path string) error {
	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
