package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if len(cfg.Schedule.Days) != 6 {
		t.Errorf("expected 6 school days, got %d", len(cfg.Schedule.Days))
	}
	if cfg.Schedule.Days[0] != "Senin" {
		t.Errorf("expected Senin first, got %s", cfg.Schedule.Days[0])
	}
	if len(cfg.Schedule.Periods) != 12 {
		t.Errorf("expected 12 periods, got %d", len(cfg.Schedule.Periods))
	}
	if cfg.LLM.Provider != "copilot" {
		t.Errorf("expected provider copilot, got %s", cfg.LLM.Provider)
	}
	if cfg.LLM.MaxTeachers != 40 || cfg.LLM.MaxClasses != 15 || cfg.LLM.MaxPeriods != 8 {
		t.Errorf("unexpected llm limits: %+v", cfg.LLM)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should be valid: %v", err)
	}
}

func TestDefaultGrid(t *testing.T) {
	g := Default().Grid()

	periods := g.Periods()
	if periods[0].ID != 0 || !periods[0].Break {
		t.Errorf("expected literacy period 0 as break row first, got %+v", periods[0])
	}

	brk, ok := g.Get(4.5)
	if !ok || !brk.Break {
		t.Errorf("expected 4.5 as break row, got %+v", brk)
	}
	if got := len(g.TeachingPeriods()); got != 10 {
		t.Errorf("expected 10 teaching periods, got %d", got)
	}
}

func TestLoadFrom_FileNotExists(t *testing.T) {
	cfg, err := LoadFrom("/nonexistent/path/config.toml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Should return defaults
	if cfg.LLM.Model != "gpt-4o" {
		t.Errorf("expected default model, got %s", cfg.LLM.Model)
	}
}

func TestLoadFrom_ValidFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.toml")

	content := `
[schedule]
days = ["Senin", "Selasa", "Rabu"]
classes = ["X A", "X B"]

[[schedule.periods]]
id = 1
label = "07:00 - 07:45"

[[schedule.periods]]
id = 1.5
label = "Upacara"
break = true

[llm]
provider = "ollama"
model = "llama3"
base_url = "http://localhost:11435"
max_teachers = 10

[storage]
db_path = "/tmp/test.db"
`
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !reflect.DeepEqual(cfg.Schedule.Days, []string{"Senin", "Selasa", "Rabu"}) {
		t.Errorf("unexpected days: %v", cfg.Schedule.Days)
	}
	if len(cfg.Schedule.Classes) != 2 {
		t.Errorf("expected 2 classes, got %d", len(cfg.Schedule.Classes))
	}
	if len(cfg.Schedule.Periods) != 2 {
		t.Fatalf("file periods should replace the default grid, got %d", len(cfg.Schedule.Periods))
	}
	if !cfg.Schedule.Periods[1].Break || cfg.Schedule.Periods[1].ID != 1.5 {
		t.Errorf("unexpected break period: %+v", cfg.Schedule.Periods[1])
	}
	if cfg.LLM.Provider != "ollama" {
		t.Errorf("expected provider ollama, got %s", cfg.LLM.Provider)
	}
	if cfg.LLM.MaxTeachers != 10 {
		t.Errorf("expected max_teachers 10, got %d", cfg.LLM.MaxTeachers)
	}
	// Unset limits keep their defaults
	if cfg.LLM.MaxClasses != 15 {
		t.Errorf("expected default max_classes, got %d", cfg.LLM.MaxClasses)
	}
	if cfg.Storage.DBPath != "/tmp/test.db" {
		t.Errorf("expected db_path /tmp/test.db, got %s", cfg.Storage.DBPath)
	}
}

func TestLoadFrom_FileWithoutPeriodsKeepsDefaultGrid(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.toml")
	content := `
[ui]
theme = "latte"
`
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cfg.Schedule.Periods) != 12 {
		t.Errorf("expected default grid, got %d periods", len(cfg.Schedule.Periods))
	}
	if cfg.UI.Theme != "latte" {
		t.Errorf("expected theme latte, got %s", cfg.UI.Theme)
	}
}

func TestLoadFrom_EnvOverrides(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.toml")

	content := `
[llm]
model = "gpt-4o-mini"
provider = "lmstudio"

[storage]
db_path = "/tmp/test.db"
`
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	t.Setenv("ROSTER_DAYS", "Senin, Selasa ,Rabu")
	t.Setenv("ROSTER_LLM_MODEL", "gemini-1.5-flash")
	t.Setenv("ROSTER_DB_PATH", "/tmp/other.db")

	cfg, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Env should override file
	if cfg.LLM.Model != "gemini-1.5-flash" {
		t.Errorf("expected model from env, got %s", cfg.LLM.Model)
	}
	if cfg.Storage.DBPath != "/tmp/other.db" {
		t.Errorf("expected db_path from env, got %s", cfg.Storage.DBPath)
	}
	// File value should be kept when no env override
	if cfg.LLM.Provider != "lmstudio" {
		t.Errorf("expected provider lmstudio from file, got %s", cfg.LLM.Provider)
	}
	if !reflect.DeepEqual(cfg.Schedule.Days, []string{"Senin", "Selasa", "Rabu"}) {
		t.Errorf("expected trimmed days from env, got %v", cfg.Schedule.Days)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"empty days", func(c *Config) { c.Schedule.Days = []string{} }},
		{"duplicate days", func(c *Config) { c.Schedule.Days = []string{"Senin", "senin"} }},
		{"blank day", func(c *Config) { c.Schedule.Days = []string{"Senin", " "} }},
		{"duplicate period", func(c *Config) {
			c.Schedule.Periods = append(c.Schedule.Periods, PeriodConfig{ID: 4.5})
		}},
		{"negative limit", func(c *Config) { c.LLM.MaxPeriods = -1 }},
		{"empty db path", func(c *Config) { c.Storage.DBPath = "" }},
		{"unknown provider", func(c *Config) { c.LLM.Provider = "openrouter" }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.modify(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestIsSchoolDay(t *testing.T) {
	cfg := Default()

	tests := []struct {
		day  string
		want bool
	}{
		{"Senin", true},
		{"senin", true},
		{"SABTU", true},
		{"Minggu", false},
		{"", false},
	}

	for _, tc := range tests {
		t.Run(tc.day, func(t *testing.T) {
			got := cfg.IsSchoolDay(tc.day)
			if got != tc.want {
				t.Errorf("IsSchoolDay(%q) = %v, want %v", tc.day, got, tc.want)
			}
		})
	}
}

func TestExpandPath(t *testing.T) {
	home, _ := os.UserHomeDir()

	tests := []struct {
		input string
		want  string
	}{
		{"~/test.db", filepath.Join(home, "test.db")},
		{"/absolute/path.db", "/absolute/path.db"},
		{"relative/path.db", "relative/path.db"},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			got := expandPath(tc.input)
			if got != tc.want {
				t.Errorf("expandPath(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestSaveAndLoad(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.toml")

	cfg := Default()
	cfg.Schedule.Days = []string{"Senin", "Selasa", "Rabu", "Kamis"}
	cfg.Schedule.Periods = []PeriodConfig{
		{ID: 1, Label: "07:00 - 07:45"},
		{ID: 4.5, Label: "ISTIRAHAT", Break: true},
	}
	cfg.Storage.DBPath = filepath.Join(tmpDir, "roster.db")

	if err := cfg.SaveTo(configPath); err != nil {
		t.Fatalf("failed to save config: %v", err)
	}

	loaded, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if len(loaded.Schedule.Days) != 4 {
		t.Errorf("expected 4 days, got %d", len(loaded.Schedule.Days))
	}
	if !reflect.DeepEqual(loaded.Schedule.Periods, cfg.Schedule.Periods) {
		t.Errorf("periods did not round-trip: %+v", loaded.Schedule.Periods)
	}
}

func TestDefaultPaths(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	t.Run("home fallback", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "")
		t.Setenv("XDG_DATA_HOME", "")
		if got, want := DefaultConfigPath(), filepath.Join(home, ".config", "roster", "config.toml"); got != want {
			t.Errorf("DefaultConfigPath() = %q, want %q", got, want)
		}
		if got, want := defaultDBPath(), filepath.Join(home, ".local", "share", "roster", "roster.db"); got != want {
			t.Errorf("defaultDBPath() = %q, want %q", got, want)
		}
	})

	t.Run("xdg", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "/xdg/config")
		t.Setenv("XDG_DATA_HOME", "/xdg/data")
		if got := DefaultConfigPath(); got != "/xdg/config/roster/config.toml" {
			t.Errorf("DefaultConfigPath() = %q", got)
		}
		if got := defaultDBPath(); got != "/xdg/data/roster/roster.db" {
			t.Errorf("defaultDBPath() = %q", got)
		}
	})
}

func TestEnvOverridesWithoutFile(t *testing.T) {
	t.Setenv("ROSTER_CLASSES", "X A,, X B")
	t.Setenv("ROSTER_LLM_PROVIDER", "ollama")
	t.Setenv("ROSTER_LLM_BASE_URL", "http://gpu-box:11434")
	t.Setenv("ROSTER_UI_THEME", "latte")
	t.Setenv("ROSTER_DB_PATH", "~/school.db")

	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}
	if !reflect.DeepEqual(cfg.Schedule.Classes, []string{"X A", "X B"}) {
		t.Errorf("classes = %q", cfg.Schedule.Classes)
	}
	if cfg.LLM.Provider != "ollama" || cfg.LLM.BaseURL != "http://gpu-box:11434" {
		t.Errorf("llm = %+v", cfg.LLM)
	}
	if cfg.UI.Theme != "latte" {
		t.Errorf("theme = %q", cfg.UI.Theme)
	}
	if filepath.Base(cfg.Storage.DBPath) != "school.db" || !filepath.IsAbs(cfg.Storage.DBPath) {
		t.Errorf("db path %q was not expanded", cfg.Storage.DBPath)
	}

	t.Setenv("ROSTER_LLM_PROVIDER", "openrouter")
	if _, err := LoadFrom(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("expected an unknown provider from the environment to fail validation")
	}
}
