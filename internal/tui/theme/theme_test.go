package theme

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

// userThemes points the user theme directory at a temp dir holding files.
func userThemes(t *testing.T, files map[string]string) {
	t.Helper()
	root := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", root)
	dir := filepath.Join(root, "roster", "themes")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

const sepiaTheme = `
bg = "#2b2118"
bg_highlight = "#3a2d22"
bg_selection = "#4a3a2c"
fg = "#f1e4d0"
fg_muted = "#a08c74"
accent = "#e0a458"
lesson = "#7fb8a4"
break = "#8aa0b8"
conflict = "#e06c5a"
warning = "#e8c16b"
`

func TestLoad(t *testing.T) {
	userThemes(t, map[string]string{
		"sepia.toml":  sepiaTheme,
		"broken.toml": `bg = "#000000"` + "\n" + `fg = "white"`,
	})

	tests := []struct {
		name     string
		input    string
		wantName string
		wantErr  string
	}{
		{name: "built-in", input: "macchiato", wantName: "macchiato"},
		{name: "case and spaces", input: " Latte ", wantName: "latte"},
		{name: "empty name defaults", input: "", wantName: DefaultName},
		{name: "unknown falls back", input: "nonexistent", wantName: DefaultName},
		{name: "user theme", input: "sepia", wantName: "sepia"},
		{name: "invalid user theme", input: "broken", wantErr: "fg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Load(tt.input)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("Load(%q) error = %v, want it to mention %q", tt.input, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Load(%q) unexpected error: %v", tt.input, err)
			}
			if got.Name != tt.wantName {
				t.Errorf("Load(%q).Name = %q, want %q", tt.input, got.Name, tt.wantName)
			}
		})
	}
}

func TestUserThemeOverridesBuiltin(t *testing.T) {
	userThemes(t, map[string]string{"mocha.toml": strings.Replace(sepiaTheme, `accent = "#e0a458"`, `accent = "#123456"`, 1)})

	got, err := Load("mocha")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got.Accent != "#123456" {
		t.Errorf("Accent = %q, want the user override", got.Accent)
	}
	if Default().Accent == "#123456" {
		t.Error("Default must ignore user overrides")
	}
}

func TestBuiltinThemesAreValid(t *testing.T) {
	userThemes(t, nil)
	for _, name := range builtin() {
		th, err := Load(name)
		if err != nil {
			t.Errorf("built-in theme %q: %v", name, err)
			continue
		}
		if th.Name != name {
			t.Errorf("theme file %q declares name %q", name, th.Name)
		}
	}
}

func TestValidate(t *testing.T) {
	th := Default()
	if err := th.Validate(); err != nil {
		t.Fatalf("default theme invalid: %v", err)
	}

	bad := *th
	bad.Lesson = ""
	bad.Conflict = "#ff00"
	bad.ModalBorder = "red"
	err := bad.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	for _, want := range []string{"lesson is missing", "conflict", "modal_border"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %q", err, want)
		}
	}
}

func TestAvailable(t *testing.T) {
	userThemes(t, map[string]string{
		"Sepia.toml": sepiaTheme,
		"mocha.toml": sepiaTheme,
		"notes.txt":  "not a theme",
	})

	got := Available()
	want := []string{"mocha", "frappe", "latte", "light", "macchiato", "sepia"}
	if !slices.Equal(got, want) {
		t.Fatalf("Available() = %v, want %v", got, want)
	}
}

func TestIsAvailable(t *testing.T) {
	userThemes(t, map[string]string{"sepia.toml": sepiaTheme})

	tests := []struct {
		theme string
		want  bool
	}{
		{theme: "mocha", want: true},
		{theme: "Mocha", want: true},
		{theme: "sepia", want: true},
		{theme: "unknown", want: false},
	}
	for _, tt := range tests {
		if got := IsAvailable(tt.theme); got != tt.want {
			t.Errorf("IsAvailable(%q) = %t, want %t", tt.theme, got, tt.want)
		}
	}
}
