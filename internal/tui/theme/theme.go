// Package theme provides color themes for the TUI.
//
// Themes are TOML files. The built-in ones are embedded in the binary; more
// can be dropped into the user theme directory (see UserDir), where a file
// with a built-in name overrides it.
package theme

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/pelletier/go-toml/v2"
)

// DefaultName is the theme used when none is configured.
const DefaultName = "mocha"

//go:embed embedded/*.toml
var embeddedThemes embed.FS

// Theme holds all colors for a TUI theme.
type Theme struct {
	Name        string `toml:"name"`
	Bg          string `toml:"bg"`
	BgHighlight string `toml:"bg_highlight"` // detail line, prompts
	BgSelection string `toml:"bg_selection"` // cursor
	Fg          string `toml:"fg"`
	FgMuted     string `toml:"fg_muted"` // empty cells, hints
	Accent      string `toml:"accent"`   // title, borders
	Lesson      string `toml:"lesson"`
	Break       string `toml:"break"`
	Conflict    string `toml:"conflict"` // double-booked cells
	Warning     string `toml:"warning"`  // status errors

	// Optional modal overrides; empty values fall back to the base colors.
	ModalBg     string `toml:"modal_bg"`
	ModalBorder string `toml:"modal_border"`
}

// Color returns a lipgloss.Color for the given hex string.
func Color(hex string) lipgloss.Color {
	return lipgloss.Color(hex)
}

// UserDir returns the directory searched for user themes:
// $XDG_CONFIG_HOME/roster/themes, or ~/.config/roster/themes.
func UserDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "roster", "themes")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "roster", "themes")
}

// Load loads a theme by name, user themes first.
// An unknown name falls back to DefaultName; a theme file that exists but
// is invalid is an error.
func Load(name string) (*Theme, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		name = DefaultName
	}

	data, err := readTheme(name)
	if errors.Is(err, fs.ErrNotExist) && name != DefaultName {
		return Load(DefaultName)
	}
	if err != nil {
		return nil, fmt.Errorf("loading theme %q: %w", name, err)
	}
	return Parse(name, data)
}

// Parse decodes and validates a theme file.
func Parse(name string, data []byte) (*Theme, error) {
	var t Theme
	if err := toml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parsing theme %q: %w", name, err)
	}
	if t.Name == "" {
		t.Name = name
	}
	if err := t.Validate(); err != nil {
		return nil, fmt.Errorf("theme %q: %w", name, err)
	}
	return &t, nil
}

// Validate checks that every base color is set and that all colors are #rrggbb.
func (t *Theme) Validate() error {
	required := []struct{ key, value string }{
		{"bg", t.Bg}, {"bg_highlight", t.BgHighlight}, {"bg_selection", t.BgSelection},
		{"fg", t.Fg}, {"fg_muted", t.FgMuted}, {"accent", t.Accent},
		{"lesson", t.Lesson}, {"break", t.Break}, {"conflict", t.Conflict}, {"warning", t.Warning},
	}
	var errs []error
	for _, c := range required {
		if c.value == "" {
			errs = append(errs, fmt.Errorf("%s is missing", c.key))
			continue
		}
		if _, err := parseRGB(c.value); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", c.key, err))
		}
	}
	for _, c := range []struct{ key, value string }{{"modal_bg", t.ModalBg}, {"modal_border", t.ModalBorder}} {
		if c.value == "" {
			continue
		}
		if _, err := parseRGB(c.value); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", c.key, err))
		}
	}
	return errors.Join(errs...)
}

// Default returns the embedded default theme, ignoring user overrides.
func Default() *Theme {
	data, err := embeddedThemes.ReadFile("embedded/" + DefaultName + ".toml")
	if err != nil {
		panic(err)
	}
	t, err := Parse(DefaultName, data)
	if err != nil {
		panic(err)
	}
	return t
}

func readTheme(name string) ([]byte, error) {
	if dir := UserDir(); dir != "" {
		data, err := os.ReadFile(filepath.Join(dir, name+".toml"))
		if err == nil {
			return data, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}
	return embeddedThemes.ReadFile("embedded/" + name + ".toml")
}

// builtin lists the embedded themes, default first.
func builtin() []string {
	names := []string{DefaultName}
	entries, _ := embeddedThemes.ReadDir("embedded")
	for _, e := range entries {
		name := strings.TrimSuffix(e.Name(), ".toml")
		if name != DefaultName {
			names = append(names, name)
		}
	}
	return names
}

// Available returns the built-in themes followed by user themes, without
// duplicates.
func Available() []string {
	names := builtin()
	entries, err := os.ReadDir(UserDir())
	if err != nil {
		return names
	}
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".toml" {
			continue
		}
		name := strings.ToLower(strings.TrimSuffix(e.Name(), ".toml"))
		if !slices.Contains(names, name) {
			names = append(names, name)
		}
	}
	return names
}

// IsAvailable reports whether a theme name is available.
func IsAvailable(name string) bool {
	return slices.Contains(Available(), strings.ToLower(strings.TrimSpace(name)))
}
