package tui

import (
	"fmt"
	"strconv"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/javiermolinar/roster/internal/tui/theme"
)

func testTheme() *theme.Theme {
	return &theme.Theme{
		Bg:          "#101010",
		BgHighlight: "#202020",
		BgSelection: "#303030",
		Fg:          "#ffffff",
		FgMuted:     "#aaaaaa",
		Accent:      "#ff0000",
		Lesson:      "#00ff00",
		Break:       "#0000ff",
		Conflict:    "#ffff00",
		Warning:     "#ff00ff",
	}
}

func TestStylesBackgroundCoverage(t *testing.T) {
	th := testTheme()
	styles := NewStyles(th)

	assertBg := func(t *testing.T, name string, style lipgloss.Style, want string) {
		t.Helper()
		bg, ok := style.GetBackground().(lipgloss.Color)
		if !ok {
			t.Fatalf("%s background type = %T, want lipgloss.Color", name, style.GetBackground())
		}
		if bg != lipgloss.Color(want) {
			t.Fatalf("%s background = %q, want %q", name, bg, want)
		}
	}

	assertBg(t, "EmptyCellStyle", styles.EmptyCellStyle, th.Bg)
	assertBg(t, "PeriodStyle", styles.PeriodStyle, th.Bg)
	assertBg(t, "DayHeaderStyle", styles.DayHeaderStyle, th.Bg)
	assertBg(t, "AppStyle", styles.AppStyle, th.Bg)
	assertBg(t, "CursorStyle", styles.CursorStyle, th.BgSelection)
	assertBg(t, "CursorConflict", styles.CursorConflict, th.Conflict)
}

func TestCellStyle(t *testing.T) {
	styles := NewStyles(testTheme())
	palette := theme.NewPalette(testTheme())

	tests := []struct {
		name     string
		kind     cellKind
		selected bool
		want     lipgloss.Color
	}{
		{name: "empty", kind: cellEmpty, want: palette.Bg},
		{name: "lesson", kind: cellLesson, want: palette.LessonBg},
		{name: "lesson alt", kind: cellLessonAlt, want: palette.LessonBgAlt},
		{name: "break", kind: cellBreak, want: palette.BreakBg},
		{name: "conflict", kind: cellConflict, want: palette.ConflictBg},
		{name: "cursor", kind: cellLesson, selected: true, want: palette.BgSelection},
		{name: "cursor on conflict", kind: cellConflict, selected: true, want: palette.Conflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := styles.cellStyle(tt.kind, tt.selected, 12)
			if got := st.GetBackground(); got != tt.want {
				t.Fatalf("background = %v, want %v", got, tt.want)
			}
			if st.GetWidth() != 12 {
				t.Fatalf("width = %d, want 12", st.GetWidth())
			}
		})
	}
}

// sgrBackground is the truecolor SGR parameter for a #rrggbb background.
func sgrBackground(t *testing.T, c lipgloss.Color) string {
	t.Helper()
	v, err := strconv.ParseUint(strings.TrimPrefix(string(c), "#"), 16, 32)
	if err != nil {
		t.Fatalf("bad color %q", c)
	}
	return fmt.Sprintf("48;2;%d;%d;%d", v>>16&0xff, v>>8&0xff, v&0xff)
}

func TestCellStyleRendersBackground(t *testing.T) {
	prev := lipgloss.ColorProfile()
	lipgloss.SetColorProfile(termenv.TrueColor)
	t.Cleanup(func() { lipgloss.SetColorProfile(prev) })

	styles := NewStyles(testTheme())
	palette := theme.NewPalette(testTheme())

	for _, tt := range []struct {
		kind cellKind
		want lipgloss.Color
	}{
		{cellLesson, palette.LessonBg},
		{cellBreak, palette.BreakBg},
		{cellConflict, palette.ConflictBg},
	} {
		out := styles.cellStyle(tt.kind, false, 6).Render("X A")
		if !strings.Contains(out, sgrBackground(t, tt.want)) {
			t.Errorf("cell %v rendered %q without background %s", tt.kind, out, tt.want)
		}
	}
}
