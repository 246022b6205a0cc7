package theme

import (
	"github.com/charmbracelet/lipgloss"
)

// Palette holds precomputed colors derived from a Theme.
type Palette struct {
	Bg          lipgloss.Color
	BgHighlight lipgloss.Color
	BgSelection lipgloss.Color
	Fg          lipgloss.Color
	FgMuted     lipgloss.Color
	Accent      lipgloss.Color
	Lesson      lipgloss.Color
	Break       lipgloss.Color
	Conflict    lipgloss.Color
	Warning     lipgloss.Color

	// Cell backgrounds. LessonBgAlt shades every other day column.
	LessonBg    lipgloss.Color
	LessonBgAlt lipgloss.Color
	BreakBg     lipgloss.Color
	ConflictBg  lipgloss.Color

	// Foregrounds picked for contrast against the matching background.
	TextOnAccent   lipgloss.Color
	TextOnWarning  lipgloss.Color
	TextOnConflict lipgloss.Color
	TextOnLesson   lipgloss.Color

	Modal ModalColors
}

// ModalColors holds the colors of confirmation dialogs.
type ModalColors struct {
	Bg        lipgloss.Color
	Border    lipgloss.Color
	Text      lipgloss.Color
	Highlight lipgloss.Color
}

// NewPalette derives a Palette from the provided Theme.
// Dark themes get darkened cell backgrounds; light themes blend the cell
// colors into the page background instead.
func NewPalette(t *Theme) *Palette {
	if t == nil {
		t = Default()
	}

	bg, fg := mustRGB(t.Bg), mustRGB(t.Fg)
	light := bg.luminance() > 0.55

	cell := func(hex string) rgb {
		c := mustRGB(hex)
		if light {
			return c.blend(bg, 0.75)
		}
		return c.scale(0.50, 40)
	}
	muted := func(hex string) rgb {
		c := mustRGB(hex)
		if light {
			return c.blend(bg, 0.88)
		}
		return c.scale(0.30, 30)
	}
	alternate := func(c rgb) rgb {
		if light {
			return c.blend(black, 0.10)
		}
		return c.blend(white, 0.30)
	}
	textOn := func(c rgb) lipgloss.Color {
		if contrast(c, bg) >= contrast(c, fg) {
			return lipgloss.Color(t.Bg)
		}
		return lipgloss.Color(t.Fg)
	}

	lessonBg := cell(t.Lesson)
	conflictBg := cell(t.Conflict)

	return &Palette{
		Bg:          lipgloss.Color(t.Bg),
		BgHighlight: lipgloss.Color(t.BgHighlight),
		BgSelection: lipgloss.Color(t.BgSelection),
		Fg:          lipgloss.Color(t.Fg),
		FgMuted:     lipgloss.Color(t.FgMuted),
		Accent:      lipgloss.Color(t.Accent),
		Lesson:      lipgloss.Color(t.Lesson),
		Break:       lipgloss.Color(t.Break),
		Conflict:    lipgloss.Color(t.Conflict),
		Warning:     lipgloss.Color(t.Warning),

		LessonBg:    lipgloss.Color(lessonBg.hex()),
		LessonBgAlt: lipgloss.Color(alternate(lessonBg).hex()),
		BreakBg:     lipgloss.Color(muted(t.Break).hex()),
		ConflictBg:  lipgloss.Color(conflictBg.hex()),

		TextOnAccent:   textOn(mustRGB(t.Accent)),
		TextOnWarning:  textOn(mustRGB(t.Warning)),
		TextOnConflict: textOn(conflictBg),
		TextOnLesson:   textOn(lessonBg),

		Modal: ModalColors{
			Bg:        lipgloss.Color(firstSet(t.ModalBg, t.BgHighlight, t.Bg)),
			Border:    lipgloss.Color(firstSet(t.ModalBorder, t.Accent)),
			Text:      lipgloss.Color(t.Fg),
			Highlight: lipgloss.Color(t.Accent),
		},
	}
}

func firstSet(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
