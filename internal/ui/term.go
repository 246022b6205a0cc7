package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"
)

const (
	defaultTermWidth = 80
	periodColumn     = 8
)

// Output styles. fatih/color drops the escapes itself when stdout is not a
// terminal or NO_COLOR is set.
var (
	formatLesson   = color.New(color.FgCyan, color.Bold).SprintFunc()
	formatBreak    = color.New(color.FgWhite, color.Faint).SprintFunc()
	formatConflict = color.New(color.FgRed, color.Bold).SprintFunc()
	formatWarning  = color.New(color.FgYellow).SprintFunc()
	formatInsight  = color.New(color.FgYellow).SprintFunc()
	formatHeader   = color.New(color.Bold).SprintFunc()
	formatStats    = color.New(color.FgGreen).SprintFunc()
	formatMuted    = color.New(color.FgWhite, color.Faint).SprintFunc()
)

// DisableColor turns off colored output for the rest of the process.
func DisableColor() {
	color.NoColor = true
}

func termWidth() int {
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	return defaultTermWidth
}

// cellWidth fits the day columns next to the period column, keeping each
// between 8 and 24 characters.
func cellWidth(days int) int {
	if days <= 0 {
		return 18
	}
	return max(8, min((termWidth()-periodColumn)/days, 24))
}

func printWarning(w io.Writer, err error) {
	fmt.Fprintln(w, formatWarning("warning: "+err.Error()))
}
