package ui

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/javiermolinar/roster/internal/conflict"
	"github.com/javiermolinar/roster/internal/schedule"
)

const ruleWidth = 74

func rule() string {
	return strings.Repeat("─", ruleWidth)
}

// PrintSlotRow prints one lesson on a single line.
func PrintSlotRow(w io.Writer, s schedule.Slot, dir *schedule.Directory, conflicts conflict.Set) {
	marker := "  "
	text := formatLesson(s.Subject)
	if conflicts.Has(s.ID) {
		marker = formatConflict("! ")
		text = formatConflict(s.Subject)
	}
	room := ""
	if s.HasRoom() {
		room = "  @ " + dir.RoomName(s.RoomID)
	}
	fmt.Fprintf(w, "%s%-8s %4s  %-8s %s  %s%s  %s\n",
		marker,
		s.Day,
		schedule.FormatPeriodID(s.Period),
		s.ClassName,
		text,
		dir.TeacherName(s.TeacherID),
		room,
		formatMuted(s.ID),
	)
}

// PrintPeriodRow prints one period of the grid.
func PrintPeriodRow(w io.Writer, p schedule.Period) {
	id := fmt.Sprintf("%5s", schedule.FormatPeriodID(p.ID))
	if p.Break {
		fmt.Fprintf(w, "  %s  %s\n", formatBreak(id), formatBreak(p.Label+" (break)"))
		return
	}
	fmt.Fprintf(w, "  %s  %s\n", formatHeader(id), p.Label)
}

// insightLine is one line of LLM insight text, classified by its markdown
// marker.
type insightLine struct {
	prefix string // printed before the first wrapped line
	text   string
	header bool
}

var numberedItem = regexp.MustCompile(`^([1-9][0-9]?\.)\s+(.*)$`)

func classifyInsight(line string) insightLine {
	switch {
	case strings.HasPrefix(line, "#"):
		return insightLine{text: strings.TrimLeft(line, "# "), header: true}
	case strings.HasPrefix(line, "- "), strings.HasPrefix(line, "* "):
		return insightLine{prefix: "    • ", text: line[2:]}
	case strings.HasPrefix(line, ">"):
		return insightLine{prefix: "  │ ", text: strings.TrimSpace(line[1:])}
	}
	if m := numberedItem.FindStringSubmatch(line); m != nil {
		return insightLine{prefix: "  " + m[1] + " ", text: m[2]}
	}
	return insightLine{prefix: "  ", text: line}
}

// PrintInsightWrapped prints LLM insight text wrapped to width, keeping
// headers, bullets, quotes and numbered items readable. Code fences are
// dropped and their content kept.
func PrintInsightWrapped(w io.Writer, text string, width int) {
	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		switch {
		case strings.HasPrefix(line, "```"):
			continue
		case line == "":
			fmt.Fprintln(w)
			continue
		}

		l := classifyInsight(line)
		if l.header {
			fmt.Fprintf(w, "\n%s\n", formatHeader("  "+l.text))
			continue
		}
		indent := strings.Repeat(" ", len([]rune(l.prefix)))
		for i, wrapped := range wrapWords(l.text, width-len([]rune(l.prefix))) {
			lead := indent
			if i == 0 {
				lead = l.prefix
			}
			fmt.Fprintln(w, formatInsight(lead+wrapped))
		}
	}
}

// wrapWords breaks text into lines of at most width bytes at word
// boundaries. A word longer than width gets a line of its own.
func wrapWords(text string, width int) []string {
	var lines []string
	var b strings.Builder
	for _, word := range strings.Fields(text) {
		if b.Len() > 0 && b.Len()+1+len(word) > width {
			lines = append(lines, b.String())
			b.Reset()
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(word)
	}
	if b.Len() > 0 {
		lines = append(lines, b.String())
	}
	return lines
}
