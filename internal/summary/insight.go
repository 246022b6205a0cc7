package summary

import (
	"context"
	"fmt"
	"strings"

	"github.com/javiermolinar/roster/internal/llm"
)

const insightSystemPrompt = `You review school timetables for a vice principal.
Given a workload report, write at most five short bullet points about
overloaded teachers, unbalanced classes and conflicts to fix first.
Plain text only, no markdown headers.`

// Insight asks an LLM for a short review of the workload.
func Insight(ctx context.Context, client llm.Client, w *Workload) (string, error) {
	resp, err := client.Chat(ctx, []llm.Message{
		llm.SystemMessage(insightSystemPrompt),
		llm.UserMessage(FormatReport(w)),
	})
	if err != nil {
		return "", fmt.Errorf("evaluating workload: %w", err)
	}
	return strings.TrimSpace(resp), nil
}

// FormatReport renders the workload as plain text.
func FormatReport(w *Workload) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Slots: %d, conflicting: %d, unknown teacher: %d, outside grid: %d\n",
		w.Slots, w.Conflicting, w.UnknownTeachers, w.Orphaned)

	b.WriteString("\nTeachers:\n")
	for _, t := range w.Teachers {
		limit := "-"
		if t.MaxHours > 0 {
			limit = fmt.Sprintf("%d", t.MaxHours)
		}
		flag := ""
		if t.Overloaded {
			flag = " OVERLOADED"
		}
		if t.Conflicts > 0 {
			flag += fmt.Sprintf(" conflicts=%d", t.Conflicts)
		}
		fmt.Fprintf(&b, "  %s: %d/%s JP%s\n", t.Name, t.Hours, limit, flag)
	}

	b.WriteString("\nClasses:\n")
	for _, c := range w.Classes {
		parts := make([]string, len(c.Subjects))
		for i, s := range c.Subjects {
			parts[i] = fmt.Sprintf("%s %d", s.Subject, s.Hours)
		}
		fmt.Fprintf(&b, "  %s: %d JP", c.ClassName, c.Hours)
		if len(parts) > 0 {
			fmt.Fprintf(&b, " (%s)", strings.Join(parts, ", "))
		}
		b.WriteString("\n")
	}
	return b.String()
}
