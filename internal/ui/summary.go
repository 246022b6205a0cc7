package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/roster/internal/summary"
)

func (a *App) summaryCmd() *cobra.Command {
	var (
		insight   bool
		modelFlag string
	)

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show teacher and class workload",
		Long: `Show the weekly hours (JP) of every teacher and class, with
overloaded teachers and conflicting lessons flagged.

With --insight, the configured LLM reviews the report.

Examples:
  roster summary
  roster summary --insight`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.ensureRepo(); err != nil {
				return err
			}

			ctx := cmdContext(cmd)
			w, err := summary.Build(ctx, a.repo, a.config.Grid(), a.config.Schedule.Classes)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			printWorkload(out, w)

			if !insight {
				return nil
			}
			if modelFlag == "" {
				modelFlag = a.config.LLM.Model
			}
			client, err := a.newClient(modelFlag)
			if err != nil {
				printHint(cmd.ErrOrStderr(), err)
				return fmt.Errorf("creating LLM client: %w", err)
			}

			fmt.Fprintln(out)
			fmt.Fprintln(out, formatMuted("Evaluating workload..."))
			text, err := summary.Insight(ctx, client, w)
			if err != nil {
				return err
			}
			fmt.Fprintln(out)
			fmt.Fprintln(out, formatHeader("Insight"))
			fmt.Fprintln(out, rule())
			PrintInsightWrapped(out, text, min(termWidth(), ruleWidth))
			return nil
		},
	}

	cmd.Flags().BoolVar(&insight, "insight", false, "Ask the LLM to review the workload")
	cmd.Flags().StringVar(&modelFlag, "model", "", "LLM model to use (from config if not set)")
	return cmd
}

func printWorkload(out io.Writer, w *summary.Workload) {
	fmt.Fprintln(out, formatHeader("Workload"))
	fmt.Fprintln(out, rule())
	fmt.Fprintf(out, "  Lessons: %s", formatStats(fmt.Sprintf("%d", w.Slots)))
	if w.Conflicting > 0 {
		fmt.Fprintf(out, "  |  %s", formatConflict(fmt.Sprintf("Conflicting: %d", w.Conflicting)))
	}
	if w.UnknownTeachers > 0 {
		fmt.Fprintf(out, "  |  %s", formatWarning(fmt.Sprintf("Unknown teacher: %d", w.UnknownTeachers)))
	}
	if w.Orphaned > 0 {
		fmt.Fprintf(out, "  |  %s", formatMuted(fmt.Sprintf("Outside grid: %d", w.Orphaned)))
	}
	fmt.Fprintln(out)

	fmt.Fprintln(out)
	fmt.Fprintln(out, formatHeader("Teachers"))
	for _, t := range w.Teachers {
		limit := "-"
		if t.MaxHours > 0 {
			limit = fmt.Sprintf("%d", t.MaxHours)
		}
		load := fmt.Sprintf("%3d/%-3s JP", t.Hours, limit)
		switch {
		case t.Overloaded:
			load = formatConflict(load + " overloaded")
		case t.Hours == 0:
			load = formatMuted(load)
		}
		line := fmt.Sprintf("  %-32s %s", t.Name, load)
		if t.Conflicts > 0 {
			line += formatConflict(fmt.Sprintf("  %d conflicting", t.Conflicts))
		}
		fmt.Fprintln(out, line)
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, formatHeader("Classes"))
	for _, c := range w.Classes {
		parts := make([]string, len(c.Subjects))
		for i, s := range c.Subjects {
			parts[i] = fmt.Sprintf("%s %d", s.Subject, s.Hours)
		}
		fmt.Fprintf(out, "  %-12s %3d JP  %s\n", c.ClassName, c.Hours, formatMuted(strings.Join(parts, ", ")))
	}
}
