package ui

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"slices"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/roster/internal/conflict"
	"github.com/javiermolinar/roster/internal/llm"
	"github.com/javiermolinar/roster/internal/schedule"
	"github.com/javiermolinar/roster/internal/session"
)

const maxRetries = 3

func (a *App) suggestCmd() *cobra.Command {
	var (
		modelFlag string
		dryRun    bool
		yes       bool
	)

	cmd := &cobra.Command{
		Use:   "suggest",
		Short: "Draft a timetable with an LLM and merge it",
		Long: `Ask the configured LLM for a timetable draft built from the teacher
directory, the configured classes and the school days.

The draft is reviewed before anything changes: teacher names that do not
match the directory and entries outside the grid are listed. Accepted
lessons replace the lesson held by the same class at the same time;
everything else is kept.

Examples:
  roster suggest
  roster suggest --dry-run
  roster suggest --model gemini-2.0-flash --yes

Interactive mode:
  After the draft is shown, you can:
  - [a]ccept: Merge the lessons into the timetable
  - [r]etry: Ask for a new draft
  - [c]ancel: Exit without changes`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			gen, err := a.generator(modelFlag)
			if err != nil {
				printHint(cmd.ErrOrStderr(), err)
				return err
			}
			sess, err := a.openSession(cmd, session.WithLogger(a.log), session.WithSuggester(gen))
			if err != nil {
				return err
			}

			ctx := cmdContext(cmd)
			out := cmd.OutOrStdout()
			reader := bufio.NewReader(cmd.InOrStdin())

			for attempt := 1; ; attempt++ {
				fmt.Fprintln(out, "Asking for suggestions...")
				suggestions, err := sess.RequestSuggestions(ctx)
				if err != nil {
					printHint(cmd.ErrOrStderr(), err)
					return fmt.Errorf("suggesting: %w", err)
				}

				preview, warnings := session.NewReviewer(sess.Grid(), sess.Days(), sess.Directory()).Review("preview", suggestions)
				displaySuggestions(out, preview, warnings, sess.Directory(), sess.Days())

				if dryRun {
					fmt.Fprintln(out, "\n(Dry run - timetable not changed)")
					return nil
				}

				choice := "a"
				if !yes {
					fmt.Fprint(out, "\n[a]ccept / [r]etry / [c]ancel: ")
					line, err := reader.ReadString('\n')
					if err != nil && line == "" {
						return fmt.Errorf("reading input: %w", err)
					}
					choice = strings.TrimSpace(strings.ToLower(line))
				}

				switch choice {
				case "a", "accept":
					res := sess.ApplySuggestions(ctx, suggestions)
					printMerge(out, res, sess.Conflicts())
					if res.SaveErr != nil {
						printWarning(cmd.ErrOrStderr(), fmt.Errorf("not saved: %w", res.SaveErr))
					}
					return nil

				case "r", "retry":
					if attempt >= maxRetries {
						fmt.Fprintln(out, "Retry limit reached.")
						return nil
					}

				case "c", "cancel":
					fmt.Fprintln(out, "Suggestion cancelled.")
					return nil

				default:
					fmt.Fprintln(out, "Invalid choice. Suggestion cancelled.")
					return nil
				}
			}
		},
	}

	cmd.Flags().StringVar(&modelFlag, "model", "", "LLM model to use (from config if not set)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show the draft without merging it")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Merge without asking")

	return cmd
}

// displaySuggestions shows a reviewed draft grouped by day.
func displaySuggestions(w io.Writer, slots []schedule.Slot, warnings []session.Warning, dir *schedule.Directory, days []string) {
	slots = slices.Clone(slots)
	sort.SliceStable(slots, func(i, j int) bool {
		di, dj := schedule.DayIndex(days, slots[i].Day), schedule.DayIndex(days, slots[j].Day)
		if di != dj {
			return di < dj
		}
		if slots[i].Period != slots[j].Period {
			return slots[i].Period < slots[j].Period
		}
		return slots[i].ClassName < slots[j].ClassName
	})

	fmt.Fprintln(w)
	if len(slots) == 0 {
		fmt.Fprintln(w, "No lessons proposed.")
	}

	draftConflicts := conflict.NewIndex(slots).Conflicts()
	day := ""
	for _, s := range slots {
		if s.Day != day {
			day = s.Day
			fmt.Fprintf(w, "\n%s:\n", formatHeader(day))
			fmt.Fprintln(w, strings.Repeat("-", 60))
		}
		PrintSlotRow(w, s, dir, draftConflicts)
	}

	if len(slots) > 0 {
		fmt.Fprintln(w, strings.Repeat("-", 60))
		fmt.Fprintf(w, "Total: %d lessons", len(slots))
		if n := draftConflicts.Len(); n > 0 {
			fmt.Fprintf(w, ", %s", formatConflict(fmt.Sprintf("%d double-booked", n)))
		}
		fmt.Fprintln(w)
	}

	if len(warnings) > 0 {
		fmt.Fprintln(w)
		fmt.Fprint(w, formatWarning(session.FormatWarnings(warnings)))
		if n := session.UnresolvedTeachers(warnings); n > 0 {
			fmt.Fprintf(w, "%d lesson(s) will be stored with an unknown teacher.\n", n)
		}
	}
}

func printMerge(w io.Writer, res session.Result, conflicts conflict.Set) {
	fmt.Fprintf(w, "\nMerged %d suggestions: %d replaced, %d new\n",
		res.Suggested, res.Merge.Replaced, res.Merge.Appended)
	for _, sup := range res.Merge.Superseded {
		fmt.Fprintf(w, "  %s %s\n", formatMuted("replaced"), sup.Old)
	}
	if n := conflicts.Len(); n > 0 {
		fmt.Fprintln(w, formatConflict(fmt.Sprintf("%d conflicting lesson(s). Run \"roster conflicts\".", n)))
	}
}

// printHint explains provider errors that need user action.
func printHint(w io.Writer, err error) {
	var genErr *llm.GenerationError
	switch {
	case errors.Is(err, llm.ErrMissingCredentials):
		fmt.Fprintln(w, formatMuted("Set up credentials for the LLM provider, or switch providers with \"roster config\"."))
	case errors.As(err, &genErr) && genErr.Provider != "":
		fmt.Fprintln(w, formatMuted(fmt.Sprintf("The %s provider failed; the timetable is unchanged.", genErr.Provider)))
	}
}
