package ui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/roster/internal/schedule"
	"github.com/javiermolinar/roster/internal/session"
	"github.com/javiermolinar/roster/internal/view"
)

func (a *App) showCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the timetable of a class, teacher or room",
		Long: `Print a weekly timetable as a table of periods by days.

Examples:
  roster show class "X A"
  roster show teacher t1
  roster show teacher "Budi, S.Pd."
  roster show room r1`,
	}

	cmd.AddCommand(a.showViewCmd(view.ByClass, "class <name>", "Timetable of a class"))
	cmd.AddCommand(a.showViewCmd(view.ByTeacher, "teacher <id|name>", "Timetable of a teacher"))
	cmd.AddCommand(a.showViewCmd(view.ByRoom, "room <id|name>", "Timetable of a room"))
	return cmd
}

func (a *App) showViewCmd(mode view.Mode, use, short string) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := a.openSession(cmd)
			if err != nil {
				return err
			}
			key, err := resolveViewKey(sess, mode, strings.Join(args, " "))
			if err != nil {
				return err
			}
			t := sess.Projector().Project(mode, key)
			fmt.Fprint(cmd.OutOrStdout(), view.RenderText(t, cellWidth(len(t.Days))))
			return nil
		},
	}
}

// resolveViewKey maps user input to the key of a view: a configured class
// name, a teacher id or name, or a room id or name.
func resolveViewKey(sess *session.Session, mode view.Mode, input string) (string, error) {
	input = strings.TrimSpace(input)
	dir := sess.Directory()

	switch mode {
	case view.ByClass:
		for _, c := range view.ClassNames(sess.Classes(), sess.Slots()) {
			if strings.EqualFold(c, input) {
				return c, nil
			}
		}
		return "", fmt.Errorf("unknown class %q", input)

	case view.ByTeacher:
		for _, id := range view.TeacherIDs(dir, sess.Slots()) {
			if strings.EqualFold(id, input) {
				return id, nil
			}
		}
		if id, ok := dir.ResolveTeacher(input); ok {
			return id, nil
		}
		return "", fmt.Errorf("unknown teacher %q", input)

	case view.ByRoom:
		for _, id := range view.RoomIDs(dir, sess.Slots()) {
			if strings.EqualFold(id, input) || strings.EqualFold(dir.RoomName(id), input) {
				return id, nil
			}
		}
		return "", fmt.Errorf("unknown room %q", input)
	}
	return "", fmt.Errorf("unknown view %q", mode)
}

func (a *App) occupancyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "occupancy [day]",
		Short: "Print room usage for one day",
		Long: `Print which class holds each room during every period of a day.
Double-booked rooms are marked with "!". The day defaults to today and
accepts the same keywords as "slot add --day".

Example:
  roster occupancy Senin
  roster occupancy tomorrow`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := a.openSession(cmd)
			if err != nil {
				return err
			}
			input := ""
			if len(args) > 0 {
				input = args[0]
			}
			day, err := a.resolveDay(input, sess.Days())
			if err != nil {
				return err
			}

			occ := sess.Projector().RoomOccupancy(day)
			out := cmd.OutOrStdout()
			if occ.Empty() {
				fmt.Fprintf(out, "No rooms booked on %s.\n", occ.Day)
				return nil
			}
			fmt.Fprint(out, view.RenderOccupancyText(occ, cellWidth(len(occ.Periods))))
			if n := len(occ.DoubleBooked()); n > 0 {
				fmt.Fprintln(out, formatConflict(fmt.Sprintf("%d double-booked room period(s)", n)))
			}
			return nil
		},
	}
}

func (a *App) conflictsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "conflicts",
		Short: "List teacher and room double-bookings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, err := a.openSession(cmd)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			conflicts := sess.Conflicts()
			if conflicts.Len() == 0 {
				fmt.Fprintln(out, formatStats("No conflicts."))
				return nil
			}

			var slots []schedule.Slot
			for _, s := range sess.Slots() {
				if conflicts.Has(s.ID) {
					slots = append(slots, s)
				}
			}
			days := sess.Days()
			sort.SliceStable(slots, func(i, j int) bool {
				di, dj := schedule.DayIndex(days, slots[i].Day), schedule.DayIndex(days, slots[j].Day)
				if di != dj {
					return di < dj
				}
				return slots[i].Period < slots[j].Period
			})

			fmt.Fprintln(out, formatHeader(fmt.Sprintf("%d conflicting lesson(s)", len(slots))))
			fmt.Fprintln(out, rule())
			dir := sess.Directory()
			for _, s := range slots {
				fmt.Fprintf(out, "%s ", formatConflict(fmt.Sprintf("%-12s", conflicts.Kind(s.ID))))
				PrintSlotRow(out, s, dir, conflicts)
			}
			return nil
		},
	}
}
