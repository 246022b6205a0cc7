package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/roster/internal/conflict"
	"github.com/javiermolinar/roster/internal/schedule"
	"github.com/javiermolinar/roster/internal/scheduler"
)

func (a *App) slotCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "slot",
		Short: "Add, remove or list lessons",
	}

	cmd.AddCommand(a.slotAddCmd())
	cmd.AddCommand(a.slotRemoveCmd())
	cmd.AddCommand(a.slotListCmd())
	return cmd
}

func (a *App) slotAddCmd() *cobra.Command {
	var (
		day, period, className, subject, teacher, room string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Place a lesson in the timetable",
		Long: `Place a lesson in the timetable.

The teacher may be given by id or by exact name. Unknown teachers, rooms
and periods are accepted with a warning. A double-booked lesson is kept
and the next free period for it is suggested.

The day accepts a configured name, an English weekday, "today",
"tomorrow" or "next".

Example:
  roster slot add --day Senin --period 1 --class "X A" --subject Matematika --teacher "Budi, S.Pd." --room r1`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			periodID, err := schedule.ParsePeriodID(period)
			if err != nil {
				return err
			}

			sess, err := a.openSession(cmd)
			if err != nil {
				return err
			}
			resolved, err := a.resolveDay(day, sess.Days())
			if err != nil {
				return err
			}
			slot, res, err := sess.AddSlot(cmdContext(cmd), resolved, periodID, className, subject, teacher, room)
			if err != nil {
				return fmt.Errorf("adding slot: %w", err)
			}
			reportResult(cmd, res)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Added %s\n", slot)
			fmt.Fprintf(out, "ID: %s\n", slot.ID)
			if slots := sess.Slots(); conflict.IsSlotConflicting(slots, slot) {
				fmt.Fprintln(out, formatConflict(fmt.Sprintf("Double-booked (%s)", conflict.FindConflicts(slots).Kind(slot.ID))))
				printNextOpening(out, sess.Days(), sess.Grid(), sess.Slots(), slot)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&day, "day", "", "School day")
	cmd.Flags().StringVar(&period, "period", "", "Period id (JP)")
	cmd.Flags().StringVar(&className, "class", "", "Class name")
	cmd.Flags().StringVar(&subject, "subject", "", "Subject")
	cmd.Flags().StringVar(&teacher, "teacher", "", "Teacher id or name")
	cmd.Flags().StringVar(&room, "room", "", "Room id")
	for _, name := range []string{"day", "period", "class", "subject", "teacher"} {
		_ = cmd.MarkFlagRequired(name)
	}

	return cmd
}

func (a *App) slotRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove a lesson by id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := a.openSession(cmd)
			if err != nil {
				return err
			}
			removed, res, err := sess.RemoveSlot(cmdContext(cmd), strings.TrimSpace(args[0]))
			if err != nil {
				return fmt.Errorf("removing slot: %w", err)
			}
			reportResult(cmd, res)
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", removed)
			return nil
		},
	}
}

func (a *App) slotListCmd() *cobra.Command {
	var day, className string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List lessons in storage order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, err := a.openSession(cmd)
			if err != nil {
				return err
			}

			onlyDay := ""
			if day != "" {
				if onlyDay, err = a.resolveDay(day, sess.Days()); err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			conflicts := sess.Conflicts()
			n, conflicting := 0, 0
			for _, s := range sess.Slots() {
				if onlyDay != "" && !strings.EqualFold(s.Day, onlyDay) {
					continue
				}
				if className != "" && !strings.EqualFold(s.ClassName, className) {
					continue
				}
				PrintSlotRow(out, s, sess.Directory(), conflicts)
				n++
				if conflicts.Has(s.ID) {
					conflicting++
				}
			}
			if n == 0 {
				fmt.Fprintln(out, "No lessons.")
				return nil
			}
			fmt.Fprintln(out, formatMuted(fmt.Sprintf("%d lesson(s), %d conflicting", n, conflicting)))
			return nil
		},
	}

	cmd.Flags().StringVar(&day, "day", "", "Only this day")
	cmd.Flags().StringVar(&className, "class", "", "Only this class")
	return cmd
}

// printNextOpening suggests where slot would fit, ignoring slot itself.
func printNextOpening(w io.Writer, days []string, grid *schedule.Grid, slots []schedule.Slot, slot schedule.Slot) {
	others := make([]schedule.Slot, 0, len(slots))
	for _, s := range slots {
		if s.ID != slot.ID {
			others = append(others, s)
		}
	}
	req := scheduler.Request{ClassName: slot.ClassName, TeacherID: slot.TeacherID, RoomID: slot.RoomID}
	if o, ok := scheduler.New(days, grid).NextOpening(others, req, slot.Day, slot.Period); ok {
		fmt.Fprintf(w, "Next free period: %s\n", o)
		return
	}
	fmt.Fprintln(w, formatMuted("No free period this week."))
}
