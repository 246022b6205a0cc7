package ui

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/roster/internal/schedule"
	"github.com/javiermolinar/roster/internal/scheduler"
)

func (a *App) freeCmd() *cobra.Command {
	var day, className, teacher, room string

	cmd := &cobra.Command{
		Use:   "free",
		Short: "List periods where a lesson fits",
		Long: `List the teaching periods where a class, teacher and room are all free.
Any combination of the filters can be given.

Example:
  roster free --class "X A" --teacher "Budi, S.Pd."
  roster free --room r1 --day today`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, err := a.openSession(cmd)
			if err != nil {
				return err
			}

			req := scheduler.Request{ClassName: strings.TrimSpace(className), RoomID: strings.TrimSpace(room)}
			if teacher != "" {
				id, ok := teacherID(sess.Directory(), teacher)
				if !ok {
					return fmt.Errorf("unknown teacher %q", teacher)
				}
				req.TeacherID = id
			}
			onlyDay := ""
			if day != "" {
				if onlyDay, err = a.resolveDay(day, sess.Days()); err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			var lastDay string
			n := 0
			for _, o := range scheduler.New(sess.Days(), sess.Grid()).Openings(sess.Slots(), req) {
				if onlyDay != "" && o.Day != onlyDay {
					continue
				}
				if o.Day != lastDay {
					fmt.Fprintln(out, formatHeader(o.Day))
					lastDay = o.Day
				}
				fmt.Fprintf(out, "  JP %-4s %s\n", schedule.FormatPeriodID(o.Period.ID), formatMuted(o.Period.Label))
				n++
			}
			if n == 0 {
				fmt.Fprintln(out, "No free periods.")
				return nil
			}
			fmt.Fprintln(out, formatStats(fmt.Sprintf("%d free period(s)", n)))
			return nil
		},
	}

	cmd.Flags().StringVar(&day, "day", "", "Only this day")
	cmd.Flags().StringVar(&className, "class", "", "Class that must be free")
	cmd.Flags().StringVar(&teacher, "teacher", "", "Teacher id or name that must be free")
	cmd.Flags().StringVar(&room, "room", "", "Room id that must be free")
	return cmd
}

// teacherID accepts a teacher id or an exact name.
func teacherID(dir *schedule.Directory, ref string) (string, bool) {
	ref = strings.TrimSpace(ref)
	if _, ok := dir.Teacher(ref); ok {
		return ref, true
	}
	return dir.ResolveTeacher(ref)
}
