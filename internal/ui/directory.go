package ui

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/javiermolinar/roster/internal/schedule"
)

func (a *App) teacherCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "teacher",
		Short: "Manage the teacher directory",
	}
	cmd.AddCommand(a.teacherAddCmd())
	cmd.AddCommand(a.teacherListCmd())
	return cmd
}

func (a *App) teacherAddCmd() *cobra.Command {
	var (
		t        schedule.Teacher
		subjects []string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add or update a teacher",
		Long: `Add a teacher to the directory, or update the teacher with the same id.

Teaching hours decide who is sent to the LLM when drafting a timetable.

Example:
  roster teacher add --id t1 --name "Budi, S.Pd." --subjects Matematika --hours 24`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			t.ID = strings.TrimSpace(t.ID)
			if t.ID == "" {
				t.ID = schedule.NewID()
			}
			t.Name = strings.TrimSpace(t.Name)
			if t.Name == "" {
				return fmt.Errorf("teacher name cannot be empty")
			}
			t.Subjects = subjects

			sess, err := a.openSession(cmd)
			if err != nil {
				return err
			}
			if err := sess.SaveTeacher(cmdContext(cmd), t); err != nil {
				return fmt.Errorf("saving teacher: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved teacher %s (%s)\n", t.Name, t.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&t.ID, "id", "", "Teacher id (generated if empty)")
	cmd.Flags().StringVar(&t.Name, "name", "", "Full name")
	cmd.Flags().StringVar(&t.NIP, "nip", "", "Employee number")
	cmd.Flags().StringSliceVar(&subjects, "subjects", nil, "Subjects taught (comma-separated)")
	cmd.Flags().IntVar(&t.MaxHours, "max-hours", 0, "Maximum teaching hours per week")
	cmd.Flags().IntVar(&t.TeachingHours, "hours", 0, "Assigned teaching hours per week")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func (a *App) teacherListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List teachers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, err := a.openSession(cmd)
			if err != nil {
				return err
			}
			teachers := sess.Directory().Teachers()
			out := cmd.OutOrStdout()
			if len(teachers) == 0 {
				fmt.Fprintln(out, "No teachers.")
				return nil
			}
			rows := make([][]string, 0, len(teachers))
			for _, t := range teachers {
				rows = append(rows, []string{
					t.ID,
					t.Name,
					strings.Join(t.Subjects, ", "),
					hours(t.TeachingHours),
					hours(t.MaxHours),
				})
			}
			printTable(out, []string{"ID", "Name", "Subjects", "Hours", "Max"}, rows)
			return nil
		},
	}
}

func (a *App) roomCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "room",
		Short: "Manage the room directory",
	}
	cmd.AddCommand(a.roomAddCmd())
	cmd.AddCommand(a.roomListCmd())
	return cmd
}

func (a *App) roomAddCmd() *cobra.Command {
	var r schedule.Room

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add or update a room",
		Long: `Add a room to the directory, or update the room with the same id.

Example:
  roster room add --id r1 --name "Lab Komputer" --type lab --capacity 36`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r.ID = strings.TrimSpace(r.ID)
			if r.ID == "" {
				r.ID = schedule.NewID()
			}
			r.Name = strings.TrimSpace(r.Name)
			if r.Name == "" {
				return fmt.Errorf("room name cannot be empty")
			}

			sess, err := a.openSession(cmd)
			if err != nil {
				return err
			}
			if err := sess.SaveRoom(cmdContext(cmd), r); err != nil {
				return fmt.Errorf("saving room: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved room %s (%s)\n", r.Name, r.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&r.ID, "id", "", "Room id (generated if empty)")
	cmd.Flags().StringVar(&r.Name, "name", "", "Room name")
	cmd.Flags().StringVar(&r.Type, "type", "", "Room type, e.g. class or lab")
	cmd.Flags().IntVar(&r.Capacity, "capacity", 0, "Number of seats")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func (a *App) roomListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List rooms",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, err := a.openSession(cmd)
			if err != nil {
				return err
			}
			rooms := sess.Directory().Rooms()
			out := cmd.OutOrStdout()
			if len(rooms) == 0 {
				fmt.Fprintln(out, "No rooms.")
				return nil
			}
			rows := make([][]string, 0, len(rooms))
			for _, r := range rooms {
				rows = append(rows, []string{r.ID, r.Name, r.Type, hours(r.Capacity)})
			}
			printTable(out, []string{"ID", "Name", "Type", "Capacity"}, rows)
			return nil
		},
	}
}

func hours(n int) string {
	if n <= 0 {
		return "-"
	}
	return strconv.Itoa(n)
}

func printTable(w io.Writer, headers []string, rows [][]string) {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...)
	fmt.Fprintln(w, t.String())
}
