package ui

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/roster/internal/schedule"
)

func (a *App) periodCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "period",
		Short: "Manage the period grid",
		Long: `List and edit the periods (JP) of the school day.

Whole-number periods are lessons. Fractional ids such as 2.5 insert a
break between two lessons.

Examples:
  roster period list
  roster period add 9 "14:15-14:55"
  roster period add 4.5 Istirahat --break
  roster period relabel 1 "07:00-07:40"
  roster period remove 9`,
	}

	cmd.AddCommand(a.periodListCmd())
	cmd.AddCommand(a.periodAddCmd())
	cmd.AddCommand(a.periodRemoveCmd())
	cmd.AddCommand(a.periodRelabelCmd())
	return cmd
}

func (a *App) periodListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the periods in order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, err := a.openSession(cmd)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			periods := sess.Grid().Periods()
			if len(periods) == 0 {
				fmt.Fprintln(out, "No periods.")
				return nil
			}
			for _, p := range periods {
				PrintPeriodRow(out, p)
			}
			return nil
		},
	}
}

func (a *App) periodAddCmd() *cobra.Command {
	var isBreak bool

	cmd := &cobra.Command{
		Use:   "add <id> [label]",
		Short: "Add a period to the grid",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := schedule.ParsePeriodID(args[0])
			if err != nil {
				return err
			}
			label := strings.Join(args[1:], " ")

			sess, err := a.openSession(cmd)
			if err != nil {
				return err
			}
			res, err := sess.AddPeriod(cmdContext(cmd), id, label, isBreak)
			if err != nil {
				return fmt.Errorf("adding period: %w", err)
			}
			reportResult(cmd, res)
			fmt.Fprintf(cmd.OutOrStdout(), "Added period %s\n", schedule.FormatPeriodID(id))
			return nil
		},
	}

	cmd.Flags().BoolVar(&isBreak, "break", false, "Mark the period as a break")
	return cmd
}

func (a *App) periodRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove a period from the grid",
		Long: `Remove a period from the grid.

Lessons placed in the period are kept and listed as outside the grid.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := schedule.ParsePeriodID(args[0])
			if err != nil {
				return err
			}
			sess, err := a.openSession(cmd)
			if err != nil {
				return err
			}
			res, err := sess.RemovePeriod(cmdContext(cmd), id)
			if err != nil {
				return fmt.Errorf("removing period: %w", err)
			}
			reportResult(cmd, res)
			fmt.Fprintf(cmd.OutOrStdout(), "Removed period %s\n", schedule.FormatPeriodID(id))
			return nil
		},
	}
}

func (a *App) periodRelabelCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "relabel <id> <label>",
		Short: "Change the label of a period",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := schedule.ParsePeriodID(args[0])
			if err != nil {
				return err
			}
			label := strings.Join(args[1:], " ")

			sess, err := a.openSession(cmd)
			if err != nil {
				return err
			}
			res, err := sess.RelabelPeriod(cmdContext(cmd), id, label)
			if err != nil {
				return fmt.Errorf("relabeling period: %w", err)
			}
			reportResult(cmd, res)
			fmt.Fprintf(cmd.OutOrStdout(), "Period %s is now %q\n", schedule.FormatPeriodID(id), label)
			return nil
		},
	}
}
