package cmd

import (
	"context"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/siagacs/siaga-admin/internal/admin"
	"github.com/siagacs/siaga-admin/internal/authz"
	"github.com/siagacs/siaga-admin/internal/ux"
)

func newScheduleCmd() *cobra.Command {
	scheduleCmd := &cobra.Command{
		Use:     "schedule",
		Aliases: []string{"user-shifts"},
		Short:   "Assign guards to shifts by date",
		Long: `Examples:
  siaga-admin schedule list --date 2026-03-01
  siaga-admin schedule create --user 12 --shift 2 --date 2026-03-01
  siaga-admin schedule update 40 --shift 3 --date 2026-03-02`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	scheduleCmd.AddCommand(
		newScheduleListCmd(),
		newScheduleCreateCmd(),
		newScheduleUpdateCmd(),
		newDeleteCmd("schedule entry", authz.FeatureScheduling, func(ctx context.Context, app *App, id int64) error {
			return app.Admin.DeleteUserShift(ctx, id)
		}),
	)
	return scheduleCmd
}

func scheduleTable(items []admin.UserShift) ux.Table {
	rows := make([][]string, 0, len(items))
	for _, s := range items {
		rows = append(rows, []string{
			strconv.FormatInt(s.ID, 10),
			s.ShiftDate,
			s.UserName + " (" + strconv.FormatInt(s.UserID, 10) + ")",
			s.ShiftName + " (" + strconv.FormatInt(s.ShiftID, 10) + ")",
		})
	}
	return ux.Table{Data: items, Header: []string{"ID", "DATE", "GUARD", "SHIFT"}, Body: rows}
}

func newScheduleListCmd() *cobra.Command {
	var date string

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List schedule entries",
		Args:  cobra.NoArgs,
		RunE: withView(authz.FeatureScheduling, func(cmd *cobra.Command, app *App, args []string) error {
			if err := checkDate("date", date); err != nil {
				return err
			}
			items, err := app.Admin.ListUserShifts(cmd.Context(), date)
			if err != nil {
				return err
			}
			return app.print(scheduleTable(items))
		}),
	}

	listCmd.Flags().StringVar(&date, "date", "", "only entries on this date (YYYY-MM-DD)")
	return listCmd
}

func newScheduleCreateCmd() *cobra.Command {
	var in admin.NewUserShift

	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Put a guard on a shift",
		Args:  cobra.NoArgs,
		RunE: withManage(authz.FeatureScheduling, func(cmd *cobra.Command, app *App, args []string) error {
			created, err := app.Admin.CreateUserShift(cmd.Context(), in)
			if err != nil {
				return err
			}
			return app.done(created, "Scheduled user %d on shift %d for %s", in.UserID, in.ShiftID, in.ShiftDate)
		}),
	}

	createCmd.Flags().Int64Var(&in.UserID, "user", 0, "guard user id")
	createCmd.Flags().Int64Var(&in.ShiftID, "shift", 0, "shift id")
	createCmd.Flags().StringVar(&in.ShiftDate, "date", "", "shift date (YYYY-MM-DD)")
	return createCmd
}

func newScheduleUpdateCmd() *cobra.Command {
	var in admin.UserShiftUpdate

	updateCmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Move a schedule entry to another shift or date",
		Args:  cobra.ExactArgs(1),
		RunE: withManage(authz.FeatureScheduling, func(cmd *cobra.Command, app *App, args []string) error {
			id, err := parseID(args[0], "id")
			if err != nil {
				return err
			}
			updated, err := app.Admin.UpdateUserShift(cmd.Context(), id, in)
			if err != nil {
				return err
			}
			return app.done(updated, "Updated schedule entry %d", id)
		}),
	}

	updateCmd.Flags().Int64Var(&in.ShiftID, "shift", 0, "shift id")
	updateCmd.Flags().StringVar(&in.ShiftDate, "date", "", "shift date (YYYY-MM-DD)")
	return updateCmd
}
