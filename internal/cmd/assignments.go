package cmd

import (
	"context"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/siagacs/siaga-admin/internal/admin"
	"github.com/siagacs/siaga-admin/internal/authz"
	"github.com/siagacs/siaga-admin/internal/ux"
)

func newAssignmentsCmd() *cobra.Command {
	assignmentsCmd := &cobra.Command{
		Use:     "assignments",
		Aliases: []string{"spot-assignments"},
		Short:   "Assign guards to attendance spots",
		Long: `An assignment lets a guard clock in at a spot from a start date, optionally
until an end date.

Examples:
  siaga-admin assignments list --date 2026-03-01
  siaga-admin assignments create --user 12 --spot 3 --from 2026-03-01
  siaga-admin assignments update 8 --spot 3 --from 2026-03-01 --until 2026-03-31`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	assignmentsCmd.AddCommand(
		newAssignmentsListCmd(),
		newAssignmentsCreateCmd(),
		newAssignmentsUpdateCmd(),
		newDeleteCmd("spot assignment", authz.FeatureSpotAssignment, func(ctx context.Context, app *App, id int64) error {
			return app.Admin.DeleteSpotAssignment(ctx, id)
		}),
	)
	return assignmentsCmd
}

func assignmentsTable(items []admin.SpotAssignment) ux.Table {
	rows := make([][]string, 0, len(items))
	for _, a := range items {
		until := "open"
		if a.ActiveUntil != nil && *a.ActiveUntil != "" {
			until = *a.ActiveUntil
		}
		rows = append(rows, []string{
			strconv.FormatInt(a.ID, 10),
			a.UserName + " (" + strconv.FormatInt(a.UserID, 10) + ")",
			a.AttendanceSpotName + " (" + strconv.FormatInt(a.AttendanceSpotID, 10) + ")",
			a.ActiveFrom,
			until,
		})
	}
	return ux.Table{Data: items, Header: []string{"ID", "GUARD", "SPOT", "FROM", "UNTIL"}, Body: rows}
}

func newAssignmentsListCmd() *cobra.Command {
	var date string

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List spot assignments",
		Args:  cobra.NoArgs,
		RunE: withView(authz.FeatureSpotAssignment, func(cmd *cobra.Command, app *App, args []string) error {
			if err := checkDate("date", date); err != nil {
				return err
			}
			items, err := app.Admin.ListSpotAssignments(cmd.Context(), date)
			if err != nil {
				return err
			}
			return app.print(assignmentsTable(items))
		}),
	}

	listCmd.Flags().StringVar(&date, "date", "", "only assignments active on this date (YYYY-MM-DD)")
	return listCmd
}

func newAssignmentsCreateCmd() *cobra.Command {
	var in admin.NewSpotAssignment

	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Assign a guard to a spot",
		Args:  cobra.NoArgs,
		RunE: withManage(authz.FeatureSpotAssignment, func(cmd *cobra.Command, app *App, args []string) error {
			created, err := app.Admin.CreateSpotAssignment(cmd.Context(), in)
			if err != nil {
				return err
			}
			return app.done(created, "Assigned user %d to spot %d from %s", in.UserID, in.AttendanceSpotID, in.ActiveFrom)
		}),
	}

	createCmd.Flags().Int64Var(&in.UserID, "user", 0, "guard user id")
	createCmd.Flags().Int64Var(&in.AttendanceSpotID, "spot", 0, "attendance spot id")
	createCmd.Flags().StringVar(&in.ActiveFrom, "from", "", "first active date (YYYY-MM-DD)")
	return createCmd
}

func newAssignmentsUpdateCmd() *cobra.Command {
	var (
		in    admin.SpotAssignmentUpdate
		until string
	)

	updateCmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change a spot assignment",
		Long:  `Omit --until to make the assignment open-ended.`,
		Args:  cobra.ExactArgs(1),
		RunE: withManage(authz.FeatureSpotAssignment, func(cmd *cobra.Command, app *App, args []string) error {
			id, err := parseID(args[0], "id")
			if err != nil {
				return err
			}
			in.ActiveUntil = nil
			if until != "" {
				in.ActiveUntil = &until
			}
			updated, err := app.Admin.UpdateSpotAssignment(cmd.Context(), id, in)
			if err != nil {
				return err
			}
			return app.done(updated, "Updated spot assignment %d", id)
		}),
	}

	updateCmd.Flags().Int64Var(&in.AttendanceSpotID, "spot", 0, "attendance spot id")
	updateCmd.Flags().StringVar(&in.ActiveFrom, "from", "", "first active date (YYYY-MM-DD)")
	updateCmd.Flags().StringVar(&until, "until", "", "last active date (YYYY-MM-DD)")
	return updateCmd
}
