package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/siagacs/siaga-admin/internal/admin"
	"github.com/siagacs/siaga-admin/internal/authz"
	"github.com/siagacs/siaga-admin/internal/errors"
	"github.com/siagacs/siaga-admin/internal/ux"
)

func newShiftsCmd() *cobra.Command {
	shiftsCmd := &cobra.Command{
		Use:     "shifts",
		Aliases: []string{"shift"},
		Short:   "Manage shift definitions",
		Long: `Shifts define working hours and how many minutes late a clock-in may be.

Examples:
  siaga-admin shifts list
  siaga-admin shifts create --name Pagi --start 07:00 --end 15:00
  siaga-admin shifts import shifts.xlsx`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	shiftsCmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List shifts",
			Args:  cobra.NoArgs,
			RunE: withView(authz.FeatureShift, func(cmd *cobra.Command, app *App, args []string) error {
				shifts, err := app.Admin.ListShifts(cmd.Context())
				if err != nil {
					return err
				}
				return app.print(shiftsTable(shifts))
			}),
		},
		newShiftWriteCmd(false),
		newShiftWriteCmd(true),
		newDeleteCmd("shift", authz.FeatureShift, func(ctx context.Context, app *App, id int64) error {
			return app.Admin.DeleteShift(ctx, id)
		}),
		newTemplateCmd(admin.DatasetShifts, authz.FeatureShift),
		newImportCmd(admin.DatasetShifts, authz.FeatureShift),
	)
	return shiftsCmd
}

func shiftsTable(shifts []admin.Shift) ux.Table {
	rows := make([][]string, 0, len(shifts))
	for _, s := range shifts {
		rows = append(rows, []string{
			strconv.FormatInt(s.ID, 10),
			s.Name,
			s.StartTime + " - " + s.EndTime,
			fmt.Sprintf("%d min", s.LateToleranceMinute),
		})
	}
	return ux.Table{Data: shifts, Header: []string{"ID", "NAME", "HOURS", "LATE TOLERANCE"}, Body: rows}
}

func newShiftWriteCmd(update bool) *cobra.Command {
	in := admin.ShiftInput{LateToleranceMinute: admin.DefaultLateTolerance}

	writeCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a shift",
		Args:  cobra.NoArgs,
	}
	if update {
		writeCmd.Use = "update <id>"
		writeCmd.Short = "Change a shift"
		writeCmd.Args = cobra.ExactArgs(1)
	}

	writeCmd.RunE = withManage(authz.FeatureShift, func(cmd *cobra.Command, app *App, args []string) error {
		ctx := cmd.Context()
		if !update {
			created, err := app.Admin.CreateShift(ctx, in)
			if err != nil {
				return err
			}
			return app.done(created, "Created shift %d (%s)", created.ID, created.Name)
		}

		id, err := parseID(args[0], "id")
		if err != nil {
			return err
		}
		shifts, err := app.Admin.ListShifts(ctx)
		if err != nil {
			return err
		}
		var merged *admin.ShiftInput
		for _, s := range shifts {
			if s.ID == id {
				merged = &admin.ShiftInput{
					Name:                s.Name,
					StartTime:           s.StartTime,
					EndTime:             s.EndTime,
					LateToleranceMinute: s.LateToleranceMinute,
				}
			}
		}
		if merged == nil {
			return errors.NewInputError("id", fmt.Sprintf("no shift with id %d", id))
		}
		flags := cmd.Flags()
		if flags.Changed("name") {
			merged.Name = in.Name
		}
		if flags.Changed("start") {
			merged.StartTime = in.StartTime
		}
		if flags.Changed("end") {
			merged.EndTime = in.EndTime
		}
		if flags.Changed("late-tolerance") {
			merged.LateToleranceMinute = in.LateToleranceMinute
		}

		updated, err := app.Admin.UpdateShift(ctx, id, *merged)
		if err != nil {
			return err
		}
		return app.done(updated, "Updated shift %d", id)
	})

	writeCmd.Flags().StringVar(&in.Name, "name", "", "shift name")
	writeCmd.Flags().StringVar(&in.StartTime, "start", "", "start time (HH:MM)")
	writeCmd.Flags().StringVar(&in.EndTime, "end", "", "end time (HH:MM)")
	writeCmd.Flags().IntVar(&in.LateToleranceMinute, "late-tolerance", admin.DefaultLateTolerance, "minutes a clock-in may be late")
	return writeCmd
}
