package cmd

import (
	"context"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/siagacs/siaga-admin/internal/admin"
	"github.com/siagacs/siaga-admin/internal/api"
	"github.com/siagacs/siaga-admin/internal/authz"
	"github.com/siagacs/siaga-admin/internal/ux"
)

func newAttendanceCmd() *cobra.Command {
	attendanceCmd := &cobra.Command{
		Use:   "attendance",
		Short: "Monitor clock-ins and close open attendance",
		Long: `Examples:
  siaga-admin attendance list --date 2026-03-01
  siaga-admin attendance open
  siaga-admin attendance force-clock-out 981 --reason "Phone battery died"
  siaga-admin attendance export --from 2026-03-01 --to 2026-03-31`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	attendanceCmd.AddCommand(
		newAttendanceListCmd(),
		newAttendanceOpenCmd(),
		newForceClockOutCmd(),
		newAttendanceExportCmd(),
	)
	return attendanceCmd
}

// attendanceRow is one record with its open marking.
type attendanceRow struct {
	admin.AttendanceItem `yaml:",inline"`
	Open                 bool   `json:"open" yaml:"open"`
	OpenFor              string `json:"open_for,omitempty" yaml:"open_for,omitempty"`
}

func clockInTime(item admin.AttendanceItem) *string {
	if item.ClockInTime != nil {
		return item.ClockInTime
	}
	if item.ClockIn != nil {
		return item.ClockIn.Time
	}
	return nil
}

func clockOutTime(item admin.AttendanceItem) *string {
	if item.ClockOutTime != nil {
		return item.ClockOutTime
	}
	if item.ClockOut != nil {
		return item.ClockOut.Time
	}
	return nil
}

func markOpen(items []admin.AttendanceItem, open map[int64]bool, now time.Time) []attendanceRow {
	rows := make([]attendanceRow, 0, len(items))
	for _, item := range items {
		row := attendanceRow{AttendanceItem: item, Open: open[item.AttendanceID]}
		if row.Open {
			row.OpenFor = admin.OpenDuration(clockInTime(item), now)
		}
		rows = append(rows, row)
	}
	return rows
}

func attendanceTable(rows []attendanceRow) ux.Table {
	body := make([][]string, 0, len(rows))
	for _, r := range rows {
		openFor := ""
		if r.Open {
			openFor = "open " + r.OpenFor
		}
		body = append(body, []string{
			strconv.FormatInt(r.AttendanceID, 10),
			r.User.Name,
			r.Shift.Name,
			deref(clockInTime(r.AttendanceItem)),
			deref(clockOutTime(r.AttendanceItem)),
			deref(r.Status),
			yesNo(r.FaceVerified),
			openFor,
		})
	}
	return ux.Table{
		Data:   rows,
		Header: []string{"ID", "GUARD", "SHIFT", "CLOCK IN", "CLOCK OUT", "STATUS", "FACE OK", "OPEN"},
		Body:   body,
	}
}

func newAttendanceListCmd() *cobra.Command {
	var date string

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List attendance of a day",
		Long:  `List attendance of a day (today by default). Records still clocked in are marked with how long they have been open.`,
		Args:  cobra.NoArgs,
		RunE: withView(authz.FeatureAttendanceMonitoring, func(cmd *cobra.Command, app *App, args []string) error {
			if date == "" {
				date = time.Now().Format(dateLayout)
			}
			if err := checkDate("date", date); err != nil {
				return err
			}

			var items, open []admin.AttendanceItem
			err := api.All(cmd.Context(),
				func(ctx context.Context) (err error) {
					items, err = app.Admin.ListAttendance(ctx, date)
					return err
				},
				func(ctx context.Context) (err error) {
					open, err = app.Admin.ListOpenAttendance(ctx)
					return err
				},
			)
			if err != nil {
				return err
			}
			return app.print(attendanceTable(markOpen(items, admin.OpenIDs(open), time.Now())))
		}),
	}

	listCmd.Flags().StringVar(&date, "date", "", "day to show (YYYY-MM-DD, default today)")
	return listCmd
}

func newAttendanceOpenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "open",
		Short: "List records that were clocked in but never clocked out",
		Args:  cobra.NoArgs,
		RunE: withView(authz.FeatureAttendanceMonitoring, func(cmd *cobra.Command, app *App, args []string) error {
			open, err := app.Admin.ListOpenAttendance(cmd.Context())
			if err != nil {
				return err
			}
			return app.print(attendanceTable(markOpen(open, admin.OpenIDs(open), time.Now())))
		}),
	}
}

func newForceClockOutCmd() *cobra.Command {
	var reason string

	forceCmd := &cobra.Command{
		Use:   "force-clock-out <attendance-id>",
		Short: "Close an open attendance record on a guard's behalf",
		Args:  cobra.ExactArgs(1),
		RunE: withManage(authz.FeatureAttendanceMonitoring, func(cmd *cobra.Command, app *App, args []string) error {
			id, err := parseID(args[0], "attendance-id")
			if err != nil {
				return err
			}
			if reason, err = value(reason, "reason", false); err != nil {
				return err
			}
			if err := app.Admin.ForceClockOut(cmd.Context(), id, reason); err != nil {
				return err
			}
			app.info("Clocked out attendance %d", id)
			return nil
		}),
	}

	forceCmd.Flags().StringVar(&reason, "reason", "", "why the record is closed (required)")
	return forceCmd
}

func newAttendanceExportCmd() *cobra.Command {
	var from, to, out string

	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Download attendance for a date range as a spreadsheet",
		Args:  cobra.NoArgs,
		RunE: withView(authz.FeatureAttendanceMonitoring, func(cmd *cobra.Command, app *App, args []string) error {
			today := time.Now().Format(dateLayout)
			r := admin.DateRange{StartDate: from, EndDate: to}
			if r.StartDate == "" {
				r.StartDate = today
			}
			if r.EndDate == "" {
				r.EndDate = r.StartDate
			}
			file, err := app.Admin.ExportAttendance(cmd.Context(), r)
			if err != nil {
				return err
			}
			return app.save(file, out)
		}),
	}

	exportCmd.Flags().StringVar(&from, "from", "", "first day (YYYY-MM-DD, default today)")
	exportCmd.Flags().StringVar(&to, "to", "", "last day (YYYY-MM-DD, default --from)")
	exportCmd.Flags().StringVar(&out, "out", "", "file or directory to write")
	return exportCmd
}
