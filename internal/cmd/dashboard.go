package cmd

import (
	"bytes"
	"time"

	"github.com/spf13/cobra"

	"github.com/siagacs/siaga-admin/internal/authz"
	"github.com/siagacs/siaga-admin/internal/dashboard"
	"github.com/siagacs/siaga-admin/internal/errors"
)

func newDashboardCmd() *cobra.Command {
	var month string

	dashboardCmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Show the monthly attendance dashboard",
		Long: `Show KPIs, the attendance trend, discipline breakdown, risk ranking and
audit figures for a month (the current month by default).

Examples:
  siaga-admin dashboard
  siaga-admin dashboard --month 2026-02
  siaga-admin dashboard export --month 2026-02`,
		Args: cobra.NoArgs,
		RunE: withView(authz.FeatureDashboard, func(cmd *cobra.Command, app *App, args []string) error {
			if month == "" {
				month = dashboard.CurrentMonth(time.Now())
			}
			d, err := app.Admin.GetDashboard(cmd.Context(), month)
			if err != nil {
				return err
			}
			if !app.text() {
				return app.print(d)
			}
			if app.Flags.NoColor {
				var buf bytes.Buffer
				if err := dashboard.Render(&buf, d, month); err != nil {
					return err
				}
				_, err := app.out.Write(buf.Bytes())
				return err
			}
			return dashboard.Render(app.out, d, month)
		}),
	}
	dashboardCmd.PersistentFlags().StringVar(&month, "month", "", "month to show (YYYY-MM, default current month)")

	dashboardCmd.AddCommand(newDashboardExportCmd(&month))
	return dashboardCmd
}

func newDashboardExportCmd(month *string) *cobra.Command {
	var out string

	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Download the month's attendance as a spreadsheet",
		Long:  `Download attendance from the first to the last day of --month.`,
		Args:  cobra.NoArgs,
		RunE: withView(authz.FeatureDashboard, func(cmd *cobra.Command, app *App, args []string) error {
			m := *month
			if m == "" {
				m = dashboard.CurrentMonth(time.Now())
			}
			r, err := dashboard.MonthRange(m)
			if err != nil {
				return errors.NewInputError("month", err.Error())
			}
			file, err := app.Admin.ExportAttendance(cmd.Context(), r)
			if err != nil {
				return err
			}
			return app.save(file, out)
		}),
	}

	exportCmd.Flags().StringVar(&out, "out", "", "file or directory to write")
	return exportCmd
}
