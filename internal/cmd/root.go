package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

// NewRootCommand builds the full command tree.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "siaga-admin",
		Short: "Administer the SIAGA CS attendance system",
		Long: `siaga-admin is the administrator console for the SIAGA CS attendance backend.

It signs in with an administrator account, keeps the session token encrypted
under the home directory, and exposes the dashboard features as commands:
security staff (satpam), attendance spots, shifts, schedules, spot
assignments, shift swap requests, attendance monitoring, administrator
accounts and the monthly dashboard.

Every command checks the stored session against the backend first and only
runs when the signed-in account holds the matching VIEW or MANAGE permission.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.String("home", "", "configuration directory (default $SIAGA_HOME or ~/.siaga-admin)")
	flags.String("base-url", "", "backend base URL (overrides config and $SIAGA_API_BASE_URL)")
	flags.StringP("format", "o", "text", "output format: text, json or yaml")
	flags.Bool("no-color", false, "disable colored output")
	flags.String("log-level", "", "log level: debug, info, warn or error")
	flags.BoolP("verbose", "v", false, "log requests at debug level")
	flags.BoolP("quiet", "q", false, "suppress informational messages")
	flags.BoolP("yes", "y", false, "answer yes to confirmations")

	root.AddCommand(
		newAuthCmd(),
		newSatpamCmd(),
		newSpotsCmd(),
		newShiftsCmd(),
		newScheduleCmd(),
		newAssignmentsCmd(),
		newSwapsCmd(),
		newAttendanceCmd(),
		newAdminsCmd(),
		newDashboardCmd(),
		newDoctorCmd(),
		newConfigCmd(),
		newVersionCmd(),
	)
	return root
}

// Execute runs the root command
func Execute() error {
	return ExecuteContext(context.Background())
}

// ExecuteContext runs the root command with ctx, which is cancelled on
// interrupt by the caller.
func ExecuteContext(ctx context.Context) error {
	return execute(ctx, NewRootCommand())
}
