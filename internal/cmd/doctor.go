package cmd

import (
	"context"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/siagacs/siaga-admin/internal/config"
	"github.com/siagacs/siaga-admin/internal/errors"
	"github.com/siagacs/siaga-admin/internal/health"
	"github.com/siagacs/siaga-admin/internal/ux"
)

func newDoctorCmd() *cobra.Command {
	var timeout time.Duration

	doctorCmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check configuration, stored session and backend reachability",
		Long: `Run diagnostics against the local configuration, the stored session
token and the backend. A token the backend rejects is cleared, exactly as
any other command would clear it.

Exits non-zero only when a check is unhealthy.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp(cmd)
			if err != nil {
				return err
			}

			manager := health.NewManager(timeout,
				health.NewCheck("config", func(ctx context.Context) *health.Result {
					path := config.Path(app.Home)
					if _, err := os.Stat(path); err != nil {
						return health.Healthy("no config file, using defaults").
							WithHint("Run 'siaga-admin config set <key> <value>' to create one")
					}
					return health.Healthy(path + " is valid")
				}),
				health.NewCheck("credentials", func(ctx context.Context) *health.Result {
					token, ok := app.Session.Token()
					return health.TokenResult(token, ok, time.Now())
				}),
				health.NewCheck("backend", func(ctx context.Context) *health.Result {
					user, err := app.Admin.Me(ctx)
					return health.BackendResult(app.Config.BaseURL(), user, err)
				}),
			)

			reports := manager.Run(cmd.Context())
			overall := health.Overall(reports)
			app.Logger.Debug("doctor finished", "status", overall.String())

			if err := app.print(doctorTable(reports)); err != nil {
				return err
			}
			if overall == health.StatusUnhealthy {
				return errors.New(errors.ErrCodeUnreachable, "one or more checks are unhealthy").
					WithSuggestion("Follow the hints in the table above")
			}
			return nil
		},
	}

	doctorCmd.Flags().DurationVar(&timeout, "timeout", health.DefaultTimeout, "time limit for each check")
	return doctorCmd
}

func doctorTable(reports []health.Report) ux.Table {
	t := ux.Table{Data: reports, Header: []string{"CHECK", "STATUS", "MESSAGE", "HINT"}}
	for _, r := range reports {
		t.Body = append(t.Body, []string{r.Name, r.Status.String(), r.Message, r.Hint})
	}
	return t
}
