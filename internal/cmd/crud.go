package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/siagacs/siaga-admin/internal/authz"
)

// newDeleteCmd builds the confirm-then-delete command shared by every
// resource group.
func newDeleteCmd(noun string, feature authz.Feature, del func(ctx context.Context, app *App, id int64) error) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: fmt.Sprintf("Delete a %s", noun),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "id")
			if err != nil {
				return err
			}
			app, err := loadApp(cmd)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if err := app.require(ctx, authz.Manage(feature)); err != nil {
				return err
			}
			if err := app.confirm(fmt.Sprintf("Delete %s %d", noun, id)); err != nil {
				return err
			}
			if err := del(ctx, app, id); err != nil {
				return err
			}
			app.info("Deleted %s %d", noun, id)
			return nil
		},
	}
}

// withManage loads the app and checks MANAGE on feature before run.
func withManage(feature authz.Feature, run func(cmd *cobra.Command, app *App, args []string) error) func(*cobra.Command, []string) error {
	return withPermission(authz.Manage(feature), run)
}

// withView loads the app and checks VIEW on feature before run.
func withView(feature authz.Feature, run func(cmd *cobra.Command, app *App, args []string) error) func(*cobra.Command, []string) error {
	return withPermission(authz.View(feature), run)
}

func withPermission(p authz.Permission, run func(cmd *cobra.Command, app *App, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		app, err := loadApp(cmd)
		if err != nil {
			return err
		}
		if err := app.require(cmd.Context(), p); err != nil {
			return err
		}
		return run(cmd, app, args)
	}
}
