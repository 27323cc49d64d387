package cmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/siagacs/siaga-admin/internal/admin"
	"github.com/siagacs/siaga-admin/internal/authz"
	"github.com/siagacs/siaga-admin/internal/errors"
	"github.com/siagacs/siaga-admin/internal/tui"
	"github.com/siagacs/siaga-admin/internal/ux"
)

func newAdminsCmd() *cobra.Command {
	adminsCmd := &cobra.Command{
		Use:     "admins",
		Aliases: []string{"admin"},
		Short:   "Manage administrator accounts and their permissions",
		Long: `Permission codes have the form <FEATURE>_VIEW or <FEATURE>_MANAGE, for
example SATPAM_VIEW. MANAGE implies VIEW.

Examples:
  siaga-admin admins list
  siaga-admin admins permissions
  siaga-admin admins create --name Rina --email rina@siaga.id --permission SATPAM_MANAGE --permission DASHBOARD_VIEW
  siaga-admin admins reset-password 4`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	adminsCmd.AddCommand(
		newAdminsListCmd(),
		newAdminsPermissionsCmd(),
		newAdminsCreateCmd(),
		newAdminsUpdateCmd(),
		newAdminsResetPasswordCmd(),
		newDeleteCmd("administrator", authz.FeatureAdmin, func(ctx context.Context, app *App, id int64) error {
			return app.Admin.DeleteAdmin(ctx, id)
		}),
	)
	return adminsCmd
}

func newAdminsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List administrators",
		Args:  cobra.NoArgs,
		RunE: withView(authz.FeatureAdmin, func(cmd *cobra.Command, app *App, args []string) error {
			dir, err := app.Admin.LoadAdminDirectory(cmd.Context())
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(dir.Admins))
			for _, a := range dir.Admins {
				perms := "-"
				if len(a.Permissions) > 0 {
					perms = strings.Join(a.Permissions, ", ")
				}
				rows = append(rows, []string{strconv.FormatInt(a.ID, 10), a.Name, a.Email, perms})
			}
			return app.print(ux.Table{Data: dir, Header: []string{"ID", "NAME", "EMAIL", "PERMISSIONS"}, Body: rows})
		}),
	}
}

func newAdminsPermissionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "permissions",
		Short: "List the permission codes the backend offers",
		Args:  cobra.NoArgs,
		RunE: withView(authz.FeatureAdmin, func(cmd *cobra.Command, app *App, args []string) error {
			perms, err := app.Admin.ListPermissions(cmd.Context())
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(perms))
			for _, p := range perms {
				rows = append(rows, []string{p.Code, p.Label})
			}
			return app.print(ux.Table{Data: perms, Header: []string{"CODE", "LABEL"}, Body: rows})
		}),
	}
}

// choosePermissions offers the backend's permission list as a multi-select.
func choosePermissions(ctx context.Context, app *App, selected []string) ([]string, error) {
	perms, err := app.Admin.ListPermissions(ctx)
	if err != nil {
		return nil, err
	}
	choices := make([]tui.Choice, 0, len(perms))
	for _, p := range perms {
		choices = append(choices, tui.Choice{Value: p.Code, Label: fmt.Sprintf("%s (%s)", p.Label, p.Code)})
	}
	return tui.PromptForMultiSelect("Permissions", choices, selected)
}

func normalizeCodes(codes []string) []string {
	out := make([]string, 0, len(codes))
	for _, c := range codes {
		if c = strings.ToUpper(strings.TrimSpace(c)); c != "" {
			out = append(out, c)
		}
	}
	return out
}

func newAdminsCreateCmd() *cobra.Command {
	var in admin.NewAdmin

	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create an administrator",
		Long: `Create an administrator. Without --permission the permissions are chosen
interactively when a terminal is attached; otherwise the account gets none.`,
		Args: cobra.NoArgs,
		RunE: withManage(authz.FeatureAdmin, func(cmd *cobra.Command, app *App, args []string) error {
			ctx := cmd.Context()
			var err error
			if in.Password, err = value(in.Password, "password", true); err != nil {
				return err
			}
			in.Permissions = normalizeCodes(in.Permissions)
			if len(in.Permissions) == 0 && tui.ShouldPrompt() {
				if in.Permissions, err = choosePermissions(ctx, app, nil); err != nil {
					return err
				}
			}

			created, err := app.Admin.CreateAdmin(ctx, in)
			if err != nil {
				return err
			}
			return app.done(created, "Created administrator %d (%s)", created.ID, created.Email)
		}),
	}

	createCmd.Flags().StringVar(&in.Name, "name", "", "full name")
	createCmd.Flags().StringVar(&in.Email, "email", "", "login e-mail")
	createCmd.Flags().StringVar(&in.Password, "password", "", "initial password (prompted when omitted)")
	createCmd.Flags().StringSliceVar(&in.Permissions, "permission", nil, "permission code, repeatable")
	return createCmd
}

func newAdminsUpdateCmd() *cobra.Command {
	var (
		in   admin.AdminUpdate
		pick bool
	)

	updateCmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change an administrator's details or permissions",
		Long: `Omitted values keep their current value. --permission replaces the whole
permission list; pass --permission "" to remove every permission.`,
		Args: cobra.ExactArgs(1),
		RunE: withManage(authz.FeatureAdmin, func(cmd *cobra.Command, app *App, args []string) error {
			id, err := parseID(args[0], "id")
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			admins, err := app.Admin.ListAdmins(ctx)
			if err != nil {
				return err
			}
			var current *admin.AdminAccount
			for i := range admins {
				if admins[i].ID == id {
					current = &admins[i]
				}
			}
			if current == nil {
				return errors.NewInputError("id", fmt.Sprintf("no administrator with id %d", id))
			}

			merged := admin.AdminUpdate{Name: current.Name, Email: current.Email, Permissions: current.Permissions}
			flags := cmd.Flags()
			if flags.Changed("name") {
				merged.Name = in.Name
			}
			if flags.Changed("email") {
				merged.Email = in.Email
			}
			switch {
			case flags.Changed("permission"):
				merged.Permissions = normalizeCodes(in.Permissions)
			case pick:
				if merged.Permissions, err = choosePermissions(ctx, app, current.Permissions); err != nil {
					return err
				}
			}

			updated, err := app.Admin.UpdateAdmin(ctx, id, merged)
			if err != nil {
				return err
			}
			if self := app.Session.User(); self != nil && self.ID == id {
				app.info("You changed your own account; permissions apply from the next command.")
			}
			return app.done(updated, "Updated administrator %d", id)
		}),
	}

	updateCmd.Flags().StringVar(&in.Name, "name", "", "full name")
	updateCmd.Flags().StringVar(&in.Email, "email", "", "login e-mail")
	updateCmd.Flags().StringSliceVar(&in.Permissions, "permission", nil, "permission code, repeatable; replaces the list")
	updateCmd.Flags().BoolVar(&pick, "pick", false, "choose permissions interactively")
	return updateCmd
}

func newAdminsResetPasswordCmd() *cobra.Command {
	var password string

	resetCmd := &cobra.Command{
		Use:   "reset-password <id>",
		Short: "Set a new password for an administrator",
		Args:  cobra.ExactArgs(1),
		RunE: withManage(authz.FeatureAdmin, func(cmd *cobra.Command, app *App, args []string) error {
			id, err := parseID(args[0], "id")
			if err != nil {
				return err
			}
			if password, err = value(password, "password", true); err != nil {
				return err
			}
			if err := app.Admin.ResetAdminPassword(cmd.Context(), id, password); err != nil {
				return err
			}
			app.info("Password of administrator %d changed", id)
			return nil
		}),
	}

	resetCmd.Flags().StringVar(&password, "password", "", "new password (prompted when omitted)")
	return resetCmd
}
