package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/siagacs/siaga-admin/internal/admin"
	"github.com/siagacs/siaga-admin/internal/authz"
	"github.com/siagacs/siaga-admin/internal/errors"
	"github.com/siagacs/siaga-admin/internal/ux"
)

func newSatpamCmd() *cobra.Command {
	satpamCmd := &cobra.Command{
		Use:     "satpam",
		Aliases: []string{"staff"},
		Short:   "Manage security staff accounts",
		Long: `Manage security staff (satpam) accounts, their spreadsheet import and
export, and face enrollment.

Listing needs SATPAM_VIEW; every change needs SATPAM_MANAGE.

Examples:
  siaga-admin satpam list --search budi
  siaga-admin satpam create --name "Budi" --email budi@siaga.id --password secret
  siaga-admin satpam deactivate 12
  siaga-admin satpam import staff.xlsx
  siaga-admin satpam face enroll 12 front.jpg left.jpg right.jpg`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	satpamCmd.AddCommand(
		newSatpamListCmd(),
		newSatpamCreateCmd(),
		newSatpamUpdateCmd(),
		newSatpamStatusCmd("activate", true),
		newSatpamStatusCmd("deactivate", false),
		newDeleteCmd("satpam", authz.FeatureSatpam, func(ctx context.Context, app *App, id int64) error {
			return app.Admin.DeleteSatpam(ctx, id)
		}),
		newSatpamExportCmd(),
		newTemplateCmd(admin.DatasetSatpam, authz.FeatureSatpam),
		newImportCmd(admin.DatasetSatpam, authz.FeatureSatpam),
		newFaceCmd(),
	)
	return satpamCmd
}

func satpamTable(data interface{}, items []admin.Satpam) ux.Table {
	rows := make([][]string, 0, len(items))
	for _, s := range items {
		status := "inactive"
		if s.IsActive {
			status = "active"
		}
		rows = append(rows, []string{strconv.FormatInt(s.ID, 10), s.Name, s.Email, deref(s.WorkStartDate), status})
	}
	return ux.Table{Data: data, Header: []string{"ID", "NAME", "EMAIL", "WORK START", "STATUS"}, Body: rows}
}

func newSatpamListCmd() *cobra.Command {
	var (
		search   string
		page     int
		pageSize int
		all      bool
	)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List security staff",
		Long: `List security staff. --search filters by name or e-mail, case-insensitively.
Results are paged on the client; use --all to print everything.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp(cmd)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if err := app.require(ctx, authz.View(authz.FeatureSatpam)); err != nil {
				return err
			}

			items, err := app.Admin.ListSatpam(ctx)
			if err != nil {
				return err
			}
			items = admin.SearchSatpam(items, search)

			if all {
				return app.print(satpamTable(items, items))
			}
			if pageSize <= 0 {
				pageSize = app.Config.Defaults.PageSize
			}
			p := admin.Paginate(items, page, pageSize)
			if err := app.print(satpamTable(p, p.Items)); err != nil {
				return err
			}
			if p.Total > 0 {
				app.info("Showing %d-%d of %d (page %d/%d)", p.Start, p.End, p.Total, p.Page, p.MaxPage)
			}
			return nil
		},
	}

	listCmd.Flags().StringVarP(&search, "search", "s", "", "filter by name or e-mail")
	listCmd.Flags().IntVar(&page, "page", 1, "page number")
	listCmd.Flags().IntVar(&pageSize, "page-size", 0, "rows per page (default from config)")
	listCmd.Flags().BoolVar(&all, "all", false, "print every row without paging")
	return listCmd
}

func newSatpamCreateCmd() *cobra.Command {
	var in admin.NewSatpam

	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a security staff account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp(cmd)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if err := app.require(ctx, authz.Manage(authz.FeatureSatpam)); err != nil {
				return err
			}

			if in.Password, err = value(in.Password, "password", true); err != nil {
				return err
			}
			created, err := app.Admin.CreateSatpam(ctx, in)
			if err != nil {
				return err
			}
			return app.done(created, "Created satpam %d (%s)", created.ID, created.Name)
		},
	}

	createCmd.Flags().StringVar(&in.Name, "name", "", "full name")
	createCmd.Flags().StringVar(&in.Email, "email", "", "login e-mail")
	createCmd.Flags().StringVar(&in.Password, "password", "", "initial password (prompted when omitted)")
	createCmd.Flags().StringVar(&in.WorkStartDate, "work-start-date", "", "first working day (YYYY-MM-DD)")
	return createCmd
}

func newSatpamUpdateCmd() *cobra.Command {
	var in admin.SatpamUpdate

	updateCmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change a security staff account",
		Long:  `Change name, e-mail or work start date. Omitted values keep their current value.`,
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
			if err := app.require(ctx, authz.Manage(authz.FeatureSatpam)); err != nil {
				return err
			}

			items, err := app.Admin.ListSatpam(ctx)
			if err != nil {
				return err
			}
			current, ok := findSatpam(items, id)
			if !ok {
				return errors.NewInputError("id", fmt.Sprintf("no satpam with id %d", id))
			}
			if in.Name == "" {
				in.Name = current.Name
			}
			if in.Email == "" {
				in.Email = current.Email
			}
			if in.WorkStartDate == "" && current.WorkStartDate != nil {
				in.WorkStartDate = *current.WorkStartDate
			}

			updated, err := app.Admin.UpdateSatpam(ctx, id, in)
			if err != nil {
				return err
			}
			return app.done(updated, "Updated satpam %d", id)
		},
	}

	updateCmd.Flags().StringVar(&in.Name, "name", "", "full name")
	updateCmd.Flags().StringVar(&in.Email, "email", "", "login e-mail")
	updateCmd.Flags().StringVar(&in.WorkStartDate, "work-start-date", "", "first working day (YYYY-MM-DD)")
	return updateCmd
}

func findSatpam(items []admin.Satpam, id int64) (admin.Satpam, bool) {
	for _, s := range items {
		if s.ID == id {
			return s, true
		}
	}
	return admin.Satpam{}, false
}

func newSatpamStatusCmd(name string, active bool) *cobra.Command {
	return &cobra.Command{
		Use:   name + " <id>",
		Short: fmt.Sprintf("Mark a security staff account as %sd", name),
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
			if err := app.require(ctx, authz.Manage(authz.FeatureSatpam)); err != nil {
				return err
			}

			status, err := app.Admin.SetSatpamActive(ctx, id, active)
			if err != nil {
				return err
			}
			return app.done(status, "Satpam %d %sd", id, name)
		},
	}
}

func newSatpamExportCmd() *cobra.Command {
	var out string

	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Download all security staff as a spreadsheet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp(cmd)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if err := app.require(ctx, authz.View(authz.FeatureSatpam)); err != nil {
				return err
			}
			file, err := app.Admin.ExportSatpam(ctx)
			if err != nil {
				return err
			}
			return app.save(file, out)
		},
	}

	exportCmd.Flags().StringVar(&out, "out", "", "file or directory to write (default: server file name in the working directory)")
	return exportCmd
}

func newTemplateCmd(dataset admin.Dataset, feature authz.Feature) *cobra.Command {
	var out string

	templateCmd := &cobra.Command{
		Use:   "template",
		Short: fmt.Sprintf("Download the %s import template", dataset),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp(cmd)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if err := app.require(ctx, authz.Manage(feature)); err != nil {
				return err
			}
			file, err := app.Admin.ImportTemplate(ctx, dataset)
			if err != nil {
				return err
			}
			return app.save(file, out)
		},
	}

	templateCmd.Flags().StringVar(&out, "out", "", "file or directory to write")
	return templateCmd
}

func newImportCmd(dataset admin.Dataset, feature authz.Feature) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: fmt.Sprintf("Import %s from a spreadsheet", dataset),
		Long: fmt.Sprintf(`Upload a filled-in template. Run '%s template' for the expected columns.`,
			dataset),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if err := ux.ValidateRequiredFile(path, "import file"); err != nil {
				return errors.NewFileNotFoundError(path)
			}
			app, err := loadApp(cmd)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if err := app.require(ctx, authz.Manage(feature)); err != nil {
				return err
			}

			f, err := os.Open(path)
			if err != nil {
				return errors.Wrap(errors.ErrCodeFileReadFailed, "failed to open import file", err)
			}
			defer f.Close()

			res, err := app.Admin.Import(ctx, dataset, filepath.Base(path), f)
			if err != nil {
				return err
			}
			return app.done(res, "Imported %d %s rows", res.InsertedCount, dataset)
		},
	}
}
