package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/siagacs/siaga-admin/internal/admin"
	"github.com/siagacs/siaga-admin/internal/authz"
	"github.com/siagacs/siaga-admin/internal/errors"
)

// maxConcurrentEncodes bounds photo decoding during enrollment.
const maxConcurrentEncodes = 4

func newFaceCmd() *cobra.Command {
	faceCmd := &cobra.Command{
		Use:   "face",
		Short: "Inspect or replace face enrollment data",
		Long: `Face enrollment photos are used by the mobile app to verify clock-ins.
All face commands need SATPAM_MANAGE.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	faceCmd.AddCommand(newFaceStatusCmd(), newFaceEnrollCmd(), newFaceDeleteCmd())
	return faceCmd
}

func (a *App) printFaceStatus(s *admin.FaceEnrollStatus) error {
	if !a.text() {
		return a.print(s)
	}
	if !s.Enrolled {
		a.info("User %d has no face enrollment", s.UserID)
		return nil
	}
	a.info("User %d enrolled with %d photo(s), model %s, updated %s", s.UserID, s.Count, deref(s.Model), deref(s.UpdatedAt))
	return nil
}

func newFaceStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status <user-id>",
		Short: "Show face enrollment status",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "user-id")
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
			status, err := app.Admin.FaceEnrollment(ctx, id)
			if err != nil {
				return err
			}
			return app.printFaceStatus(status)
		},
	}
}

// encodePhotos reads and encodes every photo, keeping the argument order.
func encodePhotos(ctx context.Context, paths []string, maxDim int) ([]string, error) {
	images := make([]string, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentEncodes)
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			data, err := os.ReadFile(path)
			if err != nil {
				if os.IsNotExist(err) {
					return errors.NewFileNotFoundError(path)
				}
				return errors.Wrap(errors.ErrCodeFileReadFailed, "failed to read photo", err)
			}
			encoded, err := admin.EncodePhoto(filepath.Base(path), data, maxDim)
			if err != nil {
				return err
			}
			images[i] = encoded
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return images, nil
}

func newFaceEnrollCmd() *cobra.Command {
	var maxDim int

	enrollCmd := &cobra.Command{
		Use:   "enroll <user-id> <photo>...",
		Short: "Upload face photos for a guard",
		Long: `Upload one or more face photos. Files are checked to be images by content and
photos larger than --max-dimension pixels are scaled down before upload.
Existing enrollment data is replaced.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "user-id")
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

			images, err := encodePhotos(ctx, args[1:], maxDim)
			if err != nil {
				return err
			}
			if err := app.Admin.EnrollFace(ctx, id, images); err != nil {
				return err
			}
			app.info("Enrolled %d photo(s) for user %d", len(images), id)

			status, err := app.Admin.FaceEnrollment(ctx, id)
			if err != nil {
				app.Logger.WithError(err).Warn("could not refresh enrollment status")
				return nil
			}
			if app.text() {
				return nil
			}
			return app.print(status)
		},
	}

	enrollCmd.Flags().IntVar(&maxDim, "max-dimension", admin.DefaultMaxPhotoDimension,
		fmt.Sprintf("longest photo side in pixels before scaling (0 keeps originals, default %d)", admin.DefaultMaxPhotoDimension))
	return enrollCmd
}

func newFaceDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <user-id>",
		Short: "Remove face enrollment data",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "user-id")
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
			if err := app.confirm(fmt.Sprintf("Delete face data of user %d", id)); err != nil {
				return err
			}
			status, err := app.Admin.DeleteFaceEnrollment(ctx, id)
			if err != nil {
				return err
			}
			return app.done(status, "Deleted face data of user %d", id)
		},
	}
}
