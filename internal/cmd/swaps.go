package cmd

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/siagacs/siaga-admin/internal/admin"
	"github.com/siagacs/siaga-admin/internal/authz"
	"github.com/siagacs/siaga-admin/internal/errors"
	"github.com/siagacs/siaga-admin/internal/ux"
)

func newSwapsCmd() *cobra.Command {
	var status string

	swapsCmd := &cobra.Command{
		Use:     "swaps",
		Aliases: []string{"swap-requests"},
		Short:   "List shift swap requests",
		Long: `Shift swap requests are raised and answered by guards in the mobile app;
administrators can only review them.

Examples:
  siaga-admin swaps
  siaga-admin swaps --status pending`,
		Args: cobra.NoArgs,
		RunE: withView(authz.FeatureShiftSwap, func(cmd *cobra.Command, app *App, args []string) error {
			filter := admin.SwapStatus(strings.ToUpper(strings.TrimSpace(status)))
			switch filter {
			case "", admin.SwapPending, admin.SwapApproved, admin.SwapRejected:
			default:
				return errors.NewInputError("status", "must be pending, approved or rejected")
			}

			items, err := app.Admin.ListSwapRequests(cmd.Context())
			if err != nil {
				return err
			}
			return app.print(swapsTable(admin.FilterSwaps(items, filter)))
		}),
	}

	swapsCmd.Flags().StringVar(&status, "status", "", "only requests in this status (pending, approved, rejected)")
	return swapsCmd
}

func swapsTable(items []admin.ShiftSwapRequest) ux.Table {
	rows := make([][]string, 0, len(items))
	for _, s := range items {
		requester := strconv.FormatInt(s.RequesterUserID, 10)
		if s.RequesterName != nil {
			requester = *s.RequesterName
		}
		target := strconv.FormatInt(s.TargetUserID, 10)
		if s.TargetName != nil {
			target = *s.TargetName
		}
		rows = append(rows, []string{
			strconv.FormatInt(s.ID, 10),
			s.ShiftDate,
			requester,
			target,
			string(s.Status),
			deref(s.Reason),
		})
	}
	return ux.Table{Data: items, Header: []string{"ID", "DATE", "REQUESTER", "TARGET", "STATUS", "REASON"}, Body: rows}
}
