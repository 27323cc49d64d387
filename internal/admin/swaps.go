package admin

import (
	"context"

	"github.com/siagacs/siaga-admin/internal/api"
)

// SwapStatus is the decision state of a shift swap request.
type SwapStatus string

// Swap request states.
const (
	SwapPending  SwapStatus = "PENDING"
	SwapApproved SwapStatus = "APPROVED"
	SwapRejected SwapStatus = "REJECTED"
)

// ShiftSwapRequest is a guard's request to trade shifts with another guard.
type ShiftSwapRequest struct {
	ID                   int64      `json:"id" yaml:"id"`
	RequesterUserID      int64      `json:"requester_user_id" yaml:"requester_user_id"`
	TargetUserID         int64      `json:"target_user_id" yaml:"target_user_id"`
	RequesterName        *string    `json:"requester_name,omitempty" yaml:"requester_name,omitempty"`
	TargetName           *string    `json:"target_name,omitempty" yaml:"target_name,omitempty"`
	ShiftDate            string     `json:"shift_date" yaml:"shift_date"`
	RequesterUserShiftID int64      `json:"requester_user_shift_id" yaml:"requester_user_shift_id"`
	TargetUserShiftID    int64      `json:"target_user_shift_id" yaml:"target_user_shift_id"`
	Status               SwapStatus `json:"status" yaml:"status"`
	Reason               *string    `json:"reason,omitempty" yaml:"reason,omitempty"`
	Note                 *string    `json:"note,omitempty" yaml:"note,omitempty"`
	DecidedBy            *int64     `json:"decided_by,omitempty" yaml:"decided_by,omitempty"`
	DecidedAt            *string    `json:"decided_at,omitempty" yaml:"decided_at,omitempty"`
	CreatedAt            string     `json:"created_at,omitempty" yaml:"created_at,omitempty"`
	UpdatedAt            string     `json:"updated_at,omitempty" yaml:"updated_at,omitempty"`
}

// ListSwapRequests returns every swap request.
func (c *Client) ListSwapRequests(ctx context.Context) ([]ShiftSwapRequest, error) {
	return api.GetList[ShiftSwapRequest](ctx, c.api, pathSwapRequests, nil)
}

// FilterSwaps keeps the requests in status; an empty status keeps all.
func FilterSwaps(items []ShiftSwapRequest, status SwapStatus) []ShiftSwapRequest {
	if status == "" {
		return items
	}
	out := make([]ShiftSwapRequest, 0, len(items))
	for _, s := range items {
		if s.Status == status {
			out = append(out, s)
		}
	}
	return out
}
