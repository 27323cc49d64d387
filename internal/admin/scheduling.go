package admin

import (
	"context"
	"net/http"

	"github.com/siagacs/siaga-admin/internal/api"
)

// UserShift assigns a guard to a shift on a date.
type UserShift struct {
	ID        int64  `json:"id" yaml:"id"`
	UserID    int64  `json:"user_id" yaml:"user_id"`
	UserName  string `json:"user_name" yaml:"user_name"`
	ShiftID   int64  `json:"shift_id" yaml:"shift_id"`
	ShiftName string `json:"shift_name" yaml:"shift_name"`
	ShiftDate string `json:"shift_date" yaml:"shift_date"`
}

// NewUserShift is the create payload.
type NewUserShift struct {
	UserID    int64  `json:"user_id" validate:"gt=0"`
	ShiftID   int64  `json:"shift_id" validate:"gt=0"`
	ShiftDate string `json:"shift_date" validate:"required,datetime=2006-01-02"`
}

// UserShiftUpdate moves an assignment to another shift or date.
type UserShiftUpdate struct {
	ShiftID   int64  `json:"shift_id" validate:"gt=0"`
	ShiftDate string `json:"shift_date" validate:"required,datetime=2006-01-02"`
}

// ListUserShifts returns the schedule, filtered by date when date is set.
func (c *Client) ListUserShifts(ctx context.Context, date string) ([]UserShift, error) {
	return api.GetList[UserShift](ctx, c.api, pathUserShifts, dateQuery(date))
}

// CreateUserShift schedules a guard.
func (c *Client) CreateUserShift(ctx context.Context, in NewUserShift) (*UserShift, error) {
	return create[UserShift](ctx, c, pathUserShifts, in)
}

// UpdateUserShift edits a schedule entry.
func (c *Client) UpdateUserShift(ctx context.Context, id int64, in UserShiftUpdate) (*UserShift, error) {
	return update[UserShift](ctx, c, http.MethodPatch, itemPath(pathUserShifts, id), in)
}

// DeleteUserShift removes a schedule entry.
func (c *Client) DeleteUserShift(ctx context.Context, id int64) error {
	return remove(ctx, c, itemPath(pathUserShifts, id))
}
