package admin

import (
	"context"
	"net/http"

	"github.com/siagacs/siaga-admin/internal/api"
)

// SpotAssignment binds a guard to an attendance spot for a period.
type SpotAssignment struct {
	ID                 int64   `json:"id" yaml:"id"`
	UserID             int64   `json:"user_id" yaml:"user_id"`
	UserName           string  `json:"user_name" yaml:"user_name"`
	AttendanceSpotID   int64   `json:"attendance_spot_id" yaml:"attendance_spot_id"`
	AttendanceSpotName string  `json:"attendance_spot_name" yaml:"attendance_spot_name"`
	ActiveFrom         string  `json:"active_from" yaml:"active_from"`
	ActiveUntil        *string `json:"active_until,omitempty" yaml:"active_until,omitempty"`
}

// NewSpotAssignment is the create payload.
type NewSpotAssignment struct {
	UserID           int64  `json:"user_id" validate:"gt=0"`
	AttendanceSpotID int64  `json:"attendance_spot_id" validate:"gt=0"`
	ActiveFrom       string `json:"active_from" validate:"required,datetime=2006-01-02"`
}

// SpotAssignmentUpdate is the edit payload. A nil ActiveUntil is sent as
// null, leaving the assignment open-ended.
type SpotAssignmentUpdate struct {
	AttendanceSpotID int64   `json:"attendance_spot_id" validate:"gt=0"`
	ActiveFrom       string  `json:"active_from" validate:"required,datetime=2006-01-02"`
	ActiveUntil      *string `json:"active_until" validate:"omitnil,datetime=2006-01-02"`
}

// ListSpotAssignments returns the assignments active on date, or all when
// date is empty.
func (c *Client) ListSpotAssignments(ctx context.Context, date string) ([]SpotAssignment, error) {
	return api.GetList[SpotAssignment](ctx, c.api, pathUserSpots, dateQuery(date))
}

// CreateSpotAssignment assigns a guard to a spot.
func (c *Client) CreateSpotAssignment(ctx context.Context, in NewSpotAssignment) (*SpotAssignment, error) {
	return create[SpotAssignment](ctx, c, pathUserSpots, in)
}

// UpdateSpotAssignment edits an assignment.
func (c *Client) UpdateSpotAssignment(ctx context.Context, id int64, in SpotAssignmentUpdate) (*SpotAssignment, error) {
	return update[SpotAssignment](ctx, c, http.MethodPatch, itemPath(pathUserSpots, id), in)
}

// DeleteSpotAssignment removes an assignment.
func (c *Client) DeleteSpotAssignment(ctx context.Context, id int64) error {
	return remove(ctx, c, itemPath(pathUserSpots, id))
}
