package admin

import (
	"context"
	"net/http"

	"github.com/siagacs/siaga-admin/internal/api"
)

// DefaultLateTolerance is the late tolerance, in minutes, offered for new shifts.
const DefaultLateTolerance = 10

// Shift is a named working window.
type Shift struct {
	ID                  int64  `json:"id" yaml:"id"`
	Name                string `json:"name" yaml:"name"`
	StartTime           string `json:"start_time" yaml:"start_time"`
	EndTime             string `json:"end_time" yaml:"end_time"`
	LateToleranceMinute int    `json:"late_tolerance_minute" yaml:"late_tolerance_minute"`
}

// ShiftInput is the create and edit payload. Times are HH:MM.
type ShiftInput struct {
	Name                string `json:"name" validate:"notblank"`
	StartTime           string `json:"start_time" validate:"required,datetime=15:04"`
	EndTime             string `json:"end_time" validate:"required,datetime=15:04"`
	LateToleranceMinute int    `json:"late_tolerance_minute" validate:"gte=0"`
}

// ListShifts returns every shift.
func (c *Client) ListShifts(ctx context.Context) ([]Shift, error) {
	return api.GetList[Shift](ctx, c.api, pathShifts, nil)
}

// CreateShift adds a shift.
func (c *Client) CreateShift(ctx context.Context, in ShiftInput) (*Shift, error) {
	return create[Shift](ctx, c, pathShifts, in)
}

// UpdateShift edits a shift.
func (c *Client) UpdateShift(ctx context.Context, id int64, in ShiftInput) (*Shift, error) {
	return update[Shift](ctx, c, http.MethodPatch, itemPath(pathShifts, id), in)
}

// DeleteShift removes a shift.
func (c *Client) DeleteShift(ctx context.Context, id int64) error {
	return remove(ctx, c, itemPath(pathShifts, id))
}
