package admin

import (
	"context"
	"net/http"

	"github.com/siagacs/siaga-admin/internal/api"
)

// AttendanceSpot is a geofenced place where guards clock in.
type AttendanceSpot struct {
	ID           int64   `json:"id" yaml:"id"`
	Name         string  `json:"name" yaml:"name"`
	Latitude     float64 `json:"latitude" yaml:"latitude"`
	Longitude    float64 `json:"longitude" yaml:"longitude"`
	RadiusMeters float64 `json:"radius_meters" yaml:"radius_meters"`
}

// SpotInput is the create and edit payload. The backend reads the radius
// as radius_meter on input and reports radius_meters.
type SpotInput struct {
	Name        string  `json:"name" validate:"notblank"`
	Latitude    float64 `json:"latitude" validate:"latitude"`
	Longitude   float64 `json:"longitude" validate:"longitude"`
	RadiusMeter float64 `json:"radius_meter" validate:"gt=0"`
}

// ListSpots returns every attendance spot.
func (c *Client) ListSpots(ctx context.Context) ([]AttendanceSpot, error) {
	return api.GetList[AttendanceSpot](ctx, c.api, pathSpots, nil)
}

// CreateSpot adds an attendance spot.
func (c *Client) CreateSpot(ctx context.Context, in SpotInput) (*AttendanceSpot, error) {
	return create[AttendanceSpot](ctx, c, pathSpots, in)
}

// UpdateSpot edits an attendance spot.
func (c *Client) UpdateSpot(ctx context.Context, id int64, in SpotInput) (*AttendanceSpot, error) {
	return update[AttendanceSpot](ctx, c, http.MethodPatch, itemPath(pathSpots, id), in)
}

// DeleteSpot removes an attendance spot.
func (c *Client) DeleteSpot(ctx context.Context, id int64) error {
	return remove(ctx, c, itemPath(pathSpots, id))
}
