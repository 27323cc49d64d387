// Package admin wraps the SIAGA CS admin endpoints in typed calls.
//
// Every call goes through api.Client, so the envelope contract and the
// session teardown on 401/403 apply uniformly. Payloads are validated
// locally before anything is sent.
package admin

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/siagacs/siaga-admin/internal/api"
)

// Endpoint roots.
const (
	pathLogin          = "/v1/admin/auth/login"
	pathMe             = "/v1/admin/me"
	pathSatpam         = "/v1/admin/satpam"
	pathFaceEnroll     = "/v1/admin/face-enroll"
	pathSpots          = "/v1/admin/attendance-spots"
	pathShifts         = "/v1/admin/shifts"
	pathUserShifts     = "/v1/admin/user-shifts"
	pathUserSpots      = "/v1/admin/user-attendance-spots"
	pathSwapRequests   = "/v1/admin/shift-swap-requests"
	pathAttendance     = "/v1/admin/attendance"
	pathPermissions    = "/v1/admin/permissions"
	pathAdmins         = "/v1/admin/admins"
	pathDashboard      = "/v1/admin/dashboard"
	pathExport         = "/v1/admin/export"
	pathImport         = "/v1/admin/import"
	pathImportTemplate = "/v1/admin/import-templates"
)

// Client exposes the admin endpoints.
type Client struct {
	api *api.Client
}

// New creates an admin client on top of c.
func New(c *api.Client) *Client {
	return &Client{api: c}
}

// API returns the underlying access layer.
func (c *Client) API() *api.Client {
	return c.api
}

func itemPath(root string, id int64, suffix ...string) string {
	p := root + "/" + strconv.FormatInt(id, 10)
	for _, s := range suffix {
		p += "/" + s
	}
	return p
}

func dateQuery(date string) url.Values {
	if date == "" {
		return nil
	}
	return url.Values{"date": {date}}
}

// create validates payload and POSTs it to path.
func create[T any](ctx context.Context, c *Client, path string, payload any) (*T, error) {
	if err := Validate(payload); err != nil {
		return nil, err
	}
	return api.Send[T](ctx, c.api, http.MethodPost, path, payload)
}

func update[T any](ctx context.Context, c *Client, method, path string, payload any) (*T, error) {
	if err := Validate(payload); err != nil {
		return nil, err
	}
	return api.Send[T](ctx, c.api, method, path, payload)
}

func remove(ctx context.Context, c *Client, path string) error {
	_, err := c.api.Do(ctx, api.Request{Method: http.MethodDelete, Path: path})
	return err
}
