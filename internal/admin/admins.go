package admin

import (
	"context"
	"net/http"

	"github.com/siagacs/siaga-admin/internal/api"
)

// PermissionInfo is a grantable permission with its display label.
type PermissionInfo struct {
	Code  string `json:"code" yaml:"code"`
	Label string `json:"label" yaml:"label"`
}

// AdminAccount is a dashboard administrator.
type AdminAccount struct {
	ID          int64    `json:"id" yaml:"id"`
	Name        string   `json:"name" yaml:"name"`
	Email       string   `json:"email" yaml:"email"`
	Permissions []string `json:"permissions" yaml:"permissions"`
}

// NewAdmin is the create payload.
type NewAdmin struct {
	Name        string   `json:"name" validate:"notblank"`
	Email       string   `json:"email" validate:"required,email"`
	Password    string   `json:"password" validate:"required"`
	Permissions []string `json:"permissions" validate:"dive,permission"`
}

// AdminUpdate replaces an administrator's profile and grants.
type AdminUpdate struct {
	Name        string   `json:"name" validate:"notblank"`
	Email       string   `json:"email" validate:"required,email"`
	Permissions []string `json:"permissions" validate:"dive,permission"`
}

type passwordReset struct {
	NewPassword string `json:"new_password" validate:"required"`
}

// AdminDirectory is the admin screen's data: the grantable permissions and
// the current administrators.
type AdminDirectory struct {
	Permissions []PermissionInfo `json:"permissions" yaml:"permissions"`
	Admins      []AdminAccount   `json:"admins" yaml:"admins"`
}

// ListPermissions returns the grantable permissions.
func (c *Client) ListPermissions(ctx context.Context) ([]PermissionInfo, error) {
	return api.GetList[PermissionInfo](ctx, c.api, pathPermissions, nil)
}

// ListAdmins returns every administrator.
func (c *Client) ListAdmins(ctx context.Context) ([]AdminAccount, error) {
	return api.GetList[AdminAccount](ctx, c.api, pathAdmins, nil)
}

// LoadAdminDirectory fetches permissions and administrators together; it
// fails if either request fails.
func (c *Client) LoadAdminDirectory(ctx context.Context) (*AdminDirectory, error) {
	var dir AdminDirectory
	err := api.All(ctx,
		func(ctx context.Context) error {
			perms, err := c.ListPermissions(ctx)
			dir.Permissions = perms
			return err
		},
		func(ctx context.Context) error {
			admins, err := c.ListAdmins(ctx)
			dir.Admins = admins
			return err
		},
	)
	if err != nil {
		return nil, err
	}
	return &dir, nil
}

// CreateAdmin adds an administrator.
func (c *Client) CreateAdmin(ctx context.Context, in NewAdmin) (*AdminAccount, error) {
	if in.Permissions == nil {
		in.Permissions = []string{}
	}
	return create[AdminAccount](ctx, c, pathAdmins, in)
}

// UpdateAdmin replaces an administrator's profile and grants.
func (c *Client) UpdateAdmin(ctx context.Context, id int64, in AdminUpdate) (*AdminAccount, error) {
	if in.Permissions == nil {
		in.Permissions = []string{}
	}
	return update[AdminAccount](ctx, c, http.MethodPut, itemPath(pathAdmins, id), in)
}

// ResetAdminPassword sets a new password for an administrator.
func (c *Client) ResetAdminPassword(ctx context.Context, id int64, password string) error {
	req := passwordReset{NewPassword: password}
	if err := Validate(req); err != nil {
		return err
	}
	return api.Exec(ctx, c.api, http.MethodPost, itemPath(pathAdmins, id, "reset-password"), req)
}

// DeleteAdmin removes an administrator.
func (c *Client) DeleteAdmin(ctx context.Context, id int64) error {
	return remove(ctx, c, itemPath(pathAdmins, id))
}
