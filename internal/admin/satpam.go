package admin

import (
	"context"
	"net/http"
	"strings"

	"github.com/siagacs/siaga-admin/internal/api"
)

// Satpam is a security guard account.
type Satpam struct {
	ID            int64   `json:"id" yaml:"id"`
	Email         string  `json:"email" yaml:"email"`
	Name          string  `json:"name" yaml:"name"`
	WorkStartDate *string `json:"work_start_date,omitempty" yaml:"work_start_date,omitempty"`
	IsActive      bool    `json:"is_active" yaml:"is_active"`
}

// NewSatpam is the create payload.
type NewSatpam struct {
	Name          string `json:"name" validate:"notblank"`
	Email         string `json:"email" validate:"required,email"`
	Password      string `json:"password" validate:"required"`
	WorkStartDate string `json:"work_start_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

// SatpamUpdate is the edit payload.
type SatpamUpdate struct {
	Name          string `json:"name" validate:"notblank"`
	Email         string `json:"email" validate:"required,email"`
	WorkStartDate string `json:"work_start_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

// SatpamStatus is returned when toggling an account.
type SatpamStatus struct {
	ID       int64 `json:"id" yaml:"id"`
	IsActive bool  `json:"is_active" yaml:"is_active"`
}

// ListSatpam returns every guard account.
func (c *Client) ListSatpam(ctx context.Context) ([]Satpam, error) {
	return api.GetList[Satpam](ctx, c.api, pathSatpam, nil)
}

// CreateSatpam registers a guard account.
func (c *Client) CreateSatpam(ctx context.Context, in NewSatpam) (*Satpam, error) {
	return create[Satpam](ctx, c, pathSatpam, in)
}

// UpdateSatpam edits a guard account.
func (c *Client) UpdateSatpam(ctx context.Context, id int64, in SatpamUpdate) (*Satpam, error) {
	return update[Satpam](ctx, c, http.MethodPatch, itemPath(pathSatpam, id), in)
}

// SetSatpamActive enables or disables a guard account.
func (c *Client) SetSatpamActive(ctx context.Context, id int64, active bool) (*SatpamStatus, error) {
	payload := struct {
		IsActive bool `json:"is_active"`
	}{active}
	return api.Send[SatpamStatus](ctx, c.api, http.MethodPatch, itemPath(pathSatpam, id, "status"), payload)
}

// DeleteSatpam removes a guard account.
func (c *Client) DeleteSatpam(ctx context.Context, id int64) error {
	return remove(ctx, c, itemPath(pathSatpam, id))
}

// SearchSatpam keeps the accounts whose name or e-mail contains query,
// ignoring case. An empty query keeps everything.
func SearchSatpam(items []Satpam, query string) []Satpam {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return items
	}
	out := make([]Satpam, 0, len(items))
	for _, s := range items {
		if strings.Contains(strings.ToLower(s.Name), q) || strings.Contains(strings.ToLower(s.Email), q) {
			out = append(out, s)
		}
	}
	return out
}
