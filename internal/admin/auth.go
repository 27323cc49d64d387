package admin

import (
	"context"
	"fmt"
	"net/http"

	"github.com/siagacs/siaga-admin/internal/api"
	"github.com/siagacs/siaga-admin/internal/session"
)

// Login failure messages.
const (
	MessageLoginFailed      = "Login failed"
	MessageLoginUnavailable = "Unable to login. Please try again."
)

// Credentials is the login form.
type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginUser is the reduced profile returned by the login endpoint.
type LoginUser struct {
	ID    int64  `json:"id" yaml:"id"`
	Email string `json:"email" yaml:"email"`
	Name  string `json:"name" yaml:"name"`
}

// LoginResult is the login response data.
type LoginResult struct {
	AccessToken string    `json:"access_token" yaml:"-"`
	User        LoginUser `json:"user" yaml:"user"`
}

// Login exchanges credentials for a token and stores it in the session.
// The request is sent without the Authorization header, and a rejected
// login leaves any session already stored untouched.
func (c *Client) Login(ctx context.Context, creds Credentials) (*LoginResult, error) {
	if err := Validate(creds); err != nil {
		return nil, err
	}
	body, err := api.JSONBody(creds)
	if err != nil {
		return nil, err
	}

	res, err := c.api.Do(ctx, api.Request{Method: http.MethodPost, Path: pathLogin, Body: body, NoAuth: true, NoTeardown: true})
	if err != nil {
		return nil, loginError(err)
	}

	out, err := api.DecodeObject[LoginResult](res)
	if err != nil {
		return nil, loginError(err)
	}
	if out == nil || out.AccessToken == "" {
		return nil, &api.Error{Kind: api.KindEnvelope, Status: res.Status, Message: MessageLoginFailed}
	}

	if err := c.api.Session().SetToken(out.AccessToken); err != nil {
		return nil, fmt.Errorf("failed to store session token: %w", err)
	}
	return out, nil
}

// loginError replaces the generic fallbacks with the login wording while
// keeping any message the backend supplied.
func loginError(err error) error {
	apiErr, ok := api.AsError(err)
	if !ok {
		return err
	}
	cp := *apiErr
	switch {
	case cp.Kind == api.KindTransport:
		cp.Message = MessageLoginUnavailable
	case cp.Message == api.MessageRequestFailed || cp.Message == api.MessageInvalidResponse:
		cp.Message = MessageLoginFailed
	}
	return &cp
}

// Me loads the signed-in administrator with their permission codes.
func (c *Client) Me(ctx context.Context) (*session.User, error) {
	return api.GetObject[session.User](ctx, c.api, pathMe, nil)
}
