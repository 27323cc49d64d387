package cmd

import (
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/siagacs/siaga-admin/internal/admin"
	"github.com/siagacs/siaga-admin/internal/authz"
	"github.com/siagacs/siaga-admin/internal/config"
	"github.com/siagacs/siaga-admin/internal/session"
	"github.com/siagacs/siaga-admin/internal/tui"
	"github.com/siagacs/siaga-admin/internal/ux"
)

func newAuthCmd() *cobra.Command {
	authCmd := &cobra.Command{
		Use:   "auth",
		Short: "Sign in, sign out and inspect the session",
		Long: `Manage the administrator session.

The access token returned by the backend is stored encrypted in the
credentials file under the home directory. Any command that receives a 401
or 403 from the backend removes it again.

Examples:
  siaga-admin auth login --email admin@siaga.id
  siaga-admin auth whoami
  siaga-admin auth status
  siaga-admin auth logout`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	authCmd.AddCommand(newAuthLoginCmd(), newAuthLogoutCmd(), newAuthStatusCmd(), newAuthWhoamiCmd())
	return authCmd
}

func newAuthLoginCmd() *cobra.Command {
	var email, password string

	loginCmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in with an administrator account",
		Long: `Sign in with e-mail and password. Missing values are asked for when a
terminal is attached.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp(cmd)
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			if (email == "" || password == "") && tui.ShouldPrompt() {
				if err := tui.LoginForm(&email, &password); err != nil {
					return err
				}
			}

			res, err := app.Admin.Login(ctx, admin.Credentials{Email: strings.TrimSpace(email), Password: password})
			if err != nil {
				return err
			}
			app.Logger.Info("signed in", "fingerprint", session.Fingerprint(res.AccessToken))

			// The profile carries the permission codes; the login payload does not.
			profile, err := app.authenticate(ctx, "/")
			if err != nil {
				if !app.Session.IsAuthenticated() {
					return err
				}
				app.Logger.WithError(err).Warn("signed in but the profile could not be loaded")
				return app.done(res.User, "Signed in as %s <%s>", res.User.Name, res.User.Email)
			}
			return app.done(profile, "Signed in as %s <%s>", profile.Name, profile.Email)
		},
	}

	loginCmd.Flags().StringVar(&email, "email", "", "administrator e-mail")
	loginCmd.Flags().StringVar(&password, "password", "", "password (prompted when omitted)")
	return loginCmd
}

func newAuthLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp(cmd)
			if err != nil {
				return err
			}
			if !app.Session.IsAuthenticated() {
				app.info("Not signed in.")
				return nil
			}
			if err := app.Session.Clear(); err != nil {
				return err
			}
			app.info("Signed out.")
			return nil
		},
	}
}

// authStatus is what `auth status` knows without calling the backend.
type authStatus struct {
	SignedIn    bool       `json:"signed_in" yaml:"signed_in"`
	BaseURL     string     `json:"base_url" yaml:"base_url"`
	Credentials string     `json:"credentials" yaml:"credentials"`
	Fingerprint string     `json:"fingerprint,omitempty" yaml:"fingerprint,omitempty"`
	StoredAt    *time.Time `json:"stored_at,omitempty" yaml:"stored_at,omitempty"`
	Subject     string     `json:"subject,omitempty" yaml:"subject,omitempty"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty" yaml:"expires_at,omitempty"`
	Expired     bool       `json:"expired" yaml:"expired"`
}

func (s authStatus) String() string {
	if !s.SignedIn {
		return "Not signed in (backend " + s.BaseURL + ")\nRun 'siaga-admin auth login' to sign in."
	}
	var b strings.Builder
	b.WriteString("Signed in\n")
	b.WriteString("  backend:     " + s.BaseURL + "\n")
	b.WriteString("  credentials: " + s.Credentials + "\n")
	b.WriteString("  token:       " + s.Fingerprint + "\n")
	if s.StoredAt != nil {
		b.WriteString("  stored:      " + s.StoredAt.Local().Format(time.RFC1123) + "\n")
	}
	if s.Subject != "" {
		b.WriteString("  subject:     " + s.Subject + "\n")
	}
	if s.ExpiresAt != nil {
		line := s.ExpiresAt.Local().Format(time.RFC1123)
		if s.Expired {
			line += " (expired, the next command will ask you to sign in)"
		}
		b.WriteString("  expires:     " + line + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func newAuthStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the stored session without contacting the backend",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp(cmd)
			if err != nil {
				return err
			}

			status := authStatus{
				BaseURL:     app.API.BaseURL(),
				Credentials: config.CredentialsPath(app.Home),
			}
			if token, ok := app.Session.Token(); ok {
				status.SignedIn = true
				status.Fingerprint = session.Fingerprint(token)
				if at, ok := app.Store.UpdatedAt(session.TokenKey); ok {
					status.StoredAt = &at
				}
				if info, ok := session.InspectToken(token); ok {
					status.Subject = info.Subject
					status.ExpiresAt = info.ExpiresAt
					status.Expired = info.Expired(time.Now())
				}
			}
			return app.print(status)
		},
	}
}

type whoami struct {
	User    *session.User `json:"user" yaml:"user"`
	Grants  []string      `json:"grants" yaml:"grants"`
	Unknown []string      `json:"unknown_permissions,omitempty" yaml:"unknown_permissions,omitempty"`
}

func newAuthWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in administrator and what they can access",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp(cmd)
			if err != nil {
				return err
			}
			user, err := app.authenticate(cmd.Context(), "/")
			if err != nil {
				return err
			}

			perms := app.Session.Permissions()
			result := whoami{User: user, Grants: perms.Codes(), Unknown: perms.Unknown()}
			if !app.text() {
				return app.print(result)
			}

			app.info("%s <%s> (%s)", user.Name, user.Email, user.Role)
			rows := make([][]string, 0, len(authz.Features()))
			for _, f := range authz.Features() {
				rows = append(rows, []string{string(f), yesNo(perms.CanView(f)), yesNo(perms.CanManage(f))})
			}
			if err := app.print(ux.Table{Data: result, Header: []string{"FEATURE", "VIEW", "MANAGE"}, Body: rows}); err != nil {
				return err
			}
			if unknown := perms.Unknown(); len(unknown) > 0 {
				app.info("Unrecognised permission codes (ignored): %s", strings.Join(unknown, ", "))
			}
			return nil
		},
	}
}
