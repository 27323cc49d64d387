package cmd

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/siagacs/siaga-admin/internal/admin"
	"github.com/siagacs/siaga-admin/internal/api"
	"github.com/siagacs/siaga-admin/internal/authz"
	"github.com/siagacs/siaga-admin/internal/config"
	"github.com/siagacs/siaga-admin/internal/errors"
	"github.com/siagacs/siaga-admin/internal/guard"
	"github.com/siagacs/siaga-admin/internal/log"
	"github.com/siagacs/siaga-admin/internal/metrics"
	"github.com/siagacs/siaga-admin/internal/session"
	"github.com/siagacs/siaga-admin/internal/telemetry"
	"github.com/siagacs/siaga-admin/internal/tui"
	"github.com/siagacs/siaga-admin/internal/ux"
	"github.com/siagacs/siaga-admin/internal/version"
)

// App is everything a command needs, built fresh for every invocation.
type App struct {
	Flags   *CommandContext
	Home    string
	Config  *config.Config
	Logger  *log.Logger
	Store   *session.FileStore
	Session *session.Session
	API     *api.Client
	Admin   *admin.Client
	Guard   *guard.Guard

	out    io.Writer
	errOut io.Writer
	obs    *observability
}

func loadApp(cmd *cobra.Command) (*App, error) {
	flags, err := NewCommandContext(cmd)
	if err != nil {
		return nil, fmt.Errorf("failed to create command context: %w", err)
	}

	home := flags.Home
	if home == "" {
		if home, err = config.HomeDir(); err != nil {
			return nil, err
		}
	}
	if err := config.LoadDotEnv(home); err != nil {
		return nil, err
	}

	cfg, err := config.Load(home)
	if err != nil {
		return nil, err
	}
	if flags.BaseURL != "" {
		cfg.API.BaseURL = flags.BaseURL
		if err := cfg.Validate(); err != nil {
			return nil, errors.NewInputError("base-url", err.Error())
		}
	}
	if !flags.formatSet && cfg.Defaults.Format != "" {
		flags.Format = cfg.Defaults.Format
	}
	flags.NoColor = flags.NoColor || cfg.Defaults.NoColor

	logCfg := cfg.LogConfig()
	logCfg.Output = log.NewOutput(cmd.ErrOrStderr())
	if flags.LogLevel != "" {
		level, err := log.ParseLevel(flags.LogLevel)
		if err != nil {
			return nil, errors.NewInputError("log-level", err.Error())
		}
		logCfg.Level = level
	}
	if flags.Verbose {
		logCfg.Level = log.LevelDebug
	}
	logger := log.New(logCfg)

	timeout, err := cfg.Timeout()
	if err != nil {
		return nil, errors.NewConfigInvalidError(config.Path(home), err)
	}

	store, err := session.NewFileStore(config.CredentialsPath(home), config.Passphrase(home))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeCredentialStore, "failed to open credential store", err).
			WithSuggestion("Delete " + config.CredentialsPath(home) + " and sign in again")
	}
	sess := session.New(store, logger)

	obs := &observability{command: cmd.CommandPath(), started: time.Now()}
	obs.registry, obs.metrics = metrics.NewRegistry()
	obs.tracing, err = telemetry.NewProvider(cmd.Context(), telemetry.Config{
		ServiceName:    "siaga-admin",
		ServiceVersion: version.GetInfo().Version,
		Environment:    "cli",
		Enabled:        cfg.Telemetry.Enabled,
		Endpoint:       cfg.Telemetry.Endpoint,
		Insecure:       cfg.Telemetry.Insecure,
		SampleRate:     cfg.Telemetry.SampleRate,
	})
	if err != nil {
		logger.WithError(err).Warn("telemetry disabled")
	}
	ctx, span := telemetry.StartCommandSpan(cmd.Context(), obs.tracing.Tracer("siaga-admin"), obs.command)
	obs.span = span
	cmd.SetContext(ctx)

	client := api.NewClient(cfg.BaseURL(), sess,
		api.WithTimeout(timeout),
		api.WithLogger(logger),
		api.WithTracer(obs.tracing.Tracer("api")),
		api.WithMetrics(obs.metrics),
		api.WithAuthFailureHook(func(_ context.Context, err *api.Error) {
			logger.Warn("backend rejected the session, token cleared", "status", err.Status)
		}),
	)

	app := &App{
		Flags:   flags,
		Home:    home,
		Config:  cfg,
		Logger:  logger,
		Store:   store,
		Session: sess,
		API:     client,
		Admin:   admin.New(client),
		out:     cmd.OutOrStdout(),
		errOut:  cmd.ErrOrStderr(),
		obs:     obs,
	}
	if r := runFrom(ctx); r != nil {
		r.track(app)
	}
	app.Guard = guard.New(sess, app.Admin.Me, guard.RedirectFunc(app.redirect),
		guard.WithLogger(logger),
		guard.WithObserver(func(from, to guard.State) {
			logger.Debug("guard transition", "from", from.String(), "to", to.String())
		}),
	)
	return app, nil
}

// redirect is the CLI's login route: the command stops and the error
// returned by authenticate tells the operator to sign in.
func (a *App) redirect(_ context.Context, route string) {
	a.Logger.Debug("redirect", "route", route)
}

func routeFor(f authz.Feature) string {
	return "/" + strings.ReplaceAll(strings.ToLower(string(f)), "_", "-")
}

// authenticate mounts the guard for route and returns the loaded profile.
func (a *App) authenticate(ctx context.Context, route string) (*session.User, error) {
	var out guard.Outcome
	mount := func(ctx context.Context) error {
		out = a.Guard.Mount(ctx, route)
		return nil
	}
	if a.Flags.Quiet {
		_ = mount(ctx)
	} else {
		_ = tui.RunWithSpinner(ctx, a.errOut, "Checking session", mount)
	}

	switch out.State {
	case guard.StateUnauthenticated:
		if out.Err != nil {
			return nil, errors.NewSessionRejectedError(out.Err)
		}
		return nil, errors.NewNotSignedInError()
	case guard.StateAuthenticating:
		return nil, out.Err
	}
	if out.Err != nil {
		return nil, out.Err
	}
	return out.User, nil
}

// require authenticates and checks p against the session's permissions.
func (a *App) require(ctx context.Context, p authz.Permission) error {
	if _, err := a.authenticate(ctx, routeFor(p.Feature)); err != nil {
		return err
	}
	if err := authz.Require(a.Session.Permissions(), p); err != nil {
		a.Logger.Info("permission denied", "permission", p.Code())
		return err
	}
	return nil
}

func (a *App) text() bool {
	return a.Flags.Format == "" || a.Flags.Format == "text"
}

// print writes v with the selected formatter.
func (a *App) print(v interface{}) error {
	f, err := ux.NewFormatter(a.Flags.Format, &ux.FormatterOptions{Writer: a.out, NoColor: a.Flags.NoColor})
	if err != nil {
		return err
	}
	return f.Format(v)
}

// info prints a message in text mode unless --quiet.
func (a *App) info(format string, args ...interface{}) {
	if a.Flags.Quiet || !a.text() {
		return
	}
	fmt.Fprintf(a.out, format+"\n", args...)
}

// done reports a write: a message in text mode, the object otherwise.
func (a *App) done(v interface{}, format string, args ...interface{}) error {
	if a.text() {
		a.info(format, args...)
		return nil
	}
	return a.print(v)
}

// confirm asks before a destructive action unless --yes was given.
func (a *App) confirm(action string) error {
	if a.Flags.Yes {
		return nil
	}
	if !tui.ShouldPrompt() {
		return errors.New(errors.ErrCodeInputMissing, action+" needs confirmation").
			WithSuggestion("Pass --yes to confirm without a prompt")
	}
	ok, err := tui.PromptForConfirmation(action+"?", false)
	if err != nil {
		return err
	}
	if !ok {
		return errors.NewAbortedError(action)
	}
	return nil
}

type savedFile struct {
	Path  string `json:"path" yaml:"path"`
	Bytes int    `json:"bytes" yaml:"bytes"`
}

// save writes a downloaded file to out, or next to the working directory
// under the server's name.
func (a *App) save(f *api.File, out string) error {
	path := ux.ExportPath(out, f.Name)
	if err := ux.WriteExport(path, f.Data); err != nil {
		return errors.Wrap(errors.ErrCodeFileWriteFailed, "failed to save download", err)
	}
	a.Logger.Debug("download saved", "path", path, "bytes", len(f.Data))
	return a.done(savedFile{Path: path, Bytes: len(f.Data)}, "Saved %s (%d bytes)", path, len(f.Data))
}

// value returns v, or prompts for it when empty and a terminal is attached.
func value(v, field string, secret bool) (string, error) {
	if v != "" {
		return v, nil
	}
	if !tui.ShouldPrompt() {
		return "", errors.NewMissingInputError(field)
	}
	if secret {
		return tui.PromptForPassword(field)
	}
	return tui.PromptForString(field, true)
}

func parseID(arg, name string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.NewInputError(name, fmt.Sprintf("%q is not a positive integer", arg))
	}
	return id, nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func deref(s *string) string {
	if s == nil || *s == "" {
		return "-"
	}
	return *s
}

const dateLayout = "2006-01-02"

// checkDate validates an optional YYYY-MM-DD flag value.
func checkDate(field, v string) error {
	if v == "" {
		return nil
	}
	if _, err := time.Parse(dateLayout, v); err != nil {
		return errors.NewInputError(field, fmt.Sprintf("%q is not a date (YYYY-MM-DD)", v))
	}
	return nil
}
