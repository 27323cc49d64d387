// Package guard runs the session check that precedes every protected
// command: a missing token sends the operator to the login route, a present
// token is confirmed by loading the profile.
package guard

import (
	"context"
	"errors"
	"sync"

	"github.com/siagacs/siaga-admin/internal/api"
	"github.com/siagacs/siaga-admin/internal/log"
	"github.com/siagacs/siaga-admin/internal/session"
)

// LoginRoute is the only route that never needs a session.
const LoginRoute = "/login"

// State is where a mount currently stands.
type State int

const (
	// StateIdle is the state before Mount runs.
	StateIdle State = iota
	// StateAuthenticating means the profile request is in flight.
	StateAuthenticating
	// StateReady means the command may render, possibly with an error.
	StateReady
	// StateUnauthenticated means the operator was sent to the login route.
	StateUnauthenticated
)

// String implements fmt.Stringer
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAuthenticating:
		return "authenticating"
	case StateReady:
		return "ready"
	case StateUnauthenticated:
		return "unauthenticated"
	default:
		return "unknown"
	}
}

// ErrEmptyProfile is returned when the profile endpoint succeeds without data.
var ErrEmptyProfile = errors.New("profile response contained no data")

// ProfileFunc loads the signed-in administrator.
type ProfileFunc func(ctx context.Context) (*session.User, error)

// Redirector sends the operator somewhere else.
type Redirector interface {
	Redirect(ctx context.Context, route string)
}

// RedirectFunc adapts a function to Redirector.
type RedirectFunc func(ctx context.Context, route string)

// Redirect implements Redirector
func (f RedirectFunc) Redirect(ctx context.Context, route string) {
	f(ctx, route)
}

// Observer is told about every state transition.
type Observer func(from, to State)

// Outcome is the result of one mount.
type Outcome struct {
	State State
	// User is set when the profile loaded.
	User *session.User
	// Err is the failure that accompanied the final state, if any. A Ready
	// outcome may still carry an error so the command can report it.
	Err error
	// Redirected is true when the login redirect was issued.
	Redirected bool
}

// Ready reports whether the command may proceed.
func (o Outcome) Ready() bool {
	return o.State == StateReady
}

// Guard checks the session before a protected route renders.
type Guard struct {
	session  *session.Session
	profile  ProfileFunc
	redirect Redirector
	logger   *log.Logger

	mu        sync.Mutex
	observers []Observer
}

// Option configures a Guard.
type Option func(*Guard)

// WithObserver adds a transition observer.
func WithObserver(o Observer) Option {
	return func(g *Guard) {
		g.observers = append(g.observers, o)
	}
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(g *Guard) {
		if l != nil {
			g.logger = l
		}
	}
}

// New creates a guard.
func New(sess *session.Session, profile ProfileFunc, redirect Redirector, opts ...Option) *Guard {
	g := &Guard{
		session:  sess,
		profile:  profile,
		redirect: redirect,
		logger:   log.Discard(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Observe adds a transition observer after construction.
func (g *Guard) Observe(o Observer) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.observers = append(g.observers, o)
}

// Mount runs the check for route. It issues at most one redirect and makes
// no network call when no token is stored. If ctx is cancelled while the
// profile loads, the outcome stays Authenticating and nothing else happens.
func (g *Guard) Mount(ctx context.Context, route string) Outcome {
	m := &mount{guard: g, state: StateIdle}

	if route == LoginRoute {
		m.to(StateReady)
		return Outcome{State: StateReady}
	}

	if !g.session.IsAuthenticated() {
		g.logger.Debug("no session token, redirecting", "route", route)
		m.to(StateUnauthenticated)
		g.redirect.Redirect(ctx, LoginRoute)
		return Outcome{State: StateUnauthenticated, Redirected: true}
	}

	m.to(StateAuthenticating)
	user, err := g.profile(ctx)

	if ctxErr := ctx.Err(); ctxErr != nil {
		g.logger.Debug("mount abandoned", "route", route, "error", ctxErr)
		return Outcome{State: StateAuthenticating, Err: ctxErr}
	}

	if err == nil && user == nil {
		err = ErrEmptyProfile
	}

	switch {
	case err == nil:
		if user.Permissions == nil {
			user.Permissions = []string{}
		}
		g.session.SetUser(user)
		m.to(StateReady)
		return Outcome{State: StateReady, User: g.session.User()}

	case api.IsAuthFailure(err):
		g.session.SetUser(nil)
		g.logger.WithError(err).Info("session rejected, redirecting", "route", route)
		m.to(StateUnauthenticated)
		g.redirect.Redirect(ctx, LoginRoute)
		return Outcome{State: StateUnauthenticated, Err: err, Redirected: true}

	default:
		g.logger.WithError(err).Warn("failed to load profile", "route", route)
		m.to(StateReady)
		return Outcome{State: StateReady, Err: err}
	}
}

type mount struct {
	guard *Guard
	state State
}

func (m *mount) to(next State) {
	prev := m.state
	m.state = next

	m.guard.mu.Lock()
	observers := append([]Observer(nil), m.guard.observers...)
	m.guard.mu.Unlock()

	for _, o := range observers {
		o(prev, next)
	}
}
