// Package session holds the signed-in administrator's token and profile.
//
// A Session is created once by the application shell and passed to every
// component that needs it. The token is persisted through a TokenStore and
// survives restarts; the profile is transient and is reloaded by the guard
// on every protected command.
package session

import (
	"errors"
	"sync"

	"github.com/siagacs/siaga-admin/internal/authz"
	"github.com/siagacs/siaga-admin/internal/log"
)

// TokenKey is the storage key for the bearer token.
const TokenKey = "siaga_admin_token"

// User is the administrator profile returned by the backend.
type User struct {
	ID          int64    `json:"id" yaml:"id"`
	Name        string   `json:"name" yaml:"name"`
	Email       string   `json:"email" yaml:"email"`
	Role        string   `json:"role" yaml:"role"`
	Permissions []string `json:"permissions" yaml:"permissions"`
}

func (u *User) clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	c.Permissions = append([]string{}, u.Permissions...)
	return &c
}

// Session is safe for concurrent use.
type Session struct {
	mu     sync.RWMutex
	store  TokenStore
	user   *User
	logger *log.Logger
}

// New creates a session over store. A nil logger discards output.
func New(store TokenStore, logger *log.Logger) *Session {
	if logger == nil {
		logger = log.Discard()
	}
	return &Session{store: store, logger: logger}
}

// Token returns the persisted token, if any. Store failures are logged and
// treated as "no token".
func (s *Session) Token() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tokenLocked()
}

func (s *Session) tokenLocked() (string, bool) {
	token, err := s.store.Get(TokenKey)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.logger.WithError(err).Warn("failed to read stored token")
		}
		return "", false
	}
	if token == "" {
		return "", false
	}
	return token, true
}

// IsAuthenticated reports whether a token is present. It does not check the
// token with the backend; the guard does that.
func (s *Session) IsAuthenticated() bool {
	_, ok := s.Token()
	return ok
}

// SetToken persists token. A different token drops the cached profile so a
// user is never carried across identities. An empty token clears the session.
func (s *Session) SetToken(token string) error {
	if token == "" {
		return s.Clear()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if previous, ok := s.tokenLocked(); !ok || previous != token {
		s.user = nil
	}
	if err := s.store.Put(TokenKey, token); err != nil {
		return err
	}
	s.logger.Debug("session token stored", "fingerprint", Fingerprint(token))
	return nil
}

// Clear removes the token and the cached profile. It is idempotent and can
// be called from several goroutines at once.
func (s *Session) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.user = nil
	if err := s.store.Delete(TokenKey); err != nil {
		return err
	}
	s.logger.Debug("session cleared")
	return nil
}

// SetUser caches the profile. Passing nil forgets it.
func (s *Session) SetUser(u *User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = u.clone()
}

// User returns a copy of the cached profile or nil.
func (s *Session) User() *User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user.clone()
}

// Permissions returns the permission set of the cached profile. Without a
// profile the set is empty and denies everything.
func (s *Session) Permissions() authz.Set {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return authz.Set{}
	}
	return authz.NewSet(s.user.Permissions)
}
