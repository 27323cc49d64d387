package authz

import (
	"fmt"
	"sort"
)

// Set is an immutable view over the permission codes granted to a session.
// The zero value grants nothing.
type Set struct {
	grants  map[Permission]struct{}
	unknown []string
}

// NewSet builds a Set from backend permission codes. Empty strings are
// dropped; codes that do not parse are kept for display but grant nothing.
func NewSet(codes []string) Set {
	s := Set{grants: make(map[Permission]struct{}, len(codes))}
	for _, code := range codes {
		if code == "" {
			continue
		}
		if p, ok := ParsePermission(code); ok {
			s.grants[p] = struct{}{}
			continue
		}
		s.unknown = append(s.unknown, code)
	}
	return s
}

func (s Set) has(p Permission) bool {
	_, ok := s.grants[p]
	return ok
}

// CanView reports whether the set holds f_VIEW or f_MANAGE. MANAGE implies VIEW.
func (s Set) CanView(f Feature) bool {
	return s.has(View(f)) || s.has(Manage(f))
}

// CanManage reports whether the set holds f_MANAGE.
func (s Set) CanManage(f Feature) bool {
	return s.has(Manage(f))
}

// Allows checks a single permission with the same MANAGE-implies-VIEW rule.
func (s Set) Allows(p Permission) bool {
	switch p.Action {
	case ActionView:
		return s.CanView(p.Feature)
	case ActionManage:
		return s.CanManage(p.Feature)
	default:
		return false
	}
}

// HasAny reports whether at least one permission is allowed.
func (s Set) HasAny(perms ...Permission) bool {
	for _, p := range perms {
		if s.Allows(p) {
			return true
		}
	}
	return false
}

// HasAll reports whether every permission is allowed. An empty list is allowed.
func (s Set) HasAll(perms ...Permission) bool {
	for _, p := range perms {
		if !s.Allows(p) {
			return false
		}
	}
	return true
}

// Empty reports whether the set grants nothing.
func (s Set) Empty() bool {
	return len(s.grants) == 0
}

// Codes returns the recognised codes in sorted order.
func (s Set) Codes() []string {
	codes := make([]string, 0, len(s.grants))
	for p := range s.grants {
		codes = append(codes, p.Code())
	}
	sort.Strings(codes)
	return codes
}

// Unknown returns codes that did not map onto a known feature.
func (s Set) Unknown() []string {
	return append([]string(nil), s.unknown...)
}

// DeniedError is returned when a command needs a permission the session lacks.
type DeniedError struct {
	Permission Permission
}

// Error implements the error interface
func (e *DeniedError) Error() string {
	if e.Permission.Action == ActionManage {
		return fmt.Sprintf("permission denied: %s required to change %s", e.Permission.Code(), e.Permission.Feature)
	}
	return fmt.Sprintf("permission denied: %s required to access %s", e.Permission.Code(), e.Permission.Feature)
}

// Require returns a *DeniedError unless s allows p.
func Require(s Set, p Permission) error {
	if s.Allows(p) {
		return nil
	}
	return &DeniedError{Permission: p}
}
