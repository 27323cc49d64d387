// Package authz decides what the signed-in administrator may see or change.
//
// Permissions arrive from the backend as opaque codes of the form
// {FEATURE}_{ACTION}. This package maps them onto a closed set of features
// and actions so that callers ask about typed values instead of building
// strings by hand. Client-side checks only gate the CLI; the backend is
// expected to enforce the same rules.
package authz

import (
	"fmt"
	"strings"
)

// Feature is an administrative area of the attendance system.
type Feature string

const (
	FeatureDashboard            Feature = "DASHBOARD"
	FeatureSatpam               Feature = "SATPAM"
	FeatureAttendanceSpot       Feature = "ATTENDANCE_SPOT"
	FeatureShift                Feature = "SHIFT"
	FeatureScheduling           Feature = "SCHEDULING"
	FeatureSpotAssignment       Feature = "SPOT_ASSIGNMENT"
	FeatureShiftSwap            Feature = "SHIFT_SWAP"
	FeatureAttendanceMonitoring Feature = "ATTENDANCE_MONITORING"
	FeatureAdmin                Feature = "ADMIN"
)

// Features lists every known feature in menu order.
func Features() []Feature {
	return []Feature{
		FeatureDashboard,
		FeatureSatpam,
		FeatureAttendanceSpot,
		FeatureShift,
		FeatureScheduling,
		FeatureSpotAssignment,
		FeatureShiftSwap,
		FeatureAttendanceMonitoring,
		FeatureAdmin,
	}
}

// Valid reports whether f is one of the known features.
func (f Feature) Valid() bool {
	for _, known := range Features() {
		if f == known {
			return true
		}
	}
	return false
}

// ParseFeature converts a user supplied prefix (case-insensitive, dashes
// allowed) into a Feature. Unknown prefixes are an error rather than a
// silent deny.
func ParseFeature(s string) (Feature, error) {
	normalized := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), "-", "_"))
	f := Feature(normalized)
	if !f.Valid() {
		return "", fmt.Errorf("unknown feature %q", s)
	}
	return f, nil
}

// Action is what the administrator wants to do with a feature.
type Action string

const (
	ActionView   Action = "VIEW"
	ActionManage Action = "MANAGE"
)

// Permission is a (feature, action) pair.
type Permission struct {
	Feature Feature
	Action  Action
}

// View returns the VIEW permission for f.
func View(f Feature) Permission {
	return Permission{Feature: f, Action: ActionView}
}

// Manage returns the MANAGE permission for f.
func Manage(f Feature) Permission {
	return Permission{Feature: f, Action: ActionManage}
}

// Code returns the wire form of the permission, e.g. "SATPAM_MANAGE".
func (p Permission) Code() string {
	return string(p.Feature) + "_" + string(p.Action)
}

// String implements fmt.Stringer
func (p Permission) String() string {
	return p.Code()
}

// ParsePermission converts a backend code into a Permission. It returns
// false for codes whose feature or action is not known. Codes are matched
// exactly; surrounding whitespace makes a code unknown.
func ParsePermission(code string) (Permission, bool) {
	for _, action := range []Action{ActionManage, ActionView} {
		suffix := "_" + string(action)
		if !strings.HasSuffix(code, suffix) {
			continue
		}
		f := Feature(strings.TrimSuffix(code, suffix))
		if !f.Valid() {
			return Permission{}, false
		}
		return Permission{Feature: f, Action: action}, true
	}
	return Permission{}, false
}

// Catalog returns the permission codes the admin tooling knows how to use.
// Some features only exist in read-only form.
func Catalog() []Permission {
	return []Permission{
		View(FeatureDashboard),
		View(FeatureSatpam),
		Manage(FeatureSatpam),
		View(FeatureAttendanceSpot),
		Manage(FeatureAttendanceSpot),
		View(FeatureShift),
		Manage(FeatureShift),
		View(FeatureScheduling),
		Manage(FeatureScheduling),
		View(FeatureSpotAssignment),
		Manage(FeatureSpotAssignment),
		View(FeatureShiftSwap),
		View(FeatureAttendanceMonitoring),
		Manage(FeatureAttendanceMonitoring),
		View(FeatureAdmin),
		Manage(FeatureAdmin),
	}
}

// InCatalog reports whether code is one of the Catalog entries.
func InCatalog(code string) bool {
	for _, p := range Catalog() {
		if p.Code() == code {
			return true
		}
	}
	return false
}
