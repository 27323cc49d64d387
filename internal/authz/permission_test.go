package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPermission_Code(t *testing.T) {
	assert.Equal(t, "SATPAM_MANAGE", Manage(FeatureSatpam).Code())
	assert.Equal(t, "ATTENDANCE_SPOT_VIEW", View(FeatureAttendanceSpot).Code())
	assert.Equal(t, "SHIFT_SWAP_VIEW", View(FeatureShiftSwap).String())
}

func TestParsePermission(t *testing.T) {
	tests := []struct {
		code string
		want Permission
		ok   bool
	}{
		{"SATPAM_VIEW", View(FeatureSatpam), true},
		{"SPOT_ASSIGNMENT_MANAGE", Manage(FeatureSpotAssignment), true},
		{"ATTENDANCE_MONITORING_VIEW", View(FeatureAttendanceMonitoring), true},
		{" ADMIN_MANAGE ", Permission{}, false},
		{"ADMIN", Permission{}, false},
		{"_VIEW", Permission{}, false},
		{"PAYROLL_VIEW", Permission{}, false},
		{"SATPAM_EDIT", Permission{}, false},
		{"", Permission{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			got, ok := ParsePermission(tt.code)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParsePermission_RoundTripsCatalog(t *testing.T) {
	for _, p := range Catalog() {
		got, ok := ParsePermission(p.Code())
		require.True(t, ok, p.Code())
		assert.Equal(t, p, got)
	}
}

func TestParseFeature(t *testing.T) {
	f, err := ParseFeature("attendance-spot")
	require.NoError(t, err)
	assert.Equal(t, FeatureAttendanceSpot, f)

	f, err = ParseFeature("Shift_Swap")
	require.NoError(t, err)
	assert.Equal(t, FeatureShiftSwap, f)

	_, err = ParseFeature("SATPAMS")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown feature")
}

func TestInCatalog(t *testing.T) {
	assert.True(t, InCatalog("DASHBOARD_VIEW"))
	assert.True(t, InCatalog("ADMIN_MANAGE"))
	assert.False(t, InCatalog("DASHBOARD_MANAGE"))
	assert.False(t, InCatalog("SHIFT_SWAP_MANAGE"))
}
