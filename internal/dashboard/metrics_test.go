package dashboard

import (
	"bytes"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/siagacs/siaga-admin/internal/admin"
)

func TestKPICards(t *testing.T) {
	d := &admin.Dashboard{Summary: admin.DashboardSummary{AttendanceRate: 91.5, OnTimeRate: 80, AbsentRate: 3.25, AvgLateMinutes: 4}}

	cards := KPICards(d)
	require.Len(t, cards, 4)
	assert.Equal(t, "Attendance Rate", cards[0].Label)
	assert.Equal(t, 3.25, cards[2].Value)
	assert.Equal(t, TrendFlat, cards[3].Trend)

	d.KPIs = []admin.KPI{}
	assert.Empty(t, KPICards(d), "explicit empty list stays empty")

	d.KPIs = []admin.KPI{{Label: "Custom"}}
	assert.Equal(t, "Custom", KPICards(d)[0].Label)
}

func TestFormatKPIValue(t *testing.T) {
	assert.Equal(t, "91.5%", FormatKPIValue(admin.KPI{Label: "Attendance Rate", Value: 91.46}))
	assert.Equal(t, "4.0 min", FormatKPIValue(admin.KPI{Label: "Avg Late Minutes", Value: 4}))
	assert.Equal(t, "0.0%", FormatKPIValue(admin.KPI{Label: "Absent Rate", Value: math.NaN()}))
}

func TestDeltaLabel(t *testing.T) {
	tests := []struct {
		kpi  admin.KPI
		want string
	}{
		{admin.KPI{Trend: TrendUp, Delta: 2.5}, "↑ +2.5"},
		{admin.KPI{Trend: TrendDown, Delta: -1.25}, "↓ -1.2"},
		{admin.KPI{Trend: TrendFlat, Delta: 0}, "→ 0.0"},
		{admin.KPI{Trend: "sideways", Delta: math.Inf(1)}, "→ 0.0"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DeltaLabel(tt.kpi))
	}
}

func TestLevelOf(t *testing.T) {
	assert.Equal(t, RiskLow, LevelOf(0))
	assert.Equal(t, RiskLow, LevelOf(9.9))
	assert.Equal(t, RiskMedium, LevelOf(10))
	assert.Equal(t, RiskMedium, LevelOf(19.99))
	assert.Equal(t, RiskHigh, LevelOf(20))
	assert.Equal(t, RiskLow, LevelOf(math.NaN()))
}

func TestConsistencyRate(t *testing.T) {
	assert.Equal(t, 0.0, ConsistencyRate(admin.AttendanceConsistency{}))
	assert.InDelta(t, 75.0, ConsistencyRate(admin.AttendanceConsistency{Consistent: 30, Irregular: 10}), 1e-9)
}

func TestDisciplineItems(t *testing.T) {
	items := DisciplineItems(admin.DisciplineBreakdown{Late: 4, EarlyLeave: 0, NoCheckin: 7, MissedShift: 2})
	assert.Equal(t, []DisciplineItem{{"Late", 4}, {"Missed shift", 2}}, items)
	assert.Empty(t, DisciplineItems(admin.DisciplineBreakdown{}))
}

func TestTrendPoints(t *testing.T) {
	assert.Empty(t, TrendPoints(nil))

	points := TrendPoints(&admin.AttendanceTrend{
		Labels:  []string{"2026-03-01", "2026-03-02"},
		Present: []int{30, 28},
		Late:    []int{2},
	})
	require.Len(t, points, 2)
	assert.Equal(t, 2, points[0].Late)
	assert.Equal(t, 0, points[1].Late)
	assert.Equal(t, 0, points[1].BelumAbsen)
}

func TestMonthRange(t *testing.T) {
	tests := []struct {
		month, start, end string
	}{
		{"2026-03", "2026-03-01", "2026-03-31"},
		{"2026-02", "2026-02-01", "2026-02-28"},
		{"2028-02", "2028-02-01", "2028-02-29"},
		{"2026-12", "2026-12-01", "2026-12-31"},
	}
	for _, tt := range tests {
		r, err := MonthRange(tt.month)
		require.NoError(t, err)
		assert.Equal(t, tt.start, r.StartDate)
		assert.Equal(t, tt.end, r.EndDate)
	}

	_, err := MonthRange("03/2026")
	assert.Error(t, err)
}

func TestCurrentMonth(t *testing.T) {
	assert.Equal(t, "2026-10", CurrentMonth(time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC)))
}

func TestRender(t *testing.T) {
	d := &admin.Dashboard{
		Summary:               admin.DashboardSummary{TotalSecurity: 40, AttendanceRate: 91.5},
		HeroInsight:           &admin.HeroInsight{Headline: "Lateness is rising", Severity: "warning"},
		RiskEmployees:         []admin.RiskEmployee{{Name: "Budi", Position: "Satpam", RiskScore: 22, RiskReason: "late 6x"}},
		AttendanceConsistency: &admin.AttendanceConsistency{Consistent: 3, Irregular: 1},
		DisciplineBreakdown:   &admin.DisciplineBreakdown{},
	}

	var out bytes.Buffer
	require.NoError(t, Render(&out, d, "2026-03"))

	got := out.String()
	for _, want := range []string{"2026-03", "Lateness is rising", "TOTAL SATPAM", "91.5%", "High (22)", "75.0% of total", "No discipline issues", "No attendance data"} {
		assert.Contains(t, got, want)
	}
	assert.NotContains(t, got, "Audit & Compliance")
}
