package admin

import (
	"context"
	"net/url"

	"github.com/siagacs/siaga-admin/internal/api"
)

// DashboardSummary holds the headline numbers of a month.
type DashboardSummary struct {
	TotalSecurity  int     `json:"total_security" yaml:"total_security"`
	AttendanceRate float64 `json:"attendance_rate" yaml:"attendance_rate"`
	OnTimeRate     float64 `json:"on_time_rate" yaml:"on_time_rate"`
	AbsentRate     float64 `json:"absent_rate" yaml:"absent_rate"`
	AvgLateMinutes float64 `json:"avg_late_minutes" yaml:"avg_late_minutes"`
}

// HeroInsight is the backend's one-line reading of the month.
type HeroInsight struct {
	Headline string `json:"headline" yaml:"headline"`
	Severity string `json:"severity" yaml:"severity"`
	Context  string `json:"context" yaml:"context"`
}

// KPI is one executive summary card.
type KPI struct {
	Label  string  `json:"label" yaml:"label"`
	Value  float64 `json:"value" yaml:"value"`
	Delta  float64 `json:"delta" yaml:"delta"`
	Trend  string  `json:"trend" yaml:"trend"`
	Status string  `json:"status" yaml:"status"`
}

// AttendanceTrend is the per-day series of the month.
type AttendanceTrend struct {
	Labels     []string `json:"labels" yaml:"labels"`
	Present    []int    `json:"present" yaml:"present"`
	Late       []int    `json:"late" yaml:"late"`
	Absent     []int    `json:"absent" yaml:"absent"`
	BelumAbsen []int    `json:"belum_absen" yaml:"belum_absen"`
}

// DisciplineBreakdown counts discipline issues by kind.
type DisciplineBreakdown struct {
	Late        int `json:"late" yaml:"late"`
	EarlyLeave  int `json:"early_leave" yaml:"early_leave"`
	NoCheckin   int `json:"no_checkin" yaml:"no_checkin"`
	MissedShift int `json:"missed_shift" yaml:"missed_shift"`
	// BelumAbsen counts shifts not yet clocked that have not ended.
	BelumAbsen int `json:"belum_absen" yaml:"belum_absen"`
}

// RiskEmployee is a guard flagged for attendance risk.
type RiskEmployee struct {
	ID         string  `json:"id" yaml:"id"`
	Name       string  `json:"name" yaml:"name"`
	Position   string  `json:"position" yaml:"position"`
	RiskScore  float64 `json:"risk_score" yaml:"risk_score"`
	RiskReason string  `json:"risk_reason" yaml:"risk_reason"`
}

// AttendanceConsistency splits guards by attendance regularity.
type AttendanceConsistency struct {
	Consistent    int     `json:"consistent" yaml:"consistent"`
	Irregular     int     `json:"irregular" yaml:"irregular"`
	AvgStreakDays float64 `json:"avg_streak_days" yaml:"avg_streak_days"`
}

// AuditCompliance reports manual overrides and evidence completeness.
type AuditCompliance struct {
	ManualOverride   int     `json:"manual_override" yaml:"manual_override"`
	DataCompleteness float64 `json:"data_completeness" yaml:"data_completeness"`
}

// Dashboard is the monthly dashboard payload. Sections the backend omits
// stay nil.
type Dashboard struct {
	Summary               DashboardSummary       `json:"summary" yaml:"summary"`
	HeroInsight           *HeroInsight           `json:"hero_insight,omitempty" yaml:"hero_insight,omitempty"`
	KPIs                  []KPI                  `json:"kpis,omitempty" yaml:"kpis,omitempty"`
	AttendanceTrend       *AttendanceTrend       `json:"attendance_trend,omitempty" yaml:"attendance_trend,omitempty"`
	DisciplineBreakdown   *DisciplineBreakdown   `json:"discipline_breakdown,omitempty" yaml:"discipline_breakdown,omitempty"`
	RiskEmployees         []RiskEmployee         `json:"risk_employees,omitempty" yaml:"risk_employees,omitempty"`
	AttendanceConsistency *AttendanceConsistency `json:"attendance_consistency,omitempty" yaml:"attendance_consistency,omitempty"`
	AuditCompliance       *AuditCompliance       `json:"audit_compliance,omitempty" yaml:"audit_compliance,omitempty"`
}

type monthQuery struct {
	Month string `json:"month" validate:"required,datetime=2006-01"`
}

// GetDashboard loads the dashboard for month (YYYY-MM).
func (c *Client) GetDashboard(ctx context.Context, month string) (*Dashboard, error) {
	if err := Validate(monthQuery{Month: month}); err != nil {
		return nil, err
	}
	return api.GetObject[Dashboard](ctx, c.api, pathDashboard, url.Values{"month": {month}})
}
