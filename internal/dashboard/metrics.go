// Package dashboard derives the display values of the monthly dashboard
// from the backend payload and renders them for the terminal.
package dashboard

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/siagacs/siaga-admin/internal/admin"
)

// MonthLayout is the dashboard month format.
const MonthLayout = "2006-01"

// KPI trends and statuses as sent by the backend.
const (
	TrendUp   = "up"
	TrendDown = "down"
	TrendFlat = "flat"

	StatusGood    = "good"
	StatusWarning = "warning"
	StatusBad     = "bad"
)

// KPICards returns the backend KPIs, or the four summary-derived defaults
// when the payload has no kpis field at all. An explicit empty list stays
// empty.
func KPICards(d *admin.Dashboard) []admin.KPI {
	if d.KPIs != nil {
		return d.KPIs
	}
	s := d.Summary
	return []admin.KPI{
		{Label: "Attendance Rate", Value: s.AttendanceRate, Trend: TrendFlat, Status: StatusGood},
		{Label: "On-Time Rate", Value: s.OnTimeRate, Trend: TrendFlat, Status: StatusGood},
		{Label: "Absent Rate", Value: s.AbsentRate, Trend: TrendFlat, Status: StatusGood},
		{Label: "Avg Late Minutes", Value: s.AvgLateMinutes, Trend: TrendFlat, Status: StatusGood},
	}
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// FormatKPIValue renders rate KPIs as percentages and the rest as minutes.
func FormatKPIValue(k admin.KPI) string {
	v := finite(k.Value)
	if strings.Contains(k.Label, "Rate") {
		return fmt.Sprintf("%.1f%%", v)
	}
	return fmt.Sprintf("%.1f min", v)
}

// DeltaLabel renders the change against the previous month, e.g. "↑ +2.5".
func DeltaLabel(k admin.KPI) string {
	arrow := "→"
	switch k.Trend {
	case TrendUp:
		arrow = "↑"
	case TrendDown:
		arrow = "↓"
	}
	d := finite(k.Delta)
	sign := ""
	if d > 0 {
		sign = "+"
	}
	return fmt.Sprintf("%s %s%.1f", arrow, sign, d)
}

// StatusLabel describes a KPI status.
func StatusLabel(status string) string {
	switch status {
	case StatusGood:
		return "Healthy"
	case StatusWarning:
		return "Needs attention"
	default:
		return "Action needed"
	}
}

// RiskLevel buckets a risk score.
type RiskLevel string

// Risk levels.
const (
	RiskLow    RiskLevel = "Low"
	RiskMedium RiskLevel = "Medium"
	RiskHigh   RiskLevel = "High"
)

// LevelOf returns Low below 10, Medium below 20 and High otherwise.
func LevelOf(score float64) RiskLevel {
	score = finite(score)
	switch {
	case score >= 20:
		return RiskHigh
	case score >= 10:
		return RiskMedium
	default:
		return RiskLow
	}
}

// ConsistencyRate is the share of consistent guards in percent, 0 when
// there are none.
func ConsistencyRate(c admin.AttendanceConsistency) float64 {
	total := c.Consistent + c.Irregular
	if total <= 0 {
		return 0
	}
	return float64(c.Consistent) / float64(total) * 100
}

// DisciplineItem is one non-zero discipline category.
type DisciplineItem struct {
	Label string `json:"label" yaml:"label"`
	Count int    `json:"count" yaml:"count"`
}

// DisciplineItems lists the displayed categories with a positive count.
func DisciplineItems(b admin.DisciplineBreakdown) []DisciplineItem {
	all := []DisciplineItem{
		{"Late", b.Late},
		{"Left early", b.EarlyLeave},
		{"Missed shift", b.MissedShift},
		{"Not clocked in yet", b.BelumAbsen},
	}
	out := make([]DisciplineItem, 0, len(all))
	for _, item := range all {
		if item.Count > 0 {
			out = append(out, item)
		}
	}
	return out
}

// TrendPoint is one day of the attendance trend.
type TrendPoint struct {
	Label      string `json:"label" yaml:"label"`
	Present    int    `json:"present" yaml:"present"`
	Late       int    `json:"late" yaml:"late"`
	Absent     int    `json:"absent" yaml:"absent"`
	BelumAbsen int    `json:"belum_absen" yaml:"belum_absen"`
}

// TrendPoints zips the trend series by label; short series read as zero.
func TrendPoints(t *admin.AttendanceTrend) []TrendPoint {
	if t == nil {
		return []TrendPoint{}
	}
	at := func(s []int, i int) int {
		if i < len(s) {
			return s[i]
		}
		return 0
	}
	out := make([]TrendPoint, len(t.Labels))
	for i, label := range t.Labels {
		out[i] = TrendPoint{
			Label:      label,
			Present:    at(t.Present, i),
			Late:       at(t.Late, i),
			Absent:     at(t.Absent, i),
			BelumAbsen: at(t.BelumAbsen, i),
		}
	}
	return out
}

// CurrentMonth formats now as YYYY-MM.
func CurrentMonth(now time.Time) string {
	return now.Format(MonthLayout)
}

// MonthRange returns the first and last calendar day of month.
func MonthRange(month string) (admin.DateRange, error) {
	start, err := time.Parse(MonthLayout, month)
	if err != nil {
		return admin.DateRange{}, fmt.Errorf("invalid month %q: expected YYYY-MM", month)
	}
	end := start.AddDate(0, 1, -1)
	return admin.DateRange{StartDate: start.Format(time.DateOnly), EndDate: end.Format(time.DateOnly)}, nil
}
