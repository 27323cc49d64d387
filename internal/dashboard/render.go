package dashboard

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/siagacs/siaga-admin/internal/admin"
	"github.com/siagacs/siaga-admin/internal/tui"
)

// Render writes the terminal dashboard for month to w.
func Render(w io.Writer, d *admin.Dashboard, month string) error {
	s := tui.NewStyles(w)
	var b strings.Builder

	b.WriteString(s.Title.Render("Attendance Dashboard · " + month))
	b.WriteString("\n")
	if d.HeroInsight != nil && d.HeroInsight.Headline != "" {
		b.WriteString(s.ForStatus(heroStatus(d.HeroInsight.Severity)).Render(d.HeroInsight.Headline))
		if d.HeroInsight.Context != "" {
			b.WriteString(" " + s.Muted.Render(d.HeroInsight.Context))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")

	section(&b, s, "Executive Summary")
	cards := []string{card(s, "Total Satpam", strconv.Itoa(d.Summary.TotalSecurity), "", StatusGood)}
	for _, k := range KPICards(d) {
		cards = append(cards, card(s, k.Label, FormatKPIValue(k), DeltaLabel(k), k.Status))
	}
	b.WriteString(tui.Cards(s, cards...))
	b.WriteString("\n\n")

	section(&b, s, "Attendance Trend")
	points := TrendPoints(d.AttendanceTrend)
	if len(points) == 0 {
		b.WriteString(s.Muted.Render("No attendance data this month.") + "\n")
	} else {
		rows := make([][]string, len(points))
		for i, p := range points {
			rows[i] = []string{p.Label, strconv.Itoa(p.Present), strconv.Itoa(p.Late), strconv.Itoa(p.Absent), strconv.Itoa(p.BelumAbsen)}
		}
		b.WriteString(tui.Table(s, []string{"DATE", "PRESENT", "LATE", "ABSENT", "NOT YET"}, rows) + "\n")
	}
	b.WriteString("\n")

	if d.DisciplineBreakdown != nil {
		section(&b, s, "Discipline Breakdown")
		items := DisciplineItems(*d.DisciplineBreakdown)
		if len(items) == 0 {
			b.WriteString(s.Muted.Render("No discipline issues this month.") + "\n")
		}
		for _, item := range items {
			fmt.Fprintf(&b, "  %-20s %d\n", item.Label, item.Count)
		}
		b.WriteString("\n")
	}

	section(&b, s, "Risk / Red-Flag Personnel")
	if len(d.RiskEmployees) == 0 {
		b.WriteString(s.Muted.Render("No flagged personnel.") + "\n")
	} else {
		rows := make([][]string, len(d.RiskEmployees))
		for i, r := range d.RiskEmployees {
			level := LevelOf(r.RiskScore)
			rows[i] = []string{r.Name, r.Position, fmt.Sprintf("%s (%.0f)", level, r.RiskScore), r.RiskReason}
		}
		b.WriteString(tui.Table(s, []string{"NAME", "POSITION", "RISK", "REASON"}, rows) + "\n")
	}
	b.WriteString("\n")

	if c := d.AttendanceConsistency; c != nil {
		section(&b, s, "Attendance Consistency")
		fmt.Fprintf(&b, "  Consistent  %d (%.1f%% of total)\n", c.Consistent, ConsistencyRate(*c))
		fmt.Fprintf(&b, "  Irregular   %d\n", c.Irregular)
		fmt.Fprintf(&b, "  Avg days    %.1f\n\n", finite(c.AvgStreakDays))
	}

	if a := d.AuditCompliance; a != nil {
		section(&b, s, "Audit & Compliance")
		fmt.Fprintf(&b, "  Manual override     %d\n", a.ManualOverride)
		fmt.Fprintf(&b, "  Data completeness   %.1f%%\n", finite(a.DataCompleteness))
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func section(b *strings.Builder, s tui.Styles, title string) {
	b.WriteString(s.Status.Render(title))
	b.WriteString("\n")
}

func card(s tui.Styles, label, value, delta, status string) string {
	lines := []string{s.Muted.Render(strings.ToUpper(label)), s.Title.Render(value)}
	if delta != "" {
		lines = append(lines, s.ForStatus(status).Render(delta)+" "+s.Muted.Render(StatusLabel(status)))
	}
	return strings.Join(lines, "\n")
}

func heroStatus(severity string) string {
	switch severity {
	case "critical":
		return StatusBad
	case "warning":
		return StatusWarning
	default:
		return StatusGood
	}
}
