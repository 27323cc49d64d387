package admin

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/siagacs/siaga-admin/internal/api"
)

// ErrReasonRequired is returned when a forced clock-out has no reason.
var ErrReasonRequired = errors.New("reason is required")

// SpotRef names the spot a clock event happened at.
type SpotRef struct {
	ID   int64  `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

// ClockEvent is one side of an attendance record.
type ClockEvent struct {
	Time *string  `json:"time,omitempty" yaml:"time,omitempty"`
	Spot *SpotRef `json:"spot,omitempty" yaml:"spot,omitempty"`
}

// Activity is a patrol photo taken during a shift.
type Activity struct {
	ID       int64    `json:"id" yaml:"id"`
	PhotoURL string   `json:"photo_url" yaml:"photo_url"`
	Note     *string  `json:"note,omitempty" yaml:"note,omitempty"`
	TakenAt  string   `json:"taken_at" yaml:"taken_at"`
	Spot     *SpotRef `json:"spot,omitempty" yaml:"spot,omitempty"`
}

// AttendanceItem is one attendance record in the monitoring view.
type AttendanceItem struct {
	AttendanceID int64 `json:"attendance_id" yaml:"attendance_id"`
	User         struct {
		ID   int64  `json:"id" yaml:"id"`
		Name string `json:"name" yaml:"name"`
	} `json:"user" yaml:"user"`
	Shift struct {
		Name string `json:"name" yaml:"name"`
	} `json:"shift" yaml:"shift"`
	ClockInTime      *string     `json:"clock_in_time,omitempty" yaml:"clock_in_time,omitempty"`
	ClockOutTime     *string     `json:"clock_out_time,omitempty" yaml:"clock_out_time,omitempty"`
	Status           *string     `json:"status,omitempty" yaml:"status,omitempty"`
	ClockInPhotoURL  *string     `json:"clock_in_photo_url,omitempty" yaml:"clock_in_photo_url,omitempty"`
	ClockOutPhotoURL *string     `json:"clock_out_photo_url,omitempty" yaml:"clock_out_photo_url,omitempty"`
	FaceVerified     bool        `json:"face_verified" yaml:"face_verified"`
	FaceMatchScore   *float64    `json:"face_match_score,omitempty" yaml:"face_match_score,omitempty"`
	ClockIn          *ClockEvent `json:"clock_in,omitempty" yaml:"clock_in,omitempty"`
	ClockOut         *ClockEvent `json:"clock_out,omitempty" yaml:"clock_out,omitempty"`
	Activities       []Activity  `json:"activities,omitempty" yaml:"activities,omitempty"`
}

// DateRange is an inclusive export window.
type DateRange struct {
	StartDate string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate   string `json:"end_date" validate:"required,datetime=2006-01-02"`
}

// Validate checks both bounds and their order.
func (r DateRange) Validate() error {
	if err := Validate(r); err != nil {
		return err
	}
	// ISO dates order lexically
	if r.EndDate < r.StartDate {
		return &ValidationError{Fields: map[string]string{"end_date": "gtefield"}}
	}
	return nil
}

// Query encodes the range as export parameters.
func (r DateRange) Query() url.Values {
	return url.Values{"start_date": {r.StartDate}, "end_date": {r.EndDate}}
}

// FileName is the default name of the exported workbook.
func (r DateRange) FileName() string {
	return fmt.Sprintf("attendance_export_%s_%s.xlsx", r.StartDate, r.EndDate)
}

// ListAttendance returns the attendance records of a day.
func (c *Client) ListAttendance(ctx context.Context, date string) ([]AttendanceItem, error) {
	return api.GetList[AttendanceItem](ctx, c.api, pathAttendance, dateQuery(date))
}

// ListOpenAttendance returns records that were clocked in but not out.
func (c *Client) ListOpenAttendance(ctx context.Context) ([]AttendanceItem, error) {
	return api.GetList[AttendanceItem](ctx, c.api, pathAttendance+"/open", nil)
}

// ForceClockOut closes an open attendance record on the guard's behalf.
func (c *Client) ForceClockOut(ctx context.Context, attendanceID int64, reason string) error {
	if strings.TrimSpace(reason) == "" {
		return ErrReasonRequired
	}
	payload := struct {
		Reason string `json:"reason"`
	}{reason}
	return api.Exec(ctx, c.api, http.MethodPost, itemPath(pathAttendance, attendanceID, "force-clock-out"), payload)
}

// ExportAttendance downloads the attendance workbook for r.
func (c *Client) ExportAttendance(ctx context.Context, r DateRange) (*api.File, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	file, err := c.api.Download(ctx, pathExport+"/attendance-monitoring", r.Query())
	if err != nil {
		return nil, err
	}
	if file.Name == "" {
		file.Name = r.FileName()
	}
	return file, nil
}

// OpenIDs indexes open records by attendance id.
func OpenIDs(open []AttendanceItem) map[int64]bool {
	ids := make(map[int64]bool, len(open))
	for _, item := range open {
		ids[item.AttendanceID] = true
	}
	return ids
}

var clockLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02 15:04:05"}

func parseClock(s string) (time.Time, bool) {
	for _, layout := range clockLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// OpenDuration renders how long a record has been open as "Xh Ym".
// A missing or unparsable clock-in yields "-"; a clock-in at or after now
// yields "0m".
func OpenDuration(clockIn *string, now time.Time) string {
	if clockIn == nil || *clockIn == "" {
		return "-"
	}
	start, ok := parseClock(*clockIn)
	if !ok {
		return "-"
	}
	diff := now.Sub(start)
	if diff <= 0 {
		return "0m"
	}

	total := int(diff / time.Minute)
	hours, minutes := total/60, total%60
	var parts []string
	if hours > 0 {
		parts = append(parts, fmt.Sprintf("%dh", hours))
	}
	if minutes > 0 {
		parts = append(parts, fmt.Sprintf("%dm", minutes))
	}
	if len(parts) == 0 {
		return "0m"
	}
	return strings.Join(parts, " ")
}
