package eventlog

import (
	"strings"
	"time"

	"github.com/PratikDhanave/clinic-dashboard/internal/models"
)

const (
	// DefaultWindowDays is the chart window when none is requested.
	DefaultWindowDays = 7
	// MaxWindowDays keeps DD/MM labels unique within a window. A 366-day
	// window without Feb 29 starts and ends on the same DD/MM.
	MaxWindowDays = 365

	dayKeyLayout   = "2006-01-02"
	dayLabelLayout = "02/01"
)

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.000",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	dayKeyLayout,
}

// ParseTimestamp accepts the formats the back end has been seen to emit.
// Layouts without a zone are read in loc.
func ParseTimestamp(s string, loc *time.Location) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FromRaw maps one back-end record into its view record.
func FromRaw(raw models.RawEventLog, loc *time.Location) models.EventLogRecord {
	rec := models.EventLogRecord{
		ID:       raw.ID,
		EventID:  raw.EventID,
		Message:  raw.Message,
		Operator: raw.PerformedBy,
		Role:     raw.Role,
		Action:   string(ClassifyAction(raw.Message)),
		Status:   string(ClassifyStatus(raw.Message)),
		Category: string(ClassifyCategory(raw.Message)),
	}
	if rec.Operator == "" {
		rec.Operator = "System"
	}
	if ts, ok := ParseTimestamp(raw.CreatedAt, loc); ok {
		rec.Timestamp = ts
		rec.Date = ts.In(loc).Format(dayKeyLayout)
	}
	return rec
}

// FromRawList maps a whole listing, preserving order.
func FromRawList(raws []models.RawEventLog, loc *time.Location) []models.EventLogRecord {
	out := make([]models.EventLogRecord, 0, len(raws))
	for _, r := range raws {
		out = append(out, FromRaw(r, loc))
	}
	return out
}

// NormalizeDays clamps a requested window to [1, MaxWindowDays], using the
// default for non-positive values.
func NormalizeDays(days int) int {
	switch {
	case days < 1:
		return DefaultWindowDays
	case days > MaxWindowDays:
		return MaxWindowDays
	default:
		return days
	}
}

// Aggregate buckets records into a trailing window of days calendar days
// ending on now's day in loc, oldest first. Every day is present even with no
// events. Records without a date or outside the window are skipped for the
// buckets; the distribution counts all records.
func Aggregate(records []models.EventLogRecord, days int, now time.Time, loc *time.Location) ([]models.DailyEventBucket, models.Distribution) {
	if loc == nil {
		loc = time.Local
	}
	days = NormalizeDays(days)

	local := now.In(loc)
	today := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)

	buckets := make([]models.DailyEventBucket, days)
	index := make(map[string]int, days)
	for i := 0; i < days; i++ {
		d := today.AddDate(0, 0, i-(days-1))
		buckets[i].Date = d.Format(dayLabelLayout)
		index[d.Format(dayKeyLayout)] = i
	}

	var dist models.Distribution
	for _, rec := range records {
		status := normalizeStatus(rec.Status)
		countStatus(&dist, status)

		key, ok := dayKey(rec, loc)
		if !ok {
			continue
		}
		i, ok := index[key]
		if !ok {
			continue
		}
		b := &buckets[i]
		b.Total++
		switch status {
		case StatusSuccess:
			b.Success++
		case StatusWarning:
			b.Warning++
		case StatusError:
			b.Error++
		default:
			b.Info++
		}
	}
	return buckets, dist
}

func dayKey(rec models.EventLogRecord, loc *time.Location) (string, bool) {
	if !rec.Timestamp.IsZero() {
		return rec.Timestamp.In(loc).Format(dayKeyLayout), true
	}
	if rec.Date == "" {
		return "", false
	}
	if _, err := time.ParseInLocation(dayKeyLayout, rec.Date, loc); err != nil {
		return "", false
	}
	return rec.Date, true
}

func normalizeStatus(s string) Status {
	switch Status(s) {
	case StatusSuccess, StatusError, StatusWarning:
		return Status(s)
	default:
		return StatusInfo
	}
}

func countStatus(d *models.Distribution, s Status) {
	switch s {
	case StatusSuccess:
		d.Success++
	case StatusWarning:
		d.Warning++
	case StatusError:
		d.Error++
	default:
		d.Info++
	}
}
