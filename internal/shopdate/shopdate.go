// Package shopdate converts timestamps to the shop's calendar. All revenue
// recognition and report bucketing runs on shop-local dates (IST, UTC+5:30,
// no daylight saving); mixing those with UTC calendar dates for the same
// comparison is the bug class this package exists to prevent.
package shopdate

import (
	"strconv"
	"strings"
	"time"
)

// Location is the fixed shop timezone. India has no daylight saving, so a
// fixed zone is exact.
var Location = time.FixedZone("IST", 5*3600+30*60)

// Layout is the canonical shop-local date format.
const Layout = "2006-01-02"

var parseLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	Layout,
}

// DateString returns t's calendar date in shop-local time.
func DateString(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.In(Location).Format(Layout)
}

// Today returns the current shop-local calendar date.
func Today() string {
	return DateString(time.Now())
}

// Normalize accepts the timestamp representations found in legacy rows and
// client payloads and returns the shop-local date, or "" when the input is
// absent or unreadable. It never panics and never returns a partial date.
func Normalize(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case time.Time:
		return DateString(v)
	case *time.Time:
		if v == nil {
			return ""
		}
		return DateString(*v)
	case string:
		return normalizeString(v)
	case int64:
		return normalizeEpoch(v)
	case int:
		return normalizeEpoch(int64(v))
	case float64:
		return normalizeEpoch(int64(v))
	default:
		return ""
	}
}

func normalizeString(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	// A bare YYYY-MM-DD is already a calendar date; reinterpreting it
	// through a timezone would shift it.
	if len(raw) == len(Layout) {
		if t, err := time.Parse(Layout, raw); err == nil {
			return t.Format(Layout)
		}
	}

	for _, layout := range parseLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			if layout == "2006-01-02T15:04:05" || layout == "2006-01-02 15:04:05" {
				// No zone info in the raw value; treat it as UTC the way the
				// backend stores naive timestamps.
				t = t.UTC()
			}
			return DateString(t)
		}
	}

	if epoch, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return normalizeEpoch(epoch)
	}

	return ""
}

func normalizeEpoch(epoch int64) string {
	if epoch <= 0 {
		return ""
	}
	// Values this large are epoch milliseconds (anything past ~year 33658
	// in seconds).
	if epoch > 1e12 {
		return DateString(time.UnixMilli(epoch))
	}
	return DateString(time.Unix(epoch, 0))
}

// WeekBounds returns the Sunday and Saturday enclosing the given shop-local
// date. The weekday index is taken with Sunday=0, so the week start is the
// date minus its weekday index.
func WeekBounds(date string) (start, end string, ok bool) {
	t, err := time.ParseInLocation(Layout, date, Location)
	if err != nil {
		return "", "", false
	}
	weekday := int(t.Weekday())
	startT := t.AddDate(0, 0, -weekday)
	endT := startT.AddDate(0, 0, 6)
	return startT.Format(Layout), endT.Format(Layout), true
}

// WeekDays lists the seven dates of the week starting at the given Sunday.
func WeekDays(weekStart string) []string {
	t, err := time.ParseInLocation(Layout, weekStart, Location)
	if err != nil {
		return nil
	}
	days := make([]string, 7)
	for i := 0; i < 7; i++ {
		days[i] = t.AddDate(0, 0, i).Format(Layout)
	}
	return days
}

// AddDays shifts a shop-local date by the given number of days. Malformed
// input yields "".
func AddDays(date string, days int) string {
	t, err := time.ParseInLocation(Layout, date, Location)
	if err != nil {
		return ""
	}
	return t.AddDate(0, 0, days).Format(Layout)
}

// MonthBounds returns the first and last calendar day of the month containing
// the given shop-local date.
func MonthBounds(date string) (first, last string, ok bool) {
	t, err := time.ParseInLocation(Layout, date, Location)
	if err != nil {
		return "", "", false
	}
	firstT := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, Location)
	lastT := firstT.AddDate(0, 1, -1)
	return firstT.Format(Layout), lastT.Format(Layout), true
}

// Span is a contiguous run of dates, inclusive on both ends.
type Span struct {
	Start string
	End   string
}

// Days expands the span into its individual dates.
func (s Span) Days() []string {
	startT, err := time.ParseInLocation(Layout, s.Start, Location)
	if err != nil {
		return nil
	}
	endT, err := time.ParseInLocation(Layout, s.End, Location)
	if err != nil {
		return nil
	}
	var days []string
	for t := startT; !t.After(endT); t = t.AddDate(0, 0, 1) {
		days = append(days, t.Format(Layout))
	}
	return days
}

// MonthWeeks splits the month containing the given date into Sunday–Saturday
// spans clipped to the month, so the first and last weeks may be partial.
func MonthWeeks(date string) []Span {
	first, last, ok := MonthBounds(date)
	if !ok {
		return nil
	}
	firstT, _ := time.ParseInLocation(Layout, first, Location)
	lastT, _ := time.ParseInLocation(Layout, last, Location)

	var weeks []Span
	cursor := firstT
	for !cursor.After(lastT) {
		weekEnd := cursor.AddDate(0, 0, 6-int(cursor.Weekday()))
		if weekEnd.After(lastT) {
			weekEnd = lastT
		}
		weeks = append(weeks, Span{
			Start: cursor.Format(Layout),
			End:   weekEnd.Format(Layout),
		})
		cursor = weekEnd.AddDate(0, 0, 1)
	}
	return weeks
}
