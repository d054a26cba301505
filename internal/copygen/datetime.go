package copygen

import (
	"fmt"
	"strings"
	"time"
)

var weekdayNames = [7]string{"周日", "周一", "周二", "周三", "周四", "周五", "周六"}

// Zone-less layouts accepted from forms, tried in order after RFC3339.
var localLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseEventTime parses an ISO-8601 style timestamp. Timestamps carrying a zone are converted into loc,
// zone-less ones are read as wall time in loc.
func ParseEventTime(ts string, loc *time.Location) (time.Time, bool) {
	ts = strings.TrimSpace(ts)
	if ts == "" {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.Local
	}
	if t, err := time.Parse(time.RFC3339Nano, ts); err == nil {
		return t.In(loc), true
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, ts, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormatDisplay renders "3月15日 周五 09:05". Empty or unparseable input yields "".
func FormatDisplay(ts string, loc *time.Location) string {
	t, ok := ParseEventTime(ts, loc)
	if !ok {
		return ""
	}
	return fmt.Sprintf("%d月%d日 %s %02d:%02d", int(t.Month()), t.Day(), weekdayNames[t.Weekday()], t.Hour(), t.Minute())
}

// FormatDateOnly renders "3月15日". Empty or unparseable input yields "".
func FormatDateOnly(ts string, loc *time.Location) string {
	t, ok := ParseEventTime(ts, loc)
	if !ok {
		return ""
	}
	return fmt.Sprintf("%d月%d日", int(t.Month()), t.Day())
}
