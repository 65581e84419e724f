package csv

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Accepted calendar-date shapes, tried in order.
var (
	isoDate  = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})$`)
	dmySlash = regexp.MustCompile(`^(\d{2})/(\d{2})/(\d{4})$`)
	dmyDash  = regexp.MustCompile(`^(\d{2})-(\d{2})-(\d{4})$`)
)

// ParseCalendarDate converts a user-supplied calendar date to an end-of-day
// timestamp: 23:59:59.999 local time on that date.
//
// Exactly three shapes are accepted: YYYY-MM-DD, DD/MM/YYYY, DD-MM-YYYY.
// Anything else returns nil, as does a matching shape that is not a real
// calendar date (month 13, Feb 30). Empty or whitespace-only input returns
// nil too; distinguishing "no expiry" from "bad format" is the caller's job,
// which re-checks the raw value.
func ParseCalendarDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	var year, month, day int

	if m := isoDate.FindStringSubmatch(s); m != nil {
		year, _ = strconv.Atoi(m[1])
		month, _ = strconv.Atoi(m[2])
		day, _ = strconv.Atoi(m[3])
	} else if m := dmySlash.FindStringSubmatch(s); m != nil {
		day, _ = strconv.Atoi(m[1])
		month, _ = strconv.Atoi(m[2])
		year, _ = strconv.Atoi(m[3])
	} else if m := dmyDash.FindStringSubmatch(s); m != nil {
		day, _ = strconv.Atoi(m[1])
		month, _ = strconv.Atoi(m[2])
		year, _ = strconv.Atoi(m[3])
	} else {
		return nil
	}

	t := time.Date(year, time.Month(month), day, 23, 59, 59, 999_000_000, time.Local)

	// time.Date normalizes out-of-range components (Feb 30 becomes Mar 1/2),
	// so an input that does not survive the round trip was not a real date.
	if t.Year() != year || t.Month() != time.Month(month) || t.Day() != day {
		return nil
	}
	return &t
}

// FormatCalendarDate is the export-side inverse of ParseCalendarDate. It
// emits YYYY-MM-DD from the timestamp's UTC calendar date: exports slice the
// ISO instant in UTC rather than local time so the same file round-trips
// identically no matter which machine exported it.
func FormatCalendarDate(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}
