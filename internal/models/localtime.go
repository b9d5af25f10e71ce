// ABOUTME: Local-time timestamp helpers shared by storage and the LLM planner
// ABOUTME: Timestamps are fixed-width ISO-8601 strings so they sort lexicographically
package models

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	// LocalLayout is the storage format for calendar timestamps (no zone, local time)
	LocalLayout = "2006-01-02T15:04:05"
	// DateLayout is the storage format for dates
	DateLayout = "2006-01-02"
)

var localDateTimeRe = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})[T ](\d{2})(?::(\d{2})(?::(\d{2}))?)?$`)

// ParseLocalDateTime parses "YYYY-MM-DDTHH[:MM[:SS]]" (a space may replace the T)
// as a naive wall-clock time. The result is zoned UTC only so that no daylight-saving
// rule can shift it; format it with FormatLocal and never compare it to time.Now.
func ParseLocalDateTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	m := localDateTimeRe.FindStringSubmatch(s)
	if m == nil {
		return time.Time{}, fmt.Errorf("invalid datetime %q", s)
	}

	parts := make([]int, 6)
	for i := 1; i <= 6; i++ {
		if m[i] == "" {
			continue
		}
		n, err := strconv.Atoi(m[i])
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid datetime %q: %w", s, err)
		}
		parts[i-1] = n
	}

	t := time.Date(parts[0], time.Month(parts[1]), parts[2], parts[3], parts[4], parts[5], 0, time.UTC)
	// time.Date normalizes out-of-range fields; reject them instead
	if t.Month() != time.Month(parts[1]) || t.Day() != parts[2] || t.Hour() != parts[3] || t.Minute() != parts[4] || t.Second() != parts[5] {
		return time.Time{}, fmt.Errorf("invalid datetime %q", s)
	}
	return t, nil
}

// ParseDate parses a "YYYY-MM-DD" date in the local zone
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, strings.TrimSpace(s), time.Local)
}

// FormatLocal formats t using LocalLayout
func FormatLocal(t time.Time) string {
	return t.Format(LocalLayout)
}

// FormatDate formats t using DateLayout
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// DayBounds returns the inclusive [start, end] local timestamps covering the given day
func DayBounds(day time.Time) (string, string) {
	y, m, d := day.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, day.Location())
	end := time.Date(y, m, d, 23, 59, 59, 0, day.Location())
	return FormatLocal(start), FormatLocal(end)
}
