// ABOUTME: Shared helpers for CLI commands
// ABOUTME: Text truncation, relative times, date ranges and flag validation
package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/harper/microdoser/internal/models"
)

// truncate shortens a string to maxLen runes, adding "..." if truncated
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}

// oneLine collapses newlines so multi-line text fits a table cell
func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// formatTime formats a time for display
func formatTime(t time.Time) string {
	diff := time.Since(t)

	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	}
	return t.Format("2006-01-02")
}

// parseRange parses --from/--to dates. An empty from means today and an empty
// to means defaultDays after from.
func parseRange(rawFrom, rawTo string, defaultDays int) (time.Time, time.Time, error) {
	now := time.Now()
	from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local)
	if rawFrom != "" {
		parsed, err := models.ParseDate(rawFrom)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("--from must be YYYY-MM-DD, got %q", rawFrom)
		}
		from = parsed
	}

	to := from.AddDate(0, 0, defaultDays)
	if rawTo != "" {
		parsed, err := models.ParseDate(rawTo)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("--to must be YYYY-MM-DD, got %q", rawTo)
		}
		to = parsed
	}

	if to.Before(from) {
		return time.Time{}, time.Time{}, fmt.Errorf("--to (%s) is before --from (%s)", models.FormatDate(to), models.FormatDate(from))
	}
	return from, to, nil
}

// validatePositiveInt returns error if n is not positive
func validatePositiveInt(n int, name string) error {
	if n <= 0 {
		return fmt.Errorf("%s must be positive, got %d", name, n)
	}
	return nil
}

// validateNonNegativeInt returns error if n is negative
func validateNonNegativeInt(n int, name string) error {
	if n < 0 {
		return fmt.Errorf("%s must not be negative, got %d", name, n)
	}
	return nil
}

// maskSecret keeps the last four characters of a secret
func maskSecret(s string) string {
	if len(s) <= 4 {
		return strings.Repeat("*", len(s))
	}
	return strings.Repeat("*", 8) + s[len(s)-4:]
}
