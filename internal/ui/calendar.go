// ABOUTME: Terminal month grid for the calendar command
// ABOUTME: Days with reminders are highlighted and marked with a dot
package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/harper/microdoser/internal/i18n"
)

const cellWidth = 4

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	headerStyle  = lipgloss.NewStyle().Width(cellWidth).Align(lipgloss.Right).Foreground(lipgloss.Color("240"))
	dayStyle     = lipgloss.NewStyle().Width(cellWidth).Align(lipgloss.Right)
	eventStyle   = dayStyle.Foreground(lipgloss.Color("82")).Bold(true)
	todayStyle   = dayStyle.Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57"))
	frameStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 1)
	eventMarker  = "•"
	russianMonth = []string{"Январь", "Февраль", "Март", "Апрель", "Май", "Июнь", "Июль", "Август", "Сентябрь", "Октябрь", "Ноябрь", "Декабрь"}
	weekdays     = map[string][]string{
		i18n.English: {"Mo", "Tu", "We", "Th", "Fr", "Sa", "Su"},
		i18n.Russian: {"Пн", "Вт", "Ср", "Чт", "Пт", "Сб", "Вс"},
	}
)

// ParseMonth parses "YYYY-MM" into the first day of that month in the local zone
func ParseMonth(s string) (time.Time, error) {
	t, err := time.ParseInLocation("2006-01", strings.TrimSpace(s), time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid month %q, expected YYYY-MM", s)
	}
	return t, nil
}

// MonthBounds returns the first and last day of month
func MonthBounds(month time.Time) (time.Time, time.Time) {
	first := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, month.Location())
	last := first.AddDate(0, 1, -1)
	return first, last
}

// MonthTitle returns e.g. "March 2025" or "Март 2025"
func MonthTitle(month time.Time, lang string) string {
	name := month.Month().String()
	if i18n.Normalize(lang) == i18n.Russian {
		name = russianMonth[month.Month()-1]
	}
	return fmt.Sprintf("%s %d", name, month.Year())
}

// RenderMonth draws month as a Monday-first grid. eventCounts maps day-of-month
// to the number of events that day; today is highlighted when it falls in month.
func RenderMonth(month time.Time, eventCounts map[int]int, today time.Time, lang string) string {
	first, last := MonthBounds(month)
	lang = i18n.Normalize(lang)

	var header strings.Builder
	for _, wd := range weekdays[lang] {
		header.WriteString(headerStyle.Render(wd))
	}

	lines := []string{titleStyle.Render(MonthTitle(month, lang)), header.String()}

	// Monday = 0
	offset := (int(first.Weekday()) + 6) % 7
	var row strings.Builder
	for i := 0; i < offset; i++ {
		row.WriteString(dayStyle.Render(""))
	}

	sameMonth := today.Year() == first.Year() && today.Month() == first.Month()
	for day := 1; day <= last.Day(); day++ {
		label := fmt.Sprintf("%d", day)
		style := dayStyle
		if eventCounts[day] > 0 {
			label += eventMarker
			style = eventStyle
		}
		if sameMonth && today.Day() == day {
			style = todayStyle
		}
		row.WriteString(style.Render(label))

		if (offset+day)%7 == 0 {
			lines = append(lines, row.String())
			row.Reset()
		}
	}
	if row.Len() > 0 {
		lines = append(lines, row.String())
	}

	return frameStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}
