// ABOUTME: Terminal rendering of an LLM plan for the pick and add commands
// ABOUTME: Shows the summary, severity, recommendation, proposed reminders and disclaimer
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/harper/microdoser/internal/i18n"
	"github.com/harper/microdoser/internal/models"
)

var (
	headingStyle = lipgloss.NewStyle().Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	alertStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	severityFg   = map[string]lipgloss.Color{
		models.SeverityLow:    lipgloss.Color("82"),
		models.SeverityMedium: lipgloss.Color("214"),
		models.SeverityHigh:   lipgloss.Color("196"),
	}
)

// SeverityBadge renders a severity value in its color; unknown values render plain
func SeverityBadge(severity string) string {
	fg, ok := severityFg[severity]
	if !ok {
		return severity
	}
	return lipgloss.NewStyle().Bold(true).Foreground(fg).Render(strings.ToUpper(severity))
}

// RenderPlan formats plan for the terminal. Section labels follow lang.
func RenderPlan(plan *models.Plan, lang string) string {
	if plan == nil {
		return ""
	}
	labels := i18n.For(lang)

	var b strings.Builder
	if plan.UIHints.Summary != "" {
		b.WriteString(headingStyle.Render(plan.UIHints.Summary))
		b.WriteString("\n")
	}
	if plan.UIHints.Severity != "" {
		fmt.Fprintf(&b, "Severity: %s\n", SeverityBadge(plan.UIHints.Severity))
	}
	if plan.UIHints.Emergency {
		b.WriteString(alertStyle.Render("Emergency: seek urgent medical help"))
		b.WriteString("\n")
	} else if plan.UIHints.NeedDoctor {
		b.WriteString(alertStyle.Render("See a doctor"))
		b.WriteString("\n")
	}

	for _, rec := range plan.Recommendations {
		b.WriteString("\n")
		name := rec.Name
		if rec.Dose != "" {
			name += " " + rec.Dose
		}
		b.WriteString(headingStyle.Render(name))
		b.WriteString("\n")
		writeLine(&b, rec.HowToTake)
		writeLine(&b, rec.Course)
		writeList(&b, labels.Warnings, rec.Warnings)
		writeList(&b, labels.Contraindications, rec.Contraindications)
		writeList(&b, labels.Interactions, rec.Interactions)
	}

	if events := plan.Planner.CalendarEvents; len(events) > 0 {
		b.WriteString("\n")
		b.WriteString(headingStyle.Render(labels.Reminder))
		b.WriteString("\n")
		for _, ev := range events {
			fmt.Fprintf(&b, "  %s  %s", ev.Datetime, ev.Title)
			if ev.DurationMin > 0 {
				fmt.Fprintf(&b, " (%g min)", ev.DurationMin)
			}
			b.WriteString("\n")
		}
	}

	if plan.Disclaimer != "" {
		b.WriteString("\n")
		b.WriteString(mutedStyle.Render(plan.Disclaimer))
		b.WriteString("\n")
	}
	return b.String()
}

func writeLine(b *strings.Builder, s string) {
	if s = strings.TrimSpace(s); s != "" {
		fmt.Fprintf(b, "  %s\n", s)
	}
}

func writeList(b *strings.Builder, label string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "  %s: %s\n", label, strings.Join(items, "; "))
}
