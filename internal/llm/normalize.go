// ABOUTME: Post-processing applied to every parsed plan before it is shown or saved
// ABOUTME: Keeps one recommendation and guarantees at least one calendar event
package llm

import (
	"strings"
	"time"

	"github.com/harper/microdoser/internal/i18n"
	"github.com/harper/microdoser/internal/models"
)

const (
	defaultEventHour     = 9
	defaultEventReminder = 10
)

// TruncateRecommendations keeps at most the first recommendation
func TruncateRecommendations(p *models.Plan) {
	if p != nil && len(p.Recommendations) > 1 {
		p.Recommendations = p.Recommendations[:1]
	}
}

// SynthesizeDefaultEvent appends a 09:00 reminder on the planner start date when the
// model proposed no events. It reports whether an event was added; nothing is added
// when start_date is missing or not a YYYY-MM-DD date.
func SynthesizeDefaultEvent(p *models.Plan, lang string) bool {
	if p == nil || len(p.Planner.CalendarEvents) > 0 {
		return false
	}

	day, err := models.ParseDate(p.Planner.StartDate)
	if err != nil {
		return false
	}

	labels := i18n.For(lang)
	title := labels.TakeMedicine
	if rec := p.FirstRecommendation(); rec != nil && strings.TrimSpace(rec.Name) != "" {
		title = strings.TrimSpace(rec.Name)
	}

	start := time.Date(day.Year(), day.Month(), day.Day(), defaultEventHour, 0, 0, 0, time.Local)
	p.Planner.CalendarEvents = append(p.Planner.CalendarEvents, models.PlannedEvent{
		Title:              title,
		Datetime:           models.FormatLocal(start),
		Note:               labels.AutoEventNote,
		RemindersMinBefore: []int{defaultEventReminder},
	})
	return true
}

// Normalize truncates recommendations, fills a missing or malformed start date with
// now's date, then synthesizes the default event if needed
func Normalize(p *models.Plan, now time.Time, lang string) {
	if p == nil {
		return
	}

	TruncateRecommendations(p)

	if _, err := models.ParseDate(p.Planner.StartDate); err != nil {
		p.Planner.StartDate = models.FormatDate(now)
	}

	SynthesizeDefaultEvent(p, lang)
}
