// ABOUTME: Tests for plan normalization
// ABOUTME: Recommendation truncation and default calendar event synthesis
package llm

import (
	"testing"
	"time"

	"github.com/harper/microdoser/internal/models"
)

func TestTruncateRecommendations(t *testing.T) {
	for _, n := range []int{0, 1, 2, 5} {
		plan := &models.Plan{Recommendations: make([]models.Recommendation, n)}
		TruncateRecommendations(plan)
		if len(plan.Recommendations) > 1 {
			t.Errorf("n=%d: len = %d, want <= 1", n, len(plan.Recommendations))
		}
		if n > 0 && len(plan.Recommendations) != 1 {
			t.Errorf("n=%d: first recommendation dropped", n)
		}
	}

	TruncateRecommendations(nil)
}

func TestSynthesizeDefaultEvent(t *testing.T) {
	existing := []models.PlannedEvent{{Title: "x", Datetime: "2025-03-01T08:00"}}

	tests := []struct {
		name      string
		events    []models.PlannedEvent
		startDate string
		recs      []models.Recommendation
		lang      string
		want      bool
		wantTitle string
	}{
		{name: "empty events with date", startDate: "2025-03-01", recs: []models.Recommendation{{Name: "Ibuprofen"}}, lang: "en", want: true, wantTitle: "Ibuprofen"},
		{name: "title falls back in english", startDate: "2025-03-01", lang: "en", want: true, wantTitle: "Take medicine"},
		{name: "title falls back in russian", startDate: "2025-03-01", lang: "ru", want: true, wantTitle: "Приём лекарства"},
		{name: "blank name falls back", startDate: "2025-03-01", recs: []models.Recommendation{{Name: "  "}}, lang: "en", want: true, wantTitle: "Take medicine"},
		{name: "events present", events: existing, startDate: "2025-03-01", want: false},
		{name: "no start date", want: false},
		{name: "malformed start date", startDate: "01.03.2025", want: false},
		{name: "events present and no date", events: existing, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := &models.Plan{Recommendations: tt.recs}
			plan.Planner.StartDate = tt.startDate
			plan.Planner.CalendarEvents = append([]models.PlannedEvent(nil), tt.events...)
			before := len(plan.Planner.CalendarEvents)

			got := SynthesizeDefaultEvent(plan, tt.lang)
			if got != tt.want {
				t.Fatalf("SynthesizeDefaultEvent() = %v, want %v", got, tt.want)
			}

			if !tt.want {
				if len(plan.Planner.CalendarEvents) != before {
					t.Errorf("events changed from %d to %d", before, len(plan.Planner.CalendarEvents))
				}
				return
			}

			if len(plan.Planner.CalendarEvents) != 1 {
				t.Fatalf("events = %d, want 1", len(plan.Planner.CalendarEvents))
			}
			event := plan.Planner.CalendarEvents[0]
			if event.Datetime != tt.startDate+"T09:00:00" {
				t.Errorf("Datetime = %q, want %sT09:00:00", event.Datetime, tt.startDate)
			}
			if event.Title != tt.wantTitle {
				t.Errorf("Title = %q, want %q", event.Title, tt.wantTitle)
			}
			if len(event.RemindersMinBefore) != 1 || event.RemindersMinBefore[0] != 10 {
				t.Errorf("RemindersMinBefore = %v, want [10]", event.RemindersMinBefore)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	now := time.Date(2025, 7, 14, 15, 30, 0, 0, time.Local)

	t.Run("fills start date and event", func(t *testing.T) {
		plan := &models.Plan{Recommendations: []models.Recommendation{{Name: "A"}, {Name: "B"}}}
		Normalize(plan, now, "en")

		if len(plan.Recommendations) != 1 || plan.Recommendations[0].Name != "A" {
			t.Errorf("Recommendations = %+v", plan.Recommendations)
		}
		if plan.Planner.StartDate != "2025-07-14" {
			t.Errorf("StartDate = %q, want 2025-07-14", plan.Planner.StartDate)
		}
		if len(plan.Planner.CalendarEvents) != 1 || plan.Planner.CalendarEvents[0].Datetime != "2025-07-14T09:00:00" {
			t.Errorf("CalendarEvents = %+v", plan.Planner.CalendarEvents)
		}
	})

	t.Run("keeps valid start date", func(t *testing.T) {
		plan := &models.Plan{}
		plan.Planner.StartDate = "2025-08-01"
		Normalize(plan, now, "ru")

		if plan.Planner.StartDate != "2025-08-01" {
			t.Errorf("StartDate = %q", plan.Planner.StartDate)
		}
		if plan.Planner.CalendarEvents[0].Datetime != "2025-08-01T09:00:00" {
			t.Errorf("Datetime = %q", plan.Planner.CalendarEvents[0].Datetime)
		}
	})

	t.Run("leaves model events alone", func(t *testing.T) {
		plan := &models.Plan{}
		plan.Planner.CalendarEvents = []models.PlannedEvent{{Title: "x", Datetime: "2025-07-15T20:00"}}
		Normalize(plan, now, "en")

		if len(plan.Planner.CalendarEvents) != 1 || plan.Planner.CalendarEvents[0].Title != "x" {
			t.Errorf("CalendarEvents = %+v", plan.Planner.CalendarEvents)
		}
	})

	Normalize(nil, now, "en")
}

func TestClampMaxTokens(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{0, 1200},
		{-5, 1200},
		{50, 128},
		{128, 128},
		{1500, 1500},
		{2000, 2000},
		{65536, 2000},
	}
	for _, tt := range tests {
		if got := ClampMaxTokens(tt.in); got != tt.want {
			t.Errorf("ClampMaxTokens(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
