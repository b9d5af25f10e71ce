// ABOUTME: Plan is the structured reply expected from the LLM for pick/add actions
// ABOUTME: Mirrors the medicine_plan JSON schema sent with every request
package models

// Severity levels reported in UIHints
const (
	SeverityLow    = "low"
	SeverityMedium = "medium"
	SeverityHigh   = "high"
)

// Plan is the normalized LLM response
type Plan struct {
	UIHints         UIHints          `json:"ui_hints"`
	Recommendations []Recommendation `json:"recommendations"`
	Planner         Planner          `json:"planner"`
	Disclaimer      string           `json:"disclaimer"`
}

// UIHints summarizes the reply for display
type UIHints struct {
	Summary    string `json:"summary"`
	Severity   string `json:"severity"`
	NeedDoctor bool   `json:"need_doctor"`
	Emergency  bool   `json:"emergency"`
}

// Recommendation is a single suggested medicine
type Recommendation struct {
	Name              string   `json:"name"`
	Dose              string   `json:"dose"`
	HowToTake         string   `json:"how_to_take"`
	Course            string   `json:"course"`
	Warnings          []string `json:"warnings"`
	Contraindications []string `json:"contraindications"`
	Interactions      []string `json:"interactions"`
}

// Planner holds the rows the reply wants persisted
type Planner struct {
	StartDate      string         `json:"start_date,omitempty"`
	CalendarEvents []PlannedEvent `json:"calendar_events"`
	DiaryEntry     *PlannedText   `json:"diary_entry,omitempty"`
	Notes          []PlannedText  `json:"notes"`
}

// PlannedEvent is a calendar event proposed by the model.
// RemindersMinBefore is never requested from the model; it is set on synthesized events.
type PlannedEvent struct {
	Title              string  `json:"title"`
	Datetime           string  `json:"datetime"`
	DurationMin        float64 `json:"duration_min"`
	Note               string  `json:"note"`
	RemindersMinBefore []int   `json:"reminders_min_before,omitempty"`
}

// PlannedText is a title/body pair used for diary entries and notes
type PlannedText struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// FirstRecommendation returns the first recommendation, or nil when there is none
func (p *Plan) FirstRecommendation() *Recommendation {
	if p == nil || len(p.Recommendations) == 0 {
		return nil
	}
	return &p.Recommendations[0]
}
