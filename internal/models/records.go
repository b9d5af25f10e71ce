// ABOUTME: Persisted record types for the local medication store
// ABOUTME: One struct per table; nullable columns are pointers
package models

import "time"

// LLM run status values
const (
	RunStatusOK    = "ok"
	RunStatusError = "error"
)

// LlmRun is one row of the append-only model invocation log
type LlmRun struct {
	ID           int64     `json:"id"`
	RequestID    string    `json:"request_id"`
	Language     string    `json:"language"`
	Model        string    `json:"model"`
	UserText     string    `json:"user_text"`
	ResponseJSON string    `json:"response_json"`
	Status       string    `json:"status"`
	ErrorText    string    `json:"error_text,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// Medicine is deduplicated by (Name, Form, StrengthMg)
type Medicine struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	Form       *string   `json:"form,omitempty"`
	StrengthMg *int64    `json:"strength_mg,omitempty"`
	Notes      string    `json:"notes,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// IntakePlan is a medication instruction derived from one recommendation
type IntakePlan struct {
	ID               int64     `json:"id"`
	MedicineID       *int64    `json:"medicine_id,omitempty"`
	MedicineNameText string    `json:"medicine_name_text"`
	DoseMg           *int64    `json:"dose_mg,omitempty"`
	MaxPerDayMg      *int64    `json:"max_per_day_mg,omitempty"`
	Instructions     string    `json:"instructions,omitempty"`
	StartDate        string    `json:"start_date,omitempty"`
	EndDate          string    `json:"end_date,omitempty"`
	Times            []string  `json:"times,omitempty"`
	FrequencyHours   *int64    `json:"frequency_hours,omitempty"`
	SourceLlmRunID   *int64    `json:"source_llm_run_id,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

// CalendarEvent is a reminder shown on the calendar; StartLocal uses LocalLayout
type CalendarEvent struct {
	ID                 int64          `json:"id"`
	Title              string         `json:"title"`
	StartLocal         string         `json:"start_local"`
	EndLocal           string         `json:"end_local,omitempty"`
	Recurrence         map[string]any `json:"recurrence,omitempty"`
	RemindersMinBefore []int          `json:"reminders_min_before,omitempty"`
	Notes              string         `json:"notes,omitempty"`
	IntakePlanID       *int64         `json:"intake_plan_id,omitempty"`
	SourceLlmRunID     *int64         `json:"source_llm_run_id,omitempty"`
	CreatedAt          time.Time      `json:"created_at"`
}

// TimeHHMM returns the "HH:MM" part of StartLocal, or "" when it is malformed
func (e *CalendarEvent) TimeHHMM() string {
	t, err := ParseLocalDateTime(e.StartLocal)
	if err != nil {
		return ""
	}
	return t.Format("15:04")
}

// DiaryEntry is free text keyed by date (DateLayout)
type DiaryEntry struct {
	ID             int64     `json:"id"`
	EntryDate      string    `json:"entry_date"`
	Text           string    `json:"text"`
	SourceLlmRunID *int64    `json:"source_llm_run_id,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// Note is a title/body pair
type Note struct {
	ID             int64     `json:"id"`
	Title          string    `json:"title"`
	Body           string    `json:"body"`
	SourceLlmRunID *int64    `json:"source_llm_run_id,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Int64Ptr returns a pointer to v
func Int64Ptr(v int64) *int64 {
	return &v
}
