// ABOUTME: Persists a normalized plan across the run log, medicines, plans, calendar, diary and notes
// ABOUTME: Rows are written in order without a transaction, so a failure keeps earlier rows
package core

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/harper/microdoser/internal/i18n"
	"github.com/harper/microdoser/internal/models"
	"github.com/harper/microdoser/internal/storage/sqlite"
)

// SaveInput is one successful LLM reply plus the request it answered
type SaveInput struct {
	RequestID string
	UserText  string
	Model     string
	Language  string
	Plan      *models.Plan
	RawJSON   string
}

// SavedPlan lists the ids created by SaveResult
type SavedPlan struct {
	LlmRunID         int64   `json:"llm_run_id"`
	IntakePlanIDs    []int64 `json:"intake_plan_ids"`
	CalendarEventIDs []int64 `json:"calendar_event_ids"`
	DiaryEntryIDs    []int64 `json:"diary_entry_ids"`
	NoteIDs          []int64 `json:"note_ids"`
}

// Saver writes LLM replies into storage
type Saver struct {
	store  *sqlite.Storage
	logger *log.Logger
	now    func() time.Time
}

// NewSaver creates a Saver
func NewSaver(store *sqlite.Storage, logger *log.Logger) *Saver {
	if logger == nil {
		logger = log.Default()
	}
	return &Saver{store: store, logger: logger, now: time.Now}
}

// SaveResult writes the plan to every table and returns the created ids
func (s *Saver) SaveResult(ctx context.Context, in SaveInput) (*SavedPlan, error) {
	if in.Plan == nil {
		return nil, fmt.Errorf("nothing to save: plan is nil")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	labels := i18n.For(in.Language)
	logger := s.logger.With("request_id", in.RequestID)

	run := &models.LlmRun{
		RequestID:    in.RequestID,
		Language:     i18n.Normalize(in.Language),
		Model:        in.Model,
		UserText:     in.UserText,
		ResponseJSON: in.RawJSON,
		Status:       models.RunStatusOK,
	}
	runID, err := s.store.Runs().Create(run)
	if err != nil {
		return nil, fmt.Errorf("failed to log LLM run: %w", err)
	}
	saved := &SavedPlan{LlmRunID: runID}

	for _, rec := range in.Plan.Recommendations {
		planID, ok, err := s.saveRecommendation(rec, runID, labels)
		if err != nil {
			return saved, err
		}
		if ok {
			saved.IntakePlanIDs = append(saved.IntakePlanIDs, planID)
		}
	}

	var firstPlan *int64
	if len(saved.IntakePlanIDs) > 0 {
		firstPlan = &saved.IntakePlanIDs[0]
	}

	for _, planned := range in.Plan.Planner.CalendarEvents {
		event, ok := buildEvent(planned, labels)
		if !ok {
			logger.Warn("skipping event with invalid datetime", "datetime", planned.Datetime)
			continue
		}
		event.IntakePlanID = firstPlan
		event.SourceLlmRunID = &runID
		id, err := s.store.Calendar().Create(event)
		if err != nil {
			return saved, fmt.Errorf("failed to save calendar event: %w", err)
		}
		saved.CalendarEventIDs = append(saved.CalendarEventIDs, id)
	}

	if text := diaryText(in.Plan.Planner.DiaryEntry); text != "" {
		id, err := s.store.Diary().Create(&models.DiaryEntry{
			EntryDate:      models.FormatDate(s.now()),
			Text:           text,
			SourceLlmRunID: &runID,
		})
		if err != nil {
			return saved, fmt.Errorf("failed to save diary entry: %w", err)
		}
		saved.DiaryEntryIDs = append(saved.DiaryEntryIDs, id)
	}

	for _, planned := range in.Plan.Planner.Notes {
		body := strings.TrimSpace(planned.Body)
		if body == "" {
			continue
		}
		title := strings.TrimSpace(planned.Title)
		if title == "" {
			title = labels.Note
		}
		id, err := s.store.Notes().Create(&models.Note{Title: title, Body: body, SourceLlmRunID: &runID})
		if err != nil {
			return saved, fmt.Errorf("failed to save note: %w", err)
		}
		saved.NoteIDs = append(saved.NoteIDs, id)
	}

	logger.Info("plan saved",
		"run_id", runID,
		"intake_plans", len(saved.IntakePlanIDs),
		"events", len(saved.CalendarEventIDs),
		"diary", len(saved.DiaryEntryIDs),
		"notes", len(saved.NoteIDs),
	)
	return saved, nil
}

// RecordFailure logs a failed LLM call as an error run
func (s *Saver) RecordFailure(ctx context.Context, requestID, userText, model, lang string, callErr error) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	run := &models.LlmRun{
		RequestID:    requestID,
		Language:     i18n.Normalize(lang),
		Model:        model,
		UserText:     userText,
		ResponseJSON: "{}",
		Status:       models.RunStatusError,
	}
	if callErr != nil {
		run.ErrorText = callErr.Error()
	}
	id, err := s.store.Runs().Create(run)
	if err != nil {
		return 0, fmt.Errorf("failed to log failed LLM run: %w", err)
	}
	return id, nil
}

func (s *Saver) saveRecommendation(rec models.Recommendation, runID int64, labels i18n.Labels) (int64, bool, error) {
	name := strings.TrimSpace(rec.Name)
	if name == "" {
		return 0, false, nil
	}

	dose := strings.TrimSpace(rec.Dose)
	var doseMg *int64
	if mg, ok := ExtractMilligrams(dose); ok {
		doseMg = &mg
	}

	medID, err := s.store.Medicines().GetOrCreate(name, nil, doseMg)
	if err != nil {
		return 0, false, fmt.Errorf("failed to save medicine %q: %w", name, err)
	}

	planID, err := s.store.Plans().Create(&models.IntakePlan{
		MedicineID:       &medID,
		MedicineNameText: name,
		DoseMg:           doseMg,
		Instructions:     instructions(rec, labels),
		SourceLlmRunID:   &runID,
	})
	if err != nil {
		return 0, false, fmt.Errorf("failed to save intake plan for %q: %w", name, err)
	}
	return planID, true, nil
}

// instructions joins dose, how-to-take and course with the labeled warning lists, one per line
func instructions(rec models.Recommendation, labels i18n.Labels) string {
	var parts []string
	for _, p := range []string{rec.Dose, rec.HowToTake, rec.Course} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}

	labeled := []struct {
		label string
		items []string
	}{
		{labels.Warnings, rec.Warnings},
		{labels.Contraindications, rec.Contraindications},
		{labels.Interactions, rec.Interactions},
	}
	for _, l := range labeled {
		if joined := joinNonEmpty(l.items, "; "); joined != "" {
			parts = append(parts, l.label+": "+joined)
		}
	}

	return strings.Join(parts, "\n")
}

func joinNonEmpty(items []string, sep string) string {
	var kept []string
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			kept = append(kept, item)
		}
	}
	return strings.Join(kept, sep)
}

func buildEvent(planned models.PlannedEvent, labels i18n.Labels) (*models.CalendarEvent, bool) {
	start, err := models.ParseLocalDateTime(planned.Datetime)
	if err != nil {
		return nil, false
	}

	title := strings.TrimSpace(planned.Title)
	if title == "" {
		title = labels.Reminder
	}

	event := &models.CalendarEvent{
		Title:              title,
		StartLocal:         models.FormatLocal(start),
		Notes:              strings.TrimSpace(planned.Note),
		RemindersMinBefore: planned.RemindersMinBefore,
	}
	if planned.DurationMin > 0 {
		event.EndLocal = models.FormatLocal(start.Add(time.Duration(int(planned.DurationMin)) * time.Minute))
	}
	return event, true
}

func diaryText(entry *models.PlannedText) string {
	if entry == nil {
		return ""
	}
	title := strings.TrimSpace(entry.Title)
	body := strings.TrimSpace(entry.Body)
	switch {
	case title != "" && body != "":
		return title + "\n\n" + body
	case body != "":
		return body
	default:
		return title
	}
}
