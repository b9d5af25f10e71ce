// ABOUTME: Tests for persisting a plan across all tables
// ABOUTME: Uses in-memory SQLite and checks every row the fan-out writes
package core

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/harper/microdoser/internal/models"
	"github.com/harper/microdoser/internal/storage/sqlite"
)

func newTestSaver(t *testing.T) (*Saver, *sqlite.Storage) {
	t.Helper()
	store, err := sqlite.NewStorageInMemory()
	if err != nil {
		t.Fatalf("NewStorageInMemory() error = %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	saver := NewSaver(store, log.New(io.Discard))
	saver.now = func() time.Time { return time.Date(2025, 3, 1, 18, 0, 0, 0, time.Local) }
	return saver, store
}

func fullPlan() *models.Plan {
	return &models.Plan{
		UIHints: models.UIHints{Summary: "Headache", Severity: models.SeverityLow},
		Recommendations: []models.Recommendation{{
			Name:              "Ibuprofen",
			Dose:              "200 mg",
			HowToTake:         "after meals",
			Course:            "3 days",
			Warnings:          []string{"stomach upset", " "},
			Contraindications: []string{"ulcer", "asthma"},
		}},
		Planner: models.Planner{
			StartDate: "2025-03-01",
			CalendarEvents: []models.PlannedEvent{
				{Title: "Ibuprofen", Datetime: "2025-03-01T09:00", DurationMin: 15, Note: "after breakfast"},
				{Title: "", Datetime: "2025-03-01 21:00:00"},
				{Title: "bad", Datetime: "tomorrow morning"},
			},
			DiaryEntry: &models.PlannedText{Title: "Headache", Body: "Started in the morning"},
			Notes: []models.PlannedText{
				{Title: "", Body: "See a doctor if it persists"},
				{Title: "Empty", Body: "   "},
			},
		},
	}
}

func TestSaveResult(t *testing.T) {
	saver, store := newTestSaver(t)

	saved, err := saver.SaveResult(context.Background(), SaveInput{
		RequestID: "req-1",
		UserText:  "headache",
		Model:     "test/model",
		Language:  "en",
		Plan:      fullPlan(),
		RawJSON:   `{"ui_hints":{}}`,
	})
	if err != nil {
		t.Fatalf("SaveResult() error = %v", err)
	}

	run, err := store.Runs().Get(saved.LlmRunID)
	if err != nil || run == nil {
		t.Fatalf("run not stored: %v", err)
	}
	if run.Status != models.RunStatusOK || run.RequestID != "req-1" || run.ResponseJSON != `{"ui_hints":{}}` {
		t.Errorf("run = %+v", run)
	}

	if len(saved.IntakePlanIDs) != 1 {
		t.Fatalf("IntakePlanIDs = %v, want one", saved.IntakePlanIDs)
	}
	plan, _ := store.Plans().Get(saved.IntakePlanIDs[0])
	if plan.DoseMg == nil || *plan.DoseMg != 200 {
		t.Errorf("DoseMg = %v, want 200", plan.DoseMg)
	}
	wantInstructions := "200 mg\nafter meals\n3 days\nWarnings: stomach upset\nContraindications: ulcer; asthma"
	if plan.Instructions != wantInstructions {
		t.Errorf("Instructions = %q, want %q", plan.Instructions, wantInstructions)
	}
	if plan.SourceLlmRunID == nil || *plan.SourceLlmRunID != saved.LlmRunID {
		t.Errorf("plan not linked to run")
	}

	med, _ := store.Medicines().Get(*plan.MedicineID)
	if med.Name != "Ibuprofen" || med.StrengthMg == nil || *med.StrengthMg != 200 {
		t.Errorf("medicine = %+v", med)
	}

	if len(saved.CalendarEventIDs) != 2 {
		t.Fatalf("CalendarEventIDs = %v, want two (invalid datetime skipped)", saved.CalendarEventIDs)
	}
	first, _ := store.Calendar().Get(saved.CalendarEventIDs[0])
	if first.StartLocal != "2025-03-01T09:00:00" || first.EndLocal != "2025-03-01T09:15:00" {
		t.Errorf("first event times = %s - %s", first.StartLocal, first.EndLocal)
	}
	if first.IntakePlanID == nil || *first.IntakePlanID != saved.IntakePlanIDs[0] {
		t.Error("event should link to the first intake plan")
	}
	second, _ := store.Calendar().Get(saved.CalendarEventIDs[1])
	if second.Title != "Reminder" || second.EndLocal != "" {
		t.Errorf("second event = %+v", second)
	}

	if len(saved.DiaryEntryIDs) != 1 {
		t.Fatalf("DiaryEntryIDs = %v", saved.DiaryEntryIDs)
	}
	entries, _ := store.Diary().ListBetween("2025-03-01", "2025-03-01")
	if len(entries) != 1 || entries[0].Text != "Headache\n\nStarted in the morning" {
		t.Errorf("diary = %+v", entries)
	}

	if len(saved.NoteIDs) != 1 {
		t.Fatalf("NoteIDs = %v, want one (empty body skipped)", saved.NoteIDs)
	}
	notes, _ := store.Notes().ListRecent(10)
	if notes[0].Title != "Note" {
		t.Errorf("note title = %q, want default", notes[0].Title)
	}
}

func TestSaveResultRussianLabels(t *testing.T) {
	saver, store := newTestSaver(t)
	plan := fullPlan()
	plan.Planner.CalendarEvents = []models.PlannedEvent{{Datetime: "2025-03-01T08:00"}}

	saved, err := saver.SaveResult(context.Background(), SaveInput{Language: "ru", Plan: plan, RawJSON: "{}"})
	if err != nil {
		t.Fatalf("SaveResult() error = %v", err)
	}

	p, _ := store.Plans().Get(saved.IntakePlanIDs[0])
	if !strings.Contains(p.Instructions, "Предупреждения: stomach upset") {
		t.Errorf("Instructions = %q", p.Instructions)
	}
	e, _ := store.Calendar().Get(saved.CalendarEventIDs[0])
	if e.Title != "Напоминание" {
		t.Errorf("event title = %q", e.Title)
	}
	notes, _ := store.Notes().ListRecent(1)
	if notes[0].Title != "Заметка" {
		t.Errorf("note title = %q", notes[0].Title)
	}
}

func TestSaveResultReusesMedicine(t *testing.T) {
	saver, store := newTestSaver(t)

	for i := 0; i < 2; i++ {
		if _, err := saver.SaveResult(context.Background(), SaveInput{Language: "en", Plan: fullPlan(), RawJSON: "{}"}); err != nil {
			t.Fatalf("SaveResult() #%d error = %v", i, err)
		}
	}

	meds, _ := store.Medicines().List()
	if len(meds) != 1 {
		t.Errorf("medicines = %d, want 1", len(meds))
	}
	runs, _ := store.Runs().ListRecent(10)
	if len(runs) != 2 {
		t.Errorf("runs = %d, want 2", len(runs))
	}
}

func TestSaveResultSkipsUnnamedRecommendation(t *testing.T) {
	saver, _ := newTestSaver(t)
	plan := fullPlan()
	plan.Recommendations[0].Name = "  "

	saved, err := saver.SaveResult(context.Background(), SaveInput{Language: "en", Plan: plan, RawJSON: "{}"})
	if err != nil {
		t.Fatalf("SaveResult() error = %v", err)
	}
	if len(saved.IntakePlanIDs) != 0 {
		t.Errorf("IntakePlanIDs = %v, want none", saved.IntakePlanIDs)
	}
	if len(saved.CalendarEventIDs) != 2 {
		t.Errorf("events should still be saved without a plan link: %v", saved.CalendarEventIDs)
	}
}

func TestSaveResultCarriesSynthesizedReminder(t *testing.T) {
	saver, store := newTestSaver(t)
	plan := fullPlan()
	plan.Planner.CalendarEvents = []models.PlannedEvent{{
		Title:              "Ibuprofen",
		Datetime:           "2025-03-01T09:00:00",
		RemindersMinBefore: []int{10},
	}}

	saved, err := saver.SaveResult(context.Background(), SaveInput{Language: "en", Plan: plan, RawJSON: "{}"})
	if err != nil {
		t.Fatalf("SaveResult() error = %v", err)
	}
	event, _ := store.Calendar().Get(saved.CalendarEventIDs[0])
	if len(event.RemindersMinBefore) != 1 || event.RemindersMinBefore[0] != 10 {
		t.Errorf("RemindersMinBefore = %v", event.RemindersMinBefore)
	}
}

func TestSaveResultKeepsWallClockTimes(t *testing.T) {
	berlin, err := time.LoadLocation("Europe/Berlin")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	saved := time.Local
	time.Local = berlin
	t.Cleanup(func() { time.Local = saved })

	saver, store := newTestSaver(t)
	plan := fullPlan()
	plan.Planner.CalendarEvents = []models.PlannedEvent{
		{Title: "spring forward", Datetime: "2024-03-31T02:30", DurationMin: 30},
		{Title: "hour only", Datetime: "2024-05-01T09"},
	}

	result, err := saver.SaveResult(context.Background(), SaveInput{Language: "en", Plan: plan, RawJSON: "{}"})
	if err != nil {
		t.Fatalf("SaveResult() error = %v", err)
	}
	if len(result.CalendarEventIDs) != 2 {
		t.Fatalf("CalendarEventIDs = %v, want both events saved", result.CalendarEventIDs)
	}

	gap, _ := store.Calendar().Get(result.CalendarEventIDs[0])
	if gap.StartLocal != "2024-03-31T02:30:00" || gap.EndLocal != "2024-03-31T03:00:00" {
		t.Errorf("gap event = %s..%s", gap.StartLocal, gap.EndLocal)
	}
	hour, _ := store.Calendar().Get(result.CalendarEventIDs[1])
	if hour.StartLocal != "2024-05-01T09:00:00" {
		t.Errorf("hour-only event start = %s", hour.StartLocal)
	}
}

func TestSaveResultNilPlan(t *testing.T) {
	saver, _ := newTestSaver(t)
	if _, err := saver.SaveResult(context.Background(), SaveInput{}); err == nil {
		t.Error("SaveResult(nil plan) should fail")
	}
}

func TestRecordFailure(t *testing.T) {
	saver, store := newTestSaver(t)

	id, err := saver.RecordFailure(context.Background(), "req-9", "fever", "test/model", "en", errors.New("OpenRouter error 500: down"))
	if err != nil {
		t.Fatalf("RecordFailure() error = %v", err)
	}

	run, _ := store.Runs().Get(id)
	if run.Status != models.RunStatusError || run.ErrorText != "OpenRouter error 500: down" || run.UserText != "fever" {
		t.Errorf("run = %+v", run)
	}
}

func TestDiaryText(t *testing.T) {
	tests := []struct {
		name  string
		entry *models.PlannedText
		want  string
	}{
		{name: "nil", entry: nil, want: ""},
		{name: "both", entry: &models.PlannedText{Title: "T", Body: "B"}, want: "T\n\nB"},
		{name: "body only", entry: &models.PlannedText{Body: "B"}, want: "B"},
		{name: "title only", entry: &models.PlannedText{Title: "T"}, want: "T"},
		{name: "blank", entry: &models.PlannedText{Title: " ", Body: "\n"}, want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := diaryText(tt.entry); got != tt.want {
				t.Errorf("diaryText() = %q, want %q", got, tt.want)
			}
		})
	}
}
