// ABOUTME: Tests for the per-table SQLite stores
// ABOUTME: Covers settings upsert, medicine dedup, range queries and SET NULL foreign keys
package sqlite

import (
	"testing"
	"time"

	"github.com/harper/microdoser/internal/models"
)

func newTestStorage(t *testing.T) *Storage {
	t.Helper()
	store, err := NewStorageInMemory()
	if err != nil {
		t.Fatalf("NewStorageInMemory() error = %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func noteFixture(title, body string) *models.Note {
	return &models.Note{Title: title, Body: body}
}

func TestSettingsGetSet(t *testing.T) {
	store := newTestStorage(t).Settings()

	got, err := store.Get(SettingModel, "fallback")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != "fallback" {
		t.Errorf("Get() on missing key = %q, want fallback", got)
	}

	if err := store.Set(SettingModel, "deepseek/deepseek-chat"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := store.Set(SettingModel, "openai/gpt-4o-mini"); err != nil {
		t.Fatalf("second Set() error = %v", err)
	}

	got, _ = store.Get(SettingModel, "")
	if got != "openai/gpt-4o-mini" {
		t.Errorf("Get() after upsert = %q, want openai/gpt-4o-mini", got)
	}

	all, err := store.All()
	if err != nil {
		t.Fatalf("All() error = %v", err)
	}
	if all[SettingModel] != "openai/gpt-4o-mini" {
		t.Errorf("All()[model] = %q", all[SettingModel])
	}
	if _, ok := all[SchemaVersionKey]; !ok {
		t.Error("All() should include the schema version marker")
	}

	if err := store.Delete(SettingModel); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	got, _ = store.Get(SettingModel, "gone")
	if got != "gone" {
		t.Errorf("Get() after Delete = %q, want gone", got)
	}
}

func TestMedicineGetOrCreateIsIdempotent(t *testing.T) {
	store := newTestStorage(t).Medicines()
	tablet := "tablet"

	tests := []struct {
		name     string
		medName  string
		form     *string
		strength *int64
	}{
		{name: "all nulls", medName: "Ibuprofen"},
		{name: "strength only", medName: "Ibuprofen", strength: models.Int64Ptr(200)},
		{name: "form and strength", medName: "Ibuprofen", form: &tablet, strength: models.Int64Ptr(400)},
	}

	seen := make(map[int64]bool)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			first, err := store.GetOrCreate(tt.medName, tt.form, tt.strength)
			if err != nil {
				t.Fatalf("GetOrCreate() error = %v", err)
			}
			second, err := store.GetOrCreate(tt.medName, tt.form, tt.strength)
			if err != nil {
				t.Fatalf("second GetOrCreate() error = %v", err)
			}
			if first != second {
				t.Errorf("GetOrCreate() ids differ: %d vs %d", first, second)
			}
			if seen[first] {
				t.Errorf("id %d reused for a different (form, strength) combination", first)
			}
			seen[first] = true
		})
	}

	meds, err := store.List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(meds) != len(tests) {
		t.Errorf("List() returned %d medicines, want %d", len(meds), len(tests))
	}
}

func TestMedicineGet(t *testing.T) {
	store := newTestStorage(t).Medicines()

	id, err := store.GetOrCreate("Paracetamol", nil, models.Int64Ptr(500))
	if err != nil {
		t.Fatalf("GetOrCreate() error = %v", err)
	}

	med, err := store.Get(id)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if med == nil {
		t.Fatal("Get() returned nil")
	}
	if med.Name != "Paracetamol" || med.Form != nil || med.StrengthMg == nil || *med.StrengthMg != 500 {
		t.Errorf("Get() = %+v", med)
	}

	missing, err := store.Get(9999)
	if err != nil {
		t.Fatalf("Get(missing) error = %v", err)
	}
	if missing != nil {
		t.Error("Get(missing) should return nil")
	}
}

func TestLlmRunCreateAndList(t *testing.T) {
	store := newTestStorage(t).Runs()

	for i, status := range []string{models.RunStatusOK, models.RunStatusError} {
		run := &models.LlmRun{
			RequestID:    "req-" + status,
			Language:     "en",
			Model:        "test/model",
			UserText:     "headache",
			ResponseJSON: "{}",
			Status:       status,
		}
		if status == models.RunStatusError {
			run.ErrorText = "provider error 500"
		}
		id, err := store.Create(run)
		if err != nil {
			t.Fatalf("Create() #%d error = %v", i, err)
		}
		if id != run.ID {
			t.Errorf("Create() id = %d, run.ID = %d", id, run.ID)
		}
	}

	runs, err := store.ListRecent(10)
	if err != nil {
		t.Fatalf("ListRecent() error = %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("ListRecent() returned %d runs, want 2", len(runs))
	}
	if runs[0].Status != models.RunStatusError || runs[0].ErrorText != "provider error 500" {
		t.Errorf("newest run = %+v, want the error run first", runs[0])
	}
	if runs[1].RequestID != "req-ok" {
		t.Errorf("RequestID = %q, want req-ok", runs[1].RequestID)
	}
}

func TestLlmRunDefaultsStatus(t *testing.T) {
	store := newTestStorage(t).Runs()

	run := &models.LlmRun{Language: "ru", Model: "m", UserText: "x", ResponseJSON: "{}"}
	id, err := store.Create(run)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	got, err := store.Get(id)
	if err != nil || got == nil {
		t.Fatalf("Get() = %v, %v", got, err)
	}
	if got.Status != models.RunStatusOK {
		t.Errorf("Status = %q, want ok", got.Status)
	}
}

func TestCalendarListBetween(t *testing.T) {
	store := newTestStorage(t).Calendar()

	starts := []string{
		"2025-02-28T23:59:59",
		"2025-03-01T09:00:00",
		"2025-03-01T09:00:00",
		"2025-03-01T21:30:00",
		"2025-03-02T00:00:00",
	}
	for i, start := range starts {
		_, err := store.Create(&models.CalendarEvent{
			Title:              "dose",
			StartLocal:         start,
			RemindersMinBefore: []int{10},
			Recurrence:         map[string]any{"freq": "daily"},
		})
		if err != nil {
			t.Fatalf("Create() #%d error = %v", i, err)
		}
	}

	day := time.Date(2025, 3, 1, 12, 0, 0, 0, time.Local)
	events, err := store.ListOnDate(day)
	if err != nil {
		t.Fatalf("ListOnDate() error = %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("ListOnDate() returned %d events, want 3", len(events))
	}

	// Ordered by start then id
	if events[0].ID >= events[1].ID {
		t.Errorf("same-start events should be ordered by id: %d, %d", events[0].ID, events[1].ID)
	}
	if events[2].StartLocal != "2025-03-01T21:30:00" {
		t.Errorf("last event start = %s", events[2].StartLocal)
	}
	if len(events[0].RemindersMinBefore) != 1 || events[0].RemindersMinBefore[0] != 10 {
		t.Errorf("RemindersMinBefore = %v, want [10]", events[0].RemindersMinBefore)
	}
	if events[0].Recurrence["freq"] != "daily" {
		t.Errorf("Recurrence = %v", events[0].Recurrence)
	}

	all, err := store.ListBetween("2025-02-28T00:00:00", "2025-03-02T00:00:00")
	if err != nil {
		t.Fatalf("ListBetween() error = %v", err)
	}
	if len(all) != 5 {
		t.Errorf("inclusive ListBetween() returned %d events, want 5", len(all))
	}
}

func TestCalendarDelete(t *testing.T) {
	store := newTestStorage(t).Calendar()

	id, err := store.Create(&models.CalendarEvent{Title: "t", StartLocal: "2025-01-01T08:00:00"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	deleted, err := store.Delete(id)
	if err != nil || !deleted {
		t.Fatalf("Delete() = %v, %v", deleted, err)
	}
	deleted, err = store.Delete(id)
	if err != nil || deleted {
		t.Errorf("second Delete() = %v, %v, want false", deleted, err)
	}
}

func TestForeignKeysSetNullOnDelete(t *testing.T) {
	s := newTestStorage(t)

	runID, err := s.Runs().Create(&models.LlmRun{Language: "en", Model: "m", UserText: "u", ResponseJSON: "{}"})
	if err != nil {
		t.Fatalf("create run: %v", err)
	}
	medID, err := s.Medicines().GetOrCreate("Aspirin", nil, nil)
	if err != nil {
		t.Fatalf("create medicine: %v", err)
	}
	planID, err := s.Plans().Create(&models.IntakePlan{
		MedicineID:       &medID,
		MedicineNameText: "Aspirin",
		Times:            []string{"09:00", "21:00"},
		SourceLlmRunID:   &runID,
	})
	if err != nil {
		t.Fatalf("create plan: %v", err)
	}
	eventID, err := s.Calendar().Create(&models.CalendarEvent{
		Title:          "Aspirin",
		StartLocal:     "2025-05-05T09:00:00",
		IntakePlanID:   &planID,
		SourceLlmRunID: &runID,
	})
	if err != nil {
		t.Fatalf("create event: %v", err)
	}

	if err := s.Runs().Delete(runID); err != nil {
		t.Fatalf("delete run: %v", err)
	}
	if err := s.Medicines().Delete(medID); err != nil {
		t.Fatalf("delete medicine: %v", err)
	}

	plan, err := s.Plans().Get(planID)
	if err != nil || plan == nil {
		t.Fatalf("plan should survive parent deletion: %v, %v", plan, err)
	}
	if plan.MedicineID != nil || plan.SourceLlmRunID != nil {
		t.Errorf("plan references = %v, %v, want both nil", plan.MedicineID, plan.SourceLlmRunID)
	}
	if len(plan.Times) != 2 {
		t.Errorf("Times = %v, want two entries", plan.Times)
	}

	event, err := s.Calendar().Get(eventID)
	if err != nil || event == nil {
		t.Fatalf("event should survive parent deletion: %v, %v", event, err)
	}
	if event.SourceLlmRunID != nil {
		t.Errorf("event.SourceLlmRunID = %v, want nil", *event.SourceLlmRunID)
	}
	if event.IntakePlanID == nil || *event.IntakePlanID != planID {
		t.Errorf("event.IntakePlanID = %v, want %d", event.IntakePlanID, planID)
	}
}

func TestIntakePlanListByRun(t *testing.T) {
	s := newTestStorage(t)

	runID, _ := s.Runs().Create(&models.LlmRun{Language: "en", Model: "m", UserText: "u", ResponseJSON: "{}"})
	for _, name := range []string{"A", "B"} {
		if _, err := s.Plans().Create(&models.IntakePlan{MedicineNameText: name, SourceLlmRunID: &runID}); err != nil {
			t.Fatalf("Create(%s) error = %v", name, err)
		}
	}
	if _, err := s.Plans().Create(&models.IntakePlan{MedicineNameText: "unlinked"}); err != nil {
		t.Fatalf("Create(unlinked) error = %v", err)
	}

	plans, err := s.Plans().ListByRun(runID)
	if err != nil {
		t.Fatalf("ListByRun() error = %v", err)
	}
	if len(plans) != 2 || plans[0].MedicineNameText != "A" || plans[1].MedicineNameText != "B" {
		t.Errorf("ListByRun() = %+v", plans)
	}
}

func TestDiaryListBetween(t *testing.T) {
	store := newTestStorage(t).Diary()

	for _, date := range []string{"2025-04-01", "2025-04-03", "2025-04-05"} {
		if _, err := store.Create(&models.DiaryEntry{EntryDate: date, Text: "entry " + date}); err != nil {
			t.Fatalf("Create(%s) error = %v", date, err)
		}
	}

	entries, err := store.ListBetween("2025-04-02", "2025-04-05")
	if err != nil {
		t.Fatalf("ListBetween() error = %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("ListBetween() returned %d entries, want 2", len(entries))
	}
	if entries[0].EntryDate != "2025-04-03" || entries[1].EntryDate != "2025-04-05" {
		t.Errorf("entries = %+v", entries)
	}
}

func TestNotesListRecentOrder(t *testing.T) {
	store := newTestStorage(t).Notes()

	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	for i, title := range []string{"oldest", "middle", "newest"} {
		note := noteFixture(title, "body")
		note.CreatedAt = base.Add(time.Duration(i) * time.Hour)
		if _, err := store.Create(note); err != nil {
			t.Fatalf("Create(%s) error = %v", title, err)
		}
	}

	notes, err := store.ListRecent(2)
	if err != nil {
		t.Fatalf("ListRecent() error = %v", err)
	}
	if len(notes) != 2 {
		t.Fatalf("ListRecent(2) returned %d notes", len(notes))
	}
	if notes[0].Title != "newest" || notes[1].Title != "middle" {
		t.Errorf("order = %s, %s; want newest, middle", notes[0].Title, notes[1].Title)
	}

	// Updating the oldest note moves it to the front
	oldest, _ := store.ListRecent(0)
	updated, err := store.Update(oldest[len(oldest)-1].ID, "oldest", "edited")
	if err != nil || !updated {
		t.Fatalf("Update() = %v, %v", updated, err)
	}
	notes, _ = store.ListRecent(1)
	if notes[0].Title != "oldest" || notes[0].Body != "edited" {
		t.Errorf("after update first note = %+v", notes[0])
	}

	deleted, err := store.Delete(notes[0].ID)
	if err != nil || !deleted {
		t.Errorf("Delete() = %v, %v", deleted, err)
	}
}

func TestNotesGet(t *testing.T) {
	store := newTestStorage(t).Notes()

	id, err := store.Create(noteFixture("Pharmacy", "ask about generics"))
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	got, err := store.Get(id)
	if err != nil || got == nil {
		t.Fatalf("Get(%d) = %v, %v", id, got, err)
	}
	if got.Title != "Pharmacy" || got.Body != "ask about generics" || got.SourceLlmRunID != nil {
		t.Errorf("Get() = %+v", got)
	}

	missing, err := store.Get(id + 100)
	if err != nil || missing != nil {
		t.Errorf("Get(missing) = %v, %v; want nil, nil", missing, err)
	}
}
