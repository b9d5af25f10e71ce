// ABOUTME: Tests for YAML and Markdown export
// ABOUTME: Seeds one row per table and checks both formats keep ids and links
package sqlite

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/harper/microdoser/internal/models"
)

type exportSeed struct {
	runID, medID, planID, eventID int64
}

func seedExportData(t *testing.T, s *Storage) exportSeed {
	t.Helper()

	runID, err := s.Runs().Create(&models.LlmRun{
		RequestID:    "req-1",
		Language:     "en",
		Model:        "test/model",
		UserText:     "headache",
		ResponseJSON: `{"disclaimer":"x"}`,
	})
	if err != nil {
		t.Fatalf("seed run: %v", err)
	}
	medID, err := s.Medicines().GetOrCreate("Ibuprofen", nil, models.Int64Ptr(200))
	if err != nil {
		t.Fatalf("seed medicine: %v", err)
	}
	planID, err := s.Plans().Create(&models.IntakePlan{
		MedicineID:       &medID,
		MedicineNameText: "Ibuprofen",
		DoseMg:           models.Int64Ptr(200),
		Instructions:     "Dose: 200 mg\nHow to take: after meals",
		SourceLlmRunID:   &runID,
	})
	if err != nil {
		t.Fatalf("seed plan: %v", err)
	}
	eventID, err := s.Calendar().Create(&models.CalendarEvent{
		Title:              "Ibuprofen",
		StartLocal:         "2025-03-01T09:00:00",
		EndLocal:           "2025-03-01T09:10:00",
		RemindersMinBefore: []int{15},
		IntakePlanID:       &planID,
		SourceLlmRunID:     &runID,
	})
	if err != nil {
		t.Fatalf("seed event: %v", err)
	}
	if _, err := s.Diary().Create(&models.DiaryEntry{EntryDate: "2025-03-01", Text: "Headache\n\nbetter by noon"}); err != nil {
		t.Fatalf("seed diary: %v", err)
	}
	if _, err := s.Notes().Create(noteFixture("Doctor", "call on Monday")); err != nil {
		t.Fatalf("seed note: %v", err)
	}
	return exportSeed{runID: runID, medID: medID, planID: planID, eventID: eventID}
}

func TestExport(t *testing.T) {
	s := newTestStorage(t)
	seedExportData(t, s)

	data, err := s.Export()
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	if data.Tool != "microdoser" {
		t.Errorf("Tool = %q", data.Tool)
	}
	if len(data.LlmRuns) != 1 || data.LlmRuns[0].RequestID != "req-1" || data.LlmRuns[0].Status != models.RunStatusOK {
		t.Errorf("LlmRuns = %+v", data.LlmRuns)
	}
	if len(data.Medicines) != 1 || data.Medicines[0].StrengthMg == nil || *data.Medicines[0].StrengthMg != 200 {
		t.Errorf("Medicines = %+v", data.Medicines)
	}
	if len(data.IntakePlans) != 1 || data.IntakePlans[0].DoseMg == nil || *data.IntakePlans[0].DoseMg != 200 {
		t.Errorf("IntakePlans = %+v", data.IntakePlans)
	}
	if len(data.Events) != 1 || data.Events[0].End != "2025-03-01T09:10:00" {
		t.Errorf("Events = %+v", data.Events)
	}
	if len(data.Diary) != 1 || data.Diary[0].Date != "2025-03-01" {
		t.Errorf("Diary = %+v", data.Diary)
	}
	if len(data.Notes) != 1 || data.Notes[0].Title != "Doctor" {
		t.Errorf("Notes = %+v", data.Notes)
	}
}

func TestExportToYAML(t *testing.T) {
	s := newTestStorage(t)
	seedExportData(t, s)

	out := filepath.Join(t.TempDir(), "export", "data.yaml")
	if err := s.ExportToYAML(out); err != nil {
		t.Fatalf("ExportToYAML() error = %v", err)
	}

	raw, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}

	var decoded ExportData
	if err := yaml.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("export is not valid YAML: %v", err)
	}
	if len(decoded.Events) != 1 || decoded.Events[0].Title != "Ibuprofen" {
		t.Fatalf("decoded events = %+v", decoded.Events)
	}
}

func TestExportKeepsLinks(t *testing.T) {
	s := newTestStorage(t)
	seed := seedExportData(t, s)

	out := filepath.Join(t.TempDir(), "data.yaml")
	if err := s.ExportToYAML(out); err != nil {
		t.Fatalf("ExportToYAML() error = %v", err)
	}
	raw, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	var decoded ExportData
	if err := yaml.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("export is not valid YAML: %v", err)
	}

	if len(decoded.LlmRuns) != 1 {
		t.Fatalf("llm runs = %+v", decoded.LlmRuns)
	}
	run := decoded.LlmRuns[0]
	if run.ID != seed.runID || run.UserText != "headache" || run.ResponseJSON != `{"disclaimer":"x"}` || run.CreatedAt == "" {
		t.Errorf("run = %+v", run)
	}

	plan := decoded.IntakePlans[0]
	if plan.ID != seed.planID {
		t.Errorf("plan id = %d, want %d", plan.ID, seed.planID)
	}
	if plan.MedicineID == nil || *plan.MedicineID != seed.medID {
		t.Errorf("plan medicine_id = %v, want %d", plan.MedicineID, seed.medID)
	}
	if plan.SourceLlmRunID == nil || *plan.SourceLlmRunID != seed.runID {
		t.Errorf("plan source_llm_run_id = %v, want %d", plan.SourceLlmRunID, seed.runID)
	}

	event := decoded.Events[0]
	if event.ID != seed.eventID {
		t.Errorf("event id = %d, want %d", event.ID, seed.eventID)
	}
	if event.IntakePlanID == nil || *event.IntakePlanID != seed.planID {
		t.Errorf("event intake_plan_id = %v, want %d", event.IntakePlanID, seed.planID)
	}
	if event.SourceLlmRunID == nil || *event.SourceLlmRunID != seed.runID {
		t.Errorf("event source_llm_run_id = %v, want %d", event.SourceLlmRunID, seed.runID)
	}
	if len(event.Reminders) != 1 || event.Reminders[0] != 15 {
		t.Errorf("event reminders = %v", event.Reminders)
	}
}

func TestExportHasNoRowCap(t *testing.T) {
	s := newTestStorage(t)
	const n = DefaultNotesLimit + 5
	for i := 0; i < n; i++ {
		if _, err := s.Notes().Create(noteFixture("n", "body")); err != nil {
			t.Fatalf("seed note: %v", err)
		}
	}
	if _, err := s.Calendar().Create(&models.CalendarEvent{Title: "typed by hand", StartLocal: "soon"}); err != nil {
		t.Fatalf("seed event: %v", err)
	}

	data, err := s.Export()
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	if len(data.Notes) != n {
		t.Errorf("notes = %d, want %d", len(data.Notes), n)
	}
	if len(data.Events) != 1 {
		t.Errorf("events = %d, want the malformed one too", len(data.Events))
	}
}

func TestExportToMarkdown(t *testing.T) {
	s := newTestStorage(t)
	seedExportData(t, s)

	out := filepath.Join(t.TempDir(), "data.md")
	if err := s.ExportToMarkdown(out); err != nil {
		t.Fatalf("ExportToMarkdown() error = %v", err)
	}

	raw, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	content := string(raw)

	for _, want := range []string{
		"# Microdoser Export",
		"## Intake Plans",
		"## LLM Runs",
		"| 1 |",
		"### #1 Ibuprofen",
		"- **Run:** #1",
		"- **Dose:** 200 mg",
		"- How to take: after meals",
		"| 2025-03-01T09:00:00 | 2025-03-01T09:10:00 | Ibuprofen |",
		"## Diary",
		"### Doctor",
	} {
		if !strings.Contains(content, want) {
			t.Errorf("markdown missing %q", want)
		}
	}
}

func TestExportEmptyStore(t *testing.T) {
	s := newTestStorage(t)

	data, err := s.Export()
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	if len(data.LlmRuns)+len(data.Medicines)+len(data.IntakePlans)+len(data.Events)+len(data.Diary)+len(data.Notes) != 0 {
		t.Errorf("empty store exported data: %+v", data)
	}
}
