// ABOUTME: Export functionality for the medication store
// ABOUTME: Dumps every table, ids and links included, to YAML or Markdown
package sqlite

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/harper/microdoser/internal/models"
)

// ExportData represents the complete exportable data structure
type ExportData struct {
	Version     string        `yaml:"version" json:"version"`
	ExportedAt  string        `yaml:"exported_at" json:"exported_at"`
	Tool        string        `yaml:"tool" json:"tool"`
	LlmRuns     []ExportRun   `yaml:"llm_runs,omitempty" json:"llm_runs,omitempty"`
	Medicines   []ExportMed   `yaml:"medicines,omitempty" json:"medicines,omitempty"`
	IntakePlans []ExportPlan  `yaml:"intake_plans,omitempty" json:"intake_plans,omitempty"`
	Events      []ExportEvent `yaml:"calendar_events,omitempty" json:"calendar_events,omitempty"`
	Diary       []ExportDiary `yaml:"diary,omitempty" json:"diary,omitempty"`
	Notes       []ExportNote  `yaml:"notes,omitempty" json:"notes,omitempty"`
}

// ExportRun represents an LLM run for export
type ExportRun struct {
	ID           int64  `yaml:"id" json:"id"`
	RequestID    string `yaml:"request_id,omitempty" json:"request_id,omitempty"`
	Language     string `yaml:"language" json:"language"`
	Model        string `yaml:"model" json:"model"`
	UserText     string `yaml:"user_text" json:"user_text"`
	ResponseJSON string `yaml:"response_json,omitempty" json:"response_json,omitempty"`
	Status       string `yaml:"status" json:"status"`
	ErrorText    string `yaml:"error_text,omitempty" json:"error_text,omitempty"`
	CreatedAt    string `yaml:"created_at" json:"created_at"`
}

// ExportMed represents a medicine for export
type ExportMed struct {
	ID         int64  `yaml:"id" json:"id"`
	Name       string `yaml:"name" json:"name"`
	Form       string `yaml:"form,omitempty" json:"form,omitempty"`
	StrengthMg *int64 `yaml:"strength_mg,omitempty" json:"strength_mg,omitempty"`
	Notes      string `yaml:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt  string `yaml:"created_at" json:"created_at"`
}

// ExportPlan represents an intake plan for export
type ExportPlan struct {
	ID             int64    `yaml:"id" json:"id"`
	MedicineID     *int64   `yaml:"medicine_id,omitempty" json:"medicine_id,omitempty"`
	Medicine       string   `yaml:"medicine" json:"medicine"`
	DoseMg         *int64   `yaml:"dose_mg,omitempty" json:"dose_mg,omitempty"`
	MaxPerDayMg    *int64   `yaml:"max_per_day_mg,omitempty" json:"max_per_day_mg,omitempty"`
	Instructions   string   `yaml:"instructions,omitempty" json:"instructions,omitempty"`
	StartDate      string   `yaml:"start_date,omitempty" json:"start_date,omitempty"`
	EndDate        string   `yaml:"end_date,omitempty" json:"end_date,omitempty"`
	Times          []string `yaml:"times,omitempty" json:"times,omitempty"`
	FrequencyHours *int64   `yaml:"frequency_hours,omitempty" json:"frequency_hours,omitempty"`
	SourceLlmRunID *int64   `yaml:"source_llm_run_id,omitempty" json:"source_llm_run_id,omitempty"`
	CreatedAt      string   `yaml:"created_at" json:"created_at"`
}

// ExportEvent represents a calendar event for export
type ExportEvent struct {
	ID             int64          `yaml:"id" json:"id"`
	Title          string         `yaml:"title" json:"title"`
	Start          string         `yaml:"start" json:"start"`
	End            string         `yaml:"end,omitempty" json:"end,omitempty"`
	Recurrence     map[string]any `yaml:"recurrence,omitempty" json:"recurrence,omitempty"`
	Reminders      []int          `yaml:"reminders_min_before,omitempty" json:"reminders_min_before,omitempty"`
	Notes          string         `yaml:"notes,omitempty" json:"notes,omitempty"`
	IntakePlanID   *int64         `yaml:"intake_plan_id,omitempty" json:"intake_plan_id,omitempty"`
	SourceLlmRunID *int64         `yaml:"source_llm_run_id,omitempty" json:"source_llm_run_id,omitempty"`
	CreatedAt      string         `yaml:"created_at" json:"created_at"`
}

// ExportDiary represents a diary entry for export
type ExportDiary struct {
	ID             int64  `yaml:"id" json:"id"`
	Date           string `yaml:"date" json:"date"`
	Text           string `yaml:"text" json:"text"`
	SourceLlmRunID *int64 `yaml:"source_llm_run_id,omitempty" json:"source_llm_run_id,omitempty"`
	CreatedAt      string `yaml:"created_at" json:"created_at"`
}

// ExportNote represents a note for export
type ExportNote struct {
	ID             int64  `yaml:"id" json:"id"`
	Title          string `yaml:"title" json:"title"`
	Body           string `yaml:"body" json:"body"`
	SourceLlmRunID *int64 `yaml:"source_llm_run_id,omitempty" json:"source_llm_run_id,omitempty"`
	CreatedAt      string `yaml:"created_at" json:"created_at"`
	UpdatedAt      string `yaml:"updated_at" json:"updated_at"`
}

func exportTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}

// Export dumps every table with ids and links intact
func (s *Storage) Export() (*ExportData, error) {
	data := &ExportData{
		Version:    "2.0",
		ExportedAt: time.Now().Format(time.RFC3339),
		Tool:       "microdoser",
	}

	runs, err := s.runs.ListAll()
	if err != nil {
		return nil, fmt.Errorf("failed to list llm runs: %w", err)
	}
	for _, run := range runs {
		data.LlmRuns = append(data.LlmRuns, ExportRun{
			ID:           run.ID,
			RequestID:    run.RequestID,
			Language:     run.Language,
			Model:        run.Model,
			UserText:     run.UserText,
			ResponseJSON: run.ResponseJSON,
			Status:       run.Status,
			ErrorText:    run.ErrorText,
			CreatedAt:    exportTime(run.CreatedAt),
		})
	}

	meds, err := s.medicines.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list medicines: %w", err)
	}
	for _, med := range meds {
		em := ExportMed{
			ID:         med.ID,
			Name:       med.Name,
			StrengthMg: med.StrengthMg,
			Notes:      med.Notes,
			CreatedAt:  exportTime(med.CreatedAt),
		}
		if med.Form != nil {
			em.Form = *med.Form
		}
		data.Medicines = append(data.Medicines, em)
	}

	plans, err := s.plans.ListAll()
	if err != nil {
		return nil, fmt.Errorf("failed to list intake plans: %w", err)
	}
	for _, plan := range plans {
		data.IntakePlans = append(data.IntakePlans, ExportPlan{
			ID:             plan.ID,
			MedicineID:     plan.MedicineID,
			Medicine:       plan.MedicineNameText,
			DoseMg:         plan.DoseMg,
			MaxPerDayMg:    plan.MaxPerDayMg,
			Instructions:   plan.Instructions,
			StartDate:      plan.StartDate,
			EndDate:        plan.EndDate,
			Times:          plan.Times,
			FrequencyHours: plan.FrequencyHours,
			SourceLlmRunID: plan.SourceLlmRunID,
			CreatedAt:      exportTime(plan.CreatedAt),
		})
	}

	events, err := s.calendar.ListAll()
	if err != nil {
		return nil, fmt.Errorf("failed to list calendar events: %w", err)
	}
	for _, event := range events {
		data.Events = append(data.Events, ExportEvent{
			ID:             event.ID,
			Title:          event.Title,
			Start:          event.StartLocal,
			End:            event.EndLocal,
			Recurrence:     event.Recurrence,
			Reminders:      event.RemindersMinBefore,
			Notes:          event.Notes,
			IntakePlanID:   event.IntakePlanID,
			SourceLlmRunID: event.SourceLlmRunID,
			CreatedAt:      exportTime(event.CreatedAt),
		})
	}

	entries, err := s.diary.ListAll()
	if err != nil {
		return nil, fmt.Errorf("failed to list diary entries: %w", err)
	}
	for _, entry := range entries {
		data.Diary = append(data.Diary, ExportDiary{
			ID:             entry.ID,
			Date:           entry.EntryDate,
			Text:           entry.Text,
			SourceLlmRunID: entry.SourceLlmRunID,
			CreatedAt:      exportTime(entry.CreatedAt),
		})
	}

	notes, err := s.notes.ListAll()
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}
	for _, note := range notes {
		data.Notes = append(data.Notes, ExportNote{
			ID:             note.ID,
			Title:          note.Title,
			Body:           note.Body,
			SourceLlmRunID: note.SourceLlmRunID,
			CreatedAt:      exportTime(note.CreatedAt),
			UpdatedAt:      exportTime(note.UpdatedAt),
		})
	}

	return data, nil
}

// ExportToYAML exports data to a YAML file
func (s *Storage) ExportToYAML(outputPath string) error {
	return s.exportToFile(outputPath, writeYAML)
}

// ExportToMarkdown exports data to a Markdown file
func (s *Storage) ExportToMarkdown(outputPath string) error {
	return s.exportToFile(outputPath, writeMarkdown)
}

func (s *Storage) exportToFile(outputPath string, write func(io.Writer, *ExportData) error) error {
	data, err := s.Export()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	file, err := os.Create(outputPath) // #nosec G304
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	return write(file, data)
}

func writeYAML(w io.Writer, data *ExportData) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}
	return encoder.Close()
}

func writeMarkdown(w io.Writer, data *ExportData) error {
	_, _ = fmt.Fprintf(w, "# Microdoser Export - %s\n\n", time.Now().Format(models.DateLayout))
	_, _ = fmt.Fprintf(w, "Generated: %s\n\n", data.ExportedAt)

	if len(data.LlmRuns) > 0 {
		_, _ = fmt.Fprintln(w, "## LLM Runs")
		_, _ = fmt.Fprintln(w)
		_, _ = fmt.Fprintln(w, "| ID | Created | Status | Model | Request |")
		_, _ = fmt.Fprintln(w, "|----|---------|--------|-------|---------|")
		for _, run := range data.LlmRuns {
			_, _ = fmt.Fprintf(w, "| %d | %s | %s | %s | %s |\n", run.ID, run.CreatedAt, run.Status, run.Model,
				markdownCell(run.UserText))
		}
		_, _ = fmt.Fprintln(w)
	}

	if len(data.Medicines) > 0 {
		_, _ = fmt.Fprintln(w, "## Medicines")
		_, _ = fmt.Fprintln(w)
		for _, med := range data.Medicines {
			_, _ = fmt.Fprintf(w, "- #%d %s", med.ID, med.Name)
			if med.StrengthMg != nil {
				_, _ = fmt.Fprintf(w, " (%d mg)", *med.StrengthMg)
			}
			_, _ = fmt.Fprintln(w)
		}
		_, _ = fmt.Fprintln(w)
	}

	if len(data.IntakePlans) > 0 {
		_, _ = fmt.Fprintln(w, "## Intake Plans")
		_, _ = fmt.Fprintln(w)
		for _, plan := range data.IntakePlans {
			_, _ = fmt.Fprintf(w, "### #%d %s\n\n", plan.ID, plan.Medicine)
			if plan.DoseMg != nil {
				_, _ = fmt.Fprintf(w, "- **Dose:** %d mg\n", *plan.DoseMg)
			}
			if plan.SourceLlmRunID != nil {
				_, _ = fmt.Fprintf(w, "- **Run:** #%d\n", *plan.SourceLlmRunID)
			}
			if plan.Instructions != "" {
				for _, line := range strings.Split(plan.Instructions, "\n") {
					_, _ = fmt.Fprintf(w, "- %s\n", line)
				}
			}
			_, _ = fmt.Fprintln(w)
		}
	}

	if len(data.Events) > 0 {
		_, _ = fmt.Fprintln(w, "## Calendar")
		_, _ = fmt.Fprintln(w)
		_, _ = fmt.Fprintln(w, "| Start | End | Title | Notes | Plan |")
		_, _ = fmt.Fprintln(w, "|-------|-----|-------|-------|------|")
		for _, event := range data.Events {
			plan := ""
			if event.IntakePlanID != nil {
				plan = fmt.Sprintf("#%d", *event.IntakePlanID)
			}
			_, _ = fmt.Fprintf(w, "| %s | %s | %s | %s | %s |\n", event.Start, event.End, event.Title,
				markdownCell(event.Notes), plan)
		}
		_, _ = fmt.Fprintln(w)
	}

	if len(data.Diary) > 0 {
		_, _ = fmt.Fprintln(w, "## Diary")
		_, _ = fmt.Fprintln(w)
		for _, entry := range data.Diary {
			_, _ = fmt.Fprintf(w, "**%s**\n\n%s\n\n", entry.Date, entry.Text)
		}
	}

	if len(data.Notes) > 0 {
		_, _ = fmt.Fprintln(w, "## Notes")
		_, _ = fmt.Fprintln(w)
		for _, note := range data.Notes {
			_, _ = fmt.Fprintf(w, "### %s\n\n%s\n\n", note.Title, note.Body)
		}
	}

	return nil
}

func markdownCell(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "\\|")
}
