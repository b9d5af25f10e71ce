// ABOUTME: Tests for JSON recovery from model replies
// ABOUTME: Covers fenced, bare, prose-wrapped and invalid replies
package llm

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantKey string
		wantErr bool
	}{
		{name: "bare object", input: `{"a": 1}`, wantKey: "a"},
		{name: "surrounding whitespace", input: "\n\n  {\"a\": 1}  \n", wantKey: "a"},
		{name: "json fence", input: "```json\n{\"a\": 1}\n```", wantKey: "a"},
		{name: "uppercase fence", input: "```JSON\n{\"a\": 1}\n```", wantKey: "a"},
		{name: "plain fence", input: "```\n{\"b\": true}\n```", wantKey: "b"},
		{name: "prose around object", input: "Sure! Here it is: {\"c\": \"x\"} Hope this helps.", wantKey: "c"},
		{name: "nested braces", input: "result: {\"d\": {\"e\": 1}} end", wantKey: "d"},
		{name: "plain text", input: "I cannot help with that.", wantErr: true},
		{name: "empty", input: "", wantErr: true},
		{name: "array of numbers", input: "[1, 2, 3]", wantErr: true},
		{name: "broken object", input: "{\"a\": 1,,}", wantErr: true},
		{name: "closing before opening", input: "} nothing {", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, err := ExtractJSON(tt.input)
			if tt.wantErr {
				var formatErr *FormatError
				if !errors.As(err, &formatErr) {
					t.Fatalf("ExtractJSON() error = %v, want *FormatError", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ExtractJSON() error = %v", err)
			}

			var obj map[string]any
			if err := json.Unmarshal(raw, &obj); err != nil {
				t.Fatalf("returned raw is not an object: %v", err)
			}
			if _, ok := obj[tt.wantKey]; !ok {
				t.Errorf("object %v missing key %q", obj, tt.wantKey)
			}
		})
	}
}

func TestFormatErrorSnippet(t *testing.T) {
	long := strings.Repeat("нет json\n", 100)

	_, err := ExtractJSON(long)
	var formatErr *FormatError
	if !errors.As(err, &formatErr) {
		t.Fatalf("error = %v, want *FormatError", err)
	}

	if got := len([]rune(formatErr.Snippet)); got != snippetLimit {
		t.Errorf("snippet length = %d runes, want %d", got, snippetLimit)
	}
	if strings.Contains(formatErr.Snippet, "\n") {
		t.Error("snippet should have newlines flattened")
	}
}

func TestParsePlan(t *testing.T) {
	reply := "```json\n" + samplePlanJSON + "\n```"

	plan, raw, err := ParsePlan(reply)
	if err != nil {
		t.Fatalf("ParsePlan() error = %v", err)
	}
	if plan.UIHints.Severity != "low" {
		t.Errorf("Severity = %q", plan.UIHints.Severity)
	}
	if len(plan.Recommendations) != 2 || plan.Recommendations[0].Name != "Ibuprofen" {
		t.Errorf("Recommendations = %+v", plan.Recommendations)
	}
	if len(plan.Planner.CalendarEvents) != 1 || plan.Planner.CalendarEvents[0].DurationMin != 5 {
		t.Errorf("CalendarEvents = %+v", plan.Planner.CalendarEvents)
	}
	if plan.Planner.DiaryEntry == nil || plan.Planner.DiaryEntry.Title != "Headache" {
		t.Errorf("DiaryEntry = %+v", plan.Planner.DiaryEntry)
	}
	if strings.HasPrefix(string(raw), "```") {
		t.Error("raw JSON should not include the fence")
	}
}

func TestParsePlanWrongShape(t *testing.T) {
	_, _, err := ParsePlan(`{"recommendations": "not a list"}`)
	var formatErr *FormatError
	if !errors.As(err, &formatErr) {
		t.Fatalf("ParsePlan() error = %v, want *FormatError", err)
	}
}

const samplePlanJSON = `{
  "ui_hints": {"summary": "Tension headache", "severity": "low", "need_doctor": false, "emergency": false},
  "recommendations": [
    {"name": "Ibuprofen", "dose": "200 mg", "how_to_take": "after meals", "course": "up to 3 days",
     "warnings": ["stomach upset"], "contraindications": ["ulcer"], "interactions": []},
    {"name": "Paracetamol", "dose": "500 mg", "how_to_take": "with water", "course": "as needed",
     "warnings": [], "contraindications": [], "interactions": []}
  ],
  "planner": {
    "start_date": "2025-03-01",
    "calendar_events": [{"title": "Ibuprofen", "datetime": "2025-03-01T09:00", "duration_min": 5, "note": "after breakfast"}],
    "diary_entry": {"title": "Headache", "body": "Started in the morning"},
    "notes": [{"title": "Doctor", "body": "See a doctor if it persists"}]
  },
  "disclaimer": "Not medical advice."
}`
