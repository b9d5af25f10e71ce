// ABOUTME: System and user prompts for the pick and add requests
// ABOUTME: Russian by default, English when the language starts with "en"
package llm

import (
	"fmt"
	"strings"
	"time"

	"github.com/harper/microdoser/internal/i18n"
	"github.com/harper/microdoser/internal/models"
)

// RequestKind selects the user prompt shape
type RequestKind int

const (
	// KindPick asks for a recommendation from symptoms
	KindPick RequestKind = iota
	// KindAdd asks for a plan for a medicine the user already chose
	KindAdd
)

func (k RequestKind) String() string {
	if k == KindAdd {
		return "add"
	}
	return "pick"
}

const schemaOutline = `{
  "ui_hints": {"summary": string, "severity": "low|medium|high", "need_doctor": boolean, "emergency": boolean},
  "recommendations": [{"name": string, "dose": string, "how_to_take": string, "course": string, "warnings": [string], "contraindications": [string], "interactions": [string]}],
  "planner": {
     "start_date": "YYYY-MM-DD",
     "calendar_events": [{"title": string, "datetime": "YYYY-MM-DDTHH:MM", "duration_min": number, "note": string}],
     "diary_entry": {"title": string, "body": string},
     "notes": [{"title": string, "body": string}]
  },
  "disclaimer": string
}
`

const englishSystemPrompt = "You are a medical information assistant. " +
	"You are NOT a doctor and you must not give definitive diagnoses. " +
	"If symptoms may indicate an emergency, set ui_hints.emergency=true and advise urgent medical help. " +
	"Return ONLY one valid JSON object. No markdown. No commentary.\n\n" +
	"JSON schema (must match):\n" + schemaOutline

const russianSystemPrompt = "Ты медицинский информационный ассистент. " +
	"Ты НЕ врач и не ставишь диагноз. " +
	"Если симптомы могут быть опасными, выстави ui_hints.emergency=true и рекомендуй срочно обратиться за медицинской помощью. " +
	"Верни ТОЛЬКО один валидный JSON-объект. Без markdown. Без текста вне JSON. " +
	"Не ставь нумерацию вроде '1)' перед названием лекарства.\n\n" +
	"Схема JSON (строго соблюдать):\n" + schemaOutline

// SystemPrompt returns the JSON-only instruction for lang
func SystemPrompt(lang string) string {
	if i18n.Normalize(lang) == i18n.English {
		return englishSystemPrompt
	}
	return russianSystemPrompt
}

// UserPrompt builds the user message. For KindAdd, text is the medicine name and
// dose and info carries whatever else the user typed.
func UserPrompt(kind RequestKind, lang, text, info string, today time.Time) string {
	labels := i18n.For(lang)
	var b strings.Builder

	switch kind {
	case KindAdd:
		fmt.Fprintf(&b, "%s:\n%s\n", labels.Medicine, strings.TrimSpace(text))
		if info = strings.TrimSpace(info); info != "" {
			fmt.Fprintf(&b, "%s:\n%s\n", labels.ExtraInfo, info)
		}
	default:
		fmt.Fprintf(&b, "%s:\n%s\n", labels.UserSymptoms, strings.TrimSpace(text))
	}

	fmt.Fprintf(&b, "start_date: %s\n", models.FormatDate(today))
	return b.String()
}
