// ABOUTME: Localized strings written into the store alongside model output
// ABOUTME: Russian is the default; any language starting with "en" selects English
package i18n

import "strings"

// Supported languages
const (
	Russian = "ru"
	English = "en"
)

// Labels holds the fixed strings used when saving a plan
type Labels struct {
	Reminder          string
	TakeMedicine      string
	AutoEventNote     string
	Note              string
	Warnings          string
	Contraindications string
	Interactions      string
	UserSymptoms      string
	Medicine          string
	ExtraInfo         string
}

var russian = Labels{
	Reminder:          "Напоминание",
	TakeMedicine:      "Приём лекарства",
	AutoEventNote:     "Создано автоматически (уточни расписание при необходимости)",
	Note:              "Заметка",
	Warnings:          "Предупреждения",
	Contraindications: "Противопоказания",
	Interactions:      "Взаимодействия",
	UserSymptoms:      "Симптомы пользователя",
	Medicine:          "Лекарство и дозировка",
	ExtraInfo:         "Дополнительная информация",
}

var english = Labels{
	Reminder:          "Reminder",
	TakeMedicine:      "Take medicine",
	AutoEventNote:     "Created automatically (adjust the schedule if needed)",
	Note:              "Note",
	Warnings:          "Warnings",
	Contraindications: "Contraindications",
	Interactions:      "Interactions",
	UserSymptoms:      "User symptoms",
	Medicine:          "Medicine and dose",
	ExtraInfo:         "Additional information",
}

// Normalize maps a free-form language value to Russian or English
func Normalize(lang string) string {
	if strings.HasPrefix(strings.ToLower(strings.TrimSpace(lang)), English) {
		return English
	}
	return Russian
}

// For returns the labels for lang
func For(lang string) Labels {
	if Normalize(lang) == English {
		return english
	}
	return russian
}
