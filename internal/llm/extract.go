// ABOUTME: Recovers the JSON object from a model reply
// ABOUTME: Strips markdown fences and falls back to the outermost braces
package llm

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/harper/microdoser/internal/models"
)

var (
	openingFenceRe = regexp.MustCompile("(?i)^```(?:json)?\\s*")
	closingFenceRe = regexp.MustCompile("\\s*```$")
)

// ExtractJSON returns the JSON object contained in text.
// The reply may be wrapped in a ``` or ```json fence, or surrounded by prose.
func ExtractJSON(text string) (json.RawMessage, error) {
	cleaned := strings.TrimSpace(text)
	if strings.HasPrefix(cleaned, "```") {
		cleaned = openingFenceRe.ReplaceAllString(cleaned, "")
		cleaned = closingFenceRe.ReplaceAllString(cleaned, "")
	}

	if isJSONObject(cleaned) {
		return json.RawMessage(cleaned), nil
	}

	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start == -1 || end <= start {
		return nil, newFormatError(text, nil)
	}

	candidate := cleaned[start : end+1]
	var obj map[string]json.RawMessage
	if err := json.Unmarshal([]byte(candidate), &obj); err != nil {
		return nil, newFormatError(text, err)
	}
	return json.RawMessage(candidate), nil
}

func isJSONObject(s string) bool {
	var obj map[string]json.RawMessage
	return json.Unmarshal([]byte(s), &obj) == nil && obj != nil
}

// ParsePlan extracts and decodes a Plan from a model reply
func ParsePlan(text string) (*models.Plan, json.RawMessage, error) {
	raw, err := ExtractJSON(text)
	if err != nil {
		return nil, nil, err
	}

	var plan models.Plan
	if err := json.Unmarshal(raw, &plan); err != nil {
		return nil, nil, newFormatError(text, err)
	}
	return &plan, raw, nil
}
