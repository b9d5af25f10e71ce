// ABOUTME: Error types returned by the LLM client
// ABOUTME: Separates configuration, provider and reply-format failures
package llm

import (
	"errors"
	"fmt"
	"strings"
)

// snippetLimit bounds provider bodies and raw replies quoted in errors
const snippetLimit = 400

// ErrMissingAPIKey is returned when no OpenRouter key is configured
var ErrMissingAPIKey = errors.New("OpenRouter API key is missing: run `microdoser settings set api_key <key>` or set OPENROUTER_API_KEY")

// ProviderError is a non-200 (or empty) reply from the chat-completions endpoint
type ProviderError struct {
	Status int
	Body   string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("OpenRouter error %d: %s", e.Status, e.Body)
}

// FormatError means the model reply could not be read as the expected JSON object
type FormatError struct {
	Snippet string
	Err     error
}

func (e *FormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("LLM reply is not valid JSON (%v); first %d characters: %s", e.Err, snippetLimit, e.Snippet)
	}
	return fmt.Sprintf("LLM reply is not a JSON object; first %d characters: %s", snippetLimit, e.Snippet)
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

func newFormatError(text string, err error) *FormatError {
	return &FormatError{Snippet: snippet(strings.ReplaceAll(strings.TrimSpace(text), "\n", " ")), Err: err}
}

// snippet returns at most snippetLimit runes of s
func snippet(s string) string {
	runes := []rune(s)
	if len(runes) <= snippetLimit {
		return s
	}
	return string(runes[:snippetLimit])
}
