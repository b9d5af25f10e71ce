// ABOUTME: OpenRouter chat-completions client for the pick and add actions
// ABOUTME: Sends a strict json_schema response format and normalizes the parsed plan
package llm

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	openai "github.com/sashabaranov/go-openai"

	"github.com/harper/microdoser/internal/i18n"
	"github.com/harper/microdoser/internal/models"
	"github.com/harper/microdoser/internal/util"
)

const (
	// DefaultModel is used when no model is configured
	DefaultModel = "deepseek/deepseek-chat:free"
	// DefaultBaseURL is the OpenRouter API root
	DefaultBaseURL = "https://openrouter.ai/api/v1"
	// DefaultTimeout bounds a single HTTP round trip
	DefaultTimeout = 60 * time.Second

	// DefaultMaxTokens is the output budget when none is configured
	DefaultMaxTokens = 1200
	// MinMaxTokens and MaxMaxTokens bound the configured output budget
	MinMaxTokens = 128
	MaxMaxTokens = 2000

	temperature    = 0.2
	retryBaseDelay = 500 * time.Millisecond
)

// Provider messages that mean the model rejected max_tokens and wants max_completion_tokens
var oversizedBudgetMarkers = []string{"requested up to 65536", "requested up to 32768"}

// ClientConfig holds configuration for the OpenRouter client
type ClientConfig struct {
	APIKey    string
	Model     string
	BaseURL   string
	MaxTokens int
	Timeout   time.Duration

	// RateLimitRetries is how many times an HTTP 429 reply is retried with backoff; zero (the default) never retries
	RateLimitRetries int
}

// DefaultConfig returns the default client configuration
func DefaultConfig(apiKey string) *ClientConfig {
	return &ClientConfig{
		APIKey:    apiKey,
		Model:     DefaultModel,
		BaseURL:   DefaultBaseURL,
		MaxTokens: DefaultMaxTokens,
		Timeout:   DefaultTimeout,
	}
}

// ClampMaxTokens maps n into [MinMaxTokens, MaxMaxTokens]; non-positive values use the default
func ClampMaxTokens(n int) int {
	if n <= 0 {
		n = DefaultMaxTokens
	}
	return max(MinMaxTokens, min(n, MaxMaxTokens))
}

// Request is one pick or add call
type Request struct {
	ID       string
	Kind     RequestKind
	Language string
	Text     string
	Info     string
}

// NewRequest builds a request with a fresh id
func NewRequest(kind RequestKind, lang, text, info string) Request {
	return Request{
		ID:       uuid.New().String(),
		Kind:     kind,
		Language: i18n.Normalize(lang),
		Text:     strings.TrimSpace(text),
		Info:     strings.TrimSpace(info),
	}
}

// UserText is what gets logged as the user's input for this request
func (r Request) UserText() string {
	if r.Info == "" {
		return r.Text
	}
	return r.Text + "\n" + r.Info
}

// Response is a parsed and normalized reply
type Response struct {
	RequestID string
	Model     string
	Plan      *models.Plan
	RawJSON   string
}

// Client wraps the go-openai client pointed at OpenRouter
type Client struct {
	client    *openai.Client
	model     string
	maxTokens int
	retries   int
	retryBase time.Duration
	logger    *log.Logger
	now       func() time.Time
}

// NewClient creates a client; it fails with ErrMissingAPIKey when cfg has no key
func NewClient(cfg *ClientConfig, logger *log.Logger) (*Client, error) {
	if cfg == nil || strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrMissingAPIKey
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}

	oc := openai.DefaultConfig(strings.TrimSpace(cfg.APIKey))
	oc.BaseURL = DefaultBaseURL
	if cfg.BaseURL != "" {
		oc.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	oc.HTTPClient = &bodyRecorder{next: &http.Client{Timeout: timeout}}

	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}

	return &Client{
		client:    openai.NewClientWithConfig(oc),
		model:     model,
		maxTokens: ClampMaxTokens(cfg.MaxTokens),
		retries:   max(cfg.RateLimitRetries, 0),
		retryBase: retryBaseDelay,
		logger:    logger,
		now:       time.Now,
	}, nil
}

// Model returns the model id sent with every request
func (c *Client) Model() string {
	return c.model
}

// Pick asks for a medicine recommendation for the given symptoms
func (c *Client) Pick(ctx context.Context, lang, symptoms string) (*Response, error) {
	return c.Plan(ctx, NewRequest(KindPick, lang, symptoms, ""))
}

// Add asks for an intake plan for a medicine the user names
func (c *Client) Add(ctx context.Context, lang, nameDose, info string) (*Response, error) {
	return c.Plan(ctx, NewRequest(KindAdd, lang, nameDose, info))
}

// Plan sends req, parses the reply and normalizes it
func (c *Client) Plan(ctx context.Context, req Request) (*Response, error) {
	if req.ID == "" {
		req.ID = uuid.New().String()
	}
	now := c.now()
	logger := c.logger.With("request_id", req.ID, "kind", req.Kind.String(), "model", c.model)

	chatReq := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: SystemPrompt(req.Language),
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: UserPrompt(req.Kind, req.Language, req.Text, req.Info, now),
			},
		},
		Temperature: temperature,
		MaxTokens:   c.maxTokens,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   SchemaName,
				Schema: planSchema,
				Strict: true,
			},
		},
	}

	logger.Debug("sending chat completion", "max_tokens", c.maxTokens)
	resp, rawErr, err := c.complete(ctx, chatReq, logger)
	if err != nil && oversizedBudget(err, rawErr) {
		logger.Warn("provider rejected max_tokens, retrying with max_completion_tokens")
		chatReq.MaxTokens = 0
		chatReq.MaxCompletionTokens = c.maxTokens
		resp, rawErr, err = c.complete(ctx, chatReq, logger)
	}
	if err != nil {
		logger.Error("chat completion failed", "err", err)
		return nil, providerError(err, rawErr)
	}

	if len(resp.Choices) == 0 {
		return nil, &ProviderError{Status: http.StatusOK, Body: "reply contains no choices"}
	}

	content := resp.Choices[0].Message.Content
	plan, raw, err := ParsePlan(content)
	if err != nil {
		logger.Error("unparsable reply", "err", err)
		return nil, err
	}

	Normalize(plan, now, req.Language)
	logger.Info("plan received", "recommendations", len(plan.Recommendations), "events", len(plan.Planner.CalendarEvents))

	return &Response{
		RequestID: req.ID,
		Model:     c.model,
		Plan:      plan,
		RawJSON:   string(raw),
	}, nil
}

// complete sends chatReq, backing off and retrying while the provider answers 429.
// On failure it also returns the raw body of the last error reply, if any.
func (c *Client) complete(ctx context.Context, chatReq openai.ChatCompletionRequest, logger *log.Logger) (openai.ChatCompletionResponse, []byte, error) {
	for attempt := 0; ; attempt++ {
		rec := &errorBody{}
		resp, err := c.client.CreateChatCompletion(context.WithValue(ctx, errorBodyKey{}, rec), chatReq)
		if err == nil || attempt >= c.retries {
			return resp, rec.raw, err
		}
		if status, _, ok := errorStatus(err); !ok || status != http.StatusTooManyRequests {
			return resp, rec.raw, err
		}

		delay := util.CalculateBackoff(c.retryBase, attempt+1)
		logger.Warn("rate limited, backing off", "attempt", attempt+1, "delay", delay)
		select {
		case <-ctx.Done():
			return resp, rec.raw, ctx.Err()
		case <-time.After(delay):
		}
	}
}

// oversizedBudget reports whether err is the 402 that asks for max_completion_tokens.
// The markers are looked up in the raw reply too, since providers may nest them under error.metadata.
func oversizedBudget(err error, raw []byte) bool {
	status, body, ok := errorStatus(err)
	if !ok || status != http.StatusPaymentRequired {
		return false
	}
	for _, marker := range oversizedBudgetMarkers {
		if strings.Contains(body, marker) || bytes.Contains(raw, []byte(marker)) {
			return true
		}
	}
	return false
}

// errorStatus pulls the HTTP status and body text out of a go-openai error
func errorStatus(err error) (int, string, bool) {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode, apiErr.Message, true
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		body := string(reqErr.Body)
		if body == "" && reqErr.Err != nil {
			body = reqErr.Err.Error()
		}
		return reqErr.HTTPStatusCode, body, true
	}
	return 0, "", false
}

// providerError converts HTTP failures to *ProviderError and wraps transport errors.
// The raw reply is quoted when it was recorded; otherwise the parsed message is.
func providerError(err error, raw []byte) error {
	status, body, ok := errorStatus(err)
	if !ok || status == 0 {
		return fmt.Errorf("OpenRouter request failed: %w", err)
	}
	if text := strings.TrimSpace(string(raw)); text != "" {
		body = text
	}
	return &ProviderError{Status: status, Body: snippet(body)}
}

type errorBodyKey struct{}

// errorBody receives the raw body of a failed reply for one request
type errorBody struct {
	raw []byte
}

// bodyRecorder is the HTTP doer handed to go-openai. It copies the body of
// 4xx/5xx replies into the errorBody carried by the request context.
type bodyRecorder struct {
	next openai.HTTPDoer
}

func (r *bodyRecorder) Do(req *http.Request) (*http.Response, error) {
	resp, err := r.next.Do(req)
	if err != nil || resp.StatusCode < http.StatusBadRequest {
		return resp, err
	}
	rec, ok := req.Context().Value(errorBodyKey{}).(*errorBody)
	if !ok {
		return resp, nil
	}

	raw, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if readErr != nil {
		return nil, fmt.Errorf("reading error reply: %w", readErr)
	}
	rec.raw = raw
	resp.Body = io.NopCloser(bytes.NewReader(raw))
	return resp, nil
}
