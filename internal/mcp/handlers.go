// ABOUTME: MCP tool handler implementations for the microdoser server
// ABOUTME: Read tools query storage directly; LLM tools go through the core runner
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/harper/microdoser/internal/core"
	"github.com/harper/microdoser/internal/llm"
	"github.com/harper/microdoser/internal/models"
	"github.com/harper/microdoser/internal/storage/sqlite"
)

// Handlers contains the handler functions for all MCP tools
type Handlers struct {
	storage  *sqlite.Storage
	runner   *core.Runner
	language string
	logger   *log.Logger
	now      func() time.Time
}

// NewHandlers creates handlers over store. runner may be nil.
func NewHandlers(store *sqlite.Storage, runner *core.Runner, language string, logger *log.Logger) *Handlers {
	if logger == nil {
		logger = log.Default()
	}
	return &Handlers{storage: store, runner: runner, language: language, logger: logger, now: time.Now}
}

// ListReminders handles the list_reminders tool
func (h *Handlers) ListReminders(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	day := h.now()
	if raw := request.GetString("date", ""); raw != "" {
		parsed, err := models.ParseDate(raw)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("date must be YYYY-MM-DD, got %q", raw)), nil
		}
		day = parsed
	}

	events, err := h.storage.Calendar().ListOnDate(day)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list reminders: %v", err)), nil
	}

	reminders := make([]map[string]interface{}, 0, len(events))
	for _, event := range events {
		reminders = append(reminders, map[string]interface{}{
			"id":    event.ID,
			"time":  event.TimeHHMM(),
			"title": event.Title,
			"notes": event.Notes,
		})
	}

	return jsonResult(map[string]interface{}{
		"date":      models.FormatDate(day),
		"reminders": reminders,
	})
}

// ListEvents handles the list_events tool
func (h *Handlers) ListEvents(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	from, to, errResult := dateRange(request)
	if errResult != nil {
		return errResult, nil
	}

	fromStart, _ := models.DayBounds(from)
	_, toEnd := models.DayBounds(to)
	events, err := h.storage.Calendar().ListBetween(fromStart, toEnd)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list events: %v", err)), nil
	}
	if events == nil {
		events = []models.CalendarEvent{}
	}

	return jsonResult(map[string]interface{}{"events": events})
}

// ListNotes handles the list_notes tool
func (h *Handlers) ListNotes(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := request.GetInt("limit", sqlite.DefaultNotesLimit)

	notes, err := h.storage.Notes().ListRecent(limit)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list notes: %v", err)), nil
	}
	if notes == nil {
		notes = []models.Note{}
	}

	return jsonResult(map[string]interface{}{"notes": notes})
}

// ListDiary handles the list_diary tool
func (h *Handlers) ListDiary(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	from, to, errResult := dateRange(request)
	if errResult != nil {
		return errResult, nil
	}

	entries, err := h.storage.Diary().ListBetween(models.FormatDate(from), models.FormatDate(to))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list diary: %v", err)), nil
	}
	if entries == nil {
		entries = []models.DiaryEntry{}
	}

	return jsonResult(map[string]interface{}{"entries": entries})
}

// RecommendMedicine handles the recommend_medicine tool
func (h *Handlers) RecommendMedicine(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	symptoms, err := request.RequireString("symptoms")
	if err != nil || symptoms == "" {
		return mcp.NewToolResultError("symptoms argument is required and must be a string"), nil
	}

	req := llm.NewRequest(llm.KindPick, request.GetString("language", h.language), symptoms, "")
	return h.runPlan(ctx, req, request.GetBool("save", false))
}

// AddMedicine handles the add_medicine tool
func (h *Handlers) AddMedicine(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	nameDose, err := request.RequireString("name_dose")
	if err != nil || nameDose == "" {
		return mcp.NewToolResultError("name_dose argument is required and must be a string"), nil
	}

	req := llm.NewRequest(llm.KindAdd, request.GetString("language", h.language), nameDose, request.GetString("info", ""))
	return h.runPlan(ctx, req, request.GetBool("save", false))
}

func (h *Handlers) runPlan(ctx context.Context, req llm.Request, save bool) (*mcp.CallToolResult, error) {
	if h.runner == nil {
		return mcp.NewToolResultError(llm.ErrMissingAPIKey.Error()), nil
	}

	res := h.runner.Run(ctx, req, save)
	if res.Err != nil {
		h.logger.Error("LLM tool failed", "request_id", req.ID, "err", res.Err)
		return mcp.NewToolResultError(res.Err.Error()), nil
	}

	response := map[string]interface{}{
		"request_id": req.ID,
		"plan":       res.Response.Plan,
	}
	if res.Saved != nil {
		response["saved"] = res.Saved
	}
	return jsonResult(response)
}

func dateRange(request mcp.CallToolRequest) (time.Time, time.Time, *mcp.CallToolResult) {
	rawFrom, err := request.RequireString("from")
	if err != nil {
		return time.Time{}, time.Time{}, mcp.NewToolResultError("from argument is required (YYYY-MM-DD)")
	}
	rawTo, err := request.RequireString("to")
	if err != nil {
		return time.Time{}, time.Time{}, mcp.NewToolResultError("to argument is required (YYYY-MM-DD)")
	}

	from, err := models.ParseDate(rawFrom)
	if err != nil {
		return time.Time{}, time.Time{}, mcp.NewToolResultError(fmt.Sprintf("from must be YYYY-MM-DD, got %q", rawFrom))
	}
	to, err := models.ParseDate(rawTo)
	if err != nil {
		return time.Time{}, time.Time{}, mcp.NewToolResultError(fmt.Sprintf("to must be YYYY-MM-DD, got %q", rawTo))
	}
	if to.Before(from) {
		return time.Time{}, time.Time{}, mcp.NewToolResultError("to must not be before from")
	}
	return from, to, nil
}

func jsonResult(response interface{}) (*mcp.CallToolResult, error) {
	responseJSON, err := json.Marshal(response)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(responseJSON)), nil
}
