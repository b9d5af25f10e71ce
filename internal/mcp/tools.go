// ABOUTME: MCP tool definitions and registration for the microdoser server
// ABOUTME: Exposes reminders, calendar, notes, diary and the pick/add LLM actions
package mcp

import (
	"github.com/charmbracelet/log"
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/harper/microdoser/internal/core"
	"github.com/harper/microdoser/internal/storage/sqlite"
)

// RegisterTools registers all MCP tools with the server. runner may be nil when no
// API key is configured; the LLM tools then answer with a configuration error.
func RegisterTools(server *mcpserver.MCPServer, store *sqlite.Storage, runner *core.Runner, language string, logger *log.Logger) *Handlers {
	handlers := NewHandlers(store, runner, language, logger)

	// 1. list_reminders - events on one day
	server.AddTool(mcp.Tool{
		Name:        "list_reminders",
		Description: "List medication reminders (calendar events) for one day, ordered by time.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"date": map[string]interface{}{
					"type":        "string",
					"description": "Day in YYYY-MM-DD format (default: today)",
				},
			},
		},
	}, handlers.ListReminders)

	// 2. list_events - events in a date range
	server.AddTool(mcp.Tool{
		Name:        "list_events",
		Description: "List calendar events whose start falls between two dates (inclusive).",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"from": map[string]interface{}{
					"type":        "string",
					"description": "First day, YYYY-MM-DD",
				},
				"to": map[string]interface{}{
					"type":        "string",
					"description": "Last day, YYYY-MM-DD",
				},
			},
			Required: []string{"from", "to"},
		},
	}, handlers.ListEvents)

	// 3. list_notes - most recently updated notes
	server.AddTool(mcp.Tool{
		Name:        "list_notes",
		Description: "List notes, most recently updated first.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"limit": map[string]interface{}{
					"type":        "number",
					"description": "Maximum number of notes to return (default: 50)",
					"default":     sqlite.DefaultNotesLimit,
				},
			},
		},
	}, handlers.ListNotes)

	// 4. list_diary - diary entries in a date range
	server.AddTool(mcp.Tool{
		Name:        "list_diary",
		Description: "List diary entries between two dates (inclusive).",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"from": map[string]interface{}{
					"type":        "string",
					"description": "First day, YYYY-MM-DD",
				},
				"to": map[string]interface{}{
					"type":        "string",
					"description": "Last day, YYYY-MM-DD",
				},
			},
			Required: []string{"from", "to"},
		},
	}, handlers.ListDiary)

	// 5. recommend_medicine - pick action
	server.AddTool(mcp.Tool{
		Name:        "recommend_medicine",
		Description: "Ask the LLM for a medicine recommendation for the given symptoms. Not medical advice. With save=true the plan is stored as intake plan, reminders, diary entry and notes.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"symptoms": map[string]interface{}{
					"type":        "string",
					"description": "Free-text description of symptoms",
				},
				"save": map[string]interface{}{
					"type":        "boolean",
					"description": "Persist the plan (default: false)",
					"default":     false,
				},
				"language": map[string]interface{}{
					"type":        "string",
					"description": "Reply language: ru or en (default: configured language)",
				},
			},
			Required: []string{"symptoms"},
		},
	}, handlers.RecommendMedicine)

	// 6. add_medicine - add action
	server.AddTool(mcp.Tool{
		Name:        "add_medicine",
		Description: "Ask the LLM to build an intake plan for a medicine the user already takes.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"name_dose": map[string]interface{}{
					"type":        "string",
					"description": "Medicine name and dose, e.g. 'Ibuprofen 200 mg'",
				},
				"info": map[string]interface{}{
					"type":        "string",
					"description": "Optional schedule or other details",
				},
				"save": map[string]interface{}{
					"type":        "boolean",
					"description": "Persist the plan (default: false)",
					"default":     false,
				},
				"language": map[string]interface{}{
					"type":        "string",
					"description": "Reply language: ru or en (default: configured language)",
				},
			},
			Required: []string{"name_dose"},
		},
	}, handlers.AddMedicine)

	return handlers
}
