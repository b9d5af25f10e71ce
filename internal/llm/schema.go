// ABOUTME: JSON schema sent as the strict response_format of every request
// ABOUTME: Describes the medicine_plan object decoded into models.Plan
package llm

import "encoding/json"

// SchemaName is the json_schema name announced to the provider
const SchemaName = "medicine_plan"

// planSchema constrains replies to a single-recommendation plan
var planSchema = json.RawMessage(`{
  "type": "object",
  "additionalProperties": false,
  "required": ["ui_hints", "recommendations", "planner", "disclaimer"],
  "properties": {
    "ui_hints": {
      "type": "object",
      "additionalProperties": false,
      "required": ["summary", "severity", "need_doctor", "emergency"],
      "properties": {
        "summary": {"type": "string"},
        "severity": {"type": "string", "enum": ["low", "medium", "high"]},
        "need_doctor": {"type": "boolean"},
        "emergency": {"type": "boolean"}
      }
    },
    "recommendations": {
      "type": "array",
      "minItems": 1,
      "maxItems": 1,
      "items": {
        "type": "object",
        "additionalProperties": false,
        "required": ["name", "dose", "how_to_take", "course", "warnings", "contraindications", "interactions"],
        "properties": {
          "name": {"type": "string"},
          "dose": {"type": "string"},
          "how_to_take": {"type": "string"},
          "course": {"type": "string"},
          "warnings": {"type": "array", "items": {"type": "string"}},
          "contraindications": {"type": "array", "items": {"type": "string"}},
          "interactions": {"type": "array", "items": {"type": "string"}}
        }
      }
    },
    "planner": {
      "type": "object",
      "additionalProperties": false,
      "required": ["calendar_events", "diary_entry", "notes"],
      "properties": {
        "start_date": {"type": "string"},
        "calendar_events": {
          "type": "array",
          "minItems": 1,
          "items": {
            "type": "object",
            "additionalProperties": false,
            "required": ["title", "datetime", "duration_min", "note"],
            "properties": {
              "title": {"type": "string"},
              "datetime": {"type": "string", "pattern": "^\\d{4}-\\d{2}-\\d{2}T\\d{2}:\\d{2}(:\\d{2})?$"},
              "duration_min": {"type": "number"},
              "note": {"type": "string"}
            }
          }
        },
        "diary_entry": {
          "type": "object",
          "additionalProperties": false,
          "required": ["title", "body"],
          "properties": {
            "title": {"type": "string"},
            "body": {"type": "string"}
          }
        },
        "notes": {
          "type": "array",
          "items": {
            "type": "object",
            "additionalProperties": false,
            "required": ["title", "body"],
            "properties": {
              "title": {"type": "string"},
              "body": {"type": "string"}
            }
          }
        }
      }
    },
    "disclaimer": {"type": "string"}
  }
}`)
