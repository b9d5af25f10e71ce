// ABOUTME: Calendar event storage for SQLite
// ABOUTME: Events are queried by local start time range for the calendar and reminders views
package sqlite

import (
	"database/sql"
	"time"

	"github.com/harper/microdoser/internal/models"
)

// CalendarStore handles calendar_events persistence
type CalendarStore struct {
	db *DB
}

// NewCalendarStore creates a new CalendarStore
func NewCalendarStore(db *DB) *CalendarStore {
	return &CalendarStore{db: db}
}

const calendarColumns = `id, title, start_local, end_local, recurrence_json, reminders_json, notes,
	intake_plan_id, source_llm_run_id, created_at`

// Create inserts an event and returns its id
func (s *CalendarStore) Create(event *models.CalendarEvent) (int64, error) {
	createdAt := event.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	recurrence, err := nullJSONMap(event.Recurrence)
	if err != nil {
		return 0, err
	}
	reminders, err := nullJSON(event.RemindersMinBefore)
	if err != nil {
		return 0, err
	}

	result, err := s.db.Exec(`
		INSERT INTO calendar_events (
			title, start_local, end_local, recurrence_json, reminders_json, notes,
			intake_plan_id, source_llm_run_id, created_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, event.Title, event.StartLocal, nullString(event.EndLocal), recurrence, reminders,
		nullString(event.Notes), nullInt64(event.IntakePlanID), nullInt64(event.SourceLlmRunID), createdAt)
	if err != nil {
		return 0, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, err
	}
	event.ID = id
	event.CreatedAt = createdAt
	return id, nil
}

// Get retrieves an event by id, returning nil if not found
func (s *CalendarStore) Get(id int64) (*models.CalendarEvent, error) {
	rows, err := s.db.Query(`SELECT `+calendarColumns+` FROM calendar_events WHERE id = ?`, id)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	events, err := s.scanEvents(rows)
	if err != nil || len(events) == 0 {
		return nil, err
	}
	return &events[0], nil
}

// ListBetween returns events whose start_local lies in [startLocal, endLocal].
// Bounds are compared as strings, which matches time order for LocalLayout values.
func (s *CalendarStore) ListBetween(startLocal, endLocal string) ([]models.CalendarEvent, error) {
	rows, err := s.db.Query(`SELECT `+calendarColumns+`
		FROM calendar_events
		WHERE start_local >= ? AND start_local <= ?
		ORDER BY start_local ASC, id ASC
	`, startLocal, endLocal)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	return s.scanEvents(rows)
}

// ListOnDate returns the events starting on the given local day
func (s *CalendarStore) ListOnDate(day time.Time) ([]models.CalendarEvent, error) {
	start, end := models.DayBounds(day)
	return s.ListBetween(start, end)
}

// ListAll returns every event, including ones whose start_local is malformed
func (s *CalendarStore) ListAll() ([]models.CalendarEvent, error) {
	rows, err := s.db.Query(`SELECT ` + calendarColumns + `
		FROM calendar_events
		ORDER BY start_local ASC, id ASC
	`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	return s.scanEvents(rows)
}

// Delete removes an event
func (s *CalendarStore) Delete(id int64) (bool, error) {
	result, err := s.db.Exec(`DELETE FROM calendar_events WHERE id = ?`, id)
	if err != nil {
		return false, err
	}
	n, err := result.RowsAffected()
	return n > 0, err
}

func (s *CalendarStore) scanEvents(rows *sql.Rows) ([]models.CalendarEvent, error) {
	var events []models.CalendarEvent

	for rows.Next() {
		var (
			event      models.CalendarEvent
			endLocal   sql.NullString
			recurrence sql.NullString
			reminders  sql.NullString
			notes      sql.NullString
			planID     sql.NullInt64
			runID      sql.NullInt64
		)
		if err := rows.Scan(&event.ID, &event.Title, &event.StartLocal, &endLocal, &recurrence,
			&reminders, &notes, &planID, &runID, &event.CreatedAt); err != nil {
			return nil, err
		}
		event.EndLocal = endLocal.String
		decodeJSON(recurrence, &event.Recurrence)
		decodeJSON(reminders, &event.RemindersMinBefore)
		event.Notes = notes.String
		event.IntakePlanID = int64Ptr(planID)
		event.SourceLlmRunID = int64Ptr(runID)
		events = append(events, event)
	}

	return events, rows.Err()
}
