// ABOUTME: Note storage for SQLite
// ABOUTME: Title/body pairs listed most-recently-updated first
package sqlite

import (
	"database/sql"
	"time"

	"github.com/harper/microdoser/internal/models"
)

// DefaultNotesLimit is used when callers pass a non-positive limit
const DefaultNotesLimit = 50

// NoteStore handles notes persistence
type NoteStore struct {
	db *DB
}

// NewNoteStore creates a new NoteStore
func NewNoteStore(db *DB) *NoteStore {
	return &NoteStore{db: db}
}

// Create inserts a note and returns its id
func (s *NoteStore) Create(note *models.Note) (int64, error) {
	now := time.Now()
	if note.CreatedAt.IsZero() {
		note.CreatedAt = now
	}
	if note.UpdatedAt.IsZero() {
		note.UpdatedAt = note.CreatedAt
	}

	result, err := s.db.Exec(`
		INSERT INTO notes (title, body, source_llm_run_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`, note.Title, note.Body, nullInt64(note.SourceLlmRunID), note.CreatedAt, note.UpdatedAt)
	if err != nil {
		return 0, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, err
	}
	note.ID = id
	return id, nil
}

// Update replaces title and body and bumps updated_at
func (s *NoteStore) Update(id int64, title, body string) (bool, error) {
	result, err := s.db.Exec(`
		UPDATE notes SET title = ?, body = ?, updated_at = ? WHERE id = ?
	`, title, body, time.Now(), id)
	if err != nil {
		return false, err
	}
	n, err := result.RowsAffected()
	return n > 0, err
}

// Get returns a note by id, or nil when it does not exist
func (s *NoteStore) Get(id int64) (*models.Note, error) {
	var (
		note  models.Note
		runID sql.NullInt64
	)
	err := s.db.QueryRow(`
		SELECT id, title, body, source_llm_run_id, created_at, updated_at
		FROM notes WHERE id = ?
	`, id).Scan(&note.ID, &note.Title, &note.Body, &runID, &note.CreatedAt, &note.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	note.SourceLlmRunID = int64Ptr(runID)
	return &note, nil
}

// Delete removes a note
func (s *NoteStore) Delete(id int64) (bool, error) {
	result, err := s.db.Exec(`DELETE FROM notes WHERE id = ?`, id)
	if err != nil {
		return false, err
	}
	n, err := result.RowsAffected()
	return n > 0, err
}

// ListRecent returns up to limit notes, most recently updated first
func (s *NoteStore) ListRecent(limit int) ([]models.Note, error) {
	if limit <= 0 {
		limit = DefaultNotesLimit
	}

	rows, err := s.db.Query(`
		SELECT id, title, body, source_llm_run_id, created_at, updated_at
		FROM notes
		ORDER BY updated_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	return scanNotes(rows)
}

// ListAll returns every note, oldest first
func (s *NoteStore) ListAll() ([]models.Note, error) {
	rows, err := s.db.Query(`
		SELECT id, title, body, source_llm_run_id, created_at, updated_at
		FROM notes
		ORDER BY id ASC
	`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	return scanNotes(rows)
}

func scanNotes(rows *sql.Rows) ([]models.Note, error) {
	var notes []models.Note
	for rows.Next() {
		var (
			note  models.Note
			runID sql.NullInt64
		)
		if err := rows.Scan(&note.ID, &note.Title, &note.Body, &runID, &note.CreatedAt, &note.UpdatedAt); err != nil {
			return nil, err
		}
		note.SourceLlmRunID = int64Ptr(runID)
		notes = append(notes, note)
	}

	return notes, rows.Err()
}
