// ABOUTME: LLM run audit log storage for SQLite
// ABOUTME: Append-only record of every model invocation and its raw response
package sqlite

import (
	"database/sql"
	"time"

	"github.com/harper/microdoser/internal/models"
)

// LlmRunStore handles llm_runs persistence
type LlmRunStore struct {
	db *DB
}

// NewLlmRunStore creates a new LlmRunStore
func NewLlmRunStore(db *DB) *LlmRunStore {
	return &LlmRunStore{db: db}
}

// Create appends a run and returns its id
func (s *LlmRunStore) Create(run *models.LlmRun) (int64, error) {
	createdAt := run.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	status := run.Status
	if status == "" {
		status = models.RunStatusOK
	}

	result, err := s.db.Exec(`
		INSERT INTO llm_runs (request_id, language, model, user_text, response_json, status, error_text, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, nullString(run.RequestID), run.Language, run.Model, run.UserText, run.ResponseJSON,
		status, nullString(run.ErrorText), createdAt)
	if err != nil {
		return 0, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, err
	}
	run.ID = id
	run.Status = status
	run.CreatedAt = createdAt
	return id, nil
}

// Get retrieves a run by id, returning nil if not found
func (s *LlmRunStore) Get(id int64) (*models.LlmRun, error) {
	rows, err := s.db.Query(`
		SELECT id, request_id, language, model, user_text, response_json, status, error_text, created_at
		FROM llm_runs
		WHERE id = ?
	`, id)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	runs, err := s.scanRuns(rows)
	if err != nil || len(runs) == 0 {
		return nil, err
	}
	return &runs[0], nil
}

// ListRecent returns the newest runs first
func (s *LlmRunStore) ListRecent(limit int) ([]models.LlmRun, error) {
	rows, err := s.db.Query(`
		SELECT id, request_id, language, model, user_text, response_json, status, error_text, created_at
		FROM llm_runs
		ORDER BY id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	return s.scanRuns(rows)
}

// ListAll returns every run, oldest first
func (s *LlmRunStore) ListAll() ([]models.LlmRun, error) {
	rows, err := s.db.Query(`
		SELECT id, request_id, language, model, user_text, response_json, status, error_text, created_at
		FROM llm_runs
		ORDER BY id ASC
	`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	return s.scanRuns(rows)
}

// Delete removes a run; rows referencing it keep existing with a NULL reference
func (s *LlmRunStore) Delete(id int64) error {
	_, err := s.db.Exec(`DELETE FROM llm_runs WHERE id = ?`, id)
	return err
}

func (s *LlmRunStore) scanRuns(rows *sql.Rows) ([]models.LlmRun, error) {
	var runs []models.LlmRun

	for rows.Next() {
		var (
			run       models.LlmRun
			requestID sql.NullString
			errorText sql.NullString
		)
		if err := rows.Scan(&run.ID, &requestID, &run.Language, &run.Model, &run.UserText,
			&run.ResponseJSON, &run.Status, &errorText, &run.CreatedAt); err != nil {
			return nil, err
		}
		run.RequestID = requestID.String
		run.ErrorText = errorText.String
		runs = append(runs, run)
	}

	return runs, rows.Err()
}
