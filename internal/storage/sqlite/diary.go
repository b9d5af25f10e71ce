// ABOUTME: Diary entry storage for SQLite
// ABOUTME: Free text keyed by date, listed by inclusive date range
package sqlite

import (
	"database/sql"
	"time"

	"github.com/harper/microdoser/internal/models"
)

// DiaryStore handles diary_entries persistence
type DiaryStore struct {
	db *DB
}

// NewDiaryStore creates a new DiaryStore
func NewDiaryStore(db *DB) *DiaryStore {
	return &DiaryStore{db: db}
}

// Create inserts an entry and returns its id
func (s *DiaryStore) Create(entry *models.DiaryEntry) (int64, error) {
	createdAt := entry.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	result, err := s.db.Exec(`
		INSERT INTO diary_entries (entry_date, text, source_llm_run_id, created_at)
		VALUES (?, ?, ?, ?)
	`, entry.EntryDate, entry.Text, nullInt64(entry.SourceLlmRunID), createdAt)
	if err != nil {
		return 0, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, err
	}
	entry.ID = id
	entry.CreatedAt = createdAt
	return id, nil
}

// ListBetween returns entries dated within [startDate, endDate] (DateLayout strings)
func (s *DiaryStore) ListBetween(startDate, endDate string) ([]models.DiaryEntry, error) {
	rows, err := s.db.Query(`
		SELECT id, entry_date, text, source_llm_run_id, created_at
		FROM diary_entries
		WHERE entry_date >= ? AND entry_date <= ?
		ORDER BY entry_date ASC, id ASC
	`, startDate, endDate)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	return scanDiary(rows)
}

// ListAll returns every entry ordered by date
func (s *DiaryStore) ListAll() ([]models.DiaryEntry, error) {
	rows, err := s.db.Query(`
		SELECT id, entry_date, text, source_llm_run_id, created_at
		FROM diary_entries
		ORDER BY entry_date ASC, id ASC
	`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	return scanDiary(rows)
}

func scanDiary(rows *sql.Rows) ([]models.DiaryEntry, error) {
	var entries []models.DiaryEntry
	for rows.Next() {
		var (
			entry models.DiaryEntry
			runID sql.NullInt64
		)
		if err := rows.Scan(&entry.ID, &entry.EntryDate, &entry.Text, &runID, &entry.CreatedAt); err != nil {
			return nil, err
		}
		entry.SourceLlmRunID = int64Ptr(runID)
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}
