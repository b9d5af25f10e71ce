// ABOUTME: Unified Storage layer that wraps all SQLite stores
// ABOUTME: Single handle injected into the planner, CLI commands and MCP handlers
package sqlite

import (
	"fmt"
)

// Storage bundles every table store over one database connection
type Storage struct {
	db        *DB
	settings  *SettingsStore
	runs      *LlmRunStore
	medicines *MedicineStore
	plans     *IntakePlanStore
	calendar  *CalendarStore
	diary     *DiaryStore
	notes     *NoteStore
}

// NewStorage initializes storage at the default XDG path
func NewStorage() (*Storage, error) {
	return NewStorageWithPath(DefaultDBPath())
}

// NewStorageWithPath initializes storage with a custom database path
func NewStorageWithPath(dbPath string) (*Storage, error) {
	db, err := Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return newStorage(db), nil
}

// NewStorageInMemory creates an in-memory storage (for testing)
func NewStorageInMemory() (*Storage, error) {
	db, err := OpenInMemory()
	if err != nil {
		return nil, fmt.Errorf("failed to open in-memory database: %w", err)
	}
	return newStorage(db), nil
}

func newStorage(db *DB) *Storage {
	return &Storage{
		db:        db,
		settings:  NewSettingsStore(db),
		runs:      NewLlmRunStore(db),
		medicines: NewMedicineStore(db),
		plans:     NewIntakePlanStore(db),
		calendar:  NewCalendarStore(db),
		diary:     NewDiaryStore(db),
		notes:     NewNoteStore(db),
	}
}

// Close closes the database connection
func (s *Storage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// DB returns the underlying database
func (s *Storage) DB() *DB { return s.db }

// Settings returns the key/value settings store
func (s *Storage) Settings() *SettingsStore { return s.settings }

// Runs returns the LLM run log store
func (s *Storage) Runs() *LlmRunStore { return s.runs }

// Medicines returns the medicine store
func (s *Storage) Medicines() *MedicineStore { return s.medicines }

// Plans returns the intake plan store
func (s *Storage) Plans() *IntakePlanStore { return s.plans }

// Calendar returns the calendar event store
func (s *Storage) Calendar() *CalendarStore { return s.calendar }

// Diary returns the diary store
func (s *Storage) Diary() *DiaryStore { return s.diary }

// Notes returns the note store
func (s *Storage) Notes() *NoteStore { return s.notes }
