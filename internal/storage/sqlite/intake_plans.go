// ABOUTME: Intake plan storage for SQLite
// ABOUTME: Textual medication instructions linked to a medicine and the originating LLM run
package sqlite

import (
	"database/sql"
	"time"

	"github.com/harper/microdoser/internal/models"
)

// IntakePlanStore handles intake_plans persistence
type IntakePlanStore struct {
	db *DB
}

// NewIntakePlanStore creates a new IntakePlanStore
func NewIntakePlanStore(db *DB) *IntakePlanStore {
	return &IntakePlanStore{db: db}
}

const intakePlanColumns = `id, medicine_id, medicine_name_text, dose_mg, max_per_day_mg, instructions,
	start_date, end_date, times_json, frequency_hours, source_llm_run_id, created_at`

// Create inserts a plan and returns its id
func (s *IntakePlanStore) Create(plan *models.IntakePlan) (int64, error) {
	createdAt := plan.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	times, err := nullJSON(plan.Times)
	if err != nil {
		return 0, err
	}

	result, err := s.db.Exec(`
		INSERT INTO intake_plans (
			medicine_id, medicine_name_text, dose_mg, max_per_day_mg, instructions,
			start_date, end_date, times_json, frequency_hours, source_llm_run_id, created_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, nullInt64(plan.MedicineID), plan.MedicineNameText, nullInt64(plan.DoseMg), nullInt64(plan.MaxPerDayMg),
		nullString(plan.Instructions), nullString(plan.StartDate), nullString(plan.EndDate), times,
		nullInt64(plan.FrequencyHours), nullInt64(plan.SourceLlmRunID), createdAt)
	if err != nil {
		return 0, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, err
	}
	plan.ID = id
	plan.CreatedAt = createdAt
	return id, nil
}

// Get retrieves a plan by id, returning nil if not found
func (s *IntakePlanStore) Get(id int64) (*models.IntakePlan, error) {
	rows, err := s.db.Query(`SELECT `+intakePlanColumns+` FROM intake_plans WHERE id = ?`, id)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	plans, err := s.scanPlans(rows)
	if err != nil || len(plans) == 0 {
		return nil, err
	}
	return &plans[0], nil
}

// ListByRun returns the plans created from one LLM run
func (s *IntakePlanStore) ListByRun(runID int64) ([]models.IntakePlan, error) {
	rows, err := s.db.Query(`SELECT `+intakePlanColumns+`
		FROM intake_plans
		WHERE source_llm_run_id = ?
		ORDER BY id
	`, runID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	return s.scanPlans(rows)
}

// List returns all plans, newest first
func (s *IntakePlanStore) List(limit int) ([]models.IntakePlan, error) {
	rows, err := s.db.Query(`SELECT `+intakePlanColumns+`
		FROM intake_plans
		ORDER BY id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	return s.scanPlans(rows)
}

// ListAll returns every plan, oldest first
func (s *IntakePlanStore) ListAll() ([]models.IntakePlan, error) {
	rows, err := s.db.Query(`SELECT ` + intakePlanColumns + `
		FROM intake_plans
		ORDER BY id ASC
	`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	return s.scanPlans(rows)
}

func (s *IntakePlanStore) scanPlans(rows *sql.Rows) ([]models.IntakePlan, error) {
	var plans []models.IntakePlan

	for rows.Next() {
		var (
			plan         models.IntakePlan
			medicineID   sql.NullInt64
			doseMg       sql.NullInt64
			maxPerDay    sql.NullInt64
			instructions sql.NullString
			startDate    sql.NullString
			endDate      sql.NullString
			timesJSON    sql.NullString
			frequency    sql.NullInt64
			runID        sql.NullInt64
		)
		if err := rows.Scan(&plan.ID, &medicineID, &plan.MedicineNameText, &doseMg, &maxPerDay,
			&instructions, &startDate, &endDate, &timesJSON, &frequency, &runID, &plan.CreatedAt); err != nil {
			return nil, err
		}
		plan.MedicineID = int64Ptr(medicineID)
		plan.DoseMg = int64Ptr(doseMg)
		plan.MaxPerDayMg = int64Ptr(maxPerDay)
		plan.Instructions = instructions.String
		plan.StartDate = startDate.String
		plan.EndDate = endDate.String
		decodeJSON(timesJSON, &plan.Times)
		plan.FrequencyHours = int64Ptr(frequency)
		plan.SourceLlmRunID = int64Ptr(runID)
		plans = append(plans, plan)
	}

	return plans, rows.Err()
}
