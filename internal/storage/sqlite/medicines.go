// ABOUTME: Medicine catalogue storage for SQLite
// ABOUTME: Medicines are created lazily and deduplicated by name, form and strength
package sqlite

import (
	"database/sql"
	"time"

	"github.com/harper/microdoser/internal/models"
)

// MedicineStore handles medicines persistence
type MedicineStore struct {
	db *DB
}

// NewMedicineStore creates a new MedicineStore
func NewMedicineStore(db *DB) *MedicineStore {
	return &MedicineStore{db: db}
}

// GetOrCreate returns the id of the medicine matching (name, form, strengthMg),
// inserting it first if needed. NULL form and strength compare equal to each other.
func (s *MedicineStore) GetOrCreate(name string, form *string, strengthMg *int64) (int64, error) {
	var id int64
	err := s.db.QueryRow(`
		SELECT id FROM medicines
		WHERE name = ? AND IFNULL(form, '') = IFNULL(?, '') AND IFNULL(strength_mg, -1) = IFNULL(?, -1)
		ORDER BY id
		LIMIT 1
	`, name, nullStringPtr(form), nullInt64(strengthMg)).Scan(&id)
	if err == nil {
		return id, nil
	}
	if err != sql.ErrNoRows {
		return 0, err
	}

	result, err := s.db.Exec(`
		INSERT INTO medicines (name, form, strength_mg, created_at) VALUES (?, ?, ?, ?)
	`, name, nullStringPtr(form), nullInt64(strengthMg), time.Now())
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// Get retrieves a medicine by id, returning nil if not found
func (s *MedicineStore) Get(id int64) (*models.Medicine, error) {
	rows, err := s.db.Query(`
		SELECT id, name, form, strength_mg, notes, created_at
		FROM medicines
		WHERE id = ?
	`, id)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	meds, err := s.scanMedicines(rows)
	if err != nil || len(meds) == 0 {
		return nil, err
	}
	return &meds[0], nil
}

// List returns all medicines ordered by name
func (s *MedicineStore) List() ([]models.Medicine, error) {
	rows, err := s.db.Query(`
		SELECT id, name, form, strength_mg, notes, created_at
		FROM medicines
		ORDER BY name, id
	`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	return s.scanMedicines(rows)
}

// Delete removes a medicine; intake plans keep their text copy of the name
func (s *MedicineStore) Delete(id int64) error {
	_, err := s.db.Exec(`DELETE FROM medicines WHERE id = ?`, id)
	return err
}

func (s *MedicineStore) scanMedicines(rows *sql.Rows) ([]models.Medicine, error) {
	var meds []models.Medicine

	for rows.Next() {
		var (
			med      models.Medicine
			form     sql.NullString
			strength sql.NullInt64
			notes    sql.NullString
		)
		if err := rows.Scan(&med.ID, &med.Name, &form, &strength, &notes, &med.CreatedAt); err != nil {
			return nil, err
		}
		med.Form = stringPtr(form)
		med.StrengthMg = int64Ptr(strength)
		med.Notes = notes.String
		meds = append(meds, med)
	}

	return meds, rows.Err()
}
