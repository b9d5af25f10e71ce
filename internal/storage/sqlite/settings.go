// ABOUTME: Key/value settings storage for SQLite
// ABOUTME: Holds API key, model id, language and token budget overrides with upsert semantics
package sqlite

import (
	"database/sql"
)

// Well-known settings keys
const (
	SettingAPIKey    = "api_key"
	SettingModel     = "model"
	SettingLanguage  = "language"
	SettingMaxTokens = "max_tokens"
)

// SettingsStore handles app_settings persistence
type SettingsStore struct {
	db *DB
}

// NewSettingsStore creates a new SettingsStore
func NewSettingsStore(db *DB) *SettingsStore {
	return &SettingsStore{db: db}
}

// Get returns the value for key, or def when the key is absent
func (s *SettingsStore) Get(key, def string) (string, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM app_settings WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return def, nil
	}
	if err != nil {
		return def, err
	}
	return value, nil
}

// Set stores value under key, replacing any previous value
func (s *SettingsStore) Set(key, value string) error {
	_, err := s.db.Exec(`
		INSERT INTO app_settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	return err
}

// Delete removes key; deleting a missing key is not an error
func (s *SettingsStore) Delete(key string) error {
	_, err := s.db.Exec(`DELETE FROM app_settings WHERE key = ?`, key)
	return err
}

// All returns every stored setting
func (s *SettingsStore) All() (map[string]string, error) {
	rows, err := s.db.Query(`SELECT key, value FROM app_settings ORDER BY key`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	settings := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, err
		}
		settings[key] = value
	}
	return settings, rows.Err()
}
