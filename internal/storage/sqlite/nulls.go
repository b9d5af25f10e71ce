// ABOUTME: Conversions between Go values and nullable SQLite columns
// ABOUTME: Empty strings and nil pointers are stored as NULL
package sqlite

import (
	"database/sql"
	"encoding/json"
)

// nullString converts an empty string to sql.NullString
func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{Valid: false}
	}
	return sql.NullString{String: s, Valid: true}
}

// nullInt64 converts a nil pointer to sql.NullInt64
func nullInt64(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{Valid: false}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}

// int64Ptr converts a scanned sql.NullInt64 back to a pointer
func int64Ptr(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	n := v.Int64
	return &n
}

// stringPtr converts a scanned sql.NullString back to a pointer
func stringPtr(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}

// nullStringPtr converts a nil string pointer to sql.NullString
func nullStringPtr(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{Valid: false}
	}
	return sql.NullString{String: *s, Valid: true}
}

// nullJSON marshals v into a nullable TEXT column; empty slices and maps become NULL
func nullJSON[T any](v []T) (sql.NullString, error) {
	if len(v) == 0 {
		return sql.NullString{Valid: false}, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

// nullJSONMap is nullJSON for maps
func nullJSONMap(v map[string]any) (sql.NullString, error) {
	if len(v) == 0 {
		return sql.NullString{Valid: false}, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

// decodeJSON unmarshals a nullable TEXT column, leaving dst untouched on NULL or bad data
func decodeJSON(src sql.NullString, dst any) {
	if !src.Valid || src.String == "" {
		return
	}
	_ = json.Unmarshal([]byte(src.String), dst)
}
