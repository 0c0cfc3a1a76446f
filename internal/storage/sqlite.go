// Package storage provides SQLite-based persistence for user preferences.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// DarkModeKey is the preference key holding the chat theme.
const DarkModeKey = "darkMode"

// Store manages the SQLite database connection for preferences.
type Store struct {
	db *sql.DB
}

// Preference is a single stored key/value pair.
type Preference struct {
	Scope     string
	Key       string
	Value     string
	UpdatedAt time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS preferences (
			scope TEXT NOT NULL DEFAULT '',
			key TEXT NOT NULL,
			value TEXT NOT NULL,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (scope, key)
		);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// GetPreference returns the value stored under scope/key.
// The boolean is false when nothing is stored.
func (s *Store) GetPreference(scope, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRow(
		"SELECT value FROM preferences WHERE scope = ? AND key = ?",
		scope, key,
	).Scan(&value)

	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("storage: cannot query preference %q: %w", key, err)
	}
	return value, true, nil
}

// SetPreference stores value under scope/key, replacing any previous value.
func (s *Store) SetPreference(scope, key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO preferences (scope, key, value, updated_at)
		 VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(scope, key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		scope, key, value,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save preference %q: %w", key, err)
	}
	return nil
}

// DeletePreference removes scope/key. Deleting a missing key is not an error.
func (s *Store) DeletePreference(scope, key string) error {
	_, err := s.db.Exec("DELETE FROM preferences WHERE scope = ? AND key = ?", scope, key)
	if err != nil {
		return fmt.Errorf("storage: cannot delete preference %q: %w", key, err)
	}
	return nil
}

// ListPreferences returns every preference in scope, ordered by key.
func (s *Store) ListPreferences(scope string) ([]Preference, error) {
	rows, err := s.db.Query(
		`SELECT scope, key, value, updated_at
		 FROM preferences
		 WHERE scope = ?
		 ORDER BY key`,
		scope,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query preferences: %w", err)
	}
	defer rows.Close()

	var prefs []Preference
	for rows.Next() {
		var p Preference
		var updatedAt any
		if err := rows.Scan(&p.Scope, &p.Key, &p.Value, &updatedAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}

		// Parse the datetime - handle both time.Time and string
		switch v := updatedAt.(type) {
		case time.Time:
			p.UpdatedAt = v
		case string:
			if parsed, err := time.Parse("2006-01-02 15:04:05", v); err == nil {
				p.UpdatedAt = parsed
			}
		}
		prefs = append(prefs, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return prefs, nil
}

// DarkMode reports the stored theme for scope. Missing or unparsable values
// read as light mode.
func (s *Store) DarkMode(scope string) (bool, error) {
	v, ok, err := s.GetPreference(scope, DarkModeKey)
	if err != nil || !ok {
		return false, err
	}
	enabled, err := strconv.ParseBool(v)
	if err != nil {
		return false, nil
	}
	return enabled, nil
}

// SetDarkMode stores the theme for scope.
func (s *Store) SetDarkMode(scope string, enabled bool) error {
	return s.SetPreference(scope, DarkModeKey, strconv.FormatBool(enabled))
}

// Scope returns a view of the store bound to one scope, such as an SSH user.
func (s *Store) Scope(name string) *Scoped {
	return &Scoped{store: s, scope: name}
}

// Scoped is a Store bound to a single preference scope.
type Scoped struct {
	store *Store
	scope string
}

// DarkMode reads the scope's theme.
func (p *Scoped) DarkMode() (bool, error) {
	return p.store.DarkMode(p.scope)
}

// SetDarkMode writes the scope's theme.
func (p *Scoped) SetDarkMode(enabled bool) error {
	return p.store.SetDarkMode(p.scope, enabled)
}
