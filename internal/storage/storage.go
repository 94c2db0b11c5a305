// Package storage persists user settings and lesson progress in a local
// SQLite database.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/chaichat/flashi/internal/flashi"
)

const languageKey = "language"

// Store wraps the settings/progress database.
type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) the database at path.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating storage directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening storage database: %w", err)
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) migrate() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS settings (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
		CREATE TABLE IF NOT EXISTS lesson_progress (
			file           TEXT PRIMARY KEY,
			completions    INTEGER NOT NULL DEFAULT 0,
			last_completed TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("migrating storage schema: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error { return s.db.Close() }

// Language returns the last chosen language, or "" when none was saved.
func (s *Store) Language() (flashi.Language, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, languageKey).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("reading language setting: %w", err)
	}
	return flashi.Language(value), nil
}

// SetLanguage saves the chosen language, written on every language selection.
func (s *Store) SetLanguage(lang flashi.Language) error {
	_, err := s.db.Exec(`
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, languageKey, string(lang))
	if err != nil {
		return fmt.Errorf("saving language setting: %w", err)
	}
	return nil
}

// RecordCompletion bumps the completion count for a lesson file.
func (s *Store) RecordCompletion(file string) error {
	_, err := s.db.Exec(`
		INSERT INTO lesson_progress (file, completions, last_completed) VALUES (?, 1, ?)
		ON CONFLICT(file) DO UPDATE SET
			completions = completions + 1,
			last_completed = excluded.last_completed
	`, file, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("recording completion for %s: %w", file, err)
	}
	return nil
}

// Completions returns how many times a lesson was finished.
func (s *Store) Completions(file string) (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT completions FROM lesson_progress WHERE file = ?`, file).Scan(&n)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("reading progress for %s: %w", file, err)
	}
	return n, nil
}
