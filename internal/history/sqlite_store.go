// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package history

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

const schema = `
CREATE TABLE IF NOT EXISTS entries (
    seq INTEGER PRIMARY KEY AUTOINCREMENT,
    id TEXT NOT NULL UNIQUE,
    kind TEXT NOT NULL,
    input TEXT NOT NULL,
    output TEXT NOT NULL,
    detail TEXT NOT NULL DEFAULT '',
    model TEXT NOT NULL DEFAULT '',
    created_at INTEGER NOT NULL -- Unix nanoseconds
);

CREATE INDEX IF NOT EXISTS idx_entries_kind ON entries(kind);
`

// SQLiteStore keeps entries in a single SQLite table.
// Insertion order is the table's sequence column.
type SQLiteStore struct {
	db *sql.DB
	mu sync.Mutex

	// MaxEntries limits stored entries (0 = unlimited)
	MaxEntries int
}

// NewSQLiteStore opens (or creates) the database at path.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer at a time
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA temp_store=MEMORY",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Save inserts e, or replaces the row with the same ID in place.
func (s *SQLiteStore) Save(e Entry) error {
	if e.ID == "" {
		return &EntryError{Message: "history entry has no ID"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return ErrStoreClosed
	}

	_, err := s.db.Exec(`
		INSERT INTO entries (id, kind, input, output, detail, model, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			kind = excluded.kind,
			input = excluded.input,
			output = excluded.output,
			detail = excluded.detail,
			model = excluded.model,
			created_at = excluded.created_at`,
		e.ID, string(e.Kind), e.Input, e.Output, e.Detail, e.Model, e.CreatedAt.UnixNano())
	if err != nil {
		return fmt.Errorf("failed to save entry: %w", err)
	}

	if s.MaxEntries > 0 {
		_, err = s.db.Exec(`
			DELETE FROM entries WHERE seq NOT IN (
				SELECT seq FROM entries ORDER BY seq DESC LIMIT ?
			)`, s.MaxEntries)
		if err != nil {
			return fmt.Errorf("failed to enforce entry limit: %w", err)
		}
	}
	return nil
}

// List returns every entry, oldest first.
func (s *SQLiteStore) List() ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil, ErrStoreClosed
	}

	rows, err := s.db.Query(`
		SELECT id, kind, input, output, detail, model, created_at
		FROM entries ORDER BY seq ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Get returns one entry by ID.
func (s *SQLiteStore) Get(id string) (Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return Entry{}, ErrStoreClosed
	}

	row := s.db.QueryRow(`
		SELECT id, kind, input, output, detail, model, created_at
		FROM entries WHERE id = ?`, id)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, ErrEntryNotFound
	}
	return e, err
}

// Clear deletes every entry.
func (s *SQLiteStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return ErrStoreClosed
	}
	if _, err := s.db.Exec("DELETE FROM entries"); err != nil {
		return fmt.Errorf("failed to clear entries: %w", err)
	}
	return nil
}

// Close closes the database. Later calls return ErrStoreClosed.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (Entry, error) {
	var (
		e       Entry
		kind    string
		created int64
	)
	if err := row.Scan(&e.ID, &kind, &e.Input, &e.Output, &e.Detail, &e.Model, &created); err != nil {
		return Entry{}, err
	}
	e.Kind = Kind(kind)
	e.CreatedAt = time.Unix(0, created)
	return e, nil
}
