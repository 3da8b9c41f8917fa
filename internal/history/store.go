// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package history

import (
	"fmt"
	"os"
	"path/filepath"
)

// =============================================================================
// STORE INTERFACE
// =============================================================================

// Store persists entries between runs.
type Store interface {
	// Save writes e. Saving an existing ID replaces it.
	Save(e Entry) error

	// List returns every stored entry, oldest first.
	List() ([]Entry, error)

	// Get returns the entry with the given ID or ErrEntryNotFound.
	Get(id string) (Entry, error)

	// Clear removes every stored entry.
	Clear() error

	Close() error
}

// Backend names.
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

// Options selects and configures a Store.
type Options struct {
	// Backend is "json" (default) or "sqlite".
	Backend string

	// Path is a directory for the JSON backend and a database file for
	// SQLite. Empty means ~/.assistant/history(.db).
	Path string

	// MaxEntries caps stored entries, dropping the oldest (0 = unlimited).
	MaxEntries int
}

// Open creates the store described by opts.
func Open(opts Options) (Store, error) {
	switch opts.Backend {
	case "", BackendJSON:
		path := opts.Path
		if path == "" {
			dir, err := defaultDir()
			if err != nil {
				return nil, err
			}
			path = filepath.Join(dir, "history")
		}
		store, err := NewJSONStore(path)
		if err != nil {
			return nil, err
		}
		store.MaxEntries = opts.MaxEntries
		return store, nil

	case BackendSQLite:
		path := opts.Path
		if path == "" {
			dir, err := defaultDir()
			if err != nil {
				return nil, err
			}
			path = filepath.Join(dir, "history.db")
		}
		store, err := NewSQLiteStore(path)
		if err != nil {
			return nil, err
		}
		store.MaxEntries = opts.MaxEntries
		return store, nil

	default:
		return nil, fmt.Errorf("unknown history backend %q (valid: %s, %s)", opts.Backend, BackendJSON, BackendSQLite)
	}
}

func defaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate home directory: %w", err)
	}
	return filepath.Join(home, ".assistant"), nil
}

// =============================================================================
// ERRORS
// =============================================================================

// ErrEntryNotFound is returned when an entry doesn't exist.
// Use errors.Is(err, ErrEntryNotFound) to check for this error.
var ErrEntryNotFound = &EntryError{Message: "history entry not found"}

// ErrStoreClosed is returned by a store used after Close.
var ErrStoreClosed = &EntryError{Message: "history store is closed"}

// EntryError represents a history-related error.
type EntryError struct {
	Message string
}

// Error implements the error interface.
func (e *EntryError) Error() string {
	return e.Message
}

// Is implements errors.Is support for comparing entry errors.
func (e *EntryError) Is(target error) bool {
	t, ok := target.(*EntryError)
	if !ok {
		return false
	}
	return e.Message == t.Message
}
