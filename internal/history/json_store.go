// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package history

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jeranaias/assistant/internal/util"
)

// JSONStore keeps one JSON file per entry in a directory.
type JSONStore struct {
	// BaseDir holds the entry files.
	BaseDir string

	// MaxEntries limits stored entries (0 = unlimited)
	MaxEntries int
}

// NewJSONStore creates a store rooted at baseDir, creating it if needed.
func NewJSONStore(baseDir string) (*JSONStore, error) {
	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, err
	}
	return &JSONStore{BaseDir: baseDir}, nil
}

// Save persists e atomically.
func (s *JSONStore) Save(e Entry) error {
	if e.ID == "" {
		return &EntryError{Message: "history entry has no ID"}
	}

	data, err := json.MarshalIndent(e, "", "  ")
	if err != nil {
		return err
	}
	if err := util.AtomicWriteFile(s.filePath(e.ID), data, 0600); err != nil {
		return err
	}

	if s.MaxEntries > 0 {
		s.enforceLimit()
	}
	return nil
}

// Get loads one entry by ID.
func (s *JSONStore) Get(id string) (Entry, error) {
	data, err := os.ReadFile(s.filePath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return Entry{}, ErrEntryNotFound
		}
		return Entry{}, err
	}

	var e Entry
	if err := json.Unmarshal(data, &e); err != nil {
		return Entry{}, err
	}
	return e, nil
}

// List returns every entry, oldest first. Unreadable files are skipped.
func (s *JSONStore) List() ([]Entry, error) {
	files, err := os.ReadDir(s.BaseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []Entry{}, nil
		}
		return nil, err
	}

	entries := make([]Entry, 0, len(files))
	for _, f := range files {
		if f.IsDir() || !strings.HasSuffix(f.Name(), ".json") {
			continue
		}
		e, err := s.Get(strings.TrimSuffix(f.Name(), ".json"))
		if err != nil {
			continue
		}
		entries = append(entries, e)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].CreatedAt.Before(entries[j].CreatedAt)
	})
	return entries, nil
}

// Clear removes every entry file.
func (s *JSONStore) Clear() error {
	files, err := os.ReadDir(s.BaseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	for _, f := range files {
		if !f.IsDir() && strings.HasSuffix(f.Name(), ".json") {
			if err := os.Remove(filepath.Join(s.BaseDir, f.Name())); err != nil && !os.IsNotExist(err) {
				return err
			}
		}
	}
	return nil
}

// Close is a no-op; files are written synchronously.
func (s *JSONStore) Close() error {
	return nil
}

// enforceLimit removes the oldest entries if over the limit.
func (s *JSONStore) enforceLimit() {
	entries, err := s.List()
	if err != nil || len(entries) <= s.MaxEntries {
		return
	}
	excess := len(entries) - s.MaxEntries
	for _, e := range entries[:excess] {
		os.Remove(s.filePath(e.ID))
	}
}

func (s *JSONStore) filePath(id string) string {
	return filepath.Join(s.BaseDir, filepath.Base(id)+".json")
}
