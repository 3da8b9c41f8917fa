// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package history

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Log is an append-only, insertion-ordered list of entries.
// It is safe for concurrent use.
type Log struct {
	mu       sync.RWMutex
	entries  []Entry
	capacity int
	hooks    []func(Entry)
}

// NewLog creates an empty log. A positive capacity keeps only the newest
// capacity entries in memory; zero means unbounded.
func NewLog(capacity int) *Log {
	if capacity < 0 {
		capacity = 0
	}
	return &Log{capacity: capacity}
}

// Load appends previously stored entries without running hooks.
func (l *Log) Load(entries []Entry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, entries...)
	l.trimLocked()
}

// Append adds e to the end of the log and returns the stored value.
// A missing ID or CreatedAt is filled in.
func (l *Log) Append(e Entry) Entry {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}

	l.mu.Lock()
	l.entries = append(l.entries, e)
	l.trimLocked()
	hooks := make([]func(Entry), len(l.hooks))
	copy(hooks, l.hooks)
	l.mu.Unlock()

	for _, hook := range hooks {
		hook(e)
	}
	return e
}

// OnAppend registers a function called after every Append.
// Hooks run on the appending goroutine, outside the log's lock.
func (l *Log) OnAppend(hook func(Entry)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.hooks = append(l.hooks, hook)
}

// Entries returns a copy of the log, oldest first.
func (l *Log) Entries() []Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Newest returns a copy of the log, newest first.
func (l *Log) Newest() []Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]Entry, len(l.entries))
	for i, e := range l.entries {
		out[len(l.entries)-1-i] = e
	}
	return out
}

// Filter returns the entries of kind k, oldest first.
func (l *Log) Filter(k Kind) []Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	var out []Entry
	for _, e := range l.entries {
		if e.Kind == k {
			out = append(out, e)
		}
	}
	return out
}

// Len returns the number of entries held.
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

func (l *Log) trimLocked() {
	if l.capacity > 0 && len(l.entries) > l.capacity {
		excess := len(l.entries) - l.capacity
		l.entries = append([]Entry(nil), l.entries[excess:]...)
	}
}
