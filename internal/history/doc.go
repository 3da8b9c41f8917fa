// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package history records the results of successful backend calls.
//
// A Log holds entries in memory in the order they were appended. A Store
// persists them between runs, either as one JSON file per entry or in a
// SQLite database:
//
//	store, err := history.Open(history.Options{Backend: history.BackendSQLite, Path: "history.db"})
//	log := history.NewLog(0)
//	log.OnAppend(func(e history.Entry) { _ = store.Save(e) })
//
// Entries are values. Nothing in this package mutates an entry after it has
// been appended or saved.
package history
