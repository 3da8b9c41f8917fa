// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides helpers shared by the history stores, the
// configuration layer and terminal output.
//
//   - AtomicWriteFile: crash-safe file writes (history entries, config)
//   - Truncate: display-width aware truncation with an ellipsis
//   - OneLine: collapse multi-line text for single-row listings
//   - IsBlank: the "empty or whitespace only" input check
//
// # Usage
//
//	if util.IsBlank(description) {
//	    return ErrEmptyInput
//	}
//	row := util.Truncate(util.OneLine(entry.Input), 60)
package util
