// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package ui formats assistant results for the terminal.
//
// Styling only happens when the destination is a terminal. Piped output
// stays plain so results can be redirected into files or other tools.
//
//	p := ui.NewPrinter(os.Stdout, ui.Options{Theme: "auto", Markdown: true, WordWrap: 80})
//	p.Entry(entry)
//	p.Error(code.Error())
package ui
