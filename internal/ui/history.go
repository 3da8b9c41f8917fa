// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ui

import (
	"fmt"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/jeranaias/assistant/internal/history"
	"github.com/jeranaias/assistant/internal/util"
)

// KindLabel returns the display name of an entry kind ("Generation").
func KindLabel(kind history.Kind) string {
	// Casers are stateful and must not be shared between goroutines.
	return cases.Title(language.English).String(string(kind))
}

// HistoryRow formats e as a single listing line no wider than width.
func HistoryRow(e history.Entry, width int) string {
	prefix := fmt.Sprintf("%s  %-10s  ", e.CreatedAt.Local().Format("2006-01-02 15:04"), KindLabel(e.Kind))
	if e.Detail != "" && e.Kind != history.KindPrompt {
		prefix += fmt.Sprintf("[%s] ", DetailValue(e))
	}
	remaining := width - util.Width(prefix)
	if remaining < 10 {
		remaining = 10
	}
	return prefix + util.Truncate(util.OneLine(e.Input), remaining)
}

// History writes a listing of entries, one per line, with short IDs.
func (p *Printer) History(entries []history.Entry, width int) {
	if len(entries) == 0 {
		fmt.Fprintln(p.out, p.style(p.theme.Muted.Render, "No history yet."))
		return
	}
	for _, e := range entries {
		id := e.ID
		if len(id) > 8 {
			id = id[:8]
		}
		fmt.Fprintf(p.out, "%s  %s\n", p.style(p.theme.Muted.Render, id), HistoryRow(e, width-10))
	}
}
