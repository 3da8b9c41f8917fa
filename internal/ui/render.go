// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"golang.org/x/term"

	"github.com/jeranaias/assistant/internal/api"
	"github.com/jeranaias/assistant/internal/history"
	"github.com/jeranaias/assistant/internal/ui/styles"
)

// Options controls how a Printer renders.
type Options struct {
	// Theme is "dark", "light" or "auto"
	Theme string

	// Markdown renders backend text through glamour on terminals
	Markdown bool

	// WordWrap is the markdown wrap width (0 = no wrapping)
	WordWrap int
}

// Printer writes styled results to one destination.
type Printer struct {
	out      io.Writer
	tty      bool
	theme    *styles.Theme
	markdown *glamour.TermRenderer
}

// IsTerminal reports whether w is a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// NewPrinter creates a printer for out.
func NewPrinter(out io.Writer, opts Options) *Printer {
	p := &Printer{
		out:   out,
		tty:   IsTerminal(out),
		theme: styles.NewTheme(opts.Theme),
	}
	if p.tty && opts.Markdown {
		p.markdown = newMarkdownRenderer(opts.Theme, opts.WordWrap)
	}
	return p
}

func newMarkdownRenderer(theme string, wrap int) *glamour.TermRenderer {
	style := glamour.WithAutoStyle()
	switch strings.ToLower(theme) {
	case "dark", "light":
		style = glamour.WithStandardStyle(strings.ToLower(theme))
	}
	r, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(wrap))
	if err != nil {
		return nil
	}
	return r
}

// Theme returns the printer's theme.
func (p *Printer) Theme() *styles.Theme {
	return p.theme
}

// Styled reports whether output is going to a terminal.
func (p *Printer) Styled() bool {
	return p.tty
}

// Writer returns the destination.
func (p *Printer) Writer() io.Writer {
	return p.out
}

// =============================================================================
// TEXT
// =============================================================================

// RenderMarkdown renders text as markdown when enabled, else returns it as-is.
func (p *Printer) RenderMarkdown(text string) string {
	if p.markdown == nil {
		return text
	}
	rendered, err := p.markdown.Render(text)
	if err != nil {
		return text
	}
	return strings.TrimRight(rendered, "\n")
}

func (p *Printer) style(render func(...string) string, s string) string {
	if !p.tty {
		return s
	}
	return render(s)
}

// Println writes a line of plain text.
func (p *Printer) Println(a ...any) {
	fmt.Fprintln(p.out, a...)
}

// Title writes a heading line.
func (p *Printer) Title(s string) {
	fmt.Fprintln(p.out, p.style(p.theme.Title.Render, s))
}

// Field writes a "label: value" line.
func (p *Printer) Field(label, value string) {
	fmt.Fprintf(p.out, "%s %s\n", p.style(p.theme.Label.Render, label+":"), value)
}

// Success writes a success line.
func (p *Printer) Success(s string) {
	fmt.Fprintln(p.out, p.style(p.theme.Success.Render, s))
}

// Error writes an "[Error] msg" line. Empty messages are ignored.
func (p *Printer) Error(msg string) {
	if msg == "" {
		return
	}
	fmt.Fprintf(p.out, "%s %s\n", p.style(p.theme.Error.Render, "[Error]"), msg)
}

// =============================================================================
// ENTRIES
// =============================================================================

// Entry writes one history entry's result. Generated code is highlighted;
// everything else is rendered as markdown.
func (p *Printer) Entry(e history.Entry) {
	fmt.Fprintln(p.out, p.FormatOutput(e))
}

// FormatOutput returns the rendered output of e.
func (p *Printer) FormatOutput(e history.Entry) string {
	if e.Kind == history.KindGeneration {
		return p.Code(e.Output, e.Detail)
	}
	return p.RenderMarkdown(e.Output)
}

// EntryDetail writes an entry with its metadata, as shown by "history show".
func (p *Printer) EntryDetail(e history.Entry) {
	p.Title(KindLabel(e.Kind))
	p.Field("ID", e.ID)
	p.Field("Created", e.CreatedAt.Local().Format("2006-01-02 15:04:05"))
	if e.Detail != "" {
		p.Field(DetailLabel(e.Kind), DetailValue(e))
	}
	if e.Model != "" {
		p.Field("Model", e.Model)
	}
	fmt.Fprintln(p.out)
	p.Title("Input")
	fmt.Fprintln(p.out, e.Input)
	fmt.Fprintln(p.out)
	p.Title("Output")
	p.Entry(e)
}

// DetailLabel names the Detail field for kind.
func DetailLabel(kind history.Kind) string {
	switch kind {
	case history.KindAnalysis:
		return "Analysis"
	case history.KindGeneration, history.KindReview:
		return "Language"
	case history.KindPrompt:
		return "Context"
	default:
		return "Detail"
	}
}

// DetailValue returns the human-readable Detail of e.
func DetailValue(e history.Entry) string {
	if e.Kind == history.KindAnalysis {
		return api.AnalysisType(e.Detail).Label()
	}
	return e.Detail
}
