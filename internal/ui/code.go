// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ui

import (
	"regexp"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	chromaStyles "github.com/alecthomas/chroma/v2/styles"
)

// fencePattern matches a fenced markdown code block.
var fencePattern = regexp.MustCompile("(?s)```([\\w+#.-]*)[^\\n]*\\n(.*?)\\n?```")

// ExtractCode returns the body of the first fenced code block in text and
// the language named on its fence. Text without a fence is returned
// trimmed, with an empty language.
func ExtractCode(text string) (code, language string) {
	m := fencePattern.FindStringSubmatch(text)
	if m == nil {
		return strings.TrimSpace(text), ""
	}
	return m[2], strings.ToLower(m[1])
}

// Code renders generated code. On a terminal the code is highlighted for
// language; elsewhere only the code itself is written, without fences.
func (p *Printer) Code(text, language string) string {
	code, fenceLang := ExtractCode(text)
	if fenceLang != "" {
		language = fenceLang
	}
	if !p.tty {
		return code
	}
	return HighlightCode(code, language)
}

// HighlightCode applies terminal syntax highlighting with chroma.
// Unknown languages are detected from the code; on failure the code is
// returned unchanged.
func HighlightCode(code, language string) string {
	lexer := lexers.Get(language)
	if lexer == nil {
		lexer = lexers.Analyse(code)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	style := chromaStyles.Get("monokai")
	if style == nil {
		style = chromaStyles.Fallback
	}

	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return code
	}

	var buf strings.Builder
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return code
	}
	return buf.String()
}
