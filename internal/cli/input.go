// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/jeranaias/assistant/internal/api"
)

// maxInputBytes caps text read from a file or stdin.
const maxInputBytes = 4 << 20

// readInput returns the text a command works on: the contents of file
// ("-" is stdin), else the joined args, else piped stdin.
func (a *app) readInput(args []string, file string) (string, error) {
	switch {
	case file == "-":
		return a.readStdin()
	case file != "":
		return readFile(file)
	case len(args) > 0:
		return strings.Join(args, " "), nil
	case !a.stdinIsTerminal():
		return a.readStdin()
	default:
		return "", usageError("no input: pass it as an argument, with --file, or on stdin")
	}
}

func (a *app) readStdin() (string, error) {
	data, err := io.ReadAll(io.LimitReader(a.stdin, maxInputBytes+1))
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	if len(data) > maxInputBytes {
		return "", usageError("input is larger than %d bytes", maxInputBytes)
	}
	return string(data), nil
}

func (a *app) stdinIsTerminal() bool {
	f, ok := a.stdin.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func readFile(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", usageError("cannot read %s: %v", path, err)
	}
	if info.IsDir() {
		return "", usageError("%s is a directory", path)
	}
	if info.Size() > maxInputBytes {
		return "", usageError("%s is larger than %d bytes", path, maxInputBytes)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(data), nil
}

// =============================================================================
// LANGUAGES
// =============================================================================

var extensionLanguages = map[string]string{
	".py":   "python",
	".js":   "javascript",
	".mjs":  "javascript",
	".jsx":  "javascript",
	".ts":   "typescript",
	".tsx":  "typescript",
	".java": "java",
	".cc":   "c++",
	".cpp":  "c++",
	".cxx":  "c++",
	".hpp":  "c++",
	".cs":   "c#",
	".go":   "go",
	".rs":   "rust",
	".php":  "php",
	".rb":   "ruby",
}

// languageForFile guesses a language from a file extension ("" if unknown).
func languageForFile(path string) string {
	return extensionLanguages[strings.ToLower(filepath.Ext(path))]
}

// language picks the --language value, then the file's extension, then
// the configured default.
func (a *app) language(flag, file string) string {
	if flag != "" {
		return strings.ToLower(strings.TrimSpace(flag))
	}
	if lang := languageForFile(file); lang != "" {
		return lang
	}
	return a.cfg.Defaults.Language
}

func completeLanguages(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return api.Languages, cobra.ShellCompDirectiveNoFileComp
}
