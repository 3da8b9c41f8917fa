// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme holds the styles used for command output.
type Theme struct {
	// Terminal capabilities
	IsDark       bool
	ColorProfile termenv.Profile

	Title   lipgloss.Style
	Label   lipgloss.Style
	Muted   lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Prompt  lipgloss.Style
	Badge   lipgloss.Style
	Rule    lipgloss.Style
	Spinner lipgloss.Style
}

// NewTheme creates a theme. mode is "dark", "light" or "auto"; anything
// else is treated as "auto".
func NewTheme(mode string) *Theme {
	profile := termenv.EnvColorProfile()

	var isDark bool
	switch strings.ToLower(mode) {
	case "dark":
		isDark = true
	case "light":
		isDark = false
	default:
		isDark = termenv.HasDarkBackground()
	}
	lipgloss.SetHasDarkBackground(isDark)
	lipgloss.SetColorProfile(profile)

	t := &Theme{
		IsDark:       isDark,
		ColorProfile: profile,
	}
	t.initStyles()
	return t
}

func (t *Theme) initStyles() {
	t.Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Purple)

	t.Label = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true)

	t.Muted = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.Success = lipgloss.NewStyle().
		Foreground(Emerald).
		Bold(true)

	t.Warning = lipgloss.NewStyle().
		Foreground(Amber)

	t.Error = lipgloss.NewStyle().
		Foreground(Rose).
		Bold(true)

	t.Prompt = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true)

	t.Badge = lipgloss.NewStyle().
		Background(SurfaceDim).
		Padding(0, 1).
		Bold(true)

	t.Rule = lipgloss.NewStyle().
		Foreground(Overlay)

	t.Spinner = lipgloss.NewStyle().
		Foreground(Purple)
}

// KindBadge renders a history kind as a colored badge.
func (t *Theme) KindBadge(kind, label string) string {
	color, ok := KindColors[kind]
	if !ok {
		color = TextSecondary
	}
	return t.Badge.Foreground(color).Render(label)
}
