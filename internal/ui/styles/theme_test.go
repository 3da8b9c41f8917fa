// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewTheme_ExplicitMode(t *testing.T) {
	assert.True(t, NewTheme("dark").IsDark)
	assert.False(t, NewTheme("light").IsDark)
}

func TestKindColors_CoverEveryKind(t *testing.T) {
	for _, kind := range []string{"chat", "prompt", "analysis", "generation", "review"} {
		_, ok := KindColors[kind]
		assert.True(t, ok, kind)
	}
}

func TestKindBadge_ContainsLabel(t *testing.T) {
	theme := NewTheme("dark")
	assert.Contains(t, theme.KindBadge("review", "Review"), "Review")
	assert.Contains(t, theme.KindBadge("unknown", "Other"), "Other")
}
