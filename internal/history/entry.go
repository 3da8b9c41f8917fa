// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package history

import (
	"fmt"
	"strings"
	"time"
)

// Kind identifies which action produced an entry.
type Kind string

const (
	KindChat       Kind = "chat"
	KindPrompt     Kind = "prompt"
	KindAnalysis   Kind = "analysis"
	KindGeneration Kind = "generation"
	KindReview     Kind = "review"
)

// Kinds lists every entry kind.
var Kinds = []Kind{KindChat, KindPrompt, KindAnalysis, KindGeneration, KindReview}

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	for _, known := range Kinds {
		if k == known {
			return true
		}
	}
	return false
}

// ParseKind parses a kind name, case-insensitively.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	if !k.Valid() {
		return "", fmt.Errorf("unknown entry kind %q", s)
	}
	return k, nil
}

// Entry is one successful result.
type Entry struct {
	ID     string `json:"id"`
	Kind   Kind   `json:"kind"`
	Input  string `json:"input"`
	Output string `json:"output"`

	// Detail qualifies the input: the programming language for generation
	// and review, the analysis type for analysis.
	Detail string `json:"detail,omitempty"`

	// Model that served the request, when the backend reported one.
	Model string `json:"model,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}
