// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package assistant

import (
	"errors"

	"go.uber.org/zap"

	"github.com/jeranaias/assistant/internal/history"
)

var (
	// ErrEmptyInput is returned when the input is empty or whitespace only.
	// No request is made.
	ErrEmptyInput = errors.New("input is empty")

	// ErrUnknownAnalysisType is returned for an analysis type the backend
	// does not support. No request is made.
	ErrUnknownAnalysisType = errors.New("unknown analysis type")
)

type options struct {
	logger          *zap.Logger
	store           history.Store
	historyCapacity int
	systemPrompt    string
}

// Option configures the assistant and its components.
type Option func(*options)

// WithLogger sets the logger for commands and persistence warnings.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithStore persists every appended history entry to store.
func WithStore(store history.Store) Option {
	return func(o *options) {
		o.store = store
	}
}

// WithHistoryCapacity bounds the in-memory history (0 = unbounded).
func WithHistoryCapacity(n int) Option {
	return func(o *options) {
		o.historyCapacity = n
	}
}

// WithSystemPrompt sets the system message sent at the start of every chat.
func WithSystemPrompt(prompt string) Option {
	return func(o *options) {
		o.systemPrompt = prompt
	}
}

func buildOptions(opts []Option) *options {
	o := &options{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(o)
	}
	return o
}
