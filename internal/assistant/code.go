// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package assistant

import (
	"context"
	"strings"
	"sync"

	"github.com/jeranaias/assistant/internal/api"
	"github.com/jeranaias/assistant/internal/command"
	"github.com/jeranaias/assistant/internal/history"
	"github.com/jeranaias/assistant/internal/util"
)

// CodeAssistant generates code from a description and reviews code.
//
// The two actions have separate commands, so one may be pending while the
// other is idle. Error reports whichever of them failed most recently.
type CodeAssistant struct {
	generate *command.Command
	review   *command.Command
	log      *history.Log

	mu         sync.Mutex
	lastFailed *command.Command
}

// NewCodeAssistant creates a code assistant that records results in log.
func NewCodeAssistant(client *api.Client, log *history.Log, opts ...Option) *CodeAssistant {
	o := buildOptions(opts)
	return &CodeAssistant{
		generate: command.New("generate", command.HTTP(client, api.PathGenerateCode), command.WithLogger(o.logger)),
		review:   command.New("review", command.HTTP(client, api.PathReviewCode), command.WithLogger(o.logger)),
		log:      log,
	}
}

// Generate asks for code in language matching description.
// An empty language means api.DefaultLanguage.
func (a *CodeAssistant) Generate(ctx context.Context, description, language string) (history.Entry, error) {
	if util.IsBlank(description) {
		return history.Entry{}, ErrEmptyInput
	}
	language = normalizeLanguage(language)

	env, err := a.generate.Invoke(ctx, api.GenerateCodeRequest{Description: description, Language: language})
	if err != nil {
		a.failed(a.generate)
		return history.Entry{}, err
	}
	return a.log.Append(history.Entry{
		Kind:   history.KindGeneration,
		Input:  description,
		Output: env.Text,
		Detail: language,
		Model:  env.Model,
	}), nil
}

// Review asks for feedback on code written in language.
func (a *CodeAssistant) Review(ctx context.Context, code, language string) (history.Entry, error) {
	if util.IsBlank(code) {
		return history.Entry{}, ErrEmptyInput
	}
	language = normalizeLanguage(language)

	env, err := a.review.Invoke(ctx, api.ReviewCodeRequest{Code: code, Language: language})
	if err != nil {
		a.failed(a.review)
		return history.Entry{}, err
	}
	return a.log.Append(history.Entry{
		Kind:   history.KindReview,
		Input:  code,
		Output: env.Text,
		Detail: language,
		Model:  env.Model,
	}), nil
}

// Pending reports whether either action is in flight.
func (a *CodeAssistant) Pending() bool {
	return a.generate.Pending() || a.review.Pending()
}

// Error returns the error of the most recently failed action that has not
// been cleared since, or the other action's error, or "".
func (a *CodeAssistant) Error() string {
	a.mu.Lock()
	last := a.lastFailed
	a.mu.Unlock()

	if last != nil {
		if msg := last.LastError(); msg != "" {
			return msg
		}
	}
	for _, cmd := range []*command.Command{a.generate, a.review} {
		if msg := cmd.LastError(); msg != "" {
			return msg
		}
	}
	return ""
}

// DismissError clears the errors of both actions.
func (a *CodeAssistant) DismissError() {
	a.generate.ClearError()
	a.review.ClearError()
	a.mu.Lock()
	a.lastFailed = nil
	a.mu.Unlock()
}

// Generations returns generated code entries, newest first.
func (a *CodeAssistant) Generations() []history.Entry {
	return newestFirst(a.log.Filter(history.KindGeneration))
}

// Reviews returns review entries, newest first.
func (a *CodeAssistant) Reviews() []history.Entry {
	return newestFirst(a.log.Filter(history.KindReview))
}

// GenerateCommand exposes the generation command for observers.
func (a *CodeAssistant) GenerateCommand() *command.Command {
	return a.generate
}

// ReviewCommand exposes the review command for observers.
func (a *CodeAssistant) ReviewCommand() *command.Command {
	return a.review
}

func (a *CodeAssistant) failed(cmd *command.Command) {
	a.mu.Lock()
	a.lastFailed = cmd
	a.mu.Unlock()
}

func normalizeLanguage(language string) string {
	language = strings.ToLower(strings.TrimSpace(language))
	if language == "" {
		return api.DefaultLanguage
	}
	return language
}

func newestFirst(entries []history.Entry) []history.Entry {
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
	return entries
}
