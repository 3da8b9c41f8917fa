// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package assistant

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/jeranaias/assistant/internal/api"
	"github.com/jeranaias/assistant/internal/history"
)

// Assistant wires every action to one client and one history log.
type Assistant struct {
	Client    *api.Client
	History   *history.Log
	Code      *CodeAssistant
	Documents *DocumentAnalyzer
	Chat      *Chat

	store  history.Store
	logger *zap.Logger
}

// New creates an assistant. With WithStore, every new history entry is
// also saved to the store; a failed save is logged and does not fail the
// action that produced the entry.
func New(client *api.Client, opts ...Option) *Assistant {
	o := buildOptions(opts)
	log := history.NewLog(o.historyCapacity)

	a := &Assistant{
		Client:    client,
		History:   log,
		Code:      NewCodeAssistant(client, log, opts...),
		Documents: NewDocumentAnalyzer(client, log, opts...),
		Chat:      NewChat(client, log, opts...),
		store:     o.store,
		logger:    o.logger.Named("assistant"),
	}

	if a.store != nil {
		log.OnAppend(a.persist)
	}
	return a
}

func (a *Assistant) persist(e history.Entry) {
	if err := a.store.Save(e); err != nil {
		a.logger.Warn("failed to persist history entry",
			zap.String("id", e.ID),
			zap.String("kind", string(e.Kind)),
			zap.Error(err))
	}
}

// Store returns the configured store, or nil.
func (a *Assistant) Store() history.Store {
	return a.store
}

// LoadHistory reads previously stored entries into the in-memory log.
func (a *Assistant) LoadHistory() error {
	if a.store == nil {
		return nil
	}
	entries, err := a.store.List()
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}
	a.History.Load(entries)
	return nil
}

// Pending reports whether any action is in flight.
func (a *Assistant) Pending() bool {
	return a.Code.Pending() || a.Documents.Pending() || a.Chat.Pending()
}

// Close releases the store.
func (a *Assistant) Close() error {
	if a.store == nil {
		return nil
	}
	return a.store.Close()
}
