// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/jeranaias/assistant/internal/api"
	"github.com/jeranaias/assistant/internal/history"
)

const prefix = "/api/v1/gemini"

// backend is a stub text-generation service.
type backend struct {
	t     *testing.T
	mux   *http.ServeMux
	calls atomic.Int32
}

func newBackend(t *testing.T) *backend {
	return &backend{t: t, mux: http.NewServeMux()}
}

// reply registers a handler that records the decoded body and answers with env.
func (b *backend) reply(path string, status int, env any, body any) {
	b.mux.HandleFunc(prefix+path, func(w http.ResponseWriter, r *http.Request) {
		b.calls.Add(1)
		if body != nil {
			assert.NoError(b.t, json.NewDecoder(r.Body).Decode(body))
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if env != nil {
			_ = json.NewEncoder(w).Encode(env)
		}
	})
}

func (b *backend) client(model string) *api.Client {
	srv := httptest.NewServer(b.mux)
	b.t.Cleanup(srv.Close)
	return api.NewClient(&api.Config{BaseURL: srv.URL, Prefix: prefix, Model: model})
}

// =============================================================================
// CODE ASSISTANT
// =============================================================================

func TestCodeAssistant_GenerateAppendsEntry(t *testing.T) {
	b := newBackend(t)
	var got api.GenerateCodeRequest
	b.reply(api.PathGenerateCode, http.StatusOK, api.Envelope{Success: true, Text: "def reverse(s): return s[::-1]"}, &got)

	log := history.NewLog(0)
	code := NewCodeAssistant(b.client(""), log, WithLogger(zaptest.NewLogger(t)))

	entry, err := code.Generate(context.Background(), "reverse a string", "python")
	require.NoError(t, err)

	assert.Equal(t, api.GenerateCodeRequest{Description: "reverse a string", Language: "python"}, got)
	assert.Equal(t, history.KindGeneration, entry.Kind)
	assert.Equal(t, "def reverse(s): return s[::-1]", entry.Output)
	assert.Equal(t, "reverse a string", entry.Input)
	assert.Equal(t, "python", entry.Detail)
	require.Len(t, code.Generations(), 1)
	assert.False(t, code.Pending())
	assert.Empty(t, code.Error())
}

func TestCodeAssistant_ServerErrorAppendsNothing(t *testing.T) {
	b := newBackend(t)
	b.reply(api.PathGenerateCode, http.StatusInternalServerError, nil, nil)

	log := history.NewLog(0)
	code := NewCodeAssistant(b.client(""), log)

	_, err := code.Generate(context.Background(), "reverse a string", "python")
	require.Error(t, err)
	assert.Contains(t, code.Error(), "500")
	assert.Equal(t, 0, log.Len())
	assert.False(t, code.Pending())
}

func TestCodeAssistant_BlankInputSkipsCall(t *testing.T) {
	b := newBackend(t)
	b.reply(api.PathGenerateCode, http.StatusOK, api.Envelope{Success: true}, nil)
	b.reply(api.PathReviewCode, http.StatusOK, api.Envelope{Success: true}, nil)
	code := NewCodeAssistant(b.client(""), history.NewLog(0))

	_, err := code.Generate(context.Background(), "   ", "go")
	assert.ErrorIs(t, err, ErrEmptyInput)
	_, err = code.Review(context.Background(), "\n\t", "go")
	assert.ErrorIs(t, err, ErrEmptyInput)
	assert.Equal(t, int32(0), b.calls.Load())
}

func TestCodeAssistant_DefaultLanguage(t *testing.T) {
	b := newBackend(t)
	var got api.ReviewCodeRequest
	b.reply(api.PathReviewCode, http.StatusOK, api.Envelope{Success: true, Text: "LGTM", Model: "gemini-2.5-flash"}, &got)
	code := NewCodeAssistant(b.client(""), history.NewLog(0))

	entry, err := code.Review(context.Background(), "x = 1", "")
	require.NoError(t, err)
	assert.Equal(t, "python", got.Language)
	assert.Equal(t, history.KindReview, entry.Kind)
	assert.Equal(t, "gemini-2.5-flash", entry.Model)
}

func TestCodeAssistant_ErrorIsLastWriteWins(t *testing.T) {
	b := newBackend(t)
	b.reply(api.PathGenerateCode, http.StatusOK, api.Envelope{Success: false, Error: "generate broke"}, nil)
	b.reply(api.PathReviewCode, http.StatusOK, api.Envelope{Success: false, Error: "review broke"}, nil)
	code := NewCodeAssistant(b.client(""), history.NewLog(0))
	ctx := context.Background()

	_, _ = code.Generate(ctx, "a", "go")
	assert.Equal(t, "generate broke", code.Error())

	_, _ = code.Review(ctx, "b", "go")
	assert.Equal(t, "review broke", code.Error())

	_, _ = code.Generate(ctx, "c", "go")
	assert.Equal(t, "generate broke", code.Error())

	code.DismissError()
	assert.Empty(t, code.Error())
	assert.Empty(t, code.GenerateCommand().LastError())
	assert.Empty(t, code.ReviewCommand().LastError())
}

func TestCodeAssistant_NewestFirst(t *testing.T) {
	b := newBackend(t)
	b.reply(api.PathGenerateCode, http.StatusOK, api.Envelope{Success: true, Text: "ok"}, nil)
	code := NewCodeAssistant(b.client(""), history.NewLog(0))

	for _, d := range []string{"first", "second"} {
		_, err := code.Generate(context.Background(), d, "go")
		require.NoError(t, err)
	}
	gens := code.Generations()
	require.Len(t, gens, 2)
	assert.Equal(t, "second", gens[0].Input)
	assert.Equal(t, "first", gens[1].Input)
}

// =============================================================================
// DOCUMENT ANALYZER
// =============================================================================

func TestDocumentAnalyzer_Analyze(t *testing.T) {
	b := newBackend(t)
	var got api.AnalyzeRequest
	b.reply(api.PathAnalyze, http.StatusOK, api.Envelope{Success: true, Text: "- one\n- two"}, &got)
	docs := NewDocumentAnalyzer(b.client(""), history.NewLog(0))

	entry, err := docs.Analyze(context.Background(), "A long document.", api.AnalysisKeyPoints)
	require.NoError(t, err)
	assert.Equal(t, api.AnalysisKeyPoints, got.AnalysisType)
	assert.Equal(t, history.KindAnalysis, entry.Kind)
	assert.Equal(t, "key_points", entry.Detail)
	assert.Len(t, docs.Results(), 1)
}

func TestDocumentAnalyzer_RejectsUnknownType(t *testing.T) {
	b := newBackend(t)
	b.reply(api.PathAnalyze, http.StatusOK, api.Envelope{Success: true}, nil)
	docs := NewDocumentAnalyzer(b.client(""), history.NewLog(0))

	_, err := docs.Analyze(context.Background(), "text", api.AnalysisType("poetry"))
	assert.True(t, errors.Is(err, ErrUnknownAnalysisType))
	assert.Equal(t, int32(0), b.calls.Load())
	assert.Empty(t, docs.Error())
}

func TestDocumentAnalyzer_ApplicationError(t *testing.T) {
	b := newBackend(t)
	b.reply(api.PathAnalyze, http.StatusOK, api.Envelope{Success: false, Error: "document too long"}, nil)
	log := history.NewLog(0)
	docs := NewDocumentAnalyzer(b.client(""), log)

	_, err := docs.Analyze(context.Background(), "text", api.AnalysisSummary)
	require.Error(t, err)
	assert.Equal(t, "document too long", docs.Error())
	assert.Equal(t, 0, log.Len())

	docs.DismissError()
	assert.Empty(t, docs.Error())
}

// =============================================================================
// CHAT
// =============================================================================

func TestChat_ConversationGrowsOnSuccess(t *testing.T) {
	b := newBackend(t)
	var got api.ChatRequest
	b.reply(api.PathChat, http.StatusOK, api.Envelope{Success: true, Text: "Hello!"}, &got)
	chat := NewChat(b.client("gemini-2.5-pro"), history.NewLog(0), WithSystemPrompt("Be brief."))

	entry, err := chat.Send(context.Background(), "hi")
	require.NoError(t, err)
	assert.Equal(t, history.KindChat, entry.Kind)
	assert.Equal(t, "Hello!", entry.Output)
	assert.Equal(t, "gemini-2.5-pro", got.Model)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, api.NewSystemMessage("Be brief."), got.Messages[0])

	_, err = chat.Send(context.Background(), "again")
	require.NoError(t, err)
	require.Len(t, got.Messages, 4)
	assert.Equal(t, api.NewAssistantMessage("Hello!"), got.Messages[2])

	assert.Len(t, chat.Messages(), 4)
}

func TestChat_FailedTurnNotKept(t *testing.T) {
	b := newBackend(t)
	b.reply(api.PathChat, http.StatusBadGateway, nil, nil)
	log := history.NewLog(0)
	chat := NewChat(b.client(""), log)

	_, err := chat.Send(context.Background(), "hi")
	require.Error(t, err)
	assert.Empty(t, chat.Messages())
	assert.Contains(t, chat.Error(), "502")
	assert.Equal(t, 0, log.Len())
}

func TestChat_Reset(t *testing.T) {
	b := newBackend(t)
	b.reply(api.PathChat, http.StatusOK, api.Envelope{Success: true, Text: "yo"}, nil)
	log := history.NewLog(0)
	chat := NewChat(b.client(""), log)

	_, err := chat.Send(context.Background(), "hi")
	require.NoError(t, err)
	chat.Reset()
	assert.Empty(t, chat.Messages())
	assert.Equal(t, 1, log.Len())
}

func TestChat_AskRoutesByContext(t *testing.T) {
	b := newBackend(t)
	var plain api.PromptRequest
	var withContext api.ContextRequest
	b.reply(api.PathGenerate, http.StatusOK, api.Envelope{Success: true, Text: "plain"}, &plain)
	b.reply(api.PathContext, http.StatusOK, api.Envelope{Success: true, Text: "contextual"}, &withContext)
	chat := NewChat(b.client(""), history.NewLog(0))

	entry, err := chat.Ask(context.Background(), "what is go?", "")
	require.NoError(t, err)
	assert.Equal(t, "plain", entry.Output)
	assert.Equal(t, "what is go?", plain.Prompt)

	entry, err = chat.Ask(context.Background(), "summarize", "Go is a language.")
	require.NoError(t, err)
	assert.Equal(t, "contextual", entry.Output)
	assert.Equal(t, history.KindPrompt, entry.Kind)
	assert.Equal(t, "Go is a language.", withContext.Context)
	assert.Empty(t, chat.Messages(), "prompts are not part of the conversation")
}

// =============================================================================
// ASSISTANT
// =============================================================================

func TestAssistant_PersistsEntries(t *testing.T) {
	b := newBackend(t)
	b.reply(api.PathGenerateCode, http.StatusOK, api.Envelope{Success: true, Text: "code"}, nil)

	store, err := history.NewSQLiteStore(filepath.Join(t.TempDir(), "h.db"))
	require.NoError(t, err)

	a := New(b.client(""), WithStore(store), WithLogger(zaptest.NewLogger(t)))
	defer a.Close()

	entry, err := a.Code.Generate(context.Background(), "reverse a string", "python")
	require.NoError(t, err)

	saved, err := store.Get(entry.ID)
	require.NoError(t, err)
	assert.Equal(t, "code", saved.Output)
	assert.False(t, a.Pending())
}

func TestAssistant_LoadHistory(t *testing.T) {
	store, err := history.NewJSONStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Save(history.Entry{ID: "old", Kind: history.KindChat, Input: "hi", Output: "hello"}))

	a := New(api.NewClient(nil), WithStore(store))
	require.NoError(t, a.LoadHistory())
	require.Equal(t, 1, a.History.Len())
	assert.Equal(t, "old", a.History.Entries()[0].ID)
}

type failingStore struct{ history.Store }

func (failingStore) Save(history.Entry) error { return errors.New("disk full") }
func (failingStore) Close() error             { return nil }

func TestAssistant_PersistFailureDoesNotFailAction(t *testing.T) {
	b := newBackend(t)
	b.reply(api.PathChat, http.StatusOK, api.Envelope{Success: true, Text: "ok"}, nil)
	a := New(b.client(""), WithStore(failingStore{}))

	_, err := a.Chat.Send(context.Background(), "hi")
	require.NoError(t, err)
	assert.Equal(t, 1, a.History.Len())
	assert.Empty(t, a.Chat.Error())
}
