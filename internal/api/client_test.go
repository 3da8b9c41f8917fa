// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(&Config{BaseURL: srv.URL, Prefix: "/api/v1/gemini"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// =============================================================================
// POST TESTS
// =============================================================================

func TestPost_Success(t *testing.T) {
	var got GenerateCodeRequest
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/gemini/generate-code", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		writeJSON(w, http.StatusOK, Envelope{Success: true, Text: "def reverse(s): return s[::-1]", Model: "gemini-2.5-flash"})
	})

	env, err := client.GenerateCode(context.Background(), "reverse a string", "python")
	require.NoError(t, err)
	assert.Equal(t, "def reverse(s): return s[::-1]", env.Text)
	assert.Equal(t, "gemini-2.5-flash", env.Model)
	assert.Equal(t, GenerateCodeRequest{Description: "reverse a string", Language: "python"}, got)
}

func TestPost_ApplicationError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, Envelope{Success: false, Error: "quota exceeded"})
	})

	env, err := client.ReviewCode(context.Background(), "x = 1", "python")
	assert.Nil(t, env)
	require.Error(t, err)
	assert.True(t, IsApplication(err))
	assert.False(t, IsTransport(err))
	assert.Equal(t, "quota exceeded", Message(err))
}

func TestPost_ApplicationErrorWithoutMessage(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"success": false})
	})

	_, err := client.GenerateText(context.Background(), "hello")
	require.Error(t, err)
	assert.Equal(t, UnknownAPIError, Message(err))
}

func TestPost_StatusError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := client.Analyze(context.Background(), "doc", AnalysisSummary)
	require.Error(t, err)
	assert.True(t, IsTransport(err))

	var ce *ClientError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, http.StatusInternalServerError, ce.Status)
	assert.Contains(t, Message(err), "500")
}

func TestPost_StatusErrorUsesDetail(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"detail": "Gemini API not configured"})
	})

	_, err := client.GenerateText(context.Background(), "hello")
	require.Error(t, err)
	msg := Message(err)
	assert.Contains(t, msg, "500")
	assert.Contains(t, msg, "Gemini API not configured")
}

func TestPost_MalformedJSON(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("<html>not json</html>"))
	})

	_, err := client.GenerateText(context.Background(), "hello")
	require.Error(t, err)
	assert.True(t, IsTransport(err))
	assert.True(t, strings.HasPrefix(Message(err), "invalid response"))
}

func TestPost_NetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	client := NewClient(&Config{BaseURL: url})
	_, err := client.GenerateText(context.Background(), "hello")
	require.Error(t, err)
	assert.True(t, IsTransport(err))
	assert.NotEmpty(t, Message(err))
}

func TestPost_BearerToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		writeJSON(w, http.StatusOK, Envelope{Success: true, Text: "ok"})
	}))
	t.Cleanup(srv.Close)

	client := NewClient(&Config{BaseURL: srv.URL, APIKey: "secret"})
	_, err := client.GenerateText(context.Background(), "hello")
	require.NoError(t, err)
}

func TestChat_SendsMessagesAndModel(t *testing.T) {
	var got ChatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		writeJSON(w, http.StatusOK, Envelope{Success: true, Text: "hi"})
	}))
	t.Cleanup(srv.Close)

	client := NewClient(&Config{BaseURL: srv.URL, Model: "gemini-2.5-pro"})
	_, err := client.Chat(context.Background(), []ChatMessage{NewSystemMessage("be brief"), NewUserMessage("hello")})
	require.NoError(t, err)
	assert.Equal(t, "gemini-2.5-pro", got.Model)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Equal(t, "hello", got.Messages[1].Content)
}

// =============================================================================
// GET TESTS
// =============================================================================

func TestListModels(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/v1/gemini/models", r.URL.Path)
		writeJSON(w, http.StatusOK, ModelsResponse{Models: []string{"gemini-2.5-flash", "gemini-2.5-pro"}})
	})

	models, err := client.ListModels(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"gemini-2.5-flash", "gemini-2.5-pro"}, models)
}

func TestHealth(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, HealthResponse{Status: "unhealthy", APIKeyConfigured: false})
	})

	health, err := client.Health(context.Background())
	require.NoError(t, err)
	assert.False(t, health.Healthy())
}

// =============================================================================
// TYPE TESTS
// =============================================================================

func TestNewClient_NormalizesURL(t *testing.T) {
	client := NewClient(&Config{BaseURL: "http://example.test/", Prefix: "api/v1/gemini/"})
	assert.Equal(t, "http://example.test/api/v1/gemini/chat", client.URL(PathChat))
}

func TestParseAnalysisType(t *testing.T) {
	tests := []struct {
		in      string
		want    AnalysisType
		wantErr bool
	}{
		{"summary", AnalysisSummary, false},
		{"Key-Points", AnalysisKeyPoints, false},
		{"key points", AnalysisKeyPoints, false},
		{"qa", AnalysisQA, false},
		{"poetry", "", true},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseAnalysisType(tc.in)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestAnalysisType_Label(t *testing.T) {
	assert.Equal(t, "Key Points", AnalysisKeyPoints.Label())
	assert.Equal(t, "odd", AnalysisType("odd").Label())
}

func TestClientError_Is(t *testing.T) {
	err := statusError(http.StatusBadGateway, "502 Bad Gateway", "")
	assert.True(t, errors.Is(err, ErrTransport))
	assert.False(t, errors.Is(err, ErrApplication))
	assert.Equal(t, "API Error: 502 Bad Gateway", err.Error())
}
