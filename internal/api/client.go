// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// maxResponseBytes caps how much of a response body is read.
const maxResponseBytes = 16 << 20

// =============================================================================
// CLIENT CONFIGURATION
// =============================================================================

// Config holds configuration options for the backend client.
type Config struct {
	// BaseURL is the backend root (default: http://localhost:8000)
	BaseURL string

	// Prefix is prepended to every endpoint path (default: /api/v1/gemini)
	Prefix string

	// APIKey is sent as a bearer token when set
	APIKey string

	// Model overrides the backend default model on requests that accept one
	Model string

	// Timeout for a whole request. Zero means no client-side timeout.
	Timeout time.Duration

	// Logger receives request/response diagnostics (default: no-op)
	Logger *zap.Logger
}

// DefaultConfig returns the default client configuration.
func DefaultConfig() *Config {
	return &Config{
		BaseURL: "http://localhost:8000",
		Prefix:  "/api/v1/gemini",
	}
}

// =============================================================================
// CLIENT
// =============================================================================

// Client talks to the text-generation backend.
//
// The Client is safe for concurrent use. It never retries: every call is a
// single HTTP exchange and its outcome is reported as-is.
type Client struct {
	config     *Config
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a client. A nil config means DefaultConfig().
func NewClient(config *Config) *Client {
	if config == nil {
		config = DefaultConfig()
	}
	defaults := DefaultConfig()
	if config.BaseURL == "" {
		config.BaseURL = defaults.BaseURL
	}
	config.BaseURL = strings.TrimRight(config.BaseURL, "/")
	if config.Prefix != "" && !strings.HasPrefix(config.Prefix, "/") {
		config.Prefix = "/" + config.Prefix
	}
	config.Prefix = strings.TrimRight(config.Prefix, "/")

	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		config:     config,
		httpClient: &http.Client{Timeout: config.Timeout},
		logger:     logger.Named("api"),
	}
}

// BaseURL returns the configured backend root.
func (c *Client) BaseURL() string {
	return c.config.BaseURL
}

// Model returns the model override, or "" for the backend default.
func (c *Client) Model() string {
	return c.config.Model
}

// URL returns the absolute URL of an endpoint path.
func (c *Client) URL(path string) string {
	return c.config.BaseURL + c.config.Prefix + path
}

// =============================================================================
// GENERIC POST
// =============================================================================

// Post sends payload as JSON to path and decodes the envelope.
//
// A non-2xx status, a network failure or an undecodable body yields a
// KindTransport error. A decoded envelope with success=false yields a
// KindApplication error carrying the backend's message. On success the
// envelope is returned untouched.
func (c *Client) Post(ctx context.Context, path string, payload any) (*Envelope, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, &ClientError{Kind: KindTransport, Message: "failed to marshal request", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL(path), bytes.NewReader(body))
	if err != nil {
		return nil, &ClientError{Kind: KindTransport, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	c.authorize(req)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("request failed", zap.String("path", path), zap.Error(err))
		return nil, networkError(err)
	}
	defer resp.Body.Close()

	c.logger.Debug("response",
		zap.String("method", http.MethodPost),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)))

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, &ClientError{Kind: KindTransport, Status: resp.StatusCode, Message: "failed to read response", Cause: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, statusError(resp.StatusCode, resp.Status, errorDetail(data))
	}

	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, &ClientError{Kind: KindTransport, Status: resp.StatusCode, Message: "invalid response", Cause: err}
	}
	if !env.Success {
		return nil, applicationError(&env)
	}
	return &env, nil
}

// =============================================================================
// ENDPOINTS
// =============================================================================

// GenerateText sends a free-form prompt to /generate.
func (c *Client) GenerateText(ctx context.Context, prompt string) (*Envelope, error) {
	return c.Post(ctx, PathGenerate, PromptRequest{Prompt: prompt, Model: c.config.Model})
}

// GenerateWithContext sends a prompt plus supporting context to /context.
func (c *Client) GenerateWithContext(ctx context.Context, prompt, background string) (*Envelope, error) {
	return c.Post(ctx, PathContext, ContextRequest{Prompt: prompt, Context: background, Model: c.config.Model})
}

// Chat sends the conversation so far to /chat.
func (c *Client) Chat(ctx context.Context, messages []ChatMessage) (*Envelope, error) {
	return c.Post(ctx, PathChat, ChatRequest{Messages: messages, Model: c.config.Model})
}

// Analyze sends a document to /analyze.
func (c *Client) Analyze(ctx context.Context, content string, analysisType AnalysisType) (*Envelope, error) {
	return c.Post(ctx, PathAnalyze, AnalyzeRequest{Content: content, AnalysisType: analysisType})
}

// GenerateCode asks /generate-code for code matching description.
func (c *Client) GenerateCode(ctx context.Context, description, language string) (*Envelope, error) {
	return c.Post(ctx, PathGenerateCode, GenerateCodeRequest{Description: description, Language: language})
}

// ReviewCode asks /review-code for feedback on code.
func (c *Client) ReviewCode(ctx context.Context, code, language string) (*Envelope, error) {
	return c.Post(ctx, PathReviewCode, ReviewCodeRequest{Code: code, Language: language})
}

// ListModels retrieves the models the backend can serve.
func (c *Client) ListModels(ctx context.Context) ([]string, error) {
	var result ModelsResponse
	if err := c.get(ctx, PathModels, &result); err != nil {
		return nil, err
	}
	return result.Models, nil
}

// Health queries the backend health endpoint.
// An unhealthy backend is not an error; check HealthResponse.Healthy.
func (c *Client) Health(ctx context.Context) (*HealthResponse, error) {
	var result HealthResponse
	if err := c.get(ctx, PathHealth, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// =============================================================================
// HELPERS
// =============================================================================

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL(path), nil)
	if err != nil {
		return &ClientError{Kind: KindTransport, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Accept", "application/json")
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return networkError(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return &ClientError{Kind: KindTransport, Status: resp.StatusCode, Message: "failed to read response", Cause: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(resp.StatusCode, resp.Status, errorDetail(data))
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &ClientError{Kind: KindTransport, Status: resp.StatusCode, Message: "invalid response", Cause: err}
	}
	return nil
}

func (c *Client) authorize(req *http.Request) {
	if c.config.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	}
}

func networkError(err error) *ClientError {
	if errors.Is(err, context.DeadlineExceeded) {
		return &ClientError{Kind: KindTransport, Message: "request timed out", Cause: err}
	}
	if errors.Is(err, context.Canceled) {
		return &ClientError{Kind: KindTransport, Message: "request canceled", Cause: err}
	}
	return &ClientError{Kind: KindTransport, Message: "request failed", Cause: err}
}

// errorDetail extracts a message from an error body. FastAPI answers with
// {"detail": "..."}; some handlers return a failed envelope instead.
func errorDetail(data []byte) string {
	var body struct {
		Detail any    `json:"detail"`
		Error  string `json:"error"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return ""
	}
	if body.Error != "" {
		return body.Error
	}
	switch d := body.Detail.(type) {
	case string:
		return d
	case nil:
		return ""
	default:
		encoded, err := json.Marshal(d)
		if err != nil {
			return fmt.Sprint(d)
		}
		return string(encoded)
	}
}
