// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"fmt"
	"strings"
)

// =============================================================================
// ENDPOINT PATHS
// =============================================================================

// Endpoint paths, relative to the configured base URL and prefix.
const (
	PathGenerate     = "/generate"
	PathContext      = "/context"
	PathChat         = "/chat"
	PathAnalyze      = "/analyze"
	PathGenerateCode = "/generate-code"
	PathReviewCode   = "/review-code"
	PathModels       = "/models"
	PathHealth       = "/health"
)

// =============================================================================
// ENVELOPE
// =============================================================================

// Envelope is the uniform response every backend POST endpoint returns.
type Envelope struct {
	Success bool   `json:"success"`
	Text    string `json:"text,omitempty"`
	Error   string `json:"error,omitempty"`
	Model   string `json:"model,omitempty"`
}

// =============================================================================
// REQUEST TYPES
// =============================================================================

// PromptRequest is the body for /generate.
type PromptRequest struct {
	Prompt string `json:"prompt"`
	Model  string `json:"model,omitempty"`
}

// ContextRequest is the body for /context.
type ContextRequest struct {
	Prompt  string `json:"prompt"`
	Context string `json:"context"`
	Model   string `json:"model,omitempty"`
}

// ChatMessage is a single turn sent to /chat.
type ChatMessage struct {
	Role    string `json:"role"` // "system", "user", "assistant"
	Content string `json:"content"`
}

// ChatRequest is the body for /chat.
type ChatRequest struct {
	Messages []ChatMessage `json:"messages"`
	Model    string        `json:"model,omitempty"`
}

// AnalyzeRequest is the body for /analyze.
type AnalyzeRequest struct {
	Content      string       `json:"content"`
	AnalysisType AnalysisType `json:"analysis_type"`
}

// GenerateCodeRequest is the body for /generate-code.
type GenerateCodeRequest struct {
	Description string `json:"description"`
	Language    string `json:"language"`
}

// ReviewCodeRequest is the body for /review-code.
type ReviewCodeRequest struct {
	Code     string `json:"code"`
	Language string `json:"language"`
}

// Message role helpers.
func NewSystemMessage(content string) ChatMessage {
	return ChatMessage{Role: "system", Content: content}
}

func NewUserMessage(content string) ChatMessage {
	return ChatMessage{Role: "user", Content: content}
}

func NewAssistantMessage(content string) ChatMessage {
	return ChatMessage{Role: "assistant", Content: content}
}

// =============================================================================
// ANALYSIS TYPES
// =============================================================================

// AnalysisType selects what /analyze does with the document.
type AnalysisType string

const (
	AnalysisSummary     AnalysisType = "summary"
	AnalysisKeyPoints   AnalysisType = "key_points"
	AnalysisSentiment   AnalysisType = "sentiment"
	AnalysisTranslation AnalysisType = "translation"
	AnalysisQA          AnalysisType = "qa"
)

// AnalysisTypes lists every supported analysis type in display order.
var AnalysisTypes = []AnalysisType{
	AnalysisSummary,
	AnalysisKeyPoints,
	AnalysisSentiment,
	AnalysisTranslation,
	AnalysisQA,
}

var analysisLabels = map[AnalysisType]string{
	AnalysisSummary:     "Summary",
	AnalysisKeyPoints:   "Key Points",
	AnalysisSentiment:   "Sentiment Analysis",
	AnalysisTranslation: "Translate to English",
	AnalysisQA:          "Q&A Generation",
}

// Valid reports whether t is one of the supported analysis types.
func (t AnalysisType) Valid() bool {
	_, ok := analysisLabels[t]
	return ok
}

// Label returns the menu label for the analysis type.
func (t AnalysisType) Label() string {
	if label, ok := analysisLabels[t]; ok {
		return label
	}
	return string(t)
}

// ParseAnalysisType parses a user-supplied analysis type.
// Dashes and spaces are accepted in place of underscores ("key-points").
func ParseAnalysisType(s string) (AnalysisType, error) {
	normalized := strings.ToLower(strings.TrimSpace(s))
	normalized = strings.NewReplacer("-", "_", " ", "_").Replace(normalized)
	t := AnalysisType(normalized)
	if !t.Valid() {
		return "", fmt.Errorf("unknown analysis type %q (valid: %s)", s, strings.Join(AnalysisTypeNames(), ", "))
	}
	return t, nil
}

// AnalysisTypeNames returns the wire names of every analysis type.
func AnalysisTypeNames() []string {
	names := make([]string, len(AnalysisTypes))
	for i, t := range AnalysisTypes {
		names[i] = string(t)
	}
	return names
}

// =============================================================================
// LANGUAGES
// =============================================================================

// DefaultLanguage is used for code requests when none is given.
const DefaultLanguage = "python"

// Languages is the list of languages offered for code generation and review.
// Other values are passed through to the backend unchanged.
var Languages = []string{
	"python", "javascript", "typescript", "java", "c++", "c#", "go", "rust", "php", "ruby",
}

// =============================================================================
// RESPONSE TYPES (GET ENDPOINTS)
// =============================================================================

// ModelsResponse is the body of GET /models.
type ModelsResponse struct {
	Models []string `json:"models"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status            string `json:"status"`
	APIKeyConfigured  bool   `json:"api_key_configured"`
	ClientInitialized bool   `json:"client_initialized"`
	Error             string `json:"error,omitempty"`
}

// Healthy reports whether the backend said it is healthy.
func (h *HealthResponse) Healthy() bool {
	return h != nil && h.Status == "healthy"
}
