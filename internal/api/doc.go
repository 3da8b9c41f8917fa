// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api provides the HTTP client for the text-generation backend.
//
// Every POST endpoint of the backend answers with the same Envelope:
//
//	{"success": true, "text": "...", "model": "gemini-2.5-flash"}
//	{"success": false, "error": "quota exceeded"}
//
// A non-2xx status and an envelope with success=false are both failures. The
// client reports them as a *ClientError whose Kind tells them apart:
//
//   - KindTransport: non-2xx status, network failure, undecodable body
//   - KindApplication: the backend answered success=false
//
// # Key Types
//
//   - Client: HTTP client for the backend endpoints
//   - Envelope: the uniform response wrapper
//   - GenerateCodeRequest, ReviewCodeRequest, AnalyzeRequest, ChatRequest,
//     PromptRequest, ContextRequest: request payloads
//   - AnalysisType: the document analysis modes
//
// # Usage
//
//	client := api.NewClient(api.DefaultConfig())
//	env, err := client.Post(ctx, api.PathGenerateCode, api.GenerateCodeRequest{
//	    Description: "reverse a string",
//	    Language:    "python",
//	})
//	if err != nil {
//	    return err
//	}
//	fmt.Println(env.Text)
package api
