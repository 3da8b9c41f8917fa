// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package assistant

import (
	"context"
	"fmt"

	"github.com/jeranaias/assistant/internal/api"
	"github.com/jeranaias/assistant/internal/command"
	"github.com/jeranaias/assistant/internal/history"
	"github.com/jeranaias/assistant/internal/util"
)

// DocumentAnalyzer summarizes, extracts, translates or questions documents.
type DocumentAnalyzer struct {
	analyze *command.Command
	log     *history.Log
}

// NewDocumentAnalyzer creates an analyzer that records results in log.
func NewDocumentAnalyzer(client *api.Client, log *history.Log, opts ...Option) *DocumentAnalyzer {
	o := buildOptions(opts)
	return &DocumentAnalyzer{
		analyze: command.New("analyze", command.HTTP(client, api.PathAnalyze), command.WithLogger(o.logger)),
		log:     log,
	}
}

// Analyze runs analysisType over content.
func (d *DocumentAnalyzer) Analyze(ctx context.Context, content string, analysisType api.AnalysisType) (history.Entry, error) {
	if util.IsBlank(content) {
		return history.Entry{}, ErrEmptyInput
	}
	if !analysisType.Valid() {
		return history.Entry{}, fmt.Errorf("%w: %q", ErrUnknownAnalysisType, analysisType)
	}

	env, err := d.analyze.Invoke(ctx, api.AnalyzeRequest{Content: content, AnalysisType: analysisType})
	if err != nil {
		return history.Entry{}, err
	}
	return d.log.Append(history.Entry{
		Kind:   history.KindAnalysis,
		Input:  content,
		Output: env.Text,
		Detail: string(analysisType),
		Model:  env.Model,
	}), nil
}

// Pending reports whether an analysis is in flight.
func (d *DocumentAnalyzer) Pending() bool {
	return d.analyze.Pending()
}

// Error returns the last analysis error, or "".
func (d *DocumentAnalyzer) Error() string {
	return d.analyze.LastError()
}

// DismissError clears the analysis error.
func (d *DocumentAnalyzer) DismissError() {
	d.analyze.ClearError()
}

// Results returns analysis entries, newest first.
func (d *DocumentAnalyzer) Results() []history.Entry {
	return newestFirst(d.log.Filter(history.KindAnalysis))
}

// Command exposes the analysis command for observers.
func (d *DocumentAnalyzer) Command() *command.Command {
	return d.analyze
}
