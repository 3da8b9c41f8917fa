// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/jeranaias/assistant/internal/api"
	"github.com/jeranaias/assistant/internal/history"
)

// =============================================================================
// ANALYZE
// =============================================================================

func (a *app) analyzeCommand() *cobra.Command {
	var analysisType, file string

	cmd := &cobra.Command{
		Use:   "analyze [text]",
		Short: "Summarize, extract key points, judge sentiment, translate or write Q&A for a document",
		Long: `Analyze a document.

Analysis types:
  summary       Summary
  key_points    Key Points
  sentiment     Sentiment Analysis
  translation   Translate to English
  qa            Q&A Generation

The document is taken from --file, from the arguments, or from stdin.`,
		Example: `  assistant analyze -f report.md
  assistant analyze -t key-points -f meeting-notes.txt
  curl -s https://example.com/review.txt | assistant analyze -t sentiment`,
		Args: withUsage(cobra.ArbitraryArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := analysisType
			if name == "" {
				name = a.cfg.Defaults.AnalysisType
			}
			kind, err := api.ParseAnalysisType(name)
			if err != nil {
				return usageError("%v", err)
			}

			content, err := a.readInput(args, file)
			if err != nil {
				return err
			}
			as, err := a.open()
			if err != nil {
				return err
			}

			var entry history.Entry
			err = a.wait(cmd.Context(), "Running "+kind.Label(), as.Documents.Command(), func(ctx context.Context) error {
				var err error
				entry, err = as.Documents.Analyze(ctx, content, kind)
				return err
			})
			if err != nil {
				return err
			}
			return a.emitEntry(cmd, entry)
		},
	}

	cmd.Flags().StringVarP(&analysisType, "type", "t", "", "analysis type (default from config)")
	cmd.Flags().StringVarP(&file, "file", "f", "", "read the document from a file (- for stdin)")
	_ = cmd.RegisterFlagCompletionFunc("type", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return api.AnalysisTypeNames(), cobra.ShellCompDirectiveNoFileComp
	})
	return cmd
}

// =============================================================================
// ASK
// =============================================================================

func (a *app) askCommand() *cobra.Command {
	var background, backgroundFile string

	cmd := &cobra.Command{
		Use:   "ask [prompt]",
		Short: "Send a one-off prompt, optionally with background context",
		Long: `Send a single prompt outside any chat conversation.

With --context or --context-file the text is sent alongside the prompt as
background the answer should draw on.`,
		Example: `  assistant ask "explain CAP theorem in two sentences"
  assistant ask "what are the action items?" --context-file notes.md`,
		Args: withUsage(cobra.ArbitraryArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			prompt, err := a.readInput(args, "")
			if err != nil {
				return err
			}
			if backgroundFile != "" {
				if background != "" {
					return usageError("--context and --context-file cannot be used together")
				}
				if background, err = readFile(backgroundFile); err != nil {
					return err
				}
			}
			as, err := a.open()
			if err != nil {
				return err
			}

			var entry history.Entry
			err = a.wait(cmd.Context(), "Thinking", as.Chat.AskCommand(), func(ctx context.Context) error {
				var err error
				entry, err = as.Chat.Ask(ctx, prompt, background)
				return err
			})
			if err != nil {
				return err
			}
			return a.emitEntry(cmd, entry)
		},
	}

	cmd.Flags().StringVarP(&background, "context", "c", "", "background text sent with the prompt")
	cmd.Flags().StringVar(&backgroundFile, "context-file", "", "read background text from a file")
	return cmd
}
