// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/jeranaias/assistant/internal/history"
)

// =============================================================================
// GENERATE
// =============================================================================

func (a *app) generateCommand() *cobra.Command {
	var language, file string

	cmd := &cobra.Command{
		Use:   "generate [description]",
		Short: "Generate code from a description",
		Long: `Generate code from a plain-language description.

The description is taken from the arguments, from --file, or from stdin.
Generated code is printed on its own so it can be redirected to a file.`,
		Example: `  assistant generate "reverse a string"
  assistant generate -l go "parse an RFC 3339 timestamp" > parse.go
  echo "binary search over a sorted slice" | assistant generate -l rust`,
		Args: withUsage(cobra.ArbitraryArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			description, err := a.readInput(args, file)
			if err != nil {
				return err
			}
			as, err := a.open()
			if err != nil {
				return err
			}

			lang := a.language(language, "")
			var entry history.Entry
			err = a.wait(cmd.Context(), "Generating "+lang+" code", as.Code.GenerateCommand(), func(ctx context.Context) error {
				var err error
				entry, err = as.Code.Generate(ctx, description, lang)
				return err
			})
			if err != nil {
				return err
			}
			return a.emitEntry(cmd, entry)
		},
	}

	cmd.Flags().StringVarP(&language, "language", "l", "", "programming language (default from config)")
	cmd.Flags().StringVarP(&file, "file", "f", "", "read the description from a file (- for stdin)")
	_ = cmd.RegisterFlagCompletionFunc("language", completeLanguages)
	return cmd
}

// =============================================================================
// REVIEW
// =============================================================================

func (a *app) reviewCommand() *cobra.Command {
	var language, file string

	cmd := &cobra.Command{
		Use:   "review [code]",
		Short: "Review code for quality, bugs and best practices",
		Long: `Ask the backend to review code.

The code is taken from --file, from the arguments, or from stdin. With
--file the language is guessed from the file extension unless --language
is given.`,
		Example: `  assistant review -f handler.go
  git show HEAD:main.py | assistant review -l python`,
		Args: withUsage(cobra.ArbitraryArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			code, err := a.readInput(args, file)
			if err != nil {
				return err
			}
			as, err := a.open()
			if err != nil {
				return err
			}

			lang := a.language(language, file)
			var entry history.Entry
			err = a.wait(cmd.Context(), "Reviewing "+lang+" code", as.Code.ReviewCommand(), func(ctx context.Context) error {
				var err error
				entry, err = as.Code.Review(ctx, code, lang)
				return err
			})
			if err != nil {
				return err
			}
			return a.emitEntry(cmd, entry)
		},
	}

	cmd.Flags().StringVarP(&language, "language", "l", "", "programming language (default: from file extension, then config)")
	cmd.Flags().StringVarP(&file, "file", "f", "", "read the code from a file (- for stdin)")
	_ = cmd.RegisterFlagCompletionFunc("language", completeLanguages)
	return cmd
}
