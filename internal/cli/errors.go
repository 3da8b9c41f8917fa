// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jeranaias/assistant/internal/api"
	"github.com/jeranaias/assistant/internal/assistant"
	"github.com/jeranaias/assistant/internal/history"
	"github.com/jeranaias/assistant/internal/ui"
)

// =============================================================================
// EXIT CODES
// =============================================================================

const (
	// ExitSuccess indicates successful execution
	ExitSuccess = 0
	// ExitGeneralError indicates a general error, including backend-reported failures
	ExitGeneralError = 1
	// ExitUsageError indicates invalid arguments or empty input
	ExitUsageError = 2
	// ExitConfigError indicates a configuration file or settings error
	ExitConfigError = 3
	// ExitNetworkError indicates the backend could not be reached or answered non-2xx
	ExitNetworkError = 5
	// ExitNotFoundError indicates a history entry was not found
	ExitNotFoundError = 7
	// ExitInterrupted indicates the user canceled with ctrl+c
	ExitInterrupted = 130
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// ExitError carries an explicit exit code for err.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

func usageError(format string, args ...any) error {
	return &ExitError{Code: ExitUsageError, Err: fmt.Errorf(format, args...)}
}

func configError(err error) error {
	return &ExitError{Code: ExitConfigError, Err: err}
}

// ExitCode maps err to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	switch {
	case errors.Is(err, ui.ErrInterrupted), errors.Is(err, context.Canceled):
		return ExitInterrupted
	case errors.Is(err, assistant.ErrEmptyInput), errors.Is(err, assistant.ErrUnknownAnalysisType):
		return ExitUsageError
	case errors.Is(err, history.ErrEntryNotFound):
		return ExitNotFoundError
	case api.IsTransport(err):
		return ExitNetworkError
	default:
		return ExitGeneralError
	}
}

// errorMessage returns the line shown after "[Error]".
func errorMessage(err error) string {
	if errors.Is(err, ui.ErrInterrupted) || errors.Is(err, context.Canceled) {
		return "Canceled"
	}
	return api.Message(err)
}

// withUsage marks positional argument errors as usage errors.
func withUsage(fn cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := fn(cmd, args); err != nil {
			return &ExitError{Code: ExitUsageError, Err: err}
		}
		return nil
	}
}
