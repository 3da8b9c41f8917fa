// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package command

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/assistant/internal/api"
)

// =============================================================================
// BUBBLETEA MESSAGES
// =============================================================================

// ResultMsg is sent when an invocation started by Cmd completes.
type ResultMsg struct {
	Command  string
	Envelope *api.Envelope
	Err      error
}

// StateMsg carries a state change delivered through Listen.
type StateMsg struct {
	Command string
	State   State
}

// Cmd returns a tea.Cmd that invokes the command and reports a ResultMsg.
func (c *Command) Cmd(ctx context.Context, payload any) tea.Cmd {
	return func() tea.Msg {
		env, err := c.Invoke(ctx, payload)
		return ResultMsg{Command: c.name, Envelope: env, Err: err}
	}
}

// Listen returns a tea.Cmd that waits for the next state on ch.
// Re-issue it from Update after every StateMsg to keep listening.
// A closed channel yields no message.
func (c *Command) Listen(ch <-chan State) tea.Cmd {
	return func() tea.Msg {
		state, ok := <-ch
		if !ok {
			return nil
		}
		return StateMsg{Command: c.name, State: state}
	}
}
