// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ui

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/assistant/internal/command"
	"github.com/jeranaias/assistant/internal/ui/styles"
)

// ErrInterrupted is returned by Wait when the user cancels with ctrl+c.
var ErrInterrupted = errors.New("interrupted")

// doneMsg reports that the wrapped action returned.
type doneMsg struct {
	err error
}

// pendingModel shows a spinner while a command is pending.
// The command's state arrives as StateMsg values; the model never reads the
// command directly.
type pendingModel struct {
	spinner spinner.Model
	label   string

	cmd    *command.Command
	states <-chan command.State
	state  command.State

	ctx    context.Context
	cancel context.CancelFunc
	run    func(context.Context) error

	// finished is closed once run has returned; result then holds its error.
	finished chan struct{}
	result   *error

	done        bool
	interrupted bool
	err         error
}

func newPendingModel(ctx context.Context, theme *styles.Theme, label string, cmd *command.Command, states <-chan command.State, run func(context.Context) error) pendingModel {
	ctx, cancel := context.WithCancel(ctx)
	s := spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(theme.Spinner))
	return pendingModel{
		spinner: s,
		label:   label,
		cmd:     cmd,
		states:  states,
		state:   cmd.State(),
		ctx:     ctx,
		cancel:  cancel,
		run:     run,

		finished: make(chan struct{}),
		result:   new(error),
	}
}

// start runs the action outside the bubbletea program so that callers can
// wait for it even when the program itself fails.
func (m pendingModel) start() {
	go func() {
		defer close(m.finished)
		*m.result = m.run(m.ctx)
	}()
}

func (m pendingModel) Init() tea.Cmd {
	finished, result := m.finished, m.result
	return tea.Batch(
		m.spinner.Tick,
		m.cmd.Listen(m.states),
		func() tea.Msg {
			<-finished
			return doneMsg{err: *result}
		},
	)
}

func (m pendingModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case doneMsg:
		m.done = true
		m.err = msg.err
		m.cancel()
		return m, tea.Quit

	case command.StateMsg:
		m.state = msg.State
		return m, m.cmd.Listen(m.states)

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			// The action sees a canceled context and returns promptly.
			m.interrupted = true
			m.cancel()
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m pendingModel) View() string {
	if m.done {
		return ""
	}
	if m.interrupted {
		return m.spinner.View() + " canceling...\n"
	}
	status := "working"
	if m.state.Pending {
		status = "waiting for backend"
	}
	return fmt.Sprintf("%s %s (%s, ctrl+c to cancel)\n", m.spinner.View(), m.label, status)
}

// Wait runs action while showing a spinner for cmd.
//
// On a terminal a small bubbletea program renders the spinner and follows
// cmd's state; elsewhere action simply runs. The action receives a context
// that is canceled if the user presses ctrl+c, in which case Wait returns
// ErrInterrupted.
func (p *Printer) Wait(ctx context.Context, label string, cmd *command.Command, action func(context.Context) error) error {
	if !p.tty {
		return action(ctx)
	}
	return runPending(ctx, p.out, p.theme, label, cmd, action)
}

func runPending(ctx context.Context, out io.Writer, theme *styles.Theme, label string, cmd *command.Command, action func(context.Context) error) error {
	states, unsubscribe := cmd.Subscribe()
	defer unsubscribe()

	model := newPendingModel(ctx, theme, label, cmd, states, action)
	model.start()
	final, err := tea.NewProgram(model, tea.WithOutput(out), tea.WithContext(ctx)).Run()
	if err != nil {
		// The action must not outlive Wait: callers close what it uses.
		model.cancel()
		<-model.finished
		return fmt.Errorf("spinner failed: %w", err)
	}

	m := final.(pendingModel)
	if m.interrupted {
		return ErrInterrupted
	}
	return m.err
}
