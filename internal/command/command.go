// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package command

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/jeranaias/assistant/internal/api"
)

// =============================================================================
// STATE
// =============================================================================

// State is a snapshot of a command's lifecycle.
// The zero value is Idle: not pending, no error.
type State struct {
	Pending   bool
	LastError string
}

// Idle reports whether no invocation is in flight.
func (s State) Idle() bool {
	return !s.Pending
}

// Failed reports whether the last completed invocation left an error.
func (s State) Failed() bool {
	return s.LastError != ""
}

// Func performs one remote call.
type Func func(ctx context.Context, payload any) (*api.Envelope, error)

// HTTP returns a Func that POSTs the payload to path.
func HTTP(client *api.Client, path string) Func {
	return func(ctx context.Context, payload any) (*api.Envelope, error) {
		return client.Post(ctx, path, payload)
	}
}

// =============================================================================
// OPTIONS
// =============================================================================

// Option configures a Command.
type Option func(*Command)

// WithLogger sets the logger used for invocation diagnostics.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Command) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// =============================================================================
// COMMAND
// =============================================================================

// Command is an asynchronous action against the backend.
//
// Invocations may overlap; each returns its own result to its caller. Pending
// stays true while any invocation is in flight, and only the most recently
// started invocation decides LastError.
type Command struct {
	name   string
	fn     Func
	logger *zap.Logger

	mu         sync.Mutex
	state      State
	inflight   int
	generation uint64
	observers  map[int]chan State
	nextID     int
}

// New creates an idle command named name that runs fn.
func New(name string, fn Func, opts ...Option) *Command {
	c := &Command{
		name:      name,
		fn:        fn,
		logger:    zap.NewNop(),
		observers: make(map[int]chan State),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With(zap.String("command", name))
	return c
}

// Name returns the command name.
func (c *Command) Name() string {
	return c.name
}

// State returns a snapshot of the current state.
func (c *Command) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Pending reports whether an invocation is in flight.
func (c *Command) Pending() bool {
	return c.State().Pending
}

// LastError returns the message of the last failure, or "".
func (c *Command) LastError() string {
	return c.State().LastError
}

// ClearError dismisses the surfaced error. Pending is left alone.
func (c *Command) ClearError() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.LastError == "" {
		return
	}
	c.state.LastError = ""
	c.notifyLocked()
}

// Invoke performs the call with payload.
//
// On success the envelope is returned unchanged. On any failure the
// returned envelope is nil, the error is a *api.ClientError, and LastError
// holds its message. Pending is reset however the call ends, including a
// panic inside the call function.
func (c *Command) Invoke(ctx context.Context, payload any) (env *api.Envelope, err error) {
	gen := c.begin()
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			env = nil
			err = &api.ClientError{Kind: api.KindTransport, Message: "request failed", Cause: fmt.Errorf("panic: %v", r)}
		}
		c.finish(gen, err)
		if err != nil {
			c.logger.Debug("invocation failed", zap.Duration("elapsed", time.Since(start)), zap.Error(err))
		} else {
			c.logger.Debug("invocation succeeded", zap.Duration("elapsed", time.Since(start)))
		}
	}()

	env, err = c.fn(ctx, payload)
	if err != nil {
		var ce *api.ClientError
		if !errors.As(err, &ce) {
			err = &api.ClientError{Kind: api.KindTransport, Message: "request failed", Cause: err}
		}
		return nil, err
	}
	if env == nil {
		return nil, &api.ClientError{Kind: api.KindTransport, Message: "invalid response: empty body"}
	}
	if !env.Success {
		msg := env.Error
		if msg == "" {
			msg = api.UnknownAPIError
		}
		return nil, &api.ClientError{Kind: api.KindApplication, Message: msg}
	}
	return env, nil
}

func (c *Command) begin() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generation++
	c.inflight++
	c.state = State{Pending: true}
	c.notifyLocked()
	return c.generation
}

func (c *Command) finish(gen uint64, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.inflight--
	next := c.state
	next.Pending = c.inflight > 0
	if gen == c.generation {
		next.LastError = api.Message(err)
	}
	c.state = next
	c.notifyLocked()
}

// =============================================================================
// OBSERVERS
// =============================================================================

// Subscribe returns a channel that receives every state change and a
// function that stops delivery and closes the channel.
//
// The channel holds one value. A slow reader sees the newest state; older
// undelivered states are dropped and the command never blocks.
func (c *Command) Subscribe() (<-chan State, func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.nextID
	c.nextID++
	ch := make(chan State, 1)
	c.observers[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			delete(c.observers, id)
			close(ch)
		})
	}
	return ch, cancel
}

// notifyLocked must be called with c.mu held.
func (c *Command) notifyLocked() {
	for _, ch := range c.observers {
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- c.state:
		default:
		}
	}
}
