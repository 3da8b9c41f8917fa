// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package assistant

import (
	"context"
	"sync"

	"github.com/jeranaias/assistant/internal/api"
	"github.com/jeranaias/assistant/internal/command"
	"github.com/jeranaias/assistant/internal/history"
	"github.com/jeranaias/assistant/internal/util"
)

// Chat holds a running conversation with the backend.
//
// A turn's user and assistant messages join the conversation only when the
// backend answers successfully, so a failed turn can simply be retried.
type Chat struct {
	chat   *command.Command
	ask    *command.Command
	client *api.Client
	log    *history.Log

	mu       sync.Mutex
	system   string
	messages []api.ChatMessage
}

// NewChat creates a chat that records turns in log.
func NewChat(client *api.Client, log *history.Log, opts ...Option) *Chat {
	o := buildOptions(opts)
	return &Chat{
		chat:   command.New("chat", command.HTTP(client, api.PathChat), command.WithLogger(o.logger)),
		ask:    command.New("ask", askFunc(client), command.WithLogger(o.logger)),
		client: client,
		log:    log,
		system: o.systemPrompt,
	}
}

// askFunc sends prompts with background context to /context and bare
// prompts to /generate.
func askFunc(client *api.Client) command.Func {
	return func(ctx context.Context, payload any) (*api.Envelope, error) {
		if _, ok := payload.(api.ContextRequest); ok {
			return client.Post(ctx, api.PathContext, payload)
		}
		return client.Post(ctx, api.PathGenerate, payload)
	}
}

// Send adds message to the conversation and returns the reply entry.
func (c *Chat) Send(ctx context.Context, message string) (history.Entry, error) {
	if util.IsBlank(message) {
		return history.Entry{}, ErrEmptyInput
	}

	user := api.NewUserMessage(message)
	c.mu.Lock()
	outgoing := make([]api.ChatMessage, 0, len(c.messages)+2)
	if c.system != "" {
		outgoing = append(outgoing, api.NewSystemMessage(c.system))
	}
	outgoing = append(outgoing, c.messages...)
	outgoing = append(outgoing, user)
	c.mu.Unlock()

	env, err := c.chat.Invoke(ctx, api.ChatRequest{Messages: outgoing, Model: c.client.Model()})
	if err != nil {
		return history.Entry{}, err
	}

	c.mu.Lock()
	c.messages = append(c.messages, user, api.NewAssistantMessage(env.Text))
	c.mu.Unlock()

	return c.log.Append(history.Entry{
		Kind:   history.KindChat,
		Input:  message,
		Output: env.Text,
		Model:  env.Model,
	}), nil
}

// Ask sends a one-off prompt outside the conversation. When background is
// non-empty it is sent alongside the prompt as supporting context.
func (c *Chat) Ask(ctx context.Context, prompt, background string) (history.Entry, error) {
	if util.IsBlank(prompt) {
		return history.Entry{}, ErrEmptyInput
	}

	var payload any = api.PromptRequest{Prompt: prompt, Model: c.client.Model()}
	if !util.IsBlank(background) {
		payload = api.ContextRequest{Prompt: prompt, Context: background, Model: c.client.Model()}
	}

	env, err := c.ask.Invoke(ctx, payload)
	if err != nil {
		return history.Entry{}, err
	}
	return c.log.Append(history.Entry{
		Kind:   history.KindPrompt,
		Input:  prompt,
		Output: env.Text,
		Detail: background,
		Model:  env.Model,
	}), nil
}

// Messages returns a copy of the conversation, excluding the system prompt.
func (c *Chat) Messages() []api.ChatMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]api.ChatMessage, len(c.messages))
	copy(out, c.messages)
	return out
}

// SystemPrompt returns the current system prompt.
func (c *Chat) SystemPrompt() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.system
}

// SetSystemPrompt replaces the system prompt for later turns.
func (c *Chat) SetSystemPrompt(prompt string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.system = prompt
}

// Reset starts a new conversation. History is not touched.
func (c *Chat) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = nil
}

// Pending reports whether a chat turn or prompt is in flight.
func (c *Chat) Pending() bool {
	return c.chat.Pending() || c.ask.Pending()
}

// Error returns the chat error, or the prompt error, or "".
func (c *Chat) Error() string {
	if msg := c.chat.LastError(); msg != "" {
		return msg
	}
	return c.ask.LastError()
}

// DismissError clears both errors.
func (c *Chat) DismissError() {
	c.chat.ClearError()
	c.ask.ClearError()
}

// Command exposes the chat command for observers.
func (c *Chat) Command() *command.Command {
	return c.chat
}

// AskCommand exposes the one-off prompt command for observers.
func (c *Chat) AskCommand() *command.Command {
	return c.ask
}
