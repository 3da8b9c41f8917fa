// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jeranaias/assistant/internal/assistant"
	"github.com/jeranaias/assistant/internal/config"
	"github.com/jeranaias/assistant/internal/history"
	"github.com/jeranaias/assistant/internal/ui"
	"github.com/jeranaias/assistant/internal/util"
)

const chatPrompt = "you> "

const chatHelp = `Commands:
  /help, /h            Show this help
  /reset, /clear       Start a new conversation
  /system [prompt]     Show or set the system prompt (resets the conversation)
  /history             Show the messages in this conversation
  /exit, /quit, /q     Leave the chat (ctrl+d also works)

ctrl+c while waiting for a reply abandons that reply.`

// =============================================================================
// LINE INPUT
// =============================================================================

// lineReader reads one line of chat input at a time.
type lineReader interface {
	Prompt(prompt string) (string, error)
	AppendHistory(line string)
	Close() error
}

// linerInput provides line editing and input history on a terminal.
type linerInput struct {
	*liner.State
	historyFile string
}

func newLinerInput() *linerInput {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	configDir, err := config.ConfigDir()
	if err != nil {
		configDir = os.TempDir()
	}
	in := &linerInput{State: line, historyFile: filepath.Join(configDir, "chat_history")}

	if f, err := os.Open(in.historyFile); err == nil {
		_, _ = line.ReadHistory(f)
		f.Close()
	}
	return in
}

// Close saves input history with 0600 permissions and restores the terminal.
func (l *linerInput) Close() error {
	if err := os.MkdirAll(filepath.Dir(l.historyFile), 0700); err == nil {
		if f, err := os.OpenFile(l.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600); err == nil {
			_, _ = l.WriteHistory(f)
			f.Close()
		}
	}
	return l.State.Close()
}

// scanInput reads lines from a non-terminal, such as a pipe.
type scanInput struct {
	scanner *bufio.Scanner
}

func newScanInput(r io.Reader) *scanInput {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 64*1024), maxInputBytes)
	return &scanInput{scanner: s}
}

func (s *scanInput) Prompt(string) (string, error) {
	if s.scanner.Scan() {
		return s.scanner.Text(), nil
	}
	if err := s.scanner.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}

func (s *scanInput) AppendHistory(string) {}

func (s *scanInput) Close() error { return nil }

// =============================================================================
// CHAT COMMAND
// =============================================================================

func (a *app) chatCommand() *cobra.Command {
	var system string

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive chat session",
		Long: `Start a conversation with the backend.

Each message is sent with the whole conversation so far. Type /help in the
session for commands. Input can also be piped, one message per line.`,
		Example: `  assistant chat
  assistant chat --system "Answer in one short paragraph."
  printf 'hello\nwhat did I just say?\n' | assistant chat`,
		Args: withUsage(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			as, err := a.open()
			if err != nil {
				return err
			}
			if system != "" {
				as.Chat.SetSystemPrompt(system)
			}

			var input lineReader
			if a.stdinIsTerminal() && ui.IsTerminal(a.stdout) {
				input = newLinerInput()
			} else {
				input = newScanInput(a.stdin)
			}
			defer input.Close()

			return a.chatLoop(cmd, as, input)
		},
	}

	cmd.Flags().StringVarP(&system, "system", "s", "", "system prompt for the conversation")
	return cmd
}

// chatLoop reads messages until EOF or /exit. Failed turns are reported
// and the session continues.
func (a *app) chatLoop(cmd *cobra.Command, as *assistant.Assistant, input lineReader) error {
	ctx := cmd.Context()
	interactive := a.out.Styled()
	if interactive && !a.jsonOutput {
		a.out.Title("assistant chat")
		a.out.Println("Type /help for commands, /exit or ctrl+d to leave.")
		a.out.Println()
	}

	turns := 0
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		line, err := input.Prompt(a.out.Theme().Prompt.Render(chatPrompt))
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) {
				a.out.Println("(use /exit or ctrl+d to leave)")
				continue
			}
			if errors.Is(err, io.EOF) {
				if interactive {
					a.out.Println()
				}
				break
			}
			return fmt.Errorf("failed to read input: %w", err)
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		input.AppendHistory(line)

		if strings.HasPrefix(line, "/") {
			if quit := a.chatSlashCommand(as, line); quit {
				break
			}
			continue
		}

		var entry history.Entry
		err = a.wait(ctx, "Waiting for reply", as.Chat.Command(), func(ctx context.Context) error {
			var err error
			entry, err = as.Chat.Send(ctx, line)
			return err
		})
		if err != nil {
			if errors.Is(err, ui.ErrInterrupted) {
				a.status.Error("Canceled")
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			a.logger.Debug("chat turn failed", zap.Error(err))
			a.status.Error(as.Chat.Error())
			continue
		}

		turns++
		if a.jsonOutput {
			if err := NewJSONResponse(commandName(cmd), entry).Write(a.stdout); err != nil {
				return err
			}
			continue
		}
		a.out.Entry(entry)
		if interactive {
			a.out.Println()
		}
	}

	a.logger.Debug("chat session ended", zap.Int("turns", turns))
	return nil
}

// chatSlashCommand handles a /command and reports whether to leave.
func (a *app) chatSlashCommand(as *assistant.Assistant, line string) bool {
	name, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	switch strings.ToLower(name) {
	case "/exit", "/quit", "/q":
		return true

	case "/help", "/h":
		a.out.Println(chatHelp)

	case "/reset", "/clear":
		as.Chat.Reset()
		a.out.Success("Conversation cleared.")

	case "/system":
		if arg == "" {
			if prompt := as.Chat.SystemPrompt(); prompt != "" {
				a.out.Field("System prompt", prompt)
			} else {
				a.out.Println("No system prompt set.")
			}
			return false
		}
		as.Chat.SetSystemPrompt(arg)
		as.Chat.Reset()
		a.out.Success("System prompt set; conversation cleared.")

	case "/history":
		messages := as.Chat.Messages()
		if len(messages) == 0 {
			a.out.Println("No messages yet.")
			return false
		}
		width := terminalWidth(a.stdout)
		for _, m := range messages {
			a.out.Field(m.Role, util.Truncate(util.OneLine(m.Content), width-len(m.Role)-2))
		}

	default:
		a.status.Error(fmt.Sprintf("unknown command %s (try /help)", name))
	}
	return false
}
