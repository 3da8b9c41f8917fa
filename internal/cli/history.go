// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jeranaias/assistant/internal/history"
)

var errHistoryDisabled = errors.New("history is disabled (history.enabled = false or --no-history)")

func (a *app) historyCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List, show or clear past results",
		Long: `Every successful generate, review, analyze, ask and chat result is
kept in the history store configured under [history].`,
	}
	cmd.AddCommand(
		a.historyListCommand(),
		a.historyShowCommand(),
		a.historyClearCommand(),
	)
	return cmd
}

// =============================================================================
// LIST
// =============================================================================

func (a *app) historyListCommand() *cobra.Command {
	var kind string
	var limit int

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List results, newest first",
		Example: `  assistant history list
  assistant history list --kind review --limit 5`,
		Args: withUsage(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			var filter history.Kind
			if kind != "" {
				k, err := history.ParseKind(kind)
				if err != nil {
					return usageError("%v", err)
				}
				filter = k
			}
			if limit < 0 {
				return usageError("--limit must not be negative")
			}
			if !a.cfg.History.Enabled {
				return errHistoryDisabled
			}

			as, err := a.open()
			if err != nil {
				return err
			}

			entries := selectEntries(as.History.Newest(), filter, limit)
			return a.emit(cmd, entries, func() {
				a.out.History(entries, terminalWidth(a.stdout))
			})
		},
	}

	cmd.Flags().StringVarP(&kind, "kind", "k", "", "only show one kind: "+strings.Join(kindNames(), ", "))
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum entries to show (0 = all)")
	_ = cmd.RegisterFlagCompletionFunc("kind", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return kindNames(), cobra.ShellCompDirectiveNoFileComp
	})
	return cmd
}

// selectEntries filters newest-first entries by kind and caps them at limit.
func selectEntries(entries []history.Entry, kind history.Kind, limit int) []history.Entry {
	out := make([]history.Entry, 0, len(entries))
	for _, e := range entries {
		if kind != "" && e.Kind != kind {
			continue
		}
		out = append(out, e)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

func kindNames() []string {
	names := make([]string, len(history.Kinds))
	for i, k := range history.Kinds {
		names[i] = string(k)
	}
	return names
}

// =============================================================================
// SHOW
// =============================================================================

func (a *app) historyShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one result in full",
		Long:  `Show one result. A unique prefix of the ID is enough.`,
		Args:  withUsage(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !a.cfg.History.Enabled {
				return errHistoryDisabled
			}
			as, err := a.open()
			if err != nil {
				return err
			}

			entry, err := findEntry(as.History.Newest(), args[0])
			if err != nil {
				return err
			}
			return a.emit(cmd, entry, func() { a.out.EntryDetail(entry) })
		},
	}
}

// findEntry returns the entry whose ID starts with prefix.
func findEntry(entries []history.Entry, prefix string) (history.Entry, error) {
	prefix = strings.ToLower(strings.TrimSpace(prefix))
	if prefix == "" {
		return history.Entry{}, usageError("empty entry ID")
	}

	var matches []history.Entry
	for _, e := range entries {
		if e.ID == prefix {
			return e, nil
		}
		if strings.HasPrefix(strings.ToLower(e.ID), prefix) {
			matches = append(matches, e)
		}
	}

	switch len(matches) {
	case 0:
		return history.Entry{}, fmt.Errorf("%w: %s", history.ErrEntryNotFound, prefix)
	case 1:
		return matches[0], nil
	default:
		return history.Entry{}, usageError("ID prefix %q matches %d entries; use more characters", prefix, len(matches))
	}
}

// =============================================================================
// CLEAR
// =============================================================================

func (a *app) historyClearCommand() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every stored result",
		Args:  withUsage(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !a.cfg.History.Enabled {
				return errHistoryDisabled
			}
			as, err := a.open()
			if err != nil {
				return err
			}

			count := as.History.Len()
			if !yes {
				if a.jsonOutput || !a.stdinIsTerminal() {
					return usageError("refusing to clear history without --yes")
				}
				if !a.confirm(fmt.Sprintf("Delete %d stored results?", count)) {
					a.out.Println("Aborted.")
					return nil
				}
			}

			if err := as.Store().Clear(); err != nil {
				return fmt.Errorf("failed to clear history: %w", err)
			}
			return a.emit(cmd, map[string]int{"deleted": count}, func() {
				a.out.Success(fmt.Sprintf("Deleted %d results.", count))
			})
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

// confirm asks a yes/no question on stdin; anything but y/yes is no.
func (a *app) confirm(question string) bool {
	fmt.Fprintf(a.stderr, "%s [y/N] ", question)
	line, err := bufio.NewReader(a.stdin).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}
