// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jeranaias/assistant/internal/config"
)

func (a *app) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change configuration",
		Long: `Show or change the configuration file.

Keys use dot notation, for example server.base_url or history.backend.
"config show" prints the effective configuration, including environment
and flag overrides; "config set" edits only the file.`,
	}
	cmd.AddCommand(
		a.configShowCommand(),
		a.configGetCommand(),
		a.configSetCommand(),
		a.configKeysCommand(),
		a.configPathCommand(),
		a.configInitCommand(),
	)
	return cmd
}

func (a *app) configShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration (API key redacted)",
		Args:  withUsage(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			safe := a.cfg.Clone()
			if safe.Server.APIKey != "" {
				safe.Server.APIKey = "[REDACTED]"
			}
			return a.emit(cmd, safe, func() { a.out.Println(a.cfg.String()) })
		},
	}
}

func (a *app) configGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Print one effective configuration value",
		Example: `  assistant config get server.base_url
  assistant config get history.max_entries`,
		Args: withUsage(cobra.ExactArgs(1)),
		ValidArgsFunction: func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
			return config.GetAllKeys(), cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := a.cfg.Get(args[0])
			if err != nil {
				return usageError("%v", err)
			}
			return a.emit(cmd, map[string]any{"key": args[0], "value": value}, func() {
				a.out.Println(fmt.Sprint(value))
			})
		},
	}
}

func (a *app) configSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Change one value in the configuration file",
		Example: `  assistant config set server.base_url http://gpu-box:8000
  assistant config set history.backend sqlite
  assistant config set ui.markdown false`,
		Args:        withUsage(cobra.ExactArgs(2)),
		Annotations: map[string]string{annotationConfigOptional: "true"},
		ValidArgsFunction: func(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
			if len(args) > 0 {
				return nil, cobra.ShellCompDirectiveNoFileComp
			}
			return config.GetAllKeys(), cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := a.configFile()
			if err != nil {
				return configError(err)
			}

			cfg, err := readConfigFile(path)
			if err != nil {
				return configError(err)
			}
			if err := cfg.Set(args[0], args[1]); err != nil {
				return usageError("%v", err)
			}
			cfg.SetDefaults()
			if err := cfg.Validate(); err != nil {
				return usageError("%v", err)
			}
			if err := writeConfigFile(cfg, path); err != nil {
				return configError(err)
			}

			return a.emit(cmd, map[string]string{"key": args[0], "value": args[1], "path": path}, func() {
				a.out.Success(fmt.Sprintf("Set %s in %s", args[0], path))
			})
		},
	}
}

func (a *app) configKeysCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "keys",
		Short: "List every configuration key",
		Args:  withUsage(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			keys := config.GetAllKeys()
			return a.emit(cmd, keys, func() { a.out.Println(strings.Join(keys, "\n")) })
		},
	}
}

func (a *app) configPathCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "path",
		Short:       "Print the configuration file location",
		Args:        withUsage(cobra.NoArgs),
		Annotations: map[string]string{annotationConfigOptional: "true"},
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := a.configFile()
			if err != nil {
				return configError(err)
			}
			return a.emit(cmd, map[string]string{"path": path}, func() { a.out.Println(path) })
		},
	}
}

func (a *app) configInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Write a configuration file with the default settings",
		Args:        withUsage(cobra.NoArgs),
		Annotations: map[string]string{annotationConfigOptional: "true"},
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := a.configFile()
			if err != nil {
				return configError(err)
			}
			if _, err := os.Stat(path); err == nil && !force {
				return usageError("%s already exists (use --force to overwrite)", path)
			}
			if err := writeConfigFile(config.Default(), path); err != nil {
				return configError(err)
			}
			return a.emit(cmd, map[string]string{"path": path}, func() {
				a.out.Success("Wrote " + path)
			})
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}

// readConfigFile decodes path over the defaults without applying
// environment overrides, so they are never written back. A missing file
// yields the defaults.
func readConfigFile(path string) (*config.Config, error) {
	cfg := config.Default()
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if isJSONPath(path) {
		return cfg, config.LoadJSON(cfg, path)
	}
	return cfg, config.LoadTOML(cfg, path)
}

func writeConfigFile(cfg *config.Config, path string) error {
	if isJSONPath(path) {
		return config.SaveJSON(cfg, path)
	}
	return config.SaveTOML(cfg, path)
}

func isJSONPath(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".json")
}
