// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jeranaias/assistant/internal/api"
	"github.com/jeranaias/assistant/internal/assistant"
	"github.com/jeranaias/assistant/internal/command"
	"github.com/jeranaias/assistant/internal/config"
	"github.com/jeranaias/assistant/internal/history"
	"github.com/jeranaias/assistant/internal/logging"
	"github.com/jeranaias/assistant/internal/ui"
)

// Version is set at build time with -ldflags "-X ...cli.Version=...".
var Version = "dev"

// annotationConfigOptional lets a command run with a broken config file,
// so "config path", "config init" and "config set" can repair it.
const annotationConfigOptional = "config-optional"

// =============================================================================
// APP
// =============================================================================

// app holds the flags and lazily built resources shared by all commands.
type app struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	// Persistent flags
	configPath string
	baseURL    string
	model      string
	logLevel   string
	jsonOutput bool
	noHistory  bool

	cfg       *config.Config
	cfgErr    error
	logger    *zap.Logger
	out       *ui.Printer // results, stdout
	status    *ui.Printer // errors and spinners, stderr
	assistant *assistant.Assistant
}

func newApp(stdin io.Reader, stdout, stderr io.Writer) *app {
	return &app{
		stdin:  stdin,
		stdout: stdout,
		stderr: stderr,
		logger: zap.NewNop(),
	}
}

// NewRootCommand builds the command tree reading from stdin and writing
// to stdout and stderr.
func NewRootCommand(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	return newApp(stdin, stdout, stderr).rootCommand()
}

func (a *app) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "assistant",
		Short: "Code generation, review, document analysis and chat from the terminal",
		Long: `assistant talks to a text-generation backend over HTTP.

Every request is sent once; while it is pending a spinner is shown and
ctrl+c abandons it. Successful results are kept in a history log that
persists between runs (see "assistant history").

Configuration is read from ~/.assistant/config.toml (or config.json),
then ASSISTANT_* environment variables (a .env file in the working
directory is loaded first), then command-line flags.`,
		Version:           Version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	root.SetIn(a.stdin)
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &ExitError{Code: ExitUsageError, Err: err}
	})

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "config file (default ~/.assistant/config.toml)")
	flags.StringVar(&a.baseURL, "base-url", "", "backend base URL (overrides server.base_url)")
	flags.StringVarP(&a.model, "model", "m", "", "model to request (overrides server.model)")
	flags.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error")
	flags.BoolVar(&a.jsonOutput, "json", false, "write results as JSON")
	flags.BoolVar(&a.noHistory, "no-history", false, "do not read or save the history store")

	root.AddCommand(
		a.generateCommand(),
		a.reviewCommand(),
		a.analyzeCommand(),
		a.askCommand(),
		a.chatCommand(),
		a.historyCommand(),
		a.modelsCommand(),
		a.healthCommand(),
		a.configCommand(),
	)
	return root
}

// setup loads configuration and builds the logger and printers.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	if err := config.LoadDotEnv(); err != nil {
		return configError(err)
	}

	cfg, err := a.loadConfig()
	if err != nil {
		if cmd.Annotations[annotationConfigOptional] == "" {
			return configError(err)
		}
		a.cfgErr = err
		cfg = config.Default()
		cfg.ApplyEnvOverrides()
		cfg.SetDefaults()
	}

	a.applyFlags(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return configError(fmt.Errorf("invalid config: %w", err))
	}
	a.cfg = cfg

	logger, err := logging.New(cfg.Log)
	if err != nil {
		return configError(err)
	}
	a.logger = logger

	opts := ui.Options{
		Theme:    cfg.UI.Theme,
		Markdown: cfg.UI.Markdown,
		WordWrap: cfg.UI.WordWrap,
	}
	a.out = ui.NewPrinter(a.stdout, opts)
	a.status = ui.NewPrinter(a.stderr, opts)

	a.logger.Debug("configuration loaded",
		zap.String("command", commandName(cmd)),
		zap.String("base_url", cfg.Server.BaseURL),
		zap.Bool("history", cfg.History.Enabled))
	return nil
}

func (a *app) loadConfig() (*config.Config, error) {
	if a.configPath != "" {
		return config.LoadFromPath(a.configPath)
	}
	return config.Load()
}

func (a *app) applyFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("base-url") {
		cfg.Server.BaseURL = a.baseURL
	}
	if flags.Changed("model") {
		cfg.Server.Model = a.model
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = a.logLevel
	}
	if a.noHistory {
		cfg.History.Enabled = false
	}
}

// configFile returns the file "config" subcommands read and write.
func (a *app) configFile() (string, error) {
	if a.configPath != "" {
		return a.configPath, nil
	}
	path, err := config.ConfigPathTOML()
	if err != nil {
		return "", err
	}
	if _, statErr := os.Stat(path); statErr == nil {
		return path, nil
	}
	jsonPath, err := config.ConfigPathJSON()
	if err == nil {
		if _, statErr := os.Stat(jsonPath); statErr == nil {
			return jsonPath, nil
		}
	}
	return path, nil
}

// =============================================================================
// RESOURCES
// =============================================================================

func (a *app) client() *api.Client {
	return api.NewClient(&api.Config{
		BaseURL: a.cfg.Server.BaseURL,
		Prefix:  a.cfg.Server.APIPrefix,
		APIKey:  a.cfg.Server.APIKey,
		Model:   a.cfg.Server.Model,
		Timeout: a.cfg.Timeout(),
		Logger:  a.logger,
	})
}

// open returns the assistant, opening the history store on first use.
func (a *app) open() (*assistant.Assistant, error) {
	if a.assistant != nil {
		return a.assistant, nil
	}

	opts := []assistant.Option{
		assistant.WithLogger(a.logger),
		assistant.WithHistoryCapacity(a.cfg.History.MaxEntries),
	}
	if a.cfg.History.Enabled {
		store, err := history.Open(history.Options{
			Backend:    a.cfg.History.Backend,
			Path:       a.cfg.History.Path,
			MaxEntries: a.cfg.History.MaxEntries,
		})
		if err != nil {
			return nil, configError(fmt.Errorf("failed to open history: %w", err))
		}
		opts = append(opts, assistant.WithStore(store))
	}

	as := assistant.New(a.client(), opts...)
	if err := as.LoadHistory(); err != nil {
		a.logger.Warn("history unavailable", zap.Error(err))
	}
	a.assistant = as
	return as, nil
}

func (a *app) close() {
	if a.assistant != nil {
		if err := a.assistant.Close(); err != nil {
			a.logger.Warn("failed to close history store", zap.Error(err))
		}
	}
	_ = a.logger.Sync()
}

// =============================================================================
// OUTPUT
// =============================================================================

// wait runs action with a spinner on stderr that follows cmd.
func (a *app) wait(ctx context.Context, label string, cmd *command.Command, action func(context.Context) error) error {
	return a.status.Wait(ctx, label, cmd, action)
}

// emit writes data as JSON with --json, otherwise calls text.
func (a *app) emit(cmd *cobra.Command, data any, text func()) error {
	if a.jsonOutput {
		return NewJSONResponse(commandName(cmd), data).Write(a.stdout)
	}
	text()
	return nil
}

func (a *app) emitEntry(cmd *cobra.Command, e history.Entry) error {
	return a.emit(cmd, e, func() { a.out.Entry(e) })
}

func (a *app) reportError(cmd *cobra.Command, err error) {
	if a.jsonOutput {
		if werr := NewJSONErrorResponse(commandName(cmd), err).Write(a.stdout); werr == nil {
			return
		}
	}

	status := a.status
	if status == nil {
		status = ui.NewPrinter(a.stderr, ui.Options{})
	}
	status.Error(errorMessage(err))

	var exitErr *ExitError
	if errors.As(err, &exitErr) && exitErr.Code == ExitUsageError && cmd != nil {
		fmt.Fprintf(a.stderr, "Run '%s --help' for usage.\n", cmd.CommandPath())
	}
}

// commandName returns the command path without the program name.
func commandName(cmd *cobra.Command) string {
	if cmd == nil {
		return ""
	}
	path := cmd.CommandPath()
	if i := strings.IndexByte(path, ' '); i >= 0 {
		return path[i+1:]
	}
	return path
}

// =============================================================================
// ENTRY POINTS
// =============================================================================

// Run executes the command line in args and returns the exit code.
func Run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	a := newApp(stdin, stdout, stderr)
	root := a.rootCommand()
	root.SetArgs(args)

	cmd, err := root.ExecuteContextC(ctx)
	a.close()
	if err != nil {
		a.reportError(cmd, err)
	}
	return ExitCode(err)
}

// Execute runs the CLI against the process's arguments and standard
// streams. SIGINT and SIGTERM cancel in-flight requests.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return Run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
}
