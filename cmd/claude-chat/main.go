// Package main provides the claude-chat command line client.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/minhyannv/claude-chat/pkg/chat"
	configpkg "github.com/minhyannv/claude-chat/pkg/config"
	"github.com/minhyannv/claude-chat/pkg/credential"
	loggerpkg "github.com/minhyannv/claude-chat/pkg/logger"
)

// main is the program entry point.
func main() {
	loadDotEnv()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(defaultDeps()).ExecuteContext(ctx); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

// exchangerFactory builds the Exchanger for a resolved credential.
type exchangerFactory func(cfg configpkg.Config, apiKey string, logger loggerpkg.Logger) (chat.Exchanger, error)

// rootDeps holds the collaborators the root command needs; tests swap them.
type rootDeps struct {
	getenv       func(string) string
	baseConfig   func() configpkg.Config
	newLogger    func(verbose bool) (loggerpkg.Logger, func(), error)
	newExchanger exchangerFactory
}

func defaultDeps() rootDeps {
	return rootDeps{
		getenv:       os.Getenv,
		baseConfig:   configpkg.DefaultConfig,
		newLogger:    newZapLogger,
		newExchanger: newClientExchanger,
	}
}

func newZapLogger(verbose bool) (loggerpkg.Logger, func(), error) {
	z, err := loggerpkg.NewCLIZap(verbose)
	if err != nil {
		return nil, func() {}, fmt.Errorf("init logger: %w", err)
	}
	return loggerpkg.NewZapLogger(z), func() { _ = z.Sync() }, nil
}

func newClientExchanger(cfg configpkg.Config, apiKey string, logger loggerpkg.Logger) (chat.Exchanger, error) {
	return chat.New(chat.Config{
		APIKey:    apiKey,
		BaseURL:   cfg.BaseURL,
		Model:     cfg.Model,
		MaxTokens: cfg.MaxTokens,
		Verbose:   cfg.Verbose,
	}, chat.WithLogger(logger))
}

// cliFlags mirrors the root command flags.
type cliFlags struct {
	setup       bool
	interactive bool
	check       bool
	noVerify    bool
	verbose     bool
	model       string
}

func (f cliFlags) anyMode() bool {
	return f.setup || f.interactive || f.check
}

func newRootCmd(deps rootDeps) *cobra.Command {
	var flags cliFlags
	cmd := &cobra.Command{
		Use:   "claude-chat [message...]",
		Short: "Send prompts to Claude from the command line",
		Long: `claude-chat sends a prompt to Claude and prints the reply.

The API key is read from $ANTHROPIC_API_KEY, falling back to ~/.claude_config.json
(written by --setup). Every message is sent on its own; no history is kept.`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRoot(cmd, args, flags, deps)
		},
	}
	// Flags must precede the message so it may contain dashes.
	cmd.Flags().SetInterspersed(false)
	cmd.Flags().BoolVar(&flags.setup, "setup", false, "Store an API key interactively")
	cmd.Flags().BoolVar(&flags.interactive, "interactive", false, "Start an interactive chat")
	cmd.Flags().BoolVar(&flags.check, "check", false, "Test the configured API key")
	cmd.Flags().BoolVar(&flags.noVerify, "no-verify", false, "Skip the connection test after --setup")
	cmd.Flags().BoolVarP(&flags.verbose, "verbose", "v", false, "Verbose logging to stderr")
	cmd.Flags().StringVar(&flags.model, "model", "", "Model identifier (overrides settings and environment)")
	return cmd
}

// app bundles what a single command run works with.
type app struct {
	cfg          configpkg.Config
	store        *credential.Store
	logger       loggerpkg.Logger
	newExchanger exchangerFactory
	in           io.Reader
	out          io.Writer
}

func runRoot(cmd *cobra.Command, args []string, flags cliFlags, deps rootDeps) error {
	out := cmd.OutOrStdout()
	if len(args) == 0 && !flags.anyMode() {
		printUsage(out)
		return nil
	}

	cfg, err := loadConfig(flags, deps.getenv, deps.baseConfig())
	if err != nil {
		return err
	}

	logger, closeLogger, err := deps.newLogger(cfg.Verbose)
	if err != nil {
		return err
	}
	defer closeLogger()

	store, err := credential.New(credential.Options{
		Path:   cfg.CredentialPath,
		EnvVar: cfg.APIKeyEnv,
		Getenv: deps.getenv,
		Logger: logger,
	})
	if err != nil {
		return err
	}

	a := &app{
		cfg:          cfg,
		store:        store,
		logger:       logger,
		newExchanger: deps.newExchanger,
		in:           cmd.InOrStdin(),
		out:          out,
	}

	ctx := cmd.Context()
	switch {
	case flags.setup:
		return a.runSetup(ctx, !flags.noVerify)
	case flags.check:
		return a.runCheck(ctx)
	case flags.interactive:
		return a.runInteractive(ctx)
	default:
		return a.runOnce(ctx, strings.Join(args, " "))
	}
}

// resolveExchanger returns nil, nil after telling the user how to run setup
// when no credential is available.
func (a *app) resolveExchanger() (chat.Exchanger, error) {
	apiKey, ok := a.store.Resolve()
	if !ok {
		a.printMissingCredential()
		return nil, nil
	}
	return a.newExchanger(a.cfg, apiKey, a.logger)
}

func (a *app) runOnce(ctx context.Context, prompt string) error {
	ex, err := a.resolveExchanger()
	if err != nil || ex == nil {
		return err
	}
	res := ex.Exchange(ctx, prompt)
	_, _ = fmt.Fprintln(a.out, res.String())
	return nil
}

func (a *app) runInteractive(ctx context.Context) error {
	ex, err := a.resolveExchanger()
	if err != nil || ex == nil {
		return err
	}
	return chat.RunInteractive(ctx, ex, a.in, a.out, chat.InteractiveOptions{
		Logger:  a.logger,
		Verbose: a.cfg.Verbose,
	})
}

func (a *app) printMissingCredential() {
	_, _ = fmt.Fprintln(a.out, "No API key found!")
	_, _ = fmt.Fprintf(a.out, "Set $%s or run: claude-chat --setup\n", a.store.EnvVar())
}

func printUsage(out io.Writer) {
	_, _ = fmt.Fprintln(out, "Usage:")
	_, _ = fmt.Fprintln(out, `  claude-chat "Your message here"`)
	_, _ = fmt.Fprintln(out, "  claude-chat --interactive")
	_, _ = fmt.Fprintln(out, "  claude-chat --setup")
	_, _ = fmt.Fprintln(out, "  claude-chat --check")
}
