package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/doodlesbykumbi/tdd101-in-go/pkg/config"
)

var rootCmd = &cobra.Command{
	Use:   "tdd101ctl",
	Short: "Run and manage the tdd101 people service",
	Long: `Run and manage the tdd101 people service.

Configuration is read from $TDD101_CONFIG_PATH/tdd101.yml and TDD101_*
environment variables. Run "tdd101ctl configuration show" to see the
resolved values.`,
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func main() {
	Execute()
}

// requireSubcommand is the Run of commands that only group subcommands
func requireSubcommand(cmd *cobra.Command, args []string) {
	fmt.Fprintln(cmd.ErrOrStderr(), subcommandError(cmd))
	fmt.Fprintln(cmd.ErrOrStderr())
	_ = cmd.Help()
	os.Exit(1)
}

func subcommandError(cmd *cobra.Command) string {
	var names []string
	for _, sub := range cmd.Commands() {
		if sub.IsAvailableCommand() {
			names = append(names, sub.Name())
		}
	}
	return fmt.Sprintf("error: Command '%s' requires a subcommand (%s)", cmd.Name(), strings.Join(names, ", "))
}

// exitWithError prints msg and err to stderr and exits with status 1
func exitWithError(msg string, err error) {
	fmt.Fprintf(os.Stderr, "%s: %v\n", msg, err)
	os.Exit(1)
}

// loadConfig reloads and validates the global configuration.
func loadConfig() (*config.Config, error) {
	if err := config.Reload(); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	cfg := config.Get()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// newLogger builds a production logger whose level can be changed while the
// process runs.
func newLogger(cfg *config.Config) (*zap.Logger, zap.AtomicLevel, error) {
	level := zap.NewAtomicLevel()
	if lvl, err := cfg.Level(); err == nil {
		level.SetLevel(lvl)
	}

	zapConfig := zap.NewProductionConfig()
	zapConfig.Level = level
	logger, err := zapConfig.Build()
	if err != nil {
		return nil, level, fmt.Errorf("failed to build logger: %w", err)
	}
	return logger, level, nil
}
