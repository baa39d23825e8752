// Command careerdex serves career recommendations and runs the offline
// data preparation and indexing steps.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/careerdex/internal/config"
	logpkg "github.com/kailas-cloud/careerdex/internal/logger"
	"github.com/kailas-cloud/careerdex/internal/metrics"
	"github.com/kailas-cloud/careerdex/internal/version"
)

// app carries what every command needs.
type app struct {
	env    string
	cfg    config.Config
	logger *zap.Logger
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCommand().ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var env string

	root := &cobra.Command{
		Use:           "careerdex",
		Short:         "Career recommendations from O*NET occupations",
		Version:       version.String(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&env, "env", config.GetEnv(), "Config environment (config/<env>.yaml)")

	load := func() (*app, error) {
		return loadApp(env)
	}

	root.AddCommand(
		newServeCommand(load),
		newPrepareCommand(load),
		newIndexCommand(load),
		newWagesCommand(load),
	)
	return root
}

func loadApp(env string) (*app, error) {
	cfg, err := config.Load(env)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}

	// Explicit registration, no init().
	metrics.Register()

	return &app{env: env, cfg: cfg, logger: logger}, nil
}
