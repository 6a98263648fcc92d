package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cognicore/nerkit/pkg/nerkit/config"
	"github.com/cognicore/nerkit/pkg/nerkit/logging"
)

type appContextKey struct{}

// app carries the loaded settings through the command tree.
type app struct {
	Config *config.Config
	Logger logging.Logger
}

type rootOptions struct {
	ConfigPath string
	LogLevel   string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "nerkit",
		Short: "Rule-based extraction of measures, named entities and URIs",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setup(cmd, opts)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a, ok := cmd.Context().Value(appContextKey{}).(*app); ok {
				_ = a.Logger.Sync()
			}
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.ConfigPath, "config", "c", "", "config file path")
	pf.StringVar(&opts.LogLevel, "log-level", "", "log level (debug, info, warn, error)")

	cmd.AddCommand(newExtractCmd(), newOntologyCmd())
	return cmd
}

func setup(cmd *cobra.Command, opts *rootOptions) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return err
	}
	if opts.LogLevel != "" {
		cfg.Log.Level = opts.LogLevel
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	logger, err := logging.NewLogger(cfg.Logging())
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(context.WithValue(ctx, appContextKey{}, &app{Config: cfg, Logger: logger.Named("nerkit")}))
	return nil
}

func appFrom(cmd *cobra.Command) *app {
	a, ok := cmd.Context().Value(appContextKey{}).(*app)
	if !ok {
		panic("nerkit: command context was not initialized")
	}
	return a
}
