package main

import (
	"context"
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/techstore/catalogqa/internal/app"
	"github.com/techstore/catalogqa/internal/config"
	logpkg "github.com/techstore/catalogqa/internal/logger"
	"github.com/techstore/catalogqa/internal/repository/catalog"
	"github.com/techstore/catalogqa/internal/version"
)

type rootOptions struct {
	env      string
	logLevel string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "catalogindex",
		Short:         "Load the product catalog into the vector index",
		Version:       version.String(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			_ = godotenv.Load()
		},
	}
	cmd.PersistentFlags().StringVarP(&opts.env, "env", "e", "", "config environment (default: $ENV or local)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "override logging.level")

	cmd.AddCommand(newLoadCmd(opts), newDropCmd(opts))
	return cmd
}

// session is the shared setup of every subcommand.
type session struct {
	cfg    config.Config
	logger *zap.Logger
	stores *app.Stores
	writer *catalog.Writer
}

func (o *rootOptions) open(ctx context.Context) (*session, error) {
	env := o.env
	if env == "" {
		env = config.GetEnv()
	}
	cfg, err := config.Load(env)
	if err != nil {
		return nil, err
	}
	if cfg.VectorStore.Driver == config.DriverMilvus {
		return nil, fmt.Errorf("catalogindex writes Redis/Valkey indexes only; driver is %q", cfg.VectorStore.Driver)
	}

	level := cfg.Logging.Level
	if o.logLevel != "" {
		level = o.logLevel
	}
	logger, err := logpkg.NewLogger(env, logpkg.Options{Level: level, Service: "catalogindex"})
	if err != nil {
		return nil, err
	}

	logpkg.SetFallback(logger)

	stores, err := app.OpenStores(ctx, cfg.VectorStore, logger)
	if err != nil {
		return nil, err
	}
	return &session{
		cfg:    cfg,
		logger: logger,
		stores: stores,
		writer: catalog.NewWriter(stores.Redis, app.CatalogConfig(cfg.VectorStore)),
	}, nil
}

func (s *session) close() {
	s.stores.Close()
	_ = s.logger.Sync()
}
