package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/kingcader/attache/internal/config"
	"github.com/kingcader/attache/internal/db"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newServeCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the API server and the waiting-thread sweep scheduler",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			return runServe(cfg)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "attache.yaml", "path to config file")
	return cmd
}

func runServe(cfg *config.Config) error {
	a, err := buildApp(cfg)
	if err != nil {
		return err
	}
	defer a.log.Sync()

	if err := db.AutoMigrate(a.gdb); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := a.sweeper.Start(ctx); err != nil && err != context.Canceled {
			a.log.Error("sweep scheduler stopped", zap.Error(err))
		}
	}()

	a.log.Info("attache started", zap.String("version", Version))
	return a.server.Start(ctx)
}
