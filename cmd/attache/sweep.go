package main

import (
	"context"
	"fmt"
	"time"

	"github.com/kingcader/attache/internal/config"
	"github.com/spf13/cobra"
)

func newSweepCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Run the waiting-thread sweep once and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			a, err := buildApp(cfg)
			if err != nil {
				return err
			}
			defer a.log.Sync()

			summary, err := a.sweeper.Run(context.Background(), time.Now())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "scanned %d threads, notified %d, skipped %d\n",
				summary.Scanned, summary.Notified, summary.Skipped)
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "attache.yaml", "path to config file")
	return cmd
}
