package main

import (
	"fmt"

	"github.com/kingcader/attache/internal/config"
	"github.com/kingcader/attache/internal/db"
	"github.com/spf13/cobra"
)

func newMigrateCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		Long:  "Runs GORM auto-migration for all models. Safe to run multiple times.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			gdb, err := db.Connect(cfg.DB)
			if err != nil {
				return err
			}
			if err := db.AutoMigrate(gdb); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "migrated %d models\n", len(db.AllModels()))
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "attache.yaml", "path to config file")
	return cmd
}
