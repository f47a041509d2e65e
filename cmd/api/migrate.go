package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	dbpkg "github.com/BruksfildServices01/bay-scheduler/internal/db"
	"github.com/BruksfildServices01/bay-scheduler/internal/seed"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			db, err := dbpkg.NewDB(cfg)
			if err != nil {
				return err
			}

			if err := dbpkg.Migrate(db); err != nil {
				return err
			}
			slog.Info("migrations applied")
			return nil
		},
	}
}

func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Migrate and load the default shop data",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			db, err := dbpkg.NewDB(cfg)
			if err != nil {
				return err
			}

			if err := dbpkg.Migrate(db); err != nil {
				return err
			}
			if err := dbpkg.Seed(cmd.Context(), db, seed.Default()); err != nil {
				return err
			}
			slog.Info("seed data loaded")
			return nil
		},
	}
}
