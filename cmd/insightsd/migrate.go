package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/aniketri/real-insights-data/internal/infrastructure/config"
	"github.com/aniketri/real-insights-data/internal/infrastructure/persistence/postgres"
	"github.com/aniketri/real-insights-data/pkg/observability"
)

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back database migrations",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.Load()
			if cfg.DB.Password == "" {
				return errors.New("DB_PASSWORD environment variable is required")
			}
			logger := observability.InitLogger(observability.LogConfig{Level: cfg.LogLevel, Format: cfg.LogFormat, Service: cfg.ServiceName})

			if err := postgres.Migrate(cfg.Postgres().DSN()); err != nil {
				return fmt.Errorf("migrate up: %w", err)
			}
			logger.Info("migrations applied")
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "down [steps]",
		Short: "Roll back migrations (all when steps is omitted)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			steps := 0
			if len(args) == 1 {
				n, err := strconv.Atoi(args[0])
				if err != nil || n <= 0 {
					return fmt.Errorf("steps must be a positive integer, got %q", args[0])
				}
				steps = n
			}

			cfg := config.Load()
			if cfg.DB.Password == "" {
				return errors.New("DB_PASSWORD environment variable is required")
			}
			logger := observability.InitLogger(observability.LogConfig{Level: cfg.LogLevel, Format: cfg.LogFormat, Service: cfg.ServiceName})

			if err := postgres.Rollback(cfg.Postgres().DSN(), steps); err != nil {
				return fmt.Errorf("migrate down: %w", err)
			}
			logger.Info("migrations rolled back", "steps", steps)
			return nil
		},
	})

	return cmd
}
