package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"uigenie/internal/infra"
)

func newMigrateCmd() *cobra.Command {
	var timeout time.Duration
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := infra.ParseConfig()
			if err != nil {
				return err
			}
			if cfg.DatabaseURL == "" {
				return fmt.Errorf("DATABASE_URL is required")
			}

			ctx, cancel := context.WithTimeout(context.Background(), timeout)
			defer cancel()

			pool, err := infra.NewDBPool(ctx, cfg)
			if err != nil {
				return fmt.Errorf("failed to create pool: %w", err)
			}
			defer pool.Close()

			logger := infra.NewLogger("cli").With().Str("cmd", "migrate").Logger()
			if err := infra.Migrate(ctx, pool, logger); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
			return nil
		},
	}
	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "overall timeout for connecting and migrating")
	return cmd
}
