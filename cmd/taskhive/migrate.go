// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TaskHive Contributors

package main

import (
	"log/slog"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/taskhive/taskhive/internal/config"
	"github.com/taskhive/taskhive/internal/store"
)

var errDatabaseURLRequired = oops.Code("CONFIG_INVALID").Errorf("database_url is required")

// NewMigrateCmd creates the migrate subcommand.
func NewMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		Long:  `Apply all pending schema migrations to the PostgreSQL task store.`,
		RunE:  runMigrate,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back all migrations (destructive)",
		RunE:  runMigrateDown,
	})

	return cmd
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	return withMigrator(cmd, func(m *store.Migrator) error {
		cmd.Println("Running migrations...")
		if err := m.Up(); err != nil {
			return err
		}
		cmd.Println("Migrations completed successfully")
		return nil
	})
}

func runMigrateDown(cmd *cobra.Command, _ []string) error {
	return withMigrator(cmd, func(m *store.Migrator) error {
		cmd.Println("Rolling back all migrations...")
		if err := m.Down(); err != nil {
			return err
		}
		cmd.Println("Rollback completed")
		return nil
	})
}

func withMigrator(cmd *cobra.Command, fn func(*store.Migrator) error) error {
	cfg, err := config.Load(configFile, cmd.Flags())
	if err != nil {
		return err
	}
	// Only the database URL matters here; a full Validate would demand
	// session and mongo settings the migrator never touches.
	if cfg.DatabaseURL == "" {
		return errDatabaseURLRequired
	}

	migrator, err := store.NewMigrator(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := migrator.Close(); closeErr != nil {
			slog.Warn("error closing migrator", "error", closeErr)
		}
	}()

	return fn(migrator)
}
