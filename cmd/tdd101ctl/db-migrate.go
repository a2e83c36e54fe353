package main

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/tdd101-in-go/pkg/config"
	"github.com/doodlesbykumbi/tdd101-in-go/pkg/db"
)

// dbMigrateCmd represents the db migrate command
var dbMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create and/or upgrade the database schema",
	Long: `Create and/or upgrade the database schema.

This command runs all pending database migrations to bring the schema
up to date. Migrations are embedded in the binary, one set per
database_dialect, and tracked in the tdd101_schema_migrations table.

Example:
  tdd101ctl db migrate`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig()
		if err != nil {
			exitWithError("Migration failed", err)
		}
		if err := runMigrations(cmd.Context(), cmd.OutOrStdout(), cfg); err != nil {
			exitWithError("Migration failed", err)
		}
	},
}

var dbMigrateDownCmd = &cobra.Command{
	Use:   "down [steps]",
	Short: "Rollback database migrations",
	Long: `Rollback database migrations.

This command rolls back the specified number of migrations (default: 1).

Example:
  tdd101ctl db down      # Rollback 1 migration
  tdd101ctl db down 2    # Rollback 2 migrations`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		steps := 1
		if len(args) > 0 {
			n, err := strconv.Atoi(args[0])
			if err != nil {
				exitWithError("Rollback failed", fmt.Errorf("steps must be a number: %q", args[0]))
			}
			steps = n
		}

		cfg, err := loadConfig()
		if err != nil {
			exitWithError("Rollback failed", err)
		}
		if err := runMigrationsDown(cmd.Context(), cmd.OutOrStdout(), cfg, steps); err != nil {
			exitWithError("Rollback failed", err)
		}
	},
}

var dbMigrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show current migration version",
	Long:  `Show the current database migration version.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig()
		if err != nil {
			exitWithError("Failed to get status", err)
		}
		if err := showMigrationStatus(cmd.Context(), cmd.OutOrStdout(), cfg); err != nil {
			exitWithError("Failed to get status", err)
		}
	},
}

func init() {
	dbCmd.AddCommand(dbMigrateCmd)
	dbCmd.AddCommand(dbMigrateDownCmd)
	dbCmd.AddCommand(dbMigrateStatusCmd)
}

func databaseURL(cfg *config.Config) (string, error) {
	if cfg.DatabaseURL != "" {
		return cfg.DatabaseURL, nil
	}
	if url := db.URL(); url != "" {
		return url, nil
	}
	return "", fmt.Errorf("database_url is required")
}

func runMigrations(ctx context.Context, out io.Writer, cfg *config.Config) error {
	url, err := databaseURL(cfg)
	if err != nil {
		return err
	}

	before, err := db.Status(ctx, cfg.DatabaseDialect, url)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Current version: %d (dirty: %v)\n", before.Version, before.Dirty)

	if err := db.Migrate(ctx, cfg.DatabaseDialect, url); err != nil {
		return err
	}

	after, err := db.Status(ctx, cfg.DatabaseDialect, url)
	if err != nil {
		return err
	}
	if after.Version == before.Version && before.Applied {
		fmt.Fprintln(out, "No migrations to run - database is up to date")
		return nil
	}
	fmt.Fprintf(out, "Migrated to version: %d\n", after.Version)
	return nil
}

func runMigrationsDown(ctx context.Context, out io.Writer, cfg *config.Config, steps int) error {
	url, err := databaseURL(cfg)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Rolling back %d migration(s)...\n", steps)
	if err := db.Rollback(ctx, cfg.DatabaseDialect, url, steps); err != nil {
		return err
	}

	status, err := db.Status(ctx, cfg.DatabaseDialect, url)
	if err != nil {
		return err
	}
	if !status.Applied {
		fmt.Fprintln(out, "Rolled back every migration")
		return nil
	}
	fmt.Fprintf(out, "Rolled back to version: %d\n", status.Version)
	return nil
}

func showMigrationStatus(ctx context.Context, out io.Writer, cfg *config.Config) error {
	url, err := databaseURL(cfg)
	if err != nil {
		return err
	}

	status, err := db.Status(ctx, cfg.DatabaseDialect, url)
	if err != nil {
		return err
	}
	if !status.Applied {
		fmt.Fprintln(out, "No migrations have been applied yet")
		return nil
	}

	fmt.Fprintf(out, "Current version: %d\n", status.Version)
	if status.Dirty {
		fmt.Fprintln(out, "Warning: Database is in a dirty state")
	}
	return nil
}
