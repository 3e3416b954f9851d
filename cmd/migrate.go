// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/spf13/cobra"

	"github.com/canonical/inventory-service/migrations"
)

// migrateCmd performs DB migrations
var migrateCmd = &cobra.Command{
	Use:   "migrate [up|down [version]|status|check]",
	Short: "Run database migrations",
	Long: `Run the PostgreSQL schema migrations embedded in the binary.
The firestore backend is schemaless and needs none.`,
	Args: migrateArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dsn, _ := cmd.Flags().GetString("dsn")
		if dsn == "" {
			dsn = os.Getenv("DSN")
		}
		if dsn == "" {
			return errors.New("a DSN is required, pass --dsn or set DSN")
		}

		format, _ := cmd.Flags().GetString("format")

		command, version := "up", int64(-1)
		if len(args) > 0 {
			command = args[0]
		}
		if len(args) > 1 {
			version, _ = strconv.ParseInt(args[1], 10, 64)
		}

		return migrate(cmd.Context(), cmd.OutOrStdout(), dsn, command, format, version)
	},
}

func init() {
	migrateCmd.Flags().String("dsn", "", "PostgreSQL DSN connection string, defaults to $DSN")
	migrateCmd.Flags().StringP("format", "f", "text", "Output format (text or json)")

	rootCmd.AddCommand(migrateCmd)
}

// migrateArgs accepts no argument, one command, or "down" with a target version.
func migrateArgs(cmd *cobra.Command, args []string) error {
	if err := cobra.RangeArgs(0, 2)(cmd, args); err != nil {
		return err
	}
	if len(args) == 0 {
		return nil
	}

	switch args[0] {
	case "up", "down", "status", "check":
	default:
		return fmt.Errorf("invalid command: %q", args[0])
	}

	if len(args) == 2 {
		if args[0] != "down" {
			return fmt.Errorf("only down takes a version, got %q", args)
		}
		if v, err := strconv.ParseInt(args[1], 10, 64); err != nil || v < 0 {
			return fmt.Errorf("invalid version number: %q", args[1])
		}
	}

	return nil
}

func migrate(ctx context.Context, out io.Writer, dsn, command, format string, version int64) error {
	config, err := pgx.ParseConfig(dsn)
	if err != nil {
		return fmt.Errorf("invalid DSN: %w", err)
	}

	db := stdlib.OpenDB(*config)
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("database unreachable: %w", err)
	}

	var opts []goose.ProviderOption
	if format == "json" {
		opts = append(opts, goose.WithLogger(goose.NopLogger()))
	}

	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations.EmbedMigrations, opts...)
	if err != nil {
		return fmt.Errorf("failed to create goose provider: %w", err)
	}

	switch command {
	case "up":
		results, err := provider.Up(ctx)
		if err != nil {
			return err
		}
		return writeResults(out, format, results)
	case "down":
		results, err := migrateDown(ctx, provider, version)
		if err != nil {
			return err
		}
		return writeResults(out, format, results)
	case "status":
		return writeStatus(ctx, out, provider, format)
	case "check":
		return checkPending(ctx, out, provider, format)
	}

	return nil
}

// migrateDown rolls back one migration, or every migration above version.
func migrateDown(ctx context.Context, provider *goose.Provider, version int64) ([]*goose.MigrationResult, error) {
	if version >= 0 {
		return provider.DownTo(ctx, version)
	}

	result, err := provider.Down(ctx)
	if err != nil {
		return nil, err
	}
	return []*goose.MigrationResult{result}, nil
}

func writeResults(out io.Writer, format string, results []*goose.MigrationResult) error {
	if format == "json" {
		if results == nil {
			results = []*goose.MigrationResult{}
		}
		return json.NewEncoder(out).Encode(map[string]any{"applied": results})
	}

	if len(results) == 0 {
		fmt.Fprintln(out, "Nothing to migrate")
	}
	for _, r := range results {
		fmt.Fprintf(out, "%-4s %s (%s)\n", r.Direction, r.Source.Path, r.Duration.Round(time.Millisecond))
	}
	return nil
}

func writeStatus(ctx context.Context, out io.Writer, provider *goose.Provider, format string) error {
	statuses, err := provider.Status(ctx)
	if err != nil {
		return err
	}
	if format == "json" {
		return json.NewEncoder(out).Encode(statuses)
	}

	fmt.Fprintf(out, "%-26s %s\n", "APPLIED AT", "MIGRATION")
	for _, s := range statuses {
		appliedAt := "pending"
		if s.State == goose.StateApplied {
			appliedAt = s.AppliedAt.Format(time.RFC3339)
		}
		fmt.Fprintf(out, "%-26s %s\n", appliedAt, s.Source.Path)
	}
	return nil
}

// checkPending fails when migrations are pending so it can gate a deploy.
func checkPending(ctx context.Context, out io.Writer, provider *goose.Provider, format string) error {
	pending, err := provider.HasPending(ctx)
	if err != nil {
		return fmt.Errorf("failed to check pending migrations: %w", err)
	}

	current, verr := provider.GetDBVersion(ctx)

	status := "ok"
	switch {
	case pending:
		status = "pending"
	case verr != nil:
		status = "unknown"
	}

	if format == "json" {
		return json.NewEncoder(out).Encode(map[string]any{"status": status, "version": current})
	}

	if pending {
		return fmt.Errorf("migrations are pending: current version %d", current)
	}

	fmt.Fprintf(out, "Database is up to date (version %d)\n", current)
	return nil
}
