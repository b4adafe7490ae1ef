package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"todolists/database"
	"todolists/infrastructure/config"
	"todolists/logging"
)

type rootOptions struct {
	configPath string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "todolists",
		Short:         "Session-scoped todo list web application",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(opts)
		},
	}
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", os.Getenv("TODOLISTS_CONFIG"),
		"path to a TOML config file (env TODOLISTS_CONFIG)")

	cmd.AddCommand(newServeCmd(opts))
	cmd.AddCommand(newSessionsCmd(opts))
	return cmd
}

func newServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(opts)
		},
	}
}

func newSessionsCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "Manage stored sessions",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "prune",
		Short: "Delete every expired session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadRuntime(opts)
			if err != nil {
				return err
			}

			db, err := initializeDatabase(cfg, logger)
			if err != nil {
				return err
			}
			if db != nil {
				defer closeDatabase(db, logger)
			}

			_, manager, err := buildSessionLayer(cfg, db)
			if err != nil {
				return err
			}

			removed, err := manager.Prune(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to prune sessions: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed %d expired session(s)\n", removed)
			return nil
		},
	})
	return cmd
}

// loadRuntime loads .env, configuration and logging shared by every command.
func loadRuntime(opts *rootOptions) (*config.AppConfig, *logging.Logger, error) {
	loadEnvironment()

	cfg, err := config.LoadAppConfig(opts.configPath)
	if err != nil {
		return nil, nil, err
	}
	return cfg, initializeLogging(cfg), nil
}

func runServe(opts *rootOptions) error {
	// Create app-wide context for graceful shutdown
	appCtx, appCancel := context.WithCancel(context.Background())
	defer appCancel()

	cfg, logger, err := loadRuntime(opts)
	if err != nil {
		return err
	}

	db, err := initializeDatabase(cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize database", "error", err)
		return err
	}
	if db != nil {
		defer closeDatabase(db, logger)
	}

	deps, err := buildDependencies(cfg, db, logger)
	if err != nil {
		logger.Error("Failed to build dependencies", "error", err)
		return err
	}

	router := setupRoutes(deps, cfg)
	return startServer(appCtx, appCancel, router, cfg.HTTPAddr, logger, deps)
}

func closeDatabase(db *database.Database, logger *logging.Logger) {
	if err := db.Close(); err != nil {
		logger.Error("Failed to close database", "error", err)
	}
}
