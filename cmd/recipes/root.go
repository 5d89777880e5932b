package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/JonMunkholm/filmrecipes/internal/application"
	"github.com/JonMunkholm/filmrecipes/internal/config"
	"github.com/JonMunkholm/filmrecipes/internal/core"
	"github.com/JonMunkholm/filmrecipes/internal/logging"
)

// recipeService is the part of core.Service the commands use.
type recipeService interface {
	ImportCSV(ctx context.Context, r io.Reader, opts core.ImportOptions) (*core.ImportResult, error)
	PreviewCSV(ctx context.Context, r io.Reader) (*core.PreviewResponse, error)
	ExportAll(ctx context.Context, filter core.ExportFilter, sink io.Writer, opts core.ExportOptions) (*core.ExportStats, error)
	ExportByID(ctx context.Context, id uuid.UUID, sink io.Writer, opts core.ExportOptions) (*core.ExportStats, error)
	ImportHistory(ctx context.Context, limit int) ([]core.AuditEntry, error)
}

// openService connects to the database named by cfg. Tests replace it.
var openService = func(ctx context.Context, cfg *config.Config) (recipeService, func(), error) {
	pool, err := application.OpenPool(ctx, cfg.Database)
	if err != nil {
		return nil, nil, err
	}
	return core.NewPostgresService(pool, application.ServiceConfig(cfg)), pool.Close, nil
}

var (
	envFile  string
	logLevel string
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "recipes",
		Short:         "Import, export and serve film-simulation recipes",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := loadEnv(envFile); err != nil {
				return err
			}
			// stdout carries command output; logs go to stderr.
			logging.SetupWriter(cmd.ErrOrStderr(), logLevel, "text")
			return nil
		},
	}

	root.PersistentFlags().StringVar(&envFile, "env-file", "", "load environment from this file instead of .env")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level: debug, info, warn, error")

	root.AddCommand(
		newImportCmd(),
		newPreviewCmd(),
		newExportCmd(),
		newResolveCmd(),
		newHistoryCmd(),
		newServeCmd(),
	)
	return root
}

// loadEnv applies path over the process environment. Without a path the
// optional .env in the working directory is loaded; its absence is not an
// error.
func loadEnv(path string) error {
	if path != "" {
		if err := godotenv.Overload(path); err != nil {
			return fmt.Errorf("load env file %q: %w", path, err)
		}
		return nil
	}
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}

// withService loads the config, opens the service and runs fn.
func withService(cmd *cobra.Command, fn func(cfg *config.Config, svc recipeService) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	svc, closeFn, err := openService(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer closeFn()
	return fn(cfg, svc)
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logging.SetupWriter(os.Stdout, cfg.Logging.Level, cfg.Logging.Format)
			return application.Serve(cmd.Context(), cfg)
		},
	}
}
