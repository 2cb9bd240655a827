package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/meikuraledutech/linkedit"
	"github.com/meikuraledutech/linkedit/api"
	"github.com/meikuraledutech/linkedit/postgres"
	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:          "linkedit-server",
	Short:        "Serve direct-connection editing sessions over a stored node graph",
	SilenceUsage: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd.Context(), func(cfg Config, store linkedit.Store) error {
			log, err := cfg.logger()
			if err != nil {
				return err
			}
			app := api.New(store, log).App()
			log.Info("listening", "addr", cfg.ListenAddr)
			return app.Listen(cfg.ListenAddr)
		})
	},
}

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Manage the database schema",
}

var schemaCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create the graph tables if they don't exist",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd.Context(), func(_ Config, store linkedit.Store) error {
			if err := store.CreateSchema(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "schema created")
			return nil
		})
	},
}

var schemaDropCmd = &cobra.Command{
	Use:   "drop",
	Short: "Drop the graph tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd.Context(), func(_ Config, store linkedit.Store) error {
			if err := store.DropSchema(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "schema dropped")
			return nil
		})
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a YAML config file")
	schemaCmd.AddCommand(schemaCreateCmd, schemaDropCmd)
	rootCmd.AddCommand(serveCmd, schemaCmd)
}

// withStore connects to PostgreSQL for the duration of fn.
func withStore(ctx context.Context, fn func(Config, linkedit.Store) error) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer pool.Close()

	return fn(cfg, postgres.New(pool))
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
