package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/xavierca1/woo-crm/internal/config"
	"github.com/xavierca1/woo-crm/internal/infra/cache"
	"github.com/xavierca1/woo-crm/internal/infra/database"
	"github.com/xavierca1/woo-crm/internal/logger"
)

var (
	verbose bool
	timeout time.Duration
)

// rootCmd is the back-office companion of the API server.
var rootCmd = &cobra.Command{
	Use:           "crmctl",
	Short:         "Administer the WooCommerce lead CRM",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 5*time.Minute, "Operation timeout")

	cacheCmd.AddCommand(cacheFlushCmd)
	cacheCmd.AddCommand(cacheGetCmd)
	migrateCmd.AddCommand(migrateUpCmd)
	migrateCmd.AddCommand(migrateDownCmd)
	migrateCmd.AddCommand(migrateVersionCmd)
	formsCmd.AddCommand(formsListCmd)
	formsCmd.AddCommand(formsImportCmd)

	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(retentionCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(formsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// env bundles what every subcommand needs. Call close when done.
type env struct {
	cfg *config.Config
	log *zap.Logger
	db  *sql.DB
}

func (e *env) close() {
	if e.db != nil {
		e.db.Close()
	}
	e.log.Sync()
}

func newEnv(withDB bool) (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	level := cfg.LogLevel
	if verbose {
		level = "debug"
	}
	log, err := logger.New(level, "console", "crmctl")
	if err != nil {
		return nil, err
	}
	e := &env{cfg: cfg, log: log}
	if !withDB {
		return e, nil
	}
	if cfg.DatabaseURL == "" {
		return nil, errors.New("DATABASE_URL is not set")
	}
	e.db, err = database.NewDBConnection(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	return e, nil
}

func (e *env) cacheStore() (*cache.RedisStore, error) {
	if e.cfg.Cache.Addr == "" {
		return nil, errors.New("CACHE_ADDR is not set; the in-process cache lives inside the API server")
	}
	client, err := cache.NewRedisClient(e.cfg.Cache.Addr, e.cfg.Cache.Password, e.cfg.Cache.DB)
	if err != nil {
		return nil, err
	}
	return cache.NewRedisStore(client), nil
}

func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), timeout)
}
