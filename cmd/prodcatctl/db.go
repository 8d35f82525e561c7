package main

import (
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lzjever/prodcat/internal/audit"
	"github.com/lzjever/prodcat/internal/enrich"
	"github.com/lzjever/prodcat/internal/maintenance"
	"github.com/lzjever/prodcat/internal/observability"
	"github.com/lzjever/prodcat/internal/store"
)

// dbEnv is what every db subcommand needs, built once in PersistentPreRunE.
type dbEnv struct {
	cfg  maintenance.Config
	log  *zap.Logger
	pool *pgxpool.Pool
	rec  *audit.Recorder
}

var env dbEnv

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Database maintenance tasks",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := maintenance.LoadEnvFile(envFile)
		if err != nil {
			return err
		}
		cfg, err := maintenance.LoadConfig()
		if err != nil {
			return err
		}
		log, err := observability.NewLogger(cfg.LogLevel, "")
		if err != nil {
			return fmt.Errorf("logger: %w", err)
		}
		if loaded {
			log.Debug("loaded env file", zap.String("path", envFile))
		} else {
			log.Info("env file not found, using process environment", zap.String("path", envFile))
		}
		pool, err := store.NewPool(cmd.Context(), cfg.DBDSN, 4)
		if err != nil {
			return fmt.Errorf("connect db: %w", err)
		}
		env = dbEnv{
			cfg:  cfg,
			log:  log,
			pool: pool,
			rec: audit.NewRecorder(
				audit.NewDBSink(store.New(pool)),
				audit.NewFileSink(cfg.AuditLogPath),
				log.Named("audit"),
				audit.WithDefaultActor(maintenance.SystemActor),
			),
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if env.pool != nil {
			env.pool.Close()
		}
		if env.log != nil {
			env.log.Sync()
		}
	},
}

var dbMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the catalog schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := store.Migrate(cmd.Context(), env.pool); err != nil {
			return err
		}
		fmt.Println("Schema is up to date.")
		return nil
	},
}

var dbSeedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load site assets, the default product list and the admin account",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if err := store.Migrate(ctx, env.pool); err != nil {
			return err
		}
		fx, err := maintenance.DefaultFixture()
		if err != nil {
			return err
		}
		res, err := maintenance.Seed(ctx, env.pool, env.rec, fx, env.cfg.SeedAdminPassword)
		if err != nil {
			return err
		}
		printResult(res)
		return nil
	},
}

var dbBackupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Write every table to a timestamped JSON file",
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := maintenance.RunBackup(cmd.Context(), store.New(env.pool), env.cfg.BackupDir, time.Now(), env.log)
		if err != nil {
			return err
		}
		printResult(res)
		return nil
	},
}

var dbExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the static content file from the database",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := maintenance.ExportContent(cmd.Context(), store.New(env.pool), env.cfg.ExportPath, time.Now())
		if err != nil {
			return err
		}
		fmt.Printf("Exported %d products and %d assets to %s\n", len(c.Products), len(c.Assets), env.cfg.ExportPath)
		return nil
	},
}

var dbEnrichCmd = &cobra.Command{
	Use:   "enrich",
	Short: "Fill short product descriptions from each product's web page",
	RunE: func(cmd *cobra.Command, args []string) error {
		fetcher := enrich.NewFetcher(env.cfg.EnrichTimeout, env.cfg.EnrichUserAgent)
		e := maintenance.NewEnricher(store.New(env.pool), fetcher, env.rec, env.cfg.EnrichInterval, env.log)
		res, err := e.Run(cmd.Context())
		printResult(res)
		return err
	},
}

var dbProductsCmd = &cobra.Command{
	Use:   "products",
	Short: "Inspect products directly in the database",
}

var dbProductsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every product, including hidden ones",
	RunE: func(cmd *cobra.Command, args []string) error {
		rows, err := maintenance.ListProducts(cmd.Context(), store.New(env.pool))
		if err != nil {
			return err
		}
		printResult(rows)
		return nil
	},
}

func init() {
	dbCmd.PersistentFlags().StringVar(&envFile, "env-file", maintenance.DefaultEnvFile, "Env file applied before reading PRODCAT_* variables")
	dbProductsCmd.AddCommand(dbProductsListCmd)
	dbCmd.AddCommand(dbMigrateCmd, dbSeedCmd, dbBackupCmd, dbExportCmd, dbEnrichCmd, dbProductsCmd)
	rootCmd.AddCommand(dbCmd)
}
