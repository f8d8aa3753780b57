package main

import (
	"context"
	"fmt"
	"os"

	"github.com/2beens/fitprogress/internal/app"
	"github.com/2beens/fitprogress/internal/config"
	"github.com/2beens/fitprogress/internal/db"
	"github.com/2beens/fitprogress/internal/logging"
	"github.com/2beens/fitprogress/internal/telemetry/metrics"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

var (
	env        string
	configPath string
	logsPath   string
)

var rootCmd = &cobra.Command{
	Use:           "progressctl",
	Short:         "progressctl runs fitprogress operator tasks",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&env, "env", "development", "environment [prod | production | dev | development | ddev | dockerdev]")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "./config.toml", "path for the TOML config file")
	rootCmd.PersistentFlags().StringVar(&logsPath, "logs-path", "", "logs file path (empty for stdout)")
}

type runtime struct {
	cfg     *config.Config
	secrets *config.Secrets
	dbPool  *pgxpool.Pool
	core    *app.Core
}

func (rt *runtime) close() {
	rt.core.Evaluations.Wait()
	rt.dbPool.Close()
}

// setup loads config and secrets, sets up logging and builds the domain services.
func setup(ctx context.Context) (*runtime, error) {
	_ = godotenv.Load()

	cfg, err := config.Load(env, configPath)
	if err != nil {
		return nil, err
	}
	secrets, err := config.LoadSecrets()
	if err != nil {
		return nil, err
	}

	logging.Setup(logging.LoggerSetupParams{
		Component:        "progressctl",
		LogFileName:      logsPath,
		LogToStdout:      logsPath == "",
		LogLevel:         cfg.LogLevel,
		Environment:      cfg.Environment,
		SentryEnabled:    cfg.SentryEnabled,
		SentryDSN:        secrets.SentryDSN,
		SentryServerName: "progressctl",
	})

	dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		DBHost:     cfg.PostgresHost,
		DBPort:     cfg.PostgresPort,
		DBName:     cfg.PostgresDBName,
		DBUser:     cfg.PostgresUser,
		DBPassword: secrets.PostgresPassword,
	})
	if err != nil {
		return nil, fmt.Errorf("new db pool: %w", err)
	}

	metricsManager := metrics.NewManager("fitprogress", "ctl", prometheus.NewRegistry())
	return &runtime{
		cfg:     cfg,
		secrets: secrets,
		dbPool:  dbPool,
		core:    app.NewCore(dbPool, cfg, secrets.InferenceAPIKey, metricsManager),
	}, nil
}
