// Package main runs the progress MCP server over stdio (for local assistant use).
// The same MCP server is also mounted on the main service at /mcp over HTTP.
package main

import (
	"context"
	"flag"
	"os"

	"github.com/2beens/fitprogress/internal/app"
	"github.com/2beens/fitprogress/internal/config"
	"github.com/2beens/fitprogress/internal/db"
	"github.com/2beens/fitprogress/internal/logging"
	progressmcp "github.com/2beens/fitprogress/internal/progress/mcp"
	"github.com/2beens/fitprogress/internal/telemetry/metrics"

	"github.com/joho/godotenv"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
)

func main() {
	env := flag.String("env", "development", "environment [prod | production | dev | development | ddev | dockerdev]")
	configPath := flag.String("config", "./config.toml", "path to TOML config file")
	flag.Parse()

	// stdout belongs to the MCP transport, so no chatter when .env is missing
	_ = godotenv.Load()

	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	secrets, err := config.LoadSecrets()
	if err != nil {
		log.Fatalf("load secrets: %v", err)
	}

	logging.Setup(logging.LoggerSetupParams{
		Component:   "progress-mcp",
		LogLevel:    cfg.LogLevel,
		Console:     os.Stderr,
		Environment: cfg.Environment,
	})

	ctx := context.Background()
	dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		DBHost:         cfg.PostgresHost,
		DBPort:         cfg.PostgresPort,
		DBName:         cfg.PostgresDBName,
		DBUser:         cfg.PostgresUser,
		DBPassword:     secrets.PostgresPassword,
		TracingEnabled: false,
	})
	if err != nil {
		log.Fatalf("db pool: %v", err)
	}
	defer dbPool.Close()

	// metrics are not scraped here
	core := app.NewCore(dbPool, cfg, secrets.InferenceAPIKey, metrics.NewManager("fitprogress", "mcp", prometheus.NewRegistry()))
	server := progressmcp.NewServer(core.Evaluations, core.Plans)

	if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil {
		log.Fatal(err)
	}
}
