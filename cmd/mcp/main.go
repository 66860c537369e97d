package main

import (
	"context"
	"flag"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/neatc0der/bacnet/pkg/backend"
	"github.com/neatc0der/bacnet/pkg/bacnet/schema"
	"github.com/neatc0der/bacnet/pkg/db"
	"github.com/neatc0der/bacnet/pkg/engine"
	bacnetmcp "github.com/neatc0der/bacnet/pkg/mcp"
)

func main() {
	// Logging must go to stderr — stdout is the MCP transport
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	// Parse flags
	dbPath := flag.String("db", "", "Path to database file (default: ~/.config/bacnet-console/console.db)")
	ajaxURL := flag.String("backend", "", "Backend service endpoint (overrides the configured one)")
	flag.Parse()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Open database
	database, err := db.Open(*dbPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open database")
	}
	defer func() {
		if err := database.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close database")
		}
	}()

	log.Info().Str("path", database.Path()).Msg("Database opened")

	// Run migrations
	if err := database.Migrate(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to run database migrations")
	}

	// Bootstrap if needed (first run)
	needsBootstrap, err := database.NeedsBootstrap(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to check bootstrap status")
	}
	if needsBootstrap {
		log.Info().Msg("First run detected, bootstrapping database...")
		if err := database.Bootstrap(ctx); err != nil {
			log.Fatal().Err(err).Msg("Failed to bootstrap database")
		}
		log.Info().Msg("Database bootstrapped successfully")
	}

	// Load configuration
	cfg, err := database.ActiveConfig(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	endpoint := cfg.AjaxURL()
	if *ajaxURL != "" {
		endpoint = *ajaxURL
	}

	client, err := backend.NewClient(backend.Config{AjaxURL: endpoint})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create backend client")
	}

	// Metrics are collected but not exported over stdio
	sync := engine.New(client, nil)
	sync.SetRecorder(database.Writes())
	go sync.Run(ctx)

	if err := sync.SyncDevices(ctx); err != nil {
		log.Warn().Err(err).Msg("Initial device refresh failed")
	}

	validator := schema.NewValidator()

	// Create and start MCP server
	mcpServer := bacnetmcp.NewServer(sync, validator)

	log.Info().Msg("Starting MCP server on stdio")

	if err := mcpServer.ServeStdio(); err != nil {
		log.Fatal().Err(err).Msg("MCP server failed")
	}
}
