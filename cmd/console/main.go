package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/neatc0der/bacnet/pkg/api"
	"github.com/neatc0der/bacnet/pkg/backend"
	"github.com/neatc0der/bacnet/pkg/bacnet/schema"
	"github.com/neatc0der/bacnet/pkg/db"
	"github.com/neatc0der/bacnet/pkg/engine"
	"github.com/neatc0der/bacnet/pkg/view"

	_ "github.com/neatc0der/bacnet/docs"
)

// @title           BACnet Console API
// @version         1.0
// @description     REST API for browsing and writing BACnet device properties

// @host      localhost:8080
// @BasePath  /api/v1
// @schemes   http https

func main() {
	// Configure logging
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	// Parse flags
	dbPath := flag.String("db", "", "Path to database file (default: ~/.config/bacnet-console/console.db)")
	ajaxURL := flag.String("backend", "", "Backend service endpoint (overrides the configured one)")
	iconBase := flag.String("icons", "", "URL prefix for capability icons (overrides the configured one)")
	listen := flag.String("listen", "", "Listen address (overrides the configured one)")
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
	icons := cfg.IconBase()
	if *iconBase != "" {
		icons = *iconBase
	}
	addr := cfg.ListenAddress()
	if *listen != "" {
		addr = *listen
	}

	log.Info().
		Str("profile", cfg.Profile.Name).
		Str("backend", endpoint).
		Str("listen", addr).
		Msg("Configuration loaded")

	// Backend client
	client, err := backend.NewClient(backend.Config{AjaxURL: endpoint})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create backend client")
	}

	// Synchronization engine
	registry := prometheus.NewRegistry()
	sync := engine.New(client, registry)
	sync.SetRecorder(database.Writes())
	go sync.Run(ctx)

	// Initial device refresh; the periodic refresh retries on failure
	if err := sync.SyncDevices(ctx); err != nil {
		log.Warn().Err(err).Msg("Initial device refresh failed")
	}

	renderer := view.NewRenderer(icons)
	validator := schema.NewValidator()

	// Create and start console router
	router := api.NewRouter(sync, renderer, validator, registry)

	// Handle shutdown gracefully
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Info().Msg("Shutting down...")
		cancel()
		if err := database.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close database")
		}
		os.Exit(0)
	}()

	log.Info().Str("address", addr).Msg("Starting console server")

	if err := router.Run(addr); err != nil {
		log.Fatal().Err(err).Msg("Server failed")
	}
}
