// Curatarr - Media Library Statistics and Recommendations for Stash
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curatarr

// Package main is the entry point for the Curatarr server application.
//
// Curatarr is a self-hosted companion service for Stash that computes
// library statistics and recommendations. It periodically snapshots the
// Stash library over GraphQL, detects changes via fingerprints, recomputes
// statistics and two recommendation engines when anything changed, and
// serves the results over a REST API.
//
// # Application Architecture
//
// The server initializes components in the following order:
//
//  1. Configuration: Load settings from environment variables and config files (Koanf v2)
//  2. Trigger store: Open the BadgerDB fingerprint store for change detection
//  3. Stash client: GraphQL client with rate limiting and an optional circuit breaker
//  4. Pipeline components: statistics collector, recommendation engines, exporter, notifier
//  5. Refresh manager: coordinates fetch, detection, computation, export, and notification
//  6. Supervisor tree: pipeline layer (refresh scheduler) and API layer (HTTP server)
//  7. HTTP server: REST API with health probes and Prometheus metrics
//
// # Configuration
//
// Configuration is loaded via Koanf v2 with layered sources (highest priority wins):
//   - Environment variables (STASH_URL, REFRESH_INTERVAL, ...)
//   - Config file (config.yaml, or the path in CONFIG_PATH)
//   - Built-in defaults
//
// The only required setting is the Stash server URL:
//   - STASH_URL: Stash base URL (e.g. http://localhost:9999)
//   - STASH_API_KEY: API key when Stash authentication is enabled
//
// # Optional Sections
//
// Statistics and each recommendation engine can be disabled independently
// (STATS_ENABLED, RECOMMEND_PERFORMER_ENABLED, RECOMMEND_SCENE_ENABLED).
// Disabled sections are skipped by the pipeline and their endpoints answer
// 404. JSON/CSV exports and Discord notifications gate on their own flags.
//
// # Signal Handling
//
// The server handles graceful shutdown on SIGINT and SIGTERM:
//   - Stops the refresh scheduler (an in-flight run finishes or times out)
//   - Stops accepting new connections and drains in-flight requests (10s timeout)
//   - Closes the trigger store
//
// # Example Usage
//
// Minimal, against a local unauthenticated Stash:
//
//	export STASH_URL=http://localhost:9999
//	./curatarr
//
// With authentication and a Discord webhook:
//
//	export STASH_URL=http://stash:9999
//	export STASH_API_KEY=your-stash-api-key
//	export NOTIFY_DISCORD_ENABLED=true
//	export NOTIFY_DISCORD_WEBHOOK_URL=https://discord.com/api/webhooks/...
//	./curatarr
//
// Docker:
//
//	docker run -d \
//	  -e STASH_URL=http://stash:9999 \
//	  -v ./data:/app/data \
//	  -p 9998:9998 \
//	  ghcr.io/tomtom215/curatarr
//
// # Port 9998
//
// The default port 9998 sits directly below Stash's own default of 9999,
// keeping the pair adjacent on shared hosts.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/curatarr/internal/api"
	"github.com/tomtom215/curatarr/internal/config"
	"github.com/tomtom215/curatarr/internal/logging"
	"github.com/tomtom215/curatarr/internal/stash"
	"github.com/tomtom215/curatarr/internal/supervisor"
	"github.com/tomtom215/curatarr/internal/supervisor/services"
	"github.com/tomtom215/curatarr/internal/trigger"
)

// version is stamped at build time via -ldflags "-X main.version=v1.2.3".
var version = "dev"

func main() {
	// Load configuration first to get logging settings
	cfg, err := config.Load()
	if err != nil {
		// Use default logger for config errors (config not yet available)
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Initialize zerolog with configuration
	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().Str("version", version).Msg("Starting Curatarr with supervisor tree")
	logging.Info().
		Str("stash_url", cfg.Stash.URL).
		Str("store_path", cfg.Store.Path).
		Dur("refresh_interval", cfg.Refresh.Interval).
		Msg("Configuration loaded")

	// Open the Badger fingerprint store. It lives outside the supervisor
	// tree: opened once here, closed on exit.
	store, err := trigger.Open(&cfg.Store)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to open trigger store")
	}
	defer func() {
		if err := store.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing trigger store")
		}
	}()
	logging.Info().Msg("Trigger store opened")

	// Stash GraphQL client, wrapped in a circuit breaker unless disabled.
	// The breaker fails fast when Stash flaps instead of stalling runs.
	var client stash.API
	if cfg.Stash.BreakerEnabled {
		client = stash.NewCircuitBreakerClient(&cfg.Stash, logging.Logger())
	} else {
		client = stash.NewClient(&cfg.Stash, logging.Logger())
		logging.Info().Msg("Circuit breaker disabled (stash.breaker_enabled=false)")
	}
	if err := client.Ping(context.Background()); err != nil {
		logging.Warn().Err(err).Msg("Failed to connect to Stash (will retry on first refresh)")
	} else {
		logging.Info().Msg("Connected to Stash successfully")
	}

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Create structured logger for supervisor using our slog adapter
	// This bridges zerolog to slog for sutureslog compatibility
	slogLogger := logging.NewSlogLogger()

	// Create supervisor tree
	tree, err := supervisor.NewSupervisorTree(slogLogger, supervisor.TreeConfig{
		FailureThreshold: 5,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  10 * time.Second,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	// Build the refresh pipeline (no longer started here - supervisor will
	// start the scheduler)
	manager := initPipeline(cfg, client, store, logging.Logger())

	handler := api.NewHandler(manager, client, version, logging.Logger())

	middleware := api.NewChiMiddleware(buildMiddlewareConfig(cfg))
	router := api.NewRouter(handler, middleware)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	// === ADD SERVICES TO SUPERVISOR TREE ===

	// Pipeline layer: the refresh scheduler
	tree.AddPipelineService(services.NewRefreshService(manager, services.RefreshServiceConfig{
		RefreshOnStartup: cfg.Refresh.RunOnStartup,
		Interval:         cfg.Refresh.Interval,
	}, logging.Logger()))
	logging.Info().
		Dur("interval", cfg.Refresh.Interval).
		Bool("run_on_startup", cfg.Refresh.RunOnStartup).
		Msg("Refresh scheduler added to supervisor tree")

	// API layer services
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout, logging.Logger()))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	// === START SUPERVISOR TREE ===

	// Setup signal handling
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	// Wait for supervisor to finish (either from signal or error)
	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish...")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	// Wait for the error channel to close (supervisor finished)
	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	// Report any services that failed to stop within timeout
	unstopped, _ := tree.UnstoppedServiceReport()
	if len(unstopped) > 0 {
		logging.Warn().Int("count", len(unstopped)).Msg("Services failed to stop within timeout")
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
		}
	}

	logging.Info().Msg("Application stopped gracefully")
}

// buildMiddlewareConfig creates the Chi middleware configuration from app
// config, keeping the factory defaults for everything the config does not
// cover.
func buildMiddlewareConfig(cfg *config.Config) *api.ChiMiddlewareConfig {
	mwCfg := api.DefaultChiMiddlewareConfig()
	mwCfg.CORSAllowedOrigins = cfg.Server.CORSOrigins
	return mwCfg
}
