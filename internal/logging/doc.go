// Curatarr - Media Library Statistics and Recommendations for Stash
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curatarr

// Package logging provides centralized zerolog-based structured logging for Curatarr.
//
// This package implements a unified logging layer using zerolog, providing
// zero-allocation structured JSON logging for production and human-readable
// console output for development. Every component logs through this package
// so output format and level are controlled in one place.
//
// # Overview
//
// The package provides:
//   - Zero-allocation structured logging via zerolog
//   - JSON output format for production (machine-parseable)
//   - Console output format for development (human-readable)
//   - Context-aware logging with request and run ID propagation
//   - slog adapter for Suture v4 integration
//   - Sanitization for request-derived values (log injection protection)
//
// # Quick Start
//
//	import "github.com/tomtom215/curatarr/internal/logging"
//
//	// Initialize at application startup
//	logging.Init(logging.Config{
//	    Level:  "info",
//	    Format: "json",
//	    Caller: false,
//	})
//
//	// Log messages with structured fields
//	logging.Info().Str("component", "refresh").Msg("Refresh complete")
//	logging.Error().Err(err).Int("attempt", 3).Msg("Stash query failed")
//
//	// Context-aware logging
//	logging.Ctx(ctx).Info().Msg("Processing request")
//
// # Configuration
//
// The logger is configured from the application configuration, which maps
// these environment variables through the config layer:
//
//	LOG_LEVEL   - Minimum log level: trace, debug, info, warn, error (default: info)
//	LOG_FORMAT  - Output format: json, console (default: json)
//	LOG_CALLER  - Include caller file:line: true, false (default: false)
//
// Programmatic Configuration:
//
//	logging.Init(logging.Config{
//	    Level:     "debug",    // trace, debug, info, warn, error, fatal
//	    Format:    "console",  // json or console
//	    Caller:    true,       // Include caller info
//	    Timestamp: true,       // Include timestamps
//	    Output:    os.Stderr,  // Output writer
//	})
//
// # Structured Logging Best Practices
//
// Always terminate log chains with .Msg() or .Send():
//
//	logging.Info().Str("key", "value").Msg("message")  // Correct
//	logging.Info().Str("key", "value")                 // WRONG - log not emitted
//
// Use structured fields instead of string formatting:
//
//	// Good - structured, searchable, efficient
//	logging.Info().
//	    Int("performers", count).
//	    Dur("elapsed", duration).
//	    Msg("Library fetched")
//
//	// Avoid - unstructured, harder to parse
//	logging.Info().Msgf("Fetched %d performers in %v", count, duration)
//
// # Component Loggers
//
// Create component-specific loggers with default fields:
//
//	refreshLogger := logging.WithComponent("refresh")
//	refreshLogger.Info().Msg("Starting refresh")
//	refreshLogger.Error().Err(err).Msg("Refresh failed")
//
// # Correlation IDs
//
// HTTP requests carry a request ID, refresh pipeline runs carry a run ID.
// Both propagate through context so every log line of one request or one
// run can be grouped:
//
//	ctx = logging.ContextWithRunID(ctx, logging.GenerateRunID())
//	logging.Ctx(ctx).Info().Msg("Pipeline started")
//
// # Sanitization
//
// Values copied from query strings or other request input must pass through
// SanitizeLogValue before logging, which escapes control characters and
// truncates overlong input:
//
//	logger.Warn().Str("value", logging.SanitizeLogValue(raw)).Msg("Bad parameter")
//
// # slog Adapter
//
// The package provides an slog adapter for libraries that require slog.Logger:
//
//	slogLogger := logging.NewSlogLogger()
//	// Use slogLogger with Suture or other slog-compatible libraries
//
// # Output Formats
//
// JSON Format (Production):
//
//	{"level":"info","time":"2026-01-03T10:30:00Z","message":"Server starting","port":9998}
//
// Console Format (Development):
//
//	10:30:00 INF Server starting port=9998
//
// # Thread Safety
//
// All exported functions are safe for concurrent use. The global logger
// is protected by sync.RWMutex for configuration changes.
//
// # Testing
//
// Create test loggers that capture output:
//
//	var buf bytes.Buffer
//	logger := logging.NewTestLogger(&buf)
//	logger.Info().Msg("test message")
//	output := buf.String()
//
// # See Also
//
//   - github.com/rs/zerolog: Underlying logging library
//   - internal/api: Request ID middleware feeding the logging context
package logging
