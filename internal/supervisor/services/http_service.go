// Curatarr - Media Library Statistics and Recommendations for Stash
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curatarr

package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// HTTPServer is the slice of *http.Server this service needs. Tests
// substitute a fake; production passes the real server.
type HTTPServer interface {
	ListenAndServe() error
	Shutdown(ctx context.Context) error
}

// HTTPServerService runs the API server under Suture supervision. It
// bridges ListenAndServe's blocking call into the context-aware Serve
// contract: the listener runs in a goroutine, and context cancellation
// triggers a graceful Shutdown bounded by the drain timeout.
type HTTPServerService struct {
	server       HTTPServer
	drainTimeout time.Duration
	logger       zerolog.Logger
	name         string
}

// NewHTTPServerService wraps an HTTP server for the supervision tree.
// drainTimeout bounds graceful shutdown; zero or negative falls back to
// 10 seconds.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewHTTPServerService(server HTTPServer, drainTimeout time.Duration, logger zerolog.Logger) *HTTPServerService {
	if drainTimeout <= 0 {
		drainTimeout = 10 * time.Second
	}
	return &HTTPServerService{
		server:       server,
		drainTimeout: drainTimeout,
		logger:       logger.With().Str("service", "api").Logger(),
		name:         "api-server",
	}
}

// Serve implements the suture.Service interface. It returns the listener
// error if the server dies on its own, or the context error after a
// graceful drain.
func (s *HTTPServerService) Serve(ctx context.Context) error {
	listenErr := make(chan error, 1)
	go func() {
		err := s.server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			listenErr <- err
		}
		close(listenErr)
	}()

	s.logger.Info().Msg("api server listening")

	select {
	case err, ok := <-listenErr:
		if ok && err != nil {
			return fmt.Errorf("api server failed: %w", err)
		}
		// ErrServerClosed without a shutdown from here means something
		// external closed the server; treat it as a clean exit.
		return nil

	case <-ctx.Done():
		return s.drain(ctx, listenErr)
	}
}

// drain shuts the server down with a fresh deadline (the Serve context is
// already canceled) and waits for the listener goroutine to finish.
func (s *HTTPServerService) drain(ctx context.Context, listenErr <-chan error) error {
	s.logger.Info().Dur("timeout", s.drainTimeout).Msg("api server draining")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.drainTimeout)
	defer cancel()

	if err := s.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("api server shutdown: %w", err)
	}
	<-listenErr
	return ctx.Err()
}

// String returns the service name for logging.
func (s *HTTPServerService) String() string {
	return s.name
}
