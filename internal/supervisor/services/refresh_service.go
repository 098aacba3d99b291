// Curatarr - Media Library Statistics and Recommendations for Stash
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curatarr

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// RefreshManager defines the interface for the refresh pipeline manager.
// This allows the service to work with the manager without a direct dependency.
type RefreshManager interface {
	// Refresh executes one pipeline run. When force is true the change
	// detector is bypassed and the snapshot is recomputed regardless.
	Refresh(ctx context.Context, force bool) error

	// ForceRequests exposes the queue of refreshes requested through the API.
	ForceRequests() <-chan struct{}
}

// RefreshServiceConfig holds configuration for the refresh scheduler.
type RefreshServiceConfig struct {
	// RefreshOnStartup triggers a pipeline run when the service starts.
	RefreshOnStartup bool

	// Interval is how often to run the scheduled refresh.
	Interval time.Duration
}

// RefreshService drives the refresh pipeline under Suture supervision.
// It owns the schedule: a run on startup, a ticker for periodic runs, and
// a queue of forced runs requested through the API. The manager itself
// applies the per-run timeout, so no extra deadline is layered here.
type RefreshService struct {
	manager RefreshManager
	config  RefreshServiceConfig
	logger  zerolog.Logger
	name    string
}

// NewRefreshService creates a new refresh scheduler service.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewRefreshService(manager RefreshManager, cfg RefreshServiceConfig, logger zerolog.Logger) *RefreshService {
	return &RefreshService{
		manager: manager,
		config:  cfg,
		logger:  logger.With().Str("service", "refresh").Logger(),
		name:    "refresh-service",
	}
}

// Serve implements the suture.Service interface.
// It manages the scheduling loop for the refresh pipeline.
func (s *RefreshService) Serve(ctx context.Context) error {
	s.logger.Info().
		Bool("refresh_on_startup", s.config.RefreshOnStartup).
		Dur("interval", s.config.Interval).
		Msg("refresh service starting")

	// Run on startup if configured. A restart with a warm fingerprint store
	// still computes here because the in-memory snapshot starts empty.
	if s.config.RefreshOnStartup {
		if err := s.manager.Refresh(ctx, false); err != nil {
			s.logger.Warn().Err(err).Msg("initial refresh failed (will retry on schedule)")
		}
	}

	// Set up the periodic schedule
	if s.config.Interval <= 0 {
		s.config.Interval = 6 * time.Hour
	}

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	forceCh := s.manager.ForceRequests()

	s.logger.Info().Msg("refresh service running")

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("refresh service shutting down")
			return ctx.Err()

		case <-ticker.C:
			s.logger.Debug().Msg("scheduled refresh triggered")
			if err := s.manager.Refresh(ctx, false); err != nil {
				s.logger.Warn().Err(err).Msg("scheduled refresh failed")
			}

		case <-forceCh:
			s.logger.Info().Msg("forced refresh requested")
			if err := s.manager.Refresh(ctx, true); err != nil {
				s.logger.Warn().Err(err).Msg("forced refresh failed")
			}
		}
	}
}

// String returns the service name for logging.
func (s *RefreshService) String() string {
	return s.name
}
