// Curatarr - Media Library Statistics and Recommendations for Stash
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curatarr

package main

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/tomtom215/curatarr/internal/config"
	"github.com/tomtom215/curatarr/internal/models"
	"github.com/tomtom215/curatarr/internal/recommend"
	"github.com/tomtom215/curatarr/internal/refresh"
	"github.com/tomtom215/curatarr/internal/stats"
	"github.com/tomtom215/curatarr/internal/trigger"
)

type stubStashAPI struct{}

func (stubStashAPI) Ping(context.Context) error { return nil }

func (stubStashAPI) GetPerformers(context.Context) ([]*models.Performer, error) { return nil, nil }

func (stubStashAPI) GetScenes(context.Context) ([]*models.Scene, error) { return nil, nil }

func (stubStashAPI) GetTags(context.Context) ([]*models.Tag, error) { return nil, nil }

// loadTestConfig loads the built-in defaults. Only the Stash URL is
// required, so setting it yields the full default tree.
func loadTestConfig(t *testing.T) *config.Config {
	t.Helper()

	t.Setenv("STASH_URL", "http://stash.local:9999")
	t.Setenv("CONFIG_PATH", "")
	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("config.Load() error = %v", err)
	}
	return cfg
}

func openTestStore(t *testing.T) *trigger.Store {
	t.Helper()

	store, err := trigger.Open(&config.StoreConfig{InMemory: true})
	if err != nil {
		t.Fatalf("trigger.Open() error = %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("store.Close() error = %v", err)
		}
	})
	return store
}

// The bridge functions must track the engine defaults: the config package
// documents the same calibrated values the engines default to, so bridging
// an untouched config yields exactly the engine default structs. A mismatch
// means a field was added on one side without the other.
func TestConfigBridgesMatchEngineDefaults(t *testing.T) {
	cfg := loadTestConfig(t)

	if got, want := buildStatsConfig(&cfg.Stats), stats.DefaultConfig(); got != want {
		t.Errorf("buildStatsConfig(defaults) = %+v, want %+v", got, want)
	}
	if got, want := buildPerformerConfig(&cfg.Recommend.Performer), recommend.DefaultPerformerConfig(); got != want {
		t.Errorf("buildPerformerConfig(defaults) = %+v, want %+v", got, want)
	}
	if got, want := buildSceneConfig(&cfg.Recommend.Scene), recommend.DefaultSceneConfig(); got != want {
		t.Errorf("buildSceneConfig(defaults) = %+v, want %+v", got, want)
	}
}

func TestInitPipelineAllSectionsEnabled(t *testing.T) {
	cfg := loadTestConfig(t)
	store := openTestStore(t)

	manager := initPipeline(cfg, stubStashAPI{}, store, zerolog.Nop())

	if !manager.StatsEnabled() {
		t.Error("StatsEnabled() = false with stats.enabled=true")
	}
	// Enabled but not yet computed: the accessors report the empty cache,
	// not a disabled section.
	if _, err := manager.PerformerRecommendations(recommend.Overrides{}); !errors.Is(err, refresh.ErrNoSnapshot) {
		t.Errorf("PerformerRecommendations() error = %v, want ErrNoSnapshot", err)
	}
	if _, err := manager.SceneRecommendations(recommend.Overrides{}); !errors.Is(err, refresh.ErrNoSnapshot) {
		t.Errorf("SceneRecommendations() error = %v, want ErrNoSnapshot", err)
	}
}

func TestInitPipelineDisabledSections(t *testing.T) {
	cfg := loadTestConfig(t)
	cfg.Stats.Enabled = false
	cfg.Recommend.Performer.Enabled = false
	cfg.Recommend.Scene.Enabled = false
	store := openTestStore(t)

	manager := initPipeline(cfg, stubStashAPI{}, store, zerolog.Nop())

	if manager.StatsEnabled() {
		t.Error("StatsEnabled() = true with stats.enabled=false")
	}
	if _, err := manager.PerformerRecommendations(recommend.Overrides{}); !errors.Is(err, refresh.ErrDisabled) {
		t.Errorf("PerformerRecommendations() error = %v, want ErrDisabled", err)
	}
	if _, err := manager.SceneRecommendations(recommend.Overrides{}); !errors.Is(err, refresh.ErrDisabled) {
		t.Errorf("SceneRecommendations() error = %v, want ErrDisabled", err)
	}
}

func TestBuildMiddlewareConfig(t *testing.T) {
	cfg := loadTestConfig(t)
	cfg.Server.CORSOrigins = []string{"https://stash.example.com"}

	mwCfg := buildMiddlewareConfig(cfg)

	if len(mwCfg.CORSAllowedOrigins) != 1 || mwCfg.CORSAllowedOrigins[0] != "https://stash.example.com" {
		t.Errorf("CORSAllowedOrigins = %v, want configured origins", mwCfg.CORSAllowedOrigins)
	}
	// Everything else keeps the factory defaults.
	if mwCfg.RateLimitRequests != 100 {
		t.Errorf("RateLimitRequests = %d, want default 100", mwCfg.RateLimitRequests)
	}
}
