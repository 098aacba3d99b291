// Curatarr - Media Library Statistics and Recommendations for Stash
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curatarr

package supervisor

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"
)

// quietSlog returns a logger that swallows suture's event stream so test
// output stays readable.
func quietSlog() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// testTreeConfig shrinks the restart backoff so crash-loop tests finish
// quickly.
func testTreeConfig() TreeConfig {
	return TreeConfig{
		FailureThreshold: 10,
		FailureBackoff:   10 * time.Millisecond,
		ShutdownTimeout:  time.Second,
	}
}

func TestNewSupervisorTree(t *testing.T) {
	tree, err := NewSupervisorTree(quietSlog(), DefaultTreeConfig())
	if err != nil {
		t.Fatalf("NewSupervisorTree() error: %v", err)
	}
	if tree.Root() == nil {
		t.Fatal("Root() = nil")
	}
}

func TestNewSupervisorTreeZeroConfig(t *testing.T) {
	tree, err := NewSupervisorTree(quietSlog(), TreeConfig{})
	if err != nil {
		t.Fatalf("NewSupervisorTree() error: %v", err)
	}
	if tree.config != DefaultTreeConfig() {
		t.Errorf("zero config normalized to %+v, want %+v", tree.config, DefaultTreeConfig())
	}
}

func TestDefaultTreeConfig(t *testing.T) {
	cfg := DefaultTreeConfig()

	if cfg.FailureThreshold != 5.0 {
		t.Errorf("FailureThreshold = %v, want 5", cfg.FailureThreshold)
	}
	if cfg.FailureDecay != 30.0 {
		t.Errorf("FailureDecay = %v, want 30", cfg.FailureDecay)
	}
	if cfg.FailureBackoff != 15*time.Second {
		t.Errorf("FailureBackoff = %v, want 15s", cfg.FailureBackoff)
	}
	if cfg.ShutdownTimeout != 10*time.Second {
		t.Errorf("ShutdownTimeout = %v, want 10s", cfg.ShutdownTimeout)
	}
}

func TestSupervisorTreeStartsBothLayers(t *testing.T) {
	tree, err := NewSupervisorTree(quietSlog(), testTreeConfig())
	if err != nil {
		t.Fatalf("NewSupervisorTree() error: %v", err)
	}

	pipelineSvc := NewMockService("pipeline-svc")
	apiSvc := NewMockService("api-svc")
	tree.AddPipelineService(pipelineSvc)
	tree.AddAPIService(apiSvc)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	errCh := tree.ServeBackground(ctx)

	if !waitFor(t, time.Second, func() bool {
		return pipelineSvc.StartCount() >= 1 && apiSvc.StartCount() >= 1
	}) {
		t.Errorf("layers not started: pipeline=%d api=%d",
			pipelineSvc.StartCount(), apiSvc.StartCount())
	}

	cancel()
	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			t.Errorf("Serve() = %v, want nil or context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Error("tree did not shut down")
	}
}

func TestSupervisorTreeFailureIsolation(t *testing.T) {
	tree, err := NewSupervisorTree(quietSlog(), testTreeConfig())
	if err != nil {
		t.Fatalf("NewSupervisorTree() error: %v", err)
	}

	failing := NewMockService("failing-pipeline")
	failing.FailFirst(2)
	stable := NewMockService("stable-api")

	tree.AddPipelineService(failing)
	tree.AddAPIService(stable)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go tree.Serve(ctx)

	if !waitFor(t, time.Second, func() bool { return failing.StartCount() >= 3 }) {
		t.Errorf("failing service starts = %d, want >= 3", failing.StartCount())
	}

	// The api layer must not notice the pipeline crash loop.
	if got := stable.StartCount(); got != 1 {
		t.Errorf("stable service starts = %d, want exactly 1", got)
	}
}
