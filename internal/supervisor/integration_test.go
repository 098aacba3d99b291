// Curatarr - Media Library Statistics and Recommendations for Stash
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curatarr

package supervisor

import (
	"context"
	"errors"
	"testing"
	"time"
)

// TestSupervisorTreeIntegration runs the tree the way main.go wires it:
// one service per layer, background serve, graceful stop.
func TestSupervisorTreeIntegration(t *testing.T) {
	tree, err := NewSupervisorTree(quietSlog(), TreeConfig{
		FailureThreshold: 5,
		FailureBackoff:   50 * time.Millisecond,
		ShutdownTimeout:  500 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("NewSupervisorTree() error: %v", err)
	}

	refreshSvc := NewMockService("refresh-service")
	apiSvc := NewMockService("api-server")
	tree.AddPipelineService(refreshSvc)
	tree.AddAPIService(apiSvc)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	errCh := tree.ServeBackground(ctx)

	if !waitFor(t, time.Second, func() bool {
		return refreshSvc.StartCount() >= 1 && apiSvc.StartCount() >= 1
	}) {
		t.Errorf("services not started: refresh=%d api=%d",
			refreshSvc.StartCount(), apiSvc.StartCount())
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

// TestSupervisorTreeCrashRecovery drives a service through a crash loop
// and verifies the tree both recovers it and still drains cleanly after.
func TestSupervisorTreeCrashRecovery(t *testing.T) {
	tree, err := NewSupervisorTree(quietSlog(), testTreeConfig())
	if err != nil {
		t.Fatalf("NewSupervisorTree() error: %v", err)
	}

	svc := NewMockService("crash-then-recover")
	svc.FailFirst(3)
	tree.AddPipelineService(svc)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	errCh := tree.ServeBackground(ctx)

	// Start 4 is the recovered, blocking run.
	if !waitFor(t, 2*time.Second, func() bool { return svc.StartCount() >= 4 }) {
		t.Errorf("StartCount() = %d, want >= 4 (three crashes plus recovery)", svc.StartCount())
	}

	cancel()
	select {
	case <-errCh:
	case <-time.After(2 * time.Second):
		t.Error("tree did not shut down after recovery")
	}
}

// Adding services from multiple goroutines before Serve must be safe;
// main.go does not do this today, but suture documents Add as
// goroutine-safe and the tree should not narrow that contract.
func TestSupervisorTreeConcurrentAdds(t *testing.T) {
	tree, err := NewSupervisorTree(quietSlog(), TreeConfig{ShutdownTimeout: 500 * time.Millisecond})
	if err != nil {
		t.Fatalf("NewSupervisorTree() error: %v", err)
	}

	done := make(chan struct{})
	for i := 0; i < 10; i++ {
		go func(idx int) {
			defer func() { done <- struct{}{} }()
			svc := NewMockService("concurrent-svc")
			if idx%2 == 0 {
				tree.AddPipelineService(svc)
			} else {
				tree.AddAPIService(svc)
			}
		}(i)
	}
	for i := 0; i < 10; i++ {
		<-done
	}

	// Start and stop the tree to flush out data races under -race.
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	select {
	case <-tree.ServeBackground(ctx):
	case <-time.After(2 * time.Second):
		t.Error("tree did not shut down")
	}
}

func TestSupervisorTreeEmpty(t *testing.T) {
	tree, err := NewSupervisorTree(quietSlog(), TreeConfig{ShutdownTimeout: 500 * time.Millisecond})
	if err != nil {
		t.Fatalf("NewSupervisorTree() error: %v", err)
	}

	// A tree with no services still starts its layers and stops cleanly.
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	select {
	case err := <-tree.ServeBackground(ctx):
		if err != nil && !errors.Is(err, context.DeadlineExceeded) {
			t.Errorf("Serve() = %v, want nil or deadline exceeded", err)
		}
	case <-time.After(2 * time.Second):
		t.Error("tree did not shut down")
	}
}
