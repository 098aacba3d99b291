// Curatarr - Media Library Statistics and Recommendations for Stash
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curatarr

package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

// mockRefreshManager is a mock implementation for testing.
type mockRefreshManager struct {
	mu           sync.Mutex
	refreshCalls int
	forcedCalls  int
	refreshErr   error
	refreshDelay time.Duration
	forceCh      chan struct{}
}

func newMockRefreshManager() *mockRefreshManager {
	return &mockRefreshManager{forceCh: make(chan struct{}, 1)}
}

func (m *mockRefreshManager) Refresh(ctx context.Context, force bool) error {
	m.mu.Lock()
	m.refreshCalls++
	if force {
		m.forcedCalls++
	}
	m.mu.Unlock()

	if m.refreshDelay > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(m.refreshDelay):
		}
	}

	return m.refreshErr
}

func (m *mockRefreshManager) ForceRequests() <-chan struct{} {
	return m.forceCh
}

func (m *mockRefreshManager) getRefreshCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.refreshCalls
}

func (m *mockRefreshManager) getForcedCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.forcedCalls
}

func TestRefreshService_String(t *testing.T) {
	logger := zerolog.Nop()
	manager := newMockRefreshManager()
	cfg := RefreshServiceConfig{
		Interval: time.Hour,
	}

	service := NewRefreshService(manager, cfg, logger)

	if got := service.String(); got != "refresh-service" {
		t.Errorf("String() = %q, want %q", got, "refresh-service")
	}
}

func TestRefreshService_RefreshOnStartup(t *testing.T) {
	logger := zerolog.Nop()
	manager := newMockRefreshManager()
	cfg := RefreshServiceConfig{
		RefreshOnStartup: true,
		Interval:         time.Hour, // Long interval to avoid scheduled runs
	}

	service := NewRefreshService(manager, cfg, logger)

	// Run service briefly
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	_ = service.Serve(ctx)

	// Should have refreshed once on startup, without forcing
	if got := manager.getRefreshCalls(); got != 1 {
		t.Errorf("Refresh() called %d times, want 1", got)
	}
	if got := manager.getForcedCalls(); got != 0 {
		t.Errorf("forced Refresh() called %d times, want 0", got)
	}
}

func TestRefreshService_NoRefreshOnStartup(t *testing.T) {
	logger := zerolog.Nop()
	manager := newMockRefreshManager()
	cfg := RefreshServiceConfig{
		RefreshOnStartup: false,
		Interval:         time.Hour, // Long interval to avoid scheduled runs
	}

	service := NewRefreshService(manager, cfg, logger)

	// Run service briefly
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	_ = service.Serve(ctx)

	// Should not have refreshed
	if got := manager.getRefreshCalls(); got != 0 {
		t.Errorf("Refresh() called %d times, want 0", got)
	}
}

func TestRefreshService_ScheduledRefresh(t *testing.T) {
	logger := zerolog.Nop()
	manager := newMockRefreshManager()
	cfg := RefreshServiceConfig{
		RefreshOnStartup: false,
		Interval:         50 * time.Millisecond, // Short interval for testing
	}

	service := NewRefreshService(manager, cfg, logger)

	// Run service long enough for 2 scheduled runs
	ctx, cancel := context.WithTimeout(context.Background(), 130*time.Millisecond)
	defer cancel()

	_ = service.Serve(ctx)

	// Should have refreshed at least twice (at 50ms and 100ms)
	if got := manager.getRefreshCalls(); got < 2 {
		t.Errorf("Refresh() called %d times, want >= 2", got)
	}
}

func TestRefreshService_ForcedRefresh(t *testing.T) {
	logger := zerolog.Nop()
	manager := newMockRefreshManager()
	cfg := RefreshServiceConfig{
		RefreshOnStartup: false,
		Interval:         time.Hour, // Long interval so only the forced run fires
	}

	service := NewRefreshService(manager, cfg, logger)

	// Queue a forced run before the loop starts. The channel is buffered,
	// so the select picks it up on the first iteration.
	manager.forceCh <- struct{}{}

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	_ = service.Serve(ctx)

	if got := manager.getRefreshCalls(); got != 1 {
		t.Errorf("Refresh() called %d times, want 1", got)
	}
	if got := manager.getForcedCalls(); got != 1 {
		t.Errorf("forced Refresh() called %d times, want 1", got)
	}
}

func TestRefreshService_GracefulShutdown(t *testing.T) {
	logger := zerolog.Nop()
	manager := newMockRefreshManager()
	manager.refreshDelay = 50 * time.Millisecond
	cfg := RefreshServiceConfig{
		RefreshOnStartup: true,
		Interval:         time.Hour,
	}

	service := NewRefreshService(manager, cfg, logger)

	// Create a context that will be canceled
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- service.Serve(ctx)
	}()

	// Wait for the startup run to begin, then cancel
	time.Sleep(20 * time.Millisecond)
	cancel()

	// Should complete gracefully
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Serve() returned %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Serve() did not complete in time")
	}
}

func TestRefreshService_RefreshError(t *testing.T) {
	logger := zerolog.Nop()
	manager := newMockRefreshManager()
	manager.refreshErr = context.DeadlineExceeded
	cfg := RefreshServiceConfig{
		RefreshOnStartup: true,
		Interval:         time.Hour,
	}

	service := NewRefreshService(manager, cfg, logger)

	// Run service briefly - should continue despite the refresh error
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	_ = service.Serve(ctx)

	// Should have attempted the run despite the error
	if got := manager.getRefreshCalls(); got != 1 {
		t.Errorf("Refresh() called %d times, want 1", got)
	}
}
