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

	"github.com/thejerf/suture/v4"
)

var _ suture.Service = (*MockService)(nil)

// waitFor polls cond until it reports true or the deadline passes. Tests
// use it instead of fixed sleeps so they stay stable on loaded CI hosts.
func waitFor(t *testing.T, d time.Duration, cond func() bool) bool {
	t.Helper()
	deadline := time.Now().Add(d)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(10 * time.Millisecond)
	}
	return cond()
}

// tightSpec returns supervisor settings with fast restarts so crash-loop
// tests finish quickly.
func tightSpec() suture.Spec {
	return suture.Spec{
		FailureThreshold: 10,
		FailureDecay:     1,
		FailureBackoff:   10 * time.Millisecond,
		Timeout:          time.Second,
	}
}

func TestMockServiceBlocksUntilCanceled(t *testing.T) {
	svc := NewMockService("healthy")

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if err := svc.Serve(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Serve() = %v, want context.DeadlineExceeded", err)
	}
	if got := svc.StartCount(); got != 1 {
		t.Errorf("StartCount() = %d, want 1", got)
	}
}

func TestMockServiceFailFirst(t *testing.T) {
	svc := NewMockService("flaky")
	svc.FailFirst(2)

	for i := 0; i < 2; i++ {
		if err := svc.Serve(context.Background()); !errors.Is(err, errSimulatedCrash) {
			t.Fatalf("Serve() call %d = %v, want simulated crash", i+1, err)
		}
	}

	// The third call settles into blocking behavior.
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if err := svc.Serve(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Serve() after failures = %v, want context.DeadlineExceeded", err)
	}
	if got := svc.StartCount(); got != 3 {
		t.Errorf("StartCount() = %d, want 3", got)
	}
}

func TestMockServiceExitWith(t *testing.T) {
	wantErr := errors.New("store corrupted")
	svc := NewMockService("broken")
	svc.ExitWith(wantErr)

	if err := svc.Serve(context.Background()); !errors.Is(err, wantErr) {
		t.Errorf("Serve() = %v, want %v", err, wantErr)
	}
}

func TestMockServiceString(t *testing.T) {
	if got := NewMockService("refresh-service").String(); got != "refresh-service" {
		t.Errorf("String() = %q, want %q", got, "refresh-service")
	}
}

// The tree relies on suture restarting crashed services within a layer.
func TestSupervisorRestartsCrashedService(t *testing.T) {
	svc := NewMockService("crasher")
	svc.FailFirst(2)

	sup := suture.New("restart", tightSpec())
	sup.Add(svc)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	errCh := sup.ServeBackground(ctx)

	if !waitFor(t, time.Second, func() bool { return svc.StartCount() >= 3 }) {
		t.Errorf("StartCount() = %d, want >= 3 (two crashes plus recovery)", svc.StartCount())
	}

	cancel()
	select {
	case <-errCh:
	case <-time.After(2 * time.Second):
		t.Error("supervisor did not stop after cancel")
	}
}

// The tree relies on ErrDoNotRestart permanently retiring a service
// without bringing down its layer.
func TestSupervisorHonorsDoNotRestart(t *testing.T) {
	oneShot := NewMockService("one-shot")
	oneShot.ExitWith(suture.ErrDoNotRestart)
	steady := NewMockService("steady")

	sup := suture.New("retire", tightSpec())
	sup.Add(oneShot)
	sup.Add(steady)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	errCh := sup.ServeBackground(ctx)

	waitFor(t, 500*time.Millisecond, func() bool {
		return oneShot.StartCount() >= 1 && steady.StartCount() >= 1
	})
	// Give the supervisor a window in which a restart would have happened.
	time.Sleep(100 * time.Millisecond)

	if got := oneShot.StartCount(); got != 1 {
		t.Errorf("retired service StartCount() = %d, want exactly 1", got)
	}
	if got := steady.StartCount(); got != 1 {
		t.Errorf("sibling StartCount() = %d, want 1", got)
	}

	cancel()
	<-errCh
}

// The tree relies on ErrTerminateSupervisorTree unwinding Serve so main
// can exit when a service declares the process unrecoverable.
func TestSupervisorTreeTermination(t *testing.T) {
	svc := NewMockService("terminator")
	svc.ExitWith(suture.ErrTerminateSupervisorTree)

	sup := suture.New("terminate", tightSpec())
	sup.Add(svc)

	done := make(chan error, 1)
	go func() {
		done <- sup.Serve(context.Background())
	}()

	select {
	case err := <-done:
		if !errors.Is(err, suture.ErrTerminateSupervisorTree) {
			t.Errorf("Serve() = %v, want ErrTerminateSupervisorTree", err)
		}
	case <-time.After(2 * time.Second):
		t.Error("Serve did not return after tree termination")
	}
}
