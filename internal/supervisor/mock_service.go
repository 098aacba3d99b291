// Curatarr - Media Library Statistics and Recommendations for Stash
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curatarr

package supervisor

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
)

// errSimulatedCrash is what FailFirst-induced failures return.
var errSimulatedCrash = errors.New("simulated crash")

// MockService is a controllable suture.Service for exercising the tree in
// tests. Its default behavior is a healthy long-running service: Serve
// blocks until the context is canceled. Failure modes are configured
// before the tree starts.
type MockService struct {
	name   string
	starts atomic.Int32

	mu        sync.Mutex
	failsLeft int
	exitErr   error
}

// NewMockService returns a mock that blocks until canceled.
func NewMockService(name string) *MockService {
	return &MockService{name: name}
}

// FailFirst makes the next n Serve calls crash before the mock settles
// into its normal blocking behavior, simulating a service that recovers
// after a few restarts.
func (m *MockService) FailFirst(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failsLeft = n
}

// ExitWith makes every Serve call return err immediately. Pass
// suture.ErrDoNotRestart or suture.ErrTerminateSupervisorTree to exercise
// the supervisor's handling of those sentinels.
func (m *MockService) ExitWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.exitErr = err
}

// Serve implements suture.Service.
func (m *MockService) Serve(ctx context.Context) error {
	m.starts.Add(1)

	m.mu.Lock()
	if m.failsLeft > 0 {
		m.failsLeft--
		m.mu.Unlock()
		return errSimulatedCrash
	}
	err := m.exitErr
	m.mu.Unlock()

	if err != nil {
		return err
	}

	<-ctx.Done()
	return ctx.Err()
}

// StartCount reports how many times the supervisor started the service.
func (m *MockService) StartCount() int {
	return int(m.starts.Load())
}

// String implements fmt.Stringer; suture uses it in event messages.
func (m *MockService) String() string {
	return m.name
}
