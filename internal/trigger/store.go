// Curatarr - Media Library Statistics and Recommendations for Stash
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curatarr

package trigger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/tomtom215/curatarr/internal/config"
)

// stateKey is the BadgerDB key holding the persisted trigger state.
const stateKey = "trigger:state"

// State is the persisted outcome of the last completed refresh run.
type State struct {
	Fingerprints Fingerprints `json:"fingerprints"`
	LastRun      time.Time    `json:"last_run"`
}

// Store persists trigger state in BadgerDB, surviving restarts so an
// unchanged library is not recomputed on every boot.
type Store struct {
	db *badger.DB
}

// Open opens (or creates) the Badger database described by cfg.
func Open(cfg *config.StoreConfig) (*Store, error) {
	opts := badger.DefaultOptions(cfg.Path)
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	}

	// Badger's own logger is noisy at startup; state transitions are logged
	// by the detector instead.
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open BadgerDB: %w", err)
	}

	return &Store{db: db}, nil
}

// LoadState retrieves the last saved trigger state.
// Returns nil, nil if no state has been saved.
func (s *Store) LoadState(ctx context.Context) (*State, error) {
	var state State

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(stateKey))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &state)
		})
	})

	if err != nil {
		return nil, fmt.Errorf("load trigger state: %w", err)
	}

	// Return nil if no state was found
	if state.LastRun.IsZero() {
		return nil, nil
	}

	return &state, nil
}

// SaveState persists the state of a completed run.
func (s *Store) SaveState(ctx context.Context, state *State) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal trigger state: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(stateKey), data)
	})
}

// Clear removes the persisted state. The next detection then behaves like a
// first run.
func (s *Store) Clear(ctx context.Context) error {
	return s.db.Update(func(txn *badger.Txn) error {
		err := txn.Delete([]byte(stateKey))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil // Already cleared
		}
		return err
	})
}

// Close flushes and closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
