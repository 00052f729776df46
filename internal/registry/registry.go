// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved. This file is part of cc-backend.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package registry provides the process-wide symbol -> rollingstore.Store
// map. Entries live for the lifetime of the process: creation is idempotent
// and serialized by a single mutex, but storages are never evicted or
// destroyed (persistence/replication/eviction are explicit non-goals).
package registry

import (
	"sync"

	"github.com/tc360950/statwindow/pkg/rollingstore"
	"github.com/tc360950/statwindow/pkg/statmonoid"
)

// Registry maps symbol to its rolling statistics store. All storages it
// creates share the same maxSize and Statistic monoid.
type Registry struct {
	mu      sync.Mutex
	maxSize int
	stores  map[string]*rollingstore.Store[statmonoid.Statistic]
}

// New creates an empty registry. maxSize is the window capacity every
// storage it creates will have (MAX_LEN in spec terms).
func New(maxSize int) *Registry {
	return &Registry{
		maxSize: maxSize,
		stores:  make(map[string]*rollingstore.Store[statmonoid.Statistic]),
	}
}

// GetOrCreate returns the storage for symbol, creating and inserting one on
// first access. The critical section held while checking/inserting is O(1)
// plus a rare allocation; it is released before returning.
func (r *Registry) GetOrCreate(symbol string) (*rollingstore.Store[statmonoid.Statistic], error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if store, ok := r.stores[symbol]; ok {
		return store, nil
	}

	store, err := rollingstore.New(r.maxSize, statmonoid.StatisticMonoid{})
	if err != nil {
		return nil, err
	}
	r.stores[symbol] = store
	return store, nil
}

// Lookup returns the storage for symbol without creating one, and whether
// it exists.
func (r *Registry) Lookup(symbol string) (*rollingstore.Store[statmonoid.Statistic], bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	store, ok := r.stores[symbol]
	return store, ok
}

// Size returns the number of symbols currently tracked.
func (r *Registry) Size() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.stores)
}
