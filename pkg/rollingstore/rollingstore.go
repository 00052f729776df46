// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved. This file is part of cc-backend.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package rollingstore wraps a denarytree.Tree with a circular-buffer
// cursor so that callers can think in terms of "the last N values" and
// "the most recent last_n of them" instead of leaf indices.
package rollingstore

import (
	"github.com/tc360950/statwindow/pkg/denarytree"
	"github.com/tc360950/statwindow/pkg/statmonoid"
)

// Store is the rolling window of the most recent MaxSize values for a
// single series. Not safe for concurrent use: a single writer/reader is
// assumed, matching the tree it wraps.
type Store[T any] struct {
	maxSize int
	tree    *denarytree.Tree[T]
	monoid  statmonoid.Monoid[T]
	index   int // position of the next value to be written, mod maxSize
}

// New builds a Store with room for the most recent maxSize values.
func New[T any](maxSize int, monoid statmonoid.Monoid[T]) (*Store[T], error) {
	tree, err := denarytree.New(maxSize, monoid)
	if err != nil {
		return nil, err
	}
	return &Store[T]{maxSize: maxSize, tree: tree, monoid: monoid}, nil
}

// Add appends values in order, overwriting the oldest entries once the
// window has filled. An empty slice is a no-op. If values is longer than
// maxSize, only the trailing maxSize of them are written, in order, at the
// positions they would have reached; the earlier elements of the batch are
// skipped.
func (s *Store[T]) Add(values []float64) error {
	if len(values) == 0 {
		return nil
	}

	n := len(values)
	next := (s.index + n) % s.maxSize
	idx := s.index
	if n > s.maxSize {
		values = values[n-s.maxSize:]
		idx = next
	}
	if idx+len(values) <= s.maxSize {
		if err := s.tree.Add(values, idx); err != nil {
			return err
		}
	} else {
		split := s.maxSize - idx
		if err := s.tree.Add(values[:split], idx); err != nil {
			return err
		}
		if err := s.tree.Add(values[split:], 0); err != nil {
			return err
		}
	}

	s.index = next
	return nil
}

// Get returns the merged statistic over the most recent lastN values
// (1 <= lastN <= maxSize), or ok=false if no values have ever been written
// to any of those positions. When fewer than lastN values have ever been
// written in total, Get returns the stat of however many are present
// rather than absent.
func (s *Store[T]) Get(lastN int) (stat T, ok bool) {
	end := mod(s.index-1, s.maxSize)

	var stats []T
	if end-lastN+1 >= 0 {
		if st, present := s.tree.Calculate(end-lastN+1, end); present {
			stats = append(stats, st)
		}
	} else {
		// Wraps backward past index 0: query the older segment first, then
		// the newer one, so the merge observes them in temporal order (the
		// "last" field depends on it).
		olderLo := s.maxSize - (lastN - end - 1)
		if st, present := s.tree.Calculate(olderLo, s.maxSize-1); present {
			stats = append(stats, st)
		}
		if st, present := s.tree.Calculate(0, end); present {
			stats = append(stats, st)
		}
	}

	if len(stats) == 0 {
		return stat, false
	}
	return s.monoid.Merge(stats...), true
}

func mod(a, b int) int {
	m := a % b
	if m < 0 {
		m += b
	}
	return m
}
