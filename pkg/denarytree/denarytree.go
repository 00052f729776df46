// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved. This file is part of cc-backend.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package denarytree provides a fixed-capacity, base-10 branching interval
// tree for sub-linear aggregation of a monoid statistic over a window of
// leaf indices.
//
// # Shape
//
// A complete denary (branching factor 10) tree of height
// h = ceil(log10(size)). Leaves number 10^h >= size; total node count is
// T = (10^(h+1) - 1) / 9. Nodes live in a single flat slice, root at
// position 0, the children of node i at positions 10i+1 .. 10i+10, and
// leaves occupying the last 10^h slots of the slice. Only the first `size`
// leaves are logically usable; writes past that are rejected.
//
// Branching on 10 means window sizes of exactly 10^k align with a single
// internal node and resolve in one merge; misaligned queries still touch
// only two root-to-leaf fringes of width <= 9 per level.
//
// # Absence
//
// A node slot that has never been written (or whose entire subtree has
// never been written) is "absent" rather than holding a sentinel value;
// absence is a tagged bit on the slot, never encoded inside the statistic
// itself.
//
// # Ordering
//
// Because a statistic's merge can be order-sensitive (e.g. "last value
// wins"), every merge here - both ancestor rebuilds on Add and result
// recombination on Calculate - walks children in ascending index order.
package denarytree

import (
	"errors"

	"github.com/tc360950/statwindow/pkg/statmonoid"
)

// ErrOutOfRange is returned by Add when start_index+len(values) exceeds the
// tree's logical capacity.
var ErrOutOfRange = errors.New("[DENARYTREE]> start_index + len(values) exceeds tree capacity")

type node[T any] struct {
	lo, hi  int
	stat    T
	present bool
}

// Tree is a fixed-capacity denary interval tree aggregating values of type T
// via the given statmonoid.Monoid[T]. Not safe for concurrent use.
type Tree[T any] struct {
	monoid      statmonoid.Monoid[T]
	nodes       []node[T]
	leavesStart int
	size        int
}

// New allocates a tree with room for `size` leaves (size >= 1), all slots
// initially absent.
func New[T any](size int, monoid statmonoid.Monoid[T]) (*Tree[T], error) {
	if size < 1 {
		return nil, errors.New("[DENARYTREE]> size must be >= 1")
	}

	h := heightFor(size)
	leaves := pow10(h)
	total := (pow10(h+1) - 1) / 9

	return &Tree[T]{
		monoid:      monoid,
		nodes:       make([]node[T], total),
		leavesStart: total - leaves,
		size:        size,
	}, nil
}

// Size returns the logical leaf capacity passed to New.
func (t *Tree[T]) Size() int {
	return t.size
}

// heightFor returns the smallest h such that 10^h >= size, computed by
// repeated multiplication rather than math.Log10 to avoid floating-point
// rounding landing on the wrong side of an exact power of ten.
func heightFor(size int) int {
	h := 0
	leaves := 1
	for leaves < size {
		h++
		leaves *= 10
	}
	return h
}

func pow10(n int) int {
	p := 1
	for range n {
		p *= 10
	}
	return p
}

// Add writes values[j] as the leaf at startIndex+j for each j, overwriting
// any prior value there, then repairs every ancestor whose child set
// changed. An empty values slice is a no-op: no write, no repair, no error.
//
// Precondition: startIndex + len(values) <= size, otherwise ErrOutOfRange
// and the tree is left unchanged.
func (t *Tree[T]) Add(values []float64, startIndex int) error {
	if len(values) == 0 {
		return nil
	}
	if startIndex < 0 || startIndex+len(values) > t.size {
		return ErrOutOfRange
	}

	for j, v := range values {
		leaf := startIndex + j
		t.nodes[t.leavesStart+leaf] = node[T]{
			lo:      leaf,
			hi:      leaf,
			stat:    t.monoid.Create(v),
			present: true,
		}
	}

	if t.leavesStart == 0 {
		// size == 1: the sole leaf slot IS the root; nothing to repair.
		return nil
	}

	firstParent := (t.leavesStart + startIndex - 1) / 10
	lastParent := (t.leavesStart + startIndex + len(values) - 2) / 10
	for {
		t.rebuildRange(firstParent, lastParent)
		if firstParent == 0 && lastParent == 0 {
			break
		}
		if firstParent != 0 {
			firstParent = (firstParent - 1) / 10
		}
		lastParent = (lastParent - 1) / 10
	}
	// The root is always rebuilt, even if the walk above already covered it.
	t.rebuildRange(0, 0)
	return nil
}

func (t *Tree[T]) rebuildRange(first, last int) {
	for i := first; i <= last; i++ {
		t.rebuildNode(i)
	}
}

// rebuildNode recomputes node i from its ten children, in ascending index
// order. A node is absent only when every one of its children is absent.
func (t *Tree[T]) rebuildNode(i int) {
	var stats []T
	lo, hi := 0, 0
	seen := false
	base := 10*i + 1
	for c := 0; c < 10; c++ {
		child := t.nodes[base+c]
		if !child.present {
			continue
		}
		if !seen {
			lo = child.lo
			seen = true
		}
		hi = child.hi
		stats = append(stats, child.stat)
	}

	if !seen {
		t.nodes[i] = node[T]{}
		return
	}

	t.nodes[i] = node[T]{lo: lo, hi: hi, stat: t.monoid.Merge(stats...), present: true}
}

// Calculate returns the merged statistic over the inclusive leaf range
// [lo, hi], or ok=false if every leaf in that range is absent (including
// when lo/hi fall outside [0, size)).
func (t *Tree[T]) Calculate(lo, hi int) (stat T, ok bool) {
	if !t.nodes[0].present {
		return stat, false
	}
	return t.query(0, lo, hi)
}

func (t *Tree[T]) query(idx, lo, hi int) (stat T, ok bool) {
	if idx >= len(t.nodes) || !t.nodes[idx].present {
		return stat, false
	}
	n := t.nodes[idx]
	if n.hi < lo || hi < n.lo {
		return stat, false
	}
	if lo <= n.lo && n.hi <= hi {
		return n.stat, true
	}

	var stats []T
	base := 10*idx + 1
	for c := 0; c < 10; c++ {
		if s, ok := t.query(base+c, lo, hi); ok {
			stats = append(stats, s)
		}
	}
	if len(stats) == 0 {
		return stat, false
	}
	return t.monoid.Merge(stats...), true
}
