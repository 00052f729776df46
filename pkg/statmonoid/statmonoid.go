// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved. This file is part of cc-backend.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package statmonoid defines the capability set that pkg/denarytree requires
// of the value it aggregates: lifting a single float64 into a summary, and
// merging summaries associatively (but not necessarily commutatively) in
// left-to-right order.
//
// Merge is order-sensitive on purpose: a window's "last" value depends on
// which argument came last, so callers (the tree's rebuild and query
// recombination code) must always merge in ascending leaf-index order.
package statmonoid

// Monoid is the contract a statistic type must satisfy to be stored in a
// denarytree.Tree. Implementations only ever see n >= 1 arguments to Merge;
// filtering out absent contributors is the caller's job.
type Monoid[T any] interface {
	// Create lifts a single value into a summary of one data point.
	Create(value float64) T

	// Merge combines one or more summaries into one, preserving the
	// left-to-right order of its arguments wherever that order matters
	// (e.g. a "last write wins" field).
	Merge(stats ...T) T
}

// Statistic is the full summary spec.md asks for: min, max, last, sum,
// count and sum-of-squares over a run of values.
//
// Invariants: Count >= 1, Min <= Last <= Max, Min <= Sum/Count <= Max,
// SumSquares >= Sum*Sum/Count (up to floating-point error).
type Statistic struct {
	Min        float64
	Max        float64
	Last       float64
	Sum        float64
	Count      uint64
	SumSquares float64
}

// StatisticMonoid implements Monoid[Statistic].
type StatisticMonoid struct{}

func (StatisticMonoid) Create(value float64) Statistic {
	return Statistic{
		Min:        value,
		Max:        value,
		Last:       value,
		Sum:        value,
		Count:      1,
		SumSquares: value * value,
	}
}

// Merge combines statistics min/max pointwise and sum/count/sum_squares
// additively; Last is taken from the final argument, so argument order
// must match temporal order.
func (StatisticMonoid) Merge(stats ...Statistic) Statistic {
	out := stats[0]
	for _, s := range stats[1:] {
		if s.Min < out.Min {
			out.Min = s.Min
		}
		if s.Max > out.Max {
			out.Max = s.Max
		}
		out.Sum += s.Sum
		out.Count += s.Count
		out.SumSquares += s.SumSquares
		out.Last = s.Last
	}
	return out
}

// Avg returns the arithmetic mean. Count is always >= 1 for any Statistic
// that exists (absence is represented by the caller never constructing one).
func (s Statistic) Avg() float64 {
	return s.Sum / float64(s.Count)
}

// Var returns the population variance E[X^2] - E[X]^2. This is the formula
// the source system has always reported; it is numerically unstable for
// near-constant series and is kept as-is for compatibility rather than
// replaced with a Welford-style running variance.
func (s Statistic) Var() float64 {
	avg := s.Avg()
	return s.SumSquares/float64(s.Count) - avg*avg
}
