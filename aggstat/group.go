// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package aggstat

import "sort"

// A Pair is one observation keyed by an arbitrary comparable value.
type Pair[K comparable, V any] struct {
	Key   K
	Value V
}

// GroupBy collects the values of pairs by key. Within a key, values
// appear in the order they appear in pairs.
func GroupBy[K comparable, V any](pairs []Pair[K, V]) map[K][]V {
	m := make(map[K][]V)
	for _, p := range pairs {
		m[p.Key] = append(m[p.Key], p.Value)
	}
	return m
}

// A Point is one observation of a solve time Y at an integer value X
// of an independent variable such as agent count, window size, or
// search radius.
type Point struct {
	X int
	Y float64
}

// Groups maps each independent variable value to its observations.
type Groups map[int][]float64

// GroupPoints groups pts by X. Within a group, values appear in the
// order they appear in pts.
func GroupPoints(pts []Point) Groups {
	g := make(Groups)
	for _, p := range pts {
		g[p.X] = append(g[p.X], p.Y)
	}
	return g
}

// Keys returns the keys of g in ascending order.
func (g Groups) Keys() []int {
	keys := make([]int, 0, len(g))
	for k := range g {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

// Len returns the total number of observations in g.
func (g Groups) Len() int {
	n := 0
	for _, vs := range g {
		n += len(vs)
	}
	return n
}

// DropBelow returns a copy of g without the keys less than min.
func (g Groups) DropBelow(min int) Groups {
	out := make(Groups, len(g))
	for k, vs := range g {
		if k >= min {
			out[k] = vs
		}
	}
	return out
}

// FillRange returns a copy of g with an empty group for every missing
// key between its smallest and largest keys, so that positional charts
// have no gaps.
func (g Groups) FillRange() Groups {
	out := make(Groups, len(g))
	keys := g.Keys()
	if len(keys) == 0 {
		return out
	}
	for k := keys[0]; k <= keys[len(keys)-1]; k++ {
		vs, ok := g[k]
		if !ok {
			vs = []float64{}
		}
		out[k] = vs
	}
	return out
}

// Counts returns the number of observations in each group, in
// ascending key order.
func (g Groups) Counts() (keys []int, counts []int) {
	keys = g.Keys()
	counts = make([]int, len(keys))
	for i, k := range keys {
		counts[i] = len(g[k])
	}
	return keys, counts
}
