// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package series turns grouped solve times into display-ready series
// and renders them as charts.
//
// A Series holds one row per group, in ascending key order, transposed
// into parallel columns: the keys, and one column per value returned
// by a Stat. The ascending order is a contract; chart code relies on
// monotonic x values.
package series

import (
	"fmt"

	"github.com/mapfbench/mapfbench/aggstat"
)

// A Stat computes a fixed number of named statistics over a sample.
type Stat struct {
	// Name describes the statistic, e.g. "95% CI".
	Name string

	// Columns names each value returned by Func, in order.
	Columns []string

	// Func computes the statistics of s.
	Func func(s *aggstat.Sample) ([]float64, error)
}

// CI returns a Stat computing the trimmed envelope at pct percent,
// with columns "high", "mid" and "low".
func CI(pct float64) Stat {
	return Stat{
		Name:    fmt.Sprintf("%g%% CI", pct),
		Columns: []string{"high", "mid", "low"},
		Func: func(s *aggstat.Sample) ([]float64, error) {
			e, err := s.Envelope(pct)
			if err != nil {
				return nil, err
			}
			return []float64{e.High, e.Mid, e.Low}, nil
		},
	}
}

// Percentile returns a Stat computing the pct-th percentile and the
// minimum, with columns "high" and "low".
func Percentile(pct float64) Stat {
	return Stat{
		Name:    fmt.Sprintf("%gth percentile", pct),
		Columns: []string{"high", "low"},
		Func: func(s *aggstat.Sample) ([]float64, error) {
			b, err := s.Bounds(pct)
			if err != nil {
				return nil, err
			}
			return []float64{b.High, b.Low}, nil
		},
	}
}

// A Column is one named sequence of values in a Series.
type Column struct {
	Name   string
	Values []float64
}

// A Series is the result of applying a Stat to every group.
type Series struct {
	// Stat is the name of the Stat that produced the series.
	Stat string

	// Keys are the group keys, strictly increasing.
	Keys []int

	// Columns hold one value per key each.
	Columns []Column
}

// Column returns the values of the named column, or nil if there is
// no such column.
func (s *Series) Column(name string) []float64 {
	for _, c := range s.Columns {
		if c.Name == name {
			return c.Values
		}
	}
	return nil
}

// Len returns the number of rows in s.
func (s *Series) Len() int {
	return len(s.Keys)
}

// Build applies stat to each group of g in ascending key order.
// g is not modified. Every group must be non-empty.
func Build(g aggstat.Groups, stat Stat) (*Series, error) {
	keys := g.Keys()
	s := &Series{Stat: stat.Name, Keys: keys}
	s.Columns = make([]Column, len(stat.Columns))
	for i, name := range stat.Columns {
		s.Columns[i] = Column{Name: name, Values: make([]float64, 0, len(keys))}
	}
	for _, k := range keys {
		sample, err := aggstat.NewSample(g[k])
		if err != nil {
			return nil, fmt.Errorf("%s at %d: %w", stat.Name, k, err)
		}
		row, err := stat.Func(sample)
		if err != nil {
			return nil, fmt.Errorf("%s at %d: %w", stat.Name, k, err)
		}
		if len(row) != len(s.Columns) {
			panic(fmt.Sprintf("stat %s returned %d values for %d columns", stat.Name, len(row), len(s.Columns)))
		}
		for i, v := range row {
			s.Columns[i].Values = append(s.Columns[i].Values, v)
		}
	}
	return s, nil
}
