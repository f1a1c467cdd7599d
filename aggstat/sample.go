// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package aggstat computes order statistics over groups of benchmark
// solve times.
//
// The statistics here are descriptive. In particular, the "confidence
// interval" computed by ConfidenceInterval is a trimmed envelope
// around the median, selected by index arithmetic on the sorted
// sample; it is not an inferential confidence interval. The exact
// index arithmetic, including truncation toward zero, is part of the
// contract so that series computed here match previously published
// charts.
//
// No function in this package modifies the slices it is given.
package aggstat

import (
	"fmt"
	"sort"

	"github.com/aclements/go-moremath/stats"
)

// A Sample is a sorted copy of a group's observations.
type Sample struct {
	// Values are the observations, in ascending order.
	Values []float64
}

// NewSample constructs a Sample from a copy of values. It returns an
// *EmptyGroupError if values is empty.
func NewSample(values []float64) (*Sample, error) {
	if len(values) == 0 {
		return nil, &EmptyGroupError{}
	}
	// Sort a copy so callers can reuse their slices.
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	return &Sample{sorted}, nil
}

// at returns the value at index int(frac * (len-1)).
func (s *Sample) at(frac float64) float64 {
	n := len(s.Values) - 1
	return s.Values[int(frac*float64(n))]
}

// An Envelope is a symmetric trimmed envelope around the median.
type Envelope struct {
	High, Mid, Low float64
}

// Envelope returns the trimmed envelope holding the central pct
// percent of s. With n = len-1 and d = (1-pct/100)/2, the bounds are
// the values at indexes int((1-d)*n), int(0.5*n) and int(d*n).
func (s *Sample) Envelope(pct float64) (Envelope, error) {
	if err := checkPercentile(pct); err != nil {
		return Envelope{}, err
	}
	d := (1.0 - pct/100.0) / 2.0
	return Envelope{High: s.at(1.0 - d), Mid: s.at(0.5), Low: s.at(d)}, nil
}

// Bounds are a percentile and the minimum of a sample.
type Bounds struct {
	High, Low float64
}

// Bounds returns the value at index int(pct/100 * n) as High and the
// minimum as Low.
func (s *Sample) Bounds(pct float64) (Bounds, error) {
	if err := checkPercentile(pct); err != nil {
		return Bounds{}, err
	}
	return Bounds{High: s.at(pct / 100.0), Low: s.Values[0]}, nil
}

// ConfidenceInterval returns the trimmed envelope of values at pct
// percent. See Sample.Envelope.
func ConfidenceInterval(values []float64, pct float64) (Envelope, error) {
	if err := checkPercentile(pct); err != nil {
		return Envelope{}, err
	}
	s, err := NewSample(values)
	if err != nil {
		return Envelope{}, err
	}
	return s.Envelope(pct)
}

// PercentileBounds returns the pct-th percentile and the minimum of
// values. See Sample.Bounds.
func PercentileBounds(values []float64, pct float64) (Bounds, error) {
	if err := checkPercentile(pct); err != nil {
		return Bounds{}, err
	}
	s, err := NewSample(values)
	if err != nil {
		return Bounds{}, err
	}
	return s.Bounds(pct)
}

// A Summary describes a sample.
type Summary struct {
	N            int
	Min, Max     float64
	Mean, StdDev float64
	Median       float64
}

// Describe summarizes s.
func (s *Sample) Describe() Summary {
	ss := stats.Sample{Xs: s.Values, Sorted: true}
	lo, hi := ss.Bounds()
	sum := Summary{N: len(s.Values), Min: lo, Max: hi, Mean: ss.Mean(), Median: s.at(0.5)}
	if len(s.Values) > 1 {
		sum.StdDev = ss.StdDev()
	}
	return sum
}

func (s Summary) String() string {
	return fmt.Sprintf("n=%d min=%.4g median=%.4g mean=%.4g max=%.4g", s.N, s.Min, s.Median, s.Mean, s.Max)
}

func checkPercentile(pct float64) error {
	if !(pct > 0 && pct <= 100) {
		return &InvalidPercentileError{pct}
	}
	return nil
}

// An InvalidPercentileError reports a percentile outside (0, 100].
type InvalidPercentileError struct {
	Percentile float64
}

func (e *InvalidPercentileError) Error() string {
	return fmt.Sprintf("percentile %v out of range (0, 100]", e.Percentile)
}

// An EmptyGroupError reports a statistic requested over a group with
// no observations.
type EmptyGroupError struct{}

func (e *EmptyGroupError) Error() string {
	return "group has no observations"
}
