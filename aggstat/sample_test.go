// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package aggstat

import (
	"errors"
	"math"
	"testing"
)

func TestConfidenceInterval(t *testing.T) {
	check := func(values []float64, pct float64, want Envelope) {
		t.Helper()
		got, err := ConfidenceInterval(values, pct)
		if err != nil {
			t.Errorf("ConfidenceInterval(%v, %v): unexpected error %v", values, pct, err)
			return
		}
		if got != want {
			t.Errorf("ConfidenceInterval(%v, %v) = %+v, want %+v", values, pct, got, want)
		}
	}

	// At 100%, d is 0: the envelope is max, median, min.
	check([]float64{1, 2, 3, 4, 5}, 100, Envelope{5, 3, 1})
	check([]float64{5, 1, 4, 2, 3}, 100, Envelope{5, 3, 1})
	check([]float64{7}, 50, Envelope{7, 7, 7})
	check([]float64{7}, 100, Envelope{7, 7, 7})

	// n = 19, d = 0.025: high int(0.975*19) = 18, mid int(9.5) = 9,
	// low int(0.475) = 0.
	var twenty []float64
	for i := 20; i >= 1; i-- {
		twenty = append(twenty, float64(i))
	}
	check(twenty, 95, Envelope{19, 10, 1})
	// d = 0.125: high int(16.625) = 16, low int(2.375) = 2.
	check(twenty, 75, Envelope{17, 10, 3})

	// Truncation, not rounding, picks the index: n = 3, d = 0.25,
	// high int(2.25) = 2, mid int(1.5) = 1, low int(0.75) = 0.
	check([]float64{10, 20, 30, 40}, 50, Envelope{30, 20, 10})
}

func TestPercentileBounds(t *testing.T) {
	check := func(values []float64, pct float64, want Bounds) {
		t.Helper()
		got, err := PercentileBounds(values, pct)
		if err != nil {
			t.Errorf("PercentileBounds(%v, %v): unexpected error %v", values, pct, err)
			return
		}
		if got != want {
			t.Errorf("PercentileBounds(%v, %v) = %+v, want %+v", values, pct, got, want)
		}
	}
	check([]float64{10, 1, 5, 8}, 100, Bounds{10, 1})
	// int(0.5 * 3) = 1.
	check([]float64{10, 1, 5, 8}, 50, Bounds{5, 1})
	// int(0.9 * 3) = 2.
	check([]float64{10, 1, 5, 8}, 90, Bounds{8, 1})
	check([]float64{3}, 1, Bounds{3, 3})
}

func TestStatsErrors(t *testing.T) {
	for _, pct := range []float64{0, -5, 100.5, math.NaN()} {
		var ipe *InvalidPercentileError
		if _, err := ConfidenceInterval([]float64{1}, pct); !errors.As(err, &ipe) {
			t.Errorf("ConfidenceInterval at %v: want *InvalidPercentileError, got %v", pct, err)
		}
		if _, err := PercentileBounds([]float64{1}, pct); !errors.As(err, &ipe) {
			t.Errorf("PercentileBounds at %v: want *InvalidPercentileError, got %v", pct, err)
		}
	}

	var ege *EmptyGroupError
	if _, err := ConfidenceInterval(nil, 95); !errors.As(err, &ege) {
		t.Errorf("ConfidenceInterval(nil): want *EmptyGroupError, got %v", err)
	}
	if _, err := PercentileBounds([]float64{}, 95); !errors.As(err, &ege) {
		t.Errorf("PercentileBounds(empty): want *EmptyGroupError, got %v", err)
	}
}

func TestInputsUnmodified(t *testing.T) {
	values := []float64{3, 1, 2}
	if _, err := ConfidenceInterval(values, 90); err != nil {
		t.Fatal(err)
	}
	if _, err := PercentileBounds(values, 90); err != nil {
		t.Fatal(err)
	}
	if values[0] != 3 || values[1] != 1 || values[2] != 2 {
		t.Errorf("input reordered to %v", values)
	}
}

func TestDescribe(t *testing.T) {
	s, err := NewSample([]float64{4, 2, 6, 8})
	if err != nil {
		t.Fatal(err)
	}
	got := s.Describe()
	if got.N != 4 || got.Min != 2 || got.Max != 8 || got.Mean != 5 || got.Median != 4 {
		t.Errorf("Describe = %+v", got)
	}
	// Sample standard deviation of 2, 4, 6, 8.
	if want := math.Sqrt(20.0 / 3); math.Abs(got.StdDev-want) > 1e-9 {
		t.Errorf("StdDev = %v, want %v", got.StdDev, want)
	}

	s, _ = NewSample([]float64{7})
	if got := s.Describe(); got.StdDev != 0 || got.Mean != 7 {
		t.Errorf("single value Describe = %+v", got)
	}
}
