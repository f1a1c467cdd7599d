// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package resultfmt

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const (
	optimalFile    = "testdata/xstar_40_iter_2_trial_3_seed_12345.result"
	nonOptimalFile = "testdata/xstar_density_0.1_20_iter_0_trial_1_seed_7.result"
	emptyFile      = "testdata/xstar_30_iter_0_trial_0_seed_1.result"
	ambiguousFile  = "testdata/xstar_50_iter_1_trial_0_seed_99.result"
	radiusFile     = "testdata/xstar_grow_search_window_xstar3_trial_2.result"
)

func TestTimeoutSubstitution(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.result")
	for _, path := range []string{emptyFile, missing} {
		for _, timeout := range []float64{0, 300, 1200} {
			if got, err := FirstSolutionTime(path, timeout); err != nil || got != timeout {
				t.Errorf("FirstSolutionTime(%s, %v) = %v, %v; want timeout", path, timeout, got, err)
			}
			if got, err := OptimalTimeOrTimeout(path, timeout); err != nil || got != timeout {
				t.Errorf("OptimalTimeOrTimeout(%s, %v) = %v, %v; want timeout", path, timeout, got, err)
			}
		}
	}
}

func TestFirstSolutionTime(t *testing.T) {
	got, err := FirstSolutionTime(optimalFile, DefaultTimeout)
	if err != nil {
		t.Fatal(err)
	}
	if got != 3.75 {
		t.Errorf("want 1.5 + 2.25 = 3.75, got %v", got)
	}

	_, err = FirstSolutionTime(ambiguousFile, DefaultTimeout)
	var amb *AmbiguousFieldError
	if !errors.As(err, &amb) {
		t.Errorf("want *AmbiguousFieldError, got %v", err)
	}
}

func TestOptimalTimeOrTimeout(t *testing.T) {
	check := func(path string, want float64) {
		t.Helper()
		got, err := OptimalTimeOrTimeout(path, 1200)
		if err != nil {
			t.Fatalf("%s: %v", path, err)
		}
		if got != want {
			t.Errorf("%s: want %v, got %v", path, want, got)
		}
	}
	check(optimalFile, 17.5)
	// Total time is ignored when the run is not optimal.
	check(nonOptimalFile, 1200)
}

func TestGetFile(t *testing.T) {
	got, err := GetFile(optimalFile, FieldMaxAgentsInWindow, -1)
	if err != nil || got != 5 {
		t.Errorf("GetFile = %v, %v; want 5", got, err)
	}
	got, err = GetFile(emptyFile, FieldMaxAgentsInWindow, -1)
	if err != nil || got != -1 {
		t.Errorf("GetFile of empty file = %v, %v; want default -1", got, err)
	}
	if _, err := GetFile(optimalFile, "no_such_field", 0.0); err == nil {
		t.Errorf("GetFile of missing field: want error, got nil")
	}
}

func TestRadiusTimes(t *testing.T) {
	first, total := RadiusTimes(radiusFile, DefaultRadiusTimeout)
	if first != 4.5 || total != 12.25 {
		t.Errorf("want 4.5, 12.25; got %v, %v", first, total)
	}
	first, total = RadiusTimes(emptyFile, DefaultRadiusTimeout)
	if first != DefaultRadiusTimeout || total != DefaultRadiusTimeout {
		t.Errorf("empty file: want timeouts, got %v, %v", first, total)
	}
}

func TestLongLine(t *testing.T) {
	content := "time_individual_plan: 1.5\n" +
		"time_first_plan: 2.25\n" +
		"is_optimal: true\n" +
		"Total time: 17.5\n" +
		"plan: " + strings.Repeat("x", 70000) + "\n"
	path := filepath.Join(t.TempDir(), "xstar_40_iter_0_trial_0_seed_1.result")
	if err := os.WriteFile(path, []byte(content), 0666); err != nil {
		t.Fatal(err)
	}

	if got, err := FirstSolutionTime(path, DefaultTimeout); err != nil || got != 3.75 {
		t.Errorf("FirstSolutionTime = %v, %v; want 3.75", got, err)
	}
	if got, err := OptimalTimeOrTimeout(path, DefaultTimeout); err != nil || got != 17.5 {
		t.Errorf("OptimalTimeOrTimeout = %v, %v; want 17.5", got, err)
	}
	if first, total := RadiusTimes(path, DefaultRadiusTimeout); first != 2.25 || total != 17.5 {
		t.Errorf("RadiusTimes = %v, %v; want 2.25, 17.5", first, total)
	}

	f := &Files{Paths: []string{path}}
	if !f.Scan() {
		t.Fatal("Scan found no files")
	}
	if _, ok := f.Entry().(*Result); !ok {
		t.Errorf("Files entry = %v, want *Result", f.Entry())
	}
}

func TestReadErrorNotTimeout(t *testing.T) {
	// A directory opens but cannot be read as a record.
	dir := t.TempDir()
	if got, err := FirstSolutionTime(dir, DefaultTimeout); err == nil {
		t.Errorf("FirstSolutionTime(dir) = %v, nil; want read error", got)
	}
	if got, err := OptimalTimeOrTimeout(dir, DefaultTimeout); err == nil {
		t.Errorf("OptimalTimeOrTimeout(dir) = %v, nil; want read error", got)
	}
}
