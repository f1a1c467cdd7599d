// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package resultfmt

import (
	"os"
	"strconv"
	"strings"
)

// Field names written by the windowed planner.
const (
	FieldIndividualPlanTime     = "time_individual_plan"
	FieldFirstPlanTime          = "time_first_plan"
	FieldIsOptimal              = "is_optimal"
	FieldTotalTime              = "Total time"
	FieldMaxAgentsInWindow      = "num_max_agents_in_window"
	FieldMaxAgentsInFirstWindow = "num_max_agents_in_window_first_iteration"
)

// DefaultTimeout is the wall-clock limit, in seconds, of the agent
// count sweeps.
const DefaultTimeout = 1200

// DefaultRadiusTimeout is the wall-clock limit, in seconds, of the
// search radius sweeps.
const DefaultRadiusTimeout = 300

// readOrEmpty reads path, treating a file that cannot be opened like
// an empty one. Errors reading an opened file are returned.
func readOrEmpty(path string) (*Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return &Record{FileName: path}, nil
	}
	defer f.Close()
	return NewRecord(f, path)
}

// FirstTime returns the time the planner took to produce its first
// joint plan: the individual planning phase plus the first joint
// planning phase. An empty record yields timeout.
func (r *Record) FirstTime(timeout float64) (float64, error) {
	if r.Empty() {
		return timeout, nil
	}
	individual, err := Get[float64](r, FieldIndividualPlanTime)
	if err != nil {
		return 0, err
	}
	first, err := Get[float64](r, FieldFirstPlanTime)
	if err != nil {
		return 0, err
	}
	return individual + first, nil
}

// OptimalTime returns the total time the planner took to prove its
// plan optimal. An empty record, or one whose run did not reach
// optimality, yields timeout.
func (r *Record) OptimalTime(timeout float64) (float64, error) {
	if r.Empty() {
		return timeout, nil
	}
	optimal, err := Get[bool](r, FieldIsOptimal)
	if err != nil {
		return 0, err
	}
	if !optimal {
		return timeout, nil
	}
	return Get[float64](r, FieldTotalTime)
}

// FirstSolutionTime reads the record at path and returns its
// first-solution time. An empty file, or one that cannot be opened,
// yields timeout.
func FirstSolutionTime(path string, timeout float64) (float64, error) {
	rec, err := readOrEmpty(path)
	if err != nil {
		return 0, err
	}
	return rec.FirstTime(timeout)
}

// OptimalTimeOrTimeout reads the record at path and returns its
// optimal-solution time, or timeout if the file is empty or cannot be
// opened, or if the run did not prove optimality.
func OptimalTimeOrTimeout(path string, timeout float64) (float64, error) {
	rec, err := readOrEmpty(path)
	if err != nil {
		return 0, err
	}
	return rec.OptimalTime(timeout)
}

// GetFile reads the record at path and returns field coerced to T.
// An empty file, or one that cannot be opened, yields def.
func GetFile[T Scalar](path, field string, def T) (T, error) {
	rec, err := readOrEmpty(path)
	if err != nil {
		return def, err
	}
	if rec.Empty() {
		return def, nil
	}
	return Get[T](rec, field)
}

// RadiusTimes returns the first-solution and total times recorded by
// a radius sweep run. Radius sweep files are read leniently: each
// time comes from the first line mentioning its field, and any
// problem reading it yields timeout for that time.
func RadiusTimes(path string, timeout float64) (first, total float64) {
	rec, err := readOrEmpty(path)
	if err != nil {
		return timeout, timeout
	}
	return firstMention(rec, FieldFirstPlanTime, timeout), firstMention(rec, FieldTotalTime, timeout)
}

func firstMention(r *Record, field string, timeout float64) float64 {
	for _, l := range r.Lines {
		if !strings.Contains(l, field) {
			continue
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(strings.Replace(l, field+": ", "", 1)), 64)
		if err != nil {
			return timeout
		}
		return v
	}
	return timeout
}
