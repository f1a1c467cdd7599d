// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package dataset loads experiment points from result files on disk.
//
// A Spec names a set of files with a glob pattern and says how to turn
// each file into (x, y) points: which kind of file it is, which solve
// time to measure, and which files or runs to leave out. Load reads
// the files eagerly and returns a Dataset; there is no global state,
// so every figure builds the datasets it needs on demand.
package dataset

import (
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/mapfbench/mapfbench/aggstat"
	"github.com/mapfbench/mapfbench/resultfmt"
)

// A Kind identifies the layout of the result files of a dataset and
// the independent variable taken from them.
type Kind string

const (
	// Records are line records named by ParseFilename. X is the
	// agent count.
	Records Kind = "records"

	// Runs are structured run lists. X is the agent count.
	Runs Kind = "runs"

	// Window reads line records like Records, but X is the
	// largest number of agents in one window.
	Window Kind = "window"

	// Radius reads radius sweep results. X is the initial window
	// radius.
	Radius Kind = "radius"
)

// A Measure selects which solve time is the Y value of a point.
type Measure string

const (
	// First is the time to the first solution.
	First Measure = "first"

	// Optimal is the time to the optimal solution, or the timeout.
	Optimal Measure = "optimal"
)

// A Filter leaves files and runs out of a dataset.
type Filter struct {
	// MaxAgents, if positive, drops points with more agents.
	MaxAgents int `mapstructure:"max_agents"`

	// Agents, if non-empty, keeps only these agent counts.
	Agents []int `mapstructure:"agents"`

	// Exclude drops every file whose path contains one of these
	// substrings.
	Exclude []string `mapstructure:"exclude"`
}

// KeepPath reports whether f admits the file at path.
func (f *Filter) KeepPath(path string) bool {
	for _, s := range f.Exclude {
		if s != "" && strings.Contains(path, s) {
			return false
		}
	}
	return true
}

// KeepAgents reports whether f admits a run with n agents.
func (f *Filter) KeepAgents(n int) bool {
	if f.MaxAgents > 0 && n > f.MaxAgents {
		return false
	}
	if len(f.Agents) == 0 {
		return true
	}
	for _, a := range f.Agents {
		if a == n {
			return true
		}
	}
	return false
}

// A Spec describes how to load one dataset.
type Spec struct {
	Name    string  `mapstructure:"name"`
	Pattern string  `mapstructure:"pattern"`
	Kind    Kind    `mapstructure:"kind"`
	Measure Measure `mapstructure:"measure"`

	// Timeout is the time recorded for runs that never finished.
	// If zero, it is resultfmt.DefaultRadiusTimeout for Radius
	// datasets and resultfmt.DefaultTimeout otherwise.
	Timeout float64 `mapstructure:"timeout"`

	// Density, if non-zero, keeps only files whose name carries
	// this obstacle density.
	Density float64 `mapstructure:"density"`

	Filter Filter `mapstructure:"filter"`
}

// Check returns an error if s cannot be loaded.
func (s *Spec) Check() error {
	if s.Pattern == "" {
		return errors.Errorf("dataset %q: no file pattern", s.Name)
	}
	if _, err := filepath.Match(s.Pattern, ""); err != nil {
		return errors.Wrapf(err, "dataset %q: bad pattern %q", s.Name, s.Pattern)
	}
	switch s.Kind {
	case Records, Runs, Window, Radius:
	default:
		return errors.Errorf("dataset %q: unknown kind %q", s.Name, s.Kind)
	}
	switch s.Measure {
	case First, Optimal:
	default:
		return errors.Errorf("dataset %q: unknown measure %q", s.Name, s.Measure)
	}
	return nil
}

func (s *Spec) timeout() float64 {
	switch {
	case s.Timeout > 0:
		return s.Timeout
	case s.Kind == Radius:
		return resultfmt.DefaultRadiusTimeout
	}
	return resultfmt.DefaultTimeout
}

// A Dataset is the set of points loaded for a Spec.
type Dataset struct {
	Name string

	// Points are in file order, and within a run list file, in run
	// order.
	Points []aggstat.Point

	// Sources holds the file each point came from.
	Sources []string

	// Skipped holds one *resultfmt.FileError for each file or run
	// that could not be turned into a point.
	Skipped []error
}

// Groups groups the points of d by X.
func (d *Dataset) Groups() aggstat.Groups {
	return aggstat.GroupPoints(d.Points)
}

func (d *Dataset) add(path string, x int, y float64) {
	d.Points = append(d.Points, aggstat.Point{X: x, Y: y})
	d.Sources = append(d.Sources, path)
}

type loader struct {
	spec    *Spec
	timeout float64
	log     logrus.FieldLogger
	ds      *Dataset
}

func (l *loader) skip(path string, err error) {
	var fe *resultfmt.FileError
	if !errors.As(err, &fe) {
		fe = &resultfmt.FileError{FileName: path, Err: err}
	}
	l.log.WithField("path", path).WithError(err).Warn("skipping result")
	l.ds.Skipped = append(l.ds.Skipped, fe)
}

// Load reads the files matched by spec.Pattern and returns their
// points. Files that cannot be parsed are logged to log, recorded in
// Dataset.Skipped and otherwise ignored. If log is nil, the standard
// logrus logger is used.
func Load(spec Spec, log logrus.FieldLogger) (*Dataset, error) {
	if err := spec.Check(); err != nil {
		return nil, err
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	paths, err := filepath.Glob(spec.Pattern)
	if err != nil {
		return nil, errors.Wrapf(err, "dataset %q", spec.Name)
	}
	var keep []string
	for _, p := range paths {
		if !spec.Filter.KeepPath(p) {
			continue
		}
		if spec.Density != 0 {
			if d, ok := resultfmt.Density(p); !ok || d != spec.Density {
				continue
			}
		}
		keep = append(keep, p)
	}

	l := &loader{
		spec:    &spec,
		timeout: spec.timeout(),
		log:     log.WithField("dataset", spec.Name),
		ds:      &Dataset{Name: spec.Name},
	}
	switch spec.Kind {
	case Records, Window:
		l.records(keep)
	case Runs:
		l.runs(keep)
	case Radius:
		l.radius(keep)
	}
	l.log.WithFields(logrus.Fields{
		"files":   len(keep),
		"points":  len(l.ds.Points),
		"skipped": len(l.ds.Skipped),
	}).Debug("loaded dataset")
	return l.ds, nil
}

func (l *loader) records(paths []string) {
	files := &resultfmt.Files{Paths: paths, ParseNames: true}
	for files.Scan() {
		var res *resultfmt.Result
		switch e := files.Entry().(type) {
		case *resultfmt.FileError:
			l.skip(e.Path(), e)
			continue
		case *resultfmt.Result:
			res = e
		}
		if !l.spec.Filter.KeepAgents(res.Params.Agents) {
			continue
		}
		path, rec := res.Path(), res.Record

		var y float64
		var err error
		if l.spec.Measure == First {
			y, err = rec.FirstTime(l.timeout)
		} else {
			y, err = rec.OptimalTime(l.timeout)
		}
		if err != nil {
			l.skip(path, err)
			continue
		}

		x := res.Params.Agents
		if l.spec.Kind == Window {
			// Runs that never started have no window to report.
			if rec.Empty() {
				continue
			}
			field := resultfmt.FieldMaxAgentsInWindow
			if l.spec.Measure == First {
				field = resultfmt.FieldMaxAgentsInFirstWindow
			}
			x, err = resultfmt.Get[int](rec, field)
			if err != nil {
				l.skip(path, err)
				continue
			}
		}
		l.ds.add(path, x, y)
	}
}

func (l *loader) runs(paths []string) {
	for _, path := range paths {
		runs, err := resultfmt.ReadRuns(path)
		if err != nil {
			l.skip(path, err)
			continue
		}
		for _, r := range runs {
			if !l.spec.Filter.KeepAgents(r.NumAgents) {
				continue
			}
			var y float64
			if l.spec.Measure == First {
				y, err = r.FirstTime()
			} else {
				y, err = r.OptimalTime()
			}
			if err != nil {
				var re *resultfmt.RunError
				if errors.As(err, &re) {
					re.FileName = path
				}
				l.skip(path, err)
				continue
			}
			l.ds.add(path, r.NumAgents, y)
		}
	}
}

func (l *loader) radius(paths []string) {
	for _, path := range paths {
		r, err := resultfmt.Radius(path)
		if err != nil {
			l.skip(path, err)
			continue
		}
		first, total := resultfmt.RadiusTimes(path, l.timeout)
		if l.spec.Measure == First {
			l.ds.add(path, r, first)
		} else {
			l.ds.add(path, r, total)
		}
	}
}
