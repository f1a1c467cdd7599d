// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dataset

import (
	"errors"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mapfbench/mapfbench/aggstat"
	"github.com/mapfbench/mapfbench/resultfmt"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func load(t *testing.T, spec Spec) *Dataset {
	t.Helper()
	if spec.Name == "" {
		spec.Name = t.Name()
	}
	ds, err := Load(spec, quietLogger())
	require.NoError(t, err)
	require.Equal(t, len(ds.Points), len(ds.Sources))
	return ds
}

func TestLoadRecords(t *testing.T) {
	spec := Spec{
		Pattern: "testdata/records/*.result",
		Kind:    Records,
		Measure: First,
		Filter:  Filter{MaxAgents: 60},
	}
	ds := load(t, spec)
	assert.Equal(t, []aggstat.Point{{X: 20, Y: 4}, {X: 20, Y: 1200}, {X: 40, Y: 0.75}, {X: 20, Y: 4}}, ds.Points)
	assert.Equal(t, "testdata/records/xstar_20_iter_0_trial_0_seed_1.result", ds.Sources[0])
	require.Len(t, ds.Skipped, 2)

	var fe *resultfmt.FileError
	var nf *resultfmt.FieldNotFoundError
	require.True(t, errors.As(ds.Skipped[0], &fe))
	assert.Equal(t, "testdata/records/xstar_30_iter_0_trial_0_seed_5.result", fe.Path())
	assert.True(t, errors.As(ds.Skipped[0], &nf))
	var bad *resultfmt.FilenameError
	assert.True(t, errors.As(ds.Skipped[1], &bad))

	spec.Measure = Optimal
	ds = load(t, spec)
	assert.Equal(t, []aggstat.Point{{X: 20, Y: 10}, {X: 20, Y: 1200}, {X: 30, Y: 3}, {X: 40, Y: 1200}, {X: 20, Y: 10}}, ds.Points)
	assert.Len(t, ds.Skipped, 1)
}

func TestLoadTimeout(t *testing.T) {
	ds := load(t, Spec{
		Pattern: "testdata/records/xstar_20_*.result",
		Kind:    Records,
		Measure: Optimal,
		Timeout: 300,
	})
	assert.Equal(t, []aggstat.Point{{X: 20, Y: 10}, {X: 20, Y: 300}}, ds.Points)
}

func TestLoadDensity(t *testing.T) {
	ds := load(t, Spec{
		Pattern: "testdata/records/*.result",
		Kind:    Records,
		Measure: First,
		Density: 0.05,
	})
	assert.Equal(t, []aggstat.Point{{X: 20, Y: 4}}, ds.Points)
	assert.Empty(t, ds.Skipped)
}

func TestLoadWindow(t *testing.T) {
	spec := Spec{
		Pattern: "testdata/records/*.result",
		Kind:    Window,
		Measure: Optimal,
		Filter:  Filter{MaxAgents: 60},
	}
	ds := load(t, spec)
	assert.Equal(t, []aggstat.Point{{X: 4, Y: 10}, {X: 6, Y: 1200}, {X: 4, Y: 10}}, ds.Points)
	assert.Len(t, ds.Skipped, 2)

	spec.Measure = First
	ds = load(t, spec)
	assert.Equal(t, []aggstat.Point{{X: 3, Y: 4}, {X: 2, Y: 0.75}, {X: 3, Y: 4}}, ds.Points)

	g := ds.Groups().DropBelow(2).FillRange()
	assert.Equal(t, aggstat.Groups{2: {0.75}, 3: {4, 4}}, g)
}

func TestLoadExclude(t *testing.T) {
	ds := load(t, Spec{
		Pattern: "testdata/ratio/xstar_ratio_*.result",
		Kind:    Records,
		Measure: First,
		Filter:  Filter{Exclude: []string{"1200"}},
	})
	assert.Equal(t, []aggstat.Point{{X: 20, Y: 2}}, ds.Points)
	assert.Equal(t, []string{"testdata/ratio/xstar_ratio_20_iter_0_trial_0_seed_1.result"}, ds.Sources)
}

func TestLoadRuns(t *testing.T) {
	spec := Spec{
		Pattern: "testdata/runs/xstar_data_lst_*",
		Kind:    Runs,
		Measure: Optimal,
		Density: 0.1,
		Filter:  Filter{Agents: []int{20, 30, 40}},
	}
	ds := load(t, spec)
	assert.Equal(t, []aggstat.Point{{X: 20, Y: 3}, {X: 40, Y: 2}, {X: 30, Y: 4}}, ds.Points)
	require.Len(t, ds.Skipped, 2)

	var re *resultfmt.RunError
	require.True(t, errors.As(ds.Skipped[0], &re))
	assert.Equal(t, "testdata/runs/xstar_data_lst_c_density0.1.yaml", re.FileName)
	assert.Equal(t, 20, re.NumAgents)

	spec.Measure = First
	spec.Density = 0.05
	spec.Filter = Filter{}
	ds = load(t, spec)
	assert.Equal(t, []aggstat.Point{{X: 20, Y: 7}}, ds.Points)
}

func TestLoadRadius(t *testing.T) {
	spec := Spec{
		Pattern: "testdata/radius/*.result",
		Kind:    Radius,
		Measure: First,
	}
	ds := load(t, spec)
	assert.Equal(t, []aggstat.Point{{X: 3, Y: 4.5}, {X: 5, Y: 300}}, ds.Points)

	spec.Measure = Optimal
	ds = load(t, spec)
	assert.Equal(t, []aggstat.Point{{X: 3, Y: 12.25}, {X: 5, Y: 300}}, ds.Points)
}

func TestLoadLogsSkipped(t *testing.T) {
	log, hook := test.NewNullLogger()
	_, err := Load(Spec{
		Name:    "names",
		Pattern: "testdata/records/xstar_bad.result",
		Kind:    Records,
		Measure: First,
	}, log)
	require.NoError(t, err)
	require.Len(t, hook.Entries, 1)
	e := hook.LastEntry()
	assert.Equal(t, logrus.WarnLevel, e.Level)
	assert.Equal(t, "names", e.Data["dataset"])
	assert.Equal(t, "testdata/records/xstar_bad.result", e.Data["path"])
}

func TestSpecCheck(t *testing.T) {
	for name, spec := range map[string]Spec{
		"no pattern":  {Kind: Records, Measure: First},
		"bad pattern": {Pattern: "[", Kind: Records, Measure: First},
		"bad kind":    {Pattern: "*", Kind: "csv", Measure: First},
		"bad measure": {Pattern: "*", Kind: Runs, Measure: "median"},
	} {
		_, err := Load(spec, quietLogger())
		assert.Error(t, err, name)
	}

	ds, err := Load(Spec{Pattern: "testdata/none/*", Kind: Runs, Measure: First}, quietLogger())
	require.NoError(t, err)
	assert.Empty(t, ds.Points)
}

func TestFilter(t *testing.T) {
	f := Filter{MaxAgents: 60}
	assert.True(t, f.KeepAgents(60))
	assert.False(t, f.KeepAgents(61))

	f = Filter{Agents: []int{20, 40, 80, 160, 320}}
	assert.True(t, f.KeepAgents(160))
	assert.False(t, f.KeepAgents(60))

	f = Filter{Exclude: []string{"1200", ""}}
	assert.False(t, f.KeepPath("xstar_ratio_1200_20.result"))
	assert.True(t, f.KeepPath("xstar_ratio_20.result"))
}
