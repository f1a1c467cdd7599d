// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mapfbench/mapfbench/aggstat"
	"github.com/mapfbench/mapfbench/pointdb"
)

const testConfig = "testdata/mapfbench.yaml"

func run(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	cmd := newRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err = cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestSubcommands(t *testing.T) {
	have := map[string]bool{}
	for _, c := range newRootCommand().Commands() {
		have[c.Name()] = true
		assert.NotEmpty(t, c.Short, c.Name())
		assert.NotEmpty(t, c.Long, c.Name())
	}
	for _, want := range []string{"plot", "stats", "export"} {
		assert.True(t, have[want], "missing subcommand %s", want)
	}
}

func TestStatsCSV(t *testing.T) {
	out, _, err := run(t, "stats", "--measure", "first", "--level", "100", "--csv", "testdata/results/*.result")
	require.NoError(t, err)
	assert.Equal(t, `agents,100% CI high,100% CI mid,100% CI low
20,4,1,1
40,1200,5,5
`, out)
}

func TestStatsDataset(t *testing.T) {
	out, _, err := run(t, "--config", testConfig, "stats", "--dataset", "window", "--level", "100", "--csv")
	require.NoError(t, err)
	assert.Equal(t, `agents in window,100% CI high,100% CI mid,100% CI low
2,10,10,10
3,3,3,3
5,1200,1200,1200
`, out)
}

func TestStatsTable(t *testing.T) {
	out, _, err := run(t, "stats", "--level", "100,95", "testdata/results/*.result")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, []string{"agents", "n", "min", "median", "max", "mean", "stddev", "100%", "CI", "95%", "CI"}, strings.Fields(lines[0]))
	assert.Equal(t, []string{"20", "2", "3", "3", "10", "6.5", "4.95", "[3,", "10]", "[3,", "3]"}, strings.Fields(lines[1]))
	assert.True(t, strings.HasPrefix(lines[2], "40"))
}

func TestStatsErrors(t *testing.T) {
	_, _, err := run(t, "stats")
	assert.Error(t, err)
	_, _, err = run(t, "--config", testConfig, "stats", "--dataset", "window", "testdata/results/*.result")
	assert.Error(t, err)
	_, _, err = run(t, "stats", "testdata/none/*.result")
	assert.Error(t, err)
	_, _, err = run(t, "stats", "--kind", "csv", "testdata/results/*.result")
	assert.Error(t, err)
	_, _, err = run(t, "--config", "testdata/missing.yaml", "stats", "testdata/results/*.result")
	assert.Error(t, err)
}

func TestPlot(t *testing.T) {
	dir := t.TempDir()
	_, stderr, err := run(t, "--config", testConfig, "plot", "--out-dir", dir, "--format", "png,svg")
	require.NoError(t, err)
	for _, name := range []string{"first_ci", "percentiles", "compare", "window_box", "window_hist"} {
		for _, ext := range []string{"png", "svg"} {
			fi, err := os.Stat(filepath.Join(dir, name+"."+ext))
			if assert.NoError(t, err) {
				assert.NotZero(t, fi.Size(), "%s.%s", name, ext)
			}
		}
	}
	assert.Contains(t, stderr, "wrote figure")
}

func TestPlotSelected(t *testing.T) {
	dir := t.TempDir()
	_, _, err := run(t, "--config", testConfig, "plot", "--out-dir", dir, "window_hist")
	require.NoError(t, err)
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "window_hist.png", entries[0].Name())

	_, _, err = run(t, "--config", testConfig, "plot", "--out-dir", dir, "nosuch")
	assert.Error(t, err)
}

func TestExport(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "points.db")
	_, _, err := run(t, "--config", testConfig, "export", "--dsn", dsn, "first", "window")
	require.NoError(t, err)

	db, err := pointdb.OpenSQL("sqlite3", dsn)
	require.NoError(t, err)
	defer db.Close()
	ctx := context.Background()

	names, err := db.Datasets(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "window"}, names)

	pts, err := db.Points(ctx, "first")
	require.NoError(t, err)
	assert.Equal(t, []aggstat.Point{{X: 20, Y: 4}, {X: 20, Y: 1}, {X: 40, Y: 1200}, {X: 40, Y: 5}}, pts)

	_, _, err = run(t, "--config", testConfig, "export", "--driver", "postgres", "--dsn", dsn)
	assert.Error(t, err)
	_, _, err = run(t, "--config", testConfig, "export", "first")
	assert.Error(t, err)
}
