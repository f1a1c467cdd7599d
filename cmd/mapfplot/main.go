// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Mapfplot summarizes and charts multi-agent pathfinding benchmark
// results.
//
// Usage:
//
//	mapfplot [--config file] [--verbose] plot [flags] [figure...]
//	mapfplot [--config file] [--verbose] stats [flags] [pattern]
//	mapfplot [--config file] [--verbose] export --dsn dsn [flags] [dataset...]
//
// The plot command renders the figures declared in the configuration
// file (mapfbench.yaml by default), or only the named ones. Each
// figure is drawn from one or more datasets, each a glob of result
// files together with the solve time to measure and the runs to
// leave out. See package config for the file format.
//
// The stats command prints, for each agent count (or window size, or
// search radius), the number of runs, descriptive statistics, and the
// trimmed envelope at each requested level. Its input is either a
// glob pattern or a dataset from the configuration file. With --csv,
// it writes the envelopes as CSV instead.
//
// The export command writes the points of the configured datasets to
// a SQL database, sqlite3 or mysql, in the tables Datasets and Points.
//
// A result file that cannot be parsed is reported on standard error
// and left out; it does not stop the analysis. An empty result file
// is a run that timed out and counts as the timeout.
package main

import "os"

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
