// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"strconv"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/mapfbench/mapfbench/aggstat"
	"github.com/mapfbench/mapfbench/dataset"
	"github.com/mapfbench/mapfbench/internal/texttab"
	"github.com/mapfbench/mapfbench/series"
)

type statsOptions struct {
	*rootOptions

	dataset string
	spec    dataset.Spec
	levels  []float64
	csv     bool
}

func newStatsCommand(root *rootOptions) *cobra.Command {
	o := &statsOptions{rootOptions: root}
	cmd := &cobra.Command{
		Use:   "stats [pattern]",
		Short: "Print solve time statistics",
		Long: `Stats groups the solve times of the result files matched by pattern, or of
a configured dataset, and prints descriptive statistics and trimmed
confidence envelopes for each group.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.run(cmd, args)
		},
	}
	f := cmd.Flags()
	f.StringVar(&o.dataset, "dataset", "", "use the configured dataset `name` instead of a pattern")
	addSpecFlags(f, &o.spec)
	f.Float64SliceVar(&o.levels, "level", []float64{100, 95, 90, 75}, "envelope `levels` in percent")
	f.BoolVar(&o.csv, "csv", false, "write the envelopes as CSV")
	return cmd
}

// addSpecFlags adds flags describing an ad hoc dataset to f.
func addSpecFlags(f *pflag.FlagSet, spec *dataset.Spec) {
	f.StringVar((*string)(&spec.Kind), "kind", string(dataset.Records), "result file `kind`: records, runs, window or radius")
	f.StringVar((*string)(&spec.Measure), "measure", string(dataset.Optimal), "solve time to measure: first or optimal")
	f.Float64Var(&spec.Timeout, "timeout", 0, "`seconds` recorded for runs that did not finish (default from config)")
	f.Float64Var(&spec.Density, "density", 0, "only read files with obstacle `density`")
	f.IntVar(&spec.Filter.MaxAgents, "max-agents", 0, "leave out runs with more than `n` agents")
	f.IntSliceVar(&spec.Filter.Agents, "agents", nil, "only read runs with these agent `counts`")
	f.StringSliceVar(&spec.Filter.Exclude, "exclude", nil, "leave out files whose path contains any of these `strings`")
}

func (o *statsOptions) run(cmd *cobra.Command, args []string) error {
	cfg, err := o.loadConfig(cmd)
	if err != nil {
		return err
	}
	var ds *dataset.Dataset
	switch {
	case o.dataset != "" && len(args) > 0:
		return errors.New("give either a pattern or --dataset, not both")
	case o.dataset != "":
		dss, err := o.loadDatasets(cfg, []string{o.dataset})
		if err != nil {
			return err
		}
		ds = dss[0]
	case len(args) == 1:
		spec := o.spec
		spec.Name = args[0]
		spec.Pattern = args[0]
		if spec.Timeout == 0 {
			spec.Timeout = cfg.Timeout
			if spec.Kind == dataset.Radius {
				spec.Timeout = cfg.RadiusTimeout
			}
		}
		if ds, err = dataset.Load(spec, o.log); err != nil {
			return err
		}
	default:
		return errors.New("no pattern or --dataset given")
	}
	if len(ds.Points) == 0 {
		return errors.Errorf("%s: no results", ds.Name)
	}

	kind := o.spec.Kind
	if o.dataset != "" {
		spec, _ := cfg.Dataset(o.dataset)
		kind = spec.Kind
	}
	g := ds.Groups()
	var ss []*series.Series
	for _, lvl := range o.levels {
		s, err := series.Build(g, series.CI(lvl))
		if err != nil {
			return errors.Wrap(err, ds.Name)
		}
		ss = append(ss, s)
	}
	if o.csv {
		return series.WriteCSV(cmd.OutOrStdout(), xName(kind), ss...)
	}
	return writeStats(cmd, xName(kind), g, ss)
}

func writeStats(cmd *cobra.Command, x string, g aggstat.Groups, ss []*series.Series) error {
	var tab texttab.Table
	tab.Row().Cell(x).Cell("n", texttab.Right)
	for _, h := range []string{"min", "median", "max", "mean", "stddev"} {
		tab.Cell(h, texttab.Right)
	}
	for _, s := range ss {
		tab.Cell(s.Stat, texttab.Right)
	}
	for i, k := range g.Keys() {
		sample, err := aggstat.NewSample(g[k])
		if err != nil {
			return err
		}
		sum := sample.Describe()
		tab.Row().Cell(strconv.Itoa(k)).Cell(strconv.Itoa(sum.N), texttab.Right)
		for _, v := range []float64{sum.Min, sum.Median, sum.Max, sum.Mean, sum.StdDev} {
			tab.Cell(fmt.Sprintf("%.4g", v), texttab.Right)
		}
		for _, s := range ss {
			lo, hi := s.Column("low")[i], s.Column("high")[i]
			tab.Cell(fmt.Sprintf("[%.4g, %.4g]", lo, hi), texttab.Right)
		}
	}
	return tab.Format(cmd.OutOrStdout())
}

// xName names the independent variable of a dataset kind.
func xName(k dataset.Kind) string {
	switch k {
	case dataset.Window:
		return "agents in window"
	case dataset.Radius:
		return "radius"
	}
	return "agents"
}
