// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gonum.org/v1/plot"

	"github.com/mapfbench/mapfbench/aggstat"
	"github.com/mapfbench/mapfbench/config"
	"github.com/mapfbench/mapfbench/dataset"
	"github.com/mapfbench/mapfbench/series"
)

type plotOptions struct {
	*rootOptions
}

func newPlotCommand(root *rootOptions) *cobra.Command {
	o := &plotOptions{rootOptions: root}
	cmd := &cobra.Command{
		Use:   "plot [figure...]",
		Short: "Render the configured figures",
		Long: `Plot renders every figure declared in the configuration file, or only the
named ones, into the output directory in each configured format.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.run(cmd, args)
		},
	}
	cmd.Flags().String("out-dir", "", "write figures to `dir` (default from config)")
	cmd.Flags().StringSlice("format", nil, "comma-separated figure `formats` (default from config)")
	o.v.BindPFlag("out_dir", cmd.Flags().Lookup("out-dir"))
	o.v.BindPFlag("formats", cmd.Flags().Lookup("format"))
	return cmd
}

func (o *plotOptions) run(cmd *cobra.Command, names []string) error {
	cfg, err := o.loadConfig(cmd)
	if err != nil {
		return err
	}
	var figs []*config.Figure
	if len(names) == 0 {
		for i := range cfg.Figures {
			figs = append(figs, &cfg.Figures[i])
		}
	}
	for _, name := range names {
		f, ok := cfg.Figure(name)
		if !ok {
			return errors.Errorf("no figure %q in configuration", name)
		}
		figs = append(figs, f)
	}
	if len(figs) == 0 {
		o.log.Warn("no figures to plot")
		return nil
	}

	loaded := make(map[string]*dataset.Dataset)
	for _, f := range figs {
		var sets []*dataset.Dataset
		for _, name := range f.Datasets {
			ds, ok := loaded[name]
			if !ok {
				dss, err := o.loadDatasets(cfg, []string{name})
				if err != nil {
					return errors.Wrapf(err, "figure %s", f.Name)
				}
				ds = dss[0]
				loaded[name] = ds
			}
			sets = append(sets, ds)
		}
		p, err := drawFigure(f, sets)
		if err != nil {
			return errors.Wrapf(err, "figure %s", f.Name)
		}
		for _, ext := range cfg.Formats {
			path := filepath.Join(cfg.OutDir, f.Name+"."+strings.ToLower(ext))
			if err := series.Save(p, path, cfg.WidthIn, cfg.HeightIn); err != nil {
				return errors.Wrapf(err, "saving figure %s", f.Name)
			}
			o.log.WithFields(logrus.Fields{"figure": f.Name, "path": path}).Info("wrote figure")
		}
	}
	return nil
}

// drawFigure draws f from sets, which hold the datasets named by
// f.Datasets in order.
func drawFigure(f *config.Figure, sets []*dataset.Dataset) (*plot.Plot, error) {
	opts := f.Options()
	switch f.Kind {
	case config.CI:
		return series.NewCIChart(sets[0].Groups(), opts)
	case config.Percentile:
		return series.NewPercentileChart(sets[0].Groups(), opts)
	case config.Compare:
		labeled := make([]series.Labeled, len(sets))
		for i, ds := range sets {
			labeled[i] = series.Labeled{Label: f.Labels[i], Groups: ds.Groups()}
		}
		return series.NewCompareChart(labeled, f.Level, opts)
	case config.Box:
		return series.NewBoxPlot(windowGroups(sets[0], f.WindowMinX()), opts)
	case config.Histogram:
		return series.NewHistogram(windowGroups(sets[0], f.WindowMinX()), opts)
	}
	return nil, errors.Errorf("unknown figure kind %q", f.Kind)
}

// windowGroups groups the points of ds for a positional chart: keys
// below min are dropped and gaps between the remaining keys are
// filled with empty groups.
func windowGroups(ds *dataset.Dataset, min int) aggstat.Groups {
	return ds.Groups().DropBelow(min).FillRange()
}
