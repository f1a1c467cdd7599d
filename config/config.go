// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config describes the datasets and figures of an analysis.
//
// A configuration is a YAML file read with viper. Any top-level
// setting can be overridden by an environment variable with the
// prefix MAPFBENCH_, for example MAPFBENCH_OUT_DIR.
//
//	timeout: 1200
//	out_dir: figures
//	formats: [png, pdf]
//	datasets:
//	  - name: xstar-first
//	    pattern: datasave/xstar*.result
//	    kind: records
//	    measure: first
//	    filter: {max_agents: 60}
//	figures:
//	  - name: xstar_first_ci
//	    kind: ci
//	    datasets: [xstar-first]
//	    timeout: 1200
package config

import (
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/mapfbench/mapfbench/dataset"
	"github.com/mapfbench/mapfbench/resultfmt"
	"github.com/mapfbench/mapfbench/series"
)

// DefaultFile is the configuration file read when none is named.
const DefaultFile = "mapfbench.yaml"

// EnvPrefix prefixes the environment variables that override settings.
const EnvPrefix = "MAPFBENCH"

// A FigureKind selects the chart drawn for a figure.
type FigureKind string

const (
	CI         FigureKind = "ci"
	Percentile FigureKind = "percentile"
	Compare    FigureKind = "compare"
	Box        FigureKind = "box"
	Histogram  FigureKind = "histogram"
)

// A Figure is one chart to render.
type Figure struct {
	// Name is the base name of the output files.
	Name string `mapstructure:"name"`

	Kind   FigureKind `mapstructure:"kind"`
	Title  string     `mapstructure:"title"`
	XLabel string     `mapstructure:"x_label"`
	YLabel string     `mapstructure:"y_label"`

	// Datasets names the datasets drawn. Compare figures take one
	// or more; every other kind takes exactly one.
	Datasets []string `mapstructure:"datasets"`

	// Labels are the legend entries of a compare figure, one per
	// dataset. They default to the dataset names.
	Labels []string `mapstructure:"labels"`

	// Level is the envelope level of a compare figure, in percent.
	// It defaults to 95.
	Level float64 `mapstructure:"level"`

	// Timeout and TimeoutByX set the timeout line. If both are
	// zero, no line is drawn.
	Timeout    float64         `mapstructure:"timeout"`
	TimeoutByX map[int]float64 `mapstructure:"timeout_by_x"`

	// LogY requests a logarithmic time axis.
	LogY bool `mapstructure:"log_y"`

	// MinX drops smaller keys from box plots and histograms. If
	// unset, it is DefaultMinX.
	MinX *int `mapstructure:"min_x"`
}

// DefaultMinX is the smallest window size shown by box plots and
// histograms. Windows of zero or one agent involve no conflict.
const DefaultMinX = 2

// WindowMinX returns the smallest key kept by box plots and
// histograms of f.
func (f *Figure) WindowMinX() int {
	if f.MinX == nil {
		return DefaultMinX
	}
	return *f.MinX
}

// Options returns the chart options of f.
func (f *Figure) Options() series.Options {
	opts := series.Options{
		Title:  f.Title,
		XLabel: f.XLabel,
		YLabel: f.YLabel,
		LogY:   f.LogY,
	}
	switch {
	case len(f.TimeoutByX) > 0:
		opts.Timeout = &series.Timeout{ByX: f.TimeoutByX}
	case f.Timeout > 0:
		opts.Timeout = &series.Timeout{Value: f.Timeout}
	}
	return opts
}

// Config is a complete analysis configuration.
type Config struct {
	// Timeout and RadiusTimeout are the default timeouts of
	// datasets that do not set their own.
	Timeout       float64 `mapstructure:"timeout"`
	RadiusTimeout float64 `mapstructure:"radius_timeout"`

	// OutDir is the directory figures are written to.
	OutDir string `mapstructure:"out_dir"`

	// Formats are the file extensions each figure is saved as.
	Formats []string `mapstructure:"formats"`

	// WidthIn and HeightIn are the figure size in inches.
	WidthIn  float64 `mapstructure:"width_in"`
	HeightIn float64 `mapstructure:"height_in"`

	Datasets []dataset.Spec `mapstructure:"datasets"`
	Figures  []Figure       `mapstructure:"figures"`
}

// New returns a viper instance holding the default settings and
// reading overrides from the environment.
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault("timeout", resultfmt.DefaultTimeout)
	v.SetDefault("radius_timeout", resultfmt.DefaultRadiusTimeout)
	v.SetDefault("out_dir", "figures")
	v.SetDefault("formats", []string{"png"})
	v.SetDefault("width_in", 6)
	v.SetDefault("height_in", 4)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the configuration file at path into v and decodes the
// result. If path is empty, only the settings already in v are used.
func Load(v *viper.Viper, path string) (*Config, error) {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "reading config %s", path)
		}
	}
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, errors.Wrapf(err, "decoding config %s", path)
	}
	for i := range c.Datasets {
		d := &c.Datasets[i]
		if d.Timeout == 0 {
			d.Timeout = c.Timeout
			if d.Kind == dataset.Radius {
				d.Timeout = c.RadiusTimeout
			}
		}
	}
	for i := range c.Figures {
		f := &c.Figures[i]
		if f.Level == 0 {
			f.Level = 95
		}
		if len(f.Labels) == 0 {
			f.Labels = append([]string(nil), f.Datasets...)
		}
	}
	if err := c.Check(); err != nil {
		return nil, errors.Wrapf(err, "config %s", path)
	}
	return &c, nil
}

var formats = map[string]bool{
	"png": true, "svg": true, "pdf": true, "eps": true,
	"jpg": true, "jpeg": true, "tif": true, "tiff": true,
}

// Check returns an error describing the first inconsistency in c.
func (c *Config) Check() error {
	if c.WidthIn <= 0 || c.HeightIn <= 0 {
		return errors.Errorf("bad figure size %gx%g", c.WidthIn, c.HeightIn)
	}
	for _, f := range c.Formats {
		if !formats[strings.ToLower(f)] {
			return errors.Errorf("unknown figure format %q", f)
		}
	}
	names := make(map[string]bool)
	for i := range c.Datasets {
		d := &c.Datasets[i]
		if d.Name == "" {
			return errors.Errorf("dataset %d has no name", i)
		}
		if names[d.Name] {
			return errors.Errorf("duplicate dataset %q", d.Name)
		}
		names[d.Name] = true
		if err := d.Check(); err != nil {
			return err
		}
	}
	figs := make(map[string]bool)
	for _, f := range c.Figures {
		if f.Name == "" || f.Name != filepath.Base(f.Name) {
			return errors.Errorf("bad figure name %q", f.Name)
		}
		if figs[f.Name] {
			return errors.Errorf("duplicate figure %q", f.Name)
		}
		figs[f.Name] = true
		switch f.Kind {
		case Compare:
			if len(f.Datasets) == 0 {
				return errors.Errorf("figure %q: no datasets", f.Name)
			}
			if len(f.Labels) != len(f.Datasets) {
				return errors.Errorf("figure %q: %d labels for %d datasets", f.Name, len(f.Labels), len(f.Datasets))
			}
			if !(f.Level > 0 && f.Level <= 100) {
				return errors.Errorf("figure %q: bad level %g", f.Name, f.Level)
			}
		case CI, Percentile, Box, Histogram:
			if len(f.Datasets) != 1 {
				return errors.Errorf("figure %q: %s figures take one dataset, have %d", f.Name, f.Kind, len(f.Datasets))
			}
			if f.Kind == Box && len(f.TimeoutByX) > 0 {
				return errors.Errorf("figure %q: box figures take a single timeout, not timeout_by_x", f.Name)
			}
		default:
			return errors.Errorf("figure %q: unknown kind %q", f.Name, f.Kind)
		}
		for _, d := range f.Datasets {
			if !names[d] {
				return errors.Errorf("figure %q: unknown dataset %q", f.Name, d)
			}
		}
	}
	return nil
}

// Dataset returns the dataset named name.
func (c *Config) Dataset(name string) (*dataset.Spec, bool) {
	for i := range c.Datasets {
		if c.Datasets[i].Name == name {
			return &c.Datasets[i], true
		}
	}
	return nil, false
}

// Figure returns the figure named name.
func (c *Config) Figure(name string) (*Figure, bool) {
	for i := range c.Figures {
		if c.Figures[i].Name == name {
			return &c.Figures[i], true
		}
	}
	return nil, false
}
