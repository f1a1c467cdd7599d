// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package series

import (
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/brewer"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/mapfbench/mapfbench/aggstat"
)

// Options control the text and axes of a chart.
type Options struct {
	Title  string
	XLabel string
	YLabel string

	// Timeout, if set, is drawn as a dashed reference line.
	Timeout *Timeout

	// LogY requests a logarithmic Y axis. It is ignored if any
	// plotted value is not positive.
	LogY bool
}

// A Timeout is the time limit of an experiment, either one constant
// Value or a limit per x value.
type Timeout struct {
	Value float64
	ByX   map[int]float64
}

// A Labeled is a named set of groups, typically one algorithm's
// results, for charts comparing several of them.
type Labeled struct {
	Label  string
	Groups aggstat.Groups
}

// CILevels are the envelope levels drawn by NewCIChart, widest first.
var CILevels = []float64{100, 95, 90, 75}

// PercentileLevels are the levels drawn by NewPercentileChart.
var PercentileLevels = []float64{100, 95, 90, 75, 50}

var dashed = []vg.Length{vg.Points(4), vg.Points(3)}

// NewCIChart draws nested trimmed envelopes of g at each of CILevels.
// Each envelope is a translucent band bounded by its high and low
// columns; the median is drawn over the narrowest one.
func NewCIChart(g aggstat.Groups, opts Options) (*plot.Plot, error) {
	p, colors, err := newPlot(opts, len(CILevels))
	if err != nil {
		return nil, err
	}
	var ys []float64
	for i, lvl := range CILevels {
		s, err := Build(g, CI(lvl))
		if err != nil {
			return nil, err
		}
		label := s.Stat
		if lvl == 100 {
			label = "Max bounds"
		}
		if err := addBand(p, s, label, colors[i], nil); err != nil {
			return nil, err
		}
		ys = append(ys, s.Column("high")...)
		ys = append(ys, s.Column("low")...)
		if i == len(CILevels)-1 {
			l, err := newLine(s.Keys, s.Column("mid"))
			if err != nil {
				return nil, err
			}
			l.LineStyle.Color = color.Black
			p.Add(l)
			p.Legend.Add("Median", l)
		}
	}
	if err := finish(p, g, opts, ys); err != nil {
		return nil, err
	}
	return p, nil
}

// NewPercentileChart draws the percentile bounds of g at each of
// PercentileLevels. The lowest level also draws the minimum.
func NewPercentileChart(g aggstat.Groups, opts Options) (*plot.Plot, error) {
	p, colors, err := newPlot(opts, len(PercentileLevels))
	if err != nil {
		return nil, err
	}
	var ys []float64
	for i, lvl := range PercentileLevels {
		s, err := Build(g, Percentile(lvl))
		if err != nil {
			return nil, err
		}
		high := s.Column("high")
		l, err := newLine(s.Keys, high)
		if err != nil {
			return nil, err
		}
		l.LineStyle.Color = colors[i]
		p.Add(l)
		p.Legend.Add(s.Stat, l)
		ys = append(ys, high...)
		if i == len(PercentileLevels)-1 {
			low := s.Column("low")
			l, err := newLine(s.Keys, low)
			if err != nil {
				return nil, err
			}
			l.LineStyle.Color = color.Black
			p.Add(l)
			p.Legend.Add("Minimum", l)
			ys = append(ys, low...)
		}
	}
	if err := finish(p, g, opts, ys); err != nil {
		return nil, err
	}
	return p, nil
}

// NewCompareChart draws one envelope at level percent per set: dashed
// bounds, a solid median and a translucent band between the bounds.
func NewCompareChart(sets []Labeled, level float64, opts Options) (*plot.Plot, error) {
	p, colors, err := newPlot(opts, len(sets))
	if err != nil {
		return nil, err
	}
	var ys []float64
	all := make(aggstat.Groups)
	for i, set := range sets {
		s, err := Build(set.Groups, CI(level))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", set.Label, err)
		}
		if err := addBand(p, s, "", colors[i], dashed); err != nil {
			return nil, err
		}
		l, err := newLine(s.Keys, s.Column("mid"))
		if err != nil {
			return nil, err
		}
		l.LineStyle.Color = colors[i]
		p.Add(l)
		p.Legend.Add(set.Label, l)
		ys = append(ys, s.Column("high")...)
		ys = append(ys, s.Column("low")...)
		for k := range set.Groups {
			all[k] = nil
		}
	}
	if err := finish(p, all, opts, ys); err != nil {
		return nil, err
	}
	return p, nil
}

// NewBoxPlot draws one box per key of g, labeled by key. Keys with
// no values keep their label but get no box, so g is usually passed
// through FillRange first. A constant timeout is drawn across all
// boxes; per-x timeouts are rejected since box positions are nominal.
func NewBoxPlot(g aggstat.Groups, opts Options) (*plot.Plot, error) {
	p, _, err := newPlot(opts, 0)
	if err != nil {
		return nil, err
	}
	keys := g.Keys()
	names := make([]string, len(keys))
	var ys []float64
	for i, k := range keys {
		names[i] = strconv.Itoa(k)
		vs := g[k]
		if len(vs) == 0 {
			continue
		}
		b, err := plotter.NewBoxPlot(vg.Points(14), float64(i), plotter.Values(vs))
		if err != nil {
			return nil, err
		}
		p.Add(b)
		ys = append(ys, vs...)
	}
	p.NominalX(names...)
	if t := opts.Timeout; t != nil {
		if t.ByX != nil {
			return nil, fmt.Errorf("box plot timeout must be a single value")
		}
		f := plotter.NewFunction(func(float64) float64 { return t.Value })
		timeoutStyle(&f.LineStyle)
		f.XMin, f.XMax = -0.5, float64(len(keys))-0.5
		p.Add(f)
		p.Legend.Add("Timeout", f)
		includeY(p, t.Value)
		ys = append(ys, t.Value)
	}
	if opts.LogY && allPositive(ys) {
		p.Y.Scale = plot.LogScale{}
		p.Y.Tick.Marker = plot.LogTicks{Prec: -1}
	}
	return p, nil
}

// NewHistogram draws the number of values in each group of g as a
// bar per key.
func NewHistogram(g aggstat.Groups, opts Options) (*plot.Plot, error) {
	p, colors, err := newPlot(opts, 1)
	if err != nil {
		return nil, err
	}
	keys, counts := g.Counts()
	if len(keys) == 0 {
		return p, nil
	}
	vs := make(plotter.Values, len(counts))
	names := make([]string, len(keys))
	for i, c := range counts {
		vs[i] = float64(c)
		names[i] = strconv.Itoa(keys[i])
	}
	bars, err := plotter.NewBarChart(vs, vg.Points(14))
	if err != nil {
		return nil, err
	}
	bars.Color = colors[0]
	bars.LineStyle.Width = 0
	p.Add(bars)
	p.NominalX(names...)
	return p, nil
}

// Save writes p to path in the format named by its extension
// (png, svg, pdf, eps, jpg or tif), creating the parent directory.
// Width and height are in inches.
func Save(p *plot.Plot, path string, width, height float64) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0777); err != nil {
			return err
		}
	}
	return p.Save(vg.Length(width)*vg.Inch, vg.Length(height)*vg.Inch, path)
}

func newPlot(opts Options, ncolors int) (*plot.Plot, []color.Color, error) {
	p := plot.New()
	p.Title.Text = opts.Title
	p.X.Label.Text = opts.XLabel
	p.Y.Label.Text = opts.YLabel
	p.Legend.Top = true
	p.Legend.Left = true

	grid := plotter.NewGrid()
	grid.Vertical.Color = nil
	p.Add(grid)

	colors, err := paletteColors(ncolors)
	if err != nil {
		return nil, nil, err
	}
	return p, colors, nil
}

// paletteColors returns n qualitative colors, cycling once the
// palette is exhausted.
func paletteColors(n int) ([]color.Color, error) {
	if n == 0 {
		return nil, nil
	}
	const name, maxColors = "Dark2", 8
	pal, err := brewer.GetPalette(brewer.TypeQualitative, name, min(max(n, 3), maxColors))
	if err != nil {
		return nil, err
	}
	base := pal.Colors()
	colors := make([]color.Color, n)
	for i := range colors {
		colors[i] = base[i%len(base)]
	}
	return colors, nil
}

func translucent(c color.Color, alpha uint8) color.Color {
	r, g, b, _ := c.RGBA()
	return color.NRGBA{uint8(r >> 8), uint8(g >> 8), uint8(b >> 8), alpha}
}

func newLine(keys []int, ys []float64) (*plotter.Line, error) {
	xys := make(plotter.XYs, len(keys))
	for i, k := range keys {
		xys[i] = plotter.XY{X: float64(k), Y: ys[i]}
	}
	return plotter.NewLine(xys)
}

// addBand fills the area between the high and low columns of s. If
// dashes is non-nil, the bounds are also stroked with that pattern.
func addBand(p *plot.Plot, s *Series, label string, c color.Color, dashes []vg.Length) error {
	high, low := s.Column("high"), s.Column("low")
	if s.Len() == 0 {
		return nil
	}
	outline := make(plotter.XYs, 0, 2*s.Len())
	for i, k := range s.Keys {
		outline = append(outline, plotter.XY{X: float64(k), Y: high[i]})
	}
	for i := s.Len() - 1; i >= 0; i-- {
		outline = append(outline, plotter.XY{X: float64(s.Keys[i]), Y: low[i]})
	}
	poly, err := plotter.NewPolygon(outline)
	if err != nil {
		return err
	}
	poly.Color = translucent(c, 0x50)
	poly.LineStyle.Width = 0
	p.Add(poly)
	if label != "" {
		p.Legend.Add(label, poly)
	}
	if dashes == nil {
		return nil
	}
	for _, ys := range [][]float64{high, low} {
		l, err := newLine(s.Keys, ys)
		if err != nil {
			return err
		}
		l.LineStyle.Color = c
		l.LineStyle.Dashes = dashes
		p.Add(l)
	}
	return nil
}

// finish adds the timeout line and sets the Y scale.
func finish(p *plot.Plot, g aggstat.Groups, opts Options, ys []float64) error {
	if t := opts.Timeout; t != nil {
		tys, err := addTimeout(p, t, g.Keys())
		if err != nil {
			return err
		}
		ys = append(ys, tys...)
	}
	if opts.LogY && allPositive(ys) {
		p.Y.Scale = plot.LogScale{}
		p.Y.Tick.Marker = plot.LogTicks{Prec: -1}
	}
	return nil
}

func timeoutStyle(ls *draw.LineStyle) {
	ls.Color = color.Gray{0x60}
	ls.Dashes = dashed
}

// addTimeout draws t over the plotted keys. A per-x timeout is drawn
// only at the keys it has a value for.
func addTimeout(p *plot.Plot, t *Timeout, keys []int) ([]float64, error) {
	if t.ByX == nil {
		v := t.Value
		f := plotter.NewFunction(func(float64) float64 { return v })
		timeoutStyle(&f.LineStyle)
		if len(keys) > 0 {
			f.XMin, f.XMax = float64(keys[0]), float64(keys[len(keys)-1])
		}
		p.Add(f)
		p.Legend.Add("Timeout", f)
		includeY(p, v)
		return []float64{v}, nil
	}
	var xs []int
	var ys []float64
	for _, k := range keys {
		if v, ok := t.ByX[k]; ok {
			xs = append(xs, k)
			ys = append(ys, v)
		}
	}
	if len(xs) == 0 {
		return nil, nil
	}
	l, err := newLine(xs, ys)
	if err != nil {
		return nil, err
	}
	timeoutStyle(&l.LineStyle)
	p.Add(l)
	p.Legend.Add("Timeout", l)
	return ys, nil
}

// includeY widens the Y axis of p to show y. Functions have no data
// range of their own.
func includeY(p *plot.Plot, y float64) {
	p.Y.Min = math.Min(p.Y.Min, y)
	p.Y.Max = math.Max(p.Y.Max, y)
}

func allPositive(ys []float64) bool {
	if len(ys) == 0 {
		return false
	}
	for _, y := range ys {
		if !(y > 0) || math.IsInf(y, 0) {
			return false
		}
	}
	return true
}
