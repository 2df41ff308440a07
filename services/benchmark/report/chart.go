// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package report

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/SDash07/Algorithm-Efficiency-and-Scalability/services/benchmark"
)

// ErrNilTable is returned when a reporter receives a nil table.
var ErrNilTable = errors.New("result table is nil")

// seriesStyle is the line color and marker for one series.
type seriesStyle struct {
	color color.Color
	glyph draw.GlyphDrawer
}

// defaultStyles keeps the original chart's look: circles for randomized,
// squares for deterministic.
var defaultStyles = map[string]seriesStyle{
	benchmark.LabelRandomized:    {color: color.RGBA{R: 0x20, G: 0xB9, B: 0xB4, A: 0xFF}, glyph: draw.CircleGlyph{}},
	benchmark.LabelDeterministic: {color: color.RGBA{R: 0xE6, G: 0x7E, B: 0x22, A: 0xFF}, glyph: draw.SquareGlyph{}},
}

// ChartReporter renders the ResultTable as a line chart image.
//
// Description:
//
//	X is input size, Y is time in seconds. Each series gets a line plus
//	markers, a legend entry, and the plot has a grid. The image format
//	follows the file extension. An existing file is replaced atomically.
//
// Thread Safety: Safe for concurrent use; each Report builds its own plot.
type ChartReporter struct {
	path   string
	title  string
	width  vg.Length
	height vg.Length
	logger *slog.Logger
}

// ChartOption configures a ChartReporter.
type ChartOption func(*ChartReporter)

// WithChartLogger sets the logger. Defaults to slog.Default().
func WithChartLogger(logger *slog.Logger) ChartOption {
	return func(c *ChartReporter) {
		c.logger = logger
	}
}

// NewChartReporter builds a reporter that writes cfg.OutputPath().
func NewChartReporter(cfg *benchmark.Config, opts ...ChartOption) *ChartReporter {
	c := &ChartReporter{
		path:   cfg.OutputPath(),
		title:  cfg.Chart.Title,
		width:  vg.Length(cfg.Chart.WidthInches) * vg.Inch,
		height: vg.Length(cfg.Chart.HeightInches) * vg.Inch,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Path returns where the chart is written.
func (c *ChartReporter) Path() string {
	return c.path
}

// Report builds the chart and saves it.
//
// Outputs:
//   - error: A *benchmark.StageError matching benchmark.ErrRender when the
//     plot cannot be built or encoded, or benchmark.ErrIO when the file
//     cannot be written.
func (c *ChartReporter) Report(ctx context.Context, table *benchmark.ResultTable) error {
	if table == nil {
		return &benchmark.StageError{Stage: benchmark.StageRender, Path: c.path, Err: ErrNilTable}
	}
	if err := table.Validate(); err != nil {
		return &benchmark.StageError{Stage: benchmark.StageRender, Path: c.path, Err: err}
	}

	p, err := c.buildPlot(table)
	if err != nil {
		return &benchmark.StageError{Stage: benchmark.StageRender, Path: c.path, Err: err}
	}

	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(c.path)), ".")
	writer, err := p.WriterTo(c.width, c.height, format)
	if err != nil {
		return &benchmark.StageError{Stage: benchmark.StageRender, Path: c.path, Err: err}
	}

	if err := writeFileAtomic(c.path, writer); err != nil {
		return &benchmark.StageError{Stage: benchmark.StageIO, Path: c.path, Err: err}
	}

	c.logger.Info("Chart saved", slog.String("path", c.path))
	return nil
}

// buildPlot assembles the chart from the table.
func (c *ChartReporter) buildPlot(table *benchmark.ResultTable) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = c.title
	p.X.Label.Text = "Input size (n)"
	p.Y.Label.Text = "Time (s)"
	p.Y.Min = 0
	p.Legend.Top = true
	p.Legend.Left = true
	p.Add(plotter.NewGrid())

	for i, label := range table.Labels {
		seconds := table.Seconds(label)
		points := make(plotter.XYs, len(table.Sizes))
		for j, n := range table.Sizes {
			points[j].X = float64(n)
			points[j].Y = seconds[j]
		}

		line, scatter, err := plotter.NewLinePoints(points)
		if err != nil {
			return nil, fmt.Errorf("series %q: %w", label, err)
		}

		style, ok := defaultStyles[label]
		if !ok {
			style = seriesStyle{color: plotutil.Color(i), glyph: plotutil.Shape(i)}
		}
		line.Color = style.color
		line.Width = vg.Points(1.5)
		scatter.Color = style.color
		scatter.Shape = style.glyph
		scatter.Radius = vg.Points(3)

		p.Add(line, scatter)
		p.Legend.Add(label, line, scatter)
	}
	return p, nil
}

// writeFileAtomic writes src to a temp file in the target directory and
// renames it over path, so a failed write never leaves a truncated chart.
func writeFileAtomic(path string, src io.WriterTo) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = src.WriteTo(tmp); err != nil {
		_ = tmp.Close()
		return err
	}
	if err = tmp.Chmod(0o644); err != nil {
		_ = tmp.Close()
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
