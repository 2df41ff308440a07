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
	"fmt"
	"io"
	"slices"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/SDash07/Algorithm-Efficiency-and-Scalability/pkg/ux"
	"github.com/SDash07/Algorithm-Efficiency-and-Scalability/services/benchmark"
)

// ConsoleReporter prints the results as a table.
//
// Description:
//
//	One row per size, one column per series in seconds, plus a speedup
//	column (deterministic time divided by randomized time) when both
//	default series are present. The lipgloss renderer is bound to the
//	writer, so colors are dropped when it is not a terminal.
type ConsoleReporter struct {
	w        io.Writer
	renderer *lipgloss.Renderer
}

// NewConsoleReporter writes to w.
func NewConsoleReporter(w io.Writer) *ConsoleReporter {
	return &ConsoleReporter{w: w, renderer: lipgloss.NewRenderer(w)}
}

// Report renders and writes the table.
func (c *ConsoleReporter) Report(_ context.Context, tbl *benchmark.ResultTable) error {
	if tbl == nil {
		return &benchmark.StageError{Stage: benchmark.StageRender, Err: ErrNilTable}
	}
	if err := tbl.Validate(); err != nil {
		return &benchmark.StageError{Stage: benchmark.StageRender, Err: err}
	}

	if _, err := fmt.Fprintln(c.w, c.Render(tbl)); err != nil {
		return &benchmark.StageError{Stage: benchmark.StageIO, Err: err}
	}
	return nil
}

// Render returns the table as a string.
func (c *ConsoleReporter) Render(tbl *benchmark.ResultTable) string {
	withSpeedup := slices.Contains(tbl.Labels, benchmark.LabelRandomized) &&
		slices.Contains(tbl.Labels, benchmark.LabelDeterministic)

	headers := []string{"Size"}
	for _, l := range tbl.Labels {
		headers = append(headers, l+" (s)")
	}
	if withSpeedup {
		headers = append(headers, "Speedup")
	}

	series := make([][]float64, len(tbl.Labels))
	for i, l := range tbl.Labels {
		series[i] = tbl.Seconds(l)
	}
	rows := make([][]string, len(tbl.Sizes))
	for i, n := range tbl.Sizes {
		row := []string{strconv.Itoa(n)}
		for _, s := range series {
			row = append(row, strconv.FormatFloat(s[i], 'f', 6, 64))
		}
		if withSpeedup {
			rnd := tbl.Elapsed[benchmark.LabelRandomized][i]
			det := tbl.Elapsed[benchmark.LabelDeterministic][i]
			row = append(row, Speedup(rnd.Seconds(), det.Seconds()))
		}
		rows[i] = row
	}

	headerStyle := c.renderer.NewStyle().Bold(true).Foreground(ux.ColorSuccess).Padding(0, 1)
	cellStyle := c.renderer.NewStyle().Padding(0, 1)
	colStyles := map[string]lipgloss.Style{
		benchmark.LabelRandomized + " (s)":    cellStyle.Foreground(ux.ColorRandomized),
		benchmark.LabelDeterministic + " (s)": cellStyle.Foreground(ux.ColorDeterministic),
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(c.renderer.NewStyle().Foreground(ux.ColorBorder)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if s, ok := colStyles[headers[col]]; ok {
				return s
			}
			return cellStyle
		})

	title := c.renderer.NewStyle().Bold(true).Render(fmt.Sprintf("Quicksort timings (%s data)", tbl.Shape))
	return title + "\n" + t.Render()
}

// Speedup formats det/rnd as "N.NNx". A zero randomized time has no ratio.
func Speedup(rnd, det float64) string {
	if rnd <= 0 {
		return "n/a"
	}
	return strconv.FormatFloat(det/rnd, 'f', 2, 64) + "x"
}
