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
	"encoding/json"
	"io"
	"time"

	"github.com/SDash07/Algorithm-Efficiency-and-Scalability/services/benchmark"
)

// APIVersion is the version of the JSON envelope.
const APIVersion = "1.0"

// Envelope wraps command output with metadata.
type Envelope struct {
	APIVersion string    `json:"api_version"`
	Command    string    `json:"command"`
	RunID      string    `json:"run_id,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
	DurationMs int64     `json:"duration_ms"`
	Success    bool      `json:"success"`
	Data       any       `json:"data,omitempty"`
	Error      string    `json:"error,omitempty"`
}

// Series is one sorter's timings in seconds, aligned with Summary.Sizes.
type Series struct {
	Label   string    `json:"label"`
	Seconds []float64 `json:"seconds"`
}

// Summary is the JSON view of a ResultTable.
type Summary struct {
	Shape     string   `json:"shape"`
	Sizes     []int    `json:"sizes"`
	Series    []Series `json:"series"`
	ChartPath string   `json:"chart_path,omitempty"`
}

// NewSummary converts a table. chartPath may be empty.
func NewSummary(table *benchmark.ResultTable, chartPath string) Summary {
	s := Summary{
		Shape:     string(table.Shape),
		Sizes:     table.Sizes,
		Series:    make([]Series, 0, len(table.Labels)),
		ChartPath: chartPath,
	}
	for _, l := range table.Labels {
		s.Series = append(s.Series, Series{Label: l, Seconds: table.Seconds(l)})
	}
	return s
}

// JSONReporter writes an Envelope holding a Summary.
type JSONReporter struct {
	w         io.Writer
	chartPath string
	compact   bool
	now       func() time.Time
}

// NewJSONReporter writes to w. chartPath is echoed in the summary.
func NewJSONReporter(w io.Writer, chartPath string, compact bool) *JSONReporter {
	return &JSONReporter{w: w, chartPath: chartPath, compact: compact, now: time.Now}
}

// Report encodes the summary.
func (j *JSONReporter) Report(_ context.Context, table *benchmark.ResultTable) error {
	if table == nil {
		return &benchmark.StageError{Stage: benchmark.StageRender, Err: ErrNilTable}
	}
	if err := table.Validate(); err != nil {
		return &benchmark.StageError{Stage: benchmark.StageRender, Err: err}
	}

	env := Envelope{
		APIVersion: APIVersion,
		Command:    "run",
		RunID:      table.RunID,
		Timestamp:  j.now(),
		DurationMs: table.Duration.Milliseconds(),
		Success:    true,
		Data:       NewSummary(table, j.chartPath),
	}
	if err := WriteJSON(j.w, env, j.compact); err != nil {
		return &benchmark.StageError{Stage: benchmark.StageIO, Err: err}
	}
	return nil
}

// WriteJSON encodes v to w, indented unless compact.
func WriteJSON(w io.Writer, v any, compact bool) error {
	enc := json.NewEncoder(w)
	if !compact {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}
