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
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SDash07/Algorithm-Efficiency-and-Scalability/services/benchmark"
)

func TestConsoleReporter_Report(t *testing.T) {
	var buf bytes.Buffer
	rep := NewConsoleReporter(&buf)

	require.NoError(t, rep.Report(context.Background(), sampleTable()))
	out := buf.String()

	for _, want := range []string{
		"Quicksort timings (random data)",
		"Size", "Randomized (s)", "Deterministic (s)", "Speedup",
		"1000", "2000",
		"0.002000", "0.012000",
		"1.50x", "3.00x",
	} {
		assert.Contains(t, out, want)
	}
	assert.NotContains(t, out, "\x1b[", "no ANSI codes when writing to a buffer")
}

func TestConsoleReporter_NoSpeedupForCustomSeries(t *testing.T) {
	table := benchmark.NewResultTable([]int{5}, "Only")
	table.Append("Only", time.Second)

	out := NewConsoleReporter(&bytes.Buffer{}).Render(table)
	assert.Contains(t, out, "Only (s)")
	assert.NotContains(t, out, "Speedup")
}

func TestConsoleReporter_BadTables(t *testing.T) {
	rep := NewConsoleReporter(&bytes.Buffer{})

	assert.ErrorIs(t, rep.Report(context.Background(), nil), benchmark.ErrRender)

	short := sampleTable()
	short.Sizes = append(short.Sizes, 4000)
	assert.ErrorIs(t, rep.Report(context.Background(), short), benchmark.ErrLengthMismatch)
}

func TestSpeedup(t *testing.T) {
	tests := []struct {
		rnd, det float64
		want     string
	}{
		{1, 2, "2.00x"},
		{2, 1, "0.50x"},
		{0.003, 0.003, "1.00x"},
		{0, 1, "n/a"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Speedup(tt.rnd, tt.det))
	}
}
