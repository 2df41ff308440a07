// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package benchmark

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math"
	"math/rand/v2"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SDash07/Algorithm-Efficiency-and-Scalability/pkg/dataset"
	"github.com/SDash07/Algorithm-Efficiency-and-Scalability/pkg/quicksort"
	"github.com/SDash07/Algorithm-Efficiency-and-Scalability/services/benchmark/telemetry"
)

// -----------------------------------------------------------------------------
// Test helpers
// -----------------------------------------------------------------------------

// recordingSink captures everything the runner sends to telemetry.
type recordingSink struct {
	mu           sync.Mutex
	measurements []telemetry.MeasurementData
	runs         []telemetry.RunData
	errs         []telemetry.ErrorData
}

func (s *recordingSink) RecordMeasurement(_ context.Context, d *telemetry.MeasurementData) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.measurements = append(s.measurements, *d)
	return nil
}

func (s *recordingSink) RecordRun(_ context.Context, d *telemetry.RunData) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs = append(s.runs, *d)
	return nil
}

func (s *recordingSink) RecordError(_ context.Context, d *telemetry.ErrorData) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errs = append(s.errs, *d)
	return nil
}

func (s *recordingSink) Flush(context.Context) error { return nil }
func (s *recordingSink) Close() error                { return nil }

// fixedGenerator fills Random with a fixed pattern and leaves the other shapes zeroed.
type fixedGenerator struct{}

func (fixedGenerator) Generate(sizes []int) []dataset.Dataset {
	out := make([]dataset.Dataset, len(sizes))
	for i, n := range sizes {
		random := make([]int, n)
		for j := range random {
			random[j] = (j*7 + 3) % (n + 1)
		}
		out[i] = dataset.Dataset{Size: n, Random: random, Sorted: make([]int, n), Reverse: make([]int, n), Duplicates: make([]int, n)}
	}
	return out
}

// steppingClock advances by step on every call.
func steppingClock(step time.Duration) func() time.Time {
	var mu sync.Mutex
	now := time.Unix(0, 0)
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		now = now.Add(step)
		return now
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig(t *testing.T, sizes ...int) *Config {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Sizes = sizes
	cfg.OutputDir = filepath.Join(t.TempDir(), "plots")
	seed := uint64(42)
	cfg.Seed = &seed
	return cfg
}

// -----------------------------------------------------------------------------
// NewRunner
// -----------------------------------------------------------------------------

func TestNewRunner_InvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Sizes = []int{0}

	_, err := NewRunner(cfg)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestNewRunner_Defaults(t *testing.T) {
	r, err := NewRunner(testConfig(t, 10))
	require.NoError(t, err)

	assert.Equal(t, []string{LabelRandomized, LabelDeterministic}, r.Labels())
	assert.NotEmpty(t, r.RunID())
}

func TestNewRunner_RejectsBadSorters(t *testing.T) {
	ok := Sorter{Label: "A", Sort: quicksort.Deterministic[int]}

	tests := map[string][]Sorter{
		"duplicate label": {ok, ok},
		"empty label":     {{Label: "", Sort: quicksort.Deterministic[int]}},
		"nil func":        {{Label: "B"}},
	}
	for name, sorters := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := NewRunner(testConfig(t, 10), WithSorters(sorters...))
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

// -----------------------------------------------------------------------------
// Measure
// -----------------------------------------------------------------------------

func TestMeasure_AlignmentTwoSizes(t *testing.T) {
	r, err := NewRunner(testConfig(t, 100, 200), WithLogger(discardLogger()))
	require.NoError(t, err)

	table, err := r.Measure(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []int{100, 200}, table.Sizes)
	for _, label := range []string{LabelRandomized, LabelDeterministic} {
		series := table.Elapsed[label]
		require.Len(t, series, 2, label)
		for _, d := range series {
			assert.GreaterOrEqual(t, d, time.Duration(0))
		}
		for _, s := range table.Seconds(label) {
			assert.False(t, math.IsNaN(s) || math.IsInf(s, 0))
			assert.GreaterOrEqual(t, s, 0.0)
		}
	}
	assert.Equal(t, r.RunID(), table.RunID)
	assert.Equal(t, dataset.ShapeRandom, table.Shape)
}

func TestMeasure_UsesInjectedClock(t *testing.T) {
	r, err := NewRunner(testConfig(t, 5, 6, 7),
		WithClock(steppingClock(time.Millisecond)),
		WithLogger(discardLogger()),
	)
	require.NoError(t, err)

	table, err := r.Measure(context.Background())
	require.NoError(t, err)

	for _, label := range table.Labels {
		assert.Equal(t, []time.Duration{time.Millisecond, time.Millisecond, time.Millisecond}, table.Elapsed[label])
	}
}

func TestMeasure_SortersSeeIndependentCopies(t *testing.T) {
	gen := fixedGenerator{}
	want := gen.Generate([]int{50})[0].Random

	var received [][]int
	mutating := Sorter{Label: "Mutating", Sort: func(s []int) []int {
		received = append(received, slices.Clone(s))
		slices.Reverse(s)
		for i := range s {
			s[i] = -1
		}
		return s
	}}
	observing := Sorter{Label: "Observing", Sort: func(s []int) []int {
		received = append(received, slices.Clone(s))
		return s
	}}

	r, err := NewRunner(testConfig(t, 50),
		WithGenerator(gen),
		WithSorters(mutating, observing),
		WithLogger(discardLogger()),
	)
	require.NoError(t, err)

	_, err = r.Measure(context.Background())
	require.NoError(t, err)

	require.Len(t, received, 2)
	assert.Equal(t, want, received[0])
	assert.Equal(t, want, received[1], "second sorter must see unmodified data")
}

func TestMeasure_UsesConfiguredShape(t *testing.T) {
	cfg := testConfig(t, 8)
	cfg.Shape = dataset.ShapeReverse

	var got []int
	capture := Sorter{Label: "Capture", Sort: func(s []int) []int {
		got = slices.Clone(s)
		return s
	}}

	r, err := NewRunner(cfg, WithSorters(capture), WithLogger(discardLogger()))
	require.NoError(t, err)

	_, err = r.Measure(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int{8, 7, 6, 5, 4, 3, 2, 1}, got)
}

func TestMeasure_SeededRunsSeeSameData(t *testing.T) {
	capture := func(dst *[][]int) Sorter {
		return Sorter{Label: "Capture", Sort: func(s []int) []int {
			*dst = append(*dst, slices.Clone(s))
			return s
		}}
	}

	var first, second [][]int
	r1, err := NewRunner(testConfig(t, 20, 40), WithSorters(capture(&first)), WithLogger(discardLogger()))
	require.NoError(t, err)
	r2, err := NewRunner(testConfig(t, 20, 40), WithSorters(capture(&second)), WithLogger(discardLogger()))
	require.NoError(t, err)

	_, err = r1.Measure(context.Background())
	require.NoError(t, err)
	_, err = r2.Measure(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestMeasure_SortPanicBecomesSortError(t *testing.T) {
	boom := Sorter{Label: "Boom", Sort: func(s []int) []int {
		panic("kaboom")
	}}

	r, err := NewRunner(testConfig(t, 10), WithSorters(boom), WithLogger(discardLogger()))
	require.NoError(t, err)

	table, err := r.Measure(context.Background())
	assert.Nil(t, table)
	require.ErrorIs(t, err, ErrSortFailed)

	var sortErr *SortError
	require.True(t, errors.As(err, &sortErr))
	assert.Equal(t, "Boom", sortErr.Sorter)
	assert.Equal(t, 10, sortErr.Size)
	assert.Equal(t, "kaboom", sortErr.Panic)
}

func TestMeasure_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r, err := NewRunner(testConfig(t, 10), WithLogger(discardLogger()))
	require.NoError(t, err)

	_, err = r.Measure(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMeasure_NilContext(t *testing.T) {
	r, err := NewRunner(testConfig(t, 10), WithLogger(discardLogger()))
	require.NoError(t, err)

	//nolint:staticcheck // nil context is the case under test
	_, err = r.Measure(nil)
	assert.ErrorIs(t, err, ErrNilContext)
}

func TestMeasure_RecordsTelemetry(t *testing.T) {
	sink := &recordingSink{}
	r, err := NewRunner(testConfig(t, 10, 20), WithSink(sink), WithRunID("run-1"), WithLogger(discardLogger()))
	require.NoError(t, err)

	_, err = r.Measure(context.Background())
	require.NoError(t, err)

	require.Len(t, sink.measurements, 4)
	assert.Equal(t, "run-1", sink.measurements[0].RunID)
	assert.Equal(t, LabelRandomized, sink.measurements[0].Algorithm)
	assert.Equal(t, LabelDeterministic, sink.measurements[1].Algorithm)
	assert.Equal(t, 20, sink.measurements[3].Size)
	assert.Equal(t, "random", sink.measurements[3].Shape)
}

// -----------------------------------------------------------------------------
// Run
// -----------------------------------------------------------------------------

func TestRun_CreatesDirAndReports(t *testing.T) {
	cfg := testConfig(t, 10, 20)
	sink := &recordingSink{}

	var reported *ResultTable
	rep := ReporterFunc(func(_ context.Context, table *ResultTable) error {
		info, err := os.Stat(cfg.OutputDir)
		require.NoError(t, err)
		assert.True(t, info.IsDir(), "output dir must exist before reporting")
		reported = table
		return nil
	})

	r, err := NewRunner(cfg, WithReporter(rep), WithSink(sink), WithLogger(discardLogger()))
	require.NoError(t, err)

	table, err := r.Run(context.Background())
	require.NoError(t, err)
	assert.Same(t, table, reported)

	require.Len(t, sink.runs, 1)
	assert.Equal(t, []int{10, 20}, sink.runs[0].Sizes)
	assert.Equal(t, []string{LabelRandomized, LabelDeterministic}, sink.runs[0].Algorithms)
	assert.Empty(t, sink.errs)
}

func TestRun_ExistingDirIsFine(t *testing.T) {
	cfg := testConfig(t, 10)
	require.NoError(t, os.MkdirAll(cfg.OutputDir, 0o755))

	r, err := NewRunner(cfg, WithLogger(discardLogger()))
	require.NoError(t, err)

	_, err = r.Run(context.Background())
	assert.NoError(t, err)
}

func TestRun_OutputDirFailure(t *testing.T) {
	cfg := testConfig(t, 10)
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))
	cfg.OutputDir = filepath.Join(blocker, "plots")

	called := false
	rep := ReporterFunc(func(context.Context, *ResultTable) error {
		called = true
		return nil
	})
	sink := &recordingSink{}

	r, err := NewRunner(cfg, WithReporter(rep), WithSink(sink), WithLogger(discardLogger()))
	require.NoError(t, err)

	_, err = r.Run(context.Background())
	require.ErrorIs(t, err, ErrIO)

	var stageErr *StageError
	require.True(t, errors.As(err, &stageErr))
	assert.Equal(t, cfg.OutputDir, stageErr.Path)
	assert.False(t, called, "reporter must not run without an output directory")

	require.Len(t, sink.errs, 1)
	assert.Equal(t, "io", sink.errs[0].ErrorType)
}

func TestRun_ReporterErrorPropagates(t *testing.T) {
	renderErr := &StageError{Stage: StageRender, Err: errors.New("no font")}
	rep := ReporterFunc(func(context.Context, *ResultTable) error { return renderErr })
	sink := &recordingSink{}

	r, err := NewRunner(testConfig(t, 10), WithReporter(rep), WithSink(sink), WithLogger(discardLogger()))
	require.NoError(t, err)

	table, err := r.Run(context.Background())
	require.ErrorIs(t, err, ErrRender)
	assert.NotNil(t, table, "measurements survive a report failure")

	require.Len(t, sink.errs, 1)
	assert.Equal(t, "report", sink.errs[0].Component)
	assert.Empty(t, sink.runs)
}

func TestRun_CancelledStillRecordsError(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	sink := &recordingSink{}

	r, err := NewRunner(testConfig(t, 10), WithSink(sink), WithLogger(discardLogger()))
	require.NoError(t, err)

	_, err = r.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
	require.Len(t, sink.errs, 1)
	assert.Equal(t, "measure", sink.errs[0].Operation)
}

func TestWithSource_SharesRandomness(t *testing.T) {
	src := rand.New(rand.NewPCG(7, 7))
	r, err := NewRunner(testConfig(t, 30), WithSource(src), WithLogger(discardLogger()))
	require.NoError(t, err)

	table, err := r.Measure(context.Background())
	require.NoError(t, err)
	assert.NoError(t, table.Validate())
}

// -----------------------------------------------------------------------------
// Benchmarks
// -----------------------------------------------------------------------------

func BenchmarkRunner_Measure(b *testing.B) {
	cfg := DefaultConfig()
	cfg.Sizes = []int{1000, 2000}
	r, err := NewRunner(cfg, WithLogger(discardLogger()))
	if err != nil {
		b.Fatal(err)
	}
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := r.Measure(ctx); err != nil {
			b.Fatal(err)
		}
	}
}
