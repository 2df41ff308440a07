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
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/SDash07/Algorithm-Efficiency-and-Scalability/pkg/dataset"
	"github.com/SDash07/Algorithm-Efficiency-and-Scalability/services/benchmark/telemetry"
)

// =============================================================================
// RUNNER OPTIONS
// =============================================================================

// Option configures a Runner.
type Option func(*Runner)

// WithSorters replaces the default randomized/deterministic pair.
//
// Inputs:
//
//	sorters - Sorters in series order. Labels must be unique.
//
// Outputs:
//
//	Option - The configuration function.
func WithSorters(sorters ...Sorter) Option {
	return func(r *Runner) {
		r.sorters = slices.Clone(sorters)
	}
}

// WithGenerator replaces the dataset generator.
func WithGenerator(g DatasetGenerator) Option {
	return func(r *Runner) {
		r.generator = g
	}
}

// WithSource sets the random source shared by the default generator and the
// randomized sorter. Overrides Config.Seed.
func WithSource(src *rand.Rand) Option {
	return func(r *Runner) {
		r.rng = src
	}
}

// WithReporter sets the reporter invoked by Run.
func WithReporter(rep Reporter) Option {
	return func(r *Runner) {
		r.reporter = rep
	}
}

// WithSink sets the telemetry sink. Defaults to a no-op sink.
func WithSink(sink telemetry.Sink) Option {
	return func(r *Runner) {
		r.sink = sink
	}
}

// WithLogger sets the structured logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		r.logger = logger
	}
}

// WithClock replaces time.Now for measurement.
func WithClock(now func() time.Time) Option {
	return func(r *Runner) {
		r.now = now
	}
}

// WithRunID sets the run identifier. Defaults to a random UUID.
func WithRunID(id string) Option {
	return func(r *Runner) {
		r.runID = id
	}
}

// =============================================================================
// RUNNER
// =============================================================================

// Runner drives the generator, the sorters, and the reporter.
//
// Description:
//
//	A Runner measures every sorter on every configured size exactly once.
//	Each sorter gets its own copy of the dataset, and the table passed to
//	the reporter always has one entry per size per sorter.
//
// Thread Safety: Not safe for concurrent use.
type Runner struct {
	cfg       *Config
	sorters   []Sorter
	generator DatasetGenerator
	rng       *rand.Rand
	reporter  Reporter
	sink      telemetry.Sink
	logger    *slog.Logger
	now       func() time.Time
	runID     string
}

// NewRunner validates cfg and builds a Runner.
//
// Description:
//
//	Unset collaborators get defaults: a PCG source seeded from cfg.Seed (or
//	OS entropy when nil), a dataset.Generator and the DefaultSorters sharing
//	that source, a no-op telemetry sink, slog.Default(), and time.Now.
//
// Inputs:
//
//	cfg - Benchmark configuration. Must pass Validate.
//	opts - Optional overrides.
//
// Outputs:
//
//	*Runner - Ready to run.
//	error - Matches ErrInvalidConfig when cfg is invalid.
func NewRunner(cfg *Config, opts ...Option) (*Runner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	r := &Runner{cfg: cfg}
	for _, opt := range opts {
		opt(r)
	}

	if r.rng == nil {
		r.rng = newSource(cfg.Seed)
	}
	if r.generator == nil {
		r.generator = dataset.NewGenerator(r.rng)
	}
	if len(r.sorters) == 0 {
		r.sorters = DefaultSorters(r.rng)
	}
	if r.sink == nil {
		r.sink = telemetry.NewNoOpSink()
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	if r.now == nil {
		r.now = time.Now
	}
	if r.runID == "" {
		r.runID = uuid.NewString()
	}
	r.logger = r.logger.With(slog.String("run_id", r.runID))

	seen := make(map[string]bool, len(r.sorters))
	for _, s := range r.sorters {
		if s.Label == "" || s.Sort == nil || seen[s.Label] {
			return nil, &StageError{Stage: StageConfig, Err: fmt.Errorf("sorter %q is unnamed, nil, or duplicated", s.Label)}
		}
		seen[s.Label] = true
	}
	return r, nil
}

// newSource returns a PCG generator. A nil seed draws both PCG words from
// the runtime's entropy-seeded global source.
func newSource(seed *uint64) *rand.Rand {
	if seed == nil {
		return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return rand.New(rand.NewPCG(*seed, *seed))
}

// RunID returns the identifier attached to logs, telemetry, and results.
func (r *Runner) RunID() string {
	return r.runID
}

// Labels returns the series labels in sorter order.
func (r *Runner) Labels() []string {
	labels := make([]string, len(r.sorters))
	for i, s := range r.sorters {
		labels[i] = s.Label
	}
	return labels
}

// Measure times every sorter on every configured size.
//
// Description:
//
//	Datasets are generated once for all sizes. For each size in order, the
//	configured shape is taken and every sorter runs on its own clone of it.
//	The context is checked before each size, so cancellation stops the run
//	between sizes rather than mid-sort.
//
// Inputs:
//
//	ctx - Cancellation. Must not be nil.
//
// Outputs:
//
//	*ResultTable - Aligned timings. Nil on error.
//	error - ctx.Err(), a *SortError, or ErrLengthMismatch.
func (r *Runner) Measure(ctx context.Context) (*ResultTable, error) {
	if ctx == nil {
		return nil, ErrNilContext
	}

	started := r.now()
	table := NewResultTable(r.cfg.Sizes, r.Labels()...)
	table.RunID = r.runID
	table.Shape = r.cfg.Shape
	table.StartedAt = started

	r.logger.Info("Generating datasets",
		slog.Any("sizes", r.cfg.Sizes),
		slog.String("shape", string(r.cfg.Shape)))
	datasets := r.generator.Generate(r.cfg.Sizes)
	if len(datasets) != len(r.cfg.Sizes) {
		return nil, fmt.Errorf("%w: generator returned %d datasets for %d sizes",
			ErrLengthMismatch, len(datasets), len(r.cfg.Sizes))
	}

	for i, ds := range datasets {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		size := r.cfg.Sizes[i]
		data, err := ds.Get(r.cfg.Shape)
		if err != nil {
			return nil, &StageError{Stage: StageConfig, Err: err}
		}

		for _, s := range r.sorters {
			at := r.now()
			elapsed, err := r.timeSort(s, data, size)
			if err != nil {
				return nil, err
			}
			table.Append(s.Label, elapsed)

			r.logger.Debug("Measured sort",
				slog.String("algorithm", s.Label),
				slog.Int("size", size),
				slog.Duration("elapsed", elapsed))
			r.record(ctx, &telemetry.MeasurementData{
				RunID:     r.runID,
				Algorithm: s.Label,
				Size:      size,
				Shape:     string(r.cfg.Shape),
				Elapsed:   elapsed,
				Timestamp: at,
			})
		}
	}

	table.Duration = r.now().Sub(started)
	if err := table.Validate(); err != nil {
		return nil, err
	}
	return table, nil
}

// timeSort runs one sorter on a private copy of data.
func (r *Runner) timeSort(s Sorter, data []int, size int) (elapsed time.Duration, err error) {
	input := slices.Clone(data)
	defer func() {
		if p := recover(); p != nil {
			elapsed = 0
			err = &SortError{Sorter: s.Label, Size: size, Panic: p}
		}
	}()

	start := r.now()
	s.Sort(input)
	elapsed = r.now().Sub(start)
	if elapsed < 0 {
		elapsed = 0
	}
	return elapsed, nil
}

// EnsureOutputDir creates the chart directory. Idempotent.
//
// Outputs:
//
//	error - A *StageError matching ErrIO on failure.
func (r *Runner) EnsureOutputDir() error {
	if err := os.MkdirAll(r.cfg.OutputDir, 0o755); err != nil {
		return &StageError{Stage: StageIO, Path: r.cfg.OutputDir, Err: err}
	}
	return nil
}

// Run measures, prepares the output directory, and reports.
//
// Description:
//
//	Every failure is returned; nothing is retried. The telemetry sink sees
//	the failure before Run returns, and the completed run otherwise.
//
// Inputs:
//
//	ctx - Cancellation. Must not be nil.
//
// Outputs:
//
//	*ResultTable - The reported table. Nil if measurement failed.
//	error - From Measure, EnsureOutputDir, or the reporter.
func (r *Runner) Run(ctx context.Context) (*ResultTable, error) {
	if ctx == nil {
		return nil, ErrNilContext
	}
	started := r.now()

	table, err := r.Measure(ctx)
	if err != nil {
		r.fail(ctx, "runner", "measure", err)
		return nil, err
	}

	if err := r.EnsureOutputDir(); err != nil {
		r.fail(ctx, "runner", "ensure_output_dir", err)
		return table, err
	}

	if r.reporter == nil {
		r.logger.Debug("No reporter configured; skipping report")
	} else if err := r.reporter.Report(ctx, table); err != nil {
		r.fail(ctx, "report", "report", err)
		return table, err
	}

	duration := r.now().Sub(started)
	if err := r.sink.RecordRun(ctx, &telemetry.RunData{
		RunID:      r.runID,
		Sizes:      slices.Clone(r.cfg.Sizes),
		Algorithms: r.Labels(),
		Shape:      string(r.cfg.Shape),
		Duration:   duration,
		Timestamp:  started,
	}); err != nil {
		r.logger.Warn("Failed to record run telemetry", slog.String("error", err.Error()))
	}

	r.logger.Info("Benchmark complete",
		slog.Int("sizes", len(table.Sizes)),
		slog.Duration("duration", duration))
	return table, nil
}

// record forwards a measurement to the sink. Telemetry failures are logged
// and never fail the run.
func (r *Runner) record(ctx context.Context, m *telemetry.MeasurementData) {
	if err := r.sink.RecordMeasurement(ctx, m); err != nil {
		r.logger.Warn("Failed to record measurement telemetry", slog.String("error", err.Error()))
	}
}

func (r *Runner) fail(ctx context.Context, component, operation string, err error) {
	r.logger.Error("Benchmark failed",
		slog.String("component", component),
		slog.String("operation", operation),
		slog.String("error", err.Error()))

	// The caller's context may already be cancelled; the sink still needs
	// to see the failure.
	if recErr := r.sink.RecordError(context.WithoutCancel(ctx), &telemetry.ErrorData{
		RunID:     r.runID,
		Component: component,
		Operation: operation,
		ErrorType: errorType(err),
		Message:   err.Error(),
		Timestamp: r.now(),
	}); recErr != nil {
		r.logger.Warn("Failed to record error telemetry", slog.String("error", recErr.Error()))
	}
}
