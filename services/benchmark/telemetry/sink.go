// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package telemetry

import (
	"context"
	"errors"
	"sync"
	"time"
)

// -----------------------------------------------------------------------------
// Errors
// -----------------------------------------------------------------------------

var (
	// ErrNilContext is returned when a nil context is passed.
	ErrNilContext = errors.New("context must not be nil")

	// ErrNilData is returned when nil data is passed to a Record method.
	ErrNilData = errors.New("data must not be nil")

	// ErrSinkClosed is returned when recording to a closed sink.
	ErrSinkClosed = errors.New("sink is closed")

	// ErrUnknownExporter is returned by Init for an unsupported exporter name.
	ErrUnknownExporter = errors.New("unknown exporter")
)

// -----------------------------------------------------------------------------
// Data
// -----------------------------------------------------------------------------

// MeasurementData describes one timed sort.
type MeasurementData struct {
	// RunID correlates measurements from the same invocation.
	RunID string

	// Algorithm is the sorter label, e.g. "Randomized".
	Algorithm string

	// Size is the input length.
	Size int

	// Shape is the dataset shape that was sorted.
	Shape string

	// Elapsed is the wall-clock time of the sort.
	Elapsed time.Duration

	// Timestamp is when the sort started.
	Timestamp time.Time
}

// RunData summarizes a completed benchmark run.
type RunData struct {
	RunID      string
	Sizes      []int
	Algorithms []string
	Shape      string

	// Duration covers generation and every measurement.
	Duration time.Duration

	Timestamp time.Time
}

// ErrorData describes a failure during a run.
type ErrorData struct {
	RunID     string
	Component string
	Operation string
	ErrorType string
	Message   string
	Timestamp time.Time
}

// -----------------------------------------------------------------------------
// Sink
// -----------------------------------------------------------------------------

// Sink receives benchmark telemetry.
//
// Implementations must be safe for concurrent use. Record methods return
// ErrNilContext, ErrNilData, or ErrSinkClosed for invalid calls.
type Sink interface {
	RecordMeasurement(ctx context.Context, data *MeasurementData) error
	RecordRun(ctx context.Context, data *RunData) error
	RecordError(ctx context.Context, data *ErrorData) error
	Flush(ctx context.Context) error
	Close() error
}

// NoOpSink discards everything. Its zero value is ready to use.
type NoOpSink struct{}

// NewNoOpSink returns a sink that discards all telemetry.
func NewNoOpSink() *NoOpSink { return &NoOpSink{} }

// RecordMeasurement discards the measurement.
func (NoOpSink) RecordMeasurement(ctx context.Context, data *MeasurementData) error {
	return checkArgs(ctx, data == nil)
}

// RecordRun discards the run summary.
func (NoOpSink) RecordRun(ctx context.Context, data *RunData) error {
	return checkArgs(ctx, data == nil)
}

// RecordError discards the error.
func (NoOpSink) RecordError(ctx context.Context, data *ErrorData) error {
	return checkArgs(ctx, data == nil)
}

// Flush is a no-op.
func (NoOpSink) Flush(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// Close is a no-op.
func (NoOpSink) Close() error { return nil }

// CompositeSink fans every call out to a fixed list of sinks.
//
// Description:
//
//	Every sink receives every call even if an earlier one fails; the
//	returned error joins all failures.
//
// Thread Safety: Safe for concurrent use.
type CompositeSink struct {
	sinks []Sink

	mu     sync.RWMutex
	closed bool
}

// NewCompositeSink combines sinks. Nil entries are skipped.
func NewCompositeSink(sinks ...Sink) *CompositeSink {
	kept := make([]Sink, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			kept = append(kept, s)
		}
	}
	return &CompositeSink{sinks: kept}
}

// Len returns the number of wrapped sinks.
func (c *CompositeSink) Len() int {
	return len(c.sinks)
}

// RecordMeasurement forwards to every sink.
func (c *CompositeSink) RecordMeasurement(ctx context.Context, data *MeasurementData) error {
	if err := c.guard(ctx, data == nil); err != nil {
		return err
	}
	return c.each(func(s Sink) error { return s.RecordMeasurement(ctx, data) })
}

// RecordRun forwards to every sink.
func (c *CompositeSink) RecordRun(ctx context.Context, data *RunData) error {
	if err := c.guard(ctx, data == nil); err != nil {
		return err
	}
	return c.each(func(s Sink) error { return s.RecordRun(ctx, data) })
}

// RecordError forwards to every sink.
func (c *CompositeSink) RecordError(ctx context.Context, data *ErrorData) error {
	if err := c.guard(ctx, data == nil); err != nil {
		return err
	}
	return c.each(func(s Sink) error { return s.RecordError(ctx, data) })
}

// Flush flushes every sink.
func (c *CompositeSink) Flush(ctx context.Context) error {
	if err := c.guard(ctx, false); err != nil {
		return err
	}
	return c.each(func(s Sink) error { return s.Flush(ctx) })
}

// Close closes every sink. Idempotent.
func (c *CompositeSink) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.mu.Unlock()

	return c.each(func(s Sink) error { return s.Close() })
}

func (c *CompositeSink) guard(ctx context.Context, nilData bool) error {
	if err := checkArgs(ctx, nilData); err != nil {
		return err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return ErrSinkClosed
	}
	return nil
}

func (c *CompositeSink) each(fn func(Sink) error) error {
	var errs []error
	for _, s := range c.sinks {
		if err := fn(s); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func checkArgs(ctx context.Context, nilData bool) error {
	if ctx == nil {
		return ErrNilContext
	}
	if nilData {
		return ErrNilData
	}
	return nil
}

// Verify interface compliance at compile time.
var (
	_ Sink = (*NoOpSink)(nil)
	_ Sink = (*CompositeSink)(nil)
)
