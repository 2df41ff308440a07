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

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/SDash07/Algorithm-Efficiency-and-Scalability/services/benchmark/telemetry"

var (
	// ErrOTelInitFailed is returned when instrument creation fails.
	ErrOTelInitFailed = errors.New("opentelemetry initialization failed")

	// ErrInvalidOTelConfig is returned when the OTel configuration is invalid.
	ErrInvalidOTelConfig = errors.New("invalid opentelemetry configuration")
)

// OTelConfig configures the OpenTelemetry sink.
//
// Thread Safety: Immutable after creation; safe for concurrent read access.
type OTelConfig struct {
	// ServiceVersion is recorded as the instrumentation version.
	ServiceVersion string

	// TracerProvider defaults to the global provider when nil.
	TracerProvider trace.TracerProvider

	// MeterProvider defaults to the global provider when nil.
	MeterProvider metric.MeterProvider

	// TraceEnabled enables span creation. Default: true.
	TraceEnabled bool

	// MetricsEnabled enables metric recording. Default: true.
	MetricsEnabled bool
}

// DefaultOTelConfig returns a configuration using the global providers.
func DefaultOTelConfig() *OTelConfig {
	return &OTelConfig{
		ServiceVersion: "1.0.0",
		TraceEnabled:   true,
		MetricsEnabled: true,
	}
}

// OTelSink exports measurements as spans and metrics.
//
// Description:
//
//	Each measurement becomes a "sortbench.sort" span carrying the
//	algorithm, size, shape, and elapsed seconds, and is recorded on the
//	sortbench.sort.duration histogram. The sink does not own the providers;
//	shut them down through Providers.Shutdown.
//
// Thread Safety: Safe for concurrent use.
type OTelSink struct {
	config *OTelConfig
	tracer trace.Tracer
	meter  metric.Meter

	sortDuration metric.Float64Histogram
	measurements metric.Int64Counter
	runDuration  metric.Float64Histogram
	errorsTotal  metric.Int64Counter

	mu     sync.RWMutex
	closed bool
}

// NewOTelSink creates a sink from config.
//
// Inputs:
//   - config: Must not be nil.
//
// Outputs:
//   - *OTelSink: Never nil on success.
//   - error: ErrInvalidOTelConfig or ErrOTelInitFailed.
func NewOTelSink(config *OTelConfig) (*OTelSink, error) {
	if config == nil {
		return nil, ErrInvalidOTelConfig
	}
	cfg := *config

	tp := cfg.TracerProvider
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	mp := cfg.MeterProvider
	if mp == nil {
		mp = otel.GetMeterProvider()
	}

	sink := &OTelSink{
		config: &cfg,
		tracer: tp.Tracer(instrumentationName, trace.WithInstrumentationVersion(cfg.ServiceVersion)),
		meter:  mp.Meter(instrumentationName, metric.WithInstrumentationVersion(cfg.ServiceVersion)),
	}

	if cfg.MetricsEnabled {
		if err := sink.initializeMetrics(); err != nil {
			return nil, errors.Join(ErrOTelInitFailed, err)
		}
	}
	return sink, nil
}

func (s *OTelSink) initializeMetrics() error {
	var err error

	s.sortDuration, err = s.meter.Float64Histogram(
		"sortbench.sort.duration",
		metric.WithDescription("Wall-clock time of a single sort in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return err
	}

	s.measurements, err = s.meter.Int64Counter(
		"sortbench.measurements",
		metric.WithDescription("Total timed sorts"),
		metric.WithUnit("{measurement}"),
	)
	if err != nil {
		return err
	}

	s.runDuration, err = s.meter.Float64Histogram(
		"sortbench.run.duration",
		metric.WithDescription("Total benchmark run duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return err
	}

	s.errorsTotal, err = s.meter.Int64Counter(
		"sortbench.errors",
		metric.WithDescription("Total benchmark errors"),
		metric.WithUnit("{error}"),
	)
	return err
}

// RecordMeasurement records one timed sort.
func (s *OTelSink) RecordMeasurement(ctx context.Context, data *MeasurementData) error {
	if err := s.guard(ctx, data == nil); err != nil {
		return err
	}

	attrs := []attribute.KeyValue{
		attribute.String("sortbench.algorithm", data.Algorithm),
		attribute.Int("sortbench.size", data.Size),
		attribute.String("sortbench.shape", data.Shape),
	}

	if s.config.TraceEnabled {
		_, span := s.tracer.Start(ctx, "sortbench.sort",
			trace.WithAttributes(attrs...),
			trace.WithAttributes(attribute.String("sortbench.run_id", data.RunID)),
			trace.WithTimestamp(data.Timestamp),
		)
		span.SetAttributes(attribute.Float64("sortbench.elapsed_seconds", data.Elapsed.Seconds()))
		span.End(trace.WithTimestamp(data.Timestamp.Add(data.Elapsed)))
	}

	if s.config.MetricsEnabled {
		set := metric.WithAttributes(attrs...)
		s.sortDuration.Record(ctx, data.Elapsed.Seconds(), set)
		s.measurements.Add(ctx, 1, set)
	}
	return nil
}

// RecordRun records a completed run.
func (s *OTelSink) RecordRun(ctx context.Context, data *RunData) error {
	if err := s.guard(ctx, data == nil); err != nil {
		return err
	}

	if s.config.TraceEnabled {
		_, span := s.tracer.Start(ctx, "sortbench.run",
			trace.WithAttributes(
				attribute.String("sortbench.run_id", data.RunID),
				attribute.IntSlice("sortbench.sizes", data.Sizes),
				attribute.StringSlice("sortbench.algorithms", data.Algorithms),
				attribute.String("sortbench.shape", data.Shape),
			),
			trace.WithTimestamp(data.Timestamp),
		)
		span.End(trace.WithTimestamp(data.Timestamp.Add(data.Duration)))
	}

	if s.config.MetricsEnabled {
		s.runDuration.Record(ctx, data.Duration.Seconds(),
			metric.WithAttributes(attribute.String("sortbench.shape", data.Shape)))
	}
	return nil
}

// RecordError records a failure.
func (s *OTelSink) RecordError(ctx context.Context, data *ErrorData) error {
	if err := s.guard(ctx, data == nil); err != nil {
		return err
	}

	component := orUnknown(data.Component)
	operation := orUnknown(data.Operation)
	errorType := orUnknown(data.ErrorType)

	if s.config.TraceEnabled {
		_, span := s.tracer.Start(ctx, "sortbench.error",
			trace.WithAttributes(
				attribute.String("sortbench.run_id", data.RunID),
				attribute.String("error.component", component),
				attribute.String("error.operation", operation),
				attribute.String("error.type", errorType),
				attribute.String("error.message", data.Message),
			),
			trace.WithTimestamp(data.Timestamp),
		)
		span.SetStatus(codes.Error, data.Message)
		span.End()
	}

	if s.config.MetricsEnabled {
		s.errorsTotal.Add(ctx, 1, metric.WithAttributes(
			attribute.String("component", component),
			attribute.String("operation", operation),
			attribute.String("error_type", errorType),
		))
	}
	return nil
}

// Flush is a no-op; the providers own export.
func (s *OTelSink) Flush(ctx context.Context) error {
	return s.guard(ctx, false)
}

// Close marks the sink closed. Idempotent. Providers are left running.
func (s *OTelSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *OTelSink) guard(ctx context.Context, nilData bool) error {
	if err := checkArgs(ctx, nilData); err != nil {
		return err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrSinkClosed
	}
	return nil
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}

var _ Sink = (*OTelSink)(nil)
