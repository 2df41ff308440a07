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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// newTestOTelSink wires a sink to in-memory providers.
func newTestOTelSink(t *testing.T) (*OTelSink, *tracetest.SpanRecorder, *sdkmetric.ManualReader) {
	t.Helper()

	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() {
		_ = tp.Shutdown(context.Background())
		_ = mp.Shutdown(context.Background())
	})

	cfg := DefaultOTelConfig()
	cfg.TracerProvider = tp
	cfg.MeterProvider = mp

	sink, err := NewOTelSink(cfg)
	require.NoError(t, err)
	return sink, recorder, reader
}

func findMetric(rm metricdata.ResourceMetrics, name string) (metricdata.Metrics, bool) {
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name == name {
				return m, true
			}
		}
	}
	return metricdata.Metrics{}, false
}

func TestNewOTelSink_NilConfig(t *testing.T) {
	_, err := NewOTelSink(nil)
	assert.ErrorIs(t, err, ErrInvalidOTelConfig)
}

func TestNewOTelSink_GlobalProviders(t *testing.T) {
	sink, err := NewOTelSink(DefaultOTelConfig())
	require.NoError(t, err)
	require.NotNil(t, sink)
	assert.NoError(t, sink.RecordMeasurement(context.Background(), createTestMeasurement()))
}

func TestOTelSink_RecordMeasurement(t *testing.T) {
	sink, recorder, reader := newTestOTelSink(t)
	ctx := context.Background()

	require.NoError(t, sink.RecordMeasurement(ctx, createTestMeasurement()))

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "sortbench.sort", spans[0].Name())
	assert.Contains(t, spans[0].Attributes(), attribute.String("sortbench.algorithm", "Randomized"))
	assert.Contains(t, spans[0].Attributes(), attribute.Int("sortbench.size", 1000))

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))

	hist, ok := findMetric(rm, "sortbench.sort.duration")
	require.True(t, ok, "duration histogram missing")
	data, ok := hist.Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	require.Len(t, data.DataPoints, 1)
	assert.Equal(t, uint64(1), data.DataPoints[0].Count)
	assert.InDelta(t, 0.003, data.DataPoints[0].Sum, 1e-9)

	_, ok = findMetric(rm, "sortbench.measurements")
	assert.True(t, ok, "measurement counter missing")
}

func TestOTelSink_RecordRunAndError(t *testing.T) {
	sink, recorder, _ := newTestOTelSink(t)
	ctx := context.Background()

	require.NoError(t, sink.RecordRun(ctx, &RunData{RunID: "r", Sizes: []int{1, 2}, Shape: "random"}))
	require.NoError(t, sink.RecordError(ctx, &ErrorData{Component: "report", Message: "disk full"}))

	spans := recorder.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, "sortbench.run", spans[0].Name())
	assert.Equal(t, "sortbench.error", spans[1].Name())
	assert.Equal(t, codes.Error, spans[1].Status().Code)
	assert.Contains(t, spans[1].Attributes(), attribute.String("error.operation", "unknown"))
}

func TestOTelSink_TracingDisabled(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	defer tp.Shutdown(context.Background())

	cfg := DefaultOTelConfig()
	cfg.TracerProvider = tp
	cfg.TraceEnabled = false
	cfg.MetricsEnabled = false

	sink, err := NewOTelSink(cfg)
	require.NoError(t, err)
	require.NoError(t, sink.RecordMeasurement(context.Background(), createTestMeasurement()))
	assert.Empty(t, recorder.Ended())
}

func TestOTelSink_Closed(t *testing.T) {
	sink, _, _ := newTestOTelSink(t)

	require.NoError(t, sink.Close())
	require.NoError(t, sink.Close())

	ctx := context.Background()
	assert.ErrorIs(t, sink.RecordMeasurement(ctx, createTestMeasurement()), ErrSinkClosed)
	assert.ErrorIs(t, sink.Flush(ctx), ErrSinkClosed)
}

func TestOTelSink_NilArguments(t *testing.T) {
	sink, _, _ := newTestOTelSink(t)

	assert.ErrorIs(t, sink.RecordMeasurement(context.Background(), nil), ErrNilData)
	//nolint:staticcheck // nil context is the case under test
	assert.ErrorIs(t, sink.RecordRun(nil, &RunData{}), ErrNilContext)
}
