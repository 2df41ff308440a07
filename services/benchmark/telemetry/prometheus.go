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
	"fmt"
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/push"
)

const metricNamespace = "sortbench"

// ErrNilRegistry is returned when NewPrometheusSink receives a nil registry.
var ErrNilRegistry = errors.New("prometheus registry must not be nil")

// PrometheusSink keeps the latest measurements as Prometheus metrics.
//
// Description:
//
//	Metrics are registered on the supplied registry, which is the same
//	registry the OTel Prometheus exporter writes to when enabled. Push sends
//	everything on that registry to a Pushgateway.
//
// Thread Safety: Safe for concurrent use.
type PrometheusSink struct {
	registry *prometheus.Registry

	sortDuration *prometheus.GaugeVec
	measurements *prometheus.CounterVec
	errorsTotal  *prometheus.CounterVec
	lastRun      prometheus.Gauge
	runDuration  prometheus.Gauge

	mu     sync.RWMutex
	closed bool
}

// NewPrometheusSink registers the sortbench metrics on reg.
//
// Inputs:
//   - reg: Target registry. Must not be nil. Registering twice on the same
//     registry fails.
//
// Outputs:
//   - *PrometheusSink: Never nil on success.
//   - error: ErrNilRegistry, or a registration error.
func NewPrometheusSink(reg *prometheus.Registry) (sink *PrometheusSink, err error) {
	if reg == nil {
		return nil, ErrNilRegistry
	}
	// promauto panics on duplicate registration.
	defer func() {
		if r := recover(); r != nil {
			sink = nil
			err = fmt.Errorf("register sortbench metrics: %v", r)
		}
	}()

	factory := promauto.With(reg)
	return &PrometheusSink{
		registry: reg,
		sortDuration: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: metricNamespace,
			Name:      "last_sort_duration_seconds",
			Help:      "Wall-clock time of the most recent sort per algorithm, size, and shape.",
		}, []string{"algorithm", "size", "shape"}),
		measurements: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricNamespace,
			Name:      "sorts_total",
			Help:      "Total timed sorts.",
		}, []string{"algorithm"}),
		errorsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricNamespace,
			Name:      "failures_total",
			Help:      "Total benchmark errors.",
		}, []string{"component", "error_type"}),
		lastRun: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: metricNamespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time the last completed run started.",
		}),
		runDuration: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: metricNamespace,
			Name:      "last_run_duration_seconds",
			Help:      "Duration of the last completed run.",
		}),
	}, nil
}

// Registry returns the registry the sink writes to.
func (p *PrometheusSink) Registry() *prometheus.Registry {
	return p.registry
}

// RecordMeasurement sets the duration gauge for the measurement's labels.
func (p *PrometheusSink) RecordMeasurement(ctx context.Context, data *MeasurementData) error {
	if err := p.guard(ctx, data == nil); err != nil {
		return err
	}
	p.sortDuration.WithLabelValues(data.Algorithm, strconv.Itoa(data.Size), data.Shape).
		Set(data.Elapsed.Seconds())
	p.measurements.WithLabelValues(data.Algorithm).Inc()
	return nil
}

// RecordRun stamps the run start time and duration.
func (p *PrometheusSink) RecordRun(ctx context.Context, data *RunData) error {
	if err := p.guard(ctx, data == nil); err != nil {
		return err
	}
	p.lastRun.Set(float64(data.Timestamp.UnixMilli()) / 1000)
	p.runDuration.Set(data.Duration.Seconds())
	return nil
}

// RecordError increments the error counter.
func (p *PrometheusSink) RecordError(ctx context.Context, data *ErrorData) error {
	if err := p.guard(ctx, data == nil); err != nil {
		return err
	}
	p.errorsTotal.WithLabelValues(orUnknown(data.Component), orUnknown(data.ErrorType)).Inc()
	return nil
}

// Flush is a no-op; metrics are read on Push.
func (p *PrometheusSink) Flush(ctx context.Context) error {
	return p.guard(ctx, false)
}

// Close marks the sink closed. Idempotent.
func (p *PrometheusSink) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}

// Push sends every metric on the registry to a Pushgateway.
//
// Description:
//
//	Uses PUT semantics: metrics previously pushed under the same job are
//	replaced. Push still works after Close.
//
// Inputs:
//   - ctx: Context for the HTTP request.
//   - url: Pushgateway base URL, e.g. "http://localhost:9091".
//   - job: Job label, typically "sortbench".
//   - groupings: Optional extra grouping labels as key/value pairs.
//
// Outputs:
//   - error: Non-nil if the request fails or the gateway rejects it.
func (p *PrometheusSink) Push(ctx context.Context, url, job string, groupings map[string]string) error {
	if ctx == nil {
		return ErrNilContext
	}
	pusher := push.New(url, job).Gatherer(p.registry)
	for k, v := range groupings {
		pusher = pusher.Grouping(k, v)
	}
	if err := pusher.PushContext(ctx); err != nil {
		return fmt.Errorf("push metrics to %s: %w", url, err)
	}
	return nil
}

func (p *PrometheusSink) guard(ctx context.Context, nilData bool) error {
	if err := checkArgs(ctx, nilData); err != nil {
		return err
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrSinkClosed
	}
	return nil
}

var _ Sink = (*PrometheusSink)(nil)
