// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/SDash07/Algorithm-Efficiency-and-Scalability/cmd/sortbench/config"
	"github.com/SDash07/Algorithm-Efficiency-and-Scalability/pkg/logging"
	"github.com/SDash07/Algorithm-Efficiency-and-Scalability/services/benchmark/telemetry"
)

// telemetryFlushTimeout bounds the flush, push, and shutdown at exit.
const telemetryFlushTimeout = 10 * time.Second

// telemetryRun owns the sinks and providers for one benchmark run.
// Failures are logged and never fail the run.
type telemetryRun struct {
	cfg       telemetry.Config
	providers *telemetry.Providers
	sink      telemetry.Sink
	prom      *telemetry.PrometheusSink
	logger    *logging.Logger
}

// startTelemetry sets up whatever cfg enables. With nothing enabled the
// sink is a no-op.
func startTelemetry(ctx context.Context, cfg *config.SortbenchConfig, logger *logging.Logger) *telemetryRun {
	t := &telemetryRun{cfg: cfg.Telemetry, sink: telemetry.NewNoOpSink(), logger: logger}
	if !cfg.TelemetryEnabled() {
		return t
	}

	reg := prometheus.NewRegistry()
	providers, err := telemetry.Init(ctx, cfg.Telemetry, reg)
	if err != nil {
		logger.Warn("Telemetry disabled", "error", err)
		return t
	}
	t.providers = providers

	var sinks []telemetry.Sink
	if providers.TracerProvider != nil || providers.MeterProvider != nil {
		otelSink, err := telemetry.NewOTelSink(&telemetry.OTelConfig{
			ServiceVersion: cfg.Telemetry.ServiceVersion,
			TraceEnabled:   providers.TracerProvider != nil,
			MetricsEnabled: providers.MeterProvider != nil,
		})
		if err != nil {
			logger.Warn("OpenTelemetry sink disabled", "error", err)
		} else {
			sinks = append(sinks, otelSink)
		}
	}
	if cfg.Telemetry.PushgatewayURL != "" {
		promSink, err := telemetry.NewPrometheusSink(reg)
		if err != nil {
			logger.Warn("Prometheus sink disabled", "error", err)
		} else {
			t.prom = promSink
			sinks = append(sinks, promSink)
		}
	}
	if len(sinks) > 0 {
		t.sink = telemetry.NewCompositeSink(sinks...)
	}
	return t
}

// finish flushes the sinks and pushes to the Pushgateway, grouped by run ID.
func (t *telemetryRun) finish(ctx context.Context, runID string) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), telemetryFlushTimeout)
	defer cancel()

	if err := t.sink.Flush(ctx); err != nil {
		t.logger.Warn("Telemetry flush failed", "error", err)
	}
	if t.prom == nil {
		return
	}
	err := t.prom.Push(ctx, t.cfg.PushgatewayURL, t.cfg.PushJob, map[string]string{"run_id": runID})
	if err != nil {
		t.logger.Warn("Pushgateway push failed", "url", t.cfg.PushgatewayURL, "error", err)
		return
	}
	t.logger.Info("Metrics pushed", "url", t.cfg.PushgatewayURL, "job", t.cfg.PushJob)
}

// shutdown closes the sinks and stops the providers.
func (t *telemetryRun) shutdown(ctx context.Context) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), telemetryFlushTimeout)
	defer cancel()

	if err := t.sink.Close(); err != nil {
		t.logger.Warn("Telemetry close failed", "error", err)
	}
	if err := t.providers.Shutdown(ctx); err != nil {
		t.logger.Warn("Telemetry shutdown failed", "error", err)
	}
}
