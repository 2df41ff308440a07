// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package telemetry exports sortbench measurements to observability backends.
//
// # Overview
//
// The benchmark runner reports every timed sort, the finished run, and any
// failure to a Sink. Sinks are optional; the default is NoOpSink.
//
// # Architecture
//
//	┌──────────────────────────────────────────────────────────────┐
//	│                        Sink Interface                         │
//	│  RecordMeasurement() │ RecordRun() │ RecordError() │ Flush() │
//	└──────────────────────────────────────────────────────────────┘
//	        │                     │                     │
//	        ▼                     ▼                     ▼
//	  ┌───────────┐       ┌───────────────┐       ┌───────────┐
//	  │ Prometheus│       │ OpenTelemetry │       │ Composite │
//	  │   Sink    │       │     Sink      │       │   Sink    │
//	  └─────┬─────┘       └───────┬───────┘       └───────────┘
//	        │                     │
//	        ▼                     ▼
//	  Pushgateway           OTLP / stdout
//
// sortbench is a batch job, so there is no /metrics endpoint. The Prometheus
// registry is pushed to a Pushgateway once the run ends.
//
// # Usage
//
//	cfg := telemetry.DefaultConfig()
//	cfg.ApplyEnv()
//	reg := prometheus.NewRegistry()
//	providers, err := telemetry.Init(ctx, cfg, reg)
//	if err != nil {
//	    return err
//	}
//	defer providers.Shutdown(context.Background())
//
//	otelSink, _ := telemetry.NewOTelSink(telemetry.DefaultOTelConfig())
//	promSink, _ := telemetry.NewPrometheusSink(reg)
//	sink := telemetry.NewCompositeSink(otelSink, promSink)
//
// # Thread Safety
//
// All Sink implementations are safe for concurrent use.
//
// # Metric Naming Convention
//
// Native Prometheus metrics follow <namespace>_<metric>_<unit>:
//   - sortbench_last_sort_duration_seconds
//   - sortbench_sorts_total
//   - sortbench_failures_total
//   - sortbench_last_run_timestamp_seconds
//   - sortbench_last_run_duration_seconds
//
// OTel instruments exported through the same registry keep their own names
// (sortbench_sort_duration_seconds, sortbench_measurements_total, ...), so
// the two sets never collide.
package telemetry
