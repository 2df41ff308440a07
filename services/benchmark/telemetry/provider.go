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
	"io"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	promexporter "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Exporter names accepted in Config.
const (
	ExporterNone       = "none"
	ExporterStdout     = "stdout"
	ExporterOTLP       = "otlp"
	ExporterPrometheus = "prometheus"
)

// Config controls which telemetry backends are active.
//
// The zero value disables everything. Use DefaultConfig() for defaults and
// ApplyEnv to layer the environment on top.
type Config struct {
	// ServiceName identifies this process in traces and metrics.
	ServiceName string `yaml:"service_name" validate:"required"`

	// ServiceVersion is the version string for this process.
	ServiceVersion string `yaml:"service_version"`

	// TraceExporter selects the trace exporter: "otlp", "stdout", or "none".
	TraceExporter string `yaml:"trace_exporter" validate:"omitempty,oneof=none stdout otlp"`

	// MetricExporter selects the metric exporter: "prometheus", "stdout", or "none".
	MetricExporter string `yaml:"metric_exporter" validate:"omitempty,oneof=none stdout prometheus"`

	// OTLPEndpoint is the OTLP gRPC receiver for traces.
	OTLPEndpoint string `yaml:"otlp_endpoint"`

	// OTLPInsecure disables TLS for the OTLP connection.
	OTLPInsecure bool `yaml:"otlp_insecure"`

	// PushgatewayURL enables pushing the Prometheus registry at the end of
	// a run. Empty disables the push.
	PushgatewayURL string `yaml:"pushgateway_url" validate:"omitempty,url"`

	// PushJob is the Pushgateway job label.
	PushJob string `yaml:"push_job"`
}

// Environment variables read by ApplyEnv.
const (
	EnvTracesExporter  = "OTEL_TRACES_EXPORTER"
	EnvMetricsExporter = "OTEL_METRICS_EXPORTER"
	EnvOTLPEndpoint    = "OTEL_EXPORTER_OTLP_ENDPOINT"
	EnvPushgatewayURL  = "SORTBENCH_PUSHGATEWAY_URL"
)

// DefaultConfig returns defaults with exporters switched off.
// It does not read the environment.
func DefaultConfig() Config {
	return Config{
		ServiceName:    "sortbench",
		ServiceVersion: "1.0.0",
		TraceExporter:  ExporterNone,
		MetricExporter: ExporterNone,
		OTLPEndpoint:   "localhost:4317",
		OTLPInsecure:   true,
		PushJob:        "sortbench",
	}
}

// ApplyEnv overrides fields from the environment. Variables that are unset
// or empty leave the field as it is:
//   - OTEL_TRACES_EXPORTER: trace exporter type
//   - OTEL_METRICS_EXPORTER: metric exporter type
//   - OTEL_EXPORTER_OTLP_ENDPOINT: OTLP endpoint
//   - SORTBENCH_PUSHGATEWAY_URL: Pushgateway URL
func (c *Config) ApplyEnv() {
	c.TraceExporter = getEnvOr(EnvTracesExporter, c.TraceExporter)
	c.MetricExporter = getEnvOr(EnvMetricsExporter, c.MetricExporter)
	c.OTLPEndpoint = getEnvOr(EnvOTLPEndpoint, c.OTLPEndpoint)
	c.PushgatewayURL = getEnvOr(EnvPushgatewayURL, c.PushgatewayURL)
}

// Providers holds the SDK providers created by Init.
type Providers struct {
	// TracerProvider is nil when tracing is disabled.
	TracerProvider *sdktrace.TracerProvider

	// MeterProvider is nil when metrics are disabled.
	MeterProvider *sdkmetric.MeterProvider

	shutdownFuncs []func(context.Context) error
}

// Shutdown flushes and stops every provider. Safe on a nil receiver.
func (p *Providers) Shutdown(ctx context.Context) error {
	if p == nil {
		return nil
	}
	var errs []error
	for _, fn := range p.shutdownFuncs {
		if err := fn(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	p.shutdownFuncs = nil
	return errors.Join(errs...)
}

// Init sets up the OpenTelemetry providers selected by cfg.
//
// Description:
//
//	Creates and installs global TracerProvider and MeterProvider instances
//	for the configured exporters. With MetricExporter "prometheus" the OTel
//	instruments are exposed through reg so that a Pushgateway push includes
//	them. Exporters set to "none" leave the corresponding global untouched.
//
// Inputs:
//   - ctx: Context for exporter connections. Must not be nil.
//   - cfg: Telemetry configuration.
//   - reg: Registry for the Prometheus exporter. Required only for
//     MetricExporter "prometheus".
//
// Outputs:
//   - *Providers: Call Shutdown on exit. Never nil on success.
//   - error: ErrNilContext, ErrUnknownExporter, or an exporter error.
//
// Thread Safety: Call once at startup.
func Init(ctx context.Context, cfg Config, reg prometheus.Registerer) (*Providers, error) {
	return initWithWriter(ctx, cfg, reg, os.Stderr)
}

func initWithWriter(ctx context.Context, cfg Config, reg prometheus.Registerer, w io.Writer) (*Providers, error) {
	if ctx == nil {
		return nil, ErrNilContext
	}

	res := resource.NewWithAttributes(
		"",
		attribute.String("service.name", cfg.ServiceName),
		attribute.String("service.version", cfg.ServiceVersion),
	)

	providers := &Providers{}

	if cfg.TraceExporter != "" && cfg.TraceExporter != ExporterNone {
		tp, err := initTracer(ctx, cfg, res, w)
		if err != nil {
			return nil, fmt.Errorf("init tracer: %w", err)
		}
		otel.SetTracerProvider(tp)
		providers.TracerProvider = tp
		providers.shutdownFuncs = append(providers.shutdownFuncs, tp.Shutdown)
	}

	if cfg.MetricExporter != "" && cfg.MetricExporter != ExporterNone {
		mp, err := initMeter(cfg, res, reg, w)
		if err != nil {
			_ = providers.Shutdown(ctx)
			return nil, fmt.Errorf("init meter: %w", err)
		}
		otel.SetMeterProvider(mp)
		providers.MeterProvider = mp
		providers.shutdownFuncs = append(providers.shutdownFuncs, mp.Shutdown)
	}

	return providers, nil
}

func initTracer(ctx context.Context, cfg Config, res *resource.Resource, w io.Writer) (*sdktrace.TracerProvider, error) {
	var exporter sdktrace.SpanExporter
	var err error

	switch cfg.TraceExporter {
	case ExporterOTLP:
		opts := []otlptracegrpc.Option{
			otlptracegrpc.WithEndpoint(cfg.OTLPEndpoint),
		}
		if cfg.OTLPInsecure {
			opts = append(opts, otlptracegrpc.WithInsecure())
		}
		exporter, err = otlptracegrpc.New(ctx, opts...)

	case ExporterStdout:
		exporter, err = stdouttrace.New(stdouttrace.WithWriter(w), stdouttrace.WithPrettyPrint())

	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownExporter, cfg.TraceExporter)
	}
	if err != nil {
		return nil, fmt.Errorf("create exporter: %w", err)
	}

	return sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	), nil
}

func initMeter(cfg Config, res *resource.Resource, reg prometheus.Registerer, w io.Writer) (*sdkmetric.MeterProvider, error) {
	switch cfg.MetricExporter {
	case ExporterPrometheus:
		if reg == nil {
			return nil, ErrNilRegistry
		}
		exporter, err := promexporter.New(promexporter.WithRegisterer(reg))
		if err != nil {
			return nil, fmt.Errorf("create prometheus exporter: %w", err)
		}
		return sdkmetric.NewMeterProvider(
			sdkmetric.WithResource(res),
			sdkmetric.WithReader(exporter),
		), nil

	case ExporterStdout:
		exporter, err := stdoutmetric.New(stdoutmetric.WithWriter(w), stdoutmetric.WithPrettyPrint())
		if err != nil {
			return nil, fmt.Errorf("create stdout metric exporter: %w", err)
		}
		return sdkmetric.NewMeterProvider(
			sdkmetric.WithResource(res),
			sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter)),
		), nil

	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownExporter, cfg.MetricExporter)
	}
}

// getEnvOr returns the environment variable value or the fallback.
func getEnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
