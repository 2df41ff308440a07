// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package config loads the sortbench YAML configuration file.
//
// The file holds the benchmark settings at the top level plus telemetry and
// logging sections:
//
//	meta:
//	  version: "1"
//	sizes: [1000, 2000, 4000, 8000, 16000]
//	output_dir: results_plots
//	output_filename: quicksort_comparison.png
//	shape: random
//	chart:
//	  title: Quicksort Performance Comparison
//	  width_inches: 10
//	  height_inches: 6
//	display: false
//	telemetry:
//	  trace_exporter: none
//	  metric_exporter: none
//	logging:
//	  level: info
//
// Keys missing from the file keep their defaults. Unknown keys are rejected.
// OTEL_TRACES_EXPORTER, OTEL_METRICS_EXPORTER, OTEL_EXPORTER_OTLP_ENDPOINT and
// SORTBENCH_PUSHGATEWAY_URL override the telemetry section when set.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/SDash07/Algorithm-Efficiency-and-Scalability/services/benchmark"
	"github.com/SDash07/Algorithm-Efficiency-and-Scalability/services/benchmark/telemetry"
)

// CurrentConfigVersion is written to new files and accepted on load.
const CurrentConfigVersion = "1"

// DefaultPath is the file looked up in the working directory when no
// --config flag is given.
const DefaultPath = "sortbench.yaml"

var sectionValidate = validator.New(validator.WithRequiredStructEnabled())

// SortbenchConfig is the whole configuration file.
type SortbenchConfig struct {
	// Meta tracks the file format version.
	Meta ConfigMeta `yaml:"meta"`

	// Benchmark settings live at the top level of the file.
	Benchmark benchmark.Config `yaml:",inline"`

	// Telemetry selects exporters. All off by default.
	Telemetry telemetry.Config `yaml:"telemetry"`

	// Logging configures pkg/logging.
	Logging LoggingConfig `yaml:"logging"`
}

// ConfigMeta is file bookkeeping.
type ConfigMeta struct {
	Version string `yaml:"version"`
}

// LoggingConfig mirrors the --log-* flags.
type LoggingConfig struct {
	Level string `yaml:"level" validate:"omitempty,oneof=debug info warn warning error"`
	JSON  bool   `yaml:"json"`
	Dir   string `yaml:"dir,omitempty"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() SortbenchConfig {
	return SortbenchConfig{
		Meta:      ConfigMeta{Version: CurrentConfigVersion},
		Benchmark: *benchmark.DefaultConfig(),
		Telemetry: telemetry.DefaultConfig(),
		Logging:   LoggingConfig{Level: "info"},
	}
}

// Validate checks every section.
//
// Outputs:
//   - error: A *benchmark.StageError matching benchmark.ErrInvalidConfig.
func (c *SortbenchConfig) Validate() error {
	if c.Meta.Version != "" && c.Meta.Version != CurrentConfigVersion {
		return configError("", fmt.Errorf("unsupported config version %q (want %q)", c.Meta.Version, CurrentConfigVersion))
	}
	if err := c.Benchmark.Validate(); err != nil {
		return err
	}
	var errs []error
	if err := sectionValidate.Struct(c.Telemetry); err != nil {
		errs = append(errs, fmt.Errorf("telemetry: %w", err))
	}
	if err := c.checkPrometheusPush(); err != nil {
		errs = append(errs, err)
	}
	if err := sectionValidate.Struct(c.Logging); err != nil {
		errs = append(errs, fmt.Errorf("logging: %w", err))
	}
	if len(errs) > 0 {
		return configError("", errors.Join(errs...))
	}
	return nil
}

// TelemetryEnabled reports whether any exporter or push target is set.
func (c *SortbenchConfig) TelemetryEnabled() bool {
	return exporterOn(c.Telemetry.TraceExporter) ||
		exporterOn(c.Telemetry.MetricExporter) ||
		c.Telemetry.PushgatewayURL != ""
}

// ErrPrometheusWithoutPush rejects the prometheus metric exporter without a
// Pushgateway. sortbench serves no /metrics endpoint, so the metrics would
// never leave the process.
var ErrPrometheusWithoutPush = errors.New("telemetry: metric_exporter prometheus requires pushgateway_url")

func (c *SortbenchConfig) checkPrometheusPush() error {
	if strings.TrimSpace(c.Telemetry.MetricExporter) == telemetry.ExporterPrometheus && c.Telemetry.PushgatewayURL == "" {
		return ErrPrometheusWithoutPush
	}
	return nil
}

func exporterOn(name string) bool {
	name = strings.TrimSpace(name)
	return name != "" && name != telemetry.ExporterNone
}

func configError(path string, err error) error {
	return &benchmark.StageError{Stage: benchmark.StageConfig, Path: path, Err: err}
}
