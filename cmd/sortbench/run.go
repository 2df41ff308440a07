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
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/SDash07/Algorithm-Efficiency-and-Scalability/pkg/quicksort"
	"github.com/SDash07/Algorithm-Efficiency-and-Scalability/pkg/ux"
	"github.com/SDash07/Algorithm-Efficiency-and-Scalability/services/benchmark"
	"github.com/SDash07/Algorithm-Efficiency-and-Scalability/services/benchmark/report"
)

// runBenchmark is the root command: measure, report, and flush telemetry.
func runBenchmark(cmd *cobra.Command, opts *cliOptions, s streams) error {
	ctx := cmd.Context()

	cfg, configPath, err := loadConfig(cmd, opts)
	if err != nil {
		return err
	}

	logger := newLogger(cfg.Logging, s.err)
	defer logger.Close()
	if ferr := logger.FileError(); ferr != nil {
		logger.Warn("File logging disabled", "error", ferr)
	}
	if configPath != "" {
		logger.Debug("Configuration loaded", "path", configPath)
	}

	tel := startTelemetry(ctx, &cfg, logger)
	defer tel.shutdown(ctx)

	chart := report.NewChartReporter(&cfg.Benchmark, report.WithChartLogger(logger.Slog()))
	var summary benchmark.Reporter = report.NewConsoleReporter(s.out)
	if opts.jsonOut {
		summary = report.NewJSONReporter(s.out, chart.Path(), opts.compact)
	}
	display := report.NewDisplayReporter(chart.Path(), cfg.Benchmark.Display,
		report.WithDisplayLogger(logger.Slog()))

	runner, err := benchmark.NewRunner(&cfg.Benchmark,
		benchmark.WithReporter(report.Multi(chart, summary, display)),
		benchmark.WithSink(tel.sink),
		benchmark.WithLogger(logger.Slog()),
	)
	if err != nil {
		return err
	}

	var printer *ux.Printer
	if !opts.jsonOut {
		printer = ux.NewPrinter(s.out, s.err)
		printer.Title("Quicksort benchmark")
		printer.Info(fmt.Sprintf("Sizes %s, %s data, run %s",
			joinInts(cfg.Benchmark.Sizes), cfg.Benchmark.Shape, runner.RunID()))
	}

	_, runErr := runner.Run(ctx)
	tel.finish(ctx, runner.RunID())
	if runErr != nil {
		return runErr
	}

	if printer != nil {
		printer.Success("Chart saved to " + chart.Path())
	}
	return nil
}

// runSort sorts the arguments with both sorters.
func runSort(cmd *cobra.Command, opts *cliOptions, s streams, args []string) error {
	start := time.Now()

	values := make([]int, len(args))
	for i, arg := range args {
		v, err := strconv.Atoi(arg)
		if err != nil {
			return NewUsageError(cmd.CommandPath(), fmt.Errorf("%q is not an integer", arg))
		}
		values[i] = v
	}

	seed1, seed2 := rand.Uint64(), rand.Uint64()
	if cmd.Flags().Changed("seed") {
		seed1, seed2 = opts.seed, opts.seed
	}
	src := rand.New(rand.NewPCG(seed1, seed2))

	result := SortResult{
		Input:         values,
		Randomized:    quicksort.Randomized(values, src),
		Deterministic: quicksort.Deterministic(values),
	}
	if !quicksort.IsSorted(result.Randomized) || !quicksort.IsSorted(result.Deterministic) {
		return fmt.Errorf("%w: output is not sorted", benchmark.ErrSortFailed)
	}

	if opts.jsonOut {
		return OutputJSON(s.out, opts.output(), "sort", start, result)
	}
	_, err := fmt.Fprintf(s.out, "%s:    %v\n%s: %v\n",
		benchmark.LabelRandomized, result.Randomized,
		benchmark.LabelDeterministic, result.Deterministic)
	return err
}

func joinInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ",")
}
