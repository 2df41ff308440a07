// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package benchmark times quicksort variants over generated datasets.
//
// # Overview
//
// A Runner generates one dataset per configured size, sorts an independent
// copy of it with every Sorter, records the wall-clock time of each sort in a
// ResultTable, and hands the table to a Reporter.
//
// # Architecture
//
//	┌─────────────────────────────────────────────────────────────────────┐
//	│                              Runner                                  │
//	├─────────────────────────────────────────────────────────────────────┤
//	│                                                                      │
//	│  ┌──────────────┐     ┌──────────────┐     ┌──────────────┐        │
//	│  │  Generator   │────▶│   Sorters    │────▶│  ResultTable │        │
//	│  │ (pkg/dataset)│     │ • Randomized │     │ • Sizes      │        │
//	│  │              │     │ • Determin.  │     │ • Elapsed    │        │
//	│  └──────────────┘     └──────┬───────┘     └──────┬───────┘        │
//	│                              │                    │                 │
//	│                              ▼                    ▼                 │
//	│                     ┌────────────────┐   ┌────────────────┐        │
//	│                     │ telemetry.Sink │   │    Reporter    │        │
//	│                     └────────────────┘   └────────────────┘        │
//	│                                                                      │
//	└─────────────────────────────────────────────────────────────────────┘
//
// # Usage
//
//	cfg := benchmark.DefaultConfig()
//	runner, err := benchmark.NewRunner(cfg,
//	    benchmark.WithReporter(report.NewChartReporter(cfg)),
//	    benchmark.WithLogger(logger),
//	)
//	if err != nil {
//	    return err
//	}
//	table, err := runner.Run(ctx)
//
// # Measurement Model
//
// One trial per size per sorter, no warm-up, no repetition. The timings are
// indicative only. Every sorter receives its own copy of the data, so a
// sorter that mutates its input cannot affect the next one.
//
// # Thread Safety
//
// A Runner is not safe for concurrent use. Run it from one goroutine.
package benchmark
