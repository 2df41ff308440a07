// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package report presents benchmark results.
//
// # Reporters
//
//   - ChartReporter: line chart of time versus input size, one series per
//     sorter, saved as an image (gonum/plot).
//   - ConsoleReporter: a table of the same numbers with a speedup column
//     (lipgloss).
//   - JSONReporter: a machine-readable summary.
//   - DisplayReporter: opens the saved chart when a user is watching.
//   - Multi: runs several reporters in order.
//
// # Usage
//
//	rep := report.Multi(
//	    report.NewChartReporter(cfg),
//	    report.NewConsoleReporter(os.Stdout),
//	    report.NewDisplayReporter(cfg.OutputPath(), cfg.Display),
//	)
//	runner, _ := benchmark.NewRunner(cfg, benchmark.WithReporter(rep))
//
// Every reporter treats the table as read-only.
package report
