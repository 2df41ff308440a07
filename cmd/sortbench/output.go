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
	"io"
	"time"

	"github.com/SDash07/Algorithm-Efficiency-and-Scalability/services/benchmark/report"
)

// Exit codes for CLI commands.
const (
	CLIExitSuccess = 0 // Operation completed successfully
	CLIExitFailure = 1 // Benchmark, render, or I/O failure
	CLIExitUsage   = 2 // Bad flags, arguments, or configuration
)

// OutputConfig controls output behavior.
type OutputConfig struct {
	JSON    bool // Output as JSON
	Compact bool // No indentation
}

// SortResult holds the sort command output.
type SortResult struct {
	Input         []int `json:"input"`
	Randomized    []int `json:"randomized"`
	Deterministic []int `json:"deterministic"`
}

// OutputJSON writes a successful envelope for command to w.
//
// # Inputs
//
//   - w: Destination, normally stdout.
//   - cfg: Output configuration.
//   - command: Command name for metadata.
//   - start: Start time for duration calculation.
//   - data: The data to encode. Must be JSON-serializable.
func OutputJSON(w io.Writer, cfg OutputConfig, command string, start time.Time, data any) error {
	return report.WriteJSON(w, report.Envelope{
		APIVersion: report.APIVersion,
		Command:    command,
		Timestamp:  time.Now(),
		DurationMs: time.Since(start).Milliseconds(),
		Success:    true,
		Data:       data,
	}, cfg.Compact)
}

// OutputError writes an error in the appropriate format.
//
// # Inputs
//
//   - stdout, stderr: JSON errors go to stdout, text errors to stderr.
//   - cfg: Output configuration.
//   - command: Command name for metadata. May be empty.
//   - err: The error to report.
func OutputError(stdout, stderr io.Writer, cfg OutputConfig, command string, err error) {
	if cfg.JSON {
		encErr := report.WriteJSON(stdout, report.Envelope{
			APIVersion: report.APIVersion,
			Command:    command,
			Timestamp:  time.Now(),
			Success:    false,
			Error:      err.Error(),
		}, cfg.Compact)
		if encErr == nil {
			return
		}
	}
	fmt.Fprintf(stderr, "Error: %v\n", err)
}
