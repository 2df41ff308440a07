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
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/SDash07/Algorithm-Efficiency-and-Scalability/services/benchmark"
)

// UsageError marks a failure caused by how the command was invoked.
//
// # Description
//
// Bad flags, bad arguments, and invalid configuration all exit with
// CLIExitUsage instead of CLIExitFailure. Supports unwrapping.
//
// # Example
//
//	err := NewUsageError("sort", fmt.Errorf("%q is not an integer", "x"))
//	fmt.Println(err.Error()) // sort: "x" is not an integer
type UsageError struct {
	// Command is the command path that rejected the input.
	Command string

	// Wrapped is the underlying error.
	Wrapped error
}

// Error returns a formatted error message.
func (e *UsageError) Error() string {
	if e.Command == "" {
		return e.Wrapped.Error()
	}
	return fmt.Sprintf("%s: %v", e.Command, e.Wrapped)
}

// Unwrap returns the underlying error.
func (e *UsageError) Unwrap() error {
	return e.Wrapped
}

// NewUsageError wraps err. Returns nil for a nil err.
func NewUsageError(command string, err error) error {
	if err == nil {
		return nil
	}
	var usageErr *UsageError
	if errors.As(err, &usageErr) {
		return err
	}
	return &UsageError{Command: command, Wrapped: err}
}

// usageArgs wraps a cobra positional-args validator so that its failures
// are usage errors.
func usageArgs(check cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		return NewUsageError(cmd.CommandPath(), check(cmd, args))
	}
}

// flagUsageError is installed as cobra's flag error func.
func flagUsageError(cmd *cobra.Command, err error) error {
	return NewUsageError(cmd.CommandPath(), err)
}

// ExitCode maps an error to the process exit code.
//
// # Outputs
//
//   - int: CLIExitSuccess for nil, CLIExitUsage for usage and configuration
//     errors, CLIExitFailure otherwise.
func ExitCode(err error) int {
	if err == nil {
		return CLIExitSuccess
	}
	var usageErr *UsageError
	if errors.As(err, &usageErr) || errors.Is(err, benchmark.ErrInvalidConfig) {
		return CLIExitUsage
	}
	return CLIExitFailure
}
