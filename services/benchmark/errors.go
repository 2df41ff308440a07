// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package benchmark

import (
	"errors"
	"fmt"
)

// -----------------------------------------------------------------------------
// Sentinel Errors
// -----------------------------------------------------------------------------

var (
	// ErrInvalidConfig indicates the configuration failed validation.
	ErrInvalidConfig = errors.New("invalid benchmark configuration")

	// ErrIO indicates a filesystem failure (output directory or image file).
	ErrIO = errors.New("benchmark I/O failure")

	// ErrRender indicates the chart could not be built or encoded.
	ErrRender = errors.New("chart rendering failed")

	// ErrDisplay indicates the chart could not be shown to the user.
	ErrDisplay = errors.New("chart display failed")

	// ErrSortFailed indicates a sorter panicked during measurement.
	ErrSortFailed = errors.New("sort failed")

	// ErrLengthMismatch indicates a result series does not line up with sizes.
	ErrLengthMismatch = errors.New("result series length does not match sizes")

	// ErrNilContext indicates a nil context was passed.
	ErrNilContext = errors.New("context must not be nil")
)

// -----------------------------------------------------------------------------
// StageError
// -----------------------------------------------------------------------------

// Stage names the part of a run that failed.
type Stage string

const (
	StageConfig  Stage = "config"
	StageIO      Stage = "io"
	StageRender  Stage = "render"
	StageDisplay Stage = "display"
)

// stageSentinels maps each stage to the sentinel errors.Is should match.
var stageSentinels = map[Stage]error{
	StageConfig:  ErrInvalidConfig,
	StageIO:      ErrIO,
	StageRender:  ErrRender,
	StageDisplay: ErrDisplay,
}

// StageError records which stage of a run failed and on which path.
//
// Description:
//
//	errors.Is(err, ErrIO) is true for a StageError with Stage == StageIO,
//	and likewise for the other stages. The underlying cause stays reachable
//	through Unwrap, so errors.Is(err, fs.ErrPermission) also works.
//
// Example:
//
//	err := &StageError{Stage: StageIO, Path: "results_plots", Err: os.ErrPermission}
//	errors.Is(err, ErrIO)              // true
//	errors.Is(err, os.ErrPermission)   // true
type StageError struct {
	Stage Stage
	Path  string
	Err   error
}

// Error implements error.
func (e *StageError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %v", e.Stage, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Stage, e.Path, e.Err)
}

// Unwrap returns the underlying cause.
func (e *StageError) Unwrap() error {
	return e.Err
}

// Is matches the sentinel for the error's stage.
func (e *StageError) Is(target error) bool {
	sentinel, ok := stageSentinels[e.Stage]
	return ok && target == sentinel
}

// -----------------------------------------------------------------------------
// SortError
// -----------------------------------------------------------------------------

// SortError reports a sorter that panicked while being timed.
//
// Description:
//
//	The runner recovers sorter panics and converts them into a SortError.
//	Fatal runtime conditions such as out-of-memory or stack exhaustion
//	terminate the process and never reach this type.
type SortError struct {
	Sorter string
	Size   int
	Panic  any
}

// Error implements error.
func (e *SortError) Error() string {
	return fmt.Sprintf("sorter %q panicked at size %d: %v", e.Sorter, e.Size, e.Panic)
}

// Is matches ErrSortFailed.
func (e *SortError) Is(target error) bool {
	return target == ErrSortFailed
}

// Unwrap returns the panic value when it is itself an error.
func (e *SortError) Unwrap() error {
	if err, ok := e.Panic.(error); ok {
		return err
	}
	return nil
}

// errorType returns a short label for telemetry.
func errorType(err error) string {
	var sortErr *SortError
	var stageErr *StageError
	switch {
	case errors.As(err, &sortErr):
		return "sort_panic"
	case errors.As(err, &stageErr):
		return string(stageErr.Stage)
	case errors.Is(err, ErrLengthMismatch):
		return "length_mismatch"
	default:
		return "other"
	}
}
