// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package report

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"runtime"

	"github.com/SDash07/Algorithm-Efficiency-and-Scalability/pkg/ux"
	"github.com/SDash07/Algorithm-Efficiency-and-Scalability/services/benchmark"
)

// Opener shows a file to the user.
type Opener func(ctx context.Context, path string) error

// DisplayReporter opens the saved chart in the platform viewer.
//
// Description:
//
//	Runs only when enabled and someone is watching (stdout is a terminal
//	and the personality is not machine). Otherwise it logs and returns nil,
//	so headless and CI runs still succeed. Must run after ChartReporter.
type DisplayReporter struct {
	path        string
	enabled     bool
	interactive func() bool
	open        Opener
	logger      *slog.Logger
}

// DisplayOption configures a DisplayReporter.
type DisplayOption func(*DisplayReporter)

// WithOpener replaces the platform opener.
func WithOpener(open Opener) DisplayOption {
	return func(d *DisplayReporter) {
		d.open = open
	}
}

// WithInteractive replaces terminal detection.
func WithInteractive(fn func() bool) DisplayOption {
	return func(d *DisplayReporter) {
		d.interactive = fn
	}
}

// WithDisplayLogger sets the logger. Defaults to slog.Default().
func WithDisplayLogger(logger *slog.Logger) DisplayOption {
	return func(d *DisplayReporter) {
		d.logger = logger
	}
}

// NewDisplayReporter opens path when enabled.
func NewDisplayReporter(path string, enabled bool, opts ...DisplayOption) *DisplayReporter {
	d := &DisplayReporter{
		path:        path,
		enabled:     enabled,
		interactive: ux.IsInteractive,
		open:        PlatformOpener,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Report opens the chart if appropriate.
//
// Outputs:
//   - error: A *benchmark.StageError matching benchmark.ErrDisplay when the
//     chart is missing or the viewer cannot be launched.
func (d *DisplayReporter) Report(ctx context.Context, _ *benchmark.ResultTable) error {
	if !d.enabled {
		return nil
	}
	if !d.interactive() {
		d.logger.Info("Skipping chart display; no interactive terminal", slog.String("path", d.path))
		return nil
	}
	if _, err := os.Stat(d.path); err != nil {
		return &benchmark.StageError{Stage: benchmark.StageDisplay, Path: d.path, Err: err}
	}
	if err := d.open(ctx, d.path); err != nil {
		return &benchmark.StageError{Stage: benchmark.StageDisplay, Path: d.path, Err: err}
	}
	d.logger.Info("Opened chart", slog.String("path", d.path))
	return nil
}

// PlatformOpener launches the OS default viewer for path and does not wait
// for it to exit. The viewer outlives ctx and the process.
func PlatformOpener(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	name, args := openCommand(runtime.GOOS, path)
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("launch %s: %w", name, err)
	}
	return cmd.Process.Release()
}

// openCommand returns the viewer command for goos.
func openCommand(goos, path string) (string, []string) {
	switch goos {
	case "darwin":
		return "open", []string{path}
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", path}
	default:
		return "xdg-open", []string{path}
	}
}
