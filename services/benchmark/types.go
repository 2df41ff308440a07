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
	"context"
	"fmt"
	"path/filepath"
	"reflect"
	"slices"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/SDash07/Algorithm-Efficiency-and-Scalability/pkg/dataset"
	"github.com/SDash07/Algorithm-Efficiency-and-Scalability/pkg/quicksort"
)

// Series labels used by the default sorters and the chart legend.
const (
	LabelRandomized    = "Randomized"
	LabelDeterministic = "Deterministic"
)

// -----------------------------------------------------------------------------
// Validation
// -----------------------------------------------------------------------------

// configValidate is the validator instance for Config.
// Initialized in init() with the image extension check.
var configValidate *validator.Validate

func init() {
	configValidate = validator.New()

	// Report yaml key names so messages match what the user wrote.
	configValidate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("yaml"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	_ = configValidate.RegisterValidation("imageext", validateImageExt)
}

// imageExtensions are the formats the chart renderer can encode.
var imageExtensions = []string{".png", ".jpg", ".jpeg", ".svg", ".pdf", ".eps", ".tif", ".tiff"}

// validateImageExt accepts file names whose extension the chart renderer
// supports.
func validateImageExt(fl validator.FieldLevel) bool {
	ext := strings.ToLower(filepath.Ext(fl.Field().String()))
	return slices.Contains(imageExtensions, ext)
}

// -----------------------------------------------------------------------------
// Configuration
// -----------------------------------------------------------------------------

// ChartConfig controls the rendered comparison chart.
type ChartConfig struct {
	// Title is drawn above the plot.
	// Default: "Quicksort Performance Comparison"
	Title string `yaml:"title" json:"title"`

	// WidthInches is the image width.
	// Default: 10
	WidthInches float64 `yaml:"width_inches" json:"width_inches" validate:"gt=0"`

	// HeightInches is the image height.
	// Default: 6
	HeightInches float64 `yaml:"height_inches" json:"height_inches" validate:"gt=0"`
}

// Config holds benchmark configuration.
//
// Description:
//
//	Config controls which sizes are measured, which dataset shape is fed to
//	the sorters, where the chart is written, and whether it is shown. Use
//	DefaultConfig() to get the original benchmark parameters, then override
//	fields as needed.
//
// Thread Safety: Safe for concurrent read access after initialization.
type Config struct {
	// Sizes are the input lengths to measure, in chart order.
	// Default: [1000, 2000, 4000, 8000, 16000]
	Sizes []int `yaml:"sizes" json:"sizes" validate:"required,min=1,dive,gt=0"`

	// OutputDir is created if missing.
	// Default: "results_plots"
	OutputDir string `yaml:"output_dir" json:"output_dir" validate:"required"`

	// OutputFilename selects the image format by extension.
	// Default: "quicksort_comparison.png"
	OutputFilename string `yaml:"output_filename" json:"output_filename" validate:"required,imageext"`

	// Shape is the dataset variant handed to the sorters.
	// Default: "random"
	Shape dataset.Shape `yaml:"shape" json:"shape" validate:"required,oneof=random sorted reverse duplicates"`

	// Seed makes the run reproducible. Nil seeds from OS entropy.
	Seed *uint64 `yaml:"seed,omitempty" json:"seed,omitempty"`

	// Chart controls the rendered image.
	Chart ChartConfig `yaml:"chart" json:"chart"`

	// Display opens the chart after saving when stdout is a terminal.
	// Default: false
	Display bool `yaml:"display" json:"display"`
}

// DefaultConfig returns the original benchmark parameters.
//
// Outputs:
//   - *Config: Configuration with default values. Never nil.
//
// Example:
//
//	cfg := DefaultConfig()
//	cfg.Sizes = []int{100, 200}
func DefaultConfig() *Config {
	return &Config{
		Sizes:          []int{1000, 2000, 4000, 8000, 16000},
		OutputDir:      "results_plots",
		OutputFilename: "quicksort_comparison.png",
		Shape:          dataset.ShapeRandom,
		Chart: ChartConfig{
			Title:        "Quicksort Performance Comparison",
			WidthInches:  10,
			HeightInches: 6,
		},
	}
}

// Validate checks that the configuration is usable.
//
// Outputs:
//   - error: Nil when valid. Otherwise a *StageError with Stage StageConfig,
//     so errors.Is(err, ErrInvalidConfig) holds. The cause is the
//     validator.ValidationErrors describing each failing field.
func (c *Config) Validate() error {
	if c == nil {
		return &StageError{Stage: StageConfig, Err: fmt.Errorf("config is nil")}
	}
	if err := configValidate.Struct(c); err != nil {
		return &StageError{Stage: StageConfig, Err: err}
	}
	return nil
}

// OutputPath returns the full path of the chart image.
func (c *Config) OutputPath() string {
	return filepath.Join(c.OutputDir, c.OutputFilename)
}

// -----------------------------------------------------------------------------
// Results
// -----------------------------------------------------------------------------

// ResultTable holds one timing series per sorter, aligned with Sizes.
//
// Description:
//
//	Elapsed[label][i] is the time the sorter named label took on the dataset
//	of length Sizes[i]. After a completed run every series has exactly
//	len(Sizes) entries; Validate checks this.
//
// Thread Safety: Not safe for concurrent mutation.
type ResultTable struct {
	// RunID identifies the run in logs and telemetry.
	RunID string `json:"run_id"`

	// Shape is the dataset variant that was measured.
	Shape dataset.Shape `json:"shape"`

	// StartedAt is when measurement began.
	StartedAt time.Time `json:"started_at"`

	// Duration is the total measurement time.
	Duration time.Duration `json:"duration_ns"`

	// Sizes are the measured input lengths, in order.
	Sizes []int `json:"sizes"`

	// Labels are the series names, in sorter order.
	Labels []string `json:"labels"`

	// Elapsed maps each label to its timing series.
	Elapsed map[string][]time.Duration `json:"elapsed_ns"`
}

// NewResultTable creates an empty table for the given sizes and labels.
func NewResultTable(sizes []int, labels ...string) *ResultTable {
	t := &ResultTable{
		Sizes:   slices.Clone(sizes),
		Labels:  slices.Clone(labels),
		Elapsed: make(map[string][]time.Duration, len(labels)),
	}
	for _, l := range labels {
		t.Elapsed[l] = make([]time.Duration, 0, len(sizes))
	}
	return t
}

// Append adds a timing to the end of label's series.
func (t *ResultTable) Append(label string, d time.Duration) {
	t.Elapsed[label] = append(t.Elapsed[label], d)
}

// Validate checks that every series lines up with Sizes.
//
// Outputs:
//   - error: Nil when aligned. Otherwise wraps ErrLengthMismatch and names
//     the offending label.
func (t *ResultTable) Validate() error {
	for _, l := range t.Labels {
		if got := len(t.Elapsed[l]); got != len(t.Sizes) {
			return fmt.Errorf("%w: series %q has %d entries for %d sizes",
				ErrLengthMismatch, l, got, len(t.Sizes))
		}
	}
	return nil
}

// Seconds returns label's series as float seconds, the reporter's unit.
// Returns nil for an unknown label.
func (t *ResultTable) Seconds(label string) []float64 {
	series, ok := t.Elapsed[label]
	if !ok {
		return nil
	}
	out := make([]float64, len(series))
	for i, d := range series {
		out[i] = d.Seconds()
	}
	return out
}

// -----------------------------------------------------------------------------
// Collaborators
// -----------------------------------------------------------------------------

// Sorter is a labelled sort function under test.
type Sorter struct {
	Label string
	Sort  quicksort.Func[int]
}

// DefaultSorters returns the randomized and deterministic quicksorts, in that
// order. The randomized one draws pivots from src.
func DefaultSorters(src quicksort.Source) []Sorter {
	return []Sorter{
		{Label: LabelRandomized, Sort: quicksort.BindRandomized[int](src)},
		{Label: LabelDeterministic, Sort: quicksort.Deterministic[int]},
	}
}

// DatasetGenerator produces one dataset per requested size, order-aligned.
//
// Implemented by *dataset.Generator.
type DatasetGenerator interface {
	Generate(sizes []int) []dataset.Dataset
}

// Reporter presents a completed ResultTable.
//
// Description:
//
//	Implementations live in the report subpackage: chart image, console
//	table, JSON summary, and display. Report must not modify the table.
type Reporter interface {
	Report(ctx context.Context, table *ResultTable) error
}

// ReporterFunc adapts a function to Reporter.
type ReporterFunc func(ctx context.Context, table *ResultTable) error

// Report calls f.
func (f ReporterFunc) Report(ctx context.Context, table *ResultTable) error {
	return f(ctx, table)
}
