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
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/SDash07/Algorithm-Efficiency-and-Scalability/cmd/sortbench/config"
	"github.com/SDash07/Algorithm-Efficiency-and-Scalability/pkg/dataset"
	"github.com/SDash07/Algorithm-Efficiency-and-Scalability/pkg/logging"
	"github.com/SDash07/Algorithm-Efficiency-and-Scalability/pkg/ux"
)

// streams are the command's output writers.
type streams struct {
	out io.Writer
	err io.Writer
}

// cliOptions holds every flag value.
type cliOptions struct {
	// persistent
	configPath  string
	seed        uint64
	jsonOut     bool
	compact     bool
	logLevel    string
	logJSON     bool
	logDir      string
	personality string

	// root
	sizes      []int
	outputDir  string
	outputFile string
	shape      string
	display    bool

	// config init
	force bool
}

func (o *cliOptions) output() OutputConfig {
	return OutputConfig{JSON: o.jsonOut, Compact: o.compact}
}

// newRootCmd builds the command tree around opts.
func newRootCmd(opts *cliOptions, s streams) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "sortbench",
		Short: "Compare randomized and deterministic quicksort",
		Long: `sortbench times a randomized-pivot quicksort and a first-element-pivot
quicksort on generated data of increasing size, prints the timings, and
saves a line chart comparing them.

Settings come from defaults, then sortbench.yaml (or --config), then the
OTEL_* and SORTBENCH_PUSHGATEWAY_URL environment variables, then flags.`,
		Args:          usageArgs(cobra.NoArgs),
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			switch {
			case opts.jsonOut:
				ux.SetPersonalityLevel(ux.PersonalityMachine)
			case opts.personality != "":
				ux.SetPersonalityLevel(ux.ParsePersonalityLevel(opts.personality))
			default:
				ux.InitPersonality()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBenchmark(cmd, opts, s)
		},
	}
	rootCmd.SetOut(s.out)
	rootCmd.SetErr(s.err)
	rootCmd.SetFlagErrorFunc(flagUsageError)

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&opts.configPath, "config", "", "config file (default ./"+config.DefaultPath+" when present)")
	pf.Uint64Var(&opts.seed, "seed", 0, "seed the random source for a reproducible run")
	pf.BoolVar(&opts.jsonOut, "json", false, "write machine-readable JSON to stdout")
	pf.BoolVar(&opts.compact, "compact", false, "compact JSON output (with --json)")
	pf.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error")
	pf.BoolVar(&opts.logJSON, "log-json", false, "log to stderr as JSON")
	pf.StringVar(&opts.logDir, "log-dir", "", "also write JSON logs to this directory")
	pf.StringVar(&opts.personality, "personality", "", "output style: standard, minimal, machine")

	f := rootCmd.Flags()
	f.IntSliceVar(&opts.sizes, "sizes", nil, "input sizes to measure, e.g. 1000,2000,4000")
	f.StringVar(&opts.outputDir, "output-dir", "", "directory for the chart")
	f.StringVar(&opts.outputFile, "output-file", "", "chart file name; the extension picks the format")
	f.StringVar(&opts.shape, "shape", "", "dataset shape: random, sorted, reverse, duplicates")
	f.BoolVar(&opts.display, "display", false, "open the chart when running in a terminal")

	rootCmd.AddCommand(newSortCmd(opts, s), newConfigCmd(opts, s))
	return rootCmd
}

func newSortCmd(opts *cliOptions, s streams) *cobra.Command {
	return &cobra.Command{
		Use:     "sort [int...]",
		Short:   "Sort integers with both quicksorts and print the results",
		Example: "  sortbench sort 3 6 1 6 2",
		Args:    usageArgs(cobra.ArbitraryArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSort(cmd, opts, s, args)
		},
	}
}

func newConfigCmd(opts *cliOptions, s streams) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the sortbench configuration file",
		Args:  usageArgs(cobra.NoArgs),
	}

	initCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write the default configuration (default ./" + config.DefaultPath + ")",
		Args:  usageArgs(cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.DefaultPath
			if len(args) == 1 {
				path = args[0]
			}
			if err := config.WriteDefault(path, opts.force); err != nil {
				if errors.Is(err, config.ErrConfigExists) {
					return NewUsageError(cmd.CommandPath(), fmt.Errorf("%w (use --force to overwrite)", err))
				}
				return err
			}
			if opts.jsonOut {
				return OutputJSON(s.out, opts.output(), "config init", time.Now(), map[string]string{"path": path})
			}
			ux.NewPrinter(s.out, s.err).Success("Wrote default configuration to " + path)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&opts.force, "force", false, "overwrite an existing file")

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as YAML",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			data, err := config.Marshal(cfg)
			if err != nil {
				return err
			}
			_, err = s.out.Write(data)
			return err
		},
	}

	configCmd.AddCommand(initCmd, showCmd)
	return configCmd
}

// loadConfig reads the config file, applies flags that were set, and
// validates the result.
func loadConfig(cmd *cobra.Command, opts *cliOptions) (config.SortbenchConfig, string, error) {
	cfg, path, err := config.Load(opts.configPath)
	if err != nil {
		return cfg, path, err
	}

	flags := cmd.Flags()
	if flags.Changed("sizes") {
		cfg.Benchmark.Sizes = opts.sizes
	}
	if flags.Changed("output-dir") {
		cfg.Benchmark.OutputDir = opts.outputDir
	}
	if flags.Changed("output-file") {
		cfg.Benchmark.OutputFilename = opts.outputFile
	}
	if flags.Changed("shape") {
		cfg.Benchmark.Shape = dataset.Shape(opts.shape)
	}
	if flags.Changed("seed") {
		seed := opts.seed
		cfg.Benchmark.Seed = &seed
	}
	if flags.Changed("display") {
		cfg.Benchmark.Display = opts.display
	}
	if flags.Changed("log-level") {
		cfg.Logging.Level = opts.logLevel
	}
	if flags.Changed("log-json") {
		cfg.Logging.JSON = opts.logJSON
	}
	if flags.Changed("log-dir") {
		cfg.Logging.Dir = opts.logDir
	}

	if err := cfg.Validate(); err != nil {
		return cfg, path, err
	}
	return cfg, path, nil
}

// newLogger builds the process logger from a validated config.
func newLogger(cfg config.LoggingConfig, w io.Writer) *logging.Logger {
	level, err := logging.ParseLevel(cfg.Level)
	if err != nil {
		level = logging.LevelInfo
	}
	return logging.New(logging.Config{
		Level:  level,
		LogDir: cfg.Dir,
		JSON:   cfg.JSON,
		Writer: w,
	})
}
