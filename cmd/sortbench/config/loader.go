// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ErrConfigExists is returned by WriteDefault when the target exists and
// force is false.
var ErrConfigExists = errors.New("config file already exists")

// Load reads the configuration at path over the defaults.
//
// Description:
//
//	An empty path looks for DefaultPath in the working directory and falls
//	back to DefaultConfig() when it is absent. An explicit path must exist.
//	Telemetry environment variables are applied over the file. The result
//	is not validated, so callers can apply flag overrides first.
//
// Outputs:
//   - SortbenchConfig: Defaults, then the file, then the environment.
//   - string: The file that was read, or "" when none was.
//   - error: A *benchmark.StageError matching benchmark.ErrInvalidConfig.
func Load(path string) (SortbenchConfig, string, error) {
	cfg := DefaultConfig()

	if path == "" {
		if _, err := os.Stat(DefaultPath); errors.Is(err, os.ErrNotExist) {
			cfg.Telemetry.ApplyEnv()
			return cfg, "", nil
		}
		path = DefaultPath
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, "", configError(path, fmt.Errorf("failed to read the config file: %w", err))
	}
	if err := decode(data, &cfg); err != nil {
		return cfg, "", configError(path, err)
	}
	cfg.Telemetry.ApplyEnv()
	return cfg, path, nil
}

// decode strictly unmarshals data over cfg. An empty document is allowed.
func decode(data []byte, cfg *SortbenchConfig) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to parse the config file: %w", err)
	}
	return nil
}

// Marshal renders cfg as YAML.
func Marshal(cfg SortbenchConfig) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteDefault writes DefaultConfig() to path, creating parent directories.
// The environment is not consulted, so the file holds the plain defaults.
func WriteDefault(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%w: %s", ErrConfigExists, path)
		}
	}
	return createDefault(path)
}

func createDefault(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create the config directory: %w", err)
	}
	data, err := Marshal(DefaultConfig())
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
