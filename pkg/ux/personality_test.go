// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package ux

import (
	"os"
	"path/filepath"
	"testing"
)

// withPersonality restores the global personality after the test.
func withPersonality(t *testing.T, level PersonalityLevel) {
	t.Helper()
	orig := GetPersonality()
	t.Cleanup(func() { SetPersonalityLevel(orig.Level) })
	SetPersonalityLevel(level)
}

// =============================================================================
// Level Tests
// =============================================================================

func TestDefaultPersonality(t *testing.T) {
	if got := DefaultPersonality().Level; got != PersonalityStandard {
		t.Errorf("DefaultPersonality().Level = %v, want %v", got, PersonalityStandard)
	}
}

func TestSetPersonalityLevel(t *testing.T) {
	withPersonality(t, PersonalityMinimal)

	if got := GetPersonality().Level; got != PersonalityMinimal {
		t.Errorf("GetPersonality().Level = %v, want %v", got, PersonalityMinimal)
	}
}

func TestParsePersonalityLevel(t *testing.T) {
	tests := []struct {
		in   string
		want PersonalityLevel
	}{
		{"standard", PersonalityStandard},
		{"minimal", PersonalityMinimal},
		{"MIN", PersonalityMinimal},
		{"m", PersonalityMinimal},
		{"machine", PersonalityMachine},
		{"quiet", PersonalityMachine},
		{" q ", PersonalityMachine},
		{"", PersonalityStandard},
		{"fancy", PersonalityStandard},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParsePersonalityLevel(tt.in); got != tt.want {
				t.Errorf("ParsePersonalityLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

// =============================================================================
// InitPersonality Tests
// =============================================================================

func TestInitPersonality_EnvOverride(t *testing.T) {
	withPersonality(t, PersonalityStandard)
	t.Setenv(PersonalityEnv, "minimal")

	InitPersonality()

	if got := GetPersonality().Level; got != PersonalityMinimal {
		t.Errorf("level = %v, want %v", got, PersonalityMinimal)
	}
}

func TestInitPersonality_NonTerminal(t *testing.T) {
	withPersonality(t, PersonalityStandard)
	t.Setenv(PersonalityEnv, "")

	orig := os.Stdout
	f, err := os.Create(filepath.Join(t.TempDir(), "stdout"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	os.Stdout = f
	defer func() { os.Stdout = orig }()

	InitPersonality()

	if got := GetPersonality().Level; got != PersonalityMachine {
		t.Errorf("level = %v, want %v when stdout is a file", got, PersonalityMachine)
	}
}

// =============================================================================
// Terminal Detection Tests
// =============================================================================

func TestIsTerminal_RegularFile(t *testing.T) {
	f, err := os.Create(filepath.Join(t.TempDir(), "plain"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	if IsTerminal(f) {
		t.Error("a regular file is not a terminal")
	}
}

func TestIsTerminal_Pipe(t *testing.T) {
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	defer w.Close()

	if IsTerminal(w) {
		t.Error("a pipe is not a terminal")
	}
}

func TestIsTerminal_Nil(t *testing.T) {
	if IsTerminal(nil) {
		t.Error("nil file is not a terminal")
	}
}

func TestIsInteractive_Machine(t *testing.T) {
	withPersonality(t, PersonalityMachine)

	if IsInteractive() {
		t.Error("machine personality is never interactive")
	}
}
