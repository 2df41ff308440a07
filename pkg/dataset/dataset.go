// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package dataset generates the shaped integer inputs sortbench times.
package dataset

import (
	"errors"
	"fmt"
)

// ErrUnknownShape is returned by Dataset.Get for a shape outside Shapes().
var ErrUnknownShape = errors.New("unknown dataset shape")

// duplicateValues is the fixed value set for the duplicates shape.
const duplicateValues = 5

// Shape names one of the four sequences in a Dataset.
type Shape string

const (
	// ShapeRandom is n values drawn uniformly from [1, n].
	ShapeRandom Shape = "random"

	// ShapeSorted is 0, 1, ..., n-1.
	ShapeSorted Shape = "sorted"

	// ShapeReverse is n, n-1, ..., 1.
	ShapeReverse Shape = "reverse"

	// ShapeDuplicates is n values drawn uniformly from {1, 2, 3, 4, 5}.
	ShapeDuplicates Shape = "duplicates"
)

// Shapes returns every shape in generation order.
func Shapes() []Shape {
	return []Shape{ShapeRandom, ShapeSorted, ShapeReverse, ShapeDuplicates}
}

// ParseShape converts a configuration string to a Shape.
func ParseShape(s string) (Shape, error) {
	for _, shape := range Shapes() {
		if string(shape) == s {
			return shape, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownShape, s)
}

// Source supplies uniform random integers to the generator.
//
// *math/rand/v2.Rand satisfies Source.
type Source interface {
	IntN(n int) int
}

// Dataset holds the four shaped sequences generated for one size.
//
// All four sequences have length Size. A Dataset is owned by whoever
// generated it; callers that sort or mutate a sequence should copy it first.
type Dataset struct {
	Size       int
	Random     []int
	Sorted     []int
	Reverse    []int
	Duplicates []int
}

// Get returns the sequence for shape.
func (d Dataset) Get(shape Shape) ([]int, error) {
	switch shape {
	case ShapeRandom:
		return d.Random, nil
	case ShapeSorted:
		return d.Sorted, nil
	case ShapeReverse:
		return d.Reverse, nil
	case ShapeDuplicates:
		return d.Duplicates, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownShape, shape)
	}
}

// Generator builds Datasets from an injected random source.
//
// Thread Safety: Safe for concurrent use only if the Source is.
type Generator struct {
	src Source
}

// NewGenerator creates a Generator drawing from src.
//
// Inputs:
//   - src: Random source for the random and duplicates shapes. Must not be nil.
//
// Outputs:
//   - *Generator: Never nil.
func NewGenerator(src Source) *Generator {
	return &Generator{src: src}
}

// Generate returns one Dataset per entry in sizes, in the same order.
//
// Description:
//
//	For each size n the random and duplicates shapes are drawn fresh from
//	the generator's source; sorted and reverse are contiguous ranges.
//	A size <= 0 yields a Dataset with empty sequences.
//
// Example:
//
//	ds := dataset.NewGenerator(rng).Generate([]int{5})
//	ds[0].Sorted  // [0 1 2 3 4]
//	ds[0].Reverse // [5 4 3 2 1]
func (g *Generator) Generate(sizes []int) []Dataset {
	out := make([]Dataset, 0, len(sizes))
	for _, n := range sizes {
		out = append(out, g.generateOne(n))
	}
	return out
}

func (g *Generator) generateOne(n int) Dataset {
	if n < 0 {
		n = 0
	}
	d := Dataset{
		Size:       n,
		Random:     make([]int, n),
		Sorted:     make([]int, n),
		Reverse:    make([]int, n),
		Duplicates: make([]int, n),
	}
	for i := 0; i < n; i++ {
		d.Random[i] = 1 + g.src.IntN(n)
		d.Sorted[i] = i
		d.Reverse[i] = n - i
		d.Duplicates[i] = 1 + g.src.IntN(duplicateValues)
	}
	return d
}
