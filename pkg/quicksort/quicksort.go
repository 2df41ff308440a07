// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package quicksort provides the two list-partitioning quicksort variants that
// sortbench compares.
//
// Both sorters are pure: they never modify the input slice and return a
// non-descending permutation of it. Inputs of length two or more get a newly
// allocated result; shorter inputs are returned as they are, so the result
// may share the input's backing array. Neither is in-place and neither guards
// against adversarial input.
//
//	rng := rand.New(rand.NewPCG(1, 2))
//	out := quicksort.Randomized([]int{3, 6, 1, 6, 2}, rng) // [1 2 3 6 6]
//	out = quicksort.Deterministic([]int{3, 6, 1, 6, 2})   // [1 2 3 6 6]
package quicksort

import "cmp"

// Source picks the pivot index for Randomized.
//
// *math/rand/v2.Rand satisfies Source.
type Source interface {
	// IntN returns a uniformly distributed int in [0, n). n must be > 0.
	IntN(n int) int
}

// Func is the shape both sorters share once their dependencies are bound.
type Func[T cmp.Ordered] func(s []T) []T

// Randomized sorts s with a uniformly random pivot chosen at every call.
//
// Description:
//
//	Partitions s into elements strictly less than, equal to, and strictly
//	greater than the pivot, preserving input order inside each partition.
//	The less and greater partitions are sorted recursively and the result is
//	less ++ equal ++ greater. A slice of length 0 or 1 is returned as is.
//
// Inputs:
//   - s: Sequence to sort. Not modified.
//   - src: Pivot source. Must not be nil when len(s) > 1.
//
// Outputs:
//   - []T: Sorted permutation of s.
//
// Thread Safety: Safe if src is safe for concurrent use.
func Randomized[T cmp.Ordered](s []T, src Source) []T {
	if len(s) <= 1 {
		return s
	}
	pivot := s[src.IntN(len(s))]

	var less, equal, greater []T
	for _, x := range s {
		switch {
		case x < pivot:
			less = append(less, x)
		case x == pivot:
			equal = append(equal, x)
		default:
			greater = append(greater, x)
		}
	}

	out := make([]T, 0, len(s))
	out = append(out, Randomized(less, src)...)
	out = append(out, equal...)
	out = append(out, Randomized(greater, src)...)
	return out
}

// Deterministic sorts s using its first element as the pivot.
//
// Elements equal to the pivot go to the right-hand partition together with the
// greater ones; there is no separate equal bucket. Already sorted or reverse
// sorted input recurses len(s) levels deep.
func Deterministic[T cmp.Ordered](s []T) []T {
	if len(s) <= 1 {
		return s
	}
	pivot := s[0]

	var less, rest []T
	for _, x := range s[1:] {
		if x < pivot {
			less = append(less, x)
		} else {
			rest = append(rest, x)
		}
	}

	out := make([]T, 0, len(s))
	out = append(out, Deterministic(less)...)
	out = append(out, pivot)
	out = append(out, Deterministic(rest)...)
	return out
}

// BindRandomized returns Randomized with src bound.
func BindRandomized[T cmp.Ordered](src Source) Func[T] {
	return func(s []T) []T {
		return Randomized(s, src)
	}
}

// IsSorted reports whether s is in non-descending order.
func IsSorted[T cmp.Ordered](s []T) bool {
	for i := 1; i < len(s); i++ {
		if s[i] < s[i-1] {
			return false
		}
	}
	return true
}
