// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package quicksort

import (
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRand() *rand.Rand {
	return rand.New(rand.NewPCG(42, 7))
}

// sorters returns both variants bound to a deterministic source.
func sorters() map[string]Func[int] {
	return map[string]Func[int]{
		"randomized":    BindRandomized[int](newTestRand()),
		"deterministic": Deterministic[int],
	}
}

// countingSource records how many pivots were drawn.
type countingSource struct {
	calls int
	inner Source
}

func (c *countingSource) IntN(n int) int {
	c.calls++
	return c.inner.IntN(n)
}

func TestSorters_ConcreteScenario(t *testing.T) {
	for name, sort := range sorters() {
		t.Run(name, func(t *testing.T) {
			got := sort([]int{3, 6, 1, 6, 2})
			assert.Equal(t, []int{1, 2, 3, 6, 6}, got)
		})
	}
}

func TestSorters_BaseCases(t *testing.T) {
	for name, sort := range sorters() {
		t.Run(name+"/empty", func(t *testing.T) {
			assert.Empty(t, sort([]int{}))
			assert.Empty(t, sort(nil))
		})
		t.Run(name+"/single", func(t *testing.T) {
			assert.Equal(t, []int{9}, sort([]int{9}))
		})
	}
}

func TestSorters_ResultAliasing(t *testing.T) {
	for name, sort := range sorters() {
		t.Run(name+"/single returned as is", func(t *testing.T) {
			in := []int{9}
			got := sort(in)
			require.Len(t, got, 1)
			assert.Same(t, &in[0], &got[0])
		})
		t.Run(name+"/longer input gets a fresh slice", func(t *testing.T) {
			in := []int{2, 1}
			got := sort(in)
			require.Len(t, got, 2)
			assert.NotSame(t, &in[0], &got[0])
			assert.Equal(t, []int{2, 1}, in)
		})
	}
}

func TestSorters_SortedAndPermutation(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 1))
	inputs := [][]int{
		{5, 4, 3, 2, 1},
		{1, 1, 1, 1},
		{2, 1},
		{-3, 0, -3, 8, 8, 1},
	}
	for i := 0; i < 50; i++ {
		n := rng.IntN(200)
		s := make([]int, n)
		for j := range s {
			s[j] = rng.IntN(50) - 25
		}
		inputs = append(inputs, s)
	}

	for name, sort := range sorters() {
		t.Run(name, func(t *testing.T) {
			for _, in := range inputs {
				orig := slices.Clone(in)
				got := sort(in)

				require.True(t, IsSorted(got), "output not sorted: %v", got)

				want := slices.Clone(orig)
				slices.Sort(want)
				if len(want) == 0 {
					assert.Empty(t, got)
				} else {
					assert.Equal(t, want, got, "output is not a permutation of %v", orig)
				}
				assert.Equal(t, orig, in, "input was modified")
			}
		})
	}
}

func TestSorters_IdempotentOnSortedInput(t *testing.T) {
	sorted := make([]int, 500)
	for i := range sorted {
		sorted[i] = i / 3
	}
	for name, sort := range sorters() {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, sorted, sort(sorted))
		})
	}
}

func TestSorters_Strings(t *testing.T) {
	in := []string{"pear", "apple", "fig", "apple"}
	want := []string{"apple", "apple", "fig", "pear"}

	assert.Equal(t, want, Randomized(in, newTestRand()))
	assert.Equal(t, want, Deterministic(in))
}

func TestRandomized_AllEqualDrawsOnePivot(t *testing.T) {
	src := &countingSource{inner: newTestRand()}
	got := Randomized([]int{7, 7, 7, 7, 7}, src)

	assert.Equal(t, []int{7, 7, 7, 7, 7}, got)
	assert.Equal(t, 1, src.calls)
}

func TestRandomized_ResamplesPivotEveryCall(t *testing.T) {
	src := &countingSource{inner: newTestRand()}
	Randomized([]int{4, 3, 2, 1}, src)

	// Four distinct values need at least one draw per level with len > 1.
	assert.GreaterOrEqual(t, src.calls, 2)
}

func TestDeterministic_ReverseSortedInput(t *testing.T) {
	n := 2000
	in := make([]int, n)
	for i := range in {
		in[i] = n - i
	}
	got := Deterministic(in)

	require.Len(t, got, n)
	assert.True(t, IsSorted(got))
	assert.Equal(t, 1, got[0])
	assert.Equal(t, n, got[n-1])
}

func TestIsSorted(t *testing.T) {
	tests := []struct {
		name string
		in   []int
		want bool
	}{
		{"nil", nil, true},
		{"single", []int{1}, true},
		{"ascending", []int{1, 2, 2, 3}, true},
		{"descending", []int{3, 2}, false},
		{"dip", []int{1, 3, 2, 4}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsSorted(tt.in))
		})
	}
}

func BenchmarkRandomized(b *testing.B) {
	rng := newTestRand()
	data := make([]int, 4000)
	for i := range data {
		data[i] = 1 + rng.IntN(len(data))
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Randomized(data, rng)
	}
}

func BenchmarkDeterministic(b *testing.B) {
	rng := newTestRand()
	data := make([]int, 4000)
	for i := range data {
		data[i] = 1 + rng.IntN(len(data))
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Deterministic(data)
	}
}
