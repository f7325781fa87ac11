// Copyright 2020 Staves Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package numeric holds the small, dependency-free numeric helpers
// (median, quantile, variance) shared by the clustering, rescue and
// barline stages. None of it is specific to score images.
package numeric

import "sort"

// Median returns the median of xs. xs is not modified; a sorted copy is
// taken internally. Returns 0 for an empty slice.
func Median(xs []int) float64 {
	if len(xs) == 0 {
		return 0
	}
	sorted := append([]int(nil), xs...)
	sort.Ints(sorted)
	n := len(sorted)
	if n%2 == 1 {
		return float64(sorted[n/2])
	}
	return float64(sorted[n/2-1]+sorted[n/2]) / 2
}

// MedianFloat is Median for float64 inputs, used on projection values.
func MedianFloat(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sorted := append([]float64(nil), xs...)
	sort.Float64s(sorted)
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// QuantileIndex returns sorted(xs)[max(0, floor(len(xs)/q))], the
// "25th-percentile element" construction stave clustering uses for
// typical_spacing (q=4).
func QuantileIndex(xs []int, q int) float64 {
	if len(xs) == 0 {
		return 0
	}
	sorted := append([]int(nil), xs...)
	sort.Ints(sorted)
	idx := len(sorted) / q
	if idx < 0 {
		idx = 0
	}
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return float64(sorted[idx])
}

// Variance returns the population variance of xs.
func Variance(xs []int) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += float64(x)
	}
	mean := sum / float64(len(xs))
	var sq float64
	for _, x := range xs {
		d := float64(x) - mean
		sq += d * d
	}
	return sq / float64(len(xs))
}

// Gaps returns the successive differences xs[i+1]-xs[i] for a sorted
// int slice, which is how stave clustering derives "typical spacing"
// from a set of row coordinates.
func Gaps(xs []int) []int {
	if len(xs) < 2 {
		return nil
	}
	out := make([]int, len(xs)-1)
	for i := 1; i < len(xs); i++ {
		out[i-1] = xs[i] - xs[i-1]
	}
	return out
}

// Max returns the maximum of xs, or 0 for an empty slice.
func Max(xs []int) int {
	m := 0
	for i, x := range xs {
		if i == 0 || x > m {
			m = x
		}
	}
	return m
}
