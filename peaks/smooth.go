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

// Package peaks implements stage 3 of the detection pipeline: smoothing
// the horizontal projection and finding candidate staff-line rows.
package peaks

// KernelSize returns an odd kernel width for a moving-average smoother,
// given a page height h and a divisor (h/divisor, floored up to odd,
// never below 3).
func KernelSize(h, divisor int) int {
	k := h / divisor
	if k < 3 {
		k = 3
	}
	if k%2 == 0 {
		k++
	}
	return k
}

// Distance returns the minimum row distance required between accepted
// peaks, given a page height h and a divisor.
func Distance(h, divisor int) int {
	d := h / divisor
	if d < 3 {
		d = 3
	}
	return d
}

// Smooth applies a centred moving average of the given odd kernel size
// to proj, reflecting at the boundaries so the output has the same
// length as the input.
func Smooth(proj []float64, kernel int) []float64 {
	n := len(proj)
	out := make([]float64, n)
	if n == 0 {
		return out
	}
	half := kernel / 2
	var sum float64
	// Running-sum smoothing: sum is maintained incrementally across
	// the window as it slides, rather than resummed from scratch at
	// every row, since h/500-scale kernels would otherwise make this
	// an O(H*kernel) pass on tall pages.
	for i := -half; i <= half; i++ {
		sum += proj[reflect(i, n)]
	}
	out[0] = sum / float64(kernel)
	for r := 1; r < n; r++ {
		drop := reflect(r-1-half, n)
		add := reflect(r+half, n)
		sum += proj[add] - proj[drop]
		out[r] = sum / float64(kernel)
	}
	return out
}

// reflect maps an out-of-range index into [0, n) by reflecting it back
// across the boundary it crossed.
func reflect(i, n int) int {
	if n == 1 {
		return 0
	}
	for i < 0 || i >= n {
		if i < 0 {
			i = -i - 1
		}
		if i >= n {
			i = 2*n - i - 1
		}
	}
	return i
}
