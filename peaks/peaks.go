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

package peaks

import "sort"

// Find returns the indices of local maxima of signal that satisfy both
// a minimum distance between accepted peaks and a minimum prominence,
// in ascending order. Prominence is the height of a peak above the
// highest of the two nearest valleys (the lowest point before
// encountering a taller neighbouring peak, or the signal edge).
func Find(signal []float64, distance int, minProminence float64) []int {
	candidates := localMaxima(signal)
	if len(candidates) == 0 {
		return nil
	}
	prom := prominences(signal, candidates)

	kept := make([]int, 0, len(candidates))
	for i, c := range candidates {
		if prom[i] >= minProminence {
			kept = append(kept, c)
		}
	}
	return enforceDistance(signal, kept, distance)
}

// localMaxima finds every index that is strictly greater than both
// neighbours, treating flat plateaus as a single peak located at the
// plateau's midpoint.
func localMaxima(signal []float64) []int {
	n := len(signal)
	var out []int
	i := 1
	for i < n-1 {
		if signal[i-1] >= signal[i] {
			i++
			continue
		}
		// signal[i-1] < signal[i]: scan the (possibly flat) plateau.
		j := i
		for j < n-1 && signal[j+1] == signal[i] {
			j++
		}
		if j < n-1 && signal[j+1] < signal[i] {
			out = append(out, (i+j)/2)
		}
		i = j + 1
	}
	return out
}

// prominences computes, for each candidate peak index, its height
// above the higher of its two bounding valleys.
func prominences(signal []float64, candidates []int) []float64 {
	n := len(signal)
	prom := make([]float64, len(candidates))
	for ci, c := range candidates {
		height := signal[c]

		leftMin := height
		for i := c - 1; i >= 0; i-- {
			if signal[i] > height {
				break
			}
			if signal[i] < leftMin {
				leftMin = signal[i]
			}
		}
		_ = n

		rightMin := height
		for i := c + 1; i < n; i++ {
			if signal[i] > height {
				break
			}
			if signal[i] < rightMin {
				rightMin = signal[i]
			}
		}

		base := leftMin
		if rightMin > base {
			base = rightMin
		}
		prom[ci] = height - base
	}
	return prom
}

// enforceDistance keeps peaks in order of decreasing height, discarding
// any shorter peak that falls within `distance` rows of an
// already-kept, taller peak. The surviving set is returned ascending by
// row index.
func enforceDistance(signal []float64, peaks []int, distance int) []int {
	if distance <= 1 || len(peaks) == 0 {
		sorted := append([]int(nil), peaks...)
		sort.Ints(sorted)
		return sorted
	}
	order := append([]int(nil), peaks...)
	sort.Slice(order, func(i, j int) bool {
		return signal[order[i]] > signal[order[j]]
	})
	suppressed := make(map[int]bool, len(peaks))
	keep := make(map[int]bool, len(peaks))
	for _, p := range order {
		if suppressed[p] {
			continue
		}
		keep[p] = true
		for _, q := range peaks {
			if q != p && !keep[q] && abs(q-p) < distance {
				suppressed[q] = true
			}
		}
	}
	var out []int
	for p := range keep {
		out = append(out, p)
	}
	sort.Ints(out)
	return out
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
