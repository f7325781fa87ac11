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

// Package projection implements stage 2 of the detection pipeline: the
// row-wise ink count that turns a binary mask into a 1-D signal.
package projection

import "github.com/scoresplit/staves/geom"

// Horizontal returns proj, where proj[r] is the number of ink pixels in
// row r of mask. Cost is O(H*W); no smoothing is applied here.
func Horizontal(mask *geom.BinaryMask) []float64 {
	proj := make([]float64, mask.H)
	for y := 0; y < mask.H; y++ {
		row := mask.Pix[y*mask.W : (y+1)*mask.W]
		count := 0
		for _, v := range row {
			if v != 0 {
				count++
			}
		}
		proj[y] = float64(count)
	}
	return proj
}

// Vertical returns the column-wise ink count over [xStart, xEnd) of
// mask, restricted to rows [yStart, yEnd). Package barline calls it one
// column at a time while scanning for the rough barline/bracket column,
// which only ever needs a sub-band of the page rather than the whole
// height.
func Vertical(mask *geom.BinaryMask, xStart, xEnd, yStart, yEnd int) []float64 {
	proj := make([]float64, xEnd-xStart)
	for x := xStart; x < xEnd; x++ {
		count := 0
		for y := yStart; y < yEnd; y++ {
			if mask.Ink(x, y) {
				count++
			}
		}
		proj[x-xStart] = float64(count)
	}
	return proj
}

// Max returns the largest value in proj, or 0 for an empty slice.
func Max(proj []float64) float64 {
	m := 0.0
	for _, v := range proj {
		if v > m {
			m = v
		}
	}
	return m
}
