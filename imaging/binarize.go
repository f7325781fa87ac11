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

// Package imaging implements stage 1 of the detection pipeline:
// grayscale binarisation via Otsu's method.
package imaging

import (
	"github.com/scoresplit/staves/detecterr"
	"github.com/scoresplit/staves/geom"
)

const histogramBins = 256

// Binarize converts img to a BinaryMask using Otsu's method: the
// intensity histogram over [0, 255] is searched for the threshold t*
// that maximises inter-class variance, and every pixel with intensity
// < t* becomes ink (255); the rest becomes 0. Returns
// detecterr.DegenerateImage if img has zero area or the histogram is
// uniform (Otsu has no solution).
func Binarize(img geom.PageImage) (*geom.BinaryMask, error) {
	if img.H == 0 || img.W == 0 {
		return nil, detecterr.DegenerateImage("page image has zero area")
	}
	threshold, ok := otsuThreshold(img.Pix)
	if !ok {
		return nil, detecterr.DegenerateImage("Otsu threshold search failed on a uniform histogram")
	}
	mask := &geom.BinaryMask{H: img.H, W: img.W, Pix: make([]uint8, len(img.Pix))}
	binarizeInto(mask.Pix, img.Pix, threshold)
	return mask, nil
}

// binarizeInto is the single code path for applying a threshold; both
// the portable and AVX2-accelerated histogram computations below feed
// the same pixel-classification loop so the ink/non-ink decision never
// diverges between code paths.
func binarizeInto(dst, src []uint8, threshold uint8) {
	for i, v := range src {
		if v < threshold {
			dst[i] = 255
		} else {
			dst[i] = 0
		}
	}
}

// otsuThreshold returns the intensity threshold t* of the split that
// maximises inter-class variance of the histogram of pix: t* is the
// lowest intensity of the brighter class, so intensities < t* form the
// darker class. It returns false if every pixel shares the same
// intensity (no valid split exists).
func otsuThreshold(pix []uint8) (uint8, bool) {
	hist := histogram(pix)

	total := float64(len(pix))
	var sumAll float64
	for i, c := range hist {
		sumAll += float64(i) * float64(c)
	}

	var sumB, wB float64
	var bestVar float64
	bestT := -1
	for t := 0; t < histogramBins; t++ {
		wB += float64(hist[t])
		if wB == 0 {
			continue
		}
		wF := total - wB
		if wF == 0 {
			break
		}
		sumB += float64(t) * float64(hist[t])
		mB := sumB / wB
		mF := (sumAll - sumB) / wF
		between := wB * wF * (mB - mF) * (mB - mF)
		if between > bestVar {
			bestVar = between
			bestT = t
		}
	}
	if bestT < 0 {
		return 0, false
	}
	return uint8(bestT + 1), true
}

// histogram dispatches to the fastest available counting path; see
// binarize_amd64.go and binarize_generic.go.
func histogram(pix []uint8) [histogramBins]int {
	return histogramImpl(pix)
}
