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

// Package debugimg renders a detection Result onto a copy of its source
// page image for manual inspection, the way the original Python
// prototype's analyzer dumped an annotated page alongside its
// projection curve. Detect itself never calls this package; it exists
// purely as an opt-in diagnostic for callers (cmd/stavedetect's
// -debug-image flag, in particular).
package debugimg

import "github.com/scoresplit/staves/geom"

// Intensity values used for overlay marks; chosen to survive a
// subsequent grayscale JPEG re-encode without banding into the page's
// own ink or background tones.
const (
	staveMark  = 40
	orphanMark = 160
)

// Overlay draws every detected stave line across the full page width,
// and a short tick at every orphaned peak row in the left margin,
// returning a new PageImage (img is never modified in place).
func Overlay(img geom.PageImage, res geom.Result) geom.PageImage {
	out := geom.PageImage{H: img.H, W: img.W, Pix: append([]uint8(nil), img.Pix...)}

	for _, sy := range res.Systems {
		for _, s := range sy.Staves {
			for _, y := range s {
				if y < 0 || y >= out.H {
					continue
				}
				drawRow(&out, y, staveMark)
			}
		}
	}
	for _, y := range res.Orphans {
		if y < 0 || y >= out.H {
			continue
		}
		drawMargin(&out, y, orphanMark)
	}
	return out
}

func drawRow(img *geom.PageImage, y int, v uint8) {
	row := img.Pix[y*img.W : (y+1)*img.W]
	for i := range row {
		row[i] = v
	}
}

func drawMargin(img *geom.PageImage, y int, v uint8) {
	width := img.W / 40
	if width < 1 {
		width = 1
	}
	row := img.Pix[y*img.W : y*img.W+width]
	for i := range row {
		row[i] = v
	}
}
