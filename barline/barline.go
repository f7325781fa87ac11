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

// Package barline locates and confirms the vertical barline column of a
// system. A barline is thin and continuous; a bracket (the decorative
// curve grouping staves) is thick but broken, so a short rightward scan
// from the bracket's rough column, picking the column with the longest
// unbroken vertical ink run, separates the two.
package barline

import (
	"github.com/scoresplit/staves/config"
	"github.com/scoresplit/staves/geom"
	"github.com/scoresplit/staves/projection"
)

// Run is a contiguous vertical ink run found on the collapsed barline
// column.
type Run struct {
	Top, Bot int
}

func (r Run) Length() int { return r.Bot - r.Top + 1 }

// RoughColumn finds the left-most cluster of columns, within the left
// RoughColumnBandFraction of the page width, whose ink count over
// [yTop, yBot) reaches RoughColumnInkRatio of the band height. Within
// that cluster it returns the column with the most ink. ok is false if
// no column reaches the ink-ratio threshold.
func RoughColumn(mask *geom.BinaryMask, yTop, yBot int, cfg config.Config) (roughX int, ok bool) {
	bandHeight := yBot - yTop
	if bandHeight <= 0 {
		return 0, false
	}
	xEnd := int(float64(mask.W) * cfg.RoughColumnBandFraction)
	if xEnd > mask.W {
		xEnd = mask.W
	}
	threshold := cfg.RoughColumnInkRatio * float64(bandHeight)

	var candidates []int
	for x := 0; x < xEnd; x++ {
		if columnInk(mask, x, yTop, yBot) >= threshold {
			candidates = append(candidates, x)
		}
	}
	if len(candidates) == 0 {
		return 0, false
	}

	// Group adjacent candidates into the first (left-most) cluster.
	clusterEnd := 0
	for clusterEnd+1 < len(candidates) && candidates[clusterEnd+1]-candidates[clusterEnd] <= cfg.RoughColumnClusterGap {
		clusterEnd++
	}
	cluster := candidates[:clusterEnd+1]

	best := cluster[0]
	bestInk := columnInk(mask, best, yTop, yBot)
	for _, x := range cluster[1:] {
		if ink := columnInk(mask, x, yTop, yBot); ink > bestInk {
			bestInk = ink
			best = x
		}
	}
	return best, true
}

// FineColumn scans up to FineColumnSearchWidth columns to the right of
// roughX and returns the column with the longest unbroken vertical ink
// run within [yTop, yBot).
func FineColumn(mask *geom.BinaryMask, roughX, yTop, yBot int, cfg config.Config) int {
	bestX := roughX
	bestRun := longestRun(mask, roughX, yTop, yBot)
	limit := roughX + cfg.FineColumnSearchWidth
	if limit > mask.W {
		limit = mask.W
	}
	for x := roughX + 1; x < limit; x++ {
		if run := longestRun(mask, x, yTop, yBot); run > bestRun {
			bestRun = run
			bestX = x
		}
	}
	return bestX
}

// Runs extracts contiguous ink runs of length >= MinRunLength from the
// strip of width 2*BarlineJitter+1 centred on fineX within [yTop, yBot),
// collapsed to a single logical column (ink at row y iff any pixel in
// the strip at row y is ink -- this both tolerates a few pixels of
// horizontal wobble and stands in for a "dilate then collapse" step,
// since a union over the jittered strip has the same effect as
// dilating a single center column by the jitter width before collapsing it).
func Runs(mask *geom.BinaryMask, fineX, yTop, yBot int, cfg config.Config) []Run {
	col := collapseColumn(mask, fineX, yTop, yBot, cfg.BarlineJitter)
	return extractRuns(col, yTop, cfg.MinRunLength)
}

// Confirm implements the per-system morphological confirmation: find
// the fine column within the band, collapse it to a single logical
// column, and keep only runs whose length reaches the band height b
// (the effect of a 1xb vertical morphological opening).
// The tallest surviving run is accepted as the confirmed barline iff
// its height is at least ConfirmationHeightRatio*b; otherwise no span
// is confirmed.
func Confirm(mask *geom.BinaryMask, roughX, yTop, yBot int, cfg config.Config) geom.BarlineInfo {
	b := yBot - yTop
	if b <= 0 {
		return geom.BarlineInfo{}
	}
	fineX := FineColumn(mask, roughX, yTop, yBot, cfg)
	col := collapseColumn(mask, fineX, yTop, yBot, cfg.BarlineJitter)
	runs := extractRuns(col, yTop, b)

	var best *Run
	for i := range runs {
		if best == nil || runs[i].Length() > best.Length() {
			best = &runs[i]
		}
	}
	if best == nil || float64(best.Length()) < cfg.ConfirmationHeightRatio*float64(b) {
		return geom.BarlineInfo{}
	}
	x, top, bot := fineX, best.Top, best.Bot
	return geom.BarlineInfo{X: &x, Top: &top, Bot: &bot}
}

// columnInk is the single-column case of projection.Vertical, the way
// RoughColumn scans one column at a time while searching for the
// left-most barline/bracket cluster.
func columnInk(mask *geom.BinaryMask, x, yTop, yBot int) float64 {
	return projection.Vertical(mask, x, x+1, yTop, yBot)[0]
}

// longestRun returns the longest unbroken vertical ink run at column x
// within [yTop, yBot).
func longestRun(mask *geom.BinaryMask, x, yTop, yBot int) int {
	best, cur := 0, 0
	for y := yTop; y < yBot; y++ {
		if mask.Ink(x, y) {
			cur++
			if cur > best {
				best = cur
			}
		} else {
			cur = 0
		}
	}
	return best
}

// collapseColumn returns, for each row in [yTop, yBot), whether any
// pixel within [x-jitter, x+jitter] is ink.
func collapseColumn(mask *geom.BinaryMask, x, yTop, yBot, jitter int) []bool {
	col := make([]bool, yBot-yTop)
	xStart := x - jitter
	if xStart < 0 {
		xStart = 0
	}
	xEnd := x + jitter + 1
	if xEnd > mask.W {
		xEnd = mask.W
	}
	for y := yTop; y < yBot; y++ {
		ink := false
		for xi := xStart; xi < xEnd; xi++ {
			if mask.Ink(xi, y) {
				ink = true
				break
			}
		}
		col[y-yTop] = ink
	}
	return col
}

// extractRuns finds contiguous true runs in col (whose index 0
// corresponds to absolute row yOffset) of length >= minLen.
func extractRuns(col []bool, yOffset, minLen int) []Run {
	var runs []Run
	start := -1
	flush := func(end int) {
		if start < 0 {
			return
		}
		if end-start >= minLen {
			runs = append(runs, Run{Top: start + yOffset, Bot: end - 1 + yOffset})
		}
		start = -1
	}
	for i, v := range col {
		if v {
			if start < 0 {
				start = i
			}
		} else {
			flush(i)
		}
	}
	flush(len(col))
	return runs
}
