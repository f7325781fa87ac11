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

// Package staves implements stage 4 of the detection pipeline: grouping
// candidate peak rows into 5-line staves, with repair of near-miss
// groups, trimming of one-too-many groups, and splitting of badly
// oversized groups.
package staves

import (
	"math"

	"github.com/grailbio/base/log"
	"github.com/scoresplit/staves/config"
	"github.com/scoresplit/staves/detecterr"
	"github.com/scoresplit/staves/geom"
	"github.com/scoresplit/staves/numeric"
)

// Cluster groups ascending peak rows into five-line staves, repairing
// short groups and splitting oversized ones. Returns
// detecterr.InsufficientPeaks (non-fatal) with empty staves and every
// peak orphaned if fewer than 5 peaks are supplied.
func Cluster(peakRows []int, cfg config.Config) (staveList []geom.Stave, orphans []int, err error) {
	if len(peakRows) < 5 {
		return nil, append([]int(nil), peakRows...), detecterr.InsufficientPeaks(len(peakRows))
	}

	gaps := numeric.Gaps(peakRows)
	typicalSpacing := numeric.QuantileIndex(gaps, cfg.TypicalSpacingQuantile)
	if typicalSpacing <= 0 {
		// Degenerate but not fatal: fall back to a spacing of one row
		// so the span/gap thresholds below stay finite.
		typicalSpacing = 1
	}
	maxStaveSpan := typicalSpacing * cfg.MaxStaveSpanFactor * (1 + cfg.MaxStaveSpanTolerance)
	maxLineGap := cfg.MaxLineGapFactor * typicalSpacing

	groups := groupPeaks(peakRows, maxLineGap, maxStaveSpan)

	for _, g := range groups {
		switch {
		case len(g) == 5:
			staveList = append(staveList, toStave(g))
		case len(g) >= 3 && len(g) <= 4:
			if st, ok := repair(g, typicalSpacing, cfg.RepairToleranceRatio); ok {
				staveList = append(staveList, st)
			} else {
				orphans = append(orphans, g...)
			}
		case len(g) == 6:
			staveList = append(staveList, trim(g))
		case len(g) > 6:
			sts, orph := split(g, typicalSpacing, cfg)
			staveList = append(staveList, sts...)
			orphans = append(orphans, orph...)
		default: // <= 2
			orphans = append(orphans, g...)
		}
	}

	log.Debug.Printf("staves.Cluster: %d peaks -> %d staves, %d orphans (typical_spacing=%.2f)",
		len(peakRows), len(staveList), len(orphans), typicalSpacing)
	return staveList, orphans, nil
}

// groupPeaks walks peaks left to right, starting a new group whenever
// the gap to the next peak exceeds maxLineGap, or appending the next
// peak would make the group's span exceed maxStaveSpan.
func groupPeaks(peaks []int, maxLineGap, maxStaveSpan float64) [][]int {
	var groups [][]int
	current := []int{peaks[0]}
	for i := 1; i < len(peaks); i++ {
		gap := float64(peaks[i] - peaks[i-1])
		span := float64(peaks[i] - current[0])
		if gap > maxLineGap || span > maxStaveSpan {
			groups = append(groups, current)
			current = []int{peaks[i]}
			continue
		}
		current = append(current, peaks[i])
	}
	groups = append(groups, current)
	return groups
}

func toStave(rows []int) geom.Stave {
	var s geom.Stave
	copy(s[:], rows)
	return s
}

// repair synthesises an evenly-spaced 5-line stave from a 3-4 peak
// group when the implied line spacing is close enough to the page's
// typical spacing.
func repair(g []int, typicalSpacing, tolerance float64) (geom.Stave, bool) {
	first, last := g[0], g[len(g)-1]
	impliedSpacing := float64(last-first) / 4
	if typicalSpacing == 0 {
		return geom.Stave{}, false
	}
	if math.Abs(impliedSpacing-typicalSpacing)/typicalSpacing > tolerance {
		return geom.Stave{}, false
	}
	var s geom.Stave
	for i := 0; i < 5; i++ {
		s[i] = int(math.Round(float64(first) + float64(i)*impliedSpacing))
	}
	return s, true
}

// trim picks, among the 6 candidates formed by deleting one peak from
// a 6-peak group, the one whose four adjacent gaps have minimum
// variance.
func trim(g []int) geom.Stave {
	bestVar := math.Inf(1)
	best := g[:5]
	for i := range g {
		candidate := make([]int, 0, 5)
		candidate = append(candidate, g[:i]...)
		candidate = append(candidate, g[i+1:]...)
		v := numeric.Variance(numeric.Gaps(candidate))
		if v < bestVar {
			bestVar = v
			best = candidate
		}
	}
	return toStave(best)
}

// split breaks an oversized (>6 peak) group into staves using a local
// gap threshold based on the group's own median inter-peak gap,
// flushing a stave every time a sub-group reaches 5 members, and
// flushing (via repair, or orphaning)
// whenever the gap to the next peak is too large.
func split(g []int, typicalSpacing float64, cfg config.Config) (staveList []geom.Stave, orphans []int) {
	localMedian := numeric.Median(numeric.Gaps(g))
	threshold := cfg.SplitGapFactor * localMedian

	flush := func(sub []int) {
		switch {
		case len(sub) == 5:
			staveList = append(staveList, toStave(sub))
		case len(sub) >= 3 && len(sub) <= 4:
			if st, ok := repair(sub, typicalSpacing, cfg.RepairToleranceRatio); ok {
				staveList = append(staveList, st)
			} else {
				orphans = append(orphans, sub...)
			}
		case len(sub) > 0:
			orphans = append(orphans, sub...)
		}
	}

	var sub []int
	for _, p := range g {
		if len(sub) == 0 {
			sub = append(sub, p)
			continue
		}
		gap := float64(p - sub[len(sub)-1])
		if gap > threshold {
			flush(sub)
			sub = []int{p}
			continue
		}
		sub = append(sub, p)
		if len(sub) == 5 {
			flush(sub)
			sub = nil
		}
	}
	flush(sub)
	return staveList, orphans
}
