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

// Package rescue implements stage 5 of the detection pipeline, "squint
// rescue": a second, heavily-blurred pass over the projection that
// recovers whole staves stage 4 missed entirely, using geometry learned
// from the staves stage 4 did find.
package rescue

import (
	"math"
	"sort"

	"github.com/grailbio/base/log"
	"github.com/scoresplit/staves/config"
	"github.com/scoresplit/staves/geom"
	"github.com/scoresplit/staves/numeric"
	"github.com/scoresplit/staves/peaks"
)

// Rescue re-examines proj for staves that stage 4 missed. It is a
// no-op if there are no orphans or no staves were already found. It
// returns the full, sorted stave list (original plus rescued) and the
// orphan rows that remain after dropping any now explained by a
// rescued stave.
func Rescue(proj []float64, existing []geom.Stave, orphans []int, cfg config.Config) (staveList []geom.Stave, remainingOrphans []int) {
	if len(orphans) == 0 || len(existing) == 0 {
		return existing, orphans
	}

	typicalSpan := medianSpan(existing)
	if typicalSpan <= 0 {
		return existing, orphans
	}
	typicalSpacing := typicalSpan / 4

	kernel := int(typicalSpan)
	if kernel%2 == 0 {
		kernel++
	}
	if kernel < 3 {
		kernel = 3
	}
	blurred := peaks.Smooth(proj, kernel)

	distance := int(cfg.RescueDistanceFactor * typicalSpan)
	prominence := cfg.RescueProminenceRatio * projMax(blurred)
	hills := peaks.Find(blurred, distance, prominence)

	sorted := append([]geom.Stave(nil), existing...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Top() < sorted[j].Top() })

	exclusions := make([][2]float64, len(sorted))
	for i, s := range sorted {
		half := typicalSpan * cfg.RescueExclusionFactor
		exclusions[i] = [2]float64{float64(s.Top()) - half, float64(s.Bottom()) + half}
	}

	pageMargin := typicalSpan
	if gaps := interStaveGaps(sorted); len(gaps) > 0 {
		pageMargin = 2 * float64(numeric.Max(gaps))
	}

	bandTop := float64(sorted[0].Top()) - pageMargin
	currentBottom := float64(sorted[len(sorted)-1].Bottom()) + pageMargin

	minHillHeight := cfg.RescueHeightGateRatio * medianHeightAtCentres(blurred, sorted)

	var rescued []geom.Stave
	for _, c := range hills {
		cf := float64(c)
		if covered(cf, exclusions) {
			continue
		}
		if cf < bandTop || cf > currentBottom {
			continue
		}
		if blurred[c] < minHillHeight {
			continue
		}
		var s geom.Stave
		for i := 0; i < 5; i++ {
			s[i] = int(math.Round(cf - 2*typicalSpacing + float64(i)*typicalSpacing))
		}
		rescued = append(rescued, s)
		exclusions = append(exclusions, [2]float64{cf - typicalSpan*cfg.RescueExclusionFactor, cf + typicalSpan*cfg.RescueExclusionFactor})
		if float64(s.Bottom())+pageMargin > currentBottom {
			currentBottom = float64(s.Bottom()) + pageMargin
		}
	}

	if len(rescued) == 0 {
		return sorted, orphans
	}

	allStaves := append(sorted, rescued...)
	sort.Slice(allStaves, func(i, j int) bool { return allStaves[i].Top() < allStaves[j].Top() })

	tol := cfg.RescueOrphanToleranceRows
	for _, o := range orphans {
		if insideAnyStave(o, rescued, tol) {
			continue
		}
		remainingOrphans = append(remainingOrphans, o)
	}

	log.Debug.Printf("rescue.Rescue: recovered %d staves, %d orphans remain", len(rescued), len(remainingOrphans))
	return allStaves, remainingOrphans
}

func medianSpan(staveList []geom.Stave) float64 {
	spans := make([]int, len(staveList))
	for i, s := range staveList {
		spans[i] = s.Span()
	}
	return numeric.Median(spans)
}

func interStaveGaps(sorted []geom.Stave) []int {
	if len(sorted) < 2 {
		return nil
	}
	gaps := make([]int, 0, len(sorted)-1)
	for i := 1; i < len(sorted); i++ {
		gaps = append(gaps, sorted[i].Top()-sorted[i-1].Bottom())
	}
	return gaps
}

func medianHeightAtCentres(blurred []float64, sorted []geom.Stave) float64 {
	heights := make([]float64, len(sorted))
	for i, s := range sorted {
		c := int(math.Round(s.Center()))
		if c < 0 {
			c = 0
		}
		if c >= len(blurred) {
			c = len(blurred) - 1
		}
		heights[i] = blurred[c]
	}
	return numeric.MedianFloat(heights)
}

func covered(c float64, exclusions [][2]float64) bool {
	for _, z := range exclusions {
		if c >= z[0] && c <= z[1] {
			return true
		}
	}
	return false
}

func insideAnyStave(row int, staveList []geom.Stave, tol int) bool {
	for _, s := range staveList {
		if row >= s.Top()-tol && row <= s.Bottom()+tol {
			return true
		}
	}
	return false
}

func projMax(xs []float64) float64 {
	m := 0.0
	for _, x := range xs {
		if x > m {
			m = x
		}
	}
	return m
}
