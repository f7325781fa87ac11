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

// Package confidence implements stage 7 of the detection pipeline:
// combining gap consistency, barline confirmation and orphan ratio into
// a single calibrated score with per-axis, human-readable reasons.
// Detection never aborts a page for a low score; this package only ever
// downgrades confidence, it never returns an error.
package confidence

import (
	"fmt"

	"github.com/scoresplit/staves/config"
	"github.com/scoresplit/staves/geom"
)

// Score computes the confidence report for one page's detection
// result. totalPeaks is the peak count from stage 3, used as the
// denominator of the orphan ratio.
func Score(systemsList []geom.System, barlineInfos []geom.BarlineInfo, orphans []int, totalPeaks int, cfg config.Config) geom.ConfidenceReport {
	if len(systemsList) == 0 {
		return geom.ConfidenceReport{
			Total:    0,
			Gap:      geom.AxisScore{Score: 0, Reasons: []string{"No staves detected"}},
			Barlines: geom.AxisScore{Score: 0, Reasons: []string{"No staves detected"}},
			Staves:   geom.AxisScore{Score: 0, Reasons: []string{"No staves detected"}},
		}
	}

	gap := gapScore(systemsList, cfg)
	barlines := barlineScore(systemsList, barlineInfos, cfg)
	staveQuality := staveQualityScore(systemsList, orphans, totalPeaks, cfg)

	total := cfg.WeightGap*gap.Score + cfg.WeightBarline*barlines.Score + cfg.WeightStave*staveQuality.Score
	if gap.Score >= cfg.AgreementGapThreshold && barlines.Score == 1.0 {
		total += cfg.AgreementBonus
		if total > 1.0 {
			total = 1.0
		}
	}

	return geom.ConfidenceReport{Total: total, Gap: gap, Barlines: barlines, Staves: staveQuality}
}

func gapScore(systemsList []geom.System, cfg config.Config) geom.AxisScore {
	score := cfg.GapScoreBaseline
	var reasons []string

	if len(systemsList) > 1 && !equalSizes(systemsList) {
		score -= cfg.GapScoreUnequalSizesPenalty
		reasons = append(reasons, fmt.Sprintf("system sizes vary: %v", sizes(systemsList)))
	}
	if anySmallSystem(systemsList) {
		score -= cfg.GapScoreSmallSystemPenalty
		reasons = append(reasons, "a system has fewer than 2 staves")
	}
	if score < 0 {
		score = 0
	}
	if len(reasons) == 0 {
		reasons = append(reasons, fmt.Sprintf("system sizes consistent: %v", sizes(systemsList)))
	}
	return geom.AxisScore{Score: score, Reasons: reasons}
}

func barlineScore(systemsList []geom.System, barlineInfos []geom.BarlineInfo, cfg config.Config) geom.AxisScore {
	t := len(systemsList)
	if t == 0 {
		return geom.AxisScore{Score: 0, Reasons: []string{"no systems to confirm barlines for"}}
	}
	c := 0
	for _, bi := range barlineInfos {
		if bi.Confirmed() {
			c++
		}
	}
	score := float64(c) / float64(t)
	reason := fmt.Sprintf("%d/%d systems have a confirmed barline", c, t)
	if c < t {
		reason += "; the rest fell back to the gap heuristic or had no detectable barline"
	}
	return geom.AxisScore{Score: score, Reasons: []string{reason}}
}

func staveQualityScore(systemsList []geom.System, orphans []int, totalPeaks int, cfg config.Config) geom.AxisScore {
	if totalStaves(systemsList) == 0 {
		return geom.AxisScore{Score: 0, Reasons: []string{"no staves detected"}}
	}
	score := 1.0
	var reasons []string
	if totalPeaks > 0 && len(orphans) > 0 {
		penalty := cfg.StaveQualityOrphanPenaltyMult * float64(len(orphans)) / float64(totalPeaks)
		if penalty > cfg.StaveQualityOrphanPenaltyCap {
			penalty = cfg.StaveQualityOrphanPenaltyCap
		}
		score -= penalty
		reasons = append(reasons, fmt.Sprintf("%d of %d detected peaks were orphaned", len(orphans), totalPeaks))
	}
	if score < 0 {
		score = 0
	}
	if len(reasons) == 0 {
		reasons = append(reasons, "no orphaned peaks")
	}
	return geom.AxisScore{Score: score, Reasons: reasons}
}

func sizes(systemsList []geom.System) []int {
	out := make([]int, len(systemsList))
	for i, s := range systemsList {
		out[i] = len(s.Staves)
	}
	return out
}

func equalSizes(systemsList []geom.System) bool {
	if len(systemsList) == 0 {
		return true
	}
	n := len(systemsList[0].Staves)
	for _, s := range systemsList[1:] {
		if len(s.Staves) != n {
			return false
		}
	}
	return true
}

func anySmallSystem(systemsList []geom.System) bool {
	for _, s := range systemsList {
		if len(s.Staves) < 2 {
			return true
		}
	}
	return false
}

func totalStaves(systemsList []geom.System) int {
	n := 0
	for _, s := range systemsList {
		n += len(s.Staves)
	}
	return n
}
