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

// Package config centralises every tunable of the staff-detection
// pipeline in one plain record, the way markduplicates.Opts and
// pileup/snp.Opts keep algorithm code free of scattered magic numbers.
// None of the fields here are module-level constants; every stage
// function takes a Config explicitly.
package config

// Config holds every heuristic parameter used by the detection pipeline.
// The zero value is not useful; callers should start from Default() and
// override only what they need to change.
type Config struct {
	// --- Peak detection ---

	// PeakProminenceRatio is the minimum peak prominence, as a fraction
	// of the projection's maximum value.
	PeakProminenceRatio float64
	// PeakDistanceDivisor turns page height into a minimum row distance
	// between accepted peaks: distance = max(3, H/PeakDistanceDivisor).
	PeakDistanceDivisor int
	// SmoothKernelDivisor turns page height into a smoothing kernel
	// size: k = max(3, H/SmoothKernelDivisor), rounded up to odd.
	SmoothKernelDivisor int

	// --- Stave clustering ---

	// TypicalSpacingQuantile selects the sorted-gap index used as the
	// typical_spacing estimate (index = floor(len(gaps) / Quantile)).
	TypicalSpacingQuantile int
	// MaxStaveSpanFactor and MaxStaveSpanTolerance combine into
	// max_stave_span = typical_spacing * MaxStaveSpanFactor * (1 + MaxStaveSpanTolerance).
	MaxStaveSpanFactor    float64
	MaxStaveSpanTolerance float64
	// MaxLineGapFactor gives max_line_gap = MaxLineGapFactor * typical_spacing.
	MaxLineGapFactor float64
	// RepairToleranceRatio bounds |implied_spacing - typical_spacing| / typical_spacing
	// for a 3-4 peak group to be repaired into a stave.
	RepairToleranceRatio float64
	// SplitGapFactor is the multiple of local_median that triggers a
	// flush when splitting an oversized (>6 peak) group.
	SplitGapFactor float64

	// --- Squint rescue ---

	// RescueDistanceFactor and RescueProminenceRatio parameterise hill
	// detection on the heavily-blurred projection.
	RescueDistanceFactor   float64
	RescueProminenceRatio  float64
	// RescueExclusionFactor widens each known stave into an exclusion
	// zone of typical_span * RescueExclusionFactor on each side.
	RescueExclusionFactor float64
	// RescueHeightGateRatio gates rescued hills against a fraction of
	// the blurred signal's height at known stave centres.
	RescueHeightGateRatio float64
	// RescueOrphanToleranceRows is the +/- tolerance, in rows, used to
	// drop orphans that fall inside a rescued stave.
	RescueOrphanToleranceRows int

	// --- Barline morphology ---

	// RoughColumnBandFraction is the fraction of page width (from the
	// left) searched for the rough barline/bracket column.
	RoughColumnBandFraction float64
	// RoughColumnInkRatio is the minimum fraction of the searched band's
	// height (the whole page height for the page-wide search) a column's
	// ink count must reach to be a rough-column candidate.
	RoughColumnInkRatio float64
	// RoughColumnClusterGap is the maximum column gap, in pixels,
	// allowed when grouping adjacent rough-column candidates.
	RoughColumnClusterGap int
	// FineColumnSearchWidth is how many columns right of rough_x are
	// scanned for the fine (true barline) column.
	FineColumnSearchWidth int
	// BarlineJitter is the +/- column jitter used to build the strip
	// extracted around the fine column.
	BarlineJitter int
	// MinRunLength is the minimum vertical ink run length, in rows, for
	// a run to be considered part of a barline.
	MinRunLength int
	// RunGapSplitFactor is the multiple of the median inter-run gap (or
	// typical stave span, whichever is larger) used to split runs into
	// separate system spans.
	RunGapSplitFactor float64
	// SystemAssignTolDivisor divides typical_stave_span into the vertical
	// tolerance applied when assigning a stave to a system span by its
	// centre row.
	SystemAssignTolDivisor float64
	// ConfirmationHeightRatio is the fraction of the band height a
	// vertical run must cover to confirm a barline span.
	ConfirmationHeightRatio float64

	// --- Confidence scoring ---

	GapScoreBaseline              float64
	GapScoreUnequalSizesPenalty   float64
	GapScoreSmallSystemPenalty    float64
	StaveQualityOrphanPenaltyCap  float64
	StaveQualityOrphanPenaltyMult float64
	WeightGap                     float64
	WeightBarline                 float64
	WeightStave                   float64
	AgreementBonus                float64
	AgreementGapThreshold         float64
}

// Default returns the configuration whose numeric values are the
// tuned heuristic constants the detection pipeline was calibrated
// against. These constants are load-bearing: changing them changes
// behaviour on the regression scenarios, so callers should override
// individual fields rather than reconstructing a Config from scratch.
func Default() Config {
	return Config{
		PeakProminenceRatio: 0.15,
		PeakDistanceDivisor: 300,
		SmoothKernelDivisor: 500,

		TypicalSpacingQuantile: 4,
		MaxStaveSpanFactor:     4,
		MaxStaveSpanTolerance:  0.4,
		MaxLineGapFactor:       2,
		RepairToleranceRatio:   0.4,
		SplitGapFactor:         1.8,

		RescueDistanceFactor:      0.8,
		RescueProminenceRatio:     0.08,
		RescueExclusionFactor:     0.5,
		RescueHeightGateRatio:     0.6,
		RescueOrphanToleranceRows: 5,

		RoughColumnBandFraction: 0.6,
		RoughColumnInkRatio:     0.15,
		RoughColumnClusterGap:   5,
		FineColumnSearchWidth:   30,
		BarlineJitter:           3,
		MinRunLength:            50,
		RunGapSplitFactor:       2,
		SystemAssignTolDivisor:  2,
		ConfirmationHeightRatio: 0.8,

		GapScoreBaseline:              1.0,
		GapScoreUnequalSizesPenalty:   0.3,
		GapScoreSmallSystemPenalty:    0.4,
		StaveQualityOrphanPenaltyCap:  0.5,
		StaveQualityOrphanPenaltyMult: 2,
		WeightGap:                     0.25,
		WeightBarline:                 0.50,
		WeightStave:                   0.25,
		AgreementBonus:                0.1,
		AgreementGapThreshold:         0.7,
	}
}
