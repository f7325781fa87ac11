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

// Package detect orchestrates the seven-stage staff-detection pipeline
// (binarise, project, find peaks, cluster staves, squint rescue,
// cluster systems, score confidence) into the single entry point,
// Detect. It is a pure, single-threaded function of its input; no
// stage keeps state between invocations.
package detect

import (
	"context"

	"github.com/grailbio/base/log"
	"github.com/grailbio/base/traverse"
	"github.com/scoresplit/staves/confidence"
	"github.com/scoresplit/staves/config"
	"github.com/scoresplit/staves/detecterr"
	"github.com/scoresplit/staves/geom"
	"github.com/scoresplit/staves/imaging"
	"github.com/scoresplit/staves/peaks"
	"github.com/scoresplit/staves/projection"
	"github.com/scoresplit/staves/rescue"
	"github.com/scoresplit/staves/staves"
	"github.com/scoresplit/staves/systems"
)

// Detect runs the full staff-detection pipeline on img and returns the
// structural result: systems, staves, barline info and a confidence
// report. If mask is non-nil, binarisation (stage 1) is skipped and
// mask is used directly.
//
// The returned error is non-nil in two disjoint situations:
//   - A non-fatal detecterr.KindInsufficientPeaks error: fewer than 5
//     peaks were found. The returned Result is still valid (empty
//     systems, every peak orphaned, confidence 0).
//   - A fatal detecterr.KindDegenerateImage or
//     KindInternalInvariantViolation error: the returned Result is the
//     zero value and must not be used.
func Detect(img geom.PageImage, mask *geom.BinaryMask, cfg config.Config) (geom.Result, error) {
	if mask == nil {
		m, err := imaging.Binarize(img)
		if err != nil {
			return geom.Result{}, err
		}
		mask = m
	}

	proj := projection.Horizontal(mask)
	kernel := peaks.KernelSize(mask.H, cfg.SmoothKernelDivisor)
	smoothed := peaks.Smooth(proj, kernel)
	distance := peaks.Distance(mask.H, cfg.PeakDistanceDivisor)
	prominence := cfg.PeakProminenceRatio * projection.Max(proj)
	peakRows := peaks.Find(smoothed, distance, prominence)

	staveList, orphans, err := staves.Cluster(peakRows, cfg)
	if err != nil {
		// Non-fatal: too few peaks to cluster into a stave means empty
		// output at confidence 0. Every peak we did find (possibly
		// zero) becomes an orphan; there is nothing left for stage 5
		// or 6 to operate on.
		report := confidence.Score(nil, nil, orphans, len(peakRows), cfg)
		return geom.Result{Orphans: orphans, Confidence: report}, err
	}

	staveList, orphans = rescue.Rescue(proj, staveList, orphans, cfg)

	sysResult := systems.Cluster(mask, staveList, cfg)
	report := confidence.Score(sysResult.Systems, sysResult.BarlineInfo, orphans, len(peakRows), cfg)

	result := geom.Result{
		Systems:     sysResult.Systems,
		Orphans:     orphans,
		BarlineInfo: sysResult.BarlineInfo,
		Confidence:  report,
	}

	if violation := checkInvariants(result, mask.H); violation != "" {
		log.Error.Printf("detect.Detect: invariant violation: %s", violation)
		return geom.Result{}, detecterr.InternalInvariantViolation(violation)
	}

	log.Debug.Printf("detect.Detect: %s", result.Summary())
	return result, nil
}

// DetectAll runs Detect over a slice of independent pages, bounding
// concurrency with github.com/grailbio/base/traverse. Pages are
// independent and share no state, so no synchronisation beyond the
// fan-out itself is required. ctx is checked once per page so
// cancellation takes effect between pages, never mid-page.
func DetectAll(ctx context.Context, imgs []geom.PageImage, cfg config.Config) ([]geom.Result, []error) {
	results := make([]geom.Result, len(imgs))
	errs := make([]error, len(imgs))
	_ = traverse.Each(len(imgs), func(i int) error {
		if err := ctx.Err(); err != nil {
			errs[i] = err
			return nil
		}
		results[i], errs[i] = Detect(imgs[i], nil, cfg)
		return nil
	})
	return results, errs
}

// checkInvariants verifies the structural guarantees a Result must
// satisfy, returning a non-empty diagnostic string describing the
// first violation found, or "" if the result is sound.
func checkInvariants(r geom.Result, pageHeight int) string {
	prevBottom := -1
	for _, sy := range r.Systems {
		if len(sy.Staves) == 0 {
			return "system has no staves"
		}
		if sy.Top() <= prevBottom {
			return "systems are not sorted top-to-bottom without overlap"
		}
		prevBottom = sy.Bottom()

		prevStaveBottom := -1
		for _, s := range sy.Staves {
			if !s.Valid() {
				return "stave does not have 5 strictly increasing rows"
			}
			if s.Bottom() >= pageHeight {
				return "stave row exceeds page height"
			}
			if s.Top() <= prevStaveBottom {
				return "staves within a system are not sorted or overlap"
			}
			prevStaveBottom = s.Bottom()
		}
	}
	if len(r.BarlineInfo) != len(r.Systems) {
		return "barline_info length does not match system count"
	}
	if r.Confidence.Total < 0 || r.Confidence.Total > 1 {
		return "confidence total out of [0,1]"
	}
	for _, axis := range []geom.AxisScore{r.Confidence.Gap, r.Confidence.Barlines, r.Confidence.Staves} {
		if axis.Score < 0 || axis.Score > 1 {
			return "confidence axis out of [0,1]"
		}
	}
	return ""
}
