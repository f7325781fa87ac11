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

// Package systems implements stage 6 of the detection pipeline: grouping
// staves into systems, preferring barline morphology and falling back to
// an inter-stave gap heuristic when no consistent barline geometry can
// be found.
package systems

import (
	"github.com/grailbio/base/log"
	"github.com/scoresplit/staves/barline"
	"github.com/scoresplit/staves/config"
	"github.com/scoresplit/staves/geom"
	"github.com/scoresplit/staves/numeric"
)

// Result bundles the systems found with their per-system barline info
// and whether the primary (barline) strategy succeeded; FallbackCause is
// set when the gap heuristic was used instead. The confidence model
// reads only Systems and BarlineInfo.
type Result struct {
	Systems       []geom.System
	BarlineInfo   []geom.BarlineInfo
	UsedBarline   bool
	FallbackCause string
}

// Cluster groups staveList (already sorted top-to-bottom) into systems.
func Cluster(mask *geom.BinaryMask, staveList []geom.Stave, cfg config.Config) Result {
	if len(staveList) == 0 {
		return Result{}
	}

	typicalStaveSpan := medianSpan(staveList)

	if spans, ok := primarySpans(mask, typicalStaveSpan, cfg); ok {
		if sys, ok := assign(staveList, spans, typicalStaveSpan, cfg); ok {
			return Result{Systems: sys, BarlineInfo: confirmAll(mask, sys, cfg), UsedBarline: true}
		}
	}

	sys := gapFallback(staveList)
	log.Debug.Printf("systems.Cluster: barline strategy unavailable, falling back to gap heuristic (%d systems)", len(sys))
	return Result{
		Systems:       sys,
		BarlineInfo:   confirmAll(mask, sys, cfg),
		UsedBarline:   false,
		FallbackCause: "no consistent barline geometry found",
	}
}

type span struct{ top, bot int }

// primarySpans locates the page-wide rough/fine barline column,
// extracts its runs, and splits them into system spans.
func primarySpans(mask *geom.BinaryMask, typicalStaveSpan float64, cfg config.Config) ([]span, bool) {
	roughX, ok := barline.RoughColumn(mask, 0, mask.H, cfg)
	if !ok {
		return nil, false
	}
	fineX := barline.FineColumn(mask, roughX, 0, mask.H, cfg)
	runs := barline.Runs(mask, fineX, 0, mask.H, cfg)
	if len(runs) == 0 {
		return nil, false
	}
	return splitRunsIntoSpans(runs, typicalStaveSpan, cfg), true
}

// splitRunsIntoSpans groups barline runs into per-system spans. If
// there are only one or two runs, each is its own span. Otherwise runs
// are merged whenever the gap between consecutive runs stays at or
// below max(2*median(gaps), typical_stave_span), and split otherwise.
// The two branches are kept separate rather than unified into one
// formula: the always-split two-run case and the median-based general
// case exercise distinct regression scenarios.
func splitRunsIntoSpans(runs []barline.Run, typicalStaveSpan float64, cfg config.Config) []span {
	if len(runs) <= 2 {
		spans := make([]span, len(runs))
		for i, r := range runs {
			spans[i] = span{top: r.Top, bot: r.Bot}
		}
		return spans
	}

	gaps := make([]int, len(runs)-1)
	for i := 1; i < len(runs); i++ {
		gaps[i-1] = runs[i].Top - runs[i-1].Bot
	}
	threshold := cfg.RunGapSplitFactor * numeric.Median(gaps)
	if typicalStaveSpan > threshold {
		threshold = typicalStaveSpan
	}

	var spans []span
	cur := span{top: runs[0].Top, bot: runs[0].Bot}
	for i := 1; i < len(runs); i++ {
		gap := float64(runs[i].Top - runs[i-1].Bot)
		if gap > threshold {
			spans = append(spans, cur)
			cur = span{top: runs[i].Top, bot: runs[i].Bot}
			continue
		}
		cur.bot = runs[i].Bot
	}
	spans = append(spans, cur)
	return spans
}

// assign places each stave into the system span whose padded range
// contains its centre row. ok is false if any stave could not be
// placed, signalling that the caller should fall back.
func assign(staveList []geom.Stave, spans []span, typicalStaveSpan float64, cfg config.Config) ([]geom.System, bool) {
	tol := typicalStaveSpan / cfg.SystemAssignTolDivisor
	buckets := make([][]geom.Stave, len(spans))
	for _, s := range staveList {
		centre := s.Center()
		placed := false
		for i, sp := range spans {
			if centre >= float64(sp.top)-tol && centre <= float64(sp.bot)+tol {
				buckets[i] = append(buckets[i], s)
				placed = true
				break
			}
		}
		if !placed {
			return nil, false
		}
	}
	var out []geom.System
	for _, b := range buckets {
		if len(b) == 0 {
			continue
		}
		out = append(out, geom.System{Staves: b})
	}
	return out, true
}

// gapFallback is used when no confirmed barline column exists: it
// splits the page's staves into systems wherever an inter-stave gap
// exceeds 2*median(gaps).
func gapFallback(staveList []geom.Stave) []geom.System {
	if len(staveList) == 1 {
		return []geom.System{{Staves: staveList}}
	}
	gaps := make([]int, len(staveList)-1)
	for i := 1; i < len(staveList); i++ {
		gaps[i-1] = staveList[i].Top() - staveList[i-1].Bottom()
	}
	threshold := 2 * numeric.Median(gaps)

	var out []geom.System
	cur := []geom.Stave{staveList[0]}
	for i := 1; i < len(staveList); i++ {
		gap := float64(staveList[i].Top() - staveList[i-1].Bottom())
		if gap > threshold {
			out = append(out, geom.System{Staves: cur})
			cur = []geom.Stave{staveList[i]}
			continue
		}
		cur = append(cur, staveList[i])
	}
	out = append(out, geom.System{Staves: cur})
	return out
}

// confirmAll runs per-system barline morphological confirmation within
// each system's own vertical band.
func confirmAll(mask *geom.BinaryMask, sys []geom.System, cfg config.Config) []geom.BarlineInfo {
	infos := make([]geom.BarlineInfo, len(sys))
	for i, s := range sys {
		top, bot := s.Top(), s.Bottom()+1
		if top < 0 {
			top = 0
		}
		if bot > mask.H {
			bot = mask.H
		}
		roughX, ok := barline.RoughColumn(mask, top, bot, cfg)
		if !ok {
			continue
		}
		infos[i] = barline.Confirm(mask, roughX, top, bot, cfg)
	}
	return infos
}

func medianSpan(staveList []geom.Stave) float64 {
	spans := make([]int, len(staveList))
	for i, s := range staveList {
		spans[i] = s.Span()
	}
	return numeric.Median(spans)
}
