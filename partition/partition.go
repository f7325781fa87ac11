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

// Package partition turns a detection geom.Result into the rectangular
// row strips a downstream part-extraction step crops out of the source
// page, one strip per instrument stave. Margin growth can make two
// strips overlap; MarginUnion merges them back into a disjoint set
// using package interval's endpoint-union scanner, the same
// merge-and-scan machinery interval was built around, here applied to
// page rows instead of the intervals it was first written for.
package partition

import (
	"sort"

	"github.com/scoresplit/staves/geom"
	"github.com/scoresplit/staves/interval"
)

// Strip is one instrument's row range within a page, [Top, Bottom].
type Strip struct {
	Top, Bottom int
	System      int // index into the originating Result.Systems
	Stave       int // index into that system's Staves
}

// Height is the number of rows the strip spans.
func (s Strip) Height() int { return s.Bottom - s.Top + 1 }

// Margin returns s grown by m rows on each side, clamped to
// [0, pageHeight).
func (s Strip) Margin(m, pageHeight int) Strip {
	out := s
	out.Top -= m
	out.Bottom += m
	if out.Top < 0 {
		out.Top = 0
	}
	if out.Bottom >= pageHeight {
		out.Bottom = pageHeight - 1
	}
	return out
}

// Strips converts every stave of every system in r into a Strip, using
// the midpoint between adjacent staves as the cut line so that two
// strips never overlap and every row of the page is assigned to exactly
// one strip: the first strip starts at row 0 and the last ends at row
// pageHeight-1.
func Strips(r geom.Result, pageHeight int) []Strip {
	flat := r.FlatStaves()
	if len(flat) == 0 {
		return nil
	}

	// boundary[i] (0 < i < len(flat)) is the last row of strip i-1, and
	// strip i starts on the row after it; it lies at the midpoint of the
	// gap between the facing edges of staves i-1 and i.
	boundary := make([]int, len(flat)+1)
	boundary[0] = 0
	boundary[len(flat)] = pageHeight - 1
	for i := 1; i < len(flat); i++ {
		boundary[i] = (flat[i-1].Bottom() + flat[i].Top()) / 2
	}

	var out []Strip
	idx := 0
	for si, sy := range r.Systems {
		for sti := range sy.Staves {
			top := boundary[idx]
			if idx > 0 {
				top++
			}
			out = append(out, Strip{
				Top:    top,
				Bottom: boundary[idx+1],
				System: si,
				Stave:  sti,
			})
			idx++
		}
	}
	return out
}

// SystemSpans collapses Strips down to one row range per system,
// spanning from the top of its first strip to the bottom of its last.
// This is what a caller wants when instruments are grouped onto shared
// parts per system (e.g. a condensed score) rather than split one
// strip per stave.
func SystemSpans(strips []Strip) []Strip {
	var out []Strip
	for _, s := range strips {
		if len(out) == 0 || out[len(out)-1].System != s.System {
			out = append(out, Strip{Top: s.Top, Bottom: s.Bottom, System: s.System, Stave: -1})
			continue
		}
		out[len(out)-1].Bottom = s.Bottom
	}
	return out
}

// MarginUnion grows every strip by margin rows and merges the results
// into the minimal set of non-overlapping row ranges that covers them,
// for callers that crop a little padding around each instrument (for
// bracket decorations, ties that cross a stave boundary, and so on)
// and need to know where two padded crops would collide. It reuses
// package interval's endpoint-union representation, the same sorted
// start/end scan used for BED interval unions, specialised here to
// plain row coordinates instead of genomic positions.
func MarginUnion(strips []Strip, margin, pageHeight int) []Strip {
	if len(strips) == 0 {
		return nil
	}

	endpoints := make([]interval.PosType, 0, 2*len(strips))
	for _, s := range strips {
		grown := s.Margin(margin, pageHeight)
		endpoints = append(endpoints,
			interval.PosType(grown.Top),
			interval.PosType(grown.Bottom+1))
	}
	endpoints = mergeAdjacentPairs(endpoints)

	var out []Strip
	scanner := interval.NewUnionScanner(endpoints)
	var start, end interval.PosType
	for scanner.Scan(&start, &end, interval.PosType(pageHeight)) {
		out = append(out, Strip{Top: int(start), Bottom: int(end) - 1, Stave: -1, System: -1})
	}
	return out
}

// mergeAdjacentPairs collapses a [start0, end0, start1, end1, ...]
// endpoint list (pairs in any order) down to the sorted endpoints of
// disjoint intervals, which is what interval.UnionScanner expects: after
// sorting the pairs by start, a start that is <= the preceding end means
// the two source intervals overlap and fuse into one.
func mergeAdjacentPairs(endpoints []interval.PosType) []interval.PosType {
	type iv struct{ lo, hi interval.PosType }
	ivs := make([]iv, 0, len(endpoints)/2)
	for i := 0; i < len(endpoints); i += 2 {
		ivs = append(ivs, iv{endpoints[i], endpoints[i+1]})
	}
	sort.Slice(ivs, func(i, j int) bool { return ivs[i].lo < ivs[j].lo })

	var merged []iv
	for _, cur := range ivs {
		if len(merged) > 0 && cur.lo <= merged[len(merged)-1].hi {
			if cur.hi > merged[len(merged)-1].hi {
				merged[len(merged)-1].hi = cur.hi
			}
			continue
		}
		merged = append(merged, cur)
	}

	out := make([]interval.PosType, 0, 2*len(merged))
	for _, m := range merged {
		out = append(out, m.lo, m.hi)
	}
	return out
}
