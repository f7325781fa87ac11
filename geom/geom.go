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

// Package geom holds the structural types shared by every stage of the
// staff-detection pipeline: page images, masks, staves, systems and the
// final detection result. None of these types carry behavior beyond
// simple geometric queries; the pipeline stages (packages imaging,
// projection, peaks, staves, rescue, barline, systems, confidence, and
// the orchestrator in package detect) build and consume them.
package geom

import "fmt"

// PageImage is a single-channel, 8-bit-per-pixel rendering of one score
// page, row-major (Pix[y*W+x]).
type PageImage struct {
	H, W int
	Pix  []uint8
}

// At returns the intensity at (x, y).
func (p *PageImage) At(x, y int) uint8 {
	return p.Pix[y*p.W+x]
}

// BinaryMask is the output of binarisation: H*W pixels, each either 0 or
// 255, with 255 meaning ink.
type BinaryMask struct {
	H, W int
	Pix  []uint8
}

// Ink reports whether (x, y) is an ink pixel.
func (m *BinaryMask) Ink(x, y int) bool {
	return m.Pix[y*m.W+x] != 0
}

// Stave is the five row coordinates of one instrument's staff lines,
// strictly increasing: Stave[0] < Stave[1] < ... < Stave[4].
type Stave [5]int

// Top is the row of the stave's topmost line.
func (s Stave) Top() int { return s[0] }

// Bottom is the row of the stave's bottommost line.
func (s Stave) Bottom() int { return s[4] }

// Center is the midpoint row between the top and bottom lines.
func (s Stave) Center() float64 {
	return float64(s[0]+s[4]) / 2
}

// Span is the vertical extent (Bottom - Top) in rows.
func (s Stave) Span() int { return s[4] - s[0] }

// OverlapsVertically reports whether s and s1 share any row.
func (s Stave) OverlapsVertically(s1 Stave) bool {
	return s.Top() <= s1.Bottom() && s1.Top() <= s.Bottom()
}

// Valid reports whether the five rows are strictly increasing, the only
// shape a Stave is ever allowed to have once it escapes stage 4.
func (s Stave) Valid() bool {
	for i := 1; i < 5; i++ {
		if s[i] <= s[i-1] {
			return false
		}
	}
	return true
}

// System is a non-empty, top-to-bottom ordered group of staves played
// simultaneously.
type System struct {
	Staves []Stave
}

// Top is the topmost line of the system's first stave.
func (sy System) Top() int { return sy.Staves[0].Top() }

// Bottom is the bottommost line of the system's last stave.
func (sy System) Bottom() int { return sy.Staves[len(sy.Staves)-1].Bottom() }

// BarlineInfo describes the barline found (or not found) for one system.
// X and the span are nil when no barline was confirmed.
type BarlineInfo struct {
	X        *int
	Top, Bot *int
}

// Confirmed reports whether a barline column and span were found.
func (b BarlineInfo) Confirmed() bool {
	return b.X != nil && b.Top != nil && b.Bot != nil
}

// AxisScore is one of the three confidence axes: a score in [0, 1] plus
// the human-readable reasons that explain it.
type AxisScore struct {
	Score   float64
	Reasons []string
}

// ConfidenceReport combines the three axis scores into a total.
type ConfidenceReport struct {
	Total    float64
	Gap      AxisScore
	Barlines AxisScore
	Staves   AxisScore
}

// Result is the full structural output of the detection pipeline for one
// page, in the caller's original pixel coordinate space.
type Result struct {
	Systems     []System
	Orphans     []int
	BarlineInfo []BarlineInfo
	Confidence  ConfidenceReport
}

// FlatStaves returns every stave in the result, top-to-bottom, ignoring
// system boundaries.
func (r Result) FlatStaves() []Stave {
	var out []Stave
	for _, sy := range r.Systems {
		out = append(out, sy.Staves...)
	}
	return out
}

// Summary is a one-line human-readable description of the result, used
// by cmd/stavedetect and by detect.Detect's debug log line.
func (r Result) Summary() string {
	if len(r.Systems) == 0 {
		return "0 systems, 0 staves, confidence 0.00"
	}
	return fmt.Sprintf("%d systems, %d staves, confidence %.2f",
		len(r.Systems), len(r.FlatStaves()), r.Confidence.Total)
}
